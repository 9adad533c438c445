// Package classifier provides tiered status inference from row background
// colors. Classification is total: every color yields a status, a
// confidence score and the tier that produced it.
package classifier

import "github.com/venuelog/sheetsync/internal/models"

// References returns the canonical color table. Declared order matters: it
// is the tie-break order for the tolerance tier and the scan order for the
// range tier. The second pending entry covers the legacy sheet palette.
func References() []models.ColorReference {
	return []models.ColorReference{
		{
			Status: models.StatusConfirmed,
			RGB:    models.RGBColor{Red: 182, Green: 215, Blue: 168},
			Hex:    "#b6d7a8",
			Ranges: models.ChannelRanges{
				Red:   models.ChannelRange{Min: 170, Max: 200},
				Green: models.ChannelRange{Min: 200, Max: 230},
				Blue:  models.ChannelRange{Min: 150, Max: 185},
			},
		},
		{
			Status: models.StatusPending,
			RGB:    models.RGBColor{Red: 255, Green: 217, Blue: 102},
			Hex:    "#ffd966",
			Ranges: models.ChannelRanges{
				Red:   models.ChannelRange{Min: 240, Max: 255},
				Green: models.ChannelRange{Min: 200, Max: 235},
				Blue:  models.ChannelRange{Min: 80, Max: 130},
			},
		},
		{
			Status: models.StatusCancelled,
			RGB:    models.RGBColor{Red: 224, Green: 102, Blue: 102},
			Hex:    "#e06666",
			Ranges: models.ChannelRanges{
				Red:   models.ChannelRange{Min: 210, Max: 240},
				Green: models.ChannelRange{Min: 80, Max: 125},
				Blue:  models.ChannelRange{Min: 80, Max: 125},
			},
		},
		{
			// Legacy palette pending (light yellow 2).
			Status: models.StatusPending,
			RGB:    models.RGBColor{Red: 255, Green: 229, Blue: 153},
			Hex:    "#ffe599",
			Ranges: models.ChannelRanges{
				Red:   models.ChannelRange{Min: 245, Max: 255},
				Green: models.ChannelRange{Min: 218, Max: 245},
				Blue:  models.ChannelRange{Min: 135, Max: 175},
			},
		},
	}
}
