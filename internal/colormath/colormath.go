// Package colormath provides pure numeric utilities for color handling:
// normalization of raw sheet colors, Euclidean distance, hex encoding, and
// range containment. All functions are stateless.
package colormath

import (
	"fmt"
	"math"

	"github.com/venuelog/sheetsync/internal/errors"
	"github.com/venuelog/sheetsync/internal/models"
)

// Normalize converts a raw sheet color into an RGBColor with channels in
// [0,255]. The red channel decides the input shape: red <= 1 means all
// channels are fractional [0,1] and are scaled by 255; red > 1 means the
// channels are already 0-255 and are only rounded. Negative or NaN channels
// fail with a NORMALIZATION_ERROR.
func Normalize(raw models.RawColor) (models.RGBColor, error) {
	channels := [3]float64{raw.Red, raw.Green, raw.Blue}
	for i, c := range channels {
		if math.IsNaN(c) || c < 0 {
			return models.RGBColor{}, errors.Newf(errors.ErrNormalization,
				"channel %d is not a valid color value: %v", i, c)
		}
	}

	scale := 1.0
	if raw.Red <= 1 {
		scale = 255.0
	}

	return models.RGBColor{
		Red:   clampChannel(math.Round(raw.Red * scale)),
		Green: clampChannel(math.Round(raw.Green * scale)),
		Blue:  clampChannel(math.Round(raw.Blue * scale)),
	}, nil
}

// clampChannel caps a rounded channel value to the [0,255] invariant.
func clampChannel(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

// Distance returns the Euclidean distance between two colors over the
// 3-channel space.
func Distance(a, b models.RGBColor) float64 {
	dr := float64(a.Red - b.Red)
	dg := float64(a.Green - b.Green)
	db := float64(a.Blue - b.Blue)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// ToHex returns the lowercase #rrggbb encoding of a color, each channel
// zero-padded to two hex digits.
func ToHex(c models.RGBColor) string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

// InRange reports whether every channel of c lies within its inclusive
// [Min,Max] window.
func InRange(c models.RGBColor, r models.ChannelRanges) bool {
	return c.Red >= r.Red.Min && c.Red <= r.Red.Max &&
		c.Green >= r.Green.Min && c.Green <= r.Green.Max &&
		c.Blue >= r.Blue.Min && c.Blue <= r.Blue.Max
}
