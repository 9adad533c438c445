package classifier

import (
	"time"

	"github.com/venuelog/sheetsync/internal/colormath"
	"github.com/venuelog/sheetsync/internal/errors"
	"github.com/venuelog/sheetsync/internal/logging"
	"github.com/venuelog/sheetsync/internal/models"
)

// BuildMatchLog normalizes a raw color, classifies it, and packages the
// full audit trail for the session. Normalization failure is the only
// error path; classification itself cannot fail.
func (c *Classifier) BuildMatchLog(raw models.RawColor) (*models.ColorMatchLog, error) {
	normalized, err := colormath.Normalize(raw)
	if err != nil {
		logging.Warn("color normalization failed", map[string]interface{}{
			"red":   raw.Red,
			"green": raw.Green,
			"blue":  raw.Blue,
		})
		return nil, errors.Wrap(errors.ErrNormalization, "cannot build match log", err)
	}

	result, attempts := c.classify(normalized)

	entry := &models.ColorMatchLog{
		Raw:        raw,
		Normalized: normalized,
		Hex:        colormath.ToHex(normalized),
		Attempts:   attempts,
		Final:      result,
		Timestamp:  time.Now().UTC(),
	}

	logging.Debug("color classified", map[string]interface{}{
		"hex":        entry.Hex,
		"status":     string(result.Status),
		"method":     string(result.Method),
		"confidence": result.Confidence,
	})

	return entry, nil
}
