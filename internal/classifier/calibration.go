package classifier

import (
	"sync"
	"time"

	"github.com/venuelog/sheetsync/internal/colormath"
	"github.com/venuelog/sheetsync/internal/models"
)

// CalibrationRecord accumulates observed variation for one status so that
// tolerance thresholds can be tuned offline. It never feeds back into
// classification within the same session.
type CalibrationRecord struct {
	Status      models.EventStatus `json:"status"`
	Count       int                `json:"count"`
	MaxDistance float64            `json:"max_distance"`
	LastUpdated time.Time          `json:"last_updated"`
}

// Calibrator records confirmed matches per status.
type Calibrator struct {
	mu      sync.Mutex
	refs    []models.ColorReference
	records map[models.EventStatus]*CalibrationRecord
}

// NewCalibrator creates a Calibrator over the canonical reference table.
func NewCalibrator() *Calibrator {
	return &Calibrator{
		refs:    References(),
		records: make(map[models.EventStatus]*CalibrationRecord),
	}
}

// Record notes one confirmed match for a status, tracking the distance of
// the observed color from the status's canonical reference.
func (c *Calibrator) Record(status models.EventStatus, color models.RGBColor) {
	ref, ok := c.referenceFor(status)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.records[status]
	if rec == nil {
		rec = &CalibrationRecord{Status: status}
		c.records[status] = rec
	}

	d := colormath.Distance(color, ref.RGB)
	if d > rec.MaxDistance {
		rec.MaxDistance = d
	}
	rec.Count++
	rec.LastUpdated = time.Now().UTC()
}

// Snapshot returns a copy of the current calibration state.
func (c *Calibrator) Snapshot() map[models.EventStatus]CalibrationRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[models.EventStatus]CalibrationRecord, len(c.records))
	for status, rec := range c.records {
		out[status] = *rec
	}
	return out
}

// referenceFor returns the first declared reference for a status.
func (c *Calibrator) referenceFor(status models.EventStatus) (models.ColorReference, bool) {
	for _, ref := range c.refs {
		if ref.Status == status {
			return ref, true
		}
	}
	return models.ColorReference{}, false
}
