// Package classifier tests for tiered color classification.
package classifier

import (
	"math"
	"testing"

	"github.com/venuelog/sheetsync/internal/errors"
	"github.com/venuelog/sheetsync/internal/models"
)

// TestClassify_exact verifies canonical colors match at distance 0.
func TestClassify_exact(t *testing.T) {
	c := New()

	tests := []struct {
		name  string
		color models.RGBColor
		want  models.EventStatus
	}{
		{"confirmed green", models.RGBColor{Red: 182, Green: 215, Blue: 168}, models.StatusConfirmed},
		{"pending yellow", models.RGBColor{Red: 255, Green: 217, Blue: 102}, models.StatusPending},
		{"cancelled red", models.RGBColor{Red: 224, Green: 102, Blue: 102}, models.StatusCancelled},
		{"legacy pending yellow", models.RGBColor{Red: 255, Green: 229, Blue: 153}, models.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.color)
			if got.Status != tt.want {
				t.Errorf("status = %q, want %q", got.Status, tt.want)
			}
			if got.Method != models.MatchExact {
				t.Errorf("method = %q, want exact", got.Method)
			}
			if got.Confidence != 1.0 {
				t.Errorf("confidence = %v, want 1.0", got.Confidence)
			}
		})
	}
}

// TestClassify_tolerance verifies near-canonical colors match with
// confidence decreasing monotonically with distance.
func TestClassify_tolerance(t *testing.T) {
	c := New()

	// Distance 3 and 6 from the confirmed canonical along the blue axis.
	near := c.Classify(models.RGBColor{Red: 182, Green: 215, Blue: 171})
	far := c.Classify(models.RGBColor{Red: 182, Green: 215, Blue: 174})

	for _, r := range []models.ColorMatchResult{near, far} {
		if r.Status != models.StatusConfirmed {
			t.Fatalf("status = %q, want confirmed", r.Status)
		}
		if r.Method != models.MatchTolerance {
			t.Fatalf("method = %q, want tolerance", r.Method)
		}
	}

	if math.Abs(near.Confidence-0.9) > 1e-9 {
		t.Errorf("confidence at distance 3 = %v, want 0.9", near.Confidence)
	}
	if math.Abs(far.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence at distance 6 = %v, want 0.8", far.Confidence)
	}
	if near.Confidence <= far.Confidence {
		t.Errorf("confidence should decrease with distance: %v <= %v", near.Confidence, far.Confidence)
	}
}

// TestClassify_range verifies the range tier fires outside tolerance but
// inside a reference's bounding box, at confidence exactly 0.7.
func TestClassify_range(t *testing.T) {
	c := New()

	// Inside the confirmed box, ~17.8 from the canonical.
	got := c.Classify(models.RGBColor{Red: 175, Green: 205, Blue: 155})

	if got.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
	if got.Method != models.MatchRange {
		t.Errorf("method = %q, want range", got.Method)
	}
	if got.Confidence != 0.7 {
		t.Errorf("confidence = %v, want exactly 0.7", got.Confidence)
	}
}

// TestClassify_fallback verifies the heuristic tier rules in order.
func TestClassify_fallback(t *testing.T) {
	c := New()

	tests := []struct {
		name       string
		color      models.RGBColor
		wantStatus models.EventStatus
		wantConf   float64
	}{
		{"green dominant", models.RGBColor{Red: 100, Green: 180, Blue: 90}, models.StatusConfirmed, 0.5},
		{"red dominant", models.RGBColor{Red: 230, Green: 80, Blue: 60}, models.StatusCancelled, 0.5},
		{"bright yellow tie", models.RGBColor{Red: 210, Green: 210, Blue: 100}, models.StatusPending, 0.5},
		{"black degrades to pending", models.RGBColor{Red: 0, Green: 0, Blue: 0}, models.StatusPending, 0},
		{"dim gray degrades to pending", models.RGBColor{Red: 60, Green: 60, Blue: 60}, models.StatusPending, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.color)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConf)
			}
			if got.Method != models.MatchFallback {
				t.Errorf("method = %q, want fallback", got.Method)
			}
		})
	}
}

// TestBuildMatchLog verifies the audit trail packaging.
func TestBuildMatchLog(t *testing.T) {
	c := New()

	// Sheets API fractional shape for the pending yellow.
	raw := models.RawColor{Red: 1.0, Green: 0.8509803921568627, Blue: 0.4}

	entry, err := c.BuildMatchLog(raw)
	if err != nil {
		t.Fatalf("BuildMatchLog failed: %v", err)
	}

	if entry.Raw != raw {
		t.Errorf("raw = %+v, want %+v", entry.Raw, raw)
	}
	want := models.RGBColor{Red: 255, Green: 217, Blue: 102}
	if entry.Normalized != want {
		t.Errorf("normalized = %+v, want %+v", entry.Normalized, want)
	}
	if entry.Hex != "#ffd966" {
		t.Errorf("hex = %q, want #ffd966", entry.Hex)
	}
	if entry.Final.Status != models.StatusPending {
		t.Errorf("final status = %q, want pending", entry.Final.Status)
	}
	if entry.Final.Method != models.MatchExact {
		t.Errorf("final method = %q, want exact", entry.Final.Method)
	}
	if len(entry.Attempts) == 0 {
		t.Error("attempts should not be empty")
	}
	if entry.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

// TestBuildMatchLog_malformed verifies normalization failures surface.
func TestBuildMatchLog_malformed(t *testing.T) {
	c := New()

	_, err := c.BuildMatchLog(models.RawColor{Red: -1, Green: 0.5, Blue: 0.5})
	if err == nil {
		t.Fatal("BuildMatchLog should fail on a negative channel")
	}
	if !errors.Is(err, errors.ErrNormalization) {
		t.Errorf("error code = %v, want NORMALIZATION_ERROR", err)
	}
}

// TestDefaultResult verifies the degraded default.
func TestDefaultResult(t *testing.T) {
	got := DefaultResult()
	if got.Status != models.StatusPending || got.Confidence != 0 || got.Method != models.MatchFallback {
		t.Errorf("DefaultResult() = %+v, want pending/0/fallback", got)
	}
}

// TestCalibrator verifies confirmed-match accumulation.
func TestCalibrator(t *testing.T) {
	cal := NewCalibrator()

	cal.Record(models.StatusConfirmed, models.RGBColor{Red: 182, Green: 215, Blue: 168})
	cal.Record(models.StatusConfirmed, models.RGBColor{Red: 182, Green: 215, Blue: 174})

	snap := cal.Snapshot()
	rec, ok := snap[models.StatusConfirmed]
	if !ok {
		t.Fatal("confirmed record missing")
	}
	if rec.Count != 2 {
		t.Errorf("count = %d, want 2", rec.Count)
	}
	if math.Abs(rec.MaxDistance-6) > 1e-9 {
		t.Errorf("max distance = %v, want 6", rec.MaxDistance)
	}
	if rec.LastUpdated.IsZero() {
		t.Error("last updated should be set")
	}

	if _, ok := snap[models.StatusCancelled]; ok {
		t.Error("cancelled record should not exist")
	}
}
