// Package export tests for the ICS feed.
package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/venuelog/sheetsync/internal/models"
)

func sampleEvents() []models.Event {
	return []models.Event{
		{Date: "2025-01-03", Title: "Winter Gala", Status: models.StatusConfirmed, Room: "Main Hall", Promoter: "Northside", Capacity: "450", SourceLine: 2},
		{Date: "2025-02-07", Title: "Acoustic Night", Status: models.StatusPending, SourceLine: 3},
		{Date: "2025-03-14", Title: "Spring Show", Status: models.StatusCancelled, SourceLine: 4},
	}
}

// TestCalendar verifies VEVENT generation and status mapping.
func TestCalendar(t *testing.T) {
	cal := New().Calendar(sampleEvents())
	serialized := cal.Serialize()

	if got := strings.Count(serialized, "BEGIN:VEVENT"); got != 3 {
		t.Fatalf("VEVENT count = %d, want 3", got)
	}

	checks := []string{
		"SUMMARY:Winter Gala",
		"STATUS:CONFIRMED",
		"SUMMARY:Acoustic Night",
		"STATUS:TENTATIVE",
		"SUMMARY:Spring Show",
		"STATUS:CANCELLED",
		"LOCATION:Main Hall",
		"DTSTART;VALUE=DATE:20250103",
	}
	for _, want := range checks {
		if !strings.Contains(serialized, want) {
			t.Errorf("serialized calendar missing %q", want)
		}
	}

	if !strings.Contains(serialized, "Promoter: Northside") {
		t.Error("description should carry the promoter")
	}
}

// TestCalendar_skipsBadDate verifies defensive date handling.
func TestCalendar_skipsBadDate(t *testing.T) {
	events := []models.Event{
		{Date: "not-a-date", Title: "Broken", Status: models.StatusPending, SourceLine: 2},
		{Date: "2025-01-03", Title: "Fine", Status: models.StatusPending, SourceLine: 3},
	}

	serialized := New().Calendar(events).Serialize()
	if got := strings.Count(serialized, "BEGIN:VEVENT"); got != 1 {
		t.Errorf("VEVENT count = %d, want 1", got)
	}
	if strings.Contains(serialized, "Broken") {
		t.Error("event with unparsable date should be skipped")
	}
}

// TestWriteFile verifies serialization to disk.
func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ics")

	if err := New().WriteFile(path, sampleEvents()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading ICS file: %v", err)
	}
	if !strings.HasPrefix(string(data), "BEGIN:VCALENDAR") {
		t.Errorf("file should start with BEGIN:VCALENDAR, got %q", string(data[:20]))
	}
}
