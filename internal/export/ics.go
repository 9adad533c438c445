// Package export renders the canonical event set as an iCalendar feed so
// downstream calendar clients can subscribe to the synced schedule.
package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/venuelog/sheetsync/internal/errors"
	"github.com/venuelog/sheetsync/internal/logging"
	"github.com/venuelog/sheetsync/internal/models"
)

const productID = "-//venuelog//sheetsync//EN"

// Exporter builds ICS calendars from event records.
type Exporter struct {
	now func() time.Time
}

// New creates an Exporter using the wall clock.
func New() *Exporter {
	return &Exporter{now: time.Now}
}

// Calendar builds an all-day VEVENT per event. Rows whose date fails to
// parse are skipped with a warning; the canonical pipeline should never
// produce one.
func (e *Exporter) Calendar(events []models.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := e.now().UTC()
	for _, event := range events {
		day, err := time.Parse("2006-01-02", event.Date)
		if err != nil {
			logging.Warn("skipping event with non-canonical date", map[string]interface{}{
				"date":  event.Date,
				"title": event.Title,
			})
			continue
		}

		ve := cal.AddEvent(fmt.Sprintf("%s-%d@sheetsync", event.Date, event.SourceLine))
		ve.SetDtStampTime(stamp)
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ve.SetSummary(event.Title)
		ve.SetStatus(icsStatus(event.Status))

		if event.Room != "" {
			ve.SetLocation(event.Room)
		}
		if desc := description(event); desc != "" {
			ve.SetDescription(desc)
		}
	}

	return cal
}

// WriteFile serializes the calendar to path.
func (e *Exporter) WriteFile(path string, events []models.Event) error {
	cal := e.Calendar(events)
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0644); err != nil {
		return errors.Wrap(errors.ErrExport, "writing ICS file", err)
	}
	logging.Info("ICS feed written", map[string]interface{}{
		"path":   path,
		"events": len(events),
	})
	return nil
}

// icsStatus maps event status onto the VEVENT STATUS vocabulary.
func icsStatus(s models.EventStatus) ical.ObjectStatus {
	switch s {
	case models.StatusConfirmed:
		return ical.ObjectStatusConfirmed
	case models.StatusCancelled:
		return ical.ObjectStatusCancelled
	default:
		return ical.ObjectStatusTentative
	}
}

// description assembles the optional row fields into the event body.
func description(e models.Event) string {
	var parts []string
	if e.Promoter != "" {
		parts = append(parts, "Promoter: "+e.Promoter)
	}
	if e.Capacity != "" {
		parts = append(parts, "Capacity: "+e.Capacity)
	}
	return strings.Join(parts, "\n")
}
