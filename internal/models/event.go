package models

import (
	"database/sql/driver"
	"time"
)

// UUID is a wrapper around string for UUID v4 type safety.
type UUID string

// Value implements driver.Valuer for UUID.
func (u UUID) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner for UUID.
func (u *UUID) Scan(value interface{}) error {
	if value == nil {
		*u = ""
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*u = UUID(v)
	case string:
		*u = UUID(v)
	}
	return nil
}

// String returns the string representation of the UUID.
func (u UUID) String() string {
	return string(u)
}

// Event is one canonical event record produced from a sheet row.
// Ownership transfers to the caller once returned by the row parser;
// the core never mutates an Event afterward.
type Event struct {
	ID     UUID        `db:"id" json:"id"`
	Date   string      `db:"date" json:"date"` // canonical YYYY-MM-DD
	Title  string      `db:"title" json:"title"`
	Status EventStatus `db:"status" json:"status"`

	// Optional text fields, trimmed, empty when absent in the sheet.
	Room     string `db:"room" json:"room,omitempty"`
	Promoter string `db:"promoter" json:"promoter,omitempty"`
	Capacity string `db:"capacity" json:"capacity,omitempty"`

	// SourceLine is the 1-based row position in the original sheet,
	// header included, so data rows start at 2.
	SourceLine int `db:"source_line" json:"source_line"`

	// IsRecurring is always false at the ingestion layer; recurrence
	// detection belongs to a downstream collaborator.
	IsRecurring bool `db:"is_recurring" json:"is_recurring"`

	CreatedAt int64 `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Event.
func (Event) TableName() string {
	return "events"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (e *Event) CreatedAtTime() time.Time {
	return time.Unix(e.CreatedAt, 0)
}
