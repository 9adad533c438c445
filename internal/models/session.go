package models

import "time"

// SessionError is one error recorded during an ingestion session.
type SessionError struct {
	Message   string    `json:"message"`
	Line      int       `json:"line,omitempty"` // sheet line, 0 when not row-scoped
	Timestamp time.Time `json:"timestamp"`
}

// SyncSession is one ingestion run's bookkeeping scope. It is mutated only
// through the session manager while active and sealed by EndTime.
type SyncSession struct {
	ID              UUID             `json:"id"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         *time.Time       `json:"end_time,omitempty"`
	TotalEvents     int              `json:"total_events"`
	ProcessedEvents int              `json:"processed_events"`
	Matches         []*ColorMatchLog `json:"matches"`
	Errors          []SessionError   `json:"errors"`
}

// SyncMetrics is a derived, read-only snapshot of the active session.
type SyncMetrics struct {
	ColorMatchSuccessRate float64        `json:"color_match_success_rate"`
	AverageProcessingTime time.Duration  `json:"average_processing_time"`
	ErrorFrequency        map[string]int `json:"error_frequency"`
}

// SyncRun is the persisted summary of a sealed session.
type SyncRun struct {
	ID              UUID    `db:"id" json:"id"`
	StartedAt       int64   `db:"started_at" json:"started_at"`
	EndedAt         int64   `db:"ended_at" json:"ended_at"`
	TotalEvents     int     `db:"total_events" json:"total_events"`
	ProcessedEvents int     `db:"processed_events" json:"processed_events"`
	SuccessRate     float64 `db:"success_rate" json:"success_rate"`
	ErrorCount      int     `db:"error_count" json:"error_count"`
	Valid           bool    `db:"valid" json:"valid"`
}

// TableName returns the table name for SyncRun.
func (SyncRun) TableName() string {
	return "sync_runs"
}
