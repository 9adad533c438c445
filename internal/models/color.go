// Package models provides data model definitions for the sheetsync core.
package models

import "time"

// EventStatus is the categorical status inferred for an event row.
type EventStatus string

const (
	StatusConfirmed EventStatus = "confirmed"
	StatusPending   EventStatus = "pending"
	StatusCancelled EventStatus = "cancelled"
)

// RawColor is a background color as delivered by the sheet source, before
// normalization. Channels are either fractional ([0,1], the Sheets API
// shape) or integer-valued (0-255, the legacy shape); the red channel
// decides which shape the whole value is in.
type RawColor struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// RGBColor is a normalized color. Invariant: every channel is in [0,255].
type RGBColor struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
}

// ChannelRange is an inclusive [Min,Max] acceptance window for one channel.
type ChannelRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ChannelRanges is the per-channel bounding box of a color reference.
type ChannelRanges struct {
	Red   ChannelRange `json:"red"`
	Green ChannelRange `json:"green"`
	Blue  ChannelRange `json:"blue"`
}

// ColorReference is a named status's canonical color. References are built
// once at process start and never mutated.
type ColorReference struct {
	Status EventStatus
	RGB    RGBColor
	Hex    string
	Ranges ChannelRanges
}

// MatchMethod identifies the classification tier that produced a result,
// in decreasing certainty order: exact, tolerance, range, fallback.
type MatchMethod string

const (
	MatchExact     MatchMethod = "exact"
	MatchTolerance MatchMethod = "tolerance"
	MatchRange     MatchMethod = "range"
	MatchFallback  MatchMethod = "fallback"
)

// ColorMatchResult is the outcome of one classification call.
// Confidence is a [0,1] heuristic score, not a probability.
type ColorMatchResult struct {
	Status     EventStatus `json:"status"`
	Confidence float64     `json:"confidence"`
	Method     MatchMethod `json:"method"`
}

// MatchAttempt records one considered candidate during classification.
type MatchAttempt struct {
	Status     EventStatus `json:"status"`
	Distance   float64     `json:"distance"`
	Confidence float64     `json:"confidence"`
	Method     MatchMethod `json:"method"`
}

// ColorMatchLog is the full audit trail for one classified row. It is
// owned by the session that recorded it and immutable after creation.
type ColorMatchLog struct {
	Raw        RawColor         `json:"raw"`
	Normalized RGBColor         `json:"normalized"`
	Hex        string           `json:"hex"`
	Attempts   []MatchAttempt   `json:"attempts"`
	Final      ColorMatchResult `json:"final"`
	Timestamp  time.Time        `json:"timestamp"`
}
