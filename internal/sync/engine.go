// Package sync orchestrates one ingestion run: fetch the sheet, parse
// rows into events, gate on session quality, persist, and export.
package sync

import (
	"context"
	"time"

	"github.com/venuelog/sheetsync/internal/export"
	"github.com/venuelog/sheetsync/internal/logging"
	"github.com/venuelog/sheetsync/internal/models"
	"github.com/venuelog/sheetsync/internal/rowparser"
	"github.com/venuelog/sheetsync/internal/session"
	"github.com/venuelog/sheetsync/internal/sheets"
	"github.com/venuelog/sheetsync/internal/store"
)

// Engine composes the pipeline components.
type Engine struct {
	source   sheets.Source
	parser   *rowparser.Parser
	sessions *session.Manager
	store    *store.Store
	exporter *export.Exporter
	icsPath  string
}

// NewEngine creates an Engine. icsPath may be empty to disable the ICS
// export step.
func NewEngine(source sheets.Source, parser *rowparser.Parser, sessions *session.Manager,
	st *store.Store, exporter *export.Exporter, icsPath string) *Engine {
	return &Engine{
		source:   source,
		parser:   parser,
		sessions: sessions,
		store:    st,
		exporter: exporter,
		icsPath:  icsPath,
	}
}

// Result summarizes one sync run.
type Result struct {
	SessionID   models.UUID
	Duration    time.Duration
	TotalRows   int
	Events      int
	Failures    int
	SuccessRate float64
	Valid       bool
	Persisted   bool
}

// Run executes one full sync. The batch always completes; the store is
// only written when the session clears the quality gate. The session is
// sealed on every path.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	s := e.sessions.Start()
	start := time.Now()

	data, err := e.source.Fetch(ctx)
	if err != nil {
		e.sessions.AddError(err)
		e.finish(s, 0, false)
		return nil, err
	}

	events, failures := e.parser.ParseRows(data.Rows, data.RowColors, data.SheetYear)

	metrics, err := e.sessions.Metrics()
	if err != nil {
		return nil, err
	}
	valid, err := e.sessions.Validate()
	if err != nil {
		return nil, err
	}

	persisted := false
	if valid {
		if err := e.store.ReplaceAll(events); err != nil {
			e.sessions.AddError(err)
			e.finish(s, metrics.ColorMatchSuccessRate, false)
			return nil, err
		}
		persisted = true

		if e.icsPath != "" && e.exporter != nil {
			if err := e.exporter.WriteFile(e.icsPath, events); err != nil {
				// The store write already succeeded; the feed is advisory.
				logging.Error("ICS export failed", err)
				e.sessions.AddError(err)
			}
		}
	} else {
		logging.Warn("session failed validation, store left untouched", map[string]interface{}{
			"session_id":   s.ID.String(),
			"success_rate": metrics.ColorMatchSuccessRate,
			"matches":      len(s.Matches),
		})
	}

	result := &Result{
		SessionID:   s.ID,
		Duration:    time.Since(start),
		TotalRows:   s.TotalEvents,
		Events:      len(events),
		Failures:    len(failures),
		SuccessRate: metrics.ColorMatchSuccessRate,
		Valid:       valid,
		Persisted:   persisted,
	}

	e.finish(s, metrics.ColorMatchSuccessRate, valid)

	logging.Info("sync run complete", map[string]interface{}{
		"session_id":   result.SessionID.String(),
		"events":       result.Events,
		"failures":     result.Failures,
		"success_rate": result.SuccessRate,
		"valid":        result.Valid,
		"persisted":    result.Persisted,
	})
	return result, nil
}

// finish seals the session and persists its summary.
func (e *Engine) finish(s *models.SyncSession, successRate float64, valid bool) {
	e.sessions.End()

	endedAt := time.Now().Unix()
	if s.EndTime != nil {
		endedAt = s.EndTime.Unix()
	}

	run := &models.SyncRun{
		ID:              s.ID,
		StartedAt:       s.StartTime.Unix(),
		EndedAt:         endedAt,
		TotalEvents:     s.TotalEvents,
		ProcessedEvents: s.ProcessedEvents,
		SuccessRate:     successRate,
		ErrorCount:      len(s.Errors),
		Valid:           valid,
	}
	if err := e.store.SaveRun(run); err != nil {
		logging.Error("failed to persist sync run summary", err)
	}
}
