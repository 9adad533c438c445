// Package rowparser turns raw sheet rows into canonical event records.
// One malformed row never aborts the batch: structural problems are
// skipped, date failures are isolated per row, and classification always
// degrades instead of failing.
package rowparser

import (
	"strings"

	"github.com/venuelog/sheetsync/internal/classifier"
	"github.com/venuelog/sheetsync/internal/dates"
	"github.com/venuelog/sheetsync/internal/logging"
	"github.com/venuelog/sheetsync/internal/models"
	"github.com/venuelog/sheetsync/internal/session"
)

// Sheet column layout. The first row is the header and is discarded.
const (
	colDate = iota
	colTitle
	colRoom
	colPromoter
	colCapacity
)

// RowFailure is one excluded row and the error that excluded it.
type RowFailure struct {
	Line int
	Err  error
}

// Parser composes the date normalizer and color classifier per row and
// records outcomes into the active session.
type Parser struct {
	dates      *dates.Normalizer
	classifier *classifier.Classifier
	sessions   *session.Manager
	calibrator *classifier.Calibrator
}

// New creates a Parser. The calibrator is optional; pass nil to disable
// calibration recording.
func New(d *dates.Normalizer, c *classifier.Classifier, s *session.Manager, cal *classifier.Calibrator) *Parser {
	return &Parser{dates: d, classifier: c, sessions: s, calibrator: cal}
}

// ParseRows converts the rectangular row set into events. rows includes
// the header row; rowColors is parallel to rows (nil entries mean the row
// carries no background color). The returned failures are the rows
// excluded by date errors; structural skips are logged only.
func (p *Parser) ParseRows(rows [][]string, rowColors []*models.RawColor, sheetYear string) ([]models.Event, []RowFailure) {
	if len(rows) < 2 {
		logging.Info("sheet has no data rows")
		return nil, nil
	}

	dataRows := rows[1:]
	p.sessions.SetTotalEvents(len(dataRows))

	var events []models.Event
	var failures []RowFailure

	for i, row := range dataRows {
		// 1-based sheet position, header included.
		line := i + 2

		if isBlank(row) {
			logging.Debug("skipping blank row", map[string]interface{}{"line": line})
			continue
		}

		date := strings.TrimSpace(cell(row, colDate))
		title := strings.TrimSpace(cell(row, colTitle))
		if date == "" || title == "" {
			logging.Debug("skipping row without date or title", map[string]interface{}{"line": line})
			continue
		}

		isoDate, err := p.dates.Normalize(date, sheetYear)
		if err != nil {
			logging.Warn("row excluded by date error", map[string]interface{}{
				"line": line,
				"date": date,
			})
			p.sessions.AddRowError(line, err)
			failures = append(failures, RowFailure{Line: line, Err: err})
			continue
		}

		result := p.classifyRow(rowColor(rowColors, i+1), line)

		events = append(events, models.Event{
			Date:        isoDate,
			Title:       title,
			Status:      result.Status,
			Room:        strings.TrimSpace(cell(row, colRoom)),
			Promoter:    strings.TrimSpace(cell(row, colPromoter)),
			Capacity:    strings.TrimSpace(cell(row, colCapacity)),
			SourceLine:  line,
			IsRecurring: false,
		})
		p.sessions.IncrementProcessed()
	}

	return events, failures
}

// classifyRow classifies a row's background color. A missing color means
// the pending default; a malformed color is recorded and degrades to the
// same default. Classification never excludes a row.
func (p *Parser) classifyRow(raw *models.RawColor, line int) models.ColorMatchResult {
	if raw == nil {
		return classifier.DefaultResult()
	}

	entry, err := p.classifier.BuildMatchLog(*raw)
	if err != nil {
		p.sessions.AddRowError(line, err)
		return classifier.DefaultResult()
	}

	p.sessions.AddColorMatch(entry)

	if p.calibrator != nil && entry.Final.Confidence > 0.7 {
		p.calibrator.Record(entry.Final.Status, entry.Normalized)
	}

	return entry.Final
}

// cell returns a column value, tolerating short rows.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// isBlank reports whether every cell is empty after trimming.
func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// rowColor returns the color parallel to a row index, tolerating a short
// or absent formatting structure.
func rowColor(rowColors []*models.RawColor, idx int) *models.RawColor {
	if idx >= len(rowColors) {
		return nil
	}
	return rowColors[idx]
}
