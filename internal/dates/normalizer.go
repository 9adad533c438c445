// Package dates normalizes free-text sheet dates into canonical
// YYYY-MM-DD form. Input tolerates the handful of formats humans actually
// type into the sheet: "January 3", "January 3rd", "3 January", a weekday
// prefix, stray commas and periods.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/venuelog/sheetsync/internal/errors"
	"github.com/venuelog/sheetsync/internal/logging"
)

// maxYear bounds accepted dates; anything after 2026-12-31 is rejected
// with FUTURE_DATE.
const maxYear = 2026

// daysInMonth is the fixed non-leap-year day table. February is capped at
// 28 regardless of leap status; a deliberate simplification carried over
// from the sheet's validation rules.
var daysInMonth = map[time.Month]int{
	time.January:   31,
	time.February:  28,
	time.March:     31,
	time.April:     30,
	time.May:       31,
	time.June:      30,
	time.July:      31,
	time.August:    31,
	time.September: 30,
	time.October:   31,
	time.November:  30,
	time.December:  31,
}

var monthByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

var (
	canonicalRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	ordinalRe   = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)\b`)
)

// Normalizer parses free-text dates against a sheet-year hint. The clock
// is injectable so the December year-rollback rule is testable.
type Normalizer struct {
	now func() time.Time
}

// New creates a Normalizer using the wall clock.
func New() *Normalizer {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Normalizer with an explicit clock.
func NewWithClock(clock func() time.Time) *Normalizer {
	return &Normalizer{now: clock}
}

// Normalize converts a raw date string into canonical YYYY-MM-DD using the
// sheet-year hint to resolve the missing year. Failures carry one of the
// reasons PARSE_ERROR, INVALID_DAY or FUTURE_DATE.
func (n *Normalizer) Normalize(raw, sheetYearHint string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	// Already canonical: passthrough, untouched.
	if canonicalRe.MatchString(trimmed) {
		logging.Debug("date already canonical", map[string]interface{}{
			"original": raw,
		})
		return trimmed, nil
	}

	sanitized := sanitize(trimmed)

	month, day, ok := parseCandidates(sanitized)
	if !ok {
		logging.Warn("date parse failed", map[string]interface{}{
			"original":  raw,
			"sanitized": sanitized,
			"hint_year": sheetYearHint,
		})
		return "", errors.Newf(errors.ErrParse, "unparsable date %q", raw)
	}

	if day < 1 || day > daysInMonth[month] {
		logging.Warn("day out of range for month", map[string]interface{}{
			"original": raw,
			"month":    month.String(),
			"day":      day,
		})
		return "", errors.Newf(errors.ErrInvalidDay, "day %d exceeds %s cap", day, month)
	}

	year, err := strconv.Atoi(strings.TrimSpace(sheetYearHint))
	if err != nil {
		return "", errors.Newf(errors.ErrParse, "invalid sheet year hint %q", sheetYearHint)
	}

	// A December entry on a sheet labeled for the following year belongs
	// to the year before the label.
	if month == time.December && year > n.now().Year() {
		year--
	}

	if year > maxYear {
		logging.Warn("date beyond accepted bound", map[string]interface{}{
			"original":      raw,
			"resolved_year": year,
		})
		return "", errors.Newf(errors.ErrFutureDate, "%d-%02d-%02d is beyond %d-12-31", year, int(month), day, maxYear)
	}

	result := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
	logging.Debug("date normalized", map[string]interface{}{
		"original":      raw,
		"sanitized":     sanitized,
		"hint_year":     sheetYearHint,
		"resolved_year": year,
		"result":        result,
	})
	return result, nil
}

// sanitize strips a leading weekday name, commas, periods and ordinal
// suffixes, and collapses whitespace.
func sanitize(s string) string {
	fields := strings.Fields(s)
	if len(fields) > 0 {
		first := strings.ToLower(strings.TrimSuffix(fields[0], ","))
		if weekdayNames[first] {
			fields = fields[1:]
		}
	}

	joined := strings.Join(fields, " ")
	joined = strings.NewReplacer(",", "", ".", "").Replace(joined)
	joined = ordinalRe.ReplaceAllString(joined, "$1")

	return strings.Join(strings.Fields(joined), " ")
}

// parseCandidates tries the ordered format candidates: "Month Day" first,
// then "Day Month". Structural match only; day-of-month validity is the
// caller's concern.
func parseCandidates(s string) (time.Month, int, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, false
	}

	// Month Day
	if month, ok := monthByName[strings.ToLower(fields[0])]; ok {
		if day, err := strconv.Atoi(fields[1]); err == nil {
			return month, day, true
		}
	}

	// Day Month
	if month, ok := monthByName[strings.ToLower(fields[1])]; ok {
		if day, err := strconv.Atoi(fields[0]); err == nil {
			return month, day, true
		}
	}

	return 0, 0, false
}
