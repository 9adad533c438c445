package classifier

import (
	"math"

	"github.com/venuelog/sheetsync/internal/colormath"
	"github.com/venuelog/sheetsync/internal/logging"
	"github.com/venuelog/sheetsync/internal/models"
)

// matchTolerance is the maximum Euclidean distance from a canonical color
// for the exact/tolerance tier.
const matchTolerance = 10.0

const (
	rangeConfidence     = 0.7
	heuristicConfidence = 0.5
)

// Classifier infers an event status from a normalized color.
type Classifier struct {
	refs []models.ColorReference
}

// New creates a Classifier over the canonical reference table.
func New() *Classifier {
	return &Classifier{refs: References()}
}

// DefaultResult is the degraded result used when a row carries no
// background color at all.
func DefaultResult() models.ColorMatchResult {
	return models.ColorMatchResult{
		Status:     models.StatusPending,
		Confidence: 0,
		Method:     models.MatchFallback,
	}
}

// Classify infers a status for a color. It is a total function: the worst
// case is pending with confidence 0 via the fallback tier.
func (c *Classifier) Classify(color models.RGBColor) models.ColorMatchResult {
	result, _ := c.classify(color)
	return result
}

// classify runs the three tiers in order and returns the final result plus
// the ordered attempts considered along the way.
func (c *Classifier) classify(color models.RGBColor) (models.ColorMatchResult, []models.MatchAttempt) {
	var attempts []models.MatchAttempt

	// Tier 1: exact/tolerance. Every reference is measured; the candidate
	// with the highest confidence wins, ties going to the first declared.
	best := models.ColorMatchResult{}
	found := false
	for _, ref := range c.refs {
		d := colormath.Distance(color, ref.RGB)
		if d > matchTolerance {
			continue
		}
		method := models.MatchTolerance
		if d == 0 {
			method = models.MatchExact
		}
		confidence := math.Max(0, 1-d/(3*matchTolerance))
		attempts = append(attempts, models.MatchAttempt{
			Status:     ref.Status,
			Distance:   d,
			Confidence: confidence,
			Method:     method,
		})
		if !found || confidence > best.Confidence {
			best = models.ColorMatchResult{Status: ref.Status, Confidence: confidence, Method: method}
			found = true
		}
	}
	if found {
		return best, attempts
	}

	// Tier 2: range containment, first declared match wins.
	for _, ref := range c.refs {
		if !colormath.InRange(color, ref.Ranges) {
			continue
		}
		result := models.ColorMatchResult{
			Status:     ref.Status,
			Confidence: rangeConfidence,
			Method:     models.MatchRange,
		}
		attempts = append(attempts, models.MatchAttempt{
			Status:     ref.Status,
			Distance:   colormath.Distance(color, ref.RGB),
			Confidence: rangeConfidence,
			Method:     models.MatchRange,
		})
		return result, attempts
	}

	// Tier 3: heuristic channel dominance, rules in strict order.
	result := c.fallback(color)
	attempts = append(attempts, models.MatchAttempt{
		Status:     result.Status,
		Confidence: result.Confidence,
		Method:     models.MatchFallback,
	})
	return result, attempts
}

// fallback applies the ordered channel-dominance rules.
func (c *Classifier) fallback(color models.RGBColor) models.ColorMatchResult {
	r, g, b := color.Red, color.Green, color.Blue

	switch {
	case g > r && g > b && g > 140:
		return models.ColorMatchResult{Status: models.StatusConfirmed, Confidence: heuristicConfidence, Method: models.MatchFallback}
	case r > g && r > b && r > 200:
		return models.ColorMatchResult{Status: models.StatusCancelled, Confidence: heuristicConfidence, Method: models.MatchFallback}
	case r > 200 && g > 140 && b < 120:
		return models.ColorMatchResult{Status: models.StatusPending, Confidence: heuristicConfidence, Method: models.MatchFallback}
	default:
		logging.Debug("color fallback exhausted, defaulting to pending", map[string]interface{}{
			"color": colormath.ToHex(color),
		})
		return DefaultResult()
	}
}
