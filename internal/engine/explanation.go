package engine

import (
	"math"
	"time"

	"nba-insights-go/internal/types"
)

// Pattern-match denominators per heuristic: factor count over the maximum
// number of checks that heuristic performs. Tuning artifacts, kept as-is for
// output parity with the dashboard.
const (
	patternDenomConversion = 5
	patternDenomChurn      = 4
	patternDenomUpsell     = 4
	patternDenomEngagement = 3
)

// Fallbacks when the snapshot carries no profile or interaction history.
const (
	fallbackDataQuality = 0.5
	fallbackRecency     = 0.5
)

// factorLog accumulates explanation factors in evaluation order. Order is
// preserved for reproducibility, never re-sorted by magnitude.
type factorLog struct {
	factors []types.Factor
}

func (f *factorLog) add(name string, weight float64, display string) {
	impact := "positive"
	if weight < 0 {
		impact = "negative"
	}
	f.factors = append(f.factors, types.Factor{
		Name:         name,
		Impact:       impact,
		Weight:       math.Abs(weight),
		DisplayValue: display,
	})
}

func (f *factorLog) count() int { return len(f.factors) }

// breakdown computes the diagnostic confidence breakdown. The three values
// feed the dashboard's transparency panel; they are never folded back into
// the prediction confidence.
func breakdown(c *types.ContactContext, factors int, denom int, now time.Time) types.ConfidenceBreakdown {
	dq := fallbackDataQuality
	if c.Profile != nil {
		dq = clamp01(c.Profile.ConfidenceScore)
	}
	rec := fallbackRecency
	if c.LastInteractionAt != nil {
		days := now.Sub(*c.LastInteractionAt).Hours() / 24
		if days < 0 {
			days = 0
		}
		rec = math.Exp(-days / 14)
	}
	return types.ConfidenceBreakdown{
		DataQuality:  dq,
		PatternMatch: clamp01(float64(factors) / float64(denom)),
		Recency:      rec,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
