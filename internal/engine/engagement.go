package engine

import (
	"fmt"
	"time"

	"nba-insights-go/internal/types"
)

// PredictEngagement scores how actively a non-customer is engaging.
// Customers are skipped here; churn and upsell cover them instead.
// Intentionally more permissive than the other heuristics: there is a factor
// floor but no score floor.
func (e *Engine) PredictEngagement(c *types.ContactContext, now time.Time) *types.Prediction {
	w := e.weights.Engagement

	if c.IsCustomer() {
		return nil
	}

	score := w.Base
	var fl factorLog

	window := now.Add(-time.Duration(w.ActiveWindowDays) * 24 * time.Hour)
	recent := 0
	for _, ev := range c.Events {
		if !ev.OccurredAt.Before(window) && !ev.OccurredAt.After(now) {
			recent++
		}
	}
	if recent >= w.ActiveEventCount {
		score += w.ActiveBoost
		fl.add("active_this_week", w.ActiveBoost, fmt.Sprintf("%d events", recent))
	}

	if c.Profile != nil {
		if c.Profile.EntropyScore > w.EntropyThreshold {
			score += w.EntropyBoost
			fl.add("exploring_widely", w.EntropyBoost, fmt.Sprintf("%.2f", c.Profile.EntropyScore))
		}
		if c.Profile.TotalSignals > w.SignalCount {
			score += w.SignalBoost
			fl.add("rich_signal_history", w.SignalBoost, fmt.Sprintf("%d signals", c.Profile.TotalSignals))
		}
	}

	score = clamp01(score)
	if fl.count() < minFactors {
		return nil
	}

	risk := types.RiskMedium
	if score > 0.6 {
		risk = types.RiskLow
	}

	expires := now.Add(14 * 24 * time.Hour)
	return &types.Prediction{
		Type:         types.PredictionEngagement,
		Confidence:   score,
		RiskLevel:    risk,
		UrgencyScore: score * 0.5,
		Explanation: types.Explanation{
			Summary:             fmt.Sprintf("%d signals show active engagement (%.0f%%)", fl.count(), score*100),
			Factors:             fl.factors,
			ConfidenceBreakdown: breakdown(c, fl.count(), patternDenomEngagement, now),
		},
		RecommendedActions: generateEngagementActions(),
		ExpiresAt:          &expires,
	}
}
