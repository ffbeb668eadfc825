package engine

import (
	"fmt"
	"time"

	"nba-insights-go/internal/types"
)

// PredictChurn estimates the risk of losing an existing customer. Applies
// only to customers with purchase history.
func (e *Engine) PredictChurn(c *types.ContactContext, now time.Time) *types.Prediction {
	w := e.weights.Churn

	if !c.IsCustomer() || len(c.Transactions) == 0 {
		return nil
	}

	risk := w.Base
	var fl factorLog

	if c.DaysSinceLastPurchase != nil {
		d := *c.DaysSinceLastPurchase
		if d > w.LongGapDays {
			risk += w.LongGapBoost
			fl.add("long_purchase_gap", w.LongGapBoost, fmt.Sprintf("%d days", d))
		} else if d > w.MidGapDays {
			risk += w.MidGapBoost
			fl.add("widening_purchase_gap", w.MidGapBoost, fmt.Sprintf("%d days", d))
		}
	}

	if c.LastInteractionAt != nil {
		if days := daysSince(*c.LastInteractionAt, now); days > float64(w.StaleDays) {
			risk += w.StaleBoost
			fl.add("gone_quiet", w.StaleBoost, fmt.Sprintf("%.0f days silent", days))
		}
	}

	if c.Profile != nil {
		if c.Profile.VolatilityScore > w.VolatilityThreshold {
			risk += w.VolatilityBoost
			fl.add("volatile_behavior", w.VolatilityBoost, fmt.Sprintf("%.2f", c.Profile.VolatilityScore))
		}
		if intent := c.Profile.IntentVector.Max("buy", "purchase"); intent < w.LowIntentThreshold {
			risk += w.LowIntentBoost
			fl.add("fading_intent", w.LowIntentBoost, fmt.Sprintf("%.2f", intent))
		}
	}

	risk = clamp01(risk)
	if risk < w.MinRisk || fl.count() < minFactors {
		return nil
	}

	level := types.RiskMedium
	switch {
	case risk > 0.7:
		level = types.RiskCritical
	case risk > 0.5:
		level = types.RiskHigh
	}

	expires := now.Add(14 * 24 * time.Hour)
	return &types.Prediction{
		Type:         types.PredictionChurn,
		Confidence:   risk,
		RiskLevel:    level,
		UrgencyScore: risk,
		Explanation: types.Explanation{
			Summary:             fmt.Sprintf("%d signals put churn risk at %.0f%%", fl.count(), risk*100),
			Factors:             fl.factors,
			ConfidenceBreakdown: breakdown(c, fl.count(), patternDenomChurn, now),
		},
		RecommendedActions: generateChurnPreventionActions(c, risk),
		ExpiresAt:          &expires,
	}
}
