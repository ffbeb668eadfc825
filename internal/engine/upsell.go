package engine

import (
	"fmt"
	"time"

	"nba-insights-go/internal/types"
)

// PredictUpsell estimates the potential of selling more to an existing
// customer. Applies only to customers with purchase history.
func (e *Engine) PredictUpsell(c *types.ContactContext, now time.Time) *types.Prediction {
	w := e.weights.Upsell

	if !c.IsCustomer() || len(c.Transactions) == 0 {
		return nil
	}

	potential := w.Base
	var fl factorLog

	if len(c.Transactions) >= 2 {
		potential += w.RepeatBoost
		fl.add("repeat_buyer", w.RepeatBoost, fmt.Sprintf("%d purchases", len(c.Transactions)))
	}

	if c.TotalRevenue > w.RevenueThreshold {
		potential += w.RevenueBoost
		fl.add("high_lifetime_value", w.RevenueBoost, fmt.Sprintf("%.2f", c.TotalRevenue))
	}

	if c.Profile != nil {
		if affinity := c.Profile.TraitVector.Max("premium", "high_value"); affinity > w.PremiumThreshold {
			potential += w.PremiumBoost
			fl.add("premium_affinity", w.PremiumBoost, fmt.Sprintf("%.2f", affinity))
		}
	}

	if c.LastInteractionAt != nil {
		if days := daysSince(*c.LastInteractionAt, now); days <= float64(w.RecentDays) {
			potential += w.RecentBoost
			fl.add("recently_active", w.RecentBoost, fmt.Sprintf("%.0f days ago", days))
		}
	}

	potential = clamp01(potential)
	if potential < w.MinPotential || fl.count() < minFactors {
		return nil
	}

	expires := now.Add(30 * 24 * time.Hour)
	return &types.Prediction{
		Type:         types.PredictionUpsell,
		Confidence:   potential,
		RiskLevel:    types.RiskLow,
		UrgencyScore: potential * 0.7,
		Explanation: types.Explanation{
			Summary:             fmt.Sprintf("%d signals put upsell potential at %.0f%%", fl.count(), potential*100),
			Factors:             fl.factors,
			ConfidenceBreakdown: breakdown(c, fl.count(), patternDenomUpsell, now),
		},
		RecommendedActions: generateUpsellActions(c),
		ExpiresAt:          &expires,
	}
}
