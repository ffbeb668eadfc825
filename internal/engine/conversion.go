package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"nba-insights-go/internal/types"
)

// PredictConversion scores how likely a non-customer is to convert soon.
// Returns nil when the contact already converted or the signals are too thin.
func (e *Engine) PredictConversion(c *types.ContactContext, now time.Time) *types.Prediction {
	w := e.weights.Conversion

	// Already converted, nothing to predict here.
	if c.IsCustomer() && len(c.Transactions) > 0 {
		return nil
	}

	score := w.Base
	var fl factorLog

	if c.Profile != nil {
		if intent := c.Profile.IntentVector.Max("buy", "purchase"); intent > w.IntentThreshold {
			score += w.IntentBoost
			fl.add("high_purchase_intent", w.IntentBoost, fmt.Sprintf("%.2f", intent))
		} else if interest := c.Profile.IntentVector.Max("interest", "curious"); interest > w.InterestThreshold {
			score += w.InterestBoost
			fl.add("expressed_interest", w.InterestBoost, fmt.Sprintf("%.2f", interest))
		}
	}

	if q := c.LatestQuizResult(); q != nil && q.OutcomeName != "" {
		score += w.QuizBoost
		fl.add("completed_quiz", w.QuizBoost, q.OutcomeName)
	}

	// Recency bands are mutually exclusive, evaluated most-recent-first.
	if c.LastInteractionAt != nil {
		days := daysSince(*c.LastInteractionAt, now)
		switch {
		case days <= 1:
			score += w.RecentDayBoost
			fl.add("interacted_today", w.RecentDayBoost, "within 24h")
		case days <= 3:
			score += w.RecentThreeBoost
			fl.add("interacted_recently", w.RecentThreeBoost, fmt.Sprintf("%.0f days ago", days))
		case days > 14:
			score -= w.StalePenalty
			fl.add("gone_quiet", -w.StalePenalty, fmt.Sprintf("%.0f days silent", days))
		}
	}

	if c.Profile != nil && c.Profile.ConfidenceScore > w.ProfileThreshold {
		score += w.ProfileBoost
		fl.add("reliable_profile", w.ProfileBoost, fmt.Sprintf("%.2f", c.Profile.ConfidenceScore))
	}

	for _, tx := range c.Transactions {
		st := strings.ToLower(tx.Status)
		if strings.Contains(st, "pending") || strings.Contains(st, "abandoned") {
			score += w.OpenCheckoutBoost
			fl.add("open_checkout", w.OpenCheckoutBoost, tx.Status)
			break
		}
	}

	score = clamp01(score)
	if score < w.MinScore || fl.count() < minFactors {
		return nil
	}

	risk := types.RiskHigh
	switch {
	case score > 0.7:
		risk = types.RiskLow
	case score > 0.5:
		risk = types.RiskMedium
	}

	expires := now.Add(7 * 24 * time.Hour)
	return &types.Prediction{
		Type:         types.PredictionConversion,
		Confidence:   score,
		RiskLevel:    risk,
		UrgencyScore: math.Min(1, score+0.1),
		Explanation: types.Explanation{
			Summary:             fmt.Sprintf("%d signals point to a %.0f%% likelihood of conversion", fl.count(), score*100),
			Factors:             fl.factors,
			ConfidenceBreakdown: breakdown(c, fl.count(), patternDenomConversion, now),
		},
		RecommendedActions: generateConversionActions(c, score),
		ExpiresAt:          &expires,
	}
}

func daysSince(t, now time.Time) float64 {
	d := now.Sub(t).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}
