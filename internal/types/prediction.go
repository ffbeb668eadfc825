package types

import "time"

// --------------------------------------------
// Prediction enumerations
// --------------------------------------------
type PredictionType string

const (
	PredictionConversion    PredictionType = "conversion"
	PredictionChurn         PredictionType = "churn"
	PredictionUpsell        PredictionType = "upsell"
	PredictionCrossSell     PredictionType = "cross_sell"
	PredictionInterestShift PredictionType = "interest_shift"
	PredictionEngagement    PredictionType = "engagement"
	PredictionReactivation  PredictionType = "reactivation"
	PredictionNurture       PredictionType = "nurture"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type ActionType string

const (
	ActionSendMessage    ActionType = "send_message"
	ActionSendOffer      ActionType = "send_offer"
	ActionAddToSequence  ActionType = "add_to_sequence"
	ActionAssignTag      ActionType = "assign_tag"
	ActionMoveStage      ActionType = "move_stage"
	ActionScheduleCall   ActionType = "schedule_call"
	ActionSendSurvey     ActionType = "send_survey"
	ActionWaitAndObserve ActionType = "wait_and_observe"
)

// --------------------------------------------
// Explanation
// --------------------------------------------

// Factor is one weighted contribution recorded while a heuristic evaluated
// its conditions. Order of factors = evaluation order.
type Factor struct {
	Name         string  `json:"name"`
	Impact       string  `json:"impact"` // "positive" | "negative"
	Weight       float64 `json:"weight"`
	DisplayValue string  `json:"display_value"`
}

// ConfidenceBreakdown is diagnostic only; its components are not folded
// back into the prediction confidence.
type ConfidenceBreakdown struct {
	DataQuality  float64 `json:"data_quality"`
	PatternMatch float64 `json:"pattern_match"`
	Recency      float64 `json:"recency"`
}

type Explanation struct {
	Summary             string              `json:"summary"`
	Factors             []Factor            `json:"factors"`
	ConfidenceBreakdown ConfidenceBreakdown `json:"confidence_breakdown"`
}

// --------------------------------------------
// Recommended action
// --------------------------------------------
type RecommendedAction struct {
	Type             ActionType     `json:"type"`
	Priority         int            `json:"priority"` // 1-10, higher = more urgent
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Config           map[string]any `json:"config"`
	SuggestedCopy    string         `json:"suggested_copy,omitempty"`
	SuggestedChannel string         `json:"suggested_channel,omitempty"`
}

// --------------------------------------------
// FINAL engine output
// --------------------------------------------

// Prediction is a fresh value on every call; it has no stored identity.
type Prediction struct {
	Type               PredictionType      `json:"type"`
	Confidence         float64             `json:"confidence"`
	RiskLevel          RiskLevel           `json:"risk_level"`
	UrgencyScore       float64             `json:"urgency_score"`
	Explanation        Explanation         `json:"explanation"`
	RecommendedActions []RecommendedAction `json:"recommended_actions"`
	ExpiresAt          *time.Time          `json:"expires_at,omitempty"`
}

// BlendedScore is the ranking key: urgency dominates, confidence breaks
// near-ties.
func (p *Prediction) BlendedScore() float64 {
	return p.UrgencyScore*0.6 + p.Confidence*0.4
}
