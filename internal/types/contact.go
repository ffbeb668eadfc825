package types

import "time"

// ContactStatus is the lifecycle stage of a contact in the CRM.
type ContactStatus string

const (
	StatusLead     ContactStatus = "lead"
	StatusProspect ContactStatus = "prospect"
	StatusCustomer ContactStatus = "customer"
)

// Vector is a sparse numeric profile keyed by free-form labels
// ("buy", "premium", ...). The vocabulary is open; missing keys read as 0.
type Vector map[string]float64

// Get returns the weight for key, or 0 when the key is absent.
func (v Vector) Get(key string) float64 {
	if v == nil {
		return 0
	}
	return v[key]
}

// Max returns the highest weight among the given keys (0 if none present).
func (v Vector) Max(keys ...string) float64 {
	best := 0.0
	for _, k := range keys {
		if w := v.Get(k); w > best {
			best = w
		}
	}
	return best
}

// --------------------------------------------
// Behavioral profile (precomputed upstream)
// --------------------------------------------
type ContactProfile struct {
	TraitVector     Vector  `json:"trait_vector,omitempty"`
	IntentVector    Vector  `json:"intent_vector,omitempty"`
	ConfidenceScore float64 `json:"confidence_score"`
	EntropyScore    float64 `json:"entropy_score"`
	VolatilityScore float64 `json:"volatility_score"`
	TotalSignals    int     `json:"total_signals"`
}

// --------------------------------------------
// Timestamped history records
// --------------------------------------------
type QuizResult struct {
	QuizID      string    `json:"quiz_id"`
	OutcomeName string    `json:"outcome_name,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

type SurveyResponse struct {
	SurveyID    string    `json:"survey_id"`
	Answers     Vector    `json:"answers,omitempty"`
	RespondedAt time.Time `json:"responded_at"`
}

type Transaction struct {
	TransactionID string    `json:"transaction_id"`
	ProductName   string    `json:"product_name,omitempty"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Event struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
}

type FunnelOutcome struct {
	FunnelID   string    `json:"funnel_id"`
	Stage      string    `json:"stage"`
	Converted  bool      `json:"converted"`
	OccurredAt time.Time `json:"occurred_at"`
}

// --------------------------------------------
// Input snapshot for one scoring call
// --------------------------------------------

// ContactContext is the read-only snapshot the engine scores. The caller
// assembles it from storage; no engine function mutates it.
type ContactContext struct {
	ContactID string `json:"contact_id"`
	ProjectID string `json:"project_id"`

	Profile         *ContactProfile  `json:"profile,omitempty"`
	QuizResults     []QuizResult     `json:"quiz_results,omitempty"`
	SurveyResponses []SurveyResponse `json:"survey_responses,omitempty"`
	Transactions    []Transaction    `json:"transactions,omitempty"`
	Events          []Event          `json:"events,omitempty"`
	FunnelOutcomes  []FunnelOutcome  `json:"funnel_outcomes,omitempty"`

	LastInteractionAt     *time.Time    `json:"last_interaction_at,omitempty"`
	DaysSinceLastPurchase *int          `json:"days_since_last_purchase,omitempty"`
	TotalRevenue          float64       `json:"total_revenue,omitempty"`
	PurchaseCount         int           `json:"purchase_count,omitempty"`
	Status                ContactStatus `json:"status,omitempty"`
	Tags                  []string      `json:"tags,omitempty"`
}

// IsCustomer reports whether the contact already converted.
func (c *ContactContext) IsCustomer() bool {
	return c.Status == StatusCustomer
}

// LatestQuizResult returns the most recent quiz result, or nil.
func (c *ContactContext) LatestQuizResult() *QuizResult {
	var latest *QuizResult
	for i := range c.QuizResults {
		q := &c.QuizResults[i]
		if latest == nil || q.CompletedAt.After(latest.CompletedAt) {
			latest = q
		}
	}
	return latest
}
