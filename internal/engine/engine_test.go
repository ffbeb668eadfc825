package engine

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-insights-go/internal/types"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return New(DefaultWeights(), nil)
}

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(v int) *int              { return &v }

func customerWithTransactions() *types.ContactContext {
	return &types.ContactContext{
		ContactID: "c-1",
		ProjectID: "p-1",
		Status:    types.StatusCustomer,
		Transactions: []types.Transaction{
			{TransactionID: "tx-1", Status: "completed", Amount: 100, OccurredAt: testNow.AddDate(0, -2, 0)},
		},
	}
}

func TestPredictConversion_SkipsConvertedCustomers(t *testing.T) {
	eng := newTestEngine()
	assert.Nil(t, eng.PredictConversion(customerWithTransactions(), testNow))
}

func TestPredictChurn_OnlyForCustomers(t *testing.T) {
	eng := newTestEngine()

	for _, status := range []types.ContactStatus{types.StatusLead, types.StatusProspect} {
		c := &types.ContactContext{
			ContactID:             "c-1",
			ProjectID:             "p-1",
			Status:                status,
			DaysSinceLastPurchase: intPtr(120),
		}
		assert.Nil(t, eng.PredictChurn(c, testNow), "status %s should not churn-score", status)
		assert.Nil(t, eng.PredictUpsell(c, testNow), "status %s should not upsell-score", status)
	}

	// Customer without transactions is also out of scope.
	noTx := &types.ContactContext{ContactID: "c-2", ProjectID: "p-1", Status: types.StatusCustomer}
	assert.Nil(t, eng.PredictChurn(noTx, testNow))
	assert.Nil(t, eng.PredictUpsell(noTx, testNow))
}

func TestPredictEngagement_SkipsCustomers(t *testing.T) {
	eng := newTestEngine()
	c := customerWithTransactions()
	c.Events = []types.Event{
		{EventType: "page_view", OccurredAt: testNow.Add(-time.Hour)},
		{EventType: "page_view", OccurredAt: testNow.Add(-2 * time.Hour)},
		{EventType: "page_view", OccurredAt: testNow.Add(-3 * time.Hour)},
	}
	assert.Nil(t, eng.PredictEngagement(c, testNow))
}

func TestPredictConversion_HighIntentLead(t *testing.T) {
	eng := newTestEngine()
	c := &types.ContactContext{
		ContactID:         "c-1",
		ProjectID:         "p-1",
		Status:            types.StatusLead,
		Profile:           &types.ContactProfile{IntentVector: types.Vector{"buy": 0.8}},
		LastInteractionAt: timePtr(testNow),
	}

	p := eng.PredictConversion(c, testNow)
	require.NotNil(t, p)
	assert.Equal(t, types.PredictionConversion, p.Type)
	assert.InDelta(t, 0.9, p.Confidence, 1e-9) // 0.5 + 0.25 + 0.15
	assert.Equal(t, types.RiskLow, p.RiskLevel)
	assert.InDelta(t, 1.0, p.UrgencyScore, 1e-9)
	require.Len(t, p.Explanation.Factors, 2)
	assert.Equal(t, "high_purchase_intent", p.Explanation.Factors[0].Name)
	assert.Equal(t, "interacted_today", p.Explanation.Factors[1].Name)
	require.NotNil(t, p.ExpiresAt)
	assert.Equal(t, testNow.Add(7*24*time.Hour), *p.ExpiresAt)
}

func TestPredictConversion_ScoreClampedWhenFactorsStack(t *testing.T) {
	eng := newTestEngine()
	c := &types.ContactContext{
		ContactID: "c-1",
		ProjectID: "p-1",
		Status:    types.StatusLead,
		Profile: &types.ContactProfile{
			IntentVector:    types.Vector{"buy": 0.9},
			ConfidenceScore: 0.9,
		},
		QuizResults: []types.QuizResult{
			{QuizID: "q-1", OutcomeName: "Mentoria Premium", CompletedAt: testNow.AddDate(0, 0, -1)},
		},
		LastInteractionAt: timePtr(testNow.Add(-2 * time.Hour)),
		Transactions: []types.Transaction{
			{TransactionID: "tx-1", Status: "Pending Payment", OccurredAt: testNow.AddDate(0, 0, -1)},
		},
	}

	p := eng.PredictConversion(c, testNow)
	require.NotNil(t, p)
	assert.Equal(t, 1.0, p.Confidence) // 0.5+0.25+0.15+0.15+0.10+0.20 clamped
	assert.Equal(t, 1.0, p.UrgencyScore)
	assert.Len(t, p.Explanation.Factors, 5)
}

func TestPredictConversion_SingleFactorRejected(t *testing.T) {
	eng := newTestEngine()
	c := &types.ContactContext{
		ContactID: "c-1",
		ProjectID: "p-1",
		Status:    types.StatusLead,
		Profile:   &types.ContactProfile{IntentVector: types.Vector{"buy": 0.8}},
	}
	// 0.5 + 0.25 clears the score floor but only one factor was recorded.
	assert.Nil(t, eng.PredictConversion(c, testNow))
}

func TestPredictConversion_StalePenalty(t *testing.T) {
	eng := newTestEngine()
	c := &types.ContactContext{
		ContactID:         "c-1",
		ProjectID:         "p-1",
		Status:            types.StatusLead,
		Profile:           &types.ContactProfile{IntentVector: types.Vector{"buy": 0.8}},
		LastInteractionAt: timePtr(testNow.AddDate(0, 0, -20)),
	}

	p := eng.PredictConversion(c, testNow)
	require.NotNil(t, p)
	assert.InDelta(t, 0.65, p.Confidence, 1e-9) // 0.5 + 0.25 - 0.10
	assert.Equal(t, types.RiskMedium, p.RiskLevel)
	assert.Equal(t, "negative", p.Explanation.Factors[1].Impact)
}

func TestPredictChurn_CriticalRisk(t *testing.T) {
	eng := newTestEngine()
	c := customerWithTransactions()
	c.DaysSinceLastPurchase = intPtr(120)
	c.LastInteractionAt = timePtr(testNow.AddDate(0, 0, -40))

	p := eng.PredictChurn(c, testNow)
	require.NotNil(t, p)
	assert.Equal(t, types.PredictionChurn, p.Type)
	assert.InDelta(t, 0.8, p.Confidence, 1e-9) // 0.3 + 0.3 + 0.2
	assert.Equal(t, types.RiskCritical, p.RiskLevel)
	assert.Equal(t, p.Confidence, p.UrgencyScore)
	require.NotNil(t, p.ExpiresAt)
	assert.Equal(t, testNow.Add(14*24*time.Hour), *p.ExpiresAt)
}

func TestPredictChurn_MidGapBand(t *testing.T) {
	eng := newTestEngine()
	c := customerWithTransactions()
	c.DaysSinceLastPurchase = intPtr(70)
	c.LastInteractionAt = timePtr(testNow.AddDate(0, 0, -35))

	p := eng.PredictChurn(c, testNow)
	require.NotNil(t, p)
	assert.InDelta(t, 0.65, p.Confidence, 1e-9) // 0.3 + 0.15 + 0.2
	assert.Equal(t, types.RiskHigh, p.RiskLevel)
}

func TestPredictChurn_BelowFloorRejected(t *testing.T) {
	eng := newTestEngine()
	c := customerWithTransactions()
	// Only the fading-intent factor fires: one factor, risk 0.4.
	c.Profile = &types.ContactProfile{IntentVector: types.Vector{"buy": 0.1}}
	assert.Nil(t, eng.PredictChurn(c, testNow))
}

func TestPredictUpsell_HighValueCustomer(t *testing.T) {
	eng := newTestEngine()
	c := &types.ContactContext{
		ContactID:    "c-1",
		ProjectID:    "p-1",
		Status:       types.StatusCustomer,
		TotalRevenue: 600,
		Transactions: []types.Transaction{
			{TransactionID: "tx-1", Status: "completed"},
			{TransactionID: "tx-2", Status: "completed"},
			{TransactionID: "tx-3", Status: "completed"},
		},
	}

	p := eng.PredictUpsell(c, testNow)
	require.NotNil(t, p)
	assert.Equal(t, types.PredictionUpsell, p.Type)
	assert.InDelta(t, 0.65, p.Confidence, 1e-9) // 0.3 + 0.2 + 0.15, no recency factor
	assert.Equal(t, types.RiskLow, p.RiskLevel)
	assert.InDelta(t, 0.65*0.7, p.UrgencyScore, 1e-9)
	require.NotNil(t, p.ExpiresAt)
	assert.Equal(t, testNow.Add(30*24*time.Hour), *p.ExpiresAt)
}

func TestPredictEngagement_ActiveLead(t *testing.T) {
	eng := newTestEngine()
	c := &types.ContactContext{
		ContactID: "c-1",
		ProjectID: "p-1",
		Status:    types.StatusLead,
		Profile:   &types.ContactProfile{EntropyScore: 0.8, TotalSignals: 8},
		Events: []types.Event{
			{EventType: "page_view", OccurredAt: testNow.AddDate(0, 0, -1)},
			{EventType: "quiz_start", OccurredAt: testNow.AddDate(0, 0, -2)},
			{EventType: "page_view", OccurredAt: testNow.AddDate(0, 0, -3)},
		},
	}

	p := eng.PredictEngagement(c, testNow)
	require.NotNil(t, p)
	assert.InDelta(t, 0.95, p.Confidence, 1e-9) // 0.5 + 0.2 + 0.1 + 0.15
	assert.Equal(t, types.RiskLow, p.RiskLevel)
	assert.InDelta(t, 0.95*0.5, p.UrgencyScore, 1e-9)

	// Fixed action pair, not the banded generator.
	require.Len(t, p.RecommendedActions, 2)
	assert.Equal(t, types.ActionSendSurvey, p.RecommendedActions[0].Type)
	assert.Equal(t, types.ActionAddToSequence, p.RecommendedActions[1].Type)
}

func TestPredictEngagement_IgnoresOldEvents(t *testing.T) {
	eng := newTestEngine()
	c := &types.ContactContext{
		ContactID: "c-1",
		ProjectID: "p-1",
		Status:    types.StatusLead,
		Profile:   &types.ContactProfile{EntropyScore: 0.8},
		Events: []types.Event{
			{EventType: "page_view", OccurredAt: testNow.AddDate(0, 0, -10)},
			{EventType: "page_view", OccurredAt: testNow.AddDate(0, 0, -11)},
			{EventType: "page_view", OccurredAt: testNow.AddDate(0, 0, -12)},
		},
	}
	// Only the entropy factor fires: below the factor floor.
	assert.Nil(t, eng.PredictEngagement(c, testNow))
}

func TestGeneratePredictions_EmptyContactProducesNothing(t *testing.T) {
	eng := newTestEngine()
	c := &types.ContactContext{ContactID: "c-1", ProjectID: "p-1", Status: types.StatusLead}
	assert.Empty(t, eng.GeneratePredictions(c, testNow))
	assert.Nil(t, eng.GetPrimaryRecommendation(c, testNow))
}

func TestGeneratePredictions_RankedByBlendedScore(t *testing.T) {
	eng := newTestEngine()
	c := &types.ContactContext{
		ContactID: "c-1",
		ProjectID: "p-1",
		Status:    types.StatusLead,
		Profile: &types.ContactProfile{
			IntentVector: types.Vector{"buy": 0.8},
			EntropyScore: 0.8,
			TotalSignals: 8,
		},
		LastInteractionAt: timePtr(testNow),
		Events: []types.Event{
			{EventType: "page_view", OccurredAt: testNow.AddDate(0, 0, -1)},
			{EventType: "page_view", OccurredAt: testNow.AddDate(0, 0, -2)},
			{EventType: "page_view", OccurredAt: testNow.AddDate(0, 0, -3)},
		},
	}

	preds := eng.GeneratePredictions(c, testNow)
	require.Len(t, preds, 2)
	for i := 1; i < len(preds); i++ {
		assert.GreaterOrEqual(t, preds[i-1].BlendedScore(), preds[i].BlendedScore())
	}
	assert.Equal(t, types.PredictionConversion, preds[0].Type)
	assert.Equal(t, types.PredictionEngagement, preds[1].Type)

	primary := eng.GetPrimaryRecommendation(c, testNow)
	require.NotNil(t, primary)
	assert.Equal(t, preds[0], *primary)
}

func TestGeneratePredictions_TieKeepsEvaluationOrder(t *testing.T) {
	// Weights tuned so churn and upsell land on the same blended score for
	// one customer: risk 0.41 blends to 0.41, potential 0.5 blends to
	// 0.5*0.7*0.6 + 0.5*0.4 = 0.41, bit-identical in float64.
	w := DefaultWeights()
	w.Churn.Base = 0.11
	w.Churn.LongGapBoost = 0.2
	w.Churn.StaleBoost = 0.1
	w.Upsell.Base = 0.15
	w.Upsell.RepeatBoost = 0.2
	w.Upsell.RevenueBoost = 0.15
	eng := New(w, nil)

	c := &types.ContactContext{
		ContactID:    "c-1",
		ProjectID:    "p-1",
		Status:       types.StatusCustomer,
		TotalRevenue: 600,
		Transactions: []types.Transaction{
			{TransactionID: "tx-1", Status: "completed"},
			{TransactionID: "tx-2", Status: "completed"},
		},
		DaysSinceLastPurchase: intPtr(120),
		LastInteractionAt:     timePtr(testNow.AddDate(0, 0, -40)),
	}

	preds := eng.GeneratePredictions(c, testNow)
	require.Len(t, preds, 2)
	require.Equal(t, preds[0].BlendedScore(), preds[1].BlendedScore(), "test needs a genuine tie")
	assert.Equal(t, types.PredictionChurn, preds[0].Type, "evaluation order decides ties")
	assert.Equal(t, types.PredictionUpsell, preds[1].Type)
}

func TestGeneratePredictions_Idempotent(t *testing.T) {
	eng := newTestEngine()
	c := customerWithTransactions()
	c.DaysSinceLastPurchase = intPtr(120)
	c.LastInteractionAt = timePtr(testNow.AddDate(0, 0, -40))

	first := eng.GeneratePredictions(c, testNow)
	second := eng.GeneratePredictions(c, testNow)
	assert.True(t, reflect.DeepEqual(first, second), "same snapshot and instant must score identically")
}

func TestGeneratePredictions_ConcurrentCallsDoNotInterfere(t *testing.T) {
	eng := newTestEngine()

	lead := &types.ContactContext{
		ContactID:         "lead-1",
		ProjectID:         "p-1",
		Status:            types.StatusLead,
		Profile:           &types.ContactProfile{IntentVector: types.Vector{"buy": 0.8}},
		LastInteractionAt: timePtr(testNow),
	}
	customer := customerWithTransactions()
	customer.DaysSinceLastPurchase = intPtr(120)
	customer.LastInteractionAt = timePtr(testNow.AddDate(0, 0, -40))

	wantLead := eng.GeneratePredictions(lead, testNow)
	wantCustomer := eng.GeneratePredictions(customer, testNow)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			got := eng.GeneratePredictions(lead, testNow)
			assert.True(t, reflect.DeepEqual(wantLead, got))
		}()
		go func() {
			defer wg.Done()
			got := eng.GeneratePredictions(customer, testNow)
			assert.True(t, reflect.DeepEqual(wantCustomer, got))
		}()
	}
	wg.Wait()
}
