package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nba-insights-go/internal/aggregator"
	"nba-insights-go/internal/types"
)

func TestWrite_RoundTrip(t *testing.T) {
	expires := time.Date(2026, 5, 8, 12, 0, 0, 0, time.UTC)
	scored := []aggregator.ScoredContact{
		{
			Contact: types.ContactContext{ContactID: "c-1", Status: types.StatusLead},
			Predictions: []types.Prediction{{
				Type:         types.PredictionConversion,
				Confidence:   0.9,
				RiskLevel:    types.RiskLow,
				UrgencyScore: 1.0,
				Explanation: types.Explanation{
					Factors: []types.Factor{{Name: "high_purchase_intent", Impact: "positive", Weight: 0.25}},
				},
				RecommendedActions: []types.RecommendedAction{{
					Type: types.ActionSendMessage, Priority: 9, Title: "Send closing message",
					Config: map[string]any{"message_type": "closing"},
				}},
				ExpiresAt: &expires,
			}},
		},
		{
			Contact: types.ContactContext{ContactID: "c-2", Status: types.StatusProspect},
		},
	}
	ins := aggregator.Aggregate(scored)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Write(path, scored, ins))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{sheetSummary, sheetContacts}, f.GetSheetList())

	rows, err := f.GetRows(sheetContacts)
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two contacts

	assert.Equal(t, contactHeader, rows[0])
	assert.Equal(t, "c-1", rows[1][0])
	assert.Equal(t, "Likely to Convert", rows[1][2])
	assert.Equal(t, "0.90", rows[1][3])
	assert.Equal(t, "Low", rows[1][4])
	assert.Equal(t, "high_purchase_intent", rows[1][6])
	assert.Equal(t, "Send closing message", rows[1][7])

	// Contact without a recommendation still gets a row.
	assert.Equal(t, "c-2", rows[2][0])

	summary, err := f.GetRows(sheetSummary)
	require.NoError(t, err)
	require.NotEmpty(t, summary)
	assert.Equal(t, "Insight", summary[0][0])
}

func TestWrite_EmptyPortfolio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, Write(path, nil, aggregator.Aggregate(nil)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheetContacts)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
