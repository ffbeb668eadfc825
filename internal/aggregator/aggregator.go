package aggregator

import (
	"fmt"
	"sort"

	"nba-insights-go/internal/types"
)

// ScoredContact pairs one snapshot with its ranked predictions.
type ScoredContact struct {
	Contact     types.ContactContext `json:"contact"`
	Predictions []types.Prediction   `json:"predictions"`
}

// Primary returns the top-ranked prediction, or nil.
func (s *ScoredContact) Primary() *types.Prediction {
	if len(s.Predictions) == 0 {
		return nil
	}
	return &s.Predictions[0]
}

type Insight struct {
	TotalContacts      int                `json:"total_contacts"`
	WithRecommendation int                `json:"with_recommendation"`
	ByPredictionType   map[string]int     `json:"by_prediction_type"`
	AvgBlendedByStatus map[string]float64 `json:"avg_blended_by_status"`
	CriticalChurn      int                `json:"critical_churn"`
}

// Aggregate rolls a scored portfolio up into the figures the report and the
// headline action card are built from.
func Aggregate(scored []ScoredContact) Insight {
	ins := Insight{
		ByPredictionType:   map[string]int{},
		AvgBlendedByStatus: map[string]float64{},
	}
	sums := map[string]float64{}
	counts := map[string]int{}

	for i := range scored {
		sc := &scored[i]
		ins.TotalContacts++
		p := sc.Primary()
		if p == nil {
			continue
		}
		ins.WithRecommendation++
		ins.ByPredictionType[string(p.Type)]++
		if p.Type == types.PredictionChurn && p.RiskLevel == types.RiskCritical {
			ins.CriticalChurn++
		}
		status := string(sc.Contact.Status)
		if status == "" {
			status = "unknown"
		}
		sums[status] += p.BlendedScore()
		counts[status]++
	}
	for status, n := range counts {
		ins.AvgBlendedByStatus[status] = sums[status] / float64(n)
	}
	return ins
}

// ActionCard is the one-line portfolio headline shown at the top of a report.
type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// Card picks the headline: critical churn beats everything, then a dominant
// prediction type, then a monitoring fallback.
func Card(ins Insight) ActionCard {
	if ins.CriticalChurn > 0 {
		return ActionCard{
			Insight: fmt.Sprintf("%d customers at critical churn risk", ins.CriticalChurn),
			Action:  "Run the reactivation playbook on the critical segment this week",
			Impact:  "Retained revenue before the next billing cycle",
		}
	}

	// Sorted keys so a tie between two types resolves the same way on
	// every run.
	keys := make([]string, 0, len(ins.ByPredictionType))
	for t := range ins.ByPredictionType {
		keys = append(keys, t)
	}
	sort.Strings(keys)

	dominant := ""
	highest := 0
	for _, t := range keys {
		if n := ins.ByPredictionType[t]; n > highest {
			highest = n
			dominant = t
		}
	}
	if dominant != "" && ins.TotalContacts > 0 &&
		float64(highest)/float64(ins.TotalContacts) >= 0.3 {
		return ActionCard{
			Insight: fmt.Sprintf("%q is the dominant signal (%d of %d contacts)", dominant, highest, ins.TotalContacts),
			Action:  fmt.Sprintf("Prioritize the %s queue in the CRM inbox", dominant),
			Impact:  "Focus effort where the portfolio concentrates",
		}
	}
	return ActionCard{
		Insight: "No strong portfolio-level pattern detected",
		Action:  "Monitor and collect more data",
		Impact:  "Low immediate intervention",
	}
}
