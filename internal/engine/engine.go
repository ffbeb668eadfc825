// Package engine scores a contact snapshot with four independent heuristics
// (conversion, churn, upsell, engagement) and returns ranked, explainable
// predictions with next-best actions. Pure computation: no I/O, no shared
// state, every call gets its own snapshot and produces fresh output.
package engine

import (
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"nba-insights-go/internal/types"
)

type Engine struct {
	weights Weights
	log     *logrus.Entry
}

// New builds an engine with the given weights. A nil log entry disables
// scoring traces.
func New(w Weights, log *logrus.Entry) *Engine {
	if log == nil {
		muted := logrus.New()
		muted.SetOutput(io.Discard)
		log = logrus.NewEntry(muted)
	}
	return &Engine{weights: w, log: log.WithField("component", "engine")}
}

// GeneratePredictions runs every heuristic against the snapshot and returns
// the non-nil results ranked by blended urgency/confidence. All heuristics
// share the single now instant so recency checks agree on "today".
//
// Ties keep evaluation order (conversion, churn, upsell, engagement): the
// sort is stable over the collection order.
func (e *Engine) GeneratePredictions(c *types.ContactContext, now time.Time) []types.Prediction {
	heuristics := []func(*types.ContactContext, time.Time) *types.Prediction{
		e.PredictConversion,
		e.PredictChurn,
		e.PredictUpsell,
		e.PredictEngagement,
	}

	var out []types.Prediction
	for _, h := range heuristics {
		if p := h(c, now); p != nil {
			out = append(out, *p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BlendedScore() > out[j].BlendedScore()
	})

	e.log.WithFields(logrus.Fields{
		"contact_id":  c.ContactID,
		"project_id":  c.ProjectID,
		"predictions": len(out),
	}).Debug("contact scored")
	return out
}

// GeneratePredictionsNow freezes time.Now once and scores with it.
func (e *Engine) GeneratePredictionsNow(c *types.ContactContext) []types.Prediction {
	return e.GeneratePredictions(c, time.Now())
}

// GetPrimaryRecommendation returns the top-ranked prediction, or nil when no
// heuristic found enough signal.
func (e *Engine) GetPrimaryRecommendation(c *types.ContactContext, now time.Time) *types.Prediction {
	preds := e.GeneratePredictions(c, now)
	if len(preds) == 0 {
		return nil
	}
	return &preds[0]
}

// GetPrimaryRecommendationNow freezes time.Now once and ranks with it.
func (e *Engine) GetPrimaryRecommendationNow(c *types.ContactContext) *types.Prediction {
	return e.GetPrimaryRecommendation(c, time.Now())
}
