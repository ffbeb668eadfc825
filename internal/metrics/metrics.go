package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once

	// PredictionsGenerated counts predictions by type.
	PredictionsGenerated *prometheus.CounterVec

	// EmptyResults counts scoring calls where no heuristic fired.
	EmptyResults prometheus.Counter

	// ScoringDuration observes one full GeneratePredictions call.
	ScoringDuration prometheus.Histogram

	// CacheHits and CacheMisses track the prediction cache.
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
)

// Init registers all metrics exactly once.
func Init() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		PredictionsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nba_predictions_generated_total",
			Help: "Predictions produced, labelled by prediction type",
		}, []string{"type"})

		EmptyResults = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nba_empty_results_total",
			Help: "Scoring calls that produced no prediction",
		})

		ScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nba_scoring_duration_seconds",
			Help:    "Duration of one full scoring call",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		})

		CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nba_cache_hits_total",
			Help: "Prediction cache hits",
		})
		CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nba_cache_misses_total",
			Help: "Prediction cache misses",
		})

		registry.MustRegister(
			PredictionsGenerated, EmptyResults, ScoringDuration,
			CacheHits, CacheMisses,
		)
	})
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	Init()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveScoring records one scoring call's outcome.
func ObserveScoring(start time.Time, predictionTypes []string) {
	Init()
	ScoringDuration.Observe(time.Since(start).Seconds())
	if len(predictionTypes) == 0 {
		EmptyResults.Inc()
		return
	}
	for _, t := range predictionTypes {
		PredictionsGenerated.WithLabelValues(t).Inc()
	}
}
