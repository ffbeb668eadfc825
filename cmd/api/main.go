package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"nba-insights-go/internal/cache"
	"nba-insights-go/internal/engine"
	"nba-insights-go/internal/logger"
	"nba-insights-go/internal/metrics"
	"nba-insights-go/internal/source"
	"nba-insights-go/internal/types"
)

type server struct {
	eng   *engine.Engine
	src   *source.Client
	cache cache.PredictionCache
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "nba-insights-go").Info("starting service")

	weights := engine.DefaultWeights()
	if path := os.Getenv("NBA_WEIGHTS_PATH"); path != "" {
		var err error
		weights, err = engine.LoadWeights(path)
		if err != nil {
			log.WithError(err).Fatal("failed to load weights override")
		}
		log.WithField("weights_path", path).Info("weights override loaded")
	}

	srv := &server{eng: engine.New(weights, log.Entry)}

	if base := os.Getenv("SNAPSHOT_URL"); base != "" {
		srv.src = source.New(base, log.Entry)
		log.WithField("snapshot_url", base).Info("snapshot source configured")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		srv.cache = cache.New(client)
		log.WithField("redis_addr", addr).Info("prediction cache enabled")
	}

	metrics.Init()

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, "ok")
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/predictions", srv.handlePredictions).Methods(http.MethodPost)
	v1.HandleFunc("/recommendation", srv.handleRecommendation).Methods(http.MethodPost)
	v1.HandleFunc("/contacts/{id}/predictions", srv.handleContactPredictions).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// decodeContext enforces the caller-side validation contract: contact_id and
// project_id must be present before the engine runs.
func decodeContext(w http.ResponseWriter, req *http.Request) (*types.ContactContext, bool) {
	var c types.ContactContext
	if err := json.NewDecoder(req.Body).Decode(&c); err != nil {
		http.Error(w, "invalid contact context", http.StatusBadRequest)
		return nil, false
	}
	if c.ContactID == "" || c.ProjectID == "" {
		http.Error(w, "missing contact_id or project_id", http.StatusBadRequest)
		return nil, false
	}
	return &c, true
}

func (s *server) handlePredictions(w http.ResponseWriter, req *http.Request) {
	reqLog := logger.New().WithRequest(req).WithField("handler", "predictions")
	c, ok := decodeContext(w, req)
	if !ok {
		reqLog.Warn("rejected contact context")
		return
	}
	start := time.Now()
	preds := s.eng.GeneratePredictionsNow(c)
	metrics.ObserveScoring(start, predictionTypes(preds))
	reqLog.WithFields(map[string]interface{}{
		"contact_id":  c.ContactID,
		"predictions": len(preds),
	}).Info("contact scored")
	writeJSON(w, reqLog, preds)
}

func (s *server) handleRecommendation(w http.ResponseWriter, req *http.Request) {
	reqLog := logger.New().WithRequest(req).WithField("handler", "recommendation")
	c, ok := decodeContext(w, req)
	if !ok {
		reqLog.Warn("rejected contact context")
		return
	}
	start := time.Now()
	preds := s.eng.GeneratePredictionsNow(c)
	metrics.ObserveScoring(start, predictionTypes(preds))
	if len(preds) == 0 {
		reqLog.WithField("contact_id", c.ContactID).Info("no recommendation")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, reqLog, preds[0])
}

func (s *server) handleContactPredictions(w http.ResponseWriter, req *http.Request) {
	reqLog := logger.New().WithRequest(req).WithField("handler", "contact_predictions")
	if s.src == nil {
		http.Error(w, "snapshot source not configured", http.StatusServiceUnavailable)
		return
	}
	contactID := mux.Vars(req)["id"]
	projectID := req.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "missing project_id", http.StatusBadRequest)
		return
	}
	reqLog = reqLog.WithField("contact_id", contactID).WithField("project_id", projectID)

	if s.cache != nil {
		cached, err := s.cache.Get(req.Context(), projectID, contactID)
		if err != nil {
			reqLog.WithError(err).Warn("cache read failed")
		}
		if cached != nil {
			metrics.CacheHits.Inc()
			reqLog.Info("served from cache")
			writeJSON(w, reqLog, cached)
			return
		}
		metrics.CacheMisses.Inc()
	}

	snapshot, err := s.src.FetchSnapshot(req.Context(), projectID, contactID)
	if err != nil {
		reqLog.WithError(err).Error("snapshot fetch failed")
		http.Error(w, "snapshot fetch failed", http.StatusBadGateway)
		return
	}

	now := time.Now()
	start := now
	preds := s.eng.GeneratePredictions(snapshot, now)
	metrics.ObserveScoring(start, predictionTypes(preds))

	if s.cache != nil && len(preds) > 0 {
		if err := s.cache.Set(req.Context(), projectID, contactID, preds, now); err != nil {
			reqLog.WithError(err).Warn("cache write failed")
		}
	}
	reqLog.WithField("predictions", len(preds)).Info("contact scored")
	writeJSON(w, reqLog, preds)
}

func predictionTypes(preds []types.Prediction) []string {
	out := make([]string, 0, len(preds))
	for i := range preds {
		out = append(out, string(preds[i].Type))
	}
	return out
}

func writeJSON(w http.ResponseWriter, reqLog *logrus.Entry, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}
