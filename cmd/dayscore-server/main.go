// Package main implements the dayscore HTTP scoring service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dayscore-dev/dayscore/pkg/config"
	"github.com/dayscore-dev/dayscore/pkg/dayscore"
	"github.com/dayscore-dev/dayscore/pkg/gemini"
	"github.com/dayscore-dev/dayscore/pkg/labelcache"
	"github.com/dayscore-dev/dayscore/pkg/resolver"
	"github.com/dayscore-dev/dayscore/pkg/timeline"
	"github.com/dayscore-dev/dayscore/pkg/timeparse"
)

var configPath = flag.String("config", "", "Path to a YAML config file")

var (
	scoreRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dayscore_score_requests_total",
		Help: "Score requests by outcome.",
	}, []string{"outcome"})
	scoreDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dayscore_score_duration_seconds",
		Help:    "Wall time of one day's scoring, oracle calls included.",
		Buckets: prometheus.DefBuckets,
	})
)

type server struct {
	scorer *dayscore.Scorer
	logger *slog.Logger
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []dayscore.Option{
		dayscore.WithLogger(logger),
		dayscore.WithGoals(cfg.Goals),
	}
	var cache *labelcache.Store
	if cfg.CacheDir != "" {
		cache, err = labelcache.Open(cfg.CacheDir, logger)
		if err != nil {
			logger.Warn("label cache unavailable, continuing without it", "error", err)
		} else {
			opts = append(opts, dayscore.WithCache(cache))
		}
	}
	if cfg.GeminiAPIKey != "" {
		opts = append(opts, dayscore.WithOracle(gemini.New(
			gemini.WithAPIKey(cfg.GeminiAPIKey),
			gemini.WithModel(cfg.GeminiModel),
			gemini.WithLogger(logger),
		)))
	}

	scorer, err := dayscore.New(opts...)
	if err != nil {
		logger.Error("building scorer failed", "error", err)
		os.Exit(1)
	}
	s := &server{scorer: scorer, logger: logger}

	router := mux.NewRouter()
	router.HandleFunc("/v1/score", s.handleScore).Methods(http.MethodPost)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.Use(requestIDMiddleware)

	handler := handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stderr, router))
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	go func() {
		logger.Info("dayscore server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Error("saving label cache failed", "error", err)
		}
	}
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// scoreRequest is one day of raw intervals with HH:MM boundaries.
type scoreRequest struct {
	Strategy  string `json:"strategy,omitempty"` // "lenient" (default) or "strict"
	Intervals []struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Label string `json:"label"`
	} `json:"intervals"`
}

type blockDTO struct {
	Name     string `json:"name"`
	Start    string `json:"start"`
	Duration int    `json:"duration"`
}

type scoreResponse struct {
	Entropy struct {
		H           float64    `json:"h"`
		HMax        float64    `json:"h_max"`
		HNorm       float64    `json:"h_norm"`
		Scaled      float64    `json:"h_norm_k"`
		Antientropy jsonScore  `json:"antientropy"`
		K           int        `json:"k"`
		Blocks      []blockDTO `json:"blocks"`
	} `json:"entropy"`
	Focus struct {
		Focus    jsonScore `json:"focus"`
		Penalty  float64   `json:"penalty"`
		Switches int       `json:"switches"`
	} `json:"focus"`
}

// jsonScore marshals +Inf as the string "Infinity", which encoding/json
// cannot represent as a number.
type jsonScore float64

func (s jsonScore) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(s), 1) {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(s))
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	strategy := timeline.Lenient
	switch req.Strategy {
	case "", "lenient":
	case "strict":
		strategy = timeline.Strict
	default:
		s.fail(w, http.StatusBadRequest, fmt.Errorf("unknown strategy %q", req.Strategy))
		return
	}

	rows := make([]timeline.Interval, 0, len(req.Intervals))
	for i, iv := range req.Intervals {
		start, err := timeparse.Parse(iv.Start)
		if err != nil {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("interval %d: start: %w", i, err))
			return
		}
		end, err := timeparse.Parse(iv.End)
		if err != nil {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("interval %d: end: %w", i, err))
			return
		}
		rows = append(rows, timeline.Interval{Label: iv.Label, Start: start, End: end})
	}

	day, err := s.scorer.ScoreDay(r.Context(), rows, strategy)
	if err != nil {
		status := http.StatusUnprocessableEntity
		var unknownErr *resolver.UnknownActivityError
		var overlapErr *timeline.OverlapError
		var coverageErr *timeline.CoverageError
		switch {
		case errors.As(err, &unknownErr), errors.As(err, &overlapErr), errors.As(err, &coverageErr):
			// Input problems the caller can fix.
		default:
			status = http.StatusBadGateway // oracle transport failure
		}
		s.fail(w, status, err)
		return
	}

	var resp scoreResponse
	resp.Entropy.H = day.Entropy.H
	resp.Entropy.HMax = day.Entropy.HMax
	resp.Entropy.HNorm = day.Entropy.HNorm
	resp.Entropy.Scaled = day.Entropy.Scaled
	resp.Entropy.Antientropy = jsonScore(day.Entropy.Antientropy)
	resp.Entropy.K = day.Entropy.K
	for _, b := range day.Entropy.Blocks {
		resp.Entropy.Blocks = append(resp.Entropy.Blocks, blockDTO{
			Name:     b.Name,
			Start:    timeparse.Format(b.Start),
			Duration: b.Duration,
		})
	}
	resp.Focus.Focus = jsonScore(day.Focus.Focus)
	resp.Focus.Penalty = day.Focus.Penalty
	resp.Focus.Switches = day.Focus.Switches

	scoreRequests.WithLabelValues("ok").Inc()
	scoreDuration.Observe(time.Since(started).Seconds())
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Debug("encoding response failed", "error", err)
	}
}

func (s *server) fail(w http.ResponseWriter, status int, err error) {
	scoreRequests.WithLabelValues("error").Inc()
	s.logger.Warn("score request failed", "status", status, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
