// Package httpapi is the serve surface: analysis over HTTP plus
// health and Prometheus endpoints. It is strictly a collaborator of
// the core; all simulation semantics live in the engine.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/risklab/xolsim/internal/analysis"
	"github.com/risklab/xolsim/internal/cache"
	"github.com/risklab/xolsim/internal/persistence"
	"github.com/risklab/xolsim/internal/sim"
)

// Server wires the analysis engine to HTTP. Cache and repo are
// optional; a nil backend just disables that concern.
type Server struct {
	cache   *cache.AnalysisCache
	repo    persistence.RunsRepo
	limiter *rate.Limiter
}

// NewServer builds a server with the given optional backends and a
// global request rate limit.
func NewServer(c *cache.AnalysisCache, repo persistence.RunsRepo, rps float64, burst int) *Server {
	return &Server{
		cache:   c,
		repo:    repo,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Router returns the configured route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(s.rateLimit)
	api.HandleFunc("/analysis", s.handleAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/runs", s.handleListRuns).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods(http.MethodGet)
	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalysis runs a full baseline+stressed analysis for the posted
// config, serving from cache when an identical seeded config has been
// analyzed before.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var cfg sim.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "malformed config JSON: "+err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.cache != nil {
		if report, err := s.cache.Get(r.Context(), cfg); err == nil {
			log.Debug().Str("run_id", report.RunID).Msg("analysis served from cache")
			writeJSON(w, http.StatusOK, report)
			return
		} else if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Msg("analysis cache lookup failed")
		}
	}

	report, err := analysis.Run(r.Context(), cfg)
	if err != nil {
		status := http.StatusInternalServerError
		var cfgErr *sim.ConfigError
		if errors.As(err, &cfgErr) {
			status = http.StatusBadRequest
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusRequestTimeout
		}
		writeError(w, status, err.Error())
		return
	}

	if s.cache != nil {
		s.cache.Put(r.Context(), report)
	}
	if s.repo != nil {
		s.storeRun(r.Context(), report)
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) storeRun(ctx context.Context, report *analysis.Report) {
	run, err := persistence.FromReport(report)
	if err != nil {
		log.Warn().Err(err).Str("run_id", report.RunID).Msg("failed to flatten run for storage")
		return
	}
	if err := s.repo.Save(ctx, run); err != nil {
		log.Warn().Err(err).Str("run_id", report.RunID).Msg("failed to store analysis run")
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeError(w, http.StatusNotImplemented, "runs store not configured")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	runs, err := s.repo.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeError(w, http.StatusNotImplemented, "runs store not configured")
		return
	}
	run, err := s.repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
