// Package http exposes the pennywise services as a JSON API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"pennywise/internal/core"
	"pennywise/internal/log"
	"pennywise/internal/middleware/ratelimit"
	"pennywise/internal/middleware/security"
	"pennywise/internal/middleware/trace"
	"pennywise/internal/services"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Addr           string
	Logger         *log.Logger
	Location       *time.Location
	Clock          core.Clock
	Database       Pinger
	RateLimit      ratelimit.Config
	TrustedProxies []string
}

// Server is the HTTP server with its middleware state.
type Server struct {
	http.Server

	svc      services.Bundle
	db       Pinger
	clock    core.Clock
	loc      *time.Location
	started  time.Time
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

func NewServer(cfg Config, svc services.Bundle) (*Server, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = core.SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		svc:      svc,
		db:       cfg.Database,
		clock:    cfg.Clock,
		loc:      cfg.Location,
		started:  time.Now(),
		limiter:  ratelimit.NewLimiter(cfg.RateLimit),
		detector: security.NewDetector(),
		tracer:   trace.NewMiddleware(),
	}
	for _, cidr := range cfg.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			s.limiter.Stop()
			return nil, fmt.Errorf("trusted proxies: %w", err)
		}
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ExtractClientIP, ratelimit.MutatingOnly, s.handleRateLimited)(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = log.AccessMiddleware(s.detector.ExtractClientIP)(h)
	h = log.RequestIDMiddleware(trace.RequestID)(h)
	h = log.Middleware(cfg.Logger.WithComponent(log.ComponentHTTP))(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.authed(s.handleLogout))
	mux.HandleFunc("GET /api/me", s.authed(s.handleMe))

	mux.HandleFunc("POST /api/expenses", s.authed(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses", s.authed(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses/categorize", s.authed(s.handleCategorize))
	mux.HandleFunc("GET /api/expenses/{id}", s.authed(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.authed(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.authed(s.handleDeleteExpense))

	mux.HandleFunc("POST /api/savings", s.authed(s.handleCreateSaving))
	mux.HandleFunc("GET /api/savings", s.authed(s.handleListSavings))
	mux.HandleFunc("GET /api/savings/balance", s.authed(s.handleSavingsBalance))
	mux.HandleFunc("DELETE /api/savings/{id}", s.authed(s.handleDeleteSaving))

	mux.HandleFunc("POST /api/goals", s.authed(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals", s.authed(s.handleListGoals))
	mux.HandleFunc("GET /api/goals/{id}", s.authed(s.handleGetGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.authed(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/allocate", s.authed(s.handleAllocate))

	mux.HandleFunc("GET /api/achievements", s.authed(s.handleAchievements))
	mux.HandleFunc("GET /api/targets/weekly", s.authed(s.handleWeeklyTarget))
	mux.HandleFunc("GET /api/targets/history", s.authed(s.handleTargetHistory))
	mux.HandleFunc("POST /api/rewards/weekly/reconcile", s.authed(s.handleReconcile))

	mux.HandleFunc("GET /api/reports/summary", s.authed(s.handleSummary))
	mux.HandleFunc("GET /api/reports/monthly", s.authed(s.handleMonthly))
	mux.HandleFunc("GET /api/predictions", s.authed(s.handleListPredictions))
	mux.HandleFunc("POST /api/predictions/refresh", s.authed(s.handleRefreshPrediction))
}

// Shutdown stops the rate limiter and drains the HTTP server. Only the
// first call has any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the database before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"database": "ok"}
	switch {
	case s.db == nil:
		checks["database"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	default:
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	limitMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	metric := func(name, kind, help string, value int64) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %d\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_requests_in_flight", "gauge", "Requests currently being served", traceMetrics.InFlight)
	metric("rate_limit_hits_total", "counter", "Total rate limit hits", limitMetrics.TotalHits)
	metric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", limitMetrics.ClientCount)
	metric("suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	metric("uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.started).Seconds()))
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, errorBody{
		Error:     "rate limit exceeded, try again later",
		RequestID: trace.RequestID(r),
	})
}
