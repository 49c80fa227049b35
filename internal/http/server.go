// Package http exposes the JSON API: expense CRUD, statistics, profile and
// category access, session endpoints, and filtered exports.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"tracker/internal/cache"
	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/service"
)

// Services bundles the application services the API is built on.
type Services struct {
	Expenses   *service.ExpenseService
	Profile    *service.ProfileService
	Categories *service.CategoryService
	Auth       *service.AuthService
}

type Server struct {
	http.Server
	services    Services
	rateLimiter *rateLimiter

	// Derived statistics are cached per namespace and invalidated on writes.
	statsCache   *cache.LRU[core.ExpenseStats]
	cacheManager *cache.Manager

	metrics      appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	requestsTotal  atomic.Int64
	errorsTotal    atomic.Int64
	rateLimited    atomic.Int64
	statsCacheHits atomic.Int64
	statsCacheMiss atomic.Int64
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, services Services, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		services:     services,
		rateLimiter:  newRateLimiter(),
		statsCache:   cache.NewLRU[core.ExpenseStats](100, cacheTTL),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.statsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/expenses", s.withCommon(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withCommon(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/{id}", s.withCommon(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withCommon(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withCommon(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/stats", s.withCommon(s.handleStats))
	mux.HandleFunc("GET /api/stats/yearly", s.withCommon(s.handleYearlyStats))
	mux.HandleFunc("GET /api/stats/pie", s.withCommon(s.handlePieStats))

	mux.HandleFunc("GET /api/categories", s.withCommon(s.handleListCategories))

	mux.HandleFunc("GET /api/profile", s.withCommon(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.withCommon(s.handleUpdateProfile))
	mux.HandleFunc("PUT /api/profile/salary", s.withCommon(s.handleSetSalary))
	mux.HandleFunc("PUT /api/profile/currency", s.withCommon(s.handleSetCurrency))

	mux.HandleFunc("POST /api/auth/register", s.withCommon(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.withCommon(s.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", s.withCommon(s.handleLogout))
	mux.HandleFunc("GET /api/auth/me", s.withCommon(s.handleSession))

	mux.HandleFunc("GET /api/export/csv", s.withCommon(s.handleExportCSV))
	mux.HandleFunc("GET /api/export/report", s.withCommon(s.handleExportReport))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withCommon adds security headers, request logging, request-id tracing and
// rate limiting for mutating methods.
func (s *Server) withCommon(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metrics.requestsTotal.Add(1)

		clientIP := clientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		if mutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.metrics.rateLimited.Add(1)
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		if rw.statusCode >= 500 {
			s.metrics.errorsTotal.Add(1)
		}

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type contextKey string

const requestIDKey contextKey = "request_id"

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func (s *Server) cachedStats(ctx context.Context, userID string) core.ExpenseStats {
	key := "stats:" + userID
	if stats, found := s.statsCache.Get(key); found {
		s.metrics.statsCacheHits.Add(1)
		slog.DebugContext(ctx, "Stats cache hit", applog.FieldUserID, userID)
		return stats
	}
	s.metrics.statsCacheMiss.Add(1)
	stats := s.services.Expenses.Stats(ctx, userID)
	s.statsCache.Set(key, stats)
	return stats
}

func (s *Server) invalidateStats(userID string) {
	s.statsCache.Delete("stats:" + userID)
}
