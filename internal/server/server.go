package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/web3-jobboard/internal/config"
	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/server/middleware"
	"github.com/jonathan/web3-jobboard/internal/server/ratelimit"
	"github.com/jonathan/web3-jobboard/internal/types"
)

// JobStore is the job storage the API reads.
type JobStore interface {
	search.Store
	GetJob(ctx context.Context, id string) (*types.JobPosting, error)
	GetJobsByIDs(ctx context.Context, ids []string) ([]types.JobPosting, error)
}

// ProfileStore reads profiles and appends interaction history.
type ProfileStore interface {
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	RecordInteraction(ctx context.Context, userID uuid.UUID, jobID, kind string) error
}

// FilterSource provides the values for the filter controls.
type FilterSource interface {
	FilterOptions(ctx context.Context) (*types.FilterOptions, error)
}

// Options wires the server's dependencies.
type Options struct {
	Config    *config.Config
	Jobs      JobStore
	Profiles  ProfileStore
	Filters   FilterSource // defaults to Jobs when it implements FilterSource
	Tokens    middleware.TokenValidator
	RateLimit *ratelimit.Config // nil disables rate limiting
	Checkers  []Checker
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	jobs        JobStore
	exec        *search.Executor
	profiles    ProfileStore
	filters     FilterSource
	checkers    []Checker
	rateLimiter *ratelimit.Limiter
	now         func() time.Time
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Jobs == nil {
		return nil, fmt.Errorf("server requires a job store")
	}
	if opts.Profiles == nil || opts.Tokens == nil {
		return nil, fmt.Errorf("server requires a profile store and a token validator")
	}
	if opts.Filters == nil {
		fs, ok := opts.Jobs.(FilterSource)
		if !ok {
			return nil, fmt.Errorf("server requires a filter source")
		}
		opts.Filters = fs
	}

	s := &Server{
		cfg:      opts.Config,
		jobs:     opts.Jobs,
		exec:     search.NewExecutor(opts.Jobs),
		profiles: opts.Profiles,
		filters:  opts.Filters,
		checkers: opts.Checkers,
		now:      time.Now,
	}

	rl := opts.RateLimit
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	s.rateLimiter = ratelimit.NewLimiter(rl)

	auth := middleware.AuthMiddleware(opts.Tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)

	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.Handle("GET /jobs/recommended", auth(http.HandlerFunc(s.handleRecommendedJobs)))
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.Handle("POST /jobs/{id}/interactions", auth(http.HandlerFunc(s.handleRecordInteraction)))
	mux.HandleFunc("GET /filters", s.handleFilters)
	mux.Handle("GET /me/profile", auth(http.HandlerFunc(s.handleGetProfile)))

	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.withTimeout(mux)))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured deadline.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[server] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownDeadline)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("[server] Stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withTimeout bounds the store calls a request can make.
func (s *Server) withTimeout(next http.Handler) http.Handler {
	if s.cfg.RequestTimeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] Error encoding JSON response: %v", err)
	}
}

// extractClientID returns the client IP from RemoteAddr.
// X-Forwarded-For is ignored since no trusted proxy list is configured.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate limit exceeded",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.UTC().Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d", info.Limit, info.Remaining)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
