// internal/httpserver/server.go
//
// HTTP server wiring for the solver API.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Interactive sessions: /games/* (routes_games.go), dropped after
//     SessionTTL without use.
//   - Self-play and stats: /solve, /daily/solve, /stats (routes_solve.go).
//   - Admin: /admin/cache/rebuild behind an admin JWT (admin.go).
//
// Errors are JSON bodies {"error": code, "detail": message}; see writeError
// for the mapping from solver errors to status codes.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

// DefaultSessionTTL applies when Options.SessionTTL is unset.
const DefaultSessionTTL = time.Hour

// Options holds the HTTP-facing settings.
type Options struct {
	ClientOrigin   string
	JWTSecret      string // empty disables /admin
	DailySalt      string
	RequestTimeout time.Duration
	CacheWorkers   int

	// SessionTTL is how long an untouched game session is kept.
	SessionTTL time.Duration

	// Defaults for requests that leave these out.
	Strategy    solver.Strategy
	MaxAttempts int
	HardMode    bool
}

// Server bundles the router, the solver engine and the stores.
type Server struct {
	r    *chi.Mux
	opts Options

	engine   atomic.Pointer[solver.Engine]
	sessions store.Sessions
	results  store.Results
	tables   cache.Store // may be nil

	now func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(e *solver.Engine, sessions store.Sessions, results store.Results, tables cache.Store, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = solver.DefaultMaxAttempts
	}
	s := &Server{
		r:        chi.NewRouter(),
		opts:     opts,
		sessions: sessions,
		results:  results,
		tables:   tables,
		now:      time.Now,
	}
	s.engine.Store(e)

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                      // one debug line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wordle-solver",
			"endpoints": []string{
				"/health", "POST /games", "GET /games/{id}", "POST /games/{id}/next",
				"PUT /games/{id}/guess", "POST /games/{id}/feedback", "POST /solve",
				"/daily/solve", "/stats", "POST /admin/cache/rebuild",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		e := s.Engine()
		a, g := e.Vocabulary().Stats()
		writeJSON(w, http.StatusOK, map[string]any{
			"answers": a,
			"allowed": g,
			"length":  e.Vocabulary().Length(),
			"key":     e.Vocabulary().Key(),
			"cached":  e.Cached(),
		})
	})

	s.mountGames(s.r)
	s.mountSolve(s.r)
	s.mountAdmin(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Engine returns the engine new games are created on.
func (s *Server) Engine() *solver.Engine { return s.engine.Load() }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	go s.evictSessions(ctx)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// evictSessions sweeps idle sessions until ctx is cancelled.
func (s *Server) evictSessions(ctx context.Context) {
	every := max(s.opts.SessionTTL/4, time.Second)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweepSessions(ctx)
		}
	}
}

func (s *Server) sweepSessions(ctx context.Context) {
	n, err := s.sessions.Sweep(ctx, s.now().Add(-s.opts.SessionTTL))
	if err != nil {
		log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if n > 0 {
		log.Debug().Int("evicted", n).Msg("idle sessions dropped")
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError maps err to a status code and writes {"error","detail"}.
func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, solver.ErrInconsistent), errors.Is(err, solver.ErrNoCandidates):
		status, code = http.StatusUnprocessableEntity, "inconsistent"
	case errors.Is(err, solver.ErrState):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, feedback.ErrInvalidInput):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status, code = http.StatusServiceUnavailable, "timeout"
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": code, "detail": err.Error()})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: bad json: %v", feedback.ErrInvalidInput, err)
}

// strategyOr parses s, falling back to def when s is empty.
func strategyOr(s string, def solver.Strategy) (solver.Strategy, error) {
	if s == "" {
		return def, nil
	}
	return solver.ParseStrategy(s)
}
