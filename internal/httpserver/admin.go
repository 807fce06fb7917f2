// internal/httpserver/admin.go
//
// Admin endpoints and bearer-token handling.
// Tokens are HS256 JWTs signed with JWT_SECRET carrying role=admin; the
// `token` command mints them. Without a secret every /admin route answers 503.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// RoleAdmin is the role claim required by /admin routes.
const RoleAdmin = "admin"

// SignToken creates an HS256 JWT for subject with role and an expiry of
// days (default 14).
func SignToken(secret, subject, role string, days int) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("empty jwt secret")
	}
	if days <= 0 {
		days = 14
	}
	now := time.Now()
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// bearer extracts a bearer token from the Authorization header.
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

type ctxSubjectKey struct{}

// requireRole enforces a valid JWT whose role claim equals role.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.opts.JWTSecret == "" {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "admin_disabled"})
				return
			}
			tokenStr := bearer(r)
			if tokenStr == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(s.opts.JWTSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
				return
			}
			if got, _ := claims["role"].(string); got != role {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
				return
			}
			sub, _ := claims["sub"].(string)
			ctx := context.WithValue(r.Context(), ctxSubjectKey{}, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) mountAdmin(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireRole(RoleAdmin))
		r.Post("/cache/rebuild", s.handleRebuild)
	})
}

type rebuildRes struct {
	Key     string `json:"key"`
	Answers int    `json:"answers"`
	Guesses int    `json:"guesses"`
	TookMs  int64  `json:"tookMs"`
	Saved   bool   `json:"saved"`
}

// handleRebuild builds a fresh pattern table, saves it, and swaps in a new
// engine. Sessions already running keep the engine they started on.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	old := s.Engine()
	vocab := old.Vocabulary()
	start := time.Now()
	t, err := cache.Build(r.Context(), vocab, s.opts.CacheWorkers)
	if err != nil {
		writeError(w, err)
		return
	}
	res := rebuildRes{Key: vocab.Key(), TookMs: time.Since(start).Milliseconds()}
	res.Answers, res.Guesses = t.Dims()

	if s.tables != nil {
		if err := s.tables.Save(r.Context(), vocab.Key(), t); err != nil {
			log.Warn().Err(err).Msg("save rebuilt pattern table")
		} else {
			res.Saved = true
		}
	}

	e := solver.NewEngine(vocab, t, solver.WithWorkers(s.opts.CacheWorkers))
	for st, word := range old.Openers() {
		_ = e.SeedOpener(st, word)
	}
	s.engine.Store(e)

	sub, _ := r.Context().Value(ctxSubjectKey{}).(string)
	log.Info().Str("by", sub).Int64("tookMs", res.TookMs).Bool("saved", res.Saved).Msg("pattern table rebuilt")
	writeJSON(w, http.StatusOK, res)
}
