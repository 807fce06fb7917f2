// internal/httpserver/routes_solve.go
//
// Self-play endpoints.
//   - POST /solve        → solve a given answer, return the full trace
//   - GET  /daily/solve  → solve today's deterministic answer (date + salt)
//   - GET  /stats        → aggregate results, optionally per strategy

package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func (s *Server) mountSolve(r chi.Router) {
	r.Post("/solve", s.handleSolve)
	r.Get("/daily/solve", s.handleDailySolve)
	r.Get("/stats", s.handleStats)
}

type solveReq struct {
	Answer      string `json:"answer"`
	Strategy    string `json:"strategy"`
	MaxAttempts int    `json:"maxAttempts"`
	HardMode    *bool  `json:"hardMode"`
}

type solveRes struct {
	Date      string        `json:"date,omitempty"`
	WordIndex *int          `json:"wordIndex,omitempty"`
	Answer    string        `json:"answer"`
	Guesses   []string      `json:"guesses"`
	Status    solver.Status `json:"status"`
}

// selfPlay runs a full game against answer and records it under id.
func (s *Server) selfPlay(r *http.Request, id, source string, req solveReq) (solveRes, error) {
	e := s.Engine()
	if !e.Vocabulary().IsAnswer(req.Answer) {
		return solveRes{}, fmt.Errorf("%w: %q is not a possible answer", words.ErrUnknownWord, req.Answer)
	}
	strategy, err := strategyOr(req.Strategy, s.opts.Strategy)
	if err != nil {
		return solveRes{}, err
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = s.opts.MaxAttempts
	}
	hard := s.opts.HardMode
	if req.HardMode != nil {
		hard = *req.HardMode
	}

	g, err := e.NewGame(strategy, maxAttempts, solver.WithHardMode(hard))
	if err != nil {
		return solveRes{}, err
	}
	start := s.now()
	st, err := e.Play(r.Context(), g, solver.OracleSource{Answer: req.Answer})
	if err != nil {
		return solveRes{}, err
	}
	s.record(r, id, req.Answer, st, source, s.now().Sub(start))

	res := solveRes{Answer: req.Answer, Guesses: make([]string, 0, len(st.History)), Status: st}
	for _, t := range st.History {
		res.Guesses = append(res.Guesses, t.Guess)
	}
	return res, nil
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.selfPlay(r, uuid.NewString(), "solve", req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleDailySolve solves today's puzzle. Query parameters strategy and
// hardMode override the defaults. The result is recorded once per day and
// configuration.
func (s *Server) handleDailySolve(w http.ResponseWriter, r *http.Request) {
	p := daily.For(s.now(), s.opts.DailySalt, s.Engine().Vocabulary())
	req := solveReq{Answer: p.Answer, Strategy: r.URL.Query().Get("strategy")}
	if v := r.URL.Query().Get("hardMode"); v != "" {
		hard := v == "true" || v == "1"
		req.HardMode = &hard
	}
	strategy, err := strategyOr(req.Strategy, s.opts.Strategy)
	if err != nil {
		writeError(w, err)
		return
	}
	hard := s.opts.HardMode
	if req.HardMode != nil {
		hard = *req.HardMode
	}
	id := fmt.Sprintf("daily-%s-%s-%t", p.Date, strategy, hard)

	res, err := s.selfPlay(r, id, "daily", req)
	if err != nil {
		writeError(w, err)
		return
	}
	res.Date = p.Date
	res.WordIndex = &p.WordIndex
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	strategy := r.URL.Query().Get("strategy")
	if strategy != "" {
		st, err := solver.ParseStrategy(strategy)
		if err != nil {
			writeError(w, err)
			return
		}
		strategy = st.String()
	}
	if s.results == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no_result_store"})
		return
	}
	sum, err := s.results.Summary(r.Context(), strategy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
