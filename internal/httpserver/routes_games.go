// internal/httpserver/routes_games.go
//
// Interactive solver sessions.
//   - POST /games                 → start a session
//   - GET  /games/{id}            → status with history
//   - POST /games/{id}/next       → suggested guess (stable until feedback)
//   - PUT  /games/{id}/guess      → play your own word instead
//   - POST /games/{id}/feedback   → report the pattern, e.g. "20100"
//
// Sessions live in memory; finished games are written to the result store.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

func (s *Server) mountGames(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/next", s.handleNext)
		r.Put("/{id}/guess", s.handleUseGuess)
		r.Post("/{id}/feedback", s.handleFeedback)
	})
}

type newGameReq struct {
	Strategy    string `json:"strategy"`
	MaxAttempts int    `json:"maxAttempts"`
	HardMode    *bool  `json:"hardMode"`
}

type gameRes struct {
	GameID string        `json:"gameId"`
	Guess  string        `json:"guess,omitempty"`
	Status solver.Status `json:"status"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	strategy, err := strategyOr(req.Strategy, s.opts.Strategy)
	if err != nil {
		writeError(w, err)
		return
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = s.opts.MaxAttempts
	}
	hard := s.opts.HardMode
	if req.HardMode != nil {
		hard = *req.HardMode
	}

	g, err := s.Engine().NewGame(strategy, maxAttempts, solver.WithHardMode(hard))
	if err != nil {
		writeError(w, err)
		return
	}
	sess := store.NewSession(uuid.NewString(), g)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	log.Debug().Str("gameId", sess.ID).Str("strategy", strategy.String()).Bool("hardMode", hard).Msg("game created")
	writeJSON(w, http.StatusCreated, gameRes{GameID: sess.ID, Status: g.Status()})
}

// withSession loads the {id} session and runs fn under its lock.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(sess *store.Session, g *solver.Game) (gameRes, error)) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var res gameRes
	err = sess.With(func(g *solver.Game) error {
		var err error
		res, err = fn(sess, g)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	res.GameID = sess.ID
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(_ *store.Session, g *solver.Game) (gameRes, error) {
		return gameRes{Status: g.Status()}, nil
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(_ *store.Session, g *solver.Game) (gameRes, error) {
		guess, err := g.NextGuess()
		if err != nil {
			return gameRes{}, err
		}
		return gameRes{Guess: guess, Status: g.Status()}, nil
	})
}

type useGuessReq struct {
	Word string `json:"word"`
}

func (s *Server) handleUseGuess(w http.ResponseWriter, r *http.Request) {
	var req useGuessReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(_ *store.Session, g *solver.Game) (gameRes, error) {
		if err := g.UseGuess(req.Word); err != nil {
			return gameRes{}, err
		}
		st := g.Status()
		return gameRes{Guess: st.Pending, Status: st}, nil
	})
}

type feedbackReq struct {
	Pattern string `json:"pattern"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.withSession(w, r, func(sess *store.Session, g *solver.Game) (gameRes, error) {
		p, err := feedback.Parse(req.Pattern, s.Engine().Vocabulary().Length())
		if err != nil {
			return gameRes{}, err
		}
		st, err := g.ApplyFeedback(p)
		if err != nil {
			return gameRes{}, err
		}
		if st.State.Terminal() {
			s.record(r, sess.ID, "", st, "session", s.now().Sub(sess.Created))
		}
		return gameRes{Status: st}, nil
	})
}

// record stores a finished game. Failures are logged only.
func (s *Server) record(r *http.Request, id, answer string, st solver.Status, source string, took time.Duration) {
	res := store.Result{
		ID:        id,
		Answer:    answer,
		Strategy:  st.Strategy.String(),
		HardMode:  st.HardMode,
		Guesses:   st.Turn,
		Solved:    st.State == solver.Solved,
		Source:    source,
		ElapsedMs: took.Milliseconds(),
	}
	if !res.Solved {
		res.Guesses = st.MaxAttempts + 1
	}
	log.Info().
		Str("id", id).
		Str("source", source).
		Str("strategy", res.Strategy).
		Bool("solved", res.Solved).
		Int("guesses", res.Guesses).
		Msg("game finished")
	if s.results == nil {
		return
	}
	if err := s.results.Insert(r.Context(), res); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("record result")
	}
}
