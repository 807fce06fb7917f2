// internal/store/results.go
//
// Finished-game records and opening-guess persistence, shared by the
// memory and SQLite backends.

package store

import (
	"context"
	"time"
)

// Result is one finished game.
type Result struct {
	ID        string    `json:"id"`
	Answer    string    `json:"answer,omitempty"`
	Strategy  string    `json:"strategy"`
	HardMode  bool      `json:"hardMode"`
	Guesses   int       `json:"guesses"`
	Solved    bool      `json:"solved"`
	Source    string    `json:"source"` // "session" | "solve" | "daily" | "bench"
	ElapsedMs int64     `json:"elapsedMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary aggregates results for one strategy ("" means all).
type Summary struct {
	Strategy     string      `json:"strategy,omitempty"`
	Games        int         `json:"games"`
	Solved       int         `json:"solved"`
	MeanGuesses  float64     `json:"meanGuesses"` // over solved games
	Distribution map[int]int `json:"distribution"`
}

func newSummary(strategy string) Summary {
	return Summary{Strategy: strategy, Distribution: map[int]int{}}
}

func (s *Summary) add(guesses int, solved bool, n int) {
	s.Games += n
	if !solved {
		return
	}
	s.Solved += n
	s.Distribution[guesses] += n
	s.MeanGuesses += float64(guesses * n)
}

func (s Summary) finish() Summary {
	if s.Solved > 0 {
		s.MeanGuesses /= float64(s.Solved)
	}
	return s
}

// Results records finished games.
type Results interface {
	Insert(ctx context.Context, r Result) error
	Summary(ctx context.Context, strategy string) (Summary, error)
}

// Openers persists best first guesses keyed by vocabulary fingerprint.
type Openers interface {
	// LoadOpeners returns strategy -> guess for key (empty when none).
	LoadOpeners(ctx context.Context, key string) (map[string]string, error)
	SaveOpener(ctx context.Context, key, strategy, guess string) error
}

var (
	_ Results = (*MemoryResults)(nil)
	_ Results = (*SQLResults)(nil)
	_ Openers = (*MemoryOpeners)(nil)
	_ Openers = (*SQLOpeners)(nil)
)
