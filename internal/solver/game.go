// internal/solver/game.go
//
// Game is the solver loop for one puzzle.
//
// State transitions:
//   AwaitingGuess    --NextGuess/UseGuess--> AwaitingFeedback
//   AwaitingFeedback --ApplyFeedback------> Solved      (all Correct)
//                                          Exhausted   (turn == maxAttempts)
//                                          AwaitingGuess
//
// A Game is owned by one caller; it does no locking of its own.
package solver

import (
	"fmt"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// DefaultMaxAttempts matches the classic six-row board.
const DefaultMaxAttempts = 6

// remainingShown caps the candidate sample included in Status.
const remainingShown = 10

// State of a Game.
type State int

const (
	AwaitingGuess State = iota
	AwaitingFeedback
	Solved
	Exhausted
)

func (s State) String() string {
	switch s {
	case AwaitingGuess:
		return "awaiting_guess"
	case AwaitingFeedback:
		return "awaiting_feedback"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether no further moves are possible.
func (s State) Terminal() bool { return s == Solved || s == Exhausted }

// Turn is one (guess, feedback) pair of the history.
type Turn struct {
	Guess   string           `json:"guess"`
	Pattern feedback.Pattern `json:"pattern"`
}

// Status is a snapshot of a game.
type Status struct {
	Turn           int      `json:"turn"`
	CandidateCount int      `json:"candidateCount"`
	State          State    `json:"state"`
	Strategy       Strategy `json:"strategy"`
	HardMode       bool     `json:"hardMode"`
	MaxAttempts    int      `json:"maxAttempts"`
	Pending        string   `json:"pending,omitempty"`
	History        []Turn   `json:"history"`
	// Remaining lists every candidate when there are at most ten of them,
	// otherwise the first five.
	Remaining []string `json:"remaining"`
}

// GameOption configures a Game.
type GameOption func(*Game)

// WithHardMode restricts guesses to words consistent with revealed hints.
func WithHardMode(on bool) GameOption {
	return func(g *Game) { g.hardMode = on }
}

// Game holds the state of a single solving session.
type Game struct {
	engine      *Engine
	strategy    Strategy
	maxAttempts int
	hardMode    bool

	turn       int
	candidates []int // answer indices, ascending
	history    []Turn
	pending    int // guess index, -1 when none
	state      State
}

// NewGame starts a game over the full answer pool.
func (e *Engine) NewGame(strategy Strategy, maxAttempts int, opts ...GameOption) (*Game, error) {
	if strategy != Entropy && strategy != Minimax {
		return nil, fmt.Errorf("%w: strategy %d", feedback.ErrInvalidInput, int(strategy))
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: maxAttempts must be positive, got %d", feedback.ErrInvalidInput, maxAttempts)
	}
	g := &Game{
		engine:      e,
		strategy:    strategy,
		maxAttempts: maxAttempts,
		candidates:  e.answers,
		history:     []Turn{},
		pending:     -1,
		state:       AwaitingGuess,
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// State returns the current state.
func (g *Game) State() State { return g.state }

// NextGuess picks and returns the next guess. Calling it again before
// feedback returns the same word.
func (g *Game) NextGuess() (string, error) {
	switch g.state {
	case Solved:
		return "", ErrSolvedAlready
	case Exhausted:
		return "", ErrExhausted
	case AwaitingFeedback:
		return g.engine.vocab.Guess(g.pending), nil
	}

	var word string
	if g.turn == 0 && len(g.history) == 0 {
		w, err := g.engine.Opener(g.strategy)
		if err != nil {
			return "", err
		}
		word = w
	} else {
		pool := g.engine.allGuesses()
		if g.hardMode {
			pool = g.engine.hardPool(g.history)
		}
		gi, _, err := g.engine.bestGuess(pool, g.candidates, g.strategy)
		if err != nil {
			return "", err
		}
		word = g.engine.vocab.Guess(gi)
	}

	g.pending, _ = g.engine.vocab.GuessIndex(word)
	g.state = AwaitingFeedback
	return word, nil
}

// UseGuess replaces the suggested guess with the player's own word.
func (g *Game) UseGuess(word string) error {
	switch g.state {
	case Solved:
		return ErrSolvedAlready
	case Exhausted:
		return ErrExhausted
	}
	gi, ok := g.engine.vocab.GuessIndex(word)
	if !ok {
		return fmt.Errorf("%w: guess %q", words.ErrUnknownWord, word)
	}
	if g.hardMode && len(g.history) > 0 {
		rules := newHardRules(g.engine.vocab.Length(), g.history)
		if !rules.allows(g.engine.vocab.Guess(gi)) {
			return fmt.Errorf("%w: %q breaks hard mode", feedback.ErrInvalidInput, word)
		}
	}
	g.pending = gi
	g.state = AwaitingFeedback
	return nil
}

// ApplyFeedback records the observed pattern for the pending guess and
// narrows the candidate set. Feedback that leaves no candidate, including
// all Correct for a guess outside the answers, is ErrInconsistent.
func (g *Game) ApplyFeedback(p feedback.Pattern) (Status, error) {
	if g.state != AwaitingFeedback {
		return g.Status(), ErrNotAwaitingFeedback
	}
	if err := p.Validate(g.engine.vocab.Length()); err != nil {
		return g.Status(), fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	next := Filter(g.engine.src, g.candidates, g.pending, p.Code())
	solved := p.Solved()
	if len(next) == 0 {
		return g.Status(), fmt.Errorf("%w: %s for %q", ErrInconsistent, p, g.engine.vocab.Guess(g.pending))
	}

	g.history = append(g.history, Turn{
		Guess:   g.engine.vocab.Guess(g.pending),
		Pattern: append(feedback.Pattern(nil), p...),
	})
	g.candidates = next
	g.turn++
	g.pending = -1

	switch {
	case solved:
		g.state = Solved
	case g.turn >= g.maxAttempts:
		g.state = Exhausted
	default:
		g.state = AwaitingGuess
	}
	return g.Status(), nil
}

// Candidates returns every remaining candidate word.
func (g *Game) Candidates() []string { return g.engine.answerWords(g.candidates) }

// History returns a copy of the (guess, pattern) history.
func (g *Game) History() []Turn { return append([]Turn(nil), g.history...) }

// Status returns a snapshot of the game.
func (g *Game) Status() Status {
	st := Status{
		Turn:           g.turn,
		CandidateCount: len(g.candidates),
		State:          g.state,
		Strategy:       g.strategy,
		HardMode:       g.hardMode,
		MaxAttempts:    g.maxAttempts,
		History:        g.History(),
	}
	if g.pending >= 0 {
		st.Pending = g.engine.vocab.Guess(g.pending)
	}
	shown := g.candidates
	if len(shown) > remainingShown {
		shown = shown[:remainingShown/2]
	}
	st.Remaining = g.engine.answerWords(shown)
	return st
}
