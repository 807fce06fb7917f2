// internal/solver/engine.go
//
// Engine bundles everything games share: the vocabulary, the feedback
// source (pattern table or oracle) and the memoized opening guesses.
// An Engine is safe for concurrent use; each Game it creates is not.
package solver

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Engine is the shared, read-mostly half of the solver.
type Engine struct {
	vocab   *words.Vocabulary
	src     cache.Source
	workers int
	guesses []int
	answers []int

	mu      sync.Mutex
	openers map[Strategy]string
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the goroutines used to rank guesses (<=0: GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine creates an engine for vocab. A nil or stale table makes the
// engine fall back to the oracle; results are identical either way.
func NewEngine(vocab *words.Vocabulary, table *cache.Table, opts ...Option) *Engine {
	e := &Engine{
		vocab:   vocab,
		src:     cache.Select(vocab, table),
		workers: runtime.GOMAXPROCS(0),
		openers: make(map[Strategy]string),
	}
	for _, o := range opts {
		o(e)
	}
	e.guesses = indices(len(vocab.Guesses()))
	e.answers = indices(len(vocab.Answers()))
	return e
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Vocabulary returns the engine's vocabulary.
func (e *Engine) Vocabulary() *words.Vocabulary { return e.vocab }

// Source returns the feedback source in use.
func (e *Engine) Source() cache.Source { return e.src }

// Cached reports whether lookups go through a pattern table.
func (e *Engine) Cached() bool {
	_, ok := e.src.(*cache.Table)
	return ok
}

func (e *Engine) allGuesses() []int { return e.guesses }

// Opener returns the best first guess over the full answer pool.
// It is computed once per strategy.
func (e *Engine) Opener(strategy Strategy) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.openers[strategy]; ok {
		return w, nil
	}
	g, score, err := e.bestGuess(e.guesses, e.answers, strategy)
	if err != nil {
		return "", err
	}
	w := e.vocab.Guess(g)
	e.openers[strategy] = w
	log.Debug().Str("strategy", strategy.String()).Str("guess", w).Float64("score", score).Msg("opener computed")
	return w, nil
}

// Openers returns the openers computed or seeded so far.
func (e *Engine) Openers() map[Strategy]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[Strategy]string, len(e.openers))
	for s, w := range e.openers {
		out[s] = w
	}
	return out
}

// SeedOpener installs a previously computed opener, e.g. one loaded from
// the opener store for this vocabulary.
func (e *Engine) SeedOpener(strategy Strategy, word string) error {
	if _, ok := e.vocab.GuessIndex(word); !ok {
		return fmt.Errorf("%w: opener %q", words.ErrUnknownWord, word)
	}
	e.mu.Lock()
	e.openers[strategy] = word
	e.mu.Unlock()
	return nil
}

// Score scores guess against the candidate words with strategy.
func (e *Engine) Score(guess string, candidates []string, strategy Strategy) (float64, error) {
	g, ok := e.vocab.GuessIndex(guess)
	if !ok {
		return 0, fmt.Errorf("%w: guess %q", words.ErrUnknownWord, guess)
	}
	cands, err := e.answerIndices(candidates)
	if err != nil {
		return 0, err
	}
	if len(cands) == 0 {
		return 0, nil
	}
	return newScorer(e.src, e.vocab.Length()).score(g, cands, strategy), nil
}

// BestGuess returns the best word of pool against candidates.
func (e *Engine) BestGuess(pool, candidates []string, strategy Strategy) (string, error) {
	gs := make([]int, 0, len(pool))
	for _, w := range pool {
		g, ok := e.vocab.GuessIndex(w)
		if !ok {
			return "", fmt.Errorf("%w: guess %q", words.ErrUnknownWord, w)
		}
		gs = append(gs, g)
	}
	cands, err := e.answerIndices(candidates)
	if err != nil {
		return "", err
	}
	if len(cands) != 1 && len(gs) == 0 {
		return "", fmt.Errorf("%w: empty guess pool", feedback.ErrInvalidInput)
	}
	g, _, err := e.bestGuess(gs, cands, strategy)
	if err != nil {
		return "", err
	}
	return e.vocab.Guess(g), nil
}

// Refilter derives the candidate set from scratch by replaying history
// over the full answer pool.
func (e *Engine) Refilter(history []Turn) ([]string, error) {
	cands := e.answers
	for _, t := range history {
		g, ok := e.vocab.GuessIndex(t.Guess)
		if !ok {
			return nil, fmt.Errorf("%w: guess %q", words.ErrUnknownWord, t.Guess)
		}
		if err := t.Pattern.Validate(e.vocab.Length()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		cands = Filter(e.src, cands, g, t.Pattern.Code())
	}
	return e.answerWords(cands), nil
}

func (e *Engine) answerIndices(ws []string) ([]int, error) {
	out := make([]int, 0, len(ws))
	for _, w := range ws {
		a, ok := e.vocab.AnswerIndex(w)
		if !ok {
			return nil, fmt.Errorf("%w: candidate %q", words.ErrUnknownWord, w)
		}
		out = append(out, a)
	}
	return out, nil
}

func (e *Engine) answerWords(as []int) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = e.vocab.Answer(a)
	}
	return out
}
