// internal/cache/table.go
//
// Precomputed feedback table for one vocabulary.
// Responsibilities:
//   - Build the |answers| x |guesses| table of feedback codes, in parallel.
//   - O(1) lookups by (answer index, guess index).
//   - Detect staleness against a vocabulary fingerprint.
//
// A Table is immutable once Build returns and may be shared by any number
// of games and scorers without locking.
package cache

import (
	"context"
	"runtime"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// rowsPerTask is the number of answer rows a single build task fills.
const rowsPerTask = 64

// Table maps every (answer, guess) pair of a vocabulary to its feedback code.
type Table struct {
	length  int
	answers int
	guesses int
	fp      [blake2b.Size256]byte
	codes   []feedback.Code // row-major: codes[answer*guesses+guess]
}

// Build computes the table for vocab. Work is split into disjoint answer
// row ranges spread over at most workers goroutines (<=0 means GOMAXPROCS);
// the result is identical for every worker count.
func Build(ctx context.Context, vocab *words.Vocabulary, workers int) (*Table, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	answers, guesses := vocab.Answers(), vocab.Guesses()
	t := &Table{
		length:  vocab.Length(),
		answers: len(answers),
		guesses: len(guesses),
		fp:      vocab.Fingerprint(),
		codes:   make([]feedback.Code, len(answers)*len(guesses)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(answers); lo += rowsPerTask {
		lo, hi := lo, min(lo+rowsPerTask, len(answers))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for a := lo; a < hi; a++ {
				row := t.codes[a*t.guesses : (a+1)*t.guesses]
				for gi, guess := range guesses {
					row[gi] = feedback.ComputeCode(guess, answers[a])
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

// Code implements Source.
func (t *Table) Code(answer, guess int) feedback.Code {
	return t.codes[answer*t.guesses+guess]
}

// Lookup returns the feedback pattern for (answer, guess).
func (t *Table) Lookup(answer, guess int) feedback.Pattern {
	return feedback.Decode(t.Code(answer, guess), t.length)
}

// IsStale reports whether the table was built for a different vocabulary.
func (t *Table) IsStale(vocab *words.Vocabulary) bool {
	a, g := vocab.Stats()
	return t.fp != vocab.Fingerprint() || t.answers != a || t.guesses != g || t.length != vocab.Length()
}

// Dims returns (answers, guesses).
func (t *Table) Dims() (answers, guesses int) { return t.answers, t.guesses }

// WordLength returns the word length the table was built for.
func (t *Table) WordLength() int { return t.length }
