// internal/cache/source.go
//
// Feedback sources: the precomputed Table or the on-demand Oracle.
// Select picks the table when it matches the vocabulary.

package cache

import (
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Source yields the feedback code of guess index against answer index.
// Implementations must agree with feedback.ComputeCode for every key.
type Source interface {
	Code(answer, guess int) feedback.Code
}

// Oracle computes codes on demand. It is the fallback when no table is
// available and gives identical results at higher cost.
type Oracle struct {
	vocab *words.Vocabulary
}

// NewOracle returns a Source that calls the feedback oracle directly.
func NewOracle(vocab *words.Vocabulary) Oracle { return Oracle{vocab: vocab} }

// Code implements Source.
func (o Oracle) Code(answer, guess int) feedback.Code {
	return feedback.ComputeCode(o.vocab.Guess(guess), o.vocab.Answer(answer))
}

// Select picks the table when it is present and matches vocab, and the
// oracle otherwise.
func Select(vocab *words.Vocabulary, t *Table) Source {
	if t == nil {
		log.Debug().Msg("no pattern table, using oracle")
		return NewOracle(vocab)
	}
	if t.IsStale(vocab) {
		log.Warn().Str("vocabulary", vocab.Key()).Msg("pattern table is stale, using oracle")
		return NewOracle(vocab)
	}
	return t
}
