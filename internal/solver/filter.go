// internal/solver/filter.go
//
// Candidate filtering by observed feedback.

package solver

import (
	"fmt"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// Filter keeps the candidates (answer indices) whose feedback for guess
// equals code. The result is a new slice in the original order.
func Filter(src cache.Source, candidates []int, guess int, code feedback.Code) []int {
	out := make([]int, 0, len(candidates))
	for _, a := range candidates {
		if src.Code(a, guess) == code {
			out = append(out, a)
		}
	}
	return out
}

// FilterWords is the word-level filter: it keeps every candidate c for
// which the oracle gives observed for (guess, c).
func FilterWords(candidates []string, guess string, observed feedback.Pattern) ([]string, error) {
	if err := feedback.CheckWord(guess); err != nil {
		return nil, err
	}
	if err := observed.Validate(len(guess)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	want := observed.Code()
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if len(c) != len(guess) {
			return nil, fmt.Errorf("%w: candidate %q has length %d", feedback.ErrInvalidInput, c, len(c))
		}
		if err := feedback.CheckWord(c); err != nil {
			return nil, err
		}
		if feedback.ComputeCode(guess, c) == want {
			out = append(out, c)
		}
	}
	return out, nil
}
