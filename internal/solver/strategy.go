// internal/solver/strategy.go
//
// Scoring strategies over a partition of the candidate set:
//   - Entropy: expected information in bits.
//   - Minimax: negated size of the largest group.

package solver

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// Strategy selects how a partition of the candidate set is scored.
type Strategy int

const (
	// Entropy maximizes expected information gain in bits.
	Entropy Strategy = iota
	// Minimax minimizes the worst-case number of remaining candidates.
	Minimax
)

// ParseStrategy accepts "entropy" or "minimax" (case-insensitive).
// An empty string means Entropy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "entropy":
		return Entropy, nil
	case "minimax":
		return Minimax, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", feedback.ErrInvalidInput, s)
}

func (s Strategy) String() string {
	switch s {
	case Entropy:
		return "entropy"
	case Minimax:
		return "minimax"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// score turns the group sizes of a partition over n candidates into a
// scalar; higher is better. sizes is reordered.
func (s Strategy) score(sizes []int, n int) float64 {
	switch s {
	case Minimax:
		return -float64(slices.Max(sizes))
	default:
		return entropy(sizes, n)
	}
}

// entropy is -Σ p·log2(p) written as log2(n) - Σ c·log2(c)/n. Sizes are
// summed in ascending order so equal size multisets give identical bits,
// which keeps ties exact. The result is clamped to [0, log2(n)].
func entropy(sizes []int, n int) float64 {
	if n <= 1 || len(sizes) == 1 {
		return 0
	}
	slices.Sort(sizes)
	var acc float64
	for _, c := range sizes {
		if c > 1 {
			fc := float64(c)
			acc += fc * math.Log2(fc)
		}
	}
	hi := math.Log2(float64(n))
	h := hi - acc/float64(n)
	return math.Max(0, math.Min(h, hi))
}
