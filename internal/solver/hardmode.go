// internal/solver/hardmode.go
//
// Hard-mode guess restrictions derived from the game history.

package solver

import "github.com/robalobadob/wordle/apps/go-solver/internal/feedback"

// hardRules are the constraints hard mode places on the next guess:
// a revealed Correct letter stays in its position, and a revealed Present
// letter must be used, but not where it was marked Present.
type hardRules struct {
	fixed     []byte           // position -> required letter, 0 if free
	required  [26]bool         // letters that must appear
	forbidden map[int][26]bool // position -> letters marked Present there
}

func newHardRules(length int, history []Turn) hardRules {
	r := hardRules{fixed: make([]byte, length), forbidden: make(map[int][26]bool)}
	for _, t := range history {
		for i, m := range t.Pattern {
			c := t.Guess[i]
			switch m {
			case feedback.Correct:
				r.fixed[i] = c
			case feedback.Present:
				r.required[c-'a'] = true
				f := r.forbidden[i]
				f[c-'a'] = true
				r.forbidden[i] = f
			}
		}
	}
	return r
}

// allows reports whether word satisfies every rule.
func (r hardRules) allows(word string) bool {
	var has [26]bool
	for i := 0; i < len(word); i++ {
		c := word[i]
		if r.fixed[i] != 0 && c != r.fixed[i] {
			return false
		}
		if r.forbidden[i][c-'a'] {
			return false
		}
		has[c-'a'] = true
	}
	for l, need := range r.required {
		if need && !has[l] {
			return false
		}
	}
	return true
}

// hardPool returns the guess indices allowed under hard mode. When nothing
// qualifies the whole pool is returned.
func (e *Engine) hardPool(history []Turn) []int {
	all := e.allGuesses()
	if len(history) == 0 {
		return all
	}
	rules := newHardRules(e.vocab.Length(), history)
	pool := make([]int, 0, len(all))
	for _, g := range all {
		if rules.allows(e.vocab.Guess(g)) {
			pool = append(pool, g)
		}
	}
	if len(pool) == 0 {
		return all
	}
	return pool
}
