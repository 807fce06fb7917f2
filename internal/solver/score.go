// internal/solver/score.go
//
// Guess scoring.
// Responsibilities:
//   - Partition a candidate set by the feedback a guess would produce.
//   - Score the partition (entropy or minimax).
//   - Pick the best guess from a pool, in parallel, with a deterministic
//     tie-break: higher score, then a guess that is itself a candidate,
//     then the lexicographically smallest word.
package solver

import (
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// minParallelPool is the pool size below which bestGuess stays on one
// goroutine.
var minParallelPool = 512

// Partition groups candidates (answer indices) by the code guess produces
// against each of them and returns the group sizes.
func Partition(src cache.Source, guess int, candidates []int) map[feedback.Code]int {
	groups := make(map[feedback.Code]int)
	for _, a := range candidates {
		groups[src.Code(a, guess)]++
	}
	return groups
}

// scorer reuses its buffers across guesses; one per goroutine.
type scorer struct {
	src     cache.Source
	counts  []int
	touched []feedback.Code
	sizes   []int
}

func newScorer(src cache.Source, length int) *scorer {
	return &scorer{src: src, counts: make([]int, feedback.Space(length))}
}

func (s *scorer) score(guess int, candidates []int, strategy Strategy) float64 {
	s.touched = s.touched[:0]
	for _, a := range candidates {
		c := s.src.Code(a, guess)
		if s.counts[c] == 0 {
			s.touched = append(s.touched, c)
		}
		s.counts[c]++
	}
	s.sizes = s.sizes[:0]
	for _, c := range s.touched {
		s.sizes = append(s.sizes, s.counts[c])
		s.counts[c] = 0
	}
	return strategy.score(s.sizes, len(candidates))
}

// ranked is one evaluated guess.
type ranked struct {
	guess  int
	score  float64
	inCand bool
	word   string
}

// better is a total order over distinct guesses, so any reduction order
// yields the same winner.
func (a ranked) better(b ranked) bool {
	if a.guess < 0 {
		return false
	}
	if b.guess < 0 {
		return true
	}
	if a.score != b.score {
		return a.score > b.score
	}
	if a.inCand != b.inCand {
		return a.inCand
	}
	return a.word < b.word
}

// bestGuess returns the best guess index from pool for candidates.
func (e *Engine) bestGuess(pool, candidates []int, strategy Strategy) (int, float64, error) {
	switch len(candidates) {
	case 0:
		return -1, 0, ErrNoCandidates
	case 1:
		g, _ := e.vocab.GuessIndex(e.vocab.Answer(candidates[0]))
		return g, strategy.score([]int{1}, 1), nil
	}

	inCand := make([]bool, len(e.vocab.Guesses()))
	for _, a := range candidates {
		g, _ := e.vocab.GuessIndex(e.vocab.Answer(a))
		inCand[g] = true
	}

	// With two candidates, guessing one of them already splits the set
	// perfectly (best possible score under both strategies) and wins the
	// tie-break against any non-candidate, so only candidates need scoring.
	if len(candidates) <= 2 {
		var small []int
		for _, g := range pool {
			if inCand[g] {
				small = append(small, g)
			}
		}
		if len(small) == len(candidates) {
			pool = small
		}
	}

	workers := e.workers
	if len(pool) < minParallelPool || workers < 2 {
		workers = 1
	}
	chunk := (len(pool) + workers - 1) / workers
	results := make([]ranked, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, len(pool))
		results[w] = ranked{guess: -1}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			s := newScorer(e.src, e.vocab.Length())
			best := ranked{guess: -1}
			for _, gi := range pool[lo:hi] {
				r := ranked{
					guess:  gi,
					score:  s.score(gi, candidates, strategy),
					inCand: inCand[gi],
					word:   e.vocab.Guess(gi),
				}
				if r.better(best) {
					best = r
				}
			}
			results[w] = best
			return nil
		})
	}
	_ = g.Wait()

	best := ranked{guess: -1}
	for _, r := range results {
		if r.better(best) {
			best = r
		}
	}
	if best.guess < 0 {
		return -1, 0, ErrNoCandidates
	}
	return best.guess, best.score, nil
}
