// internal/bench/bench.go
//
// Self-play benchmark: solves every answer of the vocabulary with one
// strategy and reports the guess distribution.
// A game that is not solved within MaxAttempts counts as MaxAttempts+1.

package bench

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

// Options configures a run.
type Options struct {
	Strategy    solver.Strategy
	HardMode    bool
	MaxAttempts int      // <=0: solver.DefaultMaxAttempts
	Workers     int      // concurrent games, <=0: 8
	Answers     []string // nil: every answer of the vocabulary
}

// Outcome is one played game.
type Outcome struct {
	Answer  string   `json:"answer"`
	Guesses int      `json:"guesses"` // MaxAttempts+1 when unsolved
	Solved  bool     `json:"solved"`
	Path    []string `json:"path"`
}

// Report is the result of a run. Outcomes are in answer order.
type Report struct {
	Strategy    solver.Strategy `json:"strategy"`
	HardMode    bool            `json:"hardMode"`
	MaxAttempts int             `json:"maxAttempts"`
	Outcomes    []Outcome       `json:"outcomes"`
	Elapsed     time.Duration   `json:"elapsed"`
}

// Run plays every answer against e. When rec is non-nil each outcome is
// recorded with source "bench"; record failures are logged, not returned.
func Run(ctx context.Context, e *solver.Engine, opts Options, rec store.Results) (*Report, error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = solver.DefaultMaxAttempts
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	answers := opts.Answers
	if answers == nil {
		answers = e.Vocabulary().Answers()
	}
	for _, a := range answers {
		if !e.Vocabulary().IsAnswer(a) {
			return nil, fmt.Errorf("bench: %q is not an answer", a)
		}
	}

	// Compute the shared opener once instead of in every worker.
	if _, err := e.Opener(opts.Strategy); err != nil {
		return nil, err
	}

	start := time.Now()
	rep := &Report{
		Strategy:    opts.Strategy,
		HardMode:    opts.HardMode,
		MaxAttempts: opts.MaxAttempts,
		Outcomes:    make([]Outcome, len(answers)),
	}

	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, answer := range answers {
		g.Go(func() error {
			began := time.Now()
			out, err := playOne(ctx, e, opts, answer)
			if err != nil {
				return fmt.Errorf("bench %q: %w", answer, err)
			}
			rep.Outcomes[i] = out
			if rec != nil {
				r := store.Result{
					ID:        uuid.NewString(),
					Answer:    answer,
					Strategy:  opts.Strategy.String(),
					HardMode:  opts.HardMode,
					Guesses:   out.Guesses,
					Solved:    out.Solved,
					Source:    "bench",
					ElapsedMs: time.Since(began).Milliseconds(),
				}
				if err := rec.Insert(ctx, r); err != nil {
					log.Warn().Err(err).Str("answer", answer).Msg("record bench result")
				}
			}
			if n := done.Add(1); n%100 == 0 {
				log.Info().Int64("done", n).Int("total", len(answers)).Msg("simulated games")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rep.Elapsed = time.Since(start)
	return rep, nil
}

func playOne(ctx context.Context, e *solver.Engine, opts Options, answer string) (Outcome, error) {
	game, err := e.NewGame(opts.Strategy, opts.MaxAttempts, solver.WithHardMode(opts.HardMode))
	if err != nil {
		return Outcome{}, err
	}
	st, err := e.Play(ctx, game, solver.OracleSource{Answer: answer})
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Answer: answer, Solved: st.State == solver.Solved}
	for _, t := range st.History {
		out.Path = append(out.Path, t.Guess)
	}
	out.Guesses = st.Turn
	if !out.Solved {
		out.Guesses = opts.MaxAttempts + 1
	}
	return out, nil
}

// Distribution returns guesses -> number of games.
func (r *Report) Distribution() map[int]int {
	d := map[int]int{}
	for _, o := range r.Outcomes {
		d[o.Guesses]++
	}
	return d
}

// Mean is the average number of guesses, failures included as MaxAttempts+1.
func (r *Report) Mean() float64 { return average.value(r) }

// Failures lists the answers that were not solved, sorted.
func (r *Report) Failures() []string {
	var out []string
	for _, o := range r.Outcomes {
		if !o.Solved {
			out = append(out, o.Answer)
		}
	}
	sort.Strings(out)
	return out
}

// Summary renders the distribution and every metric, one per line.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "strategy=%s hardMode=%t games=%d elapsed=%s\n",
		r.Strategy, r.HardMode, len(r.Outcomes), r.Elapsed.Round(time.Millisecond))

	dist := r.Distribution()
	keys := make([]int, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	cum := 0
	for _, k := range keys {
		cum += dist[k]
		label := fmt.Sprint(k)
		if k > r.MaxAttempts {
			label = "X"
		}
		fmt.Fprintf(&b, "%2s: %4d (cum. %4d/%d)\n", label, dist[k], cum, len(r.Outcomes))
	}
	for _, m := range metrics {
		b.WriteString(m.run(r))
		b.WriteByte('\n')
	}
	return b.String()
}

type metricImpl[T constraints.Ordered] struct {
	name  string
	value func(*Report) T
}

func (m *metricImpl[T]) run(r *Report) string {
	return fmt.Sprintf("%s: %v", m.name, m.value(r))
}

type metric interface {
	run(r *Report) string
}

var average = &metricImpl[float64]{"average", func(r *Report) float64 {
	if len(r.Outcomes) == 0 {
		return 0
	}
	sum := 0
	for _, o := range r.Outcomes {
		sum += o.Guesses
	}
	return float64(sum) / float64(len(r.Outcomes))
}}

var metrics = []metric{
	average,
	&metricImpl[int]{"best", func(r *Report) int { return extreme(r, func(a, b int) bool { return a < b }) }},
	&metricImpl[int]{"worst", func(r *Report) int { return extreme(r, func(a, b int) bool { return a > b }) }},
	&metricImpl[float64]{"failed %", func(r *Report) float64 {
		if len(r.Outcomes) == 0 {
			return 0
		}
		return 100 * float64(len(r.Failures())) / float64(len(r.Outcomes))
	}},
	&metricImpl[string]{"worst words", func(r *Report) string {
		w := extreme(r, func(a, b int) bool { return a > b })
		var ws []string
		for _, o := range r.Outcomes {
			if o.Guesses == w {
				ws = append(ws, o.Answer)
			}
		}
		sort.Strings(ws)
		return strings.Join(ws, " ")
	}},
}

func extreme(r *Report, better func(a, b int) bool) int {
	if len(r.Outcomes) == 0 {
		return 0
	}
	x := r.Outcomes[0].Guesses
	for _, o := range r.Outcomes[1:] {
		if better(o.Guesses, x) {
			x = o.Guesses
		}
	}
	return x
}
