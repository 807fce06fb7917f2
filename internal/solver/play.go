// internal/solver/play.go
//
// Driving a Game to completion from a FeedbackSource.

package solver

import (
	"context"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// FeedbackSource supplies the observed pattern for a guess, e.g. a live
// game or a human typing "20100".
type FeedbackSource interface {
	Feedback(ctx context.Context, guess string) (feedback.Pattern, error)
}

// OracleSource answers with the true feedback against a known answer
// (self-play).
type OracleSource struct {
	Answer string
}

// Feedback implements FeedbackSource.
func (o OracleSource) Feedback(_ context.Context, guess string) (feedback.Pattern, error) {
	return feedback.Compute(guess, o.Answer)
}

// Play drives g to a terminal state, asking src for feedback after each
// guess. It returns early on ctx cancellation or a source/feedback error.
func (e *Engine) Play(ctx context.Context, g *Game, src FeedbackSource) (Status, error) {
	for !g.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return g.Status(), err
		}
		guess, err := g.NextGuess()
		if err != nil {
			return g.Status(), err
		}
		p, err := src.Feedback(ctx, guess)
		if err != nil {
			return g.Status(), err
		}
		if _, err := g.ApplyFeedback(p); err != nil {
			return g.Status(), err
		}
	}
	return g.Status(), nil
}
