// internal/solver/errors.go
//
// Sentinel errors returned by Engine and Game; match with errors.Is.

package solver

import (
	"errors"
	"fmt"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// ErrState is the parent of every "wrong state for this call" error.
// The caller must fix the call sequence and retry.
var ErrState = errors.New("invalid game state")

var (
	ErrSolvedAlready       = fmt.Errorf("%w: solved already", ErrState)
	ErrExhausted           = fmt.Errorf("%w: attempts exhausted", ErrState)
	ErrNotAwaitingFeedback = fmt.Errorf("%w: not awaiting feedback", ErrState)
)

// ErrInvalidPattern is returned for malformed feedback. It matches
// feedback.ErrInvalidInput as well.
var ErrInvalidPattern = fmt.Errorf("%w: invalid pattern", feedback.ErrInvalidInput)

// ErrInconsistent is returned when feedback would leave no candidate,
// meaning the hidden word is not in the answer pool or the feedback was
// entered wrong. The game is left unchanged.
var ErrInconsistent = errors.New("feedback is inconsistent with every remaining candidate")

// ErrNoCandidates is returned when asked to pick a guess for an empty set.
var ErrNoCandidates = errors.New("no candidates")
