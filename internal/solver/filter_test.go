package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

func TestFilterWords(t *testing.T) {
	all := []string{"crane", "slate", "trace"}
	p, err := feedback.Parse("12202", 5)
	require.NoError(t, err)

	got, err := FilterWords(all, "crane", p)
	require.NoError(t, err)
	assert.Equal(t, []string{"trace"}, got)

	again, err := FilterWords(got, "crane", p)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = FilterWords(all, "crane", feedback.Pattern{feedback.Correct})
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.ErrorIs(t, err, feedback.ErrInvalidInput)
}

func TestFilterMonotoneAndIdempotent(t *testing.T) {
	v := defaultVocab(t)
	e := cachedEngine(t, v)

	for _, g := range e.guesses[:40] {
		for _, a := range e.answers[:20] {
			code := e.src.Code(a, g)
			once := Filter(e.src, e.answers, g, code)
			twice := Filter(e.src, once, g, code)

			assert.Equal(t, once, twice)
			assert.Contains(t, once, a)
			assert.Subset(t, e.answers, once)

			words := make([]string, len(once))
			for i, x := range once {
				words[i] = v.Answer(x)
			}
			byWord, err := FilterWords(v.Answers(), v.Guess(g), feedback.Decode(code, v.Length()))
			require.NoError(t, err)
			assert.Equal(t, words, byWord)
		}
	}
}
