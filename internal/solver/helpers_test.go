package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func trioVocab(t *testing.T) *words.Vocabulary {
	t.Helper()
	v, err := words.New(nil, []string{"crane", "slate", "trace"})
	require.NoError(t, err)
	return v
}

func defaultVocab(t *testing.T) *words.Vocabulary {
	t.Helper()
	v, err := words.Load(words.Options{})
	require.NoError(t, err)
	return v
}

func cachedEngine(t *testing.T, v *words.Vocabulary, opts ...Option) *Engine {
	t.Helper()
	tbl, err := cache.Build(context.Background(), v, 0)
	require.NoError(t, err)
	e := NewEngine(v, tbl, opts...)
	require.True(t, e.Cached())
	return e
}
