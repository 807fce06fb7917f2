package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener goroutine per pool
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func trio(t *testing.T) (*words.Vocabulary, *cache.Table) {
	t.Helper()
	v, err := words.New([]string{"adieu"}, []string{"crane", "slate", "trace"})
	require.NoError(t, err)
	tbl, err := cache.Build(context.Background(), v, 1)
	require.NoError(t, err)
	return v, tbl
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "solver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testCacheStore(t *testing.T, st cache.Store) {
	ctx := context.Background()
	v, tbl := trio(t)

	_, err := st.Load(ctx, v.Key())
	assert.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, st.Save(ctx, v.Key(), tbl))
	got, err := st.Load(ctx, v.Key())
	require.NoError(t, err)
	assert.False(t, got.IsStale(v))
	a, g := got.Dims()
	for i := 0; i < a; i++ {
		for j := 0; j < g; j++ {
			require.Equal(t, tbl.Code(i, j), got.Code(i, j))
		}
	}

	// overwrite is allowed
	require.NoError(t, st.Save(ctx, v.Key(), tbl))

	loaded, err := cache.LoadOrBuild(ctx, st, v, 1)
	require.NoError(t, err)
	assert.False(t, loaded.IsStale(v))
}

func TestMemoryCache(t *testing.T) { testCacheStore(t, NewMemoryCache()) }

func TestFileCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	fc, err := NewFileCache(dir)
	require.NoError(t, err)
	testCacheStore(t, fc)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, fileExt, filepath.Ext(entries[0].Name()))
}

func TestFileCacheCorrupt(t *testing.T) {
	dir := t.TempDir()
	fc, err := NewFileCache(dir)
	require.NoError(t, err)
	v, _ := trio(t)
	require.NoError(t, os.WriteFile(fc.path(v.Key()), []byte("not a table"), 0o644))

	_, err = fc.Load(context.Background(), v.Key())
	assert.ErrorIs(t, err, cache.ErrCorrupt)

	tbl, err := cache.LoadOrBuild(context.Background(), fc, v, 1)
	require.NoError(t, err)
	assert.False(t, tbl.IsStale(v))
	_, err = fc.Load(context.Background(), v.Key())
	assert.NoError(t, err, "rebuilt table replaces the corrupt file")
}

func TestSQLiteCache(t *testing.T) { testCacheStore(t, openTestDB(t).Cache()) }

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.SQL.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 3, n)
}

func testOpeners(t *testing.T, o Openers) {
	ctx := context.Background()
	got, err := o.LoadOpeners(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, o.SaveOpener(ctx, "k1", "entropy", "slate"))
	require.NoError(t, o.SaveOpener(ctx, "k1", "minimax", "crane"))
	require.NoError(t, o.SaveOpener(ctx, "k1", "entropy", "trace"))
	require.NoError(t, o.SaveOpener(ctx, "k2", "entropy", "adieu"))

	got, err = o.LoadOpeners(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"entropy": "trace", "minimax": "crane"}, got)
}

func TestMemoryOpeners(t *testing.T) { testOpeners(t, NewMemoryOpeners()) }
func TestSQLiteOpeners(t *testing.T) { testOpeners(t, openTestDB(t).Openers()) }

func testResults(t *testing.T, r Results) {
	ctx := context.Background()
	sum, err := r.Summary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Games)
	assert.Zero(t, sum.MeanGuesses)

	for _, res := range []Result{
		{ID: "a", Strategy: "entropy", Guesses: 3, Solved: true, Source: "bench"},
		{ID: "b", Strategy: "entropy", Guesses: 4, Solved: true, Source: "bench"},
		{ID: "c", Strategy: "entropy", Guesses: 6, Solved: false, Source: "session"},
		{ID: "d", Strategy: "minimax", Guesses: 5, Solved: true, Source: "solve", HardMode: true},
	} {
		require.NoError(t, r.Insert(ctx, res))
	}

	sum, err = r.Summary(ctx, "entropy")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Games)
	assert.Equal(t, 2, sum.Solved)
	assert.InDelta(t, 3.5, sum.MeanGuesses, 1e-9)
	assert.Equal(t, map[int]int{3: 1, 4: 1}, sum.Distribution)

	sum, err = r.Summary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Games)
	assert.Equal(t, 3, sum.Solved)
	assert.InDelta(t, 4.0, sum.MeanGuesses, 1e-9)
}

func TestMemoryResults(t *testing.T) { testResults(t, NewMemoryResults()) }
func TestSQLiteResults(t *testing.T) { testResults(t, openTestDB(t).Results()) }

func TestResultsIgnoreDuplicateID(t *testing.T) {
	testDuplicateID(t, NewMemoryResults())
	testDuplicateID(t, openTestDB(t).Results())
}

func testDuplicateID(t *testing.T, r Results) {
	ctx := context.Background()
	require.NoError(t, r.Insert(ctx, Result{ID: "x", Strategy: "entropy", Guesses: 2, Solved: true, Source: "bench"}))
	require.NoError(t, r.Insert(ctx, Result{ID: "x", Strategy: "entropy", Guesses: 9, Solved: true, Source: "bench"}))
	sum, err := r.Summary(ctx, "entropy")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Games)
	assert.Equal(t, map[int]int{2: 1}, sum.Distribution)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	v, tbl := trio(t)
	e := solver.NewEngine(v, tbl)
	st := NewMemorySessions()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	g, err := e.NewGame(solver.Entropy, solver.DefaultMaxAttempts)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, NewSession("s1", g)))

	s, err := st.Get(ctx, "s1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	guesses := make([]string, 8)
	for i := range guesses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.With(func(g *solver.Game) error {
				w, err := g.NextGuess()
				guesses[i] = w
				return err
			})
		}(i)
	}
	wg.Wait()
	for _, w := range guesses {
		assert.Equal(t, "crane", w)
	}

	require.NoError(t, st.Delete(ctx, "s1"))
	_, err = st.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsSweep(t *testing.T) {
	ctx := context.Background()
	v, tbl := trio(t)
	e := solver.NewEngine(v, tbl)
	st := NewMemorySessions()

	for _, id := range []string{"idle", "busy"} {
		g, err := e.NewGame(solver.Entropy, solver.DefaultMaxAttempts)
		require.NoError(t, err)
		require.NoError(t, st.Save(ctx, NewSession(id, g)))
	}
	busy, err := st.Get(ctx, "busy")
	require.NoError(t, err)
	cutoff := time.Now().Add(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, busy.With(func(*solver.Game) error { return nil }))
	assert.False(t, busy.LastUsed().Before(cutoff))

	n, err := st.Sweep(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = st.Get(ctx, "idle")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Get(ctx, "busy")
	assert.NoError(t, err)
}
