package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func defaultVocab(t *testing.T) *words.Vocabulary {
	t.Helper()
	v, err := words.Load(words.Options{})
	require.NoError(t, err)
	return v
}

func TestBuildMatchesOracle(t *testing.T) {
	v := defaultVocab(t)
	tbl, err := Build(context.Background(), v, 4)
	require.NoError(t, err)

	oracle := NewOracle(v)
	for a, answer := range v.Answers() {
		for g, guess := range v.Guesses() {
			want, err := feedback.Compute(guess, answer)
			require.NoError(t, err)
			require.Equal(t, want, tbl.Lookup(a, g), "%s/%s", guess, answer)
			require.Equal(t, oracle.Code(a, g), tbl.Code(a, g))
		}
	}
}

func TestBuildParallelEqualsSequential(t *testing.T) {
	v := defaultVocab(t)
	seq, err := Build(context.Background(), v, 1)
	require.NoError(t, err)
	par, err := Build(context.Background(), v, 8)
	require.NoError(t, err)

	if diff := cmp.Diff(seq, par, cmp.AllowUnexported(Table{})); diff != "" {
		t.Fatalf("parallel build differs (-seq +par):\n%s", diff)
	}

	a, err := seq.MarshalBinary()
	require.NoError(t, err)
	b, err := par.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, defaultVocab(t), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsStale(t *testing.T) {
	v := defaultVocab(t)
	tbl, err := Build(context.Background(), v, 0)
	require.NoError(t, err)
	assert.False(t, tbl.IsStale(v))

	other, err := words.New(nil, []string{"crane", "slate", "trace"})
	require.NoError(t, err)
	assert.True(t, tbl.IsStale(other))

	_, isOracle := Select(other, tbl).(Oracle)
	assert.True(t, isOracle)
	assert.Same(t, tbl, Select(v, tbl))
	_, isOracle = Select(v, nil).(Oracle)
	assert.True(t, isOracle)
}

func TestCodecRoundTrip(t *testing.T) {
	v := defaultVocab(t)
	tbl, err := Build(context.Background(), v, 0)
	require.NoError(t, err)

	data, err := tbl.MarshalBinary()
	require.NoError(t, err)

	var got Table
	require.NoError(t, got.UnmarshalBinary(data))
	assert.False(t, got.IsStale(v))
	if diff := cmp.Diff(tbl, &got, cmp.AllowUnexported(Table{})); diff != "" {
		t.Fatalf("decoded table differs:\n%s", diff)
	}
}

func TestCodecDetectsCorruption(t *testing.T) {
	v, err := words.New(nil, []string{"crane", "slate", "trace"})
	require.NoError(t, err)
	tbl, err := Build(context.Background(), v, 1)
	require.NoError(t, err)
	data, err := tbl.MarshalBinary()
	require.NoError(t, err)

	flipped := append([]byte(nil), data...)
	flipped[len(flipped)-1] ^= 0xff
	truncated := data[:len(data)-2]
	badMagic := append([]byte("XXXX"), data[4:]...)

	// Dimensions whose product wraps to a tiny size when multiplied as int.
	payload := []byte{0, 0, 0, 0}
	sum := blake2b.Sum256(payload)
	overflow := append([]byte(nil), data[:headerSize]...)
	binary.LittleEndian.PutUint32(overflow[6:], 4294836226)
	binary.LittleEndian.PutUint32(overflow[10:], 2147549185)
	copy(overflow[14+blake2b.Size256:], sum[:])
	overflow = append(overflow, payload...)

	for name, in := range map[string][]byte{
		"flipped":   flipped,
		"truncated": truncated,
		"magic":     badMagic,
		"empty":     nil,
		"overflow":  overflow,
	} {
		var got Table
		assert.NotPanics(t, func() {
			assert.ErrorIs(t, got.UnmarshalBinary(in), ErrCorrupt, name)
		}, name)
	}
}

type mapStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	loadErr error
	saves   int
}

func (m *mapStore) Load(_ context.Context, key string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	b, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	var t Table
	if err := t.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return &t, nil
}

func (m *mapStore) Save(_ context.Context, key string, t *Table) error {
	b, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	m.saves++
	return nil
}

func TestLoadOrBuild(t *testing.T) {
	v, err := words.New([]string{"adieu"}, []string{"crane", "slate", "trace"})
	require.NoError(t, err)
	st := &mapStore{data: map[string][]byte{}}

	first, err := LoadOrBuild(context.Background(), st, v, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, st.saves)

	second, err := LoadOrBuild(context.Background(), st, v, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, st.saves, "second call must load, not rebuild")
	assert.Equal(t, first.codes, second.codes)
}

func TestLoadOrBuildFallsBack(t *testing.T) {
	v, err := words.New(nil, []string{"crane", "slate", "trace"})
	require.NoError(t, err)

	// corrupt entry
	st := &mapStore{data: map[string][]byte{v.Key(): []byte("garbage")}}
	tbl, err := LoadOrBuild(context.Background(), st, v, 1)
	require.NoError(t, err)
	assert.False(t, tbl.IsStale(v))
	assert.Equal(t, 1, st.saves)

	// stale entry stored under this key
	other, err := words.New(nil, []string{"crane", "slate"})
	require.NoError(t, err)
	stale, err := Build(context.Background(), other, 1)
	require.NoError(t, err)
	st = &mapStore{data: map[string][]byte{}}
	require.NoError(t, st.Save(context.Background(), v.Key(), stale))
	tbl, err = LoadOrBuild(context.Background(), st, v, 1)
	require.NoError(t, err)
	assert.False(t, tbl.IsStale(v))

	// store failure
	st = &mapStore{data: map[string][]byte{}, loadErr: errors.New("disk on fire")}
	tbl, err = LoadOrBuild(context.Background(), st, v, 1)
	require.NoError(t, err)
	assert.NotNil(t, tbl)

	// no store at all
	tbl, err = LoadOrBuild(context.Background(), nil, v, 1)
	require.NoError(t, err)
	assert.NotNil(t, tbl)
}
