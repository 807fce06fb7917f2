// internal/cache/store.go
//
// Persistence contract for tables and the load-or-build policy.
// Missing, stale or corrupt tables are rebuilt; store failures are logged
// and never surface to the caller.

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// ErrNotFound is returned by a Store when no table exists for a key.
var ErrNotFound = errors.New("cache: not found")

// ErrStale marks a stored table that does not match the vocabulary.
var ErrStale = errors.New("cache: stale pattern table")

// Store persists tables keyed by vocabulary fingerprint.
// Implementations may be backed by memory, files, SQL, etc.
type Store interface {
	// Load returns the table for key, or ErrNotFound.
	Load(ctx context.Context, key string) (*Table, error)

	// Save persists or replaces the table for key.
	Save(ctx context.Context, key string, t *Table) error
}

// LoadOrBuild returns a table for vocab, preferring the store. A missing,
// stale or corrupt stored table is never an error: it is logged and a new
// table is built and saved. Save failures are logged too. Only a failed
// build (e.g. a cancelled ctx) is returned.
func LoadOrBuild(ctx context.Context, st Store, vocab *words.Vocabulary, workers int) (*Table, error) {
	key := vocab.Key()
	if st != nil {
		t, err := st.Load(ctx, key)
		switch {
		case err == nil && !t.IsStale(vocab):
			log.Info().Str("key", key[:12]).Msg("pattern table loaded")
			return t, nil
		case err == nil:
			log.Warn().Err(ErrStale).Str("key", key[:12]).Msg("rebuilding pattern table")
		case errors.Is(err, ErrNotFound):
			log.Info().Str("key", key[:12]).Msg("no stored pattern table")
		default:
			log.Warn().Err(err).Str("key", key[:12]).Msg("pattern table unavailable, rebuilding")
		}
	}

	start := time.Now()
	t, err := Build(ctx, vocab, workers)
	if err != nil {
		return nil, err
	}
	a, g := t.Dims()
	log.Info().
		Int("answers", a).
		Int("guesses", g).
		Dur("took", time.Since(start)).
		Msg("pattern table built")

	if st != nil {
		if err := st.Save(ctx, key, t); err != nil {
			log.Warn().Err(err).Str("key", key[:12]).Msg("save pattern table")
		}
	}
	return t, nil
}
