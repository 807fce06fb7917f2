// internal/store/sqlite.go
//
// SQLite persistence.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Pattern tables, opening guesses and finished-game results.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
)

// DB wraps the SQL handle shared by the SQLite stores.
type DB struct {
	SQL *sql.DB
}

// Open opens (and creates if missing) a SQLite database file and applies
// migrations.
func Open(dsn string) (*DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{SQL: db}, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error { return d.SQL.Close() }

// migrate applies every *.sql file of fsys in lexical order, each inside
// its own transaction, skipping files already recorded in _migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(b)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

/* ----------------------------- pattern cache ----------------------------- */

// SQLCache is a cache.Store backed by the pattern_cache table.
type SQLCache struct{ db *sql.DB }

// Cache returns the pattern table store.
func (d *DB) Cache() *SQLCache { return &SQLCache{db: d.SQL} }

// Load implements cache.Store.
func (s *SQLCache) Load(ctx context.Context, key string) (*cache.Table, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM pattern_cache WHERE key=?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var t cache.Table
	if err := t.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &t, nil
}

// Save implements cache.Store.
func (s *SQLCache) Save(ctx context.Context, key string, t *cache.Table) error {
	data, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	a, g := t.Dims()
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO pattern_cache (key, word_length, answers, guesses, data)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET
            word_length=excluded.word_length, answers=excluded.answers,
            guesses=excluded.guesses, data=excluded.data,
            created_at=strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`,
		key, t.WordLength(), a, g, data,
	)
	return err
}

/* -------------------------------- openers -------------------------------- */

// SQLOpeners persists opening guesses in the openers table.
type SQLOpeners struct{ db *sql.DB }

// Openers returns the opening guess store.
func (d *DB) Openers() *SQLOpeners { return &SQLOpeners{db: d.SQL} }

// LoadOpeners implements Openers.
func (s *SQLOpeners) LoadOpeners(ctx context.Context, key string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT strategy, guess FROM openers WHERE key=?`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var strategy, guess string
		if err := rows.Scan(&strategy, &guess); err != nil {
			return nil, err
		}
		out[strategy] = guess
	}
	return out, rows.Err()
}

// SaveOpener implements Openers.
func (s *SQLOpeners) SaveOpener(ctx context.Context, key, strategy, guess string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO openers (key, strategy, guess) VALUES (?, ?, ?)
        ON CONFLICT(key, strategy) DO UPDATE SET guess=excluded.guess`,
		key, strategy, guess,
	)
	return err
}

/* -------------------------------- results -------------------------------- */

// SQLResults records finished games in game_results.
type SQLResults struct{ db *sql.DB }

// Results returns the finished-game store.
func (d *DB) Results() *SQLResults { return &SQLResults{db: d.SQL} }

// Insert implements Results. A duplicate ID is ignored.
func (s *SQLResults) Insert(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO game_results
            (id, answer, strategy, hard_mode, guesses, solved, source, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, strings.ToLower(r.Answer), r.Strategy, r.HardMode, r.Guesses, r.Solved, r.Source, r.ElapsedMs,
	)
	return err
}

// Summary implements Results.
func (s *SQLResults) Summary(ctx context.Context, strategy string) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT guesses, solved, COUNT(1)
        FROM game_results
        WHERE ?='' OR strategy=?
        GROUP BY guesses, solved`, strategy, strategy,
	)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	sum := newSummary(strategy)
	for rows.Next() {
		var guesses, n int
		var solved bool
		if err := rows.Scan(&guesses, &solved, &n); err != nil {
			return Summary{}, err
		}
		sum.add(guesses, solved, n)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}
	return sum.finish(), nil
}
