// app.go
//
// Process bootstrap shared by every command.
// Responsibilities:
//   - Loading the vocabulary (files or embedded lists).
//   - Opening the configured stores (SQLite, file, memory).
//   - Loading or building the pattern table, then creating the engine.
//   - Seeding the engine with openers saved by `precompute`.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

type app struct {
	cfg     *config.Config
	vocab   *words.Vocabulary
	db      *store.DB // nil when no database path is configured
	tables  cache.Store
	openers store.Openers
	results store.Results
	engine  *solver.Engine
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	var err error
	a.vocab, err = words.Load(words.Options{
		AnswersFile: cfg.Words.AnswersFile,
		AllowedFile: cfg.Words.AllowedFile,
	})
	if err != nil {
		return nil, fmt.Errorf("load word lists: %w", err)
	}
	answers, guesses := a.vocab.Stats()
	log.Info().Int("answers", answers).Int("guesses", guesses).Int("length", a.vocab.Length()).Msg("vocabulary loaded")

	if cfg.Database.Path != "" {
		if a.db, err = store.Open(cfg.Database.Path); err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.openers = a.db.Openers()
		a.results = a.db.Results()
	} else {
		a.openers = store.NewMemoryOpeners()
		a.results = store.NewMemoryResults()
	}

	switch cfg.Cache.Driver {
	case config.DriverNone:
	case config.DriverMemory:
		a.tables = store.NewMemoryCache()
	case config.DriverFile:
		if a.tables, err = store.NewFileCache(cfg.Cache.Dir); err != nil {
			return nil, err
		}
	case config.DriverSQLite:
		if a.db == nil {
			return nil, errors.New("cache driver sqlite needs database.path")
		}
		a.tables = a.db.Cache()
	}

	var table *cache.Table
	if cfg.Cache.Driver != config.DriverNone {
		if table, err = cache.LoadOrBuild(ctx, a.tables, a.vocab, cfg.Cache.Workers); err != nil {
			return nil, fmt.Errorf("pattern table: %w", err)
		}
	}
	a.engine = solver.NewEngine(a.vocab, table, solver.WithWorkers(cfg.Cache.Workers))
	a.seedOpeners(ctx)
	ok = true
	return a, nil
}

// seedOpeners installs stored openers. Bad rows are logged and skipped.
func (a *app) seedOpeners(ctx context.Context) {
	saved, err := a.openers.LoadOpeners(ctx, a.vocab.Key())
	if err != nil {
		log.Warn().Err(err).Msg("load openers")
		return
	}
	for name, word := range saved {
		s, err := solver.ParseStrategy(name)
		if err == nil {
			err = a.engine.SeedOpener(s, word)
		}
		if err != nil {
			log.Warn().Err(err).Str("strategy", name).Msg("skip stored opener")
			continue
		}
		log.Debug().Str("strategy", name).Str("guess", word).Msg("opener seeded")
	}
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}
}
