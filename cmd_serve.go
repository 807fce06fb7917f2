// cmd_serve.go
//
// `serve` runs the HTTP API until the process is signalled.

package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.AdminSecret() == "" {
				log.Warn().Msg("JWT_SECRET is unset or the default; /admin routes are disabled")
			}
			srv := httpserver.New(a.engine, store.NewMemorySessions(), a.results, a.tables, httpserver.Options{
				ClientOrigin:   cfg.Server.ClientOrigin,
				JWTSecret:      cfg.AdminSecret(),
				DailySalt:      cfg.Server.DailySalt,
				RequestTimeout: cfg.RequestTimeout(),
				SessionTTL:     cfg.SessionTTL(),
				CacheWorkers:   cfg.Cache.Workers,
				Strategy:       cfg.Strategy(),
				MaxAttempts:    cfg.Solver.MaxAttempts,
				HardMode:       cfg.Solver.HardMode,
			})
			log.Info().Str("port", cfg.Server.Port).Bool("cached", a.engine.Cached()).Msg("starting go-solver")
			return srv.Start(cmd.Context(), ":"+cfg.Server.Port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Override PORT")
	return cmd
}
