// main.go
//
// Entry point for the solver service and its tooling.
// Commands:
//   - serve       HTTP API
//   - precompute  build and persist the pattern table and opening guesses
//   - bench       self-play every answer and report the guess distribution
//   - solve       solve one answer, or play along interactively
//   - token       mint an admin bearer token

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
)

var (
	configPath string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "go-solver",
		Short:         "Wordle guess-selection engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (or set SOLVER_CONFIG)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")

	root.AddCommand(newServeCmd())
	root.AddCommand(newPrecomputeCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newSolveCmd())
	root.AddCommand(newTokenCmd())
	return root
}

// loadConfig reads configuration and applies logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	cfg.Log.Apply()
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
