// cmd_precompute.go
//
// `precompute` persists the pattern table and the opening guesses.

package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// newPrecomputeCmd builds the opening book: the pattern table is loaded
// or built (and saved) by newApp, then the first guess of every strategy
// is computed and stored.
func newPrecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "precompute",
		Short: "Build the pattern table and opening guesses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			key := a.vocab.Key()
			for _, s := range []solver.Strategy{solver.Entropy, solver.Minimax} {
				w, err := a.engine.Opener(s)
				if err != nil {
					return fmt.Errorf("opener %s: %w", s, err)
				}
				if err := a.openers.SaveOpener(cmd.Context(), key, s.String(), w); err != nil {
					return fmt.Errorf("save opener %s: %w", s, err)
				}
				log.Info().Str("strategy", s.String()).Str("guess", w).Msg("opener saved")
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", s, w)
			}
			return nil
		},
	}
}
