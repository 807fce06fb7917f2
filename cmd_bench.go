// cmd_bench.go
//
// `bench` self-plays every answer and prints the guess distribution.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/bench"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

func newBenchCmd() *cobra.Command {
	var (
		strategy    string
		hard        bool
		maxAttempts int
		workers     int
		answers     string
		record      bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Self-play every answer and report the average number of guesses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s := cfg.Strategy()
			if strategy != "" {
				if s, err = solver.ParseStrategy(strategy); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("hard") {
				hard = cfg.Solver.HardMode
			}
			if maxAttempts == 0 {
				maxAttempts = cfg.Solver.MaxAttempts
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := bench.Options{Strategy: s, HardMode: hard, MaxAttempts: maxAttempts, Workers: workers}
			if answers != "" {
				opts.Answers = strings.Split(strings.ToLower(answers), ",")
			}
			var rec store.Results
			if record {
				rec = a.results
			}
			rep, err := bench.Run(cmd.Context(), a.engine, opts, rec)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rep.Summary())
			return nil
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "entropy or minimax (default from config)")
	cmd.Flags().BoolVar(&hard, "hard", false, "Hard mode")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Attempts per game (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent games (default 8)")
	cmd.Flags().StringVar(&answers, "answers", "", "Comma-separated subset of answers")
	cmd.Flags().BoolVar(&record, "record", false, "Write outcomes to the result store")
	return cmd
}
