// cmd_solve.go
//
// `solve` plays one answer by itself, or with no answer acts as a helper:
// it suggests guesses and reads the observed pattern from stdin.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

func newSolveCmd() *cobra.Command {
	var (
		strategy    string
		hard        bool
		maxAttempts int
	)
	cmd := &cobra.Command{
		Use:   "solve [answer]",
		Short: "Solve a known answer, or play along interactively without one",
		Long: `With an answer, the solver plays against it and prints every turn.

Without one it suggests a guess each round and asks for the feedback you saw,
as digits: 0 = absent, 1 = present, 2 = correct (e.g. 20100). Type a word
instead of pressing enter to play your own guess.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			g, err := a.engine.NewGame(s, maxAttempts, solver.WithHardMode(hard))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				return interactive(cmd.Context(), g, cmd.InOrStdin(), out)
			}

			answer := strings.ToLower(args[0])
			if !a.vocab.IsAnswer(answer) {
				return fmt.Errorf("%q is not a possible answer", answer)
			}
			st, err := a.engine.Play(cmd.Context(), g, solver.OracleSource{Answer: answer})
			if err != nil {
				return err
			}
			printTrace(out, st)
			return nil
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "entropy or minimax (default from config)")
	cmd.Flags().BoolVar(&hard, "hard", false, "Hard mode")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Attempts (default from config)")
	return cmd
}

func printTrace(w io.Writer, st solver.Status) {
	for i, t := range st.History {
		fmt.Fprintf(w, "%d. %s %s\n", i+1, t.Guess, t.Pattern)
	}
	fmt.Fprintf(w, "%s in %d\n", st.State, st.Turn)
}

// interactive runs the helper loop: suggest, read feedback, narrow down.
func interactive(ctx context.Context, g *solver.Game, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	read := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return strings.ToLower(strings.TrimSpace(sc.Text())), nil
	}

	for !g.State().Terminal() {
		st := g.Status()
		fmt.Fprintf(out, "\nround %d, %d candidates: %s\n", st.Turn+1, st.CandidateCount, strings.Join(st.Remaining, " "))

		suggestion, err := g.NextGuess()
		if err != nil {
			return err
		}
		for {
			word, err := read(fmt.Sprintf("guess [%s]: ", suggestion))
			if err != nil {
				return err
			}
			if word == "" {
				break
			}
			if err := g.UseGuess(word); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			break
		}

		for {
			line, err := read("feedback: ")
			if err != nil {
				return err
			}
			p, err := feedback.Parse(line, len(suggestion))
			if err == nil {
				_, err = g.ApplyFeedback(p)
			}
			if errors.Is(err, feedback.ErrInvalidInput) || errors.Is(err, solver.ErrInconsistent) {
				fmt.Fprintln(out, err)
				continue
			}
			if err != nil {
				return err
			}
			break
		}
	}

	st := g.Status()
	if st.State == solver.Solved {
		fmt.Fprintf(out, "solved in %d: %s\n", st.Turn, st.History[len(st.History)-1].Guess)
		return nil
	}
	fmt.Fprintf(out, "out of attempts; still possible: %s\n", strings.Join(g.Candidates(), " "))
	return nil
}
