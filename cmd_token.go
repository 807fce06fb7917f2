// cmd_token.go
//
// `token` mints an admin bearer token for the /admin routes.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		days    int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if days == 0 {
				days = cfg.Server.JWTExpiresDays
			}
			secret := cfg.AdminSecret()
			if secret == "" {
				return errors.New("set JWT_SECRET to a non-default value first")
			}
			tok, exp, err := httpserver.SignToken(secret, subject, role, days)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.UTC().Format("2006-01-02 15:04 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject")
	cmd.Flags().StringVar(&role, "role", httpserver.RoleAdmin, "Role claim")
	cmd.Flags().IntVar(&days, "days", 0, "Lifetime in days (default JWT_EXPIRES_DAYS)")
	return cmd
}
