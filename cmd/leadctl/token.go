package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/octobees/lead-enricher/internal/auth"
)

var tokenRole string

var tokenCmd = &cobra.Command{
	Use:   "token [owner-id]",
	Short: "Issue a bearer token for local use",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner := uuid.New()
		if len(args) == 1 {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return eris.Wrap(err, "invalid owner id")
			}
			owner = id
		}

		token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).GenerateToken(owner, tokenRole)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "owner: %s\ntoken: %s\n", owner, token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleUser, "role claim: user or admin")
	rootCmd.AddCommand(tokenCmd)
}
