package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/octobees/lead-enricher/internal/app"
)

var reapCmd = &cobra.Command{
	Use:   "reap",
	Short: "Fail searches that have been unfinished for longer than STALE_JOB_TIMEOUT",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := app.New(ctx, cfg, app.Options{})
		if err != nil {
			return err
		}
		defer env.Close(ctx) //nolint:errcheck

		n, err := env.Search.ReapStale(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "failed %d stale search(es)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reapCmd)
}
