package main

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/internal/app"
	"github.com/octobees/lead-enricher/internal/repository"
	"github.com/octobees/lead-enricher/internal/service"
)

var (
	searchLocation    string
	searchCountry     string
	searchCompanyType string
	searchOwner       string
	searchPersist     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one search synchronously and print the leads as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		owner := uuid.New()
		if searchOwner != "" {
			id, err := uuid.Parse(searchOwner)
			if err != nil {
				return eris.Wrap(err, "invalid --owner")
			}
			owner = id
		}

		opts := app.Options{}
		if !searchPersist {
			opts.Store = repository.NewMemoryStore()
		}
		env, err := app.New(ctx, cfg, opts)
		if err != nil {
			return err
		}
		defer env.Close(ctx) //nolint:errcheck

		job, leads, err := env.Search.RunNow(ctx, owner, service.SubmitInput{
			Query:       args[0],
			Location:    searchLocation,
			Country:     searchCountry,
			CompanyType: searchCompanyType,
		})
		if err != nil {
			return err
		}
		zap.L().Info("search finished",
			zap.String("job_id", job.ID.String()),
			zap.String("status", string(job.Status)),
			zap.Int("results", job.ResultsCount),
		)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(leads)
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "city or region to search in (required)")
	searchCmd.Flags().StringVarP(&searchCountry, "country", "c", "", "two-letter country code (default from DEFAULT_COUNTRY)")
	searchCmd.Flags().StringVarP(&searchCompanyType, "company-type", "t", "all", "legal form filter: all, gmbh, eu, ag, og, kg, gmbh_cokg")
	searchCmd.Flags().StringVar(&searchOwner, "owner", "", "owner id stored on the job (random when empty)")
	searchCmd.Flags().BoolVar(&searchPersist, "persist", false, "store the job and leads in the configured store")
	_ = searchCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(searchCmd)
}
