package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"melidash/internal/application"
	"melidash/internal/config"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, probes, metrics and the task worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := application.New(ctx, *cfg)
			if err != nil {
				return fmt.Errorf("application.New: %w", err)
			}
			defer app.Close(ctx)

			return app.Run(ctx) //nolint:wrapcheck
		},
	}
}

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return application.Migrate(cmd.Context(), *cfg) //nolint:wrapcheck
		},
	}
}

func newSimulateCmd(cfg *config.Config) *cobra.Command {
	var (
		seed      uint64
		rulesFile string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the pricing rules once over mock listings and print the outcome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rulesFile != "" {
				cfg.Pricing.RulesFile = rulesFile
			}

			report, err := application.Simulate(cmd.Context(), *cfg, seed)
			if err != nil {
				return fmt.Errorf("application.Simulate: %w", err)
			}

			return report.Write(cmd.OutOrStdout()) //nolint:wrapcheck
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for the fabricated competitor offers")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML file with rule presets, defaults to the built-in set")

	return cmd
}
