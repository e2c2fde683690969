package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"melidash/internal/config"
	"melidash/pkg/contextx"
	"melidash/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("melidash failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "melidash",
		Short:         "Seller dashboard backend with pricing automation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err //nolint:wrapcheck
			}

			cfg = loaded

			log := slog.New(logx.NewHandler(os.Stdout, cfg.Log.Format, cfg.Log.Level)).
				With(slog.String(logx.FieldAppName, cfg.App.Name), slog.String(logx.FieldAppVersion, cfg.App.Version))
			slog.SetDefault(log)

			cmd.SetContext(contextx.WithLogger(cmd.Context(), log))

			return nil
		},
	}

	root.AddCommand(
		newServeCmd(&cfg),
		newMigrateCmd(&cfg),
		newSimulateCmd(&cfg),
	)

	return root
}
