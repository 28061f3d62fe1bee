package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"qbank/internal/config"
)

// NewRootCmd creates the root command. Running it without a subcommand
// starts the API server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "qbank",
		Short:        "Question bank API server",
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// loadConfig reads and validates configuration and installs the default
// logger for it.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg := config.Load()
	logger := setupLogging(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func setupLogging(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
