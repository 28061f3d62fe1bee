package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"qbank/internal/db"
	"qbank/internal/db/migrations"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Create the database if it is missing and apply all pending migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if err := db.CreateDatabaseIfNotExists(ctx, cfg.DatabaseURL); err != nil {
				return oops.Code("DB_CREATE_FAILED").Wrap(err)
			}
			database, err := db.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").Wrap(err)
			}
			defer database.Close()

			if status {
				return migrations.Status(ctx, database.DB)
			}

			logger.Info("running migrations")
			if err := migrations.RunMigrations(ctx, database.DB); err != nil {
				return oops.Code("MIGRATION_FAILED").Wrap(err)
			}
			logger.Info("migrations completed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "print migration status instead of applying")
	return cmd
}
