package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"qbank/internal/config"
	"qbank/internal/routes"
	"qbank/internal/seed"
	"qbank/internal/services"
)

const defaultSeedTimeout = 30 * time.Second

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the ENEM subjects and topics",
		Long: `Creates the reference ENEM subjects and their topics.
Existing subjects and topics are skipped, so running it again changes nothing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageDriver == config.StorageDriverMemory {
				return oops.Code("CONFIG_INVALID").Errorf("seed needs the postgres storage driver")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			cmd.Println("Connecting to database...")
			database, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			repos := routes.PostgresRepositories(database.DB)
			res, err := seed.Run(ctx,
				services.NewSubjectService(repos.Subjects),
				services.NewTopicService(repos.Topics, repos.Subjects),
				seed.ENEM, logger)
			if err != nil {
				return oops.Code("SEED_FAILED").With("operation", "seed taxonomy").Wrap(err)
			}

			cmd.Printf("Subjects: %d created, %d already present\n", res.SubjectsCreated, res.SubjectsSkipped)
			cmd.Printf("Topics: %d created, %d already present\n", res.TopicsCreated, res.TopicsSkipped)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	return cmd
}
