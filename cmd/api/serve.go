package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"qbank/internal/config"
	"qbank/internal/db"
	"qbank/internal/db/migrations"
	"qbank/internal/repository/memory"
	"qbank/internal/routes"
	"qbank/internal/services"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		conn  *sql.DB
		repos routes.Repositories
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage, data is lost on exit")
		repos = routes.MemoryRepositories(memory.NewStore())
	default:
		database, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		conn = database.DB
		repos = routes.PostgresRepositories(conn)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := routes.SetupRoutes(routes.Dependencies{
		DB:       conn,
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Repos:    repos,
		Mailer:   newMailer(cfg, logger),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}

	logger.Info("server exited")
	return nil
}

// openDatabase creates the database when missing, connects and applies
// pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config) (*db.Database, error) {
	if err := db.CreateDatabaseIfNotExists(ctx, cfg.DatabaseURL); err != nil {
		return nil, oops.Code("DB_CREATE_FAILED").Wrap(err)
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}

	if err := migrations.RunMigrations(ctx, database.DB); err != nil {
		database.Close()
		return nil, oops.Code("MIGRATION_FAILED").Wrap(err)
	}
	return database, nil
}

func newMailer(cfg *config.Config, logger *slog.Logger) services.EmailSender {
	if cfg.MailDriver == config.MailDriverFake {
		logger.Warn("mail driver is fake, reset emails are kept in memory only")
		return services.NewFakeEmailSender()
	}
	return &services.SMTPSender{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPassword,
		From:   cfg.SMTPFrom,
		UseTLS: cfg.SMTPUseTLS,
		Logger: logger,
	}
}
