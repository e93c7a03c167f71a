package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/building_ledger/internal/adapters/messaging/kafka"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/building_ledger/internal/core/services"
	"github.com/SscSPs/building_ledger/internal/handlers"
	"github.com/SscSPs/building_ledger/internal/middleware"
	"github.com/SscSPs/building_ledger/internal/platform/config"
	"github.com/SscSPs/building_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/building_ledger/internal/repositories/memory"
	"github.com/SscSPs/building_ledger/migrations"
	"github.com/SscSPs/building_ledger/pkg/database"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

func run() int {
	started := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		return 1
	}

	// Initialize structured logger
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var logger *slog.Logger
	if cfg.IsProduction {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos portsrepo.RepositoryProvider
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			return 1
		}
		defer database.ClosePgxPool(dbPool)
		repos = pgsql.NewRepositoryProvider(dbPool)
	} else {
		logger.Warn(config.DatabaseURLEnv + " is not set, ledger state lives in memory for this run only")
		repos = memory.NewRepositoryProvider(memory.NewStore())
	}

	var options []services.ServiceOption
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if cerr := publisher.Close(); cerr != nil {
				logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
			}
		}()
		options = append(options, services.WithEventPublisher(publisher))
		logger.Info("Publishing ledger events", slog.String("topic", cfg.KafkaTopic), slog.Any("brokers", cfg.KafkaBrokers))
	}

	serviceContainer, err := services.NewServiceContainer(cfg, repos, options...)
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		return 1
	}

	root := &cobra.Command{
		Use:               "ledger",
		Short:             "Double-entry ledger back office for building management",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRun:  middleware.StructuredLogging(logger),
		PersistentPostRun: middleware.LogCompletion(started),
	}
	handlers.RegisterCommands(root, serviceContainer)
	root.AddCommand(handlers.NewMigrateCommand(func(context.Context) error {
		if cfg.DatabaseURL == "" {
			return errors.New("migrate needs " + config.DatabaseURLEnv)
		}
		return database.RunMigrations(cfg.DatabaseURL, migrations.FS, logger)
	}))

	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
