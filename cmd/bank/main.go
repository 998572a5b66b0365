package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/benx421/digital-bank/internal/config"
	"github.com/benx421/digital-bank/internal/db"
	"github.com/benx421/digital-bank/internal/events"
	"github.com/benx421/digital-bank/internal/handlers"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/benx421/digital-bank/internal/repository/memory"
	"github.com/benx421/digital-bank/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting digital bank api",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"storage_driver", cfg.Database.Driver,
	)

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	publisher := events.NewPublisher(&cfg.Kafka, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	if cfg.Auth.AdminEmail != "" {
		if err := service.NewAuthService(store, cfg.Auth, logger).BootstrapAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logger.Error("failed to bootstrap admin user", "error", err)
			os.Exit(1)
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handlers.NewRouter(store, publisher, cfg, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

// openStore returns the configured storage backend and a function releasing it
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("using in-memory storage: data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	closeDB := func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}

	if cfg.Database.RunMigrations {
		if err := database.Migrate(ctx); err != nil {
			closeDB()
			return nil, nil, err
		}
	}

	return repository.NewPostgresStore(database), closeDB, nil
}
