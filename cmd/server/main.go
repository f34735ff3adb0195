package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/chronic-risk-engine/internal/api"
	"github.com/chronic-risk-engine/internal/cache"
	"github.com/chronic-risk-engine/internal/config"
	"github.com/chronic-risk-engine/internal/database"
	"github.com/chronic-risk-engine/internal/repository"
	"github.com/chronic-risk-engine/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Profile store: embedded SQLite by default, PostgreSQL when configured.
	store, closeStore, err := buildProfileStore(ctx, configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize profile store")
	}
	defer closeStore()

	profileCache, err := cache.NewProfileCache(&cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize profile cache")
	}
	defer profileCache.Close()

	assessor := service.NewAssessorService(logger, &cfg.Clinical)
	server := api.NewServer(cfg, assessor, store, profileCache, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting chronic risk engine")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()

	if parsed, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// buildProfileStore assembles the configured store wrapped with the circuit
// breaker. The returned closer releases the underlying connections.
func buildProfileStore(ctx context.Context, configManager *config.Manager, logger *logrus.Logger) (repository.ProfileStore, func(), error) {
	dbCfg := configManager.GetDatabaseConfig()

	if dbCfg.Driver == "postgres" {
		db, err := database.NewConnection(ctx, dbCfg, logger)
		if err != nil {
			return nil, nil, err
		}

		databaseURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			dbCfg.Username, dbCfg.Password, dbCfg.Host, dbCfg.Port, dbCfg.Database, dbCfg.SSLMode)
		migrator, err := database.NewMigrator(databaseURL, dbCfg.MigrationsPath, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := migrator.Apply(); err != nil {
			migrator.Close()
			db.Close()
			return nil, nil, err
		}
		migrator.Close()

		store := repository.NewPostgresProfileStore(db.Pool, logger)
		return repository.NewResilientProfileStore(store, logger), db.Close, nil
	}

	sqlDB, err := repository.OpenSQLite(dbCfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	store, err := repository.NewSQLiteProfileStore(sqlDB, logger)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return repository.NewResilientProfileStore(store, logger), func() { sqlDB.Close() }, nil
}
