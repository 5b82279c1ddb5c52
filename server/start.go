package server

import (
	"context"
	"fmt"

	cachepackage "contact-manager/cache"
	"contact-manager/config"
	"contact-manager/database"
	"contact-manager/logging"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// StartServer runs the web application until the listener fails.
func StartServer(cfg config.Config) error {
	// go-utils internals (httpserver) log through this one
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Starting Contact Manager...", cfg.Fields()...)
	if cfg.UsesDefaultSecret() {
		log.Warn("SECRET_KEY is not set; using the development default")
	}

	ctx := context.Background()
	db, err := database.InitializeDatabase(ctx, cfg.Database, log)
	if err != nil {
		log.Error("Error initializing database", zap.Error(err))
		return err
	}
	defer db.Close()

	store, closeStore, err := cachepackage.InitializeSessionStore(cfg, log)
	if err != nil {
		log.Error("Error initializing session store", zap.Error(err))
		return err
	}
	defer closeStore()

	bindings, err := NewRoutes(db, store, cfg, log)
	if err != nil {
		log.Error("Error building routes", zap.Error(err))
		return err
	}

	// No route uses go-utils auth; the session guards in NewRoutes do it.
	server := httpserver.New(cfg.Port, nil)
	for _, b := range bindings {
		server.Register(b.Route, b.Handler)
	}

	log.Info("Contact Manager started", zap.String("port", cfg.Port), zap.Int("routes", len(bindings)))
	log.Info("Login: GET /auth/login")
	log.Info("Contacts: GET /contactos/ (HTML), /api/contactos (JSON)")

	if err := server.Start(); err != nil {
		log.Error("Server failed to start", zap.Error(err))
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

// Migrate brings the configured database schema up to date and exits.
func Migrate(cfg config.Config) error {
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.InitializeDatabase(context.Background(), cfg.Database, log)
	if err != nil {
		return err
	}
	return db.Close()
}

// PrintConfig logs the effective configuration, secrets masked.
func PrintConfig(cfg config.Config) error {
	log, err := logging.New("info")
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Effective configuration", cfg.Fields()...)
	return nil
}
