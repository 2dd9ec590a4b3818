// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/aristath/oi-sentinel/internal/config"
	"github.com/aristath/oi-sentinel/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the snapshot database and applies its schema.
// Failure here is the only condition that aborts startup.
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	db, err := database.New(database.Config{
		Path: cfg.DBPath,
		Name: "snapshots",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshots database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate snapshots database: %w", err)
	}
	container.DB = db

	log.Info().Str("path", db.Path()).Msg("Snapshot database ready")

	return container, nil
}
