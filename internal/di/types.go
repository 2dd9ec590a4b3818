/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the HTTP server for access to services.
 */
package di

import (
	"github.com/aristath/oi-sentinel/internal/clients/nse"
	"github.com/aristath/oi-sentinel/internal/clients/telegram"
	"github.com/aristath/oi-sentinel/internal/database"
	"github.com/aristath/oi-sentinel/internal/modules/market_hours"
	"github.com/aristath/oi-sentinel/internal/modules/sampling"
	"github.com/aristath/oi-sentinel/internal/modules/snapshots"
	"github.com/aristath/oi-sentinel/internal/reliability"
)

// Container holds all application dependencies
type Container struct {
	// Storage
	DB           *database.DB
	SnapshotRepo *snapshots.Repository

	// Clients
	NSEClient      *nse.Client
	TelegramClient *telegram.Client
	BackupUploader reliability.Uploader // nil when BACKUP_S3_BUCKET is unset

	// Services
	MarketHours     *market_hours.MarketHoursService
	DeltaEngine     *snapshots.DeltaEngine
	SamplingService *sampling.Service
}

// JobInstances holds the scheduled jobs. Optional jobs are nil when disabled.
type JobInstances struct {
	Sampling    *sampling.Job
	Maintenance *reliability.MaintenanceJob
	Retention   *snapshots.RetentionJob
	Backup      *reliability.BackupJob
}
