// Package reliability keeps the snapshot database healthy: WAL maintenance
// and off-site backups.
package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/oi-sentinel/internal/database"
	"github.com/rs/zerolog"
)

// Warn when the database plus WAL grows past this
const sizeWarnBytes = 1 << 30

// MaintenanceJob performs daily database maintenance
type MaintenanceJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewMaintenanceJob creates a new daily maintenance job
func NewMaintenanceJob(db *database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:  db,
		log: log.With().Str("job", "daily_maintenance").Logger(),
	}
}

// Run executes the daily maintenance job
func (j *MaintenanceJob) Run() error {
	j.log.Info().Msg("Starting daily maintenance")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := j.db.QuickCheck(ctx); err != nil {
		return fmt.Errorf("database %s unreachable: %w", j.db.Name(), err)
	}

	before := j.db.SizeBytes()

	// Truncate the WAL so it does not grow between restarts
	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		// Not critical: the next automatic checkpoint will catch up
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	after := j.db.SizeBytes()
	if after > sizeWarnBytes {
		j.log.Warn().
			Int64("size_mb", after/1024/1024).
			Msg("Snapshot database is large, consider enabling retention")
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Int64("size_before_bytes", before).
		Int64("size_after_bytes", after).
		Msg("Daily maintenance completed")

	return nil
}

// Name returns the job name for scheduler
func (j *MaintenanceJob) Name() string {
	return "daily_maintenance"
}
