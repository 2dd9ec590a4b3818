// Package di provides dependency injection for scheduler jobs.
package di

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aristath/oi-sentinel/internal/config"
	"github.com/aristath/oi-sentinel/internal/modules/sampling"
	"github.com/aristath/oi-sentinel/internal/modules/snapshots"
	"github.com/aristath/oi-sentinel/internal/reliability"
	"github.com/aristath/oi-sentinel/internal/scheduler"
	"github.com/rs/zerolog"
)

// Schedules use the seconds field and run in the exchange timezone
const (
	retentionSchedule   = "0 0 3 * * *"
	maintenanceSchedule = "0 30 3 * * *"
	backupSchedule      = "0 0 4 * * *"
)

// RegisterJobs creates the job instances. ctx bounds the sampling job and is
// cancelled on shutdown.
func RegisterJobs(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil || container.SamplingService == nil {
		return nil, fmt.Errorf("container services not initialized")
	}

	instances := &JobInstances{
		Sampling:    sampling.NewJob(ctx, container.SamplingService),
		Maintenance: reliability.NewMaintenanceJob(container.DB, log),
	}

	if cfg.RetentionDays > 0 {
		instances.Retention = snapshots.NewRetentionJob(container.SnapshotRepo, cfg.RetentionDays, log)
	}

	if container.BackupUploader != nil {
		instances.Backup = reliability.NewBackupJob(
			container.DB,
			container.BackupUploader,
			cfg.Backup.Prefix,
			filepath.Join(cfg.DataDir, "backup-staging"),
			log,
		)
	}

	return instances, nil
}

// ScheduleJobs registers every non-nil job with the scheduler. The sampling
// job also runs once as soon as the scheduler starts.
func ScheduleJobs(sched *scheduler.Scheduler, jobs *JobInstances, cfg *config.Config) error {
	if err := sched.RunOnStart(fmt.Sprintf("@every %s", cfg.SampleInterval), jobs.Sampling); err != nil {
		return fmt.Errorf("failed to schedule sampling: %w", err)
	}

	if err := sched.AddJob(maintenanceSchedule, jobs.Maintenance); err != nil {
		return fmt.Errorf("failed to schedule maintenance: %w", err)
	}

	if jobs.Retention != nil {
		if err := sched.AddJob(retentionSchedule, jobs.Retention); err != nil {
			return fmt.Errorf("failed to schedule retention: %w", err)
		}
	}

	if jobs.Backup != nil {
		if err := sched.AddJob(backupSchedule, jobs.Backup); err != nil {
			return fmt.Errorf("failed to schedule backup: %w", err)
		}
	}

	return nil
}
