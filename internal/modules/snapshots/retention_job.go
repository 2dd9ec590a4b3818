package snapshots

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RetentionJob removes observations older than the retention period.
// It should be scheduled to run daily.
type RetentionJob struct {
	repo *Repository
	keep time.Duration
	now  func() time.Time
	log  zerolog.Logger
}

// NewRetentionJob creates a job keeping the last retentionDays days of observations
func NewRetentionJob(repo *Repository, retentionDays int, log zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		repo: repo,
		keep: time.Duration(retentionDays) * 24 * time.Hour,
		now:  time.Now,
		log:  log.With().Str("job", "snapshot_retention").Logger(),
	}
}

// Run deletes every observation older than now minus the retention period
func (j *RetentionJob) Run() error {
	cutoff := j.now().Add(-j.keep).Unix()

	deleted, err := j.repo.DeleteBefore(context.Background(), cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to prune old snapshots")
		return err
	}

	if deleted > 0 {
		j.log.Info().
			Int64("deleted", deleted).
			Time("cutoff", time.Unix(cutoff, 0)).
			Msg("Pruned old snapshots")
	}

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *RetentionJob) Name() string {
	return "snapshot_retention"
}
