package reliability

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aristath/oi-sentinel/internal/database"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Uploader stores a backup object under key
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader) error
}

// BackupJob copies the snapshot database off-site once a day
type BackupJob struct {
	db       *database.DB
	uploader Uploader
	prefix   string
	stageDir string
	timeout  time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewBackupJob creates a backup job. stageDir holds the temporary copy.
func NewBackupJob(db *database.DB, uploader Uploader, prefix, stageDir string, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		db:       db,
		uploader: uploader,
		prefix:   prefix,
		stageDir: stageDir,
		timeout:  10 * time.Minute,
		now:      time.Now,
		log:      log.With().Str("job", "snapshot_backup").Logger(),
	}
}

// Run executes the backup job
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.Backup(ctx)
	return err
}

// Backup writes a consistent copy of the database with VACUUM INTO and
// uploads it under <prefix>/<YYYY-MM-DD>/<uuid>.sqlite. It returns the key.
func (j *BackupJob) Backup(ctx context.Context) (string, error) {
	j.log.Info().Msg("Starting snapshot backup")
	startTime := time.Now()

	if err := os.MkdirAll(j.stageDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}

	name := uuid.NewString() + ".sqlite"
	stagePath := filepath.Join(j.stageDir, name)
	defer os.Remove(stagePath)

	if err := j.db.VacuumInto(ctx, stagePath); err != nil {
		return "", err
	}

	file, err := os.Open(stagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open backup copy: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat backup copy: %w", err)
	}

	key := path.Join(j.prefix, j.now().UTC().Format("2006-01-02"), name)
	if err := j.uploader.Upload(ctx, key, file); err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("key", key).
		Int64("size_bytes", info.Size()).
		Msg("Snapshot backup completed")

	return key, nil
}

// Name returns the job name for scheduler
func (j *BackupJob) Name() string {
	return "snapshot_backup"
}
