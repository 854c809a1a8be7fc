package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const backupRunTimeout = 30 * time.Minute

// Archiver creates and prunes database backups
type Archiver interface {
	CreateAndUploadBackup(ctx context.Context) error
	RotateOldBackups(ctx context.Context) error
}

// BackupJob archives the database to object storage and prunes old copies
type BackupJob struct {
	archiver Archiver
	log      zerolog.Logger
}

// NewBackupJob creates a new backup job
func NewBackupJob(archiver Archiver, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		archiver: archiver,
		log:      log.With().Str("job", "database_backup").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "database_backup"
}

// Run creates a backup and then rotates old ones. A failed rotation does
// not undo a successful upload, so it only logs.
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupRunTimeout)
	defer cancel()

	if err := j.archiver.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	if err := j.archiver.RotateOldBackups(ctx); err != nil {
		j.log.Error().Err(err).Msg("Backup rotation failed")
	}
	return nil
}
