package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubArchiver struct {
	backupErr  error
	rotateErr  error
	backupRuns int
	rotateRuns int
}

func (s *stubArchiver) CreateAndUploadBackup(context.Context) error {
	s.backupRuns++
	return s.backupErr
}

func (s *stubArchiver) RotateOldBackups(context.Context) error {
	s.rotateRuns++
	return s.rotateErr
}

func TestBackupJobRunsBackupThenRotation(t *testing.T) {
	archiver := &stubArchiver{}
	job := NewBackupJob(archiver, zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Equal(t, 1, archiver.backupRuns)
	assert.Equal(t, 1, archiver.rotateRuns)
}

func TestBackupJobFailedBackupSkipsRotation(t *testing.T) {
	boom := errors.New("bucket unreachable")
	archiver := &stubArchiver{backupErr: boom}
	job := NewBackupJob(archiver, zerolog.Nop())

	require.ErrorIs(t, job.Run(), boom)
	assert.Equal(t, 0, archiver.rotateRuns)
}

func TestBackupJobRotationFailureIsNotFatal(t *testing.T) {
	archiver := &stubArchiver{rotateErr: errors.New("listing failed")}
	job := NewBackupJob(archiver, zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Equal(t, 1, archiver.backupRuns)
	assert.Equal(t, 1, archiver.rotateRuns)
}

func TestBackupJobName(t *testing.T) {
	job := NewBackupJob(&stubArchiver{}, zerolog.Nop())
	assert.Equal(t, "database_backup", job.Name())
}
