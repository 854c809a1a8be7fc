package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

const (
	archiveTimeLayout = "2006-01-02-150405"
	manifestFilename  = "backup-metadata.json"
	manifestVersion   = "1.0.0"

	// Rotation never drops below this many copies regardless of age.
	minBackupsToKeep = 3
)

// ObjectStore is the object storage surface the backup service needs
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	List(ctx context.Context, prefix string) ([]types.Object, error)
	Delete(ctx context.Context, key string) error
}

// BackupService archives the database and ships it to object storage
type BackupService struct {
	store         ObjectStore
	db            *sql.DB
	dataDir       string
	prefix        string
	retentionDays int
	log           zerolog.Logger
}

// Manifest describes the contents of one backup archive
type Manifest struct {
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Databases []FileManifest `json:"databases"`
}

// FileManifest describes one archived file
type FileManifest struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupInfo describes one stored backup
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// NewBackupService creates a new backup service
func NewBackupService(store ObjectStore, db *sql.DB, dataDir, prefix string, retentionDays int, log zerolog.Logger) *BackupService {
	return &BackupService{
		store:         store,
		db:            db,
		dataDir:       dataDir,
		prefix:        prefix,
		retentionDays: retentionDays,
		log:           log.With().Str("service", "backup").Logger(),
	}
}

// CreateAndUploadBackup snapshots the database, wraps it with a
// checksummed manifest in a tar.gz archive and uploads the archive.
func (s *BackupService) CreateAndUploadBackup(ctx context.Context) error {
	s.log.Info().Msg("Starting backup")
	startTime := time.Now()

	stagingDir, err := os.MkdirTemp(s.dataDir, "backup-staging-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	snapshotName := s.prefix + ".db"
	snapshotPath := filepath.Join(stagingDir, snapshotName)
	if err := s.snapshotDatabase(ctx, snapshotPath); err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}

	info, err := os.Stat(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to stat snapshot: %w", err)
	}
	checksum, err := checksumFile(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to checksum snapshot: %w", err)
	}

	manifest := Manifest{
		Timestamp: time.Now().UTC(),
		Version:   manifestVersion,
		Databases: []FileManifest{{
			Name:      s.prefix,
			Filename:  snapshotName,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		}},
	}
	manifestPath := filepath.Join(stagingDir, manifestFilename)
	if err := writeManifest(manifestPath, manifest); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	archiveName := s.archiveName(time.Now())
	archivePath := filepath.Join(stagingDir, archiveName)
	if err := createArchive(archivePath, []string{snapshotPath, manifestPath}); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archiveFile.Close()

	archiveInfo, err := archiveFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}

	if err := s.store.Upload(ctx, archiveName, archiveFile); err != nil {
		return fmt.Errorf("failed to upload archive: %w", err)
	}

	s.log.Info().
		Dur("duration", time.Since(startTime)).
		Str("archive", archiveName).
		Int64("size_bytes", archiveInfo.Size()).
		Msg("Backup completed")

	return nil
}

// ListBackups returns the stored backups, newest first.
func (s *BackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	objects, err := s.store.List(ctx, s.prefix+"-backup-")
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	backups := make([]BackupInfo, 0, len(objects))
	now := time.Now()

	for _, obj := range objects {
		if obj.Key == nil {
			continue
		}
		filename := *obj.Key

		timestamp, ok := s.parseArchiveTime(filename)
		if !ok {
			s.log.Warn().Str("filename", filename).Msg("Skipping object with unparseable name")
			continue
		}

		var sizeBytes int64
		if obj.Size != nil {
			sizeBytes = *obj.Size
		}

		backups = append(backups, BackupInfo{
			Filename:  filename,
			Timestamp: timestamp,
			SizeBytes: sizeBytes,
			AgeHours:  int64(now.Sub(timestamp).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// RotateOldBackups deletes backups past the retention window, always
// keeping the newest few. Retention of zero keeps everything.
func (s *BackupService) RotateOldBackups(ctx context.Context) error {
	backups, err := s.ListBackups(ctx)
	if err != nil {
		return err
	}
	if len(backups) <= minBackupsToKeep || s.retentionDays <= 0 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted := 0
	for i, backup := range backups {
		if i < minBackupsToKeep || !backup.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, backup.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", backup.Filename).Msg("Failed to delete old backup")
			continue
		}
		s.log.Info().Str("filename", backup.Filename).Msg("Deleted old backup")
		deleted++
	}

	s.log.Info().
		Int("deleted", deleted).
		Int("remaining", len(backups)-deleted).
		Int("retention_days", s.retentionDays).
		Msg("Backup rotation completed")
	return nil
}

// snapshotDatabase writes a consistent copy of the live database. VACUUM
// INTO works while other connections keep reading and writing.
func (s *BackupService) snapshotDatabase(ctx context.Context, destPath string) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("vacuum into failed: %w", err)
	}
	return nil
}

func (s *BackupService) archiveName(t time.Time) string {
	return fmt.Sprintf("%s-backup-%s.tar.gz", s.prefix, t.Format(archiveTimeLayout))
}

func (s *BackupService) parseArchiveTime(filename string) (time.Time, bool) {
	name := strings.TrimPrefix(filename, s.prefix+"-backup-")
	name = strings.TrimSuffix(name, ".tar.gz")
	if name == filename {
		return time.Time{}, false
	}
	t, err := time.Parse(archiveTimeLayout, name)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func checksumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeManifest(path string, manifest Manifest) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(manifest)
}

func createArchive(archivePath string, files []string) error {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer archiveFile.Close()

	gzipWriter := gzip.NewWriter(archiveFile)
	defer gzipWriter.Close()

	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	for _, path := range files {
		if err := addFileToArchive(tarWriter, path); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func addFileToArchive(tarWriter *tar.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    filepath.Base(path),
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.Copy(tarWriter, file)
	return err
}
