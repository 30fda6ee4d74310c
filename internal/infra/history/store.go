// Package history persists completed cleanup runs to a local sqlite
// database so past activity can be reviewed and exported.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"binsweep/internal/domain/model"
)

// CleanupRun is one persisted cleanup invocation, dry runs included.
type CleanupRun struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	StartedAt  time.Time `json:"started_at"`
	DryRun     bool      `json:"dry_run"`
	Processed  int       `json:"processed"`
	Deleted    int       `json:"deleted"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	BytesFreed uint64    `json:"bytes_freed"`
	DurationMS int64     `json:"duration_ms"`
}

type Store struct {
	db *gorm.DB
}

// Open creates or opens the history database at path, creating parent
// directories and migrating the schema as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.AutoMigrate(&CleanupRun{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite supports a single writer.
	sqlDB.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record persists the outcome of one cleanup run.
func (s *Store) Record(ctx context.Context, result model.CleanupResult) error {
	run := CleanupRun{
		ID:         result.RunID,
		StartedAt:  result.StartedAt,
		DryRun:     result.DryRun,
		Processed:  result.Processed,
		Deleted:    result.Deleted,
		Failed:     result.Failed,
		Skipped:    result.Skipped,
		BytesFreed: result.BytesFreed,
		DurationMS: result.DurationMS,
	}
	return s.db.WithContext(ctx).Create(&run).Error
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]CleanupRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []CleanupRun
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
