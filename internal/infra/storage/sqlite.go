package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"mt_console/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the local SQLite command journal. It is append-mostly: live
// session state is rebuilt from snapshots, never from here.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite journal at the given path.
func NewStorage(path string) (*Storage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to journal database: %w", err)
	}

	if err := db.AutoMigrate(&domain.CommandRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}

	return &Storage{db: db}, nil
}

// RecordCommand appends one command outcome to the journal.
func (s *Storage) RecordCommand(rec *domain.CommandRecord) error {
	return s.db.Create(rec).Error
}

// RecentCommands returns the newest records first, capped at limit.
func (s *Storage) RecentCommands(limit int) ([]domain.CommandRecord, error) {
	var recs []domain.CommandRecord
	err := s.db.Order("id desc").Limit(limit).Find(&recs).Error
	return recs, err
}

// CommandsForInstrument returns the newest records for one symbol.
func (s *Storage) CommandsForInstrument(instrument string, limit int) ([]domain.CommandRecord, error) {
	var recs []domain.CommandRecord
	err := s.db.Where("instrument = ?", instrument).Order("id desc").Limit(limit).Find(&recs).Error
	return recs, err
}
