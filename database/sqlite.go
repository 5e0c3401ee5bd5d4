// sqlite.go - Store backend that keeps each collection document as a row in SQLite (via GORM)

package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"go-discovery-backend/apperrors"
	"go-discovery-backend/logger"
)

// collectionRow is one whole collection, stored as its JSON document.
type collectionRow struct {
	Name      string `gorm:"primaryKey"`
	Body      string `gorm:"not null"`
	UpdatedAt time.Time
}

func (collectionRow) TableName() string { return "collections" }

// SQLiteStore offers the same whole-collection semantics as FileStore.
type SQLiteStore struct {
	db    *gorm.DB
	log   *logger.Logger
	locks collectionLocks
}

func NewSQLiteStore(path string, log *logger.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Auto-migrate the collections table (create table if needed)
	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db, log: log.With("component", "sqlite_store")}, nil
}

func (s *SQLiteStore) Read(collection string, dst any) bool {
	mu := s.locks.get(collection)
	mu.RLock()
	var row collectionRow
	err := s.db.Where("name = ?", collection).Take(&row).Error
	mu.RUnlock()

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("collection unreadable, using default", "collection", collection, "error", err)
		}
		return false
	}
	if err := decodeInto([]byte(row.Body), dst); err != nil {
		s.log.Error("collection corrupt, using default", "collection", collection, "error", err)
		return false
	}
	return true
}

func (s *SQLiteStore) Write(collection string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.Storage("encode "+collection, err)
	}

	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()

	row := collectionRow{Name: collection, Body: string(raw), UpdatedAt: now()}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return apperrors.Storage("write "+collection, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
