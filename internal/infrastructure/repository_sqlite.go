package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// ErrRecordNotFound is returned when a history record does not exist
var ErrRecordNotFound = errors.New("download record not found")

// SQLiteHistoryRepository implements DownloadHistoryRepository using SQLite
type SQLiteHistoryRepository struct {
	db *gorm.DB
}

// NewSQLiteHistoryRepository opens (and migrates) the history database at dbPath
func NewSQLiteHistoryRepository(dbPath string) (*SQLiteHistoryRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.DownloadRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

// Create creates a new record
func (r *SQLiteHistoryRepository) Create(record *domain.DownloadRecord) error {
	return r.db.Create(record).Error
}

// Update updates an existing record
func (r *SQLiteHistoryRepository) Update(record *domain.DownloadRecord) error {
	return r.db.Save(record).Error
}

// Delete deletes a record by ID
func (r *SQLiteHistoryRepository) Delete(id string) error {
	result := r.db.Delete(&domain.DownloadRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// FindByID finds a record by ID
func (r *SQLiteHistoryRepository) FindByID(id string) (*domain.DownloadRecord, error) {
	var record domain.DownloadRecord
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindRecent returns the newest records first
func (r *SQLiteHistoryRepository) FindRecent(limit int) ([]*domain.DownloadRecord, error) {
	records := []*domain.DownloadRecord{}
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

// FindByStatus finds records by status, newest first
func (r *SQLiteHistoryRepository) FindByStatus(status domain.DownloadStatus) ([]*domain.DownloadRecord, error) {
	records := []*domain.DownloadRecord{}
	err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&records).Error
	return records, err
}

// GetStats returns history statistics
func (r *SQLiteHistoryRepository) GetStats() (*domain.DownloadStats, error) {
	stats := &domain.DownloadStats{}

	if err := r.db.Model(&domain.DownloadRecord{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.DownloadStatus
		Count  int64
	}{}
	if err := r.db.Model(&domain.DownloadRecord{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.StatusProcessing:
			stats.Processing = sc.Count
		case domain.StatusCompleted:
			stats.Completed = sc.Count
		case domain.StatusFailed:
			stats.Failed = sc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteHistoryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
