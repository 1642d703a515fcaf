package domain

// DownloadHistoryRepository defines the interface for download history persistence
type DownloadHistoryRepository interface {
	// Create creates a new record
	Create(record *DownloadRecord) error

	// Update updates an existing record
	Update(record *DownloadRecord) error

	// Delete deletes a record by ID
	Delete(id string) error

	// FindByID finds a record by ID
	FindByID(id string) (*DownloadRecord, error)

	// FindRecent returns the newest records first; limit <= 0 means no limit
	FindRecent(limit int) ([]*DownloadRecord, error)

	// FindByStatus finds records by status
	FindByStatus(status DownloadStatus) ([]*DownloadRecord, error)

	// GetStats returns history statistics
	GetStats() (*DownloadStats, error)
}

// DownloadStats represents download history statistics
type DownloadStats struct {
	Total      int64 `json:"total"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}
