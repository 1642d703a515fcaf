package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DownloadStatus represents the state of a recorded download
type DownloadStatus string

const (
	StatusProcessing DownloadStatus = "processing"
	StatusCompleted  DownloadStatus = "completed"
	StatusFailed     DownloadStatus = "failed"
)

// captionSites are the site families whose extractor accepts --no-caption
var captionSites = []string{
	"bilibili.com",
}

// DownloadRequest is a request to download one URL in one format
type DownloadRequest struct {
	URL              string `json:"url" binding:"required" validate:"required,url"`
	Format           string `json:"format" binding:"required" validate:"required"`
	OutputPath       string `json:"output_path,omitempty"`
	CookiesPath      string `json:"cookies_path,omitempty"`
	SuppressCaptions bool   `json:"no_caption"`
}

// InfoRequest is a request to fetch the metadata of one URL
type InfoRequest struct {
	URL         string `json:"url" binding:"required" validate:"required,url"`
	CookiesPath string `json:"cookies_path,omitempty"`
}

// IsCaptionSite reports whether rawURL belongs to a caption-bearing site family
func IsCaptionSite(rawURL string) bool {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = strings.ToLower(u.Hostname())
	}
	for _, site := range captionSites {
		if host == "" {
			if strings.Contains(strings.ToLower(rawURL), site) {
				return true
			}
			continue
		}
		if host == site || strings.HasSuffix(host, "."+site) {
			return true
		}
	}
	return false
}

// DownloadRecord is a persisted history entry for one download
type DownloadRecord struct {
	ID                 string         `json:"id" gorm:"primaryKey"`
	URL                string         `json:"url" gorm:"not null"`
	Format             string         `json:"format"`
	OutputPath         string         `json:"output_path,omitempty"`
	CaptionsSuppressed bool           `json:"captions_suppressed"`
	Status             DownloadStatus `json:"status" gorm:"not null;index"`
	ErrorMessage       string         `json:"error_message,omitempty"`
	CreatedAt          time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt          time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt        *time.Time     `json:"completed_at,omitempty"`
}

// TableName specifies the table name for GORM
func (DownloadRecord) TableName() string {
	return "download_history"
}

// NewDownloadRecord creates a history record for a download that is starting
func NewDownloadRecord(req DownloadRequest) *DownloadRecord {
	now := time.Now()
	return &DownloadRecord{
		ID:                 uuid.New().String(),
		URL:                req.URL,
		Format:             req.Format,
		OutputPath:         req.OutputPath,
		CaptionsSuppressed: req.SuppressCaptions && IsCaptionSite(req.URL),
		Status:             StatusProcessing,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// MarkCompleted marks the download as completed
func (r *DownloadRecord) MarkCompleted() {
	r.Status = StatusCompleted
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// MarkFailed marks the download as failed
func (r *DownloadRecord) MarkFailed(err error) {
	r.Status = StatusFailed
	r.ErrorMessage = err.Error()
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// IsTerminal checks if the download has finished
func (r *DownloadRecord) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// ValidateStatus checks if a status is valid
func ValidateStatus(status DownloadStatus) bool {
	return status == StatusProcessing || status == StatusCompleted || status == StatusFailed
}
