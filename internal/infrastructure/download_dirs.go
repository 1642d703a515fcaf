package infrastructure

import (
	"os"

	"github.com/adrg/xdg"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// DownloadDirResolver picks the directory downloads default to
type DownloadDirResolver struct {
	downloadDir func() string
	homeDir     func() (string, error)
	message     string
}

// NewDownloadDirResolver creates a resolver backed by the platform's user directories
func NewDownloadDirResolver(messages domain.Messages) *DownloadDirResolver {
	return &DownloadDirResolver{
		downloadDir: func() string { return xdg.UserDirs.Download },
		homeDir:     os.UserHomeDir,
		message:     messages.DownloadDirUnresolvable,
	}
}

// WithLookups replaces the directory lookups (tests)
func (r *DownloadDirResolver) WithLookups(downloadDir func() string, homeDir func() (string, error)) *DownloadDirResolver {
	r.downloadDir = downloadDir
	r.homeDir = homeDir
	return r
}

// Resolve returns the user's download directory, else the home directory
func (r *DownloadDirResolver) Resolve() (string, error) {
	if dir := r.downloadDir(); dir != "" {
		return dir, nil
	}
	home, err := r.homeDir()
	if err == nil && home != "" {
		return home, nil
	}
	return "", domain.NewError(domain.KindDirectoryUnresolvable, r.message, err)
}
