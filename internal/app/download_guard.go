package app

import (
	"sync"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// DownloadGuard allows at most one download at a time.
// The lock covers only the flag flip, never the download itself, so IsActive never waits on a running download.
type DownloadGuard struct {
	mu      sync.Mutex
	active  bool
	message string
}

// NewDownloadGuard creates an idle guard; message is returned with ErrAlreadyInProgress
func NewDownloadGuard(message string) *DownloadGuard {
	return &DownloadGuard{message: message}
}

// TryBegin marks a download active, or fails if one already is
func (g *DownloadGuard) TryBegin() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active {
		return domain.NewError(domain.KindAlreadyInProgress, g.message, nil)
	}
	g.active = true
	return nil
}

// End marks the download finished
func (g *DownloadGuard) End() {
	g.mu.Lock()
	g.active = false
	g.mu.Unlock()
}

// IsActive reports whether a download is running
func (g *DownloadGuard) IsActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}
