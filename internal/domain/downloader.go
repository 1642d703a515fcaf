package domain

import "context"

// Downloader runs the external tool for downloads and metadata requests
type Downloader interface {
	// PrepareDownload resolves the tool and builds the command for req without spawning it
	PrepareDownload(req DownloadRequest) (PreparedDownload, error)

	// FetchInfo asks the tool for the metadata report of url
	FetchInfo(ctx context.Context, url, cookiesPath string) (*MediaInfo, error)
}

// PreparedDownload is a resolved download command ready to be spawned once
type PreparedDownload interface {
	// CommandLine is the shell-quoted command, for logs
	CommandLine() string

	// Run spawns the tool and blocks until it exits, pushing progress to emitter
	Run(emitter EventEmitter) error
}

// ToolInstaller detects and installs the external tool
type ToolInstaller interface {
	// CheckInstalled reports whether the tool can be executed; it never fails
	CheckInstalled(ctx context.Context) bool

	// Install installs the tool through the package manager
	Install(ctx context.Context) error
}
