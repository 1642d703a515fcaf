package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yourusername/you-get-desk/internal/domain"
	"github.com/yourusername/you-get-desk/pkg/logger"
)

// Notifier announces finished downloads
type Notifier interface {
	NotifyDownloadCompleted(url string)
	NotifyDownloadFailed(url string, err error)
}

// DirectoryResolver finds the default download directory
type DirectoryResolver interface {
	Resolve() (string, error)
}

// ServiceDeps are the collaborators of a DownloadService.
// History, Notifier and EventLogger are optional.
type ServiceDeps struct {
	Downloader  domain.Downloader
	Installer   domain.ToolInstaller
	Directories DirectoryResolver
	History     domain.DownloadHistoryRepository
	Notifier    Notifier
	EventLogger *logger.MultiLogger
	Messages    domain.Messages
	Logger      *zap.Logger
}

// DownloadService exposes the operations the front end invokes
type DownloadService struct {
	downloader  domain.Downloader
	installer   domain.ToolInstaller
	directories DirectoryResolver
	history     domain.DownloadHistoryRepository
	notifier    Notifier
	eventLogger *logger.MultiLogger
	guard       *DownloadGuard
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewDownloadService creates a new download service with an idle guard
func NewDownloadService(deps ServiceDeps) *DownloadService {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &DownloadService{
		downloader:  deps.Downloader,
		installer:   deps.Installer,
		directories: deps.Directories,
		history:     deps.History,
		notifier:    deps.Notifier,
		eventLogger: deps.EventLogger,
		guard:       NewDownloadGuard(deps.Messages.AlreadyInProgress),
		validate:    validator.New(),
		logger:      log,
	}
}

// CheckToolInstalled reports whether the tool can be run
func (s *DownloadService) CheckToolInstalled(ctx context.Context) bool {
	return s.installer.CheckInstalled(ctx)
}

// InstallTool installs the tool with the package manager
func (s *DownloadService) InstallTool(ctx context.Context) error {
	if err := s.installer.Install(ctx); err != nil {
		s.logAppError("Tool installation failed", err)
		return err
	}
	return nil
}

// FetchVideoInfo returns the title and formats available for url.
// It never touches the download guard and may run during a download.
func (s *DownloadService) FetchVideoInfo(ctx context.Context, url, cookiesPath string) (*domain.MediaInfo, error) {
	if err := s.validateStruct(domain.InfoRequest{URL: url, CookiesPath: cookiesPath}); err != nil {
		return nil, err
	}

	info, err := s.downloader.FetchInfo(ctx, url, cookiesPath)
	if err != nil {
		s.logger.Warn("Failed to fetch media info",
			zap.String("url", url),
			zap.Error(err))
		return nil, err
	}
	return info, nil
}

// StartDownload runs one download to completion, emitting progress events.
// It fails with ErrAlreadyInProgress while another download runs. The guard is released before it returns.
func (s *DownloadService) StartDownload(req domain.DownloadRequest, emitter domain.EventEmitter) error {
	if err := s.validateStruct(req); err != nil {
		return err
	}

	job, err := s.downloader.PrepareDownload(req)
	if err != nil {
		return err
	}

	if err := s.guard.TryBegin(); err != nil {
		return err
	}

	s.logger.Info("Starting download",
		zap.String("url", req.URL),
		zap.String("format", req.Format),
		zap.String("command", job.CommandLine()))

	record := s.recordStart(req)

	err = func() error {
		defer s.guard.End()
		return job.Run(emitter)
	}()

	s.recordEnd(record, err)

	if err != nil {
		s.logAppError("Download failed", err, zap.String("url", req.URL))
		if s.notifier != nil {
			s.notifier.NotifyDownloadFailed(req.URL, err)
		}
		return err
	}

	s.logger.Info("Download completed", zap.String("url", req.URL))
	if s.notifier != nil {
		s.notifier.NotifyDownloadCompleted(req.URL)
	}
	return nil
}

// IsDownloading reports whether a download is running; it never waits on one
func (s *DownloadService) IsDownloading() bool {
	return s.guard.IsActive()
}

// DefaultDownloadDirectory returns the OS download directory, else the home directory
func (s *DownloadService) DefaultDownloadDirectory() (string, error) {
	return s.directories.Resolve()
}

// History returns the most recent downloads, newest first
func (s *DownloadService) History(limit int) ([]*domain.DownloadRecord, error) {
	if s.history == nil {
		return []*domain.DownloadRecord{}, nil
	}
	return s.history.FindRecent(limit)
}

// HistoryStats returns counts of recorded downloads by status
func (s *DownloadService) HistoryStats() (*domain.DownloadStats, error) {
	if s.history == nil {
		return &domain.DownloadStats{}, nil
	}
	return s.history.GetStats()
}

// recordStart stores a processing record; history failures never fail the download
func (s *DownloadService) recordStart(req domain.DownloadRequest) *domain.DownloadRecord {
	if s.history == nil {
		return nil
	}
	record := domain.NewDownloadRecord(req)
	if err := s.history.Create(record); err != nil {
		s.logAppError("Failed to record download", err, zap.String("url", req.URL))
		return nil
	}
	return record
}

func (s *DownloadService) recordEnd(record *domain.DownloadRecord, runErr error) {
	if record == nil {
		return
	}
	if runErr != nil {
		record.MarkFailed(runErr)
	} else {
		record.MarkCompleted()
	}
	if err := s.history.Update(record); err != nil {
		s.logAppError("Failed to update download record", err, zap.String("id", record.ID))
	}
}

func (s *DownloadService) logAppError(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	s.logger.Error(msg, fields...)
	if s.eventLogger != nil {
		s.eventLogger.LogAppError(msg, fields...)
	}
}

// validateStruct checks a request's validate tags
func (s *DownloadService) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewError(domain.KindInvalidRequest, err.Error(), err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "url":
			problems = append(problems, fmt.Sprintf("%s must be a valid URL", strings.ToLower(fe.Field())))
		default:
			problems = append(problems, fmt.Sprintf("%s is invalid (%s)", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return domain.NewError(domain.KindInvalidRequest, strings.Join(problems, "; "), err)
}
