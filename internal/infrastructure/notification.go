package infrastructure

import (
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// NotificationService posts desktop notifications about finished downloads
type NotificationService struct {
	config   *domain.NotificationConfig
	messages domain.Messages
	run      func(name string, args ...string) error
	logger   *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, messages domain.Messages, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		config:   config,
		messages: messages,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
		logger: logger,
	}
}

// WithRunner replaces the command runner (tests)
func (n *NotificationService) WithRunner(run func(name string, args ...string) error) *NotificationService {
	n.run = run
	return n
}

// Send posts a notification with the configured method; disabled means no-op
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		return nil
	}

	var err error
	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification %s with title %s`, appleScriptString(message), appleScriptString(title))
		err = n.run("osascript", "-e", script)
	case "notify-send":
		err = n.run("notify-send", title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
		return err
	}
	return nil
}

// NotifyDownloadCompleted announces a successful download
func (n *NotificationService) NotifyDownloadCompleted(url string) {
	n.Send(n.messages.DownloadCompletedTitle, truncateString(url, 60))
}

// NotifyDownloadFailed announces a failed download
func (n *NotificationService) NotifyDownloadFailed(url string, err error) {
	n.Send(n.messages.DownloadFailedTitle, truncateString(url, 60)+"\n"+domain.UserMessage(err))
}

// appleScriptString quotes s as an AppleScript string literal
func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// truncateString shortens s to maxLen runes
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
