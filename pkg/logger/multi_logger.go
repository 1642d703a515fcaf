package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogCategory represents different log categories
type LogCategory string

const (
	CategoryDownload LogCategory = "download" // Tool output lines and download lifecycle (JSON)
	CategoryError    LogCategory = "error"    // Application errors (JSON)
)

// Categories lists every category with its own file
var Categories = []LogCategory{CategoryDownload, CategoryError}

// ValidCategory reports whether c names a known category
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if string(known) == c {
			return true
		}
	}
	return false
}

// MultiLogger provides categorized logging with separate output files
type MultiLogger struct {
	loggers map[LogCategory]*zap.Logger
	writers []*lumberjack.Logger
	config  MultiLoggerConfig
	mu      sync.RWMutex
}

// MultiLoggerConfig contains configuration for multi-output logging
type MultiLoggerConfig struct {
	Level      string // debug, info, warn, error
	LogsDir    string // Directory for log files
	MaxSizeMB  int
	MaxBackups int
}

// NewMultiLogger creates a new multi-output logger
func NewMultiLogger(config MultiLoggerConfig) (*MultiLogger, error) {
	if config.LogsDir == "" {
		return nil, fmt.Errorf("logs_dir must be specified")
	}

	if err := os.MkdirAll(config.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	ml := &MultiLogger{
		loggers: make(map[LogCategory]*zap.Logger),
		config:  config,
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	ml.loggers[CategoryDownload] = ml.createStructuredLogger(CategoryDownload, level)
	ml.loggers[CategoryError] = ml.createStructuredLogger(CategoryError, zapcore.ErrorLevel)

	return ml, nil
}

// createStructuredLogger creates a JSON-formatted logger for a category
func (ml *MultiLogger) createStructuredLogger(category LogCategory, level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "msg"
	encoderConfig.LevelKey = "level"
	encoderConfig.CallerKey = ""

	writer := newRotatingWriter(CategoryLogPath(ml.config.LogsDir, category, time.Now()), ml.config.MaxSizeMB, ml.config.MaxBackups)
	ml.writers = append(ml.writers, writer)

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), level)
	return zap.New(core)
}

// CategoryLogPath is the file holding a category's entries for the given day
func CategoryLogPath(logsDir string, category LogCategory, date time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s-%s.log", category, date.Format("20060102")))
}

// GetLogsDir returns the logs directory path
func (ml *MultiLogger) GetLogsDir() string {
	return ml.config.LogsDir
}

// GetLogger returns the structured logger for a specific category
func (ml *MultiLogger) GetLogger(category LogCategory) *zap.Logger {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	if logger, ok := ml.loggers[category]; ok {
		return logger
	}
	return ml.loggers[CategoryError]
}

// Download returns the download logger
func (ml *MultiLogger) Download() *zap.Logger {
	return ml.GetLogger(CategoryDownload)
}

// Error returns the error logger
func (ml *MultiLogger) Error() *zap.Logger {
	return ml.GetLogger(CategoryError)
}

// LogAppError logs an application-level error (Go errors, panics)
func (ml *MultiLogger) LogAppError(msg string, fields ...zap.Field) {
	ml.Error().Error(msg, fields...)
}

// LogDownloadEvent logs a download lifecycle event
func (ml *MultiLogger) LogDownloadEvent(event string, fields ...zap.Field) {
	ml.Download().Info(event, fields...)
}

// LogDownloadCommand records the command line a download is about to run
func (ml *MultiLogger) LogDownloadCommand(cmdLine string) {
	ml.Download().Info("$ "+cmdLine, zap.String("kind", "command"))
}

// LogDownloadLine records one line of tool output
func (ml *MultiLogger) LogDownloadLine(stream, line string) {
	ml.Download().Info(line, zap.String("stream", stream))
}

// Sync flushes all loggers
func (ml *MultiLogger) Sync() error {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	var lastErr error
	for _, logger := range ml.loggers {
		if err := logger.Sync(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Close flushes all loggers and closes their files
func (ml *MultiLogger) Close() error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	var lastErr error
	for _, logger := range ml.loggers {
		if err := logger.Sync(); err != nil {
			lastErr = err
		}
	}
	for _, w := range ml.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
