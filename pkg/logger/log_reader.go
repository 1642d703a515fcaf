package logger

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// LogEntry represents a parsed log entry
type LogEntry struct {
	Timestamp string `json:"ts"`
	Level     string `json:"level"`
	Message   string `json:"msg"`
	Stream    string `json:"stream,omitempty"`
	Category  string `json:"category"`
}

// LogReader provides functionality to read and stream log files
type LogReader struct {
	logsDir      string
	pollInterval time.Duration
}

// NewLogReader creates a new log reader
func NewLogReader(logsDir string) *LogReader {
	return &LogReader{
		logsDir:      logsDir,
		pollInterval: 200 * time.Millisecond,
	}
}

// GetLogPath returns the path to a category log file for a specific date
func (lr *LogReader) GetLogPath(category LogCategory, date time.Time) string {
	return CategoryLogPath(lr.logsDir, category, date)
}

// ReadLogs returns the last limit entries of a category log (all when limit <= 0)
func (lr *LogReader) ReadLogs(category LogCategory, date time.Time, limit int) ([]LogEntry, error) {
	file, err := os.Open(lr.GetLogPath(category, date))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEntry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 2<<20)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	entries := make([]LogEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, parseEntry(category, line))
	}
	return entries, nil
}

// SearchLogs returns entries whose message, level or stream contains query (case-insensitive)
func (lr *LogReader) SearchLogs(category LogCategory, date time.Time, query string, limit int) ([]LogEntry, error) {
	entries, err := lr.ReadLogs(category, date, 0)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	filtered := []LogEntry{}
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Message), query) ||
			strings.Contains(strings.ToLower(entry.Level), query) ||
			strings.Contains(strings.ToLower(entry.Stream), query) {
			filtered = append(filtered, entry)
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered, nil
}

// TailLogs sends entries appended to today's category log until ctx is done
func (lr *LogReader) TailLogs(ctx context.Context, category LogCategory, entries chan<- LogEntry) error {
	ticker := time.NewTicker(lr.pollInterval)
	defer ticker.Stop()

	var file *os.File
	for {
		f, err := os.Open(lr.GetLogPath(category, time.Now()))
		if err == nil {
			file = f
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		// wait for the first entry of the day
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	reader := bufio.NewReader(file)
	var partial string
	for {
		chunk, err := reader.ReadString('\n')
		partial += chunk
		if err == nil {
			if line := strings.TrimSpace(partial); line != "" {
				select {
				case entries <- parseEntry(category, line):
				case <-ctx.Done():
					return nil
				}
			}
			partial = ""
			continue
		}
		if !errors.Is(err, io.EOF) {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// parseEntry decodes a JSON log line; other lines become plain info entries
func parseEntry(category LogCategory, line string) LogEntry {
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		entry = LogEntry{Level: "info", Message: line}
	}
	entry.Category = string(category)
	return entry
}
