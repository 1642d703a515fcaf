package domain

import (
	"fmt"
	"sort"
)

// ReportFormat selects which descriptive report the external tool is asked for
type ReportFormat string

const (
	ReportFormatText ReportFormat = "text" // human-readable --info report
	ReportFormatJSON ReportFormat = "json" // machine-readable --json report
)

// ProgressEventName is the event name under which progress lines are pushed to listeners
const ProgressEventName = "download-progress"

// FormatDescriptor is one selectable stream variant reported by the tool
type FormatDescriptor struct {
	Name      string  `json:"name"`
	SizeBytes uint64  `json:"size"`
	Quality   *string `json:"quality"`
}

// NewFormatDescriptor creates a format descriptor; an empty quality means absent
func NewFormatDescriptor(name string, sizeBytes uint64, quality string) FormatDescriptor {
	f := FormatDescriptor{Name: name, SizeBytes: sizeBytes}
	if quality != "" {
		f.Quality = &quality
	}
	return f
}

// QualityLabel returns the quality label or an empty string when absent
func (f FormatDescriptor) QualityLabel() string {
	if f.Quality == nil {
		return ""
	}
	return *f.Quality
}

// MediaInfo is the normalized metadata of a URL.
// Formats are ordered by descending size.
type MediaInfo struct {
	Title   string             `json:"title"`
	Formats []FormatDescriptor `json:"formats"`
}

// NewMediaInfo builds a MediaInfo, sorting formats by descending size.
// Formats of equal size keep their relative order.
func NewMediaInfo(title string, formats []FormatDescriptor) *MediaInfo {
	sorted := make([]FormatDescriptor, len(formats))
	copy(sorted, formats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SizeBytes > sorted[j].SizeBytes
	})
	return &MediaInfo{Title: title, Formats: sorted}
}

// ProgressEvent is a transient notification derived from a line of tool output
type ProgressEvent struct {
	Message string `json:"message"`
}

// ReportParser converts the tool's descriptive output into MediaInfo
type ReportParser interface {
	// Format returns the report variant this parser reads
	Format() ReportFormat

	// ModeFlag returns the command-line flag that makes the tool emit this report
	ModeFlag() string

	// Parse extracts title and formats from the tool's stdout
	Parse(output []byte) (*MediaInfo, error)
}

// EventEmitter receives events pushed by the core (the UI-facing listener)
type EventEmitter interface {
	Emit(event string, payload any) error
}

// EmitterFunc adapts a function to EventEmitter
type EmitterFunc func(event string, payload any) error

// Emit calls f
func (f EmitterFunc) Emit(event string, payload any) error {
	return f(event, payload)
}

// ValidateReportFormat checks if a report format is known
func ValidateReportFormat(format ReportFormat) error {
	switch format {
	case ReportFormatText, ReportFormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown report format: %q", format)
	}
}
