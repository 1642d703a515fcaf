package infrastructure

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/you-get-desk/internal/domain"
)

var (
	ansiEscapePattern = regexp.MustCompile(`\x1B\[[0-?]*[ -/]*[@-~]`)
	titlePattern      = regexp.MustCompile(`title:\s*(.+)`)
	formatPattern     = regexp.MustCompile(`- format:\s+(\S+)`)
	qualityPattern    = regexp.MustCompile(`quality:\s+(.+)`)
	sizePattern       = regexp.MustCompile(`size:\s+[\d.]+\s+\w+\s+\((\d+)\s+bytes\)`)
)

// TextReportParser reads the human-readable report printed by `you-get --info`:
//
//	title:               Some video
//	streams:             # Available quality and codecs
//	    - format:        dash-flv720
//	      container:     mp4
//	      quality:       720P
//	      size:          24.2 MiB (25392847 bytes)
type TextReportParser struct {
	unknownTitle string
}

// NewTextReportParser creates a text report parser
func NewTextReportParser(unknownTitle string) *TextReportParser {
	return &TextReportParser{unknownTitle: unknownTitle}
}

// Format returns ReportFormatText
func (p *TextReportParser) Format() domain.ReportFormat {
	return domain.ReportFormatText
}

// ModeFlag returns the flag selecting the text report
func (p *TextReportParser) ModeFlag() string {
	return "--info"
}

// Parse extracts title and formats from the report. It never fails.
func (p *TextReportParser) Parse(output []byte) (*domain.MediaInfo, error) {
	cleaned := StripANSI(string(output))

	title := p.unknownTitle
	if m := titlePattern.FindStringSubmatch(cleaned); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			title = t
		}
	}

	return domain.NewMediaInfo(title, parseTextFormats(cleaned)), nil
}

// StripANSI removes terminal escape sequences
func StripANSI(s string) string {
	return ansiEscapePattern.ReplaceAllString(s, "")
}

// formatBuilder accumulates the fields of one format block
type formatBuilder struct {
	name    string
	size    uint64
	quality string
}

func (b *formatBuilder) build() domain.FormatDescriptor {
	return domain.NewFormatDescriptor(b.name, b.size, b.quality)
}

func parseTextFormats(report string) []domain.FormatDescriptor {
	formats := []domain.FormatDescriptor{}
	var current *formatBuilder

	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m := formatPattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				formats = append(formats, current.build())
			}
			current = &formatBuilder{name: m[1]}
		}
		if current == nil {
			continue
		}

		if m := qualityPattern.FindStringSubmatch(line); m != nil {
			current.quality = strings.TrimSpace(m[1])
		}
		if m := sizePattern.FindStringSubmatch(line); m != nil {
			// only the exact byte count is authoritative
			if n, err := strconv.ParseUint(m[1], 10, 64); err == nil {
				current.size = n
			}
		}
	}

	if current != nil {
		formats = append(formats, current.build())
	}
	return formats
}
