package infrastructure

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// JSONReportParser reads the machine-readable report printed by `you-get --json`
type JSONReportParser struct {
	unknownTitle string
	malformedMsg string
}

// NewJSONReportParser creates a JSON report parser
func NewJSONReportParser(unknownTitle, malformedMsg string) *JSONReportParser {
	return &JSONReportParser{unknownTitle: unknownTitle, malformedMsg: malformedMsg}
}

// Format returns ReportFormatJSON
func (p *JSONReportParser) Format() domain.ReportFormat {
	return domain.ReportFormatJSON
}

// ModeFlag returns the flag selecting the JSON report
func (p *JSONReportParser) ModeFlag() string {
	return "--json"
}

// jsonReport is the subset of the report the parser reads
type jsonReport struct {
	Title   any                       `json:"title"`
	Streams map[string]map[string]any `json:"streams"`
}

// Parse extracts title and formats from the JSON document
func (p *JSONReportParser) Parse(output []byte) (*domain.MediaInfo, error) {
	dec := json.NewDecoder(bytes.NewReader(output))
	dec.UseNumber()

	var report jsonReport
	if err := dec.Decode(&report); err != nil {
		return nil, domain.NewError(domain.KindMalformedOutput, p.malformedMsg,
			fmt.Errorf("failed to parse json report: %w", err))
	}

	title := p.unknownTitle
	if t, ok := report.Title.(string); ok {
		title = t
	}

	// map order is random; sort ids so equal sizes come out deterministically
	ids := make([]string, 0, len(report.Streams))
	for id := range report.Streams {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	formats := make([]domain.FormatDescriptor, 0, len(ids))
	for _, id := range ids {
		stream := report.Streams[id]
		formats = append(formats, domain.NewFormatDescriptor(id, streamSize(stream), streamQuality(stream)))
	}

	return domain.NewMediaInfo(title, formats), nil
}

// streamSize is the stream's size, else the sum of its parts, else zero
func streamSize(stream map[string]any) uint64 {
	if v, ok := stream["size"]; ok {
		if n, ok := toUint64(v); ok {
			return n
		}
	}

	files, ok := stream["files"].([]any)
	if !ok {
		return 0
	}
	var total uint64
	for _, f := range files {
		part, ok := f.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := toUint64(part["size"]); ok {
			total += n
		}
	}
	return total
}

// streamQuality is the quality label, else "<height>P", else ""
func streamQuality(stream map[string]any) string {
	if q, ok := stream["quality"].(string); ok {
		return q
	}
	if h, ok := toUint64(stream["height"]); ok {
		return strconv.FormatUint(h, 10) + "P"
	}
	return ""
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return uint64(f), true
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}
