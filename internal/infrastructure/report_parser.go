package infrastructure

import (
	"fmt"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// NewReportParser returns the parser for the configured report format
func NewReportParser(format domain.ReportFormat, messages domain.Messages) (domain.ReportParser, error) {
	switch format {
	case domain.ReportFormatText, "":
		return NewTextReportParser(messages.UnknownTitle), nil
	case domain.ReportFormatJSON:
		return NewJSONReportParser(messages.UnknownTitle, messages.InfoFailed), nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", format)
	}
}
