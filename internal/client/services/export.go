package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/exports"
)

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportJSON, ExportCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use json or csv)", s)
	}
}

// ExportAPI is the part of client.API the export service needs.
type ExportAPI interface {
	ExportReports(ctx context.Context, format string, reportIDs []int64) (*client.Blob, error)
}

type ExportService interface {
	// Export fetches the given reports in format and writes them to sink.
	// It returns where the file ended up.
	Export(ctx context.Context, format ExportFormat, ids []int64, sink exports.Sink) (string, error)
}

type exportService struct {
	api ExportAPI
}

func NewExportService(api ExportAPI) ExportService {
	return &exportService{api: api}
}

func (s *exportService) Export(ctx context.Context, format ExportFormat, ids []int64, sink exports.Sink) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("no report ids given")
	}

	blob, err := s.api.ExportReports(ctx, string(format), ids)
	if err != nil {
		return "", fmt.Errorf("export error: %w", err)
	}

	location, err := sink.Write(ctx, string(format), blob)
	if err != nil {
		return "", fmt.Errorf("export saving error: %w", err)
	}
	return location, nil
}
