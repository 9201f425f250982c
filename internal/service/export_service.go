package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rotaworks/rota-api/internal/models"
	appErrors "github.com/rotaworks/rota-api/pkg/errors"
	"github.com/rotaworks/rota-api/pkg/export"
)

type exportWorkerLister interface {
	List(ctx context.Context) ([]models.Worker, error)
}

// ExportService renders the full availability roster as CSV or PDF.
type ExportService struct {
	workers exportWorkerLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(workers exportWorkerLister, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{workers: workers, csv: csv, pdf: pdf, logger: logger}
}

// ExportResult carries rendered export bytes and response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Availability renders every worker's availability windows, one row per
// window, in the requested format ("csv" or "pdf").
func (s *ExportService) Availability(ctx context.Context, format string) (*ExportResult, error) {
	workers, err := s.workers.List(ctx)
	if err != nil {
		return nil, err
	}

	data := availabilityDataset(workers)
	stamp := time.Now().Format("2006-01-02")

	switch format {
	case "csv", "":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("availability-%s.csv", stamp),
		}, nil
	case "pdf":
		content, err := s.pdf.Render(data, "Staff Availability")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("availability-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func availabilityDataset(workers []models.Worker) export.Dataset {
	headers := []string{"Worker", "Date", "Start", "End", "Late"}
	rows := make([]map[string]string, 0, len(workers))
	for _, worker := range workers {
		for _, entry := range worker.Availability {
			date := entry.Start
			if t, err := time.Parse(time.RFC3339, entry.Start); err == nil {
				date = t.Format("2006-01-02")
			}
			rows = append(rows, map[string]string{
				"Worker": worker.Name,
				"Date":   date,
				"Start":  entry.Start,
				"End":    entry.End,
				"Late":   strconv.FormatBool(entry.Late),
			})
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
