package service

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/flixlens/flixlens/internal/domain"
	"github.com/flixlens/flixlens/internal/export"
	"github.com/flixlens/flixlens/internal/id"
	"github.com/flixlens/flixlens/internal/telemetry"
)

// ExportResult is a rendered download.
type ExportResult struct {
	ID          string
	Format      export.Format
	Filename    string
	ContentType string
	Rows        int
	Body        []byte
}

// ExportService renders the filtered view as a file.
type ExportService struct {
	catalog *CatalogService
	filters *FilterParser
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewExportService creates an export service.
func NewExportService(catalog *CatalogService, filters *FilterParser, metrics *telemetry.Metrics, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExportService{
		catalog: catalog,
		filters: filters,
		metrics: metrics,
		logger:  logger,
	}
}

// Export renders exactly the rows of the filtered view, in file order.
func (s *ExportService) Export(ctx context.Context, f domain.Filter, format string) (*ExportResult, error) {
	ft, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	f, err = s.filters.Parse(f)
	if err != nil {
		return nil, err
	}

	var (
		buf  bytes.Buffer
		rows int
	)
	err = s.catalog.Read(func(v View) error {
		titles, err := v.Store.AllTitles(ctx, f)
		if err != nil {
			return err
		}
		rows = len(titles)
		return export.Write(&buf, ft, titles)
	})
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		ID:          id.MustGenerate(id.PrefixExport),
		Format:      ft,
		Filename:    ft.Filename(),
		ContentType: ft.ContentType(),
		Rows:        rows,
		Body:        buf.Bytes(),
	}

	s.metrics.ObserveExport(string(ft), rows)
	s.logger.Info("export rendered",
		"export", result.ID,
		"format", ft,
		"rows", rows,
		"bytes", len(result.Body),
	)
	return result, nil
}
