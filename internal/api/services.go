package api

import (
	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/sse"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Catalog   *service.CatalogService
	Dashboard *service.DashboardService
	Export    *service.ExportService
	Search    *service.SearchService
	Events    *sse.Manager // optional; nil disables /api/v1/events
}
