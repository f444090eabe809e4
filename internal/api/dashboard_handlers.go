package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flixlens/flixlens/internal/chart"
	"github.com/flixlens/flixlens/internal/domain"
	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/store"
)

func (s *Server) registerDashboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard",
		Summary:     "Get dashboard",
		Description: "Returns metrics, every chart, duration and season stats and the explorer preview for a filter",
		Tags:        []string{"Dashboard"},
	}, s.handleGetDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMetricsSummary",
		Method:      http.MethodGet,
		Path:        "/api/v1/metrics/summary",
		Summary:     "Get key metrics",
		Description: "Returns the headline numbers of the filtered view",
		Tags:        []string{"Dashboard"},
	}, s.handleGetMetricsSummary)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChart",
		Method:      http.MethodGet,
		Path:        "/api/v1/charts/{id}",
		Summary:     "Get chart",
		Description: "Returns one chart of the filtered view",
		Tags:        []string{"Dashboard"},
	}, s.handleGetChart)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDurationStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/durations",
		Summary:     "Get movie duration stats",
		Tags:        []string{"Dashboard"},
	}, s.handleGetDurationStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSeasonStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/seasons",
		Summary:     "Get TV show season stats",
		Tags:        []string{"Dashboard"},
	}, s.handleGetSeasonStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTitles",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles",
		Summary:     "List titles",
		Description: "Returns a page of the filtered view for the data explorer",
		Tags:        []string{"Dashboard"},
	}, s.handleListTitles)
}

// === DTOs ===

// FilterInput carries only the shared filter parameters.
type FilterInput struct {
	FilterParams
}

// ChartInput selects one chart.
type ChartInput struct {
	FilterParams
	ID string `path:"id" doc:"Chart ID, e.g. content-types, top-genres"`
}

// TitlesInput contains explorer paging parameters.
type TitlesInput struct {
	FilterParams
	Page     int    `query:"page" minimum:"1" maximum:"1000000" default:"1" doc:"1-based page number"`
	PageSize int    `query:"page_size" minimum:"1" maximum:"1000" default:"100" doc:"Rows per page"`
	Sort     string `query:"sort" enum:"row,title,release_year,date_added" default:"row" doc:"Sort field"`
	Desc     bool   `query:"desc" doc:"Sort descending"`
}

// DashboardOutput wraps a full dashboard for Huma.
type DashboardOutput struct {
	Body *service.Dashboard
}

// MetricsOutput wraps key metrics for Huma.
type MetricsOutput struct {
	Body *service.Metrics
}

// ChartOutput wraps a chart for Huma.
type ChartOutput struct {
	Body *chart.Config
}

// DurationStatsOutput wraps movie duration stats for Huma.
type DurationStatsOutput struct {
	Body *service.DurationStats
}

// SeasonStatsOutput wraps season stats for Huma.
type SeasonStatsOutput struct {
	Body *service.SeasonStats
}

// TitlesOutput wraps an explorer page for Huma.
type TitlesOutput struct {
	Body *store.PaginatedResult[domain.Title]
}

// === Handlers ===

func (s *Server) handleGetDashboard(ctx context.Context, input *FilterInput) (*DashboardOutput, error) {
	d, err := s.services.Dashboard.Dashboard(ctx, input.Filter())
	if err != nil {
		return nil, mapError(err)
	}
	return &DashboardOutput{Body: d}, nil
}

func (s *Server) handleGetMetricsSummary(ctx context.Context, input *FilterInput) (*MetricsOutput, error) {
	m, err := s.services.Dashboard.Metrics(ctx, input.Filter())
	if err != nil {
		return nil, mapError(err)
	}
	return &MetricsOutput{Body: m}, nil
}

func (s *Server) handleGetChart(ctx context.Context, input *ChartInput) (*ChartOutput, error) {
	c, err := s.services.Dashboard.Chart(ctx, input.ID, input.Filter())
	if err != nil {
		return nil, mapError(err)
	}
	return &ChartOutput{Body: c}, nil
}

func (s *Server) handleGetDurationStats(ctx context.Context, input *FilterInput) (*DurationStatsOutput, error) {
	stats, err := s.services.Dashboard.Durations(ctx, input.Filter())
	if err != nil {
		return nil, mapError(err)
	}
	return &DurationStatsOutput{Body: stats}, nil
}

func (s *Server) handleGetSeasonStats(ctx context.Context, input *FilterInput) (*SeasonStatsOutput, error) {
	stats, err := s.services.Dashboard.Seasons(ctx, input.Filter())
	if err != nil {
		return nil, mapError(err)
	}
	return &SeasonStatsOutput{Body: stats}, nil
}

func (s *Server) handleListTitles(ctx context.Context, input *TitlesInput) (*TitlesOutput, error) {
	page := domain.Page{
		Limit:  input.PageSize,
		Offset: (max(input.Page, 1) - 1) * input.PageSize,
		Sort:   domain.SortField(input.Sort),
		Desc:   input.Desc,
	}

	result, err := s.services.Dashboard.Titles(ctx, input.Filter(), page)
	if err != nil {
		return nil, mapError(err)
	}
	return &TitlesOutput{Body: result}, nil
}
