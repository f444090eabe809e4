package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/store"
)

func (s *Server) registerDatasetRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDataset",
		Method:      http.MethodGet,
		Path:        "/api/v1/dataset",
		Summary:     "Get dataset",
		Description: "Returns the snapshot of the catalog currently served",
		Tags:        []string{"Dataset"},
	}, s.handleGetDataset)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadDataset",
		Method:      http.MethodPost,
		Path:        "/api/v1/dataset/reload",
		Summary:     "Reload dataset",
		Description: "Reads the catalog file again. A failed reload keeps the previous catalog.",
		Tags:        []string{"Dataset"},
	}, s.handleReloadDataset)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFilterOptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/filters",
		Summary:     "Get filter options",
		Description: "Returns the types, ratings, genres, countries and year range present in the catalog",
		Tags:        []string{"Dataset"},
	}, s.handleGetFilterOptions)
}

// SnapshotOutput wraps a dataset snapshot for Huma.
type SnapshotOutput struct {
	Body *service.Snapshot
}

// FilterOptionsOutput wraps filter options for Huma.
type FilterOptionsOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         *store.FilterOptions
}

func (s *Server) handleGetDataset(_ context.Context, _ *struct{}) (*SnapshotOutput, error) {
	snap, err := s.services.Catalog.Snapshot()
	if err != nil {
		return nil, mapError(err)
	}
	return &SnapshotOutput{Body: snap}, nil
}

func (s *Server) handleReloadDataset(ctx context.Context, _ *struct{}) (*SnapshotOutput, error) {
	snap, err := s.services.Catalog.Reload(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &SnapshotOutput{Body: snap}, nil
}

func (s *Server) handleGetFilterOptions(ctx context.Context, _ *struct{}) (*FilterOptionsOutput, error) {
	opts, err := s.services.Catalog.Options(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &FilterOptionsOutput{CacheControl: CacheShortLived, Body: opts}, nil
}
