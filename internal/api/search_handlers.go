package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flixlens/flixlens/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search titles",
		Description: "Full-text search over title, description, cast and director within the filtered view",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the catalog.
type SearchInput struct {
	FilterParams
	Query  string `query:"q" maxLength:"200" doc:"Search query. Empty browses the filtered view."`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset int    `query:"offset" minimum:"0" doc:"Pagination offset"`
	SortBy string `query:"sort" enum:"relevance,release_year,row" default:"relevance" doc:"Sort field"`
	Desc   bool   `query:"desc" doc:"Sort descending"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body *service.SearchResult
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	s.logger.Debug("Search request received",
		"query", input.Query,
		"limit", input.Limit,
	)

	result, err := s.services.Search.Search(ctx, service.SearchRequest{
		Query:  input.Query,
		Filter: input.Filter(),
		Limit:  input.Limit,
		Offset: input.Offset,
		SortBy: input.SortBy,
		Desc:   input.Desc,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &SearchOutput{Body: result}, nil
}
