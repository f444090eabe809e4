package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/flixlens/flixlens/internal/domain"
	domainerrors "github.com/flixlens/flixlens/internal/errors"
	"github.com/flixlens/flixlens/internal/search"
)

// Search limits.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SearchRequest is a full-text query over the filtered view.
type SearchRequest struct {
	Query  string
	Filter domain.Filter
	Limit  int
	Offset int
	SortBy string
	Desc   bool
}

// SearchResult pairs index hits with their titles.
type SearchResult struct {
	Query  string              `json:"query"`
	Total  uint64              `json:"total"`
	TookMs int64               `json:"took_ms"`
	Hits   []SearchHit         `json:"hits"`
	Facets search.SearchFacets `json:"facets"`
}

// SearchHit is one matching title.
type SearchHit struct {
	Title      domain.Title      `json:"title"`
	Score      float64           `json:"score"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchService bridges the search index with the store. The index finds
// rows; the store supplies the titles.
type SearchService struct {
	catalog *CatalogService
	filters *FilterParser
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(catalog *CatalogService, filters *FilterParser, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SearchService{
		catalog: catalog,
		filters: filters,
		logger:  logger,
	}
}

// Search runs a query with the filter applied inside the index.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	f, err := s.filters.Parse(req.Filter)
	if err != nil {
		return nil, err
	}

	params := search.DefaultSearchParams()
	params.Query = strings.TrimSpace(req.Query)
	params.Filter = f
	params.Offset = max(req.Offset, 0)
	params.Desc = req.Desc
	if req.SortBy != "" {
		params.SortBy = req.SortBy
	}
	if req.Limit > 0 {
		params.Limit = min(req.Limit, MaxSearchLimit)
	}

	var result *SearchResult
	err = s.catalog.Read(func(v View) error {
		if v.Index == nil {
			return domainerrors.Unavailable("search index is not available")
		}

		found, err := v.Index.Search(ctx, params)
		if err != nil {
			return err
		}

		rows := make([]int, len(found.Hits))
		for i, h := range found.Hits {
			rows[i] = h.Row
		}
		titles, err := v.Store.TitlesByRows(ctx, rows)
		if err != nil {
			return err
		}
		byRow := make(map[int]domain.Title, len(titles))
		for _, t := range titles {
			byRow[t.Row] = t
		}

		result = &SearchResult{
			Query:  found.Query,
			Total:  found.Total,
			TookMs: found.TookMs,
			Hits:   make([]SearchHit, 0, len(found.Hits)),
			Facets: found.Facets,
		}
		for _, h := range found.Hits {
			t, ok := byRow[h.Row]
			if !ok {
				s.logger.Warn("search hit has no stored title", "row", h.Row)
				continue
			}
			result.Hits = append(result.Hits, SearchHit{Title: t, Score: h.Score, Highlights: h.Highlights})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search executed", "query", params.Query, "total", result.Total)
	return result, nil
}
