package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/flixlens/flixlens/internal/domain"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query  string        // User's search query; empty matches every title in the filter
	Filter domain.Filter // Normalized filter applied inside the query

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy string // "relevance", "release_year", "row"
	Desc   bool

	// Options
	IncludeFacets bool // Include facet counts in results
	Highlight     bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		SortBy:        "relevance",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID          string            `json:"id"`
	Row         int               `json:"row"`
	ShowID      string            `json:"show_id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	ReleaseYear int               `json:"release_year"`
	Score       float64           `json:"score"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Types   []FacetCount `json:"types,omitempty"`
	Ratings []FacetCount `json:"ratings,omitempty"`
	Genres  []FacetCount `json:"genres,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// facetFields are the keyword fields facets are computed on.
var facetFields = []string{"type", "rating", "genre_slugs"}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		for _, field := range facetFields {
			searchRequest.AddFacet(field, bleve.NewFacetRequest(field, 20))
		}
	}

	if params.Highlight && strings.TrimSpace(params.Query) != "" {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("cast")
		searchRequest.Highlight.AddField("director")
	}

	searchRequest.Fields = []string{"row", "show_id", "type", "title", "release_year"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if r, ok := hit.Fields["row"].(float64); ok {
			searchHit.Row = int(r)
		}
		if id, ok := hit.Fields["show_id"].(string); ok {
			searchHit.ShowID = id
		}
		if t, ok := hit.Fields["type"].(string); ok {
			searchHit.Type = t
		}
		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if y, ok := hit.Fields["release_year"].(float64); ok {
			searchHit.ReleaseYear = int(y)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params. The text query
// and every filter dimension are combined with AND; values inside a
// dimension are combined with OR.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		textQueries := []query.Query{}

		titleMatch := bleve.NewMatchQuery(q)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		for _, field := range []string{"cast", "director"} {
			m := bleve.NewMatchQuery(q)
			m.SetField(field)
			m.SetBoost(1.5)
			textQueries = append(textQueries, m)
		}

		descMatch := bleve.NewMatchQuery(q)
		descMatch.SetField("description")
		textQueries = append(textQueries, descMatch)

		// Typo tolerance on single-word queries.
		if !strings.Contains(q, " ") {
			fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(q))
			fuzzyQuery.SetFuzziness(1)
			fuzzyQuery.SetField("title")
			fuzzyQuery.SetBoost(0.8)
			textQueries = append(textQueries, fuzzyQuery)
		}

		// Prefix query for autocomplete (minimum 2 chars)
		if len(q) >= 2 && !strings.Contains(q, " ") {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	f := params.Filter
	types := make([]string, len(f.Types))
	for i, ct := range f.Types {
		types[i] = string(ct)
	}
	if q := anyTerm("type", types); q != nil {
		queries = append(queries, q)
	}
	if q := anyTerm("rating", f.Ratings); q != nil {
		queries = append(queries, q)
	}
	if q := anyTerm("genre_slugs", f.Genres); q != nil {
		queries = append(queries, q)
	}
	if q := anyTerm("country_slugs", f.Countries); q != nil {
		queries = append(queries, q)
	}

	if f.YearFrom > 0 || f.YearTo > 0 {
		lo := float64(f.YearFrom)
		hi := float64(f.YearTo)
		if f.YearTo == 0 {
			hi = 3000 // Far future
		}
		inclusive := true
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(&lo, &hi, &inclusive, &inclusive)
		rangeQuery.SetField("release_year")
		queries = append(queries, rangeQuery)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// anyTerm matches documents whose keyword field holds any of values.
func anyTerm(field string, values []string) query.Query {
	if len(values) == 0 {
		return nil
	}
	terms := make([]query.Query, len(values))
	for i, v := range values {
		tq := bleve.NewTermQuery(v)
		tq.SetField(field)
		terms[i] = tq
	}
	return bleve.NewDisjunctionQuery(terms...)
}

// addSorting configures sort order. Row number breaks ties.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "release_year", "year":
		if params.Desc {
			req.SortBy([]string{"-release_year", "row"})
		} else {
			req.SortBy([]string{"release_year", "row"})
		}
	case "row":
		if params.Desc {
			req.SortBy([]string{"-row"})
		} else {
			req.SortBy([]string{"row"})
		}
	default:
		req.SortBy([]string{"-_score", "row"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	terms := func(name string) []FacetCount {
		facet, ok := result.Facets[name]
		if !ok || facet.Terms == nil {
			return nil
		}
		var out []FacetCount
		for _, term := range facet.Terms.Terms() {
			out = append(out, FacetCount{Value: term.Term, Count: term.Count})
		}
		return out
	}

	facets.Types = terms("type")
	facets.Ratings = terms("rating")
	facets.Genres = terms("genre_slugs")
	return facets
}
