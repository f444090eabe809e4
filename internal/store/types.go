package store

import "github.com/flixlens/flixlens/internal/domain"

// Count is one bucket of a grouped count.
type Count struct {
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}

// YearCount is one bucket of a count grouped by year. Type is empty unless
// the query also groups by content type.
type YearCount struct {
	Year  int                `db:"year" json:"year"`
	Type  domain.ContentType `db:"type" json:"type,omitempty"`
	Count int                `db:"count" json:"count"`
}

// Option is a selectable filter value.
type Option struct {
	Value string `db:"value" json:"value"` // slug, or the value itself for ratings
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

// FilterOptions lists the values present in the loaded catalog.
type FilterOptions struct {
	Types     []domain.ContentType `json:"types"`
	Ratings   []string             `json:"ratings"`
	Genres    []Option             `json:"genres"`
	Countries []Option             `json:"countries"`
	MinYear   int                  `json:"min_year"`
	MaxYear   int                  `json:"max_year"`
}

// Pagination limits.
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// NormalizePage fills in defaults and clamps the page window.
func NormalizePage(p domain.Page) domain.Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	switch p.Sort {
	case domain.SortRow, domain.SortTitle, domain.SortReleaseYear, domain.SortDateAdded:
	default:
		p.Sort = domain.SortRow
	}
	return p
}

// PaginatedResult contains a page of items and the size of the whole view.
type PaginatedResult[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}
