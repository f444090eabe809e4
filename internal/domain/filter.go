package domain

import (
	"slices"

	"github.com/flixlens/flixlens/internal/normalize"
)

// Filter narrows the catalog to a view. An empty dimension places no
// constraint; values inside a dimension are alternatives and the dimensions
// are combined with AND.
type Filter struct {
	Types     []ContentType `json:"types,omitempty"`
	YearFrom  int           `json:"year_from,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	YearTo    int           `json:"year_to,omitempty" validate:"omitempty,gte=1900,lte=2100,gtefield=YearFrom"`
	Ratings   []string      `json:"ratings,omitempty" validate:"omitempty,dive,max=20"`
	Genres    []string      `json:"genres,omitempty" validate:"omitempty,dive,max=80"`    // slugs
	Countries []string      `json:"countries,omitempty" validate:"omitempty,dive,max=80"` // slugs
}

// IsZero reports whether the filter selects the whole catalog.
func (f Filter) IsZero() bool {
	return len(f.Types) == 0 && f.YearFrom == 0 && f.YearTo == 0 &&
		len(f.Ratings) == 0 && len(f.Genres) == 0 && len(f.Countries) == 0
}

// Normalize canonicalises every dimension: type aliases resolve to the
// catalog spelling, ratings are upper-cased, genres and countries become
// slugs, and each list is de-duplicated and sorted. Two filters selecting
// the same view normalize to equal values.
func (f Filter) Normalize() (Filter, error) {
	out := Filter{
		YearFrom:  f.YearFrom,
		YearTo:    f.YearTo,
		Ratings:   normalize.Values(f.Ratings, normalize.Rating),
		Genres:    normalize.Values(f.Genres, normalize.Slug),
		Countries: normalize.Values(f.Countries, normalize.Slug),
	}

	for _, raw := range f.Types {
		if normalize.Text(string(raw)) == "" {
			continue
		}
		ct, err := ParseContentType(string(raw))
		if err != nil {
			return Filter{}, err
		}
		if !slices.Contains(out.Types, ct) {
			out.Types = append(out.Types, ct)
		}
	}
	slices.Sort(out.Types)

	return out, nil
}

// Matches evaluates the filter against a single title. The store evaluates
// the same predicate in SQL; this form serves the search index and tests.
func (f Filter) Matches(t *Title) bool {
	if len(f.Types) > 0 && !slices.Contains(f.Types, t.Type) {
		return false
	}
	if f.YearFrom > 0 && t.ReleaseYear < f.YearFrom {
		return false
	}
	if f.YearTo > 0 && t.ReleaseYear > f.YearTo {
		return false
	}
	if len(f.Ratings) > 0 && !slices.Contains(f.Ratings, normalize.Rating(t.Rating)) {
		return false
	}
	if len(f.Genres) > 0 && !anySlugIn(t.Genres(), f.Genres) {
		return false
	}
	if len(f.Countries) > 0 && !anySlugIn(t.Countries(), f.Countries) {
		return false
	}
	return true
}

func anySlugIn(values, slugs []string) bool {
	for _, v := range values {
		if slices.Contains(slugs, normalize.Slug(v)) {
			return true
		}
	}
	return false
}

// SortField orders the data explorer.
type SortField string

// Sort fields accepted by the explorer.
const (
	SortRow         SortField = "row"
	SortTitle       SortField = "title"
	SortReleaseYear SortField = "release_year"
	SortDateAdded   SortField = "date_added"
)

// Page selects a window of the filtered view.
type Page struct {
	Limit  int
	Offset int
	Sort   SortField
	Desc   bool
}
