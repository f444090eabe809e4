package api

import (
	"github.com/flixlens/flixlens/internal/domain"
)

// FilterParams are the filter query parameters shared by every view.
// List values are comma separated.
type FilterParams struct {
	Type     []string `query:"type" doc:"Content types: Movie, TV Show" example:"Movie"`
	YearFrom int      `query:"year_from" doc:"First release year, inclusive (0 = no bound)"`
	YearTo   int      `query:"year_to" doc:"Last release year, inclusive (0 = no bound)"`
	Rating   []string `query:"rating" doc:"Ratings, e.g. TV-MA,PG-13"`
	Genre    []string `query:"genre" doc:"Genre names or slugs"`
	Country  []string `query:"country" doc:"Country names or slugs"`
}

// Filter converts the parameters into a domain filter. Normalization and
// validation happen in the services.
func (p FilterParams) Filter() domain.Filter {
	f := domain.Filter{
		YearFrom:  p.YearFrom,
		YearTo:    p.YearTo,
		Ratings:   p.Rating,
		Genres:    p.Genre,
		Countries: p.Country,
	}
	for _, t := range p.Type {
		f.Types = append(f.Types, domain.ContentType(t))
	}
	return f
}
