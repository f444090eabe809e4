// Package search provides full-text search over catalog titles using Bleve.
// Filter dimensions are applied inside the index query so hits always
// belong to the filtered view.
package search

import (
	"strconv"

	"github.com/flixlens/flixlens/internal/domain"
	"github.com/flixlens/flixlens/internal/normalize"
)

// TitleDocument is the indexed form of a title.
//
// Free-text fields are analyzed for search; type, rating and the slug lists
// are keywords so they can be filtered and faceted exactly.
type TitleDocument struct {
	ID           string   `json:"id"` // row number as text
	Row          int      `json:"row"`
	ShowID       string   `json:"show_id"`
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Cast         string   `json:"cast,omitempty"`
	Director     string   `json:"director,omitempty"`
	Country      string   `json:"country,omitempty"`
	Genres       string   `json:"genres,omitempty"`
	Rating       string   `json:"rating,omitempty"`
	GenreSlugs   []string `json:"genre_slugs,omitempty"`
	CountrySlugs []string `json:"country_slugs,omitempty"`
	ReleaseYear  int      `json:"release_year"`
}

// NewTitleDocument builds the document for a title.
func NewTitleDocument(t *domain.Title) *TitleDocument {
	doc := &TitleDocument{
		ID:          DocID(t.Row),
		Row:         t.Row,
		ShowID:      t.ShowID,
		Type:        string(t.Type),
		Title:       t.Title,
		Description: t.Description,
		Cast:        t.Cast,
		Director:    t.Director,
		Country:     t.Country,
		Genres:      t.ListedIn,
		Rating:      t.Rating,
		ReleaseYear: t.ReleaseYear,
	}
	for _, g := range t.Genres() {
		doc.GenreSlugs = append(doc.GenreSlugs, normalize.Slug(g))
	}
	for _, c := range t.Countries() {
		doc.CountrySlugs = append(doc.CountrySlugs, normalize.Slug(c))
	}
	return doc
}

// DocID returns the document ID for a catalog row.
func DocID(row int) string {
	return strconv.Itoa(row)
}

// ToMap converts the document to a map with the field names of the index
// mapping. Empty optional fields are left out.
func (d *TitleDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":           d.ID,
		"row":          d.Row,
		"show_id":      d.ShowID,
		"type":         d.Type,
		"title":        d.Title,
		"release_year": d.ReleaseYear,
	}
	optional := map[string]string{
		"description": d.Description,
		"cast":        d.Cast,
		"director":    d.Director,
		"country":     d.Country,
		"genres":      d.Genres,
		"rating":      d.Rating,
	}
	for k, v := range optional {
		if v != "" {
			m[k] = v
		}
	}
	if len(d.GenreSlugs) > 0 {
		m["genre_slugs"] = d.GenreSlugs
	}
	if len(d.CountrySlugs) > 0 {
		m["country_slugs"] = d.CountrySlugs
	}
	return m
}
