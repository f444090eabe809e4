// Package store defines the query interface over the loaded catalog.
package store

import (
	"context"

	"github.com/flixlens/flixlens/internal/domain"
)

// Store defines every query the dashboard runs. Each filtered query applies
// the filter as a single conjunctive predicate.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Dataset
	Replace(ctx context.Context, titles []domain.Title) error
	FilterOptions(ctx context.Context) (*FilterOptions, error)

	// Counts
	CountTitles(ctx context.Context, f domain.Filter) (int, error)
	CountByType(ctx context.Context, f domain.Filter) ([]Count, error)
	CountByRating(ctx context.Context, f domain.Filter) ([]Count, error)
	CountByReleaseYear(ctx context.Context, f domain.Filter, minYear int) ([]YearCount, error)
	CountAddedByYear(ctx context.Context, f domain.Filter) ([]YearCount, error)
	DistinctCountries(ctx context.Context, f domain.Filter) (int, error)
	DistinctGenres(ctx context.Context, f domain.Filter) (int, error)

	// Rankings
	TopCountries(ctx context.Context, f domain.Filter, limit int) ([]Count, error)
	TopGenres(ctx context.Context, f domain.Filter, limit int) ([]Count, error)
	TopPeople(ctx context.Context, f domain.Filter, role string, limit int) ([]Count, error)

	// Distributions
	MovieDurations(ctx context.Context, f domain.Filter) ([]int, error)
	ShowSeasons(ctx context.Context, f domain.Filter) ([]int, error)

	// Rows
	ListTitles(ctx context.Context, f domain.Filter, page domain.Page) (*PaginatedResult[domain.Title], error)
	AllTitles(ctx context.Context, f domain.Filter) ([]domain.Title, error)
	TitlesByRows(ctx context.Context, rows []int) ([]domain.Title, error)
}
