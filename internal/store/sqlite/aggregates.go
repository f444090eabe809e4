package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/flixlens/flixlens/internal/domain"
	"github.com/flixlens/flixlens/internal/store"
)

// CountTitles returns the size of the filtered view.
func (s *Store) CountTitles(ctx context.Context, f domain.Filter) (int, error) {
	where, args := buildWhere(f)
	n, err := s.getInt(ctx, `SELECT COUNT(*) FROM titles t`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("count titles: %w", err)
	}
	return n, nil
}

// CountByType counts the view per content type, in type order.
func (s *Store) CountByType(ctx context.Context, f domain.Filter) ([]store.Count, error) {
	where, args := buildWhere(f)
	counts, err := s.selectCounts(ctx, `
		SELECT t.type AS name, COUNT(*) AS count
		FROM titles t`+where+`
		GROUP BY t.type
		ORDER BY t.type`, args...)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	return counts, nil
}

// CountByRating counts rated titles per rating, most common first.
func (s *Store) CountByRating(ctx context.Context, f domain.Filter) ([]store.Count, error) {
	where, args := buildWhere(f, "t.rating <> ''")
	counts, err := s.selectCounts(ctx, `
		SELECT t.rating AS name, COUNT(*) AS count
		FROM titles t`+where+`
		GROUP BY t.rating
		ORDER BY count DESC, name ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("count by rating: %w", err)
	}
	return counts, nil
}

// CountByReleaseYear counts titles per release year from minYear on.
func (s *Store) CountByReleaseYear(ctx context.Context, f domain.Filter, minYear int) ([]store.YearCount, error) {
	where, args := buildWhere(f, "t.release_year >= ?")
	args = append([]any{minYear}, args...)
	counts, err := s.selectYearCounts(ctx, `
		SELECT t.release_year AS year, '' AS type, COUNT(*) AS count
		FROM titles t`+where+`
		GROUP BY t.release_year
		ORDER BY t.release_year`, args...)
	if err != nil {
		return nil, fmt.Errorf("count by release year: %w", err)
	}
	return counts, nil
}

// CountAddedByYear counts titles per year added and content type. Titles
// with an unknown date are left out.
func (s *Store) CountAddedByYear(ctx context.Context, f domain.Filter) ([]store.YearCount, error) {
	where, args := buildWhere(f, "t.year_added IS NOT NULL")
	counts, err := s.selectYearCounts(ctx, `
		SELECT t.year_added AS year, t.type AS type, COUNT(*) AS count
		FROM titles t`+where+`
		GROUP BY t.year_added, t.type
		ORDER BY t.year_added, t.type`, args...)
	if err != nil {
		return nil, fmt.Errorf("count added by year: %w", err)
	}
	return counts, nil
}

// DistinctCountries counts the distinct countries listed by titles in the view.
func (s *Store) DistinctCountries(ctx context.Context, f domain.Filter) (int, error) {
	where, args := buildWhere(f)
	n, err := s.getInt(ctx, `
		SELECT COUNT(DISTINCT c.name)
		FROM title_countries c
		JOIN titles t ON t.row_num = c.row_num`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("distinct countries: %w", err)
	}
	return n, nil
}

// DistinctGenres counts the distinct genres listed by titles in the view.
func (s *Store) DistinctGenres(ctx context.Context, f domain.Filter) (int, error) {
	where, args := buildWhere(f)
	n, err := s.getInt(ctx, `
		SELECT COUNT(DISTINCT g.name)
		FROM title_genres g
		JOIN titles t ON t.row_num = g.row_num`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("distinct genres: %w", err)
	}
	return n, nil
}

// TopCountries ranks primary countries (the first listed) by title count.
func (s *Store) TopCountries(ctx context.Context, f domain.Filter, limit int) ([]store.Count, error) {
	where, args := buildWhere(f)
	args = append(args, limit)
	counts, err := s.selectCounts(ctx, `
		SELECT c.name AS name, COUNT(*) AS count
		FROM title_countries c
		JOIN titles t ON t.row_num = c.row_num AND c.position = 0`+where+`
		GROUP BY c.name
		ORDER BY count DESC, name ASC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("top countries: %w", err)
	}
	return counts, nil
}

// TopGenres ranks genres by the number of titles listing them.
func (s *Store) TopGenres(ctx context.Context, f domain.Filter, limit int) ([]store.Count, error) {
	where, args := buildWhere(f)
	args = append(args, limit)
	counts, err := s.selectCounts(ctx, `
		SELECT g.name AS name, COUNT(*) AS count
		FROM title_genres g
		JOIN titles t ON t.row_num = g.row_num`+where+`
		GROUP BY g.name
		ORDER BY count DESC, name ASC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("top genres: %w", err)
	}
	return counts, nil
}

// TopPeople ranks directors or cast members by credit count.
func (s *Store) TopPeople(ctx context.Context, f domain.Filter, role string, limit int) ([]store.Count, error) {
	where, args := buildWhere(f, "p.role = ?")
	args = append([]any{role}, args...)
	args = append(args, limit)
	counts, err := s.selectCounts(ctx, `
		SELECT p.name AS name, COUNT(*) AS count
		FROM title_people p
		JOIN titles t ON t.row_num = p.row_num`+where+`
		GROUP BY p.name
		ORDER BY count DESC, name ASC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("top %s: %w", role, err)
	}
	return counts, nil
}

// MovieDurations returns the runtimes in minutes of the movies in the view, ascending.
func (s *Store) MovieDurations(ctx context.Context, f domain.Filter) ([]int, error) {
	where, args := buildWhere(f, "t.duration_minutes IS NOT NULL")
	values, err := s.selectInts(ctx, `
		SELECT t.duration_minutes FROM titles t`+where+`
		ORDER BY t.duration_minutes`, args...)
	if err != nil {
		return nil, fmt.Errorf("movie durations: %w", err)
	}
	return values, nil
}

// ShowSeasons returns the season counts of the shows in the view, ascending.
func (s *Store) ShowSeasons(ctx context.Context, f domain.Filter) ([]int, error) {
	where, args := buildWhere(f, "t.seasons IS NOT NULL")
	values, err := s.selectInts(ctx, `
		SELECT t.seasons FROM titles t`+where+`
		ORDER BY t.seasons`, args...)
	if err != nil {
		return nil, fmt.Errorf("show seasons: %w", err)
	}
	return values, nil
}

// FilterOptions lists the values a filter can select.
func (s *Store) FilterOptions(ctx context.Context) (*store.FilterOptions, error) {
	opts := &store.FilterOptions{}

	var types []string
	if err := s.db.SelectContext(ctx, &types, `SELECT DISTINCT type FROM titles ORDER BY type`); err != nil {
		return nil, fmt.Errorf("type options: %w", err)
	}
	opts.Types = make([]domain.ContentType, len(types))
	for i, ct := range types {
		opts.Types[i] = domain.ContentType(ct)
	}

	opts.Ratings = []string{}
	if err := s.db.SelectContext(ctx, &opts.Ratings,
		`SELECT DISTINCT rating FROM titles WHERE rating <> '' ORDER BY rating`); err != nil {
		return nil, fmt.Errorf("rating options: %w", err)
	}

	opts.Genres = []store.Option{}
	if err := s.db.SelectContext(ctx, &opts.Genres, `
		SELECT slug AS value, MIN(name) AS label, COUNT(DISTINCT row_num) AS count
		FROM title_genres GROUP BY slug ORDER BY label, value`); err != nil {
		return nil, fmt.Errorf("genre options: %w", err)
	}

	opts.Countries = []store.Option{}
	if err := s.db.SelectContext(ctx, &opts.Countries, `
		SELECT slug AS value, MIN(name) AS label, COUNT(DISTINCT row_num) AS count
		FROM title_countries GROUP BY slug ORDER BY label, value`); err != nil {
		return nil, fmt.Errorf("country options: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MIN(release_year), 0), COALESCE(MAX(release_year), 0) FROM titles`,
	).Scan(&opts.MinYear, &opts.MaxYear); err != nil {
		return nil, fmt.Errorf("year options: %w", err)
	}

	return opts, nil
}

func (s *Store) getInt(ctx context.Context, query string, args ...any) (int, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(query), args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) selectInts(ctx context.Context, query string, args ...any) ([]int, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	values := []int{}
	if err := s.db.SelectContext(ctx, &values, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Store) selectCounts(ctx context.Context, query string, args ...any) ([]store.Count, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	counts := []store.Count{}
	if err := s.db.SelectContext(ctx, &counts, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *Store) selectYearCounts(ctx context.Context, query string, args ...any) ([]store.YearCount, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	counts := []store.YearCount{}
	if err := s.db.SelectContext(ctx, &counts, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return counts, nil
}
