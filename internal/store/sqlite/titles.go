package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/flixlens/flixlens/internal/domain"
	"github.com/flixlens/flixlens/internal/normalize"
	"github.com/flixlens/flixlens/internal/store"
)

// titleColumns is the ordered list of columns selected in title queries.
const titleColumns = `t.row_num, t.show_id, t.type, t.title, t.director, t.cast_members,
	t.country, t.date_added, t.added_on, t.release_year, t.rating, t.duration,
	t.listed_in, t.description`

// dateLayout is the storage format of added_on.
const dateLayout = "2006-01-02"

// titleRow mirrors titleColumns.
type titleRow struct {
	Row         int            `db:"row_num"`
	ShowID      string         `db:"show_id"`
	Type        string         `db:"type"`
	Title       string         `db:"title"`
	Director    string         `db:"director"`
	Cast        string         `db:"cast_members"`
	Country     string         `db:"country"`
	DateAdded   string         `db:"date_added"`
	AddedOn     sql.NullString `db:"added_on"`
	ReleaseYear int            `db:"release_year"`
	Rating      string         `db:"rating"`
	Duration    string         `db:"duration"`
	ListedIn    string         `db:"listed_in"`
	Description string         `db:"description"`
}

func (r *titleRow) toDomain() (domain.Title, error) {
	t := domain.Title{
		Row:         r.Row,
		ShowID:      r.ShowID,
		Type:        domain.ContentType(r.Type),
		Title:       r.Title,
		Director:    r.Director,
		Cast:        r.Cast,
		Country:     r.Country,
		DateAdded:   r.DateAdded,
		ReleaseYear: r.ReleaseYear,
		Rating:      r.Rating,
		Duration:    r.Duration,
		ListedIn:    r.ListedIn,
		Description: r.Description,
	}
	if r.AddedOn.Valid && r.AddedOn.String != "" {
		d, err := time.Parse(dateLayout, r.AddedOn.String)
		if err != nil {
			return t, fmt.Errorf("parse added_on of row %d: %w", r.Row, err)
		}
		t.AddedOn = &d
	}
	return t, nil
}

func toDomainTitles(rows []titleRow) ([]domain.Title, error) {
	titles := make([]domain.Title, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, nil
}

// Replace swaps the whole catalog in a single transaction. Readers see
// either the old catalog or the new one.
func (s *Store) Replace(ctx context.Context, titles []domain.Title) error {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"title_people", "title_genres", "title_countries", "titles"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	insertTitle, err := tx.PreparexContext(ctx, `
		INSERT INTO titles (row_num, show_id, type, title, director, cast_members, country,
			date_added, added_on, year_added, month_added, release_year, rating, duration,
			duration_minutes, seasons, listed_in, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare title insert: %w", err)
	}
	defer insertTitle.Close()

	insertCountry, err := tx.PreparexContext(ctx,
		`INSERT INTO title_countries (row_num, position, name, slug) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare country insert: %w", err)
	}
	defer insertCountry.Close()

	insertGenre, err := tx.PreparexContext(ctx,
		`INSERT INTO title_genres (row_num, position, name, slug) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare genre insert: %w", err)
	}
	defer insertGenre.Close()

	insertPerson, err := tx.PreparexContext(ctx,
		`INSERT INTO title_people (row_num, role, position, name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare person insert: %w", err)
	}
	defer insertPerson.Close()

	for i := range titles {
		t := &titles[i]
		if _, err := insertTitle.ExecContext(ctx,
			t.Row, t.ShowID, string(t.Type), t.Title, t.Director, t.Cast, t.Country,
			t.DateAdded, nullDate(t.AddedOn), nullInt(t.YearAdded()), nullInt(t.MonthAdded()),
			t.ReleaseYear, t.Rating, t.Duration,
			nullInt(t.DurationMinutes()), nullInt(t.Seasons()), t.ListedIn, t.Description,
		); err != nil {
			return fmt.Errorf("insert title %s: %w", t.ShowID, err)
		}

		for pos, name := range t.Countries() {
			if _, err := insertCountry.ExecContext(ctx, t.Row, pos, name, normalize.Slug(name)); err != nil {
				return fmt.Errorf("insert country of %s: %w", t.ShowID, err)
			}
		}
		for pos, name := range t.Genres() {
			if _, err := insertGenre.ExecContext(ctx, t.Row, pos, name, normalize.Slug(name)); err != nil {
				return fmt.Errorf("insert genre of %s: %w", t.ShowID, err)
			}
		}
		if err := insertPeople(ctx, insertPerson, t.Row, domain.RoleDirector, t.Directors()); err != nil {
			return fmt.Errorf("insert directors of %s: %w", t.ShowID, err)
		}
		if err := insertPeople(ctx, insertPerson, t.Row, domain.RoleCast, t.CastMembers()); err != nil {
			return fmt.Errorf("insert cast of %s: %w", t.ShowID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}

	s.logger.Info("catalog replaced", "titles", len(titles), "duration", time.Since(start))
	return nil
}

func insertPeople(ctx context.Context, stmt *sqlx.Stmt, row int, role string, names []string) error {
	for pos, name := range names {
		if _, err := stmt.ExecContext(ctx, row, role, pos, name); err != nil {
			return err
		}
	}
	return nil
}

// ListTitles returns one page of the filtered view.
func (s *Store) ListTitles(ctx context.Context, f domain.Filter, page domain.Page) (*store.PaginatedResult[domain.Title], error) {
	page = store.NormalizePage(page)

	total, err := s.CountTitles(ctx, f)
	if err != nil {
		return nil, err
	}

	where, args := buildWhere(f)
	query := `SELECT ` + titleColumns + ` FROM titles t` + where + orderBy(page) + ` LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	titles, err := s.selectTitles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	return &store.PaginatedResult[domain.Title]{
		Items:   titles,
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.Offset+len(titles) < total,
	}, nil
}

// AllTitles returns every title in the filtered view in file order.
func (s *Store) AllTitles(ctx context.Context, f domain.Filter) ([]domain.Title, error) {
	where, args := buildWhere(f)
	titles, err := s.selectTitles(ctx, `SELECT `+titleColumns+` FROM titles t`+where+` ORDER BY t.row_num`, args...)
	if err != nil {
		return nil, fmt.Errorf("all titles: %w", err)
	}
	return titles, nil
}

// TitlesByRows returns the titles with the given row numbers, in the order
// requested. Unknown rows are skipped.
func (s *Store) TitlesByRows(ctx context.Context, rows []int) ([]domain.Title, error) {
	if len(rows) == 0 {
		return []domain.Title{}, nil
	}

	found, err := s.selectTitles(ctx, `SELECT `+titleColumns+` FROM titles t WHERE t.row_num IN (?)`, rows)
	if err != nil {
		return nil, fmt.Errorf("titles by rows: %w", err)
	}

	byRow := make(map[int]domain.Title, len(found))
	for _, t := range found {
		byRow[t.Row] = t
	}
	titles := make([]domain.Title, 0, len(found))
	for _, row := range rows {
		if t, ok := byRow[row]; ok {
			titles = append(titles, t)
		}
	}
	return titles, nil
}

func (s *Store) selectTitles(ctx context.Context, query string, args ...any) ([]domain.Title, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}

	var rows []titleRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return toDomainTitles(rows)
}

// orderBy maps a page's sort onto SQL. Row number breaks every tie.
func orderBy(p domain.Page) string {
	dir := " ASC"
	if p.Desc {
		dir = " DESC"
	}
	switch p.Sort {
	case domain.SortTitle:
		return ` ORDER BY t.title COLLATE NOCASE` + dir + `, t.row_num`
	case domain.SortReleaseYear:
		return ` ORDER BY t.release_year` + dir + `, t.row_num`
	case domain.SortDateAdded:
		return ` ORDER BY t.added_on IS NULL, t.added_on` + dir + `, t.row_num`
	default:
		return ` ORDER BY t.row_num` + dir
	}
}

func nullInt(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}
