package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixlens/flixlens/internal/domain"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlite"), nil), mock
}

func TestReplace_RollsBackOnInsertFailure(t *testing.T) {
	s, mock := newMockStore(t)
	titles := fixtureTitles(t)[:1]

	mock.ExpectBegin()
	for _, table := range []string{"title_people", "title_genres", "title_countries", "titles"} {
		mock.ExpectExec("DELETE FROM " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectPrepare("INSERT INTO titles")
	mock.ExpectPrepare("INSERT INTO title_countries")
	mock.ExpectPrepare("INSERT INTO title_genres")
	mock.ExpectPrepare("INSERT INTO title_people")
	mock.ExpectExec("INSERT INTO titles").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := s.Replace(context.Background(), titles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert title s1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplace_BeginFailure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err := s.Replace(context.Background(), nil)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueries_PropagateErrors(t *testing.T) {
	ctx := context.Background()
	f := domain.Filter{Types: []domain.ContentType{domain.TypeMovie}, Ratings: []string{"PG-13", "R"}}

	tests := []struct {
		name    string
		pattern string
		call    func(s *Store) error
	}{
		{"count", "SELECT COUNT\\(\\*\\) FROM titles t WHERE t.type IN \\(\\?\\) AND t.rating IN \\(\\?, \\?\\)", func(s *Store) error {
			_, err := s.CountTitles(ctx, f)
			return err
		}},
		{"ratings", "GROUP BY t.rating", func(s *Store) error {
			_, err := s.CountByRating(ctx, f)
			return err
		}},
		{"top people", "FROM title_people p", func(s *Store) error {
			_, err := s.TopPeople(ctx, f, domain.RoleCast, 10)
			return err
		}},
		{"durations", "SELECT t.duration_minutes", func(s *Store) error {
			_, err := s.MovieDurations(ctx, f)
			return err
		}},
		{"all titles", "ORDER BY t.row_num", func(s *Store) error {
			_, err := s.AllTitles(ctx, f)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			mock.ExpectQuery(tt.pattern).WillReturnError(sql.ErrConnDone)

			err := tt.call(s)
			assert.ErrorIs(t, err, sql.ErrConnDone)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCountTitles_ExpandsFilterArguments(t *testing.T) {
	s, mock := newMockStore(t)
	f := domain.Filter{
		Types:     []domain.ContentType{domain.TypeMovie},
		YearFrom:  2010,
		YearTo:    2020,
		Ratings:   []string{"PG-13"},
		Genres:    []string{"comedies", "dramas"},
		Countries: []string{"united-states"},
	}

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("Movie", 2010, 2020, "PG-13", "comedies", "dramas", "united-states").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := s.CountTitles(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
