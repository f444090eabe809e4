package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixlens/flixlens/internal/catalog"
	"github.com/flixlens/flixlens/internal/catalog/catalogtest"
	"github.com/flixlens/flixlens/internal/domain"
	"github.com/flixlens/flixlens/internal/store"
)

func fixtureTitles(t *testing.T) []domain.Title {
	t.Helper()
	ds, err := catalog.Load(strings.NewReader(catalogtest.FixtureCSV))
	require.NoError(t, err)
	return ds.Titles
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Replace(context.Background(), fixtureTitles(t)))
	return s
}

func TestOpen_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	s, err := Open(ctx, Options{Path: path})
	require.NoError(t, err)

	var journalMode string
	require.NoError(t, s.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	for _, table := range []string{"titles", "title_countries", "title_genres", "title_people"} {
		var name string
		err := s.db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}

	require.NoError(t, s.Replace(ctx, fixtureTitles(t)))
	require.NoError(t, s.Close())

	// Re-open keeps the data; the schema is idempotent.
	s2, err := Open(ctx, Options{Path: path})
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.CountTitles(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 13, n)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestReplace_SwapsCatalog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	titles := fixtureTitles(t)[:3]
	require.NoError(t, s.Replace(ctx, titles))

	n, err := s.CountTitles(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	genres, err := s.DistinctGenres(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 6, genres)
}

func TestReplace_RoundTripsTitles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	want := fixtureTitles(t)
	got, err := s.AllTitles(ctx, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].ShowID, got[i].ShowID)
		assert.Equal(t, want[i].Row, got[i].Row)
		assert.Equal(t, want[i].Cast, got[i].Cast)
		assert.Equal(t, want[i].Rating, got[i].Rating)
		assert.Equal(t, want[i].YearAdded(), got[i].YearAdded())
		assert.Equal(t, want[i].MonthAdded(), got[i].MonthAdded())
		assert.Equal(t, catalog.Record(&want[i]), catalog.Record(&got[i]))
	}
}

func TestCounts_Unfiltered(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	all := domain.Filter{}

	total, err := s.CountTitles(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, 13, total)

	byType, err := s.CountByType(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, []store.Count{{Name: "Movie", Count: 8}, {Name: "TV Show", Count: 5}}, byType)

	byRating, err := s.CountByRating(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, []store.Count{{Name: "TV-MA", Count: 6}, {Name: "PG-13", Count: 5}}, byRating)

	countries, err := s.DistinctCountries(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, 9, countries)

	genres, err := s.DistinctGenres(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, 19, genres)
}

func TestRankings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	all := domain.Filter{}

	countries, err := s.TopCountries(ctx, all, 15)
	require.NoError(t, err)
	assert.Equal(t, []store.Count{
		{Name: "United States", Count: 9},
		{Name: "India", Count: 1},
		{Name: "Japan", Count: 1},
		{Name: "South Africa", Count: 1},
	}, countries)

	genres, err := s.TopGenres(ctx, all, 2)
	require.NoError(t, err)
	assert.Equal(t, []store.Count{
		{Name: "International TV Shows", Count: 4},
		{Name: "Comedies", Count: 3},
	}, genres)

	actors, err := s.TopPeople(ctx, all, domain.RoleCast, 2)
	require.NoError(t, err)
	assert.Equal(t, []store.Count{
		{Name: "Adam Sandler", Count: 2},
		{Name: "Aaron Paul", Count: 1},
	}, actors)

	directors, err := s.TopPeople(ctx, all, domain.RoleDirector, 100)
	require.NoError(t, err)
	assert.Len(t, directors, 9)
	for _, d := range directors {
		assert.Equal(t, 1, d.Count)
	}
	assert.Equal(t, "Dennis Dugan", directors[0].Name)
}

func TestYearCounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	added, err := s.CountAddedByYear(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []store.YearCount{
		{Year: 2013, Type: domain.TypeTVShow, Count: 1},
		{Year: 2017, Type: domain.TypeMovie, Count: 1},
		{Year: 2018, Type: domain.TypeMovie, Count: 2},
		{Year: 2021, Type: domain.TypeMovie, Count: 5},
		{Year: 2021, Type: domain.TypeTVShow, Count: 3},
	}, added)

	released, err := s.CountByReleaseYear(ctx, domain.Filter{Types: []domain.ContentType{domain.TypeTVShow}}, 1990)
	require.NoError(t, err)
	assert.Equal(t, []store.YearCount{
		{Year: 2013, Count: 1},
		{Year: 2021, Count: 3},
	}, released)
}

func TestDistributions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	durations, err := s.MovieDurations(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int{73, 74, 90, 97, 103, 104, 106, 125}, durations)

	seasons, err := s.ShowSeasons(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2, 2, 5}, seasons)

	none, err := s.MovieDurations(ctx, domain.Filter{Types: []domain.ContentType{domain.TypeTVShow}})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestFilter_Conjunction(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	titles := fixtureTitles(t)

	filters := []domain.Filter{
		{},
		{Types: []domain.ContentType{domain.TypeMovie}, YearFrom: 2010, YearTo: 2020},
		{Types: []domain.ContentType{domain.TypeMovie}, YearFrom: 2010, YearTo: 2020, Ratings: []string{"PG-13"}},
		{YearFrom: 1950, YearTo: 1960},
		{Ratings: []string{"TV-MA"}},
		{Ratings: []string{"TV-MA", "PG-13"}},
		{Types: []domain.ContentType{domain.TypeTVShow}, Ratings: []string{"PG-13"}},
		{Genres: []string{"comedies", "dramas"}},
		{Countries: []string{"ghana"}},
		{Countries: []string{"united-states"}, Genres: []string{"tv-dramas"}},
		{YearTo: 2000},
	}

	for _, f := range filters {
		var want []int
		for i := range titles {
			if f.Matches(&titles[i]) {
				want = append(want, titles[i].Row)
			}
		}

		n, err := s.CountTitles(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, len(want), n, "count for %+v", f)

		got, err := s.AllTitles(ctx, f)
		require.NoError(t, err)
		var rows []int
		for _, title := range got {
			rows = append(rows, title.Row)
		}
		assert.Equal(t, want, rows, "rows for %+v", f)
	}
}

func TestFilter_KnownViews(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	movies2010s := domain.Filter{Types: []domain.ContentType{domain.TypeMovie}, YearFrom: 2010, YearTo: 2020}
	n, err := s.CountTitles(ctx, movies2010s)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	movies2010s.Ratings = []string{"PG-13"}
	n, err = s.CountTitles(ctx, movies2010s)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	empty := domain.Filter{YearFrom: 1950, YearTo: 1960}
	n, err = s.CountTitles(ctx, empty)
	require.NoError(t, err)
	assert.Zero(t, n)

	ratings, err := s.CountByRating(ctx, empty)
	require.NoError(t, err)
	assert.Empty(t, ratings)

	countries, err := s.DistinctCountries(ctx, domain.Filter{Countries: []string{"ghana"}})
	require.NoError(t, err)
	assert.Equal(t, 6, countries, "a matching title contributes all of its countries")
}

func TestListTitles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	page, err := s.ListTitles(ctx, domain.Filter{}, domain.Page{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 13, page.Total)
	assert.Len(t, page.Items, 3)
	assert.False(t, page.HasMore)
	assert.Equal(t, "s11", page.Items[0].ShowID)

	page, err = s.ListTitles(ctx, domain.Filter{}, domain.Page{Limit: 2, Sort: domain.SortReleaseYear})
	require.NoError(t, err)
	assert.True(t, page.HasMore)
	assert.Equal(t, []string{"s13", "s4"}, []string{page.Items[0].ShowID, page.Items[1].ShowID})

	page, err = s.ListTitles(ctx, domain.Filter{}, domain.Page{Limit: 1, Sort: domain.SortTitle})
	require.NoError(t, err)
	assert.Equal(t, "Adam Sandler: 100% Fresh", page.Items[0].Title)

	page, err = s.ListTitles(ctx, domain.Filter{}, domain.Page{Limit: 13, Sort: domain.SortDateAdded, Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "s1", page.Items[0].ShowID)
	assert.Equal(t, "s13", page.Items[12].ShowID, "unknown dates sort last")
}

func TestTitlesByRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.TitlesByRows(ctx, []int{10, 2, 99})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Breaking Bad", got[0].Title)
	assert.Equal(t, "Blood & Water", got[1].Title)

	none, err := s.TitlesByRows(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFilterOptions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	opts, err := s.FilterOptions(ctx)
	require.NoError(t, err)

	assert.Equal(t, []domain.ContentType{domain.TypeMovie, domain.TypeTVShow}, opts.Types)
	assert.Equal(t, []string{"PG-13", "TV-MA"}, opts.Ratings)
	assert.Equal(t, 1985, opts.MinYear)
	assert.Equal(t, 2021, opts.MaxYear)
	assert.Len(t, opts.Genres, 19)
	assert.Len(t, opts.Countries, 9)

	var us store.Option
	for _, c := range opts.Countries {
		if c.Value == "united-states" {
			us = c
		}
	}
	assert.Equal(t, store.Option{Value: "united-states", Label: "United States", Count: 9}, us)
}

func TestFilterOptions_Empty(t *testing.T) {
	s, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	defer s.Close()

	opts, err := s.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opts.Types)
	assert.Zero(t, opts.MinYear)
	assert.Zero(t, opts.MaxYear)
}
