package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixlens/flixlens/internal/analytics"
	"github.com/flixlens/flixlens/internal/chart"
	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/domain"
	domainerrors "github.com/flixlens/flixlens/internal/errors"
)

func pointLabels(s chart.Series) []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Label
	}
	return out
}

func pointValues(s chart.Series) []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

func TestDashboardService_MetricsUnfiltered(t *testing.T) {
	svc := setupTestServices(t, true)

	m, err := svc.dashboard.Metrics(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, &Metrics{
		Total:      13,
		Delta:      0,
		Filtered:   false,
		Movies:     8,
		MovieShare: 61.5,
		Shows:      5,
		ShowShare:  38.5,
		Countries:  9,
		Genres:     19,
	}, m)
}

func TestDashboardService_MetricsMatchBruteForce(t *testing.T) {
	svc := setupTestServices(t, true)
	ctx := context.Background()

	for name, f := range testFilters {
		t.Run(name, func(t *testing.T) {
			view := fixtureView(t, f)

			m, err := svc.dashboard.Metrics(ctx, f)
			require.NoError(t, err)

			movies, shows := 0, 0
			countries := map[string]bool{}
			genres := map[string]bool{}
			for i := range view {
				switch view[i].Type {
				case domain.TypeMovie:
					movies++
				case domain.TypeTVShow:
					shows++
				}
				for _, c := range view[i].Countries() {
					countries[c] = true
				}
				for _, g := range view[i].Genres() {
					genres[g] = true
				}
			}

			assert.Equal(t, len(view), m.Total)
			assert.Equal(t, len(view)-13, m.Delta)
			assert.Equal(t, len(view) != 13, m.Filtered)
			assert.Equal(t, movies, m.Movies)
			assert.Equal(t, shows, m.Shows)
			assert.LessOrEqual(t, m.Movies+m.Shows, m.Total)
			assert.Equal(t, len(countries), m.Countries)
			assert.Equal(t, len(genres), m.Genres)
		})
	}
}

func TestDashboardService_ConjunctiveFilter(t *testing.T) {
	svc := setupTestServices(t, true)

	f := domain.Filter{Types: []domain.ContentType{"movie"}, YearFrom: 2010, YearTo: 2020, Ratings: []string{"pg-13"}}
	m, err := svc.dashboard.Metrics(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Total)
	assert.Equal(t, -9, m.Delta)
	assert.True(t, m.Filtered)
	assert.Equal(t, 4, m.Movies)
	assert.Equal(t, 100.0, m.MovieShare)
	assert.Zero(t, m.ShowShare)
}

func TestDashboardService_EmptyRange(t *testing.T) {
	svc := setupTestServices(t, true)
	ctx := context.Background()
	f := domain.Filter{YearFrom: 1950, YearTo: 1960}

	d, err := svc.dashboard.Dashboard(ctx, f)
	require.NoError(t, err)

	assert.Zero(t, d.Metrics.Total)
	assert.Zero(t, d.Metrics.Movies)
	assert.Zero(t, d.Metrics.MovieShare)
	assert.Zero(t, d.Metrics.Countries)
	assert.Zero(t, d.Metrics.Genres)
	require.Len(t, d.Charts, len(ChartIDs))
	for _, c := range d.Charts {
		assert.True(t, c.IsEmpty(), c.ID)
		assert.Empty(t, c.Annotations, c.ID)
	}
	assert.Equal(t, analytics.Summary{}, d.Durations.Summary)
	assert.Empty(t, d.Durations.Histogram)
	assert.Equal(t, analytics.Summary{}, d.Seasons.Summary)
	assert.Empty(t, d.Preview)

	page, err := svc.dashboard.Titles(ctx, f, domain.Page{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
}

func TestDashboardService_Deterministic(t *testing.T) {
	svc := setupTestServices(t, true)
	ctx := context.Background()

	first, err := svc.dashboard.Dashboard(ctx, domain.Filter{})
	require.NoError(t, err)
	second, err := svc.dashboard.Dashboard(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A fresh process over the same file draws the same dashboard.
	other := setupTestServices(t, true)
	third, err := other.dashboard.Dashboard(ctx, domain.Filter{})
	require.NoError(t, err)
	third.SnapshotID = first.SnapshotID
	assert.Equal(t, first, third)
}

func TestDashboardService_EquivalentFiltersAgree(t *testing.T) {
	svc := setupTestServices(t, true)
	ctx := context.Background()

	a, err := svc.dashboard.Dashboard(ctx, domain.Filter{Types: []domain.ContentType{"TV"}, Ratings: []string{"tv-ma", "TV-MA"}})
	require.NoError(t, err)
	b, err := svc.dashboard.Dashboard(ctx, domain.Filter{Types: []domain.ContentType{domain.TypeTVShow}, Ratings: []string{"TV-MA"}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDashboardService_Charts(t *testing.T) {
	svc := setupTestServices(t, true)
	ctx := context.Background()

	get := func(id string) *chart.Config {
		c, err := svc.dashboard.Chart(ctx, id, domain.Filter{})
		require.NoError(t, err)
		require.Equal(t, id, c.ID)
		return c
	}

	types := get(ChartContentTypes)
	assert.Equal(t, chart.TypeDonut, types.Type)
	assert.True(t, types.ShowLegend)
	assert.Equal(t, []string{"Movie", "TV Show"}, pointLabels(types.Series[0]))
	assert.Equal(t, []float64{8, 5}, pointValues(types.Series[0]))

	ratings := get(ChartRatings)
	assert.Equal(t, chart.TypeHorizontalBar, ratings.Type)
	assert.Equal(t, []string{"PG-13", "TV-MA"}, pointLabels(ratings.Series[0]))
	assert.Equal(t, []float64{5, 6}, pointValues(ratings.Series[0]))

	countries := get(ChartTopCountries)
	assert.Equal(t, "Top 15 Content Producing Countries", countries.Title)
	assert.Equal(t, []string{"United States", "India", "Japan", "South Africa"}, pointLabels(countries.Series[0]))
	assert.Equal(t, []float64{9, 1, 1, 1}, pointValues(countries.Series[0]))

	years := get(ChartReleaseYears)
	assert.Equal(t, chart.TypeArea, years.Type)
	assert.Equal(t, "Content by Release Year (1990+)", years.Title)
	assert.Equal(t, []string{"1993", "2010", "2013", "2017", "2018", "2020", "2021"}, pointLabels(years.Series[0]))
	assert.Equal(t, []float64{1, 1, 2, 1, 2, 1, 4}, pointValues(years.Series[0]))

	genres := get(ChartTopGenres)
	require.NotEmpty(t, genres.Series[0].Points)
	assert.Equal(t, chart.Point{Label: "International TV Shows", Value: 4}, genres.Series[0].Points[0])
	assert.Equal(t, chart.Point{Label: "Comedies", Value: 3}, genres.Series[0].Points[1])
	assert.Len(t, genres.Series[0].Points, 15)

	added := get(ChartAddedByYear)
	assert.Equal(t, chart.TypeLine, added.Type)
	require.Len(t, added.Series, 2)
	assert.Equal(t, "Movies", added.Series[0].Name)
	assert.Equal(t, chart.ColorRed, added.Series[0].Color)
	assert.Equal(t, "TV Shows", added.Series[1].Name)
	assert.Equal(t, chart.ColorGrey, added.Series[1].Color)
	assert.Equal(t, []string{"2013", "2017", "2018", "2021"}, pointLabels(added.Series[0]))
	assert.Equal(t, pointLabels(added.Series[0]), pointLabels(added.Series[1]))
	assert.Equal(t, []float64{0, 1, 2, 5}, pointValues(added.Series[0]))
	assert.Equal(t, []float64{1, 0, 0, 3}, pointValues(added.Series[1]))

	durations := get(ChartMovieDurations)
	assert.Equal(t, chart.TypeHistogram, durations.Type)
	assert.Len(t, durations.Series[0].Points, 30)
	total := 0.0
	for _, p := range durations.Series[0].Points {
		total += p.Value
	}
	assert.Equal(t, 8.0, total)
	require.Len(t, durations.Annotations, 1)
	assert.Equal(t, chart.Annotation{Axis: "x", Value: 100, Label: "Median: 100 min"}, durations.Annotations[0])

	seasons := get(ChartTVSeasons)
	assert.Equal(t, chart.TypeBar, seasons.Type)
	assert.Equal(t, []string{"1", "2", "5"}, pointLabels(seasons.Series[0]))
	assert.Equal(t, []float64{2, 2, 1}, pointValues(seasons.Series[0]))

	directors := get(ChartTopDirectors)
	assert.Len(t, directors.Series[0].Points, 9)
	assert.Equal(t, "Dennis Dugan", directors.Series[0].Points[0].Label)

	actors := get(ChartTopActors)
	assert.Equal(t, "Top 10 Actors", actors.Title)
	assert.Len(t, actors.Series[0].Points, 10)
	assert.Equal(t, chart.Point{Label: "Adam Sandler", Value: 2}, actors.Series[0].Points[0])
	assert.Equal(t, "Aaron Paul", actors.Series[0].Points[1].Label)
}

func TestDashboardService_UnknownChart(t *testing.T) {
	svc := setupTestServices(t, true)

	_, err := svc.dashboard.Chart(context.Background(), "pie-of-the-day", domain.Filter{})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestDashboardService_Stats(t *testing.T) {
	svc := setupTestServices(t, true)
	ctx := context.Background()

	durations, err := svc.dashboard.Durations(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, analytics.Summary{Count: 8, Mean: 96.5, Median: 100, Min: 73, Max: 125}, durations.Summary)
	assert.Len(t, durations.Histogram, 30)

	seasons, err := svc.dashboard.Seasons(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, analytics.Summary{Count: 5, Mean: 2.2, Median: 2, Min: 1, Max: 5}, seasons.Summary)
	assert.Equal(t, []analytics.Frequency{{Value: 1, Count: 2}, {Value: 2, Count: 2}, {Value: 5, Count: 1}}, seasons.Frequencies)
}

func TestDashboardService_Dashboard(t *testing.T) {
	svc := setupTestServices(t, true)

	d, err := svc.dashboard.Dashboard(context.Background(), domain.Filter{})
	require.NoError(t, err)

	snap, err := svc.catalog.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snap.ID, d.SnapshotID)
	assert.Equal(t, 13, d.Metrics.Total)

	ids := make([]string, len(d.Charts))
	for i, c := range d.Charts {
		ids[i] = c.ID
	}
	assert.Equal(t, ChartIDs, ids)

	require.Len(t, d.Preview, 13)
	assert.Equal(t, 1, d.Preview[0].Row)
	assert.Equal(t, "Dick Johnson Is Dead", d.Preview[0].Title)
	assert.Equal(t, 13, d.Preview[12].Row)
}

func TestDashboardService_PreviewLimit(t *testing.T) {
	svc := setupTestServices(t, true)
	cfg := config.Default().Dashboard
	cfg.PreviewRows = 5

	dash := NewDashboardService(svc.catalog, NewFilterParser(nil), cfg, nil, nil)
	d, err := dash.Dashboard(context.Background(), domain.Filter{})
	require.NoError(t, err)
	require.Len(t, d.Preview, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, []int{d.Preview[0].Row, d.Preview[1].Row, d.Preview[2].Row, d.Preview[3].Row, d.Preview[4].Row})
}

func TestDashboardService_Titles(t *testing.T) {
	svc := setupTestServices(t, true)

	page, err := svc.dashboard.Titles(context.Background(), domain.Filter{}, domain.Page{Limit: 5, Sort: domain.SortTitle})
	require.NoError(t, err)
	assert.Equal(t, 13, page.Total)
	assert.Len(t, page.Items, 5)
	assert.True(t, page.HasMore)
	assert.Equal(t, "Adam Sandler: 100% Fresh", page.Items[0].Title)
}

func TestDashboardService_InvalidFilter(t *testing.T) {
	svc := setupTestServices(t, true)
	ctx := context.Background()

	_, err := svc.dashboard.Metrics(ctx, domain.Filter{YearFrom: 2020, YearTo: 2010})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = svc.dashboard.Metrics(ctx, domain.Filter{Types: []domain.ContentType{"cartoon"}})
	require.Error(t, err)
	var de *domainerrors.Error
	require.True(t, domainerrors.As(err, &de))
	assert.Equal(t, domainerrors.CodeValidation, de.Code)
	assert.Contains(t, de.Details, "type")
}
