package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/flixlens/flixlens/internal/analytics"
	"github.com/flixlens/flixlens/internal/chart"
	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/domain"
	domainerrors "github.com/flixlens/flixlens/internal/errors"
	"github.com/flixlens/flixlens/internal/store"
	"github.com/flixlens/flixlens/internal/telemetry"
)

// Chart identifiers, in page order.
const (
	ChartContentTypes   = "content-types"
	ChartRatings        = "ratings"
	ChartTopCountries   = "top-countries"
	ChartReleaseYears   = "release-years"
	ChartTopGenres      = "top-genres"
	ChartAddedByYear    = "added-by-year"
	ChartMovieDurations = "movie-durations"
	ChartTVSeasons      = "tv-seasons"
	ChartTopDirectors   = "top-directors"
	ChartTopActors      = "top-actors"
)

// ChartIDs lists every chart the dashboard draws.
var ChartIDs = []string{
	ChartContentTypes,
	ChartRatings,
	ChartTopCountries,
	ChartReleaseYears,
	ChartTopGenres,
	ChartAddedByYear,
	ChartMovieDurations,
	ChartTVSeasons,
	ChartTopDirectors,
	ChartTopActors,
}

// Metrics are the headline numbers of a view.
type Metrics struct {
	Total      int     `json:"total"`
	Delta      int     `json:"delta"`    // Total minus the unfiltered total
	Filtered   bool    `json:"filtered"` // the view is smaller than the catalog
	Movies     int     `json:"movies"`
	MovieShare float64 `json:"movie_share"` // percent of Total
	Shows      int     `json:"shows"`
	ShowShare  float64 `json:"show_share"`
	Countries  int     `json:"countries"`
	Genres     int     `json:"genres"`
}

// DurationStats summarises movie runtimes in minutes.
type DurationStats struct {
	Summary   analytics.Summary `json:"summary"`
	Histogram []analytics.Bin   `json:"histogram"`
}

// SeasonStats summarises TV show season counts.
type SeasonStats struct {
	Summary     analytics.Summary     `json:"summary"`
	Frequencies []analytics.Frequency `json:"frequencies"`
}

// PreviewRow is the explorer's column subset of a title.
type PreviewRow struct {
	Row         int                `json:"row"`
	Type        domain.ContentType `json:"type"`
	Title       string             `json:"title"`
	Director    string             `json:"director"`
	Cast        string             `json:"cast"`
	Country     string             `json:"country"`
	ReleaseYear int                `json:"release_year"`
	Rating      string             `json:"rating"`
	Duration    string             `json:"duration"`
	ListedIn    string             `json:"listed_in"`
}

// NewPreviewRow projects a title onto the explorer columns.
func NewPreviewRow(t *domain.Title) PreviewRow {
	return PreviewRow{
		Row:         t.Row,
		Type:        t.Type,
		Title:       t.Title,
		Director:    t.Director,
		Cast:        t.Cast,
		Country:     t.Country,
		ReleaseYear: t.ReleaseYear,
		Rating:      t.Rating,
		Duration:    t.Duration,
		ListedIn:    t.ListedIn,
	}
}

// Dashboard is every view of one filter.
type Dashboard struct {
	SnapshotID string          `json:"snapshot_id"`
	Filter     domain.Filter   `json:"filter"`
	Metrics    *Metrics        `json:"metrics"`
	Charts     []*chart.Config `json:"charts"`
	Durations  *DurationStats  `json:"durations"`
	Seasons    *SeasonStats    `json:"seasons"`
	Preview    []PreviewRow    `json:"preview"`
}

// DashboardService derives read-only views of the catalog.
type DashboardService struct {
	catalog *CatalogService
	filters *FilterParser
	cfg     config.DashboardConfig
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(catalog *CatalogService, filters *FilterParser, cfg config.DashboardConfig, metrics *telemetry.Metrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DashboardService{
		catalog: catalog,
		filters: filters,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// view parses the filter and runs fn under the catalog read lock.
func (s *DashboardService) view(name string, f domain.Filter, fn func(v View, f domain.Filter) error) error {
	f, err := s.filters.Parse(f)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.catalog.Read(func(v View) error {
		return fn(v, f)
	})
	s.metrics.ObserveView(name, time.Since(start))
	return err
}

// Metrics returns the headline numbers of the filtered view.
func (s *DashboardService) Metrics(ctx context.Context, f domain.Filter) (*Metrics, error) {
	var m *Metrics
	err := s.view("metrics", f, func(v View, f domain.Filter) error {
		var err error
		m, err = s.computeMetrics(ctx, v.Store, f)
		return err
	})
	return m, err
}

// Chart returns one chart of the filtered view.
func (s *DashboardService) Chart(ctx context.Context, id string, f domain.Filter) (*chart.Config, error) {
	if !slices.Contains(ChartIDs, id) {
		return nil, domainerrors.NotFoundf("unknown chart %q", id)
	}

	var c *chart.Config
	err := s.view("chart", f, func(v View, f domain.Filter) error {
		var err error
		c, err = s.buildChart(ctx, v.Store, id, f)
		return err
	})
	return c, err
}

// Durations returns movie runtime statistics.
func (s *DashboardService) Durations(ctx context.Context, f domain.Filter) (*DurationStats, error) {
	var stats *DurationStats
	err := s.view("durations", f, func(v View, f domain.Filter) error {
		values, err := v.Store.MovieDurations(ctx, f)
		if err != nil {
			return err
		}
		stats = s.durationStats(values)
		return nil
	})
	return stats, err
}

// Seasons returns TV show season statistics.
func (s *DashboardService) Seasons(ctx context.Context, f domain.Filter) (*SeasonStats, error) {
	var stats *SeasonStats
	err := s.view("seasons", f, func(v View, f domain.Filter) error {
		values, err := v.Store.ShowSeasons(ctx, f)
		if err != nil {
			return err
		}
		stats = seasonStats(values)
		return nil
	})
	return stats, err
}

// Titles returns a page of the filtered view.
func (s *DashboardService) Titles(ctx context.Context, f domain.Filter, page domain.Page) (*store.PaginatedResult[domain.Title], error) {
	var result *store.PaginatedResult[domain.Title]
	err := s.view("titles", f, func(v View, f domain.Filter) error {
		var err error
		result, err = v.Store.ListTitles(ctx, f, store.NormalizePage(page))
		return err
	})
	return result, err
}

// Dashboard computes every view of the filter against one catalog snapshot.
func (s *DashboardService) Dashboard(ctx context.Context, f domain.Filter) (*Dashboard, error) {
	var d *Dashboard
	err := s.view("dashboard", f, func(v View, f domain.Filter) error {
		d = &Dashboard{SnapshotID: v.Snapshot.ID, Filter: f}

		var err error
		if d.Metrics, err = s.computeMetrics(ctx, v.Store, f); err != nil {
			return err
		}

		d.Charts = make([]*chart.Config, 0, len(ChartIDs))
		for _, id := range ChartIDs {
			c, err := s.buildChart(ctx, v.Store, id, f)
			if err != nil {
				return err
			}
			d.Charts = append(d.Charts, c)
		}

		durations, err := v.Store.MovieDurations(ctx, f)
		if err != nil {
			return err
		}
		d.Durations = s.durationStats(durations)

		seasons, err := v.Store.ShowSeasons(ctx, f)
		if err != nil {
			return err
		}
		d.Seasons = seasonStats(seasons)

		d.Preview = []PreviewRow{}
		if s.cfg.PreviewRows > 0 {
			page, err := v.Store.ListTitles(ctx, f, domain.Page{Limit: s.cfg.PreviewRows, Sort: domain.SortRow})
			if err != nil {
				return err
			}
			for i := range page.Items {
				d.Preview = append(d.Preview, NewPreviewRow(&page.Items[i]))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("dashboard computed", "snapshot", d.SnapshotID, "total", d.Metrics.Total)
	return d, nil
}

func (s *DashboardService) computeMetrics(ctx context.Context, st store.Store, f domain.Filter) (*Metrics, error) {
	total, err := st.CountTitles(ctx, f)
	if err != nil {
		return nil, err
	}

	all := total
	if !f.IsZero() {
		if all, err = st.CountTitles(ctx, domain.Filter{}); err != nil {
			return nil, err
		}
	}

	byType, err := st.CountByType(ctx, f)
	if err != nil {
		return nil, err
	}

	m := &Metrics{Total: total, Delta: total - all, Filtered: total != all}
	for _, c := range byType {
		switch domain.ContentType(c.Name) {
		case domain.TypeMovie:
			m.Movies = c.Count
		case domain.TypeTVShow:
			m.Shows = c.Count
		}
	}
	m.MovieShare = analytics.Share(m.Movies, total)
	m.ShowShare = analytics.Share(m.Shows, total)

	if m.Countries, err = st.DistinctCountries(ctx, f); err != nil {
		return nil, err
	}
	if m.Genres, err = st.DistinctGenres(ctx, f); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *DashboardService) buildChart(ctx context.Context, st store.Store, id string, f domain.Filter) (*chart.Config, error) {
	switch id {
	case ChartContentTypes:
		counts, err := st.CountByType(ctx, f)
		if err != nil {
			return nil, err
		}
		return chart.New(id, chart.TypeDonut, "Content Type Distribution").
			Series("Titles", countPoints(counts)).
			Build(), nil

	case ChartRatings:
		counts, err := st.CountByRating(ctx, f)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(counts, func(a, b store.Count) int {
			return cmp.Or(cmp.Compare(a.Count, b.Count), cmp.Compare(a.Name, b.Name))
		})
		return chart.New(id, chart.TypeHorizontalBar, "Content by Rating").
			Axes("Number of Titles", "Rating").
			Series("Titles", countPoints(counts)).
			Build(), nil

	case ChartTopCountries:
		counts, err := st.TopCountries(ctx, f, s.cfg.TopCountries)
		if err != nil {
			return nil, err
		}
		return chart.New(id, chart.TypeHorizontalBar, fmt.Sprintf("Top %d Content Producing Countries", s.cfg.TopCountries)).
			Axes("Number of Titles", "Country").
			Series("Titles", countPoints(counts)).
			Build(), nil

	case ChartReleaseYears:
		counts, err := st.CountByReleaseYear(ctx, f, s.cfg.TrendStartYear)
		if err != nil {
			return nil, err
		}
		points := make([]chart.Point, len(counts))
		for i, c := range counts {
			points[i] = chart.Point{Label: strconv.Itoa(c.Year), Value: float64(c.Count)}
		}
		return chart.New(id, chart.TypeArea, fmt.Sprintf("Content by Release Year (%d+)", s.cfg.TrendStartYear)).
			Axes("Release Year", "Number of Titles").
			Series("Titles", points).
			Build(), nil

	case ChartTopGenres:
		counts, err := st.TopGenres(ctx, f, s.cfg.TopGenres)
		if err != nil {
			return nil, err
		}
		return chart.New(id, chart.TypeHorizontalBar, fmt.Sprintf("Top %d Genres", s.cfg.TopGenres)).
			Axes("Number of Titles", "Genre").
			Series("Titles", countPoints(counts)).
			Build(), nil

	case ChartAddedByYear:
		counts, err := st.CountAddedByYear(ctx, f)
		if err != nil {
			return nil, err
		}
		movies, shows := alignByYear(counts)
		return chart.New(id, chart.TypeLine, "Content Added to Netflix by Year").
			Axes("Year", "Number of Titles").
			Legend(true).
			Series("Movies", movies).
			Series("TV Shows", shows).
			Build(), nil

	case ChartMovieDurations:
		values, err := st.MovieDurations(ctx, f)
		if err != nil {
			return nil, err
		}
		bins := analytics.Histogram(values, s.cfg.HistogramBins)
		points := make([]chart.Point, len(bins))
		for i, b := range bins {
			points[i] = chart.Point{Label: formatNumber(b.Start), Value: float64(b.Count), Width: b.End - b.Start}
		}
		builder := chart.New(id, chart.TypeHistogram, "Movie Duration Distribution").
			Axes("Duration (minutes)", "Frequency").
			Series("Movies", points)
		if len(values) > 0 {
			median := analytics.Summarize(values).Median
			builder.Annotate("x", median, fmt.Sprintf("Median: %.0f min", median))
		}
		return builder.Build(), nil

	case ChartTVSeasons:
		values, err := st.ShowSeasons(ctx, f)
		if err != nil {
			return nil, err
		}
		freqs := analytics.Frequencies(values)
		points := make([]chart.Point, len(freqs))
		for i, fr := range freqs {
			points[i] = chart.Point{Label: strconv.Itoa(fr.Value), Value: float64(fr.Count)}
		}
		return chart.New(id, chart.TypeBar, "TV Show Number of Seasons").
			Axes("Number of Seasons", "Frequency").
			Series("TV Shows", points).
			Build(), nil

	case ChartTopDirectors:
		counts, err := st.TopPeople(ctx, f, domain.RoleDirector, s.cfg.TopPeople)
		if err != nil {
			return nil, err
		}
		return chart.New(id, chart.TypeHorizontalBar, fmt.Sprintf("Top %d Directors", s.cfg.TopPeople)).
			Axes("Number of Titles", "Director").
			Series("Titles", countPoints(counts)).
			Build(), nil

	case ChartTopActors:
		counts, err := st.TopPeople(ctx, f, domain.RoleCast, s.cfg.TopPeople)
		if err != nil {
			return nil, err
		}
		return chart.New(id, chart.TypeHorizontalBar, fmt.Sprintf("Top %d Actors", s.cfg.TopPeople)).
			Axes("Number of Appearances", "Actor").
			Series("Appearances", countPoints(counts)).
			Build(), nil
	}

	return nil, domainerrors.NotFoundf("unknown chart %q", id)
}

func (s *DashboardService) durationStats(values []int) *DurationStats {
	return &DurationStats{
		Summary:   analytics.Summarize(values),
		Histogram: analytics.Histogram(values, s.cfg.HistogramBins),
	}
}

func seasonStats(values []int) *SeasonStats {
	return &SeasonStats{
		Summary:     analytics.Summarize(values),
		Frequencies: analytics.Frequencies(values),
	}
}

func countPoints(counts []store.Count) []chart.Point {
	points := make([]chart.Point, len(counts))
	for i, c := range counts {
		points[i] = chart.Point{Label: c.Name, Value: float64(c.Count)}
	}
	return points
}

// alignByYear splits year × type counts into movie and show series sharing
// the same, zero-filled, ascending years.
func alignByYear(counts []store.YearCount) (movies, shows []chart.Point) {
	byYear := make(map[int][2]int)
	for _, c := range counts {
		v := byYear[c.Year]
		switch c.Type {
		case domain.TypeMovie:
			v[0] += c.Count
		case domain.TypeTVShow:
			v[1] += c.Count
		}
		byYear[c.Year] = v
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	slices.Sort(years)

	movies = make([]chart.Point, len(years))
	shows = make([]chart.Point, len(years))
	for i, y := range years {
		label := strconv.Itoa(y)
		movies[i] = chart.Point{Label: label, Value: float64(byYear[y][0])}
		shows[i] = chart.Point{Label: label, Value: float64(byYear[y][1])}
	}
	return movies, shows
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(analytics.Round(v, 2), 'f', -1, 64)
}
