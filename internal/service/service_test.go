package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flixlens/flixlens/internal/catalog"
	"github.com/flixlens/flixlens/internal/catalog/catalogtest"
	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/domain"
	"github.com/flixlens/flixlens/internal/search"
	"github.com/flixlens/flixlens/internal/store/sqlite"
	"github.com/flixlens/flixlens/internal/telemetry"
)

type testServices struct {
	path      string
	catalog   *CatalogService
	dashboard *DashboardService
	export    *ExportService
	search    *SearchService
	metrics   *telemetry.Metrics
}

// setupTestServices wires every service over an in-memory store and index.
// The fixture catalog is loaded unless load is false.
func setupTestServices(t *testing.T, load bool) *testServices {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "netflix_titles.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalogtest.FixtureCSV), 0o644))

	st, err := sqlite.Open(ctx, sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := telemetry.NewMetrics()
	filters := NewFilterParser(nil)

	svc := &testServices{path: path, metrics: metrics}
	svc.catalog = NewCatalogService(path, st, index, metrics, logger)
	svc.dashboard = NewDashboardService(svc.catalog, filters, config.Default().Dashboard, metrics, logger)
	svc.export = NewExportService(svc.catalog, filters, metrics, logger)
	svc.search = NewSearchService(svc.catalog, filters, logger)

	if load {
		_, err := svc.catalog.Load(ctx)
		require.NoError(t, err)
	}
	return svc
}

// fixtureView returns the fixture titles the filter selects, evaluated
// without the store.
func fixtureView(t *testing.T, f domain.Filter) []domain.Title {
	t.Helper()

	ds, err := catalog.Load(strings.NewReader(catalogtest.FixtureCSV))
	require.NoError(t, err)

	f, err = f.Normalize()
	require.NoError(t, err)

	var out []domain.Title
	for i := range ds.Titles {
		if f.Matches(&ds.Titles[i]) {
			out = append(out, ds.Titles[i])
		}
	}
	return out
}

// testFilters covers each dimension alone and combined.
var testFilters = map[string]domain.Filter{
	"none":         {},
	"movies":       {Types: []domain.ContentType{domain.TypeMovie}},
	"shows":        {Types: []domain.ContentType{"tv"}},
	"decade":       {YearFrom: 2010, YearTo: 2020},
	"rating":       {Ratings: []string{"pg-13"}},
	"movies-10-20": {Types: []domain.ContentType{domain.TypeMovie}, YearFrom: 2010, YearTo: 2020, Ratings: []string{"PG-13"}},
	"genre":        {Genres: []string{"Comedies"}},
	"country":      {Countries: []string{"united-states", "japan"}},
	"shows-intl":   {Types: []domain.ContentType{domain.TypeTVShow}, Genres: []string{"international-tv-shows"}, YearFrom: 2000},
	"empty-range":  {YearFrom: 1950, YearTo: 1960},
}
