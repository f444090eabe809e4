package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/logger"
	"github.com/flixlens/flixlens/internal/search"
	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/store/sqlite"
	"github.com/flixlens/flixlens/internal/telemetry"
)

// app is a catalog loaded for the lifetime of one command.
type app struct {
	dashboard *service.DashboardService
	export    *service.ExportService
	search    *service.SearchService

	store *sqlite.Store
	index *search.SearchIndex
}

// openApp loads the dataset into an in-memory store and search index.
func openApp(ctx context.Context, opts *options) (*app, error) {
	cfg := config.Default()
	log := logger.New(logger.Config{
		Writer: os.Stderr,
		Level:  logger.ParseLevel(opts.logLevel),
	})

	st, err := sqlite.Open(ctx, sqlite.Options{Logger: log.WithComponent("store")})
	if err != nil {
		return nil, err
	}

	index, err := search.NewSearchIndex(search.Options{Logger: log.WithComponent("search")})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	metrics := telemetry.NewMetrics()
	filters := service.NewFilterParser(nil)
	catalogService := service.NewCatalogService(opts.dataset, st, index, metrics, log.WithComponent("catalog"))

	a := &app{
		dashboard: service.NewDashboardService(catalogService, filters, cfg.Dashboard, metrics, log.Logger),
		export:    service.NewExportService(catalogService, filters, metrics, log.Logger),
		search:    service.NewSearchService(catalogService, filters, log.Logger),
		store:     st,
		index:     index,
	}

	if _, err := catalogService.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return a, nil
}

func (a *app) close() {
	_ = a.index.Close()
	_ = a.store.Close()
}
