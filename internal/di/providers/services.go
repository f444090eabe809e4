package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/logger"
	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/telemetry"
	"github.com/flixlens/flixlens/internal/validation"
)

// ProvideMetrics provides the Prometheus collectors.
func ProvideMetrics(i do.Injector) (*telemetry.Metrics, error) {
	return telemetry.NewMetrics(), nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideFilterParser provides the filter parser shared by the views.
func ProvideFilterParser(i do.Injector) (*service.FilterParser, error) {
	return service.NewFilterParser(do.MustInvoke[*validation.Validator](i)), nil
}

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	metrics := do.MustInvoke[*telemetry.Metrics](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	svc := service.NewCatalogService(
		cfg.Dataset.Path,
		storeHandle.Store,
		indexHandle.SearchIndex,
		metrics,
		log.WithComponent("catalog"),
	)

	// Open dashboards refresh when the catalog is reloaded.
	svc.SetEventEmitter(sseHandle.Manager)

	return svc, nil
}

// ProvideDashboardService provides the dashboard service.
func ProvideDashboardService(i do.Injector) (*service.DashboardService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDashboardService(
		do.MustInvoke[*service.CatalogService](i),
		do.MustInvoke[*service.FilterParser](i),
		cfg.Dashboard,
		do.MustInvoke[*telemetry.Metrics](i),
		log.WithComponent("dashboard"),
	), nil
}

// ProvideExportService provides the export service.
func ProvideExportService(i do.Injector) (*service.ExportService, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewExportService(
		do.MustInvoke[*service.CatalogService](i),
		do.MustInvoke[*service.FilterParser](i),
		do.MustInvoke[*telemetry.Metrics](i),
		log.WithComponent("export"),
	), nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(
		do.MustInvoke[*service.CatalogService](i),
		do.MustInvoke[*service.FilterParser](i),
		log.WithComponent("search"),
	), nil
}

// Bootstrap holds the catalog loaded at startup.
type Bootstrap struct {
	Snapshot *service.Snapshot
}

// ProvideBootstrap loads the dataset. A missing or unreadable file fails startup.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	log := do.MustInvoke[*logger.Logger](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)

	snap, err := catalogService.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", catalogService.Path(), err)
	}

	log.Info("Catalog ready",
		"snapshot_id", snap.ID,
		"titles", snap.Titles,
		"skipped", snap.Skipped,
		"search_indexed", snap.SearchIndexed,
	)

	return &Bootstrap{Snapshot: snap}, nil
}
