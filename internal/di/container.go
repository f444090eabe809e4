// Package di provides dependency injection configuration for the FlixLens server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/di/providers"
	"github.com/flixlens/flixlens/internal/logger"
	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/telemetry"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()
	Register(injector)
	return injector
}

// Register adds every provider to the injector. Tests override the config
// provider before invoking anything.
func Register(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideSSEManager)

	// Data layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideFilterParser)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideDashboardService)
	do.Provide(injector, providers.ProvideExportService)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideBootstrap)

	// Workers
	do.Provide(injector, providers.ProvideFileWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
}

// Bootstrap initializes all services and returns once the server has bound
// its port. A bind failure is returned like any other startup error.
// Loading the catalog happens before the server starts, so a bad dataset
// fails here.
func Bootstrap(injector do.Injector) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*telemetry.Metrics](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*service.CatalogService](injector)

	if _, err := do.Invoke[*providers.Bootstrap](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.DashboardService](injector)
	_ = do.MustInvoke[*service.ExportService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	// Workers
	if _, err := do.Invoke[*providers.FileWatcherHandle](injector); err != nil {
		return err
	}

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
