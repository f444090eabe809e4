package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/flixlens/flixlens/internal/catalog/catalogtest"
	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/search"
	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/sse"
	"github.com/flixlens/flixlens/internal/store/sqlite"
	"github.com/flixlens/flixlens/internal/telemetry"
)

// testEnvelope is the response envelope with typed data.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// testServer wraps the API server with the services behind it.
type testServer struct {
	*Server
	api      humatest.TestAPI
	path     string
	services *Services
	metrics  *telemetry.Metrics
}

type testOptions struct {
	load   bool
	events bool
	export config.ExportConfig
}

// setupTestServer serves the fixture catalog through the full router.
func setupTestServer(t *testing.T, opts testOptions) *testServer {
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

	cfg := config.Default()
	cfg.Server.Name = "FlixLens Test"
	if opts.export.RatePerMinute > 0 {
		cfg.Export = opts.export
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := telemetry.NewMetrics()
	filters := service.NewFilterParser(nil)

	catalogService := service.NewCatalogService(path, st, index, metrics, logger)
	services := &Services{
		Catalog:   catalogService,
		Dashboard: service.NewDashboardService(catalogService, filters, cfg.Dashboard, metrics, logger),
		Export:    service.NewExportService(catalogService, filters, metrics, logger),
		Search:    service.NewSearchService(catalogService, filters, logger),
	}

	if opts.events {
		services.Events = sse.NewManager(logger)
		catalogService.SetEventEmitter(services.Events)
		eventsCtx, cancel := context.WithCancel(ctx)
		go services.Events.Start(eventsCtx)
		t.Cleanup(cancel)
	}

	if opts.load {
		_, err := catalogService.Load(ctx)
		require.NoError(t, err)
	}

	server := NewServer(cfg, services, metrics, logger)
	t.Cleanup(server.Close)

	return &testServer{
		Server:   server,
		api:      humatest.Wrap(t, server.API()),
		path:     path,
		services: services,
		metrics:  metrics,
	}
}

// decodeEnvelope unmarshals a response body into an envelope.
func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope), "body: %s", body)
	return envelope
}
