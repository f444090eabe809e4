package api

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/flixlens/flixlens/internal/catalog"
	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/domain"
	"github.com/flixlens/flixlens/internal/export"
)

func TestExport_CSV(t *testing.T) {
	ts := setupTestServer(t, testOptions{load: true})

	resp := ts.api.Get("/api/v1/export?format=csv&type=TV%20Show")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Equal(t, "text/csv; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="netflix_filtered_data.csv"`, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, CacheNoStore, resp.Header().Get("Cache-Control"))
	assert.Equal(t, "5", resp.Header().Get("X-Export-Rows"))

	want, err := ts.services.Export.Export(context.Background(), domain.Filter{Types: []domain.ContentType{domain.TypeTVShow}}, "csv")
	require.NoError(t, err)
	assert.Equal(t, string(want.Body), resp.Body.String())

	ds, err := catalog.Load(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	assert.Len(t, ds.Titles, 5)
}

func TestExport_DefaultsToCSV(t *testing.T) {
	ts := setupTestServer(t, testOptions{load: true})

	resp := ts.api.Get("/api/v1/export")
	require.Equal(t, http.StatusOK, resp.Code)

	lines := strings.Split(strings.TrimSuffix(resp.Body.String(), "\n"), "\n")
	assert.Equal(t, strings.Join(catalog.Columns, ","), lines[0])
	assert.Len(t, lines, 14)
}

func TestExport_XLSX(t *testing.T) {
	ts := setupTestServer(t, testOptions{load: true})

	resp := ts.api.Get("/api/v1/export?format=xlsx&genre=comedies")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `attachment; filename="netflix_filtered_data.xlsx"`, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, export.FormatXLSX.ContentType(), resp.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestExport_Errors(t *testing.T) {
	ts := setupTestServer(t, testOptions{load: true})

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown format", "/api/v1/export?format=pdf", http.StatusBadRequest, "VALIDATION"},
		{"invalid years", "/api/v1/export?year_from=2021&year_to=2000", http.StatusBadRequest, "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path)
			assert.Equal(t, tt.status, resp.Code)
			assert.Empty(t, resp.Header().Get("Content-Disposition"))

			envelope := decodeEnvelope[any](t, resp.Body.Bytes())
			assert.Equal(t, tt.code, envelope.Code)
		})
	}
}

func TestExport_RateLimited(t *testing.T) {
	ts := setupTestServer(t, testOptions{
		load:   true,
		export: config.ExportConfig{RatePerMinute: 1, Burst: 2},
	})

	for range 2 {
		resp := ts.api.Get("/api/v1/export")
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/export")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))

	envelope := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	assert.Equal(t, "RATE_LIMITED", envelope.Code)

	// Other endpoints are not limited.
	resp = ts.api.Get("/api/v1/metrics/summary")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestExport_RateLimitPerClient(t *testing.T) {
	ts := setupTestServer(t, testOptions{
		load:   true,
		export: config.ExportConfig{RatePerMinute: 1, Burst: 1},
	})

	resp := ts.api.Get("/api/v1/export", "X-Real-IP: 198.51.100.1")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/export", "X-Real-IP: 198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	resp = ts.api.Get("/api/v1/export", "X-Real-IP: 198.51.100.2")
	assert.Equal(t, http.StatusOK, resp.Code)
}
