package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixlens/flixlens/internal/service"
)

func TestIndexPage(t *testing.T) {
	ts := setupTestServer(t, testOptions{load: true})

	resp := ts.api.Get("/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header().Get("Content-Type"))

	body := resp.Body.String()
	assert.Contains(t, body, "FlixLens Test")
	assert.Contains(t, body, "13 titles")
	assert.Contains(t, body, "plotly")
	for _, id := range service.ChartIDs {
		assert.Contains(t, body, `id="chart-`+id+`"`)
	}
	// Filter options are embedded as JSON for the page script.
	assert.Contains(t, body, `"min_year":1985`)
}

func TestIndexPage_NotLoaded(t *testing.T) {
	ts := setupTestServer(t, testOptions{})

	resp := ts.api.Get("/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "catalog not loaded")
	assert.Regexp(t, `const options =\s*null\s*;`, resp.Body.String())
}

func TestPrometheusEndpoint(t *testing.T) {
	ts := setupTestServer(t, testOptions{load: true})

	require.Equal(t, http.StatusOK, ts.api.Get("/api/v1/metrics/summary").Code)

	resp := ts.api.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `flixlens_http_requests_total{method="GET",route="/api/v1/metrics/summary",status="200"} 1`)
	assert.Contains(t, body, "flixlens_dataset_titles 13")
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t, testOptions{load: true})

	resp := ts.api.Get("/api/v1/box-office")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	envelope := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.Equal(t, 1, envelope.Version)
	assert.False(t, envelope.Success)
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}
