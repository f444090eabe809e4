package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents_Disabled(t *testing.T) {
	ts := setupTestServer(t, testOptions{load: true})

	resp := ts.api.Get("/api/v1/events")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	page := ts.api.Get("/")
	assert.NotContains(t, page.Body.String(), "EventSource")
}

func TestEvents_ReloadIsPushed(t *testing.T) {
	ts := setupTestServer(t, testOptions{load: true, events: true})

	page := ts.api.Get("/")
	assert.Contains(t, page.Body.String(), `new EventSource("/api/v1/events")`)

	srv := httptest.NewServer(ts.Server)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: connected", lines.Text())

	require.Eventually(t, func() bool { return ts.services.Events.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	reload := ts.api.Post("/api/v1/dataset/reload")
	require.Equal(t, http.StatusOK, reload.Code)

	for lines.Scan() {
		if lines.Text() == "event: dataset.loaded" {
			require.True(t, lines.Scan())
			assert.Contains(t, lines.Text(), `"titles":13`)
			return
		}
	}
	t.Fatal("stream ended before dataset.loaded")
}
