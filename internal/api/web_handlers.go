package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/flixlens/flixlens/internal/http/response"
	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/store"
)

//go:embed templates/*.html
var templates embed.FS

// indexTemplate is the dashboard page.
var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

// indexPageData contains data for the dashboard page template.
type indexPageData struct {
	Name     string
	Snapshot *service.Snapshot
	Options  *store.FilterOptions
	ChartIDs []string
	Events   bool // the page subscribes to /api/v1/events
}

// handleIndex serves the dashboard page. Charts are drawn in the browser
// from the dashboard endpoint.
// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexPageData{
		Name:     s.name,
		ChartIDs: service.ChartIDs,
		Events:   s.services.Events != nil,
	}

	// An unloaded catalog still renders the page with a notice.
	if snap, err := s.services.Catalog.Snapshot(); err == nil {
		data.Snapshot = snap
		opts, err := s.services.Catalog.Options(r.Context())
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
		data.Options = opts
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", CacheNoStore)
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("Failed to execute index template", "error", err)
	}
}
