package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportTitles",
		Method:      http.MethodGet,
		Path:        "/api/v1/export",
		Summary:     "Download filtered data",
		Description: "Downloads every title of the filtered view in file order as CSV or XLSX. Rate limited per client.",
		Tags:        []string{"Export"},
		Middlewares: huma.Middlewares{s.rateLimit(s.exportLimiter)},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "The filtered catalog",
				Content: map[string]*huma.MediaType{
					"text/csv": {},
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
				},
			},
		},
	}, s.handleExport)
}

// ExportInput selects the file format.
type ExportInput struct {
	FilterParams
	Format string `query:"format" default:"csv" doc:"File format: csv or xlsx"`
}

func (s *Server) handleExport(ctx context.Context, input *ExportInput) (*huma.StreamResponse, error) {
	result, err := s.services.Export.Export(ctx, input.Filter(), input.Format)
	if err != nil {
		return nil, mapError(err)
	}

	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", result.ContentType)
			ctx.SetHeader("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
			ctx.SetHeader("Cache-Control", CacheNoStore)
			ctx.SetHeader("X-Export-Rows", strconv.Itoa(result.Rows))
			if _, err := ctx.BodyWriter().Write(result.Body); err != nil {
				s.logger.Warn("Failed to write export", "id", result.ID, "error", err)
			}
		},
	}, nil
}
