package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flixlens/flixlens/internal/service"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// Component statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth, 3)

	if s.services == nil || s.services.Catalog == nil {
		components["dataset"] = ComponentHealth{Status: statusDegraded, Message: "catalog service not configured"}
	} else {
		err := s.services.Catalog.Read(func(v service.View) error {
			components["dataset"] = ComponentHealth{
				Status:  statusHealthy,
				Message: fmt.Sprintf("%d titles, loaded %s", v.Snapshot.Titles, v.Snapshot.LoadedAt.Format(time.RFC3339)),
			}
			components["database"] = checkDatabase(ctx, v)
			components["search"] = checkSearchIndex(v)
			return nil
		})
		if err != nil {
			components["dataset"] = ComponentHealth{Status: statusUnhealthy, Message: err.Error()}
		}
	}

	overall := statusHealthy
	for _, c := range components {
		switch c.Status {
		case statusUnhealthy:
			overall = statusUnhealthy
		case statusDegraded:
			if overall == statusHealthy {
				overall = statusDegraded
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDatabase verifies the SQLite dataframe answers.
func checkDatabase(ctx context.Context, v service.View) ComponentHealth {
	start := time.Now()
	err := v.Store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "database ping failed",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Latency: latency.String(),
	}
}

// checkSearchIndex verifies the Bleve index is accessible. A catalog served
// without an index still answers every dashboard view.
func checkSearchIndex(v service.View) ComponentHealth {
	if v.Index == nil {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "search index not built",
		}
	}

	start := time.Now()
	docCount, err := v.Index.DocumentCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Latency: latency.String(),
		Message: fmt.Sprintf("%d documents", docCount),
	}
}
