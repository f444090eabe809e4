package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/flixlens/flixlens/internal/api"
	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/logger"
	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/telemetry"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
	addr    net.Addr
}

// ListenAddr is the bound address, with port 0 resolved to the port in use.
func (h *HTTPServerHandle) ListenAddr() net.Addr { return h.addr }

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer h.handler.Close()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	metrics := do.MustInvoke[*telemetry.Metrics](i)

	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	services := &api.Services{
		Catalog:   do.MustInvoke[*service.CatalogService](i),
		Dashboard: do.MustInvoke[*service.DashboardService](i),
		Export:    do.MustInvoke[*service.ExportService](i),
		Search:    do.MustInvoke[*service.SearchService](i),
		Events:    sseHandle.Manager,
	}

	handler := api.NewServer(cfg, services, metrics, log.WithComponent("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Shutdown waits for open requests, and event streams only end when
	// the manager stops.
	srv.RegisterOnShutdown(sseHandle.cancel)

	// Bind before returning so a taken port fails bootstrap instead of
	// leaving a process that serves nothing.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		handler.Close()
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Dashboard available", "addr", ln.Addr().String())

	return &HTTPServerHandle{Server: srv, handler: handler, addr: ln.Addr()}, nil
}
