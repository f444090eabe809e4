package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/flixlens/flixlens/internal/logger"
	"github.com/flixlens/flixlens/internal/sse"
)

// shutdownTimeout bounds each handle's graceful stop.
const shutdownTimeout = 30 * time.Second

// SSEManagerHandle runs the event manager that pushes dataset reloads to
// open dashboards. cancel ends its broadcast loop.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

func (h *SSEManagerHandle) Shutdown() error {
	defer h.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager starts the manager. The catalog service emits into it
// and the HTTP server streams from it.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	manager := sse.NewManager(log.WithComponent("sse"))
	go manager.Start(ctx)

	return &SSEManagerHandle{Manager: manager, cancel: cancel}, nil
}
