package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/logger"
	"github.com/flixlens/flixlens/internal/service"
	"github.com/flixlens/flixlens/internal/watcher"
)

// FileWatcherHandle reloads the catalog when the dataset file changes.
// Watcher is nil when DATASET_WATCH is off.
type FileWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

func (h *FileWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Stop()
}

// ProvideFileWatcher feeds watcher events into CatalogService.Follow.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)

	if !cfg.Dataset.Watch {
		log.Debug("Dataset watch disabled")
		return &FileWatcherHandle{}, nil
	}

	wlog := log.WithComponent("watcher")
	w, err := watcher.New(wlog, cfg.Dataset.Path, watcher.Options{SettleDelay: cfg.Dataset.SettleDelay})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Start(ctx); err != nil {
			wlog.Error("Watcher stopped", "error", err)
		}
	}()
	go catalogService.Follow(ctx, w.Events())
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-w.Errors():
				wlog.Warn("Watch error", "error", err)
			}
		}
	}()

	log.Info("Watching dataset", "path", w.Path(), "settle_delay", cfg.Dataset.SettleDelay)
	return &FileWatcherHandle{Watcher: w, cancel: cancel}, nil
}
