package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/flixlens/flixlens/internal/config"
	"github.com/flixlens/flixlens/internal/logger"
	"github.com/flixlens/flixlens/internal/search"
	"github.com/flixlens/flixlens/internal/store/sqlite"
)

// StoreHandle owns the SQLite frame every dashboard query runs against.
type StoreHandle struct {
	*sqlite.Store
}

func (h *StoreHandle) Shutdown() error { return h.Close() }

// SearchIndexHandle owns the full-text index behind the explorer search box.
type SearchIndexHandle struct {
	*search.SearchIndex
}

func (h *SearchIndexHandle) Shutdown() error { return h.Close() }

// ProvideStore opens the store at cfg.Dataset.StorePath. An empty path keeps
// it in memory, which is the default since the CSV is the source of truth.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := sqlite.Open(context.Background(), sqlite.Options{
		Path:   cfg.Dataset.StorePath,
		Logger: log.WithComponent("store"),
	})
	if err != nil {
		return nil, err
	}
	return &StoreHandle{Store: st}, nil
}

// ProvideSearchIndex opens the bleve index. It is rebuilt on every load, so
// a persistent path only saves memory.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Search.IndexPath,
		Logger:   log.WithComponent("search"),
	})
	if err != nil {
		return nil, err
	}

	location := cfg.Search.IndexPath
	if location == "" {
		location = "memory"
	}
	log.Debug("Search index opened", "location", location)

	return &SearchIndexHandle{SearchIndex: index}, nil
}
