package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flixlens/flixlens/internal/catalog"
	domainerrors "github.com/flixlens/flixlens/internal/errors"
	"github.com/flixlens/flixlens/internal/id"
	"github.com/flixlens/flixlens/internal/search"
	"github.com/flixlens/flixlens/internal/sse"
	"github.com/flixlens/flixlens/internal/store"
	"github.com/flixlens/flixlens/internal/telemetry"
	"github.com/flixlens/flixlens/internal/watcher"
)

// Snapshot describes the catalog currently being served.
type Snapshot struct {
	ID            string          `json:"id"`
	Path          string          `json:"path"`
	LoadedAt      time.Time       `json:"loaded_at"`
	Rows          int             `json:"rows"`
	Titles        int             `json:"titles"`
	Skipped       int             `json:"skipped"`
	Repaired      int             `json:"repaired"`
	Issues        []catalog.Issue `json:"issues,omitempty"`
	SearchIndexed bool            `json:"search_indexed"`
}

// CatalogService owns the loaded dataset. Loads swap the store and the
// search index under the write lock; every view runs under the read lock,
// so no query observes a half-replaced catalog.
type CatalogService struct {
	path    string
	store   store.Store
	index   *search.SearchIndex
	metrics *telemetry.Metrics
	logger  *slog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot

	events EventEmitter
}

// EventEmitter receives catalog lifecycle events for connected dashboards.
type EventEmitter interface {
	Emit(event any)
}

// NewCatalogService creates a catalog service reading from path. index and
// metrics may be nil.
func NewCatalogService(path string, store store.Store, index *search.SearchIndex, metrics *telemetry.Metrics, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CatalogService{
		path:    path,
		store:   store,
		index:   index,
		metrics: metrics,
		logger:  logger,
	}
}

// SetEventEmitter makes loads and failed reloads visible to e.
func (s *CatalogService) SetEventEmitter(e EventEmitter) {
	s.events = e
}

// Path returns the file the catalog is loaded from.
func (s *CatalogService) Path() string {
	return s.path
}

// Load reads the configured file and makes it the served catalog.
func (s *CatalogService) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	ds, err := catalog.LoadFile(s.path)
	if err != nil {
		s.metrics.ObserveLoad(err, time.Since(start), 0, 0)
		return nil, err
	}

	snap, err := s.Apply(ctx, ds, s.path)
	s.metrics.ObserveLoad(err, time.Since(start), ds.Report.Loaded, ds.Report.Skipped)
	if err == nil && s.events != nil {
		s.events.Emit(sse.NewDatasetLoadedEvent(snap.ID, snap.Path, snap.Titles, snap.Skipped))
	}
	return snap, err
}

// Reload re-reads the file for a running process. On failure the previous
// catalog keeps being served.
func (s *CatalogService) Reload(ctx context.Context) (*Snapshot, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		s.logger.Warn("catalog reload failed, keeping previous dataset",
			"path", s.path,
			"error", err,
		)
		if s.events != nil {
			s.events.Emit(sse.NewDatasetReloadFailedEvent(s.path, err))
		}
		return nil, err
	}
	return snap, nil
}

// Apply replaces the served catalog with an already parsed dataset.
func (s *CatalogService) Apply(ctx context.Context, ds *catalog.Dataset, source string) (*Snapshot, error) {
	if len(ds.Titles) == 0 {
		return nil, domainerrors.ValidationWithDetails(
			"catalog contains no usable rows",
			map[string]any{"rows": ds.Report.Rows, "skipped": ds.Report.Skipped},
		)
	}

	snapID, err := id.Generate(id.PrefixSnapshot)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate snapshot id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Replace(ctx, ds.Titles); err != nil {
		return nil, fmt.Errorf("replace catalog: %w", err)
	}

	indexed := false
	if s.index != nil {
		docs := make([]*search.TitleDocument, len(ds.Titles))
		for i := range ds.Titles {
			docs[i] = search.NewTitleDocument(&ds.Titles[i])
		}
		// The store is authoritative; a failed reindex degrades search only.
		if err := s.index.Replace(docs); err != nil {
			s.logger.Error("search index rebuild failed", "error", err)
		} else {
			indexed = true
		}
	}

	snap := &Snapshot{
		ID:            snapID,
		Path:          source,
		LoadedAt:      time.Now().UTC(),
		Rows:          ds.Report.Rows,
		Titles:        ds.Report.Loaded,
		Skipped:       ds.Report.Skipped,
		Repaired:      ds.Report.Repaired,
		Issues:        ds.Report.Issues,
		SearchIndexed: indexed,
	}
	s.snapshot = snap

	s.logger.Info("catalog loaded",
		"snapshot", snap.ID,
		"path", source,
		"titles", snap.Titles,
		"skipped", snap.Skipped,
		"repaired", snap.Repaired,
		"search_indexed", indexed,
	)

	return snap, nil
}

// Snapshot returns the served catalog description.
func (s *CatalogService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, domainerrors.Unavailable("catalog is not loaded")
	}
	snap := *s.snapshot
	return &snap, nil
}

// Loaded reports whether a catalog is being served.
func (s *CatalogService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

// Options returns the filter values present in the catalog.
func (s *CatalogService) Options(ctx context.Context) (*store.FilterOptions, error) {
	var opts *store.FilterOptions
	err := s.Read(func(v View) error {
		var err error
		opts, err = v.Store.FilterOptions(ctx)
		return err
	})
	return opts, err
}

// View is the served catalog as seen by one read.
type View struct {
	Store    store.Store
	Index    *search.SearchIndex // nil unless the last load indexed it
	Snapshot Snapshot
}

// Read runs fn against the served catalog under the read lock.
func (s *CatalogService) Read(fn func(v View) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return domainerrors.Unavailable("catalog is not loaded")
	}
	v := View{Store: s.store, Snapshot: *s.snapshot}
	if s.snapshot.SearchIndexed {
		v.Index = s.index
	}
	return fn(v)
}

// Follow reloads the catalog for every settled change until ctx is done or
// events is closed. Removal of the file keeps the current catalog.
func (s *CatalogService) Follow(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type == watcher.EventRemoved {
				s.logger.Warn("catalog file removed, keeping current dataset", "path", event.Path)
				continue
			}
			s.logger.Info("catalog file changed, reloading", "path", event.Path, "size", event.Size)
			_, _ = s.Reload(ctx)
		}
	}
}
