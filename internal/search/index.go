package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// indexDirName is the bleve directory created under Options.DataPath.
const indexDirName = "titles.bleve"

// batchSize bounds the documents sent to bleve per batch.
const batchSize = 500

// SearchIndex is a bleve index over catalog titles. It holds no state of
// its own: the catalog service refills it with Replace on every load, so an
// index on disk is only a way to keep it out of memory.
//
// All methods are safe for concurrent use. Replace holds the write lock
// while the index is rebuilt, so a search never sees half a catalog.
type SearchIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	logger *slog.Logger
}

// Options configures the search index.
type Options struct {
	// DataPath is the directory holding the index. Empty keeps it in memory.
	DataPath string
	Logger   *slog.Logger
}

// NewSearchIndex creates an empty index. Anything left on disk from a
// previous run is discarded.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	s := &SearchIndex{logger: opts.Logger}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	if opts.DataPath != "" {
		if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
			return nil, fmt.Errorf("create index dir: %w", err)
		}
		s.path = filepath.Join(opts.DataPath, indexDirName)
	}

	index, err := s.create()
	if err != nil {
		return nil, err
	}
	s.index = index
	return s, nil
}

// create opens a fresh bleve index at s.path, or in memory.
func (s *SearchIndex) create() (bleve.Index, error) {
	if s.path == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return index, nil
	}

	if err := os.RemoveAll(s.path); err != nil {
		return nil, fmt.Errorf("remove stale index: %w", err)
	}
	index, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index %s: %w", s.path, err)
	}
	return index, nil
}

// Close releases the index. A disk index is left in place until the next
// NewSearchIndex.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexDocuments adds docs to the current index.
func (s *SearchIndex) IndexDocuments(docs []*TitleDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.add(docs)
}

func (s *SearchIndex) add(docs []*TitleDocument) error {
	for start := 0; start < len(docs); start += batchSize {
		chunk := docs[start:min(start+batchSize, len(docs))]

		batch := s.index.NewBatch()
		for _, doc := range chunk {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("index row %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch at %d: %w", start, err)
		}
	}
	return nil
}

// DocumentCount returns the number of indexed titles.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Replace swaps the indexed titles for docs.
func (s *SearchIndex) Replace(docs []*TitleDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	index, err := s.create()
	if err != nil {
		return err
	}
	s.index = index

	if err := s.add(docs); err != nil {
		return err
	}
	s.logger.Info("search index replaced", "documents", len(docs))
	return nil
}
