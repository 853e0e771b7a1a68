package search

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// BoardIndex wraps a Bleve index of liked books.
//
// All public methods are safe for concurrent use.
type BoardIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the board index.
type Options struct {
	DataPath string       // Directory for index storage
	InMemory bool         // Keep the index in memory only (tests)
	Logger   *slog.Logger // Uses discard if nil
}

// mappingVersion is bumped whenever the index mapping changes.
// A mismatch on startup drops and recreates the index.
const mappingVersion = "1"

// NewBoardIndex creates or opens the board index.
// An existing index that is corrupted or has an outdated mapping is removed
// and recreated.
func NewBoardIndex(opts Options) (*BoardIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.InMemory {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &BoardIndex{index: index, logger: logger}, nil
	}

	if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create search dir: %w", err)
	}

	indexPath := filepath.Join(opts.DataPath, "boards.bleve")
	versionPath := filepath.Join(opts.DataPath, "boards.version")

	var index bleve.Index
	needsRebuild := false

	if _, statErr := os.Stat(indexPath); statErr == nil {
		existingVersion, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil:
			logger.Info("board index has no version file, will rebuild", "new_version", mappingVersion)
			needsRebuild = true
		case string(existingVersion) != mappingVersion:
			logger.Info("board index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		default:
			var err error
			index, err = bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open existing index, will recreate", "path", indexPath, "error", err)
				needsRebuild = true
			}
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
		index = nil
	}

	if index == nil {
		var err error
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil {
			logger.Warn("failed to write board index version file", "error", writeErr)
		}
		logger.Info("created new board index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing board index", "path", indexPath)
	}

	return &BoardIndex{index: index, path: indexPath, logger: logger}, nil
}

// Close closes the index and releases resources.
func (b *BoardIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index.Close()
}

// IndexDocument adds or replaces a document.
func (b *BoardIndex) IndexDocument(doc *BoardDocument) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.index.Index(doc.ID(), doc.ToMap())
}

// IndexDocuments indexes many documents in one batch.
func (b *BoardIndex) IndexDocuments(docs []*BoardDocument) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	batch := b.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID(), doc.ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID(), err)
		}
	}
	return b.index.Batch(batch)
}

// DeleteDocument removes a user's liked book from the index.
func (b *BoardIndex) DeleteDocument(userID, bookID string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.index.Delete(DocumentID(userID, bookID))
}

// DocumentCount returns the total number of indexed documents.
func (b *BoardIndex) DocumentCount() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.index.DocCount()
}
