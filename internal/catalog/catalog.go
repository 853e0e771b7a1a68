// Package catalog serves a curated list of books from a YAML file and
// reloads it when the file changes.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/layout"
	"github.com/shioriapp/shiori-server/internal/watcher"
)

//go:embed default.yaml
var defaultSeed []byte

// Entry is one curated book as written in the YAML file.
type Entry struct {
	ID     string `yaml:"id"`
	URI    string `yaml:"uri"`
	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`
}

type seedFile struct {
	Books []Entry `yaml:"books"`
}

// Catalog holds the curated books.
type Catalog struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	books []domain.Book

	watcher  *watcher.Watcher
	closed   bool
	onReload func(books int)
}

// New creates a catalogue backed by path. An empty path uses the built-in
// list. Call Load before use.
func New(path string, logger *slog.Logger) *Catalog {
	return &Catalog{path: path, logger: logger}
}

// Load (re)reads the catalogue. A missing file yields an empty catalogue.
// On a parse error the previous books are kept.
func (c *Catalog) Load() error {
	data := defaultSeed
	if c.path != "" {
		var err error
		data, err = os.ReadFile(c.path)
		if errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("seed catalogue file not found, featured shelf is empty", "path", c.path)
			c.set(nil)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read seed catalogue: %w", err)
		}
	}

	books, err := Parse(data)
	if err != nil {
		return err
	}
	c.set(books)
	c.logger.Info("seed catalogue loaded", "path", c.path, "books", len(books))
	return nil
}

// Parse decodes a YAML catalogue into books with aesthetics and heights.
// Entries without an id or uri are skipped.
func Parse(data []byte) ([]domain.Book, error) {
	var f seedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed catalogue: %w", err)
	}

	books := make([]domain.Book, 0, len(f.Books))
	seen := make(map[string]bool, len(f.Books))
	for _, e := range f.Books {
		if e.ID == "" || e.URI == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		books = append(books, domain.Book{
			ID:         e.ID,
			URI:        e.URI,
			Title:      e.Title,
			Author:     e.Author,
			Aesthetics: aesthetic.Extract(e.URI, e.Title),
			Height:     layout.HeightFor(e.ID),
		})
	}
	return books, nil
}

func (c *Catalog) set(books []domain.Book) {
	c.mu.Lock()
	c.books = books
	c.mu.Unlock()
}

// Books returns a copy of the curated books.
func (c *Catalog) Books() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := slices.Clone(c.books)
	if out == nil {
		out = []domain.Book{}
	}
	return out
}

// OnReload registers fn to run after each successful reload from Watch.
func (c *Catalog) OnReload(fn func(books int)) {
	c.mu.Lock()
	c.onReload = fn
	c.mu.Unlock()
}

// Loaded reports whether any books are available.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.books) > 0
}

// Watch reloads the catalogue whenever its file changes, until ctx is done
// or Close is called. It is a no-op for the built-in list.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return nil
	}

	w, err := watcher.New(c.logger, watcher.Options{})
	if err != nil {
		return err
	}
	if err := w.Watch(c.path); err != nil {
		_ = w.Stop()
		return err
	}

	c.mu.Lock()
	if c.closed || c.watcher != nil {
		c.mu.Unlock()
		_ = w.Stop()
		return nil
	}
	c.watcher = w
	w.Start(ctx)
	c.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events():
				if !ok {
					return
				}
				c.logger.Info("seed catalogue changed", "event", ev.Type.String())
				if err := c.Load(); err != nil {
					c.logger.Error("reload seed catalogue", "error", err)
					continue
				}
				c.mu.RLock()
				fn, n := c.onReload, len(c.books)
				c.mu.RUnlock()
				if fn != nil {
					fn(n)
				}
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				c.logger.Warn("seed catalogue watcher error", "error", err)
			}
		}
	}()
	return nil
}

// Close stops watching. Watch calls after Close do nothing.
func (c *Catalog) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.closed = true
	c.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Stop()
}
