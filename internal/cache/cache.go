// Package cache is a Badger-backed TTL cache for catalogue search results.
package cache

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Options configures the cache.
type Options struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path       string
	InMemory   bool
	DefaultTTL time.Duration
	Logger     *slog.Logger
}

// Cache stores JSON-encoded values with a per-entry expiry.
type Cache struct {
	db         *badger.DB
	defaultTTL time.Duration
	logger     *slog.Logger
}

// Open opens (or creates) the cache.
func Open(opts Options) (*Cache, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil // Badger's own logging is too chatty
	bopts.CompactL0OnClose = true

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("results cache opened", "path", opts.Path, "in_memory", opts.InMemory, "ttl", opts.DefaultTTL)

	return &Cache{db: db, defaultTTL: opts.DefaultTTL, logger: logger}, nil
}

// Get decodes the value stored under key into dest.
// It reports false when the key is missing or expired.
func (c *Cache) Get(key string, dest any) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key. A zero ttl uses the default TTL; if that is
// also zero the entry never expires.
func (c *Cache) Set(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Ping checks the cache is usable.
func (c *Cache) Ping() error {
	if c.db.IsClosed() {
		return errors.New("cache is closed")
	}
	return nil
}

// Close flushes and closes the cache.
func (c *Cache) Close() error {
	c.logger.Info("closing results cache")
	return c.db.Close()
}
