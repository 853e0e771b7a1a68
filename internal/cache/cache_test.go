package cache

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Term  string   `json:"term"`
	Books []string `json:"books"`
}

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := Open(Options{
		InMemory:   true,
		DefaultTTL: ttl,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSetGet(t *testing.T) {
	c := newTestCache(t, time.Minute)

	require.NoError(t, c.Set("poetry|9020", entry{Term: "verse", Books: []string{"a", "b"}}, 0))

	var got entry
	ok, err := c.Get("poetry|9020", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entry{Term: "verse", Books: []string{"a", "b"}}, got)
}

func TestGet_Missing(t *testing.T) {
	c := newTestCache(t, time.Minute)

	var got entry
	ok, err := c.Get("nope", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSet_Expires(t *testing.T) {
	c := newTestCache(t, time.Minute)

	// Badger TTLs have one-second resolution.
	require.NoError(t, c.Set("short", entry{Term: "x"}, time.Second))

	assert.Eventually(t, func() bool {
		var got entry
		ok, err := c.Get("short", &got)
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestDelete(t *testing.T) {
	c := newTestCache(t, time.Minute)

	require.NoError(t, c.Set("k", entry{Term: "x"}, 0))
	require.NoError(t, c.Delete("k"))
	require.NoError(t, c.Delete("never-set"))

	var got entry
	ok, err := c.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(Options{Path: dir, DefaultTTL: time.Hour})
	require.NoError(t, err)
	require.NoError(t, c.Set("k", entry{Term: "disk"}, 0))
	require.NoError(t, c.Close())

	c2, err := Open(Options{Path: dir, DefaultTTL: time.Hour})
	require.NoError(t, err)
	defer c2.Close()

	var got entry
	ok, err := c2.Get("k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "disk", got.Term)
	assert.NoError(t, c2.Ping())
}
