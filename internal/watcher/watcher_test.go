package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)), Options{Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestOptions_Defaults(t *testing.T) {
	var o Options
	o.setDefaults()
	assert.Equal(t, 200*time.Millisecond, o.Debounce)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "changed", EventChanged.String())
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "unknown", EventType(99).String())
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("books: []\n"), 0o600))

	w := newTestWatcher(t)
	require.NoError(t, w.Watch(path))
	w.Start(context.Background())

	for range 5 {
		require.NoError(t, os.WriteFile(path, []byte("books: []\n# edit\n"), 0o600))
	}

	ev := waitEvent(t, w)
	assert.Equal(t, EventChanged, ev.Type)
	assert.Equal(t, path, ev.Path)

	select {
	case extra := <-w.Events():
		t.Fatalf("unexpected second event: %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	w := newTestWatcher(t)
	require.NoError(t, w.Watch(path))
	w.Start(context.Background())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("y"), 0o600))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_Removed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	w := newTestWatcher(t)
	require.NoError(t, w.Watch(path))
	w.Start(context.Background())

	require.NoError(t, os.Remove(path))

	ev := waitEvent(t, w)
	assert.Equal(t, EventRemoved, ev.Type)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := newTestWatcher(t)
	w.Start(context.Background())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
