package images

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage(t *testing.T) {
	t.Run("creates covers directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, storage)

		info, err := os.Stat(filepath.Join(tmpDir, "covers"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		storage, err := NewStorage("")
		assert.Error(t, err)
		assert.Nil(t, storage)
		assert.Contains(t, err.Error(), "base path cannot be empty")
	})

	t.Run("returns error for empty subdir", func(t *testing.T) {
		_, err := NewStorageWithSubdir(t.TempDir(), "")
		assert.Error(t, err)
	})
}

func TestValidID(t *testing.T) {
	tests := map[string]bool{
		"1440000001-0-3f1c": true,
		"7":                 true,
		"":                  false,
		".":                 false,
		"..":                false,
		"../auth.key":       false,
		"covers/1":          false,
		`..\windows`:        false,
		"a..b":              false,
	}
	for id, want := range tests {
		assert.Equal(t, want, ValidID(id), "id %q", id)
	}
}

func TestStorage_SaveGetDelete(t *testing.T) {
	storage := setupTestStorage(t)
	data := []byte("jpeg bytes")

	require.NoError(t, storage.Save("1440000001-0-abc", data))
	assert.True(t, storage.Exists("1440000001-0-abc"))

	got, err := storage.Get("1440000001-0-abc")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = os.Stat(storage.Path("1440000001-0-abc") + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not linger")

	require.NoError(t, storage.Delete("1440000001-0-abc"))
	assert.False(t, storage.Exists("1440000001-0-abc"))

	// Deleting twice is fine.
	require.NoError(t, storage.Delete("1440000001-0-abc"))
}

func TestStorage_Errors(t *testing.T) {
	storage := setupTestStorage(t)

	err := storage.Save("book-1", nil)
	assert.Contains(t, err.Error(), "image data cannot be empty")

	assert.ErrorIs(t, storage.Save("../escape", []byte("x")), ErrInvalidID)

	_, err = storage.Get("../escape")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = storage.Get("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.False(t, storage.Exists(""))
	assert.ErrorIs(t, storage.Delete(""), ErrInvalidID)
}

func TestStorage_Hash(t *testing.T) {
	storage := setupTestStorage(t)
	require.NoError(t, storage.Save("a", []byte("same")))
	require.NoError(t, storage.Save("b", []byte("same")))
	require.NoError(t, storage.Save("c", []byte("different")))

	ha, err := storage.Hash("a")
	require.NoError(t, err)
	hb, _ := storage.Hash("b")
	hc, _ := storage.Hash("c")

	assert.Len(t, ha, 64)
	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
}

func TestStorage_Concurrent(t *testing.T) {
	storage := setupTestStorage(t)
	const goroutines = 10

	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Go(func() {
			assert.NoError(t, storage.Save("book-123", []byte{byte(i + 1)}))
			_, _ = storage.Get("book-123")
		})
	}
	wg.Wait()

	data, err := storage.Get("book-123")
	require.NoError(t, err)
	assert.Len(t, data, 1)
}

// setupTestStorage creates a Storage instance with a temporary directory.
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return storage
}
