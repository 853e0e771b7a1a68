package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	info, err := os.Stat(filepath.Join(dir, KeyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, again, "key is stable across restarts")
}

func TestLoadOrGenerateKey_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	hexKey := "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyFileName), []byte(hexKey+"\n"), 0o600))

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, byte(0x1f), key[31])
}

func TestLoadOrGenerateKey_Corrupt(t *testing.T) {
	tests := map[string]string{
		"short":   "abcd",
		"not hex": "zz0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, KeyFileName), []byte(content), 0o600))

			_, err := LoadOrGenerateKey(dir)
			assert.Error(t, err)
		})
	}
}
