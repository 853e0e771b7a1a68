// Package auth provides password hashing, key management and PASETO tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// KeyFileName is the access token key file inside the data directory.
	KeyFileName = "auth.key"

	// PASETO v4 requires a 256-bit (32-byte) symmetric key.
	keyLength = 32
)

// LoadOrGenerateKey returns the access token key stored hex-encoded in
// <dataPath>/auth.key, generating and saving a new one on first start.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, KeyFileName)

	//#nosec G304 -- Auth key path is derived from the configured data path
	keyBytes, err := os.ReadFile(keyPath)
	switch {
	case err == nil:
		return parseKey(strings.TrimSpace(string(keyBytes)))
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// O_EXCL so two processes starting together cannot clobber each other's key.
	f, err := os.OpenFile(keyPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return LoadOrGenerateKey(dataPath)
		}
		return nil, fmt.Errorf("failed to save auth key: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(hex.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("failed to save auth key: %w", err)
	}

	return key, nil
}

func parseKey(keyHex string) ([]byte, error) {
	if len(keyHex) != hex.EncodedLen(keyLength) {
		return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", hex.EncodedLen(keyLength), len(keyHex))
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid auth key format: not valid hex: %w", err)
	}
	return key, nil
}
