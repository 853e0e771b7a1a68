// Package id generates prefixed NanoID identifiers ("user-V1StGXR8_Z5jdHi6B-myT").
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes in use across the server.
const (
	PrefixUser    = "user"
	PrefixSession = "sess"
	PrefixToken   = "token"
	PrefixSSE     = "sse"
)

// Generate creates "<prefix>-<nanoid>" with a default 21 character NanoID.
// It only fails when the system runs out of entropy.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// HasPrefix reports whether id was generated with prefix.
func HasPrefix(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	return ok && rest != ""
}
