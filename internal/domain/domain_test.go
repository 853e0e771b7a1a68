package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
)

func TestBookTags_AlwaysExtracts(t *testing.T) {
	b := &Book{URI: "dark_cover.jpg", Title: "Night Watch"}
	want := aesthetic.Extract("dark_cover.jpg", "Night Watch")

	assert.Equal(t, want, b.Tags())

	b.Aesthetics = aesthetic.TagSet{aesthetic.Earthy, aesthetic.Earthy, aesthetic.Earthy}
	assert.Equal(t, want, b.Tags())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "reader@example.com", NormalizeEmail("  Reader@Example.COM "))
	u := &User{Email: "A@B.io"}
	assert.Equal(t, "a@b.io", u.NormalizedEmail())
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(time.Minute)))
}

func TestNewProfile_Defaults(t *testing.T) {
	p := NewProfile("user-1")

	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "BookLover", p.Username)
	assert.Equal(t, DefaultBio, p.Bio)
	assert.NotNil(t, p.AestheticColors)
	assert.Empty(t, p.AestheticColors)
	assert.False(t, p.CreatedAt.IsZero())
}
