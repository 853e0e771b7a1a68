package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/color"
	"github.com/shioriapp/shiori-server/internal/domain"
	domainerrors "github.com/shioriapp/shiori-server/internal/errors"
	"github.com/shioriapp/shiori-server/internal/sse"
)

func strPtr(s string) *string { return &s }

func TestGetOrCreate_CreatesDefaultOnce(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")
	ctx := context.Background()

	p, err := env.profiles.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUsername, p.Username)
	assert.Equal(t, domain.DefaultBio, p.Bio)
	assert.Empty(t, p.AestheticColors)

	_, err = env.profiles.Update(ctx, "user-1", UpdateProfileRequest{Username: strPtr("Mika")})
	require.NoError(t, err)

	again, err := env.profiles.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Mika", again.Username)
}

func TestUpdate_PartialAndEmitsEvent(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")
	ctx := context.Background()

	p, err := env.profiles.Update(ctx, "user-1", UpdateProfileRequest{
		Bio:       strPtr("  Cozy mysteries only  "),
		AvatarURL: strPtr("https://cdn.example.com/me.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUsername, p.Username)
	assert.Equal(t, "Cozy mysteries only", p.Bio)
	assert.Equal(t, "https://cdn.example.com/me.png", p.AvatarURL)

	// Empty avatar clears it.
	p, err = env.profiles.Update(ctx, "user-1", UpdateProfileRequest{AvatarURL: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, p.AvatarURL)

	assert.Equal(t, []sse.EventType{sse.EventProfileUpdated, sse.EventProfileUpdated}, env.events.types())
	assert.Equal(t, "user-1", env.events.events[0].UserID)
}

func TestUpdate_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")

	tests := []struct {
		name  string
		req   UpdateProfileRequest
		field string
	}{
		{"empty username", UpdateProfileRequest{Username: strPtr("")}, "username"},
		{"blank username", UpdateProfileRequest{Username: strPtr("   ")}, "username"},
		{"long username", UpdateProfileRequest{Username: strPtr(strings.Repeat("a", 41))}, "username"},
		{"long bio", UpdateProfileRequest{Bio: strPtr(strings.Repeat("b", 281))}, "bio"},
		{"bad avatar", UpdateProfileRequest{AvatarURL: strPtr("me.png")}, "avatar_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.profiles.Update(context.Background(), "user-1", tt.req)
			require.ErrorIs(t, err, domainerrors.ErrValidation)

			var derr *domainerrors.Error
			require.ErrorAs(t, err, &derr)
			assert.Contains(t, derr.Details, tt.field)
		})
	}
}

func TestUpdate_UsernameCountsRunes(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")

	p, err := env.profiles.Update(context.Background(), "user-1", UpdateProfileRequest{
		Username: strPtr(strings.Repeat("栞", 40)),
	})
	require.NoError(t, err)
	assert.Equal(t, 40, len([]rune(p.Username)))
}

func TestAesthetic_View(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")
	ctx := context.Background()

	for _, b := range []LikeRequest{
		{ID: "1", URI: "dark_forest.jpg", Title: "Night Trees"},
		{ID: "2", URI: "midnight.jpg", Title: "Shadow Play"},
		{ID: "3", URI: "sunny_beach.jpg", Title: "Bright Day"},
	} {
		_, err := env.likes.Toggle(ctx, "user-1", b)
		require.NoError(t, err)
	}

	view, err := env.profiles.Aesthetic(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, view.SavedCount)
	assert.Equal(t, len(view.Aesthetic.TopAesthetics), view.AestheticCount)
	assert.Equal(t, color.ForUser("user-1"), view.AvatarColor)
	assert.Equal(t, color.TextOn(view.AvatarColor), view.AvatarTextColor)

	want := aesthetic.Aggregate([]aesthetic.BookRef{
		{ImageRef: "dark_forest.jpg", Title: "Night Trees"},
		{ImageRef: "midnight.jpg", Title: "Shadow Play"},
		{ImageRef: "sunny_beach.jpg", Title: "Bright Day"},
	})
	if diff := cmp.Diff(want, view.Aesthetic); diff != "" {
		t.Errorf("aesthetic profile mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, aesthetic.Dark, view.Aesthetic.TopAesthetics[0].Name)
	assert.Equal(t, 2, view.Aesthetic.TopAesthetics[0].Count)

	// The stored palette follows the liked set.
	assert.Equal(t, want.ColorPalette, view.Profile.AestheticColors)
}

func TestAesthetic_EmptyBoard(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")

	view, err := env.profiles.Aesthetic(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Zero(t, view.SavedCount)
	assert.Zero(t, view.AestheticCount)
	assert.NotNil(t, view.Aesthetic.TopAesthetics)
	assert.Empty(t, view.Aesthetic.ColorPalette)
}
