package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/color"
	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/service"
)

func TestGetProfile_Defaults(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")

	resp := ts.api.Get("/api/v1/profile", bearer)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	view := decode[service.ProfileView](t, resp).Data
	require.NotNil(t, view.Profile)
	assert.Equal(t, domain.DefaultUsername, view.Profile.Username)
	assert.Equal(t, domain.DefaultBio, view.Profile.Bio)
	assert.Equal(t, color.ForUser(view.Profile.UserID), view.AvatarColor)
	assert.Equal(t, color.TextOn(view.AvatarColor), view.AvatarTextColor)
	assert.Zero(t, view.SavedCount)
	assert.Zero(t, view.AestheticCount)
	assert.Empty(t, view.Aesthetic.TopAesthetics)
}

func TestGetProfile_CountsLikes(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")

	// b1_dark.jpg is [Dark Cool], b2_dark.jpg is [Dark Vibrant].
	ts.like(t, bearer, map[string]any{"id": "b1", "uri": "b1_dark.jpg"})
	ts.like(t, bearer, map[string]any{"id": "b2", "uri": "b2_dark.jpg"})

	resp := ts.api.Get("/api/v1/profile", bearer)
	require.Equal(t, http.StatusOK, resp.Code)

	view := decode[service.ProfileView](t, resp).Data
	assert.Equal(t, 2, view.SavedCount)
	assert.Equal(t, 3, view.AestheticCount)
	assert.Equal(t, aesthetic.Dark, view.Aesthetic.TopAesthetics[0].Name)
	assert.Equal(t, 2, view.Aesthetic.TopAesthetics[0].Count)
	assert.Equal(t, []string{
		"#1a1a1a",
		aesthetic.ColorFor(aesthetic.Cool),
		aesthetic.ColorFor(aesthetic.Vibrant),
	}, view.Profile.AestheticColors)
}

func TestUpdateProfile(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")

	resp := ts.api.Patch("/api/v1/profile", bearer, map[string]any{
		"username": "  Mika  ",
		"bio":      "Collecting covers.",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	view := decode[service.ProfileView](t, resp).Data
	assert.Equal(t, "Mika", view.Profile.Username)
	assert.Equal(t, "Collecting covers.", view.Profile.Bio)

	// Omitted fields are left alone.
	resp = ts.api.Patch("/api/v1/profile", bearer, map[string]any{"avatar_url": "https://img.example/me.png"})
	require.Equal(t, http.StatusOK, resp.Code)
	view = decode[service.ProfileView](t, resp).Data
	assert.Equal(t, "Mika", view.Profile.Username)
	assert.Equal(t, "https://img.example/me.png", view.Profile.AvatarURL)
}

func TestUpdateProfile_Validation(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{name: "bio too long", body: map[string]any{"bio": strings.Repeat("a", 281)}, field: "bio"},
		{name: "blank username", body: map[string]any{"username": " "}, field: "username"},
		{name: "bad avatar url", body: map[string]any{"avatar_url": "not a url"}, field: "avatar_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Patch("/api/v1/profile", bearer, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			env := decode[any](t, resp)
			assert.Equal(t, "VALIDATION", env.Code)
			assert.Contains(t, env.Details, tt.field)
		})
	}
}

func TestProfile_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, ts.api.Get("/api/v1/profile").Code)
	assert.Equal(t, http.StatusUnauthorized,
		ts.api.Get("/api/v1/profile", "Authorization: Bearer v4.local.garbage").Code)
}
