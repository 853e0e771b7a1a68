package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/service"
)

func TestExploreFeed_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/explore")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}

func TestExploreFeed(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")

	resp := ts.api.Get("/api/v1/explore?genre=Science%20Fiction&page=2", bearer)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[service.FeedPage](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Data.Page)
	assert.Equal(t, "science-fiction", env.Data.Genre)
	assert.True(t, env.Data.HasMore)
	assert.False(t, env.Data.Fallback)
	require.Len(t, env.Data.Books, service.FeedPageSize)
	for _, b := range env.Data.Books {
		assert.Regexp(t, `^5\d\d-2-`, b.ID)
		assert.NotEmpty(t, b.Aesthetics)
		assert.Positive(t, b.Height)
	}
}

func TestExploreFeed_AestheticFilter(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")

	resp := ts.api.Get("/api/v1/explore?aesthetic=earthy&q=anything", bearer)
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[service.FeedPage](t, resp)
	assert.Equal(t, "anything", env.Data.Term)
	for _, b := range env.Data.Books {
		assert.Contains(t, b.Aesthetics.Strings(), "Earthy")
	}

	resp = ts.api.Get("/api/v1/explore?aesthetic=neon", bearer)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	invalid := decode[any](t, resp)
	assert.Equal(t, "VALIDATION", invalid.Code)
	assert.Contains(t, invalid.Details, "aesthetic")
}

func TestExploreFeed_FallsBackToFeatured(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")
	ts.catalogue.err = errors.New("connection refused")

	resp := ts.api.Get("/api/v1/explore?q=offline", bearer)
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[service.FeedPage](t, resp)
	assert.True(t, env.Data.Fallback)
	assert.False(t, env.Data.HasMore)
	assert.NotEmpty(t, env.Data.Books)
}

func TestGenresAndFeatured(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/explore/genres")
	require.Equal(t, http.StatusOK, resp.Code)
	genres := decode[struct {
		Genres []string `json:"genres"`
	}](t, resp)
	assert.Equal(t, "all", genres.Data.Genres[0])
	assert.Contains(t, genres.Data.Genres, "science-fiction")

	resp = ts.api.Get("/api/v1/explore/featured")
	require.Equal(t, http.StatusOK, resp.Code)
	featured := decode[struct {
		Books []domain.Book `json:"books"`
		Count int           `json:"count"`
	}](t, resp)
	assert.Equal(t, len(featured.Data.Books), featured.Data.Count)
	assert.Positive(t, featured.Data.Count)
}
