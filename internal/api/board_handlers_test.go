package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/domain"
)

type boardBody struct {
	Aesthetic string             `json:"aesthetic"`
	Books     []domain.LikedBook `json:"books"`
	Count     int                `json:"count"`
	Profile   aesthetic.Profile  `json:"profile"`
}

// seedBoard likes three books whose extracted tags are
// b1 [Light Cool], b2 [Dark Warm] and b3 [Dark Cool].
func seedBoard(t *testing.T, ts *testServer, bearer string) {
	t.Helper()
	books := []map[string]any{
		{"id": "b1", "uri": "b1-light.png", "title": "Winter Garden", "author": "Ada Frost"},
		{"id": "b2", "uri": "b2-dark.jpg", "title": "The Ember Road", "author": "Ned Ash"},
		{"id": "b3", "uri": "b3.gif", "title": "Garden of Night", "author": "Ivy Crane"},
	}
	for _, b := range books {
		res := ts.like(t, bearer, b)
		require.Equal(t, aesthetic.Extract(b["uri"].(string), b["title"].(string)), res.Book.Aesthetics)
	}
}

func TestBoard_Filter(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")
	seedBoard(t, ts, bearer)

	tests := []struct {
		name      string
		query     string
		aesthetic string
		ids       []string
	}{
		{name: "no filter", query: "", aesthetic: aesthetic.FilterAll, ids: []string{"b1", "b2", "b3"}},
		{name: "all", query: "?aesthetic=ALL", aesthetic: aesthetic.FilterAll, ids: []string{"b1", "b2", "b3"}},
		{name: "dark lower case", query: "?aesthetic=dark", aesthetic: "Dark", ids: []string{"b2", "b3"}},
		{name: "cool", query: "?aesthetic=Cool", aesthetic: "Cool", ids: []string{"b1", "b3"}},
		{name: "no matches", query: "?aesthetic=pastel", aesthetic: "Pastel", ids: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/boards"+tt.query, bearer)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			env := decode[boardBody](t, resp)
			assert.Equal(t, tt.aesthetic, env.Data.Aesthetic)
			assert.Equal(t, len(tt.ids), env.Data.Count)
			ids := make([]string, 0, len(env.Data.Books))
			for _, b := range env.Data.Books {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.ids, ids)

			// The profile always covers the whole board.
			require.Len(t, env.Data.Profile.TopAesthetics, 4)
			assert.Equal(t, aesthetic.Cool, env.Data.Profile.TopAesthetics[0].Name)
			assert.Equal(t, aesthetic.Dark, env.Data.Profile.TopAesthetics[1].Name)
			assert.Equal(t, 2, env.Data.Profile.TopAesthetics[1].Count)
		})
	}
}

func TestBoard_InvalidFilter(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")

	resp := ts.api.Get("/api/v1/boards?aesthetic=neon", bearer)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decode[any](t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details["aesthetic"], "dark")
}

func TestSearchBoard(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")
	seedBoard(t, ts, bearer)

	other := ts.signUp(t, "other@example.com")
	ts.like(t, other, map[string]any{
		"id": "x1", "uri": "x1.jpg", "title": "Garden Party",
	})

	resp := ts.api.Get("/api/v1/boards/search?q=garden", bearer)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	env := decode[struct {
		Query string             `json:"q"`
		Books []domain.LikedBook `json:"books"`
		Count int                `json:"count"`
	}](t, resp)
	assert.Equal(t, "garden", env.Data.Query)
	assert.Equal(t, 2, env.Data.Count)
	ids := []string{}
	for _, b := range env.Data.Books {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []string{"b1", "b3"}, ids)

	resp = ts.api.Get("/api/v1/boards/search?q=garden&aesthetic=dark", bearer)
	require.Equal(t, http.StatusOK, resp.Code)
	env2 := decode[likesBody](t, resp)
	require.Equal(t, 1, env2.Data.Count)
	assert.Equal(t, "b3", env2.Data.Books[0].ID)
}

func TestSearchBoard_RequiresQuery(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")

	resp := ts.api.Get("/api/v1/boards/search?q=%20", bearer)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, decode[any](t, resp).Details, "q")
}

func TestSearchBoard_AfterUnlike(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.signUp(t, "reader@example.com")
	seedBoard(t, ts, bearer)

	ts.like(t, bearer, map[string]any{"id": "b3", "uri": "b3.gif"})

	resp := ts.api.Get("/api/v1/boards/search?q=garden", bearer)
	require.Equal(t, http.StatusOK, resp.Code)
	env := decode[likesBody](t, resp)
	require.Equal(t, 1, env.Data.Count)
	assert.Equal(t, "b1", env.Data.Books[0].ID)
}
