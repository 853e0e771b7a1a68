package api

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"math/rand/v2"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/shioriapp/shiori-server/internal/auth"
	"github.com/shioriapp/shiori-server/internal/cache"
	"github.com/shioriapp/shiori-server/internal/catalog"
	"github.com/shioriapp/shiori-server/internal/logger"
	"github.com/shioriapp/shiori-server/internal/media/covers"
	"github.com/shioriapp/shiori-server/internal/media/images"
	"github.com/shioriapp/shiori-server/internal/metadata/itunes"
	"github.com/shioriapp/shiori-server/internal/search"
	"github.com/shioriapp/shiori-server/internal/service"
	"github.com/shioriapp/shiori-server/internal/sse"
	"github.com/shioriapp/shiori-server/internal/store/sqlite"
	"github.com/shioriapp/shiori-server/internal/validation"
)

// testEnvelope mirrors response.Envelope with a typed payload.
type testEnvelope[T any] struct {
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	return env
}

// fakeCatalogue stands in for the iTunes client.
type fakeCatalogue struct {
	results []itunes.EbookResult
	err     error
}

func (f *fakeCatalogue) SearchEbooks(_ context.Context, _ itunes.SearchParams) ([]itunes.EbookResult, error) {
	return f.results, f.err
}

// dropQueue accepts cover jobs without downloading anything.
type dropQueue struct{}

func (dropQueue) Enqueue(covers.Job) bool { return true }

type testServer struct {
	*Server
	api       humatest.TestAPI
	catalogue *fakeCatalogue
	store     *sqlite.Store
}

func setupTestServer(t *testing.T) *testServer {
	return setupTestServerWithOptions(t, Options{AuthRateLimitRPS: 100, AuthRateLimitBurst: 100})
}

func setupTestServerWithOptions(t *testing.T, opts Options) *testServer {
	t.Helper()

	log := logger.Discard().Logger
	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "shiori.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewBoardIndex(search.Options{InMemory: true, Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	rc, err := cache.Open(cache.Options{InMemory: true, Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	coverStorage, err := images.NewStorage(dir)
	require.NoError(t, err)

	featured := catalog.New("", log)
	require.NoError(t, featured.Load())

	tokens, err := auth.NewTokenService(make([]byte, 32), 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	manager := sse.NewManager(log, sse.Options{})
	v := validation.New()
	cat := &fakeCatalogue{results: ebooks(30)}

	profiles := service.NewProfileService(st, v, manager, log)
	authService := service.NewAuthService(st, tokens, profiles, v, log)
	services := &Services{
		Auth:    authService,
		Profile: profiles,
		Likes:   service.NewLikesService(st, idx, profiles, dropQueue{}, manager, v, log),
		Explore: service.NewExploreService(cat, rc, featured, v, log, time.Minute, rand.NewChaCha8([32]byte{7})),
	}

	srv := NewServer(st, services, &Infra{Cache: rc, Index: idx, Covers: coverStorage}, nil, manager, opts, log)
	t.Cleanup(srv.Close)

	return &testServer{
		Server:    srv,
		api:       humatest.Wrap(t, srv.api),
		catalogue: cat,
		store:     st,
	}
}

// signUp creates an account and returns its bearer header.
func (ts *testServer) signUp(t *testing.T, email string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    email,
		"password": "correct horse",
	})
	require.Equal(t, 200, resp.Code, resp.Body.String())
	env := decode[AuthResponse](t, resp)
	return "Authorization: Bearer " + env.Data.AccessToken
}

func ebooks(n int) []itunes.EbookResult {
	out := make([]itunes.EbookResult, n)
	for i := range n {
		out[i] = itunes.EbookResult{
			TrackID:    int64(500 + i),
			Title:      fmt.Sprintf("Title %d", i),
			Author:     "Someone",
			ArtworkURL: fmt.Sprintf("https://is1.mzstatic.com/image/%d/600x600bb.jpg", i),
		}
	}
	return out
}
