package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shioriapp/shiori-server/internal/auth"
	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/logger"
	"github.com/shioriapp/shiori-server/internal/media/covers"
	"github.com/shioriapp/shiori-server/internal/search"
	"github.com/shioriapp/shiori-server/internal/sse"
	"github.com/shioriapp/shiori-server/internal/store/sqlite"
	"github.com/shioriapp/shiori-server/internal/validation"
)

// recorder captures emitted events.
type recorder struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recorder) Emit(e sse.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []sse.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sse.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// coverQueue records enqueued cover jobs.
type coverQueue struct {
	mu   sync.Mutex
	jobs []covers.Job
}

func (q *coverQueue) Enqueue(job covers.Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return true
}

type testEnv struct {
	store    *sqlite.Store
	index    *search.BoardIndex
	events   *recorder
	covers   *coverQueue
	tokens   *auth.TokenService
	profiles *ProfileService
	likes    *LikesService
	auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard().Logger

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "shiori.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewBoardIndex(search.Options{InMemory: true, Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	tokens, err := auth.NewTokenService(make([]byte, 32), 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	v := validation.New()
	events := &recorder{}
	queue := &coverQueue{}
	profiles := NewProfileService(st, v, events, log)

	return &testEnv{
		store:    st,
		index:    idx,
		events:   events,
		covers:   queue,
		tokens:   tokens,
		profiles: profiles,
		likes:    NewLikesService(st, idx, profiles, queue, events, v, log),
		auth:     NewAuthService(st, tokens, profiles, v, log),
	}
}

// createUser inserts a bare user row so profile and like rows can reference it.
func (e *testEnv) createUser(t *testing.T, userID string) {
	t.Helper()
	u := &domain.User{Record: domain.Record{ID: userID}, Email: userID + "@example.com", PasswordHash: "x"}
	u.InitTimestamps()
	require.NoError(t, e.store.CreateUser(context.Background(), u))
}
