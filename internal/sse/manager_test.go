package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shioriapp/shiori-server/internal/domain"
	"github.com/shioriapp/shiori-server/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// Idle keep-alive connections of http.DefaultClient in the handler tests.
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(logger.Discard().Logger, Options{HeartbeatInterval: time.Hour})
	m.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.EventChan:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case e := <-c.EventChan:
		t.Fatalf("unexpected event %s", e.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestManager_DeliversToOwningUserOnly(t *testing.T) {
	m := newTestManager(t)

	alice, err := m.Connect("user-alice")
	require.NoError(t, err)
	bob, err := m.Connect("user-bob")
	require.NoError(t, err)
	assert.Equal(t, 2, m.ClientCount())

	book := &domain.LikedBook{Book: domain.Book{ID: "b1", Title: "Nocturnes"}, UserID: "user-alice"}
	m.Emit(NewLikeAddedEvent(book))

	got := receive(t, alice)
	assert.Equal(t, EventLikeAdded, got.Type)
	assert.Equal(t, book, got.Data.(LikeAddedEventData).Book)
	assertNoEvent(t, bob)
}

func TestManager_BroadcastReachesEveryone(t *testing.T) {
	m := newTestManager(t)

	a, _ := m.Connect("user-a")
	b, _ := m.Connect("user-b")

	m.Emit(NewCatalogReloadedEvent(8))

	assert.Equal(t, EventCatalogReloaded, receive(t, a).Type)
	assert.Equal(t, EventCatalogReloaded, receive(t, b).Type)
}

func TestManager_EmitToUser(t *testing.T) {
	m := newTestManager(t)

	a, _ := m.Connect("user-a")
	b, _ := m.Connect("user-b")

	m.EmitToUser("user-b", NewCatalogReloadedEvent(1))

	assert.Equal(t, "user-b", receive(t, b).UserID)
	assertNoEvent(t, a)
}

func TestManager_Heartbeat(t *testing.T) {
	m := NewManager(logger.Discard().Logger, Options{HeartbeatInterval: 10 * time.Millisecond})
	m.Start(context.Background())
	defer func() { _ = m.Shutdown(context.Background()) }()

	c, _ := m.Connect("user-a")
	assert.Equal(t, EventHeartbeat, receive(t, c).Type)
}

func TestManager_Disconnect(t *testing.T) {
	m := newTestManager(t)

	c, _ := m.Connect("user-a")
	m.Disconnect(c.ID)
	m.Disconnect(c.ID)

	assert.Equal(t, 0, m.ClientCount())
	_, open := <-c.Done
	assert.False(t, open)
}

func TestManager_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	m := NewManager(logger.Discard().Logger, Options{HeartbeatInterval: time.Hour, ClientBuffer: 1})
	m.Start(context.Background())
	defer func() { _ = m.Shutdown(context.Background()) }()

	slow, _ := m.Connect("user-a")
	fast, _ := m.Connect("user-b")

	m.Emit(NewLikeRemovedEvent("user-a", "b1"))
	m.Emit(NewLikeRemovedEvent("user-a", "b2"))
	m.Emit(NewCatalogReloadedEvent(3))

	// The broadcast loop keeps serving other clients.
	assert.Equal(t, EventCatalogReloaded, receive(t, fast).Type)
	assert.Equal(t, "b1", receive(t, slow).Data.(LikeRemovedEventData).BookID)
}

func TestManager_ShutdownDrainsAndClosesClients(t *testing.T) {
	m := NewManager(logger.Discard().Logger, Options{HeartbeatInterval: time.Hour})
	m.Start(context.Background())

	c, _ := m.Connect("user-a")
	m.Emit(NewCoverReadyEvent("user-a", "b1", "LEHV6nWB2yk8"))

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))

	e, ok := <-c.EventChan
	require.True(t, ok, "queued event is delivered before close")
	assert.Equal(t, EventCoverReady, e.Type)

	_, ok = <-c.EventChan
	assert.False(t, ok)
	assert.Equal(t, 0, m.ClientCount())

	// Emitting after shutdown is a no-op.
	m.Emit(NewCatalogReloadedEvent(1))
}

func TestManager_ContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(logger.Discard().Logger, Options{HeartbeatInterval: time.Hour})
	m.Start(ctx)

	c, _ := m.Connect("user-a")
	cancel()

	select {
	case <-c.Done:
	case <-time.After(2 * time.Second):
		t.Fatal("client not closed after context cancel")
	}
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestManager_ShutdownWithoutStart(t *testing.T) {
	m := NewManager(logger.Discard().Logger, Options{})
	c, _ := m.Connect("user-a")

	require.NoError(t, m.Shutdown(context.Background()))

	_, open := <-c.Done
	assert.False(t, open)
}
