package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketRequiresMembership(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "alice@example.com", "alice")
	outsider := createTestUser(t, "eve@example.com", "eve")
	group := createTestGroup(t, creator, "Gym Warriors", "ABC123")

	ctx, w := testContext(t, http.MethodGet, nil, &outsider,
		gin.Params{{Key: "group_id", Value: groupParam(group.ID)}})
	WebSocket(ctx)

	// Rejected before any upgrade happens
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBroadcastGroupRefresh(t *testing.T) {
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		groupClientsMu.Lock()
		if groupClients["42"] == nil {
			groupClients["42"] = make(map[*websocket.Conn]bool)
		}
		groupClients["42"][conn] = true
		groupClientsMu.Unlock()

		close(registered)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was never registered")
	}

	BroadcastGroupRefresh("42")

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg map[string]string
	require.NoError(t, client.ReadJSON(&msg))

	assert.Equal(t, "refresh", msg["type"])
	assert.Equal(t, "42", msg["group_id"])

	groupClientsMu.Lock()
	delete(groupClients, "42")
	groupClientsMu.Unlock()
}

func TestBroadcastGroupRefreshNoClients(t *testing.T) {
	// Broadcasting to a group nobody is watching is a no-op
	assert.NotPanics(t, func() { BroadcastGroupRefresh("999") })
}
