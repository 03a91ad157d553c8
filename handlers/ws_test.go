package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credline/backoffice-api/models"
)

func dialSession(t *testing.T, serverURL, sessionID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws/sessions/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastStateReachesSessionWatchers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewWSHandler()
	router := gin.New()
	router.GET("/ws/sessions/:id", h.HandleWS)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	watcher := dialSession(t, server.URL, "sess-1")
	bystander := dialSession(t, server.URL, "sess-2")

	require.Eventually(t, func() bool { return h.M.Len() == 2 },
		2*time.Second, 10*time.Millisecond, "both connections must be registered")

	h.BroadcastState("sess-1", models.SessionReconciled)

	watcher.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := watcher.ReadMessage()
	require.NoError(t, err, "watcher must receive the state push for its session")
	assert.Contains(t, string(msg), `"session_id": "sess-1"`)
	assert.Contains(t, string(msg), string(models.SessionReconciled))

	// A watcher of a different session sees nothing
	bystander.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = bystander.ReadMessage()
	assert.Error(t, err)
}

func TestBroadcastStateDeliversEveryTransition(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewWSHandler()
	router := gin.New()
	router.GET("/ws/sessions/:id", h.HandleWS)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	watcher := dialSession(t, server.URL, "sess-9")
	require.Eventually(t, func() bool { return h.M.Len() == 1 },
		2*time.Second, 10*time.Millisecond)

	states := []models.SessionState{
		models.SessionQueried,
		models.SessionDistributed,
		models.SessionReconciled,
		models.SessionSubmitted,
	}
	for _, state := range states {
		h.BroadcastState("sess-9", state)
	}

	watcher.SetReadDeadline(time.Now().Add(2 * time.Second))
	for _, state := range states {
		_, msg, err := watcher.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(msg), string(state))
	}
}
