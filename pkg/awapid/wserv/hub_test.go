package wserv

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHubServer(t *testing.T) (*Hub, string) {
	t.Helper()

	hub := NewHub()
	go hub.Run()

	e := echo.New()
	e.GET("/api/refresh/ws", hub.HandleWS)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/refresh/ws"
	return hub, wsURL
}

func readTopic(t *testing.T, conn *websocket.Conn) string {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg.Topic
}

func TestPublishReachesConnectedClients(t *testing.T) {
	hub, wsURL := startHubServer(t)

	first, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer first.Close()

	second, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer second.Close()

	// Registration races the publish; wait for both clients to attach.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 2
	}, 2*time.Second, 10*time.Millisecond)

	hub.PublishRefresh("transfers")

	assert.Equal(t, "transfers", readTopic(t, first))
	assert.Equal(t, "transfers", readTopic(t, second))
}

func TestDisconnectedClientIsUnregistered(t *testing.T) {
	hub, wsURL := startHubServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUpgradeFailureIsAnError(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/refresh/ws", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	// A plain GET without the websocket handshake headers cannot upgrade.
	err := hub.HandleWS(ctx)
	assert.Error(t, err)
}
