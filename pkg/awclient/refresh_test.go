package awclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startRefreshServer serves a websocket that writes each queued payload to
// every connecting client.
func startRefreshServer(t *testing.T, payloads []string) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		for _, payload := range payloads {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				break
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSubscribeForwardsTopics(t *testing.T) {
	wsURL := startRefreshServer(t, []string{
		`{"topic": "transfers"}`,
		`not json at all`,
		`{"topic": "transfers"}`,
	})

	done := make(chan struct{})
	defer close(done)

	topics, err := NewRefreshSubscriber(wsURL).Subscribe(done)
	require.NoError(t, err)

	// Malformed payloads are dropped, valid ones come through in order.
	assert.Equal(t, "transfers", <-topics)
	assert.Equal(t, "transfers", <-topics)
}

func TestSubscribeClosesChannelWhenDone(t *testing.T) {
	wsURL := startRefreshServer(t, nil)

	done := make(chan struct{})
	topics, err := NewRefreshSubscriber(wsURL).Subscribe(done)
	require.NoError(t, err)

	close(done)

	select {
	case _, open := <-topics:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("topics channel never closed")
	}
}

func TestSubscribeFailsWhenHubIsUnreachable(t *testing.T) {
	_, err := NewRefreshSubscriber("ws://127.0.0.1:1/refresh").Subscribe(make(chan struct{}))
	assert.Error(t, err)
}
