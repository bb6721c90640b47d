package awclient

import (
	"encoding/json"

	"github.com/assetworks/gantry/pkg/clog"
	"github.com/gorilla/websocket"
)

// RefreshSubscriber connects to the backend's refresh hub and forwards
// topics on a channel. The coordinator only ever sees the channel, keeping
// the websocket mechanism out of the refresh policy.
type RefreshSubscriber struct {
	url string
}

func NewRefreshSubscriber(url string) *RefreshSubscriber {
	return &RefreshSubscriber{url: url}
}

// Subscribe dials the hub and returns a channel of topics. The channel
// closes when the connection drops or done is closed.
func (s *RefreshSubscriber) Subscribe(done <-chan struct{}) (<-chan string, error) {
	conn, _, err := websocket.DefaultDialer.Dial(s.url, nil)
	if err != nil {
		return nil, err
	}

	topics := make(chan string, 16)

	go func() {
		<-done
		conn.Close()
	}()

	go func() {
		defer close(topics)
		defer conn.Close()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var msg struct {
				Topic string `json:"topic"`
			}

			if err := json.Unmarshal(raw, &msg); err != nil {
				clog.Area("refresh").Warnf("dropping malformed refresh message: %s", err)
				continue
			}

			select {
			case topics <- msg.Topic:
			default:
				// Drop rather than block; a refresh signal is only a
				// hint to re-fetch.
			}
		}
	}()

	return topics, nil
}
