// Package wserv is the refresh hub. Every successful disposition publishes a
// one-topic signal that connected clients turn into a re-fetch. The
// transport is a websocket; subscribers only ever see Message values.
package wserv

import (
	"sync"

	"github.com/assetworks/gantry/pkg/clog"
)

type Message struct {
	Topic string `json:"topic"`
}

type Hub struct {
	mu         sync.RWMutex
	clients    map[*ClientConnection]bool
	register   chan *ClientConnection
	unregister chan *ClientConnection
	broadcast  chan Message
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*ClientConnection]bool),
		register:   make(chan *ClientConnection),
		unregister: make(chan *ClientConnection),
		broadcast:  make(chan Message, 100), // Buffered
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			clog.Area("hub").Infof("client registered: %s", client.RemoteAddr())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow consumer, drop the signal. The next
					// publish will catch it up.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishRefresh satisfies webapi.RefreshPublisher.
func (h *Hub) PublishRefresh(topic string) {
	h.broadcast <- Message{Topic: topic}
}
