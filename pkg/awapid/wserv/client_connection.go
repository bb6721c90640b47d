package wserv

import (
	"net/http"
	"time"

	"github.com/assetworks/gantry/pkg/clog"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type ClientConnection struct {
	conn *websocket.Conn
	send chan Message
	hub  *Hub
}

func (c *ClientConnection) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// HandleWS upgrades the request and attaches the connection to the hub.
// Subscribers never send anything meaningful; the read pump exists only to
// notice the peer going away.
func (h *Hub) HandleWS(ctx echo.Context) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}

	client := &ClientConnection{
		conn: conn,
		send: make(chan Message, 16),
		hub:  h,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return nil
}

func (c *ClientConnection) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				clog.Area("hub").Errorf("websocket error: %v", err)
			}
			break
		}
	}
}

func (c *ClientConnection) writePump() {
	ticker := time.NewTicker(20 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
