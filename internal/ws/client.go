package ws

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/sanitize"
)

// Client is one connected participant.
type Client struct {
	Name string
	conn *websocket.Conn
	send chan []byte
}

// NewHandler upgrades GET /ws connections. The participant identifies
// itself with a `user` query parameter; connections without one are
// rejected.
func NewHandler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		name := sanitize.String(conn.Query("user"))
		if name == "" {
			conn.Close()
			return
		}
		client := &Client{
			Name: name,
			conn: conn,
			send: make(chan []byte, 256),
		}
		hub.register <- client
		go client.writePump()
		client.readPump(hub)
	})
}

// readPump discards inbound frames; posting goes through the HTTP API.
// It exists to detect the peer closing the connection.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
