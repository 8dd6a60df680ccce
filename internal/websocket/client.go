package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10

	// Clients only send control frames; anything bigger is a misbehaving peer.
	maxInboundBytes = 512
	sendBuffer      = 256
)

// Client is one open socket of an account. The hub owns Send and closes it
// when the client is removed.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	AccountID uuid.UUID
	Send      chan []byte
}

// ServeWs registers an upgraded connection and blocks until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, accountID uuid.UUID) {
	c := &Client{Hub: hub, Conn: conn, AccountID: accountID, Send: make(chan []byte, sendBuffer)}
	hub.register <- c

	done := make(chan struct{})
	go func() {
		c.writeLoop()
		close(done)
	}()
	c.readLoop()
	<-done
}

// readLoop discards inbound frames and extends the deadline on every pong.
// It returns when the peer goes away.
func (c *Client) readLoop() {
	defer func() {
		c.Hub.unregister <- c
	}()

	c.Conn.SetReadLimit(maxInboundBytes)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.logger.Warn("HUB", "Websocket closed unexpectedly", map[string]interface{}{
					"account_id": c.AccountID,
					"error":      err.Error(),
				})
			}
			return
		}
	}
}

// writeLoop drains Send and pings the peer. A closed Send means the hub
// dropped this client.
func (c *Client) writeLoop() {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			if !ok {
				c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, data)
}
