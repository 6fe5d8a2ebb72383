package websocket

import (
	"time"

	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
	keepAlive    = idleTimeout * 9 / 10

	// Tracking is push-only, inbound frames are limited to pongs and closes.
	inboundLimit = 512
)

// Conn is an upgraded tracking socket.
type Conn struct {
	*websocket.Conn
}

func (c *Conn) extendIdle() error {
	return c.SetReadDeadline(time.Now().Add(idleTimeout))
}

func (c *Conn) write(messageType int, data []byte) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.WriteMessage(messageType, data)
}

// ReadPump drains inbound frames until the peer goes away, then unsubscribes.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(inboundLimit)
	_ = c.Conn.extendIdle()
	c.Conn.SetPongHandler(func(string) error { return c.Conn.extendIdle() })

	for {
		if _, _, err := c.Conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("Tracking socket dropped", map[string]interface{}{
					"order_id": c.OrderID,
					"error":    err.Error(),
				})
			}
			return
		}
	}
}

// WritePump delivers marker updates and keep-alive pings. When the hub
// closes Send the peer gets a normal close frame.
func (c *Client) WritePump() {
	ping := time.NewTicker(keepAlive)
	defer func() {
		ping.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case update, ok := <-c.Send:
			if !ok {
				_ = c.Conn.write(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "tracking ended"))
				return
			}
			if err := c.Conn.write(websocket.TextMessage, update); err != nil {
				logger.Debug("Tracking update not delivered", map[string]interface{}{
					"order_id": c.OrderID,
					"error":    err.Error(),
				})
				return
			}
		case <-ping.C:
			if err := c.Conn.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
