package realtime

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 256
)

// Client is one authenticated websocket connection. currentTask and
// cursor are owned by the Hub and guarded by its lock.
type Client struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Username    string
	ConnectedAt time.Time

	conn *websocket.Conn
	send chan []byte

	currentTask string
	cursor      *Cursor
}

// NewClient wraps an upgraded connection. conn may be nil in tests;
// only the pumps touch it.
func NewClient(userID uuid.UUID, username string, conn *websocket.Conn) *Client {
	return &Client{
		ID:          uuid.New(),
		UserID:      userID,
		Username:    username,
		ConnectedAt: time.Now(),
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
	}
}

// trySend queues a message without blocking. A full buffer means the
// peer is too slow; the event is dropped, never queued elsewhere.
func (c *Client) trySend(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}

// ReadPump consumes inbound events until the connection drops, then
// unregisters the client. Runs on the connection's goroutine, so every
// inbound event for one connection is handled serially.
func (c *Client) ReadPump(hub *Hub, logger *zap.Logger) {
	defer func() {
		hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error",
					zap.String("userId", c.UserID.String()),
					zap.Error(err))
			}
			break
		}
		hub.HandleEvent(c, message)
	}
}

// WritePump flushes the outbound queue and keeps the connection alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
