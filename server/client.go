package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// client is one player's socket. The read pump feeds the room loop; the
// write pump drains send. Closing send tears the connection down.
type client struct {
	room     *Room
	playerID string
	conn     *websocket.Conn
	send     chan []byte
	taunts   *tokenBucket

	// mu guards closed: the room loop shuts a replaced client down while
	// its read pump may still be calling sendMessage.
	mu     sync.Mutex
	closed bool
}

func newClient(r *Room, playerID string, conn *websocket.Conn) *client {
	return &client{
		room:     r,
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, 64),
		taunts:   newTokenBucket(r.cfg.TauntPerSecond, r.cfg.TauntBurst),
	}
}

func (c *client) start() {
	go c.writePump()
	go c.readPump()
}

// shutdown closes the socket without notifying the room loop; used when a
// reconnect replaces this client.
func (c *client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

func (c *client) sendMessage(msg ServerMessage) {
	b, err := marshalMessage(msg)
	if err != nil {
		log.Warn().Msgf("room %s: marshal for %s failed: %v", c.room.Code, c.playerID, err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- b:
	default:
		// slow consumer, drop the frame rather than block the room
	}
}

func marshalMessage(msg ServerMessage) ([]byte, error) {
	return json.Marshal(msg)
}

func (c *client) readPump() {
	defer func() {
		c.room.drops <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Msgf("room %s: read from %s: %v", c.room.Code, c.playerID, err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendMessage(ServerMessage{Type: MsgError, Detail: "malformed message"})
			continue
		}
		c.room.commands <- command{c: c, msg: msg}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
