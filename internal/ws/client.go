package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/santihernandis/lobos-go/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is a single websocket subscriber attached to a room hub.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	onEvent  func(event model.ClientEvent)
	logger   *slog.Logger
	identity model.Identity
}

// NewClient wraps an upgraded websocket connection. onEvent is invoked
// for every well-formed event the peer sends.
func NewClient(hub *Hub, conn *websocket.Conn, identity model.Identity, onEvent func(event model.ClientEvent), logger *slog.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 64),
		onEvent:  onEvent,
		logger:   logger,
		identity: identity,
	}
}

// Start registers the client with its hub and launches the read and
// write pumps. It returns immediately.
func (c *Client) Start() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

// readPump reads events from the peer until the connection closes.
// Malformed or unrecognised payloads are ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", slog.String("error", err.Error()))
			}
			return
		}

		var event model.ClientEvent
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}
		if event.Type == "" {
			continue
		}
		if c.onEvent != nil {
			c.onEvent(event)
		}
	}
}

// writePump pushes hub messages to the peer and keeps the connection
// alive with periodic pings.
func (c *Client) writePump() {
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
