package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// PongWait is how long a silent client is kept before the read fails.
	PongWait = 60 * time.Second
	// PingPeriod must be shorter than PongWait.
	PingPeriod = (PongWait * 9) / 10
	// MaxMessageSize caps one inbound frame.
	MaxMessageSize = 8 * 1024
)

// Conn serializes writes to a gorilla connection, which allows only one
// concurrent writer.
type Conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

// NewConn wraps ws and installs the read limit and pong handler.
func NewConn(ws *websocket.Conn) *Conn {
	ws.SetReadLimit(MaxMessageSize)
	ws.SetReadDeadline(time.Now().Add(PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(PongWait))
	})
	return &Conn{ws: ws}
}

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func (c *Conn) WriteTyped(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func (c *Conn) WriteError(ref, errMsg string) error {
	return c.WriteTyped(ErrorResponse{
		Event: EventError,
		Ref:   ref,
		Error: errMsg,
	})
}

// Ping sends a control ping.
func (c *Conn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ReadJSON reads and decodes a message, extending the read deadline.
func (c *Conn) ReadJSON(v interface{}) error {
	if err := c.ws.ReadJSON(v); err != nil {
		return err
	}
	return c.ws.SetReadDeadline(time.Now().Add(PongWait))
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
