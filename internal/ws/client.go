package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// Client is one websocket connection.
type Client struct {
	ID     string
	hub    *Hub
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.RWMutex
	state  atomic.Int32
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(hub.ctx)
	id := uuid.NewString()

	return &Client{
		ID:     id,
		hub:    hub,
		log:    hub.log.With("client_id", id),
		ctx:    ctx,
		cancel: cancel,
		conn:   conn,
		send:   make(chan []byte, maxSendChannelSize),
	}
}

func (c *Client) State() State {
	return State(c.state.Load())
}

func (c *Client) open() bool {
	return c.state.CompareAndSwap(int32(StateConnecting), int32(StateOpen))
}

// ReadPump services control frames and discards data frames. It returns when
// the connection fails or closes, and unregisters the client.
func (c *Client) ReadPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure) {
				c.log.Warn("ws read error", "error", err)
			}
			return
		}

		c.hub.metrics.Received.Inc()
		c.log.Debug("ignoring inbound ws frame", "message_type", msgType, "size", len(data))
	}
}

// WritePump drains the send buffer to the connection and keeps it alive with pings.
func (c *Client) WritePump() error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.Unregister(c)
	}()

	for {
		select {
		case <-c.ctx.Done():
			return nil
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return err
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// SendRaw queues data without blocking. It reports false when the client is
// not open or its buffer is full.
func (c *Client) SendRaw(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.State() != StateOpen {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close marks the client closed and tears down the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() == StateClosed {
		return
	}

	c.state.Store(int32(StateClosed))
	c.cancel()
	if c.conn == nil {
		return
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
	_ = c.conn.Close()
}
