package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"messenger/pkg/logger"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingInterval     = (pongWait * 9) / 10
	maxMessageSize   = 64 * 1024
	egressBufferSize = 256
)

// Conn is the subset of *websocket.Conn the client needs. Tests substitute
// an in-memory implementation.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client owns one live websocket connection: a read pump that feeds inbound
// frames to its session and a write pump that drains the egress buffer. The
// two pumps are the only goroutines touching the connection.
type Client struct {
	ID     string
	UserID int64

	conn   Conn
	egress chan []byte
	done   chan struct{}
	once   sync.Once
	log    logger.Logger

	// inbound handles one decoded frame; nil means frames are drained and
	// ignored (write-only sessions still need the read pump for close
	// detection and pong handling).
	inbound func(ctx context.Context, data []byte)

	// cleanup runs exactly once when the client closes, no matter how many
	// close signals race. Sessions use it to leave rooms and emit their
	// disconnect side effects.
	cleanup func()
}

func NewClient(conn Conn, userID int64, log logger.Logger) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		egress: make(chan []byte, egressBufferSize),
		done:   make(chan struct{}),
		log:    log,
	}
}

// Enqueue buffers an outbound payload without blocking. It reports false if
// the client is closed or its buffer is full; the caller decides what a
// failed delivery means.
func (c *Client) Enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.egress <- payload:
		return true
	default:
		return false
	}
}

// Close tears the client down: the cleanup hook runs first so disconnect
// broadcasts still see consistent room membership, then the connection is
// closed, which unblocks both pumps immediately.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		if c.cleanup != nil {
			c.cleanup()
		}
		_ = c.conn.Close()
	})
}

// Run starts the write pump and services the read loop until the connection
// dies, then closes the client. It blocks for the lifetime of the connection.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
	c.Close()
}

func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				c.log.Warn("Unexpected connection close", "client_id", c.ID, "error", err)
			}
			return
		}

		if c.inbound != nil {
			c.inbound(ctx, data)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
			return
		case payload := <-c.egress:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
