package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 512
	outboxSize     = 64

	// CloseSessionExpired is the close code sent once the backend rejects the connection's token
	CloseSessionExpired = 4401
)

// ErrSlowClient is returned when a client's outbox is full
var ErrSlowClient = errors.New("client outbox is full")

// TokenVerifier checks a session token against the expense backend
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) error
}

// Client is one browser connection for a session. Clients only receive events;
// inbound frames are drained so pongs and close frames get processed.
type Client struct {
	id      string
	session domain.Session
	conn    *websocket.Conn
	hub     *Hub

	verifier TokenVerifier
	recheck  time.Duration

	outbox    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTokenRecheck re-verifies the session token every interval and closes the
// connection with CloseSessionExpired once the backend rejects it.
// A non-positive interval or nil verifier disables rechecks.
func WithTokenRecheck(verifier TokenVerifier, interval time.Duration) ClientOption {
	return func(c *Client) {
		c.verifier = verifier
		c.recheck = interval
	}
}

// NewClient wraps an upgraded connection for session
func NewClient(conn *websocket.Conn, session domain.Session, hub *Hub, opts ...ClientOption) *Client {
	c := &Client{
		id:      uuid.NewString(),
		session: session,
		conn:    conn,
		hub:     hub,
		outbox:  make(chan []byte, outboxSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ID() string { return c.id }

func (c *Client) UserID() string { return c.session.UserID }

// Send queues an encoded event. It never blocks.
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.outbox <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSlowClient
	}
}

// Close sends a normal close frame and drops the connection. Safe to call repeatedly.
func (c *Client) Close() error {
	return c.shutdown(websocket.CloseNormalClosure, "")
}

func (c *Client) shutdown(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		frame := websocket.FormatCloseMessage(code, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, frame, time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	return err
}

// Serve runs the connection until either side closes it. It blocks, so callers
// run it in its own goroutine after registering the client with the hub.
func (c *Client) Serve() {
	go c.writeLoop()
	c.readLoop()
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Str("user_id", c.session.UserID).Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	var recheck <-chan time.Time
	if c.verifier != nil && c.recheck > 0 {
		t := time.NewTicker(c.recheck)
		defer t.Stop()
		recheck = t.C
	}

	for {
		select {
		case <-c.done:
			return

		case msg := <-c.outbox:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Str("user_id", c.session.UserID).Msg("WebSocket write error")
				_ = c.Close()
				return
			}

		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}

		case <-recheck:
			if !c.sessionValid() {
				_ = c.shutdown(CloseSessionExpired, "session expired")
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// sessionValid reports false only when the backend rejects the token.
// An unreachable backend keeps the connection open until the next check.
func (c *Client) sessionValid() bool {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	err := c.verifier.VerifyToken(ctx, c.session.Token)
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrUnauthorized):
		log.Info().Str("client_id", c.id).Str("user_id", c.session.UserID).Msg("WebSocket session expired")
		return false
	default:
		log.Warn().Err(err).Str("client_id", c.id).Str("user_id", c.session.UserID).Msg("WebSocket token recheck failed")
		return true
	}
}
