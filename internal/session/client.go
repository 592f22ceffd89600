package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

// outbound is an encoded server message. Frames are full redraws, so a queued
// frame is worthless once a later one is behind it.
type outbound struct {
	frame bool
	data  []byte
}

// Client is one websocket attached to a session. Input read from the socket
// is applied to the session's editor; frames and replies flow back through a
// bounded queue drained by WritePump.
type Client struct {
	hub      *Hub
	session  *Session
	conn     *websocket.Conn
	ClientID string
	log      *slog.Logger

	mu     sync.Mutex
	send   chan outbound
	closed bool
}

func NewClient(hub *Hub, session *Session, conn *websocket.Conn, clientID string) *Client {
	return &Client{
		hub:      hub,
		session:  session,
		conn:     conn,
		ClientID: clientID,
		log:      hub.log.With("session", session.ID, "client", clientID),
		send:     make(chan outbound, sendBuffer),
	}
}

// ReadPump applies incoming input until the socket closes, then unregisters
// the client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				c.log.Debug("read error", "error", err)
			}
			return
		}

		msg, err := c.decode(data)
		if err != nil {
			c.log.Warn("rejected message", "error", err)
			c.Send(errorMessage(err.Error()))
			continue
		}
		c.hub.handleMessage(c, msg)
	}
}

// decode parses one client message and stamps it with this connection's
// identity. A message addressed to another session is refused.
func (c *Client) decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}
	if msg.SessionID != "" && msg.SessionID != c.session.ID {
		return nil, fmt.Errorf("message for session %q on a connection to %q", msg.SessionID, c.session.ID)
	}
	msg.SessionID = c.session.ID
	msg.ClientID = c.ClientID
	return &msg, nil
}

// WritePump writes queued messages and keeps the connection alive with pings.
// Whatever is queued when it wakes is written as one batch with stale frames
// dropped, so a slow reader catches up on the latest picture.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case first, ok := <-c.send:
			if !ok {
				return
			}
			batch, open := c.drain(first)
			for _, out := range coalesceFrames(batch) {
				writeCtx, cancel := context.WithTimeout(ctx, writeWait)
				err := c.conn.Write(writeCtx, websocket.MessageText, out.data)
				cancel()
				if err != nil {
					c.log.Debug("write error", "error", err)
					return
				}
			}
			if !open {
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// drain collects first plus everything already queued. It reports false once
// the queue has been closed.
func (c *Client) drain(first outbound) ([]outbound, bool) {
	batch := []outbound{first}
	for {
		select {
		case out, ok := <-c.send:
			if !ok {
				return batch, false
			}
			batch = append(batch, out)
		default:
			return batch, true
		}
	}
}

// coalesceFrames keeps every non-frame message and only the last frame, in
// their original order.
func coalesceFrames(batch []outbound) []outbound {
	last := -1
	for i, out := range batch {
		if out.frame {
			last = i
		}
	}
	kept := batch[:0:0]
	for i, out := range batch {
		if out.frame && i != last {
			continue
		}
		kept = append(kept, out)
	}
	return kept
}

// Send queues a message, dropping it if the client is slow or gone.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal message", "type", msg.Type, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- outbound{frame: msg.Type == TypeFrame, data: data}:
	default:
		c.log.Warn("send queue full, dropping message", "type", msg.Type)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
