// Package session hosts editor sessions for the server: one authoritative
// editor per session id, driven by websocket clients and the HTTP API.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/inamate/shapecut/internal/engine"
	"github.com/inamate/shapecut/internal/export"
	"github.com/inamate/shapecut/internal/typeid"
)

var ErrNotFound = errors.New("session not found")

const defaultSweepInterval = time.Minute

// Options configures a Hub.
type Options struct {
	Width, Height int
	// TTL is how long a session with no clients stays in memory.
	TTL           time.Duration
	SweepInterval time.Duration
	// Persister returns the scene persister for a session id.
	Persister func(sessionID string) engine.Persister
	Logger    *slog.Logger
	Now       func() time.Time
}

type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
	running    atomic.Bool

	opts Options
	log  *slog.Logger
}

func NewHub(opts Options) *Hub {
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		sessions:   make(map[string]*Session),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		opts:       opts,
		log:        log,
	}
}

func (h *Hub) Run() {
	h.running.Store(true)
	defer close(h.done)

	ticker := time.NewTicker(h.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.evictIdle()
		case <-h.stop:
			return
		}
	}
}

// Stop ends Run and persists every live session.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
		if h.running.Load() {
			<-h.done
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		for id, s := range h.sessions {
			if err := s.Flush(); err != nil {
				h.log.Error("flush session", "session", id, "error", err)
			}
		}
		h.log.Info("sessions saved", "count", len(h.sessions))
	})
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stop:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// --- Commands ---

// Create starts a session under a fresh id.
func (h *Hub) Create() *Session {
	s, _ := h.Open(typeid.NewSessionID())
	return s
}

// Open returns the live session for id, loading its persisted scene first if
// it is not in memory.
func (h *Hub) Open(id string) (*Session, error) {
	if err := typeid.Validate(id, typeid.PrefixSession); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		return s, nil
	}

	var persister engine.Persister
	if h.opts.Persister != nil {
		persister = h.opts.Persister(id)
	}
	editor := engine.New(engine.Options{
		Width:     h.opts.Width,
		Height:    h.opts.Height,
		Persister: persister,
		Logger:    h.log.With("session", id),
	})
	editor.Load()

	s := newSession(id, editor, persister, h.opts.Now())
	h.sessions[id] = s
	h.log.Info("session opened", "session", id, "shapes", len(editor.Shapes()))
	return s, nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	s := client.session
	if _, ok := h.sessions[s.ID]; !ok {
		// Evicted between Open and Register.
		h.sessions[s.ID] = s
	}
	s.clients[client.ClientID] = client
	h.mu.Unlock()

	w, ht := s.Size()
	welcome := newMessage(TypeWelcome, WelcomePayload{SessionID: s.ID, ClientID: client.ClientID, Width: w, Height: ht})
	client.Send(welcome)
	client.Send(s.Frame())

	h.broadcast(s, newMessage(TypeJoin, ClientPayload{ClientID: client.ClientID}), client.ClientID)
	h.log.Info("client joined", "client", client.ClientID, "session", s.ID)
}

func (h *Hub) removeClient(client *Client) {
	s := client.session
	h.mu.Lock()
	if _, ok := s.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(s.clients, client.ClientID)
	client.close()
	h.mu.Unlock()

	s.touch(h.opts.Now())
	h.broadcast(s, newMessage(TypeLeave, ClientPayload{ClientID: client.ClientID}), "")
	h.log.Info("client left", "client", client.ClientID, "session", s.ID)
}

// evictIdle drops sessions that have had no clients for longer than the TTL.
// Each is flushed while still registered, so a concurrent Open either finds
// the live session or loads the flushed scene. A session whose flush fails
// stays in memory until the next sweep.
func (h *Hub) evictIdle() {
	if h.opts.TTL <= 0 {
		return
	}
	now := h.opts.Now()

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		if len(s.clients) > 0 || now.Sub(s.idleSince()) <= h.opts.TTL {
			continue
		}
		if err := s.Flush(); err != nil {
			h.log.Warn("flush idle session", "session", id, "error", err)
			continue
		}
		delete(h.sessions, id)
		h.log.Info("session evicted", "session", id)
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	s := sender.session
	res, err := s.Apply(msg, h.opts.Now())
	if err != nil {
		h.log.Warn("apply message", "type", msg.Type, "client", sender.ClientID, "error", err)
		sender.Send(errorMessage(err.Error()))
		return
	}
	if res.Reply != nil {
		sender.Send(res.Reply)
	}
	if res.Redraw {
		h.broadcast(s, s.Frame(), "")
	}
}

// Refresh sends a new frame to every client of the session, for changes made
// outside the websocket.
func (h *Hub) Refresh(s *Session) {
	h.broadcast(s, s.Frame(), "")
}

func (h *Hub) broadcast(s *Session, msg *Message, excludeClientID string) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

// --- Queries ---

// Len returns the number of sessions in memory.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// ExportFrame implements export.Source.
func (h *Hub) ExportFrame(_ context.Context, sessionID string) (export.Frame, error) {
	s, err := h.Open(sessionID)
	if err != nil {
		return export.Frame{}, fmt.Errorf("%w: %w", export.ErrNoScene, err)
	}
	return s.ExportFrame(), nil
}
