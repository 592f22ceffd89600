package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/engine"
	"github.com/inamate/shapecut/internal/export"
	"github.com/inamate/shapecut/internal/store"
	"github.com/inamate/shapecut/internal/typeid"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newTestHub(kv store.KV, c *clock) *Hub {
	return NewHub(Options{
		Width: 800, Height: 600,
		TTL: time.Hour,
		Persister: func(id string) engine.Persister {
			return store.NewScenePersister(kv, store.SceneKey(store.DefaultKey, id), nil)
		},
		Now: c.Now,
	})
}

func msg(t *testing.T, typ string, payload any) *Message {
	t.Helper()
	m := &Message{Type: typ}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		m.Payload = data
	}
	return m
}

func apply(t *testing.T, s *Session, m *Message) Result {
	t.Helper()
	res, err := s.Apply(m, time.Now())
	if err != nil {
		t.Fatalf("Apply %s: %v", m.Type, err)
	}
	return res
}

func drawRect(t *testing.T, s *Session) {
	t.Helper()
	apply(t, s, msg(t, TypeToolSet, ToolPayload{Tool: "rectangle"}))
	apply(t, s, msg(t, TypePointerDown, PointerPayload{X: 10, Y: 10}))
	apply(t, s, msg(t, TypePointerMove, PointerPayload{X: 110, Y: 60}))
	if res := apply(t, s, msg(t, TypePointerUp, PointerPayload{X: 110, Y: 60})); !res.Redraw {
		t.Error("finishing a draw should redraw")
	}
}

// recv pops the next queued message for a test client.
func recv(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case out, ok := <-c.send:
		if !ok {
			t.Fatal("client channel closed")
		}
		var m Message
		if err := json.Unmarshal(out.data, &m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return &m
	default:
		t.Fatal("no message queued")
		return nil
	}
}

func TestSessionDrawAndFrame(t *testing.T) {
	h := newTestHub(store.NewMemory(), &clock{t: time.Now()})
	s := h.Create()
	drawRect(t, s)

	if n := len(s.Snapshot().Shapes); n != 1 {
		t.Fatalf("shapes = %d, want 1", n)
	}

	frame := s.Frame()
	if frame.Type != TypeFrame || frame.SessionID != s.ID || frame.Seq != 4 {
		t.Errorf("frame header = %+v", frame)
	}
	var fp FramePayload
	if err := json.Unmarshal(frame.Payload, &fp); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if len(fp.Commands) == 0 || fp.Tool != "rectangle" || fp.Zoom != 1 || !fp.CanUndo {
		t.Errorf("frame payload = tool %q zoom %v undo %v with %d commands", fp.Tool, fp.Zoom, fp.CanUndo, len(fp.Commands))
	}
}

func TestSessionRejectsBadMessages(t *testing.T) {
	h := newTestHub(store.NewMemory(), &clock{t: time.Now()})
	s := h.Create()

	tests := []struct {
		name string
		m    *Message
		is   error
	}{
		{"unknown type", &Message{Type: "teleport"}, ErrUnknownMessage},
		{"missing payload", &Message{Type: TypePointerDown}, nil},
		{"bad payload", &Message{Type: TypeWheel, Payload: json.RawMessage(`"x"`)}, nil},
		{"unknown tool", msg(t, TypeToolSet, ToolPayload{Tool: "lasso"}), nil},
		{"unknown fill", msg(t, TypeFillSet, FillPayload{FillType: "plaid"}), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Apply(tt.m, time.Now())
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
	if s.Frame().Seq != 0 {
		t.Error("rejected messages should not advance the sequence")
	}
}

func TestSessionStyleAndFill(t *testing.T) {
	h := newTestHub(store.NewMemory(), &clock{t: time.Now()})
	s := h.Create()
	drawRect(t, s)

	apply(t, s, msg(t, TypeStyleSet, map[string]any{"strokeWidth": 5}))
	width := 6.0
	apply(t, s, msg(t, TypeFillSet, FillPayload{
		FillType:    document.FillPatternStripes,
		FillOptions: &document.FillPatch{StripeWidth: &width},
	}))

	sh := s.Snapshot().Shapes[0]
	if sh.StrokeWidth != 5 || sh.FillType != document.FillPatternStripes || sh.FillOptions.StripeWidth != 6 {
		t.Errorf("selected shape = stroke %v fill %s %+v", sh.StrokeWidth, sh.FillType, sh.FillOptions)
	}

	apply(t, s, msg(t, TypeFillSet, FillPayload{FillType: document.FillSolid, FillColor: "#000000"}))
	if sh := s.Snapshot().Shapes[0]; sh.FillType != document.FillSolid || sh.FillColor != "#000000" {
		t.Errorf("solid fill = %s %s", sh.FillType, sh.FillColor)
	}
}

func TestSessionAnnotationStyleMerges(t *testing.T) {
	h := newTestHub(store.NewMemory(), &clock{t: time.Now()})
	s := h.Create()
	apply(t, s, msg(t, TypeAnnotationStyle, map[string]any{"labelColor": "#000000"}))

	s.mu.Lock()
	st := s.editor.AnnotationStyle()
	s.mu.Unlock()
	if st.LabelColor != "#000000" || st.DotRadius != 4 {
		t.Errorf("annotation style = %+v", st)
	}
}

func TestSessionKeys(t *testing.T) {
	h := newTestHub(store.NewMemory(), &clock{t: time.Now()})
	s := h.Create()
	drawRect(t, s)

	res := apply(t, s, msg(t, TypeKey, engine.KeyEvent{Key: "s", Ctrl: true}))
	if res.Reply == nil || res.Reply.Type != TypeExport {
		t.Fatalf("ctrl+s reply = %+v", res.Reply)
	}
	var ep ExportPayload
	json.Unmarshal(res.Reply.Payload, &ep)
	if ep.Format != "svg" || !strings.Contains(ep.Data, "<rect") {
		t.Errorf("export payload = %+v", ep)
	}

	if res := apply(t, s, msg(t, TypeKey, engine.KeyEvent{Key: "Delete"})); !res.Redraw {
		t.Error("delete key with a selection should redraw")
	}
	if n := len(s.Snapshot().Shapes); n != 0 {
		t.Errorf("shapes after delete = %d", n)
	}
	if !s.Undo(time.Now()) || len(s.Snapshot().Shapes) != 1 {
		t.Error("undo should restore the deleted shape")
	}
}

func TestSessionZoom(t *testing.T) {
	h := newTestHub(store.NewMemory(), &clock{t: time.Now()})
	s := h.Create()

	zoom := func() float64 {
		var fp FramePayload
		json.Unmarshal(s.Frame().Payload, &fp)
		return fp.Zoom
	}
	apply(t, s, msg(t, TypeZoomSet, ZoomPayload{Zoom: 9}))
	if z := zoom(); z != 5 {
		t.Errorf("zoom.set 9 = %v, want clamped 5", z)
	}
	apply(t, s, msg(t, TypeZoomReset, nil))
	apply(t, s, msg(t, TypeZoomIn, nil))
	if z := zoom(); z != 1.2 {
		t.Errorf("zoom.in = %v", z)
	}
	apply(t, s, msg(t, TypeWheel, WheelPayload{X: 400, Y: 300, DeltaY: 1}))
	if z := zoom(); z >= 1.2 {
		t.Errorf("wheel down should zoom out, got %v", z)
	}
}

func TestHubOpen(t *testing.T) {
	kv := store.NewMemory()
	h := newTestHub(kv, &clock{t: time.Now()})

	if _, err := h.Open("not-an-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open bad id = %v", err)
	}
	if _, err := h.Open(typeid.NewShapeID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open shape id = %v", err)
	}

	s := h.Create()
	again, err := h.Open(s.ID)
	if err != nil || again != s {
		t.Fatalf("Open existing = %p, %v; want %p", again, err, s)
	}
	drawRect(t, s)

	// A second hub over the same store sees the persisted scene.
	other := newTestHub(kv, &clock{t: time.Now()})
	loaded, err := other.Open(s.ID)
	if err != nil {
		t.Fatalf("Open in second hub: %v", err)
	}
	if n := len(loaded.Snapshot().Shapes); n != 1 {
		t.Errorf("loaded shapes = %d, want 1", n)
	}
}

func TestHubBroadcastsFrames(t *testing.T) {
	h := newTestHub(store.NewMemory(), &clock{t: time.Now()})
	s := h.Create()

	a := NewClient(h, s, nil, "a")
	b := NewClient(h, s, nil, "b")
	h.addClient(a)
	if m := recv(t, a); m.Type != TypeWelcome {
		t.Fatalf("first message = %s, want welcome", m.Type)
	}
	if m := recv(t, a); m.Type != TypeFrame {
		t.Fatalf("second message = %s, want frame", m.Type)
	}
	h.addClient(b)
	recv(t, b)
	recv(t, b)
	if m := recv(t, a); m.Type != TypeJoin {
		t.Errorf("a should see b join, got %s", m.Type)
	}

	h.handleMessage(a, msg(t, TypeZoomIn, nil))
	for _, c := range []*Client{a, b} {
		if m := recv(t, c); m.Type != TypeFrame {
			t.Errorf("client %s got %s, want frame", c.ClientID, m.Type)
		}
	}

	h.handleMessage(b, &Message{Type: "bogus"})
	if m := recv(t, b); m.Type != TypeError {
		t.Errorf("sender should get an error, got %s", m.Type)
	}
	select {
	case <-a.send:
		t.Error("errors go to the sender only")
	default:
	}

	h.removeClient(b)
	if _, ok := <-b.send; ok {
		t.Error("removed client channel should be closed")
	}
	b.Send(errorMessage("late")) // must not panic
	if m := recv(t, a); m.Type != TypeLeave {
		t.Errorf("a should see b leave, got %s", m.Type)
	}
}

func TestHubEvictsIdleSessions(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{t: time.Now()}
	h := newTestHub(kv, c)

	idle := h.Create()
	busy := h.Create()
	h.addClient(NewClient(h, busy, nil, "x"))

	c.t = c.t.Add(2 * time.Hour)
	h.evictIdle()

	if h.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", h.Len())
	}
	if _, err := kv.Get(context.Background(), store.SceneKey(store.DefaultKey, idle.ID)); err != nil {
		t.Errorf("evicted session not persisted: %v", err)
	}
}

type watchPersister struct {
	engine.Persister
	save func() error
}

func (w watchPersister) Save(snap *document.Snapshot) error {
	if err := w.save(); err != nil {
		return err
	}
	return w.Persister.Save(snap)
}

func TestHubFlushesBeforeEviction(t *testing.T) {
	kv := store.NewMemory()
	c := &clock{t: time.Now()}
	failing := errors.New("disk full")
	var (
		h          *Hub
		registered []bool
		saveErr    error
	)
	h = NewHub(Options{
		Width: 800, Height: 600,
		TTL: time.Hour,
		Persister: func(id string) engine.Persister {
			return watchPersister{
				Persister: store.NewScenePersister(kv, store.SceneKey(store.DefaultKey, id), nil),
				save: func() error {
					// evictIdle holds h.mu on this goroutine.
					_, ok := h.sessions[id]
					registered = append(registered, ok)
					return saveErr
				},
			}
		},
		Now: c.Now,
	})

	s := h.Create()
	c.t = c.t.Add(2 * time.Hour)

	saveErr = failing
	h.evictIdle()
	if h.Len() != 1 {
		t.Fatalf("session with a failed flush was evicted")
	}

	saveErr = nil
	registered = nil
	h.evictIdle()
	if h.Len() != 0 {
		t.Fatalf("sessions = %d, want 0", h.Len())
	}
	if len(registered) != 1 || !registered[0] {
		t.Errorf("flush should run while the session is registered, got %v", registered)
	}
	if _, err := kv.Get(context.Background(), store.SceneKey(store.DefaultKey, s.ID)); err != nil {
		t.Errorf("evicted session not persisted: %v", err)
	}
}

func TestHubExportFrame(t *testing.T) {
	h := newTestHub(store.NewMemory(), &clock{t: time.Now()})
	s := h.Create()
	drawRect(t, s)

	fr, err := h.ExportFrame(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("ExportFrame: %v", err)
	}
	if fr.Width != 800 || fr.Height != 600 || len(fr.Scene.Shapes) != 1 {
		t.Errorf("frame = %dx%d with %d shapes", fr.Width, fr.Height, len(fr.Scene.Shapes))
	}

	// The frame is a copy.
	fr.Scene.Shapes[0].X = 999
	if s.Snapshot().Shapes[0].X == 999 {
		t.Error("export frame aliases the live scene")
	}

	if _, err := h.ExportFrame(context.Background(), "nope"); !errors.Is(err, export.ErrNoScene) {
		t.Errorf("unknown session = %v, want ErrNoScene", err)
	}
}

func TestHubStopFlushes(t *testing.T) {
	kv := store.NewMemory()
	h := newTestHub(kv, &clock{t: time.Now()})
	go h.Run()
	s := h.Create()
	h.Stop()
	h.Stop()

	if _, err := kv.Get(context.Background(), store.SceneKey(store.DefaultKey, s.ID)); err != nil {
		t.Errorf("stopped hub did not persist: %v", err)
	}
}
