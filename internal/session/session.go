package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/engine"
	"github.com/inamate/shapecut/internal/export"
	"github.com/inamate/shapecut/internal/geom"
	"github.com/inamate/shapecut/internal/render"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Session holds the authoritative editor for one session id. Events from
// every connected client are applied in arrival order under one lock.
type Session struct {
	ID string

	mu         sync.Mutex
	editor     *engine.Editor
	persister  engine.Persister
	recorder   *render.Recorder
	seq        int64
	lastActive time.Time

	clients map[string]*Client // guarded by Hub.mu
}

func newSession(id string, editor *engine.Editor, persister engine.Persister, now time.Time) *Session {
	return &Session{
		ID:         id,
		editor:     editor,
		persister:  persister,
		recorder:   render.NewRecorder(editor.Size()),
		lastActive: now,
		clients:    make(map[string]*Client),
	}
}

// Result is the outcome of applying one client message.
type Result struct {
	// Redraw is set when every client of the session needs a new frame.
	Redraw bool
	// Reply goes to the sender only.
	Reply *Message
}

// --- Commands ---

// Apply runs one client message against the editor.
func (s *Session) Apply(msg *Message, now time.Time) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = now
	res, err := s.applyLocked(msg)
	if err != nil {
		return Result{}, err
	}
	s.seq++
	return res, nil
}

func (s *Session) applyLocked(msg *Message) (Result, error) {
	e := s.editor
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		p, err := decode[PointerPayload](msg)
		if err != nil {
			return Result{}, err
		}
		pt := geom.Pt(p.X, p.Y)
		switch msg.Type {
		case TypePointerDown:
			return Result{Redraw: e.PointerDown(pt)}, nil
		case TypePointerMove:
			return Result{Redraw: e.PointerMove(pt)}, nil
		default:
			return Result{Redraw: e.PointerUp(pt)}, nil
		}

	case TypeWheel:
		p, err := decode[WheelPayload](msg)
		if err != nil {
			return Result{}, err
		}
		return Result{Redraw: e.Wheel(geom.Pt(p.X, p.Y), p.DeltaY)}, nil

	case TypeKey:
		ev, err := decode[engine.KeyEvent](msg)
		if err != nil {
			return Result{}, err
		}
		cmd, redraw := e.HandleKey(ev)
		res := Result{Redraw: redraw}
		if cmd == engine.CommandExportSVG {
			w, h := e.Size()
			svg := export.SVG(render.SceneOf(e), w, h, export.SVGOptions{})
			res.Reply = newMessage(TypeExport, ExportPayload{Format: string(export.FormatSVG), Data: svg})
		}
		return res, nil

	case TypeToolSet:
		p, err := decode[ToolPayload](msg)
		if err != nil {
			return Result{}, err
		}
		tool, err := engine.ParseTool(p.Tool)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", msg.Type, err)
		}
		e.SetTool(tool)
		return Result{Redraw: true}, nil

	case TypeStyleSet:
		p, err := decode[document.StylePatch](msg)
		if err != nil {
			return Result{}, err
		}
		e.SetStyle(p)
		return Result{Redraw: true}, nil

	case TypeFillSet:
		p, err := decode[FillPayload](msg)
		if err != nil {
			return Result{}, err
		}
		if err := applyFill(e, p); err != nil {
			return Result{}, fmt.Errorf("%s: %w", msg.Type, err)
		}
		return Result{Redraw: true}, nil

	case TypeAnnotationStyle:
		st := e.AnnotationStyle()
		if err := json.Unmarshal(msg.Payload, &st); err != nil {
			return Result{}, fmt.Errorf("%s: %w", msg.Type, err)
		}
		e.SetAnnotationStyle(st)
		return Result{Redraw: true}, nil

	case TypeUndo:
		return Result{Redraw: e.Undo()}, nil
	case TypeDelete:
		return Result{Redraw: e.DeleteSelected()}, nil
	case TypeClear:
		e.ClearAll()
		return Result{Redraw: true}, nil

	case TypeZoomSet:
		p, err := decode[ZoomPayload](msg)
		if err != nil {
			return Result{}, err
		}
		e.SetZoom(p.Zoom)
		return Result{Redraw: true}, nil
	case TypeZoomIn:
		e.ZoomIn()
		return Result{Redraw: true}, nil
	case TypeZoomOut:
		e.ZoomOut()
		return Result{Redraw: true}, nil
	case TypeZoomReset:
		e.ResetZoom()
		return Result{Redraw: true}, nil
	}
	return Result{}, fmt.Errorf("%w: %s", ErrUnknownMessage, msg.Type)
}

func applyFill(e *engine.Editor, p FillPayload) error {
	switch p.FillType {
	case document.FillSolid:
		color := p.FillColor
		if color == "" {
			color = e.Style().FillColor
		}
		e.SetFillSolid(color)
		return nil
	case document.FillLinearGradient, document.FillRadialGradient, document.FillPatternStripes, document.FillPatternDots:
		var patch document.FillPatch
		if p.FillOptions != nil {
			patch = *p.FillOptions
		}
		e.SetFillStyle(p.FillType, patch)
		return nil
	}
	return fmt.Errorf("unknown fill type %q", p.FillType)
}

func decode[T any](msg *Message) (T, error) {
	var v T
	if len(msg.Payload) == 0 {
		return v, fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("%s: %w", msg.Type, err)
	}
	return v, nil
}

// Undo steps the scene back once, reporting whether anything changed.
func (s *Session) Undo(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now
	if !s.editor.Undo() {
		return false
	}
	s.seq++
	return true
}

// Flush writes the current scene to the persister.
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(s.editor.Snapshot()); err != nil {
		return fmt.Errorf("flush session %s: %w", s.ID, err)
	}
	return nil
}

// --- Queries ---

// Frame renders the live frame as a draw-command message.
func (s *Session) Frame() *Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recorder.Reset()
	render.Frame(s.recorder, s.editor)
	msg := newMessage(TypeFrame, FramePayload{
		Commands: s.recorder.Commands(),
		Tool:     string(s.editor.Tool()),
		Zoom:     s.editor.View().Zoom,
		CanUndo:  s.editor.UndoDepth() > 0,
	})
	msg.SessionID = s.ID
	msg.Seq = s.seq
	return msg
}

// Snapshot returns a copy of the scene.
func (s *Session) Snapshot() *document.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Snapshot()
}

// ExportFrame returns a copy of everything an export needs.
func (s *Session) ExportFrame() export.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	fr := export.FrameOf(s.editor)
	fr.Scene.Shapes = document.CloneShapes(fr.Scene.Shapes)
	fr.Scene.GlobalAnnotations = slices.Clone(fr.Scene.GlobalAnnotations)
	return fr
}

// Size returns the editor surface size.
func (s *Session) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Size()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}
