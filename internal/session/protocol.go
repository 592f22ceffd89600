package session

import (
	"encoding/json"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/render"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client -> server
	TypePointerDown     = "pointer.down"
	TypePointerMove     = "pointer.move"
	TypePointerUp       = "pointer.up"
	TypeWheel           = "wheel"
	TypeKey             = "key"
	TypeToolSet         = "tool.set"
	TypeStyleSet        = "style.set"
	TypeFillSet         = "fill.set"
	TypeAnnotationStyle = "annotation.style"
	TypeUndo            = "undo"
	TypeDelete          = "delete"
	TypeClear           = "clear"
	TypeZoomSet         = "zoom.set"
	TypeZoomIn          = "zoom.in"
	TypeZoomOut         = "zoom.out"
	TypeZoomReset       = "zoom.reset"

	// Server -> client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeExport  = "export"
	TypeJoin    = "session.join"
	TypeLeave   = "session.leave"
	TypeError   = "error"
)

// PointerPayload carries a position in surface pixels.
type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type WheelPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

type ToolPayload struct {
	Tool string `json:"tool"`
}

type FillPayload struct {
	FillType    document.FillType   `json:"fillType"`
	FillOptions *document.FillPatch `json:"fillOptions,omitempty"`
	// FillColor is used by solid fills.
	FillColor string `json:"fillColor,omitempty"`
}

type ZoomPayload struct {
	Zoom float64 `json:"zoom"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// FramePayload is a full redraw of the live frame.
type FramePayload struct {
	Commands []render.DrawCommand `json:"commands"`
	Tool     string               `json:"tool"`
	Zoom     float64              `json:"zoom"`
	CanUndo  bool                 `json:"canUndo"`
}

// ExportPayload answers a Ctrl+S key press with the SVG document.
type ExportPayload struct {
	Format string `json:"format"`
	Data   string `json:"data"`
}

type ClientPayload struct {
	ClientID string `json:"clientId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(typ string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		return errorMessage("marshal " + typ + ": " + err.Error())
	}
	return &Message{Type: typ, Payload: data}
}

func errorMessage(text string) *Message {
	data, _ := json.Marshal(ErrorPayload{Message: text})
	return &Message{Type: TypeError, Payload: data}
}
