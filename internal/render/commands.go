package render

import (
	"encoding/json"
	"slices"

	"github.com/inamate/shapecut/internal/geom"
)

// Draw command ops, replayed in order on a Canvas2D context.
const (
	OpClear     = "clear"
	OpSave      = "save"
	OpRestore   = "restore"
	OpTransform = "transform"
	OpFill      = "fill"
	OpStroke    = "stroke"
	OpText      = "text"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
type DrawCommand struct {
	Op          string        `json:"op"`
	Transform   []float64     `json:"transform,omitempty"` // [a, b, c, d, e, f] for "transform"
	Path        []PathCommand `json:"path,omitempty"`
	Fill        string        `json:"fill,omitempty"`  // solid colour for "fill" and "clear"
	Paint       *Paint        `json:"paint,omitempty"` // gradient or pattern for "fill"
	Stroke      string        `json:"stroke,omitempty"`
	StrokeWidth float64       `json:"strokeWidth,omitempty"`
	Dash        []float64     `json:"dash,omitempty"`
	Text        string        `json:"text,omitempty"`
	X           float64       `json:"x"` // text anchor
	Y           float64       `json:"y"`
	FontSize    float64       `json:"fontSize,omitempty"`
}

// Recorder is a Surface that records draw commands instead of painting.
type Recorder struct {
	width, height int
	matrix        geom.Matrix2D
	stack         []geom.Matrix2D
	commands      []DrawCommand
}

// NewRecorder returns an empty recorder for a surface of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height, matrix: geom.Identity()}
}

// Commands returns the recorded commands in painter's order.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops recorded commands and state.
func (r *Recorder) Reset() {
	r.commands = nil
	r.stack = nil
	r.matrix = geom.Identity()
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) Clear(color string) {
	r.commands = append(r.commands, DrawCommand{Op: OpClear, Fill: color})
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.matrix)
	r.commands = append(r.commands, DrawCommand{Op: OpSave})
}

func (r *Recorder) Restore() {
	if n := len(r.stack); n > 0 {
		r.matrix = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.commands = append(r.commands, DrawCommand{Op: OpRestore})
}

func (r *Recorder) SetTransform(m geom.Matrix2D) {
	r.matrix = m
	r.commands = append(r.commands, DrawCommand{Op: OpTransform, Transform: m.ToSlice()})
}

func (r *Recorder) Transform() geom.Matrix2D { return r.matrix }

func (r *Recorder) Fill(p *Path, paint Paint) {
	cmd := DrawCommand{Op: OpFill, Path: slices.Clone(p.Commands)}
	if paint.Kind == PaintSolid || paint.Kind == "" {
		cmd.Fill = paint.Color
	} else {
		cmd.Paint = &paint
	}
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) Stroke(p *Path, s Stroke) {
	if s.Width <= 0 {
		return
	}
	r.commands = append(r.commands, DrawCommand{
		Op:          OpStroke,
		Path:        slices.Clone(p.Commands),
		Stroke:      s.Color,
		StrokeWidth: s.Width,
		Dash:        slices.Clone(s.Dash),
	})
}

func (r *Recorder) Text(s string, at geom.Point, style TextStyle) {
	r.commands = append(r.commands, DrawCommand{
		Op:       OpText,
		Text:     s,
		X:        at.X,
		Y:        at.Y,
		Fill:     style.Color,
		FontSize: style.Size,
	})
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
