package engine

import (
	"fmt"

	"github.com/inamate/shapecut/internal/document"
)

// Tool is the active interaction mode: select, annotate, cut, or the name of
// a shape type to draw.
type Tool string

const (
	ToolSelect   Tool = "select"
	ToolAnnotate Tool = "annotate"
	ToolCut      Tool = "cut"
)

// DrawTool returns the tool that draws shapes of type t.
func DrawTool(t document.ShapeType) Tool {
	return Tool(t)
}

// ShapeType returns the shape type drawn by the tool, if it is a draw tool.
// Free polygons come only from cuts and cannot be drawn.
func (t Tool) ShapeType() (document.ShapeType, bool) {
	st := document.ShapeType(t)
	if !st.Valid() || st == document.ShapePolygon {
		return "", false
	}
	return st, true
}

// IsDraw reports whether the tool draws shapes.
func (t Tool) IsDraw() bool {
	_, ok := t.ShapeType()
	return ok
}

// ParseTool validates a tool name.
func ParseTool(s string) (Tool, error) {
	t := Tool(s)
	switch t {
	case ToolSelect, ToolAnnotate, ToolCut:
		return t, nil
	}
	if t.IsDraw() {
		return t, nil
	}
	return "", fmt.Errorf("unknown tool %q", s)
}
