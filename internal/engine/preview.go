package engine

import (
	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/geom"
)

// Preview paint for a shape being drawn.
const (
	PreviewFill   = "#007bff1a"
	PreviewStroke = "#007bff"
)

// DrawPreview returns the shape the current draw gesture would create, in
// preview paint, or nil when no draw is in progress.
func (e *Editor) DrawPreview() *document.Shape {
	if e.draw == nil {
		return nil
	}
	st, ok := e.tool.ShapeType()
	if !ok {
		return nil
	}
	return document.NewShape("", st, e.draw.start, e.draw.current, document.Style{
		FillColor:   PreviewFill,
		StrokeColor: PreviewStroke,
		StrokeWidth: 1,
		FillType:    document.FillSolid,
	})
}

// CutPreview describes the cut line under construction.
type CutPreview struct {
	Active         bool        `json:"active"`
	Start          geom.Point  `json:"start"`
	End            geom.Point  `json:"end"`
	HighlightStart *geom.Point `json:"highlightStart,omitempty"`
	HighlightEnd   *geom.Point `json:"highlightEnd,omitempty"`
}

// CutPreview returns the pending cut line, if any.
func (e *Editor) CutPreview() CutPreview {
	if e.tool != ToolCut || !(e.cut.pressing || e.cut.armed) {
		return CutPreview{}
	}
	return CutPreview{
		Active:         true,
		Start:          e.cut.start,
		End:            e.cut.cursor,
		HighlightStart: e.cut.highlightStart,
		HighlightEnd:   e.cut.highlightEnd,
	}
}
