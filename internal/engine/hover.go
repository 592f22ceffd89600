package engine

import (
	"math"

	"github.com/inamate/shapecut/internal/geom"
)

// AnnotationRef points at one shape-owned annotation.
type AnnotationRef struct {
	ShapeID string `json:"shapeId"`
	Index   int    `json:"index"`
}

// Hover holds what the pointer is near. Empty ShapeID or Annotation.ShapeID
// and a negative Global mean "nothing".
type Hover struct {
	Annotation AnnotationRef `json:"annotation"`
	ShapeID    string        `json:"shapeId"`
	Global     int           `json:"global"`
}

var noHover = Hover{Annotation: AnnotationRef{Index: -1}, Global: -1}

// updateHover recomputes the hover targets at world point p and reports
// whether they changed.
func (e *Editor) updateHover(p geom.Point) bool {
	prev := e.hover
	next := noHover
	annReach := annotationPx / e.view.Zoom

	best := math.Inf(1)
	for i, a := range e.global {
		if d := p.Dist(a.Point()); d <= annReach && d < best {
			next.Global, best = i, d
		}
	}

	for i := len(e.shapes) - 1; i >= 0; i-- {
		s := e.shapes[i]
		if len(s.Annotations) == 0 {
			continue
		}
		hit := false
		for j, a := range s.Annotations {
			if p.Dist(a.Point()) <= annReach {
				next.Annotation = AnnotationRef{ShapeID: s.ID, Index: j}
				next.ShapeID = s.ID
				hit = true
				break
			}
		}
		if hit {
			break
		}
		if s.Hit(p, e.view.Zoom, hoverMarginPx, hoverLineMinPx) {
			next.ShapeID = s.ID
			break
		}
	}

	e.hover = next
	return next != prev
}

// ShapeAnnotationVisible reports whether annotation i of the shape with the
// given id is drawn on the live surface.
func (e *Editor) ShapeAnnotationVisible(shapeID string, i int) bool {
	switch {
	case e.tool == ToolAnnotate:
		return true
	case e.hover.ShapeID == shapeID:
		return true
	case e.hover.Annotation.ShapeID == shapeID && e.hover.Annotation.Index == i:
		return true
	}
	return false
}

// GlobalAnnotationVisible reports whether global annotation i is drawn on
// the live surface.
func (e *Editor) GlobalAnnotationVisible(i int) bool {
	switch {
	case e.tool == ToolAnnotate:
		return true
	case e.hover.ShapeID == "":
		return true
	case e.hover.Global == i:
		return true
	}
	return false
}
