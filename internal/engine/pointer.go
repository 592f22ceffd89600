package engine

import (
	"strconv"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/geom"
)

// Pick tolerances in screen pixels.
const (
	pickMarginPx   = 6
	pickLinePx     = 8
	snapPx         = 8
	clickSlopPx2   = 9
	annotationPx   = 14
	hoverMarginPx  = 12
	hoverLineMinPx = 12
)

// dragSession records where a drag started. Every move recomputes the shape
// from origin, so repeated moves cannot accumulate error.
type dragSession struct {
	id     string
	start  geom.Point
	origin *document.Shape
	moved  bool
}

type drawSession struct {
	start   geom.Point
	current geom.Point
}

// cutState tracks the two-point cut gesture.
type cutState struct {
	pressing  bool // first point is down, waiting for its release
	armed     bool // first point latched, waiting for the second click
	swallowUp bool // the second click completed on press; ignore its release
	start     geom.Point
	down      geom.Point // unsnapped press position
	cursor    geom.Point

	highlightStart *geom.Point
	highlightEnd   *geom.Point
}

// PointerDown handles a press at a surface pixel. It reports whether the
// surface needs a redraw.
func (e *Editor) PointerDown(screen geom.Point) bool {
	p := e.view.ToWorld(screen)

	switch {
	case e.tool == ToolSelect:
		if s := e.shapeAt(p); s != nil {
			e.selectedID = s.ID
			e.drag = &dragSession{id: s.ID, start: p, origin: s.Clone()}
		} else {
			e.selectedID = ""
		}
	case e.tool.IsDraw():
		e.draw = &drawSession{start: p, current: p}
	case e.tool == ToolAnnotate:
		e.annotate(p)
	case e.tool == ToolCut:
		e.cutPress(p)
	}
	return true
}

// PointerMove handles pointer motion. It reports whether the surface needs a
// redraw; plain hovering only redraws when the hover targets change.
func (e *Editor) PointerMove(screen geom.Point) bool {
	p := e.view.ToWorld(screen)

	switch {
	case e.drag != nil:
		e.dragTo(p)
		e.updateHover(p)
		return true
	case e.draw != nil:
		e.draw.current = p
		e.updateHover(p)
		return true
	case e.tool == ToolCut && (e.cut.pressing || e.cut.armed):
		c, snapped := e.snap(p)
		e.cut.cursor = c
		e.cut.highlightEnd = nil
		if snapped {
			e.cut.highlightEnd = &c
		}
		return true
	}
	return e.updateHover(p)
}

// PointerUp handles a release. It reports whether the surface needs a redraw.
func (e *Editor) PointerUp(screen geom.Point) bool {
	p := e.view.ToWorld(screen)

	if d := e.draw; d != nil {
		e.draw = nil
		if st, ok := e.tool.ShapeType(); ok && p != d.start {
			e.pushHistory()
			s := document.NewShape(e.newID(), st, d.start, p, e.style)
			e.shapes = append(e.shapes, s)
			e.selectedID = s.ID
			e.persist()
		}
		return true
	}

	if d := e.drag; d != nil {
		e.drag = nil
		if d.moved {
			e.persist()
		}
		return true
	}

	if e.tool == ToolCut {
		return e.cutRelease(p)
	}
	return false
}

// Wheel zooms one notch around the cursor.
func (e *Editor) Wheel(screen geom.Point, deltaY float64) bool {
	e.view.Wheel(screen, deltaY)
	return true
}

// LayoutPoint maps a position measured in layout (CSS) pixels on an element
// of size layoutW x layoutH onto this editor's surface pixels.
func (e *Editor) LayoutPoint(layout geom.Point, layoutW, layoutH float64) geom.Point {
	w, h := e.Size()
	return SurfacePoint(layout, layoutW, layoutH, w, h)
}

// ShapeAt returns the topmost shape under a surface pixel, or nil.
func (e *Editor) ShapeAt(screen geom.Point) *document.Shape {
	return e.shapeAt(e.view.ToWorld(screen))
}

func (e *Editor) shapeAt(p geom.Point) *document.Shape {
	for i := len(e.shapes) - 1; i >= 0; i-- {
		if e.shapes[i].Hit(p, e.view.Zoom, pickMarginPx, pickLinePx) {
			return e.shapes[i]
		}
	}
	return nil
}

func (e *Editor) dragTo(p geom.Point) {
	d := e.drag
	_, cur := e.find(d.id)
	if cur == nil {
		e.drag = nil
		return
	}
	if !d.moved {
		e.pushHistory()
		d.moved = true
	}
	moved := d.origin.Clone()
	moved.Translate(p.Sub(d.start))
	*cur = *moved
}

func (e *Editor) annotate(p geom.Point) {
	e.pushHistory()
	if s := e.shapeAt(p); s != nil {
		label := strconv.Itoa(len(s.Annotations) + 1)
		s.Annotations = append(s.Annotations, document.Annotation{X: p.X, Y: p.Y, Label: label})
	} else {
		label := strconv.Itoa(len(e.global) + 1)
		e.global = append(e.global, document.Annotation{X: p.X, Y: p.Y, Label: label})
	}
	e.persist()
}

// snap returns the nearest characteristic point within snapPx of p, or p.
func (e *Editor) snap(p geom.Point) (geom.Point, bool) {
	var candidates []geom.Point
	for _, s := range e.shapes {
		candidates = append(candidates, s.SnapPoints()...)
	}
	if c, ok := geom.Nearest(p, candidates, snapPx/e.view.Zoom); ok {
		return c, true
	}
	return p, false
}

func (e *Editor) cutPress(p geom.Point) {
	if e.cut.armed {
		end, _ := e.snap(p)
		e.finishCut(e.cut.start, end)
		e.cut.swallowUp = true
		return
	}
	start, snapped := e.snap(p)
	e.cut = cutState{pressing: true, start: start, down: p, cursor: start}
	if snapped {
		e.cut.highlightStart = &start
	}
}

func (e *Editor) cutRelease(p geom.Point) bool {
	if e.cut.swallowUp {
		e.cut.swallowUp = false
		return false
	}
	if !e.cut.pressing {
		return false
	}
	e.cut.pressing = false

	d := p.Sub(e.cut.down).Scale(e.view.Zoom)
	if d.X*d.X+d.Y*d.Y < clickSlopPx2 {
		e.cut.armed = true
		return true
	}
	end, _ := e.snap(p)
	e.finishCut(e.cut.start, end)
	return true
}

func (e *Editor) finishCut(a, b geom.Point) {
	e.cut = cutState{}
	if a == b {
		return
	}
	e.pushHistory()
	e.CutBySegment(a, b)
	e.persist()
}
