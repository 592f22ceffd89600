package render

import (
	"math"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/engine"
	"github.com/inamate/shapecut/internal/geom"
)

// Live-surface affordances.
const (
	Background = "#ffffff"

	gridSpacing = 20
	gridColor   = "#f0f0f0"
	gridWidth   = 0.5

	selectionPad   = 5
	selectionColor = "#007bff"
	selectionWidth = 2

	cutColor     = "#e74c3c"
	cutWidth     = 2
	cutDotRadius = 5
)

var (
	selectionDash = []float64{5, 5}
	previewDash   = []float64{5, 5}
	cutDash       = []float64{6, 4}
)

// Scene is the content drawn by the export path.
type Scene struct {
	Shapes            []*document.Shape
	GlobalAnnotations []document.Annotation
	AnnotationStyle   document.AnnotationStyle
}

// SceneOf captures the editor's current content.
func SceneOf(e *engine.Editor) Scene {
	return Scene{
		Shapes:            e.Shapes(),
		GlobalAnnotations: e.GlobalAnnotations(),
		AnnotationStyle:   e.AnnotationStyle(),
	}
}

// ExportOptions controls the export path.
type ExportOptions struct {
	// Transform maps world to surface; nil draws world coordinates as-is.
	Transform *geom.Matrix2D
	// Background is composited first; empty leaves the surface transparent.
	Background string
}

// Frame draws the live editor view: grid, shapes, selection, annotations
// filtered by hover and the gesture previews.
func Frame(s Surface, e *engine.Editor) {
	w, h := s.Size()
	v := e.View()
	as := e.AnnotationStyle()

	s.Clear(Background)
	s.Save()
	s.SetTransform(v.Matrix())

	drawGrid(s, v, w, h)

	for _, sh := range e.Shapes() {
		drawShape(s, sh, nil)
		for i, a := range sh.Annotations {
			if e.ShapeAnnotationVisible(sh.ID, i) {
				drawAnnotation(s, a, i, as)
			}
		}
	}

	if sel := e.Selected(); sel != nil {
		outline := (&Path{}).Rect(sel.Bounds().Expand(selectionPad))
		s.Stroke(outline, Stroke{Color: selectionColor, Width: selectionWidth, Dash: selectionDash})
	}

	for i, a := range e.GlobalAnnotations() {
		if e.GlobalAnnotationVisible(i) {
			drawAnnotation(s, a, i, as)
		}
	}

	if pv := e.DrawPreview(); pv != nil {
		drawShape(s, pv, previewDash)
	}

	if cp := e.CutPreview(); cp.Active {
		drawCutPreview(s, cp)
	}

	s.Restore()
}

// Export draws every shape and every annotation with none of the live-only
// affordances.
func Export(s Surface, sc Scene, opts ExportOptions) {
	s.Save()
	if opts.Background != "" {
		s.Clear(opts.Background)
	}
	m := geom.Identity()
	if opts.Transform != nil {
		m = *opts.Transform
	}
	s.SetTransform(m)

	for _, sh := range sc.Shapes {
		drawShape(s, sh, nil)
		for i, a := range sh.Annotations {
			drawAnnotation(s, a, i, sc.AnnotationStyle)
		}
	}
	for i, a := range sc.GlobalAnnotations {
		drawAnnotation(s, a, i, sc.AnnotationStyle)
	}
	s.Restore()
}

// ShapePath returns the outline of a shape in world coordinates.
func ShapePath(sh *document.Shape) *Path {
	p := &Path{}
	switch sh.Type.Geometry() {
	case document.GeometryBox:
		p.Rect(sh.Bounds())
	case document.GeometryCircle:
		p.Ellipse(geom.Pt(sh.X, sh.Y), sh.Radius, sh.Radius)
	case document.GeometryEllipse:
		p.Ellipse(geom.Pt(sh.X, sh.Y), sh.RadiusX, sh.RadiusY)
	case document.GeometryVertices:
		p.Polygon(sh.Points)
	case document.GeometrySegment:
		p.Line(sh.Start(), sh.End())
	}
	return p
}

func drawShape(s Surface, sh *document.Shape, dash []float64) {
	p := ShapePath(sh)
	if len(p.Commands) == 0 {
		return
	}
	if sh.Type.Geometry() != document.GeometrySegment {
		s.Fill(p, ResolveFill(sh))
	}
	s.Stroke(p, Stroke{Color: sh.StrokeColor, Width: sh.StrokeWidth, Dash: dash})
}

func drawAnnotation(s Surface, a document.Annotation, i int, st document.AnnotationStyle) {
	dot := (&Path{}).Ellipse(a.Point(), st.DotRadius, st.DotRadius)
	s.Fill(dot, SolidPaint(st.DotFill))
	s.Stroke(dot, Stroke{Color: st.DotStroke, Width: st.DotStrokeWidth})
	s.Text(document.LabelFor(a, i), geom.Pt(a.X+st.LabelOffsetX, a.Y), TextStyle{
		Color: st.LabelColor,
		Size:  st.LabelFontSize,
	})
}

// drawGrid strokes grid lines over the world area visible on the surface.
func drawGrid(s Surface, v engine.View, w, h int) {
	vis := v.Matrix().Invert().TransformRect(geom.Rect{Width: float64(w), Height: float64(h)})
	lo := geom.Pt(vis.X, vis.Y)
	hi := geom.Pt(vis.X+vis.Width, vis.Y+vis.Height)
	x0 := math.Floor(lo.X/gridSpacing) * gridSpacing
	y0 := math.Floor(lo.Y/gridSpacing) * gridSpacing

	p := &Path{}
	for x := x0; x <= hi.X; x += gridSpacing {
		p.Line(geom.Pt(x, lo.Y), geom.Pt(x, hi.Y))
	}
	for y := y0; y <= hi.Y; y += gridSpacing {
		p.Line(geom.Pt(lo.X, y), geom.Pt(hi.X, y))
	}
	s.Stroke(p, Stroke{Color: gridColor, Width: gridWidth})
}

func drawCutPreview(s Surface, cp engine.CutPreview) {
	s.Stroke((&Path{}).Line(cp.Start, cp.End), Stroke{Color: cutColor, Width: cutWidth, Dash: cutDash})
	for _, pt := range []*geom.Point{cp.HighlightStart, cp.HighlightEnd} {
		if pt == nil {
			continue
		}
		dot := (&Path{}).Ellipse(*pt, cutDotRadius, cutDotRadius)
		s.Fill(dot, SolidPaint("#ffffff"))
		s.Stroke(dot, Stroke{Color: cutColor, Width: cutWidth})
	}
}
