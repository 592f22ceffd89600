package document

import (
	"math"

	"github.com/inamate/shapecut/internal/geom"
)

const starInnerRatio = 0.4

// NewShape builds a shape of type t from a drag gesture running from start to
// end, painted with style.
func NewShape(id string, t ShapeType, start, end geom.Point, style Style) *Shape {
	s := &Shape{ID: id, Type: t}
	s.ApplyStyle(style)
	SetGeometry(s, start, end)
	return s
}

// SetGeometry replaces the geometry of s with the one spanned by the drag
// rectangle start→end.
func SetGeometry(s *Shape, start, end geom.Point) {
	box := geom.RectFromCorners(start, end)
	center := geom.Pt(start.X+(end.X-start.X)/2, start.Y+(end.Y-start.Y)/2)
	halfMin := math.Min(box.Width, box.Height) / 2

	switch s.Type {
	case ShapeRectangle:
		s.X, s.Y, s.Width, s.Height = box.X, box.Y, box.Width, box.Height
	case ShapeCircle:
		s.X, s.Y, s.Radius = center.X, center.Y, halfMin
	case ShapeEllipse:
		s.X, s.Y = center.X, center.Y
		s.RadiusX, s.RadiusY = box.Width/2, box.Height/2
	case ShapeLine:
		s.X1, s.Y1, s.X2, s.Y2 = start.X, start.Y, end.X, end.Y
	case ShapeTriangle:
		s.Points = []geom.Point{
			{X: center.X, Y: start.Y},
			{X: end.X, Y: end.Y},
			{X: start.X, Y: end.Y},
		}
	case ShapeStar:
		s.Points = StarPoints(center, 5, halfMin, halfMin*starInnerRatio)
	case ShapePentagon:
		s.Points = RegularPolygonPoints(center, 5, halfMin)
	case ShapeHexagon:
		s.Points = RegularPolygonPoints(center, 6, halfMin)
	case ShapeDiamond:
		s.Points = []geom.Point{
			{X: center.X, Y: start.Y},
			{X: end.X, Y: center.Y},
			{X: center.X, Y: end.Y},
			{X: start.X, Y: center.Y},
		}
	case ShapeArrow:
		s.Points = ArrowPoints(start, end)
	case ShapePolygon:
		// A free polygon drawn by drag is its drag rectangle.
		s.Points = box.Corners()
	}
}

// StarPoints returns 2n vertices alternating between the outer and inner
// radius, starting straight up.
func StarPoints(c geom.Point, n int, outer, inner float64) []geom.Point {
	pts := make([]geom.Point, 0, 2*n)
	step := 2 * math.Pi / float64(n)
	for i := range 2 * n {
		angle := float64(i)*step/2 - math.Pi/2
		r := outer
		if i%2 == 1 {
			r = inner
		}
		pts = append(pts, geom.Pt(c.X+math.Cos(angle)*r, c.Y+math.Sin(angle)*r))
	}
	return pts
}

// RegularPolygonPoints returns n vertices on a circle, the first straight up.
func RegularPolygonPoints(c geom.Point, n int, r float64) []geom.Point {
	pts := make([]geom.Point, 0, n)
	step := 2 * math.Pi / float64(n)
	for i := range n {
		angle := float64(i)*step - math.Pi/2
		pts = append(pts, geom.Pt(c.X+math.Cos(angle)*r, c.Y+math.Sin(angle)*r))
	}
	return pts
}

// ArrowPoints returns a right-pointing block arrow: the shaft spans the middle
// 40% of the drag height and the head starts at 70% of the drag width.
func ArrowPoints(start, end geom.Point) []geom.Point {
	w := math.Abs(end.X - start.X)
	h := math.Abs(end.Y - start.Y)
	neck := start.X + w*0.7
	return []geom.Point{
		{X: start.X, Y: start.Y + h*0.3},
		{X: neck, Y: start.Y + h*0.3},
		{X: neck, Y: start.Y},
		{X: end.X, Y: start.Y + h/2},
		{X: neck, Y: end.Y},
		{X: neck, Y: start.Y + h*0.7},
		{X: start.X, Y: start.Y + h*0.7},
	}
}

// Bounds returns the shape's axis-aligned bounding box.
func (s *Shape) Bounds() geom.Rect {
	switch s.Type.Geometry() {
	case GeometryBox:
		return geom.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
	case GeometryCircle:
		return geom.Rect{X: s.X - s.Radius, Y: s.Y - s.Radius, Width: 2 * s.Radius, Height: 2 * s.Radius}
	case GeometryEllipse:
		return geom.Rect{X: s.X - s.RadiusX, Y: s.Y - s.RadiusY, Width: 2 * s.RadiusX, Height: 2 * s.RadiusY}
	case GeometryVertices:
		return geom.BoundsOf(s.Points)
	case GeometrySegment:
		return geom.RectFromCorners(s.Start(), s.End())
	}
	return geom.Rect{}
}

// Boundary returns the closed outline used for clipping: corners for a
// rectangle, the vertex list for polygons, CurveSamples points for circles
// and ellipses, and both endpoints for a line.
func (s *Shape) Boundary() []geom.Point {
	switch s.Type.Geometry() {
	case GeometryBox:
		return s.Bounds().Corners()
	case GeometryCircle:
		return geom.SampleEllipse(geom.Pt(s.X, s.Y), s.Radius, s.Radius, geom.CurveSamples)
	case GeometryEllipse:
		return geom.SampleEllipse(geom.Pt(s.X, s.Y), s.RadiusX, s.RadiusY, geom.CurveSamples)
	case GeometryVertices:
		return s.Points
	case GeometrySegment:
		return []geom.Point{s.Start(), s.End()}
	}
	return nil
}

// SnapPoints returns the points the cut tool snaps to: rectangle corners,
// line endpoints and polygon vertices. Curves have none.
func (s *Shape) SnapPoints() []geom.Point {
	switch s.Type.Geometry() {
	case GeometryBox:
		return s.Bounds().Corners()
	case GeometryVertices:
		return s.Points
	case GeometrySegment:
		return []geom.Point{s.Start(), s.End()}
	}
	return nil
}

// Hit reports whether the world point p picks the shape at the given zoom.
// marginPx widens closed shapes; linePx is the minimum pick distance for a
// line, which also grows with its stroke width. Both are screen pixels.
func (s *Shape) Hit(p geom.Point, zoom, marginPx, linePx float64) bool {
	m := marginPx / zoom
	switch s.Type.Geometry() {
	case GeometryBox:
		return geom.HitRect(p, s.Bounds(), m)
	case GeometryCircle:
		return geom.HitCircle(p, geom.Pt(s.X, s.Y), s.Radius, m)
	case GeometryEllipse:
		return geom.HitEllipse(p, geom.Pt(s.X, s.Y), s.RadiusX, s.RadiusY, m)
	case GeometryVertices:
		return geom.HitPolygon(p, s.Points, m)
	case GeometrySegment:
		sw := s.StrokeWidth
		if sw == 0 {
			sw = 1
		}
		tol := math.Max(linePx/zoom, sw/zoom)
		return geom.DistanceToSegment(p, s.Start(), s.End()) <= tol
	}
	return false
}
