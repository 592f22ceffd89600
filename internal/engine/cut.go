package engine

import (
	"math"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/geom"
)

// CutBySegment splits every shape crossed by the infinite line through a and
// b. Closed shapes become up to two polygons that keep the original paint;
// lines become two collinear segments. Shapes the line misses or only touches
// are left as they are. It returns the number of shapes replaced. History and
// persistence are the caller's concern.
func (e *Editor) CutBySegment(a, b geom.Point) int {
	if a == b {
		return 0
	}
	side := func(p geom.Point) geom.Side {
		if geom.LineSide(p, a, b) >= 0 {
			return geom.Left
		}
		return geom.Right
	}
	return e.splitAll(func(s *document.Shape) []*document.Shape {
		if s.Type == document.ShapeLine {
			return e.splitLineBySegment(s, a, b, side)
		}
		poly := s.Boundary()
		left := geom.ClipPolygon(poly, a, b, geom.Left)
		right := geom.ClipPolygon(poly, a, b, geom.Right)
		return e.halves(s, left, right, side)
	})
}

// CutAtX splits every shape crossed by the vertical line x = cutX; Left is
// the x <= cutX side.
func (e *Editor) CutAtX(cutX float64) int {
	side := func(p geom.Point) geom.Side {
		if p.X <= cutX {
			return geom.Left
		}
		return geom.Right
	}
	return e.splitAll(func(s *document.Shape) []*document.Shape {
		if s.Type == document.ShapeLine {
			minX, maxX := math.Min(s.X1, s.X2), math.Max(s.X1, s.X2)
			if !(cutX > minX && cutX < maxX) {
				return nil
			}
			t := (cutX - s.X1) / (s.X2 - s.X1)
			mid := geom.Pt(cutX, s.Y1+t*(s.Y2-s.Y1))
			return e.lineHalves(s, mid, side)
		}
		poly := s.Boundary()
		left := geom.ClipPolygonVertical(poly, cutX, geom.Left)
		right := geom.ClipPolygonVertical(poly, cutX, geom.Right)
		return e.halves(s, left, right, side)
	})
}

// splitAll replaces, in paint order, each shape for which split returns a
// non-nil result.
func (e *Editor) splitAll(split func(*document.Shape) []*document.Shape) int {
	out := make([]*document.Shape, 0, len(e.shapes))
	replaced := 0
	for _, s := range e.shapes {
		parts := split(s)
		if parts == nil {
			out = append(out, s)
			continue
		}
		out = append(out, parts...)
		replaced++
	}
	e.shapes = out
	return replaced
}

func (e *Editor) splitLineBySegment(s *document.Shape, a, b geom.Point, side func(geom.Point) geom.Side) []*document.Shape {
	sa := geom.LineSide(s.Start(), a, b)
	sb := geom.LineSide(s.End(), a, b)
	if !(sa > 0 && sb < 0) && !(sa < 0 && sb > 0) {
		return nil
	}
	mid, ok := geom.IntersectSegmentLine(s.Start(), s.End(), a, b)
	if !ok {
		return nil
	}
	return e.lineHalves(s, mid, side)
}

// lineHalves splits line s at mid. Owned annotations follow the half on
// their side.
func (e *Editor) lineHalves(s *document.Shape, mid geom.Point, side func(geom.Point) geom.Side) []*document.Shape {
	first := &document.Shape{ID: e.newID(), Type: document.ShapeLine, X1: s.X1, Y1: s.Y1, X2: mid.X, Y2: mid.Y}
	second := &document.Shape{ID: e.newID(), Type: document.ShapeLine, X1: mid.X, Y1: mid.Y, X2: s.X2, Y2: s.Y2}
	first.Paint(s)
	second.Paint(s)
	firstSide := side(s.Start())
	for _, ann := range s.Annotations {
		if side(ann.Point()) == firstSide {
			first.Annotations = append(first.Annotations, ann)
		} else {
			second.Annotations = append(second.Annotations, ann)
		}
	}
	return []*document.Shape{first, second}
}

// halves turns the two clip results of s into polygons. A shape is only
// replaced when both sides enclose area; otherwise the line missed or merely
// touched it.
func (e *Editor) halves(s *document.Shape, left, right []geom.Point, side func(geom.Point) geom.Side) []*document.Shape {
	if geom.IsDegenerate(left) || geom.IsDegenerate(right) {
		return nil
	}
	l := &document.Shape{ID: e.newID(), Type: document.ShapePolygon, Points: left}
	r := &document.Shape{ID: e.newID(), Type: document.ShapePolygon, Points: right}
	l.Paint(s)
	r.Paint(s)
	for _, ann := range s.Annotations {
		if side(ann.Point()) == geom.Left {
			l.Annotations = append(l.Annotations, ann)
		} else {
			r.Annotations = append(r.Annotations, ann)
		}
	}
	return []*document.Shape{l, r}
}
