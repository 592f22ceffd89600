// Package geom is the geometry kernel shared by the editor, the renderer and
// the exporters: points, rectangles, affine matrices, distance and inclusion
// tests, and half-plane polygon clipping.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in world or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return fromVec(r2.Add(p.vec(), q.vec()))
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return fromVec(r2.Sub(p.vec(), q.vec()))
}

// Scale returns p*f.
func (p Point) Scale(f float64) Point {
	return fromVec(r2.Scale(f, p.vec()))
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return r2.Norm(r2.Sub(p.vec(), q.vec()))
}

// Dist2 returns the squared Euclidean distance between p and q.
func (p Point) Dist2(q Point) float64 {
	return r2.Norm2(r2.Sub(p.vec(), q.vec()))
}

// ApproxEqual reports whether p and q differ by at most eps on each axis.
func (p Point) ApproxEqual(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Centroid returns the bounding-box center of pts.
func Centroid(pts []Point) Point {
	return BoundsOf(pts).Center()
}

// TranslateAll returns a copy of pts shifted by d.
func TranslateAll(pts []Point, d Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = p.Add(d)
	}
	return out
}
