package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// CurveSamples is the number of vertices a circle or ellipse is flattened to
// before clipping.
const CurveSamples = 36

// Side selects one half-plane of an oriented line.
type Side int

const (
	// Left keeps points with a non-negative cross product.
	Left Side = iota
	// Right keeps points with a non-positive cross product.
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// DistanceToSegment returns the distance from p to the closed segment a-b.
// A zero-length segment degrades to the distance to a.
func DistanceToSegment(p, a, b Point) float64 {
	ab := r2.Sub(b.vec(), a.vec())
	lenSq := r2.Norm2(ab)
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := r2.Dot(r2.Sub(p.vec(), a.vec()), ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a.vec(), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p.vec(), closest))
}

// PointInPolygon reports whether p is inside the implicitly closed polygon
// using the even-odd rule.
func PointInPolygon(p Point, poly []Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// NearPolygonEdge reports whether p lies within tol of any edge of the
// implicitly closed polygon.
func NearPolygonEdge(p Point, poly []Point, tol float64) bool {
	n := len(poly)
	for i := range n {
		if DistanceToSegment(p, poly[i], poly[(i+1)%n]) <= tol {
			return true
		}
	}
	return false
}

// HitPolygon is the polygon inclusion test used for picking: interior by
// even-odd or within margin of an edge, so thin polygons stay selectable.
func HitPolygon(p Point, poly []Point, margin float64) bool {
	if len(poly) == 0 {
		return false
	}
	return PointInPolygon(p, poly) || NearPolygonEdge(p, poly, margin)
}

// HitRect reports whether p lies in r grown by margin.
func HitRect(p Point, r Rect, margin float64) bool {
	return r.Expand(margin).Contains(p)
}

// HitCircle reports whether p lies within radius+margin of c.
func HitCircle(p, c Point, radius, margin float64) bool {
	return p.Dist(c) <= radius+margin
}

// HitEllipse reports whether p lies in the axis-aligned ellipse centred on c,
// with margin applied as a tolerance relative to the smaller radius.
func HitEllipse(p, c Point, rx, ry, margin float64) bool {
	if rx <= 0 || ry <= 0 {
		// Collapsed to a segment or a point.
		return DistanceToSegment(p, Pt(c.X-rx, c.Y-ry), Pt(c.X+rx, c.Y+ry)) <= margin
	}
	dx := (p.X - c.X) / rx
	dy := (p.Y - c.Y) / ry
	eps := margin / math.Max(1, math.Min(rx, ry))
	return dx*dx+dy*dy <= 1+eps
}

// LineSide returns the cross product of (b-a) and (p-a): positive on the
// left of the oriented line a→b, negative on the right, zero on it.
func LineSide(p, a, b Point) float64 {
	return r2.Cross(r2.Sub(b.vec(), a.vec()), r2.Sub(p.vec(), a.vec()))
}

func (s Side) keeps(v float64) bool {
	if s == Right {
		return v <= 0
	}
	return v >= 0
}

// IntersectSegmentLine intersects segment p1-p2 with the infinite line through
// a and b. It reports false when they are parallel.
func IntersectSegmentLine(p1, p2, a, b Point) (Point, bool) {
	d1 := r2.Sub(p2.vec(), p1.vec())
	d2 := r2.Sub(b.vec(), a.vec())
	den := r2.Cross(d1, d2)
	if den == 0 {
		return Point{}, false
	}
	t := r2.Cross(r2.Sub(a.vec(), p1.vec()), d2) / den
	return fromVec(r2.Add(p1.vec(), r2.Scale(t, d1))), true
}

// ClipPolygon returns the part of poly on the given side of the oriented line
// a→b (Sutherland–Hodgman). Vertices on the line belong to both sides. The
// result may have fewer than three vertices; callers discard those.
func ClipPolygon(poly []Point, a, b Point, side Side) []Point {
	if len(poly) == 0 {
		return nil
	}
	out := make([]Point, 0, len(poly)+2)
	for i, cur := range poly {
		prev := poly[(i+len(poly)-1)%len(poly)]
		curIn := side.keeps(LineSide(cur, a, b))
		prevIn := side.keeps(LineSide(prev, a, b))
		if curIn != prevIn {
			if x, ok := IntersectSegmentLine(prev, cur, a, b); ok {
				out = append(out, x)
			}
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

// ClipPolygonVertical is ClipPolygon specialised to the vertical line x = cutX,
// with Left keeping x <= cutX.
func ClipPolygonVertical(poly []Point, cutX float64, side Side) []Point {
	if len(poly) == 0 {
		return nil
	}
	inside := func(p Point) bool {
		if side == Right {
			return p.X >= cutX
		}
		return p.X <= cutX
	}
	out := make([]Point, 0, len(poly)+2)
	for i, cur := range poly {
		prev := poly[(i+len(poly)-1)%len(poly)]
		curIn, prevIn := inside(cur), inside(prev)
		if curIn != prevIn {
			out = append(out, intersectVertical(prev, cur, cutX))
		}
		if curIn {
			out = append(out, cur)
		}
	}
	return out
}

func intersectVertical(p1, p2 Point, cutX float64) Point {
	if p1.X == p2.X {
		return Point{X: cutX, Y: p1.Y}
	}
	t := (cutX - p1.X) / (p2.X - p1.X)
	return Point{X: cutX, Y: p1.Y + t*(p2.Y-p1.Y)}
}

// SampleEllipse flattens an axis-aligned ellipse into n vertices, starting at
// angle zero and proceeding with increasing angle.
func SampleEllipse(c Point, rx, ry float64, n int) []Point {
	pts := make([]Point, n)
	for i := range n {
		theta := float64(i) / float64(n) * 2 * math.Pi
		pts[i] = Point{X: c.X + math.Cos(theta)*rx, Y: c.Y + math.Sin(theta)*ry}
	}
	return pts
}

// PolygonArea returns the unsigned shoelace area of the polygon.
func PolygonArea(poly []Point) float64 {
	var sum float64
	n := len(poly)
	for i := range n {
		sum += r2.Cross(poly[i].vec(), poly[(i+1)%n].vec())
	}
	return math.Abs(sum) / 2
}

// IsDegenerate reports whether a clip result cannot form a closed shape:
// fewer than three vertices or no enclosed area.
func IsDegenerate(poly []Point) bool {
	const eps = 1e-9
	return len(poly) < 3 || PolygonArea(poly) <= eps
}

// Nearest returns the candidate closest to p within maxDist, if any.
func Nearest(p Point, candidates []Point, maxDist float64) (Point, bool) {
	best := Point{}
	bestDist := math.Inf(1)
	for _, c := range candidates {
		if d := p.Dist(c); d <= maxDist && d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
