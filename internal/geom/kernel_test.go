package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func square(x, y, size float64) []Point {
	return []Point{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}}
}

func TestDistanceToSegment(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		a, b Point
		want float64
	}{
		{"perpendicular", Pt(5, 3), Pt(0, 0), Pt(10, 0), 3},
		{"past end clamps", Pt(13, 4), Pt(0, 0), Pt(10, 0), 5},
		{"before start clamps", Pt(-3, 4), Pt(0, 0), Pt(10, 0), 5},
		{"zero length", Pt(3, 4), Pt(0, 0), Pt(0, 0), 5},
		{"on segment", Pt(2, 2), Pt(0, 0), Pt(4, 4), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceToSegment(tt.p, tt.a, tt.b)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("DistanceToSegment = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointInPolygonEvenOdd(t *testing.T) {
	sq := square(0, 0, 10)
	if !PointInPolygon(Pt(5, 5), sq) {
		t.Error("center of square should be inside")
	}
	if PointInPolygon(Pt(15, 5), sq) {
		t.Error("point right of square should be outside")
	}

	// Self-intersecting pentagram: the central pentagon is outside under even-odd.
	star := []Point{}
	for i := range 5 {
		a := float64(i*2)*2*math.Pi/5 - math.Pi/2
		star = append(star, Pt(math.Cos(a)*10, math.Sin(a)*10))
	}
	if PointInPolygon(Pt(0, 0), star) {
		t.Error("pentagram center should be outside under even-odd rule")
	}
}

func TestHitPolygonNearEdge(t *testing.T) {
	// Degenerate sliver with no interior.
	sliver := []Point{{0, 0}, {10, 0}, {20, 0}}
	if !HitPolygon(Pt(5, 2), sliver, 3) {
		t.Error("point within margin of a sliver should hit")
	}
	if HitPolygon(Pt(5, 4), sliver, 3) {
		t.Error("point outside margin should miss")
	}
	if HitPolygon(Pt(0, 0), nil, 3) {
		t.Error("empty polygon never hits")
	}
}

func TestHitClosedForms(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	if !HitRect(Pt(8, 12), r, 3) || HitRect(Pt(5, 12), r, 3) {
		t.Error("HitRect margin handling wrong")
	}
	if !HitCircle(Pt(13, 0), Pt(0, 0), 10, 3) || HitCircle(Pt(14, 0), Pt(0, 0), 10, 3) {
		t.Error("HitCircle margin handling wrong")
	}
	if !HitEllipse(Pt(20, 0), Pt(0, 0), 20, 10, 0) {
		t.Error("point on ellipse boundary should hit")
	}
	if HitEllipse(Pt(0, 12), Pt(0, 0), 20, 10, 0) {
		t.Error("point beyond minor axis should miss without margin")
	}
	if !HitEllipse(Pt(0, 10.4), Pt(0, 0), 20, 10, 1) {
		t.Error("margin should widen ellipse test")
	}
	if !HitEllipse(Pt(5, 1), Pt(0, 0), 10, 0, 2) {
		t.Error("collapsed ellipse should behave like a segment")
	}
}

func TestLineSide(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	if LineSide(Pt(5, 5), a, b) <= 0 {
		t.Error("y-down below the x axis is the left side")
	}
	if LineSide(Pt(5, -5), a, b) >= 0 {
		t.Error("expected right side")
	}
	if LineSide(Pt(20, 0), a, b) != 0 {
		t.Error("collinear point should be zero")
	}
}

func TestIntersectSegmentLine(t *testing.T) {
	p, ok := IntersectSegmentLine(Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0))
	if !ok || !p.ApproxEqual(Pt(5, 5), eps) {
		t.Fatalf("got %v %v, want (5,5) true", p, ok)
	}
	if _, ok := IntersectSegmentLine(Pt(0, 0), Pt(10, 0), Pt(0, 5), Pt(10, 5)); ok {
		t.Error("parallel lines must not intersect")
	}
}

func TestClipPolygonMiss(t *testing.T) {
	sq := square(0, 0, 10)
	// A vertical line well to the right of the square.
	left := ClipPolygon(sq, Pt(50, 0), Pt(50, 100), Left)
	right := ClipPolygon(sq, Pt(50, 0), Pt(50, 100), Right)

	full, empty := left, right
	if len(left) < len(right) {
		full, empty = right, left
	}
	if len(full) != len(sq) {
		t.Fatalf("full side has %d vertices, want %d", len(full), len(sq))
	}
	for i := range sq {
		if full[i] != sq[i] {
			t.Errorf("vertex %d = %v, want %v", i, full[i], sq[i])
		}
	}
	if !IsDegenerate(empty) {
		t.Errorf("empty side should be degenerate, got %v", empty)
	}
}

func TestClipSquareByBisector(t *testing.T) {
	sq := square(0, 0, 10)
	a, b := Pt(5, -20), Pt(5, 40)
	left := ClipPolygon(sq, a, b, Left)
	right := ClipPolygon(sq, a, b, Right)

	total := PolygonArea(sq)
	for name, half := range map[string][]Point{"left": left, "right": right} {
		if IsDegenerate(half) {
			t.Fatalf("%s half is degenerate: %v", name, half)
		}
		if got := PolygonArea(half); math.Abs(got-total/2) > eps {
			t.Errorf("%s half area = %v, want %v", name, got, total/2)
		}
	}

	// Every original corner appears in exactly one half and the cut points in both.
	seen := map[Point]int{}
	for _, p := range append(append([]Point{}, left...), right...) {
		seen[p]++
	}
	for _, c := range sq {
		if seen[c] != 1 {
			t.Errorf("corner %v seen %d times, want 1", c, seen[c])
		}
	}
	for _, c := range []Point{{5, 0}, {5, 10}} {
		if seen[c] != 2 {
			t.Errorf("cut point %v seen %d times, want 2", c, seen[c])
		}
	}
}

func TestClipPolygonOnLineBelongsToBothSides(t *testing.T) {
	tri := []Point{{0, 0}, {10, 0}, {5, 10}}
	// Line through the apex and the base midpoint.
	left := ClipPolygon(tri, Pt(5, 10), Pt(5, 0), Left)
	right := ClipPolygon(tri, Pt(5, 10), Pt(5, 0), Right)
	for _, half := range [][]Point{left, right} {
		found := false
		for _, p := range half {
			if p == (Point{5, 10}) {
				found = true
			}
		}
		if !found {
			t.Errorf("apex on the line missing from %v", half)
		}
	}
}

func TestClipPolygonVertical(t *testing.T) {
	sq := square(0, 0, 10)
	left := ClipPolygonVertical(sq, 4, Left)
	right := ClipPolygonVertical(sq, 4, Right)
	if got := PolygonArea(left); math.Abs(got-40) > eps {
		t.Errorf("left area = %v, want 40", got)
	}
	if got := PolygonArea(right); math.Abs(got-60) > eps {
		t.Errorf("right area = %v, want 60", got)
	}
	for _, p := range left {
		if p.X > 4 {
			t.Errorf("left vertex %v past cut", p)
		}
	}
}

func TestSampleEllipse(t *testing.T) {
	pts := SampleEllipse(Pt(10, 20), 5, 3, CurveSamples)
	if len(pts) != CurveSamples {
		t.Fatalf("got %d samples, want %d", len(pts), CurveSamples)
	}
	if !pts[0].ApproxEqual(Pt(15, 20), eps) {
		t.Errorf("first sample = %v, want (15,20)", pts[0])
	}
	if !pts[9].ApproxEqual(Pt(10, 23), eps) {
		t.Errorf("quarter sample = %v, want (10,23)", pts[9])
	}
}

func TestNearest(t *testing.T) {
	cands := []Point{{0, 0}, {10, 0}, {3, 0}}
	got, ok := Nearest(Pt(4, 0), cands, 2)
	if !ok || got != (Point{3, 0}) {
		t.Errorf("Nearest = %v %v, want (3,0) true", got, ok)
	}
	if _, ok := Nearest(Pt(50, 50), cands, 2); ok {
		t.Error("nothing within threshold should report false")
	}
}
