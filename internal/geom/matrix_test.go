package geom

import "testing"

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := ZoomPan(2.5, 30, -12).Multiply(Translate(4, 7))
	inv := m.Invert()
	p := Pt(13.25, -8.5)
	if got := inv.TransformPoint(m.TransformPoint(p)); !got.ApproxEqual(p, eps) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
	if !m.Multiply(inv).IsIdentity() {
		t.Error("m * inv(m) should be identity")
	}
}

func TestMatrixSingularInvertIsIdentity(t *testing.T) {
	if !Scale(0, 1).Invert().IsIdentity() {
		t.Error("singular matrix should invert to identity")
	}
}

func TestTransformRect(t *testing.T) {
	r := ZoomPan(2, 10, 20).TransformRect(Rect{X: 1, Y: 2, Width: 3, Height: 4})
	want := Rect{X: 12, Y: 24, Width: 6, Height: 8}
	if r != want {
		t.Errorf("TransformRect = %+v, want %+v", r, want)
	}
	if got := ZoomPan(2, 0, 0).ScaleFactor(); got != 2 {
		t.Errorf("ScaleFactor = %v, want 2", got)
	}
}
