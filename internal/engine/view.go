package engine

import (
	"math"

	"github.com/inamate/shapecut/internal/geom"
)

const (
	MinZoom = 0.2
	MaxZoom = 5.0

	wheelStep  = 1.1
	buttonStep = 1.2
)

// View is the world→screen mapping: screen = world*Zoom + Pan.
type View struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// NewView returns the identity view.
func NewView() View {
	return View{Zoom: 1}
}

// clampZoom limits z to [MinZoom, MaxZoom]. A NaN or infinite z keeps cur.
func clampZoom(z, cur float64) float64 {
	if !finite(z) {
		return cur
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ToWorld maps a surface pixel to world coordinates.
func (v View) ToWorld(screen geom.Point) geom.Point {
	return geom.Point{X: (screen.X - v.PanX) / v.Zoom, Y: (screen.Y - v.PanY) / v.Zoom}
}

// ToScreen maps a world point to surface pixels.
func (v View) ToScreen(world geom.Point) geom.Point {
	return geom.Point{X: world.X*v.Zoom + v.PanX, Y: world.Y*v.Zoom + v.PanY}
}

// Matrix returns the world→screen transform.
func (v View) Matrix() geom.Matrix2D {
	return geom.ZoomPan(v.Zoom, v.PanX, v.PanY)
}

// ZoomAt multiplies the zoom by factor (clamped) keeping the world point under
// screen fixed on screen.
func (v *View) ZoomAt(screen geom.Point, factor float64) {
	if !finite(screen.X) || !finite(screen.Y) {
		return
	}
	world := v.ToWorld(screen)
	v.Zoom = clampZoom(v.Zoom*factor, v.Zoom)
	v.PanX = screen.X - world.X*v.Zoom
	v.PanY = screen.Y - world.Y*v.Zoom
}

// Wheel applies one wheel notch at screen: negative deltaY zooms in.
func (v *View) Wheel(screen geom.Point, deltaY float64) {
	factor := 1 / wheelStep
	if deltaY < 0 {
		factor = wheelStep
	}
	v.ZoomAt(screen, factor)
}

// SetZoom sets the zoom without moving the pan.
func (v *View) SetZoom(z float64) {
	v.Zoom = clampZoom(z, v.Zoom)
}

// PanBy shifts the view by d surface pixels.
func (v *View) PanBy(d geom.Point) {
	v.PanX += d.X
	v.PanY += d.Y
}

// Reset restores zoom 1 and no pan.
func (v *View) Reset() {
	*v = NewView()
}

// SurfacePoint corrects a pointer position measured in layout (CSS) pixels
// relative to the surface's top-left into backing-buffer pixels.
func SurfacePoint(layout geom.Point, layoutW, layoutH float64, surfaceW, surfaceH int) geom.Point {
	if layoutW <= 0 || layoutH <= 0 {
		return layout
	}
	return geom.Point{
		X: layout.X * float64(surfaceW) / layoutW,
		Y: layout.Y * float64(surfaceH) / layoutH,
	}
}
