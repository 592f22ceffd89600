package document

import (
	"time"

	"github.com/inamate/shapecut/internal/geom"
	"github.com/inamate/shapecut/internal/typeid"
)

// NewSampleSnapshot returns a scene with one shape of every drawable type and
// each fill type in use, for demos and smoke tests.
func NewSampleSnapshot() *Snapshot {
	style := DefaultStyle()

	add := func(t ShapeType, x0, y0, x1, y1 float64, fill, stroke string) *Shape {
		s := NewShape(typeid.NewShapeID(), t, geom.Pt(x0, y0), geom.Pt(x1, y1), style)
		s.FillColor = fill
		s.StrokeColor = stroke
		return s
	}

	rect := add(ShapeRectangle, 40, 40, 200, 140, "#e94560", "#000000")
	rect.Annotations = []Annotation{{X: 40, Y: 40, Label: "1"}, {X: 200, Y: 140, Label: "2"}}

	circle := add(ShapeCircle, 240, 40, 340, 140, "#0f3460", "#16213e")
	circle.FillType = FillRadialGradient
	circle.FillOptions = &FillOptions{Colors: []string{"#ffffff", "#0f3460"}, Stops: []float64{0, 1}, InnerRatio: 0.2}

	ellipse := add(ShapeEllipse, 380, 40, 560, 140, "#53d769", "#2d6a4f")
	ellipse.FillType = FillLinearGradient
	ellipse.FillOptions = &FillOptions{Colors: []string{"#53d769", "#f5a623"}, Stops: []float64{0, 1}, Angle: 45}

	triangle := add(ShapeTriangle, 600, 40, 720, 140, "#f5a623", "#c78400")

	star := add(ShapeStar, 40, 200, 160, 320, "#bd10e0", "#8b0ba8")
	star.FillType = FillPatternStripes
	star.FillOptions = &FillOptions{Colors: []string{"#ffffff", "#bd10e0"}, StripeWidth: 6, Angle: 30}

	arrow := add(ShapeArrow, 200, 220, 360, 300, "#3498db", "#2c3e50")

	pentagon := add(ShapePentagon, 400, 200, 520, 320, "#1abc9c", "#16a085")
	pentagon.FillType = FillPatternDots
	pentagon.FillOptions = &FillOptions{BgColor: "#ffffff", DotColor: "#16a085", DotRadius: 3, Spacing: 12}

	hexagon := add(ShapeHexagon, 560, 200, 680, 320, "#9b59b6", "#8e44ad")
	diamond := add(ShapeDiamond, 40, 380, 160, 500, "#e67e22", "#d35400")
	line := add(ShapeLine, 200, 400, 360, 480, "#000000", "#2c3e50")
	line.StrokeWidth = 4

	return &Snapshot{
		Shapes: []*Shape{
			rect, circle, ellipse, triangle, star, arrow, pentagon, hexagon, diamond, line,
		},
		GlobalAnnotations: []Annotation{{X: 420, Y: 440, Label: "1"}},
		Timestamp:         time.Now().UnixMilli(),
	}
}
