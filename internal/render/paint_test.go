package render

import (
	"math"
	"testing"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/geom"
)

const eps = 1e-9

func boxShape(fill document.FillType, o *document.FillOptions) *document.Shape {
	return &document.Shape{
		ID: "s", Type: document.ShapeRectangle,
		X: 0, Y: 0, Width: 100, Height: 50,
		FillColor: "#112233", StrokeColor: "#000000", StrokeWidth: 1,
		FillType: fill, FillOptions: o,
	}
}

func TestResolveFillSolid(t *testing.T) {
	tests := []struct {
		name string
		sh   *document.Shape
	}{
		{"solid type", boxShape(document.FillSolid, &document.FillOptions{Colors: []string{"#fff"}})},
		{"gradient without options", boxShape(document.FillLinearGradient, nil)},
		{"unknown type", boxShape("sparkles", &document.FillOptions{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ResolveFill(tt.sh)
			if p.Kind != PaintSolid || p.Color != "#112233" {
				t.Errorf("paint = %+v, want solid #112233", p)
			}
		})
	}
}

func TestLinearGradientSpansDiagonal(t *testing.T) {
	sh := boxShape(document.FillLinearGradient, &document.FillOptions{
		Colors: []string{"#ff0000", "#00ff00"}, Stops: []float64{0.2, 0.8}, Angle: 90,
	})
	p := ResolveFill(sh)
	half := math.Hypot(100, 50) / 2
	if !p.From.ApproxEqual(geom.Pt(50, 25-half), 1e-9) || !p.To.ApproxEqual(geom.Pt(50, 25+half), 1e-9) {
		t.Errorf("gradient line %v -> %v", p.From, p.To)
	}
	want := []ColorStop{{0.2, "#ff0000"}, {0.8, "#00ff00"}}
	for i, s := range p.Stops {
		if s != want[i] {
			t.Errorf("stop %d = %+v, want %+v", i, s, want[i])
		}
	}
}

func TestGradientStopFallbacks(t *testing.T) {
	tests := []struct {
		name string
		o    *document.FillOptions
		want []ColorStop
	}{
		{
			name: "no colours",
			o:    &document.FillOptions{},
			want: []ColorStop{{0, "#112233"}, {1, "#ffffff"}},
		},
		{
			name: "stop count mismatch",
			o:    &document.FillOptions{Colors: []string{"#a", "#b", "#c"}, Stops: []float64{0, 1}},
			want: []ColorStop{{0, "#a"}, {0.5, "#b"}, {1, "#c"}},
		},
		{
			name: "single colour",
			o:    &document.FillOptions{Colors: []string{"#a"}},
			want: []ColorStop{{0, "#a"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gradientStops(tt.o, "#112233")
			if len(got) != len(tt.want) {
				t.Fatalf("got %d stops, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("stop %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRadialGradientGeometry(t *testing.T) {
	tests := []struct {
		ratio     float64
		wantInner float64
	}{
		{0, 0},
		{0.5, 25},
		{2, 50},
		{-1, 0},
	}
	for _, tt := range tests {
		p := ResolveFill(boxShape(document.FillRadialGradient, &document.FillOptions{InnerRatio: tt.ratio}))
		if p.Center != geom.Pt(50, 25) || p.OuterRadius != 50 {
			t.Errorf("ratio %v: center %v outer %v", tt.ratio, p.Center, p.OuterRadius)
		}
		if math.Abs(p.InnerRadius-tt.wantInner) > eps {
			t.Errorf("ratio %v: inner = %v, want %v", tt.ratio, p.InnerRadius, tt.wantInner)
		}
	}
}

func TestStripePattern(t *testing.T) {
	p := ResolveFill(boxShape(document.FillPatternStripes, &document.FillOptions{
		Colors: []string{"#ffffff", "#000000"},
	}))
	if p.StripeWidth != 8 {
		t.Fatalf("stripe width = %v, want default 8", p.StripeWidth)
	}
	tests := []struct {
		pt   geom.Point
		want string
	}{
		{geom.Pt(1, 0), "#000000"},
		{geom.Pt(9, 0), "#ffffff"},
		{geom.Pt(17, 30), "#000000"},
		{geom.Pt(-1, 0), "#ffffff"},
	}
	for _, tt := range tests {
		if got := p.PatternColor(tt.pt); got != tt.want {
			t.Errorf("PatternColor(%v) = %s, want %s", tt.pt, got, tt.want)
		}
	}

	p.Angle = 90
	if got := p.PatternColor(geom.Pt(9, 1)); got != "#000000" {
		t.Errorf("rotated stripes at (9,1) = %s, want stripe", got)
	}
	if got := p.PatternColor(geom.Pt(1, 9)); got != "#ffffff" {
		t.Errorf("rotated stripes at (1,9) = %s, want background", got)
	}
}

func TestStripeColourFallsBackToFill(t *testing.T) {
	p := ResolveFill(boxShape(document.FillPatternStripes, &document.FillOptions{}))
	if p.Color != "#ffffff" || p.Accent != "#112233" {
		t.Errorf("fallback stripes = %s/%s", p.Color, p.Accent)
	}
}

func TestDotPattern(t *testing.T) {
	p := ResolveFill(boxShape(document.FillPatternDots, &document.FillOptions{DotColor: "#ff0000"}))
	if p.Spacing != 12 || p.DotRadius != 3 || p.Color != "#ffffff" {
		t.Fatalf("dot defaults = %+v", p)
	}
	tests := []struct {
		pt   geom.Point
		want string
	}{
		{geom.Pt(6, 6), "#ff0000"},
		{geom.Pt(8, 7), "#ff0000"},
		{geom.Pt(0, 0), "#ffffff"},
		{geom.Pt(-6, -6), "#ff0000"},
		{geom.Pt(18, 30), "#ff0000"},
	}
	for _, tt := range tests {
		if got := p.PatternColor(tt.pt); got != tt.want {
			t.Errorf("PatternColor(%v) = %s, want %s", tt.pt, got, tt.want)
		}
	}
}
