package render

import (
	"math"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/geom"
)

// PaintKind selects how a Paint fills an area.
type PaintKind string

const (
	PaintSolid   PaintKind = "solid"
	PaintLinear  PaintKind = "linearGradient"
	PaintRadial  PaintKind = "radialGradient"
	PaintStripes PaintKind = "patternStripes"
	PaintDots    PaintKind = "patternDots"
)

// Pattern defaults used when a fill descriptor leaves a field unset.
const (
	defaultStripeWidth = 8
	defaultDotRadius   = 3
	defaultDotSpacing  = 12
	defaultPatternBg   = "#ffffff"
)

// ColorStop is one gradient stop.
type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// Paint is a concrete brush in world coordinates. Gradients carry their
// geometry; patterns tile from the world origin.
type Paint struct {
	Kind  PaintKind   `json:"kind"`
	Color string      `json:"color,omitempty"` // solid colour, or pattern background
	Stops []ColorStop `json:"stops,omitempty"`

	From geom.Point `json:"from"`
	To   geom.Point `json:"to"`

	Center      geom.Point `json:"center"`
	InnerRadius float64    `json:"innerRadius"`
	OuterRadius float64    `json:"outerRadius"`

	Accent      string  `json:"accent,omitempty"` // stripe or dot colour
	StripeWidth float64 `json:"stripeWidth,omitempty"`
	Angle       float64 `json:"angle"` // stripe rotation in degrees
	DotRadius   float64 `json:"dotRadius,omitempty"`
	Spacing     float64 `json:"spacing,omitempty"`
}

// SolidPaint returns a single-colour paint.
func SolidPaint(color string) Paint {
	return Paint{Kind: PaintSolid, Color: color}
}

// ResolveFill turns a shape's fill descriptor into a paint placed on the
// shape's bounds. Shapes without fill options paint solid.
func ResolveFill(s *document.Shape) Paint {
	o := s.FillOptions
	if o == nil {
		return SolidPaint(s.FillColor)
	}
	b := s.Bounds()
	switch s.FillType {
	case document.FillLinearGradient:
		return linearPaint(b, o, s.FillColor)
	case document.FillRadialGradient:
		return radialPaint(b, o, s.FillColor)
	case document.FillPatternStripes:
		return stripePaint(o, s.FillColor)
	case document.FillPatternDots:
		return dotPaint(o, s.FillColor)
	}
	return SolidPaint(s.FillColor)
}

// linearPaint spans the bounds' diagonal centred on the bounds and turned to
// the requested angle.
func linearPaint(b geom.Rect, o *document.FillOptions, fallback string) Paint {
	theta := o.Angle * math.Pi / 180
	half := b.Diagonal() / 2
	c := b.Center()
	d := geom.Pt(math.Cos(theta)*half, math.Sin(theta)*half)
	return Paint{
		Kind:  PaintLinear,
		Stops: gradientStops(o, fallback),
		From:  c.Sub(d),
		To:    c.Add(d),
	}
}

func radialPaint(b geom.Rect, o *document.FillOptions, fallback string) Paint {
	outer := math.Max(b.Width, b.Height) / 2
	ratio := math.Max(0, math.Min(1, o.InnerRatio))
	return Paint{
		Kind:        PaintRadial,
		Stops:       gradientStops(o, fallback),
		Center:      b.Center(),
		InnerRadius: outer * ratio,
		OuterRadius: outer,
	}
}

func stripePaint(o *document.FillOptions, fallback string) Paint {
	p := Paint{
		Kind:        PaintStripes,
		Color:       defaultPatternBg,
		Accent:      fallback,
		StripeWidth: o.StripeWidth,
		Angle:       o.Angle,
	}
	if len(o.Colors) > 0 && o.Colors[0] != "" {
		p.Color = o.Colors[0]
	}
	if len(o.Colors) > 1 && o.Colors[1] != "" {
		p.Accent = o.Colors[1]
	}
	if p.StripeWidth <= 0 {
		p.StripeWidth = defaultStripeWidth
	}
	return p
}

func dotPaint(o *document.FillOptions, fallback string) Paint {
	p := Paint{
		Kind:      PaintDots,
		Color:     o.BgColor,
		Accent:    o.DotColor,
		DotRadius: o.DotRadius,
		Spacing:   o.Spacing,
	}
	if p.Color == "" {
		p.Color = defaultPatternBg
	}
	if p.Accent == "" {
		p.Accent = fallback
	}
	if p.DotRadius <= 0 {
		p.DotRadius = defaultDotRadius
	}
	if p.Spacing <= 0 {
		p.Spacing = defaultDotSpacing
	}
	return p
}

// gradientStops pairs colours with stop offsets. Missing colours fall back to
// the shape colour fading to white; stops that don't match the colour count
// are spread evenly.
func gradientStops(o *document.FillOptions, fallback string) []ColorStop {
	colors := o.Colors
	if len(colors) == 0 {
		colors = []string{fallback, "#ffffff"}
	}
	even := len(o.Stops) != len(colors)
	stops := make([]ColorStop, len(colors))
	for i, c := range colors {
		off := 0.0
		switch {
		case !even:
			off = o.Stops[i]
		case len(colors) > 1:
			off = float64(i) / float64(len(colors)-1)
		}
		stops[i] = ColorStop{Offset: off, Color: c}
	}
	return stops
}

// PatternColor returns the pattern colour at a world point. Stripes are
// vertical bands of StripeWidth on a 2×StripeWidth tile rotated by Angle;
// dots sit at the centre of each Spacing-sized tile.
func (p Paint) PatternColor(world geom.Point) string {
	switch p.Kind {
	case PaintStripes:
		theta := -p.Angle * math.Pi / 180
		u := world.X*math.Cos(theta) - world.Y*math.Sin(theta)
		if wrap(u, 2*p.StripeWidth) < p.StripeWidth {
			return p.Accent
		}
		return p.Color
	case PaintDots:
		half := p.Spacing / 2
		dx := wrap(world.X, p.Spacing) - half
		dy := wrap(world.Y, p.Spacing) - half
		if dx*dx+dy*dy <= p.DotRadius*p.DotRadius {
			return p.Accent
		}
		return p.Color
	}
	return p.Color
}

func wrap(v, period float64) float64 {
	m := math.Mod(v, period)
	if m < 0 {
		m += period
	}
	return m
}
