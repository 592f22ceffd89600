package document

import (
	"errors"
	"slices"
	"strconv"

	"github.com/inamate/shapecut/internal/geom"
)

// ErrInvalidShape is returned when a shape's fields disagree with its type.
var ErrInvalidShape = errors.New("invalid shape")

type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeCircle    ShapeType = "circle"
	ShapeEllipse   ShapeType = "ellipse"
	ShapeTriangle  ShapeType = "triangle"
	ShapeStar      ShapeType = "star"
	ShapeArrow     ShapeType = "arrow"
	ShapePentagon  ShapeType = "pentagon"
	ShapeHexagon   ShapeType = "hexagon"
	ShapeDiamond   ShapeType = "diamond"
	ShapePolygon   ShapeType = "polygon"
	ShapeLine      ShapeType = "line"
)

// ShapeTypes lists every shape type in toolbar order.
var ShapeTypes = []ShapeType{
	ShapeRectangle, ShapeCircle, ShapeEllipse, ShapeTriangle, ShapeStar, ShapeArrow,
	ShapePentagon, ShapeHexagon, ShapeDiamond, ShapePolygon, ShapeLine,
}

// Geometry groups shape types by which field set carries their geometry.
type Geometry int

const (
	GeometryUnknown Geometry = iota
	GeometryBox              // X, Y, Width, Height
	GeometryCircle           // X, Y (center), Radius
	GeometryEllipse          // X, Y (center), RadiusX, RadiusY
	GeometryVertices         // Points
	GeometrySegment          // X1, Y1, X2, Y2
)

// Geometry returns the field set used by the type.
func (t ShapeType) Geometry() Geometry {
	switch t {
	case ShapeRectangle:
		return GeometryBox
	case ShapeCircle:
		return GeometryCircle
	case ShapeEllipse:
		return GeometryEllipse
	case ShapeTriangle, ShapeStar, ShapeArrow, ShapePentagon, ShapeHexagon, ShapeDiamond, ShapePolygon:
		return GeometryVertices
	case ShapeLine:
		return GeometrySegment
	}
	return GeometryUnknown
}

// Valid reports whether t is a known shape type.
func (t ShapeType) Valid() bool {
	return t.Geometry() != GeometryUnknown
}

type FillType string

const (
	FillSolid          FillType = "solid"
	FillLinearGradient FillType = "linearGradient"
	FillRadialGradient FillType = "radialGradient"
	FillPatternStripes FillType = "patternStripes"
	FillPatternDots    FillType = "patternDots"
)

// FillOptions carries the parameters of every fill type; each type reads
// only its own fields.
type FillOptions struct {
	Colors      []string  `json:"colors,omitempty"`
	Stops       []float64 `json:"stops,omitempty"`
	Angle       float64   `json:"angle"`
	InnerRatio  float64   `json:"innerRatio"`
	StripeWidth float64   `json:"stripeWidth,omitempty"`
	BgColor     string    `json:"bgColor,omitempty"`
	DotColor    string    `json:"dotColor,omitempty"`
	DotRadius   float64   `json:"dotRadius,omitempty"`
	Spacing     float64   `json:"spacing,omitempty"`
}

// Clone returns a deep copy.
func (o *FillOptions) Clone() *FillOptions {
	if o == nil {
		return nil
	}
	c := *o
	c.Colors = slices.Clone(o.Colors)
	c.Stops = slices.Clone(o.Stops)
	return &c
}

// FillPatch is a partial FillOptions; nil fields are left unchanged on Apply.
type FillPatch struct {
	Colors      []string  `json:"colors,omitempty"`
	Stops       []float64 `json:"stops,omitempty"`
	Angle       *float64  `json:"angle,omitempty"`
	InnerRatio  *float64  `json:"innerRatio,omitempty"`
	StripeWidth *float64  `json:"stripeWidth,omitempty"`
	BgColor     *string   `json:"bgColor,omitempty"`
	DotColor    *string   `json:"dotColor,omitempty"`
	DotRadius   *float64  `json:"dotRadius,omitempty"`
	Spacing     *float64  `json:"spacing,omitempty"`
}

// Apply merges the set fields of p into o.
func (p FillPatch) Apply(o *FillOptions) {
	if p.Colors != nil {
		o.Colors = slices.Clone(p.Colors)
	}
	if p.Stops != nil {
		o.Stops = slices.Clone(p.Stops)
	}
	if p.Angle != nil {
		o.Angle = *p.Angle
	}
	if p.InnerRatio != nil {
		o.InnerRatio = *p.InnerRatio
	}
	if p.StripeWidth != nil {
		o.StripeWidth = *p.StripeWidth
	}
	if p.BgColor != nil {
		o.BgColor = *p.BgColor
	}
	if p.DotColor != nil {
		o.DotColor = *p.DotColor
	}
	if p.DotRadius != nil {
		o.DotRadius = *p.DotRadius
	}
	if p.Spacing != nil {
		o.Spacing = *p.Spacing
	}
}

// Annotation is a labelled point in world space.
type Annotation struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Point returns the annotation position.
func (a Annotation) Point() geom.Point {
	return geom.Point{X: a.X, Y: a.Y}
}

// Style is the paint applied to newly drawn shapes.
type Style struct {
	FillColor   string       `json:"fillColor"`
	StrokeColor string       `json:"strokeColor"`
	StrokeWidth float64      `json:"strokeWidth"`
	FillType    FillType     `json:"fillType"`
	FillOptions *FillOptions `json:"fillOptions"`
}

// DefaultStyle returns the style a fresh editor starts with.
func DefaultStyle() Style {
	return Style{
		FillColor:   "#3498db",
		StrokeColor: "#2c3e50",
		StrokeWidth: 2,
		FillType:    FillSolid,
		FillOptions: &FillOptions{
			Colors:      []string{"#3498db", "#8e44ad"},
			Stops:       []float64{0, 1},
			Angle:       0,
			InnerRatio:  0,
			StripeWidth: 8,
			BgColor:     "#ffffff",
			DotColor:    "#3498db",
			DotRadius:   3,
			Spacing:     12,
		},
	}
}

// Clone returns a deep copy.
func (s Style) Clone() Style {
	s.FillOptions = s.FillOptions.Clone()
	return s
}

// Shape is one drawable element. Type selects which geometry fields are
// meaningful; see ShapeType.Geometry.
type Shape struct {
	ID   string
	Type ShapeType

	// GeometryBox uses X, Y as the top-left corner; GeometryCircle and
	// GeometryEllipse use them as the center.
	X, Y             float64
	Width, Height    float64
	Radius           float64
	RadiusX, RadiusY float64
	Points           []geom.Point
	X1, Y1, X2, Y2   float64

	FillColor   string
	StrokeColor string
	StrokeWidth float64
	FillType    FillType
	FillOptions *FillOptions
	Annotations []Annotation
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Points = slices.Clone(s.Points)
	c.FillOptions = s.FillOptions.Clone()
	c.Annotations = slices.Clone(s.Annotations)
	return &c
}

// Paint copies fill, stroke and fill descriptor from src.
func (s *Shape) Paint(src *Shape) {
	s.FillColor = src.FillColor
	s.StrokeColor = src.StrokeColor
	s.StrokeWidth = src.StrokeWidth
	s.FillType = src.FillType
	s.FillOptions = src.FillOptions.Clone()
}

// ApplyStyle copies the style onto the shape.
func (s *Shape) ApplyStyle(st Style) {
	s.FillColor = st.FillColor
	s.StrokeColor = st.StrokeColor
	s.StrokeWidth = st.StrokeWidth
	s.FillType = st.FillType
	s.FillOptions = st.FillOptions.Clone()
}

// Start returns the first endpoint of a line.
func (s *Shape) Start() geom.Point { return geom.Point{X: s.X1, Y: s.Y1} }

// End returns the second endpoint of a line.
func (s *Shape) End() geom.Point { return geom.Point{X: s.X2, Y: s.Y2} }

// Translate moves the shape and its owned annotations by d.
func (s *Shape) Translate(d geom.Point) {
	switch s.Type.Geometry() {
	case GeometryBox, GeometryCircle, GeometryEllipse:
		s.X += d.X
		s.Y += d.Y
	case GeometryVertices:
		s.Points = geom.TranslateAll(s.Points, d)
	case GeometrySegment:
		s.X1 += d.X
		s.Y1 += d.Y
		s.X2 += d.X
		s.Y2 += d.Y
	}
	for i := range s.Annotations {
		s.Annotations[i].X += d.X
		s.Annotations[i].Y += d.Y
	}
}

// Snapshot is the persisted form of a scene.
type Snapshot struct {
	Shapes            []*Shape     `json:"shapes"`
	GlobalAnnotations []Annotation `json:"globalAnnotations"`
	Timestamp         int64        `json:"timestamp"`
}

// CloneShapes deep-copies a shape list.
func CloneShapes(shapes []*Shape) []*Shape {
	out := make([]*Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// AnnotationStyle controls how annotation dots and labels are drawn.
type AnnotationStyle struct {
	DotRadius      float64 `json:"dotRadius"`
	DotFill        string  `json:"dotFill"`
	DotStroke      string  `json:"dotStroke"`
	DotStrokeWidth float64 `json:"dotStrokeWidth"`
	LabelFontSize  float64 `json:"labelFontSize"`
	LabelColor     string  `json:"labelColor"`
	LabelOffsetX   float64 `json:"labelOffsetX"`
}

// DefaultAnnotationStyle returns the built-in annotation look.
func DefaultAnnotationStyle() AnnotationStyle {
	return AnnotationStyle{
		DotRadius:      4,
		DotFill:        "#ffffff",
		DotStroke:      "#ff4757",
		DotStrokeWidth: 1,
		LabelFontSize:  10,
		LabelColor:     "#ff4757",
		LabelOffsetX:   6,
	}
}

// LabelFor returns the text drawn for the annotation at index i, falling back
// to its 1-based position when the label is empty.
func LabelFor(a Annotation, i int) string {
	if a.Label != "" {
		return a.Label
	}
	return strconv.Itoa(i + 1)
}

// StylePatch is a partial Style for the fill/stroke colour and stroke width;
// nil fields are left unchanged.
type StylePatch struct {
	FillColor   *string  `json:"fillColor,omitempty"`
	StrokeColor *string  `json:"strokeColor,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
}

// ApplyToStyle merges p into st.
func (p StylePatch) ApplyToStyle(st *Style) {
	if p.FillColor != nil {
		st.FillColor = *p.FillColor
	}
	if p.StrokeColor != nil {
		st.StrokeColor = *p.StrokeColor
	}
	if p.StrokeWidth != nil {
		st.StrokeWidth = max(0, *p.StrokeWidth)
	}
}

// ApplyToShape merges p into s.
func (p StylePatch) ApplyToShape(s *Shape) {
	if p.FillColor != nil {
		s.FillColor = *p.FillColor
	}
	if p.StrokeColor != nil {
		s.StrokeColor = *p.StrokeColor
	}
	if p.StrokeWidth != nil {
		s.StrokeWidth = max(0, *p.StrokeWidth)
	}
}
