package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/inamate/shapecut/internal/geom"
)

// wireShape is the persisted JSON layout: one flat object whose geometry keys
// depend on the type.
type wireShape struct {
	ID          json.RawMessage `json:"id"`
	Type        ShapeType       `json:"type"`
	X           *float64        `json:"x,omitempty"`
	Y           *float64        `json:"y,omitempty"`
	Width       *float64        `json:"width,omitempty"`
	Height      *float64        `json:"height,omitempty"`
	Radius      *float64        `json:"radius,omitempty"`
	RadiusX     *float64        `json:"radiusX,omitempty"`
	RadiusY     *float64        `json:"radiusY,omitempty"`
	Points      []geom.Point    `json:"points,omitempty"`
	X1          *float64        `json:"x1,omitempty"`
	Y1          *float64        `json:"y1,omitempty"`
	X2          *float64        `json:"x2,omitempty"`
	Y2          *float64        `json:"y2,omitempty"`
	FillColor   string          `json:"fillColor"`
	StrokeColor string          `json:"strokeColor"`
	StrokeWidth float64         `json:"strokeWidth"`
	FillType    FillType        `json:"fillType,omitempty"`
	FillOptions *FillOptions    `json:"fillOptions,omitempty"`
	Annotations []Annotation    `json:"annotations,omitempty"`
}

func ptr(v float64) *float64 { return &v }

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// MarshalJSON writes only the geometry keys that belong to the shape's type.
func (s Shape) MarshalJSON() ([]byte, error) {
	id, err := json.Marshal(s.ID)
	if err != nil {
		return nil, fmt.Errorf("marshal shape id: %w", err)
	}
	w := wireShape{
		ID:          id,
		Type:        s.Type,
		FillColor:   s.FillColor,
		StrokeColor: s.StrokeColor,
		StrokeWidth: s.StrokeWidth,
		FillType:    s.FillType,
		FillOptions: s.FillOptions,
		Annotations: s.Annotations,
	}
	switch s.Type.Geometry() {
	case GeometryBox:
		w.X, w.Y, w.Width, w.Height = ptr(s.X), ptr(s.Y), ptr(s.Width), ptr(s.Height)
	case GeometryCircle:
		w.X, w.Y, w.Radius = ptr(s.X), ptr(s.Y), ptr(s.Radius)
	case GeometryEllipse:
		w.X, w.Y, w.RadiusX, w.RadiusY = ptr(s.X), ptr(s.Y), ptr(s.RadiusX), ptr(s.RadiusY)
	case GeometryVertices:
		w.Points = s.Points
	case GeometrySegment:
		w.X1, w.Y1, w.X2, w.Y2 = ptr(s.X1), ptr(s.Y1), ptr(s.X2), ptr(s.Y2)
	default:
		return nil, fmt.Errorf("marshal shape %s: %w: unknown type %q", s.ID, ErrInvalidShape, s.Type)
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads a persisted shape. Numeric ids from older saves are
// accepted and kept in their decimal text form. Keys that do not belong to
// the shape's type are dropped.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var w wireShape
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}

	*s = Shape{
		ID:          id,
		Type:        w.Type,
		FillColor:   w.FillColor,
		StrokeColor: w.StrokeColor,
		StrokeWidth: w.StrokeWidth,
		FillType:    w.FillType,
		FillOptions: w.FillOptions,
		Annotations: w.Annotations,
	}
	if s.FillType == "" {
		s.FillType = FillSolid
	}
	switch w.Type.Geometry() {
	case GeometryBox:
		s.X, s.Y, s.Width, s.Height = val(w.X), val(w.Y), val(w.Width), val(w.Height)
	case GeometryCircle:
		s.X, s.Y, s.Radius = val(w.X), val(w.Y), val(w.Radius)
	case GeometryEllipse:
		s.X, s.Y, s.RadiusX, s.RadiusY = val(w.X), val(w.Y), val(w.RadiusX), val(w.RadiusY)
	case GeometryVertices:
		s.Points = w.Points
	case GeometrySegment:
		s.X1, s.Y1, s.X2, s.Y2 = val(w.X1), val(w.Y1), val(w.X2), val(w.Y2)
	}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("%w: missing id", ErrInvalidShape)
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", fmt.Errorf("decode shape id: %w", err)
		}
		return id, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: id must be a string or number", ErrInvalidShape)
	}
	return n.String(), nil
}

// Validate checks that the shape's fields are consistent with its type.
func (s *Shape) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidShape)
	}
	nums := []float64{s.X, s.Y, s.Width, s.Height, s.Radius, s.RadiusX, s.RadiusY, s.X1, s.Y1, s.X2, s.Y2, s.StrokeWidth}
	for _, p := range s.Points {
		nums = append(nums, p.X, p.Y)
	}
	for _, n := range nums {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: shape %s has a non-finite coordinate", ErrInvalidShape, s.ID)
		}
	}
	if s.StrokeWidth < 0 {
		return fmt.Errorf("%w: shape %s has negative stroke width", ErrInvalidShape, s.ID)
	}

	switch s.Type.Geometry() {
	case GeometryBox:
		if s.Width < 0 || s.Height < 0 {
			return fmt.Errorf("%w: rectangle %s has negative size", ErrInvalidShape, s.ID)
		}
	case GeometryCircle:
		if s.Radius < 0 {
			return fmt.Errorf("%w: circle %s has negative radius", ErrInvalidShape, s.ID)
		}
	case GeometryEllipse:
		if s.RadiusX < 0 || s.RadiusY < 0 {
			return fmt.Errorf("%w: ellipse %s has negative radius", ErrInvalidShape, s.ID)
		}
	case GeometryVertices:
		if len(s.Points) < 3 {
			return fmt.Errorf("%w: %s %s has %d vertices", ErrInvalidShape, s.Type, s.ID, len(s.Points))
		}
	case GeometrySegment:
	default:
		return fmt.Errorf("%w: shape %s has unknown type %q", ErrInvalidShape, s.ID, s.Type)
	}

	switch s.FillType {
	case FillSolid, FillLinearGradient, FillRadialGradient, FillPatternStripes, FillPatternDots:
	default:
		return fmt.Errorf("%w: shape %s has unknown fill type %q", ErrInvalidShape, s.ID, s.FillType)
	}
	return nil
}

// ParseSnapshot decodes and validates a persisted scene. Shape ids must be
// unique.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	seen := make(map[string]bool, len(snap.Shapes))
	shapes := snap.Shapes[:0]
	for _, s := range snap.Shapes {
		if s == nil {
			continue
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("validate snapshot: %w", err)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("validate snapshot: %w: duplicate id %s", ErrInvalidShape, s.ID)
		}
		seen[s.ID] = true
		shapes = append(shapes, s)
	}
	snap.Shapes = shapes
	if snap.GlobalAnnotations == nil {
		snap.GlobalAnnotations = []Annotation{}
	}
	return &snap, nil
}

// Encode serializes the snapshot for persistence.
func (s *Snapshot) Encode() ([]byte, error) {
	if s.Shapes == nil {
		s.Shapes = []*Shape{}
	}
	if s.GlobalAnnotations == nil {
		s.GlobalAnnotations = []Annotation{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}
