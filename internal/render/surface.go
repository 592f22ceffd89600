// Package render draws the editor scene onto a Surface. Two backends exist:
// RasterSurface paints pixels with gogpu/gg, and Recorder captures draw
// commands for a remote canvas to replay.
package render

import (
	"github.com/inamate/shapecut/internal/geom"
)

// Surface is a 2D drawing target. Path and text coordinates are transformed
// by the current matrix; Clear is not.
type Surface interface {
	Size() (width, height int)
	Clear(color string)
	Save()
	Restore()
	SetTransform(m geom.Matrix2D)
	Transform() geom.Matrix2D
	Fill(p *Path, paint Paint)
	Stroke(p *Path, s Stroke)
	Text(s string, at geom.Point, style TextStyle)
}

// PathCommand is one path segment: ["M", x, y], ["L", x, y], ["Z"] or
// ["E", cx, cy, rx, ry] for a full ellipse.
type PathCommand []interface{}

// Path is a sequence of path commands in the current user space.
type Path struct {
	Commands []PathCommand
}

// MoveTo starts a new subpath at p.
func (p *Path) MoveTo(pt geom.Point) *Path {
	p.Commands = append(p.Commands, PathCommand{"M", pt.X, pt.Y})
	return p
}

// LineTo adds a straight segment to pt.
func (p *Path) LineTo(pt geom.Point) *Path {
	p.Commands = append(p.Commands, PathCommand{"L", pt.X, pt.Y})
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.Commands = append(p.Commands, PathCommand{"Z"})
	return p
}

// Ellipse adds a closed axis-aligned ellipse.
func (p *Path) Ellipse(c geom.Point, rx, ry float64) *Path {
	p.Commands = append(p.Commands, PathCommand{"E", c.X, c.Y, rx, ry})
	return p
}

// Polygon adds a closed polygon.
func (p *Path) Polygon(pts []geom.Point) *Path {
	if len(pts) == 0 {
		return p
	}
	p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
	return p.Close()
}

// Rect adds a closed rectangle.
func (p *Path) Rect(r geom.Rect) *Path {
	return p.Polygon(r.Corners())
}

// Line adds an open segment.
func (p *Path) Line(a, b geom.Point) *Path {
	return p.MoveTo(a).LineTo(b)
}

// Stroke describes how a path outline is painted.
type Stroke struct {
	Color string    `json:"color"`
	Width float64   `json:"width"`
	Dash  []float64 `json:"dash,omitempty"`
}

// TextStyle describes annotation label text. Text is left-aligned and
// vertically centred on the anchor point.
type TextStyle struct {
	Color string  `json:"color"`
	Size  float64 `json:"size"`
}
