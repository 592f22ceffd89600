package render

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/inamate/shapecut/internal/geom"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func labelFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// SetLogger routes the rasterizer's diagnostics to logger.
func SetLogger(logger *slog.Logger) {
	gg.SetLogger(logger)
}

// RasterSurface paints onto an in-memory RGBA image through gogpu/gg.
type RasterSurface struct {
	dc     *gg.Context
	stack  []geom.Matrix2D
	matrix geom.Matrix2D
	faces  map[float64]text.Face
	log    *slog.Logger
}

// NewRasterSurface allocates a transparent surface of the given size.
func NewRasterSurface(width, height int) *RasterSurface {
	return &RasterSurface{
		dc:     gg.NewContext(width, height),
		matrix: geom.Identity(),
		faces:  make(map[float64]text.Face),
		log:    slog.Default(),
	}
}

// Close releases the underlying context.
func (r *RasterSurface) Close() error {
	return r.dc.Close()
}

func (r *RasterSurface) Size() (int, int) {
	return r.dc.Width(), r.dc.Height()
}

func (r *RasterSurface) Clear(color string) {
	r.dc.ClearWithColor(gg.Hex(color))
}

func (r *RasterSurface) Save() {
	r.stack = append(r.stack, r.matrix)
	r.dc.Push()
}

func (r *RasterSurface) Restore() {
	if n := len(r.stack); n > 0 {
		r.matrix = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.dc.Pop()
}

func (r *RasterSurface) SetTransform(m geom.Matrix2D) {
	r.matrix = m
	r.dc.SetTransform(toGG(m))
}

func (r *RasterSurface) Transform() geom.Matrix2D {
	return r.matrix
}

func (r *RasterSurface) Fill(p *Path, paint Paint) {
	r.tracePath(p)
	r.dc.SetFillBrush(r.brush(paint))
	if err := r.dc.Fill(); err != nil {
		r.log.Warn("raster fill failed", "error", err)
	}
}

func (r *RasterSurface) Stroke(p *Path, s Stroke) {
	if s.Width <= 0 {
		return
	}
	r.tracePath(p)
	r.dc.SetStrokeBrush(gg.SolidHex(s.Color))
	r.dc.SetLineWidth(s.Width)
	if len(s.Dash) > 0 {
		r.dc.SetDash(s.Dash...)
	} else {
		r.dc.ClearDash()
	}
	if err := r.dc.Stroke(); err != nil {
		r.log.Warn("raster stroke failed", "error", err)
	}
	r.dc.ClearDash()
}

// Text draws in device space; the anchor and font size follow the current
// matrix.
func (r *RasterSurface) Text(s string, at geom.Point, style TextStyle) {
	face, err := r.face(style.Size * r.matrix.ScaleFactor())
	if err != nil {
		r.log.Warn("load label font failed", "error", err)
		return
	}
	dev := r.matrix.TransformPoint(at)
	r.dc.SetFont(face)
	r.dc.SetColor(gg.Hex(style.Color).Color())
	r.dc.DrawStringAnchored(s, dev.X, dev.Y, 0, 0.5)
}

// EncodePNG writes the surface as PNG.
func (r *RasterSurface) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ColorAt returns the pixel at (x, y) as RGBA components in [0, 1].
func (r *RasterSurface) ColorAt(x, y int) gg.RGBA {
	return gg.FromColor(r.dc.Image().At(x, y))
}

func (r *RasterSurface) face(size float64) (text.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	src, err := labelFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	f := src.Face(size)
	r.faces[size] = f
	return f, nil
}

func (r *RasterSurface) tracePath(p *Path) {
	r.dc.ClearPath()
	for _, c := range p.Commands {
		switch c[0] {
		case "M":
			r.dc.MoveTo(num(c, 1), num(c, 2))
		case "L":
			r.dc.LineTo(num(c, 1), num(c, 2))
		case "Z":
			r.dc.ClosePath()
		case "E":
			r.dc.DrawEllipse(num(c, 1), num(c, 2), num(c, 3), num(c, 4))
		}
	}
}

// brush converts a world-space paint into a device-space gg brush.
func (r *RasterSurface) brush(p Paint) gg.Brush {
	m := r.matrix
	switch p.Kind {
	case PaintLinear:
		from, to := m.TransformPoint(p.From), m.TransformPoint(p.To)
		g := gg.NewLinearGradientBrush(from.X, from.Y, to.X, to.Y)
		for _, s := range p.Stops {
			g.AddColorStop(s.Offset, gg.Hex(s.Color))
		}
		return g
	case PaintRadial:
		c := m.TransformPoint(p.Center)
		k := m.ScaleFactor()
		g := gg.NewRadialGradientBrush(c.X, c.Y, p.InnerRadius*k, p.OuterRadius*k)
		for _, s := range p.Stops {
			g.AddColorStop(s.Offset, gg.Hex(s.Color))
		}
		return g
	case PaintStripes, PaintDots:
		inv := m.Invert()
		bg, fg := gg.Hex(p.Color), gg.Hex(p.Accent)
		return gg.NewCustomBrush(func(x, y float64) gg.RGBA {
			if p.PatternColor(inv.TransformPoint(geom.Pt(x, y))) == p.Accent {
				return fg
			}
			return bg
		})
	}
	return gg.SolidHex(p.Color)
}

func toGG(m geom.Matrix2D) gg.Matrix {
	return gg.Matrix{A: m[0], B: m[2], C: m[4], D: m[1], E: m[3], F: m[5]}
}

func num(c PathCommand, i int) float64 {
	if i >= len(c) {
		return 0
	}
	switch v := c[i].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
