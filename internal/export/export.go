// Package export turns a scene into SVG or PNG, stores exported artifacts,
// and serves both over HTTP.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/inamate/shapecut/internal/engine"
	"github.com/inamate/shapecut/internal/geom"
	"github.com/inamate/shapecut/internal/render"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoScene       = errors.New("no scene to export")
)

// Format is an export file format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Frame is everything an export needs: the content, the surface size and
// the view transform for raster output. A zero Transform means identity.
type Frame struct {
	Scene     render.Scene
	Width     int
	Height    int
	Transform geom.Matrix2D
}

// FrameOf captures the editor's content, size and view.
func FrameOf(e *engine.Editor) Frame {
	w, h := e.Size()
	return Frame{
		Scene:     render.SceneOf(e),
		Width:     w,
		Height:    h,
		Transform: e.View().Matrix(),
	}
}

// Options controls a single export.
type Options struct {
	// Annotations includes annotations in SVG output. Raster output always
	// carries them.
	Annotations bool
	// IgnoreView rasterizes world coordinates as-is instead of through the
	// view transform.
	IgnoreView bool
	// Background for raster output; empty means white.
	Background string
}

// Write encodes the frame in the given format.
func Write(w io.Writer, format Format, fr Frame, opts Options) error {
	switch format {
	case FormatSVG:
		if _, err := io.WriteString(w, SVG(fr.Scene, fr.Width, fr.Height, SVGOptions{Annotations: opts.Annotations})); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		return nil
	case FormatPNG:
		return PNG(w, fr, opts)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// PNG rasterizes the frame onto an off-screen surface with a background
// composited first and no grid.
func PNG(w io.Writer, fr Frame, opts Options) error {
	surface := render.NewRasterSurface(fr.Width, fr.Height)
	defer surface.Close()

	ro := render.ExportOptions{Background: opts.Background}
	if ro.Background == "" {
		ro.Background = render.Background
	}
	if !opts.IgnoreView && fr.Transform.Determinant() != 0 && !fr.Transform.IsIdentity() {
		m := fr.Transform
		ro.Transform = &m
	}
	render.Export(surface, fr.Scene, ro)

	if err := surface.EncodePNG(w); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}
