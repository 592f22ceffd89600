package export

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/geom"
	"github.com/inamate/shapecut/internal/render"
)

// SVGOptions controls vector export.
type SVGOptions struct {
	// Annotations adds annotation dots and labels on top of the shapes.
	Annotations bool
}

// SVG renders the scene as a standalone SVG document sized to the surface.
// Shapes are written in world coordinates, one element each; gradient and
// pattern fills become defs referenced by url.
func SVG(sc render.Scene, width, height int, opts SVGOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height)
	b.WriteByte('\n')

	fills := make([]string, len(sc.Shapes))
	var defs strings.Builder
	for i, sh := range sc.Shapes {
		p := render.ResolveFill(sh)
		if p.Kind == render.PaintSolid {
			fills[i] = sh.FillColor
			continue
		}
		id := fmt.Sprintf("fill-%d", i)
		writePaintDef(&defs, id, p)
		fills[i] = "url(#" + id + ")"
	}
	if defs.Len() > 0 {
		b.WriteString("<defs>\n")
		b.WriteString(defs.String())
		b.WriteString("</defs>\n")
	}

	for i, sh := range sc.Shapes {
		writeShape(&b, sh, fills[i])
	}

	if opts.Annotations {
		st := sc.AnnotationStyle
		for _, sh := range sc.Shapes {
			for i, a := range sh.Annotations {
				writeAnnotation(&b, a, i, st)
			}
		}
		for i, a := range sc.GlobalAnnotations {
			writeAnnotation(&b, a, i, st)
		}
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func writeShape(b *strings.Builder, sh *document.Shape, fill string) {
	switch sh.Type.Geometry() {
	case document.GeometryBox:
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s"`, f(sh.X), f(sh.Y), f(sh.Width), f(sh.Height))
	case document.GeometryCircle:
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s"`, f(sh.X), f(sh.Y), f(sh.Radius))
	case document.GeometryEllipse:
		fmt.Fprintf(b, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"`, f(sh.X), f(sh.Y), f(sh.RadiusX), f(sh.RadiusY))
	case document.GeometryVertices:
		fmt.Fprintf(b, `<polygon points="%s"`, points(sh.Points))
	case document.GeometrySegment:
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s"`, f(sh.X1), f(sh.Y1), f(sh.X2), f(sh.Y2))
		fill = "none"
	default:
		return
	}
	fmt.Fprintf(b, ` fill="%s" stroke="%s" stroke-width="%s"/>`, attr(fill), attr(sh.StrokeColor), f(sh.StrokeWidth))
	b.WriteByte('\n')
}

func writePaintDef(b *strings.Builder, id string, p render.Paint) {
	switch p.Kind {
	case render.PaintLinear:
		fmt.Fprintf(b, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`,
			id, f(p.From.X), f(p.From.Y), f(p.To.X), f(p.To.Y))
		writeStops(b, p.Stops)
		b.WriteString("</linearGradient>\n")
	case render.PaintRadial:
		fmt.Fprintf(b, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%s" cy="%s" r="%s" fr="%s">`,
			id, f(p.Center.X), f(p.Center.Y), f(p.OuterRadius), f(p.InnerRadius))
		writeStops(b, p.Stops)
		b.WriteString("</radialGradient>\n")
	case render.PaintStripes:
		tile := f(2 * p.StripeWidth)
		fmt.Fprintf(b, `<pattern id="%s" patternUnits="userSpaceOnUse" width="%s" height="%s" patternTransform="rotate(%s)">`,
			id, tile, tile, f(p.Angle))
		fmt.Fprintf(b, `<rect width="%s" height="%s" fill="%s"/>`, tile, tile, attr(p.Color))
		fmt.Fprintf(b, `<rect width="%s" height="%s" fill="%s"/>`, f(p.StripeWidth), tile, attr(p.Accent))
		b.WriteString("</pattern>\n")
	case render.PaintDots:
		s := f(p.Spacing)
		fmt.Fprintf(b, `<pattern id="%s" patternUnits="userSpaceOnUse" width="%s" height="%s">`, id, s, s)
		fmt.Fprintf(b, `<rect width="%s" height="%s" fill="%s"/>`, s, s, attr(p.Color))
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, f(p.Spacing/2), f(p.Spacing/2), f(p.DotRadius), attr(p.Accent))
		b.WriteString("</pattern>\n")
	}
}

func writeStops(b *strings.Builder, stops []render.ColorStop) {
	for _, s := range stops {
		fmt.Fprintf(b, `<stop offset="%s" stop-color="%s"/>`, f(s.Offset), attr(s.Color))
	}
}

func writeAnnotation(b *strings.Builder, a document.Annotation, i int, st document.AnnotationStyle) {
	fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
		f(a.X), f(a.Y), f(st.DotRadius), attr(st.DotFill), attr(st.DotStroke), f(st.DotStrokeWidth))
	fmt.Fprintf(b, `<text x="%s" y="%s" font-family="sans-serif" font-size="%s" fill="%s" dominant-baseline="middle">%s</text>`,
		f(a.X+st.LabelOffsetX), f(a.Y), f(st.LabelFontSize), attr(st.LabelColor), html.EscapeString(document.LabelFor(a, i)))
	b.WriteByte('\n')
}

func points(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = f(p.X) + "," + f(p.Y)
	}
	return strings.Join(parts, " ")
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attr(s string) string {
	return html.EscapeString(s)
}
