package engine

import (
	"log/slog"
	"slices"
	"time"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/geom"
	"github.com/inamate/shapecut/internal/typeid"
)

// Persister saves and restores the scene. Load returns (nil, nil) when
// nothing has been stored yet.
type Persister interface {
	Save(snap *document.Snapshot) error
	Load() (*document.Snapshot, error)
}

// Options configures an Editor. Zero values pick the defaults.
type Options struct {
	Width     int
	Height    int
	Persister Persister
	Logger    *slog.Logger
	NewID     func() string
	Now       func() time.Time
}

// Editor is one editing session: the scene, the view, the undo history and
// the pointer interaction state. It is not safe for concurrent use; callers
// serialize events.
type Editor struct {
	width, height int

	shapes          []*document.Shape
	global          []document.Annotation
	selectedID      string
	style           document.Style
	annotationStyle document.AnnotationStyle
	tool            Tool
	view            View
	hist            history

	drag  *dragSession
	draw  *drawSession
	cut   cutState
	hover Hover

	persister Persister
	log       *slog.Logger
	newID     func() string
	now       func() time.Time
}

// New creates an editor with an empty scene.
func New(opts Options) *Editor {
	e := &Editor{
		width:           opts.Width,
		height:          opts.Height,
		shapes:          []*document.Shape{},
		global:          []document.Annotation{},
		style:           document.DefaultStyle(),
		annotationStyle: document.DefaultAnnotationStyle(),
		tool:            ToolSelect,
		view:            NewView(),
		hover:           noHover,
		persister:       opts.Persister,
		log:             opts.Logger,
		newID:           opts.NewID,
		now:             opts.Now,
	}
	if e.width <= 0 {
		e.width = 800
	}
	if e.height <= 0 {
		e.height = 600
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.newID == nil {
		e.newID = typeid.NewShapeID
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// --- Commands (host → editor) ---

// Load restores the scene from the persister. Any failure leaves an empty
// scene.
func (e *Editor) Load() {
	e.replaceScene(nil, nil)
	if e.persister == nil {
		return
	}
	snap, err := e.persister.Load()
	if err != nil {
		e.log.Warn("load scene failed, starting empty", "error", err)
		return
	}
	if snap == nil {
		return
	}
	e.replaceScene(snap.Shapes, snap.GlobalAnnotations)
	e.log.Debug("scene loaded", "shapes", len(e.shapes), "globalAnnotations", len(e.global))
}

// LoadSnapshot replaces the scene with a copy of snap without touching
// history or the persister.
func (e *Editor) LoadSnapshot(snap *document.Snapshot) {
	if snap == nil {
		e.replaceScene(nil, nil)
		return
	}
	e.replaceScene(document.CloneShapes(snap.Shapes), slices.Clone(snap.GlobalAnnotations))
}

// LoadSample replaces the scene with the built-in sample.
func (e *Editor) LoadSample() {
	e.LoadSnapshot(document.NewSampleSnapshot())
}

func (e *Editor) replaceScene(shapes []*document.Shape, global []document.Annotation) {
	if shapes == nil {
		shapes = []*document.Shape{}
	}
	if global == nil {
		global = []document.Annotation{}
	}
	e.shapes = shapes
	e.global = global
	e.selectedID = ""
	e.hist = history{}
	e.resetInteraction()
}

// Snapshot returns a deep copy of the scene in its persisted form.
func (e *Editor) Snapshot() *document.Snapshot {
	return &document.Snapshot{
		Shapes:            document.CloneShapes(e.shapes),
		GlobalAnnotations: slices.Clone(e.global),
		Timestamp:         e.now().UnixMilli(),
	}
}

func (e *Editor) persist() {
	if e.persister == nil {
		return
	}
	if err := e.persister.Save(e.Snapshot()); err != nil {
		e.log.Warn("save scene failed", "error", err)
	}
}

func (e *Editor) pushHistory() {
	e.hist.push(historyEntry{
		shapes:     document.CloneShapes(e.shapes),
		selectedID: e.selectedID,
		style:      e.style.Clone(),
		global:     slices.Clone(e.global),
	})
}

// Undo restores the state before the last mutating action. It reports false
// when there is nothing to undo.
func (e *Editor) Undo() bool {
	prev, ok := e.hist.pop()
	if !ok {
		return false
	}
	e.shapes = prev.shapes
	e.global = prev.global
	e.style = prev.style
	e.selectedID = ""
	if _, s := e.find(prev.selectedID); s != nil {
		e.selectedID = s.ID
	}
	e.resetInteraction()
	e.persist()
	return true
}

// UndoDepth returns the number of undoable actions.
func (e *Editor) UndoDepth() int {
	return e.hist.len()
}

// SetTool switches the interaction mode, dropping the selection and any
// gesture in progress.
func (e *Editor) SetTool(t Tool) {
	e.tool = t
	e.selectedID = ""
	e.resetInteraction()
}

func (e *Editor) resetInteraction() {
	e.drag = nil
	e.draw = nil
	e.cut = cutState{}
	e.hover = noHover
}

// SetStyle updates the current style and, if a shape is selected, the
// selected shape. With a selection the change is one undoable action
// covering both.
func (e *Editor) SetStyle(p document.StylePatch) {
	s := e.Selected()
	if s != nil {
		e.pushHistory()
	}
	p.ApplyToStyle(&e.style)
	if s != nil {
		p.ApplyToShape(s)
		e.persist()
	}
}

// SetFillStyle sets the fill type and merges options into the current style;
// a selected shape receives a copy of the result.
func (e *Editor) SetFillStyle(ft document.FillType, p document.FillPatch) {
	s := e.Selected()
	if s != nil {
		e.pushHistory()
	}
	e.style.FillType = ft
	if e.style.FillOptions == nil {
		e.style.FillOptions = &document.FillOptions{}
	}
	p.Apply(e.style.FillOptions)
	if s != nil {
		s.FillType = ft
		s.FillOptions = e.style.FillOptions.Clone()
		e.persist()
	}
}

// SetFillSolid switches to a solid fill of color.
func (e *Editor) SetFillSolid(color string) {
	e.style.FillType = document.FillSolid
	e.style.FillColor = color
	if s := e.Selected(); s != nil {
		e.pushHistory()
		s.FillType = document.FillSolid
		s.FillOptions = e.style.FillOptions.Clone()
		s.FillColor = color
		e.persist()
	}
}

// SetFillLinearGradient switches to a linear gradient. Nil colors or stops
// take the defaults.
func (e *Editor) SetFillLinearGradient(colors []string, stops []float64, angle float64) {
	if colors == nil {
		colors = []string{"#3498db", "#8e44ad"}
	}
	if stops == nil {
		stops = []float64{0, 1}
	}
	e.SetFillStyle(document.FillLinearGradient, document.FillPatch{Colors: colors, Stops: stops, Angle: &angle})
}

// SetFillRadialGradient switches to a radial gradient. Nil colors or stops
// take the defaults.
func (e *Editor) SetFillRadialGradient(colors []string, stops []float64, innerRatio float64) {
	if colors == nil {
		colors = []string{"#3498db", "#ffffff"}
	}
	if stops == nil {
		stops = []float64{0, 1}
	}
	e.SetFillStyle(document.FillRadialGradient, document.FillPatch{Colors: colors, Stops: stops, InnerRatio: &innerRatio})
}

// SetFillPatternStripes switches to a stripe pattern; colors are
// [background, stripe].
func (e *Editor) SetFillPatternStripes(colors []string, stripeWidth, angle float64) {
	if colors == nil {
		colors = []string{"#ffffff", "#3498db"}
	}
	if stripeWidth <= 0 {
		stripeWidth = 8
	}
	e.SetFillStyle(document.FillPatternStripes, document.FillPatch{Colors: colors, StripeWidth: &stripeWidth, Angle: &angle})
}

// SetFillPatternDots switches to a dot pattern.
func (e *Editor) SetFillPatternDots(bgColor, dotColor string, dotRadius, spacing float64) {
	if bgColor == "" {
		bgColor = "#ffffff"
	}
	if dotColor == "" {
		dotColor = "#3498db"
	}
	if dotRadius <= 0 {
		dotRadius = 3
	}
	if spacing <= 0 {
		spacing = 12
	}
	e.SetFillStyle(document.FillPatternDots, document.FillPatch{
		BgColor: &bgColor, DotColor: &dotColor, DotRadius: &dotRadius, Spacing: &spacing,
	})
}

// SetAnnotationStyle replaces the annotation look.
func (e *Editor) SetAnnotationStyle(s document.AnnotationStyle) {
	e.annotationStyle = s
}

// DeleteSelected removes the selected shape. It reports false when nothing
// is selected.
func (e *Editor) DeleteSelected() bool {
	i, s := e.find(e.selectedID)
	if s == nil {
		return false
	}
	e.pushHistory()
	e.shapes = slices.Delete(e.shapes, i, i+1)
	e.selectedID = ""
	e.resetInteraction()
	e.persist()
	return true
}

// ClearAll removes every shape and global annotation.
func (e *Editor) ClearAll() {
	e.pushHistory()
	e.shapes = []*document.Shape{}
	e.global = []document.Annotation{}
	e.selectedID = ""
	e.resetInteraction()
	e.persist()
}

// SetZoom sets the zoom (clamped) without re-anchoring.
func (e *Editor) SetZoom(z float64) { e.view.SetZoom(z) }

// ZoomIn zooms in one button step.
func (e *Editor) ZoomIn() { e.view.SetZoom(e.view.Zoom * buttonStep) }

// ZoomOut zooms out one button step.
func (e *Editor) ZoomOut() { e.view.SetZoom(e.view.Zoom / buttonStep) }

// ResetZoom restores zoom 1 and no pan.
func (e *Editor) ResetZoom() { e.view.Reset() }

// PanBy shifts the view by d surface pixels.
func (e *Editor) PanBy(d geom.Point) { e.view.PanBy(d) }

// --- Queries (editor → host/renderer) ---

// Size returns the surface size in pixels.
func (e *Editor) Size() (int, int) { return e.width, e.height }

// Shapes returns the scene in paint order. Callers must not modify it.
func (e *Editor) Shapes() []*document.Shape { return e.shapes }

// GlobalAnnotations returns the scene-level annotations. Callers must not
// modify them.
func (e *Editor) GlobalAnnotations() []document.Annotation { return e.global }

// Selected returns the selected shape, or nil.
func (e *Editor) Selected() *document.Shape {
	_, s := e.find(e.selectedID)
	return s
}

// Style returns a copy of the current style.
func (e *Editor) Style() document.Style { return e.style.Clone() }

// AnnotationStyle returns the annotation look.
func (e *Editor) AnnotationStyle() document.AnnotationStyle { return e.annotationStyle }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// View returns the view transform.
func (e *Editor) View() View { return e.view }

// Hover returns the current hover targets.
func (e *Editor) Hover() Hover { return e.hover }

// Dragging reports whether a shape drag is in progress.
func (e *Editor) Dragging() bool { return e.drag != nil }

func (e *Editor) find(id string) (int, *document.Shape) {
	if id == "" {
		return -1, nil
	}
	for i, s := range e.shapes {
		if s.ID == id {
			return i, s
		}
	}
	return -1, nil
}
