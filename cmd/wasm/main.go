//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/engine"
	"github.com/inamate/shapecut/internal/export"
	"github.com/inamate/shapecut/internal/geom"
	"github.com/inamate/shapecut/internal/render"
	"github.com/inamate/shapecut/internal/store"
)

var (
	editor   *engine.Editor
	recorder *render.Recorder
)

func main() {
	width, height := 800, 600
	if c := js.Global().Get("shapecutCanvasSize"); c.Type() == js.TypeObject {
		width, height = c.Get("width").Int(), c.Get("height").Int()
	}

	persister := store.NewScenePersister(newLocalStorage(), store.DefaultKey, slog.Default())
	editor = engine.New(engine.Options{Width: width, Height: height, Persister: persister})
	editor.Load()
	recorder = render.NewRecorder(editor.Size())

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("key", js.FuncOf(key))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setStyle", js.FuncOf(setStyle))
	api.Set("setFill", js.FuncOf(setFill))
	api.Set("setAnnotationStyle", js.FuncOf(setAnnotationStyle))
	api.Set("undo", js.FuncOf(func(this js.Value, args []js.Value) interface{} { return editor.Undo() }))
	api.Set("deleteSelected", js.FuncOf(func(this js.Value, args []js.Value) interface{} { return editor.DeleteSelected() }))
	api.Set("clearAll", js.FuncOf(func(this js.Value, args []js.Value) interface{} { editor.ClearAll(); return true }))
	api.Set("setZoom", js.FuncOf(setZoom))
	api.Set("zoomIn", js.FuncOf(func(this js.Value, args []js.Value) interface{} { editor.ZoomIn(); return true }))
	api.Set("zoomOut", js.FuncOf(func(this js.Value, args []js.Value) interface{} { editor.ZoomOut(); return true }))
	api.Set("resetZoom", js.FuncOf(func(this js.Value, args []js.Value) interface{} { editor.ResetZoom(); return true }))
	api.Set("panBy", js.FuncOf(panBy))
	api.Set("loadSample", js.FuncOf(func(this js.Value, args []js.Value) interface{} { editor.LoadSample(); return true }))

	// --- Queries (frontend ← editor) ---
	api.Set("render", js.FuncOf(renderFrame))
	api.Set("exportSVG", js.FuncOf(exportSVG))
	api.Set("getScene", js.FuncOf(getScene))
	api.Set("getState", js.FuncOf(getState))

	js.Global().Set("shapecut", api)
	js.Global().Set("shapecutWasmReady", js.ValueOf(true))

	select {}
}

// point reads (x, y) in layout pixels plus the element's layout size and maps
// it onto the drawing surface.
func point(args []js.Value) (geom.Point, bool) {
	if len(args) < 2 {
		return geom.Point{}, false
	}
	p := geom.Pt(args[0].Float(), args[1].Float())
	if len(args) >= 4 {
		p = editor.LayoutPoint(p, args[2].Float(), args[3].Float())
	}
	return p, true
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

// --- Command Handlers ---

func pointerDown(this js.Value, args []js.Value) interface{} {
	p, ok := point(args)
	return ok && editor.PointerDown(p)
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	p, ok := point(args)
	return ok && editor.PointerMove(p)
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	p, ok := point(args)
	return ok && editor.PointerUp(p)
}

// wheel takes (x, y, deltaY) or (x, y, layoutW, layoutH, deltaY).
func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return false
	}
	last := len(args) - 1
	if last != 2 && last != 4 {
		return false
	}
	p, _ := point(args[:last])
	return editor.Wheel(p, args[last].Float())
}

// key returns {command, redraw}; the frontend performs the download for
// "export.svg".
func key(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ev := engine.KeyEvent{Key: args[0].String()}
	if len(args) > 1 {
		ev.Ctrl = args[1].Truthy()
	}
	if len(args) > 2 {
		ev.InInput = args[2].Truthy()
	}
	cmd, redraw := editor.HandleKey(ev)
	return js.ValueOf(map[string]interface{}{"command": string(cmd), "redraw": redraw})
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	tool, err := engine.ParseTool(args[0].String())
	if err != nil {
		return errorResult(err)
	}
	editor.SetTool(tool)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	var p document.StylePatch
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return errorResult(err)
	}
	editor.SetStyle(p)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// setFill takes a fill type and an optional options JSON object.
func setFill(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ft := document.FillType(args[0].String())
	var patch document.FillPatch
	if len(args) > 1 && args[1].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
			return errorResult(err)
		}
	}
	switch ft {
	case document.FillSolid:
		color := editor.Style().FillColor
		if len(args) > 2 && args[2].Type() == js.TypeString {
			color = args[2].String()
		}
		editor.SetFillSolid(color)
	case document.FillLinearGradient, document.FillRadialGradient, document.FillPatternStripes, document.FillPatternDots:
		editor.SetFillStyle(ft, patch)
	default:
		return js.ValueOf(map[string]interface{}{"error": "unknown fill type " + string(ft)})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setAnnotationStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	st := editor.AnnotationStyle()
	if err := json.Unmarshal([]byte(args[0].String()), &st); err != nil {
		return errorResult(err)
	}
	editor.SetAnnotationStyle(st)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setZoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.SetZoom(args[0].Float())
	return nil
}

func panBy(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.PanBy(geom.Pt(args[0].Float(), args[1].Float()))
	return nil
}

// --- Query Handlers ---

// renderFrame returns the live frame as draw-command JSON for the canvas
// backend to replay.
func renderFrame(this js.Value, args []js.Value) interface{} {
	recorder.Reset()
	render.Frame(recorder, editor)
	out, err := render.DrawCommandsToJSON(recorder.Commands())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func exportSVG(this js.Value, args []js.Value) interface{} {
	opts := export.SVGOptions{}
	if len(args) > 0 {
		opts.Annotations = args[0].Truthy()
	}
	w, h := editor.Size()
	return js.ValueOf(export.SVG(render.SceneOf(editor), w, h, opts))
}

func getScene(this js.Value, args []js.Value) interface{} {
	data, err := editor.Snapshot().Encode()
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getState(this js.Value, args []js.Value) interface{} {
	state := map[string]interface{}{
		"tool":     string(editor.Tool()),
		"zoom":     editor.View().Zoom,
		"canUndo":  editor.UndoDepth() > 0,
		"dragging": editor.Dragging(),
		"selected": "",
	}
	if s := editor.Selected(); s != nil {
		state["selected"] = s.ID
	}
	data, _ := json.Marshal(state)
	return js.ValueOf(string(data))
}
