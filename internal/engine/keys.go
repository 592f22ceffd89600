package engine

import (
	"strings"

	"github.com/inamate/shapecut/internal/document"
)

// KeyEvent is a key press reported by the host.
type KeyEvent struct {
	Key     string `json:"key"`
	Ctrl    bool   `json:"ctrl"`
	InInput bool   `json:"inInput"`
}

// Command is the host-visible outcome of a key press.
type Command string

const (
	CommandNone      Command = ""
	CommandSetTool   Command = "tool"
	CommandDelete    Command = "delete"
	CommandUndo      Command = "undo"
	CommandExportSVG Command = "export.svg"
)

var toolKeys = map[string]Tool{
	"v":      ToolSelect,
	"escape": ToolSelect,
	"r":      DrawTool(document.ShapeRectangle),
	"c":      DrawTool(document.ShapeCircle),
	"t":      DrawTool(document.ShapeTriangle),
	"l":      DrawTool(document.ShapeLine),
	"x":      ToolCut,
}

// KeyAction maps a key press to a command, and for CommandSetTool the tool.
// Presses while a text input has focus are ignored.
func KeyAction(ev KeyEvent) (Command, Tool) {
	if ev.InInput {
		return CommandNone, ""
	}
	key := strings.ToLower(ev.Key)
	if ev.Ctrl {
		switch key {
		case "s":
			return CommandExportSVG, ""
		case "z":
			return CommandUndo, ""
		}
		return CommandNone, ""
	}
	if t, ok := toolKeys[key]; ok {
		return CommandSetTool, t
	}
	switch key {
	case "delete", "backspace":
		return CommandDelete, ""
	}
	return CommandNone, ""
}

// HandleKey applies the editor-side effect of a key press and returns the
// command so the host can handle the rest (exporting). It reports whether a
// redraw is needed.
func (e *Editor) HandleKey(ev KeyEvent) (Command, bool) {
	cmd, tool := KeyAction(ev)
	switch cmd {
	case CommandSetTool:
		e.SetTool(tool)
		return cmd, true
	case CommandDelete:
		return cmd, e.DeleteSelected()
	case CommandUndo:
		return cmd, e.Undo()
	}
	return cmd, false
}
