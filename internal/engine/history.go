package engine

import "github.com/inamate/shapecut/internal/document"

// HistoryLimit is the number of undo steps kept; older ones are dropped.
const HistoryLimit = 100

type historyEntry struct {
	shapes     []*document.Shape
	selectedID string
	style      document.Style
	global     []document.Annotation
}

// history is a fixed-capacity ring of deep-copied scene states.
type history struct {
	entries [HistoryLimit]historyEntry
	start   int
	size    int
}

func (h *history) push(e historyEntry) {
	if h.size == HistoryLimit {
		h.entries[h.start] = e
		h.start = (h.start + 1) % HistoryLimit
		return
	}
	h.entries[(h.start+h.size)%HistoryLimit] = e
	h.size++
}

func (h *history) pop() (historyEntry, bool) {
	if h.size == 0 {
		return historyEntry{}, false
	}
	h.size--
	i := (h.start + h.size) % HistoryLimit
	e := h.entries[i]
	h.entries[i] = historyEntry{}
	return e, true
}

func (h *history) len() int { return h.size }
