package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler serves the session REST routes under /api/sessions/{sessionId}.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Scene handles GET /api/sessions/{sessionId}/scene.
func (h *Handler) Scene(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Undo handles POST /api/sessions/{sessionId}/undo.
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	undone := s.Undo(h.hub.opts.Now())
	if undone {
		h.hub.Refresh(s)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"undone": undone})
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := mux.Vars(r)["sessionId"]
	s, err := h.hub.Open(id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	if err != nil {
		slog.Error("open session", "session", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return nil, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
