package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handler struct {
	service    *Service
	newSession func() string
}

// NewHandler serves session creation; newSession starts a session and
// returns its id.
func NewHandler(service *Service, newSession func() string) *Handler {
	return &Handler{service: service, newSession: newSession}
}

type CreateSessionResult struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := h.newSession()

	token, err := h.service.IssueToken(sessionID)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	slog.Info("session created", "session", sessionID)
	writeJSON(w, http.StatusCreated, CreateSessionResult{SessionID: sessionID, Token: token})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
