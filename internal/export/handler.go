package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

const maxRequestSize = 64 << 10 // 64KB

// Source resolves a session to the frame to export.
type Source interface {
	ExportFrame(ctx context.Context, sessionID string) (Frame, error)
}

// Handler serves export downloads and stored exports for sessions.
type Handler struct {
	source    Source
	artifacts *ArtifactStore
}

func NewHandler(source Source, artifacts *ArtifactStore) *Handler {
	return &Handler{source: source, artifacts: artifacts}
}

// StoreRequest is the body of POST /api/sessions/{sessionId}/exports.
type StoreRequest struct {
	Format      string `json:"format"`
	Annotations bool   `json:"annotations"`
	IgnoreView  bool   `json:"ignoreView"`
	Background  string `json:"background"`
}

// Download handles GET /api/sessions/{sessionId}/export.{format}.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	format, err := ParseFormat(vars["format"])
	if err != nil {
		http.Error(w, "invalid format: must be svg or png", http.StatusBadRequest)
		return
	}

	fr, ok := h.frame(w, r, vars["sessionId"])
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, fr, optionsFromQuery(r.URL.Query())); err != nil {
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	name := sanitizeName(r.URL.Query().Get("name"))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	slog.Info("export complete", "format", format, "size", buf.Len())
}

// Store handles POST /api/sessions/{sessionId}/exports: the export is kept
// on disk and its id and URL are returned.
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	var req StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	format, err := ParseFormat(req.Format)
	if err != nil {
		http.Error(w, "invalid format: must be svg or png", http.StatusBadRequest)
		return
	}

	fr, ok := h.frame(w, r, mux.Vars(r)["sessionId"])
	if !ok {
		return
	}

	var buf bytes.Buffer
	opts := Options{Annotations: req.Annotations, IgnoreView: req.IgnoreView, Background: req.Background}
	if err := Write(&buf, format, fr, opts); err != nil {
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	art, err := h.artifacts.Save(buf.Bytes(), format)
	if err != nil {
		slog.Error("store export", "error", err)
		http.Error(w, "failed to save export", http.StatusInternalServerError)
		return
	}

	slog.Info("export stored", "id", art.ID, "format", format, "size", art.Size)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(art)
}

func (h *Handler) frame(w http.ResponseWriter, r *http.Request, sessionID string) (Frame, bool) {
	fr, err := h.source.ExportFrame(r.Context(), sessionID)
	if errors.Is(err, ErrNoScene) {
		http.Error(w, "session not found", http.StatusNotFound)
		return Frame{}, false
	}
	if err != nil {
		slog.Error("load export frame", "session", sessionID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return Frame{}, false
	}
	return fr, true
}

func optionsFromQuery(q url.Values) Options {
	ann, _ := strconv.ParseBool(q.Get("annotations"))
	ignore, _ := strconv.ParseBool(q.Get("ignoreView"))
	return Options{Annotations: ann, IgnoreView: ignore, Background: q.Get("background")}
}

func sanitizeName(name string) string {
	if name == "" {
		return "canvas"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
