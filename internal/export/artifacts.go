package export

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/inamate/shapecut/internal/typeid"
)

// Artifact describes a stored export.
type Artifact struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Format Format `json:"format"`
	Size   int    `json:"size"`
	ETag   string `json:"etag"`
}

// ArtifactStore keeps exported files on disk and serves them back.
type ArtifactStore struct {
	dir string // directory to store export files
}

// NewArtifactStore creates a store that keeps files in dir.
func NewArtifactStore(dir string) *ArtifactStore {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create export dir", "error", err, "dir", dir)
	}
	return &ArtifactStore{dir: dir}
}

// Digest returns the hex blake2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Save writes data as a new artifact.
func (s *ArtifactStore) Save(data []byte, format Format) (Artifact, error) {
	id := typeid.NewExportID()
	filename := id + "." + string(format)
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0644); err != nil {
		return Artifact{}, fmt.Errorf("write export %s: %w", id, err)
	}
	return Artifact{
		ID:     id,
		URL:    "/exports/" + filename,
		Format: format,
		Size:   len(data),
		ETag:   `"` + Digest(data) + `"`,
	}, nil
}

// Serve returns an http.Handler that serves stored exports with caching
// headers. Export IDs are unique, so files never change.
func (s *ArtifactStore) Serve() http.Handler {
	return http.StripPrefix("/exports/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			http.NotFound(w, r)
			return
		}
		format, err := ParseFormat(filepath.Ext(name))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("read export", "error", err, "file", name)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("ETag", `"`+Digest(data)+`"`)
		http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
	}))
}

// Delete removes an artifact from disk.
func (s *ArtifactStore) Delete(id string) error {
	for _, f := range []Format{FormatSVG, FormatPNG} {
		path := filepath.Join(s.dir, id+"."+string(f))
		if err := os.Remove(path); err == nil {
			return nil
		}
	}
	return fmt.Errorf("export not found: %s", id)
}
