package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/inamate/shapecut/internal/document"
)

// DefaultKey is the storage key the browser editor has always used.
const DefaultKey = "iconGenerator_canvasData"

const defaultTimeout = 5 * time.Second

// SceneKey returns the storage key for a session's scene.
func SceneKey(base, sessionID string) string {
	if sessionID == "" {
		return base
	}
	return base + ":" + sessionID
}

// ScenePersister saves and loads one scene under a fixed key. Saves whose
// encoded payload is unchanged since the last write are skipped.
type ScenePersister struct {
	kv      KV
	key     string
	timeout time.Duration
	log     *slog.Logger

	mu   sync.Mutex
	last [blake2b.Size256]byte
	have bool
}

func NewScenePersister(kv KV, key string, log *slog.Logger) *ScenePersister {
	if log == nil {
		log = slog.Default()
	}
	return &ScenePersister{kv: kv, key: key, timeout: defaultTimeout, log: log}
}

// Key returns the storage key.
func (p *ScenePersister) Key() string { return p.key }

func (p *ScenePersister) Save(snap *document.Snapshot) error {
	content, err := sceneBytes(snap)
	if err != nil {
		return err
	}
	sum := blake2b.Sum256(content)
	data, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.have && sum == p.last {
		p.log.Debug("scene unchanged, skipping save", "key", p.key)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.kv.Put(ctx, p.key, data); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	p.last, p.have = sum, true
	return nil
}

// Load returns (nil, nil) when nothing is stored under the key.
func (p *ScenePersister) Load() (*document.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	data, err := p.kv.Get(ctx, p.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	snap, err := document.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}

	if again, err := sceneBytes(snap); err == nil {
		p.mu.Lock()
		p.last, p.have = blake2b.Sum256(again), true
		p.mu.Unlock()
	}
	return snap, nil
}

// sceneBytes encodes the snapshot without its timestamp, which changes on
// every save even when the content does not.
func sceneBytes(snap *document.Snapshot) ([]byte, error) {
	c := *snap
	c.Timestamp = 0
	data, err := c.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return data, nil
}
