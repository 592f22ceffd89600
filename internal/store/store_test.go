package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/inamate/shapecut/internal/db"
	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/geom"
)

func testKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
	if err := kv.Put(ctx, "iconGenerator_canvasData:sess_1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Put(ctx, "iconGenerator_canvasData:sess_1", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "iconGenerator_canvasData:sess_1")
	if err != nil || string(got) != `{"a":2}` {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := kv.Delete(ctx, "iconGenerator_canvasData:sess_1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "iconGenerator_canvasData:sess_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v", err)
	}
	if err := kv.Delete(ctx, "never-there"); err != nil {
		t.Errorf("Delete missing = %v", err)
	}
}

func TestMemory(t *testing.T) {
	testKV(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	v := []byte("abc")
	m.Put(context.Background(), "k", v)
	v[0] = 'x'
	got, _ := m.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %q", got)
	}
}

func TestFile(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	testKV(t, f)
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, url)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	testKV(t, NewPostgres(pool))
}

type countingKV struct {
	*Memory
	puts int
}

func (c *countingKV) Put(ctx context.Context, key string, value []byte) error {
	c.puts++
	return c.Memory.Put(ctx, key, value)
}

func sampleSnapshot(ts int64) *document.Snapshot {
	rect := document.NewShape("shape_a", document.ShapeRectangle, geom.Pt(0, 0), geom.Pt(10, 10), document.DefaultStyle())
	return &document.Snapshot{
		Shapes:            []*document.Shape{rect},
		GlobalAnnotations: []document.Annotation{{X: 1, Y: 2, Label: "1"}},
		Timestamp:         ts,
	}
}

func TestScenePersisterRoundTrip(t *testing.T) {
	kv := &countingKV{Memory: NewMemory()}
	p := NewScenePersister(kv, SceneKey(DefaultKey, ""), nil)

	snap, err := p.Load()
	if err != nil || snap != nil {
		t.Fatalf("empty Load = %v, %v; want nil, nil", snap, err)
	}

	if err := p.Save(sampleSnapshot(1)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := p.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Shapes) != 1 || got.Shapes[0].Width != 10 || len(got.GlobalAnnotations) != 1 || got.Timestamp != 1 {
		t.Errorf("loaded = %+v", got)
	}
}

func TestScenePersisterSkipsUnchanged(t *testing.T) {
	kv := &countingKV{Memory: NewMemory()}
	p := NewScenePersister(kv, DefaultKey, nil)

	p.Save(sampleSnapshot(1))
	p.Save(sampleSnapshot(2)) // same content, newer timestamp
	if kv.puts != 1 {
		t.Errorf("puts = %d, want 1", kv.puts)
	}

	changed := sampleSnapshot(3)
	changed.Shapes[0].FillColor = "#000000"
	p.Save(changed)
	if kv.puts != 2 {
		t.Errorf("puts = %d after change, want 2", kv.puts)
	}

	// A fresh persister that loads the stored scene knows it is current.
	q := NewScenePersister(kv, DefaultKey, nil)
	if _, err := q.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	q.Save(changed)
	if kv.puts != 2 {
		t.Errorf("puts = %d after no-op save, want 2", kv.puts)
	}
}

func TestScenePersisterCorruptPayload(t *testing.T) {
	kv := NewMemory()
	kv.Put(context.Background(), DefaultKey, []byte("{not json"))
	p := NewScenePersister(kv, DefaultKey, nil)
	if _, err := p.Load(); err == nil {
		t.Error("corrupt payload should fail to load")
	}
}

func TestSceneKey(t *testing.T) {
	if got := SceneKey(DefaultKey, "sess_1"); got != "iconGenerator_canvasData:sess_1" {
		t.Errorf("SceneKey = %q", got)
	}
	if got := SceneKey(DefaultKey, ""); got != DefaultKey {
		t.Errorf("SceneKey without session = %q", got)
	}
}
