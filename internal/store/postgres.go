package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores blobs in the scenes table created by db.Migrate.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const (
	getScene = `SELECT data FROM scenes WHERE key = $1`

	putScene = `INSERT INTO scenes (key, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	deleteScene = `DELETE FROM scenes WHERE key = $1`
)

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, getScene, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scene %s: %w", key, err)
	}
	return data, nil
}

func (p *Postgres) Put(ctx context.Context, key string, value []byte) error {
	if _, err := p.pool.Exec(ctx, putScene, key, value); err != nil {
		return fmt.Errorf("put scene %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, deleteScene, key); err != nil {
		return fmt.Errorf("delete scene %s: %w", key, err)
	}
	return nil
}
