// Package storage keeps a local SQLite mirror of the remote collections
// so the application still has data when the remote backend is down.
// Each collection is stored whole, as one JSON array per key.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cobros/internal/core"

	_ "modernc.org/sqlite"
)

const (
	keyUsers   = "usuarios"
	keyCharges = "cobros"
)

type Cache struct {
	db *sql.DB
}

func NewCache(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *Cache) LoadUsers(ctx context.Context) ([]core.User, error) {
	var users []core.User
	ok, err := c.load(ctx, keyUsers, &users)
	if err != nil || !ok {
		return nil, err
	}
	return users, nil
}

func (c *Cache) SaveUsers(ctx context.Context, users []core.User) error {
	if users == nil {
		users = []core.User{}
	}
	return c.save(ctx, keyUsers, users)
}

func (c *Cache) LoadCharges(ctx context.Context) ([]core.Charge, error) {
	var charges []core.Charge
	ok, err := c.load(ctx, keyCharges, &charges)
	if err != nil || !ok {
		return nil, err
	}
	return charges, nil
}

func (c *Cache) SaveCharges(ctx context.Context, charges []core.Charge) error {
	if charges == nil {
		charges = []core.Charge{}
	}
	return c.save(ctx, keyCharges, charges)
}

// load reports ok=false when the key has never been written, which is
// distinct from an empty collection.
func (c *Cache) load(ctx context.Context, key string, dst any) (bool, error) {
	var payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM cache WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return false, fmt.Errorf("decode cache key %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) save(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache key %s: %w", key, err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO cache (key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write cache key %s: %w", key, err)
	}
	return nil
}
