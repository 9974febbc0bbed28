// Package store persists directions responses so repeated evaluations of the
// same listing do not re-spend provider quota.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// DirectionsCache is a SQLite-backed cache of serialized route responses.
// It satisfies the directions.Cache interface.
type DirectionsCache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewDirectionsCache opens (or creates) the cache database at path. Entries
// older than ttl are treated as misses and pruned on write.
func NewDirectionsCache(path string, ttl time.Duration) (*DirectionsCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}

	c := &DirectionsCache{db: db, ttl: ttl}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS directions_cache (
	key       TEXT PRIMARY KEY,
	payload   TEXT NOT NULL,
	cached_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_directions_cache_cached_at ON directions_cache(cached_at);
`

func (c *DirectionsCache) migrate() error {
	_, err := c.db.Exec(migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the underlying database.
func (c *DirectionsCache) Close() error {
	return c.db.Close()
}

// Get returns the cached payload for key, or ok=false on a miss or expired
// entry.
func (c *DirectionsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	var cachedAt time.Time

	row := c.db.QueryRowContext(ctx,
		`SELECT payload, cached_at FROM directions_cache WHERE key = ?`, key)
	if err := row.Scan(&payload, &cachedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, eris.Wrap(err, "store: get cache entry")
	}

	if c.ttl > 0 && time.Since(cachedAt) > c.ttl {
		return nil, false, nil
	}
	return []byte(payload), true, nil
}

// Put stores the payload under key, replacing any previous entry, and prunes
// expired rows.
func (c *DirectionsCache) Put(ctx context.Context, key string, payload []byte) error {
	now := time.Now().UTC()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO directions_cache (key, payload, cached_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		key, string(payload), now)
	if err != nil {
		return eris.Wrap(err, "store: put cache entry")
	}

	if c.ttl > 0 {
		cutoff := now.Add(-c.ttl)
		if _, err := c.db.ExecContext(ctx,
			`DELETE FROM directions_cache WHERE cached_at < ?`, cutoff); err != nil {
			return eris.Wrap(err, "store: prune cache")
		}
	}
	return nil
}
