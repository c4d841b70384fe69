// Package cache memoizes composition-arc loads (references, sublayers,
// payloads) in an embedded SQLite database, keyed by resolved asset
// path, the way internal/graph.SQLiteGraph uses the source SQLite
// database itself as its index (§11). Unlike SQLiteGraph this package
// owns its own small sidecar database rather than querying a source DB
// directly — there is no equivalent "source of truth" table to read,
// just a loaded/not-loaded fact to remember.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// LayerCache records which composition-arc asset paths have already
// been loaded during a single reader session, so a diamond-shaped
// reference graph (A references both B and C, and both reference D)
// loads D only once.
type LayerCache struct {
	db *sql.DB
}

// Open opens (creating if necessary) a layer-load cache at dbPath. Pass
// ":memory:" for a process-local, session-scoped cache — the common
// case, since this spec's composition-arc resolution is out of core
// scope and this cache exists purely to avoid redundant re-parses within
// one run, not to persist across runs.
func Open(dbPath string) (*LayerCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", dbPath, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS layer_cache (
			path       TEXT PRIMARY KEY,
			loaded_at  INTEGER NOT NULL,
			root_count INTEGER NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: create layer_cache table: %w", err)
	}

	return &LayerCache{db: db}, nil
}

// Close closes the underlying database.
func (c *LayerCache) Close() error {
	return c.db.Close()
}

// Entry is one memoized layer load.
type Entry struct {
	Path      string
	LoadedAt  time.Time
	RootCount int
}

// Lookup reports whether path has already been loaded this session, and
// if so, the recorded entry.
func (c *LayerCache) Lookup(path string) (Entry, bool, error) {
	row := c.db.QueryRow("SELECT loaded_at, root_count FROM layer_cache WHERE path = ?", path)

	var loadedAtUnix int64
	var rootCount int
	err := row.Scan(&loadedAtUnix, &rootCount)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache: lookup %s: %w", path, err)
	}

	return Entry{
		Path:      path,
		LoadedAt:  time.Unix(loadedAtUnix, 0),
		RootCount: rootCount,
	}, true, nil
}

// Record marks path as loaded, with the given root-Prim count, as of
// loadedAt. Overwrites any prior entry for the same path.
func (c *LayerCache) Record(path string, rootCount int, loadedAt time.Time) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO layer_cache (path, loaded_at, root_count) VALUES (?, ?, ?)",
		path, loadedAt.Unix(), rootCount,
	)
	if err != nil {
		return fmt.Errorf("cache: record %s: %w", path, err)
	}
	return nil
}

// Forget removes path from the cache, forcing the next Lookup to miss.
func (c *LayerCache) Forget(path string) error {
	_, err := c.db.Exec("DELETE FROM layer_cache WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("cache: forget %s: %w", path, err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *LayerCache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM layer_cache").Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}
