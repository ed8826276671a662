// Package cache persists content hashes of generated documents so incremental
// runs can skip LLM calls for unchanged source files.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is a cached generation record for one source file.
type Entry struct {
	RelativePath string
	ContentHash  string
	OutputPath   string
}

// Cache is a SQLite-backed generation cache.
// Use ":memory:" for tests, or a file path for persistent storage.
type Cache struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the cache database at dbPath.
func Open(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	c := &Cache{db: db}
	if err := c.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		relative_path TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		output_path TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Lookup returns the cached entry for relativePath, if any.
func (c *Cache) Lookup(ctx context.Context, relativePath string) (Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var e Entry
	row := c.db.QueryRowContext(ctx,
		"SELECT relative_path, content_hash, output_path FROM documents WHERE relative_path = ?",
		relativePath,
	)
	switch err := row.Scan(&e.RelativePath, &e.ContentHash, &e.OutputPath); err {
	case nil:
		return e, true, nil
	case sql.ErrNoRows:
		return Entry{}, false, nil
	default:
		return Entry{}, false, fmt.Errorf("query cache: %w", err)
	}
}

// Store upserts the entry for a freshly generated document.
func (c *Cache) Store(ctx context.Context, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO documents (relative_path, content_hash, output_path, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(relative_path) DO UPDATE SET
		   content_hash = excluded.content_hash,
		   output_path = excluded.output_path,
		   updated_at = excluded.updated_at`,
		e.RelativePath, e.ContentHash, e.OutputPath, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// HashContent computes the deterministic content hash used as the cache key.
func HashContent(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
