package baseline

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"lukechampine.com/blake3"
)

// Cache is an on-disk store of resolved version-control baselines, keyed by a
// content address of (path, revision, commit). It only ever short-circuits a
// repeated git lookup; a miss or a broken cache is never an error.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec(`
        PRAGMA journal_mode = WAL;
    `); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set PRAGMA: %w", err)
	}

	if _, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS baselines (
            key        TEXT PRIMARY KEY,
            nlines     INTEGER NOT NULL,
            content    BLOB NOT NULL,
            created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
        );
    `); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get returns the cached lines for key. The second return is false on a miss
// or any read failure.
func (c *Cache) Get(key string) ([]string, bool) {
	var nlines int
	var content []byte
	err := c.db.QueryRow(
		"SELECT nlines, content FROM baselines WHERE key = ?",
		key,
	).Scan(&nlines, &content)

	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Warningf("cache read failed: %v", err)
		return nil, false
	}
	if nlines == 0 {
		return []string{}, true
	}
	return strings.Split(string(content), "\n"), true
}

// Put stores the lines under key, replacing any previous entry.
func (c *Cache) Put(key string, lines []string) error {
	_, err := c.db.Exec(`
        INSERT INTO baselines (key, nlines, content)
        VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET
            nlines = excluded.nlines,
            content = excluded.content
    `, key, len(lines), []byte(strings.Join(lines, "\n")))

	if err != nil {
		return fmt.Errorf("failed to upsert baseline: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey content-addresses one resolved baseline.
func cacheKey(rel, revision, commit string) string {
	sum := blake3.Sum256([]byte(rel + "\x00" + revision + "\x00" + commit))
	return hex.EncodeToString(sum[:])
}
