// Package store persists computed stats payloads in a local SQLite database,
// keyed by profile name and content hash.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	_ "github.com/mattn/go-sqlite3"
)

type Cache struct {
	db *sql.DB
}

func New(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func createTables(db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS StatsCache (
  profile TEXT NOT NULL,
  hash TEXT NOT NULL,
  payload BLOB NOT NULL,
  computed_at DATETIME NOT NULL,
  PRIMARY KEY (profile, hash)
);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Get returns the cached payload for (profile, hash), or nil on a miss.
func (c *Cache) Get(profile, hash string) ([]byte, error) {
	row := c.db.QueryRow(
		"SELECT payload FROM StatsCache WHERE profile = ? AND hash = ?", profile, hash)
	var payload []byte
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	return payload, nil
}

// Put stores (or replaces) the payload for (profile, hash). SQLite holds a
// single write lock, so a busy database is retried briefly before giving up.
func (c *Cache) Put(profile, hash string, payload []byte) error {
	err := retry.Do(
		func() error {
			_, err := c.db.Exec(
				"INSERT OR REPLACE INTO StatsCache (profile, hash, payload, computed_at) VALUES (?, ?, ?, ?)",
				profile, hash, payload, time.Now())
			return err
		},
		retry.Attempts(3),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry for %q: %w", profile, err)
	}
	return nil
}

// DeleteProfile drops every cached entry for a profile. Used when the
// profile's source files change on disk.
func (c *Cache) DeleteProfile(profile string) error {
	if _, err := c.db.Exec("DELETE FROM StatsCache WHERE profile = ?", profile); err != nil {
		return fmt.Errorf("deleting cache entries for %q: %w", profile, err)
	}
	return nil
}
