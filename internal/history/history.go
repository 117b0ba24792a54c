// Package history persists which programs were launched, so habitual
// choices surface first on the next run before any typing. The launcher
// works fine without it: every failure here is logged and swallowed by
// the caller.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Item is one remembered launch.
type Item struct {
	Invocation   string
	Count        int
	LastLaunched time.Time
}

// DefaultPath returns the history database location under the user
// cache directory.
func DefaultPath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache dir: %w", err)
	}
	return filepath.Join(cacheDir, "dmitri", "history.db"), nil
}

// Open opens (creating if needed) the history database at dbPath.
func Open(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	query := `CREATE TABLE IF NOT EXISTS launches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invocation TEXT NOT NULL UNIQUE,
		count INTEGER DEFAULT 1,
		last_launched TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return db, nil
}

// Record upserts a launch: first launch inserts the row, later ones
// bump the counter and the timestamp.
func Record(db *sql.DB, invocation string) error {
	query := `
		INSERT INTO launches (invocation, count, last_launched)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(invocation) DO UPDATE SET
			count = count + 1,
			last_launched = CURRENT_TIMESTAMP
	`
	if _, err := db.Exec(query, invocation); err != nil {
		return fmt.Errorf("failed to record launch: %w", err)
	}
	return nil
}

// Recent returns up to limit invocations, most recently launched first.
func Recent(db *sql.DB, limit int) ([]string, error) {
	query := `SELECT invocation FROM launches ORDER BY last_launched DESC, id DESC LIMIT ?`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent launches: %w", err)
	}
	defer rows.Close()

	var invocations []string
	for rows.Next() {
		var inv string
		if err := rows.Scan(&inv); err != nil {
			return nil, err
		}
		invocations = append(invocations, inv)
	}
	return invocations, rows.Err()
}

// All returns every remembered launch, most recent first.
func All(db *sql.DB) ([]Item, error) {
	query := `SELECT invocation, count, last_launched FROM launches ORDER BY last_launched DESC, id DESC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get launch history: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.Invocation, &item.Count, &item.LastLaunched); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
