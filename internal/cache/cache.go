// Package cache provides the SQLite-backed incremental verification cache.
// Results are keyed by the unit's artifact key plus a hash of its lowered
// text, so a unit is re-solved only when its verification condition
// actually changed between snapshots.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/cadenza-lang/cadenza/pkg/models"
)

// DB wraps the cache database connection.
type DB struct {
	conn *sql.DB
	path string
}

// DefaultPath returns the cache location under the user's data directory.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "cadenza", "verification.db")
}

// Open opens (and if necessary initializes) the cache at path, creating
// parent directories as needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS unit_results (
		artifact_key TEXT NOT NULL,
		vc_hash      TEXT NOT NULL,
		verified     INTEGER NOT NULL,
		errors       INTEGER NOT NULL,
		inconclusive INTEGER NOT NULL,
		timeouts     INTEGER NOT NULL,
		out_of_memory INTEGER NOT NULL,
		created_at   TEXT NOT NULL DEFAULT (datetime('now')),
		PRIMARY KEY (artifact_key, vc_hash)
	)`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Lookup returns the stored statistics for (artifactKey, vcHash). The
// second return is false on a miss.
func (db *DB) Lookup(artifactKey, vcHash string) (models.PipelineStatistics, bool, error) {
	row := db.conn.QueryRow(
		`SELECT verified, errors, inconclusive, timeouts, out_of_memory
		 FROM unit_results WHERE artifact_key = ? AND vc_hash = ?`,
		artifactKey, vcHash,
	)

	var stats models.PipelineStatistics
	err := row.Scan(
		&stats.VerifiedCount, &stats.ErrorCount, &stats.InconclusiveCount,
		&stats.TimeoutCount, &stats.OutOfMemoryCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PipelineStatistics{}, false, nil
	}
	if err != nil {
		return models.PipelineStatistics{}, false, fmt.Errorf("cache lookup: %w", err)
	}
	return stats, true, nil
}

// Store records the statistics for (artifactKey, vcHash), replacing any
// previous entry for the same pair.
func (db *DB) Store(artifactKey, vcHash string, stats models.PipelineStatistics) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO unit_results
		 (artifact_key, vc_hash, verified, errors, inconclusive, timeouts, out_of_memory)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		artifactKey, vcHash,
		stats.VerifiedCount, stats.ErrorCount, stats.InconclusiveCount,
		stats.TimeoutCount, stats.OutOfMemoryCount,
	)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}
