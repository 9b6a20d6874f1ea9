package cache

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the database file created inside the cache directory.
const FileName = "cache.db"

// ErrNotFound is returned by Read for a key that is not stored.
var ErrNotFound = errors.New("cache entry not found")

// Store is a byte cache keyed by string, backed by a single SQLite file.
// It has no eviction: entries live until Clear.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// path is the SQLite database file.
	path string
}

// Open opens or creates the cache in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Exists reports whether key is stored.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM entries WHERE key = ?", key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up cache entry: %w", err)
	}
	return n > 0, nil
}

// Read returns the bytes stored under key or ErrNotFound.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM entries WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, nil
}

// Write stores data under key, replacing any previous entry.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	const query = `
	INSERT INTO entries (key, data) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET
		data = excluded.data,
		created_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, key, data); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared entries: %w", err)
	}
	return n, nil
}

// Key derives a fixed-width cache key: the first 64 bits of the SHA3-256
// digest of input, as 16 lower-case hex digits.
func Key(input string) string {
	sum := sha3.Sum256([]byte(input))
	return hex.EncodeToString(sum[:8])
}
