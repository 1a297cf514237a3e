package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New opens (or creates) pomo.db inside dataDir and initializes the schema
func New(dataDir string) (*DB, error) {
	dbPath, err := getDBPath(dataDir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// getDBPath returns the path to the database file
func getDBPath(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "pomo.db"), nil
}

// Get retrieves the raw value stored under key. ok is false when the key is absent.
func (db *DB) Get(key string) ([]byte, bool, error) {
	var value string
	err := db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Put stores value under key, replacing any previous value
func (db *DB) Put(key string, value []byte) error {
	_, err := db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, string(value))
	return err
}
