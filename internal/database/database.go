package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var (
	// ErrInvalidLimit is returned by ranking queries given a negative limit
	ErrInvalidLimit = errors.New("limit must not be negative")
	// ErrNilRecord is returned when a nil record is passed to a save method
	ErrNilRecord = errors.New("record is nil")
)

// DB wraps the SQLite database connection shared by every entity operation.
// Statements are serialized over a single pooled connection.
type DB struct {
	*sql.DB
	path string
	mu   sync.Mutex
}

// New opens the forum database at path
func New(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug().Str("path", path).Msg("Database connection established")

	return Wrap(conn, path), nil
}

// Wrap adopts an already opened handle.
// The pool is pinned to one connection so LastInsertId always refers to
// the statement that was just executed.
func Wrap(conn *sql.DB, path string) *DB {
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	return &DB{
		DB:   conn,
		path: path,
	}
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Transaction wraps a function in a database transaction
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
