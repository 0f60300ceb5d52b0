package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// ErrLastAccount is returned when deleting the only remaining email account
var ErrLastAccount = errors.New("cannot delete the last email account")

// Store wraps the sqlite database holding templates, sender accounts,
// the emailed-load set and stats.
type Store struct {
	*sqlx.DB
}

// New creates a new database connection
func New(path string) (*Store, error) {
	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Connect with WAL mode and foreign keys enabled
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{db}, nil
}

// NewMemory opens an in-memory store, used by tests.
func NewMemory() (*Store, error) {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return &Store{db}, nil
}

// Migrate runs database migrations
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
