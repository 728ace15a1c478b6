package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aliskhannn/amagambo-bot/internal/repository"
)

// Open connects to the database file at path, creating its directory and the
// schema when missing.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS learner_states (
			identity   TEXT PRIMARY KEY,
			document   TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create learner_states: %w", err)
	}

	return db, nil
}

// StateStore keeps one JSON state document per identity in SQLite.
type StateStore struct {
	db *sqlx.DB
}

func NewStateStore(db *sqlx.DB) *StateStore {
	return &StateStore{db: db}
}

// Load returns the stored document or repository.ErrStateNotFound.
func (s *StateStore) Load(ctx context.Context, name string) ([]byte, error) {
	var doc string
	err := s.db.GetContext(ctx, &doc, `SELECT document FROM learner_states WHERE identity = ?`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStateNotFound
		}
		return nil, fmt.Errorf("load: %w", err)
	}
	return []byte(doc), nil
}

// Save inserts or replaces the document of an identity.
func (s *StateStore) Save(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO learner_states (identity, document, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (identity) DO UPDATE SET
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, name, string(data)); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// List returns every identity with a stored document.
func (s *StateStore) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT identity FROM learner_states ORDER BY identity`); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return names, nil
}

// Delete removes the document of an identity.
func (s *StateStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM learner_states WHERE identity = ?`, name); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
