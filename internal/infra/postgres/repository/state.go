package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/amagambo-bot/internal/infra/postgres"
	"github.com/aliskhannn/amagambo-bot/internal/repository"
)

const createLearnerStates = `
	CREATE TABLE IF NOT EXISTS learner_states (
		identity   TEXT PRIMARY KEY,
		document   JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// StateStore keeps one JSON state document per identity in PostgreSQL.
type StateStore struct {
	db postgres.DBTX
}

// NewStateStore creates a StateStore over a pool or a transaction.
func NewStateStore(db postgres.DBTX) *StateStore {
	return &StateStore{db: db}
}

// EnsureSchema creates the learner_states table if it does not exist.
func (s *StateStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createLearnerStates); err != nil {
		return fmt.Errorf("create learner_states: %w", err)
	}
	return nil
}

// Load returns the stored document or repository.ErrStateNotFound.
func (s *StateStore) Load(ctx context.Context, name string) ([]byte, error) {
	query := `SELECT document FROM learner_states WHERE identity = $1`

	var doc []byte
	if err := s.db.QueryRow(ctx, query, name).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrStateNotFound
		}
		return nil, fmt.Errorf("load: %w", err)
	}

	return doc, nil
}

// Save inserts or replaces the document of an identity.
func (s *StateStore) Save(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO learner_states (identity, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (identity) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, name, data); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	return nil
}

// List returns every identity with a stored document.
func (s *StateStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT identity FROM learner_states ORDER BY identity`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}

	return names, nil
}

// Delete removes the document of an identity.
func (s *StateStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM learner_states WHERE identity = $1`, name); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
