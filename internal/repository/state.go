package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

var ErrStateNotFound = errors.New("state not found")

// BlobStore keeps one serialized state document per identity name.
// Load returns ErrStateNotFound when nothing is stored under the name.
// Deleting a missing name is not an error.
type BlobStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// StateRepository stores scheduler states through a BlobStore, handling
// schema versions and the one-time legacy upgrade.
type StateRepository struct {
	store  BlobStore
	logger *zap.Logger
}

func NewStateRepository(store BlobStore, logger *zap.Logger) *StateRepository {
	return &StateRepository{store: store, logger: logger}
}

// Load reads and decodes the state of an identity. Legacy documents are
// upgraded using asOf and written back in the current schema.
func (r *StateRepository) Load(ctx context.Context, name string, asOf time.Time) (*entities.SchedulerState, error) {
	data, err := r.store.Load(ctx, name)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("load state: %w", err)
	}

	state, migrated, err := DecodeState(data, asOf)
	if err != nil {
		return nil, fmt.Errorf("decode state of %q: %w", name, err)
	}

	if migrated {
		r.logger.Info("migrated legacy state",
			zap.String("identity", name),
			zap.Int("version", CurrentVersion),
		)
		if err := r.Save(ctx, name, state); err != nil {
			// The upgraded state is still usable; the upgrade runs again next load.
			r.logger.Warn("failed to write migrated state",
				zap.String("identity", name),
				zap.Error(err),
			)
		}
	}

	return state, nil
}

// Save encodes and stores the state of an identity.
func (r *StateRepository) Save(ctx context.Context, name string, state *entities.SchedulerState) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}

	if err := r.store.Save(ctx, name, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	return nil
}

// Delete removes the stored state of an identity.
func (r *StateRepository) Delete(ctx context.Context, name string) error {
	if err := r.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

// Identities lists every identity with a stored state.
func (r *StateRepository) Identities(ctx context.Context) ([]string, error) {
	names, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return names, nil
}

// MigrateAll upgrades every stored legacy document to the current schema and
// returns how many were rewritten. Documents that fail to decode are skipped
// and reported in the returned error.
func (r *StateRepository) MigrateAll(ctx context.Context, asOf time.Time) (int, error) {
	names, err := r.Identities(ctx)
	if err != nil {
		return 0, err
	}

	var (
		migrated int
		errs     []error
	)
	for _, name := range names {
		data, err := r.store.Load(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("load %q: %w", name, err))
			continue
		}

		state, upgraded, err := DecodeState(data, asOf)
		if err != nil {
			errs = append(errs, fmt.Errorf("decode %q: %w", name, err))
			continue
		}
		if !upgraded {
			continue
		}

		if err := r.Save(ctx, name, state); err != nil {
			errs = append(errs, fmt.Errorf("save %q: %w", name, err))
			continue
		}
		migrated++
		r.logger.Info("migrated legacy state", zap.String("identity", name))
	}

	return migrated, errors.Join(errs...)
}
