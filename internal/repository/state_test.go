package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

type mapStore struct {
	mu      sync.Mutex
	docs    map[string][]byte
	saves   int
	saveErr error
}

func newMapStore() *mapStore {
	return &mapStore{docs: make(map[string][]byte)}
}

func (s *mapStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[name]
	if !ok {
		return nil, ErrStateNotFound
	}
	return doc, nil
}

func (s *mapStore) Save(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.docs[name] = data
	return nil
}

func (s *mapStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
	return nil
}

func (s *mapStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.docs))
	for n := range s.docs {
		names = append(names, n)
	}
	return names, nil
}

func TestStateRepositoryMissing(t *testing.T) {
	repo := NewStateRepository(newMapStore(), zap.NewNop())

	_, err := repo.Load(context.Background(), "nobody", migrationDay)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestStateRepositoryWritesMigrationBackOnce(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	store.docs["guest"] = []byte(`{"username":"Guest","learnedWords":{"Basic":["amakuru"]}}`)
	repo := NewStateRepository(store, zap.NewNop())

	first, err := repo.Load(ctx, "guest", migrationDay)
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)
	assert.Contains(t, string(store.docs["guest"]), `"version":2`)

	// Loading again later must not re-run the migration and move the due date.
	second, err := repo.Load(ctx, "guest", migrationDay.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, first, second)
}

func TestStateRepositoryLeavesUnrecognisedDocumentsAlone(t *testing.T) {
	docs := map[string]string{
		"null":            `null`,
		"empty":           `{}`,
		"lost version":    `{"displayName":"A","records":{"Basic":{"amakuru":{"nextReviewDue":"2026-05-20","intervalDays":9,"easeFactor":2.5,"repetitions":3}}}}`,
		"legacy no words": `{"username":"A"}`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			store := newMapStore()
			store.docs["tg:1"] = []byte(doc)
			repo := NewStateRepository(store, zap.NewNop())

			_, err := repo.Load(context.Background(), "tg:1", migrationDay)
			assert.ErrorIs(t, err, ErrMalformedState)
			assert.Zero(t, store.saves)
			assert.Equal(t, doc, string(store.docs["tg:1"]))

			n, err := repo.MigrateAll(context.Background(), migrationDay)
			assert.Zero(t, n)
			assert.ErrorIs(t, err, ErrMalformedState)
			assert.Zero(t, store.saves)
		})
	}
}

func TestStateRepositoryMigrationSurvivesWriteFailure(t *testing.T) {
	store := newMapStore()
	store.docs["guest"] = []byte(`{"username":"Guest","learnedWords":{"Basic":["amakuru"]}}`)
	store.saveErr = errors.New("disk full")
	repo := NewStateRepository(store, zap.NewNop())

	state, err := repo.Load(context.Background(), "guest", migrationDay)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count(entities.LevelBasic))
}

func TestStateRepositorySaveAndList(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	repo := NewStateRepository(store, zap.NewNop())

	s := entities.NewSchedulerState("Alice")
	s.Put(entities.LevelMedium, "amazi", entities.ReviewRecord{NextReviewDue: utcDay(2026, 5, 4), IntervalDays: 1, EaseFactor: 2.5})
	require.NoError(t, repo.Save(ctx, "tg:7", s))

	names, err := repo.Identities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tg:7"}, names)

	got, err := repo.Load(ctx, "tg:7", migrationDay)
	require.NoError(t, err)
	assert.Equal(t, s, got)
	require.NoError(t, repo.Delete(ctx, "tg:7"))
	_, err = repo.Load(ctx, "tg:7", migrationDay)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestStateRepositoryMigrateAll(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	store.docs["old"] = []byte(`{"username":"Old","learnedWords":{"Basic":["muraho"]}}`)
	store.docs["broken"] = []byte(`not json`)
	repo := NewStateRepository(store, zap.NewNop())
	require.NoError(t, repo.Save(ctx, "new", entities.NewSchedulerState("New")))
	store.saves = 0

	n, err := repo.MigrateAll(ctx, migrationDay)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrMalformedState)
	assert.Equal(t, 1, store.saves)
	assert.Contains(t, string(store.docs["old"]), `"version":2`)

	n, err = repo.MigrateAll(ctx, migrationDay)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, ErrMalformedState)
}
