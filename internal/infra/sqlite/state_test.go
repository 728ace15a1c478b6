package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/amagambo-bot/internal/repository"
)

func TestStateStore(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "data", "states.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewStateStore(db)

	_, err = store.Load(ctx, "tg:1")
	assert.ErrorIs(t, err, repository.ErrStateNotFound)

	require.NoError(t, store.Save(ctx, "tg:2", []byte(`{"version":2}`)))
	require.NoError(t, store.Save(ctx, "tg:1", []byte(`{"version":1}`)))
	require.NoError(t, store.Save(ctx, "tg:1", []byte(`{"version":2,"displayName":"Keza"}`)))

	doc, err := store.Load(ctx, "tg:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2,"displayName":"Keza"}`, string(doc))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tg:1", "tg:2"}, names)

	require.NoError(t, store.Delete(ctx, "tg:2"))
	require.NoError(t, store.Delete(ctx, "tg:404"))
	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tg:1"}, names)
}
