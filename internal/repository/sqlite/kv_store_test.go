package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"go-candidate-scout/internal/repository/sqlite"
	"go-candidate-scout/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "scout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := sqlite.NewKVStore(ctx, db)
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "[1]"))
	require.NoError(t, store.Set(ctx, "k", "[1,2]"))

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1,2]", v)
}
