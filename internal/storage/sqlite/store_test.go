package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestSetGetRemove(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "users-snapshot")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "users-snapshot", `{"a":{}}`))
	require.NoError(t, store.Set(ctx, "users-snapshot", `{"b":{}}`))

	value, ok, err := store.Get(ctx, "users-snapshot")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"b":{}}`, value)

	require.NoError(t, store.Remove(ctx, "users-snapshot"))
	_, ok, err = store.Get(ctx, "users-snapshot")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotsSurviveReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "session-current-username", "bunny"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	value, ok, err := reopened.Get(ctx, "session-current-username")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bunny", value)
}

func TestCloseNilStore(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}
