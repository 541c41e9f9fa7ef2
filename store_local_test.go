package fdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocalFileStorePutGetDeleteExists exercises the full lifecycle of a
// single field through the local-file backend.
func TestLocalFileStorePutGetDeleteExists(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())
	dbKey := NewKey([2]string{"class", "od"}, [2]string{"expver", "0001"})
	fieldKey := NewKey([2]string{"levelist", "850"}, [2]string{"param", "130"})

	loc, err := store.Put(ctx, dbKey, fieldKey, []byte("bytes"))
	require.NoError(t, err)
	assert.Equal(t, LocationLocalFile, loc.Kind)
	assert.EqualValues(t, 5, loc.Length)

	ok, err := store.Exists(ctx, loc)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.Get(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), got)

	require.NoError(t, store.Delete(ctx, loc))

	ok, err = store.Exists(ctx, loc)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(ctx, loc)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestLocalFileStoreDeleteMissingIsNotAnError verifies deleting a
// location that was never written (or already removed) is a no-op, the
// idempotence Purge relies on when a prior Delete partially succeeded.
func TestLocalFileStoreDeleteMissingIsNotAnError(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	loc := FieldLocation{Kind: LocationLocalFile, Path: "/nonexistent/path"}
	assert.NoError(t, store.Delete(context.Background(), loc))
}
