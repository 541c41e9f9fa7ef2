package fdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFDBSchema() Schema {
	return Schema{
		Rules: []Rule{
			{
				Level1: []string{"class", "expver"},
				Level2: []string{"stream", "date", "time"},
				Level3: []string{"levelist", "param"},
			},
		},
	}
}

func openTestFDB(t *testing.T) *FDB {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RootPath = t.TempDir()
	h, err := Open(cfg, testFDBSchema())
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func testKey() Key {
	return NewKey(
		[2]string{"class", "od"}, [2]string{"expver", "0001"},
		[2]string{"stream", "oper"}, [2]string{"date", "20260730"}, [2]string{"time", "0000"},
		[2]string{"levelist", "850"}, [2]string{"param", "130"},
	)
}

// TestArchiveRetrieveRoundTrip exercises the golden path end to end: a
// field archived under a full key is retrievable with identical bytes.
func TestArchiveRetrieveRoundTrip(t *testing.T) {
	h := openTestFDB(t)
	ctx := context.Background()
	key := testKey()
	payload := []byte("grib-message-bytes")

	require.NoError(t, h.Archive(ctx, key, payload))

	got, err := h.Retrieve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

// TestRetrieveMissingDatabase verifies Retrieve reports ErrNotFound for a
// db-key that has never been archived to, rather than creating it as a
// side effect of a read.
func TestRetrieveMissingDatabase(t *testing.T) {
	h := openTestFDB(t)
	_, err := h.Retrieve(context.Background(), testKey())
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestRetrieveMissingField verifies Retrieve reports ErrNotFound for a
// field never archived within an otherwise-existing database.
func TestRetrieveMissingField(t *testing.T) {
	h := openTestFDB(t)
	ctx := context.Background()
	require.NoError(t, h.Archive(ctx, testKey(), []byte("x")))

	missing := testKey()
	missing.Set("levelist", "999")
	_, err := h.Retrieve(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestArchiveSchemaMismatch verifies a key the schema cannot decompose
// into all three levels is rejected before any store write happens.
func TestArchiveSchemaMismatch(t *testing.T) {
	h := openTestFDB(t)
	err := h.Archive(context.Background(), NewKey([2]string{"class", "od"}), []byte("x"))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

// TestListFindsArchivedFields verifies List resolves a partial request
// across the databases it denotes and returns every matching field.
func TestListFindsArchivedFields(t *testing.T) {
	h := openTestFDB(t)
	ctx := context.Background()

	require.NoError(t, h.Archive(ctx, testKey(), []byte("a")))
	second := testKey()
	second.Set("levelist", "500")
	require.NoError(t, h.Archive(ctx, second, []byte("b")))

	req, err := ParseRequest("class=od,expver=0001")
	require.NoError(t, err)

	entries, err := h.List(ctx, req)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

// TestHideMasksWithoutDeletingBytes verifies Hide makes a field
// unretrievable via the catalogue while leaving the underlying store
// bytes in place (distinct from Wipe, which actually deletes them).
func TestHideMasksWithoutDeletingBytes(t *testing.T) {
	h := openTestFDB(t)
	ctx := context.Background()
	key := testKey()
	require.NoError(t, h.Archive(ctx, key, []byte("x")))

	dbKey, _, _, err := h.schema.MatchLevel(key)
	require.NoError(t, err)

	require.NoError(t, h.Hide(ctx, dbKey))

	_, err = h.Retrieve(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestReopenSeesPreviouslyArchivedData verifies a second FDB handle
// opened against the same root path can retrieve data archived by an
// earlier handle, the durability guarantee the whole TOC design exists
// to provide.
func TestReopenSeesPreviouslyArchivedData(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootPath = t.TempDir()
	schema := testFDBSchema()
	ctx := context.Background()
	key := testKey()

	h1, err := Open(cfg, schema)
	require.NoError(t, err)
	require.NoError(t, h1.Archive(ctx, key, []byte("persisted")))
	require.NoError(t, h1.Close())

	h2, err := Open(cfg, schema)
	require.NoError(t, err)
	defer h2.Close()

	got, err := h2.Retrieve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}
