package fdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAdoptRegistersExternalIndex verifies Adopt reads the INDEX
// record(s) out of a TOC file produced by an entirely separate FDB
// handle and registers them into a different database's own TOC,
// without re-archiving the underlying bytes.
func TestAdoptRegistersExternalIndex(t *testing.T) {
	ctx := context.Background()

	source := openTestFDB(t)
	key := testKey()
	require.NoError(t, source.Archive(ctx, key, []byte("external-payload")))

	srcDBKey, _, _, err := source.schema.MatchLevel(key)
	require.NoError(t, err)
	sourceTocPath := filepath.Join(dbDir(source.cfg, srcDBKey), "toc")

	dest := openTestFDB(t)
	destDBKey := srcDBKey.Clone()
	destDBKey.Set("expver", "9999")

	require.NoError(t, dest.Adopt(ctx, destDBKey, sourceTocPath))

	cat, err := dest.catalogueFor(destDBKey)
	require.NoError(t, err)
	assert.Len(t, cat.Indexes(), 1)
}

// TestAdoptRefusesReadoption verifies a second Adopt of the same index
// path into the same database is rejected with ErrExists rather than
// registering duplicate index records.
func TestAdoptRefusesReadoption(t *testing.T) {
	ctx := context.Background()

	source := openTestFDB(t)
	key := testKey()
	require.NoError(t, source.Archive(ctx, key, []byte("external-payload")))

	srcDBKey, _, _, err := source.schema.MatchLevel(key)
	require.NoError(t, err)
	sourceTocPath := filepath.Join(dbDir(source.cfg, srcDBKey), "toc")

	dest := openTestFDB(t)
	destDBKey := srcDBKey.Clone()
	destDBKey.Set("expver", "9999")

	require.NoError(t, dest.Adopt(ctx, destDBKey, sourceTocPath))
	err = dest.Adopt(ctx, destDBKey, sourceTocPath)
	assert.ErrorIs(t, err, ErrExists)
}
