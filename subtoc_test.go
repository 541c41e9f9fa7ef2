package fdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeIndexes appends n distinct indexes (one field each, keyed by a
// unique "date" value) through w, simulating one writer process's share
// of a concurrent archive run.
func writeIndexes(t *testing.T, w *SubTocWriter, cfg *Config, n int, datePrefix string) {
	t.Helper()
	for i := 0; i < n; i++ {
		ix := NewIndex(NewKey([2]string{"date", datePrefix + itoa(int64(i))}), cfg.HashAlgorithm)
		ix.Insert(NewKey([2]string{"levelist", "850"}), FieldLocation{Kind: LocationLocalFile, Path: "/data/x", Length: 1})
		if _, err := w.AppendIndex(ix); err != nil {
			t.Fatalf("AppendIndex: %v", err)
		}
	}
}

// TestSubTocTwoWritersVisibleViaParent verifies two concurrent writers'
// private sub-TOCs are both reachable from the parent's Indexes(), the
// "follow SUB_TOC records" reader step.
func TestSubTocTwoWritersVisibleViaParent(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()

	parent, err := CreateToc(filepath.Join(dir, "toc"), NewKey([2]string{"class", "od"}), Schema{}, false, cfg)
	require.NoError(t, err)
	defer parent.Close()

	w1, err := OpenSubTocWriter(parent, dir, cfg)
	require.NoError(t, err)
	writeIndexes(t, w1, cfg, 3, "w1-")
	require.NoError(t, w1.Close())

	w2, err := OpenSubTocWriter(parent, dir, cfg)
	require.NoError(t, err)
	writeIndexes(t, w2, cfg, 3, "w2-")
	require.NoError(t, w2.Close())

	assert.Len(t, parent.Indexes(), 6)
	assert.Len(t, parent.SubTocPaths(), 2)
}

// TestSubTocConsolidateFoldsOneWriterWithoutLosingOthers verifies
// scenario: after consolidating one writer's sub-TOC into the parent, its
// entries still appear, its sub-TOC reference is masked, the other
// writer's sub-TOC is untouched, and the total visible index count is
// unchanged.
func TestSubTocConsolidateFoldsOneWriterWithoutLosingOthers(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()

	parent, err := CreateToc(filepath.Join(dir, "toc"), NewKey([2]string{"class", "od"}), Schema{}, false, cfg)
	require.NoError(t, err)
	defer parent.Close()

	w1, err := OpenSubTocWriter(parent, dir, cfg)
	require.NoError(t, err)
	writeIndexes(t, w1, cfg, 3, "w1-")

	w2, err := OpenSubTocWriter(parent, dir, cfg)
	require.NoError(t, err)
	writeIndexes(t, w2, cfg, 3, "w2-")
	require.NoError(t, w2.Close())

	require.Len(t, parent.Indexes(), 6)

	require.NoError(t, w1.Consolidate())
	require.NoError(t, w1.Close())

	assert.Len(t, parent.Indexes(), 6, "consolidation must not change the visible total")
	assert.Len(t, parent.SubTocPaths(), 1, "w1's sub-toc reference should be masked after consolidation")
}

// TestSubTocIndexesSortedMatchesAscendingOffset verifies SortedIndexes
// returns indexes in ascending (path, offset) order, distinct from the
// reverse-append order Indexes() returns by default.
func TestSubTocIndexesSortedMatchesAscendingOffset(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()

	toc, err := CreateToc(filepath.Join(dir, "toc"), NewKey([2]string{"class", "od"}), Schema{}, false, cfg)
	require.NoError(t, err)
	defer toc.Close()

	for _, date := range []string{"a", "b", "c"} {
		ix := NewIndex(NewKey([2]string{"date", date}), cfg.HashAlgorithm)
		_, err := toc.AppendIndex(ix)
		require.NoError(t, err)
	}

	reverse := toc.Indexes()
	sorted := toc.SortedIndexes()
	require.Len(t, reverse, 3)
	require.Len(t, sorted, 3)

	for i := 1; i < len(sorted); i++ {
		assert.Less(t, sorted[i-1].Offset, sorted[i].Offset)
	}
	assert.Equal(t, reverse[0].IndexKey.Canonical(), sorted[len(sorted)-1].IndexKey.Canonical(),
		"reverse-append order's first entry should be sorted order's last")
}

// TestCatalogueUseSubTocRoutesArchiveThroughWriter verifies Archive
// writes through a private sub-TOC when UseSubToc is set, and the field
// is still resolvable without an explicit Consolidate.
func TestCatalogueUseSubTocRoutesArchiveThroughWriter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootPath = t.TempDir()
	cfg.UseSubToc = true

	h, err := Open(cfg, testFDBSchema())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	key := testKey()
	require.NoError(t, h.Archive(ctx, key, []byte("x")))

	got, err := h.Retrieve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	dbKey, _, _, err := h.schema.MatchLevel(key)
	require.NoError(t, err)
	cat, err := h.catalogueFor(dbKey)
	require.NoError(t, err)
	assert.Len(t, cat.toc.SubTocPaths(), 1, "archive under UseSubToc should register exactly one writer sub-toc")
}

// TestFDBConsolidateFoldsSubTocs verifies the FDB-level Consolidate
// folds a database's sub-TOCs into its primary TOC.
func TestFDBConsolidateFoldsSubTocs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootPath = t.TempDir()
	cfg.UseSubToc = true

	h, err := Open(cfg, testFDBSchema())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	key := testKey()
	require.NoError(t, h.Archive(ctx, key, []byte("x")))

	dbKey, _, _, err := h.schema.MatchLevel(key)
	require.NoError(t, err)

	require.NoError(t, h.Consolidate(ctx, dbKey))

	got, err := h.Retrieve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}
