// Consolidate compacts a database's sub-TOCs: each referenced sub-TOC's
// live indexes are re-appended directly into the primary TOC and the
// SUB_TOC reference is masked, so a later open stops paying the cost of
// reopening every writer's private log to rebuild the index set.
package fdb

import (
	"context"

	"github.com/wxfdb/fdb/internal/fdblog"
)

// Consolidate folds every sub-TOC currently referenced by dbKey's primary
// TOC into it. Safe to call while other writers are still producing into
// their own sub-TOCs: a reference created after this call starts simply
// isn't seen.
func (f *FDB) Consolidate(ctx context.Context, dbKey Key) error {
	if !dbExists(f.cfg, dbKey) {
		return wrapErr(ErrNotFound, "Consolidate", "database %q", dbKey.String())
	}

	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return err
	}

	before := len(cat.toc.SubTocPaths())
	if err := Consolidate(cat.toc, f.cfg); err != nil {
		return err
	}

	fdblog.WithComponent("consolidate").Info().
		Str("db_key", dbKey.String()).
		Int("sub_tocs", before).
		Msg("sub-tocs folded into primary toc")
	return nil
}
