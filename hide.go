// Hide masks an entire database without touching its store data, distinct
// from Wipe: a hidden database's fields become unreachable through List or
// Retrieve, but Purge and Move still see the underlying bytes and the
// operation is reversible by anyone who still has the TOC's file offsets.
package fdb

import (
	"context"

	"github.com/wxfdb/fdb/internal/fdblog"
)

// Hide appends a mask-everything CLEAR record to dbKey's TOC.
func (f *FDB) Hide(ctx context.Context, dbKey Key) error {
	if !dbExists(f.cfg, dbKey) {
		return wrapErr(ErrNotFound, "Hide", "database %q", dbKey.String())
	}

	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return err
	}

	if _, err := cat.toc.AppendClearAll(); err != nil {
		return err
	}

	fdblog.WithComponent("hide").Info().Str("db_key", dbKey.String()).Msg("database hidden")
	return nil
}
