// Archive writes one field's bytes and records its location in the
// owning database's catalogue.
package fdb

import (
	"context"

	"github.com/wxfdb/fdb/internal/metrics"
)

// Archive stores data under the full key and makes it visible to
// subsequent Retrieve/List calls once this function returns.
func (f *FDB) Archive(ctx context.Context, key Key, data []byte, opts ...ArchiveOptions) error {
	dbKey, indexKey, fieldKey, err := f.schema.MatchLevel(key)
	if err != nil {
		return err
	}

	loc := LocationKind(f.DefaultLocation)
	if len(opts) > 0 {
		loc = opts[0].Location
	}
	store, err := f.stores.For(loc)
	if err != nil {
		return err
	}

	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return err
	}

	fieldLoc, err := store.Put(ctx, dbKey, fieldKey, data)
	if err != nil {
		return err
	}

	if err := cat.Insert(ctx, indexKey, fieldKey, fieldLoc); err != nil {
		return err
	}

	if f.cfg.MetricsEnabled && metrics.ArchivedFields != nil {
		metrics.ArchivedFields.Inc()
	}
	return nil
}
