// Retrieve resolves a full key to its FieldLocation via the owning
// database's catalogue, then reads the bytes back from the backend that
// location names.
package fdb

import (
	"context"

	"github.com/wxfdb/fdb/internal/metrics"
)

// Retrieve reads back the bytes archived under key.
func (f *FDB) Retrieve(ctx context.Context, key Key) ([]byte, error) {
	dbKey, indexKey, fieldKey, err := f.schema.MatchLevel(key)
	if err != nil {
		return nil, err
	}

	if !dbExists(f.cfg, dbKey) {
		return nil, wrapErr(ErrNotFound, "Retrieve", "database %q", dbKey.String())
	}

	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return nil, err
	}

	loc, ok := cat.Lookup(ctx, indexKey, fieldKey)
	if !ok {
		return nil, wrapErr(ErrNotFound, "Retrieve", "field %q", key.String())
	}

	store, err := f.stores.For(loc.Kind)
	if err != nil {
		return nil, err
	}

	data, err := store.Get(ctx, loc)
	if err != nil {
		return nil, err
	}

	if f.cfg.MetricsEnabled && metrics.RetrievedBytes != nil {
		metrics.RetrievedBytes.Add(float64(len(data)))
	}
	return data, nil
}
