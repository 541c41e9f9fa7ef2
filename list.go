// List resolves a partial request against every matching database and
// returns the full keys it actually finds data for. Databases are scanned
// concurrently, bounded by golang.org/x/sync/errgroup, since List is the
// one operation that routinely fans out across a whole archive root.
package fdb

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ListEntry is one field List found, with the location it resolved to.
type ListEntry struct {
	Key      Key
	Location FieldLocation
}

// List returns every field matching req across every database req's
// db-key names could denote.
func (f *FDB) List(ctx context.Context, req *Request) ([]ListEntry, error) {
	dbKeys := f.schema.FirstLevel(req)

	var (
		mu      sync.Mutex
		entries []ListEntry
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)

	for _, dbKey := range dbKeys {
		dbKey := dbKey
		if !dbExists(f.cfg, dbKey) {
			continue
		}
		g.Go(func() error {
			found, err := f.listDB(ctx, dbKey, req)
			if err != nil {
				return err
			}
			mu.Lock()
			entries = append(entries, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// listConcurrency bounds how many databases List scans at once.
const listConcurrency = 8

func (f *FDB) listDB(ctx context.Context, dbKey Key, req *Request) ([]ListEntry, error) {
	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return nil, err
	}

	var out []ListEntry
	for _, ix := range cat.Indexes() {
		if !indexMatchesRequest(ix.IndexKey, req) {
			continue
		}
		base := dbKey.Merge(ix.IndexKey)
		ix.Store.Each(func(fp, fieldKeyCanon string, loc FieldLocation) {
			fieldKey, err := ParseCanonicalKey(fieldKeyCanon)
			if err != nil {
				return
			}
			full := base.Merge(fieldKey)
			if !indexMatchesRequest(fieldKey, req) {
				return
			}
			out = append(out, ListEntry{Key: full, Location: loc})
		})
	}
	return out, nil
}

// indexMatchesRequest reports whether every name present in both
// indexKey and req agrees on value; names absent from req are treated as
// wildcards, matching first_level-style partial matching at the index
// level.
func indexMatchesRequest(indexKey Key, req *Request) bool {
	for _, name := range indexKey.Names() {
		values, ok := req.Values(name)
		if !ok {
			continue
		}
		v, _ := indexKey.Get(name)
		found := false
		for _, candidate := range values {
			if candidate == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
