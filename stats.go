// Stats rolls up per-database and per-index field counts, duplicate
// counts, and byte totals, for a caller that wants a single summary of an
// archive root rather than having to replay every TOC itself.
package fdb

import (
	"context"
	"os"
)

// IndexStats summarises one index.
type IndexStats struct {
	IndexKey      string
	FieldCount    int
	DuplicateFlag bool
}

// DbStats summarises one database.
type DbStats struct {
	DBKey      Key
	IndexCount int
	FieldCount int
	ByteTotal  int64
	Indexes    []IndexStats
}

// FDBStats summarises an entire archive root.
type FDBStats struct {
	DBCount    int
	FieldCount int
	ByteTotal  int64
	Databases  []DbStats
}

// Stats walks every database under the archive root and returns a rolled-up
// summary. This reopens each TOC via the FDB handle's catalogue cache, so
// repeated Stats calls are cheap after the first.
func (f *FDB) Stats(ctx context.Context) (*FDBStats, error) {
	entries, err := os.ReadDir(f.cfg.RootPath)
	if err != nil {
		return nil, ioErr("Stats", err)
	}

	out := &FDBStats{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dbKey, err := ParseCanonicalKey(e.Name())
		if err != nil || !dbExists(f.cfg, dbKey) {
			continue
		}
		dbStats, err := f.dbStats(dbKey)
		if err != nil {
			continue
		}
		out.Databases = append(out.Databases, *dbStats)
		out.DBCount++
		out.FieldCount += dbStats.FieldCount
		out.ByteTotal += dbStats.ByteTotal
	}
	return out, nil
}

func (f *FDB) dbStats(dbKey Key) (*DbStats, error) {
	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return nil, err
	}

	st := &DbStats{DBKey: dbKey}
	for _, ix := range cat.Indexes() {
		ist := IndexStats{IndexKey: ix.IndexKey.String(), DuplicateFlag: ix.Duplicate}
		ix.Store.Each(func(fp, fieldKey string, loc FieldLocation) {
			ist.FieldCount++
			st.ByteTotal += loc.Length
		})
		st.FieldCount += ist.FieldCount
		st.IndexCount++
		st.Indexes = append(st.Indexes, ist)
	}
	return st, nil
}
