// Adopt registers an externally produced index file into a database's TOC
// without re-archiving the data it describes, for index files built by a
// separate out-of-band indexing run (a bulk backfill, a format migration)
// that already match this database's schema.
package fdb

import (
	"context"
	"os"

	"github.com/wxfdb/fdb/internal/fdblog"
)

// Adopt reads the INDEX record(s) out of indexPath and registers each one
// into dbKey's TOC, refusing if indexPath has already been adopted.
func (f *FDB) Adopt(ctx context.Context, dbKey Key, indexPath string) error {
	log := fdblog.WithComponent("adopt")

	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return err
	}

	for _, ix := range cat.Indexes() {
		if ix.Path == indexPath {
			return wrapErr(ErrExists, "Adopt", "index %q already adopted into %q", indexPath, dbKey.String())
		}
	}

	src, err := os.Open(indexPath)
	if err != nil {
		return ioErr("Adopt", err)
	}
	defer src.Close()

	hdr, err := readHeader(src)
	if err != nil {
		return err
	}
	round := hdr.RoundSize
	if round <= 0 {
		round = DefaultRecordRoundSize
	}

	var adopted int
	err = scanRecords(src, HeaderSize, round, func(offset int64, rec Record) bool {
		p, ok := rec.Payload.(*IndexPayload)
		if !ok {
			return true
		}
		indexKey, kerr := ParseCanonicalKey(p.IndexKey)
		if kerr != nil {
			return true
		}
		ix, derr := DecodeIndex(indexKey, indexPath, offset, p.Blob)
		if derr != nil {
			return true
		}
		if _, aerr := cat.toc.AppendIndex(ix); aerr == nil {
			adopted++
		}
		return true
	})
	if err != nil {
		return err
	}

	log.Info().Str("db_key", dbKey.String()).Str("index_path", indexPath).Int("adopted", adopted).Msg("index adopted")
	return nil
}
