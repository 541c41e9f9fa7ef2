// Purge reclaims storage for fingerprints that no live index references any
// more: a field gets superseded by a later write to the same key, or an
// index gets entirely masked by Hide, and either way its bytes become
// unreachable but are never freed by the archive path itself (which only
// ever appends). Purge is the sweep that closes that gap.
package fdb

import (
	"context"

	"github.com/wxfdb/fdb/internal/fdblog"
	"github.com/wxfdb/fdb/internal/metrics"
)

// duplicatesAllowMarker is the zero-byte marker that, when present in a
// database's directory, relaxes Purge's unique-root assumption: a
// fingerprint reachable through more than one live index is no longer
// reported (or CLEARed) as a duplicate-index candidate. Purge still
// reclaims fingerprints with a zero reachable count either way.
const duplicatesAllowMarker = "duplicates.allow"

// PurgeReport summarises one Purge call.
type PurgeReport struct {
	DBKey            Key
	ReachableCount   int
	UnreachableCount int
	DuplicateIndexes int
	BytesFreed       int64
	DoIt             bool
}

// Purge scans every live index in dbKey's catalogue, builds the set of
// fingerprints still reachable from any of them, deletes backing bytes for
// every fingerprint that turns out unreachable, and CLEARs any index whose
// every fingerprint duplicates one already seen in a more recent live
// index (a index made entirely redundant by Consolidate folding the same
// writes into the parent, for instance).
func (f *FDB) Purge(ctx context.Context, dbKey Key, doIt bool) (*PurgeReport, error) {
	log := fdblog.WithComponent("purge")

	if !dbExists(f.cfg, dbKey) {
		return nil, wrapErr(ErrNotFound, "Purge", "database %q", dbKey.String())
	}

	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return nil, err
	}

	indexes := cat.Indexes()
	report := &PurgeReport{DBKey: dbKey, DoIt: doIt}
	allowDuplicates := markerExists(dbDir(f.cfg, dbKey), duplicatesAllowMarker)

	// reachable counts how many live indexes still reference each
	// fingerprint, and tracks the winning (first-seen) location for it.
	reachable := make(map[string]int)
	locations := make(map[string]FieldLocation)
	for _, ix := range indexes {
		ix.Store.Each(func(fp, fieldKey string, loc FieldLocation) {
			reachable[fp]++
			if _, ok := locations[fp]; !ok {
				locations[fp] = loc
			}
		})
	}
	report.ReachableCount = len(reachable)

	// An index is fully duplicate if every fingerprint it carries was
	// already seen in an index visited before it. Indexes are visited most
	// recent first, so the newest copy of a fingerprint stays reachable and
	// only the older copies count as duplicates. Skipped entirely
	// when duplicates.allow is present: the DB's layout is expected to
	// carry repeated fingerprints across indexes (e.g. a deliberate
	// overlay), so they are never reported or masked as duplicates.
	if !allowDuplicates {
		seen := make(map[string]bool)
		for _, ix := range indexes {
			allDup := true
			count := 0
			var fps []string
			ix.Store.Each(func(fp, fieldKey string, loc FieldLocation) {
				count++
				fps = append(fps, fp)
				if !seen[fp] {
					allDup = false
				}
			})
			for _, fp := range fps {
				seen[fp] = true
			}
			if count > 0 && allDup {
				ix.Duplicate = true
				report.DuplicateIndexes++
				if doIt {
					if _, err := cat.toc.AppendClear(ix.Path, ix.Offset); err != nil {
						return report, err
					}
				}
			}
		}
	}

	// Unreachable fingerprints are ones every index has masked (superseded
	// writes, or fields explicitly Hidden) with a zero surviving reference.
	// Masked entries still carry the location their bytes were written to.
	allFingerprints := make(map[string]bool)
	for _, ix := range indexes {
		ix.Store.Consolidate()
		for _, e := range ix.Store.sorted {
			allFingerprints[e.fingerprint] = true
			if _, ok := locations[e.fingerprint]; !ok {
				locations[e.fingerprint] = e.loc
			}
		}
	}
	var unreachable []string
	for fp := range allFingerprints {
		if reachable[fp] == 0 {
			unreachable = append(unreachable, fp)
		}
	}
	report.UnreachableCount = len(unreachable)

	if !doIt {
		log.Info().Int("unreachable", report.UnreachableCount).Int("dup_indexes", report.DuplicateIndexes).Msg("purge dry run")
		return report, nil
	}

	for _, fp := range unreachable {
		loc, ok := locations[fp]
		if !ok {
			continue
		}
		store, err := f.stores.For(loc.Kind)
		if err != nil {
			continue
		}
		if err := store.Delete(ctx, loc); err != nil {
			continue
		}
		report.BytesFreed += loc.Length
	}

	if f.cfg.MetricsEnabled && metrics.PurgedBytes != nil {
		metrics.PurgedBytes.Add(float64(report.BytesFreed))
	}
	log.Info().Int("freed", int(report.BytesFreed)).Msg("purge committed")
	return report, nil
}
