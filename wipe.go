// Wipe removes a database's data and metadata matching a request. A
// request below index level leaves some indexes unmatched; those indexes'
// fields are preserved and only the matched indexes are CLEARed, a
// partial wipe. A request matching every index (or no request at all) is
// a full wipe: metadata (the TOC itself) is also removed, gated by
// whether unrecognised files remain under the database's directory
// unless Unsafe is set.
//
// The coordinator keeps two independent views of what exists —
// CatalogueWipeState (what the indexes say) and StoreWipeState (what's
// actually on disk) — and reconciles them before committing anything, the
// same two-sided check a consistency repair needs before it can trust
// either side alone.
package fdb

import (
	"context"
	"os"
	"path/filepath"

	"github.com/wxfdb/fdb/internal/fdblog"
	"github.com/wxfdb/fdb/internal/metrics"
)

// WipeOptions controls a single Wipe call.
type WipeOptions struct {
	// Unsafe allows a full wipe to proceed even if unrecognised files
	// remain under the database's directory.
	Unsafe bool

	// DoIt actually performs the wipe. Without it, Wipe only computes and
	// returns the WipeReport a caller can review first.
	DoIt bool
}

// CatalogueWipeState is what the catalogue believes exists for a
// database, split by whether a live index matched the wipe request.
type CatalogueWipeState struct {
	MatchedIndexes   []*Index // indexes-to-mask: fully or partially covered by the request
	UnmatchedIndexes []*Index // preserved as-is
	Include          map[string]bool // data URIs of MatchedIndexes, candidates for deletion
	Exclude          map[string]bool // data URIs of UnmatchedIndexes, never deleted
}

// StoreWipeState is what's actually present on disk/in the backend for a
// database.
type StoreWipeState struct {
	AllPaths     []string
	KnownPaths   map[string]bool // paths the catalogue accounts for (include or exclude)
	UnknownPaths []string        // present on disk but unreferenced by any live index
}

// WipeReport describes what a Wipe call found and (if DoIt was set) did.
type WipeReport struct {
	DBKey           Key
	Full            bool // true: request matched every index, metadata is removed too
	MatchedIndexes  int
	ExcludedIndexes int
	UnknownCount    int
	RemovedPaths    []string
	Committed       bool
	Signature       uint64
}

// Wipe removes the data matching req (or, if req is nil, the whole
// database) from dbKey, or reports what it would remove if opts.DoIt is
// false. req is interpreted below db-key level: index-request = req
// minus the dimensions already fixed by dbKey.
func (f *FDB) Wipe(ctx context.Context, dbKey Key, req *Request, opts WipeOptions) (*WipeReport, error) {
	log := fdblog.WithComponent("wipe")
	log.Info().Str("db_key", dbKey.String()).Bool("unsafe", opts.Unsafe).Bool("doit", opts.DoIt).Msg("wipe starting")

	if !dbExists(f.cfg, dbKey) {
		return nil, wrapErr(ErrNotFound, "Wipe", "database %q", dbKey.String())
	}

	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return nil, err
	}

	cstate := buildCatalogueWipeState(cat, req)
	if err := verifyWipeSafety(cstate); err != nil {
		return nil, err
	}
	sstate, err := f.buildStoreWipeState(dbKey, cstate)
	if err != nil {
		return nil, err
	}

	full := len(cstate.Exclude) == 0
	report := &WipeReport{
		DBKey:           dbKey,
		Full:            full,
		MatchedIndexes:  len(cstate.MatchedIndexes),
		ExcludedIndexes: len(cstate.UnmatchedIndexes),
		UnknownCount:    len(sstate.UnknownPaths),
	}
	report.Signature = wipeSignature(cstate, sstate)

	if full && len(sstate.UnknownPaths) > 0 && !opts.Unsafe {
		log.Warn().Int("unknown", len(sstate.UnknownPaths)).Msg("refusing full wipe: unrecognised files present")
		return report, wrapErr(ErrUncleanDatabase, "Wipe", "%d unrecognised files under %q", len(sstate.UnknownPaths), dbKey.String())
	}

	if !opts.DoIt {
		return report, nil
	}

	if err := f.commitWipe(ctx, dbKey, cat, cstate, sstate, report); err != nil {
		return report, err
	}
	report.Committed = true

	if f.cfg.MetricsEnabled && metrics.WipedDatabases != nil {
		metrics.WipedDatabases.Inc()
	}
	log.Info().Strs("removed", report.RemovedPaths).Msg("wipe committed")
	return report, nil
}

// buildCatalogueWipeState classifies every live index as matched
// (index.key.match(index-request), the indexes-to-mask) or unmatched
// (preserved), and collects each side's data URIs. req == nil matches
// every index unconditionally (a whole-database wipe).
func buildCatalogueWipeState(cat Catalogue, req *Request) *CatalogueWipeState {
	st := &CatalogueWipeState{
		Include: make(map[string]bool),
		Exclude: make(map[string]bool),
	}
	for _, ix := range cat.Indexes() {
		matched := req == nil || indexMatchesRequest(ix.IndexKey, req)
		if matched {
			st.MatchedIndexes = append(st.MatchedIndexes, ix)
			ix.Store.Each(func(fp, fieldKey string, loc FieldLocation) {
				st.Include[loc.URI()] = true
			})
		} else {
			st.UnmatchedIndexes = append(st.UnmatchedIndexes, ix)
			ix.Store.Each(func(fp, fieldKey string, loc FieldLocation) {
				st.Exclude[loc.URI()] = true
			})
		}
	}
	return st
}

// verifyWipeSafety enforces that no URI slated for deletion is also
// referenced by an index Wipe is going to preserve. A fingerprint shared
// across a matched and an unmatched index (a deliberate overlay, the
// same case Purge's duplicates.allow marker exists for) is never safe to
// delete, so it's dropped from Include rather than deleted.
func verifyWipeSafety(cstate *CatalogueWipeState) error {
	for uri := range cstate.Exclude {
		if cstate.Include[uri] {
			delete(cstate.Include, uri)
		}
	}
	return nil
}

func (f *FDB) buildStoreWipeState(dbKey Key, cstate *CatalogueWipeState) (*StoreWipeState, error) {
	dir := dbDir(f.cfg, dbKey)
	st := &StoreWipeState{KnownPaths: make(map[string]bool)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, ioErr("buildStoreWipeState", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		st.AllPaths = append(st.AllPaths, path)
		uri := "file://" + path
		switch {
		case cstate.Include[uri], cstate.Exclude[uri], e.Name() == "toc":
			st.KnownPaths[path] = true
		default:
			st.UnknownPaths = append(st.UnknownPaths, path)
		}
	}
	return st, nil
}

// wipeSignature XOR-folds a coarse fingerprint of both wipe states so a
// caller can confirm, across a process boundary, that the state Wipe
// computed its report from hasn't silently changed before DoIt is applied.
// This is NOT a cryptographic integrity check — it guards against stale
// re-use of a report, not against a deliberately forged one.
func wipeSignature(cstate *CatalogueWipeState, sstate *StoreWipeState) uint64 {
	var sig uint64
	for uri := range cstate.Include {
		sig ^= fnv64(uri)
	}
	for uri := range cstate.Exclude {
		sig ^= fnv64("exclude:" + uri)
	}
	for _, p := range sstate.AllPaths {
		sig ^= fnv64(p)
	}
	return sig
}

// verifyWipeSignature recomputes the signature over cstate and sstate and
// refuses to proceed if it differs from report.Signature. Wipe hands
// commitWipe the same in-memory states the report was computed from; the
// TOC and store are not re-read before this comparison.
func verifyWipeSignature(report *WipeReport, cstate *CatalogueWipeState, sstate *StoreWipeState) error {
	if wipeSignature(cstate, sstate) != report.Signature {
		return wrapErr(ErrConflict, "Wipe", "wipe state for %q changed since the report was computed", report.DBKey.String())
	}
	return nil
}

func fnv64(s string) uint64 {
	const offset = 14695981039346656037
	const prime = 1099511628211
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

// commitWipe performs the five-step ordered wipe: (1) append CLEAR
// records for indexes-to-mask, (2) delete unknown URIs (only reachable
// when Unsafe was set on a full wipe), (3) delete store data URIs still
// in Include after the safety check, (4) delete catalogue metadata — only
// on a full wipe, since a partial wipe's TOC still serves the preserved
// indexes, (5) remove the now-empty database directory — also full-wipe
// only.
func (f *FDB) commitWipe(ctx context.Context, dbKey Key, cat *TocCatalogue, cstate *CatalogueWipeState, sstate *StoreWipeState, report *WipeReport) error {
	if err := verifyWipeSignature(report, cstate, sstate); err != nil {
		return err
	}
	if err := verifyWipeSafety(cstate); err != nil {
		return err
	}

	// 1. append CLEAR records for indexes-to-mask
	for _, ix := range cstate.MatchedIndexes {
		if _, err := cat.toc.AppendClear(ix.Path, ix.Offset); err != nil {
			return err
		}
	}

	// 2. wipe unknowns (only reachable on a full wipe permitted via Unsafe)
	if report.Full {
		for _, p := range sstate.UnknownPaths {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return ioErr("commitWipe", err)
			}
			report.RemovedPaths = append(report.RemovedPaths, p)
		}
	}

	// 3. wipe store data URIs left in Include
	for _, ix := range cstate.MatchedIndexes {
		ix.Store.Each(func(fp, fieldKey string, loc FieldLocation) {
			if !cstate.Include[loc.URI()] {
				return // dropped by the safety check: also referenced by a preserved index
			}
			store, err := f.stores.For(loc.Kind)
			if err != nil {
				return
			}
			store.Delete(ctx, loc)
		})
	}
	for p := range sstate.KnownPaths {
		if filepath.Base(p) == "toc" {
			continue
		}
		uri := "file://" + p
		if cstate.Exclude[uri] {
			continue
		}
		if !cstate.Include[uri] {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return ioErr("commitWipe", err)
		}
		report.RemovedPaths = append(report.RemovedPaths, p)
	}

	if !report.Full {
		return nil
	}

	// 4. wipe catalogue-known state: close and remove the TOC itself
	f.mu.Lock()
	delete(f.catalogues, dbKey.Canonical())
	f.mu.Unlock()
	cat.Close()
	tocFile := tocPath(f.cfg, dbKey)
	if err := os.Remove(tocFile); err != nil && !os.IsNotExist(err) {
		return ioErr("commitWipe", err)
	}
	report.RemovedPaths = append(report.RemovedPaths, tocFile)

	// 5. wipe now-empty database directory
	dir := dbDir(f.cfg, dbKey)
	os.Remove(dir) // best-effort: fails silently if anything unexpected remains
	return nil
}
