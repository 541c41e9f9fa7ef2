// Sub-TOC protocol: each concurrent writer owns a private sub-TOC file
// referenced from the parent TOC by exactly one atomic SUB_TOC append, so
// multiple writers never contend for the same append offset. Consolidate
// flattens every sub-TOC's records into the parent, the same append-then-
// compact shape as an index's pending tail being folded into its sorted
// core (see Axis.Consolidate), just one level up.
package fdb

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// SubTocWriter is a single writer's private append-only log, registered
// with the parent TOC by one SUB_TOC record.
type SubTocWriter struct {
	toc    *Toc
	parent *Toc
	path   string
}

// OpenSubTocWriter creates a fresh sub-TOC file in dir, appends its
// SUB_TOC reference to parent, and returns a writer scoped to it. Each
// call allocates a new UUID-tagged file name so concurrent writers never
// collide on the same path.
func OpenSubTocWriter(parent *Toc, dir string, cfg *Config) (*SubTocWriter, error) {
	name := fmt.Sprintf("toc.%s", uuid.NewString())
	path := filepath.Join(dir, name)

	toc, err := CreateToc(path, parent.DBKey(), parent.schema, true, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := parent.AppendSubToc(path); err != nil {
		toc.Close()
		return nil, err
	}
	return &SubTocWriter{toc: toc, parent: parent, path: path}, nil
}

// AppendIndex writes ix to this writer's private sub-TOC.
func (w *SubTocWriter) AppendIndex(ix *Index) (int64, error) {
	return w.toc.AppendIndex(ix)
}

// Indexes returns every live index this writer has flushed to its private
// sub-TOC, without following the parent's other sub-TOCs.
func (w *SubTocWriter) Indexes() []*Index {
	return w.toc.Indexes()
}

// Close closes the private sub-TOC file. The SUB_TOC reference in the
// parent remains valid; Consolidate (or a future reopen's replay) picks up
// whatever was appended before Close.
func (w *SubTocWriter) Close() error {
	return w.toc.Close()
}

// Consolidate folds this writer's own sub-TOC into its parent and CLEARs
// the SUB_TOC reference, the single-writer-scoped entry point a writer
// calls on itself once it's done producing into its private log.
func (w *SubTocWriter) Consolidate() error {
	return consolidateOne(w.parent, w.path, w.toc.config)
}

// Consolidate reads every sub-TOC referenced by parent, folds their live
// (unmasked) indexes directly into parent, and appends a CLEAR for each
// SUB_TOC reference once its contents have been absorbed. Safe to run
// concurrently with new writers opening further sub-TOCs, since those
// register with a fresh SUB_TOC append that a consolidation already in
// flight simply won't have observed yet.
func Consolidate(parent *Toc, cfg *Config) error {
	for _, path := range parent.SubTocPaths() {
		if err := consolidateOne(parent, path, cfg); err != nil {
			return err
		}
	}
	return nil
}

// consolidateOne folds the sub-TOC at path into parent and CLEARs the
// SUB_TOC record referencing it, so a later Indexes() call stops
// re-following (and double-counting) a reference whose contents now live
// directly in parent.
func consolidateOne(parent *Toc, path string, cfg *Config) error {
	sub, err := OpenToc(path, cfg)
	if err != nil {
		return nil // missing/corrupt sub-toc: skip, leave reference in place
	}
	defer sub.Close()

	for _, ix := range sub.Indexes() {
		if _, err := parent.AppendIndex(ix); err != nil {
			return err
		}
	}

	offset, ok := parent.subTocOffset(path)
	if !ok {
		return nil // already cleared by a concurrent consolidation
	}
	_, err = parent.AppendClear(parent.path, offset)
	return err
}
