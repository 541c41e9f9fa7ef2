// Catalogue is the capability interface for metadata operations: resolving
// a full key to a FieldLocation, listing what a DB contains, and the
// primitives Wipe/Purge/Adopt build on. TocCatalogue is the only
// implementation this build ships (a real deployment might add a remote
// catalogue behind the same interface, matching the capability-dispatch
// pattern used for Store).
package fdb

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// Catalogue resolves keys against one database's metadata.
type Catalogue interface {
	// DBKey returns the database this catalogue serves.
	DBKey() Key

	// Lookup resolves a full key (already schema-matched into index-key
	// and field-key) to its FieldLocation.
	Lookup(ctx context.Context, indexKey, fieldKey Key) (FieldLocation, bool)

	// Insert records fieldKey -> loc under indexKey, creating the index
	// if this is its first field.
	Insert(ctx context.Context, indexKey, fieldKey Key, loc FieldLocation) error

	// Indexes returns every live index in this catalogue.
	Indexes() []*Index

	// Mask removes fieldKey from indexKey's index without deleting its
	// underlying bytes.
	Mask(ctx context.Context, indexKey, fieldKey Key) error

	// Close releases any open file handles.
	Close() error
}

// TocCatalogue is a Catalogue backed by a primary Toc and its sub-TOCs.
type TocCatalogue struct {
	toc    *Toc
	schema Schema

	subMu     sync.Mutex
	subWriter *SubTocWriter // lazily opened when toc.config.UseSubToc is set
}

// OpenCatalogue opens (or creates, if create is true) the TOC at path for
// dbKey under schema.
func OpenCatalogue(path string, dbKey Key, schema Schema, create bool, cfg *Config) (*TocCatalogue, error) {
	var toc *Toc
	var err error
	if create {
		toc, err = CreateToc(path, dbKey, schema, false, cfg)
	} else {
		toc, err = OpenToc(path, cfg)
	}
	if err != nil {
		return nil, err
	}
	return &TocCatalogue{toc: toc, schema: schema}, nil
}

func (c *TocCatalogue) DBKey() Key { return c.toc.DBKey() }

func (c *TocCatalogue) indexFor(indexKey Key, createIfMissing bool) *Index {
	canon := indexKey.Canonical()
	for _, ix := range c.toc.Indexes() {
		if ix.IndexKey.Canonical() == canon {
			return ix
		}
	}
	if !createIfMissing {
		return nil
	}
	return NewIndex(indexKey, c.toc.header.Algorithm)
}

func (c *TocCatalogue) Lookup(ctx context.Context, indexKey, fieldKey Key) (FieldLocation, bool) {
	ix := c.indexFor(indexKey, false)
	if ix == nil {
		return FieldLocation{}, false
	}
	return ix.Lookup(fieldKey)
}

func (c *TocCatalogue) Insert(ctx context.Context, indexKey, fieldKey Key, loc FieldLocation) error {
	if c.toc.config.OnlyCreatorCanWrite && uint32(os.Getuid()) != c.toc.CreatorUid() {
		return wrapErr(ErrAccessDenied, "Insert", "db %q was created by a different uid", c.toc.DBKey().String())
	}
	ix := c.indexFor(indexKey, true)
	ix.Insert(fieldKey, loc)

	if c.toc.config.UseSubToc {
		w, err := c.ensureSubTocWriter()
		if err != nil {
			return err
		}
		_, err = w.AppendIndex(ix)
		return err
	}
	_, err := c.toc.AppendIndex(ix)
	return err
}

// ensureSubTocWriter lazily opens this catalogue's private sub-TOC writer,
// registering it with the parent TOC on first use.
func (c *TocCatalogue) ensureSubTocWriter() (*SubTocWriter, error) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.subWriter != nil {
		return c.subWriter, nil
	}
	w, err := OpenSubTocWriter(c.toc, filepath.Dir(c.toc.path), c.toc.config)
	if err != nil {
		return nil, err
	}
	c.subWriter = w
	return w, nil
}

func (c *TocCatalogue) Indexes() []*Index {
	return c.toc.Indexes()
}

func (c *TocCatalogue) Mask(ctx context.Context, indexKey, fieldKey Key) error {
	ix := c.indexFor(indexKey, false)
	if ix == nil {
		return wrapErr(ErrNotFound, "Mask", "index %q", indexKey.String())
	}
	ix.Mask(fieldKey)
	_, err := c.toc.AppendIndex(ix)
	return err
}

func (c *TocCatalogue) Close() error {
	c.subMu.Lock()
	w := c.subWriter
	c.subWriter = nil
	c.subMu.Unlock()
	if w != nil {
		w.Close()
	}
	return c.toc.Close()
}
