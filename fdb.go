// Package-level FDB handle: the entry point applications open once and
// share across goroutines. It owns the Config, Schema, StoreFactory, and
// the set of open per-database catalogues.
package fdb

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/wxfdb/fdb/internal/fdblog"
	"github.com/wxfdb/fdb/internal/metrics"
)

// FDB is a handle onto one archive root. Opened once per process (or per
// tenant, in a multi-root deployment) and shared by every Archive/Retrieve/
// List/Wipe/Purge/Move/Hide/Adopt call.
type FDB struct {
	mu sync.Mutex

	cfg    *Config
	schema Schema
	stores *StoreFactory

	catalogues map[string]*TocCatalogue // dbKey.Canonical() -> open catalogue

	// DefaultLocation is the backend new field writes go to unless a
	// caller overrides it via ArchiveOptions.
	DefaultLocation LocationKind

	log zerolog.Logger
}

// ArchiveOptions customises a single Archive call.
type ArchiveOptions struct {
	Location LocationKind
}

// Open opens (or creates, lazily, per database) an archive root under cfg
// using schema to decompose keys.
func Open(cfg *Config, schema Schema) (*FDB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MetricsEnabled {
		metrics.Register(prometheus.DefaultRegisterer)
	}
	return &FDB{
		cfg:             cfg,
		schema:          schema.Clone(),
		stores:          NewStoreFactory(cfg),
		catalogues:      make(map[string]*TocCatalogue),
		DefaultLocation: LocationLocalFile,
		log:             fdblog.WithComponent("fdb"),
	}, nil
}

// catalogueFor returns the open catalogue for dbKey, opening or creating
// it on first use.
func (f *FDB) catalogueFor(dbKey Key) (*TocCatalogue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	canon := dbKey.Canonical()
	if c, ok := f.catalogues[canon]; ok {
		return c, nil
	}
	c, err := openOrCreateCatalogue(f.cfg, dbKey, f.schema)
	if err != nil {
		return nil, err
	}
	f.catalogues[canon] = c
	return c, nil
}

// Close closes every open catalogue.
func (f *FDB) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var first error
	for k, c := range f.catalogues {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
		delete(f.catalogues, k)
	}
	return first
}

// Schema returns the schema this handle was opened with.
func (f *FDB) Schema() Schema { return f.schema }

// Config returns the configuration this handle was opened with.
func (f *FDB) Config() *Config { return f.cfg }
