// factory.go resolves a db-key to its on-disk TOC path and opens (or
// creates) the Catalogue/Store pair a Database needs, the single place
// that knows how db-keys map onto directory layout.
package fdb

import (
	"os"
	"path/filepath"
)

// dbDir returns the directory holding dbKey's TOC and local-store files.
func dbDir(cfg *Config, dbKey Key) string {
	return filepath.Join(cfg.RootPath, dbKey.Canonical())
}

// tocPath returns the primary TOC file path for dbKey.
func tocPath(cfg *Config, dbKey Key) string {
	return filepath.Join(dbDir(cfg, dbKey), "toc")
}

// dbExists reports whether dbKey already has a TOC on disk.
func dbExists(cfg *Config, dbKey Key) bool {
	_, err := os.Stat(tocPath(cfg, dbKey))
	return err == nil
}

// openOrCreateCatalogue opens dbKey's catalogue, creating its directory
// and TOC if this is the first time dbKey has been archived to.
func openOrCreateCatalogue(cfg *Config, dbKey Key, schema Schema) (*TocCatalogue, error) {
	dir := dbDir(cfg, dbKey)
	path := tocPath(cfg, dbKey)

	if _, err := os.Stat(path); err == nil {
		return OpenCatalogue(path, dbKey, schema, false, cfg)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ioErr("openOrCreateCatalogue", err)
	}
	return OpenCatalogue(path, dbKey, schema, true, cfg)
}
