package main

import (
	wxfdb "github.com/wxfdb/fdb"
)

// openFDB loads config (file + env), applies CLI flag overrides, loads the
// schema, and opens a handle onto the archive root.
func openFDB() (*wxfdb.FDB, error) {
	cfg, err := wxfdb.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if rootPath != "" {
		cfg.RootPath = rootPath
	}
	if schemaPath != "" {
		cfg.SchemaPath = schemaPath
	}
	if cfg.RootPath == "" {
		return nil, userErr("--root-path or FDB_ROOT_PATH must be set")
	}
	if cfg.SchemaPath == "" {
		return nil, userErr("--schema-path or FDB_SCHEMA_PATH must be set")
	}

	schema, err := wxfdb.LoadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}

	return wxfdb.Open(cfg, schema)
}
