// Configuration for an FDB root: schema location, record layout, hashing,
// and write-durability knobs. Values are loaded from YAML, then overridden
// by FDB_* environment variables, matching the archive-root config layering
// most deployments actually use.
package fdb

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config controls how an FDB root is opened and written to.
type Config struct {
	// RootPath is the base directory containing every DB's directory tree
	// for the local store backend.
	RootPath string `yaml:"root_path"`

	// SchemaPath is the path to the schema file describing the Rules used
	// to decompose keys into db/index/field levels. If empty, Schema must
	// be supplied programmatically to Open.
	SchemaPath string `yaml:"schema_path"`

	// HashAlgorithm selects AlgXXHash3, AlgFNV1a, or AlgBlake2b for
	// field-key fingerprinting. New databases record their choice in the
	// TOC header; existing ones keep using the algorithm they were
	// created with regardless of this setting.
	HashAlgorithm int `yaml:"hash_algorithm"`

	// RoundTocRecords pads every TOC record up to this byte boundary.
	// Zero means DefaultRecordRoundSize.
	RoundTocRecords int64 `yaml:"round_toc_records"`

	// SyncWrites calls fsync after every append. Off by default; most
	// deployments rely on the OS page cache and TOC-level replay instead.
	SyncWrites bool `yaml:"sync_writes"`

	// OnlyCreatorCanWrite restricts further writes on a DB to the uid
	// that created it.
	OnlyCreatorCanWrite bool `yaml:"only_creator_can_write"`

	// ListAllDB is loaded from the config file and FDB_LIST_ALL_DB; List
	// does not consult it and lists every database under RootPath.
	ListAllDB bool `yaml:"list_all_db"`

	// ServerMode is loaded from the config file only; no backend consults
	// it.
	ServerMode bool `yaml:"server_mode"`

	// WipeCacheSize is loaded from the config file (default 4096); Wipe
	// does not consult it.
	WipeCacheSize int `yaml:"wipe_cache_size"`

	// RemoteAddr is the net.Conn dial target for the Remote store backend,
	// when configured.
	RemoteAddr string `yaml:"remote_addr"`

	// MetricsEnabled registers the prometheus counters in internal/metrics
	// on Open and makes Archive, Retrieve, Wipe and Purge update them.
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// UseSubToc routes each Archive call through a writer-private sub-TOC
	// instead of appending directly to the primary TOC, so concurrent
	// writers never contend for the same append offset. Consolidate folds
	// a sub-TOC's records back into the parent once its writer is done.
	UseSubToc bool `yaml:"use_sub_toc"`
}

// DefaultConfig returns a Config with every field at its documented
// zero-equivalent default.
func DefaultConfig() *Config {
	return &Config{
		HashAlgorithm:   AlgXXHash3,
		RoundTocRecords: DefaultRecordRoundSize,
		WipeCacheSize:   4096,
	}
}

// LoadConfig reads a YAML config file from path, falling back to defaults
// for unset fields, then applies FDB_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ioErr("LoadConfig", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, wrapErr(ErrCorruptToc, "LoadConfig", "invalid yaml: %v", err)
		}
	}
	ApplyEnv(cfg)
	if cfg.RoundTocRecords <= 0 {
		cfg.RoundTocRecords = DefaultRecordRoundSize
	}
	if cfg.HashAlgorithm == 0 {
		cfg.HashAlgorithm = AlgXXHash3
	}
	return cfg, nil
}

// ApplyEnv overrides cfg's fields from FDB_* environment variables, the
// same precedence order (file, then env) used across the rest of the
// ambient configuration stack.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("FDB_ROOT_PATH"); v != "" {
		cfg.RootPath = v
	}
	if v := os.Getenv("FDB_SCHEMA_PATH"); v != "" {
		cfg.SchemaPath = v
	}
	if v := os.Getenv("FDB_HASH_ALGORITHM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HashAlgorithm = n
		}
	}
	if v := os.Getenv("FDB_ROUND_TOC_RECORDS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.RoundTocRecords = n
		}
	}
	if v := os.Getenv("FDB_SYNC_WRITES"); v != "" {
		cfg.SyncWrites = v == "1" || v == "true"
	}
	if v := os.Getenv("FDB_ONLY_CREATOR_CAN_WRITE"); v != "" {
		cfg.OnlyCreatorCanWrite = v == "1" || v == "true"
	}
	if v := os.Getenv("FDB_LIST_ALL_DB"); v != "" {
		cfg.ListAllDB = v == "1" || v == "true"
	}
	if v := os.Getenv("FDB_REMOTE_ADDR"); v != "" {
		cfg.RemoteAddr = v
	}
	if v := os.Getenv("FDB_METRICS_ENABLED"); v != "" {
		cfg.MetricsEnabled = v == "1" || v == "true"
	}
	if v := os.Getenv("FDB_USE_SUB_TOC"); v != "" {
		cfg.UseSubToc = v == "1" || v == "true"
	}
}
