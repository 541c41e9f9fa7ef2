package fdb

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfigFields verifies the documented zero-equivalent
// defaults, since LoadConfig's fallback logic depends on DefaultConfig
// returning sane values before any file or env override is applied.
func TestDefaultConfigFields(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HashAlgorithm != AlgXXHash3 {
		t.Errorf("HashAlgorithm = %d, want AlgXXHash3", cfg.HashAlgorithm)
	}
	if cfg.RoundTocRecords != DefaultRecordRoundSize {
		t.Errorf("RoundTocRecords = %d, want %d", cfg.RoundTocRecords, DefaultRecordRoundSize)
	}
}

// TestLoadConfigFromYAML verifies file-supplied values override the
// defaults.
func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "root_path: /var/fdb\nhash_algorithm: 2\nsync_writes: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RootPath != "/var/fdb" {
		t.Errorf("RootPath = %q, want /var/fdb", cfg.RootPath)
	}
	if cfg.HashAlgorithm != AlgFNV1a {
		t.Errorf("HashAlgorithm = %d, want AlgFNV1a", cfg.HashAlgorithm)
	}
	if !cfg.SyncWrites {
		t.Error("SyncWrites should be true")
	}
}

// TestLoadConfigMissingPathFallsBackToDefaults verifies an empty path
// (no config file configured) returns pure defaults rather than an
// error, the common case for a CLI invocation with no --config flag.
func TestLoadConfigMissingPathFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\"): %v", err)
	}
	if cfg.HashAlgorithm != AlgXXHash3 {
		t.Errorf("HashAlgorithm = %d, want AlgXXHash3", cfg.HashAlgorithm)
	}
}

// TestApplyEnvOverridesFile verifies FDB_* environment variables take
// precedence over an already-loaded config, the file-then-env layering
// documented on Config.
func TestApplyEnvOverridesFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootPath = "/from/file"

	t.Setenv("FDB_ROOT_PATH", "/from/env")
	t.Setenv("FDB_SYNC_WRITES", "true")

	ApplyEnv(cfg)

	if cfg.RootPath != "/from/env" {
		t.Errorf("RootPath = %q, want /from/env", cfg.RootPath)
	}
	if !cfg.SyncWrites {
		t.Error("SyncWrites should be true from FDB_SYNC_WRITES")
	}
}

// TestLoadConfigZeroRoundTocRecordsFallsBackToDefault verifies a config
// file that doesn't set round_toc_records (or sets it to 0) still ends
// up with a usable positive record boundary, since roundUp(n, 0) is a
// no-op that would leave records unpadded.
func TestLoadConfigZeroRoundTocRecordsFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("root_path: /var/fdb\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RoundTocRecords != DefaultRecordRoundSize {
		t.Errorf("RoundTocRecords = %d, want %d", cfg.RoundTocRecords, DefaultRecordRoundSize)
	}
}
