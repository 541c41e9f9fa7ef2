package fdb

import (
	"os"
	"path/filepath"
	"testing"
)

func testSchema() Schema {
	return Schema{
		Rules: []Rule{
			{
				Level1: []string{"class", "expver"},
				Level2: []string{"stream", "date", "time"},
				Level3: []string{"levelist", "param"},
			},
		},
	}
}

// TestSchemaMatchLevel verifies a fully-specified key splits into exactly
// the three levels the rule declares, in the rule's own name order.
func TestSchemaMatchLevel(t *testing.T) {
	s := testSchema()
	full := NewKey(
		[2]string{"class", "od"}, [2]string{"expver", "0001"},
		[2]string{"stream", "oper"}, [2]string{"date", "20260730"}, [2]string{"time", "0000"},
		[2]string{"levelist", "850"}, [2]string{"param", "130"},
	)

	dbKey, indexKey, fieldKey, err := s.MatchLevel(full)
	if err != nil {
		t.Fatalf("MatchLevel: %v", err)
	}
	if dbKey.String() != "class=od,expver=0001" {
		t.Errorf("dbKey = %q", dbKey.String())
	}
	if indexKey.String() != "stream=oper,date=20260730,time=0000" {
		t.Errorf("indexKey = %q", indexKey.String())
	}
	if fieldKey.String() != "levelist=850,param=130" {
		t.Errorf("fieldKey = %q", fieldKey.String())
	}
}

// TestSchemaMatchLevelNoRule verifies a key missing a required name is
// rejected with ErrSchemaMismatch rather than silently matching a
// partial rule.
func TestSchemaMatchLevelNoRule(t *testing.T) {
	s := testSchema()
	full := NewKey([2]string{"class", "od"}) // missing expver and both other levels

	if _, _, _, err := s.MatchLevel(full); err == nil {
		t.Error("MatchLevel should fail when no rule's levels are fully covered")
	}
}

// TestSchemaFirstLevel verifies FirstLevel expands only the level-1
// names present in the request, ignoring level-2/level-3 names it
// doesn't need.
func TestSchemaFirstLevel(t *testing.T) {
	s := testSchema()
	req, err := ParseRequest("class=od,expver=0001/0002")
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}

	keys := s.FirstLevel(req)
	if len(keys) != 2 {
		t.Fatalf("FirstLevel returned %d keys, want 2", len(keys))
	}
	seen := map[string]bool{}
	for _, k := range keys {
		seen[k.String()] = true
	}
	if !seen["class=od,expver=0001"] || !seen["class=od,expver=0002"] {
		t.Errorf("FirstLevel keys = %v", keys)
	}
}

// TestSchemaFirstLevelRequiresAllLevel1Names verifies a request missing
// one of the rule's level-1 names contributes no db-keys for that rule,
// rather than guessing a wildcard (FirstLevelMatch is the wildcard-aware
// variant; FirstLevel is exact).
func TestSchemaFirstLevelRequiresAllLevel1Names(t *testing.T) {
	s := testSchema()
	req, err := ParseRequest("class=od")
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if keys := s.FirstLevel(req); len(keys) != 0 {
		t.Errorf("FirstLevel = %v, want empty (expver missing)", keys)
	}
}

// TestSchemaExpand verifies Expand produces the Cartesian product across
// every level when the request fully specifies all three.
func TestSchemaExpand(t *testing.T) {
	s := testSchema()
	req, err := ParseRequest("class=od,expver=0001,stream=oper,date=20260730,time=0000,levelist=500/850,param=130")
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}

	keys := s.Expand(req)
	if len(keys) != 2 {
		t.Fatalf("Expand returned %d keys, want 2", len(keys))
	}
}

// TestSchemaCloneIndependent verifies Clone's copies don't alias the
// original's rule slices, since a Database snapshots its schema at
// creation time and must be immune to later mutation of the caller's
// Schema value.
func TestSchemaCloneIndependent(t *testing.T) {
	s := testSchema()
	clone := s.Clone()
	clone.Rules[0].Level1[0] = "mutated"

	if s.Rules[0].Level1[0] == "mutated" {
		t.Error("Clone must not alias the original's backing arrays")
	}
}

// TestLoadSchemaYAML verifies LoadSchema parses a rule file's flat list
// of level1/level2/level3 stanzas into the same Rule shape MatchLevel
// operates on.
func TestLoadSchemaYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	yamlContent := `
rules:
  - level1: [class, expver]
    level2: [stream, date, time]
    level3: [levelist, param]
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if len(s.Rules) != 1 {
		t.Fatalf("Rules = %d, want 1", len(s.Rules))
	}
	if len(s.Rules[0].Level1) != 2 || s.Rules[0].Level1[0] != "class" {
		t.Errorf("Level1 = %v", s.Rules[0].Level1)
	}
	if len(s.Rules[0].Level3) != 2 || s.Rules[0].Level3[1] != "param" {
		t.Errorf("Level3 = %v", s.Rules[0].Level3)
	}
}

// TestLoadSchemaMissingFile verifies a missing schema path is reported
// as an I/O error rather than a panic.
func TestLoadSchemaMissingFile(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Error("LoadSchema should fail for a missing file")
	}
}
