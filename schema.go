package fdb

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is one three-level template of a Schema: the ordered key names that
// belong to the db-key, index-key, and field-key levels respectively.
type Rule struct {
	Level1 []string
	Level2 []string
	Level3 []string
}

// names returns all three levels concatenated, in level order.
func (r Rule) names() []string {
	out := make([]string, 0, len(r.Level1)+len(r.Level2)+len(r.Level3))
	out = append(out, r.Level1...)
	out = append(out, r.Level2...)
	out = append(out, r.Level3...)
	return out
}

// Schema is an ordered list of rules. The first rule whose level-1 and
// level-2 names are all present in a full key "matches" it.
// A Schema is snapshotted by value when a DB is created (Database
// invariant: once created, a DB's schema is immutable — Clone gives each
// DB its own copy so mutating the caller's Schema afterwards cannot affect
// an already-created DB).
type Schema struct {
	Rules []Rule
}

// Clone returns an independent copy of the schema.
func (s Schema) Clone() Schema {
	out := Schema{Rules: make([]Rule, len(s.Rules))}
	for i, r := range s.Rules {
		out.Rules[i] = Rule{
			Level1: append([]string(nil), r.Level1...),
			Level2: append([]string(nil), r.Level2...),
			Level3: append([]string(nil), r.Level3...),
		}
	}
	return out
}

// MatchLevel splits a fully-specified key into (db-key, index-key,
// field-key) using the first rule whose three levels are all present in
// full. Returns ErrSchemaMismatch if no rule matches the whole key.
func (s Schema) MatchLevel(full Key) (dbKey, indexKey, fieldKey Key, err error) {
	for _, r := range s.Rules {
		l1, ok1 := full.Sub(r.Level1...)
		if !ok1 {
			continue
		}
		l2, ok2 := full.Sub(r.Level2...)
		if !ok2 {
			continue
		}
		l3, ok3 := full.Sub(r.Level3...)
		if !ok3 {
			continue
		}
		return l1, l2, l3, nil
	}
	return Key{}, Key{}, Key{}, wrapErr(ErrSchemaMismatch, "match", "no rule matches key %q", full.String())
}

// missingRegex is the sentinel that a partial key's absent name expands to
// during FirstLevel matching: any value not containing ':' or '/'.
const missingRegex = `[^:/]*`

// FirstLevelMatch attempts to construct a db-key (level-1) from a partial
// key, for every rule whose level-1 names are covered either by a present
// value in partial or by the implicit "missing" wildcard. It returns the
// set of db-keys (one per matching rule, deduplicated by Canonical form)
// that a subsequent directory/TOC scan should consider.
func (s Schema) FirstLevelMatch(partial Key) []Key {
	seen := make(map[string]bool)
	var out []Key
	for _, r := range s.Rules {
		k := Key{}
		complete := true
		for _, name := range r.Level1 {
			if v, ok := partial.Get(name); ok {
				k.Set(name, v)
			} else {
				// Missing: the key still "matches" at the schema level but
				// denotes a wildcard on this name, concretely the regex
				// [^:/]*.
				k.Set(name, missingRegex)
				complete = false
			}
		}
		_ = complete
		c := k.Canonical()
		if !seen[c] {
			seen[c] = true
			out = append(out, k)
		}
	}
	return out
}

// Expand performs the Cartesian expansion of a multi-valued Request into
// the set of full keys it denotes, filtered by the rules that cover the
// request's names. Expansion only visits names actually present in the
// request at each level; a rule whose level is not fully specified in the
// request contributes no keys from that incomplete level — callers that
// need db-key-only expansion should use FirstLevel instead.
func (s Schema) Expand(req *Request) []Key {
	var out []Key
	seen := make(map[string]bool)
	for _, r := range s.Rules {
		names := r.names()
		values := make([][]string, len(names))
		ok := true
		for i, n := range names {
			v, present := req.Values(n)
			if !present {
				ok = false
				break
			}
			values[i] = v
		}
		if !ok {
			continue
		}
		cartesian(names, values, 0, Key{}, func(k Key) {
			c := k.Canonical()
			if !seen[c] {
				seen[c] = true
				out = append(out, k)
			}
		})
	}
	return out
}

// FirstLevel returns the set of db-keys a Request denotes, without
// requiring level-2/level-3 names to be present.
func (s Schema) FirstLevel(req *Request) []Key {
	var out []Key
	seen := make(map[string]bool)
	for _, r := range s.Rules {
		values := make([][]string, len(r.Level1))
		ok := true
		for i, n := range r.Level1 {
			v, present := req.Values(n)
			if !present {
				ok = false
				break
			}
			values[i] = v
		}
		if !ok {
			continue
		}
		cartesian(r.Level1, values, 0, Key{}, func(k Key) {
			c := k.Canonical()
			if !seen[c] {
				seen[c] = true
				out = append(out, k)
			}
		})
	}
	return out
}

// cartesian recursively builds every combination of values[i] assigned to
// names[i], invoking emit once per complete combination.
func cartesian(names []string, values [][]string, i int, acc Key, emit func(Key)) {
	if i == len(names) {
		emit(acc)
		return
	}
	for _, v := range values[i] {
		next := acc.Clone()
		next.Set(names[i], v)
		cartesian(names, values, i+1, next, emit)
	}
}

// schemaFile is the on-disk YAML shape a SchemaPath file is parsed from: a
// flat list of rules, one stanza per Rule.
type schemaFile struct {
	Rules []struct {
		Level1 []string `yaml:"level1"`
		Level2 []string `yaml:"level2"`
		Level3 []string `yaml:"level3"`
	} `yaml:"rules"`
}

// LoadSchema reads a YAML rule file at path into a Schema, the same
// file-based layering config.go uses for Config.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, ioErr("LoadSchema", err)
	}
	var sf schemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return Schema{}, wrapErr(ErrCorruptToc, "LoadSchema", "invalid yaml: %v", err)
	}
	s := Schema{Rules: make([]Rule, len(sf.Rules))}
	for i, r := range sf.Rules {
		s.Rules[i] = Rule{Level1: r.Level1, Level2: r.Level2, Level3: r.Level3}
	}
	return s, nil
}
