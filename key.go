// Key is the ordered metadata tuple that identifies a field, an index, or a
// database. Insertion order is significant: it is preserved on iteration and
// used to build the canonical string representation that other parts of the
// package (fingerprint hashing, directory naming) depend on.
package fdb

import "strings"

// pair is one (name, value) entry of a Key, kept in insertion order.
type pair struct {
	name  string
	value string
}

// Key is an ordered sequence of unique (name, value) pairs. The zero value
// is an empty key. Keys are small (a handful of pairs) so a slice backing
// store with linear lookup is simpler and faster than a map for the sizes
// FDB actually sees.
type Key struct {
	pairs []pair
}

// NewKey builds a Key from name/value pairs supplied in order.
func NewKey(pairs ...[2]string) Key {
	k := Key{pairs: make([]pair, 0, len(pairs))}
	for _, p := range pairs {
		k.Set(p[0], p[1])
	}
	return k
}

// Set assigns name=value, appending a new pair if name is not already
// present, or overwriting in place (preserving original position) if it is.
func (k *Key) Set(name, value string) {
	for i := range k.pairs {
		if k.pairs[i].name == name {
			k.pairs[i].value = value
			return
		}
	}
	k.pairs = append(k.pairs, pair{name, value})
}

// Get returns the value for name and whether it was present.
func (k Key) Get(name string) (string, bool) {
	for _, p := range k.pairs {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

// Has reports whether name is present in the key.
func (k Key) Has(name string) bool {
	_, ok := k.Get(name)
	return ok
}

// Names returns the key's names in insertion order.
func (k Key) Names() []string {
	out := make([]string, len(k.pairs))
	for i, p := range k.pairs {
		out[i] = p.name
	}
	return out
}

// Len returns the number of pairs in the key.
func (k Key) Len() int { return len(k.pairs) }

// Clone returns an independent copy of k.
func (k Key) Clone() Key {
	out := Key{pairs: make([]pair, len(k.pairs))}
	copy(out.pairs, k.pairs)
	return out
}

// Merge returns a new Key with other's pairs applied on top of k (existing
// names are overwritten in place, new names are appended in other's order).
func (k Key) Merge(other Key) Key {
	out := k.Clone()
	for _, p := range other.pairs {
		out.Set(p.name, p.value)
	}
	return out
}

// Sub returns the subset of k restricted to the given names, in the order
// names is given (not k's insertion order) — used by Schema to carve a
// full key into level sub-keys per the rule's declared name order.
func (k Key) Sub(names ...string) (Key, bool) {
	out := Key{pairs: make([]pair, 0, len(names))}
	for _, n := range names {
		v, ok := k.Get(n)
		if !ok {
			return Key{}, false
		}
		out.pairs = append(out.pairs, pair{n, v})
	}
	return out, true
}

// Canonical returns the order- and value-sensitive string form of the key,
// used as the B-tree fingerprint and as the directory-name component for
// the local store backend. Two keys with the same pairs in the same order
// produce identical strings; reordering pairs changes the Canonical string
// even though the underlying metadata is "the same" conceptually. Key
// equality is order-sensitive by design.
func (k Key) Canonical() string {
	var b strings.Builder
	for i, p := range k.pairs {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(p.name)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}

// ParseCanonicalKey parses a string produced by Canonical back into a Key,
// the inverse operation Stats and StatusIterator need to recover a db-key
// from a directory name on disk.
func ParseCanonicalKey(s string) (Key, error) {
	var k Key
	if s == "" {
		return k, nil
	}
	for _, part := range strings.Split(s, ":") {
		i := strings.IndexByte(part, '=')
		if i < 0 {
			return Key{}, wrapErr(ErrSchemaMismatch, "ParseCanonicalKey", "malformed pair %q", part)
		}
		k.Set(part[:i], part[i+1:])
	}
	return k, nil
}

// Equal reports whether k and other have identical pairs in identical order.
func (k Key) Equal(other Key) bool {
	if len(k.pairs) != len(other.pairs) {
		return false
	}
	for i := range k.pairs {
		if k.pairs[i] != other.pairs[i] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer using the mars-style request form
// (k1=v1,k2=v2) accepted by the CLI. It differs from Canonical, which
// separates pairs with ':' instead of ','.
func (k Key) String() string {
	var b strings.Builder
	for i, p := range k.pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.name)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}
