// Hash algorithm implementations for field-key fingerprints.
//
// Every field-key resolves to a 16 hex character fingerprint used as the
// lookup key of an index's UriStore. Three algorithms are
// supported, selectable via Config.HashAlgorithm and recorded in the TOC
// header so a reopen uses the same one the index was built with.
package fdb

import (
	"fmt"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants, stored in TocHeader.Algorithm.
const (
	AlgXXHash3 = 1 // default, fastest
	AlgFNV1a   = 2 // no external dependencies
	AlgBlake2b = 3 // best distribution
)

// fingerprint generates a 16 hex character fingerprint from a field-key's
// canonical string using the specified algorithm.
func fingerprint(canonical string, alg int) string {
	switch alg {
	case AlgXXHash3:
		h := xxh3.HashString(canonical)
		return fmt.Sprintf("%016x", h)
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write([]byte(canonical))
		return fmt.Sprintf("%016x", h.Sum64())
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write([]byte(canonical))
		return fmt.Sprintf("%016x", h.Sum(nil))
	default:
		return ""
	}
}
