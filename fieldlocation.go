// FieldLocation is the immutable value an Axis/UriStore lookup resolves a
// field-key fingerprint to: where the field's bytes live, as one of a
// closed set of backend kinds, plus an optional remap-key carried through
// when a DB overlays another (mount/remap).
package fdb

import "fmt"

// LocationKind discriminates the FieldLocation tagged union.
type LocationKind int

const (
	LocationLocalFile LocationKind = iota
	LocationObjectStore
	LocationFAM
	LocationRemote
)

func (k LocationKind) String() string {
	switch k {
	case LocationLocalFile:
		return "local"
	case LocationObjectStore:
		return "object"
	case LocationFAM:
		return "fam"
	case LocationRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// FieldLocation identifies exactly where one field's bytes are stored.
// Only the fields relevant to Kind are meaningful; callers should branch on
// Kind rather than inspecting fields directly.
type FieldLocation struct {
	Kind LocationKind

	// Path is the local filesystem path (LocationLocalFile) or the FAM
	// region identifier (LocationFAM).
	Path string

	// Bucket/Object identify an object-store blob (LocationObjectStore),
	// formatted as "<bucket>/<uuid-tagged object name>".
	Bucket string
	Object string

	// Host/Port identify a Remote backend endpoint (LocationRemote).
	Host string
	Port int

	Offset int64
	Length int64

	// RemapKey, if non-empty, is the db-key this location should actually
	// be looked up against — set when the owning DB mounts another DB's
	// data under a different key.
	RemapKey string
}

// URI renders the location the way it would appear in an index's on-disk
// UriStore table.
func (f FieldLocation) URI() string {
	switch f.Kind {
	case LocationLocalFile:
		return fmt.Sprintf("file://%s", f.Path)
	case LocationObjectStore:
		return fmt.Sprintf("object://%s/%s", f.Bucket, f.Object)
	case LocationFAM:
		return fmt.Sprintf("fam://%s", f.Path)
	case LocationRemote:
		return fmt.Sprintf("remote://%s:%d", f.Host, f.Port)
	default:
		return ""
	}
}
