// TOC record tags and the fixed-layout record header.
//
// Every record in a TOC (or sub-TOC) file is a fixed-size binary header
// followed by a tag-specific payload, the whole padded to a configurable
// record-round-size boundary (default 1024 bytes) so a reader can always
// find the next record without parsing the current one's payload. The tag
// lives at a known byte offset (0) so a scanner can classify a record
// without touching its payload, the same fixed-offset trick used to
// classify log-record lines by their type character without parsing them.
package fdb

import (
	json "github.com/goccy/go-json"
)

// Tag identifies the kind of TOC record.
type Tag byte

const (
	TagInit   Tag = 1
	TagIndex  Tag = 2
	TagClear  Tag = 3
	TagSubToc Tag = 4
)

func (t Tag) String() string {
	switch t {
	case TagInit:
		return "INIT"
	case TagIndex:
		return "INDEX"
	case TagClear:
		return "CLEAR"
	case TagSubToc:
		return "SUB_TOC"
	default:
		return "UNKNOWN"
	}
}

// CurrentTocVersion is the only TOC record version this build writes.
// RecordHeader.Version is checked against SupportedTocVersions on read.
const CurrentTocVersion = 1

// SupportedTocVersions lists every version this build can still read.
var SupportedTocVersions = map[byte]bool{1: true}

// DefaultRecordRoundSize is the record padding boundary used when a
// Config doesn't set RoundTocRecords.
const DefaultRecordRoundSize = 1024

// formatVersion is stamped into every record's RecordHeader.FdbVersion. It
// identifies the on-disk record format (distinct from CurrentTocVersion,
// which is the TOC header's own version), bumped only if the record layout
// itself changes.
const formatVersion uint32 = 1

// RecordHeaderSize is the on-disk size of RecordHeader, computed field by
// field: tag u8, version u8, reserved[2], fdb_version u32, tv_sec u64,
// tv_usec u64, gid u32, uid u32, hostname char[64], size u64 =
// 1+1+2+4+8+8+4+4+64+8 = 104 bytes.
const RecordHeaderSize = 104

// RecordHeader is the fixed-layout prefix of every TOC record.
type RecordHeader struct {
	Tag        Tag
	Version    byte
	FdbVersion uint32
	TvSec      uint64
	TvUsec     uint64
	Gid        uint32
	Uid        uint32
	Hostname   [64]byte
	Size       uint64 // length of the payload that follows, before padding
}

// Record is a full TOC record: fixed header plus its decoded payload.
type Record struct {
	Header  RecordHeader
	Payload any // *InitPayload | *IndexPayload | *ClearPayload | *SubTocPayload
}

// InitPayload is the TagInit payload: identifies the DB and whether this
// TOC is a primary TOC or a writer's private sub-TOC.
type InitPayload struct {
	DBKey     string `json:"db_key"`
	IsSubToc  bool   `json:"is_sub_toc"`
	ParentKey string `json:"parent_key,omitempty"` // set when this DB overlays another (mount/remap)
	RemapKey  string `json:"remap_key,omitempty"`
}

// IndexPayload is the TagIndex payload: where the index lives plus its
// serialized Axis/UriStore/B-tree metadata. Blob is the zstd+ascii85-
// compressed serialization produced by index.go's encode, generalising
// per-document history compression (see compress.go) to per-index metadata.
type IndexPayload struct {
	Path      string `json:"path"`
	Offset    int64  `json:"offset"`
	IndexType string `json:"index_type"`
	IndexKey  string `json:"index_key"`
	Blob      string `json:"blob"`
}

// ClearPayload is the TagClear payload: masks a prior INDEX or SUB_TOC
// record identified by (path, offset). The sentinel path "*" with offset 0
// masks every record appearing strictly before it in read order.
type ClearPayload struct {
	Path   string `json:"path"`
	Offset int64  `json:"offset"`
}

// MaskAllPath is the sentinel ClearPayload.Path that masks every prior
// record in the TOC (used by Hide).
const MaskAllPath = "*"

// SubTocPayload is the TagSubToc payload: path to a sibling TOC whose
// records are conceptually spliced in at this point.
type SubTocPayload struct {
	Path string `json:"path"`
}

// encodePayload JSON-marshals a tag-specific payload. The header is a
// binary, fixed-offset layout so scanners never need to parse the payload
// to skip a record; the payload itself carries no such requirement, so
// goccy/go-json keeps it consistent with the rest of the package's
// metadata encoding (Key, Config) rather than hand-rolling a second binary
// format.
func encodePayload(p any) ([]byte, error) {
	return json.Marshal(p)
}

func decodePayload(tag Tag, data []byte) (any, error) {
	switch tag {
	case TagInit:
		var p InitPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case TagIndex:
		var p IndexPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case TagClear:
		var p ClearPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case TagSubToc:
		var p SubTocPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	default:
		return nil, wrapErr(ErrTocVersionMismatch, "decodePayload", "unknown tag %d", tag)
	}
}

// roundUp returns n rounded up to the next multiple of round.
func roundUp(n, round int64) int64 {
	if round <= 0 {
		return n
	}
	rem := n % round
	if rem == 0 {
		return n
	}
	return n + (round - rem)
}
