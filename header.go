// TOC file header management.
//
// The header is exactly HeaderSize bytes, JSON-encoded and padded with
// spaces up to a trailing newline, stored at the start of every TOC and
// sub-TOC file. It lets a reopen recognise a dirty (mid-write) file before
// a single record is parsed, without reading the whole file.
package fdb

import (
	"bytes"
	"os"

	json "github.com/goccy/go-json"
)

// HeaderSize is the fixed size of the TOC header in bytes.
const HeaderSize = 128

// TocHeader is the metadata stored at byte 0 of every TOC file.
type TocHeader struct {
	Version   int    `json:"_v"`   // TOC format version (see CurrentTocVersion)
	Error     int    `json:"_e"`   // 0=clean, 1=dirty (crash indicator)
	Algorithm int    `json:"_alg"` // fingerprint hash algorithm (AlgXXHash3/AlgFNV1a/AlgBlake2b)
	Timestamp int64  `json:"_ts"`  // unix milliseconds when the header was last written
	RoundSize int64  `json:"_rs"`  // record padding boundary this file was written with
	DBKey     string `json:"_db"`  // canonical db-key this TOC belongs to
}

// readHeader reads and parses the header from a file.
func readHeader(f *os.File) (*TocHeader, error) {
	buf := make([]byte, HeaderSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	var hdr TocHeader
	if err := json.Unmarshal(bytes.TrimSpace(buf), &hdr); err != nil {
		return nil, ErrCorruptToc
	}
	return &hdr, nil
}

// setDirty sets or clears the dirty flag in an already-written header
// without rewriting the whole HeaderSize block, so a crash mid-write still
// leaves every other header field at its last fsynced value. The flag's
// byte offset is located once from the marshalled header rather than
// hardcoded, since Version's digit count changes its width.
func setDirty(w *os.File, hdr *TocHeader, v bool) error {
	data, err := json.Marshal(hdr)
	if err != nil {
		return err
	}
	i := bytes.Index(data, []byte(`"_e":`))
	if i < 0 {
		return ErrCorruptToc
	}
	offset := int64(i + len(`"_e":`))
	b := byte('0')
	if v {
		b = '1'
	}
	_, err = w.WriteAt([]byte{b}, offset)
	return err
}

// encode serialises the header to exactly HeaderSize bytes with padding.
func (h *TocHeader) encode() ([]byte, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	padLen := HeaderSize - len(data) - 1
	if padLen < 0 {
		return nil, ErrCorruptToc
	}
	buf := make([]byte, HeaderSize)
	copy(buf, data)
	for i := len(data); i < HeaderSize-1; i++ {
		buf[i] = ' '
	}
	buf[HeaderSize-1] = '\n'
	return buf, nil
}
