// Low-level read operations for TOC record access.
//
// Records are fixed-header-plus-payload, padded to a RoundSize boundary, so
// a reader never needs to scan for a delimiter: the next record always
// starts at offset + roundUp(RecordHeaderSize+Size, RoundSize).
package fdb

import (
	"encoding/binary"
	"io"
	"os"
)

// readRecordHeaderAt reads and decodes the fixed header at offset.
func readRecordHeaderAt(f *os.File, offset int64) (RecordHeader, error) {
	buf := make([]byte, RecordHeaderSize)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return RecordHeader{}, err
	}
	return decodeRecordHeader(buf)
}

// readRecordAt reads the full record (header and decoded payload) at
// offset, and returns the offset of the following record.
func readRecordAt(f *os.File, offset, round int64) (Record, int64, error) {
	hdr, err := readRecordHeaderAt(f, offset)
	if err != nil {
		return Record{}, 0, err
	}
	payloadBuf := make([]byte, hdr.Size)
	if hdr.Size > 0 {
		if _, err := f.ReadAt(payloadBuf, offset+RecordHeaderSize); err != nil {
			return Record{}, 0, err
		}
	}
	payload, err := decodePayload(hdr.Tag, payloadBuf)
	if err != nil {
		return Record{}, 0, err
	}
	next := offset + roundUp(RecordHeaderSize+int64(hdr.Size), round)
	return Record{Header: hdr, Payload: payload}, next, nil
}

// decodeRecordHeader unpacks RecordHeaderSize bytes into a RecordHeader.
// The on-disk layout is fixed-width little-endian so the tag byte at
// offset 0 can classify a record without decoding anything past it.
func decodeRecordHeader(buf []byte) (RecordHeader, error) {
	if len(buf) < RecordHeaderSize {
		return RecordHeader{}, io.ErrUnexpectedEOF
	}
	var h RecordHeader
	h.Tag = Tag(buf[0])
	h.Version = buf[1]
	// buf[2:4] reserved
	h.FdbVersion = binary.LittleEndian.Uint32(buf[4:8])
	h.TvSec = binary.LittleEndian.Uint64(buf[8:16])
	h.TvUsec = binary.LittleEndian.Uint64(buf[16:24])
	h.Gid = binary.LittleEndian.Uint32(buf[24:28])
	h.Uid = binary.LittleEndian.Uint32(buf[28:32])
	copy(h.Hostname[:], buf[32:96])
	h.Size = binary.LittleEndian.Uint64(buf[96:104])
	if !SupportedTocVersions[h.Version] {
		return h, wrapErr(ErrTocVersionMismatch, "decodeRecordHeader", "version %d", h.Version)
	}
	return h, nil
}

// encodeRecordHeader packs a RecordHeader into RecordHeaderSize bytes.
func encodeRecordHeader(h RecordHeader) []byte {
	buf := make([]byte, RecordHeaderSize)
	buf[0] = byte(h.Tag)
	buf[1] = h.Version
	binary.LittleEndian.PutUint32(buf[4:8], h.FdbVersion)
	binary.LittleEndian.PutUint64(buf[8:16], h.TvSec)
	binary.LittleEndian.PutUint64(buf[16:24], h.TvUsec)
	binary.LittleEndian.PutUint32(buf[24:28], h.Gid)
	binary.LittleEndian.PutUint32(buf[28:32], h.Uid)
	copy(buf[32:96], h.Hostname[:])
	binary.LittleEndian.PutUint64(buf[96:104], h.Size)
	return buf
}

// size returns the file size in bytes.
func size(f *os.File) int64 {
	info, _ := f.Stat()
	return info.Size()
}

// position returns the current file position.
func position(f *os.File) int64 {
	pos, _ := f.Seek(0, io.SeekCurrent)
	return pos
}
