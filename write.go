// Write operations for appending and modifying TOC records.
//
// All write operations use the Toc's writer handle and track the tail
// offset. The dirty flag is set on first write and cleared on clean Close.
package fdb

import "time"

// rawAppend writes a fully-encoded, already-padded record block to the end
// of the file. Sets the dirty flag on first write. Returns the offset the
// record was written at.
func (t *Toc) rawAppend(block []byte) (int64, error) {
	if t.header.Error == 0 {
		t.header.Error = 1
		setDirty(t.writer, t.header, true)
	}

	offset := t.tail
	if _, err := t.writer.WriteAt(block, offset); err != nil {
		return 0, ioErr("rawAppend", err)
	}
	t.tail += int64(len(block))

	if t.config.SyncWrites {
		t.writer.Sync()
	}
	return offset, nil
}

// appendRecord encodes tag+payload into a header-prefixed, round-padded
// block and appends it. Returns the record's offset (not the header's
// padded end) for use as a ClearPayload/IndexPayload back-reference.
func (t *Toc) appendRecord(tag Tag, payload any) (int64, error) {
	data, err := encodePayload(payload)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	hdr := RecordHeader{
		Tag:        tag,
		Version:    CurrentTocVersion,
		FdbVersion: formatVersion,
		TvSec:      uint64(now.Unix()),
		TvUsec:     uint64(now.Nanosecond() / 1000),
		Gid:        t.gid,
		Uid:        t.uid,
		Size:       uint64(len(data)),
	}
	copy(hdr.Hostname[:], t.hostname)

	block := make([]byte, 0, roundUp(RecordHeaderSize+int64(len(data)), t.round))
	block = append(block, encodeRecordHeader(hdr)...)
	block = append(block, data...)
	padded := roundUp(int64(len(block)), t.round)
	if pad := padded - int64(len(block)); pad > 0 {
		block = append(block, make([]byte, pad)...)
	}

	return t.rawAppend(block)
}

// writeAt overwrites at a specific position. Does not affect tail. Nothing
// in this package calls it: every TOC change, Hide's included, is appended
// as a new record rather than written over history.
func (t *Toc) writeAt(offset int64, data []byte) error {
	if _, err := t.writer.WriteAt(data, offset); err != nil {
		return ioErr("writeAt", err)
	}
	if t.config.SyncWrites {
		t.writer.Sync()
	}
	return nil
}
