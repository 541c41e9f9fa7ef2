// Sequential scan of TOC records.
//
// TOC files are append-only and not key-sorted on disk — history order
// matters (later CLEAR/SUB_TOC records mask earlier ones), so reconstructing
// in-memory state always means reading every record from the start in
// order. This generalises a forward linear scan over newline-delimited
// records to fixed-size, round-padded records instead: the next record's
// offset is now arithmetic instead of a delimiter search.
package fdb

import (
	"errors"
	"io"
	"os"
)

// scanRecords walks every record in f from start to EOF, in file order,
// invoking visit with each record's offset and decoded contents. Stops
// early if visit returns false. A record whose header fails to decode
// (a torn trailing write after a crash) ends the scan without an error.
func scanRecords(f *os.File, start, round int64, visit func(offset int64, rec Record) bool) error {
	end := size(f)
	offset := start
	for offset < end {
		rec, next, err := readRecordAt(f, offset, round)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			if errors.Is(err, ErrTocVersionMismatch) {
				return err
			}
			return nil
		}
		if !visit(offset, rec) {
			return nil
		}
		offset = next
	}
	return nil
}

// lastOffsetWithTag returns the offset of the last record with the given
// tag at or before end, or -1 if none exists.
func lastOffsetWithTag(f *os.File, round int64, tag Tag, end int64) int64 {
	found := int64(-1)
	scanRecords(f, HeaderSize, round, func(offset int64, rec Record) bool {
		if offset >= end {
			return false
		}
		if rec.Header.Tag == tag {
			found = offset
		}
		return true
	})
	return found
}
