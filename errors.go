// Package fdb implements the core of a write-once, content-addressed field
// archive keyed by meteorological metadata: a Catalogue (metadata index)
// separated from a Store (opaque bulk payload), an append-only table-of-
// contents log with a lock-free sub-TOC protocol for concurrent writers,
// and the wipe/purge lifecycle that keeps both sides consistent.
package fdb

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by archive operations. Callers compare with
// errors.Is; call sites wrap with context via fmt.Errorf("%w: ...", ...).
var (
	// ErrSchemaMismatch is returned when no schema rule covers a key, or a
	// database's stored schema differs from one supplied to Create.
	ErrSchemaMismatch = errors.New("fdb: schema mismatch")

	// ErrNotFound is returned when a DB, index, or field is absent.
	ErrNotFound = errors.New("fdb: not found")

	// ErrAccessDenied is returned when a write is attempted by a user other
	// than the DB's creator under fdbOnlyCreatorCanWrite.
	ErrAccessDenied = errors.New("fdb: access denied")

	// ErrConflict is returned when a DB is locked against the requested
	// action by one of its control markers.
	ErrConflict = errors.New("fdb: conflict")

	// ErrUncleanDatabase is returned when a full wipe is requested but
	// unrecognised files remain and unsafeWipeAll was not set.
	ErrUncleanDatabase = errors.New("fdb: unclean database")

	// ErrTocVersionMismatch is returned when a TOC record's version is not
	// in the set of versions this build understands.
	ErrTocVersionMismatch = errors.New("fdb: toc version mismatch")

	// ErrCancelled is returned to a lazy-iteration consumer whose producer
	// was interrupted (e.g. the consumer stopped ranging early).
	ErrCancelled = errors.New("fdb: cancelled")

	// ErrIo wraps underlying file, object-store, or socket errors.
	ErrIo = errors.New("fdb: io error")

	// ErrUnsupported is returned by a capability-gated backend method that
	// has no implementation for this engine (FAM before a region-attach
	// primitive exists, a Remote method outside the wire contract, ...).
	ErrUnsupported = errors.New("fdb: unsupported")

	// ErrClosed names the closed-handle condition. No operation in this
	// package returns it; calls on a closed FDB handle are not checked.
	ErrClosed = errors.New("fdb: closed")

	// ErrExists is returned by operations that must not overwrite an
	// existing entity (e.g. adopting an index path already registered).
	ErrExists = errors.New("fdb: already exists")

	// ErrCorruptToc is returned when a TOC header or record cannot be
	// parsed at all (as opposed to ErrTocVersionMismatch, which parses
	// fine but names an unsupported version).
	ErrCorruptToc = errors.New("fdb: corrupt toc")

	// ErrDecompress is returned when an index metadata blob fails to
	// decompress (bad ascii85 framing or a corrupt zstd stream).
	ErrDecompress = errors.New("fdb: decompress failed")
)

// wrapErr formats a sentinel with call-site context and a formatted message,
// rather than wrapping an already-built underlying error.
func wrapErr(sentinel error, op, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, sentinel, fmt.Sprintf(format, args...))
}

// ioErr wraps an underlying I/O error with ErrIo and call-site context.
func ioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrIo, err)
}
