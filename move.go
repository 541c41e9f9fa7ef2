// Move copies a database's TOC and index metadata to a new root, under an
// exclusive flock on the source TOC for the duration of the copy. Wipe and
// Purge do not take this lock.
package fdb

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/wxfdb/fdb/internal/fdblog"
)

// MoveOptions controls a Move call.
type MoveOptions struct {
	// Keep leaves the source TOC and index files in place after a
	// successful copy; without it Move removes them once the destination
	// is durably written.
	Keep bool
}

// MoveReport describes the outcome of a Move call.
type MoveReport struct {
	DBKey       Key
	Destination string
	BytesCopied int64
}

// Move copies dbKey's TOC file to destRoot, preserving its directory
// layout, and removes the source afterward unless opts.Keep is set.
func (f *FDB) Move(ctx context.Context, dbKey Key, destRoot string, opts MoveOptions) (*MoveReport, error) {
	log := fdblog.WithComponent("move")

	if !dbExists(f.cfg, dbKey) {
		return nil, wrapErr(ErrNotFound, "Move", "database %q", dbKey.String())
	}

	cat, err := f.catalogueFor(dbKey)
	if err != nil {
		return nil, err
	}

	// Lock blocks until no other process holds the flock, so a move waits
	// for the TOC to be released rather than aborting when it is already
	// locked. Only a failure of the lock call itself is reported as
	// ErrConflict.
	if err := cat.toc.lock.Lock(LockExclusive); err != nil {
		return nil, wrapErr(ErrConflict, "Move", "index file %q is locked", cat.toc.path)
	}
	defer cat.toc.lock.Unlock()

	srcPath := cat.toc.path
	destDir := filepath.Join(destRoot, dbKey.Canonical())
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, ioErr("Move", err)
	}
	destPath := filepath.Join(destDir, "toc")

	n, err := copyFile(srcPath, destPath)
	if err != nil {
		return nil, err
	}

	report := &MoveReport{DBKey: dbKey, Destination: destPath, BytesCopied: n}

	if !opts.Keep {
		f.mu.Lock()
		delete(f.catalogues, dbKey.Canonical())
		f.mu.Unlock()
		cat.Close()
		if err := os.Remove(srcPath); err != nil && !os.IsNotExist(err) {
			return report, ioErr("Move", err)
		}
	}

	log.Info().Str("db_key", dbKey.String()).Str("dest", destPath).Int64("bytes", n).Msg("move complete")
	return report, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, ioErr("copyFile", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, ioErr("copyFile", err)
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return n, ioErr("copyFile", err)
	}
	return n, out.Sync()
}
