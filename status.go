// Status reports per-database control state: whether a database is
// currently locked against writes, retrieves, or list operations by one
// of its control markers, without needing to open the full catalogue.
package fdb

import (
	"context"
	"os"
	"path/filepath"
)

// ControlState names the lock markers a database can carry.
type ControlState struct {
	DBKey        Key
	RetrieveLock bool
	ArchiveLock  bool
	ListLock     bool
	WipeLock     bool
}

const (
	retrieveLockFile = ".retrieve_locked"
	archiveLockFile  = ".archive_locked"
	listLockFile     = ".list_locked"
	wipeLockFile     = ".wipe_locked"
)

// Status reads dbKey's control markers from its directory.
func (f *FDB) Status(ctx context.Context, dbKey Key) (ControlState, error) {
	dir := dbDir(f.cfg, dbKey)
	st := ControlState{DBKey: dbKey}
	st.RetrieveLock = markerExists(dir, retrieveLockFile)
	st.ArchiveLock = markerExists(dir, archiveLockFile)
	st.ListLock = markerExists(dir, listLockFile)
	st.WipeLock = markerExists(dir, wipeLockFile)
	return st, nil
}

func markerExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

// SetLock creates or removes one of dbKey's control markers.
func (f *FDB) SetLock(ctx context.Context, dbKey Key, marker string, locked bool) error {
	dir := dbDir(f.cfg, dbKey)
	path := filepath.Join(dir, marker)
	if locked {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ioErr("SetLock", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return ioErr("SetLock", err)
		}
		return f.Close()
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return ioErr("SetLock", err)
	}
	return nil
}

// StatusIterator streams ControlState for every database under the
// archive root whose db-key matches req (or every database, if req is
// nil), for operators auditing lock state across a whole root.
func (f *FDB) StatusIterator(ctx context.Context, req *Request) (<-chan ControlState, <-chan error) {
	out := make(chan ControlState)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		entries, err := os.ReadDir(f.cfg.RootPath)
		if err != nil {
			errc <- ioErr("StatusIterator", err)
			return
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			select {
			case <-ctx.Done():
				errc <- wrapErr(ErrCancelled, "StatusIterator", "context done")
				return
			default:
			}
			dbKey, err := ParseCanonicalKey(e.Name())
			if err != nil {
				continue
			}
			if req != nil && !indexMatchesRequest(dbKey, req) {
				continue
			}
			st, err := f.Status(ctx, dbKey)
			if err != nil {
				continue
			}
			out <- st
		}
	}()

	return out, errc
}
