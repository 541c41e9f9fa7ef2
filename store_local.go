// LocalFileStore writes one file per field under the database's directory
// in the archive root, named by the field-key's own canonical form so a Wipe/Purge pass
// can relate an on-disk path back to the key that produced it without
// consulting the catalogue.
package fdb

import (
	"context"
	"os"
	"path/filepath"
)

type localFileStore struct {
	root string
}

// NewLocalStore returns a Store that writes fields to files under root.
func NewLocalStore(root string) Store {
	return &localFileStore{root: root}
}

func (s *localFileStore) Kind() LocationKind { return LocationLocalFile }

func (s *localFileStore) Put(ctx context.Context, dbKey, fieldKey Key, data []byte) (FieldLocation, error) {
	dir := filepath.Join(s.root, dbKey.Canonical())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return FieldLocation{}, ioErr("localFileStore.Put", err)
	}
	path := filepath.Join(dir, fieldKey.Canonical())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return FieldLocation{}, ioErr("localFileStore.Put", err)
	}
	return FieldLocation{Kind: LocationLocalFile, Path: path, Length: int64(len(data))}, nil
}

func (s *localFileStore) Get(ctx context.Context, loc FieldLocation) ([]byte, error) {
	data, err := os.ReadFile(loc.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrapErr(ErrNotFound, "localFileStore.Get", "%s", loc.Path)
		}
		return nil, ioErr("localFileStore.Get", err)
	}
	return data, nil
}

func (s *localFileStore) Delete(ctx context.Context, loc FieldLocation) error {
	if err := os.Remove(loc.Path); err != nil && !os.IsNotExist(err) {
		return ioErr("localFileStore.Delete", err)
	}
	return nil
}

func (s *localFileStore) Exists(ctx context.Context, loc FieldLocation) (bool, error) {
	_, err := os.Stat(loc.Path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, ioErr("localFileStore.Exists", err)
}
