// objectStore is a bucket/object-addressed backend: one directory per
// dbKey acts as the bucket, and every field is written under a freshly
// minted UUID object name rather than a name derived from the field-key,
// matching the requirement that object-store field names never leak
// metadata about the field they hold.
package fdb

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type objectStore struct {
	root string
}

// NewObjectStore returns a Store that writes fields as UUID-named objects
// under root/<bucket>.
func NewObjectStore(root string) Store {
	return &objectStore{root: root}
}

func (s *objectStore) Kind() LocationKind { return LocationObjectStore }

func (s *objectStore) Put(ctx context.Context, dbKey, fieldKey Key, data []byte) (FieldLocation, error) {
	bucket := dbKey.Canonical()
	dir := filepath.Join(s.root, "objects", bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return FieldLocation{}, ioErr("objectStore.Put", err)
	}
	object := uuid.NewString()
	path := filepath.Join(dir, object)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return FieldLocation{}, ioErr("objectStore.Put", err)
	}
	return FieldLocation{
		Kind:   LocationObjectStore,
		Bucket: bucket,
		Object: object,
		Length: int64(len(data)),
	}, nil
}

func (s *objectStore) path(loc FieldLocation) string {
	return filepath.Join(s.root, "objects", loc.Bucket, loc.Object)
}

func (s *objectStore) Get(ctx context.Context, loc FieldLocation) ([]byte, error) {
	data, err := os.ReadFile(s.path(loc))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrapErr(ErrNotFound, "objectStore.Get", "%s/%s", loc.Bucket, loc.Object)
		}
		return nil, ioErr("objectStore.Get", err)
	}
	return data, nil
}

func (s *objectStore) Delete(ctx context.Context, loc FieldLocation) error {
	if err := os.Remove(s.path(loc)); err != nil && !os.IsNotExist(err) {
		return ioErr("objectStore.Delete", err)
	}
	return nil
}

func (s *objectStore) Exists(ctx context.Context, loc FieldLocation) (bool, error) {
	_, err := os.Stat(s.path(loc))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, ioErr("objectStore.Exists", err)
}
