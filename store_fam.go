// famStore is a placeholder for a fabric-attached-memory backend: regions
// are addressed but never actually mapped, since this build has no
// region-attach primitive to exercise. Every operation fails with
// ErrUnsupported until one is wired in; the FieldLocation shape (Path
// holding the region identifier) is already final so a real
// implementation only needs to fill in these four methods.
package fdb

import "context"

type famStore struct{}

// NewFAMStore returns a Store stub for the FAM backend.
func NewFAMStore() Store {
	return &famStore{}
}

func (s *famStore) Kind() LocationKind { return LocationFAM }

func (s *famStore) Put(ctx context.Context, dbKey, fieldKey Key, data []byte) (FieldLocation, error) {
	return FieldLocation{}, wrapErr(ErrUnsupported, "famStore.Put", "fam backend not available")
}

func (s *famStore) Get(ctx context.Context, loc FieldLocation) ([]byte, error) {
	return nil, wrapErr(ErrUnsupported, "famStore.Get", "fam backend not available")
}

func (s *famStore) Delete(ctx context.Context, loc FieldLocation) error {
	return wrapErr(ErrUnsupported, "famStore.Delete", "fam backend not available")
}

func (s *famStore) Exists(ctx context.Context, loc FieldLocation) (bool, error) {
	return false, wrapErr(ErrUnsupported, "famStore.Exists", "fam backend not available")
}
