// Store is the capability interface every bulk-payload backend implements.
// Dispatch is by FieldLocation.Kind rather than a type hierarchy: the FDB
// handle's Archive, Retrieve, Wipe and Purge ask the Store factory for the
// right backend once they know which kind of location they're resolving.
package fdb

import "context"

// Store writes and reads the opaque bytes behind one field. The Catalogue
// never interprets payload bytes; it only ever hands Store a FieldLocation
// and a byte slice.
type Store interface {
	// Kind reports which LocationKind this backend serves.
	Kind() LocationKind

	// Put writes data for dbKey/fieldKey and returns the FieldLocation it
	// was stored at.
	Put(ctx context.Context, dbKey, fieldKey Key, data []byte) (FieldLocation, error)

	// Get reads back the bytes at loc.
	Get(ctx context.Context, loc FieldLocation) ([]byte, error)

	// Delete removes the bytes at loc. Used by Purge once no live index
	// references loc's fingerprint.
	Delete(ctx context.Context, loc FieldLocation) error

	// Exists reports whether loc still has bytes behind it.
	Exists(ctx context.Context, loc FieldLocation) (bool, error)
}

// StoreFactory resolves a LocationKind to its Store implementation for a
// given Config. Built once per FDB handle and shared by every DB it opens.
type StoreFactory struct {
	local  Store
	object Store
	fam    Store
	remote Store
}

// NewStoreFactory builds a factory wired to cfg. The local, object and FAM
// backends are always constructed; the remote backend only when
// cfg.RemoteAddr is set.
func NewStoreFactory(cfg *Config) *StoreFactory {
	f := &StoreFactory{
		local: NewLocalStore(cfg.RootPath),
		fam:   NewFAMStore(),
	}
	f.object = NewObjectStore(cfg.RootPath)
	if cfg.RemoteAddr != "" {
		f.remote = NewRemoteStore(cfg.RemoteAddr)
	}
	return f
}

// For returns the Store implementation for kind, or ErrUnsupported if this
// factory has no backend configured for it.
func (f *StoreFactory) For(kind LocationKind) (Store, error) {
	switch kind {
	case LocationLocalFile:
		return f.local, nil
	case LocationObjectStore:
		return f.object, nil
	case LocationFAM:
		return f.fam, nil
	case LocationRemote:
		if f.remote == nil {
			return nil, wrapErr(ErrUnsupported, "StoreFactory.For", "no remote_addr configured")
		}
		return f.remote, nil
	default:
		return nil, wrapErr(ErrUnsupported, "StoreFactory.For", "unknown location kind %v", kind)
	}
}
