// Toc is an open table-of-contents file: the append-only log of INIT,
// INDEX, CLEAR, and SUB_TOC records that makes up one database's (or one
// writer's private sub-TOC's) durable state. Opening a Toc replays every
// record in file order to rebuild the in-memory index set; writing to it
// only ever appends.
package fdb

import (
	"os"
	"sort"
	"sync"
)

// Toc is a primary or sub TOC file, open for read and/or append.
type Toc struct {
	mu sync.RWMutex

	path   string
	writer *os.File
	header *TocHeader
	tail   int64
	round  int64
	config *Config

	gid      uint32
	uid      uint32
	hostname [64]byte

	lock *fileLock

	dbKey      Key
	schema     Schema
	isSubToc   bool
	creatorUid uint32

	// indexes maps an index-key's Canonical string to its most recently
	// flushed Index. Re-archiving into the same index-key overwrites this
	// entry in place rather than accumulating a second live copy, so at
	// most one Index is ever live per (db-key, index-key) both within a
	// session and after a reopen replays the log in file order.
	indexes map[string]*Index

	// indexOrder records each index-key's first-seen position, the
	// append order loadIndexes(sorted=false) walks in reverse.
	indexOrder []string

	// subTocs lists every SUB_TOC record seen, in file order, along with
	// the offset of the SUB_TOC record itself so Consolidate can CLEAR
	// the reference once its contents are absorbed.
	subTocs []subTocRef

	// maskedOffsets records every (path, offset) a CLEAR record has
	// masked, keyed the way ClearPayload names it. path is always the
	// toc file the masked record itself lives in.
	maskedOffsets map[string]bool

	maskAll bool // set once a CLEAR record with MaskAllPath is seen
}

// subTocRef is one SUB_TOC record: the child toc's path and the offset of
// the reference record itself within the parent.
type subTocRef struct {
	Path   string
	Offset int64
}

// CreateToc creates a brand-new TOC file at path for dbKey under schema,
// writing the initial INIT record.
func CreateToc(path string, dbKey Key, schema Schema, isSubToc bool, cfg *Config) (*Toc, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, ioErr("CreateToc", err)
	}

	hdr := &TocHeader{
		Version:   CurrentTocVersion,
		Algorithm: cfg.HashAlgorithm,
		RoundSize: cfg.RoundTocRecords,
		DBKey:     dbKey.Canonical(),
	}
	hdrBytes, err := hdr.encode()
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.WriteAt(hdrBytes, 0); err != nil {
		f.Close()
		return nil, ioErr("CreateToc", err)
	}

	t := &Toc{
		path:          path,
		writer:        f,
		header:        hdr,
		tail:          HeaderSize,
		round:         cfg.RoundTocRecords,
		config:        cfg,
		gid:           uint32(os.Getgid()),
		uid:           uint32(os.Getuid()),
		creatorUid:    uint32(os.Getuid()),
		dbKey:         dbKey,
		schema:        schema.Clone(),
		isSubToc:      isSubToc,
		indexes:       make(map[string]*Index),
		maskedOffsets: make(map[string]bool),
		lock:          &fileLock{},
	}
	t.lock.setFile(f)
	hn, _ := os.Hostname()
	copy(t.hostname[:], hn)

	if _, err := t.appendRecord(TagInit, &InitPayload{
		DBKey:    dbKey.Canonical(),
		IsSubToc: isSubToc,
	}); err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

// OpenToc opens an existing TOC file and replays its records to rebuild
// in-memory state.
func OpenToc(path string, cfg *Config) (*Toc, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, ioErr("OpenToc", err)
	}

	hdr, err := readHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if !SupportedTocVersions[byte(hdr.Version)] {
		f.Close()
		return nil, wrapErr(ErrTocVersionMismatch, "OpenToc", "version %d", hdr.Version)
	}

	round := hdr.RoundSize
	if round <= 0 {
		round = DefaultRecordRoundSize
	}

	t := &Toc{
		path:          path,
		writer:        f,
		header:        hdr,
		tail:          size(f),
		round:         round,
		config:        cfg,
		gid:           uint32(os.Getgid()),
		uid:           uint32(os.Getuid()),
		indexes:       make(map[string]*Index),
		maskedOffsets: make(map[string]bool),
		lock:          &fileLock{},
	}
	t.lock.setFile(f)
	hn, _ := os.Hostname()
	copy(t.hostname[:], hn)

	if err := t.replay(); err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

// replay reads every record from HeaderSize to the tail, rebuilding
// t.dbKey, t.indexes, t.subTocs, and mask state. CLEAR records are
// applied regardless of where in the file they appear relative to the
// record they mask, since masking is keyed by (path, offset) rather than
// by position. Processing records in file order means a later INDEX
// record for an index-key already seen simply overwrites the earlier
// one, reconstructing last-write-wins without any extra bookkeeping.
func (t *Toc) replay() error {
	return scanRecords(t.writer, HeaderSize, t.round, func(offset int64, rec Record) bool {
		switch p := rec.Payload.(type) {
		case *InitPayload:
			t.dbKey, _ = ParseCanonicalKey(p.DBKey)
			t.isSubToc = p.IsSubToc
			t.creatorUid = rec.Header.Uid
		case *IndexPayload:
			indexKey, kerr := ParseCanonicalKey(p.IndexKey)
			if kerr != nil {
				return true
			}
			ix, err := DecodeIndex(indexKey, p.Path, p.Offset, p.Blob)
			if err == nil {
				t.putIndex(ix)
			}
		case *ClearPayload:
			if p.Path == MaskAllPath {
				t.maskAll = true
			} else {
				t.maskedOffsets[maskKey(p.Path, p.Offset)] = true
			}
		case *SubTocPayload:
			t.subTocs = append(t.subTocs, subTocRef{Path: p.Path, Offset: offset})
		}
		return true
	})
}

// putIndex registers ix as the live entry for its index-key, overwriting
// whatever was there before. Caller must hold t.mu for writing, or be
// inside replay() before any other goroutine can see t.
func (t *Toc) putIndex(ix *Index) {
	canon := ix.IndexKey.Canonical()
	if _, exists := t.indexes[canon]; !exists {
		t.indexOrder = append(t.indexOrder, canon)
	}
	t.indexes[canon] = ix
}

func maskKey(path string, offset int64) string {
	return path + ":" + itoa(offset)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// AppendIndex writes a new INDEX record for ix and registers it as the
// live entry for its index-key, superseding any earlier record for the
// same index-key without needing a separate CLEAR.
func (t *Toc) AppendIndex(ix *Index) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	blob, err := ix.Encode()
	if err != nil {
		return 0, err
	}
	offset, err := t.appendRecord(TagIndex, &IndexPayload{
		Path:      t.path,
		Offset:    t.tail,
		IndexType: "btree",
		IndexKey:  ix.IndexKey.Canonical(),
		Blob:      blob,
	})
	if err != nil {
		return 0, err
	}
	ix.Path = t.path
	ix.Offset = offset
	t.putIndex(ix)
	return offset, nil
}

// AppendSubToc registers a writer's private sub-TOC at path.
func (t *Toc) AppendSubToc(path string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	offset, err := t.appendRecord(TagSubToc, &SubTocPayload{Path: path})
	if err == nil {
		t.subTocs = append(t.subTocs, subTocRef{Path: path, Offset: offset})
	}
	return offset, err
}

// AppendClear masks the record at (path, offset).
func (t *Toc) AppendClear(path string, offset int64) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	recOffset, err := t.appendRecord(TagClear, &ClearPayload{Path: path, Offset: offset})
	if err == nil {
		t.maskedOffsets[maskKey(path, offset)] = true
	}
	return recOffset, err
}

// AppendClearAll masks every prior record in this TOC, used by Hide.
func (t *Toc) AppendClearAll() (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	offset, err := t.appendRecord(TagClear, &ClearPayload{Path: MaskAllPath, Offset: 0})
	if err == nil {
		t.maskAll = true
	}
	return offset, err
}

// Indexes returns every live (unmasked) index in this TOC plus every
// index reachable by following its live SUB_TOC references, in reverse
// append order (the most recently archived index-key first), matching
// the reader algorithm's loadIndexes(sorted=false).
func (t *Toc) Indexes() []*Index {
	return t.indexesOrdered(false)
}

// SortedIndexes returns the same live index set as Indexes, ordered
// ascending by (path, offset), matching loadIndexes(sorted=true).
func (t *Toc) SortedIndexes() []*Index {
	return t.indexesOrdered(true)
}

func (t *Toc) indexesOrdered(sorted bool) []*Index {
	t.mu.RLock()
	if t.maskAll {
		t.mu.RUnlock()
		return nil
	}
	own := make([]*Index, 0, len(t.indexOrder))
	for _, canon := range t.indexOrder {
		ix := t.indexes[canon]
		if t.maskedOffsets[maskKey(ix.Path, ix.Offset)] {
			continue
		}
		own = append(own, ix)
	}
	subPaths := t.liveSubTocPathsLocked()
	cfg := t.config
	t.mu.RUnlock()

	seen := make(map[string]bool, len(own))
	for _, ix := range own {
		seen[ix.IndexKey.Canonical()] = true
	}

	// Follow every live SUB_TOC reference by recursively opening the
	// referenced toc, splicing in whatever it hasn't already been
	// superseded by directly in this toc.
	var spliced []*Index
	for _, path := range subPaths {
		sub, err := OpenToc(path, cfg)
		if err != nil {
			continue // missing/corrupt sub-toc: skip, leave reference in place
		}
		for _, ix := range sub.Indexes() {
			canon := ix.IndexKey.Canonical()
			if seen[canon] {
				continue
			}
			seen[canon] = true
			spliced = append(spliced, ix)
		}
		sub.Close()
	}

	if sorted {
		all := make([]*Index, 0, len(own)+len(spliced))
		all = append(all, own...)
		all = append(all, spliced...)
		sort.Slice(all, func(i, j int) bool {
			if all[i].Path != all[j].Path {
				return all[i].Path < all[j].Path
			}
			return all[i].Offset < all[j].Offset
		})
		return all
	}

	out := make([]*Index, 0, len(own)+len(spliced))
	for i := len(own) - 1; i >= 0; i-- {
		out = append(out, own[i])
	}
	out = append(out, spliced...)
	return out
}

func (t *Toc) liveSubTocPathsLocked() []string {
	out := make([]string, 0, len(t.subTocs))
	for _, ref := range t.subTocs {
		if t.maskedOffsets[maskKey(t.path, ref.Offset)] {
			continue
		}
		out = append(out, ref.Path)
	}
	return out
}

// SubTocPaths returns every live (unmasked) SUB_TOC reference.
func (t *Toc) SubTocPaths() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.maskAll {
		return nil
	}
	return t.liveSubTocPathsLocked()
}

// subTocOffset returns the offset of the live SUB_TOC record referencing
// path, so Consolidate can CLEAR exactly that reference.
func (t *Toc) subTocOffset(path string) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, ref := range t.subTocs {
		if ref.Path != path {
			continue
		}
		if t.maskedOffsets[maskKey(t.path, ref.Offset)] {
			continue
		}
		return ref.Offset, true
	}
	return 0, false
}

// DBKey returns the database key this TOC belongs to.
func (t *Toc) DBKey() Key {
	return t.dbKey
}

// CreatorUid returns the uid that wrote this TOC's INIT record.
func (t *Toc) CreatorUid() uint32 {
	return t.creatorUid
}

// Close flushes the clean-shutdown flag and closes the underlying file.
func (t *Toc) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.header.Error != 0 {
		t.header.Error = 0
		setDirty(t.writer, t.header, false)
	}
	t.lock.setFile(nil)
	return t.writer.Close()
}
