// Index is the in-memory B-tree-like structure backing one INDEX TOC
// record: an Axis per field-key name (the distinct values seen) plus a
// UriStore mapping field-key fingerprints to FieldLocations. Serialized
// as a zstd+ascii85 blob embedded in the record's payload (see
// IndexPayload.Blob and compress.go).
package fdb

import (
	json "github.com/goccy/go-json"
)

// Index holds the field-level lookup structures for one (db-key,
// index-key) pair.
type Index struct {
	IndexKey  Key
	Path      string
	Offset    int64
	Alg       int
	Axes      map[string]*Axis
	Store     *UriStore
	Duplicate bool // set during Purge when every fingerprint here also lives in a more recent live index

	negative *bloom // negative-lookup cache over fingerprints inserted this session
}

// NewIndex returns an empty index for indexKey, using alg to fingerprint
// field-keys inserted into it.
func NewIndex(indexKey Key, alg int) *Index {
	return &Index{
		IndexKey: indexKey,
		Alg:      alg,
		Axes:     make(map[string]*Axis),
		Store:    NewUriStore(),
		negative: newBloom(),
	}
}

// Insert records loc for fieldKey, updating every axis fieldKey touches
// and the fingerprint->location mapping.
func (ix *Index) Insert(fieldKey Key, loc FieldLocation) {
	for _, name := range fieldKey.Names() {
		v, _ := fieldKey.Get(name)
		axis, ok := ix.Axes[name]
		if !ok {
			axis = NewAxis(name)
			ix.Axes[name] = axis
		}
		axis.Insert(v)
	}
	fp := fingerprint(fieldKey.Canonical(), ix.Alg)
	ix.Store.Put(fp, fieldKey.Canonical(), loc)
	if ix.negative == nil {
		ix.negative = newBloom()
	}
	ix.negative.Add(fp)
}

// Lookup resolves fieldKey to its FieldLocation, if present and unmasked.
// The bloom filter only ever rules out fingerprints it was told about
// (via Insert or DecodeIndex's replay), so a miss there skips the UriStore
// scan entirely; a hit still falls through to the real lookup since a
// bloom filter can false-positive.
func (ix *Index) Lookup(fieldKey Key) (FieldLocation, bool) {
	fp := fingerprint(fieldKey.Canonical(), ix.Alg)
	if ix.negative != nil && !ix.negative.Contains(fp) {
		return FieldLocation{}, false
	}
	return ix.Store.Get(fp)
}

// Mask marks fieldKey's entry as removed without erasing it from the axes,
// used by TocCatalogue.Mask.
func (ix *Index) Mask(fieldKey Key) {
	fp := fingerprint(fieldKey.Canonical(), ix.Alg)
	ix.Store.Mask(fp)
}

// AxisValues returns the sorted distinct values for name, or nil if this
// index has never seen name.
func (ix *Index) AxisValues(name string) []string {
	axis, ok := ix.Axes[name]
	if !ok {
		return nil
	}
	return axis.Values()
}

// indexBlob is the JSON shape serialized into IndexPayload.Blob.
type indexBlob struct {
	Alg  int                 `json:"alg"`
	Axes map[string][]string `json:"axes"`
	Uris []uriBlobEntry      `json:"uris"`
}

type uriBlobEntry struct {
	Fingerprint string        `json:"fp"`
	FieldKey    string        `json:"fk,omitempty"`
	Location    FieldLocation `json:"loc"`
	Masked      bool          `json:"masked,omitempty"`
}

// Encode serializes the index's axes and uri store into a compressed blob
// suitable for IndexPayload.Blob.
func (ix *Index) Encode() (string, error) {
	blob := indexBlob{
		Alg:  ix.Alg,
		Axes: make(map[string][]string, len(ix.Axes)),
	}
	for name, axis := range ix.Axes {
		blob.Axes[name] = axis.Values()
	}
	ix.Store.Consolidate()
	for _, e := range ix.Store.sorted {
		blob.Uris = append(blob.Uris, uriBlobEntry{
			Fingerprint: e.fingerprint,
			FieldKey:    e.fieldKey,
			Location:    e.loc,
			Masked:      e.masked,
		})
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return "", err
	}
	return compress(data), nil
}

// DecodeIndex reconstructs an Index from an IndexPayload's path/offset and
// compressed blob.
func DecodeIndex(indexKey Key, path string, offset int64, encodedBlob string) (*Index, error) {
	data, err := decompress(encodedBlob)
	if err != nil {
		return nil, err
	}
	var blob indexBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, wrapErr(ErrCorruptToc, "DecodeIndex", "invalid blob: %v", err)
	}

	ix := NewIndex(indexKey, blob.Alg)
	ix.Path = path
	ix.Offset = offset
	for name, values := range blob.Axes {
		axis := NewAxis(name)
		axis.sorted = append(axis.sorted, values...)
		ix.Axes[name] = axis
	}
	for _, e := range blob.Uris {
		ix.Store.sorted = append(ix.Store.sorted, uriEntry{
			fingerprint: e.Fingerprint,
			fieldKey:    e.FieldKey,
			loc:         e.Location,
			masked:      e.Masked,
		})
		ix.negative.Add(e.Fingerprint)
	}
	return ix, nil
}
