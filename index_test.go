package fdb

import "testing"

// TestIndexInsertLookup verifies a field inserted into an index is
// resolvable by the same field-key, and an unrelated key reports a miss.
func TestIndexInsertLookup(t *testing.T) {
	ix := NewIndex(NewKey([2]string{"stream", "oper"}), AlgXXHash3)
	fieldKey := NewKey([2]string{"levelist", "850"}, [2]string{"param", "130"})
	loc := FieldLocation{Kind: LocationLocalFile, Path: "/data/od/1", Length: 4096}

	ix.Insert(fieldKey, loc)

	got, ok := ix.Lookup(fieldKey)
	if !ok {
		t.Fatal("Lookup should find a just-inserted field")
	}
	if got.Path != loc.Path {
		t.Errorf("Lookup().Path = %q, want %q", got.Path, loc.Path)
	}

	other := NewKey([2]string{"levelist", "500"}, [2]string{"param", "130"})
	if _, ok := ix.Lookup(other); ok {
		t.Error("Lookup should miss for a field-key never inserted")
	}
}

// TestIndexInsertTracksAxes verifies Insert records every name/value
// pair of the field-key on its corresponding Axis.
func TestIndexInsertTracksAxes(t *testing.T) {
	ix := NewIndex(NewKey([2]string{"stream", "oper"}), AlgXXHash3)
	ix.Insert(NewKey([2]string{"levelist", "850"}, [2]string{"param", "130"}), FieldLocation{})
	ix.Insert(NewKey([2]string{"levelist", "500"}, [2]string{"param", "130"}), FieldLocation{})

	values := ix.AxisValues("levelist")
	if len(values) != 2 || values[0] != "500" || values[1] != "850" {
		t.Errorf("AxisValues(levelist) = %v, want [500 850]", values)
	}
	if ix.AxisValues("missing") != nil {
		t.Error("AxisValues for an unseen name should be nil")
	}
}

// TestIndexLookupMissesUnknownBeforeStoreScan verifies the negative bloom
// filter causes a guaranteed miss to short-circuit before ever reaching
// the UriStore, by checking Lookup still returns the correct false result
// for a field-key that was never Inserted.
func TestIndexLookupMissesUnknownBeforeStoreScan(t *testing.T) {
	ix := NewIndex(NewKey([2]string{"stream", "oper"}), AlgXXHash3)
	ix.Insert(NewKey([2]string{"levelist", "850"}), FieldLocation{Path: "/a"})

	if _, ok := ix.Lookup(NewKey([2]string{"levelist", "999"})); ok {
		t.Error("Lookup should miss for a never-inserted field-key")
	}
}

// TestIndexEncodeDecodeRoundTrip verifies an index's axes, uri store, and
// negative-lookup state all survive an Encode/DecodeIndex round trip,
// the path every TOC reopen replays an INDEX record through.
func TestIndexEncodeDecodeRoundTrip(t *testing.T) {
	indexKey := NewKey([2]string{"stream", "oper"}, [2]string{"date", "20260730"})
	ix := NewIndex(indexKey, AlgXXHash3)
	fieldKey := NewKey([2]string{"levelist", "850"}, [2]string{"param", "130"})
	loc := FieldLocation{Kind: LocationLocalFile, Path: "/data/od/1", Length: 4096}
	ix.Insert(fieldKey, loc)

	blob, err := ix.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeIndex(indexKey, "toc", 2048, blob)
	if err != nil {
		t.Fatalf("DecodeIndex: %v", err)
	}

	got, ok := decoded.Lookup(fieldKey)
	if !ok {
		t.Fatal("decoded index should still resolve the field")
	}
	if got.Path != loc.Path || got.Length != loc.Length {
		t.Errorf("decoded Lookup = %+v, want %+v", got, loc)
	}

	if values := decoded.AxisValues("levelist"); len(values) != 1 || values[0] != "850" {
		t.Errorf("decoded AxisValues(levelist) = %v", values)
	}

	if decoded.Path != "toc" || decoded.Offset != 2048 {
		t.Errorf("decoded Path/Offset = %q/%d, want toc/2048", decoded.Path, decoded.Offset)
	}

	var gotFieldKey string
	decoded.Store.Each(func(fp, fieldKey string, loc FieldLocation) { gotFieldKey = fieldKey })
	if gotFieldKey != fieldKey.Canonical() {
		t.Errorf("decoded field-key = %q, want %q", gotFieldKey, fieldKey.Canonical())
	}
}

// TestIndexMaskHidesField verifies Mask makes a previously-inserted field
// unresolvable via Lookup, the mechanism TocCatalogue.Mask relies on.
func TestIndexMaskHidesField(t *testing.T) {
	ix := NewIndex(NewKey([2]string{"stream", "oper"}), AlgXXHash3)
	fieldKey := NewKey([2]string{"levelist", "850"})
	ix.Insert(fieldKey, FieldLocation{Path: "/a"})

	ix.Mask(fieldKey)

	if _, ok := ix.Lookup(fieldKey); ok {
		t.Error("Lookup should miss a masked field")
	}
}
