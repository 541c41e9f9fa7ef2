package fdb

import "testing"

// TestUriStorePutGet verifies a put location is retrievable before any
// Consolidate, exercising the pending-tail scan path in Get.
func TestUriStorePutGet(t *testing.T) {
	u := NewUriStore()
	loc := FieldLocation{Kind: LocationLocalFile, Length: 42}
	u.Put("fp1", "levelist=850", loc)

	got, ok := u.Get("fp1")
	if !ok {
		t.Fatal("Get should find a pending put")
	}
	if got.Length != 42 {
		t.Errorf("Get().Length = %d, want 42", got.Length)
	}
}

// TestUriStorePutOverwrites verifies that putting a new location for an
// already-known fingerprint masks the old entry so Get returns the new
// value, matching the "later write wins" rule CLEAR relies on.
func TestUriStorePutOverwrites(t *testing.T) {
	u := NewUriStore()
	u.Put("fp1", "levelist=850", FieldLocation{Length: 1})
	u.Consolidate()
	u.Put("fp1", "levelist=850", FieldLocation{Length: 2})

	got, ok := u.Get("fp1")
	if !ok {
		t.Fatal("Get should still find fp1 after an overwrite")
	}
	if got.Length != 2 {
		t.Errorf("Get().Length = %d, want 2 (newest write)", got.Length)
	}
}

// TestUriStoreMaskHidesButPreservesCount verifies Mask makes Get report a
// miss while Fingerprints (used by Purge) still reports the entry, since
// Purge needs to count masked entries toward reachability.
func TestUriStoreMaskHidesButPreservesCount(t *testing.T) {
	u := NewUriStore()
	u.Put("fp1", "levelist=850", FieldLocation{Length: 1})
	u.Mask("fp1")

	if _, ok := u.Get("fp1"); ok {
		t.Error("Get should report a miss for a masked fingerprint")
	}
	if len(u.Fingerprints()) != 1 {
		t.Errorf("Fingerprints() should still include masked entries, got %v", u.Fingerprints())
	}
}

// TestUriStoreEachSkipsMasked verifies Each only invokes fn for unmasked
// entries, the iteration used to rebuild reachability sets.
func TestUriStoreEachSkipsMasked(t *testing.T) {
	u := NewUriStore()
	u.Put("fp1", "levelist=850", FieldLocation{Length: 1})
	u.Put("fp2", "levelist=500", FieldLocation{Length: 2})
	u.Mask("fp1")

	seen := map[string]bool{}
	u.Each(func(fp, fieldKey string, loc FieldLocation) { seen[fp] = true })

	if seen["fp1"] {
		t.Error("Each should skip masked fp1")
	}
	if !seen["fp2"] {
		t.Error("Each should visit unmasked fp2")
	}
}

// TestUriStoreEachReportsFieldKey verifies Each passes through the
// canonical field-key stored alongside each fingerprint, the lookup List
// depends on to reconstruct a full key.
func TestUriStoreEachReportsFieldKey(t *testing.T) {
	u := NewUriStore()
	u.Put("fp1", "levelist=850", FieldLocation{Length: 1})

	var gotFieldKey string
	u.Each(func(fp, fieldKey string, loc FieldLocation) { gotFieldKey = fieldKey })

	if gotFieldKey != "levelist=850" {
		t.Errorf("Each fieldKey = %q, want %q", gotFieldKey, "levelist=850")
	}
}

// TestUriStoreConsolidateSortsByFingerprint verifies Consolidate leaves
// the sorted region in ascending fingerprint order, the invariant
// searchSorted's binary search depends on.
func TestUriStoreConsolidateSortsByFingerprint(t *testing.T) {
	u := NewUriStore()
	u.Put("zzz", "a=1", FieldLocation{})
	u.Put("aaa", "a=2", FieldLocation{})
	u.Put("mmm", "a=3", FieldLocation{})
	u.Consolidate()

	if len(u.sorted) != 3 {
		t.Fatalf("sorted len = %d, want 3", len(u.sorted))
	}
	for i := 1; i < len(u.sorted); i++ {
		if u.sorted[i-1].fingerprint >= u.sorted[i].fingerprint {
			t.Errorf("sorted out of order at %d: %q >= %q", i, u.sorted[i-1].fingerprint, u.sorted[i].fingerprint)
		}
	}
}
