// Axis tracks the distinct values seen for one key name within an index,
// kept mostly sorted with a small unsorted tail of recent inserts. Lookups
// binary-search the sorted region and fall back to a linear scan of the
// tail, the same two-region split used for locating document records in a
// growing log: a compacted, sorted core plus an append-only overflow that
// gets folded back in on the next Consolidate.
package fdb

import "sort"

// Axis holds every value an index has seen for a single key name.
type Axis struct {
	Name    string
	sorted  []string // deduplicated, ascending
	pending []string // recently inserted, not yet merged into sorted
}

// NewAxis returns an empty axis for name.
func NewAxis(name string) *Axis {
	return &Axis{Name: name}
}

// Insert records value as seen on this axis, if not already present.
func (a *Axis) Insert(value string) {
	if a.scanSorted(value) {
		return
	}
	if a.scanPending(value) {
		return
	}
	a.pending = append(a.pending, value)
	if len(a.pending) > pendingMergeThreshold {
		a.Consolidate()
	}
}

// pendingMergeThreshold bounds how long lookups can spend linear-scanning
// the pending tail before it's worth paying for a sort.
const pendingMergeThreshold = 64

// Has reports whether value has been seen on this axis.
func (a *Axis) Has(value string) bool {
	return a.scanSorted(value) || a.scanPending(value)
}

// scanSorted binary-searches the sorted region for value.
func (a *Axis) scanSorted(value string) bool {
	i := sort.SearchStrings(a.sorted, value)
	return i < len(a.sorted) && a.sorted[i] == value
}

// scanPending linear-scans the unsorted tail for value.
func (a *Axis) scanPending(value string) bool {
	for _, v := range a.pending {
		if v == value {
			return true
		}
	}
	return false
}

// Consolidate merges the pending tail into the sorted region, producing a
// single ascending, deduplicated slice and emptying pending.
func (a *Axis) Consolidate() {
	if len(a.pending) == 0 {
		return
	}
	merged := make([]string, 0, len(a.sorted)+len(a.pending))
	merged = append(merged, a.sorted...)
	merged = append(merged, a.pending...)
	sort.Strings(merged)
	out := merged[:0]
	for i, v := range merged {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	a.sorted = out
	a.pending = nil
}

// Values returns every distinct value on this axis, sorted ascending. It
// consolidates first so callers never see a stale ordering.
func (a *Axis) Values() []string {
	a.Consolidate()
	out := make([]string, len(a.sorted))
	copy(out, a.sorted)
	return out
}

// Len returns the total number of distinct values on this axis.
func (a *Axis) Len() int {
	return len(a.sorted) + len(a.pending)
}
