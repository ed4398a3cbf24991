package profiler

import "iter"

// Iterator walks a point-in-time copy of a monitor's history. Writes to the
// monitor after Iter returned are not reflected.
type Iterator struct {
	snaps []Snap
	index int
}

// Next returns the next snap, or false when the iterator is exhausted.
func (it *Iterator) Next() (Snap, bool) {
	if it.index >= len(it.snaps) {
		return Snap{}, false
	}
	s := it.snaps[it.index]
	it.index++
	return s, true
}

// Reset rewinds the iterator to the first snap.
func (it *Iterator) Reset() {
	it.index = 0
}

// Len returns the number of snaps in the view.
func (it *Iterator) Len() int {
	return len(it.snaps)
}

// All ranges over the whole view regardless of the Next cursor.
func (it *Iterator) All() iter.Seq[Snap] {
	return func(yield func(Snap) bool) {
		for _, s := range it.snaps {
			if !yield(s) {
				return
			}
		}
	}
}
