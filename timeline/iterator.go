package timeline

import "iter"

// UnifiedClipIterator walks both partitions of a track in TrackStart order
// without building a merged copy. It reads the live lists, so the track must
// not be mutated while iterating.
type UnifiedClipIterator struct {
	selected   *ClipRefList
	unselected *ClipRefList
	si, ui     int
	cur        *ClipRef
}

// Iterator returns a cursor positioned on the earliest clip.
func (t *Track) Iterator() *UnifiedClipIterator {
	it := &UnifiedClipIterator{selected: t.selected, unselected: t.unselected}
	it.lead()
	return it
}

// lead picks the side whose head starts first. Ties favor the selected side.
func (it *UnifiedClipIterator) lead() {
	s, u := it.selected.At(it.si), it.unselected.At(it.ui)
	switch {
	case s == nil:
		it.cur = u
	case u == nil:
		it.cur = s
	case u.trackStart.Before(s.trackStart):
		it.cur = u
	default:
		it.cur = s
	}
}

func (it *UnifiedClipIterator) Valid() bool    { return it.cur != nil }
func (it *UnifiedClipIterator) Clip() *ClipRef { return it.cur }

// Next advances past every clip, on either side, that starts where the
// current one does, and returns the new current clip or nil at the end.
func (it *UnifiedClipIterator) Next() *ClipRef {
	if it.cur == nil {
		return nil
	}
	start := it.cur.trackStart
	for it.si < it.selected.Len() && it.selected.clips[it.si].trackStart.Equal(start) {
		it.si++
	}
	for it.ui < it.unselected.Len() && it.unselected.clips[it.ui].trackStart.Equal(start) {
		it.ui++
	}
	it.lead()
	return it.cur
}

// All yields the track's clips in chronological order.
func (t *Track) All() iter.Seq[*ClipRef] {
	return func(yield func(*ClipRef) bool) {
		for it := t.Iterator(); it.Valid(); it.Next() {
			if !yield(it.Clip()) {
				return
			}
		}
	}
}
