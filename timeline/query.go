package timeline

import (
	"slices"

	"montage/gentime"
)

// Clips returns the track's clips in chronological order. Clips that share
// a start, which only an unchecked MoveClips or a batch with collision
// detection off can produce, are reported once.
func (t *Track) Clips() []*ClipRef {
	return slices.Collect(t.All())
}

// FirstClip returns the earliest clip or nil.
func (t *Track) FirstClip() *ClipRef {
	return t.Iterator().Clip()
}

// LastClip returns the clip with the latest start or nil.
func (t *Track) LastClip() *ClipRef {
	var last *ClipRef
	for c := range t.All() {
		last = c
	}
	return last
}

// ClipAt returns the clip covering at, or nil over a gap.
func (t *Track) ClipAt(at gentime.GenTime) *ClipRef {
	for c := range t.All() {
		if c.trackStart.After(at) {
			break
		}
		if c.TrackEnd().After(at) {
			return c
		}
	}
	return nil
}

// ClipsInRange returns the clips intersecting [start, end) in chronological order.
func (t *Track) ClipsInRange(start, end gentime.GenTime) []*ClipRef {
	var out []*ClipRef
	for c := range t.All() {
		if !c.trackStart.Before(end) {
			break
		}
		if c.TrackEnd().After(start) {
			out = append(out, c)
		}
	}
	return out
}

// PreviousClip returns the clip starting latest before c, across both partitions.
func (t *Track) PreviousClip(c *ClipRef) *ClipRef {
	var prev *ClipRef
	t.each(func(o *ClipRef) {
		if o == c || !o.trackStart.Before(c.trackStart) {
			return
		}
		if prev == nil || o.trackStart.After(prev.trackStart) {
			prev = o
		}
	})
	return prev
}

// NextClip returns the clip starting earliest after c, across both partitions.
func (t *Track) NextClip(c *ClipRef) *ClipRef {
	var next *ClipRef
	t.each(func(o *ClipRef) {
		if o == c || !o.trackStart.After(c.trackStart) {
			return
		}
		if next == nil || o.trackStart.Before(next.trackStart) {
			next = o
		}
	})
	return next
}

// each visits both partitions without assuming order.
func (t *Track) each(fn func(*ClipRef)) {
	for _, c := range t.selected.clips {
		fn(c)
	}
	for _, c := range t.unselected.clips {
		fn(c)
	}
}
