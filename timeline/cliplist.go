package timeline

import (
	"slices"
	"sort"

	"montage/gentime"
)

// ClipRefList is an ordered list of clip references with an optional master clip.
// Sorting is by TrackStart, keeping insertion order between equal starts.
type ClipRefList struct {
	clips  []*ClipRef
	master *ClipRef
}

// NewClipRefList creates a list holding clips in the given order.
func NewClipRefList(clips ...*ClipRef) *ClipRefList {
	return &ClipRefList{clips: slices.Clone(clips)}
}

func (l *ClipRefList) Len() int { return len(l.clips) }

// At returns the i-th clip.
func (l *ClipRefList) At(i int) *ClipRef {
	if i < 0 || i >= len(l.clips) {
		return nil
	}
	return l.clips[i]
}

// Clips returns a copy of the list contents.
func (l *ClipRefList) Clips() []*ClipRef {
	return slices.Clone(l.clips)
}

// First returns the first clip or nil.
func (l *ClipRefList) First() *ClipRef { return l.At(0) }

// Last returns the last clip or nil.
func (l *ClipRefList) Last() *ClipRef { return l.At(len(l.clips) - 1) }

// Append adds c at the end without sorting.
func (l *ClipRefList) Append(c *ClipRef) {
	l.clips = append(l.clips, c)
}

// InSort inserts c after every clip starting at or before it.
func (l *ClipRefList) InSort(c *ClipRef) {
	i := sort.Search(len(l.clips), func(i int) bool {
		return l.clips[i].trackStart.After(c.trackStart)
	})
	l.clips = slices.Insert(l.clips, i, c)
}

// IndexOf returns the position of c, or -1.
func (l *ClipRefList) IndexOf(c *ClipRef) int {
	return slices.Index(l.clips, c)
}

// Contains reports whether c is in the list.
func (l *ClipRefList) Contains(c *ClipRef) bool {
	return l.IndexOf(c) >= 0
}

// Remove takes c out of the list. Removing the master clears it.
func (l *ClipRefList) Remove(c *ClipRef) bool {
	i := l.IndexOf(c)
	if i < 0 {
		return false
	}
	l.clips = slices.Delete(l.clips, i, i+1)
	if l.master == c {
		l.master = nil
	}
	return true
}

// Resort moves c to its sorted position. The master clip is kept.
func (l *ClipRefList) Resort(c *ClipRef) bool {
	i := l.IndexOf(c)
	if i < 0 {
		return false
	}
	l.clips = slices.Delete(l.clips, i, i+1)
	l.InSort(c)
	return true
}

// Sort orders the list by TrackStart, stable.
func (l *ClipRefList) Sort() {
	sort.SliceStable(l.clips, func(i, j int) bool {
		return l.clips[i].trackStart.Before(l.clips[j].trackStart)
	})
}

// IsSorted reports whether the list is ordered by TrackStart.
func (l *ClipRefList) IsSorted() bool {
	return sort.SliceIsSorted(l.clips, func(i, j int) bool {
		return l.clips[i].trackStart.Before(l.clips[j].trackStart)
	})
}

// SetMasterClip designates c as master. c must be a member or nil.
func (l *ClipRefList) SetMasterClip(c *ClipRef) bool {
	if c != nil && !l.Contains(c) {
		return false
	}
	l.master = c
	return true
}

// MasterClip returns the master clip or nil.
func (l *ClipRefList) MasterClip() *ClipRef {
	return l.master
}

// EndTime is the latest TrackEnd in the list, zero when empty.
func (l *ClipRefList) EndTime() gentime.GenTime {
	end := gentime.Zero
	for _, c := range l.clips {
		end = gentime.Max(end, c.TrackEnd())
	}
	return end
}

// Clear empties the list without touching the clips.
func (l *ClipRefList) Clear() {
	l.clips = nil
	l.master = nil
}

// DeleteAll destroys every clip and empties the list.
func (l *ClipRefList) DeleteAll() {
	for _, c := range l.clips {
		c.Destroy()
	}
	l.Clear()
}
