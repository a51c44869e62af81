package timeline

// OverlapPolicy decides whether a clip may be placed on a track without
// colliding with the clips already there.
type OverlapPolicy interface {
	CanAdd(t *Track, c *ClipRef) bool
}

// SymmetricOverlap rejects a clip overlapping any clip in either partition.
// Both track kinds use it.
type SymmetricOverlap struct{}

func (SymmetricOverlap) CanAdd(t *Track, c *ClipRef) bool {
	sorted := t.sortSuspend == 0
	return !overlapsAny(t.selected, c, sorted) && !overlapsAny(t.unselected, c, sorted)
}

// LegacySoundOverlap is the historic sound track check: it scans the
// unselected partition twice and never looks at selected clips, so a clip
// may be dropped on top of a selected one.
type LegacySoundOverlap struct{}

func (LegacySoundOverlap) CanAdd(t *Track, c *ClipRef) bool {
	sorted := t.sortSuspend == 0
	return !overlapsAny(t.unselected, c, sorted) && !overlapsAny(t.unselected, c, sorted)
}

// overlapsAny scans l in start order. On a sorted list the scan stops at the
// first clip starting at or after the candidate's end.
func overlapsAny(l *ClipRefList, cand *ClipRef, sorted bool) bool {
	start, end := cand.trackStart, cand.TrackEnd()
	for _, c := range l.clips {
		if c == cand {
			continue
		}
		if !c.trackStart.Before(end) {
			if sorted {
				break
			}
			continue
		}
		if c.TrackEnd().After(start) {
			return true
		}
	}
	return false
}
