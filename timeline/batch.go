package timeline

// Batch is a scoped suspension of sorting, collision detection or both.
// End releases it; calling End more than once is harmless, so
//
//	b := t.BeginBatch()
//	defer b.End()
//
// is always safe even when the batch is also ended explicitly.
//
// While any batch is open, notifications are collected and delivered when
// the last one ends. Ending the last sorting batch re-sorts both partitions.
type Batch struct {
	t         *Track
	sort      bool
	collision bool
	ended     bool
}

// SuspendSorting defers ordering work until the batch ends. Clips are
// appended instead of inserted and ClipMoved does nothing.
func (t *Track) SuspendSorting() *Batch {
	return t.begin(true, false)
}

// SuspendCollisionDetection lets clips be added without overlap checks.
func (t *Track) SuspendCollisionDetection() *Batch {
	return t.begin(false, true)
}

// BeginBatch suspends both sorting and collision detection.
func (t *Track) BeginBatch() *Batch {
	return t.begin(true, true)
}

func (t *Track) begin(sort, collision bool) *Batch {
	if sort {
		t.sortSuspend++
	}
	if collision {
		t.collisionSuspend++
	}
	return &Batch{t: t, sort: sort, collision: collision}
}

func (t *Track) suspended() bool {
	return t.sortSuspend > 0 || t.collisionSuspend > 0
}

// SortingSuspended reports whether a sorting batch is open.
func (t *Track) SortingSuspended() bool { return t.sortSuspend > 0 }

// CollisionDetectionSuspended reports whether a collision batch is open.
func (t *Track) CollisionDetectionSuspended() bool { return t.collisionSuspend > 0 }

// End releases the batch.
func (b *Batch) End() {
	if b == nil || b.ended {
		return
	}
	b.ended = true
	t := b.t
	if b.sort {
		t.sortSuspend--
		if t.sortSuspend == 0 {
			t.selected.Sort()
			t.unselected.Sort()
		}
	}
	if b.collision {
		t.collisionSuspend--
	}
	if t.suspended() {
		return
	}
	t.pending.layout = true
	t.pending.length = true
	t.flush()
}
