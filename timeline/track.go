package timeline

import (
	"log/slog"

	"montage/gentime"
)

// TrackKind selects what media a track accepts. It is serialized as the
// cliptype attribute.
type TrackKind string

const (
	KindVideo TrackKind = "video"
	KindSound TrackKind = "sound"
)

// ParseTrackKind maps a cliptype attribute to a kind.
func ParseTrackKind(s string) (TrackKind, bool) {
	switch TrackKind(s) {
	case KindVideo:
		return KindVideo, true
	case KindSound:
		return KindSound, true
	}
	return "", false
}

// Project supplies the frame rate and resolves a track's position among its siblings.
type Project interface {
	FramesPerSecond() gentime.Rate
	IndexOf(t *Track) int
}

// Track holds the clips of one timeline row, split into a selected and an
// unselected partition. Each partition is kept sorted by TrackStart and free
// of overlaps while no batch is open.
type Track struct {
	kind       TrackKind
	selected   *ClipRefList
	unselected *ClipRefList
	length     gentime.GenTime

	sortSuspend      int
	collisionSuspend int

	policy  OverlapPolicy
	project Project
	logger  *slog.Logger

	subs    []*subscription
	pending pending
}

type Option func(*Track)

// WithPolicy replaces the overlap check.
func WithPolicy(p OverlapPolicy) Option {
	return func(t *Track) {
		if p != nil {
			t.policy = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Track) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTrack creates an empty track. project may be nil for a detached track.
func NewTrack(kind TrackKind, project Project, opts ...Option) *Track {
	t := &Track{
		kind:       kind,
		selected:   NewClipRefList(),
		unselected: NewClipRefList(),
		policy:     SymmetricOverlap{},
		project:    project,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewVideoTrack(project Project, opts ...Option) *Track {
	return NewTrack(KindVideo, project, opts...)
}

func NewSoundTrack(project Project, opts ...Option) *Track {
	return NewTrack(KindSound, project, opts...)
}

func (t *Track) Kind() TrackKind              { return t.kind }
func (t *Track) Length() gentime.GenTime      { return t.length }
func (t *Track) Policy() OverlapPolicy        { return t.policy }
func (t *Track) NumClips() int                { return t.selected.Len() + t.unselected.Len() }
func (t *Track) HasSelectedClips() bool       { return t.selected.Len() > 0 }
func (t *Track) SelectedClips() []*ClipRef    { return t.selected.Clips() }
func (t *Track) UnselectedClips() []*ClipRef  { return t.unselected.Clips() }
func (t *Track) SelectedList() *ClipRefList   { return t.selected }
func (t *Track) UnselectedList() *ClipRefList { return t.unselected }

// Index returns the track's position in its project, -1 when detached.
func (t *Track) Index() int {
	if t.project == nil {
		return -1
	}
	return t.project.IndexOf(t)
}

func (t *Track) FramesPerSecond() gentime.Rate {
	if t.project == nil {
		return gentime.DefaultRate
	}
	r := t.project.FramesPerSecond()
	if r.IsZero() {
		return gentime.DefaultRate
	}
	return r
}

func (t *Track) partition(selected bool) *ClipRefList {
	if selected {
		return t.selected
	}
	return t.unselected
}

func (t *Track) partitionOf(c *ClipRef) *ClipRefList {
	switch {
	case t.selected.Contains(c):
		return t.selected
	case t.unselected.Contains(c):
		return t.unselected
	}
	return nil
}

// Contains reports whether c lives on this track.
func (t *Track) Contains(c *ClipRef) bool {
	return c != nil && t.partitionOf(c) != nil
}

// IsSelected reports whether c is in the selected partition.
func (t *Track) IsSelected(c *ClipRef) bool {
	return t.selected.Contains(c)
}

func (t *Track) insert(l *ClipRefList, c *ClipRef) {
	if t.sortSuspend > 0 {
		l.Append(c)
		return
	}
	l.InSort(c)
}

func (t *Track) warn(msg string, c *ClipRef) {
	id := ""
	if c != nil {
		id = c.id
	}
	t.logger.Warn(msg, "track", t.Index(), "kind", string(t.kind), "clip", id)
}

// CanAddClip checks media compatibility and, unless collision detection is
// suspended, the overlap policy.
func (t *Track) CanAddClip(c *ClipRef) bool {
	if !t.acceptsKind(c) {
		return false
	}
	if t.collisionSuspend > 0 {
		return true
	}
	return t.policy.CanAdd(t, c)
}

// acceptsKind reports whether c's media has the stream this track shows.
func (t *Track) acceptsKind(c *ClipRef) bool {
	if c == nil || c.media == nil {
		return false
	}
	switch t.kind {
	case KindVideo:
		return c.media.HasVideo
	case KindSound:
		return c.media.HasAudio
	}
	return true
}

// overlapsOutside reports whether [start, end) meets any clip on t that is
// not in skip.
func (t *Track) overlapsOutside(start, end gentime.GenTime, skip map[*ClipRef]bool) bool {
	hit := false
	t.each(func(c *ClipRef) {
		if !hit && !skip[c] && c.trackStart.Before(end) && c.TrackEnd().After(start) {
			hit = true
		}
	})
	return hit
}

// AddClip places c in the chosen partition. The crop window is first
// re-clamped to one frame at the track's rate. It returns false without any
// change when c is nil, already owned by a track, or rejected by CanAddClip.
func (t *Track) AddClip(c *ClipRef, selected bool) bool {
	if c == nil {
		return false
	}
	if c.destroyed || c.parent != nil {
		t.warn("clip already placed", c)
		return false
	}
	cropStart, cropDuration := c.cropStart, c.cropDuration
	c.cropStart, c.cropDuration = c.clampCrop(cropStart, cropDuration, t.FramesPerSecond())
	if !t.CanAddClip(c) {
		c.cropStart, c.cropDuration = cropStart, cropDuration
		return false
	}
	t.insert(t.partition(selected), c)
	c.setParent(t, t.Index())
	t.layoutChanged()
	t.CheckTrackLength()
	return true
}

// AddClips adds clips inside one batch and returns how many were accepted.
// Overlap checks still run against the clips already added.
func (t *Track) AddClips(clips []*ClipRef, selected bool) int {
	b := t.SuspendSorting()
	defer b.End()
	n := 0
	for _, c := range clips {
		if t.AddClip(c, selected) {
			n++
		}
	}
	return n
}

// RemoveClip detaches c from the track.
func (t *Track) RemoveClip(c *ClipRef) bool {
	l := t.partitionOf(c)
	if l == nil {
		t.warn("remove: clip not on track", c)
		return false
	}
	l.Remove(c)
	c.setParent(nil, -1)
	t.layoutChanged()
	t.CheckTrackLength()
	return true
}

// ClipMoved restores ordering after c's TrackStart was changed from outside.
// It does nothing while sorting is suspended; the batch end re-sorts.
func (t *Track) ClipMoved(c *ClipRef) {
	if t.sortSuspend > 0 {
		return
	}
	l := t.partitionOf(c)
	if l == nil {
		t.warn("moved: clip not on track", c)
		return
	}
	l.Resort(c)
	t.layoutChanged()
	t.CheckTrackLength()
}

// SelectClip moves c into the selected or unselected partition.
func (t *Track) SelectClip(c *ClipRef, selected bool) bool {
	from := t.partitionOf(c)
	if from == nil {
		t.warn("select: clip not on track", c)
		return false
	}
	to := t.partition(selected)
	if from == to {
		return true
	}
	from.Remove(c)
	t.insert(to, c)
	if selected {
		t.clipSelected(c)
	}
	t.selectionChanged()
	t.CheckTrackLength()
	return true
}

// SelectAll moves every clip into one partition.
func (t *Track) SelectAll(selected bool) {
	from := t.partition(!selected)
	if from.Len() == 0 {
		return
	}
	b := t.SuspendSorting()
	defer b.End()
	for _, c := range from.Clips() {
		t.SelectClip(c, selected)
	}
}

func (t *Track) SelectNone() { t.SelectAll(false) }

// MoveClips shifts every clip of one partition by offset. No per-clip
// validation runs; the caller is responsible for the move being legal.
func (t *Track) MoveClips(offset gentime.GenTime, selected bool) {
	l := t.partition(selected)
	if l.Len() == 0 || offset.IsZero() {
		return
	}
	b := t.BeginBatch()
	defer b.End()
	for _, c := range l.clips {
		c.SetTrackStart(c.trackStart.Add(offset))
	}
	t.layoutChanged()
	t.CheckTrackLength()
}

// CheckTrackLength recomputes the track length and notifies on change.
func (t *Track) CheckTrackLength() {
	if t.suspended() {
		t.pending.length = true
		return
	}
	length := gentime.Max(t.selected.EndTime(), t.unselected.EndTime())
	if length.Equal(t.length) {
		return
	}
	t.length = length
	t.lengthChanged()
}

// DeleteClips removes and destroys every clip of one partition.
func (t *Track) DeleteClips(selected bool) {
	l := t.partition(selected)
	if l.Len() == 0 {
		return
	}
	b := t.BeginBatch()
	defer b.End()
	for _, c := range l.Clips() {
		t.RemoveClip(c)
		c.Destroy()
	}
}

// DeleteAll removes and destroys every clip on the track.
func (t *Track) DeleteAll() {
	b := t.BeginBatch()
	defer b.End()
	t.DeleteClips(true)
	t.DeleteClips(false)
}

func (t *Track) trackIndexChanged(index int) {
	for _, c := range t.selected.clips {
		c.trackIndexChanged(index)
	}
	for _, c := range t.unselected.clips {
		c.trackIndexChanged(index)
	}
}
