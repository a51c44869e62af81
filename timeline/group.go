package timeline

import (
	"log/slog"
	"slices"

	"montage/gentime"
)

type groupMember struct {
	clip  *ClipRef
	track *Track
}

// ClipGroup ties clips on several tracks together so they move as one,
// anchored to a master clip. The group never owns its clips.
type ClipGroup struct {
	members []groupMember
	master  *ClipRef
	logger  *slog.Logger
}

// NewClipGroup creates an empty group. A nil logger means slog.Default().
func NewClipGroup(logger *slog.Logger) *ClipGroup {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClipGroup{logger: logger}
}

func (g *ClipGroup) index(c *ClipRef) int {
	return slices.IndexFunc(g.members, func(m groupMember) bool { return m.clip == c })
}

func (g *ClipGroup) Contains(c *ClipRef) bool { return g.index(c) >= 0 }
func (g *ClipGroup) Len() int                 { return len(g.members) }
func (g *ClipGroup) IsEmpty() bool            { return len(g.members) == 0 }
func (g *ClipGroup) MasterClip() *ClipRef     { return g.master }

// Clips returns the members in insertion order.
func (g *ClipGroup) Clips() []*ClipRef {
	out := make([]*ClipRef, len(g.members))
	for i, m := range g.members {
		out[i] = m.clip
	}
	return out
}

// TrackOf returns the track a member was last placed on.
func (g *ClipGroup) TrackOf(c *ClipRef) *Track {
	if i := g.index(c); i >= 0 {
		return g.members[i].track
	}
	return nil
}

// AddClip adds c with its originating track. A clip already in the group
// is left alone. The first member becomes master.
func (g *ClipGroup) AddClip(c *ClipRef, t *Track) {
	if c == nil || g.Contains(c) {
		return
	}
	g.members = append(g.members, groupMember{clip: c, track: t})
	g.deriveMaster(g.master)
}

// AddClipAsMaster adds c and makes it the master.
func (g *ClipGroup) AddClipAsMaster(c *ClipRef, t *Track) {
	g.AddClip(c, t)
	g.deriveMaster(c)
}

// SetMasterClip makes a member the master.
func (g *ClipGroup) SetMasterClip(c *ClipRef) bool {
	if !g.Contains(c) {
		return false
	}
	g.master = c
	return true
}

// RemoveClip drops c from the group. The clip itself is untouched.
func (g *ClipGroup) RemoveClip(c *ClipRef) bool {
	i := g.index(c)
	if i < 0 {
		return false
	}
	g.members = slices.Delete(g.members, i, i+1)
	g.deriveMaster(g.master)
	return true
}

// ToggleClip removes c if present, otherwise adds it. It reports whether c
// is a member afterwards.
func (g *ClipGroup) ToggleClip(c *ClipRef, t *Track) bool {
	if g.RemoveClip(c) {
		return false
	}
	g.AddClip(c, t)
	return g.Contains(c)
}

// deriveMaster keeps want as master when it is a member, else falls back to
// the first member.
func (g *ClipGroup) deriveMaster(want *ClipRef) {
	switch {
	case want != nil && g.Contains(want):
		g.master = want
	case len(g.members) > 0:
		g.master = g.members[0].clip
	default:
		g.master = nil
	}
}

// Clear empties the group. Members stay on their tracks.
func (g *ClipGroup) Clear() {
	g.members = nil
	g.master = nil
}

// DeleteAllClips removes every member from its track, destroys it and
// empties the group.
func (g *ClipGroup) DeleteAllClips() {
	for _, m := range g.members {
		if m.track == nil {
			continue
		}
		if m.track.RemoveClip(m.clip) {
			m.clip.Destroy()
		}
	}
	g.Clear()
}

// MoveTo moves the group so the master starts at at on track trackIndex.
// Every member keeps its time and track distance to the master.
//
// The move is checked as a whole before anything changes. A member is
// skipped with a warning, and left where it is, when its destination track
// does not exist, does not take its media kind, or its new slot would
// overlap a clip outside the group or a member that stays behind. Members
// that were already moved are never rolled back.
func (g *ClipGroup) MoveTo(doc Document, trackIndex int, at gentime.GenTime) {
	if g.master == nil {
		return
	}
	timeOffset := at.Sub(g.master.trackStart)
	masterIndex := 0
	if mt := g.masterTrack(); mt != nil {
		if i := doc.IndexOf(mt); i >= 0 {
			masterIndex = i
		}
	}
	trackOffset := trackIndex - masterIndex

	var moves []*groupMove
	for i := range g.members {
		m := &g.members[i]
		var dest *Track
		if m.track == nil {
			dest = doc.TrackAt(trackOffset)
		} else if idx := doc.IndexOf(m.track); idx >= 0 {
			dest = doc.TrackAt(idx + trackOffset)
		}
		if dest == nil {
			g.logger.Warn("group move: no destination track", "clip", m.clip.id, "offset", trackOffset)
			continue
		}
		mv := &groupMove{member: m, dest: dest, start: m.clip.trackStart, ok: dest.acceptsKind(m.clip)}
		if m.track != nil && m.track.Contains(m.clip) {
			mv.origin = m.track
			mv.selected = m.track.IsSelected(m.clip)
		}
		moves = append(moves, mv)
	}
	settleMoves(moves, timeOffset)

	var batches []*Batch
	touched := make(map[*Track]bool)
	touch := func(t *Track) {
		if t != nil && !touched[t] {
			touched[t] = true
			batches = append(batches, t.SuspendSorting())
		}
	}
	defer func() {
		for _, b := range batches {
			b.End()
		}
	}()

	for _, mv := range moves {
		if !mv.ok {
			g.logger.Warn("group move: destination rejected clip", "clip", mv.member.clip.id, "track", mv.dest.Index())
			continue
		}
		touch(mv.dest)
		touch(mv.origin)
		if mv.origin != nil {
			mv.origin.RemoveClip(mv.member.clip)
		}
	}
	for _, mv := range moves {
		if !mv.ok {
			continue
		}
		c := mv.member.clip
		c.SetTrackStart(mv.start.Add(timeOffset))
		if mv.dest.AddClip(c, mv.selected) {
			mv.member.track = mv.dest
			continue
		}
		g.logger.Warn("group move: destination rejected clip", "clip", c.id, "track", mv.dest.Index())
		c.SetTrackStart(mv.start)
		if mv.origin != nil {
			mv.origin.AddClip(c, mv.selected)
		}
	}
}

// groupMove is one member's planned relocation.
type groupMove struct {
	member   *groupMember
	dest     *Track
	origin   *Track // nil when the clip is on no track
	start    gentime.GenTime
	selected bool
	ok       bool
}

// settleMoves clears ok on every move whose new slot collides. Clips outside
// the group are fixed obstacles; a member that cannot move keeps its old slot
// and may in turn block others, so this repeats until nothing changes.
func settleMoves(moves []*groupMove, offset gentime.GenTime) {
	lifted := make(map[*ClipRef]bool, len(moves))
	for _, mv := range moves {
		lifted[mv.member.clip] = true
	}
	for changed := true; changed; {
		changed = false
		for _, mv := range moves {
			if !mv.ok {
				continue
			}
			c := mv.member.clip
			start := mv.start.Add(offset)
			end := start.Add(c.cropDuration)
			if mv.dest.overlapsOutside(start, end, lifted) || blockedByMember(moves, mv, start, end, offset) {
				mv.ok = false
				changed = true
			}
		}
	}
}

// blockedByMember reports whether [start, end) on mv.dest meets the slot
// another member will occupy: its new one if it moves, else its old one.
func blockedByMember(moves []*groupMove, mv *groupMove, start, end, offset gentime.GenTime) bool {
	for _, o := range moves {
		if o == mv {
			continue
		}
		track, oStart := o.dest, o.start.Add(offset)
		if !o.ok {
			track, oStart = o.origin, o.start
		}
		if track != mv.dest {
			continue
		}
		if oStart.Before(end) && oStart.Add(o.member.clip.cropDuration).After(start) {
			return true
		}
	}
	return false
}

func (g *ClipGroup) masterTrack() *Track {
	if t := g.TrackOf(g.master); t != nil {
		return t
	}
	return g.master.Track()
}
