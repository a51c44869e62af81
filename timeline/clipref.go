package timeline

import (
	"slices"

	"montage/gentime"
	"montage/snap"
)

// ClipRef is one placement of a Media on a track.
type ClipRef struct {
	id           string
	media        *Media
	trackStart   gentime.GenTime
	cropStart    gentime.GenTime
	cropDuration gentime.GenTime
	speed        float64
	effects      []string

	// parent and trackIndex only change together, through setParent.
	parent     *Track
	trackIndex int

	snap      *snap.ClipSnapModel
	destroyed bool
}

// NewClipRef places media at trackStart showing [cropStart, cropStart+cropDuration).
// The crop window is clamped to the media: cropStart >= 0, the window ends
// inside the media and lasts at least one frame.
func NewClipRef(id string, media *Media, trackStart, cropStart, cropDuration gentime.GenTime) *ClipRef {
	c := &ClipRef{
		id:         id,
		media:      media,
		trackStart: trackStart,
		speed:      1,
		trackIndex: -1,
	}
	if media != nil {
		media.Retain()
	}
	c.cropStart, c.cropDuration = c.clampCrop(cropStart, cropDuration, gentime.DefaultRate)
	return c
}

// clampCrop fits a crop window into the media and widens it to at least one
// frame at rate.
func (c *ClipRef) clampCrop(start, dur gentime.GenTime, rate gentime.Rate) (gentime.GenTime, gentime.GenTime) {
	frame := rate.FrameDuration()
	full := c.FullDuration()

	if start.Before(gentime.Zero) {
		start = gentime.Zero
	}
	if !full.IsZero() && start.Add(dur).After(full) {
		dur = full.Sub(start)
	}
	if dur.Before(frame) {
		dur = frame
		if !full.IsZero() && start.Add(dur).After(full) {
			start = gentime.Max(gentime.Zero, full.Sub(dur))
		}
	}
	return start, dur
}

func (c *ClipRef) rate() gentime.Rate {
	if c.parent != nil {
		return c.parent.FramesPerSecond()
	}
	return gentime.DefaultRate
}

func (c *ClipRef) ID() string                    { return c.id }
func (c *ClipRef) Media() *Media                 { return c.media }
func (c *ClipRef) TrackStart() gentime.GenTime   { return c.trackStart }
func (c *ClipRef) CropStart() gentime.GenTime    { return c.cropStart }
func (c *ClipRef) CropDuration() gentime.GenTime { return c.cropDuration }
func (c *ClipRef) Speed() float64                { return c.speed }
func (c *ClipRef) Destroyed() bool               { return c.destroyed }

// TrackEnd is the timeline time just after the last frame of the clip.
func (c *ClipRef) TrackEnd() gentime.GenTime {
	return c.trackStart.Add(c.cropDuration)
}

// CropEnd is the media time just after the last shown frame.
func (c *ClipRef) CropEnd() gentime.GenTime {
	return c.cropStart.Add(c.cropDuration)
}

// FullDuration is the intrinsic length of the media.
func (c *ClipRef) FullDuration() gentime.GenTime {
	if c.media == nil {
		return gentime.Zero
	}
	return c.media.Duration
}

// Track returns the owning track, or nil while detached.
func (c *ClipRef) Track() *Track {
	return c.parent
}

// TrackIndex returns the cached index of the owning track, -1 while detached.
func (c *ClipRef) TrackIndex() int {
	return c.trackIndex
}

func (c *ClipRef) setParent(t *Track, index int) {
	if t == nil {
		index = -1
	}
	c.parent, c.trackIndex = t, index
	c.syncSnap()
}

func (c *ClipRef) trackIndexChanged(index int) {
	if c.parent == nil {
		return
	}
	c.trackIndex = index
}

// SetTrackStart moves the clip. The owning track must be told through
// Track.ClipMoved to restore its ordering.
func (c *ClipRef) SetTrackStart(t gentime.GenTime) {
	c.trackStart = t
	if c.snap != nil {
		c.snap.UpdatePosition(int(t.Frames(c.rate())))
	}
}

// SetCropStart changes the media in-point without moving the clip.
func (c *ClipRef) SetCropStart(t gentime.GenTime) {
	c.cropStart = t
	c.syncSnapInOut()
}

// SetCropDuration changes the shown length.
func (c *ClipRef) SetCropDuration(t gentime.GenTime) {
	c.cropDuration = t
	c.syncSnapInOut()
}

// SetSpeed changes the playback speed; negative plays in reverse. Zero is ignored.
func (c *ClipRef) SetSpeed(speed float64) {
	if speed == 0 {
		return
	}
	c.speed = speed
	if c.snap != nil {
		c.snap.UpdateSpeed(speed)
	}
}

// AddEffect appends an effect to the clip's effect stack.
func (c *ClipRef) AddEffect(name string) {
	c.effects = append(c.effects, name)
	if c.parent != nil {
		c.parent.effectStackChanged(c)
	}
}

// RemoveEffect removes the first effect with the given name.
func (c *ClipRef) RemoveEffect(name string) bool {
	i := slices.Index(c.effects, name)
	if i < 0 {
		return false
	}
	c.effects = slices.Delete(c.effects, i, i+1)
	if c.parent != nil {
		c.parent.effectStackChanged(c)
	}
	return true
}

// Effects returns a copy of the effect stack.
func (c *ClipRef) Effects() []string {
	return slices.Clone(c.effects)
}

// AttachSnap registers the clip's snap points, including the media markers,
// with target.
func (c *ClipRef) AttachSnap(target snap.Target) {
	if c.snap == nil {
		in, out := c.snapInOut()
		c.snap = snap.NewClipSnapModel(int(c.trackStart.Frames(c.rate())), in, out, c.speed)
		if c.media != nil && c.media.Markers != nil {
			c.media.Markers.RegisterSnapModel(c.snap)
		}
	}
	c.snap.Register(target)
}

// DetachSnap retracts every contributed snap point.
func (c *ClipRef) DetachSnap() {
	if c.snap == nil {
		return
	}
	if c.media != nil && c.media.Markers != nil {
		c.media.Markers.DeregisterSnapModel(c.snap)
	}
	c.snap.Deregister()
	c.snap = nil
}

// SnapPoints returns the timeline frames this clip contributes.
func (c *ClipRef) SnapPoints() []int {
	if c.snap == nil {
		return nil
	}
	return c.snap.SnapPoints()
}

func (c *ClipRef) snapInOut() (int, int) {
	r := c.rate()
	return int(c.cropStart.Frames(r)), int(c.CropEnd().Frames(r))
}

func (c *ClipRef) syncSnapInOut() {
	if c.snap == nil {
		return
	}
	in, out := c.snapInOut()
	c.snap.UpdateInOut(in, out)
}

// syncSnap recomputes every frame value, needed when the frame rate source changes.
func (c *ClipRef) syncSnap() {
	if c.snap == nil {
		return
	}
	in, out := c.snapInOut()
	c.snap.Place(int(c.trackStart.Frames(c.rate())), in, out)
}

// Destroy releases the media reference and snap contributions. The clip
// must already be detached from its track.
func (c *ClipRef) Destroy() {
	if c.destroyed {
		return
	}
	c.DetachSnap()
	if c.media != nil {
		c.media.Release()
	}
	c.parent, c.trackIndex = nil, -1
	c.destroyed = true
}

// ToXML describes the placement.
func (c *ClipRef) ToXML() ClipElement {
	el := ClipElement{
		ID:           c.id,
		TrackStart:   c.trackStart,
		CropStart:    c.cropStart,
		CropDuration: c.cropDuration,
	}
	if c.media != nil {
		el.Media = c.media.ID
	}
	if c.speed != 1 {
		el.Speed = c.speed
	}
	for _, e := range c.effects {
		el.Effects = append(el.Effects, EffectElement{Name: e})
	}
	return el
}

// MatchesXML reports whether el describes the same placement. IDs are not compared.
func (c *ClipRef) MatchesXML(el ClipElement) bool {
	if c.media == nil || c.media.ID != el.Media {
		return false
	}
	speed := el.Speed
	if speed == 0 {
		speed = 1
	}
	if speed != c.speed || len(el.Effects) != len(c.effects) {
		return false
	}
	for i, e := range el.Effects {
		if e.Name != c.effects[i] {
			return false
		}
	}
	return c.trackStart.Equal(el.TrackStart) &&
		c.cropStart.Equal(el.CropStart) &&
		c.cropDuration.Equal(el.CropDuration)
}
