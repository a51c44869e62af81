package timeline

import "montage/gentime"

// ResizeClipTrackStart moves c's in-point so the clip starts at newStart.
// The clip end stays where it is. Clamps apply in order: the crop start
// stays >= 0, the duration fits the media, the clip keeps at least one
// frame, and the start does not cross into the previous clip.
func (t *Track) ResizeClipTrackStart(c *ClipRef, newStart gentime.GenTime) {
	if !t.Contains(c) {
		t.warn("resize start: clip not on track", c)
		return
	}
	end, cropEnd := c.TrackEnd(), c.CropEnd()
	dur := end.Sub(newStart)

	if dur.After(cropEnd) {
		dur = cropEnd
	}
	if full := c.FullDuration(); !full.IsZero() && dur.After(full) {
		dur = full
	}
	if frame := t.FramesPerSecond().FrameDuration(); dur.Before(frame) {
		dur = frame
	}
	if prev := t.PreviousClip(c); prev != nil && end.Sub(dur).Before(prev.TrackEnd()) {
		dur = end.Sub(prev.TrackEnd())
	}

	if dur.Equal(c.cropDuration) {
		return
	}
	c.trackStart = end.Sub(dur)
	c.cropStart = cropEnd.Sub(dur)
	c.cropDuration = dur
	c.syncSnap()
	if t.sortSuspend == 0 {
		t.partitionOf(c).Resort(c)
	}
	t.layoutChanged()
	t.CheckTrackLength()
}

// ResizeClipTrackEnd moves c's out-point so the clip ends at newEnd. Clamps
// apply in order: the crop window fits the media, the clip keeps at least
// one frame, and the end does not cross into the next clip.
func (t *Track) ResizeClipTrackEnd(c *ClipRef, newEnd gentime.GenTime) {
	if !t.Contains(c) {
		t.warn("resize end: clip not on track", c)
		return
	}
	dur := newEnd.Sub(c.trackStart)

	if full := c.FullDuration(); !full.IsZero() && c.cropStart.Add(dur).After(full) {
		dur = full.Sub(c.cropStart)
	}
	if frame := t.FramesPerSecond().FrameDuration(); dur.Before(frame) {
		dur = frame
	}
	if next := t.NextClip(c); next != nil && c.trackStart.Add(dur).After(next.trackStart) {
		dur = next.trackStart.Sub(c.trackStart)
	}

	if dur.Equal(c.cropDuration) {
		return
	}
	c.SetCropDuration(dur)
	t.layoutChanged()
	t.CheckTrackLength()
}
