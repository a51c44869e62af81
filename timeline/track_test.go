package timeline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"montage/gentime"
	"montage/snap"
)

func TestAddClipRejectsOverlap(t *testing.T) {
	p := newTestProject(KindVideo)
	tr := p.tracks.At(0)

	require.True(t, tr.AddClip(clipAt("a", 0, 10), false))
	b := clipAt("b", 5, 3)
	assert.False(t, tr.AddClip(b, false))
	assert.Equal(t, 1, tr.NumClips())
	assert.True(t, tr.Length().Equal(sec(10)))
	assert.Nil(t, b.Track())
	assert.Equal(t, -1, b.TrackIndex())
}

func TestAddClipChecksBothPartitions(t *testing.T) {
	for _, kind := range []TrackKind{KindVideo, KindSound} {
		t.Run(string(kind), func(t *testing.T) {
			tr := NewTrack(kind, nil)
			require.True(t, tr.AddClip(clipAt("a", 0, 10), true))
			assert.False(t, tr.AddClip(clipAt("b", 5, 3), false))
			assert.True(t, tr.AddClip(clipAt("c", 10, 3), false))
		})
	}
}

func TestLegacySoundOverlapIgnoresSelected(t *testing.T) {
	tr := NewSoundTrack(nil, WithPolicy(LegacySoundOverlap{}))
	require.True(t, tr.AddClip(clipAt("a", 0, 10), true))
	assert.True(t, tr.AddClip(clipAt("b", 5, 3), false))

	tr = NewSoundTrack(nil)
	require.True(t, tr.AddClip(clipAt("a", 0, 10), true))
	assert.False(t, tr.AddClip(clipAt("b", 5, 3), false))
}

func TestAddClipChecksMediaKind(t *testing.T) {
	audioOnly := NewMedia("wav", "wav", "", sec(30), false, true)
	videoOnly := NewMedia("png", "png", "", gentime.Zero, true, false)

	video := NewVideoTrack(nil)
	sound := NewSoundTrack(nil)

	assert.False(t, video.AddClip(NewClipRef("a", audioOnly, sec(0), sec(0), sec(5)), false))
	assert.True(t, sound.AddClip(NewClipRef("b", audioOnly, sec(0), sec(0), sec(5)), false))
	assert.True(t, video.AddClip(NewClipRef("c", videoOnly, sec(0), sec(0), sec(5)), false))
	assert.False(t, sound.AddClip(NewClipRef("d", videoOnly, sec(10), sec(0), sec(5)), false))
	assert.False(t, video.AddClip(nil, false))
}

func TestAddClipTwiceFails(t *testing.T) {
	p := newTestProject(KindVideo, KindVideo)
	c := clipAt("a", 0, 5)
	require.True(t, p.tracks.At(0).AddClip(c, false))
	assert.False(t, p.tracks.At(1).AddClip(c, false))
	assert.Equal(t, p.tracks.At(0), c.Track())
	assert.Equal(t, 0, c.TrackIndex())
}

func TestAddClipClampsCropToTrackRate(t *testing.T) {
	p := newTestProject(KindVideo)
	p.rate = gentime.Rate23976
	tr := p.tracks.At(0)
	frame := gentime.Rate23976.FrameDuration()

	c := NewClipRef("short", avMedia("m"), gentime.Zero, gentime.Zero, gentime.New(1, 25))
	require.True(t, c.CropDuration().Equal(gentime.New(1, 25)))
	require.True(t, tr.AddClip(c, false))
	assert.True(t, c.CropDuration().Equal(frame), c.CropDuration().String())
	assert.True(t, tr.Length().Equal(frame))

	// Widened to a full frame it would reach the next clip, so it is refused
	// and keeps its crop.
	next := NewClipRef("next", avMedia("n"), sec(1), gentime.Zero, sec(1))
	require.True(t, tr.AddClip(next, false))
	tight := NewClipRef("tight", avMedia("t"), sec(1).Sub(gentime.New(1, 25)), gentime.Zero, gentime.New(1, 25))
	assert.False(t, tr.AddClip(tight, false))
	assert.True(t, tight.CropDuration().Equal(gentime.New(1, 25)))
}

func TestRemoveClip(t *testing.T) {
	p := newTestProject(KindVideo)
	tr := p.tracks.At(0)
	a, b := clipAt("a", 0, 5), clipAt("b", 5, 5)
	require.True(t, tr.AddClip(a, false))
	require.True(t, tr.AddClip(b, true))

	assert.True(t, tr.RemoveClip(b))
	assert.Nil(t, b.Track())
	assert.Equal(t, -1, b.TrackIndex())
	assert.True(t, tr.Length().Equal(sec(5)))
	assert.False(t, tr.RemoveClip(b))
	assert.False(t, b.Destroyed())
}

func TestClipMovedResorts(t *testing.T) {
	tr := NewVideoTrack(nil)
	a, b, c := clipAt("a", 0, 2), clipAt("b", 5, 2), clipAt("c", 10, 2)
	require.Equal(t, 3, tr.AddClips([]*ClipRef{a, b, c}, false))

	a.SetTrackStart(sec(20))
	tr.ClipMoved(a)
	assert.Equal(t, []string{"b", "c", "a"}, ids(tr.UnselectedClips()))
	assert.True(t, tr.Length().Equal(sec(22)))
}

func TestClipMovedSuspended(t *testing.T) {
	tr := NewVideoTrack(nil)
	a, b := clipAt("a", 0, 2), clipAt("b", 5, 2)
	tr.AddClips([]*ClipRef{a, b}, false)

	batch := tr.SuspendSorting()
	a.SetTrackStart(sec(10))
	tr.ClipMoved(a)
	assert.Equal(t, []string{"a", "b"}, ids(tr.UnselectedClips()))
	batch.End()
	assert.Equal(t, []string{"b", "a"}, ids(tr.UnselectedClips()))
}

func TestSelectClip(t *testing.T) {
	tr := NewVideoTrack(nil)
	var cnt counter
	tr.Subscribe(cnt.listener())

	a, b := clipAt("a", 0, 2), clipAt("b", 5, 2)
	tr.AddClip(a, false)
	tr.AddClip(b, false)

	require.True(t, tr.SelectClip(b, true))
	assert.Equal(t, []*ClipRef{b}, cnt.selected)
	assert.Equal(t, 1, cnt.selection)
	assert.Equal(t, []string{"b"}, ids(tr.SelectedClips()))
	assert.True(t, tr.HasSelectedClips())

	// already there
	assert.True(t, tr.SelectClip(b, true))
	assert.Equal(t, 1, cnt.selection)

	require.True(t, tr.SelectClip(b, false))
	assert.Len(t, cnt.selected, 1)
	assert.Equal(t, 2, cnt.selection)

	assert.False(t, tr.SelectClip(clipAt("x", 50, 1), true))
}

func TestSelectAll(t *testing.T) {
	tr := NewVideoTrack(nil)
	tr.AddClips([]*ClipRef{clipAt("a", 0, 2), clipAt("b", 5, 2), clipAt("c", 9, 2)}, false)

	tr.SelectAll(true)
	assert.Equal(t, []string{"a", "b", "c"}, ids(tr.SelectedClips()))
	assert.Empty(t, tr.UnselectedClips())

	tr.SelectNone()
	assert.Equal(t, []string{"a", "b", "c"}, ids(tr.UnselectedClips()))
}

func TestMoveClips(t *testing.T) {
	tr := NewVideoTrack(nil)
	var cnt counter
	tr.Subscribe(cnt.listener())

	a, b, c := clipAt("a", 0, 2), clipAt("b", 5, 2), clipAt("c", 10, 2)
	tr.AddClips([]*ClipRef{a, b, c}, false)
	tr.SelectClip(a, true)
	tr.SelectClip(b, true)
	cnt = counter{}

	tr.MoveClips(sec(20), true)
	assert.True(t, a.TrackStart().Equal(sec(20)))
	assert.True(t, b.TrackStart().Equal(sec(25)))
	assert.True(t, tr.Length().Equal(sec(27)))
	assert.Equal(t, 1, cnt.layout)
	assert.Equal(t, 1, cnt.length)
	assert.Equal(t, []string{"c", "a", "b"}, ids(tr.Clips()))
	assert.False(t, tr.SortingSuspended())
	assert.False(t, tr.CollisionDetectionSuspended())
}

func TestCheckTrackLengthEmpty(t *testing.T) {
	tr := NewVideoTrack(nil)
	var cnt counter
	tr.Subscribe(cnt.listener())

	tr.CheckTrackLength()
	assert.True(t, tr.Length().IsZero())
	assert.Equal(t, 0, cnt.length)
}

func TestLengthNotifiesOnlyOnChange(t *testing.T) {
	tr := NewVideoTrack(nil)
	var cnt counter
	unsubscribe := tr.Subscribe(cnt.listener())

	a, b := clipAt("a", 0, 10), clipAt("b", 2, 3)
	tr.AddClip(a, false)
	tr.RemoveClip(a)
	tr.AddClip(a, false)
	assert.Equal(t, 3, cnt.length)

	tr.SelectClip(a, true)
	assert.Equal(t, 3, cnt.length)

	unsubscribe()
	tr.RemoveClip(a)
	tr.AddClip(b, false)
	assert.Equal(t, 3, cnt.length)
	assert.True(t, tr.Length().Equal(sec(5)))
}

func TestBatchDefersNotifications(t *testing.T) {
	tr := NewVideoTrack(nil)
	var cnt counter
	tr.Subscribe(cnt.listener())

	outer := tr.BeginBatch()
	inner := tr.SuspendSorting()
	tr.AddClip(clipAt("b", 10, 2), false)
	tr.AddClip(clipAt("a", 0, 2), false)
	// overlap goes through while collisions are suspended
	tr.AddClip(clipAt("c", 1, 2), false)
	inner.End()
	inner.End()
	assert.Equal(t, 0, cnt.layout)
	assert.Equal(t, 0, cnt.length)
	assert.True(t, tr.SortingSuspended())

	outer.End()
	assert.Equal(t, 1, cnt.layout)
	assert.Equal(t, 1, cnt.length)
	assert.Equal(t, []string{"a", "c", "b"}, ids(tr.UnselectedClips()))
	assert.True(t, tr.Length().Equal(sec(12)))
	assert.False(t, tr.SortingSuspended())
	assert.False(t, tr.CollisionDetectionSuspended())

	var nilBatch *Batch
	nilBatch.End()
}

func TestResizeClipTrackEndStopsAtNext(t *testing.T) {
	tr := NewVideoTrack(nil)
	a, b := clipAt("a", 0, 10), clipAt("b", 10, 5)
	tr.AddClips([]*ClipRef{a, b}, false)

	tr.ResizeClipTrackEnd(a, sec(12))
	assert.True(t, a.TrackEnd().Equal(sec(10)))
	assert.True(t, a.CropDuration().Equal(sec(10)))
	assert.True(t, tr.Length().Equal(sec(15)))
}

func TestResizeClipTrackEndClamps(t *testing.T) {
	tr := NewVideoTrack(nil)
	m := NewMedia("m", "m", "", sec(20), true, true)
	c := NewClipRef("c", m, sec(0), sec(5), sec(10))
	require.True(t, tr.AddClip(c, false))

	tr.ResizeClipTrackEnd(c, sec(30))
	assert.True(t, c.CropDuration().Equal(sec(15)), "limited by media length")

	tr.ResizeClipTrackEnd(c, sec(-4))
	assert.True(t, c.CropDuration().Equal(gentime.Rate25.FrameDuration()), "at least one frame")
	assert.True(t, c.CropStart().Equal(sec(5)))
}

func TestResizeClipTrackStartClamps(t *testing.T) {
	tr := NewVideoTrack(nil)
	m := NewMedia("m", "m", "", sec(60), true, true)
	a := NewClipRef("a", m, sec(0), sec(0), sec(10))
	b := NewClipRef("b", m, sec(12), sec(5), sec(5))
	c := NewClipRef("c", m, sec(30), sec(2), sec(5))
	tr.AddClips([]*ClipRef{a, b, c}, false)

	// cannot cross into a
	tr.ResizeClipTrackStart(b, sec(8))
	assert.True(t, b.TrackStart().Equal(sec(10)))
	assert.True(t, b.CropStart().Equal(sec(3)))
	assert.True(t, b.TrackEnd().Equal(sec(17)))

	// crop start cannot go negative
	tr.ResizeClipTrackStart(c, sec(20))
	assert.True(t, c.TrackStart().Equal(sec(28)))
	assert.True(t, c.CropStart().IsZero())
	assert.True(t, c.TrackEnd().Equal(sec(35)))

	// at least one frame
	tr.ResizeClipTrackStart(c, sec(40))
	assert.True(t, c.CropDuration().Equal(gentime.Rate25.FrameDuration()))
	assert.True(t, c.TrackEnd().Equal(sec(35)))
	assert.True(t, tr.Length().Equal(sec(35)))
}

func TestResizeIdempotent(t *testing.T) {
	tr := NewVideoTrack(nil)
	m := NewMedia("m", "m", "", sec(60), true, true)
	a := NewClipRef("a", m, sec(0), sec(0), sec(10))
	b := NewClipRef("b", m, sec(12), sec(5), sec(5))
	c := NewClipRef("c", m, sec(20), sec(0), sec(5))
	tr.AddClips([]*ClipRef{a, b, c}, false)

	tr.ResizeClipTrackStart(b, sec(1))
	start, crop, dur := b.TrackStart(), b.CropStart(), b.CropDuration()
	tr.ResizeClipTrackStart(b, start)
	assert.True(t, b.TrackStart().Equal(start))
	assert.True(t, b.CropStart().Equal(crop))
	assert.True(t, b.CropDuration().Equal(dur))

	tr.ResizeClipTrackEnd(b, sec(50))
	end, dur := b.TrackEnd(), b.CropDuration()
	assert.True(t, end.Equal(sec(20)))
	tr.ResizeClipTrackEnd(b, end)
	assert.True(t, b.TrackEnd().Equal(end))
	assert.True(t, b.CropDuration().Equal(dur))
}

func TestResizeUsesNeighborInOtherPartition(t *testing.T) {
	tr := NewVideoTrack(nil)
	a, b := clipAt("a", 0, 5), clipAt("b", 8, 5)
	tr.AddClip(a, true)
	tr.AddClip(b, false)

	tr.ResizeClipTrackEnd(a, sec(9))
	assert.True(t, a.TrackEnd().Equal(sec(8)))
}

func TestResizeUnknownClip(t *testing.T) {
	tr := NewVideoTrack(nil)
	c := clipAt("c", 0, 5)
	tr.ResizeClipTrackEnd(c, sec(8))
	tr.ResizeClipTrackStart(c, sec(1))
	assert.True(t, c.CropDuration().Equal(sec(5)))
}

func TestRangeQueries(t *testing.T) {
	tr := NewVideoTrack(nil)
	a, b, c := clipAt("a", 0, 4), clipAt("b", 6, 4), clipAt("c", 12, 4)
	tr.AddClip(a, false)
	tr.AddClip(b, true)
	tr.AddClip(c, false)

	assert.Equal(t, a, tr.ClipAt(sec(3)))
	assert.Nil(t, tr.ClipAt(sec(4)))
	assert.Equal(t, b, tr.ClipAt(sec(6)))
	assert.Nil(t, tr.ClipAt(sec(20)))

	assert.Equal(t, []string{"a", "b"}, ids(tr.ClipsInRange(sec(2), sec(7))))
	assert.Equal(t, []string{"b", "c"}, ids(tr.ClipsInRange(sec(8), sec(30))))
	assert.Empty(t, tr.ClipsInRange(sec(4), sec(6)))

	assert.Equal(t, a, tr.PreviousClip(b))
	assert.Equal(t, c, tr.NextClip(b))
	assert.Nil(t, tr.PreviousClip(a))
	assert.Nil(t, tr.NextClip(c))
	assert.Equal(t, a, tr.FirstClip())
	assert.Equal(t, c, tr.LastClip())
}

func TestDeleteClips(t *testing.T) {
	tr := NewVideoTrack(nil)
	m := avMedia("m")
	a := NewClipRef("a", m, sec(0), sec(0), sec(2))
	b := NewClipRef("b", m, sec(5), sec(0), sec(2))
	tr.AddClip(a, true)
	tr.AddClip(b, false)
	require.Equal(t, 2, m.RefCount())

	tr.DeleteClips(true)
	assert.True(t, a.Destroyed())
	assert.Equal(t, 1, m.RefCount())
	assert.Equal(t, 1, tr.NumClips())

	tr.DeleteAll()
	assert.True(t, b.Destroyed())
	assert.Zero(t, m.RefCount())
	assert.Zero(t, tr.NumClips())
	assert.True(t, tr.Length().IsZero())
}

func TestEffectStackNotifies(t *testing.T) {
	tr := NewVideoTrack(nil)
	var got []*ClipRef
	tr.Subscribe(ListenerFuncs{OnEffectStackChanged: func(_ *Track, c *ClipRef) { got = append(got, c) }})

	c := clipAt("c", 0, 5)
	c.AddEffect("blur")
	require.True(t, tr.AddClip(c, false))
	c.AddEffect("fade")
	assert.True(t, c.RemoveEffect("blur"))
	assert.False(t, c.RemoveEffect("blur"))
	assert.Equal(t, []*ClipRef{c, c}, got)
	assert.Equal(t, []string{"fade"}, c.Effects())
}

func TestClipSnapFollowsMoves(t *testing.T) {
	reg := snap.NewRegistry()
	tr := NewVideoTrack(nil)
	m := avMedia("m")
	m.Markers = snap.NewMarkerListModel(gentime.Rate25)
	m.Markers.AddMarker(sec(1), "beat", 0)

	c := NewClipRef("c", m, sec(2), sec(0), sec(4))
	require.True(t, tr.AddClip(c, false))
	c.AttachSnap(reg)
	assert.Equal(t, []int{50, 75, 150}, reg.Points())

	c.SetTrackStart(sec(4))
	tr.ClipMoved(c)
	assert.Equal(t, []int{100, 125, 200}, reg.Points())

	tr.ResizeClipTrackEnd(c, sec(6))
	assert.Equal(t, []int{100, 125, 150}, reg.Points())

	tr.RemoveClip(c)
	c.Destroy()
	assert.Zero(t, reg.Len())
}

func TestSortInvariantHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := NewVideoTrack(nil)
	var clips []*ClipRef

	for step := 0; step < 500; step++ {
		switch rng.Intn(3) {
		case 0:
			c := clipAt("c", int64(rng.Intn(200)), int64(1+rng.Intn(8)))
			if tr.AddClip(c, rng.Intn(2) == 0) {
				clips = append(clips, c)
			}
		case 1:
			if len(clips) == 0 {
				continue
			}
			tr.SelectClip(clips[rng.Intn(len(clips))], rng.Intn(2) == 0)
		case 2:
			if len(clips) == 0 {
				continue
			}
			c := clips[rng.Intn(len(clips))]
			old := c.TrackStart()
			tr.RemoveClip(c)
			c.SetTrackStart(sec(int64(rng.Intn(200))))
			if !tr.CanAddClip(c) {
				c.SetTrackStart(old)
			}
			tr.AddClip(c, false)
			c.SetTrackStart(c.TrackStart())
			tr.ClipMoved(c)
		}
		require.NoError(t, checkPartition(tr.SelectedList()), "step %d", step)
		require.NoError(t, checkPartition(tr.UnselectedList()), "step %d", step)
		require.True(t, tr.Length().Equal(maxEnd(tr)), "step %d", step)
	}
}
