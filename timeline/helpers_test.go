package timeline

import (
	"fmt"

	"montage/gentime"
)

type testProject struct {
	rate   gentime.Rate
	tracks *TrackList
}

func newTestProject(kinds ...TrackKind) *testProject {
	p := &testProject{rate: gentime.Rate25, tracks: NewTrackList()}
	for _, k := range kinds {
		p.tracks.Append(NewTrack(k, p))
	}
	return p
}

func (p *testProject) FramesPerSecond() gentime.Rate { return p.rate }

func (p *testProject) IndexOf(t *Track) int {
	if p.tracks == nil {
		return -1
	}
	return p.tracks.IndexOf(t)
}

type mediaMap map[string]*Media

func (m mediaMap) Media(id string) (*Media, bool) {
	md, ok := m[id]
	return md, ok
}

func sec(n int64) gentime.GenTime { return gentime.Seconds(n) }

func avMedia(id string) *Media {
	return NewMedia(id, id, "/media/"+id+".mov", sec(100), true, true)
}

// clipAt makes a clip of an audio+video media at [start, start+dur).
func clipAt(id string, start, dur int64) *ClipRef {
	return NewClipRef(id, avMedia("m-"+id), sec(start), gentime.Zero, sec(dur))
}

type counter struct {
	layout, selection, length int
	selected                  []*ClipRef
	lengths                   []gentime.GenTime
}

func (c *counter) listener() ListenerFuncs {
	return ListenerFuncs{
		OnLayoutChanged:    func(*Track) { c.layout++ },
		OnSelectionChanged: func(*Track) { c.selection++ },
		OnClipSelected:     func(_ *Track, cl *ClipRef) { c.selected = append(c.selected, cl) },
		OnLengthChanged: func(_ *Track, l gentime.GenTime) {
			c.length++
			c.lengths = append(c.lengths, l)
		},
	}
}

func ids(clips []*ClipRef) []string {
	out := make([]string, len(clips))
	for i, c := range clips {
		out[i] = c.ID()
	}
	return out
}

func checkPartition(l *ClipRefList) error {
	for i := 1; i < l.Len(); i++ {
		prev, cur := l.At(i-1), l.At(i)
		if cur.TrackStart().Before(prev.TrackStart()) {
			return fmt.Errorf("unsorted at %d: %s before %s", i, cur.TrackStart(), prev.TrackStart())
		}
		if prev.TrackEnd().After(cur.TrackStart()) {
			return fmt.Errorf("overlap at %d: %s ends %s, %s starts %s", i, prev.ID(), prev.TrackEnd(), cur.ID(), cur.TrackStart())
		}
	}
	return nil
}

func maxEnd(t *Track) gentime.GenTime {
	end := gentime.Zero
	for _, c := range append(t.SelectedClips(), t.UnselectedClips()...) {
		end = gentime.Max(end, c.TrackEnd())
	}
	return end
}
