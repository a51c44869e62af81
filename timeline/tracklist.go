package timeline

import (
	"errors"
	"fmt"
	"slices"

	"montage/gentime"
)

// Document resolves tracks by position. ClipGroup moves go through it.
type Document interface {
	TrackAt(i int) *Track
	IndexOf(t *Track) int
}

// TrackList owns the ordered tracks of a timeline. Clips cache their
// track's position, so every reordering re-announces the indices.
type TrackList struct {
	tracks []*Track
}

func NewTrackList(tracks ...*Track) *TrackList {
	l := &TrackList{tracks: slices.Clone(tracks)}
	l.reindex(0)
	return l
}

func (l *TrackList) Len() int         { return len(l.tracks) }
func (l *TrackList) Tracks() []*Track { return slices.Clone(l.tracks) }

// At returns the i-th track, nil when out of range.
func (l *TrackList) At(i int) *Track {
	if i < 0 || i >= len(l.tracks) {
		return nil
	}
	return l.tracks[i]
}

func (l *TrackList) TrackAt(i int) *Track { return l.At(i) }

func (l *TrackList) IndexOf(t *Track) int {
	return slices.Index(l.tracks, t)
}

func (l *TrackList) Append(t *Track) {
	l.tracks = append(l.tracks, t)
	l.reindex(len(l.tracks) - 1)
}

// Insert puts t at position i, clamped to the list bounds.
func (l *TrackList) Insert(i int, t *Track) {
	i = max(0, min(i, len(l.tracks)))
	l.tracks = slices.Insert(l.tracks, i, t)
	l.reindex(i)
}

// Remove takes t out of the list. Its clips stay on it.
func (l *TrackList) Remove(t *Track) bool {
	i := l.IndexOf(t)
	if i < 0 {
		return false
	}
	l.tracks = slices.Delete(l.tracks, i, i+1)
	t.trackIndexChanged(-1)
	l.reindex(i)
	return true
}

// Move relocates the track at from to position to.
func (l *TrackList) Move(from, to int) bool {
	t := l.At(from)
	if t == nil || to < 0 || to >= len(l.tracks) {
		return false
	}
	if from == to {
		return true
	}
	l.tracks = slices.Delete(l.tracks, from, from+1)
	l.tracks = slices.Insert(l.tracks, to, t)
	l.reindex(min(from, to))
	return true
}

func (l *TrackList) reindex(from int) {
	for i := from; i < len(l.tracks); i++ {
		l.tracks[i].trackIndexChanged(i)
	}
}

// Length is the longest track length.
func (l *TrackList) Length() gentime.GenTime {
	length := gentime.Zero
	for _, t := range l.tracks {
		length = gentime.Max(length, t.Length())
	}
	return length
}

func (l *TrackList) ToXML() []TrackElement {
	out := make([]TrackElement, 0, len(l.tracks))
	for _, t := range l.tracks {
		out = append(out, t.ToXML())
	}
	return out
}

// TrackListFromXML builds one track per element. Tracks with an unknown
// cliptype are skipped. Every problem is reported in the joined error and
// the list holds whatever could be built.
func TrackListFromXML(media MediaLookup, factory ClipFactory, project Project, els []TrackElement, opts ...Option) (*TrackList, error) {
	l := NewTrackList()
	var errs []error
	for i, el := range els {
		t, err := CreateTrack(media, factory, project, el, opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("track %d: %w", i, err))
		}
		if t != nil {
			l.Append(t)
		}
	}
	return l, errors.Join(errs...)
}
