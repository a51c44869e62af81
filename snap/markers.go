package snap

import (
	"slices"
	"sort"

	"montage/gentime"
)

// Marker is a named point in time.
type Marker struct {
	Position gentime.GenTime
	Comment  string
	Category int
}

// MarkerListModel is an ordered set of markers, at most one per frame.
// Each marker frame is pushed to every registered snap target.
type MarkerListModel struct {
	rate    gentime.Rate
	markers map[int]Marker
	targets []Target
}

// NewMarkerListModel creates an empty marker list measured at rate.
func NewMarkerListModel(rate gentime.Rate) *MarkerListModel {
	return &MarkerListModel{
		rate:    rate,
		markers: make(map[int]Marker),
	}
}

func (l *MarkerListModel) frame(t gentime.GenTime) int {
	return int(t.Frames(l.rate))
}

// AddMarker inserts a marker, or updates comment and category of the marker
// already on that frame.
func (l *MarkerListModel) AddMarker(pos gentime.GenTime, comment string, category int) {
	f := l.frame(pos)
	_, exists := l.markers[f]
	l.markers[f] = Marker{Position: pos, Comment: comment, Category: category}
	if exists {
		return
	}
	for _, t := range l.targets {
		t.AddPoint(f)
	}
}

// RemoveMarker deletes the marker on pos's frame.
func (l *MarkerListModel) RemoveMarker(pos gentime.GenTime) bool {
	f := l.frame(pos)
	if _, ok := l.markers[f]; !ok {
		return false
	}
	delete(l.markers, f)
	for _, t := range l.targets {
		t.RemovePoint(f)
	}
	return true
}

// EditMarker moves the marker at oldPos to newPos and replaces its text.
// It fails when there is no marker at oldPos or another marker sits at newPos.
func (l *MarkerListModel) EditMarker(oldPos, newPos gentime.GenTime, comment string, category int) bool {
	from, to := l.frame(oldPos), l.frame(newPos)
	if _, ok := l.markers[from]; !ok {
		return false
	}
	if from == to {
		l.markers[from] = Marker{Position: newPos, Comment: comment, Category: category}
		return true
	}
	if _, taken := l.markers[to]; taken {
		return false
	}
	l.RemoveMarker(oldPos)
	l.AddMarker(newPos, comment, category)
	return true
}

// MarkerAt returns the marker on pos's frame.
func (l *MarkerListModel) MarkerAt(pos gentime.GenTime) (Marker, bool) {
	m, ok := l.markers[l.frame(pos)]
	return m, ok
}

// Markers returns all markers in chronological order.
func (l *MarkerListModel) Markers() []Marker {
	frames := make([]int, 0, len(l.markers))
	for f := range l.markers {
		frames = append(frames, f)
	}
	sort.Ints(frames)

	out := make([]Marker, 0, len(frames))
	for _, f := range frames {
		out = append(out, l.markers[f])
	}
	return out
}

// Frames returns the marker frames in ascending order.
func (l *MarkerListModel) Frames() []int {
	frames := make([]int, 0, len(l.markers))
	for f := range l.markers {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}

// Len returns the number of markers.
func (l *MarkerListModel) Len() int {
	return len(l.markers)
}

// RegisterSnapModel pushes every marker to t and keeps it updated.
func (l *MarkerListModel) RegisterSnapModel(t Target) {
	if slices.Contains(l.targets, t) {
		return
	}
	l.targets = append(l.targets, t)
	for f := range l.markers {
		t.AddPoint(f)
	}
}

// DeregisterSnapModel retracts every marker from t.
func (l *MarkerListModel) DeregisterSnapModel(t Target) {
	i := slices.Index(l.targets, t)
	if i < 0 {
		return
	}
	l.targets = slices.Delete(l.targets, i, i+1)
	for f := range l.markers {
		t.RemovePoint(f)
	}
}
