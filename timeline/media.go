package timeline

import (
	"montage/gentime"
	"montage/snap"
)

// Media is the underlying media clip that placements reference.
type Media struct {
	ID       string
	Name     string
	Path     string
	Duration gentime.GenTime // zero means no intrinsic limit (stills, generators)
	HasVideo bool
	HasAudio bool

	// Markers are clip-local, measured in media frames.
	Markers *snap.MarkerListModel

	refs int
}

// NewMedia creates a media descriptor.
func NewMedia(id, name, path string, duration gentime.GenTime, hasVideo, hasAudio bool) *Media {
	return &Media{
		ID:       id,
		Name:     name,
		Path:     path,
		Duration: duration,
		HasVideo: hasVideo,
		HasAudio: hasAudio,
	}
}

// Retain records a new reference.
func (m *Media) Retain() {
	m.refs++
}

// Release drops a reference and returns the remaining count.
func (m *Media) Release() int {
	if m.refs > 0 {
		m.refs--
	}
	return m.refs
}

// RefCount returns the number of live clip references.
func (m *Media) RefCount() int {
	return m.refs
}

// MediaLookup resolves media descriptors by ID.
type MediaLookup interface {
	Media(id string) (*Media, bool)
}
