package timeline

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"montage/gentime"
)

// TrackElement is the persisted form of a track.
type TrackElement struct {
	XMLName  xml.Name      `xml:"track"`
	ClipType string        `xml:"cliptype,attr"`
	Clips    []ClipElement `xml:"clip"`
}

// ClipElement is the persisted form of one clip placement.
type ClipElement struct {
	ID           string          `xml:"id,attr,omitempty"`
	Media        string          `xml:"media,attr"`
	TrackStart   gentime.GenTime `xml:"trackstart,attr"`
	CropStart    gentime.GenTime `xml:"cropstart,attr"`
	CropDuration gentime.GenTime `xml:"cropduration,attr"`
	Speed        float64         `xml:"speed,attr,omitempty"`
	Effects      []EffectElement `xml:"effect"`
}

type EffectElement struct {
	Name string `xml:"name,attr"`
}

// ClipFactory builds clips from persisted descriptors.
type ClipFactory interface {
	NewClip(m *Media, el ClipElement) *ClipRef
}

// DefaultClipFactory copies the element verbatim and assigns a fresh ID
// when the element has none.
type DefaultClipFactory struct{}

func (DefaultClipFactory) NewClip(m *Media, el ClipElement) *ClipRef {
	id := el.ID
	if id == "" {
		id = uuid.NewString()
	}
	c := NewClipRef(id, m, el.TrackStart, el.CropStart, el.CropDuration)
	if el.Speed != 0 {
		c.speed = el.Speed
	}
	for _, e := range el.Effects {
		c.effects = append(c.effects, e.Name)
	}
	return c
}

// ToXML lists the clips in chronological order.
func (t *Track) ToXML() TrackElement {
	el := TrackElement{ClipType: string(t.kind)}
	for c := range t.All() {
		el.Clips = append(el.Clips, c.ToXML())
	}
	return el
}

// MatchesXML reports whether el describes this track's kind and clips.
func (t *Track) MatchesXML(el TrackElement) bool {
	if el.ClipType != string(t.kind) {
		return false
	}
	clips := t.Clips()
	if len(clips) != len(el.Clips) || len(clips) != t.NumClips() {
		return false
	}
	for i, c := range clips {
		if !c.MatchesXML(el.Clips[i]) {
			return false
		}
	}
	return true
}

// CreateTrack builds a track from el, adding each clip unselected with
// overlap checks enabled. An unknown cliptype returns a nil track. Missing
// media and rejected clips are listed in the returned error while the track
// keeps every clip that could be placed.
func CreateTrack(media MediaLookup, factory ClipFactory, project Project, el TrackElement, opts ...Option) (*Track, error) {
	kind, ok := ParseTrackKind(el.ClipType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClipType, el.ClipType)
	}
	if factory == nil {
		factory = DefaultClipFactory{}
	}
	t := NewTrack(kind, project, opts...)
	var errs []error
	for i, ce := range el.Clips {
		m, ok := media.Media(ce.Media)
		if !ok {
			errs = append(errs, fmt.Errorf("clip %d: %w: %s", i, ErrMediaNotFound, ce.Media))
			continue
		}
		c := factory.NewClip(m, ce)
		if !t.AddClip(c, false) {
			c.Destroy()
			errs = append(errs, fmt.Errorf("clip %d (%s): %w", i, c.ID(), ErrClipRejected))
		}
	}
	return t, errors.Join(errs...)
}
