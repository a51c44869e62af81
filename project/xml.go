package project

import (
	"encoding/xml"
	"fmt"
	"os"

	"montage/gentime"
	"montage/snap"
	"montage/timeline"
)

// ProjectElement is the on-disk project layout.
type ProjectElement struct {
	XMLName xml.Name                `xml:"project"`
	Name    string                  `xml:"name,attr"`
	FPS     gentime.Rate            `xml:"fps,attr"`
	Media   []AssetElement          `xml:"media>asset"`
	Tracks  []timeline.TrackElement `xml:"track"`
	Markers []MarkerElement         `xml:"markers>marker"`
}

type AssetElement struct {
	ID       string          `xml:"id,attr"`
	Name     string          `xml:"name,attr,omitempty"`
	Path     string          `xml:"path,attr,omitempty"`
	Duration gentime.GenTime `xml:"duration,attr"`
	HasVideo bool            `xml:"video,attr"`
	HasAudio bool            `xml:"audio,attr"`
	Markers  []MarkerElement `xml:"marker"`
}

type MarkerElement struct {
	Position gentime.GenTime `xml:"position,attr"`
	Comment  string          `xml:"comment,attr,omitempty"`
	Category int             `xml:"category,attr,omitempty"`
}

func markerElements(l *snap.MarkerListModel) []MarkerElement {
	if l == nil {
		return nil
	}
	var out []MarkerElement
	for _, m := range l.Markers() {
		out = append(out, MarkerElement{Position: m.Position, Comment: m.Comment, Category: m.Category})
	}
	return out
}

// ToXML describes the whole document.
func (d *Document) ToXML() ProjectElement {
	el := ProjectElement{
		Name:    d.Name,
		FPS:     d.rate,
		Tracks:  d.Tracks.ToXML(),
		Markers: markerElements(d.Markers),
	}
	for _, m := range d.Media.List() {
		el.Media = append(el.Media, AssetElement{
			ID:       m.ID,
			Name:     m.Name,
			Path:     m.Path,
			Duration: m.Duration,
			HasVideo: m.HasVideo,
			HasAudio: m.HasAudio,
			Markers:  markerElements(m.Markers),
		})
	}
	return el
}

// Marshal encodes d with an XML header.
func Marshal(d *Document) ([]byte, error) {
	out, err := xml.MarshalIndent(d.ToXML(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal project: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// FromXML rebuilds a document. Any clip that cannot be placed fails the load.
func FromXML(el ProjectElement, opts ...Option) (*Document, error) {
	d := New(el.Name, el.FPS, opts...)
	for _, a := range el.Media {
		m := timeline.NewMedia(a.ID, a.Name, a.Path, a.Duration, a.HasVideo, a.HasAudio)
		if len(a.Markers) > 0 {
			m.Markers = snap.NewMarkerListModel(d.rate)
			for _, mk := range a.Markers {
				m.Markers.AddMarker(mk.Position, mk.Comment, mk.Category)
			}
		}
		if err := d.Media.Add(m); err != nil {
			return nil, err
		}
	}
	for i, te := range el.Tracks {
		kind, _ := timeline.ParseTrackKind(te.ClipType)
		t, err := timeline.CreateTrack(d.Media, d.ClipFactory(), d, te, d.trackOptions(kind)...)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		d.Tracks.Append(t)
	}
	for _, mk := range el.Markers {
		d.Markers.AddMarker(mk.Position, mk.Comment, mk.Category)
	}
	return d, nil
}

// Unmarshal decodes a project document.
func Unmarshal(data []byte, opts ...Option) (*Document, error) {
	var el ProjectElement
	if err := xml.Unmarshal(data, &el); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}
	return FromXML(el, opts...)
}

// Load reads a project file.
func Load(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	d, err := Unmarshal(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}

// Save writes d to path.
func Save(d *Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// MatchesXML reports whether every track matches its element.
func (d *Document) MatchesXML(el ProjectElement) bool {
	if d.Tracks.Len() != len(el.Tracks) {
		return false
	}
	for i, t := range d.Tracks.Tracks() {
		if !t.MatchesXML(el.Tracks[i]) {
			return false
		}
	}
	return true
}
