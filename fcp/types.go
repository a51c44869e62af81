// Package fcp defines the struct types for FCPXML output.
//
// Documents are built only from these structs and encoded with
// xml.MarshalIndent. Times are rational seconds ("1001/24000s") produced by
// gentime so every offset and duration stays frame aligned.
package fcp

import (
	"encoding/xml"
	"sort"

	"montage/gentime"
)

type FCPXML struct {
	XMLName   xml.Name  `xml:"fcpxml"`
	Version   string    `xml:"version,attr"`
	Resources Resources `xml:"resources"`
	Library   Library   `xml:"library"`
}

// Resources contains all assets, formats and effects. IDs are "r<n>" and
// unique across all three kinds; ResourceRegistry hands them out.
type Resources struct {
	Formats []Format `xml:"format"`
	Assets  []Asset  `xml:"asset,omitempty"`
	Effects []Effect `xml:"effect,omitempty"`
}

// Effect is a video filter referenced by <filter-video ref="…">.
type Effect struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	UID  string `xml:"uid,attr,omitempty"`
}

type Format struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr,omitempty"`
	FrameDuration string `xml:"frameDuration,attr,omitempty"`
	Width         string `xml:"width,attr,omitempty"`
	Height        string `xml:"height,attr,omitempty"`
	ColorSpace    string `xml:"colorSpace,attr,omitempty"`
}

// Asset represents a media file.
//
// UID = GenerateUID(filename) so the same file keeps its identity across
// exports; FCP refuses to re-import a file under a different UID.
type Asset struct {
	ID            string   `xml:"id,attr"`
	Name          string   `xml:"name,attr"`
	UID           string   `xml:"uid,attr"`
	Start         string   `xml:"start,attr"`
	HasVideo      string   `xml:"hasVideo,attr,omitempty"`
	Format        string   `xml:"format,attr,omitempty"`
	VideoSources  string   `xml:"videoSources,attr,omitempty"`
	HasAudio      string   `xml:"hasAudio,attr,omitempty"`
	AudioSources  string   `xml:"audioSources,attr,omitempty"`
	AudioChannels string   `xml:"audioChannels,attr,omitempty"`
	AudioRate     string   `xml:"audioRate,attr,omitempty"`
	Duration      string   `xml:"duration,attr"`
	MediaRep      MediaRep `xml:"media-rep"`
}

type MediaRep struct {
	Kind string `xml:"kind,attr"`
	Sig  string `xml:"sig,attr"`
	Src  string `xml:"src,attr"`
}

type Library struct {
	Location string  `xml:"location,attr,omitempty"`
	Events   []Event `xml:"event"`
}

type Event struct {
	Name     string    `xml:"name,attr"`
	UID      string    `xml:"uid,attr,omitempty"`
	Projects []Project `xml:"project"`
}

type Project struct {
	Name      string     `xml:"name,attr"`
	UID       string     `xml:"uid,attr,omitempty"`
	ModDate   string     `xml:"modDate,attr,omitempty"`
	Sequences []Sequence `xml:"sequence"`
}

type Sequence struct {
	Format      string `xml:"format,attr"`
	Duration    string `xml:"duration,attr"`
	TCStart     string `xml:"tcStart,attr"`
	TCFormat    string `xml:"tcFormat,attr"`
	AudioLayout string `xml:"audioLayout,attr"`
	AudioRate   string `xml:"audioRate,attr"`
	Spine       Spine  `xml:"spine"`
}

// Spine is the primary storyline. Elements are kept in per-kind slices and
// written in chronological order.
type Spine struct {
	XMLName    xml.Name    `xml:"spine"`
	AssetClips []AssetClip `xml:"asset-clip,omitempty"`
	Gaps       []Gap       `xml:"gap,omitempty"`
}

// MarshalXML writes asset clips and gaps interleaved by offset.
func (s Spine) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	type elementWithOffset struct {
		offset  gentime.GenTime
		element any
	}
	var elements []elementWithOffset
	for _, clip := range s.AssetClips {
		elements = append(elements, elementWithOffset{offset: parseOffset(clip.Offset), element: clip})
	}
	for _, gap := range s.Gaps {
		elements = append(elements, elementWithOffset{offset: parseOffset(gap.Offset), element: gap})
	}
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].offset.Before(elements[j].offset)
	})

	for _, elem := range elements {
		if err := e.Encode(elem.element); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// parseOffset reads an FCPXML time for sorting. Unparseable values sort first.
func parseOffset(s string) gentime.GenTime {
	t, err := gentime.Parse(s)
	if err != nil {
		return gentime.Zero
	}
	return t
}

// AssetClip places an asset. Clips connected to it sit in Clips with a
// non-zero Lane; their offsets are in this clip's local time.
type AssetClip struct {
	XMLName      xml.Name      `xml:"asset-clip"`
	Ref          string        `xml:"ref,attr"`
	Lane         string        `xml:"lane,attr,omitempty"`
	Offset       string        `xml:"offset,attr"`
	Name         string        `xml:"name,attr"`
	Start        string        `xml:"start,attr,omitempty"`
	Duration     string        `xml:"duration,attr"`
	Format       string        `xml:"format,attr,omitempty"`
	TCFormat     string        `xml:"tcFormat,attr,omitempty"`
	AudioRole    string        `xml:"audioRole,attr,omitempty"`
	Clips        []AssetClip   `xml:"asset-clip,omitempty"`
	Markers      []Marker      `xml:"marker,omitempty"`
	FilterVideos []FilterVideo `xml:"filter-video,omitempty"`
}

// Gap fills the spine where the primary track has no clip.
type Gap struct {
	XMLName  xml.Name    `xml:"gap"`
	Name     string      `xml:"name,attr"`
	Offset   string      `xml:"offset,attr"`
	Start    string      `xml:"start,attr,omitempty"`
	Duration string      `xml:"duration,attr"`
	Clips    []AssetClip `xml:"asset-clip,omitempty"`
	Markers  []Marker    `xml:"marker,omitempty"`
}

type Marker struct {
	Start    string `xml:"start,attr"`
	Duration string `xml:"duration,attr"`
	Value    string `xml:"value,attr"`
}

type FilterVideo struct {
	Ref  string `xml:"ref,attr"`
	Name string `xml:"name,attr"`
}
