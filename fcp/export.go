package fcp

import (
	"errors"
	"fmt"

	"montage/gentime"
	"montage/project"
	"montage/timeline"
)

var ErrNilDocument = errors.New("nil document")

// spine element under construction; exactly one of clip and gap is set.
type segment struct {
	offset gentime.GenTime
	start  gentime.GenTime // source time at offset
	clip   *AssetClip
	gap    *Gap
}

func (s *segment) connect(c AssetClip) {
	if s.clip != nil {
		s.clip.Clips = append(s.clip.Clips, c)
	} else {
		s.gap.Clips = append(s.gap.Clips, c)
	}
}

func (s *segment) mark(m Marker) {
	if s.clip != nil {
		s.clip.Markers = append(s.clip.Markers, m)
	} else {
		s.gap.Markers = append(s.gap.Markers, m)
	}
}

// local converts a timeline time to this segment's source time.
func (s *segment) local(t gentime.GenTime) gentime.GenTime {
	return s.start.Add(t.Sub(s.offset))
}

type exporter struct {
	doc      *project.Document
	rate     gentime.Rate
	formatID string
	assets   map[string]string // media ID -> asset ID
	effects  map[string]string // effect name -> effect ID
	segments []*segment
}

// Export builds an FCPXML 1.11 document from doc.
//
// The first video track becomes the primary storyline, with gaps where it
// has no clip. Clips of every other track connect to the spine element that
// covers their start: video tracks on lanes 1, 2, ... and sound tracks on
// lanes -1, -2, ... in track order.
func Export(doc *project.Document) (*FCPXML, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	ml := &FCPXML{Version: "1.11"}
	x := &exporter{
		doc:     doc,
		rate:    doc.FramesPerSecond(),
		assets:  make(map[string]string),
		effects: make(map[string]string),
	}
	if err := x.resources(NewResourceRegistry(ml)); err != nil {
		return nil, err
	}

	primary := x.primaryTrack()
	end := x.buildSpine(primary)

	videoLane, soundLane := 0, 0
	for _, t := range doc.Tracks.Tracks() {
		if t == primary {
			continue
		}
		var lane int
		if t.Kind() == timeline.KindSound {
			soundLane--
			lane = soundLane
		} else {
			videoLane++
			lane = videoLane
		}
		for c := range t.All() {
			seg := x.covering(c.TrackStart())
			if seg == nil {
				continue
			}
			ac := x.assetClip(c, seg.local(c.TrackStart()))
			ac.Lane = fmt.Sprint(lane)
			seg.connect(ac)
		}
	}

	for _, m := range doc.Markers.Markers() {
		if seg := x.covering(m.Position); seg != nil {
			seg.mark(Marker{
				Start:    seg.local(m.Position).String(),
				Duration: x.rate.FrameDuration().String(),
				Value:    m.Comment,
			})
		}
	}

	var spine Spine
	for _, seg := range x.segments {
		if seg.clip != nil {
			spine.AssetClips = append(spine.AssetClips, *seg.clip)
		} else {
			spine.Gaps = append(spine.Gaps, *seg.gap)
		}
	}

	ml.Library = Library{
		Events: []Event{{
			Name: "montage",
			Projects: []Project{{
				Name: doc.Name,
				UID:  GenerateUID(doc.Name),
				Sequences: []Sequence{{
					Format:      x.formatID,
					Duration:    end.String(),
					TCStart:     "0s",
					TCFormat:    "NDF",
					AudioLayout: "stereo",
					AudioRate:   "48k",
					Spine:       spine,
				}},
			}},
		}},
	}
	return ml, nil
}

// resources registers the sequence format, one asset per referenced media
// and one effect per distinct effect name, in first-use order.
func (x *exporter) resources(reg *ResourceRegistry) error {
	tx := NewTransaction(reg)

	x.formatID = tx.ReserveIDs(1)[0]
	if _, err := tx.CreateFormat(x.formatID, "1920", "1080", x.rate); err != nil {
		return err
	}

	for _, c := range x.doc.Clips() {
		m := c.Media()
		if m == nil {
			tx.Rollback()
			return fmt.Errorf("clip %s: %w", c.ID(), timeline.ErrMediaNotFound)
		}
		if _, ok := x.assets[m.ID]; !ok {
			id := tx.ReserveIDs(1)[0]
			if _, err := tx.CreateAsset(id, m, x.formatID); err != nil {
				tx.Rollback()
				return fmt.Errorf("asset %s: %w", m.ID, err)
			}
			x.assets[m.ID] = id
		}
		for _, name := range c.Effects() {
			if _, ok := x.effects[name]; ok {
				continue
			}
			id := tx.ReserveIDs(1)[0]
			if _, err := tx.CreateEffect(id, name, "montage.filter."+name); err != nil {
				tx.Rollback()
				return err
			}
			x.effects[name] = id
		}
	}
	return tx.Commit()
}

func (x *exporter) primaryTrack() *timeline.Track {
	for _, t := range x.doc.Tracks.Tracks() {
		if t.Kind() == timeline.KindVideo {
			return t
		}
	}
	return nil
}

// buildSpine lays out the primary track and pads the spine with a trailing
// gap so every clip and marker has a covering element. It returns the
// sequence duration.
func (x *exporter) buildSpine(primary *timeline.Track) gentime.GenTime {
	cursor := gentime.Zero
	if primary != nil {
		for c := range primary.All() {
			if c.TrackStart().After(cursor) {
				x.addGap(cursor, c.TrackStart())
			}
			x.segments = append(x.segments, &segment{
				offset: c.TrackStart(),
				start:  c.CropStart(),
				clip:   ptr(x.assetClip(c, c.TrackStart())),
			})
			cursor = gentime.Max(cursor, c.TrackEnd())
		}
	}

	end := gentime.Max(cursor, x.doc.Length())
	if markers := x.doc.Markers.Markers(); len(markers) > 0 {
		last := markers[len(markers)-1].Position.Add(x.rate.FrameDuration())
		end = gentime.Max(end, last)
	}
	if end.After(cursor) {
		x.addGap(cursor, end)
	}
	return end
}

func (x *exporter) addGap(from, to gentime.GenTime) {
	x.segments = append(x.segments, &segment{
		offset: from,
		gap: &Gap{
			Name:     "Gap",
			Offset:   from.String(),
			Duration: to.Sub(from).String(),
		},
	})
}

// covering returns the last spine element starting at or before t.
func (x *exporter) covering(t gentime.GenTime) *segment {
	var found *segment
	for _, seg := range x.segments {
		if seg.offset.After(t) {
			break
		}
		found = seg
	}
	if found == nil && len(x.segments) > 0 {
		found = x.segments[0]
	}
	return found
}

// assetClip describes c placed at offset. Speed is not written; FCPXML
// needs a timeMap for that.
func (x *exporter) assetClip(c *timeline.ClipRef, offset gentime.GenTime) AssetClip {
	m := c.Media()
	name := m.Name
	if name == "" {
		name = m.ID
	}
	ac := AssetClip{
		Ref:      x.assets[m.ID],
		Offset:   offset.String(),
		Name:     name,
		Start:    c.CropStart().String(),
		Duration: c.CropDuration().String(),
		TCFormat: "NDF",
	}
	if m.HasVideo {
		ac.Format = x.formatID
	}
	if m.HasAudio {
		ac.AudioRole = "dialogue"
	}
	for _, effect := range c.Effects() {
		ac.FilterVideos = append(ac.FilterVideos, FilterVideo{Ref: x.effects[effect], Name: effect})
	}
	if m.Markers != nil {
		for _, mk := range m.Markers.Markers() {
			if mk.Position.Before(c.CropStart()) || !mk.Position.Before(c.CropEnd()) {
				continue
			}
			ac.Markers = append(ac.Markers, Marker{
				Start:    mk.Position.String(),
				Duration: x.rate.FrameDuration().String(),
				Value:    mk.Comment,
			})
		}
	}
	return ac
}

func ptr[T any](v T) *T { return &v }
