// Package project ties tracks, media and markers into one editable timeline
// document and reads and writes it as XML.
package project

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"montage/gentime"
	"montage/snap"
	"montage/timeline"
)

// Document is an open project. It is the frame rate and track index source
// for its tracks and the document ClipGroup moves resolve tracks through.
type Document struct {
	Name    string
	Media   *MediaPool
	Tracks  *timeline.TrackList
	Markers *snap.MarkerListModel
	Snaps   *snap.Registry

	rate        gentime.Rate
	legacySound bool
	logger      *slog.Logger
}

type Option func(*Document)

func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithLegacySoundOverlap makes sound tracks use the historic overlap check
// that ignores selected clips.
func WithLegacySoundOverlap(on bool) Option {
	return func(d *Document) {
		d.legacySound = on
	}
}

// New creates an empty document. The global markers feed the snap registry.
func New(name string, rate gentime.Rate, opts ...Option) *Document {
	if rate.IsZero() {
		rate = gentime.DefaultRate
	}
	d := &Document{
		Name:    name,
		Media:   NewMediaPool(),
		Tracks:  timeline.NewTrackList(),
		Markers: snap.NewMarkerListModel(rate),
		Snaps:   snap.NewRegistry(),
		rate:    rate,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Markers.RegisterSnapModel(d.Snaps)
	return d
}

func (d *Document) FramesPerSecond() gentime.Rate { return d.rate }
func (d *Document) IndexOf(t *timeline.Track) int { return d.Tracks.IndexOf(t) }
func (d *Document) TrackAt(i int) *timeline.Track { return d.Tracks.TrackAt(i) }
func (d *Document) Length() gentime.GenTime       { return d.Tracks.Length() }
func (d *Document) Logger() *slog.Logger          { return d.logger }

func (d *Document) trackOptions(kind timeline.TrackKind) []timeline.Option {
	opts := []timeline.Option{timeline.WithLogger(d.logger)}
	if kind == timeline.KindSound && d.legacySound {
		opts = append(opts, timeline.WithPolicy(timeline.LegacySoundOverlap{}))
	}
	return opts
}

// AddTrack appends an empty track of the given kind.
func (d *Document) AddTrack(kind timeline.TrackKind) *timeline.Track {
	t := timeline.NewTrack(kind, d, d.trackOptions(kind)...)
	d.Tracks.Append(t)
	return t
}

// NewClip creates a detached clip of a pooled media with its snap points
// registered. The caller places it on a track.
func (d *Document) NewClip(mediaID string, start, cropStart, cropDuration gentime.GenTime) (*timeline.ClipRef, error) {
	m, ok := d.Media.Get(mediaID)
	if !ok {
		return nil, fmt.Errorf("new clip: %w: %s", timeline.ErrMediaNotFound, mediaID)
	}
	c := timeline.NewClipRef(uuid.NewString(), m, start, cropStart, cropDuration)
	c.AttachSnap(d.Snaps)
	return c, nil
}

// ClipFactory returns a factory whose clips feed this document's snap registry.
func (d *Document) ClipFactory() timeline.ClipFactory {
	return snapFactory{snaps: d.Snaps}
}

type snapFactory struct {
	snaps *snap.Registry
}

func (f snapFactory) NewClip(m *timeline.Media, el timeline.ClipElement) *timeline.ClipRef {
	c := timeline.DefaultClipFactory{}.NewClip(m, el)
	c.AttachSnap(f.snaps)
	return c
}

// Clips returns every clip of every track, track by track.
func (d *Document) Clips() []*timeline.ClipRef {
	var out []*timeline.ClipRef
	for _, t := range d.Tracks.Tracks() {
		out = append(out, t.Clips()...)
	}
	return out
}

// NearestSnap returns the snap point closest to frame within tolerance frames.
func (d *Document) NearestSnap(frame, tolerance int) (int, bool) {
	return d.Snaps.Nearest(frame, tolerance)
}
