package fcp

import (
	"errors"
	"path/filepath"

	"montage/gentime"
	"montage/timeline"
)

var ErrRolledBack = errors.New("transaction has been rolled back")

// ResourceTransaction collects resources and registers them together on Commit.
type ResourceTransaction struct {
	registry *ResourceRegistry
	reserved []string
	formats  []*Format
	assets   []*Asset
	effects  []*Effect
	rolled   bool
}

func NewTransaction(registry *ResourceRegistry) *ResourceTransaction {
	return &ResourceTransaction{registry: registry}
}

// ReserveIDs reserves count IDs. It returns nil after Rollback.
func (tx *ResourceTransaction) ReserveIDs(count int) []string {
	if tx.rolled {
		return nil
	}
	ids := tx.registry.ReserveIDs(count)
	tx.reserved = append(tx.reserved, ids...)
	return ids
}

// CreateAsset describes m as an asset in the given format.
func (tx *ResourceTransaction) CreateAsset(id string, m *timeline.Media, formatID string) (*Asset, error) {
	if tx.rolled {
		return nil, ErrRolledBack
	}

	src := m.Path
	if src == "" {
		src = m.ID
	}
	absPath, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}
	uid := tx.registry.GenerateConsistentUID(filepath.Base(src))

	name := m.Name
	if name == "" {
		name = m.ID
	}
	asset := &Asset{
		ID:       id,
		Name:     name,
		UID:      uid,
		Start:    "0s",
		Duration: m.Duration.String(),
		MediaRep: MediaRep{
			Kind: "original-media",
			Sig:  uid,
			Src:  "file://" + absPath,
		},
	}
	if m.HasVideo {
		asset.HasVideo = "1"
		asset.Format = formatID
		asset.VideoSources = "1"
	}
	if m.HasAudio {
		asset.HasAudio = "1"
		asset.AudioSources = "1"
		asset.AudioChannels = "2"
		asset.AudioRate = "48000"
	}

	tx.assets = append(tx.assets, asset)
	return asset, nil
}

// CreateFormat creates the sequence format for rate.
func (tx *ResourceTransaction) CreateFormat(id, width, height string, rate gentime.Rate) (*Format, error) {
	if tx.rolled {
		return nil, ErrRolledBack
	}
	format := &Format{
		ID:            id,
		Name:          formatName(height, rate),
		FrameDuration: rate.FrameDuration().String(),
		Width:         width,
		Height:        height,
		ColorSpace:    "1-1-1 (Rec. 709)",
	}
	tx.formats = append(tx.formats, format)
	return format, nil
}

// CreateEffect creates a video filter effect.
func (tx *ResourceTransaction) CreateEffect(id, name, uid string) (*Effect, error) {
	if tx.rolled {
		return nil, ErrRolledBack
	}
	effect := &Effect{
		ID:   id,
		Name: name,
		UID:  uid,
	}
	tx.effects = append(tx.effects, effect)
	return effect, nil
}

// Commit registers everything created since the last commit.
func (tx *ResourceTransaction) Commit() error {
	if tx.rolled {
		return ErrRolledBack
	}
	for _, f := range tx.formats {
		tx.registry.RegisterFormat(f)
	}
	for _, a := range tx.assets {
		tx.registry.RegisterAsset(a)
	}
	for _, e := range tx.effects {
		tx.registry.RegisterEffect(e)
	}
	tx.formats, tx.assets, tx.effects = nil, nil, nil
	return nil
}

// Rollback rolls back the transaction (IDs remain reserved)
func (tx *ResourceTransaction) Rollback() {
	tx.rolled = true
	tx.formats, tx.assets, tx.effects = nil, nil, nil
}

// formatName follows FCP's FFVideoFormat naming, e.g. FFVideoFormat1080p2398.
func formatName(height string, rate gentime.Rate) string {
	var suffix string
	switch rate {
	case gentime.Rate23976:
		suffix = "2398"
	case gentime.Rate2997:
		suffix = "2997"
	default:
		suffix = rate.String()
	}
	return "FFVideoFormat" + height + "p" + suffix
}
