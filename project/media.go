package project

import (
	"errors"
	"fmt"

	"montage/timeline"
)

var (
	ErrDuplicateMedia = errors.New("duplicate media id")
	ErrMediaInUse     = errors.New("media still referenced")
)

// MediaPool holds the media a project's clips can reference.
type MediaPool struct {
	items map[string]*timeline.Media
	order []string
}

func NewMediaPool() *MediaPool {
	return &MediaPool{items: make(map[string]*timeline.Media)}
}

// Add registers m under its ID.
func (p *MediaPool) Add(m *timeline.Media) error {
	if m == nil || m.ID == "" {
		return fmt.Errorf("add media: empty id")
	}
	if _, ok := p.items[m.ID]; ok {
		return fmt.Errorf("add media %s: %w", m.ID, ErrDuplicateMedia)
	}
	p.items[m.ID] = m
	p.order = append(p.order, m.ID)
	return nil
}

func (p *MediaPool) Get(id string) (*timeline.Media, bool) {
	m, ok := p.items[id]
	return m, ok
}

// Media implements timeline.MediaLookup.
func (p *MediaPool) Media(id string) (*timeline.Media, bool) {
	return p.Get(id)
}

// Remove drops unreferenced media.
func (p *MediaPool) Remove(id string) error {
	m, ok := p.items[id]
	if !ok {
		return fmt.Errorf("remove media %s: %w", id, timeline.ErrMediaNotFound)
	}
	if m.RefCount() > 0 {
		return fmt.Errorf("remove media %s: %w", id, ErrMediaInUse)
	}
	delete(p.items, id)
	for i, v := range p.order {
		if v == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns the media in insertion order.
func (p *MediaPool) List() []*timeline.Media {
	out := make([]*timeline.Media, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.items[id])
	}
	return out
}

func (p *MediaPool) Len() int { return len(p.order) }
