package fcp

import "sync"

// ResourceRegistry hands out resource IDs that are unique across formats,
// assets and effects, and appends registered resources to the document.
type ResourceRegistry struct {
	mu sync.RWMutex

	assets  map[string]*Asset
	formats map[string]*Format
	effects map[string]*Effect

	next    int
	usedIDs map[string]bool

	// basename -> UID, so one file keeps one UID within an export
	fileUIDs map[string]string

	ml *FCPXML
}

// NewResourceRegistry creates a registry over ml. IDs already present in
// ml are never handed out again.
func NewResourceRegistry(ml *FCPXML) *ResourceRegistry {
	r := &ResourceRegistry{
		assets:   make(map[string]*Asset),
		formats:  make(map[string]*Format),
		effects:  make(map[string]*Effect),
		usedIDs:  make(map[string]bool),
		fileUIDs: make(map[string]string),
		ml:       ml,
	}
	for i := range ml.Resources.Assets {
		a := &ml.Resources.Assets[i]
		r.assets[a.ID] = a
		r.usedIDs[a.ID] = true
	}
	for i := range ml.Resources.Formats {
		f := &ml.Resources.Formats[i]
		r.formats[f.ID] = f
		r.usedIDs[f.ID] = true
	}
	for i := range ml.Resources.Effects {
		e := &ml.Resources.Effects[i]
		r.effects[e.ID] = e
		r.usedIDs[e.ID] = true
	}
	r.next = len(r.usedIDs) + 1
	return r
}

// ReserveIDs returns count fresh "rN" IDs, skipping any already in use.
func (r *ResourceRegistry) ReserveIDs(count int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, count)
	for len(ids) < count {
		id := GenerateResourceID(r.next)
		r.next++
		if r.usedIDs[id] {
			continue
		}
		r.usedIDs[id] = true
		ids = append(ids, id)
	}
	return ids
}

func (r *ResourceRegistry) RegisterAsset(asset *Asset) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ml.Resources.Assets = append(r.ml.Resources.Assets, *asset)
	r.assets[asset.ID] = asset
}

func (r *ResourceRegistry) RegisterFormat(format *Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ml.Resources.Formats = append(r.ml.Resources.Formats, *format)
	r.formats[format.ID] = format
}

func (r *ResourceRegistry) RegisterEffect(effect *Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ml.Resources.Effects = append(r.ml.Resources.Effects, *effect)
	r.effects[effect.ID] = effect
}

func (r *ResourceRegistry) GetAsset(id string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assets[id]
	return a, ok
}

func (r *ResourceRegistry) GetFormat(id string) (*Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formats[id]
	return f, ok
}

// FindAssetBySrc returns the asset already registered for a media-rep src.
func (r *ResourceRegistry) FindAssetBySrc(src string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.assets {
		if a.MediaRep.Src == src {
			return a, true
		}
	}
	return nil, false
}

// FindEffectByName returns the effect registered under name.
func (r *ResourceRegistry) FindEffectByName(name string) (*Effect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.effects {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// GenerateConsistentUID returns the UID for a file basename, the same one
// every time within this registry.
func (r *ResourceRegistry) GenerateConsistentUID(filename string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if uid, ok := r.fileUIDs[filename]; ok {
		return uid
	}
	uid := GenerateUID(filename)
	r.fileUIDs[filename] = uid
	return uid
}

// Len is the number of registered resources of every kind.
func (r *ResourceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.assets) + len(r.formats) + len(r.effects)
}
