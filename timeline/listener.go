package timeline

import (
	"slices"

	"montage/gentime"
)

// Listener receives track notifications. Redraw and undo-dirty logic hang off these.
type Listener interface {
	LayoutChanged(t *Track)
	SelectionChanged(t *Track)
	ClipSelected(t *Track, c *ClipRef)
	LengthChanged(t *Track, length gentime.GenTime)
	EffectStackChanged(t *Track, c *ClipRef)
}

// ListenerFuncs adapts optional funcs to Listener.
type ListenerFuncs struct {
	OnLayoutChanged      func(t *Track)
	OnSelectionChanged   func(t *Track)
	OnClipSelected       func(t *Track, c *ClipRef)
	OnLengthChanged      func(t *Track, length gentime.GenTime)
	OnEffectStackChanged func(t *Track, c *ClipRef)
}

func (f ListenerFuncs) LayoutChanged(t *Track) {
	if f.OnLayoutChanged != nil {
		f.OnLayoutChanged(t)
	}
}

func (f ListenerFuncs) SelectionChanged(t *Track) {
	if f.OnSelectionChanged != nil {
		f.OnSelectionChanged(t)
	}
}

func (f ListenerFuncs) ClipSelected(t *Track, c *ClipRef) {
	if f.OnClipSelected != nil {
		f.OnClipSelected(t, c)
	}
}

func (f ListenerFuncs) LengthChanged(t *Track, length gentime.GenTime) {
	if f.OnLengthChanged != nil {
		f.OnLengthChanged(t, length)
	}
}

func (f ListenerFuncs) EffectStackChanged(t *Track, c *ClipRef) {
	if f.OnEffectStackChanged != nil {
		f.OnEffectStackChanged(t, c)
	}
}

type subscription struct {
	l Listener
}

// Subscribe adds l and returns a func that removes it.
func (t *Track) Subscribe(l Listener) func() {
	sub := &subscription{l: l}
	t.subs = append(t.subs, sub)
	return func() {
		if i := slices.Index(t.subs, sub); i >= 0 {
			t.subs = slices.Delete(t.subs, i, i+1)
		}
	}
}

// pending collects notifications raised while a batch is open.
type pending struct {
	layout    bool
	selection bool
	length    bool
	selected  []*ClipRef
}

func (t *Track) layoutChanged() {
	if t.suspended() {
		t.pending.layout = true
		return
	}
	for _, s := range slices.Clone(t.subs) {
		s.l.LayoutChanged(t)
	}
}

func (t *Track) selectionChanged() {
	if t.suspended() {
		t.pending.selection = true
		return
	}
	for _, s := range slices.Clone(t.subs) {
		s.l.SelectionChanged(t)
	}
}

func (t *Track) clipSelected(c *ClipRef) {
	if t.suspended() {
		t.pending.selected = append(t.pending.selected, c)
		return
	}
	for _, s := range slices.Clone(t.subs) {
		s.l.ClipSelected(t, c)
	}
}

func (t *Track) lengthChanged() {
	for _, s := range slices.Clone(t.subs) {
		s.l.LengthChanged(t, t.length)
	}
}

func (t *Track) effectStackChanged(c *ClipRef) {
	for _, s := range slices.Clone(t.subs) {
		s.l.EffectStackChanged(t, c)
	}
}

// flush delivers what was collected during a batch.
func (t *Track) flush() {
	p := t.pending
	t.pending = pending{}
	if p.layout {
		t.layoutChanged()
	}
	for _, c := range p.selected {
		t.clipSelected(c)
	}
	if p.selection {
		t.selectionChanged()
	}
	if p.length {
		t.CheckTrackLength()
	}
}
