package snap

import (
	"math"
	"sort"
)

// ClipSnapModel holds the snap points of one placed clip.
//
// Points are stored in clip-local media frames and contributed to the
// registered Target in timeline frames. Any change of placement retracts
// every contributed point and contributes the recomputed set.
type ClipSnapModel struct {
	local       map[int]int
	contributed map[int]int
	target      Target

	position int // timeline frame of the clip start
	in       int // crop start in clip frames
	out      int // crop end in clip frames
	speed    float64
}

// NewClipSnapModel creates a model for a clip placed at position with the
// crop window [in, out).
func NewClipSnapModel(position, in, out int, speed float64) *ClipSnapModel {
	if speed == 0 {
		speed = 1
	}
	return &ClipSnapModel{
		local:       make(map[int]int),
		contributed: make(map[int]int),
		position:    position,
		in:          in,
		out:         out,
		speed:       speed,
	}
}

// Register attaches the model to target and contributes every point.
// A previously registered target loses its contributions first.
func (m *ClipSnapModel) Register(target Target) {
	m.retract()
	m.target = target
	m.contribute()
}

// Deregister retracts every point and detaches from the target.
func (m *ClipSnapModel) Deregister() {
	m.retract()
	m.target = nil
}

// Registered reports whether the model currently feeds a target.
func (m *ClipSnapModel) Registered() bool {
	return m.target != nil
}

// AddPoint adds a clip-local point.
func (m *ClipSnapModel) AddPoint(local int) {
	m.local[local]++
	if m.target == nil {
		return
	}
	if frame, ok := m.mapped(local); ok {
		m.push(frame)
	}
}

// RemovePoint removes a clip-local point.
func (m *ClipSnapModel) RemovePoint(local int) {
	n, ok := m.local[local]
	if !ok {
		return
	}
	if n <= 1 {
		delete(m.local, local)
	} else {
		m.local[local] = n - 1
	}
	if m.target == nil {
		return
	}
	if frame, ok := m.mapped(local); ok {
		m.pull(frame)
	}
}

// UpdatePosition moves the clip start on the timeline.
func (m *ClipSnapModel) UpdatePosition(position int) {
	m.retract()
	m.position = position
	m.contribute()
}

// UpdateInOut changes the crop window.
func (m *ClipSnapModel) UpdateInOut(in, out int) {
	m.retract()
	m.in, m.out = in, out
	m.contribute()
}

// Place sets position and crop window in one retract/contribute pass.
func (m *ClipSnapModel) Place(position, in, out int) {
	m.retract()
	m.position, m.in, m.out = position, in, out
	m.contribute()
}

// UpdateSpeed changes the playback speed. Zero is treated as 1.
func (m *ClipSnapModel) UpdateSpeed(speed float64) {
	if speed == 0 {
		speed = 1
	}
	m.retract()
	m.speed = speed
	m.contribute()
}

// LocalPoints returns the clip-local points in ascending order.
func (m *ClipSnapModel) LocalPoints() []int {
	out := make([]int, 0, len(m.local))
	for p := range m.local {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// SnapPoints returns the timeline frames currently contributed.
func (m *ClipSnapModel) SnapPoints() []int {
	out := make([]int, 0, len(m.contributed))
	for p, n := range m.contributed {
		for i := 0; i < n; i++ {
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}

// mapped converts a clip-local frame to a timeline frame. Points outside
// the crop window are not visible on the timeline.
func (m *ClipSnapModel) mapped(local int) (int, bool) {
	scale := math.Abs(m.speed)
	l := float64(local)
	if l < float64(m.in)*scale || l > float64(m.out)*scale {
		return 0, false
	}
	if m.speed < 0 {
		return int(math.Ceil(float64(m.out+m.position) + l/m.speed - float64(m.in))), true
	}
	return int(math.Ceil(float64(m.position) + l/m.speed - float64(m.in))), true
}

func (m *ClipSnapModel) contribute() {
	if m.target == nil {
		return
	}
	m.push(m.position)
	m.push(m.position + m.out - m.in)
	for local, n := range m.local {
		frame, ok := m.mapped(local)
		if !ok {
			continue
		}
		for i := 0; i < n; i++ {
			m.push(frame)
		}
	}
}

func (m *ClipSnapModel) retract() {
	if m.target == nil {
		return
	}
	for frame, n := range m.contributed {
		for i := 0; i < n; i++ {
			m.target.RemovePoint(frame)
		}
	}
	m.contributed = make(map[int]int)
}

func (m *ClipSnapModel) push(frame int) {
	m.contributed[frame]++
	m.target.AddPoint(frame)
}

func (m *ClipSnapModel) pull(frame int) {
	n := m.contributed[frame]
	if n == 0 {
		return
	}
	if n == 1 {
		delete(m.contributed, frame)
	} else {
		m.contributed[frame] = n - 1
	}
	m.target.RemovePoint(frame)
}
