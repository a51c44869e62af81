// Package snap keeps the set of timeline positions that interactive drags
// can snap to.
//
// Clips and marker lists contribute points to a shared Registry. A point
// stays in the registry until every contributor that added it has removed it.
package snap

import (
	"sort"
	"sync"
)

// Target receives point contributions. Registry and ClipSnapModel implement it.
type Target interface {
	AddPoint(frame int)
	RemovePoint(frame int)
}

// Registry is the timeline-wide snap point set.
type Registry struct {
	mu     sync.RWMutex
	points map[int]int // frame -> number of contributors
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{points: make(map[int]int)}
}

// AddPoint registers one contribution at frame.
func (r *Registry) AddPoint(frame int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points[frame]++
}

// RemovePoint retracts one contribution at frame.
func (r *Registry) RemovePoint(frame int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.points[frame]
	if !ok {
		return
	}
	if n <= 1 {
		delete(r.points, frame)
		return
	}
	r.points[frame] = n - 1
}

// Has reports whether frame is a snap point.
func (r *Registry) Has(frame int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.points[frame]
	return ok
}

// Len returns the number of distinct points.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.points)
}

// Points returns the distinct points in ascending order.
func (r *Registry) Points() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, 0, len(r.points))
	for p := range r.points {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Nearest returns the point closest to frame within tolerance frames.
// Ties resolve to the earlier point.
func (r *Registry) Nearest(frame, tolerance int) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best, bestDist, found := 0, 0, false
	for p := range r.points {
		dist := p - frame
		if dist < 0 {
			dist = -dist
		}
		if dist > tolerance {
			continue
		}
		if !found || dist < bestDist || (dist == bestDist && p < best) {
			best, bestDist, found = p, dist, true
		}
	}
	return best, found
}

// Clear drops every point.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = make(map[int]int)
}
