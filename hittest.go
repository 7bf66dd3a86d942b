package gazekit

import (
	"math"
	"sort"
)

// HitShape is a ray-testable volume in world coordinates.
type HitShape interface {
	// IntersectRay returns the distance along the unit direction to the
	// first intersection at or after origin.
	IntersectRay(origin, direction Vec3) (float64, bool)
}

// --- Built-in HitShape types ---

// HitSphere is a spherical hit volume.
type HitSphere struct {
	Center Vec3
	Radius float64
}

// IntersectRay intersects a ray with the sphere. A ray starting inside the
// sphere hits its far side.
func (s HitSphere) IntersectRay(origin, direction Vec3) (float64, bool) {
	oc := origin.Sub(s.Center)
	b := oc.Dot(direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// HitBox is an axis-aligned box hit volume.
type HitBox struct {
	Min, Max Vec3
}

// IntersectRay intersects a ray with the box using the slab method. A ray
// starting inside the box hits its exit face.
func (b HitBox) IntersectRay(origin, direction Vec3) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	for i := 0; i < 3; i++ {
		if direction[i] == 0 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / direction[i]
		t1 := (b.Min[i] - origin[i]) * inv
		t2 := (b.Max[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Collider registers a shape under a target handle.
type Collider struct {
	Target       TargetHandle
	Name         string
	Shape        HitShape
	Layers       LayerMask // zero means LayerDefault
	Interactable bool
}

// World is a flat set of colliders that answers nearest-hit ray queries.
// It is the built-in hit-test provider; hosts with their own physics supply
// a HitTestFunc instead.
type World struct {
	colliders []*Collider
	next      TargetHandle
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{}
}

// Add registers a shape and returns its collider with a fresh target handle.
func (w *World) Add(name string, shape HitShape, layers LayerMask) *Collider {
	w.next++
	for w.find(w.next) != nil {
		w.next++
	}
	c := &Collider{Target: w.next, Name: name, Shape: shape, Layers: layers, Interactable: true}
	w.colliders = append(w.colliders, c)
	return c
}

// AddWithHandle registers a shape under a caller-chosen handle, replacing
// any collider that already uses it. NoTarget is rejected.
func (w *World) AddWithHandle(target TargetHandle, name string, shape HitShape, layers LayerMask) *Collider {
	if target == NoTarget {
		return nil
	}
	w.Remove(target)
	c := &Collider{Target: target, Name: name, Shape: shape, Layers: layers, Interactable: true}
	w.colliders = append(w.colliders, c)
	return c
}

// Remove unregisters the collider with the given handle.
func (w *World) Remove(target TargetHandle) {
	for i, c := range w.colliders {
		if c.Target == target {
			w.colliders = append(w.colliders[:i], w.colliders[i+1:]...)
			return
		}
	}
}

// Collider returns the collider registered under target, or nil.
func (w *World) Collider(target TargetHandle) *Collider {
	return w.find(target)
}

// Colliders returns the colliders ordered by handle. The returned slice is a
// copy.
func (w *World) Colliders() []*Collider {
	out := append([]*Collider(nil), w.colliders...)
	sort.Slice(out, func(i, j int) bool { return out[i].Target < out[j].Target })
	return out
}

// Name returns the collider name for target, or "" when unknown.
func (w *World) Name(target TargetHandle) string {
	if c := w.find(target); c != nil {
		return c.Name
	}
	return ""
}

func (w *World) find(target TargetHandle) *Collider {
	for _, c := range w.colliders {
		if c.Target == target {
			return c
		}
	}
	return nil
}

// Raycast returns the nearest interactable collider on mask hit within
// maxDistance. Ties keep the collider registered first.
func (w *World) Raycast(origin, direction Vec3, maxDistance float64, mask LayerMask) (Hit, bool) {
	var best Hit
	found := false
	for _, c := range w.colliders {
		if !c.Interactable || c.Shape == nil {
			continue
		}
		layers := c.Layers
		if layers == 0 {
			layers = LayerDefault
		}
		if !mask.Has(layers) {
			continue
		}
		d, ok := c.Shape.IntersectRay(origin, direction)
		if !ok || d > maxDistance {
			continue
		}
		if !found || d < best.Distance {
			best = Hit{Target: c.Target, Point: origin.Add(direction.Mul(d)), Distance: d, Layers: layers}
			found = true
		}
	}
	return best, found
}

// HitTest adapts the world to a HitTestFunc restricted to mask.
func (w *World) HitTest(mask LayerMask) HitTestFunc {
	return func(origin, direction Vec3, maxDistance float64) (Hit, bool) {
		return w.Raycast(origin, direction, maxDistance, mask)
	}
}
