package gazekit

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3D vector used for positions and directions throughout the API.
// World space is right-handed with +Y up.
type Vec3 = mgl64.Vec3

// Quat is a rotation quaternion.
type Quat = mgl64.Quat

var (
	// Up is the world up axis.
	Up = Vec3{0, 1, 0}
	// Forward is the local forward axis. LookRotation maps it onto the
	// requested direction.
	Forward = Vec3{0, 0, 1}
)

// TargetHandle identifies a hit-testable object in the scene. The zero value
// is NoTarget.
type TargetHandle uint32

// NoTarget is the absent target.
const NoTarget TargetHandle = 0

// LayerMask selects interactable categories, analogous to an engine layer mask.
type LayerMask uint32

const (
	LayerDefault LayerMask = 1             // layer of hits that report no layer
	LayerAll     LayerMask = ^LayerMask(0) // every layer
)

// Has reports whether m and other share at least one layer.
func (m LayerMask) Has(other LayerMask) bool {
	return m&other != 0
}

// GazeSample is one frame's eye-tracking reading. Direction is expected to be
// unit length; the tracker normalizes it otherwise.
type GazeSample struct {
	Origin     Vec3
	Direction  Vec3
	Valid      bool
	Confidence float64 // [0, 1]
}

// Hit is the nearest qualifying intersection returned by a hit test.
type Hit struct {
	Target   TargetHandle
	Point    Vec3
	Distance float64
	Layers   LayerMask // zero means LayerDefault
}

func (h Hit) layers() LayerMask {
	if h.Layers == 0 {
		return LayerDefault
	}
	return h.Layers
}

// HitTestFunc casts a ray from origin along direction (unit length) and
// returns the nearest intersection within maxDistance.
type HitTestFunc func(origin, direction Vec3, maxDistance float64) (Hit, bool)

// GazeEventType identifies a tracker transition.
type GazeEventType uint8

const (
	GazeEnter  GazeEventType = iota // gaze started hitting a target
	GazeExit                        // gaze stopped hitting a target
	GazeSelect                      // dwell on a target reached the threshold
)

// String returns the event name.
func (t GazeEventType) String() string {
	switch t {
	case GazeEnter:
		return "enter"
	case GazeExit:
		return "exit"
	case GazeSelect:
		return "select"
	default:
		return "unknown"
	}
}

// GazeEvent is a single tracker transition. Point is the hit point for Enter
// and Select; Dwell is the accumulated dwell time when the event fired.
type GazeEvent struct {
	Type   GazeEventType
	Target TargetHandle
	Point  Vec3
	Dwell  float64
}

// finite reports whether every component of v is a real number.
func finite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// approxEqual is used for float comparisons in geometry code.
func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
