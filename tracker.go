package gazekit

import (
	"errors"
	"fmt"
	"time"
)

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	// MaxDistance bounds the gaze ray. Hits farther away are ignored and the
	// ray endpoint falls back to origin + direction*MaxDistance.
	MaxDistance float64
	// DwellThreshold is the continuous hover time, in seconds, after which
	// Select fires. Dwell re-arms after every Select.
	DwellThreshold float64
	// LayerMask selects which hit layers count as interactable.
	LayerMask LayerMask
	// MinConfidence treats samples below this confidence as invalid.
	// Zero accepts every sample flagged valid.
	MinConfidence float64
}

// DefaultTrackerConfig returns the defaults used by the demo scene:
// a 10 unit ray, a 2 second dwell and every layer interactable.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		MaxDistance:    10,
		DwellThreshold: 2,
		LayerMask:      LayerAll,
	}
}

// Validate reports the first configuration inconsistency.
func (c TrackerConfig) Validate() error {
	switch {
	case !(c.MaxDistance > 0):
		return fmt.Errorf("gazekit: max distance must be positive, got %v", c.MaxDistance)
	case !(c.DwellThreshold > 0):
		return fmt.Errorf("gazekit: dwell threshold must be positive, got %v", c.DwellThreshold)
	case c.LayerMask == 0:
		return errors.New("gazekit: layer mask selects no layers")
	case c.MinConfidence < 0 || c.MinConfidence > 1:
		return fmt.Errorf("gazekit: min confidence must be in [0,1], got %v", c.MinConfidence)
	}
	return nil
}

// SampleSource supplies one gaze sample per tick. ok is false when the
// eye-tracking source is unavailable this frame.
type SampleSource interface {
	Sample() (sample GazeSample, ok bool)
}

// DwellState is a snapshot of the tracker's hover state.
type DwellState struct {
	Current     TargetHandle
	Accumulated float64
	Threshold   float64
}

// Tracker turns a stream of gaze samples into Enter, Exit and Select events
// for the target the gaze ray currently hits. It holds at most one current
// target and accumulates dwell time while that target stays hit.
//
// Tracker is single-threaded: call Update (or Tick) at most once per frame
// from the host's update pass.
type Tracker struct {
	cfg     TrackerConfig
	hitTest HitTestFunc
	source  SampleSource

	current TargetHandle
	dwell   float64

	rayOrigin  Vec3
	rayEnd     Vec3
	rayVisible bool

	handlers handlerRegistry
	feedback map[TargetHandle]TargetFeedback
	store    EventStore
	renderer RayRenderer

	injectQueue []GazeSample
	runner      *GazeRunner
	updating    bool
	debug       bool
	stats       trackerStats
}

// NewTracker creates a tracker bound to a hit-test provider. A missing
// provider or an inconsistent configuration is reported here, once, rather
// than per tick.
func NewTracker(cfg TrackerConfig, hitTest HitTestFunc) (*Tracker, error) {
	if hitTest == nil {
		return nil, errors.New("gazekit: tracker requires a hit-test provider")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{
		cfg:      cfg,
		hitTest:  hitTest,
		feedback: make(map[TargetHandle]TargetFeedback),
	}, nil
}

// Config returns the tracker configuration.
func (t *Tracker) Config() TrackerConfig { return t.cfg }

// Current returns the currently hovered target, or NoTarget.
func (t *Tracker) Current() TargetHandle { return t.current }

// Dwell returns a snapshot of the dwell state.
func (t *Tracker) Dwell() DwellState {
	return DwellState{Current: t.current, Accumulated: t.dwell, Threshold: t.cfg.DwellThreshold}
}

// Ray returns the endpoints of the visual ray computed by the last update.
// visible is false when the last sample was invalid.
func (t *Tracker) Ray() (origin, end Vec3, visible bool) {
	return t.rayOrigin, t.rayEnd, t.rayVisible
}

// SetSource sets the live sample source polled by Tick.
func (t *Tracker) SetSource(src SampleSource) { t.source = src }

// SetRayRenderer sets the optional ray renderer.
func (t *Tracker) SetRayRenderer(r RayRenderer) { t.renderer = r }

// SetEntityStore sets the optional ECS bridge.
func (t *Tracker) SetEntityStore(store EventStore) { t.store = store }

// SetFeedback attaches a feedback collaborator to a target. Passing nil
// detaches it.
func (t *Tracker) SetFeedback(target TargetHandle, fb TargetFeedback) {
	if fb == nil {
		delete(t.feedback, target)
		return
	}
	t.feedback[target] = fb
}

// SetDebugMode enables or disables debug mode. When enabled, transitions and
// periodic stats are printed to the debug output and reentrant updates
// panic.
func (t *Tracker) SetDebugMode(enabled bool) { t.debug = enabled }

// OnEnter registers a callback for Enter events.
func (t *Tracker) OnEnter(fn func(GazeEvent)) CallbackHandle {
	return t.handlers.addGaze(filterEnter, fn)
}

// OnExit registers a callback for Exit events.
func (t *Tracker) OnExit(fn func(GazeEvent)) CallbackHandle {
	return t.handlers.addGaze(filterExit, fn)
}

// OnSelect registers a callback for Select events.
func (t *Tracker) OnSelect(fn func(GazeEvent)) CallbackHandle {
	return t.handlers.addGaze(filterSelect, fn)
}

// OnEvent registers a callback for every event.
func (t *Tracker) OnEvent(fn func(GazeEvent)) CallbackHandle {
	return t.handlers.addGaze(filterAll, fn)
}

// Tick advances the tracker by one frame using the next injected sample, or
// the live source when nothing is injected. A tick with neither counts as
// lost tracking.
func (t *Tracker) Tick(dt float64) []GazeEvent {
	if t.runner != nil {
		t.runner.step(t)
	}
	if s, ok := t.popInjected(); ok {
		return t.Update(s, dt)
	}
	var s GazeSample
	if t.source != nil {
		if live, ok := t.source.Sample(); ok {
			s = live
		}
	}
	return t.Update(s, dt)
}

// Update processes one gaze sample and returns the events it produced, in
// order. Registered listeners, target feedback and the entity store have
// already been notified when Update returns.
//
// Calling Update from inside one of its own listeners is ignored (it panics
// in debug mode).
func (t *Tracker) Update(sample GazeSample, dt float64) []GazeEvent {
	if t.updating {
		if t.debug {
			panic("gazekit debug: reentrant Tracker.Update")
		}
		return nil
	}
	t.updating = true
	defer func() { t.updating = false }()

	var start time.Time
	if t.debug {
		start = time.Now()
	}

	var events []GazeEvent
	dir, ok := t.sanitize(sample)
	if !ok {
		events = t.loseTracking(sample.Origin, events)
	} else {
		events = t.track(sample.Origin, dir, dt, events)
	}

	for _, e := range events {
		t.notify(e)
	}
	if t.debug {
		t.stats.record(time.Since(start), len(events))
		t.debugTick()
	}
	return events
}

// Reset exits the current target, if any, and clears dwell. Use it when the
// host disables the tracker.
func (t *Tracker) Reset() []GazeEvent {
	if t.updating {
		return nil
	}
	events := t.clearTarget(nil)
	for _, e := range events {
		t.notify(e)
	}
	return events
}

// sanitize validates the sample and returns its unit direction.
func (t *Tracker) sanitize(s GazeSample) (Vec3, bool) {
	if !s.Valid || s.Confidence < t.cfg.MinConfidence {
		return Vec3{}, false
	}
	if !finite(s.Origin) || !finite(s.Direction) {
		return Vec3{}, false
	}
	l := s.Direction.Len()
	if l == 0 || !finite(Vec3{l}) {
		return Vec3{}, false
	}
	return s.Direction.Mul(1 / l), true
}

// loseTracking clears hover state immediately; there is no grace period.
func (t *Tracker) loseTracking(origin Vec3, events []GazeEvent) []GazeEvent {
	t.setRay(origin, origin, false)
	return t.clearTarget(events)
}

func (t *Tracker) clearTarget(events []GazeEvent) []GazeEvent {
	if t.current != NoTarget {
		events = append(events, GazeEvent{Type: GazeExit, Target: t.current, Dwell: t.dwell})
		t.current = NoTarget
	}
	t.dwell = 0
	return events
}

// dwellEpsilon absorbs the rounding error of summing frame deltas such as
// 1/90 so Select fires on the tick the dwell reaches the threshold.
const dwellEpsilon = 1e-9

func (t *Tracker) track(origin, dir Vec3, dt float64, events []GazeEvent) []GazeEvent {
	hit, ok := t.hitTest(origin, dir, t.cfg.MaxDistance)
	if ok && (hit.Target == NoTarget || hit.Distance > t.cfg.MaxDistance || !t.cfg.LayerMask.Has(hit.layers())) {
		ok = false
	}

	candidate := NoTarget
	end := origin.Add(dir.Mul(t.cfg.MaxDistance))
	if ok {
		candidate = hit.Target
		end = hit.Point
	}
	t.setRay(origin, end, true)

	if candidate != t.current {
		if t.current != NoTarget {
			events = append(events, GazeEvent{Type: GazeExit, Target: t.current, Dwell: t.dwell})
		}
		t.current = candidate
		t.dwell = 0
		if candidate != NoTarget {
			events = append(events, GazeEvent{Type: GazeEnter, Target: candidate, Point: hit.Point})
		}
		return events
	}

	if t.current == NoTarget {
		return events
	}
	if dt > 0 {
		t.dwell += dt
	}
	if t.dwell >= t.cfg.DwellThreshold-dwellEpsilon {
		events = append(events, GazeEvent{Type: GazeSelect, Target: t.current, Point: hit.Point, Dwell: t.dwell})
		t.dwell = 0
	}
	return events
}

func (t *Tracker) setRay(origin, end Vec3, visible bool) {
	t.rayOrigin, t.rayEnd, t.rayVisible = origin, end, visible
	if t.renderer != nil {
		t.renderer.SetRay(origin, end, visible)
	}
}

// notify fans an event out to listeners, target feedback and the ECS bridge.
func (t *Tracker) notify(e GazeEvent) {
	if t.debug {
		debugf("%s target %d (dwell %.3f)", e.Type, e.Target, e.Dwell)
	}
	t.handlers.dispatchGaze(e)
	if fb := t.feedback[e.Target]; fb != nil {
		switch e.Type {
		case GazeEnter:
			fb.OnGazeEnter()
		case GazeExit:
			fb.OnGazeExit()
		case GazeSelect:
			fb.OnGazeSelect()
		}
	}
	if t.store != nil {
		t.store.EmitEvent(e)
	}
}
