package gazekit

// EventStore is the interface for optional ECS integration.
// When set on a Tracker, every gaze event is forwarded to the store.
type EventStore interface {
	EmitEvent(event GazeEvent)
}

// TargetFeedback receives per-target transitions, typically to swap a
// highlight appearance. The tracker does not track appearance itself.
type TargetFeedback interface {
	OnGazeEnter()
	OnGazeExit()
	OnGazeSelect()
}

// RayRenderer draws the targeting ray. It is cosmetic and never feeds back
// into tracker state.
type RayRenderer interface {
	SetRay(origin, end Vec3, visible bool)
}

// --- Handler registry ---

// eventFilter selects which gaze events a handler receives.
type eventFilter uint8

const (
	filterEnter eventFilter = 1 << iota
	filterExit
	filterSelect

	filterAll = filterEnter | filterExit | filterSelect
)

func filterFor(t GazeEventType) eventFilter {
	switch t {
	case GazeEnter:
		return filterEnter
	case GazeExit:
		return filterExit
	case GazeSelect:
		return filterSelect
	}
	return 0
}

type gazeHandler struct {
	id     uint32
	filter eventFilter
	fn     func(GazeEvent)
}

type stateHandler struct {
	id uint32
	fn func(PanelState)
}

type handlerRegistry struct {
	gaze   []gazeHandler
	state  []stateHandler
	nextID uint32
}

func (r *handlerRegistry) addGaze(filter eventFilter, fn func(GazeEvent)) CallbackHandle {
	r.nextID++
	r.gaze = append(r.gaze, gazeHandler{id: r.nextID, filter: filter, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r}
}

func (r *handlerRegistry) addState(fn func(PanelState)) CallbackHandle {
	r.nextID++
	r.state = append(r.state, stateHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, state: true}
}

// dispatchGaze calls every handler whose filter matches. Handlers removed
// during dispatch still see the current event.
func (r *handlerRegistry) dispatchGaze(e GazeEvent) {
	f := filterFor(e.Type)
	handlers := r.gaze
	for i := range handlers {
		if handlers[i].filter&f != 0 {
			handlers[i].fn(e)
		}
	}
}

func (r *handlerRegistry) dispatchState(s PanelState) {
	handlers := r.state
	for i := range handlers {
		handlers[i].fn(s)
	}
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	state bool
}

// Remove unregisters this callback so it no longer fires.
// Removing twice, or removing the zero handle, is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	if h.state {
		h.reg.state = removeStateHandler(h.reg.state, h.id)
		return
	}
	h.reg.gaze = removeGazeHandler(h.reg.gaze, h.id)
}

// The slices are copied rather than shifted in place so a dispatch loop
// iterating the old slice is not disturbed.
func removeGazeHandler(s []gazeHandler, id uint32) []gazeHandler {
	for i := range s {
		if s[i].id == id {
			out := make([]gazeHandler, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}

func removeStateHandler(s []stateHandler, id uint32) []stateHandler {
	for i := range s {
		if s[i].id == id {
			out := make([]stateHandler, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}
