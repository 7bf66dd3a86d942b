package gazekit

// Hotspot ties a gaze target to a panel: a Select on the target toggles the
// panel.
type Hotspot struct {
	Target TargetHandle
	Panel  *Panel

	handle CallbackHandle
}

// BindHotspot subscribes panel to Select events for target on tracker.
func BindHotspot(tracker *Tracker, target TargetHandle, panel *Panel) *Hotspot {
	h := &Hotspot{Target: target, Panel: panel}
	h.handle = tracker.OnSelect(func(e GazeEvent) {
		if e.Target == h.Target {
			h.Activate()
		}
	})
	return h
}

// Activate toggles the panel as if the hotspot had been selected.
func (h *Hotspot) Activate() {
	if h.Panel != nil {
		h.Panel.Toggle()
	}
}

// Unbind stops reacting to the tracker.
func (h *Hotspot) Unbind() {
	h.handle.Remove()
}
