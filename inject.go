package gazekit

// InjectSample queues a synthetic gaze sample. Queued samples are consumed
// one per Tick, ahead of the live source, identical to real tracking input.
func (t *Tracker) InjectSample(s GazeSample) {
	t.injectQueue = append(t.injectQueue, s)
}

// InjectLook queues frames samples looking from origin along direction.
func (t *Tracker) InjectLook(origin, direction Vec3, frames int) {
	for i := 0; i < frames; i++ {
		t.InjectSample(GazeSample{Origin: origin, Direction: direction, Valid: true, Confidence: 1})
	}
}

// InjectSweep queues a gaze that turns from one direction to another over
// frames samples, interpolating linearly and renormalizing. Minimum frames
// is 2 (start + end).
func (t *Tracker) InjectSweep(origin, from, to Vec3, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		f := float64(i) / float64(frames-1)
		dir := from.Mul(1 - f).Add(to.Mul(f))
		t.InjectSample(GazeSample{Origin: origin, Direction: dir, Valid: true, Confidence: 1})
	}
}

// InjectLost queues frames samples with tracking unavailable.
func (t *Tracker) InjectLost(frames int) {
	for i := 0; i < frames; i++ {
		t.InjectSample(GazeSample{})
	}
}

// Pending returns the number of injected samples not yet consumed.
func (t *Tracker) Pending() int {
	return len(t.injectQueue)
}

func (t *Tracker) popInjected() (GazeSample, bool) {
	if len(t.injectQueue) == 0 {
		return GazeSample{}, false
	}
	s := t.injectQueue[0]
	copy(t.injectQueue, t.injectQueue[1:])
	t.injectQueue = t.injectQueue[:len(t.injectQueue)-1]
	return s, true
}
