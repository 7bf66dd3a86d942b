package gazekit

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// scriptStep represents a single action in a gaze script.
type scriptStep struct {
	Action string     `json:"action"`
	Origin [3]float64 `json:"origin,omitempty"`
	Dir    [3]float64 `json:"dir,omitempty"`
	From   [3]float64 `json:"from,omitempty"`
	To     [3]float64 `json:"to,omitempty"`
	Frames int        `json:"frames,omitempty"`
}

// gazeScript is the top-level JSON structure for a gaze script.
type gazeScript struct {
	Steps []scriptStep `json:"steps"`
}

// GazeRunner sequences injected gaze samples across frames for automated
// interaction tests. Attach to a Tracker via SetGazeRunner; it advances on
// every Tick.
//
// Actions: "look" (origin, dir, frames), "sweep" (origin, from, to, frames),
// "lost" (frames) and "wait" (frames; ticks with the live source).
type GazeRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadGazeScript parses a JSON gaze script. Scripts may contain // line
// comments, /* block comments */ and trailing commas.
func LoadGazeScript(jsonData []byte) (*GazeRunner, error) {
	var script gazeScript
	if err := json.Unmarshal(jsonc.ToJSON(jsonData), &script); err != nil {
		return nil, fmt.Errorf("parse gaze script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse gaze script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "look", "sweep", "lost", "wait":
		default:
			return nil, fmt.Errorf("parse gaze script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &GazeRunner{steps: script.Steps}, nil
}

// SetGazeRunner attaches a runner to the tracker. The runner's step method
// is called from Tick before the next sample is consumed.
func (t *Tracker) SetGazeRunner(runner *GazeRunner) {
	t.runner = runner
}

// Done reports whether all steps have been executed.
func (r *GazeRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Tracker.Tick.
func (r *GazeRunner) step(t *Tracker) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(t.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	frames := st.Frames
	if frames < 1 {
		frames = 1
	}
	switch st.Action {
	case "look":
		t.InjectLook(Vec3(st.Origin), Vec3(st.Dir), frames)
	case "sweep":
		t.InjectSweep(Vec3(st.Origin), Vec3(st.From), Vec3(st.To), frames)
	case "lost":
		t.InjectLost(frames)
	case "wait":
		r.waitCount = frames - 1 // this frame counts as one
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(t.injectQueue) == 0 {
		r.done = true
	}
}
