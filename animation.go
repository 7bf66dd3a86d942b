package gazekit

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// colorTween animates the four components of a Color simultaneously.
type colorTween struct {
	tweens [4]*gween.Tween
	done   bool
}

func newColorTween(from, to Color, duration float32, fn ease.TweenFunc) *colorTween {
	return &colorTween{tweens: [4]*gween.Tween{
		gween.New(float32(from.R), float32(to.R), duration, fn),
		gween.New(float32(from.G), float32(to.G), duration, fn),
		gween.New(float32(from.B), float32(to.B), duration, fn),
		gween.New(float32(from.A), float32(to.A), duration, fn),
	}}
}

// update advances the tween and writes the current value to dst.
func (c *colorTween) update(dt float32, dst *Color) {
	if c.done {
		return
	}
	fields := [4]*float64{&dst.R, &dst.G, &dst.B, &dst.A}
	allDone := true
	for i, tw := range c.tweens {
		v, finished := tw.Update(dt)
		*fields[i] = float64(v)
		if !finished {
			allDone = false
		}
	}
	c.done = allDone
}

// Highlight is a TargetFeedback that swaps a target between its original
// and highlight colors on gaze enter and exit. With a non-zero Duration the
// swap is tweened; call Update each frame to advance it. The Apply callback
// receives every color change.
//
//	hl := gazekit.NewHighlight(base, gazekit.Color{R: 1, G: 0.8, B: 0.2, A: 1})
//	hl.Apply = func(c gazekit.Color) { sprite.Color = c }
//	tracker.SetFeedback(target, hl)
type Highlight struct {
	Original    Color
	Highlighted Color
	Duration    float32
	Ease        ease.TweenFunc // nil uses ease.OutQuad

	Apply    func(Color)
	OnEnter  func()
	OnExit   func()
	OnSelect func()

	color   Color
	active  bool
	tween   *colorTween
	selects int
}

// NewHighlight creates an instant highlight starting at the original color.
func NewHighlight(original, highlighted Color) *Highlight {
	return &Highlight{Original: original, Highlighted: highlighted, color: original}
}

// Color returns the current color.
func (h *Highlight) Color() Color { return h.color }

// Active reports whether the target is currently highlighted.
func (h *Highlight) Active() bool { return h.active }

// Selects returns how many Select events the target has received.
func (h *Highlight) Selects() int { return h.selects }

// OnGazeEnter switches to the highlight color.
func (h *Highlight) OnGazeEnter() {
	h.active = true
	h.transition(h.Highlighted)
	if h.OnEnter != nil {
		h.OnEnter()
	}
}

// OnGazeExit restores the original color.
func (h *Highlight) OnGazeExit() {
	h.active = false
	h.transition(h.Original)
	if h.OnExit != nil {
		h.OnExit()
	}
}

// OnGazeSelect counts the selection and runs the callback.
func (h *Highlight) OnGazeSelect() {
	h.selects++
	if h.OnSelect != nil {
		h.OnSelect()
	}
}

// Update advances a running color tween by dt seconds.
func (h *Highlight) Update(dt float32) {
	if h.tween == nil {
		return
	}
	h.tween.update(dt, &h.color)
	if h.tween.done {
		h.tween = nil
	}
	if h.Apply != nil {
		h.Apply(h.color)
	}
}

func (h *Highlight) transition(to Color) {
	if h.Duration <= 0 {
		h.tween = nil
		h.color = to
		if h.Apply != nil {
			h.Apply(to)
		}
		return
	}
	fn := h.Ease
	if fn == nil {
		fn = ease.OutQuad
	}
	h.tween = newColorTween(h.color, to, h.Duration, fn)
}
