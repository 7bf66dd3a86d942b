package gazekit

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PanelState is the open/closed lifecycle state of a Panel.
type PanelState uint8

const (
	PanelClosed PanelState = iota // hidden; initial state
	PanelOpen                     // visible, measured and facing the viewer
)

// String returns the state name.
func (s PanelState) String() string {
	if s == PanelOpen {
		return "open"
	}
	return "closed"
}

// PanelElement identifies a sub-element of the panel whose visibility is
// derived from the content.
type PanelElement uint8

const (
	ElementTitle       PanelElement = iota // title text
	ElementBody                            // body text inside the scroll region
	ElementImage                           // image block
	ElementAudioButton                     // audio toggle control

	elementCount
)

// ImageHandle names an image asset. Empty means no image.
type ImageHandle string

// AudioHandle names an audio clip. Empty means no clip.
type AudioHandle string

// ContentFlags select which parts of PanelContent are shown.
type ContentFlags struct {
	HasText       bool
	HasImage      bool
	HasAudio      bool
	AutoPlayAudio bool
}

// PanelContent is the information shown by a Panel.
type PanelContent struct {
	Title string
	Body  string
	Image ImageHandle
	Audio AudioHandle
	Flags ContentFlags
}

// PanelView is the renderer side of a panel.
type PanelView interface {
	SetVisible(visible bool)
	SetElementVisible(e PanelElement, visible bool)
	SetText(title, body string)
	SetImage(img ImageHandle)
	Position() Vec3
	SetOrientation(q Quat)
}

// LayoutEngine measures text and resizes the panel's content box.
type LayoutEngine interface {
	// BodyWidth returns the current width available to the body text.
	BodyWidth() float64
	// MeasureTextHeight returns the preferred height of text wrapped at width.
	MeasureTextHeight(text string, width float64) float64
	// ApplyHeight sets the content box height.
	ApplyHeight(h float64)
	// RebuildLayout forces an immediate re-layout so dependent elements see
	// the new size before the next frame.
	RebuildLayout()
}

// ScrollRegion is a scrollable sub-region of the panel.
type ScrollRegion interface {
	ScrollToTop()
}

// AudioPlayer plays the panel's audio clip.
type AudioPlayer interface {
	Play(clip AudioHandle)
	Stop()
	IsPlaying() bool
}

// ViewerFunc returns the viewer's current viewpoint. ok is false when no
// viewer is available.
type ViewerFunc func() (position Vec3, ok bool)

// PanelDeps are the collaborators a Panel drives. Every field is optional;
// a nil collaborator turns the matching side effect into a no-op.
type PanelDeps struct {
	View   PanelView
	Layout LayoutEngine
	Scroll ScrollRegion
	Audio  AudioPlayer
	Viewer ViewerFunc
}

// PanelConfig configures layout and presentation.
type PanelConfig struct {
	// TextPadding is added above and below the body text.
	TextPadding float64
	// ImageSlot reports whether the panel has somewhere to show an image.
	ImageSlot bool
	// FadeDuration is the length in seconds of the open/close presentation
	// tween. Zero switches instantly.
	FadeDuration float32
	// FadeEase is the easing function for the presentation tween.
	// Nil uses ease.OutQuad.
	FadeEase ease.TweenFunc
}

// DefaultPanelConfig returns the default layout: 5 units of padding and an
// image slot.
func DefaultPanelConfig() PanelConfig {
	return PanelConfig{
		TextPadding: 5,
		ImageSlot:   true,
	}
}

// Panel is an information surface with an open/closed lifecycle. Opening it
// derives the visible sub-elements from the content, measures and applies
// the content height, resets scrolling, turns it toward the viewer and
// optionally starts audio. Closing stops audio.
//
// Panel knows nothing about gaze; connect it to a Tracker with BindHotspot
// or any other event source.
type Panel struct {
	cfg     PanelConfig
	deps    PanelDeps
	content PanelContent

	state          PanelState
	measuredHeight float64
	orientation    Quat
	visible        [elementCount]bool

	handlers handlerRegistry

	presentation float64
	fade         *gween.Tween
}

// NewPanel creates a closed panel and applies the initial content.
func NewPanel(cfg PanelConfig, content PanelContent, deps PanelDeps) *Panel {
	p := &Panel{
		cfg:         cfg,
		deps:        deps,
		content:     content,
		orientation: Quat{W: 1},
	}
	if deps.View != nil {
		deps.View.SetVisible(false)
	}
	p.setupContent()
	return p
}

// State returns the current state.
func (p *Panel) State() PanelState { return p.state }

// IsOpen reports whether the panel is open.
func (p *Panel) IsOpen() bool { return p.state == PanelOpen }

// MeasuredHeight returns the content height computed by the last open or
// content update while open.
func (p *Panel) MeasuredHeight() float64 { return p.measuredHeight }

// Orientation returns the rotation applied when the panel last opened.
func (p *Panel) Orientation() Quat { return p.orientation }

// Content returns the current content.
func (p *Panel) Content() PanelContent { return p.content }

// Visible reports whether a sub-element is currently shown.
func (p *Panel) Visible(e PanelElement) bool {
	if e >= elementCount {
		return false
	}
	return p.visible[e]
}

// Presentation returns the open/close tween progress in [0, 1]: 1 when fully
// shown, 0 when fully hidden.
func (p *Panel) Presentation() float64 { return p.presentation }

// OnStateChange registers a callback fired after every open/closed
// transition.
func (p *Panel) OnStateChange(fn func(PanelState)) CallbackHandle {
	return p.handlers.addState(fn)
}

// Toggle flips the state unconditionally.
func (p *Panel) Toggle() {
	if p.state == PanelOpen {
		p.close()
	} else {
		p.open()
	}
}

// Open opens the panel. It is a no-op when already open.
func (p *Panel) Open() {
	if p.state != PanelOpen {
		p.open()
	}
}

// Close closes the panel. It is a no-op when already closed.
func (p *Panel) Close() {
	if p.state != PanelClosed {
		p.close()
	}
}

// ToggleAudio starts the clip when stopped and stops it when playing. It is
// a no-op while the panel is closed or without an audio flag, clip or player.
func (p *Panel) ToggleAudio() {
	a := p.deps.Audio
	if p.state != PanelOpen || a == nil || !p.content.Flags.HasAudio || p.content.Audio == "" {
		return
	}
	if a.IsPlaying() {
		a.Stop()
	} else {
		a.Play(p.content.Audio)
	}
}

// UpdateContent replaces the title, body and flags. A non-empty image or
// audio reference replaces the current one and sets its flag. When the panel
// is open it is re-measured in place; state and orientation are untouched.
func (p *Panel) UpdateContent(c PanelContent) {
	p.content.Title = c.Title
	p.content.Body = c.Body
	p.content.Flags = c.Flags
	if c.Image != "" {
		p.content.Image = c.Image
		p.content.Flags.HasImage = true
	}
	if c.Audio != "" {
		p.content.Audio = c.Audio
		p.content.Flags.HasAudio = true
	}
	p.setupContent()
	if p.state == PanelOpen {
		p.adjustHeight()
	}
}

// Update advances the presentation tween by dt seconds.
func (p *Panel) Update(dt float64) {
	if p.fade == nil {
		return
	}
	v, done := p.fade.Update(float32(dt))
	p.presentation = float64(v)
	if done {
		p.fade = nil
	}
}

func (p *Panel) open() {
	p.state = PanelOpen
	if p.deps.View != nil {
		p.deps.View.SetVisible(true)
	}
	p.setupContent()
	p.adjustHeight()
	p.faceViewer()

	f := p.content.Flags
	if f.HasAudio && f.AutoPlayAudio && p.content.Audio != "" && p.deps.Audio != nil {
		p.deps.Audio.Play(p.content.Audio)
	}
	p.startFade(1)
	p.handlers.dispatchState(PanelOpen)
}

func (p *Panel) close() {
	if a := p.deps.Audio; a != nil && a.IsPlaying() {
		a.Stop()
	}
	p.state = PanelClosed
	if p.deps.View != nil {
		p.deps.View.SetVisible(false)
	}
	p.startFade(0)
	p.handlers.dispatchState(PanelClosed)
}

// setupContent derives sub-element visibility from the content flags and
// pushes text and image to the view.
func (p *Panel) setupContent() {
	c := p.content
	p.visible[ElementTitle] = c.Flags.HasText
	p.visible[ElementBody] = c.Flags.HasText
	p.visible[ElementImage] = c.Flags.HasImage && c.Image != "" && p.cfg.ImageSlot
	p.visible[ElementAudioButton] = c.Flags.HasAudio && c.Audio != ""

	v := p.deps.View
	if v == nil {
		return
	}
	if c.Flags.HasText {
		v.SetText(c.Title, c.Body)
	}
	if p.visible[ElementImage] {
		v.SetImage(c.Image)
	}
	for e := PanelElement(0); e < elementCount; e++ {
		v.SetElementVisible(e, p.visible[e])
	}
}

// adjustHeight measures the body text and applies the result. The title is
// deliberately left out of the sum.
func (p *Panel) adjustHeight() {
	var h float64
	l := p.deps.Layout
	if l != nil && p.visible[ElementBody] {
		h = l.MeasureTextHeight(p.content.Body, l.BodyWidth())
	}
	h += 2 * p.cfg.TextPadding
	p.measuredHeight = h

	if l != nil {
		l.ApplyHeight(h)
		l.RebuildLayout()
	}
	if p.deps.Scroll != nil {
		p.deps.Scroll.ScrollToTop()
	}
}

// faceViewer orients the panel once per open; it does not track the viewer.
func (p *Panel) faceViewer() {
	if p.deps.Viewer == nil || p.deps.View == nil {
		return
	}
	viewer, ok := p.deps.Viewer()
	if !ok {
		return
	}
	q, ok := FacingRotation(p.deps.View.Position(), viewer)
	if !ok {
		return
	}
	p.orientation = q
	p.deps.View.SetOrientation(q)
}

func (p *Panel) startFade(to float64) {
	if p.cfg.FadeDuration <= 0 {
		p.fade = nil
		p.presentation = to
		return
	}
	fn := p.cfg.FadeEase
	if fn == nil {
		fn = ease.OutQuad
	}
	p.fade = gween.New(float32(p.presentation), float32(to), p.cfg.FadeDuration, fn)
}
