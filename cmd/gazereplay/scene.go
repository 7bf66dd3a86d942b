package main

import (
	"log/slog"

	"github.com/phanxgames/gazekit"
	"github.com/phanxgames/gazekit/config"
)

// replayScene is the headless scene rebuilt from a configuration file.
type replayScene struct {
	world   *gazekit.World
	tracker *gazekit.Tracker
	panels  map[gazekit.TargetHandle]*gazekit.Panel
	events  int
	selects int
}

func newReplayScene(cfg *config.Config, logger *slog.Logger) (*replayScene, error) {
	world, handles := cfg.BuildWorld()
	tc, err := cfg.TrackerSettings()
	if err != nil {
		return nil, err
	}
	tracker, err := gazekit.NewTracker(tc, world.HitTest(tc.LayerMask))
	if err != nil {
		return nil, err
	}
	s := &replayScene{
		world:   world,
		tracker: tracker,
		panels:  make(map[gazekit.TargetHandle]*gazekit.Panel),
	}

	tracker.OnEvent(func(e gazekit.GazeEvent) {
		s.events++
		if e.Type == gazekit.GazeSelect {
			s.selects++
		}
		logger.Info("gaze", "event", e.Type.String(), "target", world.Name(e.Target), "dwell", e.Dwell)
	})

	for _, h := range cfg.Hotspots {
		target := handles[h.Target]
		name := h.Target
		view := &logView{position: gazekit.Vec3(h.Position)}
		panel := gazekit.NewPanel(cfg.PanelSettings(), h.Content(), gazekit.PanelDeps{
			View:   view,
			Audio:  &logAudio{log: logger.With("hotspot", name)},
			Viewer: func() (gazekit.Vec3, bool) { return gazekit.Vec3{}, true },
		})
		panel.OnStateChange(func(st gazekit.PanelState) {
			logger.Info("panel", "hotspot", name, "state", st.String(), "height", panel.MeasuredHeight())
		})
		gazekit.BindHotspot(tracker, target, panel)
		s.panels[target] = panel
	}
	return s, nil
}

// logView is a PanelView with no renderer; it only remembers its position.
type logView struct {
	position gazekit.Vec3
}

func (v *logView) SetVisible(bool)                              {}
func (v *logView) SetElementVisible(gazekit.PanelElement, bool) {}
func (v *logView) SetText(string, string)                       {}
func (v *logView) SetImage(gazekit.ImageHandle)                 {}
func (v *logView) Position() gazekit.Vec3                       { return v.position }
func (v *logView) SetOrientation(gazekit.Quat)                  {}

// logAudio reports playback instead of producing sound.
type logAudio struct {
	log     *slog.Logger
	playing bool
}

func (a *logAudio) Play(clip gazekit.AudioHandle) {
	a.playing = true
	a.log.Info("audio play", "clip", string(clip))
}

func (a *logAudio) Stop() {
	a.playing = false
	a.log.Info("audio stop")
}

func (a *logAudio) IsPlaying() bool { return a.playing }
