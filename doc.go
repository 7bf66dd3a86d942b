// Package gazekit is the interaction core for eye-gaze driven VR scenes.
//
// Gazekit turns per-frame eye-tracking readings into Enter, Exit and Select
// events for whatever the gaze ray hits, and drives information panels that
// open when a point of interest is selected by dwelling on it. Rendering,
// physics and audio stay with the host engine; gazekit talks to them through
// small interfaces.
//
// # Quick start
//
// Build a [World] of hit shapes, create a [Tracker] over it and call
// [Tracker.Update] once per frame with the current [GazeSample]:
//
//	world := gazekit.NewWorld()
//	statue := world.Add("statue", gazekit.HitSphere{Center: gazekit.Vec3{0, 1.5, 4}, Radius: 0.5}, 0)
//
//	tracker, err := gazekit.NewTracker(gazekit.DefaultTrackerConfig(), world.HitTest(gazekit.LayerAll))
//	if err != nil {
//		return err
//	}
//	tracker.OnSelect(func(e gazekit.GazeEvent) { log.Println("selected", world.Name(e.Target)) })
//
//	// each frame:
//	tracker.Update(sample, dt)
//
// Hosts that already have physics supply their own [HitTestFunc] instead of
// a World.
//
// # Tracker
//
// The tracker holds at most one current target. A new target produces an
// Exit for the old one followed by an Enter for the new one. Hovering the
// same target accumulates dwell time; once it reaches
// [TrackerConfig.DwellThreshold] a Select fires and the dwell restarts, so
// continued gaze selects again after another full threshold. Invalid or
// low-confidence samples drop the current target immediately.
//
// Events are returned from Update and also delivered to callbacks
// ([Tracker.OnEnter], [Tracker.OnExit], [Tracker.OnSelect],
// [Tracker.OnEvent]), to per-target [TargetFeedback] such as [Highlight],
// and to an optional [EventStore] for ECS integration (see gazekit/ecs).
//
// Live input comes from a [SampleSource] polled by [Tracker.Tick];
// [EyePair] combines a headset's left and right [EyeState] readings.
//
// # Panels
//
// A [Panel] shows a title, body text, an image and an audio control. Opening
// it derives which elements are visible from [ContentFlags], measures the
// body through a [LayoutEngine], applies body height plus twice the text
// padding, scrolls to the top, turns toward the viewer and optionally starts
// audio. Closing stops audio. [TextLayout] is a LayoutEngine backed by a
// [Font]; [LoadTTFFont] measures with Ebitengine's text/v2.
//
// [BindHotspot] connects a target to a panel so that selecting the target
// toggles the panel:
//
//	panel := gazekit.NewPanel(gazekit.DefaultPanelConfig(), content, gazekit.PanelDeps{View: view, Layout: layout})
//	gazekit.BindHotspot(tracker, statue.Target, panel)
//
// # Testing
//
// [Tracker.InjectLook], [Tracker.InjectSweep] and [Tracker.InjectLost] queue
// synthetic samples consumed by Tick ahead of the live source. A
// [GazeRunner] loaded from a JSON script sequences them across frames.
// [Tracker.SetDebugMode] prints transitions and periodic timing stats.
//
// Sub-packages cover the rest of a deployment: config loads scenes from
// YAML, record captures and replays sessions, datalog writes the eye-data
// CSV and cmd/gazereplay replays a recording headlessly.
package gazekit
