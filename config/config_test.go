package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/gazekit"
)

const sceneYAML = `
tracker:
  max_distance: 8
  dwell_threshold: 1.5
  layers: [0, 3]
  min_confidence: 0.4
panel:
  text_padding: 4
  fade_seconds: 0.25
logger:
  enabled: true
  rate: 60
targets:
  - name: statue
    sphere: {center: [0, 1.5, 4], radius: 0.5}
  - name: plaque
    layer: 3
    box: {min: [1, 0, 3], max: [2, 1, 3.1]}
hotspots:
  - target: statue
    title: Statue
    body: Carved in 1840.
    audio: statue_narration
    auto_play_audio: true
    position: [0, 2, 3.5]
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tc, err := cfg.TrackerSettings()
	if err != nil {
		t.Fatal(err)
	}
	if tc.MaxDistance != 8 || tc.DwellThreshold != 1.5 || tc.MinConfidence != 0.4 {
		t.Errorf("tracker = %+v", tc)
	}
	if tc.LayerMask != gazekit.LayerMask(1|1<<3) {
		t.Errorf("layer mask = %b", tc.LayerMask)
	}

	pc := cfg.PanelSettings()
	if pc.TextPadding != 4 || pc.FadeDuration != 0.25 || !pc.ImageSlot {
		t.Errorf("panel = %+v", pc)
	}
	if !cfg.Logger.Enabled || cfg.Logger.Rate != 60 || cfg.Logger.File != "eye_tracking_data.txt" {
		t.Errorf("logger = %+v", cfg.Logger)
	}
}

func TestParse_Defaults(t *testing.T) {
	for _, data := range []string{"", "tracker: {}\n"} {
		cfg, err := Parse([]byte(data))
		if err != nil {
			t.Fatalf("Parse(%q): %v", data, err)
		}
		tc, _ := cfg.TrackerSettings()
		if tc != gazekit.DefaultTrackerConfig() {
			t.Errorf("Parse(%q) tracker = %+v, want defaults", data, tc)
		}
		if cfg.PanelSettings().TextPadding != 5 {
			t.Errorf("Parse(%q) padding = %v, want 5", data, cfg.PanelSettings().TextPadding)
		}
		if cfg.Logger.Rate != 30 {
			t.Errorf("Parse(%q) rate = %v, want 30", data, cfg.Logger.Rate)
		}
	}
}

func TestParse_ExplicitZeroPadding(t *testing.T) {
	cfg, err := Parse([]byte("panel:\n  text_padding: 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PanelSettings().TextPadding != 0 {
		t.Error("explicit zero padding should be kept")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "tracker:\n  max_dist: 3\n", "max_dist"},
		{"unknown panel key", "panel:\n  element_spacing: 1\n", "element_spacing"},
		{"negative distance", "tracker:\n  max_distance: -1\n", "max distance"},
		{"layer out of range", "tracker:\n  layers: [32]\n", "tracker.layers"},
		{"confidence too high", "tracker:\n  min_confidence: 2\n", "min confidence"},
		{"negative fade", "panel:\n  fade_seconds: -1\n", "panel.fade_seconds"},
		{"missing name", "targets:\n  - sphere: {radius: 1}\n", "targets[0].name"},
		{"duplicate name", "targets:\n  - {name: a, sphere: {radius: 1}}\n  - {name: a, sphere: {radius: 1}}\n", "duplicate"},
		{"no shape", "targets:\n  - name: a\n", "sphere or box"},
		{"two shapes", "targets:\n  - {name: a, sphere: {radius: 1}, box: {}}\n", "only one"},
		{"zero radius", "targets:\n  - {name: a, sphere: {radius: 0}}\n", "radius"},
		{"inverted box", "targets:\n  - {name: a, box: {min: [1, 0, 0], max: [0, 1, 1]}}\n", "axis 0"},
		{"bad layer", "targets:\n  - {name: a, layer: 40, sphere: {radius: 1}}\n", "targets[0].layer"},
		{"unknown hotspot target", "hotspots:\n  - target: ghost\n", "ghost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBuildWorld(t *testing.T) {
	cfg, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatal(err)
	}
	world, handles := cfg.BuildWorld()
	if len(handles) != 2 {
		t.Fatalf("handles = %v", handles)
	}
	statue := handles["statue"]
	if world.Name(statue) != "statue" {
		t.Errorf("name = %q", world.Name(statue))
	}

	hit, ok := world.Raycast(gazekit.Vec3{0, 1.5, 0}, gazekit.Forward, 10, gazekit.LayerAll)
	if !ok || hit.Target != statue {
		t.Fatalf("hit = %+v ok=%v, want statue", hit, ok)
	}
	if c := world.Collider(handles["plaque"]); c == nil || c.Layers != 1<<3 {
		t.Errorf("plaque collider = %+v", c)
	}
}

func TestHotspotContent(t *testing.T) {
	no := false
	tests := []struct {
		name string
		h    HotspotConfig
		want gazekit.ContentFlags
	}{
		{"text default", HotspotConfig{Title: "t"}, gazekit.ContentFlags{HasText: true}},
		{"text disabled", HotspotConfig{HasText: &no}, gazekit.ContentFlags{}},
		{"image and audio", HotspotConfig{Image: "i.png", Audio: "clip", AutoPlayAudio: true},
			gazekit.ContentFlags{HasText: true, HasImage: true, HasAudio: true, AutoPlayAudio: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.h.Content()
			if c.Flags != tt.want {
				t.Errorf("flags = %+v, want %+v", c.Flags, tt.want)
			}
			if string(c.Image) != tt.h.Image || string(c.Audio) != tt.h.Audio {
				t.Errorf("refs = %q %q", c.Image, c.Audio)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sceneYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Hotspots) != 1 || cfg.Hotspots[0].Position != [3]float64{0, 2, 3.5} {
		t.Errorf("hotspots = %+v", cfg.Hotspots)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
