// Package config loads gazekit scene configuration from YAML.
//
// A configuration file describes the tracker, panel layout, eye-data
// logger, the hit-testable targets of a scene and the hotspot content shown
// when a target is selected:
//
//	tracker:
//	  max_distance: 10
//	  dwell_threshold: 2
//	panel:
//	  text_padding: 5
//	targets:
//	  - name: statue
//	    sphere: {center: [0, 1.5, 4], radius: 0.5}
//	hotspots:
//	  - target: statue
//	    title: Statue
//	    body: Carved in 1840.
//	    audio: statue_narration
//	    auto_play_audio: true
//
// Omitted values take the documented defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/gazekit"
	"github.com/phanxgames/gazekit/datalog"
)

// Config is the top-level scene configuration.
type Config struct {
	Tracker  TrackerConfig   `yaml:"tracker"`
	Panel    PanelConfig     `yaml:"panel"`
	Logger   LoggerConfig    `yaml:"logger"`
	Targets  []TargetConfig  `yaml:"targets"`
	Hotspots []HotspotConfig `yaml:"hotspots"`
}

// TrackerConfig configures the gaze tracker.
type TrackerConfig struct {
	// MaxDistance bounds the gaze ray. Default 10.
	MaxDistance float64 `yaml:"max_distance"`
	// DwellThreshold is the hover time in seconds before Select. Default 2.
	DwellThreshold float64 `yaml:"dwell_threshold"`
	// Layers lists interactable layer indices (0-31). Empty means all.
	Layers []int `yaml:"layers"`
	// MinConfidence rejects samples below this confidence. Default 0.
	MinConfidence float64 `yaml:"min_confidence"`
}

// PanelConfig configures hotspot panel layout.
type PanelConfig struct {
	// TextPadding is added above and below the body. Default 5.
	TextPadding *float64 `yaml:"text_padding"`
	// FadeSeconds is the open/close tween length. Default 0.
	FadeSeconds float64 `yaml:"fade_seconds"`
}

// LoggerConfig configures the eye-data CSV logger.
type LoggerConfig struct {
	// Enabled makes gazereplay write the eye-data log to File when no
	// --csv path is given.
	Enabled bool `yaml:"enabled"`
	// Rate is the sampling rate in Hz. Default 30.
	Rate float64 `yaml:"rate"`
	// File is the output path. Default eye_tracking_data.txt.
	File string `yaml:"file"`
}

// TargetConfig describes one hit-testable target. Exactly one shape must be
// set.
type TargetConfig struct {
	Name   string        `yaml:"name"`
	Layer  int           `yaml:"layer"`
	Sphere *SphereConfig `yaml:"sphere"`
	Box    *BoxConfig    `yaml:"box"`
}

// SphereConfig is a spherical target volume.
type SphereConfig struct {
	Center [3]float64 `yaml:"center"`
	Radius float64    `yaml:"radius"`
}

// BoxConfig is an axis-aligned target volume.
type BoxConfig struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

// HotspotConfig is the panel content opened by selecting a target.
type HotspotConfig struct {
	Target        string     `yaml:"target"`
	Title         string     `yaml:"title"`
	Body          string     `yaml:"body"`
	Image         string     `yaml:"image"`
	Audio         string     `yaml:"audio"`
	HasText       *bool      `yaml:"has_text"`
	AutoPlayAudio bool       `yaml:"auto_play_audio"`
	Position      [3]float64 `yaml:"position"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Tracker.MaxDistance == 0 {
		c.Tracker.MaxDistance = 10
	}
	if c.Tracker.DwellThreshold == 0 {
		c.Tracker.DwellThreshold = 2
	}
	if c.Logger.Rate == 0 {
		c.Logger.Rate = datalog.DefaultRate
	}
	if c.Logger.File == "" {
		c.Logger.File = datalog.DefaultFileName
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if _, err := c.TrackerSettings(); err != nil {
		return err
	}
	if c.Logger.Rate < 0 {
		return fmt.Errorf("logger.rate: must be positive, got %v", c.Logger.Rate)
	}
	if c.Panel.FadeSeconds < 0 {
		return fmt.Errorf("panel.fade_seconds: must not be negative, got %v", c.Panel.FadeSeconds)
	}
	names := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		field := fmt.Sprintf("targets[%d]", i)
		if t.Name == "" {
			return fmt.Errorf("%s.name: required", field)
		}
		if names[t.Name] {
			return fmt.Errorf("%s.name: duplicate target %q", field, t.Name)
		}
		names[t.Name] = true
		if t.Layer < 0 || t.Layer > 31 {
			return fmt.Errorf("%s.layer: must be in [0,31], got %d", field, t.Layer)
		}
		switch {
		case t.Sphere != nil && t.Box != nil:
			return fmt.Errorf("%s: set only one of sphere and box", field)
		case t.Sphere != nil:
			if t.Sphere.Radius <= 0 {
				return fmt.Errorf("%s.sphere.radius: must be positive, got %v", field, t.Sphere.Radius)
			}
		case t.Box != nil:
			for a := 0; a < 3; a++ {
				if t.Box.Min[a] > t.Box.Max[a] {
					return fmt.Errorf("%s.box: min exceeds max on axis %d", field, a)
				}
			}
		default:
			return fmt.Errorf("%s: a sphere or box shape is required", field)
		}
	}
	for i, h := range c.Hotspots {
		if !names[h.Target] {
			return fmt.Errorf("hotspots[%d].target: unknown target %q", i, h.Target)
		}
	}
	return nil
}

// TrackerSettings converts the tracker section.
func (c *Config) TrackerSettings() (gazekit.TrackerConfig, error) {
	mask := gazekit.LayerAll
	if len(c.Tracker.Layers) > 0 {
		mask = 0
		for _, l := range c.Tracker.Layers {
			if l < 0 || l > 31 {
				return gazekit.TrackerConfig{}, fmt.Errorf("tracker.layers: layer %d out of range [0,31]", l)
			}
			mask |= gazekit.LayerMask(1) << l
		}
	}
	tc := gazekit.TrackerConfig{
		MaxDistance:    c.Tracker.MaxDistance,
		DwellThreshold: c.Tracker.DwellThreshold,
		LayerMask:      mask,
		MinConfidence:  c.Tracker.MinConfidence,
	}
	if err := tc.Validate(); err != nil {
		return gazekit.TrackerConfig{}, fmt.Errorf("tracker: %w", err)
	}
	return tc, nil
}

// PanelSettings converts the panel section.
func (c *Config) PanelSettings() gazekit.PanelConfig {
	pc := gazekit.DefaultPanelConfig()
	if c.Panel.TextPadding != nil {
		pc.TextPadding = *c.Panel.TextPadding
	}
	pc.FadeDuration = float32(c.Panel.FadeSeconds)
	return pc
}

// BuildWorld creates a hit-test world holding every target. The returned map
// resolves target names to handles.
func (c *Config) BuildWorld() (*gazekit.World, map[string]gazekit.TargetHandle) {
	w := gazekit.NewWorld()
	handles := make(map[string]gazekit.TargetHandle, len(c.Targets))
	for _, t := range c.Targets {
		var shape gazekit.HitShape
		if t.Sphere != nil {
			shape = gazekit.HitSphere{Center: gazekit.Vec3(t.Sphere.Center), Radius: t.Sphere.Radius}
		} else {
			shape = gazekit.HitBox{Min: gazekit.Vec3(t.Box.Min), Max: gazekit.Vec3(t.Box.Max)}
		}
		col := w.Add(t.Name, shape, gazekit.LayerMask(1)<<t.Layer)
		handles[t.Name] = col.Target
	}
	return w, handles
}

// Content converts the hotspot to panel content. Text is shown unless
// has_text is false; image and audio flags follow their references.
func (h HotspotConfig) Content() gazekit.PanelContent {
	hasText := true
	if h.HasText != nil {
		hasText = *h.HasText
	}
	return gazekit.PanelContent{
		Title: h.Title,
		Body:  h.Body,
		Image: gazekit.ImageHandle(h.Image),
		Audio: gazekit.AudioHandle(h.Audio),
		Flags: gazekit.ContentFlags{
			HasText:       hasText,
			HasImage:      h.Image != "",
			HasAudio:      h.Audio != "",
			AutoPlayAudio: h.AutoPlayAudio,
		},
	}
}
