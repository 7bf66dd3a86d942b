package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/phanxgames/gazekit"
	"github.com/phanxgames/gazekit/config"
	"github.com/phanxgames/gazekit/datalog"
	"github.com/phanxgames/gazekit/record"
)

const testScene = `
tracker:
  dwell_threshold: 2
targets:
  - name: statue
    sphere: {center: [0, 1.6, 3], radius: 0.5}
hotspots:
  - target: statue
    title: Statue
    body: Carved in 1840.
    audio: narration
    auto_play_audio: true
    position: [0, 2, 2.5]
`

// writeFixtures creates a scene file and a recording that looks at the
// statue for four one-second frames and then loses tracking.
func writeFixtures(t *testing.T) (scenePath, recordingPath string) {
	t.Helper()
	dir := t.TempDir()
	scenePath = filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(scenePath, []byte(testScene), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w, err := record.NewWriter(&buf, record.Options{Compression: record.CompressionZstd, TickRate: 1})
	if err != nil {
		t.Fatal(err)
	}
	eye := &gazekit.EyeState{Enabled: true, Confidence: 1, Rotation: gazekit.LookRotation(gazekit.Forward, gazekit.Up)}
	origin := gazekit.Vec3{0, 1.6, 0}
	for i := 0; i < 4; i++ {
		if err := w.WriteFrame(record.Frame{Time: float64(i + 1), DT: 1, Left: eye, Right: eye, Origin: origin}); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.WriteFrame(record.Frame{Time: 5, DT: 1, Origin: origin}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	recordingPath = filepath.Join(dir, "session.gzrc")
	if err := os.WriteFile(recordingPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return scenePath, recordingPath
}

func TestRun(t *testing.T) {
	scenePath, recordingPath := writeFixtures(t)
	csvPath := filepath.Join(t.TempDir(), "eyes.txt")

	if err := run([]string{"--config", scenePath, "-r", recordingPath, "--csv", csvPath}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != datalog.Header {
		t.Errorf("csv header = %q", lines[0])
	}
	if len(lines) != 6 {
		t.Errorf("csv has %d lines, want header and 5 rows", len(lines))
	}
}

func TestRun_ConfigLogger(t *testing.T) {
	scenePath, recordingPath := writeFixtures(t)
	logPath := filepath.Join(t.TempDir(), "configured.txt")
	scene := testScene + "logger:\n  enabled: true\n  file: " + logPath + "\n"
	if err := os.WriteFile(scenePath, []byte(scene), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run([]string{"--config", scenePath, "--recording", recordingPath}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("configured log not written: %v", err)
	}
	if !strings.HasPrefix(string(data), datalog.Header+"\n") {
		t.Errorf("log starts with %q", data)
	}

	// --csv takes precedence over the configured file.
	csvPath := filepath.Join(t.TempDir(), "flag.txt")
	if err := os.Remove(logPath); err != nil {
		t.Fatal(err)
	}
	if err := run([]string{"--config", scenePath, "--recording", recordingPath, "--csv", csvPath}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("--csv file: %v", err)
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Errorf("configured file should not be written when --csv is set, stat err = %v", err)
	}
}

func TestRun_LoggerDisabled(t *testing.T) {
	scenePath, recordingPath := writeFixtures(t)
	dir := t.TempDir()
	t.Chdir(dir)
	if err := run([]string{"--config", scenePath, "--recording", recordingPath}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, datalog.DefaultFileName)); !os.IsNotExist(err) {
		t.Errorf("disabled logger wrote %s, stat err = %v", datalog.DefaultFileName, err)
	}
}

func TestRun_Expect(t *testing.T) {
	scenePath, recordingPath := writeFixtures(t)
	err := run([]string{"--config", scenePath, "--recording", recordingPath, "--expect", "0000"})
	if err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Errorf("err = %v, want digest mismatch", err)
	}
}

func TestRun_Flags(t *testing.T) {
	if err := run([]string{"--help"}); !errors.Is(err, pflag.ErrHelp) {
		t.Errorf("--help err = %v", err)
	}
	if err := run(nil); err == nil {
		t.Error("missing flags should fail")
	}
	if err := run([]string{"--config", "missing.yaml", "--recording", "missing.gzrc"}); err == nil {
		t.Error("missing config should fail")
	}
}

func TestReplayScene_HotspotOpens(t *testing.T) {
	cfg, err := config.Parse([]byte(testScene))
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	scene, err := newReplayScene(cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatal(err)
	}
	if len(scene.panels) != 1 {
		t.Fatalf("panels = %d, want 1", len(scene.panels))
	}

	look := gazekit.GazeSample{Origin: gazekit.Vec3{0, 1.6, 0}, Direction: gazekit.Forward, Valid: true, Confidence: 1}
	for i := 0; i < 3; i++ {
		scene.tracker.Update(look, 1)
	}
	var panel *gazekit.Panel
	for _, p := range scene.panels {
		panel = p
	}
	if !panel.IsOpen() {
		t.Fatal("dwell should open the hotspot panel")
	}
	if scene.selects != 1 || scene.events != 2 {
		t.Errorf("events=%d selects=%d, want 2 and 1", scene.events, scene.selects)
	}
	out := logs.String()
	for _, want := range []string{"event=enter", "target=statue", "state=open", "audio play", "clip=narration"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
