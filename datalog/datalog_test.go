package datalog

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/gazekit"
)

// switchWriter fails every write once broken is set.
type switchWriter struct {
	buf    bytes.Buffer
	broken bool
}

func (w *switchWriter) Write(p []byte) (int, error) {
	if w.broken {
		return 0, errors.New("disk full")
	}
	return w.buf.Write(p)
}

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestHeaderColumns(t *testing.T) {
	cols := strings.Split(Header, ",")
	if len(cols) != 17 {
		t.Fatalf("header has %d columns, want 17", len(cols))
	}
	if cols[0] != "Timestamp" || cols[1] != "LeftEyeEnabled" || cols[9] != "RightEyeEnabled" || cols[16] != "RightEyeRotZ" {
		t.Errorf("unexpected header %q", Header)
	}
}

func TestAppendRow(t *testing.T) {
	left := &gazekit.EyeState{
		Enabled:    true,
		Confidence: 0.9,
		Position:   gazekit.Vec3{-0.032, 1.6, 0.05},
		Rotation:   mgl64.QuatRotate(mgl64.DegToRad(90), gazekit.Up),
	}
	right := &gazekit.EyeState{Confidence: 0.25}

	tests := []struct {
		name        string
		left, right *gazekit.EyeState
		want        string
	}{
		{
			"both eyes",
			left, right,
			"1.500,1,0.900,-0.032,1.600,0.050,0.000,90.000,0.000,0,0.250,0.000,0.000,0.000,0.000,0.000,0.000",
		},
		{
			"missing right",
			left, nil,
			"1.500,1,0.900,-0.032,1.600,0.050,0.000,90.000,0.000,0,0,0,0,0,0,0,0",
		},
		{
			"missing both",
			nil, nil,
			"1.500,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(AppendRow(nil, 1.5, tt.left, tt.right))
			if got != tt.want {
				t.Errorf("row =\n %s\nwant\n %s", got, tt.want)
			}
			if n := len(strings.Split(got, ",")); n != 17 {
				t.Errorf("row has %d columns", n)
			}
		})
	}
}

func TestLogger_RateGating(t *testing.T) {
	w := &switchWriter{}
	var logs bytes.Buffer
	l := New(w, Options{Rate: 10, Logger: quietLogger(&logs)})
	if l.Update(1, nil, nil) {
		t.Fatal("logger wrote before Start")
	}
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 10 Hz: rows at 0.1, 0.2 and 0.35 only.
	var written []float64
	for _, now := range []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.35} {
		if l.Update(now, nil, nil) {
			written = append(written, now)
		}
	}
	if len(written) != 3 || written[0] != 0.1 || written[2] != 0.35 {
		t.Errorf("rows written at %v", written)
	}
	if l.Rows() != 3 {
		t.Errorf("Rows = %d, want 3", l.Rows())
	}

	lines := strings.Split(strings.TrimSpace(w.buf.String()), "\n")
	if len(lines) != 4 || lines[0] != Header {
		t.Fatalf("output lines = %q", lines)
	}
	if !strings.HasPrefix(lines[1], "0.100,") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestLogger_DefaultRate(t *testing.T) {
	l := New(&switchWriter{}, Options{Logger: quietLogger(&bytes.Buffer{})})
	if l.interval != 1/DefaultRate {
		t.Errorf("interval = %v", l.interval)
	}
}

func TestLogger_FailureDisablesOnce(t *testing.T) {
	w := &switchWriter{}
	var logs bytes.Buffer
	l := New(w, Options{Logger: quietLogger(&logs)})
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	if !l.Write(0, nil, nil) {
		t.Fatal("first write failed")
	}

	w.broken = true
	if l.Write(1, nil, nil) {
		t.Error("write to a broken writer reported success")
	}
	if l.Enabled() {
		t.Error("logger should disable itself after a failure")
	}
	for i := 2; i < 5; i++ {
		l.Update(float64(i), nil, nil)
	}
	if n := strings.Count(logs.String(), "eye tracking logging disabled"); n != 1 {
		t.Errorf("failure logged %d times, want 1", n)
	}
	if l.Rows() != 1 {
		t.Errorf("Rows = %d, want 1", l.Rows())
	}
}

func TestLogger_StartFailure(t *testing.T) {
	l := New(&switchWriter{broken: true}, Options{Logger: quietLogger(&bytes.Buffer{})})
	if err := l.Start(); err == nil {
		t.Fatal("expected header write error")
	}
	if l.Enabled() {
		t.Error("logger should stay disabled")
	}
}

func TestOpen_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte("stale contents\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := Open(path, Options{Rate: 1, Logger: quietLogger(&bytes.Buffer{})})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Update(1, &gazekit.EyeState{Enabled: true, Confidence: 1}, nil)
	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := l.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
	if l.Write(2, nil, nil) {
		t.Error("stopped logger accepted a row")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != Header {
		t.Fatalf("file lines = %q", lines)
	}
	if !strings.HasPrefix(lines[1], "1.000,1,1.000,") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "log.txt"), Options{})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

type closeTracker struct {
	bytes.Buffer
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestNew_StopLeavesWriterOpen(t *testing.T) {
	w := &closeTracker{}
	l := New(w, Options{Logger: quietLogger(&bytes.Buffer{})})
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	l.Write(1, nil, nil)
	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if w.closed {
		t.Error("Stop closed a writer owned by the caller")
	}
	if !strings.HasPrefix(w.String(), Header+"\n") {
		t.Errorf("output = %q", w.String())
	}
}
