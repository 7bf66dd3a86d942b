package gazekit

import (
	"fmt"
	"strings"
)

// EyeState is one eye's tracking reading as reported by the headset runtime.
type EyeState struct {
	Enabled    bool    `cbor:"enabled" yaml:"enabled"`
	Confidence float64 `cbor:"confidence" yaml:"confidence"`
	Position   Vec3    `cbor:"position" yaml:"position"`
	Rotation   Quat    `cbor:"rotation" yaml:"rotation"`
}

// Forward returns the eye's gaze direction.
func (e EyeState) Forward() Vec3 {
	if e.Rotation.W == 0 && e.Rotation.V.Len() == 0 {
		return Forward
	}
	return e.Rotation.Normalize().Rotate(Forward)
}

// Confident reports whether the eye is tracking with non-zero confidence.
func (e EyeState) Confident() bool {
	return e.Enabled && e.Confidence > 0
}

// CombineEyes builds a gaze sample cast from origin along the averaged
// forward direction of the confident eyes. The sample is invalid when
// neither eye is confident or the directions cancel out. Confidence is the
// mean over the contributing eyes.
func CombineEyes(left, right *EyeState, origin Vec3) GazeSample {
	var sum Vec3
	var conf float64
	n := 0
	for _, e := range [2]*EyeState{left, right} {
		if e == nil || !e.Confident() {
			continue
		}
		sum = sum.Add(e.Forward())
		conf += e.Confidence
		n++
	}
	s := GazeSample{Origin: origin}
	if n == 0 || sum.Len() < 1e-9 {
		return s
	}
	s.Direction = sum.Normalize()
	s.Confidence = conf / float64(n)
	s.Valid = true
	return s
}

// EyePair is a SampleSource over a pair of eye readings the host updates
// each frame.
type EyePair struct {
	Left, Right *EyeState
	Origin      Vec3
}

// Sample combines the current eye readings. ok is false when neither eye
// reference is set.
func (p *EyePair) Sample() (GazeSample, bool) {
	if p.Left == nil && p.Right == nil {
		return GazeSample{}, false
	}
	return CombineEyes(p.Left, p.Right, p.Origin), true
}

// --- Status report ---

// FormatEyeStatus renders a human-readable eye-tracking status block for an
// in-headset debug display. A nil eye is reported as not found.
func FormatEyeStatus(left, right *EyeState) string {
	var b strings.Builder
	b.WriteString("=== EYE TRACKING STATUS ===\n")
	writeEye(&b, "LEFT EYE", left)
	writeEye(&b, "RIGHT EYE", right)

	working := (left != nil && left.Enabled) || (right != nil && right.Enabled)
	b.WriteString("\n=== OVERALL STATUS ===\n")
	fmt.Fprintf(&b, "Eye Tracking Working: %t\n", working)
	if !working {
		b.WriteString("\n=== TROUBLESHOOTING ===\n")
		b.WriteString("- Check that eye tracking is enabled for the app\n")
		b.WriteString("- Verify the headset supports eye tracking\n")
		b.WriteString("- Run eye calibration in the headset settings\n")
		b.WriteString("- Grant the eye tracking permission\n")
	}
	return b.String()
}

func writeEye(b *strings.Builder, label string, e *EyeState) {
	if e == nil {
		fmt.Fprintf(b, "\n%s: NOT FOUND\n", label)
		return
	}
	rot := EulerDegrees(e.Rotation)
	fmt.Fprintf(b, "\n%s:\n", label)
	fmt.Fprintf(b, "  Enabled: %t\n", e.Enabled)
	fmt.Fprintf(b, "  Confidence: %.3f\n", e.Confidence)
	fmt.Fprintf(b, "  Position: (%.2f, %.2f, %.2f)\n", e.Position[0], e.Position[1], e.Position[2])
	fmt.Fprintf(b, "  Rotation: (%.2f, %.2f, %.2f)\n", rot[0], rot[1], rot[2])
}
