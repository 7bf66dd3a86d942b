package gazekit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Font is the interface for text measurement.
type Font interface {
	MeasureString(text string) (width, height float64)
	LineHeight() float64
}

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font measurement.
type TTFFont struct {
	face *text.GoTextFace
	size float64
	lh   float64 // cached line height
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("gazekit: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &TTFFont{face: face, size: size, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// Face returns the underlying GoTextFace for direct Ebitengine text/v2 rendering.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}

// --- TextLayout ---

// TextLayout is a LayoutEngine that wraps text with a Font. It records the
// applied content height and keeps the wrapped body lines for rendering.
type TextLayout struct {
	Font       Font
	Width      float64 // body width used for wrapping
	LineHeight float64 // override; 0 = use Font.LineHeight()

	height   float64
	rebuilds int
	text     string
	lines    []string
	dirty    bool
}

// NewTextLayout creates a layout that wraps at width.
func NewTextLayout(font Font, width float64) *TextLayout {
	return &TextLayout{Font: font, Width: width}
}

// BodyWidth returns the wrap width.
func (l *TextLayout) BodyWidth() float64 { return l.Width }

// MeasureTextHeight wraps s at width and returns lines × line height.
func (l *TextLayout) MeasureTextHeight(s string, width float64) float64 {
	l.text = s
	l.dirty = true
	return float64(len(l.wrap(s, width))) * l.lineHeight()
}

// ApplyHeight records the content box height.
func (l *TextLayout) ApplyHeight(h float64) { l.height = h }

// RebuildLayout re-wraps the last measured text at the current width.
func (l *TextLayout) RebuildLayout() {
	l.rebuilds++
	if l.dirty {
		l.lines = l.wrap(l.text, l.Width)
		l.dirty = false
	}
}

// Height returns the last applied content height.
func (l *TextLayout) Height() float64 { return l.height }

// Lines returns the wrapped body lines from the last rebuild.
func (l *TextLayout) Lines() []string { return l.lines }

// Rebuilds returns how many times RebuildLayout ran.
func (l *TextLayout) Rebuilds() int { return l.rebuilds }

func (l *TextLayout) lineHeight() float64 {
	if l.LineHeight > 0 {
		return l.LineHeight
	}
	if l.Font != nil {
		return l.Font.LineHeight()
	}
	return 0
}

// wrap breaks s into lines no wider than width, splitting at spaces. A word
// wider than width gets a line of its own. Explicit newlines always break;
// empty text yields no lines.
func (l *TextLayout) wrap(s string, width float64) []string {
	if s == "" || l.Font == nil {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			candidate := cur + " " + w
			if cw, _ := l.Font.MeasureString(candidate); width > 0 && cw > width {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur = candidate
		}
		lines = append(lines, cur)
	}
	return lines
}
