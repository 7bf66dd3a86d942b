// Package datalog samples eye-tracking state at a fixed rate and appends one
// comma-separated row per sample to a text file.
//
// The column layout is a stable contract shared with offline analysis
// tooling:
//
//	Timestamp, then for the left and then the right eye:
//	Enabled (1/0), Confidence, PosX, PosY, PosZ, RotX, RotY, RotZ
//
// Numbers use three decimals; rotations are Euler angles in degrees. A
// missing eye is written as eight zeros. The logger is an observability sink:
// a write failure is reported once and disables it, and never reaches the
// interaction core.
package datalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/phanxgames/gazekit"
)

// Header is the first line of every log file.
const Header = "Timestamp," +
	"LeftEyeEnabled,LeftEyeConfidence,LeftEyePosX,LeftEyePosY,LeftEyePosZ,LeftEyeRotX,LeftEyeRotY,LeftEyeRotZ," +
	"RightEyeEnabled,RightEyeConfidence,RightEyePosX,RightEyePosY,RightEyePosZ,RightEyeRotX,RightEyeRotY,RightEyeRotZ"

const (
	// DefaultRate is the default sampling rate in Hz.
	DefaultRate = 30.0
	// DefaultFileName is the default log file name.
	DefaultFileName = "eye_tracking_data.txt"
)

// emptyEye is written for an eye with no reading.
const emptyEye = "0,0,0,0,0,0,0,0"

// Options configures a Logger.
type Options struct {
	// Rate is the number of rows per second. Zero uses DefaultRate.
	Rate float64
	// Logger receives lifecycle and failure messages. Nil uses slog.Default().
	Logger *slog.Logger
}

// Logger writes eye-tracking rows at a fixed rate.
type Logger struct {
	w        *bufio.Writer
	closer   io.Closer
	path     string
	interval float64
	last     float64
	enabled  bool
	rows     int
	log      *slog.Logger
	buf      []byte
}

// Open creates (or truncates) the file at path, writes the header and
// returns a started logger.
func Open(path string, opts Options) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("datalog: open %s: %w", path, err)
	}
	l := newLogger(f, f, opts)
	l.path = path
	if err := l.Start(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return l, nil
}

// New returns a logger writing to w. Call Start to write the header. The
// caller owns w; Stop flushes it but never closes it.
func New(w io.Writer, opts Options) *Logger {
	return newLogger(w, nil, opts)
}

func newLogger(w io.Writer, c io.Closer, opts Options) *Logger {
	rate := opts.Rate
	if rate <= 0 {
		rate = DefaultRate
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Logger{
		w:        bufio.NewWriter(w),
		closer:   c,
		interval: 1 / rate,
		log:      log,
	}
}

// Start writes the header and enables sampling. Starting an enabled logger
// is a no-op. A header write failure leaves the logger disabled.
func (l *Logger) Start() error {
	if l.enabled {
		return nil
	}
	if l.w == nil {
		return errors.New("datalog: logger is stopped")
	}
	if _, err := l.w.WriteString(Header + "\n"); err != nil {
		l.log.Error("failed to start eye tracking logging", "error", err)
		return fmt.Errorf("datalog: write header: %w", err)
	}
	if err := l.w.Flush(); err != nil {
		l.log.Error("failed to start eye tracking logging", "error", err)
		return fmt.Errorf("datalog: write header: %w", err)
	}
	l.enabled = true
	l.log.Info("eye tracking logging started", "path", l.path, "interval", l.interval)
	return nil
}

// Enabled reports whether rows are being written.
func (l *Logger) Enabled() bool { return l.enabled }

// Rows returns the number of rows written.
func (l *Logger) Rows() int { return l.rows }

// Update writes a row when at least one sampling interval has passed since
// the previous row. now is the host clock in seconds. It reports whether a
// row was written.
func (l *Logger) Update(now float64, left, right *gazekit.EyeState) bool {
	if !l.enabled || now-l.last < l.interval {
		return false
	}
	l.last = now
	return l.Write(now, left, right)
}

// Write appends one row unconditionally. The first failure is logged and
// disables the logger.
func (l *Logger) Write(now float64, left, right *gazekit.EyeState) bool {
	if !l.enabled {
		return false
	}
	l.buf = AppendRow(l.buf[:0], now, left, right)
	l.buf = append(l.buf, '\n')
	if _, err := l.w.Write(l.buf); err != nil {
		l.fail(err)
		return false
	}
	if err := l.w.Flush(); err != nil {
		l.fail(err)
		return false
	}
	l.rows++
	return true
}

// Flush writes any buffered data.
func (l *Logger) Flush() error {
	if l.w == nil {
		return nil
	}
	return l.w.Flush()
}

// Stop flushes and closes the underlying file and disables the logger.
// Stopping twice is a no-op.
func (l *Logger) Stop() error {
	if l.w == nil {
		return nil
	}
	err := l.w.Flush()
	if l.closer != nil {
		if cerr := l.closer.Close(); err == nil {
			err = cerr
		}
	}
	l.w = nil
	l.closer = nil
	l.enabled = false
	l.log.Info("eye tracking logging stopped", "path", l.path, "rows", l.rows)
	return err
}

func (l *Logger) fail(err error) {
	l.enabled = false
	l.log.Error("eye tracking logging disabled", "path", l.path, "error", err)
}

// AppendRow appends one formatted row, without a trailing newline, to dst.
func AppendRow(dst []byte, now float64, left, right *gazekit.EyeState) []byte {
	dst = appendFloat(dst, now)
	dst = append(dst, ',')
	dst = appendEye(dst, left)
	dst = append(dst, ',')
	return appendEye(dst, right)
}

func appendEye(dst []byte, e *gazekit.EyeState) []byte {
	if e == nil {
		return append(dst, emptyEye...)
	}
	if e.Enabled {
		dst = append(dst, '1')
	} else {
		dst = append(dst, '0')
	}
	rot := gazekit.EulerDegrees(e.Rotation)
	for _, v := range [...]float64{
		e.Confidence,
		e.Position[0], e.Position[1], e.Position[2],
		rot[0], rot[1], rot[2],
	} {
		dst = append(dst, ',')
		dst = appendFloat(dst, v)
	}
	return dst
}

func appendFloat(dst []byte, v float64) []byte {
	return strconv.AppendFloat(dst, v, 'f', 3, 64)
}
