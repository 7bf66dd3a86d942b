// Package record captures and replays gaze sessions.
//
// A recording starts with the 4-byte magic "GZRC" and a 1-byte compression
// tag, followed by a (possibly compressed) sequence of CBOR items: one
// Header, then one Frame per host tick. Replaying a recording through a
// Tracker reproduces the session's events exactly, which makes recordings
// useful both for analysis and as regression fixtures.
package record

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/phanxgames/gazekit"
)

// magic identifies a recording file.
var magic = [4]byte{'G', 'Z', 'R', 'C'}

// Header describes a recorded session.
type Header struct {
	SessionID uuid.UUID `cbor:"session_id"`
	Created   time.Time `cbor:"created"`
	TickRate  float64   `cbor:"tick_rate"`
	Note      string    `cbor:"note,omitempty"`
}

// Frame is one host tick: both eye readings and the ray origin.
type Frame struct {
	Time   float64           `cbor:"t"`
	DT     float64           `cbor:"dt"`
	Left   *gazekit.EyeState `cbor:"left,omitempty"`
	Right  *gazekit.EyeState `cbor:"right,omitempty"`
	Origin gazekit.Vec3      `cbor:"origin"`
}

// Sample combines the frame's eyes into a gaze sample.
func (f Frame) Sample() gazekit.GazeSample {
	return gazekit.CombineEyes(f.Left, f.Right, f.Origin)
}

// Options configures a Writer.
type Options struct {
	Compression Compression
	TickRate    float64
	Note        string
	// SessionID identifies the session. The zero value generates a new one.
	SessionID uuid.UUID
	// Now stamps the header. Nil uses time.Now.
	Now func() time.Time
}

// Writer appends frames to a recording.
type Writer struct {
	zw     io.WriteCloser
	enc    *cbor.Encoder
	header Header
	frames int
	closed bool
}

// NewWriter writes the file header and session header to w.
func NewWriter(w io.Writer, opts Options) (*Writer, error) {
	if _, err := w.Write(append(magic[:], byte(opts.Compression))); err != nil {
		return nil, fmt.Errorf("record: write magic: %w", err)
	}
	zw, err := compressWriter(w, opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	id := opts.SessionID
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	rw := &Writer{
		zw:  zw,
		enc: encMode.NewEncoder(zw),
		header: Header{
			SessionID: id,
			Created:   now().UTC(),
			TickRate:  opts.TickRate,
			Note:      opts.Note,
		},
	}
	if err := rw.enc.Encode(rw.header); err != nil {
		return nil, fmt.Errorf("record: write header: %w", err)
	}
	return rw, nil
}

// Header returns the session header written at the start of the recording.
func (w *Writer) Header() Header { return w.header }

// Frames returns the number of frames written.
func (w *Writer) Frames() int { return w.frames }

// WriteFrame appends one frame.
func (w *Writer) WriteFrame(f Frame) error {
	if w.closed {
		return errors.New("record: write to closed writer")
	}
	if err := w.enc.Encode(f); err != nil {
		return fmt.Errorf("record: write frame %d: %w", w.frames, err)
	}
	w.frames++
	return nil
}

// Close flushes the compressor. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("record: close: %w", err)
	}
	return nil
}

// Reader reads frames from a recording.
type Reader struct {
	dec         *cbor.Decoder
	release     func()
	header      Header
	compression Compression
	frames      int
}

// NewReader validates the file header and decodes the session header.
func NewReader(r io.Reader) (*Reader, error) {
	var head [5]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("record: read magic: %w", err)
	}
	if [4]byte(head[:4]) != magic {
		return nil, errors.New("record: not a gaze recording")
	}
	c := Compression(head[4])
	zr, release, err := decompressReader(r, c)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	rr := &Reader{dec: decMode.NewDecoder(zr), release: release, compression: c}
	if err := rr.dec.Decode(&rr.header); err != nil {
		release()
		return nil, fmt.Errorf("record: read header: %w", err)
	}
	return rr, nil
}

// Header returns the session header.
func (r *Reader) Header() Header { return r.header }

// Compression returns the stream compression.
func (r *Reader) Compression() Compression { return r.compression }

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if err := r.dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("record: read frame %d: %w", r.frames, err)
	}
	r.frames++
	return f, nil
}

// Close releases decompressor resources.
func (r *Reader) Close() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

// Replay decodes every frame of the recording in src and calls fn with the
// frame and its combined gaze sample. It stops at the first error fn
// returns.
func Replay(src io.Reader, fn func(Frame, gazekit.GazeSample) error) (Header, error) {
	r, err := NewReader(src)
	if err != nil {
		return Header{}, err
	}
	defer r.Close()
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return r.header, nil
		}
		if err != nil {
			return r.header, err
		}
		if err := fn(f, f.Sample()); err != nil {
			return r.header, err
		}
	}
}
