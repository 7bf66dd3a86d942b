package record

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/zeebo/blake3"

	"github.com/phanxgames/gazekit"
)

// EventDigest fingerprints the event stream a replay produces. Replaying the
// same recording through identically configured trackers yields the same
// digest, so a stored digest turns a recording into a regression fixture.
type EventDigest struct {
	h      *blake3.Hasher
	events int
	buf    []byte
}

// NewEventDigest returns an empty digest.
func NewEventDigest() *EventDigest {
	return &EventDigest{h: blake3.New()}
}

// Add folds one event, observed during the given frame, into the digest.
func (d *EventDigest) Add(frame int, e gazekit.GazeEvent) {
	b := d.buf[:0]
	b = binary.LittleEndian.AppendUint32(b, uint32(frame))
	b = append(b, byte(e.Type))
	b = binary.LittleEndian.AppendUint32(b, uint32(e.Target))
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(e.Dwell))
	d.buf = b
	_, _ = d.h.Write(b)
	d.events++
}

// Events returns the number of events added.
func (d *EventDigest) Events() int { return d.events }

// Sum returns the hex-encoded digest of the events added so far.
func (d *EventDigest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
