package render

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math"
	"sync"

	"github.com/olivierh59500/magnet-art/internal/sim"
)

// Recorder keeps every segment in memory.
type Recorder struct {
	mu   sync.Mutex
	segs []sim.Segment
}

// DrawSegment appends seg.
func (r *Recorder) DrawSegment(seg sim.Segment) error {
	r.mu.Lock()
	r.segs = append(r.segs, seg)
	r.mu.Unlock()
	return nil
}

// Segments returns a copy of what has been recorded.
func (r *Recorder) Segments() []sim.Segment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sim.Segment, len(r.segs))
	copy(out, r.segs)
	return out
}

// Len returns the number of recorded segments.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.segs)
}

// Digest hashes the exact bits of every recorded coordinate. Two runs with
// the same digest drew the same picture.
func (r *Recorder) Digest() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := sha256.New()
	var buf [32]byte
	for _, s := range r.segs {
		binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(s.From.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(s.From.Y))
		binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(s.To.X))
		binary.LittleEndian.PutUint64(buf[24:], math.Float64bits(s.To.Y))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Replay sends every recorded segment to dst in order.
func (r *Recorder) Replay(dst sim.Renderer) error {
	for _, s := range r.Segments() {
		if err := dst.DrawSegment(s); err != nil {
			return err
		}
	}
	return nil
}

// Multi fans each segment out to several renderers.
type Multi []sim.Renderer

// DrawSegment forwards seg to every renderer and joins their errors.
func (m Multi) DrawSegment(seg sim.Segment) error {
	var errs []error
	for _, r := range m {
		if err := r.DrawSegment(seg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
