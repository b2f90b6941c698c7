// Package session holds the samples collected during one live acquisition.
package session

import "math"

// Sample is one observation: elapsed seconds since the session epoch and
// the pendulum angle in degrees.
type Sample struct {
	Time  float64
	Angle float64
}

// Buffer is the ordered, append-only sample list shown by the live view.
// It is owned by a single goroutine and is not safe for concurrent use.
type Buffer struct {
	samples []Sample
}

// NewBuffer returns an empty buffer with room for capacity samples.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{samples: make([]Sample, 0, capacity)}
}

// Append adds s in arrival order.
func (b *Buffer) Append(s Sample) { b.samples = append(b.samples, s) }

// Reset drops every sample.
func (b *Buffer) Reset() { b.samples = b.samples[:0] }

func (b *Buffer) Len() int { return len(b.samples) }

// Samples returns a copy of the buffered samples.
func (b *Buffer) Samples() []Sample {
	out := make([]Sample, len(b.samples))
	copy(out, b.samples)
	return out
}

// Times returns the time column.
func (b *Buffer) Times() []float64 {
	out := make([]float64, len(b.samples))
	for i, s := range b.samples {
		out[i] = s.Time
	}
	return out
}

// Angles returns the angle column.
func (b *Buffer) Angles() []float64 {
	out := make([]float64, len(b.samples))
	for i, s := range b.samples {
		out[i] = s.Angle
	}
	return out
}

// Last returns the most recent sample.
func (b *Buffer) Last() (Sample, bool) {
	if len(b.samples) == 0 {
		return Sample{}, false
	}
	return b.samples[len(b.samples)-1], true
}

// Bounds returns the angle range seen so far. An empty buffer reports zeros.
func (b *Buffer) Bounds() (lo, hi float64) {
	if len(b.samples) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range b.samples {
		lo = math.Min(lo, s.Angle)
		hi = math.Max(hi, s.Angle)
	}
	return lo, hi
}
