package acquire

import (
	"sync"

	"github.com/san-kum/galileo/internal/session"
)

// Reading is a decoded sample tagged with the epoch generation it was
// timed against. Every Reset starts a new generation.
type Reading struct {
	session.Sample
	Epoch uint64
}

// Decoder turns device lines into samples relative to a session epoch.
// The zero value is ready to use.
type Decoder struct {
	mu      sync.Mutex
	gen     uint64
	epoch   int64
	started bool
	last    int64
	hasLast bool
}

// Decode parses line and returns the sample it yields. ok is false for lines
// that do not parse and for a repeat of the previous elapsed timestamp; in the
// first case the decoder state is left untouched.
//
// Duplicates are detected on the millisecond stamp alone, so two different
// angles reported within the same millisecond keep only the first.
func (d *Decoder) Decode(line []byte) (s session.Sample, ok bool) {
	r, ok := d.Read(line)
	return r.Sample, ok
}

// Read is Decode that also reports the epoch generation, taken atomically
// with the decode so a concurrent Reset is either fully before or after it.
func (d *Decoder) Read(line []byte) (Reading, bool) {
	ms, angle, ok := ParseLine(line)
	if !ok {
		return Reading{}, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var elapsed int64
	if !d.started {
		d.epoch = ms
		d.started = true
	} else {
		elapsed = ms - d.epoch
	}

	if d.hasLast && elapsed == d.last {
		return Reading{}, false
	}
	d.last = elapsed
	d.hasLast = true

	return Reading{
		Sample: session.Sample{Time: float64(elapsed) / 1000.0, Angle: angle},
		Epoch:  d.gen,
	}, true
}

// Reset makes the next accepted line the new epoch and returns the new
// generation.
func (d *Decoder) Reset() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.started = false
	d.hasLast = false
	d.epoch = 0
	d.last = 0
	return d.gen
}
