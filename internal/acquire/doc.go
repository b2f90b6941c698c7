// Package acquire reads pendulum samples from an Arduino over a serial link.
//
// The device prints one line per reading:
//
//	Time: 1500 ms, Angle: -3.2
//
// A [Worker] owns the port, decodes each line with a [Decoder] and sends
// the resulting samples on a channel returned by [Worker.Samples]. The
// first accepted line of a session defines time zero; later samples carry
// the elapsed device time in seconds. Lines that do not match, or that
// repeat the previous device timestamp, are dropped without error.
//
// # Thread Safety
//
// Start, Stop and ResetEpoch may be called from the UI goroutine while the
// worker goroutine is reading. The sample channel is the only path from the
// worker to its consumer.
package acquire
