package acquire

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/san-kum/galileo/internal/monitoring"
)

const (
	sampleQueueSize = 1024
	readChunk       = 256
	// lines longer than this without a newline are treated as noise
	maxLineLength = 4096
)

// Worker reads one acquisition session from a serial device. A Worker runs
// at most once; create a new one for each connection.
type Worker struct {
	open    Opener
	path    string
	opts    PortOptions
	decoder Decoder
	samples chan Reading
	raw     atomic.Bool

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// NewWorker prepares a worker for the device at path. Nothing is opened
// until Start.
func NewWorker(open Opener, path string, opts PortOptions) *Worker {
	if open == nil {
		open = Open
	}
	return &Worker{
		open:    open,
		path:    path,
		opts:    opts,
		samples: make(chan Reading, sampleQueueSize),
	}
}

// Path returns the device the worker was created for.
func (w *Worker) Path() string { return w.path }

// Samples returns the channel samples are delivered on. It is closed when
// the read loop exits.
func (w *Worker) Samples() <-chan Reading { return w.samples }

// SetRawEcho toggles logging of every parsed sample.
func (w *Worker) SetRawEcho(on bool) { w.raw.Store(on) }

// ResetEpoch makes the next accepted line define time zero. Readings
// already decoded carry an older Epoch than the one returned.
func (w *Worker) ResetEpoch() uint64 { return w.decoder.Reset() }

// Start opens the port and launches the read loop. An open failure is
// returned and no goroutine is started.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}

	port, err := w.open(w.path, w.opts)
	if err != nil {
		monitoring.Logf("Error opening serial port: %v", err)
		return err
	}
	w.started = true
	monitoring.Logf("Opened serial port %s at %d baud.", w.path, w.opts.BaudRate)

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx, port)
	return nil
}

// Stop asks the read loop to finish after the line in progress and blocks
// until it has closed the port and exited. Safe to call more than once or
// on a worker that never started.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the read loop is still active.
func (w *Worker) Running() bool {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Err returns the read error that ended the session, or nil when it ended
// because of Stop, end of input, or has not ended yet.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Worker) run(ctx context.Context, port Porter) {
	defer close(w.done)
	defer close(w.samples)

	err := w.readLoop(ctx, port)
	if cerr := port.Close(); cerr != nil {
		monitoring.Logf("closing %s: %v", w.path, cerr)
	}
	monitoring.Logf("Closed serial port.")

	if err != nil && ctx.Err() == nil {
		monitoring.Logf("serial read on %s ended: %v", w.path, err)
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
	}
}

// readLoop splits the byte stream into lines itself: the port returns
// (0, nil) on every read timeout and the stop request must be checked
// between those reads.
func (w *Worker) readLoop(ctx context.Context, port Porter) error {
	var pending bytes.Buffer
	chunk := make([]byte, readChunk)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := port.Read(chunk)
		if n > 0 {
			pending.Write(chunk[:n])
			for {
				i := bytes.IndexByte(pending.Bytes(), '\n')
				if i < 0 {
					break
				}
				w.handleLine(ctx, pending.Next(i + 1))
				if ctx.Err() != nil {
					return nil
				}
			}
			if pending.Len() > maxLineLength {
				pending.Reset()
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (w *Worker) handleLine(ctx context.Context, line []byte) {
	s, ok := w.decoder.Read(line)
	if !ok {
		return
	}
	if w.raw.Load() {
		monitoring.Logf("Parsed data: Time: %gs, Angle: %g°", s.Time, s.Angle)
	}
	select {
	case w.samples <- s:
	case <-ctx.Done():
	}
}
