package acquire

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galileo/internal/monitoring"
	"github.com/san-kum/galileo/internal/session"
)

// scriptedPort replays data in small chunks. Once drained it either reports
// EOF or behaves like an idle port hitting its read timeout.
type scriptedPort struct {
	mu      sync.Mutex
	data    []byte
	chunk   int
	idle    bool
	readErr error
	closed  bool
}

func newScriptedPort(lines ...string) *scriptedPort {
	return &scriptedPort{data: []byte(strings.Join(lines, "\n") + "\n"), chunk: 7}
}

func (p *scriptedPort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.EOF
	}
	if len(p.data) == 0 {
		if p.readErr != nil {
			return 0, p.readErr
		}
		if p.idle {
			p.mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			p.mu.Lock()
			return 0, nil
		}
		return 0, io.EOF
	}
	n := p.chunk
	if n > len(p.data) {
		n = len(p.data)
	}
	n = copy(buf, p.data[:n])
	p.data = p.data[n:]
	return n, nil
}

func (p *scriptedPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *scriptedPort) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func openerFor(p Porter) Opener {
	return func(string, PortOptions) (Porter, error) { return p, nil }
}

func collect(w *Worker) []session.Sample {
	var out []session.Sample
	for r := range w.Samples() {
		out = append(out, r.Sample)
	}
	return out
}

var _ = Describe("Worker", func() {
	var restoreLog func(string, ...interface{})

	BeforeEach(func() {
		restoreLog = monitoring.Logf
		monitoring.SetLogger(nil)
	})

	AfterEach(func() {
		monitoring.SetLogger(restoreLog)
	})

	It("emits deduplicated samples relative to the first line", func() {
		port := newScriptedPort(
			"Time: 1000 ms, Angle: 5.0",
			"Time: 1000 ms, Angle: 5.0",
			"Time: 1500 ms, Angle: -3.2",
		)
		w := NewWorker(openerFor(port), "/dev/ttyACM0", DefaultPortOptions())
		Expect(w.Start(context.Background())).To(Succeed())

		Expect(collect(w)).To(Equal([]session.Sample{
			{Time: 0, Angle: 5.0},
			{Time: 0.5, Angle: -3.2},
		}))
		Expect(w.Err()).NotTo(HaveOccurred())
		Expect(port.isClosed()).To(BeTrue())
	})

	It("skips malformed lines and keeps reading", func() {
		port := newScriptedPort(
			"Time: abc ms, Angle: 5.0",
			"\xff\xfe",
			"Time: 200 ms, Angle: 1.5",
			"Time: 260 ms, Angle: 2.5",
		)
		w := NewWorker(openerFor(port), "COM9", DefaultPortOptions())
		Expect(w.Start(context.Background())).To(Succeed())

		Expect(collect(w)).To(Equal([]session.Sample{
			{Time: 0, Angle: 1.5},
			{Time: 0.06, Angle: 2.5},
		}))
	})

	It("reports an open failure and does not start", func() {
		openErr := errors.New("no such device")
		w := NewWorker(func(string, PortOptions) (Porter, error) { return nil, openErr }, "COM1", DefaultPortOptions())

		Expect(w.Start(context.Background())).To(MatchError(openErr))
		Expect(w.Running()).To(BeFalse())
		w.Stop()
	})

	It("refuses a second start", func() {
		port := newScriptedPort()
		port.idle = true
		w := NewWorker(openerFor(port), "COM9", DefaultPortOptions())
		Expect(w.Start(context.Background())).To(Succeed())
		defer w.Stop()

		Expect(w.Start(context.Background())).To(MatchError(ErrAlreadyStarted))
	})

	It("stops an idle session and closes the port", func() {
		port := newScriptedPort("Time: 10 ms, Angle: 1")
		port.idle = true
		w := NewWorker(openerFor(port), "COM9", DefaultPortOptions())
		Expect(w.Start(context.Background())).To(Succeed())

		Eventually(w.Samples()).Should(Receive(Equal(Reading{Sample: session.Sample{Time: 0, Angle: 1}})))
		Expect(w.Running()).To(BeTrue())

		w.Stop()
		Expect(w.Running()).To(BeFalse())
		Expect(port.isClosed()).To(BeTrue())
		Expect(w.Err()).NotTo(HaveOccurred())
		w.Stop()
	})

	It("ends the session silently on a read error", func() {
		port := newScriptedPort("Time: 10 ms, Angle: 1")
		port.readErr = errors.New("device unplugged")
		w := NewWorker(openerFor(port), "COM9", DefaultPortOptions())
		Expect(w.Start(context.Background())).To(Succeed())

		Expect(collect(w)).To(HaveLen(1))
		Expect(w.Err()).To(MatchError("device unplugged"))
	})

	It("starts a new epoch after ResetEpoch", func() {
		port := newScriptedPort("Time: 1000 ms, Angle: 1")
		port.idle = true
		w := NewWorker(openerFor(port), "COM9", DefaultPortOptions())
		Expect(w.Start(context.Background())).To(Succeed())
		defer w.Stop()

		Eventually(w.Samples()).Should(Receive())
		Expect(w.ResetEpoch()).To(Equal(uint64(1)))

		port.mu.Lock()
		port.data = []byte("Time: 4000 ms, Angle: 2\nTime: 4100 ms, Angle: 3\n")
		port.mu.Unlock()

		Eventually(w.Samples()).Should(Receive(Equal(Reading{Sample: session.Sample{Time: 0, Angle: 2}, Epoch: 1})))
		Eventually(w.Samples()).Should(Receive(Equal(Reading{Sample: session.Sample{Time: 0.1, Angle: 3}, Epoch: 1})))
	})
})
