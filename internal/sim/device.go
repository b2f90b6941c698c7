package sim

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/san-kum/galileo/internal/dynamo"
	"github.com/san-kum/galileo/internal/integrators"
)

// DeviceStep is the integration step of a simulated device.
const DeviceStep = 1e-3

// Device stands in for the Arduino rig: it integrates a system in real time
// and emits one "Time: <ms> ms, Angle: <deg>" line per interval, the way the
// firmware prints its encoder readings. It satisfies io.ReadCloser.
type Device struct {
	sys      dynamo.System
	integ    *integrators.RK4
	x        dynamo.State
	t        float64
	bootMs   int64
	interval time.Duration
	timeout  time.Duration

	pending []byte
	ticker  *time.Ticker
	closed  chan struct{}
	once    sync.Once
}

// NewDevice starts a device whose clock reads bootMs at the first line.
// A Read with no line ready waits at most timeout and then returns (0, nil),
// like a serial port with a read timeout.
func NewDevice(sys dynamo.System, x0 dynamo.State, interval, timeout time.Duration, bootMs int64) *Device {
	return &Device{
		sys:      sys,
		integ:    integrators.NewRK4(),
		x:        x0.Clone(),
		bootMs:   bootMs,
		interval: interval,
		timeout:  timeout,
		pending:  line(bootMs, x0[0]),
		ticker:   time.NewTicker(interval),
		closed:   make(chan struct{}),
	}
}

func line(ms int64, theta float64) []byte {
	return []byte(fmt.Sprintf("Time: %d ms, Angle: %.2f\r\n", ms, theta*180/math.Pi))
}

func (d *Device) Read(b []byte) (int, error) {
	select {
	case <-d.closed:
		return 0, io.EOF
	default:
	}

	if len(d.pending) == 0 {
		timer := time.NewTimer(d.timeout)
		defer timer.Stop()
		select {
		case <-d.closed:
			return 0, io.EOF
		case <-timer.C:
			return 0, nil
		case <-d.ticker.C:
			d.advance(d.interval.Seconds())
			ms := d.bootMs + int64(math.Round(d.t*1000))
			d.pending = line(ms, d.x[0])
		}
	}

	n := copy(b, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *Device) advance(span float64) {
	steps := int(math.Ceil(span / DeviceStep))
	if steps < 1 {
		steps = 1
	}
	h := span / float64(steps)
	for i := 0; i < steps; i++ {
		d.integ.StepInto(d.x, d.sys, d.x, d.t, h)
		d.t += h
	}
}

func (d *Device) Close() error {
	d.once.Do(func() {
		d.ticker.Stop()
		close(d.closed)
	})
	return nil
}
