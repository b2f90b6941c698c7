package acquire

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
)

// Porter is the part of a serial port the worker needs. serial.Port
// satisfies it, as do the simulated device and test doubles.
type Porter interface {
	io.Reader
	io.Closer
}

// Opener opens the device at path. Open is the real implementation.
type Opener func(path string, opts PortOptions) (Porter, error)

// PortOptions describes the serial connection to the pendulum board.
type PortOptions struct {
	BaudRate    int           `yaml:"baud_rate"`
	DataBits    int           `yaml:"data_bits"`
	StopBits    int           `yaml:"stop_bits"`
	Parity      string        `yaml:"parity"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// DefaultPortOptions matches the sketch running on the board: 115200 8N1.
func DefaultPortOptions() PortOptions {
	return PortOptions{
		BaudRate:    115200,
		DataBits:    8,
		StopBits:    1,
		Parity:      "N",
		ReadTimeout: time.Second,
	}
}

// Normalize fills unset fields with defaults and rejects unsupported values.
func (o PortOptions) Normalize() (PortOptions, error) {
	def := DefaultPortOptions()
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = def.BaudRate
	}
	if opts.DataBits == 0 {
		opts.DataBits = def.DataBits
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("%w: data bits %d not in 5..8", ErrInvalidOptions, opts.DataBits)
	}
	if opts.StopBits == 0 {
		opts.StopBits = def.StopBits
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("%w: stop bits %d not 1 or 2", ErrInvalidOptions, opts.StopBits)
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = def.ReadTimeout
	}

	switch strings.ToUpper(strings.TrimSpace(opts.Parity)) {
	case "", "N", "NONE":
		opts.Parity = "N"
	case "E", "EVEN":
		opts.Parity = "E"
	case "O", "ODD":
		opts.Parity = "O"
	default:
		return opts, fmt.Errorf("%w: parity %q", ErrInvalidOptions, o.Parity)
	}
	return opts, nil
}

// SerialMode converts the options to a serial.Mode. DTR and RTS start low so
// opening the port does not reset the Arduino.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate:          opts.BaudRate,
		DataBits:          opts.DataBits,
		StopBits:          serial.OneStopBit,
		InitialStatusBits: &serial.ModemOutputBits{DTR: false, RTS: false},
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	default:
		mode.Parity = serial.NoParity
	}
	return mode, nil
}

// Open opens a real serial port, applies the read timeout and discards
// whatever the board printed before we connected.
func Open(path string, opts PortOptions) (Porter, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrOpenPort, path, err)
	}
	if err := port.SetReadTimeout(opts.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("%w %s: read timeout: %v", ErrOpenPort, path, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("%w %s: flush: %v", ErrOpenPort, path, err)
	}
	return port, nil
}
