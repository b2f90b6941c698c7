package acquire

import "errors"

var (
	// ErrOpenPort wraps any failure to open or configure the serial port.
	ErrOpenPort = errors.New("acquire: cannot open serial port")

	// ErrAlreadyStarted is returned when Start is called twice on one Worker.
	ErrAlreadyStarted = errors.New("acquire: worker already started")

	// ErrInvalidOptions indicates serial options outside the supported range.
	ErrInvalidOptions = errors.New("acquire: invalid serial options")
)
