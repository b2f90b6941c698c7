package dynamo

import "errors"

// Domain errors for integration.
var (
	// ErrInvalidState indicates a state vector holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepRejected indicates an adaptive step whose error estimate exceeded
	// the tolerance; retry with the returned step size.
	ErrStepRejected = errors.New("dynamo: step rejected by error estimate")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrDimensionMismatch indicates an initial state that does not fit the system.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// IntegrationError wraps an error with the time it occurred at.
type IntegrationError struct {
	Time    float64
	State   State
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return e.Wrapped.Error()
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}
