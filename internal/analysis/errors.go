package analysis

import "errors"

var (
	// ErrNoZeroCrossing means the angle never crosses zero upwards, so the
	// series cannot be aligned for fitting.
	ErrNoZeroCrossing = errors.New("analysis: no positive zero crossing found in the data")

	// ErrTooFewSamples indicates a series too short for the requested analysis.
	ErrTooFewSamples = errors.New("analysis: not enough samples")

	// ErrLengthMismatch indicates time and angle slices of different length.
	ErrLengthMismatch = errors.New("analysis: time and angle lengths differ")

	// ErrUnknownModel is returned by ModelByName.
	ErrUnknownModel = errors.New("analysis: unknown model")
)
