package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultPadding is the zero-padding factor applied before the transform.
const DefaultPadding = 20

// Spectrum is the one-sided amplitude spectrum of a series.
type Spectrum struct {
	Freqs      []float64 // Hz
	Amplitudes []float64 // same unit as the input
}

// PeriodFFT estimates the dominant period of angles. The series is assumed
// evenly spaced at times[1]-times[0] and is zero padded to pad times its
// length to refine the peak. The mean is removed first so an angle offset
// does not leak into the low bins; the spectrum is that of the centred series.
func PeriodFFT(times, angles []float64, pad int) (float64, Spectrum, error) {
	if len(times) != len(angles) {
		return 0, Spectrum{}, ErrLengthMismatch
	}
	n := len(angles)
	if n < 2 {
		return 0, Spectrum{}, ErrTooFewSamples
	}
	if pad < 1 {
		pad = 1
	}
	dt := times[1] - times[0]
	if dt <= 0 {
		return 0, Spectrum{}, ErrTooFewSamples
	}

	mean := stat.Mean(angles, nil)
	padded := make([]float64, n*pad)
	for i, a := range angles {
		padded[i] = a - mean
	}

	fft := fourier.NewFFT(len(padded))
	coeff := fft.Coefficients(nil, padded)

	// keep the strictly positive half like a two-sided fftfreq would
	half := len(padded) / 2
	spec := Spectrum{
		Freqs:      make([]float64, half),
		Amplitudes: make([]float64, half),
	}
	for i := 0; i < half; i++ {
		spec.Freqs[i] = fft.Freq(i) / dt
		spec.Amplitudes[i] = 2.0 / float64(n) * cmplx.Abs(coeff[i])
	}
	if half < 2 {
		return 0, spec, ErrTooFewSamples
	}

	peak := 1 + floats.MaxIdx(spec.Amplitudes[1:])
	return 1 / spec.Freqs[peak], spec, nil
}
