// Package analysis fits recorded pendulum motion and estimates its period.
//
// A typical offline run:
//
//	t, y, err := analysis.TrimToZeroCrossing(times, angles)
//	fit, err := analysis.Fit(analysis.SingleDecay{}, t, y, nil)
//	period, spec, err := analysis.PeriodFFT(t, y, analysis.DefaultPadding)
//
// Models:
//
//   - [SingleDecay]: A·exp(−θt)·sin(ωt−φ) + B
//   - [DoubleDecay]: (A1·exp(−θ1·t) + A2·exp(−θ2·t²))·sin(ωt−φ) + B
//
// Fitting minimises the sum of squared residuals with gonum's Nelder–Mead
// from fixed starting guesses, so a poor guess for ω can land in a local
// minimum; override it with [Guess] when the rig is far from a 1 s period.
package analysis
