package sim

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/interp"
)

var ErrNoOverlap = errors.New("sim: measurement has no samples inside the simulated span")

// Comparison summarises how far a measurement lies from a simulated curve.
// Times, Measured and Simulated hold the overlapping samples.
type Comparison struct {
	Points    int
	RMS       float64
	MaxAbs    float64
	Times     []float64
	Measured  []float64
	Simulated []float64
}

// Compare evaluates the simulated angle (degrees) at each measured time inside
// the simulated span by linear interpolation and reports the residuals.
func Compare(res *Result, times, anglesDeg []float64) (Comparison, error) {
	if len(res.Times) < 2 {
		return Comparison{}, ErrNoOverlap
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(res.Times, res.AnglesDeg()); err != nil {
		return Comparison{}, err
	}

	lo, hi := res.Times[0], res.Times[len(res.Times)-1]
	var c Comparison
	sum := 0.0
	for i, t := range times {
		if t < lo || t > hi {
			continue
		}
		simulated := pl.Predict(t)
		d := anglesDeg[i] - simulated
		sum += d * d
		c.Times = append(c.Times, t)
		c.Measured = append(c.Measured, anglesDeg[i])
		c.Simulated = append(c.Simulated, simulated)
		c.MaxAbs = math.Max(c.MaxAbs, math.Abs(d))
		c.Points++
	}
	if c.Points == 0 {
		return Comparison{}, ErrNoOverlap
	}
	c.RMS = math.Sqrt(sum / float64(c.Points))
	return c, nil
}
