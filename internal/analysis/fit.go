package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// restarts re-seeds Nelder–Mead from its own answer; a collapsed simplex
// otherwise stops short of the minimum on these long periodic series.
const restarts = 3

// Guess overrides individual starting values by parameter name.
type Guess map[string]float64

// FitResult holds the fitted parameters and goodness of fit.
type FitResult struct {
	Model     string
	Formula   string
	Names     []string
	Params    []float64
	Period    float64 // s
	Frequency float64 // Hz
	RSquared  float64
	SSE       float64
	Status    optimize.Status
}

// Param returns the fitted value of the named parameter.
func (r *FitResult) Param(name string) (float64, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.Params[i], true
		}
	}
	return 0, false
}

// Curve evaluates the fitted model at each time.
func Curve(m Model, times, params []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = m.Eval(t, params)
	}
	return out
}

// Fit adjusts m to (times, angles) by least squares, starting from the
// model's default guess with any overrides applied.
func Fit(m Model, times, angles []float64, overrides Guess) (*FitResult, error) {
	if len(times) != len(angles) {
		return nil, ErrLengthMismatch
	}
	names := m.ParamNames()
	if len(times) < len(names) {
		return nil, fmt.Errorf("%w: %d samples for %d parameters", ErrTooFewSamples, len(times), len(names))
	}

	x0 := m.Guess(angles)
	for name, v := range overrides {
		idx := indexOf(names, name)
		if idx < 0 {
			return nil, fmt.Errorf("analysis: model %s has no parameter %q", m.Name(), name)
		}
		x0[idx] = v
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 { return sse(m, times, angles, p) },
	}
	settings := &optimize.Settings{
		MajorIterations: 20000,
		FuncEvaluations: 200000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-12,
			Iterations: 200,
		},
	}

	var res *optimize.Result
	x := x0
	for i := 0; i < restarts; i++ {
		r, err := optimize.Minimize(problem, x, settings, &optimize.NelderMead{})
		if err != nil {
			return nil, fmt.Errorf("analysis: fitting %s model: %w", m.Name(), err)
		}
		res = r
		x = r.X
	}

	params := append([]float64(nil), res.X...)
	omega := math.Abs(m.Omega(params))
	period := 2 * math.Pi / omega

	return &FitResult{
		Model:     m.Name(),
		Formula:   m.Formula(),
		Names:     names,
		Params:    params,
		Period:    period,
		Frequency: 1 / period,
		RSquared:  RSquared(angles, Curve(m, times, params)),
		SSE:       res.F,
		Status:    res.Status,
	}, nil
}

// RSquared is the coefficient of determination of fitted against observed,
// NaN when observed is constant.
func RSquared(observed, fitted []float64) float64 {
	if len(observed) < 2 || stat.Variance(observed, nil) == 0 {
		return math.NaN()
	}
	return stat.RSquaredFrom(fitted, observed, nil)
}

func sse(m Model, times, angles, p []float64) float64 {
	var sum float64
	for i, t := range times {
		r := angles[i] - m.Eval(t, p)
		sum += r * r
	}
	return sum
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
