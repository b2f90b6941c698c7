package analysis

import (
	"fmt"
	"math"
	"sort"
)

// Model is a parametric oscillator that can be fitted to a series.
type Model interface {
	Name() string
	Formula() string
	ParamNames() []string
	// Eval returns the model value at t for parameters p.
	Eval(t float64, p []float64) float64
	// Guess returns the starting parameters for angles.
	Guess(angles []float64) []float64
	// Omega returns the angular frequency held in p.
	Omega(p []float64) float64
}

const (
	defaultDecay = 0.05
	defaultOmega = 2 * math.Pi
)

// SingleDecay is A·exp(−θt)·sin(ωt−φ) + B with p = [A, ω, θ, φ, B].
type SingleDecay struct{}

func (SingleDecay) Name() string { return "single" }

func (SingleDecay) Formula() string { return "A * exp(-theta * t) * sin(2π/T * t - phi) + B" }

func (SingleDecay) ParamNames() []string { return []string{"A", "omega", "theta", "phi", "B"} }

func (SingleDecay) Eval(t float64, p []float64) float64 {
	return p[0]*math.Exp(-p[2]*t)*math.Sin(p[1]*t-p[3]) + p[4]
}

func (SingleDecay) Guess(angles []float64) []float64 {
	return []float64{halfRange(angles), defaultOmega, defaultDecay, 0, 0}
}

func (SingleDecay) Omega(p []float64) float64 { return p[1] }

// DoubleDecay mixes a viscous and a quadratic-in-time envelope:
// (A1·exp(−θ1·t) + A2·exp(−θ2·t²))·sin(ωt−φ) + B with
// p = [A1, A2, θ1, θ2, ω, φ, B].
type DoubleDecay struct{}

func (DoubleDecay) Name() string { return "double" }

func (DoubleDecay) Formula() string {
	return "((A1 * exp(-theta1 * t)) + (A2 * exp(-theta2 * t**2))) * sin(2π/T * t - phi) + B"
}

func (DoubleDecay) ParamNames() []string {
	return []string{"A1", "A2", "theta1", "theta2", "omega", "phi", "B"}
}

func (DoubleDecay) Eval(t float64, p []float64) float64 {
	env := p[0]*math.Exp(-p[2]*t) + p[1]*math.Exp(-p[3]*t*t)
	return env*math.Sin(p[4]*t-p[5]) + p[6]
}

func (DoubleDecay) Guess(angles []float64) []float64 {
	a := halfRange(angles)
	return []float64{a, a, defaultDecay, defaultDecay, defaultOmega, 0, 0}
}

func (DoubleDecay) Omega(p []float64) float64 { return p[4] }

var registry = map[string]Model{
	SingleDecay{}.Name(): SingleDecay{},
	DoubleDecay{}.Name(): DoubleDecay{},
}

// ModelByName looks a model up by its short name.
func ModelByName(name string) (Model, error) {
	m, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownModel, name, ModelNames())
	}
	return m, nil
}

// ModelNames lists the registered models in sorted order.
func ModelNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func halfRange(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return (hi - lo) / 2
}
