package sim

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/galileo/internal/dynamo"
	"github.com/san-kum/galileo/internal/integrators"
)

const (
	DefaultPoints    = 2000
	DefaultTolerance = 1e-6
	DefaultStep      = 1e-3
	minStep          = 1e-10
)

var ErrUnknownIntegrator = errors.New("sim: unknown integrator")

// Config describes one integration: the span [T0, T1] reported at Points
// evenly spaced instants. Step is the internal step of fixed-step methods and
// the first trial step of adaptive ones.
type Config struct {
	T0        float64
	T1        float64
	Points    int
	Step      float64
	Tolerance float64
}

func DefaultConfig() Config {
	return Config{
		T0:        0,
		T1:        60,
		Points:    DefaultPoints,
		Step:      DefaultStep,
		Tolerance: DefaultTolerance,
	}
}

func (c Config) validate() error {
	if c.T1 <= c.T0 {
		return fmt.Errorf("sim: span must be increasing, got [%g, %g]", c.T0, c.T1)
	}
	if c.Points < 2 {
		return fmt.Errorf("sim: need at least 2 points, got %d", c.Points)
	}
	if c.Step <= 0 {
		return fmt.Errorf("sim: step must be positive, got %g", c.Step)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("sim: tolerance must be positive, got %g", c.Tolerance)
	}
	return nil
}

// Result holds the state at each reported instant.
type Result struct {
	Times      []float64
	States     []dynamo.State
	StepsTaken int
	Rejected   int
	Metrics    map[string]float64
}

// Component returns state component i at every reported instant.
func (r *Result) Component(i int) []float64 {
	out := make([]float64, len(r.States))
	for k, s := range r.States {
		out[k] = s[i]
	}
	return out
}

// AnglesDeg returns the first state component converted to degrees.
func (r *Result) AnglesDeg() []float64 {
	out := r.Component(0)
	for i := range out {
		out[i] *= 180 / math.Pi
	}
	return out
}

// Integrators lists the names NewIntegrator accepts.
func Integrators() []string { return []string{"rk45", "rk4", "euler", "symplectic-euler"} }

func NewIntegrator(name string) (dynamo.Integrator, error) {
	switch strings.ToLower(name) {
	case "", "rk45":
		return integrators.NewRK45(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	case "euler":
		return integrators.NewEuler(), nil
	case "symplectic-euler":
		return integrators.NewSemiImplicitEuler(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
	}
}
