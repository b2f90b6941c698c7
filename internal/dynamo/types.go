package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Energy is implemented by systems with a mechanical energy, used to check
// integrators.
type Energy interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator takes one step and proposes the next step size. A step
// whose error estimate exceeds tol returns ErrStepRejected along with the
// smaller size to retry with.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

// Metric summarizes a trajectory from the states recorded at each reported
// instant.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}
