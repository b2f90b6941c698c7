package integrators

import "github.com/san-kum/galileo/internal/dynamo"

// Euler is the explicit first-order method. With SemiImplicit set the state
// is read as positions followed by velocities of equal length, and the
// positions advance with the already updated velocities (symplectic Euler),
// which keeps an undamped swing from gaining energy.
type Euler struct {
	SemiImplicit bool
}

func NewEuler() *Euler {
	return &Euler{}
}

func NewSemiImplicitEuler() *Euler {
	return &Euler{SemiImplicit: true}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := sys.Derive(x, t)
	out := make(dynamo.State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	if !e.SemiImplicit || len(x)%2 != 0 {
		return out
	}

	half := len(x) / 2
	for i := 0; i < half; i++ {
		out[i] = x[i] + dt*out[half+i]
	}
	return out
}
