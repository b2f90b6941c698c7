package integrators

import "github.com/san-kum/galileo/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method, the fixed-step choice
// for the rig and the simulated board. Stage buffers are kept between steps,
// so an RK4 must not be shared between goroutines.
type RK4 struct {
	k     [4]dynamo.State
	stage dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.stage) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.stage = make(dynamo.State, n)
}

// Step returns the state after dt, leaving x untouched.
func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	out := make(dynamo.State, len(x))
	r.StepInto(out, sys, x, t, dt)
	return out
}

// StepInto writes the state after dt into dst, which may alias x.
func (r *RK4) StepInto(dst dynamo.State, sys dynamo.System, x dynamo.State, t, dt float64) {
	r.resize(len(x))

	// stage i evaluates at t+c[i]*dt from x + c[i]*dt*k[i-1]
	c := [4]float64{0, 0.5, 0.5, 1}
	copy(r.k[0], sys.Derive(x, t))
	for s := 1; s < 4; s++ {
		for i := range x {
			r.stage[i] = x[i] + c[s]*dt*r.k[s-1][i]
		}
		copy(r.k[s], sys.Derive(r.stage, t+c[s]*dt))
	}

	h := dt / 6
	for i := range x {
		dst[i] = x[i] + h*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
}
