// Package dynamo provides the primitives shared by the pendulum model and the
// numerical integrators:
//
//   - [State]: vector representing system state
//   - [System]: an ODE dX/dt = f(X, t)
//   - [Integrator]: fixed-step integrator
//   - [AdaptiveIntegrator]: integrator with an embedded error estimate
//
// # Example
//
//	p := models.NewPhysicalPendulum()
//	integ := integrators.NewRK45()
//	x := dynamo.State{theta0, omega0}
//	x, dtNext, err := integ.StepAdaptive(p, x, 0, 0.01, 1e-6)
package dynamo
