package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/galileo/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK4Accuracy(t *testing.T) {
	sys := &harmonicOscillator{}
	integ := NewRK4()

	dt := 0.01
	steps := 100

	x := dynamo.State{1.0, 0.0}
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	sys := &harmonicOscillator{}
	x := NewEuler().Step(sys, dynamo.State{1, 0}, 0, 0.1)
	if x[0] != 1 || math.Abs(x[1]+0.1) > 1e-12 {
		t.Errorf("unexpected euler step %v", x)
	}
}

func TestRK4StepIntoInPlace(t *testing.T) {
	sys := &harmonicOscillator{}
	integ := NewRK4()

	want := integ.Step(sys, dynamo.State{1, 0}, 0, 0.05)
	x := dynamo.State{1, 0}
	integ.StepInto(x, sys, x, 0, 0.05)
	if x[0] != want[0] || x[1] != want[1] {
		t.Errorf("in-place step %v differs from %v", x, want)
	}
}

func TestSemiImplicitEulerStep(t *testing.T) {
	sys := &harmonicOscillator{}
	x := NewSemiImplicitEuler().Step(sys, dynamo.State{1, 0}, 0, 0.1)
	if math.Abs(x[1]+0.1) > 1e-12 || math.Abs(x[0]-0.99) > 1e-12 {
		t.Errorf("unexpected semi-implicit step %v", x)
	}
}

func TestSemiImplicitEulerKeepsEnergyBounded(t *testing.T) {
	sys := &harmonicOscillator{}
	explicit, symplectic := NewEuler(), NewSemiImplicitEuler()
	xe, xs := dynamo.State{1, 0}, dynamo.State{1, 0}
	dt := 0.01
	for i := 0; i < 10000; i++ {
		xe = explicit.Step(sys, xe, float64(i)*dt, dt)
		xs = symplectic.Step(sys, xs, float64(i)*dt, dt)
	}

	if e := sys.Energy(xe); e < 0.6 {
		t.Errorf("expected explicit euler to gain energy, got %f", e)
	}
	if e := sys.Energy(xs); math.Abs(e-0.5) > 0.01 {
		t.Errorf("expected symplectic euler energy near 0.5, got %f", e)
	}
}
