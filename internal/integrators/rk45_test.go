package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/galileo/internal/dynamo"
)

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}

	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(sys, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
	if math.Abs(x[0]-math.Cos(10)) > 1e-8 {
		t.Errorf("position error too large: got %.9f, expected %.9f", x[0], math.Cos(10))
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := sys.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(sys, x, float64(i)*dt, dt)
	}

	drift := math.Abs(sys.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x, newDt, err := integrator.StepAdaptive(sys, x0, 0, 0.01, 1e-6)
	if err != nil {
		t.Errorf("StepAdaptive returned error: %v", err)
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if newDt <= 0.01 {
		t.Errorf("expected a small accurate step to grow, got dt %f", newDt)
	}
}

func TestRK45_RejectsLargeStep(t *testing.T) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}

	_, newDt, err := integrator.StepAdaptive(sys, dynamo.State{1, 0}, 0, 2.0, 1e-10)
	if !errors.Is(err, dynamo.ErrStepRejected) {
		t.Fatalf("expected ErrStepRejected, got %v", err)
	}
	if newDt >= 2.0 {
		t.Errorf("expected a smaller retry step, got %f", newDt)
	}
}
