package models

import (
	"math"
	"testing"

	"github.com/san-kum/galileo/internal/dynamo"
)

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPhysicalPendulum()

	dx := p.Derive(dynamo.State{0, 0}, 0)

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}
	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumDimensions(t *testing.T) {
	if d := NewPhysicalPendulum().StateDim(); d != 2 {
		t.Errorf("expected state dim 2, got %d", d)
	}
}

func TestPendulumGravity(t *testing.T) {
	p := NewPhysicalPendulum()
	p.Damping = 0

	dx := p.Derive(dynamo.State{math.Pi / 2, 0}, 0)

	expectedAccel := -3 * p.Gravity / (2 * p.Length)
	if math.Abs(dx[1]-expectedAccel) > 1e-9 {
		t.Errorf("expected acceleration %f, got %f", expectedAccel, dx[1])
	}
}

func TestPendulumDamping(t *testing.T) {
	p := NewPhysicalPendulum()

	dx := p.Derive(dynamo.State{0, 1}, 0)

	expected := -p.Damping / p.Inertia()
	if math.Abs(dx[1]-expected) > 1e-12 {
		t.Errorf("expected damping acceleration %f, got %f", expected, dx[1])
	}
}

func TestPendulumSmallAnglePeriod(t *testing.T) {
	p := NewPhysicalPendulum()

	if got := p.SmallAnglePeriod(); math.Abs(got-1.3576) > 1e-3 {
		t.Errorf("expected period near 1.3576 s, got %f", got)
	}
}

func TestPendulumEnergyAtRest(t *testing.T) {
	if e := NewPhysicalPendulum().Energy(dynamo.State{0, 0}); e != 0 {
		t.Errorf("expected zero energy at rest, got %f", e)
	}
}
