package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/galileo/internal/dynamo"
)

// spring has energy x^2/2 + v^2/2.
type spring struct{}

func (spring) Energy(x dynamo.State) float64 { return 0.5 * (x[0]*x[0] + x[1]*x[1]) }

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(spring{})

	m.Observe(dynamo.State{1, 0}, 0)
	m.Observe(dynamo.State{0, 1}, 1)
	if m.Value() != 0 {
		t.Errorf("expected no drift on the energy shell, got %g", m.Value())
	}

	m.Observe(dynamo.State{0, math.Sqrt(1.2)}, 2)
	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("expected drift 0.2, got %g", m.Value())
	}

	m.Observe(dynamo.State{1, 0}, 3)
	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("drift should keep its maximum, got %g", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestDissipation(t *testing.T) {
	d := NewDissipation(spring{})
	if d.Value() != 0 {
		t.Errorf("expected 0 before any sample, got %g", d.Value())
	}

	d.Observe(dynamo.State{2, 0}, 0)
	d.Observe(dynamo.State{1, 1}, 1)
	if math.Abs(d.Value()-0.5) > 1e-12 {
		t.Errorf("expected half the energy lost, got %g", d.Value())
	}

	d.Reset()
	d.Observe(dynamo.State{1, 0}, 0)
	if d.Value() != 0 {
		t.Errorf("expected 0 after reset, got %g", d.Value())
	}
}

func TestPeakAngle(t *testing.T) {
	p := NewPeakAngle()
	p.Observe(dynamo.State{-math.Pi / 2, 0}, 0)
	p.Observe(dynamo.State{math.Pi / 4, 3}, 1)
	if math.Abs(p.Value()-90) > 1e-9 {
		t.Errorf("expected 90°, got %g", p.Value())
	}
	p.Reset()
	if p.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}
