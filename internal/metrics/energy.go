package metrics

import (
	"math"

	"github.com/san-kum/galileo/internal/dynamo"
)

// EnergyDrift is the largest relative deviation of the mechanical energy from
// its initial value. For an undamped rig it measures integrator error.
type EnergyDrift struct {
	sys      dynamo.Energy
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(sys dynamo.Energy) *EnergyDrift {
	return &EnergyDrift{sys: sys}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.sys.Energy(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		e.maxDrift = math.Max(e.maxDrift, math.Abs(energy-e.initial)/math.Abs(e.initial))
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// Dissipation is the fraction of the initial energy lost by the last
// observed state.
type Dissipation struct {
	sys     dynamo.Energy
	initial float64
	current float64
	samples int
}

func NewDissipation(sys dynamo.Energy) *Dissipation {
	return &Dissipation{sys: sys}
}

func (d *Dissipation) Name() string { return "dissipation" }

func (d *Dissipation) Observe(x dynamo.State, t float64) {
	d.current = d.sys.Energy(x)
	if d.samples == 0 {
		d.initial = d.current
	}
	d.samples++
}

func (d *Dissipation) Value() float64 {
	if d.samples == 0 || d.initial == 0 {
		return 0
	}
	return 1 - d.current/d.initial
}

func (d *Dissipation) Reset() {
	d.initial = 0
	d.current = 0
	d.samples = 0
}

// PeakAngle is the largest |theta| seen, in degrees.
type PeakAngle struct {
	peak float64
}

func NewPeakAngle() *PeakAngle { return &PeakAngle{} }

func (p *PeakAngle) Name() string { return "peak_angle" }

func (p *PeakAngle) Observe(x dynamo.State, t float64) {
	if len(x) == 0 {
		return
	}
	p.peak = math.Max(p.peak, math.Abs(x[0])*180/math.Pi)
}

func (p *PeakAngle) Value() float64 { return p.peak }

func (p *PeakAngle) Reset() { p.peak = 0 }
