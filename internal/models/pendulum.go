package models

import (
	"math"

	"github.com/san-kum/galileo/internal/dynamo"
)

// PhysicalPendulum is a uniform rod pivoting at one end with linear viscous
// damping. State is {theta, omega} in radians.
type PhysicalPendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

// NewPhysicalPendulum returns the rod used on the lab rig.
func NewPhysicalPendulum() *PhysicalPendulum {
	return &PhysicalPendulum{
		Mass:    0.11544,
		Length:  0.687,
		Damping: 0.00125,
		Gravity: 9.81,
	}
}

func (p *PhysicalPendulum) StateDim() int {
	return 2
}

// PivotDistance is the distance from the pivot to the centre of mass.
func (p *PhysicalPendulum) PivotDistance() float64 {
	return p.Length / 2
}

// Inertia is the moment of inertia about the pivot.
func (p *PhysicalPendulum) Inertia() float64 {
	return p.Mass * p.Length * p.Length / 3
}

func (p *PhysicalPendulum) Derive(x dynamo.State, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]

	alpha := -(p.Damping*omega + p.Mass*p.Gravity*p.PivotDistance()*math.Sin(theta)) / p.Inertia()

	return dynamo.State{omega, alpha}
}

func (p *PhysicalPendulum) Energy(x dynamo.State) float64 {
	kinetic := 0.5 * p.Inertia() * x[1] * x[1]
	potential := p.Mass * p.Gravity * p.PivotDistance() * (1 - math.Cos(x[0]))
	return kinetic + potential
}

// SmallAngleOmega is the undamped angular frequency for small swings,
// sqrt(3g/2L).
func (p *PhysicalPendulum) SmallAngleOmega() float64 {
	return math.Sqrt(3 * p.Gravity / (2 * p.Length))
}

// SmallAnglePeriod is 2π over SmallAngleOmega.
func (p *PhysicalPendulum) SmallAnglePeriod() float64 {
	return 2 * math.Pi / p.SmallAngleOmega()
}
