// Package sweep runs the pendulum simulation across a range of one rig
// parameter, for example the period against release angle.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/galileo/internal/analysis"
	"github.com/san-kum/galileo/internal/config"
	"github.com/san-kum/galileo/internal/dynamo"
	"github.com/san-kum/galileo/internal/metrics"
	"github.com/san-kum/galileo/internal/models"
	"github.com/san-kum/galileo/internal/sim"
)

var ErrUnknownParam = errors.New("sweep: unknown parameter")

// Params lists the rig parameters a sweep can vary.
func Params() []string {
	return []string{"theta0", "omega0", "damping", "length", "mass", "gravity"}
}

func setParam(rig *config.RigConfig, name string, v float64) error {
	switch strings.ToLower(name) {
	case "theta0":
		rig.Theta0 = v
	case "omega0":
		rig.Omega0 = v
	case "damping":
		rig.Damping = v
	case "length":
		rig.Length = v
	case "mass":
		rig.Mass = v
	case "gravity":
		rig.Gravity = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// Sweep varies Param over Steps evenly spaced values in [Min, Max]. Workers
// bounds the number of concurrent runs; zero means GOMAXPROCS.
type Sweep struct {
	Param    string
	Min, Max float64
	Steps    int
	Workers  int
	Padding  int
}

// Point is the outcome of one run of a sweep.
type Point struct {
	Value            float64
	Period           float64
	SmallAnglePeriod float64
	PeakAngle        float64
	Dissipation      float64
	Steps            int
}

func (s Sweep) validate() error {
	if s.Steps < 1 {
		return fmt.Errorf("sweep: need at least one step, got %d", s.Steps)
	}
	if s.Steps > 1 && s.Max <= s.Min {
		return fmt.Errorf("sweep: range must be increasing, got [%g, %g]", s.Min, s.Max)
	}
	return setParam(&config.RigConfig{}, s.Param, 0)
}

// Values returns the parameter values the sweep visits.
func (s Sweep) Values() []float64 {
	if s.Steps == 1 {
		return []float64{s.Min}
	}
	out := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	out[len(out)-1] = s.Max
	return out
}

// Run simulates base once per value, in parallel, and returns the points in
// value order. The first failing run cancels the rest.
func (s Sweep) Run(ctx context.Context, base config.RigConfig) ([]Point, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pad := s.Padding
	if pad <= 0 {
		pad = analysis.DefaultPadding
	}

	values := s.Values()
	points := make([]Point, len(values))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			rig := base
			if err := setParam(&rig, s.Param, v); err != nil {
				return err
			}
			p, err := runOne(ctx, rig, pad)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", s.Param, v, err)
			}
			p.Value = v
			points[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func runOne(ctx context.Context, rig config.RigConfig, pad int) (Point, error) {
	integ, err := sim.NewIntegrator(rig.Integrator)
	if err != nil {
		return Point{}, err
	}
	p := &models.PhysicalPendulum{Mass: rig.Mass, Length: rig.Length, Damping: rig.Damping, Gravity: rig.Gravity}

	cfg := sim.DefaultConfig()
	cfg.T0, cfg.T1 = rig.T0, rig.T1
	if rig.Points > 0 {
		cfg.Points = rig.Points
	}
	if rig.Tolerance > 0 {
		cfg.Tolerance = rig.Tolerance
	}

	simulator := sim.New(p, integ)
	simulator.AddMetric(metrics.NewPeakAngle())
	simulator.AddMetric(metrics.NewDissipation(p))

	x0 := dynamo.State{rig.Theta0 * math.Pi / 180, rig.Omega0}
	res, err := simulator.Run(ctx, x0, cfg)
	if err != nil {
		return Point{}, err
	}
	period, _, err := analysis.PeriodFFT(res.Times, res.AnglesDeg(), pad)
	if err != nil {
		return Point{}, err
	}
	return Point{
		Period:           period,
		SmallAnglePeriod: p.SmallAnglePeriod(),
		PeakAngle:        res.Metrics["peak_angle"],
		Dissipation:      res.Metrics["dissipation"],
		Steps:            res.StepsTaken,
	}, nil
}
