package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/galileo/internal/dynamo"
)

type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
}

func New(sys dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{sys: sys, integrator: integrator}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// Run integrates from x0 at cfg.T0 and records the state at cfg.Points
// evenly spaced instants including both ends. Adaptive integrators choose
// their own steps but always land exactly on each reported instant.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system %d",
			dynamo.ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}

	times := floats.Span(make([]float64, cfg.Points), cfg.T0, cfg.T1)
	result := &Result{
		Times:   times,
		States:  make([]dynamo.State, 0, cfg.Points),
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	defer s.collect(result)

	x := x0.Clone()
	s.record(result, x, times[0])
	dt := cfg.Step

	for k := 1; k < len(times); k++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		var err error
		if adaptive, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
			x, dt, err = s.advanceAdaptive(adaptive, x, times[k-1], times[k], dt, cfg.Tolerance, result)
		} else {
			x, err = s.advanceFixed(x, times[k-1], times[k], cfg.Step, result)
		}
		if err != nil {
			result.Times = result.Times[:len(result.States)]
			return result, err
		}
		s.record(result, x, times[k])
	}

	return result, nil
}

func (s *Simulator) record(result *Result, x dynamo.State, t float64) {
	result.States = append(result.States, x.Clone())
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) advanceFixed(x dynamo.State, from, to, step float64, result *Result) (dynamo.State, error) {
	n := int(math.Ceil((to-from)/step - 1e-9))
	if n < 1 {
		n = 1
	}
	h := (to - from) / float64(n)
	t := from
	for i := 0; i < n; i++ {
		x = s.integrator.Step(s.sys, x, t, h)
		t += h
		result.StepsTaken++
		if !x.IsValid() {
			return x, &dynamo.IntegrationError{Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}
	}
	return x, nil
}

func (s *Simulator) advanceAdaptive(integ dynamo.AdaptiveIntegrator, x dynamo.State, from, to, dt, tol float64, result *Result) (dynamo.State, float64, error) {
	t := from
	for t < to {
		h := math.Min(dt, to-t)
		xNew, next, err := integ.StepAdaptive(s.sys, x, t, h, tol)
		switch {
		case errors.Is(err, dynamo.ErrStepRejected):
			result.Rejected++
			if next < minStep {
				return x, dt, &dynamo.IntegrationError{Time: t, State: x.Clone(), Wrapped: dynamo.ErrStepTooSmall}
			}
			dt = next
			continue
		case err != nil:
			return x, dt, err
		}
		if !xNew.IsValid() {
			return x, dt, &dynamo.IntegrationError{Time: t + h, State: xNew, Wrapped: dynamo.ErrInvalidState}
		}

		result.StepsTaken++
		x = xNew
		t += h
		// a step shortened to land on the output instant says nothing about
		// the step size the error estimate would allow
		if h == dt || next > dt {
			dt = next
		}
		if to-t < 1e-12*math.Max(1, math.Abs(to)) {
			break
		}
	}
	return x, dt, nil
}
