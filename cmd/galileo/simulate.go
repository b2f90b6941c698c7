package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/galileo/internal/analysis"
	"github.com/san-kum/galileo/internal/config"
	"github.com/san-kum/galileo/internal/dynamo"
	"github.com/san-kum/galileo/internal/export"
	"github.com/san-kum/galileo/internal/metrics"
	"github.com/san-kum/galileo/internal/sim"
)

const (
	phaseWidth  = 72
	phaseHeight = 24
)

func simulateRig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rig := cfg.Rig

	// Load preset if specified (overrides config)
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		rig = *p
	}

	// CLI flags override preset and config
	if cmd.Flags().Changed("theta0") {
		rig.Theta0 = theta0
	}
	if cmd.Flags().Changed("omega0") {
		rig.Omega0 = omega0
	}
	if cmd.Flags().Changed("time") {
		rig.T1 = rig.T0 + spanEnd
	}
	if cmd.Flags().Changed("points") {
		rig.Points = points
	}
	if cmd.Flags().Changed("integrator") {
		rig.Integrator = integrator
	}

	integ, err := sim.NewIntegrator(rig.Integrator)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, sim.Integrators())
	}
	p := pendulumFor(rig)
	simCfg := sim.Config{
		T0:        rig.T0,
		T1:        rig.T1,
		Points:    rig.Points,
		Step:      sim.DefaultStep,
		Tolerance: rig.Tolerance,
	}
	if simCfg.Tolerance <= 0 {
		simCfg.Tolerance = sim.DefaultTolerance
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	x0 := dynamo.State{rig.Theta0 * math.Pi / 180, rig.Omega0}
	simulator := sim.New(p, integ)
	simulator.AddMetric(metrics.NewEnergyDrift(p))
	simulator.AddMetric(metrics.NewDissipation(p))
	simulator.AddMetric(metrics.NewPeakAngle())
	res, err := simulator.Run(ctx, x0, simCfg)
	if err != nil {
		return err
	}
	simAngles := res.AnglesDeg()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Rig\tM=%g kg, L=%g m, b=%g, J=%.6g kg·m²\n", p.Mass, p.Length, p.Damping, p.Inertia())
	fmt.Fprintf(w, "Initial\ttheta0=%g°, omega0=%g rad/s\n", rig.Theta0, rig.Omega0)
	fmt.Fprintf(w, "Span\t%g-%g s, %d points, %s (%d steps, %d rejected)\n",
		rig.T0, rig.T1, rig.Points, rig.Integrator, res.StepsTaken, res.Rejected)
	fmt.Fprintf(w, "Small-angle period\t%.6f s\n", p.SmallAnglePeriod())
	if period, _, err := analysis.PeriodFFT(res.Times, simAngles, cfg.Fit.FFTPadding); err == nil {
		fmt.Fprintf(w, "Simulated period (FFT)\t%.6f s\n", period)
	}
	fmt.Fprintf(w, "Peak angle\t%.2f°\n", res.Metrics["peak_angle"])
	fmt.Fprintf(w, "Energy dissipated\t%.2f%%\n", 100*res.Metrics["dissipation"])
	if p.Damping == 0 {
		fmt.Fprintf(w, "Energy drift\t%.3g\n", res.Metrics["energy_drift"])
	}

	chart := export.Chart{
		Title:  "Pendulum Simulation",
		XLabel: "Time (s)",
		YLabel: "Theta (°)",
		Series: []export.Series{{Name: "Simulation", X: res.Times, Y: simAngles}},
	}
	plotSeries := [][]float64{simAngles}
	caption := "Theta (°): simulation"

	if len(args) == 1 {
		path := args[0]
		times, angles, err := loadDataset(path)
		if err != nil {
			return err
		}
		if !noTruncate {
			times, angles = analysis.TruncateSpan(times, angles, rig.T0, rig.T1)
		}
		cmp, err := sim.Compare(res, times, angles)
		if err != nil && !errors.Is(err, sim.ErrNoOverlap) {
			return err
		}
		if err == nil {
			fmt.Fprintf(w, "Compared samples\t%d\n", cmp.Points)
			fmt.Fprintf(w, "RMS error\t%.3f°\n", cmp.RMS)
			fmt.Fprintf(w, "Max error\t%.3f°\n", cmp.MaxAbs)
			plotSeries = [][]float64{cmp.Measured, cmp.Simulated}
			caption = "Theta (°) at measured times: measurement and simulation"
		} else {
			fmt.Fprintf(w, "Compared samples\t0 (no overlap with the simulated span)\n")
		}

		chart.Title = "Pendulum Simulation vs CSV Data"
		chart.Subtitle = "File: " + path
		if len(times) > 0 {
			chart.Series = append(chart.Series, measurementSeries(times, angles))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(terminalPlot(caption, plotSeries...))

	omegas := res.Component(1)
	if showPhase {
		fmt.Println()
		fmt.Println("Phase portrait (theta ° vs omega rad/s)")
		fmt.Print(analysis.PhasePortraitASCII(simAngles, omegas, phaseWidth, phaseHeight))
	}
	phase := export.Chart{
		Title:  "Phase Portrait",
		XLabel: "Theta (°)",
		YLabel: "Omega (rad/s)",
		Series: []export.Series{{Name: "Simulation", X: simAngles, Y: omegas}},
	}

	if jsonOut != "" {
		tr := export.Trajectory{
			Rig: map[string]float64{
				"mass": rig.Mass, "length": rig.Length, "damping": rig.Damping, "gravity": rig.Gravity,
				"theta0": rig.Theta0, "omega0": rig.Omega0,
			},
			Integrator: rig.Integrator,
			Tolerance:  simCfg.Tolerance,
			Steps:      res.StepsTaken,
			Rejected:   res.Rejected,
			Times:      res.Times,
			Angles:     simAngles,
			Omegas:     omegas,
			Metrics:    res.Metrics,
		}
		if err := export.SaveJSON(jsonOut, tr); err != nil {
			return err
		}
	}

	title := "galileo simulation"
	if len(args) == 1 {
		title += " " + filepath.Base(args[0])
	}
	return writeCharts(title, chart, phase)
}
