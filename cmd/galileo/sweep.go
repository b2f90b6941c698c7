package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/galileo/internal/config"
	"github.com/san-kum/galileo/internal/export"
	"github.com/san-kum/galileo/internal/sweep"
)

func sweepRig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rig := cfg.Rig
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		rig = *p
	}
	rig.T1 = rig.T0 + spanEnd

	s := sweep.Sweep{
		Param:   sweepParam,
		Min:     sweepFrom,
		Max:     sweepTo,
		Steps:   sweepSteps,
		Workers: sweepWorkers,
		Padding: cfg.Fit.FFTPadding,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, err := s.Run(ctx, rig)
	if err != nil {
		return err
	}

	values := make([]float64, len(points))
	periods := make([]float64, len(points))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPERIOD\tSMALL-ANGLE\tPEAK\tDISSIPATED\tSTEPS\n", sweepParam)
	for i, p := range points {
		values[i], periods[i] = p.Value, p.Period
		fmt.Fprintf(w, "%g\t%.4f s\t%.4f s\t%.1f°\t%.1f%%\t%d\n",
			p.Value, p.Period, p.SmallAnglePeriod, p.PeakAngle, 100*p.Dissipation, p.Steps)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(points) > 1 {
		fmt.Println()
		fmt.Println(terminalPlot("Period (s) by "+sweepParam, periods))
	}

	chart := export.Chart{
		Title:    "Period Sweep",
		Subtitle: fmt.Sprintf("%s from %g to %g", sweepParam, sweepFrom, sweepTo),
		XLabel:   sweepParam,
		YLabel:   "Period (s)",
		Series:   []export.Series{{Name: "FFT period", X: values, Y: periods, Markers: true}},
	}
	return writeCharts("galileo sweep", chart)
}
