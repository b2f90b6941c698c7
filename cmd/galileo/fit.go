package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/galileo/internal/analysis"
	"github.com/san-kum/galileo/internal/export"
)

func fitDataset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("model") {
		modelName = cfg.Fit.Model
	}
	if !cmd.Flags().Changed("fft-padding") {
		fftPadding = cfg.Fit.FFTPadding
	}

	model, err := analysis.ModelByName(modelName)
	if err != nil {
		return err
	}

	guess := analysis.Guess{}
	for k, v := range cfg.GuessFor(model.Name()) {
		guess[k] = v
	}
	flagGuess, err := parseGuesses(guesses)
	if err != nil {
		return err
	}
	for k, v := range flagGuess {
		guess[k] = v
	}

	path := args[0]
	times, angles, err := loadDataset(path)
	if err != nil {
		return err
	}
	sw, err := analyzeSwing(model, times, angles, guess, fftPadding, !noTrim)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	times, angles = sw.times, sw.angles
	res, periodFFT, spec, fitted := sw.fit, sw.periodFFT, sw.spectrum, sw.fitted

	fmt.Println(terminalPlot("Angle (°): measurement and fit", angles, fitted))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Model\t%s\n", res.Formula)
	fmt.Fprintf(w, "Period from fit\t%.6f s\n", res.Period)
	fmt.Fprintf(w, "Period from FFT\t%.6f s\n", periodFFT)
	fmt.Fprintf(w, "Frequency\t%.6f Hz\n", res.Frequency)
	for i, name := range res.Names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, res.Params[i])
	}
	fmt.Fprintf(w, "R²\t%.4f\n", res.RSquared)
	fmt.Fprintf(w, "Optimizer\t%s\n", res.Status)
	if err := w.Flush(); err != nil {
		return err
	}

	subtitle := fmt.Sprintf("%s\nPeriod=%.3f s, Freq=%.3f Hz, R²=%.4f", res.Formula, res.Period, res.Frequency, res.RSquared)
	timeChart := export.Chart{
		Title:    fmt.Sprintf("%s decay fit: %s", model.Name(), filepath.Base(path)),
		Subtitle: subtitle,
		XLabel:   "Time (s)",
		YLabel:   "Angle (°)",
		Series: []export.Series{
			measurementSeries(times, angles),
			{Name: "Fitted Curve", X: times, Y: fitted},
		},
	}
	freqChart := export.Chart{
		Title:    "Frequency Domain (FFT)",
		Subtitle: fmt.Sprintf("Period from FFT=%.3f s", periodFFT),
		XLabel:   "Frequency (Hz)",
		YLabel:   "Amplitude",
		Series:   []export.Series{spectrumSeries(spec.Freqs, spec.Amplitudes)},
	}
	return writeCharts("galileo fit "+filepath.Base(path), timeChart, freqChart)
}

// swing is one recording after trimming, fitted and transformed.
type swing struct {
	times, angles []float64
	fit           *analysis.FitResult
	fitted        []float64
	periodFFT     float64
	spectrum      analysis.Spectrum
}

func analyzeSwing(model analysis.Model, times, angles []float64, guess analysis.Guess, pad int, trim bool) (*swing, error) {
	if trim {
		var err error
		times, angles, err = analysis.TrimToZeroCrossing(times, angles)
		if err != nil {
			return nil, err
		}
	}

	res, err := analysis.Fit(model, times, angles, guess)
	if err != nil {
		return nil, err
	}
	period, spec, err := analysis.PeriodFFT(times, angles, pad)
	if err != nil {
		return nil, err
	}
	return &swing{
		times:     times,
		angles:    angles,
		fit:       res,
		fitted:    analysis.Curve(model, times, res.Params),
		periodFFT: period,
		spectrum:  spec,
	}, nil
}
