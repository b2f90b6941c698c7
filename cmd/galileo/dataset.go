package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/galileo/internal/export"
	"github.com/san-kum/galileo/internal/storage"
)

// spectrumMaxHz bounds the frequency axis of spectrum charts.
const spectrumMaxHz = 2.5

func loadDataset(path string) (times, angles []float64, err error) {
	samples, err := storage.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("%s: dataset is empty", path)
	}
	times, angles = storage.Columns(samples)
	return times, angles, nil
}

// writeCharts saves the charts to the --html and --image outputs, if given.
// The image holds only the first chart.
func writeCharts(title string, charts ...export.Chart) error {
	if htmlOut != "" {
		if err := export.SaveHTML(htmlOut, title, charts...); err != nil {
			return err
		}
		fmt.Printf("chart written to %s\n", htmlOut)
	}
	if imageOut != "" && len(charts) > 0 {
		if err := export.SaveImage(charts[0], imageOut); err != nil {
			return err
		}
		fmt.Printf("image written to %s\n", imageOut)
	}
	return nil
}

func terminalPlot(caption string, series ...[]float64) string {
	opts := []asciigraph.Option{
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	}
	if len(series) > 1 {
		opts = append(opts, asciigraph.SeriesColors(asciigraph.Default, asciigraph.Green))
	}
	return asciigraph.PlotMany(series, opts...)
}

func parseGuesses(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("guess %q must look like name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("guess %q: %w", pair, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func measurementSeries(times, angles []float64) export.Series {
	return export.Series{Name: "Measurement", X: times, Y: angles, Markers: true}
}

func spectrumSeries(freqs, amps []float64) export.Series {
	n := len(freqs)
	for i, f := range freqs {
		if f > spectrumMaxHz {
			n = i
			break
		}
	}
	return export.Series{Name: "FFT", X: freqs[:n], Y: amps[:n]}
}
