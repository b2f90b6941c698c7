// Package export renders datasets, fits and simulations as static images
// (gonum/plot) and interactive HTML pages (go-echarts).
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var ErrEmptyChart = errors.New("export: chart has no series")

// Series is one named curve. Markers draws a glyph at every point as well as
// the connecting line.
type Series struct {
	Name    string
	X, Y    []float64
	Markers bool
}

type Chart struct {
	Title    string
	Subtitle string
	XLabel   string
	YLabel   string
	Series   []Series
}

func (c Chart) validate() error {
	if len(c.Series) == 0 {
		return ErrEmptyChart
	}
	for _, s := range c.Series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("export: series %q has %d x values for %d y values", s.Name, len(s.X), len(s.Y))
		}
	}
	return nil
}

// Image sizes used by SaveImage.
const (
	ImageWidth  = 12 * vg.Inch
	ImageHeight = 6 * vg.Inch
)

// SaveImage writes the chart to path. The format follows the extension
// (.png, .svg, .pdf, ...).
func SaveImage(c Chart, path string) error {
	if err := c.validate(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = c.Title
	if c.Subtitle != "" {
		p.Title.Text += "\n" + c.Subtitle
	}
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())

	for i, s := range c.Series {
		pts := make(plotter.XYs, len(s.X))
		for j := range s.X {
			pts[j] = plotter.XY{X: s.X[j], Y: s.Y[j]}
		}

		if s.Markers {
			line, scatter, err := plotter.NewLinePoints(pts)
			if err != nil {
				return fmt.Errorf("export: series %q: %w", s.Name, err)
			}
			line.Color = plotutil.Color(i)
			line.Width = vg.Points(1)
			scatter.GlyphStyle.Color = plotutil.Color(i)
			scatter.GlyphStyle.Radius = vg.Points(1.5)
			p.Add(line, scatter)
			p.Legend.Add(s.Name, line, scatter)
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("export: series %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(ImageWidth, ImageHeight, path)
}

// WriteHTML renders the charts one below the other on a single page.
func WriteHTML(w io.Writer, title string, cs ...Chart) error {
	page := components.NewPage()
	page.SetPageTitle(title)

	for _, c := range cs {
		if err := c.validate(); err != nil {
			return err
		}
		page.AddCharts(lineChart(c))
	}
	return page.Render(w)
}

// SaveHTML is WriteHTML into a file.
func SaveHTML(path, title string, cs ...Chart) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHTML(f, title, cs...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func lineChart(c Chart) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: c.Title, Subtitle: strings.TrimSpace(c.Subtitle)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: c.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: c.YLabel, NameLocation: "middle", NameGap: 40}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)

	for _, s := range c.Series {
		data := make([]opts.LineData, len(s.X))
		for i := range s.X {
			data[i] = opts.LineData{Value: []interface{}{s.X[i], s.Y[i]}}
		}
		width := float32(3)
		if s.Markers {
			width = 1
		}
		line.AddSeries(s.Name, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(s.Markers)}),
			charts.WithLineStyleOpts(opts.LineStyle{Width: width}),
		)
	}
	return line
}
