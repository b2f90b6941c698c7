package analysis

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

// PhasePortraitASCII draws the trajectory (xs[i], ys[i]) on a width×height
// character grid with 10% margins, plus the axes where they are in view.
func PhasePortraitASCII(xs, ys []float64, width, height int) string {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n == 0 || width < 2 || height < 2 {
		return ""
	}
	xs, ys = xs[:n], ys[:n]

	minX, maxX := padRange(floats.Min(xs), floats.Max(xs))
	minY, maxY := padRange(floats.Min(ys), floats.Max(ys))
	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i := range xs {
		r, c := row(ys[i]), col(xs[i])
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range canvas {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range canvas[r] {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func padRange(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - 0.1*span, hi + 0.1*span
}
