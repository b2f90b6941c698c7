package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/galileo/internal/export"
)

func plotDataset(cmd *cobra.Command, args []string) error {
	path := args[0]
	times, angles, err := loadDataset(path)
	if err != nil {
		return err
	}

	fmt.Println(terminalPlot(fmt.Sprintf("%s: Angle (°) over %.1fs", filepath.Base(path), times[len(times)-1]), angles))
	fmt.Printf("\n%d samples\n", len(times))

	return writeCharts("galileo "+filepath.Base(path), export.Chart{
		Title:    "Time vs Angle",
		Subtitle: path,
		XLabel:   "Time (s)",
		YLabel:   "Angle (°)",
		Series:   []export.Series{measurementSeries(times, angles)},
	})
}
