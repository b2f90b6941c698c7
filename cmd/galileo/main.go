package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/galileo/internal/acquire"
	"github.com/san-kum/galileo/internal/config"
	"github.com/san-kum/galileo/internal/sim"
	"github.com/san-kum/galileo/internal/sweep"
)

const defaultConfigFile = "galileo.yaml"

var (
	configFile string
	dataDir    string

	// live
	port       string
	baudRate   int
	refreshMs  int
	yRange     float64
	rawEcho    bool
	noMAT      bool
	simulate   bool
	simPeriod  int
	plotHeight int

	// offline
	htmlOut    string
	imageOut   string
	modelName  string
	fftPadding int
	guesses    []string
	noTrim     bool

	// simulate
	preset     string
	theta0     float64
	omega0     float64
	spanEnd    float64
	points     int
	integrator string
	noTruncate bool
	showPhase  bool
	jsonOut    string

	// sweep
	sweepParam   string
	sweepFrom    float64
	sweepTo      float64
	sweepSteps   int
	sweepWorkers int
)

// main registers the galileo commands. With no subcommand it opens the live
// acquisition view. It exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "galileo",
		Short:        "pendulum acquisition and analysis",
		SilenceUsage: true,
		RunE:         runLive,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml, default ./galileo.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "acquire and plot samples from the pendulum board",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "list serial ports",
		Args:  cobra.NoArgs,
		RunE:  listPorts,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [dataset]",
		Short: "plot a recorded dataset (.csv or .mat)",
		Args:  cobra.ExactArgs(1),
		RunE:  plotDataset,
	}
	addChartFlags(plotCmd)

	fitCmd := &cobra.Command{
		Use:   "fit [dataset]",
		Short: "fit a decaying sinusoid and estimate the period by FFT",
		Args:  cobra.ExactArgs(1),
		RunE:  fitDataset,
	}
	fitCmd.Flags().StringVar(&modelName, "model", config.DefaultModel, "model: single or double")
	fitCmd.Flags().IntVar(&fftPadding, "fft-padding", config.DefaultFFTPadding, "zero padding factor")
	fitCmd.Flags().StringSliceVar(&guesses, "guess", nil, "initial value override, e.g. omega=4.6 (repeatable)")
	fitCmd.Flags().BoolVar(&noTrim, "no-trim", false, "do not start at the first rising zero crossing")
	addChartFlags(fitCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate [dataset]",
		Short: "integrate the physical pendulum and compare with a measurement",
		Args:  cobra.MaximumNArgs(1),
		RunE:  simulateRig,
	}
	simulateCmd.Flags().StringVar(&preset, "preset", "", "rig preset")
	simulateCmd.Flags().Float64Var(&theta0, "theta0", -68.6, "initial angle (deg)")
	simulateCmd.Flags().Float64Var(&omega0, "omega0", 0.5, "initial angular velocity (rad/s)")
	simulateCmd.Flags().Float64Var(&spanEnd, "time", config.DefaultSpan, "simulated span (s)")
	simulateCmd.Flags().IntVar(&points, "points", config.DefaultPoints, "evaluation points")
	simulateCmd.Flags().StringVar(&integrator, "integrator", "rk45", "integrator: "+strings.Join(sim.Integrators(), ", "))
	simulateCmd.Flags().BoolVar(&noTruncate, "no-truncate", false, "keep measurement samples outside the simulated span")
	simulateCmd.Flags().BoolVar(&showPhase, "phase", false, "print the phase portrait")
	simulateCmd.Flags().StringVar(&jsonOut, "json", "", "write the trajectory as JSON (- for stdout)")
	addChartFlags(simulateCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "simulate the rig across a range of one parameter",
		Args:  cobra.NoArgs,
		RunE:  sweepRig,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "rig preset")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "theta0", "parameter to vary: "+strings.Join(sweep.Params(), ", "))
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 5, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 150, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 15, "number of values")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "concurrent runs (0: one per CPU)")
	sweepCmd.Flags().Float64Var(&spanEnd, "time", 20, "simulated span (s)")
	addChartFlags(sweepCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list rig presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMASS\tLENGTH\tDAMPING\tTHETA0\tOMEGA0\tSPAN\tINTEG")
			for _, name := range config.ListPresets() {
				r := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%gkg\t%gm\t%g\t%g°\t%grad/s\t%g-%gs\t%s\n",
					name, r.Mass, r.Length, r.Damping, r.Theta0, r.Omega0, r.T0, r.T1, r.Integrator)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(liveCmd, portsCmd, plotCmd, fitCmd, simulateCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&port, "port", "", "serial port to preselect")
	cmd.Flags().IntVar(&baudRate, "baud", 115200, "baud rate")
	cmd.Flags().IntVar(&refreshMs, "refresh", config.DefaultRefreshMs, "redraw interval (ms)")
	cmd.Flags().Float64Var(&yRange, "y-range", config.DefaultYRange, "fixed angle range when auto-scale is off (deg)")
	cmd.Flags().BoolVar(&rawEcho, "raw", false, "log every parsed sample")
	cmd.Flags().BoolVar(&noMAT, "no-mat", false, "save CSV only")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "offer a simulated board driven by the rig config")
	cmd.Flags().IntVar(&simPeriod, "sim-interval", 20, "simulated board sample interval (ms)")
	cmd.Flags().IntVar(&plotHeight, "height", 15, "plot height (rows)")
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&htmlOut, "html", "", "write an interactive chart to this .html file")
	cmd.Flags().StringVar(&imageOut, "image", "", "write a chart image (.png, .svg or .pdf)")
}

// loadConfig reads the config file, or ./galileo.yaml when present, and
// applies the persistent flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	path := configFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("data") || path == "" {
		cfg.Storage.DataDir = dataDir
	}
	return cfg, nil
}

func listPorts(cmd *cobra.Command, args []string) error {
	ports, err := acquire.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		return errors.New("no serial ports found")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PORT\tDESCRIPTION")
	for _, p := range ports {
		fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Description)
	}
	return w.Flush()
}
