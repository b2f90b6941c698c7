package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/galileo/internal/acquire"
	"github.com/san-kum/galileo/internal/config"
	"github.com/san-kum/galileo/internal/dynamo"
	"github.com/san-kum/galileo/internal/models"
	"github.com/san-kum/galileo/internal/monitoring"
	"github.com/san-kum/galileo/internal/sim"
	"github.com/san-kum/galileo/internal/storage"
	"github.com/san-kum/galileo/internal/viz"
)

// simulatedPort is the port name of the simulated board in the picker.
const simulatedPort = "sim"

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// CLI flags override config
	if cmd.Flags().Changed("port") {
		cfg.Serial.Port = port
	}
	if cmd.Flags().Changed("baud") {
		cfg.Serial.BaudRate = baudRate
	}
	if cmd.Flags().Changed("refresh") {
		cfg.Live.RefreshIntervalMs = refreshMs
	}
	if cmd.Flags().Changed("y-range") {
		cfg.Live.YRange = yRange
	}
	if cmd.Flags().Changed("raw") {
		cfg.Live.RawEcho = rawEcho
	}
	if cmd.Flags().Changed("no-mat") {
		cfg.Storage.WriteMAT = !noMAT
	}
	if cmd.Flags().Changed("height") {
		cfg.Live.PlotHeight = plotHeight
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	portOpts, err := cfg.Serial.Normalize()
	if err != nil {
		return err
	}

	store := storage.New(cfg.Storage.DataDir)
	if err := store.Init(); err != nil {
		return err
	}

	opts := viz.Options{
		Open:        acquire.Open,
		PortOptions: portOpts,
		ListPorts:   acquire.ListPorts,
		Store:       store,
		WriteMAT:    cfg.Storage.WriteMAT,
		Port:        cfg.Serial.Port,
		Refresh:     time.Duration(cfg.Live.RefreshIntervalMs) * time.Millisecond,
		YRange:      cfg.Live.YRange,
		RawEcho:     cfg.Live.RawEcho,
		PlotHeight:  cfg.Live.PlotHeight,
	}
	if simulate {
		opts.Open = withSimulatedBoard(cfg.Rig, time.Duration(simPeriod)*time.Millisecond)
		opts.ListPorts = withSimulatedPort(acquire.ListPorts)
		if opts.Port == "" {
			opts.Port = simulatedPort
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	buf, err := viz.Run(ctx, opts, cfg.LogPath())
	if err != nil {
		return err
	}
	fmt.Printf("session ended with %d samples\n", buf.Len())
	return nil
}

// withSimulatedBoard opens a simulated rig for the simulated port and the
// real serial port for everything else.
func withSimulatedBoard(rig config.RigConfig, interval time.Duration) acquire.Opener {
	return func(path string, opts acquire.PortOptions) (acquire.Porter, error) {
		if path != simulatedPort {
			return acquire.Open(path, opts)
		}
		p := pendulumFor(rig)
		x0 := dynamo.State{rig.Theta0 * math.Pi / 180, rig.Omega0}
		return sim.NewDevice(p, x0, interval, opts.ReadTimeout, time.Now().UnixMilli()%1_000_000), nil
	}
}

func withSimulatedPort(list func() ([]acquire.PortInfo, error)) func() ([]acquire.PortInfo, error) {
	return func() ([]acquire.PortInfo, error) {
		ports, err := list()
		if err != nil {
			monitoring.Logf("listing serial ports: %v", err)
			ports = nil
		}
		return append([]acquire.PortInfo{{Name: simulatedPort, Description: "simulated rig"}}, ports...), nil
	}
}

func pendulumFor(rig config.RigConfig) *models.PhysicalPendulum {
	return &models.PhysicalPendulum{
		Mass:    rig.Mass,
		Length:  rig.Length,
		Damping: rig.Damping,
		Gravity: rig.Gravity,
	}
}
