package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/galileo/internal/acquire"
)

const (
	DefaultRefreshMs  = 50
	DefaultYRange     = 90.0
	DefaultDataDir    = "csv_data"
	DefaultFFTPadding = 20
	DefaultModel      = "single"
	DefaultPoints     = 2000
	DefaultSpan       = 60.0
	DefaultTolerance  = 1e-6
)

type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Live    LiveConfig    `yaml:"live"`
	Storage StorageConfig `yaml:"storage"`
	Fit     FitConfig     `yaml:"fit"`
	Rig     RigConfig     `yaml:"rig"`
}

// SerialConfig selects the board and its line settings. An empty Port means
// pick the first port found.
type SerialConfig struct {
	Port                string `yaml:"port"`
	acquire.PortOptions `yaml:",inline"`
}

type LiveConfig struct {
	RefreshIntervalMs int     `yaml:"refresh_interval_ms"`
	YRange            float64 `yaml:"y_range"`
	RawEcho           bool    `yaml:"raw_echo"`
	PlotHeight        int     `yaml:"plot_height"`
}

type StorageConfig struct {
	DataDir  string `yaml:"data_dir"`
	WriteMAT bool   `yaml:"write_mat"`
	LogFile  string `yaml:"log_file"`
}

// FitConfig holds per-model starting values by parameter name, e.g.
// guess: {single: {omega: 4.6}}.
type FitConfig struct {
	Model      string                        `yaml:"model"`
	FFTPadding int                           `yaml:"fft_padding"`
	Guess      map[string]map[string]float64 `yaml:"guess"`
}

// RigConfig describes the physical pendulum and the simulated span.
// Angles are in degrees, everything else in SI units.
type RigConfig struct {
	Mass       float64 `yaml:"mass"`
	Length     float64 `yaml:"length"`
	Damping    float64 `yaml:"damping"`
	Gravity    float64 `yaml:"gravity"`
	Theta0     float64 `yaml:"theta0"`
	Omega0     float64 `yaml:"omega0"`
	T0         float64 `yaml:"t0"`
	T1         float64 `yaml:"t1"`
	Points     int     `yaml:"points"`
	Integrator string  `yaml:"integrator"`
	Tolerance  float64 `yaml:"tolerance"`
}

func DefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{PortOptions: acquire.DefaultPortOptions()},
		Live: LiveConfig{
			RefreshIntervalMs: DefaultRefreshMs,
			YRange:            DefaultYRange,
			PlotHeight:        15,
		},
		Storage: StorageConfig{
			DataDir:  DefaultDataDir,
			WriteMAT: true,
			LogFile:  "galileo.log",
		},
		Fit: FitConfig{
			Model:      DefaultModel,
			FFTPadding: DefaultFFTPadding,
		},
		Rig: *GetPreset("lab"),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no command could run with.
func (c *Config) Validate() error {
	if _, err := c.Serial.Normalize(); err != nil {
		return err
	}
	if c.Live.RefreshIntervalMs <= 0 {
		return fmt.Errorf("live.refresh_interval_ms must be positive, got %d", c.Live.RefreshIntervalMs)
	}
	if c.Live.YRange <= 0 {
		return fmt.Errorf("live.y_range must be positive, got %g", c.Live.YRange)
	}
	if c.Fit.FFTPadding < 1 {
		return fmt.Errorf("fit.fft_padding must be at least 1, got %d", c.Fit.FFTPadding)
	}
	r := c.Rig
	if r.Mass <= 0 || r.Length <= 0 {
		return fmt.Errorf("rig mass and length must be positive")
	}
	if r.T1 <= r.T0 {
		return fmt.Errorf("rig span [%g, %g] is empty", r.T0, r.T1)
	}
	if r.Points < 2 {
		return fmt.Errorf("rig.points must be at least 2, got %d", r.Points)
	}
	return nil
}

// GuessFor returns the configured starting values for model, if any.
func (c *Config) GuessFor(model string) map[string]float64 {
	return c.Fit.Guess[strings.ToLower(model)]
}

// LogPath is where the live view writes its log, under the data directory
// unless LogFile is absolute.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Storage.LogFile) {
		return c.Storage.LogFile
	}
	return filepath.Join(c.Storage.DataDir, c.Storage.LogFile)
}
