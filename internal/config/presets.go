package config

import "sort"

// Presets are named rigs for the simulate command. "lab" is the rod the
// sample recordings were taken with.
var Presets = map[string]RigConfig{
	"lab": {
		Mass: 0.11544, Length: 0.687, Damping: 0.00125, Gravity: 9.81,
		Theta0: -68.6, Omega0: 0.5,
		T0: 0, T1: DefaultSpan, Points: DefaultPoints, Integrator: "rk45", Tolerance: DefaultTolerance,
	},
	"small": {
		Mass: 0.11544, Length: 0.687, Damping: 0.00125, Gravity: 9.81,
		Theta0: 10, Omega0: 0,
		T0: 0, T1: DefaultSpan, Points: DefaultPoints, Integrator: "rk45", Tolerance: DefaultTolerance,
	},
	"large": {
		Mass: 0.11544, Length: 0.687, Damping: 0.00125, Gravity: 9.81,
		Theta0: 150, Omega0: 0,
		T0: 0, T1: DefaultSpan, Points: DefaultPoints, Integrator: "rk45", Tolerance: DefaultTolerance,
	},
	"undamped": {
		Mass: 0.11544, Length: 0.687, Damping: 0, Gravity: 9.81,
		Theta0: -68.6, Omega0: 0.5,
		T0: 0, T1: 20, Points: 1000, Integrator: "rk4", Tolerance: DefaultTolerance,
	},
}

// GetPreset returns a copy of the named rig, or nil.
func GetPreset(name string) *RigConfig {
	rig, ok := Presets[name]
	if !ok {
		return nil
	}
	return &rig
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
