package export

import (
	"encoding/json"
	"io"
	"os"
)

// Trajectory is the JSON form of one simulation run. Angles are in degrees,
// angular velocities in rad/s.
type Trajectory struct {
	Rig        map[string]float64 `json:"rig"`
	Integrator string             `json:"integrator"`
	Tolerance  float64            `json:"tolerance,omitempty"`
	Steps      int                `json:"steps"`
	Rejected   int                `json:"rejected,omitempty"`
	Times      []float64          `json:"times"`
	Angles     []float64          `json:"angles"`
	Omegas     []float64          `json:"omegas"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

func WriteJSON(w io.Writer, tr Trajectory) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tr)
}

// SaveJSON writes the trajectory to path, or to stdout when path is "-".
func SaveJSON(path string, tr Trajectory) error {
	if path == "-" {
		return WriteJSON(os.Stdout, tr)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, tr); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
