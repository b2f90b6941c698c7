package acquire

import (
	"fmt"
	"sort"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const maxDescription = 15

// PortInfo is one entry of the port picker.
type PortInfo struct {
	Name        string
	Description string
}

// Label renders the entry the way the picker shows it, with long
// descriptions shortened.
func (p PortInfo) Label() string {
	if p.Description == "" {
		return p.Name
	}
	if r := []rune(p.Description); len(r) > maxDescription {
		return fmt.Sprintf("%s (%s...)", p.Name, string(r[:maxDescription]))
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Description)
}

// ListPorts returns the serial ports present on the system, sorted by name.
// USB details are used when the platform can provide them.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		names, err := serial.GetPortsList()
		if err != nil {
			return nil, err
		}
		ports := make([]PortInfo, 0, len(names))
		for _, n := range names {
			ports = append(ports, PortInfo{Name: n})
		}
		sortPorts(ports)
		return ports, nil
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		info := PortInfo{Name: d.Name, Description: d.Product}
		if info.Description == "" && d.IsUSB {
			info.Description = fmt.Sprintf("USB %s:%s", d.VID, d.PID)
		}
		ports = append(ports, info)
	}
	sortPorts(ports)
	return ports, nil
}

func sortPorts(ports []PortInfo) {
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
}
