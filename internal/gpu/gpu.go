// Package gpu describes the accelerators visible to the daemon. The base
// inventory comes from PCI enumeration; CUDA compute capability is only
// known when the nvml build tag is on or when devices are declared in the
// daemon config.
package gpu

import "fmt"

// Device is one visible accelerator.
type Device struct {
	ID   int
	Name string
	// ComputeCapability is the CUDA capability as major.minor collapsed to
	// a single number (7.5 for sm_75). Zero means unknown.
	ComputeCapability float64
}

func (d Device) String() string {
	if d.ComputeCapability > 0 {
		return fmt.Sprintf("gpu%d (%s, cc %.1f)", d.ID, d.Name, d.ComputeCapability)
	}
	return fmt.Sprintf("gpu%d (%s)", d.ID, d.Name)
}

// Lookup finds a device by id in an inventory.
func Lookup(devs []Device, id int) (Device, bool) {
	for _, d := range devs {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// IDs returns the device ids of an inventory in order.
func IDs(devs []Device) []int {
	out := make([]int, len(devs))
	for i, d := range devs {
		out[i] = d.ID
	}
	return out
}
