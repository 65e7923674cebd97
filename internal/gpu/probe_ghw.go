//go:build !nvml

package gpu

import (
	"fmt"
	"sync"

	"github.com/jaypipes/ghw"
)

var (
	probeCache []Device
	probeOnce  sync.Once
	probeErr   error
)

// Probe enumerates graphics cards from PCI data. Hardware does not change
// under a running daemon, so the result is cached. Compute capability is not
// discoverable this way and stays zero; declare devices in the daemon config
// or build with the nvml tag to get real capabilities.
func Probe() ([]Device, error) {
	probeOnce.Do(func() {
		info, err := ghw.GPU(ghw.WithDisableWarnings())
		if err != nil {
			probeErr = fmt.Errorf("gpu inventory: %w", err)
			return
		}
		devices := make([]Device, 0, len(info.GraphicsCards))
		for i, card := range info.GraphicsCards {
			name := ""
			if card.DeviceInfo != nil && card.DeviceInfo.Product != nil {
				name = card.DeviceInfo.Product.Name
			}
			devices = append(devices, Device{ID: i, Name: name})
		}
		probeCache = devices
	})
	return probeCache, probeErr
}
