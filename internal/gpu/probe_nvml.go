//go:build nvml

package gpu

import (
	"fmt"
	"sync"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

var (
	probeCache []Device
	probeOnce  sync.Once
	probeErr   error
)

// Probe enumerates CUDA devices through the NVIDIA management library,
// including their compute capability. The result is cached for the process
// lifetime.
func Probe() ([]Device, error) {
	probeOnce.Do(func() {
		if ret := nvml.Init(); ret != nvml.SUCCESS {
			probeErr = fmt.Errorf("nvml init: %s", nvml.ErrorString(ret))
			return
		}
		defer func() { _ = nvml.Shutdown() }()

		count, ret := nvml.DeviceGetCount()
		if ret != nvml.SUCCESS {
			probeErr = fmt.Errorf("nvml device count: %s", nvml.ErrorString(ret))
			return
		}
		devices := make([]Device, 0, count)
		for i := 0; i < count; i++ {
			dev, ret := nvml.DeviceGetHandleByIndex(i)
			if ret != nvml.SUCCESS {
				probeErr = fmt.Errorf("nvml device %d: %s", i, nvml.ErrorString(ret))
				return
			}
			name, ret := dev.GetName()
			if ret != nvml.SUCCESS {
				name = ""
			}
			major, minor, ret := dev.GetCudaComputeCapability()
			if ret != nvml.SUCCESS {
				probeErr = fmt.Errorf("nvml capability of device %d: %s", i, nvml.ErrorString(ret))
				return
			}
			devices = append(devices, Device{
				ID:                i,
				Name:              name,
				ComputeCapability: float64(major) + float64(minor)/10,
			})
		}
		probeCache = devices
	})
	return probeCache, probeErr
}
