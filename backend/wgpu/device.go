package wgpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/nexusgfx/rhi"
)

// GPUInfo describes the adapter a backend runs on.
type GPUInfo struct {
	// Name is the adapter name, e.g. "NVIDIA GeForce RTX 3080".
	Name       string
	Vendor     string
	DeviceType gputypes.DeviceType
	// Backend is the native API behind the adapter.
	Backend gputypes.Backend
}

// String returns a human-readable description of the GPU.
func (g GPUInfo) String() string {
	return fmt.Sprintf("%s (%v, %v)", g.Name, g.DeviceType, g.Backend)
}

// halProvider is implemented by hosts that share their device.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// openedDevice is a device together with whatever had to be created to
// obtain it. instance is nil for adopted devices.
type openedDevice struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     GPUInfo
	external bool
}

func (o *openedDevice) destroy() {
	if o.external {
		return
	}
	if o.device != nil {
		o.device.Destroy()
	}
	if o.instance != nil {
		o.instance.Destroy()
	}
}

func unavailable(api rhi.GraphicsAPI, format string, args ...any) error {
	return &rhi.BackendUnavailableError{API: api, Reason: fmt.Sprintf(format, args...)}
}

// adoptDevice takes the device and queue out of a host provider.
func adoptDevice(api rhi.GraphicsAPI, provider any) (*openedDevice, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, unavailable(api, "context %T does not expose HAL types", provider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, unavailable(api, "provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, unavailable(api, "provider HalQueue is not hal.Queue")
	}
	return &openedDevice{
		device:   device,
		queue:    queue,
		info:     GPUInfo{Name: "host device"},
		external: true,
	}, nil
}

// openDevice creates an instance for api and opens an adapter on it.
func openDevice(api rhi.GraphicsAPI, preferred string) (*openedDevice, error) {
	var instance hal.Instance
	if backend, ok := hal.GetBackend(gputypes.BackendVulkan); ok {
		inst, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
		if err == nil {
			instance = inst
		} else if api == rhi.GraphicsAPIVulkan {
			return nil, unavailable(api, "create instance: %v", err)
		} else {
			rhi.Logger().Warn("wgpu: vulkan instance unavailable", "error", err)
		}
	}
	if instance == nil {
		if api == rhi.GraphicsAPIVulkan {
			return nil, unavailable(api, "vulkan backend not available")
		}
		inst, err := noop.API{}.CreateInstance(nil)
		if err != nil {
			return nil, unavailable(api, "create noop instance: %v", err)
		}
		rhi.Logger().Warn("wgpu: falling back to the noop device")
		instance = inst
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, unavailable(api, "no GPU adapters found")
	}
	selected := selectAdapter(adapters, preferred)
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, unavailable(api, "open device: %v", err)
	}
	return &openedDevice{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		info: GPUInfo{
			Name:       selected.Info.Name,
			Vendor:     selected.Info.Vendor,
			DeviceType: selected.Info.DeviceType,
			Backend:    selected.Info.Backend,
		},
	}, nil
}

// selectAdapter prefers a name match, then a discrete or integrated GPU.
func selectAdapter(adapters []hal.ExposedAdapter, preferred string) *hal.ExposedAdapter {
	if preferred != "" {
		want := strings.ToLower(preferred)
		for i := range adapters {
			if strings.Contains(strings.ToLower(adapters[i].Info.Name), want) {
				return &adapters[i]
			}
		}
		rhi.Logger().Warn("wgpu: preferred adapter not found", "preferred", preferred)
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}
