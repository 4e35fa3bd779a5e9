package wgpu

import (
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // registers the Vulkan HAL backend

	"github.com/nexusgfx/rhi"
)

func init() {
	rhi.Register(rhi.GraphicsAPIWGPU, New)
	rhi.Register(rhi.GraphicsAPIVulkan, New)
}

// fenceTimeout bounds every wait on submitted work.
const fenceTimeout = 5 * time.Second

// maxBindGroups is the WebGPU limit on bind groups per pipeline.
const maxBindGroups = 4

// SamplerBindingOffset is added to the binding of a combined image sampler
// to get the binding of its sampler. The texture keeps the declared binding.
const SamplerBindingOffset = rhi.DescriptorSetCount

// Backend is the WebGPU HAL implementation of rhi.Backend.
type Backend struct {
	api    rhi.GraphicsAPI
	dev    *openedDevice
	device hal.Device
	queue  hal.Queue

	surfaceFormat rhi.PixelFormat

	mu    sync.Mutex
	stats Stats
}

// New opens a backend for spec.API, adopting spec.Context when it carries
// a host device.
func New(spec rhi.DeviceSpecification) (rhi.Backend, error) {
	var (
		dev *openedDevice
		err error
	)
	if spec.Context != nil {
		dev, err = adoptDevice(spec.API, spec.Context)
	} else {
		dev, err = openDevice(spec.API, spec.PreferredAdapter)
	}
	if err != nil {
		return nil, err
	}
	b := newBackend(spec.API, dev)
	if dp, ok := spec.Context.(gpucontext.DeviceProvider); ok {
		if f, ok := PixelFormatOf(dp.SurfaceFormat()); ok {
			b.surfaceFormat = f
		}
	}
	rhi.Logger().Info("wgpu: device ready",
		"api", spec.API.String(),
		"gpu", dev.info.String(),
		"external", dev.external)
	return b, nil
}

// NewWithDevice wraps a device and queue the caller keeps ownership of.
func NewWithDevice(api rhi.GraphicsAPI, device hal.Device, queue hal.Queue) *Backend {
	return newBackend(api, &openedDevice{
		device:   device,
		queue:    queue,
		info:     GPUInfo{Name: "host device"},
		external: true,
	})
}

func newBackend(api rhi.GraphicsAPI, dev *openedDevice) *Backend {
	return &Backend{
		api:           api,
		dev:           dev,
		device:        dev.device,
		queue:         dev.queue,
		surfaceFormat: rhi.PixelFormatBGRA8Unorm,
	}
}

// Device returns the HAL device.
func (b *Backend) Device() hal.Device { return b.device }

// Queue returns the HAL queue.
func (b *Backend) Queue() hal.Queue { return b.queue }

// GPU describes the adapter in use.
func (b *Backend) GPU() GPUInfo { return b.dev.info }

// SurfaceFormat is the preferred swapchain color format.
func (b *Backend) SurfaceFormat() rhi.PixelFormat { return b.surfaceFormat }

// Stats returns the counters accumulated over all submissions.
func (b *Backend) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *Backend) addStats(s Stats) {
	b.mu.Lock()
	b.stats.add(s)
	b.mu.Unlock()
}

// StatsOf returns the counters of device's wgpu backend.
func StatsOf(device *rhi.GraphicsDevice) (Stats, bool) {
	b, ok := device.Backend().(*Backend)
	if !ok {
		return Stats{}, false
	}
	return b.Stats(), true
}

// API implements rhi.Backend.
func (b *Backend) API() rhi.GraphicsAPI { return b.api }

// DeviceName implements rhi.Backend.
func (b *Backend) DeviceName() string { return b.dev.info.Name }

// Capabilities implements rhi.Backend. WebGPU guarantees sample counts 1
// and 4 only.
func (b *Backend) Capabilities() rhi.GraphicsCapabilities {
	return rhi.GraphicsCapabilities{
		MaxSamples:                   rhi.SampleCount4,
		SupportsLODBias:              false,
		SupportsMultisampledTextures: true,
		SupportsMultipleSwapchains:   true,
		MaxResourceSlots:             maxBindGroups * rhi.DescriptorSetCount,
		MaxVertexBuffers:             rhi.MaxVertexBufferSlots,
	}
}

// UVCorrection implements rhi.Backend. The HAL presents WebGPU conventions
// on every native API, so no flip is needed.
func (b *Backend) UVCorrection() float32 { return 1 }

// UVOriginTopLeft implements rhi.Backend.
func (b *Backend) UVOriginTopLeft() bool { return true }

// SupportedShaderLanguage implements rhi.Backend.
func (b *Backend) SupportedShaderLanguage() rhi.ShaderLanguage {
	if b.api == rhi.GraphicsAPIVulkan {
		return rhi.ShaderLanguageSPIRV
	}
	return rhi.ShaderLanguageWGSL
}

// SupportsFormat implements rhi.Backend.
func (b *Backend) SupportsFormat(format rhi.PixelFormat, usage rhi.TextureUsage) bool {
	if _, ok := formats[format]; !ok {
		return false
	}
	if usage.Has(rhi.TextureUsageStorage) && !storable[format] {
		return false
	}
	return true
}

// CreateBuffer implements rhi.Backend.
func (b *Backend) CreateBuffer(desc rhi.BufferDescription, data []byte) (rhi.NativeBuffer, error) {
	usage := bufferUsage(desc)
	raw, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Name,
		Size:  align4(desc.SizeInBytes),
		Usage: usage,
	})
	if err != nil {
		return nil, err
	}
	buf := &buffer{b: b, raw: raw, size: desc.SizeInBytes, usage: usage}
	if data != nil {
		if err := buf.Write(0, data); err != nil {
			buf.Destroy()
			return nil, err
		}
	}
	return buf, nil
}

// CreateTexture implements rhi.Backend.
func (b *Backend) CreateTexture(desc rhi.TextureDescription, data []byte) (rhi.NativeTexture, error) {
	samples, _ := desc.Samples.Count()
	layers := max(desc.ArrayLayers, 1)
	raw, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Name,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: layers,
		},
		MipLevelCount: desc.MipLevels,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        formats[desc.Format],
		Usage:         textureUsage(desc.Usage),
	})
	if err != nil {
		return nil, err
	}
	dim := gputypes.TextureViewDimension2D
	if desc.Cube {
		dim = gputypes.TextureViewDimensionCube
	}
	view, err := b.device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:         desc.Name,
		Format:        formats[desc.Format],
		Dimension:     dim,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: desc.MipLevels,
	})
	if err != nil {
		b.device.DestroyTexture(raw)
		return nil, err
	}
	t := &texture{b: b, raw: raw, view: view, desc: desc, samples: samples}
	if data != nil {
		if err := t.Write(rhi.TextureRegion{Width: desc.Width, Height: desc.Height}, data); err != nil {
			t.Destroy()
			return nil, err
		}
	}
	return t, nil
}

// CreateSampler implements rhi.Backend.
func (b *Backend) CreateSampler(spec rhi.SamplerSpecification) (rhi.NativeSampler, error) {
	desc := &hal.SamplerDescriptor{
		Label:        spec.Name,
		AddressModeU: addressMode(spec.AddressModeU),
		AddressModeV: addressMode(spec.AddressModeV),
		AddressModeW: addressMode(spec.AddressModeW),
		MagFilter:    filterMode(spec.MagFilter),
		MinFilter:    filterMode(spec.MinFilter),
		MipmapFilter: filterMode(spec.MipmapFilter),
		LodMinClamp:  spec.MinLOD,
		LodMaxClamp:  spec.MaxLOD,
		Anisotropy:   uint16(max(spec.MaximumAnisotropy, 1)),
	}
	if spec.EnableComparison {
		desc.Compare = compareFunc(spec.Comparison)
	}
	raw, err := b.device.CreateSampler(desc)
	if err != nil {
		return nil, err
	}
	return &sampler{b: b, raw: raw}, nil
}

// CreateShaderModule implements rhi.Backend. Vulkan devices take SPIR-V,
// WebGPU devices take WGSL; both accept SPIR-V through the HAL.
func (b *Backend) CreateShaderModule(spec rhi.ShaderModuleSpecification) (rhi.NativeShaderModule, error) {
	var source hal.ShaderSource
	switch spec.Language {
	case rhi.ShaderLanguageSPIRV:
		source.SPIRV = spec.SPIRV
	case rhi.ShaderLanguageWGSL:
		source.WGSL = spec.Source
	default:
		return nil, &rhi.ResourceCreationError{
			Resource: "shader module",
			Name:     spec.Name,
			Reason:   "WebGPU accepts SPIR-V or WGSL, got " + spec.Language.String(),
		}
	}
	raw, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  spec.Name,
		Source: source,
	})
	if err != nil {
		return nil, err
	}
	entry := spec.EntryPoint
	if entry == "" {
		entry = "main"
	}
	return &shader{b: b, raw: raw, stage: spec.Stage, entry: entry}, nil
}

// CreatePipeline implements rhi.Backend.
func (b *Backend) CreatePipeline(p *rhi.Pipeline) (rhi.NativePipeline, error) {
	return newPipeline(b, p)
}

// CreateFramebuffer implements rhi.Backend. The attachments already own
// their views, so the framebuffer only records them.
func (b *Backend) CreateFramebuffer(att rhi.FramebufferAttachments) (rhi.NativeFramebuffer, error) {
	fb := &framebuffer{}
	for _, t := range att.Colors {
		fb.colors = append(fb.colors, t.Native().(*texture))
	}
	if att.Depth != nil {
		fb.depth = att.Depth.Native().(*texture)
	}
	return fb, nil
}

// NewExecutor implements rhi.Backend.
func (b *Backend) NewExecutor() rhi.CommandExecutor {
	return &Executor{b: b}
}

// WaitForIdle implements rhi.Backend by submitting an empty command
// buffer and waiting on its fence.
func (b *Backend) WaitForIdle() error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "idle"})
	if err != nil {
		return err
	}
	if err := encoder.BeginEncoding("idle"); err != nil {
		return err
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return err
	}
	return b.submit(cmdBuf)
}

// submit sends cmdBuf and blocks until the GPU has finished it.
func (b *Backend) submit(cmdBuf hal.CommandBuffer) error {
	defer b.device.FreeCommandBuffer(cmdBuf)
	fence, err := b.device.CreateFence()
	if err != nil {
		return err
	}
	defer b.device.DestroyFence(fence)
	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return err
	}
	ok, err := b.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFenceTimeout
	}
	return nil
}

// Destroy implements rhi.Backend. Adopted devices are left to their host.
func (b *Backend) Destroy() {
	b.dev.destroy()
}

func align4(n uint64) uint64 { return (n + 3) &^ 3 }
