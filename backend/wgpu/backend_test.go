package wgpu_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/nexusgfx/rhi"
	"github.com/nexusgfx/rhi/backend/wgpu"
)

const shaderSource = `
@vertex fn vs_main(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return vec4<f32>(p, 1.0); }
@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
`

// host shares a noop device the way a windowing host would.
type host struct {
	device hal.Device
	queue  hal.Queue
}

func (h *host) HalDevice() any { return h.device }
func (h *host) HalQueue() any  { return h.queue }

func newHost(t *testing.T) *host {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop instance has no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return &host{device: openDev.Device, queue: openDev.Queue}
}

func newDevice(t *testing.T) *rhi.GraphicsDevice {
	t.Helper()
	d, err := rhi.NewGraphicsDevice(rhi.DeviceSpecification{API: rhi.GraphicsAPIWGPU, Context: newHost(t)})
	if err != nil {
		t.Fatalf("NewGraphicsDevice() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newShader(t *testing.T, d *rhi.GraphicsDevice, stage rhi.ShaderStage, entry string, resources rhi.ResourceSetSpecification) *rhi.ShaderModule {
	t.Helper()
	m, err := d.CreateShaderModule(rhi.ShaderModuleSpecification{
		Name:       "quad." + entry,
		Stage:      stage,
		Language:   rhi.ShaderLanguageWGSL,
		Source:     shaderSource,
		EntryPoint: entry,
	}, resources)
	if err != nil {
		t.Fatalf("CreateShaderModule(%s) error = %v", entry, err)
	}
	return m
}

func newPipeline(t *testing.T, d *rhi.GraphicsDevice, samples rhi.SampleCount, resources rhi.ResourceSetSpecification) *rhi.Pipeline {
	t.Helper()
	p, err := d.CreatePipeline(rhi.PipelineDescription{
		Name:            "quad",
		VertexModule:    newShader(t, d, rhi.ShaderStageVertex, "vs_main", resources),
		FragmentModule:  newShader(t, d, rhi.ShaderStageFragment, "fs_main", resources),
		Layouts:         []rhi.VertexBufferLayout{rhi.LayoutPosition},
		ColorFormats:    []rhi.PixelFormat{rhi.PixelFormatRGBA8Unorm},
		DepthFormat:     rhi.PixelFormatDepth24PlusStencil8,
		Samples:         samples,
		ResourceSetSpec: resources,
	})
	if err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	return p
}

func newFramebuffer(t *testing.T, d *rhi.GraphicsDevice, w, h uint32, samples rhi.SampleCount) *rhi.Framebuffer {
	t.Helper()
	fb, err := d.CreateFramebuffer(rhi.FramebufferSpecification{
		Name:             "offscreen",
		Width:            w,
		Height:           h,
		ColorAttachments: []rhi.PixelFormat{rhi.PixelFormatRGBA8Unorm},
		DepthAttachment:  rhi.PixelFormatDepth24PlusStencil8,
		Samples:          samples,
	})
	if err != nil {
		t.Fatalf("CreateFramebuffer() error = %v", err)
	}
	return fb
}

func stats(t *testing.T, d *rhi.GraphicsDevice) wgpu.Stats {
	t.Helper()
	s, ok := wgpu.StatsOf(d)
	if !ok {
		t.Fatal("device is not backed by wgpu")
	}
	return s
}

func TestDeviceQueries(t *testing.T) {
	d := newDevice(t)

	if got := d.GetGraphicsAPI(); got != rhi.GraphicsAPIWGPU {
		t.Errorf("GetGraphicsAPI() = %v", got)
	}
	if got := d.GetDeviceName(); got != "host device" {
		t.Errorf("GetDeviceName() = %q, want %q", got, "host device")
	}
	if got := d.GetUVCorrection(); got != 1 {
		t.Errorf("GetUVCorrection() = %v, want 1", got)
	}
	if !d.IsUVOriginTopLeft() {
		t.Error("IsUVOriginTopLeft() = false")
	}
	if got := d.GetSupportedShaderFormat(); got != rhi.ShaderLanguageWGSL {
		t.Errorf("GetSupportedShaderFormat() = %v, want WGSL", got)
	}
	caps := d.GetGraphicsCapabilities()
	if caps.MaxSamples != rhi.SampleCount4 {
		t.Errorf("MaxSamples = %v, want %v", caps.MaxSamples, rhi.SampleCount4)
	}
	if caps.SupportsLODBias {
		t.Error("SupportsLODBias = true")
	}
}

func TestNewWithDevice(t *testing.T) {
	h := newHost(t)
	b := wgpu.NewWithDevice(rhi.GraphicsAPIVulkan, h.device, h.queue)
	if b.SupportedShaderLanguage() != rhi.ShaderLanguageSPIRV {
		t.Errorf("SupportedShaderLanguage() = %v, want SPIR-V", b.SupportedShaderLanguage())
	}
	if b.Device() != h.device || b.Queue() != h.queue {
		t.Error("backend does not expose the wrapped device")
	}
	if err := b.WaitForIdle(); err != nil {
		t.Errorf("WaitForIdle() error = %v", err)
	}
	// The host keeps ownership, so Destroy must leave the device usable.
	b.Destroy()
	if _, err := h.device.CreateFence(); err != nil {
		t.Errorf("device unusable after Destroy: %v", err)
	}
}

func TestAdoptRejectsForeignContext(t *testing.T) {
	_, err := rhi.NewGraphicsDevice(rhi.DeviceSpecification{API: rhi.GraphicsAPIWGPU, Context: struct{}{}})
	if !errors.Is(err, rhi.ErrBackendUnavailable) {
		t.Fatalf("NewGraphicsDevice() error = %v, want ErrBackendUnavailable", err)
	}
}

func TestSupportsFormat(t *testing.T) {
	h := newHost(t)
	b := wgpu.NewWithDevice(rhi.GraphicsAPIWGPU, h.device, h.queue)
	tests := []struct {
		format rhi.PixelFormat
		usage  rhi.TextureUsage
		want   bool
	}{
		{rhi.PixelFormatRGBA8Unorm, rhi.TextureUsageSampled, true},
		{rhi.PixelFormatRGBA8Unorm, rhi.TextureUsageStorage, true},
		{rhi.PixelFormatBGRA8Unorm, rhi.TextureUsageStorage, false},
		{rhi.PixelFormatDepth24PlusStencil8, rhi.TextureUsageDepthStencil, true},
	}
	for _, tt := range tests {
		if got := b.SupportsFormat(tt.format, tt.usage); got != tt.want {
			t.Errorf("SupportsFormat(%v, %v) = %v, want %v", tt.format, tt.usage, got, tt.want)
		}
	}
}

func TestPixelFormatOf(t *testing.T) {
	f, ok := wgpu.PixelFormatOf(gputypes.TextureFormatBGRA8Unorm)
	if !ok || f != rhi.PixelFormatBGRA8Unorm {
		t.Errorf("PixelFormatOf(BGRA8Unorm) = %v, %v", f, ok)
	}
}

func TestShaderLanguageRejected(t *testing.T) {
	d := newDevice(t)
	_, err := d.CreateShaderModule(rhi.ShaderModuleSpecification{
		Name:     "legacy.vert",
		Stage:    rhi.ShaderStageVertex,
		Language: rhi.ShaderLanguageGLSL,
		Source:   "void main() {}",
	}, rhi.ResourceSetSpecification{})
	if !errors.Is(err, rhi.ErrResourceCreation) {
		t.Fatalf("CreateShaderModule(GLSL) error = %v, want ErrResourceCreation", err)
	}
}

func TestPipelineRejectsHighSet(t *testing.T) {
	d := newDevice(t)
	resources := rhi.ResourceSetSpecification{
		UniformBuffers: []rhi.ResourceBinding{{Name: "Far", Set: 5, Binding: 0}},
	}
	_, err := d.CreatePipeline(rhi.PipelineDescription{
		Name:            "far",
		VertexModule:    newShader(t, d, rhi.ShaderStageVertex, "vs_main", resources),
		FragmentModule:  newShader(t, d, rhi.ShaderStageFragment, "fs_main", resources),
		Layouts:         []rhi.VertexBufferLayout{rhi.LayoutPosition},
		ColorFormats:    []rhi.PixelFormat{rhi.PixelFormatRGBA8Unorm},
		Samples:         rhi.SampleCount1,
		ResourceSetSpec: resources,
	})
	var compileErr *rhi.PipelineCompilationError
	if !errors.As(err, &compileErr) {
		t.Fatalf("CreatePipeline() error = %v, want PipelineCompilationError", err)
	}
}

func TestGPUInfo(t *testing.T) {
	d := newDevice(t)
	b := d.Backend().(*wgpu.Backend)
	if got := b.GPU().String(); got == "" {
		t.Error("GPU().String() is empty")
	}
}

func TestOffscreenSwapchain(t *testing.T) {
	h := newHost(t)
	b := wgpu.NewWithDevice(rhi.GraphicsAPIWGPU, h.device, h.queue)
	sc, err := wgpu.NewOffscreenSwapchain(b, 32, 16, rhi.PixelFormatRGBA8Unorm, rhi.PixelFormatNone)
	if err != nil {
		t.Fatalf("NewOffscreenSwapchain() error = %v", err)
	}
	defer sc.Destroy()

	if w, hgt := sc.Size(); w != 32 || hgt != 16 {
		t.Errorf("Size() = %d x %d", w, hgt)
	}
	if sc.DepthFormat() != rhi.PixelFormatNone || sc.DepthView() != nil {
		t.Error("depthless swapchain reports a depth attachment")
	}
	if sc.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v", sc.Format())
	}
	_ = sc.Present()
	_ = sc.Present()
	if sc.Presented() != 2 {
		t.Errorf("Presented() = %d, want 2", sc.Presented())
	}
}
