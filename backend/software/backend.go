package software

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/nexusgfx/rhi"
	"github.com/nexusgfx/rhi/internal/parallel"
)

// DeviceName is the adapter name reported by the software backend.
const DeviceName = "software rasterizer"

// bandRows is the smallest number of image rows handed to one worker.
const bandRows = 64

// maxResourceSlots bounds the linear slot space to four descriptor sets.
const maxResourceSlots = 4 * rhi.DescriptorSetCount

// init registers the software backend on package import.
func init() {
	rhi.Register(rhi.GraphicsAPISoftware, New)
}

// Backend is the software implementation of rhi.Backend.
type Backend struct {
	trace bool
	// pool splits clears and resolves of large images into row bands.
	pool *parallel.WorkerPool

	mu       sync.Mutex
	stats    Stats
	lines    []string
	executor *Executor
}

// New creates a software backend. It never fails.
func New(spec rhi.DeviceSpecification) (rhi.Backend, error) {
	return &Backend{trace: spec.DebugLayer, pool: parallel.NewWorkerPool(0)}, nil
}

// StatsOf returns the counters of device's software backend. It reports
// false when device uses another backend.
func StatsOf(device *rhi.GraphicsDevice) (Stats, bool) {
	b, ok := device.Backend().(*Backend)
	if !ok {
		return Stats{}, false
	}
	return b.Stats(), true
}

// TraceOf returns the call trace of device's software backend.
func TraceOf(device *rhi.GraphicsDevice) []string {
	b, ok := device.Backend().(*Backend)
	if !ok {
		return nil
	}
	return b.Trace()
}

// API implements rhi.Backend.
func (b *Backend) API() rhi.GraphicsAPI { return rhi.GraphicsAPISoftware }

// DeviceName implements rhi.Backend.
func (b *Backend) DeviceName() string { return DeviceName }

// Capabilities implements rhi.Backend.
func (b *Backend) Capabilities() rhi.GraphicsCapabilities {
	return rhi.GraphicsCapabilities{
		MaxSamples:                   rhi.SampleCount8,
		SupportsLODBias:              true,
		SupportsMultisampledTextures: true,
		SupportsMultipleSwapchains:   true,
		MaxResourceSlots:             maxResourceSlots,
		MaxVertexBuffers:             rhi.MaxVertexBufferSlots,
	}
}

// UVCorrection implements rhi.Backend. Software images are addressed
// bottom-up, like OpenGL.
func (b *Backend) UVCorrection() float32 { return 1 }

// UVOriginTopLeft implements rhi.Backend.
func (b *Backend) UVOriginTopLeft() bool { return false }

// SupportedShaderLanguage implements rhi.Backend. Shaders are stored but
// never run, so any language is accepted.
func (b *Backend) SupportedShaderLanguage() rhi.ShaderLanguage { return rhi.ShaderLanguageSPIRV }

// SupportsFormat implements rhi.Backend.
func (b *Backend) SupportsFormat(format rhi.PixelFormat, usage rhi.TextureUsage) bool {
	if format.IsDepth() {
		return !usage.Has(rhi.TextureUsageStorage)
	}
	_, ok := encoders[format]
	return ok
}

// CreateBuffer implements rhi.Backend.
func (b *Backend) CreateBuffer(desc rhi.BufferDescription, data []byte) (rhi.NativeBuffer, error) {
	buf := &buffer{data: make([]byte, desc.SizeInBytes)}
	copy(buf.data, data)
	return buf, nil
}

// CreateTexture implements rhi.Backend.
func (b *Backend) CreateTexture(desc rhi.TextureDescription, data []byte) (rhi.NativeTexture, error) {
	t := newTexture(desc)
	if data != nil {
		if err := t.Write(rhi.TextureRegion{Width: desc.Width, Height: desc.Height}, data); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// CreateSampler implements rhi.Backend.
func (b *Backend) CreateSampler(spec rhi.SamplerSpecification) (rhi.NativeSampler, error) {
	return &sampler{spec: spec}, nil
}

// CreateShaderModule implements rhi.Backend.
func (b *Backend) CreateShaderModule(spec rhi.ShaderModuleSpecification) (rhi.NativeShaderModule, error) {
	return &shaderModule{spec: spec}, nil
}

// CreatePipeline implements rhi.Backend.
func (b *Backend) CreatePipeline(p *rhi.Pipeline) (rhi.NativePipeline, error) {
	return &pipeline{name: p.Name(), slots: len(p.Slots())}, nil
}

// CreateFramebuffer implements rhi.Backend.
func (b *Backend) CreateFramebuffer(att rhi.FramebufferAttachments) (rhi.NativeFramebuffer, error) {
	fb := &framebuffer{}
	for i, t := range att.Colors {
		tex, ok := t.Native().(*texture)
		if !ok {
			return nil, errors.Newf("software: color attachment %d is not a software texture", i)
		}
		fb.colors = append(fb.colors, tex)
	}
	if att.Depth != nil {
		tex, ok := att.Depth.Native().(*texture)
		if !ok {
			return nil, errors.New("software: depth attachment is not a software texture")
		}
		fb.depth = tex
	}
	return fb, nil
}

// NewExecutor implements rhi.Backend.
func (b *Backend) NewExecutor() rhi.CommandExecutor {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.executor = &Executor{backend: b}
	return b.executor
}

// WaitForIdle implements rhi.Backend. Work completes during submission.
func (b *Backend) WaitForIdle() error { return nil }

// Destroy implements rhi.Backend.
func (b *Backend) Destroy() {
	b.pool.Close()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// Stats returns a snapshot of the call counters.
func (b *Backend) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// ResetStats zeroes the call counters and the trace.
func (b *Backend) ResetStats() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats = Stats{}
	b.lines = nil
}

// Trace returns the recorded call trace. It is empty unless the device was
// created with DebugLayer.
func (b *Backend) Trace() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}
