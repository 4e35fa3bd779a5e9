package rhi

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
)

// fakeBackend is an in-package Backend for tests. It stores buffer memory
// and counts the commands its executor runs.
type fakeBackend struct {
	caps      GraphicsCapabilities
	failBuild error
	failFB    error

	mu        sync.Mutex
	executed  []CommandType
	destroyed bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{caps: GraphicsCapabilities{
		MaxSamples:                   SampleCount4,
		SupportsLODBias:              false,
		SupportsMultisampledTextures: true,
		MaxResourceSlots:             2 * DescriptorSetCount,
		MaxVertexBuffers:             4,
	}}
}

func (b *fakeBackend) API() GraphicsAPI                        { return GraphicsAPISoftware }
func (b *fakeBackend) DeviceName() string                      { return "fake" }
func (b *fakeBackend) Capabilities() GraphicsCapabilities      { return b.caps }
func (b *fakeBackend) UVCorrection() float32                   { return -1 }
func (b *fakeBackend) UVOriginTopLeft() bool                   { return true }
func (b *fakeBackend) SupportedShaderLanguage() ShaderLanguage { return ShaderLanguageSPIRV }

func (b *fakeBackend) SupportsFormat(f PixelFormat, u TextureUsage) bool {
	return !(f == PixelFormatR32Uint && u.Has(TextureUsageRenderTarget))
}

func (b *fakeBackend) CreateBuffer(desc BufferDescription, data []byte) (NativeBuffer, error) {
	fb := &fakeBuffer{data: make([]byte, desc.SizeInBytes)}
	copy(fb.data, data)
	return fb, nil
}

func (b *fakeBackend) CreateTexture(TextureDescription, []byte) (NativeTexture, error) {
	return &fakeResource{}, nil
}

func (b *fakeBackend) CreateSampler(SamplerSpecification) (NativeSampler, error) {
	return &fakeResource{}, nil
}

func (b *fakeBackend) CreateShaderModule(ShaderModuleSpecification) (NativeShaderModule, error) {
	return &fakeResource{}, nil
}

func (b *fakeBackend) CreatePipeline(*Pipeline) (NativePipeline, error) {
	if b.failBuild != nil {
		return nil, b.failBuild
	}
	return &fakeResource{}, nil
}

func (b *fakeBackend) CreateFramebuffer(FramebufferAttachments) (NativeFramebuffer, error) {
	if b.failFB != nil {
		return nil, b.failFB
	}
	return &fakeResource{}, nil
}

func (b *fakeBackend) NewExecutor() CommandExecutor { return &fakeExecutor{backend: b} }
func (b *fakeBackend) WaitForIdle() error           { return nil }
func (b *fakeBackend) Destroy()                     { b.destroyed = true }

func (b *fakeBackend) executedTypes() []CommandType {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]CommandType(nil), b.executed...)
}

type fakeExecutor struct {
	backend   *fakeBackend
	validator Validator
}

func (e *fakeExecutor) ExecuteCommands(list *CommandList) error {
	e.validator.Begin(list)
	for i, cmd := range list.Commands() {
		if !e.validator.Validate(i, cmd) {
			continue
		}
		e.backend.mu.Lock()
		e.backend.executed = append(e.backend.executed, cmd.Type())
		e.backend.mu.Unlock()
	}
	return e.validator.Err()
}

func (e *fakeExecutor) Reset() {}

type fakeResource struct{ destroyed bool }

func (r *fakeResource) Destroy()                          { r.destroyed = true }
func (r *fakeResource) Write(TextureRegion, []byte) error { return nil }

type fakeBuffer struct {
	fakeResource
	data []byte
}

func (b *fakeBuffer) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return errors.Wrap(ErrOutOfRange, "fake: write")
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *fakeBuffer) Read(offset uint64, dst []byte) error {
	copy(dst, b.data[offset:])
	return nil
}

type fakeSwapchain struct {
	width, height uint32
	depth         PixelFormat
}

func (s *fakeSwapchain) Size() (uint32, uint32)   { return s.width, s.height }
func (s *fakeSwapchain) ColorFormat() PixelFormat { return PixelFormatBGRA8Unorm }
func (s *fakeSwapchain) DepthFormat() PixelFormat { return s.depth }
func (s *fakeSwapchain) Samples() SampleCount     { return SampleCount1 }
func (s *fakeSwapchain) VSync() bool              { return true }
func (s *fakeSwapchain) Prepare() error           { return nil }
func (s *fakeSwapchain) Present() error           { return nil }

// newTestDevice creates a device over a fresh fakeBackend registered for
// the software API.
func newTestDevice(t *testing.T, opts ...Option) (*GraphicsDevice, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	Register(GraphicsAPISoftware, func(DeviceSpecification) (Backend, error) { return fb, nil })
	t.Cleanup(func() { Unregister(GraphicsAPISoftware) })

	d, err := NewGraphicsDevice(DeviceSpecification{API: GraphicsAPISoftware}, opts...)
	if err != nil {
		t.Fatalf("NewGraphicsDevice() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d, fb
}

var testSPIRV = []uint32{SPIRVMagic, 0x00010000, 0, 1, 0}

// newTestPipeline creates a graphics pipeline with one vertex layout and
// the given resources.
func newTestPipeline(t *testing.T, d *GraphicsDevice, resources ResourceSetSpecification) *Pipeline {
	t.Helper()
	vs, err := d.CreateShaderModuleFromSpirvSource(testSPIRV, "vs", ShaderStageVertex, resources)
	if err != nil {
		t.Fatalf("CreateShaderModuleFromSpirvSource(vertex) error = %v", err)
	}
	fs, err := d.CreateShaderModuleFromSpirvSource(testSPIRV, "fs", ShaderStageFragment, ResourceSetSpecification{})
	if err != nil {
		t.Fatalf("CreateShaderModuleFromSpirvSource(fragment) error = %v", err)
	}
	p, err := d.CreatePipeline(PipelineDescription{
		Name:           "test",
		VertexModule:   vs,
		FragmentModule: fs,
		Layouts:        []VertexBufferLayout{LayoutPosition},
		ColorFormats:   []PixelFormat{PixelFormatRGBA8Unorm},
		Samples:        SampleCount1,
	})
	if err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	return p
}

func newTestFramebuffer(t *testing.T, d *GraphicsDevice, w, h uint32, depth PixelFormat) *Framebuffer {
	t.Helper()
	fb, err := d.CreateFramebuffer(FramebufferSpecification{
		Name:             "fb",
		Width:            w,
		Height:           h,
		ColorAttachments: []PixelFormat{PixelFormatRGBA8Unorm},
		DepthAttachment:  depth,
		Samples:          SampleCount1,
	})
	if err != nil {
		t.Fatalf("CreateFramebuffer() error = %v", err)
	}
	return fb
}
