package rhi

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestNewGraphicsDeviceUnavailable(t *testing.T) {
	_, err := NewGraphicsDevice(DeviceSpecification{API: GraphicsAPIVulkan})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("NewGraphicsDevice(vulkan) error = %v, want ErrBackendUnavailable", err)
	}
	var bue *BackendUnavailableError
	if !errors.As(err, &bue) || bue.API != GraphicsAPIVulkan {
		t.Errorf("errors.As(*BackendUnavailableError) = %+v", bue)
	}
}

func TestNewGraphicsDeviceFactoryError(t *testing.T) {
	cause := errors.New("no GL context")
	Register(GraphicsAPIOpenGL, func(DeviceSpecification) (Backend, error) { return nil, cause })
	defer Unregister(GraphicsAPIOpenGL)

	_, err := NewGraphicsDevice(DeviceSpecification{API: GraphicsAPIOpenGL})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("error = %v, want ErrBackendUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want the factory cause", err)
	}
}

func TestDeviceQueries(t *testing.T) {
	d, _ := newTestDevice(t, WithName("queries"))
	if got := d.GetAPIName(); got != "software" {
		t.Errorf("GetAPIName() = %q, want software", got)
	}
	if got := d.GetDeviceName(); got != "fake" {
		t.Errorf("GetDeviceName() = %q, want fake", got)
	}
	if d.GetUVCorrection() != -1 || !d.IsUVOriginTopLeft() {
		t.Errorf("UV convention = (%g, %t), want (-1, true)", d.GetUVCorrection(), d.IsUVOriginTopLeft())
	}
	if got := d.GetSupportedShaderFormat(); got != ShaderLanguageSPIRV {
		t.Errorf("GetSupportedShaderFormat() = %v, want SPIRV", got)
	}
}

func TestCreateDeviceBufferZeroSize(t *testing.T) {
	d, _ := newTestDevice(t)
	_, err := d.CreateDeviceBuffer(BufferDescription{Name: "empty", SizeInBytes: 0, Type: BufferTypeVertex}, nil)
	if !errors.Is(err, ErrResourceCreation) {
		t.Fatalf("CreateDeviceBuffer(size 0) error = %v, want ErrResourceCreation", err)
	}
	var rce *ResourceCreationError
	if !errors.As(err, &rce) || rce.Name != "empty" || rce.Resource != "buffer" {
		t.Errorf("ResourceCreationError = %+v", rce)
	}
}

func TestCreateDeviceBufferRejects(t *testing.T) {
	d, _ := newTestDevice(t)
	tests := []struct {
		name string
		desc BufferDescription
		data []byte
	}{
		{"stride", BufferDescription{SizeInBytes: 10, Type: BufferTypeVertex, StrideInBytes: 12}, nil},
		{"upload not host visible", BufferDescription{SizeInBytes: 16, Type: BufferTypeUpload}, nil},
		{"data too long", BufferDescription{SizeInBytes: 2, Type: BufferTypeIndex}, []byte{1, 2, 3}},
		{"unknown type", BufferDescription{SizeInBytes: 4, Type: BufferType(200)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.CreateDeviceBuffer(tt.desc, tt.data); !errors.Is(err, ErrResourceCreation) {
				t.Errorf("CreateDeviceBuffer() error = %v, want ErrResourceCreation", err)
			}
		})
	}
}

func TestBufferSetDataMapRoundTrip(t *testing.T) {
	d, _ := newTestDevice(t)
	buf, err := d.CreateUniformBuffer(16)
	if err != nil {
		t.Fatalf("CreateUniformBuffer() error = %v", err)
	}
	if err := buf.SetData([]byte{1, 2, 3, 4}, 4); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	view, err := buf.Map()
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if got := view[4:8]; string(got) != string([]byte{1, 2, 3, 4}) {
		t.Errorf("mapped bytes = %v, want [1 2 3 4]", got)
	}
	if _, err := buf.Map(); !errors.Is(err, ErrBufferMapped) {
		t.Errorf("second Map() error = %v, want ErrBufferMapped", err)
	}
	if err := buf.SetData([]byte{9}, 0); !errors.Is(err, ErrBufferMapped) {
		t.Errorf("SetData() while mapped error = %v, want ErrBufferMapped", err)
	}
	view[0] = 42
	if err := buf.Unmap(); err != nil {
		t.Fatalf("Unmap() error = %v", err)
	}
	view, _ = buf.Map()
	if view[0] != 42 {
		t.Errorf("after Unmap byte 0 = %d, want 42", view[0])
	}
	_ = buf.Unmap()

	if err := buf.SetData(make([]byte, 8), 12); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SetData() past end error = %v, want ErrOutOfRange", err)
	}
	if err := buf.Unmap(); !errors.Is(err, ErrBufferNotMapped) {
		t.Errorf("Unmap() unmapped error = %v, want ErrBufferNotMapped", err)
	}
}

func TestMapDeviceLocalBuffer(t *testing.T) {
	d, _ := newTestDevice(t)
	buf, err := d.CreateVertexBuffer(make([]byte, 12), 12)
	if err != nil {
		t.Fatalf("CreateVertexBuffer() error = %v", err)
	}
	if _, err := buf.Map(); !errors.Is(err, ErrBufferNotHostVisible) {
		t.Errorf("Map() error = %v, want ErrBufferNotHostVisible", err)
	}
	buf.Destroy()
	if buf.IsValid() {
		t.Error("IsValid() = true after Destroy")
	}
	if err := buf.SetData([]byte{1}, 0); !errors.Is(err, ErrResourceDestroyed) {
		t.Errorf("SetData() after Destroy error = %v, want ErrResourceDestroyed", err)
	}
}

func TestCreateTexture2D(t *testing.T) {
	d, _ := newTestDevice(t)
	tests := []struct {
		name string
		spec Texture2DSpecification
		data []byte
		ok   bool
	}{
		{"valid", Texture2DSpecification{Width: 4, Height: 4, Format: PixelFormatRGBA8Unorm, Usage: TextureUsageSampled}, make([]byte, 64), true},
		{"zero width", Texture2DSpecification{Width: 0, Height: 4, Format: PixelFormatRGBA8Unorm, Usage: TextureUsageSampled}, nil, false},
		{"too many mips", Texture2DSpecification{Width: 4, Height: 4, MipLevels: 4, Format: PixelFormatRGBA8Unorm, Usage: TextureUsageSampled}, nil, false},
		{"data size", Texture2DSpecification{Width: 4, Height: 4, Format: PixelFormatRGBA8Unorm, Usage: TextureUsageSampled}, make([]byte, 10), false},
		{"unsupported", Texture2DSpecification{Width: 4, Height: 4, Format: PixelFormatR32Uint, Usage: TextureUsageRenderTarget}, nil, false},
		{"samples over max", Texture2DSpecification{Width: 4, Height: 4, Format: PixelFormatRGBA8Unorm, Samples: SampleCount8, Usage: TextureUsageRenderTarget}, nil, false},
		{"depth as color", Texture2DSpecification{Width: 4, Height: 4, Format: PixelFormatDepth32Float, Usage: TextureUsageRenderTarget}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := d.CreateTexture2D(tt.spec, tt.data)
			if tt.ok {
				if err != nil {
					t.Fatalf("CreateTexture2D() error = %v", err)
				}
				if tex.Description().MipLevels != 1 {
					t.Errorf("MipLevels = %d, want default 1", tex.Description().MipLevels)
				}
				return
			}
			if !errors.Is(err, ErrResourceCreation) {
				t.Errorf("CreateTexture2D() error = %v, want ErrResourceCreation", err)
			}
		})
	}
}

func TestTexture2DSetData(t *testing.T) {
	d, _ := newTestDevice(t)
	tex, err := d.CreateTexture2D(Texture2DSpecification{
		Width: 8, Height: 8, MipLevels: 2, Format: PixelFormatR8Unorm, Usage: TextureUsageSampled,
	}, nil)
	if err != nil {
		t.Fatalf("CreateTexture2D() error = %v", err)
	}
	if err := tex.SetData(make([]byte, 4), 1, 2, 2, 2, 2); err != nil {
		t.Errorf("SetData(level 1) error = %v", err)
	}
	if err := tex.SetData(make([]byte, 4), 1, 3, 3, 2, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SetData(outside mip) error = %v, want ErrOutOfRange", err)
	}
	if err := tex.SetData(make([]byte, 4), 2, 0, 0, 1, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SetData(missing mip) error = %v, want ErrOutOfRange", err)
	}
}

func TestCreateCubemapRequiresSquareFaces(t *testing.T) {
	d, _ := newTestDevice(t)
	if _, err := d.CreateCubemap(CubemapSpecification{Width: 4, Height: 8, Format: PixelFormatRGBA8Unorm, Usage: TextureUsageSampled}); !errors.Is(err, ErrResourceCreation) {
		t.Errorf("CreateCubemap(4x8) error = %v, want ErrResourceCreation", err)
	}
	c, err := d.CreateCubemap(CubemapSpecification{Width: 4, Height: 4, Format: PixelFormatRGBA8Unorm, Usage: TextureUsageSampled})
	if err != nil {
		t.Fatalf("CreateCubemap(4x4) error = %v", err)
	}
	if err := c.SetData(make([]byte, 64), CubemapFaceNegativeZ, 0, 0, 0, 4, 4); err != nil {
		t.Errorf("SetData(-Z) error = %v", err)
	}
}

func TestCreateSamplerLODBias(t *testing.T) {
	d, _ := newTestDevice(t)
	spec := DefaultSamplerSpecification()
	if _, err := d.CreateSampler(spec); err != nil {
		t.Fatalf("CreateSampler(default) error = %v", err)
	}
	spec.LODBias = 0.5
	if _, err := d.CreateSampler(spec); !errors.Is(err, ErrResourceCreation) {
		t.Errorf("CreateSampler(LOD bias) error = %v, want ErrResourceCreation", err)
	}
}

func TestFramebufferResize(t *testing.T) {
	d, _ := newTestDevice(t)
	fb := newTestFramebuffer(t, d, 32, 16, PixelFormatDepth24PlusStencil8)
	old := fb.ColorTexture(0)
	if err := fb.Resize(64, 48); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if w, h := fb.Size(); w != 64 || h != 48 {
		t.Errorf("Size() = %dx%d, want 64x48", w, h)
	}
	if old.IsValid() {
		t.Error("old attachment still valid after Resize")
	}
	if desc := fb.ColorTexture(0).Description(); desc.Width != 64 || desc.Height != 48 {
		t.Errorf("new attachment = %dx%d, want 64x48", desc.Width, desc.Height)
	}
	if err := fb.Resize(0, 48); !errors.Is(err, ErrResourceCreation) {
		t.Errorf("Resize(0, 48) error = %v, want ErrResourceCreation", err)
	}

	fb.ColorTexture(0).Destroy()
	if !fb.ColorTexture(0).IsValid() {
		t.Error("attachment Destroy released a framebuffer-owned texture")
	}
	fb.Destroy()
	if fb.IsValid() || fb.DepthTexture() != nil {
		t.Error("framebuffer still holds attachments after Destroy")
	}
}

func TestFramebufferResizeFailureKeepsAttachments(t *testing.T) {
	d, backend := newTestDevice(t)
	fb := newTestFramebuffer(t, d, 32, 16, PixelFormatDepth24PlusStencil8)
	color, depth, native := fb.ColorTexture(0), fb.DepthTexture(), fb.Native()

	backend.failFB = errors.New("out of device memory")
	if err := fb.Resize(64, 48); !errors.Is(err, ErrResourceCreation) {
		t.Fatalf("Resize() error = %v, want ErrResourceCreation", err)
	}
	if w, h := fb.Size(); w != 32 || h != 16 {
		t.Errorf("Size() = %dx%d after failed Resize, want 32x16", w, h)
	}
	if fb.ColorTexture(0) != color || fb.DepthTexture() != depth || fb.Native() != native {
		t.Error("failed Resize replaced the attachments")
	}
	if !color.IsValid() || !depth.IsValid() || fb.Native() == nil {
		t.Error("failed Resize released the attachments")
	}

	backend.failFB = nil
	if err := fb.Resize(64, 48); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if color.IsValid() {
		t.Error("old attachment still valid after Resize")
	}
}

func TestCreatePipelineErrors(t *testing.T) {
	d, backend := newTestDevice(t)
	vs, _ := d.CreateShaderModuleFromSpirvSource(testSPIRV, "vs", ShaderStageVertex, ResourceSetSpecification{})
	fs, _ := d.CreateShaderModuleFromSpirvSource(testSPIRV, "fs", ShaderStageFragment, ResourceSetSpecification{})

	tests := []struct {
		name string
		desc PipelineDescription
	}{
		{"missing fragment", PipelineDescription{VertexModule: vs}},
		{"swapped stages", PipelineDescription{VertexModule: fs, FragmentModule: vs}},
		{"depth test without depth format", PipelineDescription{
			VertexModule: vs, FragmentModule: fs,
			DepthStencil: DepthStencilDescription{EnableDepthTest: true},
		}},
		{"duplicate slot", PipelineDescription{
			VertexModule: vs, FragmentModule: fs,
			ResourceSetSpec: ResourceSetSpecification{
				UniformBuffers: []ResourceBinding{{Name: "A"}},
				SampledImages:  []ResourceBinding{{Name: "B"}},
			},
		}},
		{"slot over limit", PipelineDescription{
			VertexModule: vs, FragmentModule: fs,
			ResourceSetSpec: ResourceSetSpecification{
				UniformBuffers: []ResourceBinding{{Name: "A", Set: 2}},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.CreatePipeline(tt.desc)
			if !errors.Is(err, ErrPipelineCompilation) {
				t.Errorf("CreatePipeline() error = %v, want ErrPipelineCompilation", err)
			}
		})
	}

	backend.failBuild = errors.New("link error: varying mismatch")
	_, err := d.CreatePipeline(PipelineDescription{Name: "broken", VertexModule: vs, FragmentModule: fs})
	var pce *PipelineCompilationError
	if !errors.As(err, &pce) || pce.Pipeline != "broken" {
		t.Fatalf("CreatePipeline() error = %v, want *PipelineCompilationError for broken", err)
	}
	if !errors.Is(err, backend.failBuild) {
		t.Errorf("backend cause not reachable from %v", err)
	}
}

func TestPipelineSlotTable(t *testing.T) {
	d, _ := newTestDevice(t)
	p := newTestPipeline(t, d, ResourceSetSpecification{
		UniformBuffers: []ResourceBinding{{Name: "MVP", Set: 1, Binding: 2}},
		SampledImages:  []ResourceBinding{{Name: "Albedo", Set: 0, Binding: 3}},
	})
	info, ok := p.Slot("MVP")
	if !ok || info.Slot != 66 || info.Kind != SlotUniformBuffer {
		t.Errorf("Slot(MVP) = %+v, %t, want linear slot 66", info, ok)
	}
	slots := p.Slots()
	if len(slots) != 2 || slots[0].Name != "Albedo" || slots[1].Name != "MVP" {
		t.Errorf("Slots() = %+v, want Albedo then MVP", slots)
	}
}

func TestResourceSetWrites(t *testing.T) {
	d, _ := newTestDevice(t)
	p := newTestPipeline(t, d, ResourceSetSpecification{
		UniformBuffers: []ResourceBinding{{Name: "MVP"}},
		SampledImages:  []ResourceBinding{{Name: "Albedo", Binding: 1}},
	})
	rs, err := d.CreateResourceSet(p)
	if err != nil {
		t.Fatalf("CreateResourceSet() error = %v", err)
	}
	ub, _ := d.CreateUniformBuffer(64)
	vb, _ := d.CreateVertexBuffer(make([]byte, 12), 12)
	tex, _ := d.CreateTexture2D(Texture2DSpecification{Width: 2, Height: 2, Format: PixelFormatRGBA8Unorm, Usage: TextureUsageSampled}, nil)
	smp, _ := d.CreateSampler(DefaultSamplerSpecification())

	if info, missing := rs.MissingSlot(); !missing || info.Name != "MVP" {
		t.Errorf("MissingSlot() = %+v, %t, want MVP", info, missing)
	}
	if err := rs.WriteUniformBuffer(ub, "Missing"); !errors.Is(err, ErrUnknownSlot) {
		t.Errorf("WriteUniformBuffer(unknown) error = %v, want ErrUnknownSlot", err)
	}
	if err := rs.WriteUniformBuffer(ub, "Albedo"); !errors.Is(err, ErrSlotKindMismatch) {
		t.Errorf("WriteUniformBuffer(image slot) error = %v, want ErrSlotKindMismatch", err)
	}
	if err := rs.WriteUniformBuffer(vb, "MVP"); err == nil {
		t.Error("WriteUniformBuffer(vertex buffer) error = nil")
	}
	if err := rs.WriteUniformBuffer(ub, "MVP"); err != nil {
		t.Fatalf("WriteUniformBuffer() error = %v", err)
	}
	cube, _ := d.CreateCubemap(CubemapSpecification{Width: 2, Height: 2, Format: PixelFormatRGBA8Unorm, MipLevels: 1, Usage: TextureUsageSampled})
	if err := rs.WriteCombinedImageSampler(cube, smp, "Albedo"); !errors.Is(err, ErrSlotKindMismatch) {
		t.Errorf("WriteCombinedImageSampler(cubemap) error = %v, want ErrSlotKindMismatch", err)
	}
	if err := rs.WriteCombinedImageSampler(tex, smp, "Albedo"); err != nil {
		t.Fatalf("WriteCombinedImageSampler() error = %v", err)
	}
	if _, missing := rs.MissingSlot(); missing {
		t.Error("MissingSlot() reports a slot after all writes")
	}
	if got := rs.Version(); got != 2 {
		t.Errorf("Version() = %d, want 2", got)
	}

	tex.Destroy()
	if info, gone := rs.DestroyedSlot(); !gone || info.Name != "Albedo" {
		t.Errorf("DestroyedSlot() = %+v, %t, want Albedo", info, gone)
	}
	p.Destroy()
	if rs.IsValid() {
		t.Error("resource set valid after its pipeline was destroyed")
	}
}

func TestSubmitCommandListValidation(t *testing.T) {
	d, backend := newTestDevice(t)
	p := newTestPipeline(t, d, ResourceSetSpecification{})
	fb := newTestFramebuffer(t, d, 16, 16, PixelFormatNone)
	vb, _ := d.CreateVertexBuffer(make([]byte, 36), 12)

	list := d.CreateCommandList("frame")
	_ = list.Begin()
	list.Draw(0, 3)
	list.SetRenderTarget(NewFramebufferTarget(fb))
	list.ClearColorTarget(1, Color{})
	list.ClearDepthStencilTarget(1, 0)
	list.SetPipeline(p)
	list.SetVertexBuffer(vb, 0)
	list.Draw(0, 3)
	if err := list.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	err := d.SubmitCommandList(list)
	var serr *SubmitError
	if !errors.As(err, &serr) {
		t.Fatalf("SubmitCommandList() error = %v, want *SubmitError", err)
	}
	wantFailed := []int{0, 2, 3}
	if len(serr.Failures) != len(wantFailed) {
		t.Fatalf("Failures = %v, want indices %v", serr.Failures, wantFailed)
	}
	for i, f := range serr.Failures {
		if f.Index != wantFailed[i] {
			t.Errorf("Failures[%d].Index = %d, want %d", i, f.Index, wantFailed[i])
		}
	}
	want := []CommandType{CmdSetRenderTarget, CmdSetPipeline, CmdSetVertexBuffer, CmdDraw}
	got := backend.executedTypes()
	if len(got) != len(want) {
		t.Fatalf("executed %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("executed[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSubmitRejectsResourceSetOfAnotherPipeline(t *testing.T) {
	d, backend := newTestDevice(t)
	withSlots := newTestPipeline(t, d, ResourceSetSpecification{
		UniformBuffers: []ResourceBinding{{Name: "MVP"}},
	})
	slotless := newTestPipeline(t, d, ResourceSetSpecification{})
	set, err := d.CreateResourceSet(withSlots)
	if err != nil {
		t.Fatalf("CreateResourceSet() error = %v", err)
	}
	ub, _ := d.CreateUniformBuffer(64)
	_ = set.WriteUniformBuffer(ub, "MVP")
	fb := newTestFramebuffer(t, d, 16, 16, PixelFormatNone)
	vb, _ := d.CreateVertexBuffer(make([]byte, 36), 12)

	list := d.CreateCommandList("frame")
	_ = list.Begin()
	list.SetRenderTarget(NewFramebufferTarget(fb))
	list.SetResourceSet(set)
	list.SetPipeline(slotless)
	list.SetVertexBuffer(vb, 0)
	list.Draw(0, 3)
	_ = list.End()

	err = d.SubmitCommandList(list)
	var serr *SubmitError
	if !errors.As(err, &serr) {
		t.Fatalf("SubmitCommandList() error = %v, want *SubmitError", err)
	}
	if len(serr.Failures) != 1 || serr.Failures[0].Index != 4 {
		t.Fatalf("Failures = %v, want the draw at index 4", serr.Failures)
	}
	for _, typ := range backend.executedTypes() {
		if typ == CmdDraw {
			t.Error("draw executed with a resource set of another pipeline")
		}
	}
}

func TestCreatePipelineRejectsWrappingSlots(t *testing.T) {
	d, _ := newTestDevice(t)
	resources := ResourceSetSpecification{
		UniformBuffers: []ResourceBinding{{Name: "MVP"}, {Name: "Light", Set: 1 << 26}},
	}
	_, err := d.CreateShaderModuleFromSpirvSource(testSPIRV, "vs", ShaderStageVertex, resources)
	if !errors.Is(err, ErrResourceCreation) {
		t.Fatalf("CreateShaderModuleFromSpirvSource() error = %v, want ErrResourceCreation", err)
	}
}

func TestSubmitHookAndForeignList(t *testing.T) {
	var hooked int
	d, _ := newTestDevice(t, WithSubmitHook(func(list *CommandList, err error) {
		if list.State() != CommandListSubmitted {
			t.Errorf("hook saw state %v, want Submitted", list.State())
		}
		hooked++
	}))
	if err := d.ImmediateSubmit(func(list *CommandList) { list.InsertDebugMarker("x") }); err != nil {
		t.Fatalf("ImmediateSubmit() error = %v", err)
	}
	if hooked != 1 {
		t.Errorf("hook called %d times, want 1", hooked)
	}

	foreign := &CommandList{name: "foreign", state: CommandListRecorded}
	if err := d.SubmitCommandList(foreign); !errors.Is(err, ErrForeignResource) {
		t.Errorf("SubmitCommandList(foreign) error = %v, want ErrForeignResource", err)
	}
	idle := d.CreateCommandList("idle")
	if err := d.SubmitCommandLists(idle, d.CreateCommandList("idle2")); !errors.Is(err, ErrNotRecorded) {
		t.Errorf("SubmitCommandLists(idle) error = %v, want ErrNotRecorded", err)
	}
}

func TestDeviceClose(t *testing.T) {
	d, backend := newTestDevice(t)
	buf, _ := d.CreateUniformBuffer(16)
	fb := newTestFramebuffer(t, d, 4, 4, PixelFormatDepth32Float)

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !backend.destroyed {
		t.Error("backend not destroyed by Close")
	}
	if buf.IsValid() || fb.IsValid() {
		t.Error("resources valid after Close")
	}
	if _, err := d.CreateUniformBuffer(16); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("CreateUniformBuffer() after Close error = %v, want ErrDeviceClosed", err)
	}
	if err := d.Close(); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("second Close() error = %v, want ErrDeviceClosed", err)
	}
}
