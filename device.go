package rhi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/nexusgfx/rhi/internal/arena"
)

// GraphicsDevice creates every GPU resource and is the single submission
// point for recorded work. Its backend is chosen once, at creation.
//
// Resource creation and submission are safe for concurrent use.
// Submissions are executed one at a time in call order.
type GraphicsDevice struct {
	id       uuid.UUID
	spec     DeviceSpecification
	opts     deviceOptions
	backend  Backend
	executor CommandExecutor

	submitMu sync.Mutex
	closed   atomic.Bool

	buffers      arena.Arena[*DeviceBuffer]
	textures     arena.Arena[SampledTexture]
	samplers     arena.Arena[*Sampler]
	shaders      arena.Arena[*ShaderModule]
	pipelines    arena.Arena[*Pipeline]
	resourceSets arena.Arena[*ResourceSet]
	framebuffers arena.Arena[*Framebuffer]
}

// NewGraphicsDevice creates a device for spec.API. It fails with a
// *BackendUnavailableError when no backend for the API is registered or
// the backend cannot start; no other backend is tried.
func NewGraphicsDevice(spec DeviceSpecification, opts ...Option) (*GraphicsDevice, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b, err := newBackend(spec)
	if err != nil {
		Logger().Error("rhi: graphics backend unavailable", "api", spec.API.String(), "err", err)
		return nil, err
	}

	d := &GraphicsDevice{
		id:      uuid.New(),
		spec:    spec,
		opts:    o,
		backend: b,
	}
	d.executor = b.NewExecutor()

	Logger().Info("rhi: graphics device created",
		"name", o.name,
		"id", d.id.String(),
		"api", b.API().String(),
		"adapter", b.DeviceName())
	return d, nil
}

// ID returns the device's unique identifier.
func (d *GraphicsDevice) ID() uuid.UUID { return d.id }

// Specification returns the creation specification.
func (d *GraphicsDevice) Specification() DeviceSpecification { return d.spec }

// Backend returns the active backend.
func (d *GraphicsDevice) Backend() Backend { return d.backend }

// GetGraphicsAPI returns the active API.
func (d *GraphicsDevice) GetGraphicsAPI() GraphicsAPI { return d.backend.API() }

// GetAPIName returns the active API's name.
func (d *GraphicsDevice) GetAPIName() string { return d.backend.API().String() }

// GetDeviceName returns the adapter name reported by the backend.
func (d *GraphicsDevice) GetDeviceName() string { return d.backend.DeviceName() }

// GetGraphicsCapabilities returns the backend's feature limits.
func (d *GraphicsDevice) GetGraphicsCapabilities() GraphicsCapabilities {
	return d.backend.Capabilities()
}

// GetUVCorrection returns the factor to multiply the V texture coordinate
// of generated geometry by: 1 for bottom-left origin backends, -1 for
// top-left origin backends.
func (d *GraphicsDevice) GetUVCorrection() float32 { return d.backend.UVCorrection() }

// IsUVOriginTopLeft reports whether texture coordinate (0, 0) is the
// top-left texel.
func (d *GraphicsDevice) IsUVOriginTopLeft() bool { return d.backend.UVOriginTopLeft() }

// GetSupportedShaderFormat returns the shader representation the backend
// consumes natively.
func (d *GraphicsDevice) GetSupportedShaderFormat() ShaderLanguage {
	return d.backend.SupportedShaderLanguage()
}

func (d *GraphicsDevice) checkOpen() error {
	if d.closed.Load() {
		return ErrDeviceClosed
	}
	return nil
}

// CreateDeviceBuffer creates a buffer, optionally filled with data. data
// may be shorter than the buffer.
func (d *GraphicsDevice) CreateDeviceBuffer(desc BufferDescription, data []byte) (*DeviceBuffer, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if reason := desc.check(); reason != "" {
		return nil, newResourceError("buffer", desc.Name, "%s", reason)
	}
	if uint64(len(data)) > desc.SizeInBytes {
		return nil, newResourceError("buffer", desc.Name,
			"initial data of %d bytes exceeds the %d byte buffer", len(data), desc.SizeInBytes)
	}
	native, err := d.backend.CreateBuffer(desc, data)
	if err != nil {
		return nil, wrapResourceError(err, "buffer", desc.Name, "backend rejected buffer")
	}
	b := &DeviceBuffer{device: d, desc: desc, native: native}
	b.handle = d.buffers.Insert(b)
	return b, nil
}

// CreateVertexBuffer creates a device-local vertex buffer holding data.
func (d *GraphicsDevice) CreateVertexBuffer(data []byte, stride uint32) (*DeviceBuffer, error) {
	return d.CreateDeviceBuffer(BufferDescription{
		SizeInBytes:   uint64(len(data)),
		Type:          BufferTypeVertex,
		StrideInBytes: stride,
	}, data)
}

// CreateIndexBuffer creates a device-local index buffer holding data.
func (d *GraphicsDevice) CreateIndexBuffer(data []byte, format IndexFormat) (*DeviceBuffer, error) {
	return d.CreateDeviceBuffer(BufferDescription{
		SizeInBytes:   uint64(len(data)),
		Type:          BufferTypeIndex,
		StrideInBytes: format.Size(),
	}, data)
}

// CreateUniformBuffer creates a host-visible uniform buffer of size bytes.
func (d *GraphicsDevice) CreateUniformBuffer(size uint64) (*DeviceBuffer, error) {
	return d.CreateDeviceBuffer(BufferDescription{
		SizeInBytes: size,
		Type:        BufferTypeUniform,
		HostVisible: true,
	}, nil)
}

func (d *GraphicsDevice) createNativeTexture(kind string, desc TextureDescription, data []byte) (NativeTexture, error) {
	if reason := checkTexture(desc, d.backend); reason != "" {
		return nil, newResourceError(kind, desc.Name, "%s", reason)
	}
	if data != nil {
		want := uint64(desc.Width) * uint64(desc.Height) * uint64(desc.Format.BytesPerPixel()) * uint64(desc.ArrayLayers)
		if uint64(len(data)) != want {
			return nil, newResourceError(kind, desc.Name,
				"initial data is %d bytes, mip level 0 needs %d", len(data), want)
		}
	}
	native, err := d.backend.CreateTexture(desc, data)
	if err != nil {
		return nil, wrapResourceError(err, kind, desc.Name, "backend rejected texture")
	}
	return native, nil
}

// CreateTexture2D creates a 2D texture. data, if not nil, fills mip level 0
// and must match its size exactly.
func (d *GraphicsDevice) CreateTexture2D(spec Texture2DSpecification, data []byte) (*Texture2D, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	desc := TextureDescription{
		Name:        spec.Name,
		Width:       spec.Width,
		Height:      spec.Height,
		Format:      spec.Format,
		MipLevels:   max(spec.MipLevels, 1),
		Samples:     spec.Samples,
		Usage:       spec.Usage,
		ArrayLayers: 1,
	}
	native, err := d.createNativeTexture("texture2d", desc, data)
	if err != nil {
		return nil, err
	}
	t := &Texture2D{device: d, desc: desc, native: native}
	t.handle = d.textures.Insert(t)
	return t, nil
}

// CreateCubemap creates a cubemap with six square faces.
func (d *GraphicsDevice) CreateCubemap(spec CubemapSpecification) (*Cubemap, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	desc := TextureDescription{
		Name:        spec.Name,
		Width:       spec.Width,
		Height:      spec.Height,
		Format:      spec.Format,
		MipLevels:   max(spec.MipLevels, 1),
		Samples:     SampleCount1,
		Usage:       spec.Usage,
		ArrayLayers: CubemapFaceCount,
		Cube:        true,
	}
	native, err := d.createNativeTexture("cubemap", desc, nil)
	if err != nil {
		return nil, err
	}
	c := &Cubemap{device: d, desc: desc, native: native}
	c.handle = d.textures.Insert(c)
	return c, nil
}

// CreateSampler creates a sampler.
func (d *GraphicsDevice) CreateSampler(spec SamplerSpecification) (*Sampler, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if reason := spec.check(d.backend.Capabilities()); reason != "" {
		return nil, newResourceError("sampler", spec.Name, "%s", reason)
	}
	native, err := d.backend.CreateSampler(spec)
	if err != nil {
		return nil, wrapResourceError(err, "sampler", spec.Name, "backend rejected sampler")
	}
	s := &Sampler{device: d, spec: spec, native: native}
	s.handle = d.samplers.Insert(s)
	return s, nil
}

func (d *GraphicsDevice) checkFramebuffer(spec FramebufferSpecification) string {
	caps := d.backend.Capabilities()
	switch {
	case spec.Width == 0 || spec.Height == 0:
		return "width and height must be greater than zero"
	case len(spec.ColorAttachments) == 0 && spec.DepthAttachment == PixelFormatNone:
		return "framebuffer needs at least one attachment"
	case spec.DepthAttachment != PixelFormatNone && !spec.DepthAttachment.IsDepth():
		return "depth attachment format is not a depth format"
	}
	for i, f := range spec.ColorAttachments {
		if !f.IsValid() || f.IsDepth() {
			return fmt.Sprintf("color attachment %d has invalid format %v", i, f)
		}
	}
	if _, err := spec.Samples.Count(); err != nil {
		return "unknown sample count"
	}
	if spec.Samples != SampleCount1 && !caps.SupportsMultisampledTextures {
		return "backend does not support multisampled framebuffers"
	}
	return ""
}

// buildFramebuffer creates the attachments and native object of f from
// f.spec. On failure nothing is left allocated. Callers hold f.mu or own f
// exclusively.
func (d *GraphicsDevice) buildFramebuffer(f *Framebuffer) error {
	spec := f.spec
	usageFor := func(format PixelFormat) TextureUsage {
		if format.IsDepth() {
			return TextureUsageDepthStencil
		}
		u := TextureUsageRenderTarget
		if spec.Samples == SampleCount1 {
			u |= TextureUsageSampled
		}
		return u
	}
	makeAttachment := func(format PixelFormat, suffix string) (*Texture2D, error) {
		desc := TextureDescription{
			Name:        spec.Name + suffix,
			Width:       spec.Width,
			Height:      spec.Height,
			Format:      format,
			MipLevels:   1,
			Samples:     spec.Samples,
			Usage:       usageFor(format),
			ArrayLayers: 1,
		}
		native, err := d.createNativeTexture("framebuffer", desc, nil)
		if err != nil {
			return nil, err
		}
		t := &Texture2D{device: d, desc: desc, native: native, owned: true}
		t.handle = d.textures.Insert(t)
		return t, nil
	}

	for i, format := range spec.ColorAttachments {
		t, err := makeAttachment(format, fmt.Sprintf(".color%d", i))
		if err != nil {
			f.releaseAttachments()
			return err
		}
		f.colors = append(f.colors, t)
	}
	if spec.DepthAttachment != PixelFormatNone {
		t, err := makeAttachment(spec.DepthAttachment, ".depth")
		if err != nil {
			f.releaseAttachments()
			return err
		}
		f.depth = t
	}

	native, err := d.backend.CreateFramebuffer(FramebufferAttachments{
		Specification: spec,
		Colors:        f.colors,
		Depth:         f.depth,
	})
	if err != nil {
		f.releaseAttachments()
		return wrapResourceError(err, "framebuffer", spec.Name, "backend rejected framebuffer")
	}
	f.native = native
	return nil
}

// CreateFramebuffer creates an offscreen render target and its attachments.
func (d *GraphicsDevice) CreateFramebuffer(spec FramebufferSpecification) (*Framebuffer, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if reason := d.checkFramebuffer(spec); reason != "" {
		return nil, newResourceError("framebuffer", spec.Name, "%s", reason)
	}
	spec.ColorAttachments = append([]PixelFormat(nil), spec.ColorAttachments...)
	f := &Framebuffer{device: d, spec: spec}
	if err := d.buildFramebuffer(f); err != nil {
		return nil, err
	}
	f.handle = d.framebuffers.Insert(f)
	return f, nil
}

// CreateShaderModule creates a shader module from a pre-compiled or
// transpiled representation. resources declares the bindings it expects.
func (d *GraphicsDevice) CreateShaderModule(spec ShaderModuleSpecification, resources ResourceSetSpecification) (*ShaderModule, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if spec.EntryPoint == "" {
		spec.EntryPoint = "main"
	}
	if reason := spec.check(); reason != "" {
		return nil, newResourceError("shader module", spec.Name, "%s", reason)
	}
	if err := resources.Validate(0); err != nil {
		return nil, &ResourceCreationError{Resource: "shader module", Name: spec.Name,
			Reason: "invalid resource declaration", Err: err}
	}
	native, err := d.backend.CreateShaderModule(spec)
	if err != nil {
		return nil, wrapResourceError(err, "shader module", spec.Name, "backend rejected shader")
	}
	m := &ShaderModule{device: d, spec: spec, resources: resources, native: native}
	m.handle = d.shaders.Insert(m)
	return m, nil
}

// CreateShaderModuleFromSpirvSource creates a shader module from SPIR-V words.
func (d *GraphicsDevice) CreateShaderModuleFromSpirvSource(spirv []uint32, name string, stage ShaderStage, resources ResourceSetSpecification) (*ShaderModule, error) {
	return d.CreateShaderModule(ShaderModuleSpecification{
		Name:     name,
		Stage:    stage,
		Language: ShaderLanguageSPIRV,
		SPIRV:    spirv,
	}, resources)
}

func pipelineName(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}

func checkModule(m *ShaderModule, stage ShaderStage, d *GraphicsDevice) string {
	switch {
	case m == nil:
		return stage.String() + " shader module is missing"
	case m.device != d:
		return stage.String() + " shader module belongs to another device"
	case !m.IsValid():
		return stage.String() + " shader module has been destroyed"
	case m.Stage() != stage:
		return "expected a " + stage.String() + " shader module, got " + m.Stage().String()
	}
	return ""
}

// compile finishes a pipeline whose description has been checked.
func (d *GraphicsDevice) compile(p *Pipeline) (*Pipeline, error) {
	if err := p.spec.Validate(d.backend.Capabilities().MaxResourceSlots); err != nil {
		return nil, &PipelineCompilationError{Pipeline: p.name,
			Reason: "invalid resource set specification", Diagnostic: err.Error()}
	}
	p.slots, p.ordered = slotTable(p.spec)

	native, err := d.backend.CreatePipeline(p)
	if err != nil {
		var pce *PipelineCompilationError
		if errors.As(err, &pce) {
			return nil, pce
		}
		return nil, &PipelineCompilationError{Pipeline: p.name, Reason: "backend compilation failed", Err: err}
	}
	p.native = native
	p.handle = d.pipelines.Insert(p)
	Logger().Debug("rhi: pipeline created", "pipeline", p.name, "type", p.typ.String(), "slots", len(p.ordered))
	return p, nil
}

// CreatePipeline validates desc and compiles a graphics pipeline for the
// active backend. The name to linear slot table is computed here, once.
func (d *GraphicsDevice) CreatePipeline(desc PipelineDescription) (*Pipeline, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	name := pipelineName(desc.Name)
	fail := func(reason, diag string) (*Pipeline, error) {
		return nil, &PipelineCompilationError{Pipeline: name, Reason: reason, Diagnostic: diag}
	}

	if reason := checkModule(desc.VertexModule, ShaderStageVertex, d); reason != "" {
		return fail(reason, "")
	}
	if reason := checkModule(desc.FragmentModule, ShaderStageFragment, d); reason != "" {
		return fail(reason, "")
	}
	caps := d.backend.Capabilities()
	if n := uint32(len(desc.Layouts)); n > MaxVertexBufferSlots || (caps.MaxVertexBuffers != 0 && n > caps.MaxVertexBuffers) {
		return fail("too many vertex buffer layouts", "")
	}
	for i, l := range desc.Layouts {
		if err := l.Validate(); err != nil {
			return fail(fmt.Sprintf("invalid vertex buffer layout %d", i), err.Error())
		}
	}
	for _, f := range desc.ColorFormats {
		if !f.IsValid() || f.IsDepth() {
			return fail("invalid color target format "+f.String(), "")
		}
	}
	if desc.DepthFormat != PixelFormatNone && !desc.DepthFormat.IsDepth() {
		return fail("depth format "+desc.DepthFormat.String()+" is not a depth format", "")
	}
	if (desc.DepthStencil.EnableDepthTest || desc.DepthStencil.EnableStencilTest) && desc.DepthFormat == PixelFormatNone {
		return fail("depth or stencil testing requires a depth format", "")
	}
	if _, err := desc.Samples.Count(); err != nil {
		return fail("unknown sample count", "")
	}

	spec := desc.ResourceSetSpec
	if spec.IsEmpty() {
		spec = desc.VertexModule.Resources().Merge(desc.FragmentModule.Resources())
	}
	desc.Layouts = append([]VertexBufferLayout(nil), desc.Layouts...)
	desc.ColorFormats = append([]PixelFormat(nil), desc.ColorFormats...)
	return d.compile(&Pipeline{device: d, typ: PipelineTypeGraphics, name: name, desc: desc, spec: spec})
}

// CreateComputePipeline validates desc and compiles a compute pipeline.
func (d *GraphicsDevice) CreateComputePipeline(desc ComputePipelineDescription) (*Pipeline, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	name := pipelineName(desc.Name)
	if reason := checkModule(desc.ComputeModule, ShaderStageCompute, d); reason != "" {
		return nil, &PipelineCompilationError{Pipeline: name, Reason: reason}
	}
	spec := desc.ResourceSetSpec
	if spec.IsEmpty() {
		spec = desc.ComputeModule.Resources()
	}
	return d.compile(&Pipeline{device: d, typ: PipelineTypeCompute, name: name, compute: desc, spec: spec})
}

// CreateResourceSet allocates an empty binding table for p.
func (d *GraphicsDevice) CreateResourceSet(p *Pipeline) (*ResourceSet, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if p == nil || !p.IsValid() {
		return nil, newResourceError("resource set", "", "pipeline is missing or destroyed")
	}
	if p.device != d {
		return nil, &ResourceCreationError{Resource: "resource set", Name: p.Name(),
			Reason: "pipeline belongs to another device", Err: ErrForeignResource}
	}
	n := len(p.Slots())
	rs := &ResourceSet{
		device:   d,
		pipeline: p,
		buffers:  make(map[uint32]*DeviceBuffer, n),
		images:   make(map[uint32]BoundImage, n),
	}
	rs.handle = d.resourceSets.Insert(rs)
	return rs, nil
}

// CreateCommandList returns an idle command list bound to this device.
func (d *GraphicsDevice) CreateCommandList(name string) *CommandList {
	return &CommandList{
		id:       uuid.New(),
		name:     name,
		device:   d,
		commands: make([]Command, 0, d.opts.commandCapacity),
	}
}

// CreateTimingQuery returns a new timing query.
func (d *GraphicsDevice) CreateTimingQuery(name string) *TimingQuery {
	return &TimingQuery{name: name}
}

// SubmitCommandList executes a recorded list. The list is cleared and
// returns to Idle whether or not commands failed validation. Submission
// does not wait for the GPU; see WaitForIdle.
func (d *GraphicsDevice) SubmitCommandList(list *CommandList) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.submitMu.Lock()
	defer d.submitMu.Unlock()
	return d.submitLocked(list)
}

// SubmitCommandLists executes lists in the order given. A list that fails
// validation does not stop the ones after it; the errors are combined.
func (d *GraphicsDevice) SubmitCommandLists(lists ...*CommandList) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.submitMu.Lock()
	defer d.submitMu.Unlock()

	var result error
	for _, list := range lists {
		result = errors.CombineErrors(result, d.submitLocked(list))
	}
	return result
}

func (d *GraphicsDevice) submitLocked(list *CommandList) error {
	if list == nil {
		return errors.New("rhi: submit nil command list")
	}
	if list.device != d {
		return errors.Wrapf(ErrForeignResource, "rhi: command list %q", list.name)
	}
	if list.state != CommandListRecorded {
		return errors.Wrapf(ErrNotRecorded, "rhi: command list %q is %s", list.name, list.state)
	}

	list.state = CommandListSubmitted
	Logger().Debug("rhi: submit command list",
		"list", list.name, "id", list.id.String(), "commands", len(list.commands))

	err := d.executor.ExecuteCommands(list)
	if d.opts.submitHook != nil {
		d.opts.submitHook(list, err)
	}
	list.clear()
	list.state = CommandListIdle
	return err
}

// ImmediateSubmit records with fn into a temporary list, submits it and
// waits for the device to become idle.
func (d *GraphicsDevice) ImmediateSubmit(fn func(list *CommandList)) error {
	list := d.CreateCommandList("immediate")
	if err := list.Begin(); err != nil {
		return err
	}
	fn(list)
	if err := list.End(); err != nil {
		return err
	}
	if err := d.SubmitCommandList(list); err != nil {
		return err
	}
	return d.WaitForIdle()
}

// WaitForIdle blocks until all submitted work has completed.
func (d *GraphicsDevice) WaitForIdle() error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.submitMu.Lock()
	defer d.submitMu.Unlock()
	return d.backend.WaitForIdle()
}

// Close waits for the device, destroys every live resource and releases
// the backend. Further calls fail with ErrDeviceClosed.
func (d *GraphicsDevice) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrDeviceClosed
	}
	d.submitMu.Lock()
	defer d.submitMu.Unlock()

	err := d.backend.WaitForIdle()
	d.executor.Reset()

	d.resourceSets.Drain()
	for _, p := range d.pipelines.Drain() {
		p.native.Destroy()
	}
	for _, f := range d.framebuffers.Drain() {
		f.mu.Lock()
		f.releaseAttachments()
		f.mu.Unlock()
	}
	for _, t := range d.textures.Drain() {
		t.Native().Destroy()
	}
	for _, s := range d.samplers.Drain() {
		s.native.Destroy()
	}
	for _, m := range d.shaders.Drain() {
		m.native.Destroy()
	}
	for _, b := range d.buffers.Drain() {
		b.native.Destroy()
	}
	d.backend.Destroy()

	Logger().Info("rhi: graphics device closed", "name", d.opts.name, "id", d.id.String())
	return err
}
