package opengl

import (
	"github.com/nexusgfx/rhi"
)

func init() {
	rhi.Register(rhi.GraphicsAPIOpenGL, New)
}

// Backend is the OpenGL implementation of rhi.Backend.
type Backend struct {
	ctx  Context
	info Info
}

// New creates an OpenGL backend over the Context in spec.Context. It fails
// with a *rhi.BackendUnavailableError when no Context is supplied.
func New(spec rhi.DeviceSpecification) (rhi.Backend, error) {
	ctx, ok := spec.Context.(Context)
	if !ok {
		return nil, &rhi.BackendUnavailableError{
			API:    rhi.GraphicsAPIOpenGL,
			Reason: "DeviceSpecification.Context does not implement opengl.Context",
		}
	}
	info := ctx.Info()
	rhi.Logger().Info("opengl: context ready",
		"vendor", info.Vendor,
		"renderer", info.Renderer,
		"version", info.Version,
		"es", info.ES)
	return &Backend{ctx: ctx, info: info}, nil
}

// Context returns the GL context the backend issues calls on.
func (b *Backend) Context() Context { return b.ctx }

// API implements rhi.Backend.
func (b *Backend) API() rhi.GraphicsAPI { return rhi.GraphicsAPIOpenGL }

// DeviceName implements rhi.Backend.
func (b *Backend) DeviceName() string { return b.info.Renderer }

func maxSampleCount(n int) rhi.SampleCount {
	switch {
	case n >= 8:
		return rhi.SampleCount8
	case n >= 4:
		return rhi.SampleCount4
	case n >= 2:
		return rhi.SampleCount2
	default:
		return rhi.SampleCount1
	}
}

// Capabilities implements rhi.Backend.
func (b *Backend) Capabilities() rhi.GraphicsCapabilities {
	return rhi.GraphicsCapabilities{
		MaxSamples:                   maxSampleCount(b.info.MaxSamples),
		SupportsLODBias:              !b.info.ES,
		SupportsMultisampledTextures: b.info.MaxSamples > 1,
		SupportsMultipleSwapchains:   true,
		MaxResourceSlots:             4 * rhi.DescriptorSetCount,
		MaxVertexBuffers:             uint32(min(rhi.MaxVertexBufferSlots, max(b.info.MaxVertexAttribs, 1))),
	}
}

// UVCorrection implements rhi.Backend.
func (b *Backend) UVCorrection() float32 { return 1 }

// UVOriginTopLeft implements rhi.Backend.
func (b *Backend) UVOriginTopLeft() bool { return false }

// SupportedShaderLanguage implements rhi.Backend.
func (b *Backend) SupportedShaderLanguage() rhi.ShaderLanguage {
	if b.info.ES {
		return rhi.ShaderLanguageGLSLES
	}
	return rhi.ShaderLanguageGLSL
}

// SupportsFormat implements rhi.Backend. ES contexts have no BGRA textures.
func (b *Backend) SupportsFormat(format rhi.PixelFormat, usage rhi.TextureUsage) bool {
	f, ok := formats[format]
	if !ok {
		return false
	}
	if b.info.ES && f.format == BGRA {
		return false
	}
	if format.IsDepth() && usage.Has(rhi.TextureUsageStorage) {
		return false
	}
	return true
}

// CreateBuffer implements rhi.Backend.
func (b *Backend) CreateBuffer(desc rhi.BufferDescription, data []byte) (rhi.NativeBuffer, error) {
	target := bufferTarget(desc.Type)
	name, err := b.ctx.CreateBuffer(target, int(desc.SizeInBytes), data, bufferUsage(desc))
	if err != nil {
		return nil, err
	}
	return &buffer{ctx: b.ctx, name: name, target: target}, nil
}

// CreateTexture implements rhi.Backend.
func (b *Backend) CreateTexture(desc rhi.TextureDescription, data []byte) (rhi.NativeTexture, error) {
	f := formats[desc.Format]
	samples, _ := desc.Samples.Count()
	target := TEXTURE_2D
	switch {
	case desc.Cube:
		target = TEXTURE_CUBE_MAP
	case samples > 1:
		target = TEXTURE_2D_MULTISAMPLE
	}
	name, err := b.ctx.CreateTexture(TextureParams{
		Target:         target,
		InternalFormat: f.internal,
		Width:          int(desc.Width),
		Height:         int(desc.Height),
		Levels:         int(desc.MipLevels),
		Samples:        int(samples),
	})
	if err != nil {
		return nil, err
	}
	t := &texture{ctx: b.ctx, name: name, target: target, format: f}
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
	compare := NEVER
	if spec.EnableComparison {
		compare = compareFunc(spec.Comparison)
	}
	aniso := float32(max(spec.MaximumAnisotropy, 1))
	if b.info.MaxAnisotropy > 0 {
		aniso = min(aniso, b.info.MaxAnisotropy)
	}
	name, err := b.ctx.CreateSampler(SamplerParams{
		MinFilter:   minFilter(spec.MinFilter, spec.MipmapFilter, spec.MaxLOD > 0),
		MagFilter:   magFilter(spec.MagFilter),
		WrapS:       wrapMode(spec.AddressModeU),
		WrapT:       wrapMode(spec.AddressModeV),
		WrapR:       wrapMode(spec.AddressModeW),
		MinLOD:      spec.MinLOD,
		MaxLOD:      spec.MaxLOD,
		LODBias:     spec.LODBias,
		Anisotropy:  aniso,
		CompareFunc: compare,
	})
	if err != nil {
		return nil, err
	}
	return &sampler{ctx: b.ctx, name: name}, nil
}

// CreateShaderModule implements rhi.Backend. GLSL is compiled when a
// pipeline links the module, so compile errors surface as pipeline
// compilation errors.
func (b *Backend) CreateShaderModule(spec rhi.ShaderModuleSpecification) (rhi.NativeShaderModule, error) {
	switch spec.Language {
	case rhi.ShaderLanguageGLSL, rhi.ShaderLanguageGLSLES:
		return &shader{stage: spec.Stage, name: spec.Name, source: spec.Source}, nil
	}
	return nil, &rhi.ResourceCreationError{
		Resource: "shader module",
		Name:     spec.Name,
		Reason:   "OpenGL accepts GLSL sources, got " + spec.Language.String(),
	}
}

// CreatePipeline implements rhi.Backend.
func (b *Backend) CreatePipeline(p *rhi.Pipeline) (rhi.NativePipeline, error) {
	return newPipeline(b, p)
}

// CreateFramebuffer implements rhi.Backend.
func (b *Backend) CreateFramebuffer(att rhi.FramebufferAttachments) (rhi.NativeFramebuffer, error) {
	colors := make([]uint32, len(att.Colors))
	colorTarget := TEXTURE_2D
	if att.Specification.Samples != rhi.SampleCount1 {
		colorTarget = TEXTURE_2D_MULTISAMPLE
	}
	for i, t := range att.Colors {
		colors[i] = t.Native().(*texture).name
	}
	var depth uint32
	attachment := DEPTH_ATTACHMENT
	if att.Depth != nil {
		depth = att.Depth.Native().(*texture).name
		if att.Depth.Description().Format.HasStencil() {
			attachment = DEPTH_STENCIL_ATTACHMENT
		}
	}
	name, err := b.ctx.CreateFramebuffer(colors, colorTarget, depth, attachment)
	if err != nil {
		return nil, err
	}
	return &framebuffer{ctx: b.ctx, name: name}, nil
}

// NewExecutor implements rhi.Backend.
func (b *Backend) NewExecutor() rhi.CommandExecutor {
	return &Executor{ctx: b.ctx}
}

// WaitForIdle implements rhi.Backend.
func (b *Backend) WaitForIdle() error {
	b.ctx.Finish()
	return nil
}

// Destroy implements rhi.Backend. The context itself belongs to the
// windowing layer.
func (b *Backend) Destroy() {}
