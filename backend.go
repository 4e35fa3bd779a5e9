package rhi

// Backend is implemented by each graphics API integration. A GraphicsDevice
// resolves exactly one Backend at creation and never switches it.
//
// Backends only see descriptions that already passed the API-independent
// checks in this package. They still reject what their native API cannot
// do, such as an unsupported format.
type Backend interface {
	API() GraphicsAPI
	DeviceName() string
	Capabilities() GraphicsCapabilities
	UVCorrection() float32
	UVOriginTopLeft() bool
	SupportedShaderLanguage() ShaderLanguage
	SupportsFormat(format PixelFormat, usage TextureUsage) bool

	CreateBuffer(desc BufferDescription, data []byte) (NativeBuffer, error)
	CreateTexture(desc TextureDescription, data []byte) (NativeTexture, error)
	CreateSampler(spec SamplerSpecification) (NativeSampler, error)
	CreateShaderModule(spec ShaderModuleSpecification) (NativeShaderModule, error)
	// CreatePipeline compiles p. The pipeline's slot table is already built.
	CreatePipeline(p *Pipeline) (NativePipeline, error)
	CreateFramebuffer(att FramebufferAttachments) (NativeFramebuffer, error)

	// NewExecutor returns the executor used for every submission.
	NewExecutor() CommandExecutor
	WaitForIdle() error
	Destroy()
}

// NativeResource is the backend half of a resource.
type NativeResource interface {
	Destroy()
}

// NativeBuffer is the backend half of a DeviceBuffer.
type NativeBuffer interface {
	NativeResource
	Write(offset uint64, data []byte) error
	Read(offset uint64, dst []byte) error
}

// NativeTexture is the backend half of a Texture2D or Cubemap.
type NativeTexture interface {
	NativeResource
	Write(region TextureRegion, data []byte) error
}

// NativeSampler is the backend half of a Sampler.
type NativeSampler interface{ NativeResource }

// NativeShaderModule is the backend half of a ShaderModule.
type NativeShaderModule interface{ NativeResource }

// NativePipeline is the backend half of a Pipeline.
type NativePipeline interface{ NativeResource }

// NativeFramebuffer is the backend half of a Framebuffer.
type NativeFramebuffer interface{ NativeResource }
