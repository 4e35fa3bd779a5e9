package rhi

// GraphicsAPI identifies a backend family.
type GraphicsAPI uint8

const (
	// GraphicsAPISoftware is the headless validation backend.
	GraphicsAPISoftware GraphicsAPI = iota
	// GraphicsAPIOpenGL is the immediate-mode state machine backend.
	GraphicsAPIOpenGL
	// GraphicsAPIWGPU is the explicit command buffer backend over wgpu HAL,
	// using the platform's default native API.
	GraphicsAPIWGPU
	// GraphicsAPIVulkan is the wgpu HAL backend pinned to Vulkan.
	GraphicsAPIVulkan
)

var graphicsAPINames = [...]string{
	GraphicsAPISoftware: "software",
	GraphicsAPIOpenGL:   "opengl",
	GraphicsAPIWGPU:     "wgpu",
	GraphicsAPIVulkan:   "vulkan",
}

func (a GraphicsAPI) String() string {
	if int(a) < len(graphicsAPINames) {
		return graphicsAPINames[a]
	}
	return "unknown"
}

// ParseGraphicsAPI parses the lowercase name of a graphics API.
func ParseGraphicsAPI(s string) (GraphicsAPI, bool) {
	for i, name := range graphicsAPINames {
		if name == s {
			return GraphicsAPI(i), true
		}
	}
	return 0, false
}

// PixelFormat is a texel format shared by textures, framebuffers and swapchains.
type PixelFormat uint8

// Pixel formats.
const (
	PixelFormatNone PixelFormat = iota
	PixelFormatR8Unorm
	PixelFormatRG8Unorm
	PixelFormatRGBA8Unorm
	PixelFormatRGBA8UnormSRGB
	PixelFormatBGRA8Unorm
	PixelFormatBGRA8UnormSRGB
	PixelFormatR16Float
	PixelFormatRG16Float
	PixelFormatRGBA16Float
	PixelFormatR32Float
	PixelFormatRG32Float
	PixelFormatRGBA32Float
	PixelFormatR32Uint
	PixelFormatDepth24PlusStencil8
	PixelFormatDepth32Float
	PixelFormatDepth32FloatStencil8
)

type pixelFormatInfo struct {
	name  string
	size  uint32
	depth bool
}

var pixelFormats = [...]pixelFormatInfo{
	PixelFormatNone:                 {"None", 0, false},
	PixelFormatR8Unorm:              {"R8Unorm", 1, false},
	PixelFormatRG8Unorm:             {"RG8Unorm", 2, false},
	PixelFormatRGBA8Unorm:           {"RGBA8Unorm", 4, false},
	PixelFormatRGBA8UnormSRGB:       {"RGBA8UnormSRGB", 4, false},
	PixelFormatBGRA8Unorm:           {"BGRA8Unorm", 4, false},
	PixelFormatBGRA8UnormSRGB:       {"BGRA8UnormSRGB", 4, false},
	PixelFormatR16Float:             {"R16Float", 2, false},
	PixelFormatRG16Float:            {"RG16Float", 4, false},
	PixelFormatRGBA16Float:          {"RGBA16Float", 8, false},
	PixelFormatR32Float:             {"R32Float", 4, false},
	PixelFormatRG32Float:            {"RG32Float", 8, false},
	PixelFormatRGBA32Float:          {"RGBA32Float", 16, false},
	PixelFormatR32Uint:              {"R32Uint", 4, false},
	PixelFormatDepth24PlusStencil8:  {"Depth24PlusStencil8", 4, true},
	PixelFormatDepth32Float:         {"Depth32Float", 4, true},
	PixelFormatDepth32FloatStencil8: {"Depth32FloatStencil8", 8, true},
}

func (f PixelFormat) String() string {
	if int(f) < len(pixelFormats) {
		return pixelFormats[f].name
	}
	return "Unknown"
}

// IsValid reports whether f is a known format other than None.
func (f PixelFormat) IsValid() bool {
	return f != PixelFormatNone && int(f) < len(pixelFormats)
}

// IsDepth reports whether f is a depth or depth-stencil format.
func (f PixelFormat) IsDepth() bool {
	return int(f) < len(pixelFormats) && pixelFormats[f].depth
}

// HasStencil reports whether f carries a stencil aspect.
func (f PixelFormat) HasStencil() bool {
	return f == PixelFormatDepth24PlusStencil8 || f == PixelFormatDepth32FloatStencil8
}

// BytesPerPixel returns the texel size, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() uint32 {
	if int(f) < len(pixelFormats) {
		return pixelFormats[f].size
	}
	return 0
}

// TextureUsage is a bit set describing how a texture will be used.
type TextureUsage uint8

const (
	// TextureUsageSampled allows binding as a combined image sampler.
	TextureUsageSampled TextureUsage = 1 << iota
	// TextureUsageRenderTarget allows use as a framebuffer color attachment.
	TextureUsageRenderTarget
	// TextureUsageStorage allows shader writes.
	TextureUsageStorage
	// TextureUsageDepthStencil allows use as a depth attachment.
	TextureUsageDepthStencil
)

// Has reports whether all bits of flag are set.
func (u TextureUsage) Has(flag TextureUsage) bool { return u&flag == flag }

// Color is a linear RGBA color used by clear commands.
type Color struct {
	R, G, B, A float32
}

// Viewport maps normalized device coordinates onto a target, in pixels with
// a top-left origin. Backends with a bottom-left origin flip it.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// Scissor is a pixel rectangle with a top-left origin.
type Scissor struct {
	X, Y          uint32
	Width, Height uint32
}

// GraphicsCapabilities describes backend limits so callers can adapt
// parameters instead of failing.
type GraphicsCapabilities struct {
	// MaxSamples is the highest supported SampleCount.
	MaxSamples SampleCount
	// SupportsLODBias reports whether samplers accept a LOD bias.
	SupportsLODBias bool
	// SupportsMultisampledTextures reports whether framebuffers may be multisampled.
	SupportsMultisampledTextures bool
	// SupportsMultipleSwapchains reports whether more than one window may be driven.
	SupportsMultipleSwapchains bool
	// MaxResourceSlots bounds the linear descriptor slots a pipeline may declare.
	MaxResourceSlots uint32
	// MaxVertexBuffers bounds the vertex buffer slots.
	MaxVertexBuffers uint32
}
