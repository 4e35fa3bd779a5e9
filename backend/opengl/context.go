package opengl

// Info describes the GL implementation behind a Context.
type Info struct {
	Vendor   string
	Renderer string
	Version  string
	// ES is set for OpenGL ES and WebGL contexts.
	ES bool

	MaxSamples               int
	MaxUniformBufferBindings int
	MaxTextureImageUnits     int
	MaxVertexAttribs         int
	MaxAnisotropy            float32
}

// TextureParams describes a texture allocation.
type TextureParams struct {
	Target         Enum
	InternalFormat Enum
	Width          int
	Height         int
	Levels         int
	Samples        int
}

// SamplerParams describes a sampler object.
type SamplerParams struct {
	MinFilter   Enum
	MagFilter   Enum
	WrapS       Enum
	WrapT       Enum
	WrapR       Enum
	MinLOD      float32
	MaxLOD      float32
	LODBias     float32
	Anisotropy  float32
	CompareFunc Enum // NEVER disables depth comparison
}

// Context is the subset of the OpenGL 4.3 / ES 3.2 API the backend uses.
// Implementations forward each method to the matching gl call on the
// goroutine that owns the GL context. Object names are GL names.
//
// Creation methods return an error carrying the driver's info log when
// compilation, linking or framebuffer completeness fails.
type Context interface {
	Info() Info

	CreateBuffer(target Enum, size int, data []byte, usage Enum) (uint32, error)
	BufferSubData(buffer uint32, offset int, data []byte)
	GetBufferSubData(buffer uint32, offset int, dst []byte) error
	CopyBufferSubData(src, dst uint32, srcOffset, dstOffset, size int)
	DeleteBuffer(buffer uint32)

	CreateTexture(p TextureParams) (uint32, error)
	TexSubImage(texture uint32, target Enum, level, x, y, width, height int, format, typ Enum, data []byte)
	DeleteTexture(texture uint32)

	CreateSampler(p SamplerParams) (uint32, error)
	DeleteSampler(sampler uint32)

	CreateShader(typ Enum, source string) (uint32, error)
	DeleteShader(shader uint32)
	CreateProgram(shaders ...uint32) (uint32, error)
	DeleteProgram(program uint32)
	// UniformBlockBinding assigns a binding point to a named uniform
	// block. It reports false if the program has no such block.
	UniformBlockBinding(program uint32, name string, binding int) bool
	// SamplerUniform assigns a texture unit to a named sampler uniform.
	// It reports false if the program has no such uniform.
	SamplerUniform(program uint32, name string, unit int) bool

	CreateVertexArray() uint32
	DeleteVertexArray(vao uint32)

	// CreateFramebuffer attaches colors in order and an optional depth
	// texture at depthAttachment.
	CreateFramebuffer(colors []uint32, colorTarget Enum, depth uint32, depthAttachment Enum) (uint32, error)
	DeleteFramebuffer(fb uint32)

	UseProgram(program uint32)
	BindVertexArray(vao uint32)
	VertexAttribPointer(buffer uint32, index, size int, typ Enum, normalized, integer bool, stride, offset int)
	VertexAttribDivisor(index, divisor int)
	BindIndexBuffer(buffer uint32)
	BindBufferRange(target Enum, index int, buffer uint32, offset, size int)
	BindTexture(unit int, target Enum, texture uint32)
	BindSampler(unit int, sampler uint32)
	BindFramebuffer(target Enum, fb uint32)
	ReadBuffer(attachment Enum)

	Enable(cap Enum)
	Disable(cap Enum)
	Viewport(x, y, width, height int)
	DepthRange(near, far float64)
	Scissor(x, y, width, height int)
	ColorMask(r, g, b, a bool)
	DepthMask(write bool)
	DepthFunc(fn Enum)
	StencilFunc(fn Enum, ref int, mask uint32)
	StencilOp(fail, depthFail, pass Enum)
	StencilMask(mask uint32)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	BlendEquationSeparate(rgb, alpha Enum)
	BlendColor(r, g, b, a float32)
	CullFace(face Enum)
	FrontFace(dir Enum)
	PolygonMode(mode Enum)

	ClearBufferfv(buffer Enum, drawBuffer int, value [4]float32)
	ClearBufferfi(buffer Enum, drawBuffer int, depth float32, stencil int)

	DrawArrays(mode Enum, first, count int)
	DrawArraysInstanced(mode Enum, first, count, instances, baseInstance int)
	DrawElements(mode Enum, count int, typ Enum, offset, baseVertex int)
	DrawElementsInstanced(mode Enum, count int, typ Enum, offset, instances, baseVertex, baseInstance int)
	DispatchCompute(x, y, z int)
	MemoryBarrier(barriers Enum)

	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int, mask, filter Enum)

	PushDebugGroup(message string)
	PopDebugGroup()
	DebugMessageInsert(message string)

	Finish()
}

// FramebufferSwapchain is implemented by swapchains whose images are a GL
// framebuffer other than the default framebuffer 0.
type FramebufferSwapchain interface {
	Framebuffer() uint32
}
