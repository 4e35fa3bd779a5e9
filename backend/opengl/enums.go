package opengl

// Enum is an OpenGL enumerant. The constants carry the values of the GL
// headers so Context implementations can pass them through unchanged.
type Enum uint32

// Primitive modes.
const (
	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	LINE_STRIP     Enum = 0x0003
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005
)

// Buffer targets and usages.
const (
	ARRAY_BUFFER          Enum = 0x8892
	ELEMENT_ARRAY_BUFFER  Enum = 0x8893
	UNIFORM_BUFFER        Enum = 0x8A11
	COPY_READ_BUFFER      Enum = 0x8F36
	COPY_WRITE_BUFFER     Enum = 0x8F37
	DRAW_INDIRECT_BUFFER  Enum = 0x8F3F
	SHADER_STORAGE_BUFFER Enum = 0x90D2

	STATIC_DRAW  Enum = 0x88E4
	DYNAMIC_DRAW Enum = 0x88E8
	STREAM_READ  Enum = 0x88E1
)

// Data types.
const (
	BYTE           Enum = 0x1400
	UNSIGNED_BYTE  Enum = 0x1401
	SHORT          Enum = 0x1402
	UNSIGNED_SHORT Enum = 0x1403
	INT            Enum = 0x1404
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406
	HALF_FLOAT     Enum = 0x140B

	UNSIGNED_INT_24_8              Enum = 0x84FA
	FLOAT_32_UNSIGNED_INT_24_8_REV Enum = 0x8DAD
)

// Texture targets.
const (
	TEXTURE_2D                  Enum = 0x0DE1
	TEXTURE_CUBE_MAP            Enum = 0x8513
	TEXTURE_CUBE_MAP_POSITIVE_X Enum = 0x8515
	TEXTURE_2D_MULTISAMPLE      Enum = 0x9100
)

// Pixel formats.
const (
	RED             Enum = 0x1903
	RG              Enum = 0x8227
	RGBA            Enum = 0x1908
	BGRA            Enum = 0x80E1
	RED_INTEGER     Enum = 0x8D94
	DEPTH_COMPONENT Enum = 0x1902
	DEPTH_STENCIL   Enum = 0x84F9

	R8                 Enum = 0x8229
	RG8                Enum = 0x822B
	RGBA8              Enum = 0x8058
	SRGB8_ALPHA8       Enum = 0x8C43
	R16F               Enum = 0x822D
	RG16F              Enum = 0x822F
	RGBA16F            Enum = 0x881A
	R32F               Enum = 0x822E
	RG32F              Enum = 0x8230
	RGBA32F            Enum = 0x8814
	R32UI              Enum = 0x8236
	DEPTH24_STENCIL8   Enum = 0x88F0
	DEPTH_COMPONENT32F Enum = 0x8CAC
	DEPTH32F_STENCIL8  Enum = 0x8CAD
)

// Sampler parameters.
const (
	NEAREST                Enum = 0x2600
	LINEAR                 Enum = 0x2601
	NEAREST_MIPMAP_NEAREST Enum = 0x2700
	LINEAR_MIPMAP_NEAREST  Enum = 0x2701
	NEAREST_MIPMAP_LINEAR  Enum = 0x2702
	LINEAR_MIPMAP_LINEAR   Enum = 0x2703

	REPEAT          Enum = 0x2901
	MIRRORED_REPEAT Enum = 0x8370
	CLAMP_TO_EDGE   Enum = 0x812F
	CLAMP_TO_BORDER Enum = 0x812D
)

// Comparison functions.
const (
	NEVER    Enum = 0x0200
	LESS     Enum = 0x0201
	EQUAL    Enum = 0x0202
	LEQUAL   Enum = 0x0203
	GREATER  Enum = 0x0204
	NOTEQUAL Enum = 0x0205
	GEQUAL   Enum = 0x0206
	ALWAYS   Enum = 0x0207
)

// Stencil operations.
const (
	ZERO      Enum = 0x0000
	KEEP      Enum = 0x1E00
	REPLACE   Enum = 0x1E01
	INCR      Enum = 0x1E02
	DECR      Enum = 0x1E03
	INVERT    Enum = 0x150A
	INCR_WRAP Enum = 0x8507
	DECR_WRAP Enum = 0x8508
)

// Blend factors and equations.
const (
	ONE                      Enum = 0x0001
	SRC_COLOR                Enum = 0x0300
	ONE_MINUS_SRC_COLOR      Enum = 0x0301
	SRC_ALPHA                Enum = 0x0302
	ONE_MINUS_SRC_ALPHA      Enum = 0x0303
	DST_ALPHA                Enum = 0x0304
	ONE_MINUS_DST_ALPHA      Enum = 0x0305
	DST_COLOR                Enum = 0x0306
	ONE_MINUS_DST_COLOR      Enum = 0x0307
	CONSTANT_COLOR           Enum = 0x8001
	ONE_MINUS_CONSTANT_COLOR Enum = 0x8002

	FUNC_ADD              Enum = 0x8006
	MIN                   Enum = 0x8007
	MAX                   Enum = 0x8008
	FUNC_SUBTRACT         Enum = 0x800A
	FUNC_REVERSE_SUBTRACT Enum = 0x800B
)

// Capabilities for Enable and Disable.
const (
	CULL_FACE    Enum = 0x0B44
	DEPTH_TEST   Enum = 0x0B71
	STENCIL_TEST Enum = 0x0B90
	BLEND        Enum = 0x0BE2
	SCISSOR_TEST Enum = 0x0C11
	DEPTH_CLAMP  Enum = 0x864F
)

// Rasterizer state.
const (
	FRONT Enum = 0x0404
	BACK  Enum = 0x0405
	CW    Enum = 0x0900
	CCW   Enum = 0x0901
	LINE  Enum = 0x1B01
	FILL  Enum = 0x1B02
)

// Shader types.
const (
	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	COMPUTE_SHADER  Enum = 0x91B9
)

// Framebuffers.
const (
	READ_FRAMEBUFFER         Enum = 0x8CA8
	DRAW_FRAMEBUFFER         Enum = 0x8CA9
	FRAMEBUFFER              Enum = 0x8D40
	COLOR_ATTACHMENT0        Enum = 0x8CE0
	DEPTH_ATTACHMENT         Enum = 0x8D00
	DEPTH_STENCIL_ATTACHMENT Enum = 0x821A

	COLOR Enum = 0x1800
	DEPTH Enum = 0x1801

	COLOR_BUFFER_BIT Enum = 0x4000

	ALL_BARRIER_BITS Enum = 0xFFFFFFFF
)

// Errors.
const (
	NO_ERROR Enum = 0
)
