package opengl

import (
	"github.com/nexusgfx/rhi"
)

// glFormat is the internal format plus the external format and type used
// for uploads.
type glFormat struct {
	internal Enum
	format   Enum
	typ      Enum
}

var formats = map[rhi.PixelFormat]glFormat{
	rhi.PixelFormatR8Unorm:              {R8, RED, UNSIGNED_BYTE},
	rhi.PixelFormatRG8Unorm:             {RG8, RG, UNSIGNED_BYTE},
	rhi.PixelFormatRGBA8Unorm:           {RGBA8, RGBA, UNSIGNED_BYTE},
	rhi.PixelFormatRGBA8UnormSRGB:       {SRGB8_ALPHA8, RGBA, UNSIGNED_BYTE},
	rhi.PixelFormatBGRA8Unorm:           {RGBA8, BGRA, UNSIGNED_BYTE},
	rhi.PixelFormatBGRA8UnormSRGB:       {SRGB8_ALPHA8, BGRA, UNSIGNED_BYTE},
	rhi.PixelFormatR16Float:             {R16F, RED, HALF_FLOAT},
	rhi.PixelFormatRG16Float:            {RG16F, RG, HALF_FLOAT},
	rhi.PixelFormatRGBA16Float:          {RGBA16F, RGBA, HALF_FLOAT},
	rhi.PixelFormatR32Float:             {R32F, RED, FLOAT},
	rhi.PixelFormatRG32Float:            {RG32F, RG, FLOAT},
	rhi.PixelFormatRGBA32Float:          {RGBA32F, RGBA, FLOAT},
	rhi.PixelFormatR32Uint:              {R32UI, RED_INTEGER, UNSIGNED_INT},
	rhi.PixelFormatDepth24PlusStencil8:  {DEPTH24_STENCIL8, DEPTH_STENCIL, UNSIGNED_INT_24_8},
	rhi.PixelFormatDepth32Float:         {DEPTH_COMPONENT32F, DEPTH_COMPONENT, FLOAT},
	rhi.PixelFormatDepth32FloatStencil8: {DEPTH32F_STENCIL8, DEPTH_STENCIL, FLOAT_32_UNSIGNED_INT_24_8_REV},
}

func bufferTarget(t rhi.BufferType) Enum {
	switch t {
	case rhi.BufferTypeVertex:
		return ARRAY_BUFFER
	case rhi.BufferTypeIndex:
		return ELEMENT_ARRAY_BUFFER
	case rhi.BufferTypeUniform:
		return UNIFORM_BUFFER
	case rhi.BufferTypeUpload:
		return COPY_READ_BUFFER
	case rhi.BufferTypeReadback:
		return COPY_WRITE_BUFFER
	case rhi.BufferTypeIndirect:
		return DRAW_INDIRECT_BUFFER
	default:
		return SHADER_STORAGE_BUFFER
	}
}

func bufferUsage(desc rhi.BufferDescription) Enum {
	switch {
	case desc.Type == rhi.BufferTypeReadback:
		return STREAM_READ
	case desc.HostVisible:
		return DYNAMIC_DRAW
	default:
		return STATIC_DRAW
	}
}

func primitive(t rhi.Topology) Enum {
	switch t {
	case rhi.TopologyTriangleStrip:
		return TRIANGLE_STRIP
	case rhi.TopologyLineList:
		return LINES
	case rhi.TopologyLineStrip:
		return LINE_STRIP
	case rhi.TopologyPointList:
		return POINTS
	default:
		return TRIANGLES
	}
}

func indexType(f rhi.IndexFormat) Enum {
	if f == rhi.IndexFormatUInt32 {
		return UNSIGNED_INT
	}
	return UNSIGNED_SHORT
}

func shaderType(s rhi.ShaderStage) Enum {
	switch s {
	case rhi.ShaderStageFragment:
		return FRAGMENT_SHADER
	case rhi.ShaderStageCompute:
		return COMPUTE_SHADER
	default:
		return VERTEX_SHADER
	}
}

func compareFunc(f rhi.ComparisonFunction) Enum {
	switch f {
	case rhi.ComparisonNever:
		return NEVER
	case rhi.ComparisonLess:
		return LESS
	case rhi.ComparisonLessEqual:
		return LEQUAL
	case rhi.ComparisonEqual:
		return EQUAL
	case rhi.ComparisonNotEqual:
		return NOTEQUAL
	case rhi.ComparisonGreater:
		return GREATER
	case rhi.ComparisonGreaterEqual:
		return GEQUAL
	default:
		return ALWAYS
	}
}

func stencilOp(op rhi.StencilOperation) Enum {
	switch op {
	case rhi.StencilZero:
		return ZERO
	case rhi.StencilReplace:
		return REPLACE
	case rhi.StencilIncrementClamp:
		return INCR
	case rhi.StencilDecrementClamp:
		return DECR
	case rhi.StencilInvert:
		return INVERT
	case rhi.StencilIncrementWrap:
		return INCR_WRAP
	case rhi.StencilDecrementWrap:
		return DECR_WRAP
	default:
		return KEEP
	}
}

func blendFactor(f rhi.BlendFactor) Enum {
	switch f {
	case rhi.BlendZero:
		return ZERO
	case rhi.BlendSourceColor:
		return SRC_COLOR
	case rhi.BlendOneMinusSourceColor:
		return ONE_MINUS_SRC_COLOR
	case rhi.BlendDestinationColor:
		return DST_COLOR
	case rhi.BlendOneMinusDestinationColor:
		return ONE_MINUS_DST_COLOR
	case rhi.BlendSourceAlpha:
		return SRC_ALPHA
	case rhi.BlendOneMinusSourceAlpha:
		return ONE_MINUS_SRC_ALPHA
	case rhi.BlendDestinationAlpha:
		return DST_ALPHA
	case rhi.BlendOneMinusDestinationAlpha:
		return ONE_MINUS_DST_ALPHA
	case rhi.BlendConstant:
		return CONSTANT_COLOR
	case rhi.BlendOneMinusConstant:
		return ONE_MINUS_CONSTANT_COLOR
	default:
		return ONE
	}
}

func blendEquation(e rhi.BlendEquation) Enum {
	switch e {
	case rhi.BlendEquationSubtract:
		return FUNC_SUBTRACT
	case rhi.BlendEquationReverseSubtract:
		return FUNC_REVERSE_SUBTRACT
	case rhi.BlendEquationMin:
		return MIN
	case rhi.BlendEquationMax:
		return MAX
	default:
		return FUNC_ADD
	}
}

func wrapMode(m rhi.AddressMode) Enum {
	switch m {
	case rhi.AddressModeMirrorRepeat:
		return MIRRORED_REPEAT
	case rhi.AddressModeClampToEdge:
		return CLAMP_TO_EDGE
	case rhi.AddressModeClampToBorder:
		return CLAMP_TO_BORDER
	default:
		return REPEAT
	}
}

func minFilter(min, mip rhi.FilterMode, mipmapped bool) Enum {
	switch {
	case !mipmapped && min == rhi.FilterModeLinear:
		return LINEAR
	case !mipmapped:
		return NEAREST
	case min == rhi.FilterModeLinear && mip == rhi.FilterModeLinear:
		return LINEAR_MIPMAP_LINEAR
	case min == rhi.FilterModeLinear:
		return LINEAR_MIPMAP_NEAREST
	case mip == rhi.FilterModeLinear:
		return NEAREST_MIPMAP_LINEAR
	default:
		return NEAREST_MIPMAP_NEAREST
	}
}

func magFilter(f rhi.FilterMode) Enum {
	if f == rhi.FilterModeLinear {
		return LINEAR
	}
	return NEAREST
}

// attribType returns the component type of a vertex attribute and
// whether it is normalized or read as an integer.
func attribType(t rhi.ShaderDataType) (typ Enum, normalized, integer bool) {
	switch t {
	case rhi.ShaderDataTypeInt, rhi.ShaderDataTypeInt2, rhi.ShaderDataTypeInt3, rhi.ShaderDataTypeInt4:
		return INT, false, true
	case rhi.ShaderDataTypeUInt, rhi.ShaderDataTypeUInt2, rhi.ShaderDataTypeUInt3, rhi.ShaderDataTypeUInt4:
		return UNSIGNED_INT, false, true
	case rhi.ShaderDataTypeHalf2, rhi.ShaderDataTypeHalf4:
		return HALF_FLOAT, false, false
	case rhi.ShaderDataTypeByte2, rhi.ShaderDataTypeByte4:
		return UNSIGNED_BYTE, false, true
	case rhi.ShaderDataTypeNormByte2, rhi.ShaderDataTypeNormByte4:
		return UNSIGNED_BYTE, true, false
	case rhi.ShaderDataTypeShort2, rhi.ShaderDataTypeShort4:
		return SHORT, false, true
	case rhi.ShaderDataTypeNormShort2, rhi.ShaderDataTypeNormShort4:
		return SHORT, true, false
	default:
		return FLOAT, false, false
	}
}
