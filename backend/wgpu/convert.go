package wgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/nexusgfx/rhi"
)

var formats = map[rhi.PixelFormat]gputypes.TextureFormat{
	rhi.PixelFormatR8Unorm:              gputypes.TextureFormatR8Unorm,
	rhi.PixelFormatRG8Unorm:             gputypes.TextureFormatRG8Unorm,
	rhi.PixelFormatRGBA8Unorm:           gputypes.TextureFormatRGBA8Unorm,
	rhi.PixelFormatRGBA8UnormSRGB:       gputypes.TextureFormatRGBA8UnormSrgb,
	rhi.PixelFormatBGRA8Unorm:           gputypes.TextureFormatBGRA8Unorm,
	rhi.PixelFormatBGRA8UnormSRGB:       gputypes.TextureFormatBGRA8UnormSrgb,
	rhi.PixelFormatR16Float:             gputypes.TextureFormatR16Float,
	rhi.PixelFormatRG16Float:            gputypes.TextureFormatRG16Float,
	rhi.PixelFormatRGBA16Float:          gputypes.TextureFormatRGBA16Float,
	rhi.PixelFormatR32Float:             gputypes.TextureFormatR32Float,
	rhi.PixelFormatRG32Float:            gputypes.TextureFormatRG32Float,
	rhi.PixelFormatRGBA32Float:          gputypes.TextureFormatRGBA32Float,
	rhi.PixelFormatR32Uint:              gputypes.TextureFormatR32Uint,
	rhi.PixelFormatDepth24PlusStencil8:  gputypes.TextureFormatDepth24PlusStencil8,
	rhi.PixelFormatDepth32Float:         gputypes.TextureFormatDepth32Float,
	rhi.PixelFormatDepth32FloatStencil8: gputypes.TextureFormatDepth32FloatStencil8,
}

// PixelFormatOf maps a surface format back to an rhi format.
func PixelFormatOf(f gputypes.TextureFormat) (rhi.PixelFormat, bool) {
	for p, g := range formats {
		if g == f {
			return p, true
		}
	}
	return rhi.PixelFormatNone, false
}

// storable lists the formats WebGPU allows as storage textures.
var storable = map[rhi.PixelFormat]bool{
	rhi.PixelFormatRGBA8Unorm:  true,
	rhi.PixelFormatRGBA16Float: true,
	rhi.PixelFormatR32Float:    true,
	rhi.PixelFormatRG32Float:   true,
	rhi.PixelFormatRGBA32Float: true,
	rhi.PixelFormatR32Uint:     true,
}

func bufferUsage(desc rhi.BufferDescription) gputypes.BufferUsage {
	u := gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst
	switch desc.Type {
	case rhi.BufferTypeVertex:
		u |= gputypes.BufferUsageVertex
	case rhi.BufferTypeIndex:
		u |= gputypes.BufferUsageIndex
	case rhi.BufferTypeUniform:
		u |= gputypes.BufferUsageUniform
	case rhi.BufferTypeIndirect:
		u |= gputypes.BufferUsageIndirect | gputypes.BufferUsageStorage
	case rhi.BufferTypeStorage:
		u |= gputypes.BufferUsageStorage
	case rhi.BufferTypeReadback:
		u = gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst
	case rhi.BufferTypeUpload:
		u = gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc
	}
	return u
}

func textureUsage(u rhi.TextureUsage) gputypes.TextureUsage {
	out := gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst
	if u.Has(rhi.TextureUsageSampled) {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u.Has(rhi.TextureUsageRenderTarget) || u.Has(rhi.TextureUsageDepthStencil) {
		out |= gputypes.TextureUsageRenderAttachment
	}
	if u.Has(rhi.TextureUsageStorage) {
		out |= gputypes.TextureUsageStorageBinding
	}
	return out
}

func topology(t rhi.Topology) gputypes.PrimitiveTopology {
	switch t {
	case rhi.TopologyTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	case rhi.TopologyLineList:
		return gputypes.PrimitiveTopologyLineList
	case rhi.TopologyLineStrip:
		return gputypes.PrimitiveTopologyLineStrip
	case rhi.TopologyPointList:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

func indexFormat(f rhi.IndexFormat) gputypes.IndexFormat {
	if f == rhi.IndexFormatUInt32 {
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUint16
}

func cullMode(m rhi.CullMode) gputypes.CullMode {
	switch m {
	case rhi.CullModeFront:
		return gputypes.CullModeFront
	case rhi.CullModeBack:
		return gputypes.CullModeBack
	default:
		return gputypes.CullModeNone
	}
}

func frontFace(f rhi.FrontFace) gputypes.FrontFace {
	if f == rhi.FrontFaceClockwise {
		return gputypes.FrontFaceCW
	}
	return gputypes.FrontFaceCCW
}

func compareFunc(f rhi.ComparisonFunction) gputypes.CompareFunction {
	switch f {
	case rhi.ComparisonNever:
		return gputypes.CompareFunctionNever
	case rhi.ComparisonLess:
		return gputypes.CompareFunctionLess
	case rhi.ComparisonLessEqual:
		return gputypes.CompareFunctionLessEqual
	case rhi.ComparisonEqual:
		return gputypes.CompareFunctionEqual
	case rhi.ComparisonNotEqual:
		return gputypes.CompareFunctionNotEqual
	case rhi.ComparisonGreater:
		return gputypes.CompareFunctionGreater
	case rhi.ComparisonGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual
	default:
		return gputypes.CompareFunctionAlways
	}
}

func stencilOp(op rhi.StencilOperation) hal.StencilOperation {
	switch op {
	case rhi.StencilZero:
		return hal.StencilOperationZero
	case rhi.StencilReplace:
		return hal.StencilOperationReplace
	case rhi.StencilIncrementClamp:
		return hal.StencilOperationIncrementClamp
	case rhi.StencilDecrementClamp:
		return hal.StencilOperationDecrementClamp
	case rhi.StencilInvert:
		return hal.StencilOperationInvert
	case rhi.StencilIncrementWrap:
		return hal.StencilOperationIncrementWrap
	case rhi.StencilDecrementWrap:
		return hal.StencilOperationDecrementWrap
	default:
		return hal.StencilOperationKeep
	}
}

func blendFactor(f rhi.BlendFactor) gputypes.BlendFactor {
	switch f {
	case rhi.BlendZero:
		return gputypes.BlendFactorZero
	case rhi.BlendSourceColor:
		return gputypes.BlendFactorSrc
	case rhi.BlendOneMinusSourceColor:
		return gputypes.BlendFactorOneMinusSrc
	case rhi.BlendDestinationColor:
		return gputypes.BlendFactorDst
	case rhi.BlendOneMinusDestinationColor:
		return gputypes.BlendFactorOneMinusDst
	case rhi.BlendSourceAlpha:
		return gputypes.BlendFactorSrcAlpha
	case rhi.BlendOneMinusSourceAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	case rhi.BlendDestinationAlpha:
		return gputypes.BlendFactorDstAlpha
	case rhi.BlendOneMinusDestinationAlpha:
		return gputypes.BlendFactorOneMinusDstAlpha
	case rhi.BlendConstant:
		return gputypes.BlendFactorConstant
	case rhi.BlendOneMinusConstant:
		return gputypes.BlendFactorOneMinusConstant
	default:
		return gputypes.BlendFactorOne
	}
}

func blendOperation(e rhi.BlendEquation) gputypes.BlendOperation {
	switch e {
	case rhi.BlendEquationSubtract:
		return gputypes.BlendOperationSubtract
	case rhi.BlendEquationReverseSubtract:
		return gputypes.BlendOperationReverseSubtract
	case rhi.BlendEquationMin:
		return gputypes.BlendOperationMin
	case rhi.BlendEquationMax:
		return gputypes.BlendOperationMax
	default:
		return gputypes.BlendOperationAdd
	}
}

// blendState returns nil when blending is off.
func blendState(b rhi.BlendStateDescription) *gputypes.BlendState {
	if !b.EnableBlending {
		return nil
	}
	return &gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: blendFactor(b.SourceColorBlend),
			DstFactor: blendFactor(b.DestinationColorBlend),
			Operation: blendOperation(b.ColorBlendEquation),
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: blendFactor(b.SourceAlphaBlend),
			DstFactor: blendFactor(b.DestinationAlphaBlend),
			Operation: blendOperation(b.AlphaBlendEquation),
		},
	}
}

func addressMode(m rhi.AddressMode) gputypes.AddressMode {
	switch m {
	case rhi.AddressModeMirrorRepeat:
		return gputypes.AddressModeMirrorRepeat
	case rhi.AddressModeRepeat:
		return gputypes.AddressModeRepeat
	default:
		// WebGPU has no border color; clamp to edge is the closest match.
		return gputypes.AddressModeClampToEdge
	}
}

func filterMode(f rhi.FilterMode) gputypes.FilterMode {
	if f == rhi.FilterModeLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

var vertexFormats = map[rhi.ShaderDataType]gputypes.VertexFormat{
	rhi.ShaderDataTypeFloat:      gputypes.VertexFormatFloat32,
	rhi.ShaderDataTypeFloat2:     gputypes.VertexFormatFloat32x2,
	rhi.ShaderDataTypeFloat3:     gputypes.VertexFormatFloat32x3,
	rhi.ShaderDataTypeFloat4:     gputypes.VertexFormatFloat32x4,
	rhi.ShaderDataTypeInt:        gputypes.VertexFormatSint32,
	rhi.ShaderDataTypeInt2:       gputypes.VertexFormatSint32x2,
	rhi.ShaderDataTypeInt3:       gputypes.VertexFormatSint32x3,
	rhi.ShaderDataTypeInt4:       gputypes.VertexFormatSint32x4,
	rhi.ShaderDataTypeUInt:       gputypes.VertexFormatUint32,
	rhi.ShaderDataTypeUInt2:      gputypes.VertexFormatUint32x2,
	rhi.ShaderDataTypeUInt3:      gputypes.VertexFormatUint32x3,
	rhi.ShaderDataTypeUInt4:      gputypes.VertexFormatUint32x4,
	rhi.ShaderDataTypeHalf2:      gputypes.VertexFormatFloat16x2,
	rhi.ShaderDataTypeHalf4:      gputypes.VertexFormatFloat16x4,
	rhi.ShaderDataTypeByte2:      gputypes.VertexFormatUint8x2,
	rhi.ShaderDataTypeByte4:      gputypes.VertexFormatUint8x4,
	rhi.ShaderDataTypeNormByte2:  gputypes.VertexFormatUnorm8x2,
	rhi.ShaderDataTypeNormByte4:  gputypes.VertexFormatUnorm8x4,
	rhi.ShaderDataTypeShort2:     gputypes.VertexFormatSint16x2,
	rhi.ShaderDataTypeShort4:     gputypes.VertexFormatSint16x4,
	rhi.ShaderDataTypeNormShort2: gputypes.VertexFormatSnorm16x2,
	rhi.ShaderDataTypeNormShort4: gputypes.VertexFormatSnorm16x4,
}

// vertexBuffers converts layouts into WebGPU buffer layouts. Shader
// locations are assigned in order across all layouts.
func vertexBuffers(layouts []rhi.VertexBufferLayout) []gputypes.VertexBufferLayout {
	out := make([]gputypes.VertexBufferLayout, len(layouts))
	location := uint32(0)
	for i, l := range layouts {
		step := gputypes.VertexStepModeVertex
		if l.StepRate == rhi.StepRateInstance {
			step = gputypes.VertexStepModeInstance
		}
		attrs := make([]gputypes.VertexAttribute, 0, len(l.Attributes()))
		for _, e := range l.Attributes() {
			attrs = append(attrs, gputypes.VertexAttribute{
				Format:         vertexFormats[e.Type],
				Offset:         uint64(e.Offset),
				ShaderLocation: location,
			})
			location++
		}
		out[i] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(l.Stride()),
			StepMode:    step,
			Attributes:  attrs,
		}
	}
	return out
}
