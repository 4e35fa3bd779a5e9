package rhi

// ComparisonFunction is used by depth, stencil and comparison samplers.
type ComparisonFunction uint8

const (
	ComparisonAlways ComparisonFunction = iota
	ComparisonNever
	ComparisonLess
	ComparisonLessEqual
	ComparisonEqual
	ComparisonNotEqual
	ComparisonGreater
	ComparisonGreaterEqual
)

// StencilOperation is applied to the stencil buffer on test outcomes.
type StencilOperation uint8

const (
	StencilKeep StencilOperation = iota
	StencilZero
	StencilReplace
	StencilIncrementClamp
	StencilDecrementClamp
	StencilInvert
	StencilIncrementWrap
	StencilDecrementWrap
)

// DepthStencilDescription configures depth and stencil testing.
type DepthStencilDescription struct {
	EnableDepthTest  bool
	EnableDepthWrite bool
	DepthComparison  ComparisonFunction

	EnableStencilTest  bool
	StencilComparison  ComparisonFunction
	StencilFailOp      StencilOperation
	StencilDepthFailOp StencilOperation
	StencilPassOp      StencilOperation
	StencilReadMask    uint8
	StencilWriteMask   uint8
}

// CullMode selects which triangle faces are discarded.
type CullMode uint8

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// FillMode selects solid or wireframe rasterization.
type FillMode uint8

const (
	FillModeSolid FillMode = iota
	FillModeWireframe
)

// FrontFace selects the winding of front-facing triangles.
type FrontFace uint8

const (
	FrontFaceCounterClockwise FrontFace = iota
	FrontFaceClockwise
)

// RasterizerStateDescription configures rasterization.
type RasterizerStateDescription struct {
	CullMode          CullMode
	FillMode          FillMode
	FrontFace         FrontFace
	EnableScissorTest bool
	EnableDepthClip   bool
}

// BlendFactor is a blend equation operand.
type BlendFactor uint8

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSourceColor
	BlendOneMinusSourceColor
	BlendDestinationColor
	BlendOneMinusDestinationColor
	BlendSourceAlpha
	BlendOneMinusSourceAlpha
	BlendDestinationAlpha
	BlendOneMinusDestinationAlpha
	BlendConstant
	BlendOneMinusConstant
)

// BlendEquation combines the blend operands.
type BlendEquation uint8

const (
	BlendEquationAdd BlendEquation = iota
	BlendEquationSubtract
	BlendEquationReverseSubtract
	BlendEquationMin
	BlendEquationMax
)

// BlendStateDescription configures color blending for every color target.
type BlendStateDescription struct {
	EnableBlending        bool
	SourceColorBlend      BlendFactor
	DestinationColorBlend BlendFactor
	ColorBlendEquation    BlendEquation
	SourceAlphaBlend      BlendFactor
	DestinationAlphaBlend BlendFactor
	AlphaBlendEquation    BlendEquation
	DisableColorWriteMask bool
}

// AlphaBlending returns the usual straight-alpha "over" blend state.
func AlphaBlending() BlendStateDescription {
	return BlendStateDescription{
		EnableBlending:        true,
		SourceColorBlend:      BlendSourceAlpha,
		DestinationColorBlend: BlendOneMinusSourceAlpha,
		SourceAlphaBlend:      BlendOne,
		DestinationAlphaBlend: BlendOneMinusSourceAlpha,
	}
}

// Topology is the primitive assembly mode.
type Topology uint8

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
	TopologyLineList
	TopologyLineStrip
	TopologyPointList
)
