package shader

import (
	_ "embed"

	"github.com/nexusgfx/rhi"
)

// Fullscreen samples Texture across a quad in LayoutPositionTexCoord.
//
//go:embed wgsl/fullscreen.wgsl
var Fullscreen string

// Mesh draws LayoutPositionTexCoordNormal vertices with a Camera uniform
// and an Albedo texture.
//
//go:embed wgsl/mesh.wgsl
var Mesh string

// UI draws LayoutUI vertices with a Projection uniform and a Texture.
//
//go:embed wgsl/ui.wgsl
var UI string

// Resource declarations matching the built-in shaders.
var (
	FullscreenResources = rhi.ResourceSetSpecification{
		SampledImages: []rhi.ResourceBinding{{Name: "Texture", Set: 0, Binding: 0}},
	}
	MeshResources = rhi.ResourceSetSpecification{
		UniformBuffers: []rhi.ResourceBinding{{Name: "Camera", Set: 0, Binding: 0}},
		SampledImages:  []rhi.ResourceBinding{{Name: "Albedo", Set: 0, Binding: 1}},
	}
	UIResources = rhi.ResourceSetSpecification{
		UniformBuffers: []rhi.ResourceBinding{{Name: "Projection", Set: 0, Binding: 0}},
		SampledImages:  []rhi.ResourceBinding{{Name: "Texture", Set: 0, Binding: 1}},
	}
)

// LayoutUI is a float2 position, float2 texture coordinate and a
// normalized byte4 color.
var LayoutUI = rhi.NewVertexBufferLayout(rhi.StepRateVertex,
	rhi.NewVertexBufferElement(rhi.ShaderDataTypeFloat2, "Position"),
	rhi.NewVertexBufferElement(rhi.ShaderDataTypeFloat2, "TexCoord"),
	rhi.NewVertexBufferElement(rhi.ShaderDataTypeNormByte4, "Color"))
