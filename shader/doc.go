// Package shader turns WGSL source into shader modules for any device.
//
// Devices that consume WGSL receive the source unchanged. Devices that
// consume SPIR-V receive the output of the naga compiler, cached by source
// so a shader shared by several pipelines compiles once:
//
//	vs, err := shader.Create(device, shader.Source{
//		Name:       "quad.vert",
//		Stage:      rhi.ShaderStageVertex,
//		WGSL:       shader.Fullscreen,
//		EntryPoint: "vs_main",
//	}, rhi.ResourceSetSpecification{})
//
// The package also embeds the WGSL used by the geometry and uirender
// helpers.
package shader
