package rhi

import (
	"github.com/nexusgfx/rhi/internal/arena"
)

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage uint8

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
	ShaderStageCompute
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "Vertex"
	case ShaderStageFragment:
		return "Fragment"
	case ShaderStageCompute:
		return "Compute"
	default:
		return "Unknown"
	}
}

// ShaderLanguage is the representation a shader module is supplied in.
type ShaderLanguage uint8

const (
	ShaderLanguageSPIRV ShaderLanguage = iota
	ShaderLanguageWGSL
	ShaderLanguageGLSL
	ShaderLanguageGLSLES
	ShaderLanguageHLSL
	ShaderLanguageMSL
)

var shaderLanguageNames = [...]string{
	ShaderLanguageSPIRV:  "SPIR-V",
	ShaderLanguageWGSL:   "WGSL",
	ShaderLanguageGLSL:   "GLSL",
	ShaderLanguageGLSLES: "GLSL ES",
	ShaderLanguageHLSL:   "HLSL",
	ShaderLanguageMSL:    "MSL",
}

func (l ShaderLanguage) String() string {
	if int(l) < len(shaderLanguageNames) {
		return shaderLanguageNames[l]
	}
	return "Unknown"
}

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

// ShaderModuleSpecification describes one compiled or transpiled shader.
// Text representations use Source; SPIR-V uses SPIRV.
type ShaderModuleSpecification struct {
	Name     string
	Stage    ShaderStage
	Language ShaderLanguage
	Source   string
	SPIRV    []uint32
	// EntryPoint defaults to "main".
	EntryPoint string
}

func (s ShaderModuleSpecification) check() string {
	switch {
	case s.Stage > ShaderStageCompute:
		return "unknown shader stage"
	case int(s.Language) >= len(shaderLanguageNames):
		return "unknown shader language"
	case s.Language == ShaderLanguageSPIRV && len(s.SPIRV) == 0:
		return "empty SPIR-V module"
	case s.Language == ShaderLanguageSPIRV && s.SPIRV[0] != SPIRVMagic:
		return "SPIR-V module has a bad magic number"
	case s.Language != ShaderLanguageSPIRV && s.Source == "":
		return "empty shader source"
	}
	return ""
}

// ShaderModule is a shader stage ready to be linked into a pipeline,
// plus the resources it expects.
type ShaderModule struct {
	device    *GraphicsDevice
	handle    arena.Handle
	spec      ShaderModuleSpecification
	resources ResourceSetSpecification
	native    NativeShaderModule
}

// Specification returns the creation specification.
func (m *ShaderModule) Specification() ShaderModuleSpecification { return m.spec }

// Stage returns the shader stage.
func (m *ShaderModule) Stage() ShaderStage { return m.spec.Stage }

// Resources returns the declared resource bindings.
func (m *ShaderModule) Resources() ResourceSetSpecification { return m.resources }

// Native returns the backend module.
func (m *ShaderModule) Native() NativeShaderModule { return m.native }

// IsValid reports whether the module has not been destroyed.
func (m *ShaderModule) IsValid() bool {
	return m != nil && m.device.shaders.Contains(m.handle)
}

// Destroy releases the module. Pipelines already built from it are unaffected.
func (m *ShaderModule) Destroy() {
	if _, ok := m.device.shaders.Remove(m.handle); ok {
		m.native.Destroy()
	}
}
