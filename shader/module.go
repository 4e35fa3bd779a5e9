package shader

import (
	"github.com/cockroachdb/errors"

	"github.com/nexusgfx/rhi"
)

// Source is one stage of a WGSL program.
type Source struct {
	Name  string
	Stage rhi.ShaderStage
	WGSL  string
	// EntryPoint names the WGSL function. It defaults to "main".
	EntryPoint string
}

// Specification builds the module specification a device with the given
// shader language accepts.
func Specification(lang rhi.ShaderLanguage, src Source) (rhi.ShaderModuleSpecification, error) {
	spec := rhi.ShaderModuleSpecification{
		Name:       src.Name,
		Stage:      src.Stage,
		EntryPoint: src.EntryPoint,
	}
	switch lang {
	case rhi.ShaderLanguageWGSL:
		spec.Language = rhi.ShaderLanguageWGSL
		spec.Source = src.WGSL
	case rhi.ShaderLanguageSPIRV:
		words, err := CompileWGSL(src.WGSL)
		if err != nil {
			return rhi.ShaderModuleSpecification{}, errors.Wrapf(err, "shader %q", src.Name)
		}
		spec.Language = rhi.ShaderLanguageSPIRV
		spec.SPIRV = words
	default:
		return rhi.ShaderModuleSpecification{}, errors.Wrapf(ErrUnsupportedLanguage, "shader %q: %s", src.Name, lang)
	}
	return spec, nil
}

// Create compiles src for device and creates the module.
func Create(device *rhi.GraphicsDevice, src Source, resources rhi.ResourceSetSpecification) (*rhi.ShaderModule, error) {
	spec, err := Specification(device.GetSupportedShaderFormat(), src)
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(spec, resources)
}

// Program is a vertex and fragment stage compiled from one WGSL source.
type Program struct {
	Vertex   *rhi.ShaderModule
	Fragment *rhi.ShaderModule
}

// CreateProgram creates both stages of a WGSL source whose entry points
// are vs_main and fs_main.
func CreateProgram(device *rhi.GraphicsDevice, name, wgsl string, resources rhi.ResourceSetSpecification) (Program, error) {
	vs, err := Create(device, Source{Name: name + ".vert", Stage: rhi.ShaderStageVertex, WGSL: wgsl, EntryPoint: "vs_main"}, resources)
	if err != nil {
		return Program{}, err
	}
	fs, err := Create(device, Source{Name: name + ".frag", Stage: rhi.ShaderStageFragment, WGSL: wgsl, EntryPoint: "fs_main"}, resources)
	if err != nil {
		vs.Destroy()
		return Program{}, err
	}
	return Program{Vertex: vs, Fragment: fs}, nil
}

// Destroy releases both stages.
func (p Program) Destroy() {
	p.Vertex.Destroy()
	p.Fragment.Destroy()
}
