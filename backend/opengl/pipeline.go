package opengl

import (
	"github.com/cockroachdb/errors"

	"github.com/nexusgfx/rhi"
)

// attrib is one enabled vertex attribute of a graphics pipeline.
type attrib struct {
	location   int
	slot       int
	size       int
	typ        Enum
	normalized bool
	integer    bool
	stride     int
	offset     int
	divisor    int
}

// binding maps a linear resource slot to a dense GL binding point: a
// uniform block index or a texture unit.
type binding struct {
	slot  rhi.SlotInfo
	point int
}

type pipeline struct {
	ctx      Context
	program  uint32
	vao      uint32
	compute  bool
	mode     Enum
	attribs  []attrib
	bindings []binding
	desc     rhi.PipelineDescription
}

func newPipeline(b *Backend, p *rhi.Pipeline) (*pipeline, error) {
	fail := func(reason string, err error) error {
		diag := ""
		if err != nil {
			diag = err.Error()
		}
		return &rhi.PipelineCompilationError{Pipeline: p.Name(), Reason: reason, Diagnostic: diag}
	}

	var modules []*rhi.ShaderModule
	if p.Type() == rhi.PipelineTypeCompute {
		modules = []*rhi.ShaderModule{p.ComputeDescription().ComputeModule}
	} else {
		desc := p.Description()
		modules = []*rhi.ShaderModule{desc.VertexModule, desc.FragmentModule}
	}

	shaders := make([]uint32, 0, len(modules))
	defer func() {
		for _, s := range shaders {
			b.ctx.DeleteShader(s)
		}
	}()
	for _, m := range modules {
		src := m.Native().(*shader)
		s, err := b.ctx.CreateShader(shaderType(src.stage), src.source)
		if err != nil {
			return nil, fail(src.stage.String()+" shader "+src.name+" failed to compile", err)
		}
		shaders = append(shaders, s)
	}
	program, err := b.ctx.CreateProgram(shaders...)
	if err != nil {
		return nil, fail("program failed to link", err)
	}

	np := &pipeline{ctx: b.ctx, program: program, compute: p.Type() == rhi.PipelineTypeCompute}
	if err := np.assignBindings(b, p.Slots()); err != nil {
		b.ctx.DeleteProgram(program)
		return nil, fail(err.Error(), nil)
	}
	if !np.compute {
		np.desc = p.Description()
		np.mode = primitive(np.desc.Topology)
		np.vao = b.ctx.CreateVertexArray()
		np.attribs = vertexAttribs(np.desc.Layouts)
	}
	return np, nil
}

// assignBindings compacts the sparse slot table into consecutive uniform
// block indices and texture units, in slot order.
func (p *pipeline) assignBindings(b *Backend, slots []rhi.SlotInfo) error {
	var blocks, units int
	for _, s := range slots {
		switch s.Kind {
		case rhi.SlotUniformBuffer:
			if b.info.MaxUniformBufferBindings > 0 && blocks >= b.info.MaxUniformBufferBindings {
				return errors.Newf("uniform block %q exceeds %d bindings", s.Name, b.info.MaxUniformBufferBindings)
			}
			if !b.ctx.UniformBlockBinding(p.program, s.Name, blocks) {
				rhi.Logger().Warn("opengl: uniform block not active in program", "name", s.Name)
			}
			p.bindings = append(p.bindings, binding{slot: s, point: blocks})
			blocks++
		case rhi.SlotCombinedImageSampler:
			if b.info.MaxTextureImageUnits > 0 && units >= b.info.MaxTextureImageUnits {
				return errors.Newf("sampler %q exceeds %d texture units", s.Name, b.info.MaxTextureImageUnits)
			}
			if !b.ctx.SamplerUniform(p.program, s.Name, units) {
				rhi.Logger().Warn("opengl: sampler uniform not active in program", "name", s.Name)
			}
			p.bindings = append(p.bindings, binding{slot: s, point: units})
			units++
		}
	}
	return nil
}

// vertexAttribs numbers attributes sequentially across the layouts in slot
// order. Padding elements take no location.
func vertexAttribs(layouts []rhi.VertexBufferLayout) []attrib {
	var out []attrib
	for slot, l := range layouts {
		divisor := 0
		if l.StepRate == rhi.StepRateInstance {
			divisor = 1
		}
		for _, e := range l.Attributes() {
			typ, norm, integer := attribType(e.Type)
			out = append(out, attrib{
				location:   len(out),
				slot:       slot,
				size:       int(e.Type.ComponentCount()),
				typ:        typ,
				normalized: norm,
				integer:    integer,
				stride:     int(l.Stride()),
				offset:     int(e.Offset),
				divisor:    divisor,
			})
		}
	}
	return out
}

func (p *pipeline) Destroy() {
	if p.vao != 0 {
		p.ctx.DeleteVertexArray(p.vao)
	}
	p.ctx.DeleteProgram(p.program)
}
