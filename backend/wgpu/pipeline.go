package wgpu

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/nexusgfx/rhi"
)

type pipeline struct {
	b       *Backend
	name    string
	compute bool
	desc    rhi.PipelineDescription

	render  hal.RenderPipeline
	comp    hal.ComputePipeline
	layout  hal.PipelineLayout
	layouts []hal.BindGroupLayout
	// sets holds the slots of each bind group, indexed by set.
	sets [][]rhi.SlotInfo

	mu     sync.Mutex
	groups map[*rhi.ResourceSet]*boundGroups
}

// boundGroups are the bind groups built from one version of a resource set.
type boundGroups struct {
	version uint64
	groups  []hal.BindGroup
}

func newPipeline(b *Backend, p *rhi.Pipeline) (*pipeline, error) {
	np := &pipeline{
		b:       b,
		name:    p.Name(),
		compute: p.Type() == rhi.PipelineTypeCompute,
		desc:    p.Description(),
		groups:  make(map[*rhi.ResourceSet]*boundGroups),
	}
	visibility := gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	if np.compute {
		visibility = gputypes.ShaderStageCompute
	}
	if err := np.createLayouts(p.Slots(), visibility); err != nil {
		np.Destroy()
		return nil, compileError(np.name, "bind group layout creation failed", err)
	}

	if np.compute {
		cs := p.ComputeDescription().ComputeModule.Native().(*shader)
		raw, err := b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label:   np.name,
			Layout:  np.layout,
			Compute: hal.ComputeState{Module: cs.raw, EntryPoint: cs.entry},
		})
		if err != nil {
			np.Destroy()
			return nil, compileError(np.name, "compute pipeline creation failed", err)
		}
		np.comp = raw
		return np, nil
	}

	d := np.desc
	if d.Rasterizer.FillMode == rhi.FillModeWireframe {
		rhi.Logger().Warn("wgpu: wireframe fill is not supported, drawing solid", "pipeline", np.name)
	}
	vs := d.VertexModule.Native().(*shader)
	fs := d.FragmentModule.Native().(*shader)
	samples, _ := d.Samples.Count()
	raw, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  np.name,
		Layout: np.layout,
		Vertex: hal.VertexState{
			Module:     vs.raw,
			EntryPoint: vs.entry,
			Buffers:    vertexBuffers(d.Layouts),
		},
		Fragment: &hal.FragmentState{
			Module:     fs.raw,
			EntryPoint: fs.entry,
			Targets:    colorTargets(d),
		},
		DepthStencil: depthStencil(d),
		Multisample: gputypes.MultisampleState{
			Count: samples,
			Mask:  0xFFFFFFFF,
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  topology(d.Topology),
			FrontFace: frontFace(d.Rasterizer.FrontFace),
			CullMode:  cullMode(d.Rasterizer.CullMode),
		},
	})
	if err != nil {
		np.Destroy()
		return nil, compileError(np.name, "render pipeline creation failed", err)
	}
	np.render = raw
	return np, nil
}

func compileError(name, reason string, err error) error {
	return &rhi.PipelineCompilationError{
		Pipeline:   name,
		Reason:     reason,
		Diagnostic: err.Error(),
		Err:        err,
	}
}

// createLayouts builds one bind group layout per set up to the highest
// set in use. Sets without slots get empty layouts.
func (p *pipeline) createLayouts(slots []rhi.SlotInfo, visibility gputypes.ShaderStage) error {
	count := 0
	for _, s := range slots {
		count = max(count, int(s.Set)+1)
	}
	if count > maxBindGroups {
		return errors.Newf("set %d exceeds the %d bind groups WebGPU allows", count-1, maxBindGroups)
	}
	p.sets = make([][]rhi.SlotInfo, count)
	for _, s := range slots {
		p.sets[s.Set] = append(p.sets[s.Set], s)
	}

	for set, infos := range p.sets {
		entries := make([]gputypes.BindGroupLayoutEntry, 0, 2*len(infos))
		for _, s := range infos {
			if s.Kind == rhi.SlotUniformBuffer {
				entries = append(entries, gputypes.BindGroupLayoutEntry{
					Binding:    s.Binding,
					Visibility: visibility,
					Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
				})
				continue
			}
			dim := gputypes.TextureViewDimension2D
			if s.Cube {
				dim = gputypes.TextureViewDimensionCube
			}
			entries = append(entries,
				gputypes.BindGroupLayoutEntry{
					Binding:    s.Binding,
					Visibility: visibility,
					Texture: &gputypes.TextureBindingLayout{
						SampleType:    gputypes.TextureSampleTypeFloat,
						ViewDimension: dim,
					},
				},
				gputypes.BindGroupLayoutEntry{
					Binding:    s.Binding + SamplerBindingOffset,
					Visibility: visibility,
					Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
				})
		}
		layout, err := p.b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   p.name,
			Entries: entries,
		})
		if err != nil {
			return errors.Wrapf(err, "set %d", set)
		}
		p.layouts = append(p.layouts, layout)
	}

	layout, err := p.b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.name,
		BindGroupLayouts: p.layouts,
	})
	if err != nil {
		return err
	}
	p.layout = layout
	return nil
}

func colorTargets(d rhi.PipelineDescription) []gputypes.ColorTargetState {
	mask := gputypes.ColorWriteMaskAll
	if d.Blend.DisableColorWriteMask {
		mask = gputypes.ColorWriteMaskNone
	}
	targets := make([]gputypes.ColorTargetState, len(d.ColorFormats))
	for i, f := range d.ColorFormats {
		targets[i] = gputypes.ColorTargetState{
			Format:    formats[f],
			Blend:     blendState(d.Blend),
			WriteMask: mask,
		}
	}
	return targets
}

// depthStencil returns nil for pipelines without a depth attachment.
// Disabled tests compare always and keep.
func depthStencil(d rhi.PipelineDescription) *hal.DepthStencilState {
	if d.DepthFormat == rhi.PixelFormatNone {
		return nil
	}
	ds := d.DepthStencil
	state := &hal.DepthStencilState{
		Format:            formats[d.DepthFormat],
		DepthWriteEnabled: ds.EnableDepthTest && ds.EnableDepthWrite,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      keepFace(),
		StencilBack:       keepFace(),
	}
	if ds.EnableDepthTest {
		state.DepthCompare = compareFunc(ds.DepthComparison)
	}
	if ds.EnableStencilTest {
		face := hal.StencilFaceState{
			Compare:     compareFunc(ds.StencilComparison),
			FailOp:      stencilOp(ds.StencilFailOp),
			DepthFailOp: stencilOp(ds.StencilDepthFailOp),
			PassOp:      stencilOp(ds.StencilPassOp),
		}
		state.StencilFront = face
		state.StencilBack = face
		state.StencilReadMask = uint32(ds.StencilReadMask)
		state.StencilWriteMask = uint32(ds.StencilWriteMask)
	}
	return state
}

func keepFace() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
}

// bindGroups returns the bind groups for the current version of set,
// rebuilding them after a write.
func (p *pipeline) bindGroups(set *rhi.ResourceSet) ([]hal.BindGroup, bool, error) {
	bound := set.Bindings()
	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.groups[set]; ok {
		if cached.version == bound.Version {
			return cached.groups, false, nil
		}
		p.release(cached)
		delete(p.groups, set)
	}

	entries := make([][]gputypes.BindGroupEntry, len(p.sets))
	for _, ub := range bound.UniformBuffers {
		buf := ub.Buffer.Native().(*buffer)
		entries[ub.Set] = append(entries[ub.Set], gputypes.BindGroupEntry{
			Binding:  ub.Binding,
			Resource: gputypes.BufferBinding{Buffer: buf.raw.NativeHandle(), Offset: 0, Size: buf.size},
		})
	}
	for _, img := range bound.Images {
		tex := img.Texture.Native().(*texture)
		smp := img.Sampler.Native().(*sampler)
		entries[img.Set] = append(entries[img.Set],
			gputypes.BindGroupEntry{
				Binding:  img.Binding,
				Resource: gputypes.TextureViewBinding{TextureView: tex.view.NativeHandle()},
			},
			gputypes.BindGroupEntry{
				Binding:  img.Binding + SamplerBindingOffset,
				Resource: gputypes.SamplerBinding{Sampler: smp.raw.NativeHandle()},
			})
	}

	built := &boundGroups{version: bound.Version}
	for i, layout := range p.layouts {
		g, err := p.b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   p.name,
			Layout:  layout,
			Entries: entries[i],
		})
		if err != nil {
			p.release(built)
			return nil, false, errors.Wrapf(err, "wgpu: bind group %d of pipeline %q", i, p.name)
		}
		built.groups = append(built.groups, g)
	}
	p.groups[set] = built
	return built.groups, true, nil
}

func (p *pipeline) release(g *boundGroups) {
	for _, bg := range g.groups {
		p.b.device.DestroyBindGroup(bg)
	}
}

func (p *pipeline) Destroy() {
	p.mu.Lock()
	for _, g := range p.groups {
		p.release(g)
	}
	p.groups = nil
	p.mu.Unlock()

	if p.render != nil {
		p.b.device.DestroyRenderPipeline(p.render)
	}
	if p.comp != nil {
		p.b.device.DestroyComputePipeline(p.comp)
	}
	if p.layout != nil {
		p.b.device.DestroyPipelineLayout(p.layout)
	}
	for _, l := range p.layouts {
		p.b.device.DestroyBindGroupLayout(l)
	}
}
