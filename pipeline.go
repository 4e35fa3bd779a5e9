package rhi

import (
	"github.com/nexusgfx/rhi/internal/arena"
)

// PipelineType distinguishes graphics from compute pipelines.
type PipelineType uint8

const (
	PipelineTypeGraphics PipelineType = iota
	PipelineTypeCompute
)

func (t PipelineType) String() string {
	if t == PipelineTypeCompute {
		return "Compute"
	}
	return "Graphics"
}

// PipelineDescription describes a graphics pipeline.
type PipelineDescription struct {
	Name           string
	VertexModule   *ShaderModule
	FragmentModule *ShaderModule
	// Layouts holds one layout per vertex buffer slot, in slot order.
	Layouts      []VertexBufferLayout
	Topology     Topology
	Rasterizer   RasterizerStateDescription
	Blend        BlendStateDescription
	DepthStencil DepthStencilDescription
	// ColorFormats lists the formats of the color targets the pipeline
	// renders into.
	ColorFormats []PixelFormat
	DepthFormat  PixelFormat
	Samples      SampleCount
	// ResourceSetSpec declares the pipeline's resources. When empty, the
	// union of the shader modules' resources is used.
	ResourceSetSpec ResourceSetSpecification
}

// ComputePipelineDescription describes a compute pipeline.
type ComputePipelineDescription struct {
	Name            string
	ComputeModule   *ShaderModule
	ResourceSetSpec ResourceSetSpecification
}

// Pipeline is an immutable GPU execution configuration together with the
// resource schema its resource sets must satisfy.
type Pipeline struct {
	device  *GraphicsDevice
	handle  arena.Handle
	typ     PipelineType
	name    string
	desc    PipelineDescription
	compute ComputePipelineDescription
	spec    ResourceSetSpecification

	// Computed once at creation and never mutated.
	slots   map[string]SlotInfo
	ordered []SlotInfo

	native NativePipeline
}

// Name returns the debug name.
func (p *Pipeline) Name() string { return p.name }

// Type returns the pipeline type.
func (p *Pipeline) Type() PipelineType { return p.typ }

// Description returns the graphics description. It is the zero value for
// compute pipelines.
func (p *Pipeline) Description() PipelineDescription { return p.desc }

// ComputeDescription returns the compute description. It is the zero value
// for graphics pipelines.
func (p *Pipeline) ComputeDescription() ComputePipelineDescription { return p.compute }

// ResourceSetSpecification returns the effective resource schema.
func (p *Pipeline) ResourceSetSpecification() ResourceSetSpecification { return p.spec }

// Slot looks up a declared resource by name.
func (p *Pipeline) Slot(name string) (SlotInfo, bool) {
	info, ok := p.slots[name]
	return info, ok
}

// Slots returns the slot table sorted by linear slot. The slice must not
// be modified.
func (p *Pipeline) Slots() []SlotInfo { return p.ordered }

// Native returns the backend pipeline.
func (p *Pipeline) Native() NativePipeline { return p.native }

// IsValid reports whether the pipeline has not been destroyed.
func (p *Pipeline) IsValid() bool {
	return p != nil && p.device.pipelines.Contains(p.handle)
}

// Destroy releases the pipeline. Resource sets created for it become
// unusable: binding them is a validation error.
func (p *Pipeline) Destroy() {
	if _, ok := p.device.pipelines.Remove(p.handle); ok {
		p.native.Destroy()
	}
}
