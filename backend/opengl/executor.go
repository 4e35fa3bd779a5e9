package opengl

import (
	"github.com/nexusgfx/rhi"
)

// Executor replays command lists as GL calls. Vertex inputs and resource
// bindings are applied when a work command runs, from the state captured
// with it.
type Executor struct {
	ctx       Context
	validator rhi.Validator

	pipeline *pipeline
	target   rhi.RenderTarget
	height   uint32
	scissor  bool

	// Cached between work commands of one list.
	set        *rhi.ResourceSet
	setVersion uint64
	setFor     *pipeline
	vertices   [rhi.MaxVertexBufferSlots]rhi.VertexBufferBinding
	vertexFor  *pipeline
}

// ExecuteCommands implements rhi.CommandExecutor.
func (e *Executor) ExecuteCommands(list *rhi.CommandList) error {
	e.Reset()
	e.validator.Begin(list)
	e.ctx.PushDebugGroup(list.Name())
	executed := 0
	for i, cmd := range list.Commands() {
		if !e.validator.Validate(i, cmd) {
			continue
		}
		e.execute(cmd)
		executed++
	}
	e.ctx.PopDebugGroup()
	rhi.Logger().Debug("opengl: executed command list",
		"list", list.Name(), "commands", executed, "rejected", len(e.validator.Failures()))
	return e.validator.Err()
}

// Reset implements rhi.CommandExecutor.
func (e *Executor) Reset() {
	e.pipeline = nil
	e.target = rhi.RenderTarget{}
	e.height = 0
	e.scissor = false
	e.set = nil
	e.setVersion = 0
	e.setFor = nil
	e.vertices = [rhi.MaxVertexBufferSlots]rhi.VertexBufferBinding{}
	e.vertexFor = nil
}

func (e *Executor) execute(cmd rhi.Command) {
	switch c := cmd.(type) {
	case rhi.SetPipelineCommand:
		e.bindPipeline(c.Pipeline.Native().(*pipeline))
	case rhi.SetVertexBufferCommand, rhi.SetIndexBufferCommand, rhi.SetResourceSetCommand:
		// Applied from the captured state of the next work command.
	case rhi.SetRenderTargetCommand:
		e.bindTarget(c.Target)
	case rhi.SetViewportCommand:
		e.viewport(c.Viewport)
	case rhi.SetScissorCommand:
		e.setScissor(c.Scissor)
	case rhi.SetBlendFactorCommand:
		e.ctx.BlendColor(c.Factor.R, c.Factor.G, c.Factor.B, c.Factor.A)
	case rhi.SetStencilReferenceCommand:
		if e.pipeline != nil {
			ds := e.pipeline.desc.DepthStencil
			e.ctx.StencilFunc(compareFunc(ds.StencilComparison), int(c.Reference), uint32(ds.StencilReadMask))
		}
	case rhi.ClearColorTargetCommand:
		e.clear(func() {
			e.ctx.ColorMask(true, true, true, true)
			e.ctx.ClearBufferfv(COLOR, int(c.Index), [4]float32{c.Color.R, c.Color.G, c.Color.B, c.Color.A})
		})
	case rhi.ClearDepthStencilTargetCommand:
		e.clear(func() {
			e.ctx.DepthMask(true)
			e.ctx.StencilMask(0xff)
			e.ctx.ClearBufferfi(DEPTH_STENCIL, 0, c.Depth, int(c.Stencil))
		})
	case rhi.DrawCommand:
		e.prepare(c.State)
		e.ctx.DrawArrays(e.pipeline.mode, int(c.VertexStart), int(c.VertexCount))
	case rhi.DrawInstancedCommand:
		e.prepare(c.State)
		e.ctx.DrawArraysInstanced(e.pipeline.mode, int(c.VertexStart), int(c.VertexCount),
			int(c.InstanceCount), int(c.InstanceStart))
	case rhi.DrawIndexedCommand:
		e.prepare(c.State)
		typ, offset := e.indices(c.State, c.IndexStart)
		e.ctx.DrawElements(e.pipeline.mode, int(c.IndexCount), typ, offset, int(c.VertexStart))
	case rhi.DrawInstancedIndexedCommand:
		e.prepare(c.State)
		typ, offset := e.indices(c.State, c.IndexStart)
		e.ctx.DrawElementsInstanced(e.pipeline.mode, int(c.IndexCount), typ, offset,
			int(c.InstanceCount), int(c.VertexStart), int(c.InstanceStart))
	case rhi.DispatchCommand:
		e.bindResources(c.State)
		e.ctx.DispatchCompute(int(c.X), int(c.Y), int(c.Z))
		e.ctx.MemoryBarrier(ALL_BARRIER_BITS)
	case rhi.CopyBufferToBufferCommand:
		src := c.Source.Native().(*buffer)
		dst := c.Destination.Native().(*buffer)
		e.ctx.CopyBufferSubData(src.name, dst.name, int(c.SourceOffset), int(c.DestinationOffset), int(c.Size))
	case rhi.ResolveSamplesToSwapchainCommand:
		e.resolve(c)
	case rhi.StartTimingQueryCommand:
		c.Query.MarkStart()
	case rhi.StopTimingQueryCommand:
		e.ctx.Finish()
		c.Query.MarkStop()
	case rhi.BeginDebugGroupCommand:
		e.ctx.PushDebugGroup(c.Label)
	case rhi.EndDebugGroupCommand:
		e.ctx.PopDebugGroup()
	case rhi.InsertDebugMarkerCommand:
		e.ctx.DebugMessageInsert(c.Label)
	default:
		rhi.Logger().Warn("opengl: unhandled command", "command", cmd.Type().String())
	}
}

func (e *Executor) bindPipeline(p *pipeline) {
	if e.pipeline == p {
		return
	}
	e.pipeline = p
	e.ctx.UseProgram(p.program)
	if p.compute {
		return
	}
	e.ctx.BindVertexArray(p.vao)

	d := p.desc
	toggle(e.ctx, CULL_FACE, d.Rasterizer.CullMode != rhi.CullModeNone)
	switch d.Rasterizer.CullMode {
	case rhi.CullModeFront:
		e.ctx.CullFace(FRONT)
	case rhi.CullModeBack:
		e.ctx.CullFace(BACK)
	}
	if d.Rasterizer.FrontFace == rhi.FrontFaceClockwise {
		e.ctx.FrontFace(CW)
	} else {
		e.ctx.FrontFace(CCW)
	}
	if d.Rasterizer.FillMode == rhi.FillModeWireframe {
		e.ctx.PolygonMode(LINE)
	} else {
		e.ctx.PolygonMode(FILL)
	}
	toggle(e.ctx, DEPTH_CLAMP, !d.Rasterizer.EnableDepthClip)
	e.scissor = d.Rasterizer.EnableScissorTest
	toggle(e.ctx, SCISSOR_TEST, e.scissor)

	ds := d.DepthStencil
	toggle(e.ctx, DEPTH_TEST, ds.EnableDepthTest)
	e.ctx.DepthFunc(compareFunc(ds.DepthComparison))
	e.ctx.DepthMask(ds.EnableDepthWrite)
	toggle(e.ctx, STENCIL_TEST, ds.EnableStencilTest)
	if ds.EnableStencilTest {
		e.ctx.StencilFunc(compareFunc(ds.StencilComparison), 0, uint32(ds.StencilReadMask))
		e.ctx.StencilOp(stencilOp(ds.StencilFailOp), stencilOp(ds.StencilDepthFailOp), stencilOp(ds.StencilPassOp))
		e.ctx.StencilMask(uint32(ds.StencilWriteMask))
	}

	bl := d.Blend
	toggle(e.ctx, BLEND, bl.EnableBlending)
	if bl.EnableBlending {
		e.ctx.BlendFuncSeparate(blendFactor(bl.SourceColorBlend), blendFactor(bl.DestinationColorBlend),
			blendFactor(bl.SourceAlphaBlend), blendFactor(bl.DestinationAlphaBlend))
		e.ctx.BlendEquationSeparate(blendEquation(bl.ColorBlendEquation), blendEquation(bl.AlphaBlendEquation))
	}
	write := !bl.DisableColorWriteMask
	e.ctx.ColorMask(write, write, write, write)
}

func toggle(ctx Context, c Enum, on bool) {
	if on {
		ctx.Enable(c)
	} else {
		ctx.Disable(c)
	}
}

func (e *Executor) bindTarget(t rhi.RenderTarget) {
	e.target = t
	w, h := t.Size()
	e.height = h
	e.ctx.BindFramebuffer(FRAMEBUFFER, targetFramebuffer(t))
	e.viewport(rhi.Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1})
	e.setScissor(rhi.Scissor{Width: w, Height: h})
}

func targetFramebuffer(t rhi.RenderTarget) uint32 {
	switch t.Kind() {
	case rhi.RenderTargetFramebuffer:
		return t.Framebuffer().Native().(*framebuffer).name
	case rhi.RenderTargetSwapchain:
		if fs, ok := t.Swapchain().(FramebufferSwapchain); ok {
			return fs.Framebuffer()
		}
	}
	return 0
}

// viewport flips vp from a top-left origin to GL's bottom-left origin.
func (e *Executor) viewport(vp rhi.Viewport) {
	y := float32(e.height) - (vp.Y + vp.Height)
	e.ctx.Viewport(int(vp.X), int(y), int(vp.Width), int(vp.Height))
	e.ctx.DepthRange(float64(vp.MinDepth), float64(vp.MaxDepth))
}

func (e *Executor) setScissor(sc rhi.Scissor) {
	y := int(e.height) - int(sc.Y+sc.Height)
	e.ctx.Scissor(int(sc.X), y, int(sc.Width), int(sc.Height))
}

// clear runs fn with scissoring off and restores the pipeline's masks
// afterwards, so a clear always covers the whole attachment.
func (e *Executor) clear(fn func()) {
	if e.scissor {
		e.ctx.Disable(SCISSOR_TEST)
	}
	fn()
	if e.scissor {
		e.ctx.Enable(SCISSOR_TEST)
	}
	if p := e.pipeline; p != nil && !p.compute {
		write := !p.desc.Blend.DisableColorWriteMask
		e.ctx.ColorMask(write, write, write, write)
		e.ctx.DepthMask(p.desc.DepthStencil.EnableDepthWrite)
		e.ctx.StencilMask(uint32(p.desc.DepthStencil.StencilWriteMask))
	}
}

func (e *Executor) prepare(s rhi.BoundState) {
	e.bindPipeline(s.Pipeline.Native().(*pipeline))
	if !s.Target.Equal(e.target) {
		e.bindTarget(s.Target)
	}
	e.bindVertices(s)
	e.bindResources(s)
	if s.IndexBuffer != nil {
		e.ctx.BindIndexBuffer(s.IndexBuffer.Native().(*buffer).name)
	}
}

func (e *Executor) bindVertices(s rhi.BoundState) {
	p := e.pipeline
	if e.vertexFor == p && e.vertices == s.VertexBuffers {
		return
	}
	for _, a := range p.attribs {
		vb := s.VertexBuffers[a.slot]
		name := vb.Buffer.Native().(*buffer).name
		e.ctx.VertexAttribPointer(name, a.location, a.size, a.typ, a.normalized, a.integer,
			a.stride, int(vb.Offset)+a.offset)
		e.ctx.VertexAttribDivisor(a.location, a.divisor)
	}
	e.vertices = s.VertexBuffers
	e.vertexFor = p
}

func (e *Executor) bindResources(s rhi.BoundState) {
	if e.pipeline == nil || e.pipeline != s.Pipeline.Native().(*pipeline) {
		e.bindPipeline(s.Pipeline.Native().(*pipeline))
	}
	set := s.ResourceSet
	if set == nil {
		return
	}
	p := e.pipeline
	if e.set == set && e.setFor == p && e.setVersion == set.Version() {
		return
	}
	bound := set.Bindings()
	points := make(map[uint32]int, len(p.bindings))
	for _, b := range p.bindings {
		points[b.slot.Slot] = b.point
	}
	for _, ub := range bound.UniformBuffers {
		buf := ub.Buffer.Native().(*buffer)
		e.ctx.BindBufferRange(UNIFORM_BUFFER, points[ub.Slot], buf.name, 0, int(ub.Buffer.Size()))
	}
	for _, img := range bound.Images {
		unit := points[img.Slot]
		tex := img.Texture.Native().(*texture)
		e.ctx.BindTexture(unit, tex.target, tex.name)
		e.ctx.BindSampler(unit, img.Sampler.Native().(*sampler).name)
	}
	e.set = set
	e.setVersion = bound.Version
	e.setFor = p
}

// indices returns the GL index type and the byte offset of the first index.
func (e *Executor) indices(s rhi.BoundState, start uint32) (Enum, int) {
	return indexType(s.IndexFormat), int(s.IndexOffset) + int(start)*int(s.IndexFormat.Size())
}

func (e *Executor) resolve(c rhi.ResolveSamplesToSwapchainCommand) {
	w, h := c.Source.Size()
	e.ctx.BindFramebuffer(READ_FRAMEBUFFER, c.Source.Native().(*framebuffer).name)
	e.ctx.ReadBuffer(COLOR_ATTACHMENT0 + Enum(c.SourceIndex))
	e.ctx.BindFramebuffer(DRAW_FRAMEBUFFER, targetFramebuffer(rhi.NewSwapchainTarget(c.Target)))
	if e.scissor {
		e.ctx.Disable(SCISSOR_TEST)
	}
	e.ctx.BlitFramebuffer(0, 0, int(w), int(h), 0, 0, int(w), int(h), COLOR_BUFFER_BIT, NEAREST)
	if e.scissor {
		e.ctx.Enable(SCISSOR_TEST)
	}
	e.ctx.BindFramebuffer(FRAMEBUFFER, targetFramebuffer(e.target))
}
