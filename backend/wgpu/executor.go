package wgpu

import (
	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/nexusgfx/rhi"
)

// load is the pending load op of one attachment.
type load struct {
	clear bool
	color rhi.Color
}

type depthLoad struct {
	clear   bool
	depth   float32
	stencil uint8
}

// Executor encodes a command list into one command buffer. Render target
// and clear commands only update the pending pass; the pass opens at the
// first draw, or when pending clears must land before other work.
type Executor struct {
	b         *Backend
	validator rhi.Validator
	stats     Stats
	err       error

	encoder   hal.CommandEncoder
	pass      hal.RenderPassEncoder
	cpass     hal.ComputePassEncoder
	transient []hal.Buffer

	target  rhi.RenderTarget
	colors  []load
	depth   depthLoad
	pending bool

	viewport   rhi.Viewport
	scissor    rhi.Scissor
	blend      rhi.Color
	hasBlend   bool
	stencilRef uint32
	hasStencil bool

	// Bound in the open pass.
	pipeline   *pipeline
	set        *rhi.ResourceSet
	setVersion uint64
	setFor     *pipeline
	vertices   [rhi.MaxVertexBufferSlots]rhi.VertexBufferBinding
	vertexFor  *pipeline
	index      *rhi.DeviceBuffer
	indexAt    uint64

	labels []string
}

// ExecuteCommands implements rhi.CommandExecutor.
func (e *Executor) ExecuteCommands(list *rhi.CommandList) error {
	e.Reset()
	e.validator.Begin(list)
	if err := e.begin(list.Name()); err != nil {
		return errors.Wrapf(err, "wgpu: command list %q", list.Name())
	}
	commands := list.Commands()
	for i, cmd := range commands {
		if e.encoder == nil {
			// A failed restart after a flush leaves nothing to encode into.
			rhi.Logger().Warn("wgpu: skipping rest of command list",
				"list", list.Name(), "skipped", len(commands)-i)
			break
		}
		if !e.validator.Validate(i, cmd) {
			e.stats.Rejected++
			continue
		}
		e.execute(cmd)
		e.stats.Commands++
	}
	e.flush()
	e.b.addStats(e.stats)
	rhi.Logger().Debug("wgpu: executed command list",
		"list", list.Name(),
		"commands", e.stats.Commands,
		"rejected", e.stats.Rejected,
		"passes", e.stats.RenderPasses)
	if e.err != nil {
		return errors.CombineErrors(errors.Wrapf(e.err, "wgpu: command list %q", list.Name()), e.validator.Err())
	}
	return e.validator.Err()
}

// Reset implements rhi.CommandExecutor.
func (e *Executor) Reset() {
	if e.encoder != nil {
		e.endPasses()
		e.encoder.DiscardEncoding()
		e.encoder = nil
	}
	e.releaseTransient()
	e.stats = Stats{}
	e.err = nil
	e.target = rhi.RenderTarget{}
	e.colors = nil
	e.depth = depthLoad{}
	e.pending = false
	e.hasBlend = false
	e.hasStencil = false
	e.labels = e.labels[:0]
	e.forget()
}

// forget drops what was bound in a pass that has ended.
func (e *Executor) forget() {
	e.pipeline = nil
	e.set = nil
	e.setVersion = 0
	e.setFor = nil
	e.vertices = [rhi.MaxVertexBufferSlots]rhi.VertexBufferBinding{}
	e.vertexFor = nil
	e.index = nil
	e.indexAt = 0
}

func (e *Executor) fail(err error) {
	if e.err == nil {
		e.err = err
	}
	rhi.Logger().Error("wgpu: command failed", "error", err)
}

func (e *Executor) begin(label string) error {
	encoder, err := e.b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return err
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return err
	}
	e.encoder = encoder
	return nil
}

// flush lands pending clears, ends the encoder and waits for the GPU.
func (e *Executor) flush() {
	if e.encoder == nil {
		return
	}
	e.flushClears()
	e.endPasses()
	cmdBuf, err := e.encoder.EndEncoding()
	e.encoder = nil
	if err != nil {
		e.fail(errors.Wrap(err, "wgpu: end encoding"))
		e.releaseTransient()
		return
	}
	if err := e.b.submit(cmdBuf); err != nil {
		e.fail(errors.Wrap(err, "wgpu: submit"))
	}
	e.stats.Submissions++
	e.releaseTransient()
}

func (e *Executor) releaseTransient() {
	for _, buf := range e.transient {
		e.b.device.DestroyBuffer(buf)
	}
	e.transient = e.transient[:0]
}

func (e *Executor) label(fallback string) string {
	if n := len(e.labels); n > 0 {
		return e.labels[n-1]
	}
	return fallback
}

func (e *Executor) execute(cmd rhi.Command) {
	switch c := cmd.(type) {
	case rhi.SetPipelineCommand, rhi.SetVertexBufferCommand, rhi.SetIndexBufferCommand, rhi.SetResourceSetCommand:
		// Applied from the captured state of the next work command.
	case rhi.SetRenderTargetCommand:
		e.bindTarget(c.Target)
	case rhi.SetViewportCommand:
		e.viewport = c.Viewport
		if e.pass != nil {
			e.applyViewport()
		}
	case rhi.SetScissorCommand:
		e.scissor = c.Scissor
		if e.pass != nil {
			e.applyScissor()
		}
	case rhi.SetBlendFactorCommand:
		e.blend, e.hasBlend = c.Factor, true
		if e.pass != nil {
			e.pass.SetBlendConstant(e.blendConstant())
		}
	case rhi.SetStencilReferenceCommand:
		e.stencilRef, e.hasStencil = c.Reference, true
		if e.pass != nil {
			e.pass.SetStencilReference(e.stencilRef)
		}
	case rhi.ClearColorTargetCommand:
		e.endRenderPass()
		if int(c.Index) < len(e.colors) {
			e.colors[c.Index] = load{clear: true, color: c.Color}
			e.pending = true
		}
	case rhi.ClearDepthStencilTargetCommand:
		e.endRenderPass()
		e.depth = depthLoad{clear: true, depth: c.Depth, stencil: c.Stencil}
		e.pending = true
	case rhi.DrawCommand:
		if e.prepare(c.State) {
			e.pass.Draw(c.VertexCount, 1, c.VertexStart, 0)
			e.stats.Draws++
		}
	case rhi.DrawInstancedCommand:
		if e.prepare(c.State) {
			e.pass.Draw(c.VertexCount, c.InstanceCount, c.VertexStart, c.InstanceStart)
			e.stats.Draws++
		}
	case rhi.DrawIndexedCommand:
		if e.prepare(c.State) {
			e.pass.DrawIndexed(c.IndexCount, 1, c.IndexStart, c.VertexStart, 0)
			e.stats.Draws++
			e.stats.IndexedDraws++
		}
	case rhi.DrawInstancedIndexedCommand:
		if e.prepare(c.State) {
			e.pass.DrawIndexed(c.IndexCount, c.InstanceCount, c.IndexStart, c.VertexStart, c.InstanceStart)
			e.stats.Draws++
			e.stats.IndexedDraws++
		}
	case rhi.DispatchCommand:
		e.dispatch(c)
	case rhi.CopyBufferToBufferCommand:
		e.endPasses()
		e.encoder.CopyBufferToBuffer(
			c.Source.Native().(*buffer).raw,
			c.Destination.Native().(*buffer).raw,
			[]hal.BufferCopy{{SrcOffset: c.SourceOffset, DstOffset: c.DestinationOffset, Size: c.Size}},
		)
		e.stats.Copies++
	case rhi.ResolveSamplesToSwapchainCommand:
		e.flushClears()
		e.endPasses()
		e.resolve(c)
	case rhi.StartTimingQueryCommand:
		c.Query.MarkStart()
	case rhi.StopTimingQueryCommand:
		// Timing covers GPU completion, so the work so far is submitted
		// and a fresh encoder continues the list.
		e.flush()
		c.Query.MarkStop()
		if err := e.begin(e.label("timing")); err != nil {
			e.fail(errors.Wrap(err, "wgpu: restart encoding"))
		}
	case rhi.BeginDebugGroupCommand:
		e.labels = append(e.labels, c.Label)
	case rhi.EndDebugGroupCommand:
		if n := len(e.labels); n > 0 {
			e.labels = e.labels[:n-1]
		}
	case rhi.InsertDebugMarkerCommand:
		rhi.Logger().Debug("wgpu: marker", "label", c.Label, "group", e.label(""))
	default:
		rhi.Logger().Warn("wgpu: unhandled command", "command", cmd.Type().String())
	}
}

// bindTarget switches the pending pass to t. Clears pending on the old
// target are applied first.
func (e *Executor) bindTarget(t rhi.RenderTarget) {
	if e.target.IsBound() && e.target.Equal(t) {
		return
	}
	e.flushClears()
	e.endRenderPass()
	e.target = t
	e.colors = make([]load, t.ColorAttachmentCount())
	e.depth = depthLoad{}
	e.pending = false
	w, h := t.Size()
	e.viewport = rhi.Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1}
	e.scissor = rhi.Scissor{Width: w, Height: h}
}

// flushClears opens and immediately ends a pass when clears are pending
// with no draw to carry them.
func (e *Executor) flushClears() {
	if !e.pending || e.encoder == nil {
		return
	}
	if e.openPass() {
		e.stats.ClearPasses++
		e.endRenderPass()
	}
}

func (e *Executor) endRenderPass() {
	if e.pass == nil {
		return
	}
	e.pass.End()
	e.pass = nil
	e.forget()
}

func (e *Executor) endComputePass() {
	if e.cpass == nil {
		return
	}
	e.cpass.End()
	e.cpass = nil
	e.forget()
}

func (e *Executor) endPasses() {
	e.endRenderPass()
	e.endComputePass()
}

// attachments returns the views of the current target.
func (e *Executor) attachments() (colors []hal.TextureView, depth hal.TextureView, err error) {
	switch e.target.Kind() {
	case rhi.RenderTargetFramebuffer:
		fb := e.target.Framebuffer().Native().(*framebuffer)
		for _, t := range fb.colors {
			colors = append(colors, t.view)
		}
		if fb.depth != nil {
			depth = fb.depth.view
		}
		return colors, depth, nil
	case rhi.RenderTargetSwapchain:
		sc, ok := e.target.Swapchain().(SurfaceSwapchain)
		if !ok {
			return nil, nil, ErrNotSurface
		}
		return []hal.TextureView{sc.CurrentView()}, sc.DepthView(), nil
	}
	return nil, nil, errors.New("wgpu: no render target bound")
}

// openPass begins a render pass on the current target, consuming the
// pending load ops.
func (e *Executor) openPass() bool {
	if e.pass != nil {
		return true
	}
	e.endComputePass()
	colors, depth, err := e.attachments()
	if err != nil {
		e.fail(err)
		return false
	}
	desc := &hal.RenderPassDescriptor{Label: e.label("render")}
	for i, view := range colors {
		att := hal.RenderPassColorAttachment{
			View:    view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}
		if i < len(e.colors) && e.colors[i].clear {
			c := e.colors[i].color
			att.LoadOp = gputypes.LoadOpClear
			att.ClearValue = gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
		}
		desc.ColorAttachments = append(desc.ColorAttachments, att)
	}
	if depth != nil {
		ds := &hal.RenderPassDepthStencilAttachment{
			View:           depth,
			DepthLoadOp:    gputypes.LoadOpLoad,
			DepthStoreOp:   gputypes.StoreOpStore,
			StencilLoadOp:  gputypes.LoadOpLoad,
			StencilStoreOp: gputypes.StoreOpStore,
		}
		if e.depth.clear {
			ds.DepthLoadOp = gputypes.LoadOpClear
			ds.DepthClearValue = e.depth.depth
			ds.StencilLoadOp = gputypes.LoadOpClear
			ds.StencilClearValue = uint32(e.depth.stencil)
		}
		desc.DepthStencilAttachment = ds
	}

	e.pass = e.encoder.BeginRenderPass(desc)
	e.stats.RenderPasses++
	for i := range e.colors {
		e.colors[i] = load{}
	}
	e.depth = depthLoad{}
	e.pending = false
	e.forget()

	e.applyViewport()
	e.applyScissor()
	if e.hasBlend {
		e.pass.SetBlendConstant(e.blendConstant())
	}
	if e.hasStencil {
		e.pass.SetStencilReference(e.stencilRef)
	}
	return true
}

func (e *Executor) applyViewport() {
	vp := e.viewport
	e.pass.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)
}

// applyScissor sets the scissor, or the whole target when the bound
// pipeline does not enable the scissor test.
func (e *Executor) applyScissor() {
	sc := e.scissor
	if e.pipeline == nil || !e.pipeline.desc.Rasterizer.EnableScissorTest {
		w, h := e.target.Size()
		sc = rhi.Scissor{Width: w, Height: h}
	}
	e.pass.SetScissorRect(sc.X, sc.Y, sc.Width, sc.Height)
}

func (e *Executor) blendConstant() *gputypes.Color {
	return &gputypes.Color{R: float64(e.blend.R), G: float64(e.blend.G), B: float64(e.blend.B), A: float64(e.blend.A)}
}

// groupSetter is implemented by render and compute passes.
type groupSetter interface {
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
}

// prepare opens the pass and binds the captured state of a draw.
func (e *Executor) prepare(s rhi.BoundState) bool {
	if !s.Target.Equal(e.target) {
		e.bindTarget(s.Target)
	}
	if !e.openPass() {
		return false
	}
	p := s.Pipeline.Native().(*pipeline)
	if e.pipeline != p {
		e.pass.SetPipeline(p.render)
		e.pipeline = p
		e.stats.PipelineBinds++
		e.applyScissor()
	}
	if !e.bindResources(e.pass, p, s.ResourceSet) {
		return false
	}
	if e.vertexFor != p || e.vertices != s.VertexBuffers {
		for slot := range p.desc.Layouts {
			vb := s.VertexBuffers[slot]
			e.pass.SetVertexBuffer(uint32(slot), vb.Buffer.Native().(*buffer).raw, vb.Offset)
		}
		e.vertices = s.VertexBuffers
		e.vertexFor = p
	}
	if s.IndexBuffer != nil && (e.index != s.IndexBuffer || e.indexAt != s.IndexOffset) {
		e.pass.SetIndexBuffer(s.IndexBuffer.Native().(*buffer).raw, indexFormat(s.IndexFormat), s.IndexOffset)
		e.index = s.IndexBuffer
		e.indexAt = s.IndexOffset
	}
	return true
}

func (e *Executor) bindResources(pass groupSetter, p *pipeline, set *rhi.ResourceSet) bool {
	if set == nil {
		return true
	}
	if e.set == set && e.setFor == p && e.setVersion == set.Version() {
		return true
	}
	groups, built, err := p.bindGroups(set)
	if err != nil {
		e.fail(err)
		return false
	}
	if built {
		e.stats.BindGroups += uint64(len(groups))
	}
	for i, g := range groups {
		pass.SetBindGroup(uint32(i), g, nil)
	}
	e.set = set
	e.setFor = p
	e.setVersion = set.Version()
	return true
}

func (e *Executor) dispatch(c rhi.DispatchCommand) {
	e.flushClears()
	e.endRenderPass()
	if e.cpass == nil {
		e.cpass = e.encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: e.label("compute")})
		e.stats.ComputePasses++
	}
	p := c.State.Pipeline.Native().(*pipeline)
	if e.pipeline != p {
		e.cpass.SetPipeline(p.comp)
		e.pipeline = p
		e.stats.PipelineBinds++
	}
	if !e.bindResources(e.cpass, p, c.State.ResourceSet) {
		return
	}
	e.cpass.Dispatch(c.X, c.Y, c.Z)
	e.stats.Dispatches++
}

// resolve writes one color attachment of a framebuffer into the current
// swapchain image. Multisampled sources resolve through a render pass;
// single-sampled ones are copied through a staging buffer.
func (e *Executor) resolve(c rhi.ResolveSamplesToSwapchainCommand) {
	sc, ok := c.Target.(SurfaceSwapchain)
	if !ok {
		e.fail(ErrNotSurface)
		return
	}
	src := c.Source.ColorTexture(int(c.SourceIndex)).Native().(*texture)
	e.stats.Resolves++

	if src.samples > 1 {
		pass := e.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: e.label("resolve"),
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:          src.view,
				ResolveTarget: sc.CurrentView(),
				LoadOp:        gputypes.LoadOpLoad,
				StoreOp:       gputypes.StoreOpStore,
			}},
		})
		pass.End()
		e.stats.RenderPasses++
		return
	}

	w, h := c.Source.Size()
	rowBytes := w * src.desc.Format.BytesPerPixel()
	pitch := (rowBytes + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	staging, err := e.b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "resolve",
		Size:  uint64(pitch) * uint64(h),
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		e.fail(errors.Wrap(err, "wgpu: create resolve staging buffer"))
		return
	}
	e.transient = append(e.transient, staging)

	dst := sc.CurrentTexture()
	layout := hal.ImageDataLayout{Offset: 0, BytesPerRow: pitch, RowsPerImage: h}
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	e.encoder.TransitionTextures([]hal.TextureBarrier{
		{Texture: src.raw, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		}},
		{Texture: dst, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopyDst,
		}},
	})
	e.encoder.CopyTextureToBuffer(src.raw, staging, []hal.BufferTextureCopy{{
		BufferLayout: layout,
		TextureBase:  hal.ImageCopyTexture{Texture: src.raw, MipLevel: 0},
		Size:         size,
	}})
	e.encoder.CopyBufferToTexture(staging, dst, []hal.BufferTextureCopy{{
		BufferLayout: layout,
		TextureBase:  hal.ImageCopyTexture{Texture: dst, MipLevel: 0},
		Size:         size,
	}})
	e.encoder.TransitionTextures([]hal.TextureBarrier{
		{Texture: src.raw, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		}},
		{Texture: dst, Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopyDst,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		}},
	})
}
