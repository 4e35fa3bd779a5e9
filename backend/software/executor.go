package software

import (
	"fmt"
	"strings"

	"github.com/nexusgfx/rhi"
)

// Executor replays command lists on the CPU.
type Executor struct {
	backend   *Backend
	validator rhi.Validator

	// Per-submission state; reset at the start of every list.
	stats    Stats
	lines    []string
	depth    int
	pipeline *rhi.Pipeline
	target   rhi.RenderTarget
	viewport rhi.Viewport
	scissor  rhi.Scissor
	blend    rhi.Color
	stencil  uint32
}

// ExecuteCommands implements rhi.CommandExecutor.
func (e *Executor) ExecuteCommands(list *rhi.CommandList) error {
	e.Reset()
	e.validator.Begin(list)
	e.tracef("begin list %q", list.Name())
	for i, cmd := range list.Commands() {
		if !e.validator.Validate(i, cmd) {
			e.stats.Rejected++
			e.tracef("reject %s", cmd.Type())
			continue
		}
		e.stats.Commands++
		e.execute(cmd)
	}
	e.stats.Submissions++
	e.tracef("end list %q", list.Name())

	b := e.backend
	b.mu.Lock()
	b.stats.add(e.stats)
	if b.trace {
		b.lines = append(b.lines, e.lines...)
	}
	b.mu.Unlock()

	rhi.Logger().Debug("software: executed command list",
		"list", list.Name(), "commands", e.stats.Commands, "rejected", e.stats.Rejected)
	return e.validator.Err()
}

// Reset implements rhi.CommandExecutor.
func (e *Executor) Reset() {
	e.stats = Stats{}
	e.lines = e.lines[:0]
	e.depth = 0
	e.pipeline = nil
	e.target = rhi.RenderTarget{}
	e.viewport = rhi.Viewport{}
	e.scissor = rhi.Scissor{}
	e.blend = rhi.Color{}
	e.stencil = 0
}

func (e *Executor) tracef(format string, args ...any) {
	if !e.backend.trace {
		return
	}
	e.lines = append(e.lines, strings.Repeat("  ", e.depth)+fmt.Sprintf(format, args...))
}

func (e *Executor) execute(cmd rhi.Command) {
	switch c := cmd.(type) {
	case rhi.SetPipelineCommand:
		e.pipeline = c.Pipeline
		e.stats.PipelineBinds++
		e.tracef("bind pipeline %q", c.Pipeline.Name())
	case rhi.SetVertexBufferCommand:
		e.tracef("bind vertex buffer slot=%d offset=%d", c.Slot, c.Offset)
	case rhi.SetIndexBufferCommand:
		e.tracef("bind index buffer format=%s offset=%d", c.Format, c.Offset)
	case rhi.SetResourceSetCommand:
		e.stats.ResourceSetBinds++
		e.tracef("bind resource set version=%d", c.ResourceSet.Version())
	case rhi.SetRenderTargetCommand:
		e.target = c.Target
		w, h := c.Target.Size()
		e.viewport = rhi.Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1}
		e.scissor = rhi.Scissor{Width: w, Height: h}
		e.tracef("bind %s target %dx%d", c.Target.Kind(), w, h)
	case rhi.SetViewportCommand:
		e.viewport = c.Viewport
		e.tracef("viewport %gx%g at (%g, %g)", c.Viewport.Width, c.Viewport.Height, c.Viewport.X, c.Viewport.Y)
	case rhi.SetScissorCommand:
		e.scissor = c.Scissor
		e.tracef("scissor %dx%d at (%d, %d)", c.Scissor.Width, c.Scissor.Height, c.Scissor.X, c.Scissor.Y)
	case rhi.SetBlendFactorCommand:
		e.blend = c.Factor
		e.tracef("blend constant %v", c.Factor)
	case rhi.SetStencilReferenceCommand:
		e.stencil = c.Reference
		e.tracef("stencil reference %d", c.Reference)
	case rhi.ClearColorTargetCommand:
		e.clearColor(c)
	case rhi.ClearDepthStencilTargetCommand:
		e.clearDepth(c)
	case rhi.DrawCommand:
		e.draw(c.VertexCount, 1, false)
	case rhi.DrawIndexedCommand:
		e.draw(c.IndexCount, 1, true)
	case rhi.DrawInstancedCommand:
		e.draw(c.VertexCount, c.InstanceCount, false)
	case rhi.DrawInstancedIndexedCommand:
		e.draw(c.IndexCount, c.InstanceCount, true)
	case rhi.DispatchCommand:
		e.stats.Dispatches++
		e.stats.Workgroups += uint64(c.X) * uint64(c.Y) * uint64(c.Z)
		e.tracef("dispatch %dx%dx%d", c.X, c.Y, c.Z)
	case rhi.CopyBufferToBufferCommand:
		src := c.Source.Native().(*buffer)
		dst := c.Destination.Native().(*buffer)
		copyBuffer(dst, c.DestinationOffset, src, c.SourceOffset, c.Size)
		e.stats.Copies++
		e.stats.CopiedBytes += c.Size
		e.tracef("copy %d bytes", c.Size)
	case rhi.ResolveSamplesToSwapchainCommand:
		e.resolve(c)
	case rhi.StartTimingQueryCommand:
		c.Query.MarkStart()
		e.tracef("start timing %q", c.Query.Name())
	case rhi.StopTimingQueryCommand:
		c.Query.MarkStop()
		e.tracef("stop timing %q", c.Query.Name())
	case rhi.BeginDebugGroupCommand:
		e.tracef("group %q", c.Label)
		e.depth++
	case rhi.EndDebugGroupCommand:
		if e.depth > 0 {
			e.depth--
		}
	case rhi.InsertDebugMarkerCommand:
		e.tracef("marker %q", c.Label)
	default:
		rhi.Logger().Warn("software: unhandled command", "command", cmd.Type().String())
	}
}

func (e *Executor) draw(count, instances uint32, indexed bool) {
	e.stats.Draws++
	if indexed {
		e.stats.IndexedDraws++
	}
	e.stats.Vertices += uint64(count) * uint64(instances)
	e.stats.Instances += uint64(instances)
	e.tracef("draw pipeline=%q count=%d instances=%d indexed=%t", e.pipeline.Name(), count, instances, indexed)
}

func (e *Executor) clearColor(c rhi.ClearColorTargetCommand) {
	e.stats.Clears++
	e.tracef("clear color %d to %v", c.Index, c.Color)
	switch c.Target.Kind() {
	case rhi.RenderTargetFramebuffer:
		tex := c.Target.Framebuffer().ColorTexture(int(c.Index))
		t := tex.Native().(*texture)
		if enc, ok := encoders[t.desc.Format]; ok {
			t.fill(e.backend.pool, enc(c.Color))
		}
	case rhi.RenderTargetSwapchain:
		if sc, ok := c.Target.Swapchain().(*Swapchain); ok {
			sc.clearColor(e.backend.pool, c.Color)
		}
	}
}

func (e *Executor) clearDepth(c rhi.ClearDepthStencilTargetCommand) {
	e.stats.Clears++
	e.tracef("clear depth to %g stencil %d", c.Depth, c.Stencil)
	switch c.Target.Kind() {
	case rhi.RenderTargetFramebuffer:
		t := c.Target.Framebuffer().DepthTexture().Native().(*texture)
		t.fill(e.backend.pool, encodeDepth(t.desc.Format, c.Depth, c.Stencil))
	case rhi.RenderTargetSwapchain:
		if sc, ok := c.Target.Swapchain().(*Swapchain); ok {
			sc.clearDepth(c.Depth, c.Stencil)
		}
	}
}

func (e *Executor) resolve(c rhi.ResolveSamplesToSwapchainCommand) {
	e.stats.Resolves++
	e.tracef("resolve color %d", c.SourceIndex)
	sc, ok := c.Target.(*Swapchain)
	if !ok {
		return
	}
	t := c.Source.ColorTexture(int(c.SourceIndex)).Native().(*texture)
	sc.resolve(e.backend.pool, t.desc.Format, t.pixels(0, 0))
}
