package rhi

import (
	"fmt"
)

// The checks below are shared by every backend executor. Each returns nil
// when the command may execute, or the reason it must be skipped.

func invalid(cmd CommandType, format string, args ...any) *ValidationError {
	return &ValidationError{Command: cmd, Index: -1, Reason: fmt.Sprintf(format, args...)}
}

func checkTarget(cmd CommandType, target RenderTarget) *ValidationError {
	if !target.IsBound() {
		return invalid(cmd, "no render target is bound")
	}
	if !target.IsValid() {
		return invalid(cmd, "bound render target has been destroyed")
	}
	return nil
}

func checkPipeline(cmd CommandType, s *BoundState) *ValidationError {
	if s.Pipeline == nil {
		return invalid(cmd, "no pipeline is bound")
	}
	if !s.Pipeline.IsValid() {
		return invalid(cmd, "bound pipeline %q has been destroyed", s.Pipeline.Name())
	}
	return nil
}

// checkResourceSet verifies that the pipeline's slots are satisfied.
func checkResourceSet(cmd CommandType, s *BoundState) *ValidationError {
	p := s.Pipeline
	rs := s.ResourceSet
	if rs != nil {
		if !rs.IsValid() {
			return invalid(cmd, "bound resource set has been destroyed or its pipeline was destroyed")
		}
		if rs.Pipeline() != p {
			return invalid(cmd, "resource set was created for pipeline %q but pipeline %q is bound",
				rs.Pipeline().Name(), p.Name())
		}
	}
	slots := p.Slots()
	if len(slots) == 0 {
		return nil
	}
	if rs == nil {
		e := invalid(cmd, "pipeline %q declares resource slots but no resource set is bound", p.Name())
		e.Slot = slots[0].Name
		return e
	}
	if info, missing := rs.MissingSlot(); missing {
		e := invalid(cmd, "resource set slot %q (set %d, binding %d) has not been written",
			info.Name, info.Set, info.Binding)
		e.Slot = info.Name
		return e
	}
	if info, gone := rs.DestroyedSlot(); gone {
		e := invalid(cmd, "resource bound to slot %q has been destroyed", info.Name)
		e.Slot = info.Name
		return e
	}
	return nil
}

func checkGraphicsCall(cmd CommandType, s *BoundState, indexed bool) *ValidationError {
	if err := checkPipeline(cmd, s); err != nil {
		return err
	}
	if err := checkTarget(cmd, s.Target); err != nil {
		return err
	}
	if s.Pipeline.Type() != PipelineTypeGraphics {
		return invalid(cmd, "pipeline %q is a compute pipeline", s.Pipeline.Name())
	}
	for slot := range s.Pipeline.Description().Layouts {
		vb := s.VertexBuffers[slot].Buffer
		if vb == nil {
			return invalid(cmd, "vertex buffer slot %d used by pipeline %q is not bound", slot, s.Pipeline.Name())
		}
		if !vb.IsValid() {
			return invalid(cmd, "vertex buffer in slot %d has been destroyed", slot)
		}
	}
	if indexed {
		if s.IndexBuffer == nil {
			return invalid(cmd, "no index buffer is bound")
		}
		if !s.IndexBuffer.IsValid() {
			return invalid(cmd, "bound index buffer has been destroyed")
		}
	}
	return checkResourceSet(cmd, s)
}

func checkComputeCall(s *BoundState) *ValidationError {
	if err := checkPipeline(CmdDispatch, s); err != nil {
		return err
	}
	if err := checkTarget(CmdDispatch, s.Target); err != nil {
		return err
	}
	if s.Pipeline.Type() != PipelineTypeCompute {
		return invalid(CmdDispatch, "pipeline %q is not a compute pipeline", s.Pipeline.Name())
	}
	return checkResourceSet(CmdDispatch, s)
}

func checkClearColor(c ClearColorTargetCommand) *ValidationError {
	if err := checkTarget(CmdClearColorTarget, c.Target); err != nil {
		return err
	}
	if n := c.Target.ColorAttachmentCount(); c.Index >= n {
		return invalid(CmdClearColorTarget, "color attachment index %d is out of range, target has %d", c.Index, n)
	}
	return nil
}

func checkClearDepth(c ClearDepthStencilTargetCommand) *ValidationError {
	if err := checkTarget(CmdClearDepthStencilTarget, c.Target); err != nil {
		return err
	}
	if !c.Target.HasDepthAttachment() {
		return invalid(CmdClearDepthStencilTarget, "bound render target has no depth attachment")
	}
	return nil
}

func checkViewport(target RenderTarget, vp Viewport) *ValidationError {
	if err := checkTarget(CmdSetViewport, target); err != nil {
		return err
	}
	// Comparisons are written so that NaN fails them.
	if !(vp.Width > 0) || !(vp.Height > 0) {
		return invalid(CmdSetViewport, "viewport size %gx%g must be greater than zero", vp.Width, vp.Height)
	}
	w, h := target.Size()
	if !(vp.X >= 0) || !(vp.Y >= 0) || !(vp.X+vp.Width <= float32(w)) || !(vp.Y+vp.Height <= float32(h)) {
		return invalid(CmdSetViewport, "viewport %gx%g at (%g, %g) exceeds the %dx%d target",
			vp.Width, vp.Height, vp.X, vp.Y, w, h)
	}
	if !(vp.MinDepth >= 0) || !(vp.MaxDepth <= 1) || !(vp.MinDepth <= vp.MaxDepth) {
		return invalid(CmdSetViewport, "depth range [%g, %g] must lie within [0, 1]", vp.MinDepth, vp.MaxDepth)
	}
	return nil
}

func checkScissor(target RenderTarget, sc Scissor) *ValidationError {
	if err := checkTarget(CmdSetScissor, target); err != nil {
		return err
	}
	if sc.Width == 0 || sc.Height == 0 {
		return invalid(CmdSetScissor, "scissor size %dx%d must be greater than zero", sc.Width, sc.Height)
	}
	w, h := target.Size()
	if uint64(sc.X)+uint64(sc.Width) > uint64(w) || uint64(sc.Y)+uint64(sc.Height) > uint64(h) {
		return invalid(CmdSetScissor, "scissor %dx%d at (%d, %d) exceeds the %dx%d target",
			sc.Width, sc.Height, sc.X, sc.Y, w, h)
	}
	return nil
}

func checkResolve(c ResolveSamplesToSwapchainCommand) *ValidationError {
	const cmd = CmdResolveSamplesToSwapchain
	if c.Source == nil {
		return invalid(cmd, "no source framebuffer")
	}
	if !c.Source.IsValid() {
		return invalid(cmd, "source framebuffer has been destroyed")
	}
	if c.Target == nil {
		return invalid(cmd, "no destination swapchain")
	}
	if n := c.Source.ColorTextureCount(); int(c.SourceIndex) >= n {
		return invalid(cmd, "source color attachment index %d is out of range, framebuffer has %d", c.SourceIndex, n)
	}
	fw, fh := c.Source.Size()
	sw, sh := c.Target.Size()
	if fw != sw {
		return invalid(cmd, "mismatching widths: the framebuffer is %d wide and the swapchain is %d wide", fw, sw)
	}
	if fh != sh {
		return invalid(cmd, "mismatching heights: the framebuffer is %d high and the swapchain is %d high", fh, sh)
	}
	return nil
}

func checkVertexBuffer(c SetVertexBufferCommand) *ValidationError {
	if !c.Buffer.IsValid() {
		return invalid(CmdSetVertexBuffer, "buffer has been destroyed")
	}
	if c.Buffer.Type() != BufferTypeVertex {
		return invalid(CmdSetVertexBuffer, "buffer of type %s bound as a vertex buffer", c.Buffer.Type())
	}
	if c.Offset >= c.Buffer.Size() {
		return invalid(CmdSetVertexBuffer, "offset %d is beyond the %d byte buffer", c.Offset, c.Buffer.Size())
	}
	return nil
}

func checkIndexBuffer(c SetIndexBufferCommand) *ValidationError {
	if !c.Buffer.IsValid() {
		return invalid(CmdSetIndexBuffer, "buffer has been destroyed")
	}
	if c.Buffer.Type() != BufferTypeIndex {
		return invalid(CmdSetIndexBuffer, "buffer of type %s bound as an index buffer", c.Buffer.Type())
	}
	if c.Offset%uint64(c.Format.Size()) != 0 {
		return invalid(CmdSetIndexBuffer, "offset %d is not aligned to %s", c.Offset, c.Format)
	}
	return nil
}

func checkSetResourceSet(c SetResourceSetCommand) *ValidationError {
	if !c.ResourceSet.IsValid() {
		return invalid(CmdSetResourceSet, "resource set has been destroyed or its pipeline was destroyed")
	}
	if c.Pipeline != nil && c.ResourceSet.Pipeline() != c.Pipeline {
		return invalid(CmdSetResourceSet, "resource set was created for pipeline %q but pipeline %q is bound",
			c.ResourceSet.Pipeline().Name(), c.Pipeline.Name())
	}
	return nil
}

func checkCopy(c CopyBufferToBufferCommand) *ValidationError {
	const cmd = CmdCopyBufferToBuffer
	if !c.Source.IsValid() || !c.Destination.IsValid() {
		return invalid(cmd, "source or destination buffer has been destroyed")
	}
	if c.Size == 0 {
		return invalid(cmd, "copy size must be greater than zero")
	}
	if c.SourceOffset+c.Size > c.Source.Size() {
		return invalid(cmd, "source range [%d, %d) exceeds the %d byte buffer",
			c.SourceOffset, c.SourceOffset+c.Size, c.Source.Size())
	}
	if c.DestinationOffset+c.Size > c.Destination.Size() {
		return invalid(cmd, "destination range [%d, %d) exceeds the %d byte buffer",
			c.DestinationOffset, c.DestinationOffset+c.Size, c.Destination.Size())
	}
	if c.Source == c.Destination &&
		c.SourceOffset < c.DestinationOffset+c.Size && c.DestinationOffset < c.SourceOffset+c.Size {
		return invalid(cmd, "source and destination ranges overlap")
	}
	return nil
}

// ValidateCommand runs the shared rule for cmd. State commands without a
// rule always pass.
func ValidateCommand(cmd Command) *ValidationError {
	switch c := cmd.(type) {
	case SetVertexBufferCommand:
		return checkVertexBuffer(c)
	case SetIndexBufferCommand:
		return checkIndexBuffer(c)
	case SetResourceSetCommand:
		return checkSetResourceSet(c)
	case SetRenderTargetCommand:
		return checkTarget(CmdSetRenderTarget, c.Target)
	case SetViewportCommand:
		return checkViewport(c.Target, c.Viewport)
	case SetScissorCommand:
		return checkScissor(c.Target, c.Scissor)
	case SetPipelineCommand:
		if !c.Pipeline.IsValid() {
			return invalid(CmdSetPipeline, "pipeline %q has been destroyed", c.Pipeline.Name())
		}
	case ClearColorTargetCommand:
		return checkClearColor(c)
	case ClearDepthStencilTargetCommand:
		return checkClearDepth(c)
	case DrawCommand:
		return checkGraphicsCall(CmdDraw, &c.State, false)
	case DrawIndexedCommand:
		return checkGraphicsCall(CmdDrawIndexed, &c.State, true)
	case DrawInstancedCommand:
		return checkGraphicsCall(CmdDrawInstanced, &c.State, false)
	case DrawInstancedIndexedCommand:
		return checkGraphicsCall(CmdDrawInstancedIndexed, &c.State, true)
	case DispatchCommand:
		return checkComputeCall(&c.State)
	case CopyBufferToBufferCommand:
		return checkCopy(c)
	case ResolveSamplesToSwapchainCommand:
		return checkResolve(c)
	}
	return nil
}

// report logs a rejected command.
func report(err *ValidationError, list string) {
	attrs := []any{"command", err.Command.String(), "reason", err.Reason}
	if err.Index >= 0 {
		attrs = append(attrs, "index", err.Index)
	}
	if err.Slot != "" {
		attrs = append(attrs, "slot", err.Slot)
	}
	if list != "" {
		attrs = append(attrs, "list", list)
	}
	Logger().Error("rhi: command failed validation", attrs...)
}

func logged(err *ValidationError) bool {
	if err == nil {
		return true
	}
	report(err, "")
	return false
}

// ValidateForGraphicsCall reports whether a draw may execute with state.
// Failures are logged.
func ValidateForGraphicsCall(state BoundState) bool {
	return logged(checkGraphicsCall(CmdDraw, &state, false))
}

// ValidateForComputeCall reports whether a dispatch may execute with
// state. Failures, including an empty pipeline, are logged.
func ValidateForComputeCall(state BoundState) bool {
	return logged(checkComputeCall(&state))
}

// ValidateForClearColour reports whether color attachment index of target
// may be cleared. Failures are logged.
func ValidateForClearColour(target RenderTarget, index uint32) bool {
	return logged(checkClearColor(ClearColorTargetCommand{Index: index, Target: target}))
}

// ValidateForClearDepth reports whether target's depth may be cleared.
// Failures are logged.
func ValidateForClearDepth(target RenderTarget) bool {
	return logged(checkClearDepth(ClearDepthStencilTargetCommand{Target: target}))
}

// ValidateForSetViewport reports whether vp fits target. Failures are logged.
func ValidateForSetViewport(target RenderTarget, vp Viewport) bool {
	return logged(checkViewport(target, vp))
}

// ValidateForSetScissor reports whether sc fits target. Failures are logged.
func ValidateForSetScissor(target RenderTarget, sc Scissor) bool {
	return logged(checkScissor(target, sc))
}

// ValidateForResolveToSwapchain reports whether the resolve may execute.
// Failures, such as mismatching dimensions, are logged.
func ValidateForResolveToSwapchain(cmd ResolveSamplesToSwapchainCommand) bool {
	return logged(checkResolve(cmd))
}
