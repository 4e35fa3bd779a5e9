package rhi

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// CommandListState is the lifecycle state of a CommandList.
//
// State machine:
//
//	Idle → Recording → Recorded → Submitted → Idle
//
// Begin may also be called from Recorded to discard the recording.
type CommandListState uint8

const (
	CommandListIdle CommandListState = iota
	CommandListRecording
	CommandListRecorded
	CommandListSubmitted
)

func (s CommandListState) String() string {
	switch s {
	case CommandListIdle:
		return "Idle"
	case CommandListRecording:
		return "Recording"
	case CommandListRecorded:
		return "Recorded"
	case CommandListSubmitted:
		return "Submitted"
	default:
		return "Unknown"
	}
}

// CommandList is an append-only log of commands. Nothing executes until
// the list is submitted to its GraphicsDevice.
//
// A CommandList is not safe for concurrent use. Distinct lists share no
// state and may be recorded on different goroutines.
//
// Record calls do not return errors. A call made outside the Recording
// state, or with arguments that cannot be recorded, is dropped and the
// first such error is reported by Err and End.
type CommandList struct {
	id     uuid.UUID
	name   string
	device *GraphicsDevice

	state    CommandListState
	commands []Command
	tracked  BoundState
	depth    int
	err      error
}

// ID returns the list's unique identifier, used to correlate log lines.
func (c *CommandList) ID() uuid.UUID { return c.id }

// Name returns the debug name.
func (c *CommandList) Name() string { return c.name }

// State returns the lifecycle state.
func (c *CommandList) State() CommandListState { return c.state }

// Commands returns the recorded commands. The slice must not be modified.
func (c *CommandList) Commands() []Command { return c.commands }

// Len returns the number of recorded commands.
func (c *CommandList) Len() int { return len(c.commands) }

// Err returns the first recording error since Begin.
func (c *CommandList) Err() error { return c.err }

// Begin starts a new recording. It fails while already recording.
func (c *CommandList) Begin() error {
	switch c.state {
	case CommandListRecording:
		return ErrAlreadyRecording
	case CommandListSubmitted:
		return errors.Wrap(ErrNotRecorded, "rhi: command list is being executed")
	}
	c.clear()
	c.state = CommandListRecording
	return nil
}

// End finishes the recording. It fails unless the list is recording, so a
// second End without a Begin is rejected. If a record call was dropped,
// End still completes the recording and returns that error.
func (c *CommandList) End() error {
	if c.state != CommandListRecording {
		return errors.Wrapf(ErrNotRecording, "rhi: End called in state %s", c.state)
	}
	c.state = CommandListRecorded
	if c.depth > 0 {
		c.fail(errors.Newf("rhi: %d debug group(s) left open", c.depth))
	}
	return c.err
}

func (c *CommandList) clear() {
	for i := range c.commands {
		c.commands[i] = nil
	}
	c.commands = c.commands[:0]
	c.tracked = BoundState{}
	c.depth = 0
	c.err = nil
}

func (c *CommandList) fail(err error) {
	Logger().Warn("rhi: dropped command list call",
		"list", c.name, "id", c.id.String(), "err", err)
	if c.err == nil {
		c.err = err
	}
}

// record appends cmd if the list is recording.
func (c *CommandList) record(cmd Command) bool {
	if c.state != CommandListRecording {
		c.fail(errors.Wrapf(ErrNotRecording, "rhi: %s in state %s", cmd.Type(), c.state))
		return false
	}
	c.commands = append(c.commands, cmd)
	return true
}

// SetPipeline binds a pipeline for subsequent work commands.
func (c *CommandList) SetPipeline(p *Pipeline) {
	if p == nil {
		c.fail(errors.New("rhi: SetPipeline with nil pipeline"))
		return
	}
	if c.record(SetPipelineCommand{Pipeline: p}) {
		c.tracked.Pipeline = p
	}
}

// SetVertexBuffer binds a vertex buffer to a slot.
func (c *CommandList) SetVertexBuffer(buffer *DeviceBuffer, slot uint32) {
	c.SetVertexBufferOffset(buffer, slot, 0)
}

// SetVertexBufferOffset binds a vertex buffer to a slot starting at offset.
func (c *CommandList) SetVertexBufferOffset(buffer *DeviceBuffer, slot uint32, offset uint64) {
	if buffer == nil {
		c.fail(errors.New("rhi: SetVertexBuffer with nil buffer"))
		return
	}
	if slot >= MaxVertexBufferSlots {
		c.fail(errors.Newf("rhi: vertex buffer slot %d exceeds %d", slot, MaxVertexBufferSlots))
		return
	}
	if c.record(SetVertexBufferCommand{Buffer: buffer, Slot: slot, Offset: offset}) {
		c.tracked.VertexBuffers[slot] = VertexBufferBinding{Buffer: buffer, Offset: offset}
	}
}

// SetIndexBuffer binds an index buffer.
func (c *CommandList) SetIndexBuffer(buffer *DeviceBuffer, format IndexFormat) {
	c.SetIndexBufferOffset(buffer, format, 0)
}

// SetIndexBufferOffset binds an index buffer starting at offset.
func (c *CommandList) SetIndexBufferOffset(buffer *DeviceBuffer, format IndexFormat, offset uint64) {
	if buffer == nil {
		c.fail(errors.New("rhi: SetIndexBuffer with nil buffer"))
		return
	}
	if c.record(SetIndexBufferCommand{Buffer: buffer, Format: format, Offset: offset}) {
		c.tracked.IndexBuffer = buffer
		c.tracked.IndexFormat = format
		c.tracked.IndexOffset = offset
	}
}

// SetResourceSet binds a resource set. It must have been created for the
// pipeline bound when the work commands execute.
func (c *CommandList) SetResourceSet(set *ResourceSet) {
	if set == nil {
		c.fail(errors.New("rhi: SetResourceSet with nil resource set"))
		return
	}
	if c.record(SetResourceSetCommand{ResourceSet: set, Pipeline: c.tracked.Pipeline}) {
		c.tracked.ResourceSet = set
	}
}

// SetRenderTarget binds a render target. Viewport and scissor are reset
// to cover the whole target.
func (c *CommandList) SetRenderTarget(target RenderTarget) {
	if !target.IsBound() {
		c.fail(errors.New("rhi: SetRenderTarget with empty target"))
		return
	}
	if c.record(SetRenderTargetCommand{Target: target}) {
		c.tracked.Target = target
		w, h := target.Size()
		c.tracked.Viewport = Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1}
		c.tracked.HasViewport = true
		c.tracked.Scissor = Scissor{Width: w, Height: h}
		c.tracked.HasScissor = true
	}
}

// SetViewport sets the viewport, in pixels from the top-left corner.
func (c *CommandList) SetViewport(vp Viewport) {
	if c.record(SetViewportCommand{Viewport: vp, Target: c.tracked.Target}) {
		c.tracked.Viewport = vp
		c.tracked.HasViewport = true
	}
}

// SetScissor sets the scissor rectangle, in pixels from the top-left corner.
func (c *CommandList) SetScissor(sc Scissor) {
	if c.record(SetScissorCommand{Scissor: sc, Target: c.tracked.Target}) {
		c.tracked.Scissor = sc
		c.tracked.HasScissor = true
	}
}

// SetBlendFactor sets the blend constant.
func (c *CommandList) SetBlendFactor(factor Color) {
	c.record(SetBlendFactorCommand{Factor: factor})
}

// SetStencilReference sets the stencil reference value.
func (c *CommandList) SetStencilReference(reference uint32) {
	c.record(SetStencilReferenceCommand{Reference: reference})
}

// ClearColorTarget clears color attachment index of the bound target.
func (c *CommandList) ClearColorTarget(index uint32, color Color) {
	c.record(ClearColorTargetCommand{Index: index, Color: color, Target: c.tracked.Target})
}

// ClearDepthStencilTarget clears the depth attachment of the bound target.
func (c *CommandList) ClearDepthStencilTarget(depth float32, stencil uint8) {
	c.record(ClearDepthStencilTargetCommand{Depth: depth, Stencil: stencil, Target: c.tracked.Target})
}

// Draw draws count vertices starting at start.
func (c *CommandList) Draw(start, count uint32) {
	c.record(DrawCommand{VertexStart: start, VertexCount: count, State: c.tracked})
}

// DrawIndexed draws count indices starting at indexStart, adding
// vertexStart to every index.
func (c *CommandList) DrawIndexed(count, indexStart uint32, vertexStart int32) {
	c.record(DrawIndexedCommand{IndexCount: count, IndexStart: indexStart, VertexStart: vertexStart, State: c.tracked})
}

// DrawInstanced draws instanceCount instances of vertexCount vertices.
func (c *CommandList) DrawInstanced(vertexCount, instanceCount, vertexStart, instanceStart uint32) {
	c.record(DrawInstancedCommand{
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
		VertexStart:   vertexStart,
		InstanceStart: instanceStart,
		State:         c.tracked,
	})
}

// DrawInstancedIndexed draws instanceCount instances of indexCount indices.
func (c *CommandList) DrawInstancedIndexed(indexCount, instanceCount, indexStart uint32, vertexStart int32, instanceStart uint32) {
	c.record(DrawInstancedIndexedCommand{
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		IndexStart:    indexStart,
		VertexStart:   vertexStart,
		InstanceStart: instanceStart,
		State:         c.tracked,
	})
}

// Dispatch runs the bound compute pipeline over x*y*z workgroups.
func (c *CommandList) Dispatch(x, y, z uint32) {
	c.record(DispatchCommand{X: x, Y: y, Z: z, State: c.tracked})
}

// CopyBufferToBuffer copies size bytes between buffers.
func (c *CommandList) CopyBufferToBuffer(src *DeviceBuffer, srcOffset uint64, dst *DeviceBuffer, dstOffset, size uint64) {
	if src == nil || dst == nil {
		c.fail(errors.New("rhi: CopyBufferToBuffer with nil buffer"))
		return
	}
	c.record(CopyBufferToBufferCommand{
		Source:            src,
		Destination:       dst,
		SourceOffset:      srcOffset,
		DestinationOffset: dstOffset,
		Size:              size,
	})
}

// ResolveSamplesToSwapchain resolves color attachment index of source
// into the current image of target.
func (c *CommandList) ResolveSamplesToSwapchain(source *Framebuffer, index uint32, target Swapchain) {
	c.record(ResolveSamplesToSwapchainCommand{Source: source, SourceIndex: index, Target: target})
}

// StartTimingQuery starts q when the list executes.
func (c *CommandList) StartTimingQuery(q *TimingQuery) {
	if q == nil {
		c.fail(errors.New("rhi: StartTimingQuery with nil query"))
		return
	}
	c.record(StartTimingQueryCommand{Query: q})
}

// StopTimingQuery stops q when the list executes.
func (c *CommandList) StopTimingQuery(q *TimingQuery) {
	if q == nil {
		c.fail(errors.New("rhi: StopTimingQuery with nil query"))
		return
	}
	c.record(StopTimingQueryCommand{Query: q})
}

// BeginDebugGroup opens a debug group visible in graphics debuggers.
func (c *CommandList) BeginDebugGroup(label string) {
	if c.record(BeginDebugGroupCommand{Label: label}) {
		c.depth++
	}
}

// EndDebugGroup closes the innermost debug group.
func (c *CommandList) EndDebugGroup() {
	if c.depth == 0 && c.state == CommandListRecording {
		c.fail(errors.New("rhi: EndDebugGroup without BeginDebugGroup"))
		return
	}
	if c.record(EndDebugGroupCommand{}) {
		c.depth--
	}
}

// InsertDebugMarker inserts a debug label.
func (c *CommandList) InsertDebugMarker(label string) {
	c.record(InsertDebugMarkerCommand{Label: label})
}
