package rhi

// CommandType identifies the kind of a recorded command.
type CommandType uint8

const (
	// State commands
	CmdSetPipeline CommandType = iota
	CmdSetVertexBuffer
	CmdSetIndexBuffer
	CmdSetResourceSet
	CmdSetRenderTarget
	CmdSetViewport
	CmdSetScissor
	CmdSetBlendFactor
	CmdSetStencilReference

	// Clear commands
	CmdClearColorTarget
	CmdClearDepthStencilTarget

	// Work commands
	CmdDraw
	CmdDrawIndexed
	CmdDrawInstanced
	CmdDrawInstancedIndexed
	CmdDispatch

	// Transfer commands
	CmdCopyBufferToBuffer
	CmdResolveSamplesToSwapchain

	// Instrumentation
	CmdStartTimingQuery
	CmdStopTimingQuery
	CmdBeginDebugGroup
	CmdEndDebugGroup
	CmdInsertDebugMarker
)

var commandTypeNames = [...]string{
	CmdSetPipeline:               "SetPipeline",
	CmdSetVertexBuffer:           "SetVertexBuffer",
	CmdSetIndexBuffer:            "SetIndexBuffer",
	CmdSetResourceSet:            "SetResourceSet",
	CmdSetRenderTarget:           "SetRenderTarget",
	CmdSetViewport:               "SetViewport",
	CmdSetScissor:                "SetScissor",
	CmdSetBlendFactor:            "SetBlendFactor",
	CmdSetStencilReference:       "SetStencilReference",
	CmdClearColorTarget:          "ClearColorTarget",
	CmdClearDepthStencilTarget:   "ClearDepthStencilTarget",
	CmdDraw:                      "Draw",
	CmdDrawIndexed:               "DrawIndexed",
	CmdDrawInstanced:             "DrawInstanced",
	CmdDrawInstancedIndexed:      "DrawInstancedIndexed",
	CmdDispatch:                  "Dispatch",
	CmdCopyBufferToBuffer:        "CopyBufferToBuffer",
	CmdResolveSamplesToSwapchain: "ResolveSamplesToSwapchain",
	CmdStartTimingQuery:          "StartTimingQuery",
	CmdStopTimingQuery:           "StopTimingQuery",
	CmdBeginDebugGroup:           "BeginDebugGroup",
	CmdEndDebugGroup:             "EndDebugGroup",
	CmdInsertDebugMarker:         "InsertDebugMarker",
}

func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by every recorded command. Executors switch on
// the concrete type.
type Command interface {
	Type() CommandType
}

// MaxVertexBufferSlots is the number of vertex buffer slots tracked by a
// command list.
const MaxVertexBufferSlots = 8

// VertexBufferBinding is a vertex buffer bound to a slot.
type VertexBufferBinding struct {
	Buffer *DeviceBuffer
	Offset uint64
}

// BoundState is the state in effect when a command was recorded. Work
// commands carry a copy so executors can validate and replay them without
// reconstructing history.
type BoundState struct {
	Pipeline      *Pipeline
	Target        RenderTarget
	ResourceSet   *ResourceSet
	VertexBuffers [MaxVertexBufferSlots]VertexBufferBinding
	IndexBuffer   *DeviceBuffer
	IndexFormat   IndexFormat
	IndexOffset   uint64
	Viewport      Viewport
	HasViewport   bool
	Scissor       Scissor
	HasScissor    bool
}

// --------------------------------------------------------------------------
// State commands
// --------------------------------------------------------------------------

// SetPipelineCommand binds a pipeline.
type SetPipelineCommand struct {
	Pipeline *Pipeline
}

// Type implements Command.
func (SetPipelineCommand) Type() CommandType { return CmdSetPipeline }

// SetVertexBufferCommand binds a vertex buffer to a slot.
type SetVertexBufferCommand struct {
	Buffer *DeviceBuffer
	Slot   uint32
	Offset uint64
}

// Type implements Command.
func (SetVertexBufferCommand) Type() CommandType { return CmdSetVertexBuffer }

// SetIndexBufferCommand binds an index buffer.
type SetIndexBufferCommand struct {
	Buffer *DeviceBuffer
	Format IndexFormat
	Offset uint64
}

// Type implements Command.
func (SetIndexBufferCommand) Type() CommandType { return CmdSetIndexBuffer }

// SetResourceSetCommand binds a resource set. Pipeline is the pipeline
// bound when the command was recorded.
type SetResourceSetCommand struct {
	ResourceSet *ResourceSet
	Pipeline    *Pipeline
}

// Type implements Command.
func (SetResourceSetCommand) Type() CommandType { return CmdSetResourceSet }

// SetRenderTargetCommand binds a render target and resets viewport and
// scissor to cover it.
type SetRenderTargetCommand struct {
	Target RenderTarget
}

// Type implements Command.
func (SetRenderTargetCommand) Type() CommandType { return CmdSetRenderTarget }

// SetViewportCommand sets the viewport of the bound target.
type SetViewportCommand struct {
	Viewport Viewport
	Target   RenderTarget
}

// Type implements Command.
func (SetViewportCommand) Type() CommandType { return CmdSetViewport }

// SetScissorCommand sets the scissor rectangle of the bound target.
type SetScissorCommand struct {
	Scissor Scissor
	Target  RenderTarget
}

// Type implements Command.
func (SetScissorCommand) Type() CommandType { return CmdSetScissor }

// SetBlendFactorCommand sets the constant used by BlendConstant factors.
type SetBlendFactorCommand struct {
	Factor Color
}

// Type implements Command.
func (SetBlendFactorCommand) Type() CommandType { return CmdSetBlendFactor }

// SetStencilReferenceCommand sets the stencil reference value.
type SetStencilReferenceCommand struct {
	Reference uint32
}

// Type implements Command.
func (SetStencilReferenceCommand) Type() CommandType { return CmdSetStencilReference }

// --------------------------------------------------------------------------
// Clear commands
// --------------------------------------------------------------------------

// ClearColorTargetCommand clears one color attachment of the bound target.
type ClearColorTargetCommand struct {
	Index  uint32
	Color  Color
	Target RenderTarget
}

// Type implements Command.
func (ClearColorTargetCommand) Type() CommandType { return CmdClearColorTarget }

// ClearDepthStencilTargetCommand clears the depth attachment of the bound target.
type ClearDepthStencilTargetCommand struct {
	Depth   float32
	Stencil uint8
	Target  RenderTarget
}

// Type implements Command.
func (ClearDepthStencilTargetCommand) Type() CommandType { return CmdClearDepthStencilTarget }

// --------------------------------------------------------------------------
// Work commands
// --------------------------------------------------------------------------

// DrawCommand draws non-indexed vertices.
type DrawCommand struct {
	VertexStart uint32
	VertexCount uint32
	State       BoundState
}

// Type implements Command.
func (DrawCommand) Type() CommandType { return CmdDraw }

// DrawIndexedCommand draws indexed vertices.
type DrawIndexedCommand struct {
	IndexCount  uint32
	IndexStart  uint32
	VertexStart int32
	State       BoundState
}

// Type implements Command.
func (DrawIndexedCommand) Type() CommandType { return CmdDrawIndexed }

// DrawInstancedCommand draws instanced non-indexed vertices.
type DrawInstancedCommand struct {
	VertexCount   uint32
	InstanceCount uint32
	VertexStart   uint32
	InstanceStart uint32
	State         BoundState
}

// Type implements Command.
func (DrawInstancedCommand) Type() CommandType { return CmdDrawInstanced }

// DrawInstancedIndexedCommand draws instanced indexed vertices.
type DrawInstancedIndexedCommand struct {
	IndexCount    uint32
	InstanceCount uint32
	IndexStart    uint32
	VertexStart   int32
	InstanceStart uint32
	State         BoundState
}

// Type implements Command.
func (DrawInstancedIndexedCommand) Type() CommandType { return CmdDrawInstancedIndexed }

// DispatchCommand runs a compute workload.
type DispatchCommand struct {
	X, Y, Z uint32
	State   BoundState
}

// Type implements Command.
func (DispatchCommand) Type() CommandType { return CmdDispatch }

// --------------------------------------------------------------------------
// Transfer commands
// --------------------------------------------------------------------------

// CopyBufferToBufferCommand copies a byte range between buffers.
type CopyBufferToBufferCommand struct {
	Source            *DeviceBuffer
	Destination       *DeviceBuffer
	SourceOffset      uint64
	DestinationOffset uint64
	Size              uint64
}

// Type implements Command.
func (CopyBufferToBufferCommand) Type() CommandType { return CmdCopyBufferToBuffer }

// ResolveSamplesToSwapchainCommand resolves a framebuffer color attachment
// into a swapchain image.
type ResolveSamplesToSwapchainCommand struct {
	Source      *Framebuffer
	SourceIndex uint32
	Target      Swapchain
}

// Type implements Command.
func (ResolveSamplesToSwapchainCommand) Type() CommandType { return CmdResolveSamplesToSwapchain }

// --------------------------------------------------------------------------
// Instrumentation
// --------------------------------------------------------------------------

// StartTimingQueryCommand starts a timing query.
type StartTimingQueryCommand struct {
	Query *TimingQuery
}

// Type implements Command.
func (StartTimingQueryCommand) Type() CommandType { return CmdStartTimingQuery }

// StopTimingQueryCommand stops a timing query.
type StopTimingQueryCommand struct {
	Query *TimingQuery
}

// Type implements Command.
func (StopTimingQueryCommand) Type() CommandType { return CmdStopTimingQuery }

// BeginDebugGroupCommand opens a named debug group.
type BeginDebugGroupCommand struct {
	Label string
}

// Type implements Command.
func (BeginDebugGroupCommand) Type() CommandType { return CmdBeginDebugGroup }

// EndDebugGroupCommand closes the innermost debug group.
type EndDebugGroupCommand struct{}

// Type implements Command.
func (EndDebugGroupCommand) Type() CommandType { return CmdEndDebugGroup }

// InsertDebugMarkerCommand inserts a single debug label.
type InsertDebugMarkerCommand struct {
	Label string
}

// Type implements Command.
func (InsertDebugMarkerCommand) Type() CommandType { return CmdInsertDebugMarker }
