// Package wgpu implements rhi.Backend on the gogpu/wgpu hardware
// abstraction layer. It registers itself for rhi.GraphicsAPIWGPU and
// rhi.GraphicsAPIVulkan.
//
// # Device selection
//
// A host application that already owns a device passes it through
// DeviceSpecification.Context. Any value with HalDevice() and HalQueue()
// methods returning hal.Device and hal.Queue is adopted as is; if it also
// implements gpucontext.DeviceProvider its surface format is reported by
// SurfaceFormat. Otherwise the backend opens its own instance, choosing the
// adapter whose name contains PreferredAdapter, then a discrete or
// integrated GPU, then the first adapter. GraphicsAPIWGPU falls back to the
// headless noop device when Vulkan is missing.
//
// # Command replay
//
// Linear slots are split back into bind groups: set n of a pipeline is bind
// group n. Render target and clear commands are folded into render passes.
// A pass opens lazily at the first draw, so clears recorded before it turn
// into clear load ops. A clear after a draw ends the pass and reopens it
// with a clear load op for that attachment only. A resolve is a render
// pass whose color attachment has a resolve target. Each command list is
// encoded into one command buffer and submitted with a fence.
//
// Swapchain targets implement SurfaceSwapchain. OffscreenSwapchain is a
// headless one backed by a texture.
package wgpu
