// Package rhi is a cross-API render hardware interface.
//
// Application code describes GPU work once, against a single set of types,
// and a GraphicsDevice replays it on whichever backend was selected when the
// device was created. Three backends ship with the module:
//
//   - backend/software: validation and state tracking without a GPU, for
//     headless tests and tooling.
//   - backend/opengl: an immediate-mode state machine driven through a
//     Context supplied by the windowing layer.
//   - backend/wgpu: explicit command buffers on top of gogpu/wgpu's HAL
//     (Vulkan, Metal, DX12, GLES, or the noop device).
//
// # Architecture
//
// Resources (buffers, textures, samplers, shader modules, pipelines and
// resource sets) are created by GraphicsDevice and tracked in per-kind arenas
// keyed by generation-checked handles, so a destroyed resource is detected
// when it is used rather than silently reused.
//
// Work is recorded into a CommandList as typed command records. Every draw,
// dispatch or clear record carries a snapshot of the bound state it was
// recorded with. On submission the backend's CommandExecutor validates each
// record with the shared rules in this package and replays the ones that
// pass. A failed command is skipped and reported; the rest of the list still
// runs.
//
// # Resource binding
//
// A Pipeline declares its resources by name with a (set, binding) pair.
// Every pair is flattened once, at pipeline creation, into a linear slot:
//
//	slot = set*DescriptorSetCount + binding
//
// ResourceSet writes are addressed by name only. Backends translate the
// linear slot back into whatever their native API expects.
//
// # Example
//
//	import (
//		"github.com/nexusgfx/rhi"
//		_ "github.com/nexusgfx/rhi/backend/software"
//	)
//
//	device, err := rhi.NewGraphicsDevice(rhi.DeviceSpecification{API: rhi.GraphicsAPISoftware})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer device.Close()
//
//	list := device.CreateCommandList("frame")
//	list.Begin()
//	list.SetRenderTarget(rhi.NewSwapchainTarget(swapchain))
//	list.ClearColorTarget(0, rhi.Color{R: 0.1, G: 0.1, B: 0.1, A: 1})
//	if err := list.End(); err != nil {
//		log.Fatal(err)
//	}
//	if err := device.SubmitCommandList(list); err != nil {
//		log.Print(err)
//	}
package rhi
