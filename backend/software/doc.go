// Package software implements the software graphics backend.
//
// The software backend does no rasterization. It runs the shared command
// validation, tracks bound state, keeps buffer and texture memory in byte
// slices, and performs clears, buffer copies and swapchain resolves on
// the CPU. Every native call it would issue is counted in Stats, which
// makes it the backend of choice for headless tests:
//
//	import _ "github.com/nexusgfx/rhi/backend/software"
//
//	device, err := rhi.NewGraphicsDevice(rhi.DeviceSpecification{API: rhi.GraphicsAPISoftware})
//	...
//	stats, _ := software.StatsOf(device)
//	fmt.Println(stats.Draws)
//
// Enabling DeviceSpecification.DebugLayer also records a textual trace of
// the executed calls, see Trace.
package software
