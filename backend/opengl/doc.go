// Package opengl implements the OpenGL graphics backend.
//
// The backend does not bind to a GL library itself. The windowing layer
// passes a Context, a thin wrapper over the current GL context, in
// DeviceSpecification.Context:
//
//	import _ "github.com/nexusgfx/rhi/backend/opengl"
//
//	device, err := rhi.NewGraphicsDevice(rhi.DeviceSpecification{
//	    API:     rhi.GraphicsAPIOpenGL,
//	    Context: myGLContext,
//	})
//
// OpenGL has no descriptor sets. Linear resource slots are compacted at
// pipeline creation: uniform blocks get dense binding points and sampled
// images get dense texture units, both in ascending slot order.
//
// Viewports and scissors are given top-left relative and flipped to GL's
// bottom-left origin against the height of the bound render target.
//
// RecordingContext implements Context without a GPU and records every call.
// It is used by the tests and for headless debugging.
package opengl
