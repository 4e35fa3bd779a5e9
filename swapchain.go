package rhi

// Swapchain is the sequence of presentable images of a window. It is
// created and owned by the windowing layer, which also drives Prepare and
// Present. The core only renders into it through a RenderTarget.
//
// Backends that need native access type-assert the Swapchain to their own
// interface, e.g. one exposing the current texture view.
type Swapchain interface {
	// Size returns the pixel size of the current images.
	Size() (width, height uint32)
	ColorFormat() PixelFormat
	// DepthFormat returns PixelFormatNone when the swapchain has no depth buffer.
	DepthFormat() PixelFormat
	Samples() SampleCount
	VSync() bool
	// Prepare acquires the next image.
	Prepare() error
	// Present queues the current image for display.
	Present() error
}
