package wgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/nexusgfx/rhi"
)

// SurfaceSwapchain is a swapchain the backend can render and resolve into.
// CurrentTexture and CurrentView return the image acquired by Prepare.
type SurfaceSwapchain interface {
	rhi.Swapchain
	CurrentTexture() hal.Texture
	CurrentView() hal.TextureView
	// DepthView is nil when DepthFormat is PixelFormatNone.
	DepthView() hal.TextureView
}

// OffscreenSwapchain is a single-image SurfaceSwapchain for headless
// rendering.
type OffscreenSwapchain struct {
	color         *texture
	depth         *texture
	width, height uint32
	presented     int
}

var _ SurfaceSwapchain = (*OffscreenSwapchain)(nil)

// NewOffscreenSwapchain creates the images of a headless swapchain. depth
// may be rhi.PixelFormatNone.
func NewOffscreenSwapchain(b *Backend, width, height uint32, color, depth rhi.PixelFormat) (*OffscreenSwapchain, error) {
	alloc := func(name string, format rhi.PixelFormat, usage rhi.TextureUsage) (*texture, error) {
		nt, err := b.CreateTexture(rhi.TextureDescription{
			Name:        name,
			Width:       width,
			Height:      height,
			Format:      format,
			MipLevels:   1,
			Samples:     rhi.SampleCount1,
			Usage:       usage,
			ArrayLayers: 1,
		}, nil)
		if err != nil {
			return nil, err
		}
		return nt.(*texture), nil
	}
	sc := &OffscreenSwapchain{width: width, height: height}
	var err error
	if sc.color, err = alloc("offscreen.color", color, rhi.TextureUsageRenderTarget); err != nil {
		return nil, err
	}
	if depth != rhi.PixelFormatNone {
		if sc.depth, err = alloc("offscreen.depth", depth, rhi.TextureUsageDepthStencil); err != nil {
			sc.color.Destroy()
			return nil, err
		}
	}
	return sc, nil
}

func (s *OffscreenSwapchain) Size() (width, height uint32) { return s.width, s.height }

func (s *OffscreenSwapchain) ColorFormat() rhi.PixelFormat { return s.color.desc.Format }

func (s *OffscreenSwapchain) DepthFormat() rhi.PixelFormat {
	if s.depth == nil {
		return rhi.PixelFormatNone
	}
	return s.depth.desc.Format
}

func (s *OffscreenSwapchain) Samples() rhi.SampleCount { return rhi.SampleCount1 }

func (s *OffscreenSwapchain) VSync() bool { return false }

func (s *OffscreenSwapchain) Prepare() error { return nil }

func (s *OffscreenSwapchain) Present() error {
	s.presented++
	return nil
}

// Presented returns how many times Present was called.
func (s *OffscreenSwapchain) Presented() int { return s.presented }

func (s *OffscreenSwapchain) CurrentTexture() hal.Texture { return s.color.raw }

func (s *OffscreenSwapchain) CurrentView() hal.TextureView { return s.color.view }

func (s *OffscreenSwapchain) DepthView() hal.TextureView {
	if s.depth == nil {
		return nil
	}
	return s.depth.view
}

// Format is the color format as the HAL names it.
func (s *OffscreenSwapchain) Format() gputypes.TextureFormat { return formats[s.color.desc.Format] }

// Destroy releases the images.
func (s *OffscreenSwapchain) Destroy() {
	s.color.Destroy()
	if s.depth != nil {
		s.depth.Destroy()
	}
}
