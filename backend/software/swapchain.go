package software

import (
	"image"
	"image/color"
	"sync"

	"github.com/nexusgfx/rhi"
	"github.com/nexusgfx/rhi/internal/parallel"
)

// Swapchain is an in-memory rhi.Swapchain backed by an *image.RGBA. Clears
// and resolves targeting it write into the image; Present snapshots it.
type Swapchain struct {
	mu        sync.Mutex
	back      *image.RGBA
	front     *image.RGBA
	depth     rhi.PixelFormat
	depthData []byte
	vsync     bool
	frames    uint64
}

// NewSwapchain creates a swapchain of the given size. depth may be
// rhi.PixelFormatNone.
func NewSwapchain(width, height uint32, depth rhi.PixelFormat, vsync bool) *Swapchain {
	s := &Swapchain{depth: depth, vsync: vsync}
	s.allocate(width, height)
	return s
}

func (s *Swapchain) allocate(width, height uint32) {
	r := image.Rect(0, 0, int(width), int(height))
	s.back = image.NewRGBA(r)
	s.front = image.NewRGBA(r)
	s.depthData = nil
	if s.depth != rhi.PixelFormatNone {
		s.depthData = make([]byte, width*height*s.depth.BytesPerPixel())
	}
}

// Size implements rhi.Swapchain.
func (s *Swapchain) Size() (width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.back.Bounds()
	return uint32(b.Dx()), uint32(b.Dy())
}

// ColorFormat implements rhi.Swapchain.
func (s *Swapchain) ColorFormat() rhi.PixelFormat { return rhi.PixelFormatRGBA8Unorm }

// DepthFormat implements rhi.Swapchain.
func (s *Swapchain) DepthFormat() rhi.PixelFormat { return s.depth }

// Samples implements rhi.Swapchain.
func (s *Swapchain) Samples() rhi.SampleCount { return rhi.SampleCount1 }

// VSync implements rhi.Swapchain.
func (s *Swapchain) VSync() bool { return s.vsync }

// Prepare implements rhi.Swapchain.
func (s *Swapchain) Prepare() error { return nil }

// Present implements rhi.Swapchain. The back image is copied to the front
// image returned by Image.
func (s *Swapchain) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.front.Pix, s.back.Pix)
	s.frames++
	return nil
}

// Resize reallocates both images. Their contents are lost.
func (s *Swapchain) Resize(width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocate(width, height)
}

// Frames returns the number of presented frames.
func (s *Swapchain) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Image returns a copy of the last presented image.
func (s *Swapchain) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := image.NewRGBA(s.front.Rect)
	copy(img.Pix, s.front.Pix)
	return img
}

// BackBuffer returns a copy of the image being rendered.
func (s *Swapchain) BackBuffer() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := image.NewRGBA(s.back.Rect)
	copy(img.Pix, s.back.Pix)
	return img
}

func (s *Swapchain) clearColor(pool *parallel.WorkerPool, c rhi.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	px := rgba8(c)
	stride := s.back.Stride
	pool.Bands(s.back.Rect.Dy(), bandRows, func(lo, hi int) {
		fillPattern(s.back.Pix[lo*stride:hi*stride], px)
	})
}

func (s *Swapchain) clearDepth(depth float32, stencil uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	px := encodeDepth(s.depth, depth, stencil)
	for i := 0; i+len(px) <= len(s.depthData); i += len(px) {
		copy(s.depthData[i:], px)
	}
}

// resolve converts a tightly packed image of format into the back image.
// Rows are flipped because texture row 0 is the bottom row.
func (s *Swapchain) resolve(pool *parallel.WorkerPool, format rhi.PixelFormat, pixels []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bpp := int(format.BytesPerPixel())
	w, h := s.back.Rect.Dx(), s.back.Rect.Dy()
	pool.Bands(h, bandRows, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			src := pixels[(h-1-y)*w*bpp:]
			for x := 0; x < w; x++ {
				c := decodeRGBA8(format, src[x*bpp:])
				s.back.SetRGBA(x, y, color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]})
			}
		}
	})
}
