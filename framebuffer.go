package rhi

import (
	"sync"

	"github.com/nexusgfx/rhi/internal/arena"
)

// FramebufferSpecification describes an offscreen render target.
type FramebufferSpecification struct {
	Name             string
	Width            uint32
	Height           uint32
	ColorAttachments []PixelFormat
	// DepthAttachment is PixelFormatNone for no depth buffer.
	DepthAttachment PixelFormat
	Samples         SampleCount
}

// FramebufferAttachments is passed to backends to build a native framebuffer.
type FramebufferAttachments struct {
	Specification FramebufferSpecification
	Colors        []*Texture2D
	Depth         *Texture2D
}

// Framebuffer is a set of color attachments and an optional depth
// attachment that share one size.
type Framebuffer struct {
	device *GraphicsDevice
	handle arena.Handle

	mu     sync.RWMutex
	spec   FramebufferSpecification
	colors []*Texture2D
	depth  *Texture2D
	native NativeFramebuffer
}

// Specification returns the current specification.
func (f *Framebuffer) Specification() FramebufferSpecification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	spec := f.spec
	spec.ColorAttachments = append([]PixelFormat(nil), f.spec.ColorAttachments...)
	return spec
}

// Size returns the attachment size in pixels.
func (f *Framebuffer) Size() (width, height uint32) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.spec.Width, f.spec.Height
}

// ColorTextureCount returns the number of color attachments.
func (f *Framebuffer) ColorTextureCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.spec.ColorAttachments)
}

// HasDepthAttachment reports whether a depth attachment exists.
func (f *Framebuffer) HasDepthAttachment() bool { return f.depthFormat() != PixelFormatNone }

func (f *Framebuffer) colorFormat(i uint32) PixelFormat {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if int(i) < len(f.spec.ColorAttachments) {
		return f.spec.ColorAttachments[i]
	}
	return PixelFormatNone
}

func (f *Framebuffer) depthFormat() PixelFormat {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.spec.DepthAttachment
}

func (f *Framebuffer) samples() SampleCount {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.spec.Samples
}

// ColorTexture returns color attachment i, or nil if out of range.
func (f *Framebuffer) ColorTexture(i int) *Texture2D {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i < 0 || i >= len(f.colors) {
		return nil
	}
	return f.colors[i]
}

// DepthTexture returns the depth attachment, or nil.
func (f *Framebuffer) DepthTexture() *Texture2D {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.depth
}

// Native returns the backend framebuffer.
func (f *Framebuffer) Native() NativeFramebuffer {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.native
}

// IsValid reports whether the framebuffer has not been destroyed.
func (f *Framebuffer) IsValid() bool {
	return f != nil && f.device.framebuffers.Contains(f.handle)
}

// Resize recreates every attachment at the new size. Existing contents
// are lost. Resource sets sampling the old attachments must be rewritten.
// On failure the framebuffer keeps its old size and attachments.
func (f *Framebuffer) Resize(width, height uint32) error {
	if !f.IsValid() {
		return ErrResourceDestroyed
	}
	spec := f.Specification()
	if spec.Width == width && spec.Height == height {
		return nil
	}
	spec.Width, spec.Height = width, height
	if reason := f.device.checkFramebuffer(spec); reason != "" {
		return newResourceError("framebuffer", spec.Name, "%s", reason)
	}

	next := &Framebuffer{device: f.device, spec: spec}
	if err := f.device.buildFramebuffer(next); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseAttachments()
	f.spec = next.spec
	f.colors, f.depth, f.native = next.colors, next.depth, next.native
	return nil
}

// releaseAttachments destroys the attachments and native object.
// Callers hold f.mu.
func (f *Framebuffer) releaseAttachments() {
	if f.native != nil {
		f.native.Destroy()
		f.native = nil
	}
	for _, t := range f.colors {
		t.release()
	}
	f.colors = nil
	if f.depth != nil {
		f.depth.release()
		f.depth = nil
	}
}

// Destroy releases the framebuffer and its attachments.
func (f *Framebuffer) Destroy() {
	if _, ok := f.device.framebuffers.Remove(f.handle); !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseAttachments()
}
