package rhi

// RenderTargetKind tags the variant held by a RenderTarget.
type RenderTargetKind uint8

const (
	RenderTargetNone RenderTargetKind = iota
	RenderTargetFramebuffer
	RenderTargetSwapchain
)

func (k RenderTargetKind) String() string {
	switch k {
	case RenderTargetFramebuffer:
		return "Framebuffer"
	case RenderTargetSwapchain:
		return "Swapchain"
	default:
		return "None"
	}
}

// RenderTarget is either a Framebuffer or a Swapchain. The zero value
// means no target.
type RenderTarget struct {
	kind        RenderTargetKind
	framebuffer *Framebuffer
	swapchain   Swapchain
}

// NewFramebufferTarget wraps a framebuffer.
func NewFramebufferTarget(fb *Framebuffer) RenderTarget {
	if fb == nil {
		return RenderTarget{}
	}
	return RenderTarget{kind: RenderTargetFramebuffer, framebuffer: fb}
}

// NewSwapchainTarget wraps a swapchain.
func NewSwapchainTarget(sc Swapchain) RenderTarget {
	if sc == nil {
		return RenderTarget{}
	}
	return RenderTarget{kind: RenderTargetSwapchain, swapchain: sc}
}

// Kind returns the active variant.
func (t RenderTarget) Kind() RenderTargetKind { return t.kind }

// Framebuffer returns the framebuffer variant, or nil.
func (t RenderTarget) Framebuffer() *Framebuffer { return t.framebuffer }

// Swapchain returns the swapchain variant, or nil.
func (t RenderTarget) Swapchain() Swapchain { return t.swapchain }

// IsBound reports whether t refers to a target at all.
func (t RenderTarget) IsBound() bool { return t.kind != RenderTargetNone }

// IsValid reports whether t is bound and its framebuffer, if any, is alive.
func (t RenderTarget) IsValid() bool {
	switch t.kind {
	case RenderTargetFramebuffer:
		return t.framebuffer.IsValid()
	case RenderTargetSwapchain:
		return true
	default:
		return false
	}
}

// ColorAttachmentCount returns the number of color attachments. A
// swapchain always has exactly one.
func (t RenderTarget) ColorAttachmentCount() uint32 {
	switch t.kind {
	case RenderTargetFramebuffer:
		return uint32(t.framebuffer.ColorTextureCount())
	case RenderTargetSwapchain:
		return 1
	default:
		return 0
	}
}

// ColorFormat returns the format of color attachment i.
func (t RenderTarget) ColorFormat(i uint32) PixelFormat {
	switch t.kind {
	case RenderTargetFramebuffer:
		return t.framebuffer.colorFormat(i)
	case RenderTargetSwapchain:
		if i == 0 {
			return t.swapchain.ColorFormat()
		}
	}
	return PixelFormatNone
}

// DepthFormat returns the depth attachment format, or PixelFormatNone.
func (t RenderTarget) DepthFormat() PixelFormat {
	switch t.kind {
	case RenderTargetFramebuffer:
		return t.framebuffer.depthFormat()
	case RenderTargetSwapchain:
		return t.swapchain.DepthFormat()
	default:
		return PixelFormatNone
	}
}

// HasDepthAttachment reports whether the target has a depth attachment.
func (t RenderTarget) HasDepthAttachment() bool {
	return t.DepthFormat() != PixelFormatNone
}

// Samples returns the sample count of the target.
func (t RenderTarget) Samples() SampleCount {
	switch t.kind {
	case RenderTargetFramebuffer:
		return t.framebuffer.samples()
	case RenderTargetSwapchain:
		return t.swapchain.Samples()
	default:
		return SampleCount1
	}
}

// Size returns the pixel size of the target.
func (t RenderTarget) Size() (width, height uint32) {
	switch t.kind {
	case RenderTargetFramebuffer:
		return t.framebuffer.Size()
	case RenderTargetSwapchain:
		return t.swapchain.Size()
	default:
		return 0, 0
	}
}

// Equal reports whether t and o refer to the same target.
func (t RenderTarget) Equal(o RenderTarget) bool {
	return t.kind == o.kind && t.framebuffer == o.framebuffer && t.swapchain == o.swapchain
}
