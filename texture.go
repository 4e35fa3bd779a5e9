package rhi

import (
	"fmt"
	"math/bits"

	"github.com/cockroachdb/errors"

	"github.com/nexusgfx/rhi/internal/arena"
)

// TextureDescription is the backend-facing description shared by 2D
// textures, cubemaps and framebuffer attachments.
type TextureDescription struct {
	Name        string
	Width       uint32
	Height      uint32
	Format      PixelFormat
	MipLevels   uint32
	Samples     SampleCount
	Usage       TextureUsage
	ArrayLayers uint32
	Cube        bool
}

// Texture2DSpecification describes a Texture2D.
type Texture2DSpecification struct {
	Name   string
	Width  uint32
	Height uint32
	Format PixelFormat
	// MipLevels of 0 is treated as 1.
	MipLevels uint32
	Samples   SampleCount
	Usage     TextureUsage
}

// CubemapSpecification describes a Cubemap. Every face has the same size.
type CubemapSpecification struct {
	Name      string
	Width     uint32
	Height    uint32
	Format    PixelFormat
	MipLevels uint32
	Usage     TextureUsage
}

// CubemapFace indexes the six faces of a cubemap.
type CubemapFace uint8

// Cubemap faces in layer order.
const (
	CubemapFacePositiveX CubemapFace = iota
	CubemapFaceNegativeX
	CubemapFacePositiveY
	CubemapFaceNegativeY
	CubemapFacePositiveZ
	CubemapFaceNegativeZ
)

// CubemapFaceCount is the number of faces of a cubemap.
const CubemapFaceCount = 6

// TextureRegion addresses a rectangle of one mip level of one layer.
type TextureRegion struct {
	Layer    uint32
	MipLevel uint32
	X, Y     uint32
	Width    uint32
	Height   uint32
}

// MaxMipLevels returns the length of a full mip chain for the given size.
func MaxMipLevels(width, height uint32) uint32 {
	m := max(width, height)
	if m == 0 {
		return 0
	}
	return uint32(bits.Len32(m))
}

// MipSize returns the size of a mip level, clamped to 1.
func MipSize(width, height, level uint32) (uint32, uint32) {
	return max(width>>level, 1), max(height>>level, 1)
}

// checkTexture returns a reason desc is invalid for the backend, or "".
func checkTexture(desc TextureDescription, b Backend) string {
	caps := b.Capabilities()
	switch {
	case desc.Width == 0 || desc.Height == 0:
		return "width and height must be greater than zero"
	case !desc.Format.IsValid():
		return "unknown pixel format"
	case desc.MipLevels == 0:
		return "mip level 0 must exist"
	case desc.MipLevels > MaxMipLevels(desc.Width, desc.Height):
		return fmt.Sprintf("%d mip levels exceed the %d available for %dx%d",
			desc.MipLevels, MaxMipLevels(desc.Width, desc.Height), desc.Width, desc.Height)
	case desc.Usage == 0:
		return "usage must not be empty"
	case desc.Format.IsDepth() && desc.Usage.Has(TextureUsageRenderTarget):
		return "depth formats cannot be color render targets"
	case !desc.Format.IsDepth() && desc.Usage.Has(TextureUsageDepthStencil):
		return "depth-stencil usage requires a depth format"
	case desc.Cube && desc.Width != desc.Height:
		return "cubemap faces must be square"
	}
	if _, err := desc.Samples.Count(); err != nil {
		return "unknown sample count"
	}
	if desc.Samples != SampleCount1 {
		switch {
		case !caps.SupportsMultisampledTextures:
			return "backend does not support multisampled textures"
		case desc.Samples > caps.MaxSamples:
			return fmt.Sprintf("%v exceeds the backend maximum %v", desc.Samples, caps.MaxSamples)
		case desc.MipLevels != 1:
			return "multisampled textures cannot have mip levels"
		}
	}
	if !b.SupportsFormat(desc.Format, desc.Usage) {
		return fmt.Sprintf("format %v is not supported for the requested usage", desc.Format)
	}
	return ""
}

// checkRegion validates a write of data into region of desc.
func checkRegion(desc TextureDescription, region TextureRegion, data []byte) error {
	if region.MipLevel >= desc.MipLevels {
		return errors.Wrapf(ErrOutOfRange, "rhi: mip level %d of %d", region.MipLevel, desc.MipLevels)
	}
	if region.Layer >= desc.ArrayLayers {
		return errors.Wrapf(ErrOutOfRange, "rhi: layer %d of %d", region.Layer, desc.ArrayLayers)
	}
	w, h := MipSize(desc.Width, desc.Height, region.MipLevel)
	if region.Width == 0 || region.Height == 0 || region.X+region.Width > w || region.Y+region.Height > h {
		return errors.Wrapf(ErrOutOfRange, "rhi: region %dx%d+%d+%d outside %dx%d mip",
			region.Width, region.Height, region.X, region.Y, w, h)
	}
	want := uint64(region.Width) * uint64(region.Height) * uint64(desc.Format.BytesPerPixel())
	if uint64(len(data)) != want {
		return errors.Newf("rhi: region needs %d bytes, got %d", want, len(data))
	}
	return nil
}

// SampledTexture is a texture that can be bound to a combined image sampler
// slot: a Texture2D or a Cubemap.
type SampledTexture interface {
	Description() TextureDescription
	Native() NativeTexture
	IsValid() bool
}

// Texture2D is a two dimensional GPU image.
type Texture2D struct {
	device *GraphicsDevice
	handle arena.Handle
	desc   TextureDescription
	native NativeTexture
	owned  bool
}

// Specification returns the creation specification.
func (t *Texture2D) Specification() Texture2DSpecification {
	return Texture2DSpecification{
		Name:      t.desc.Name,
		Width:     t.desc.Width,
		Height:    t.desc.Height,
		Format:    t.desc.Format,
		MipLevels: t.desc.MipLevels,
		Samples:   t.desc.Samples,
		Usage:     t.desc.Usage,
	}
}

// Description returns the backend-facing description.
func (t *Texture2D) Description() TextureDescription { return t.desc }

// Native returns the backend texture.
func (t *Texture2D) Native() NativeTexture { return t.native }

// IsValid reports whether the texture has not been destroyed.
func (t *Texture2D) IsValid() bool {
	return t != nil && t.device.textures.Contains(t.handle)
}

// SetData uploads data into a rectangle of one mip level.
func (t *Texture2D) SetData(data []byte, level, x, y, width, height uint32) error {
	if !t.IsValid() {
		return ErrResourceDestroyed
	}
	region := TextureRegion{MipLevel: level, X: x, Y: y, Width: width, Height: height}
	if err := checkRegion(t.desc, region, data); err != nil {
		return err
	}
	return t.native.Write(region, data)
}

// Destroy releases the texture. Framebuffer attachments are released with
// their framebuffer and ignore Destroy.
func (t *Texture2D) Destroy() {
	if t.owned {
		return
	}
	t.release()
}

func (t *Texture2D) release() {
	if _, ok := t.device.textures.Remove(t.handle); ok {
		t.native.Destroy()
	}
}

// Cubemap is a six-faced GPU image.
type Cubemap struct {
	device *GraphicsDevice
	handle arena.Handle
	desc   TextureDescription
	native NativeTexture
}

// Specification returns the creation specification.
func (c *Cubemap) Specification() CubemapSpecification {
	return CubemapSpecification{
		Name:      c.desc.Name,
		Width:     c.desc.Width,
		Height:    c.desc.Height,
		Format:    c.desc.Format,
		MipLevels: c.desc.MipLevels,
		Usage:     c.desc.Usage,
	}
}

// Description returns the backend-facing description.
func (c *Cubemap) Description() TextureDescription { return c.desc }

// Native returns the backend texture.
func (c *Cubemap) Native() NativeTexture { return c.native }

// IsValid reports whether the cubemap has not been destroyed.
func (c *Cubemap) IsValid() bool {
	return c != nil && c.device.textures.Contains(c.handle)
}

// SetData uploads data into a rectangle of one face and mip level.
func (c *Cubemap) SetData(data []byte, face CubemapFace, level, x, y, width, height uint32) error {
	if !c.IsValid() {
		return ErrResourceDestroyed
	}
	region := TextureRegion{Layer: uint32(face), MipLevel: level, X: x, Y: y, Width: width, Height: height}
	if err := checkRegion(c.desc, region, data); err != nil {
		return err
	}
	return c.native.Write(region, data)
}

// Destroy releases the cubemap.
func (c *Cubemap) Destroy() {
	if _, ok := c.device.textures.Remove(c.handle); ok {
		c.native.Destroy()
	}
}
