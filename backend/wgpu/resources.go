package wgpu

import (
	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/nexusgfx/rhi"
)

// Errors returned by the wgpu backend.
var (
	// ErrFenceTimeout is returned when submitted work does not finish in time.
	ErrFenceTimeout = errors.New("wgpu: fence wait timed out")

	// ErrNotSurface is returned when a swapchain target does not implement
	// SurfaceSwapchain.
	ErrNotSurface = errors.New("wgpu: swapchain does not implement SurfaceSwapchain")
)

// copyPitchAlignment is the WebGPU row alignment for buffer-texture copies.
const copyPitchAlignment = 256

type buffer struct {
	b     *Backend
	raw   hal.Buffer
	size  uint64
	usage gputypes.BufferUsage
}

func (buf *buffer) Write(offset uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	buf.b.queue.WriteBuffer(buf.raw, offset, data)
	return nil
}

// Read copies into dst. Buffers that cannot be mapped are first copied to
// a staging buffer on the GPU.
func (buf *buffer) Read(offset uint64, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	if buf.usage&gputypes.BufferUsageMapRead != 0 {
		return buf.b.queue.ReadBuffer(buf.raw, offset, dst)
	}

	start := offset &^ 3
	size := align4(offset + uint64(len(dst)) - start)
	staging, err := buf.b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return errors.Wrap(err, "wgpu: create staging buffer")
	}
	defer buf.b.device.DestroyBuffer(staging)

	encoder, err := buf.b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "readback"})
	if err != nil {
		return errors.Wrap(err, "wgpu: create command encoder")
	}
	if err := encoder.BeginEncoding("readback"); err != nil {
		return errors.Wrap(err, "wgpu: begin encoding")
	}
	encoder.CopyBufferToBuffer(buf.raw, staging, []hal.BufferCopy{{SrcOffset: start, DstOffset: 0, Size: size}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return errors.Wrap(err, "wgpu: end encoding")
	}
	if err := buf.b.submit(cmdBuf); err != nil {
		return errors.Wrap(err, "wgpu: submit readback")
	}
	tmp := make([]byte, size)
	if err := buf.b.queue.ReadBuffer(staging, 0, tmp); err != nil {
		return errors.Wrap(err, "wgpu: read staging buffer")
	}
	copy(dst, tmp[offset-start:])
	return nil
}

func (buf *buffer) Destroy() { buf.b.device.DestroyBuffer(buf.raw) }

type texture struct {
	b       *Backend
	raw     hal.Texture
	view    hal.TextureView
	desc    rhi.TextureDescription
	samples uint32
}

// Write uploads one region. Cube faces are array layers.
func (t *texture) Write(region rhi.TextureRegion, data []byte) error {
	bpp := t.desc.Format.BytesPerPixel()
	t.b.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.raw,
			MipLevel: region.MipLevel,
			Origin:   hal.Origin3D{X: region.X, Y: region.Y, Z: region.Layer},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  region.Width * bpp,
			RowsPerImage: region.Height,
		},
		&hal.Extent3D{Width: region.Width, Height: region.Height, DepthOrArrayLayers: 1},
	)
	return nil
}

func (t *texture) Destroy() {
	t.b.device.DestroyTextureView(t.view)
	t.b.device.DestroyTexture(t.raw)
}

type sampler struct {
	b   *Backend
	raw hal.Sampler
}

func (s *sampler) Destroy() { s.b.device.DestroySampler(s.raw) }

type shader struct {
	b     *Backend
	raw   hal.ShaderModule
	stage rhi.ShaderStage
	entry string
}

func (s *shader) Destroy() { s.b.device.DestroyShaderModule(s.raw) }

// framebuffer records the attachments a render pass draws into.
type framebuffer struct {
	colors []*texture
	depth  *texture
}

func (*framebuffer) Destroy() {}
