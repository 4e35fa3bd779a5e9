package software

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/nexusgfx/rhi"
	"github.com/nexusgfx/rhi/internal/parallel"
)

type buffer struct {
	mu   sync.Mutex
	data []byte
}

func (b *buffer) Write(offset uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return errors.Wrapf(rhi.ErrOutOfRange, "software: write [%d, %d) into %d byte buffer",
			offset, offset+uint64(len(data)), len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *buffer) Read(offset uint64, dst []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset+uint64(len(dst)) > uint64(len(b.data)) {
		return errors.Wrapf(rhi.ErrOutOfRange, "software: read [%d, %d) from %d byte buffer",
			offset, offset+uint64(len(dst)), len(b.data))
	}
	copy(dst, b.data[offset:])
	return nil
}

func (b *buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
}

// copyBuffer copies between two software buffers. src and dst may be the
// same buffer.
func copyBuffer(dst *buffer, dstOffset uint64, src *buffer, srcOffset, size uint64) {
	if src == dst {
		src.mu.Lock()
		copy(src.data[dstOffset:dstOffset+size], src.data[srcOffset:srcOffset+size])
		src.mu.Unlock()
		return
	}
	tmp := make([]byte, size)
	src.mu.Lock()
	copy(tmp, src.data[srcOffset:])
	src.mu.Unlock()

	dst.mu.Lock()
	copy(dst.data[dstOffset:], tmp)
	dst.mu.Unlock()
}

// texture stores every (layer, mip) image tightly packed.
type texture struct {
	desc rhi.TextureDescription
	bpp  uint32

	mu     sync.Mutex
	images [][]byte
}

func newTexture(desc rhi.TextureDescription) *texture {
	t := &texture{desc: desc, bpp: desc.Format.BytesPerPixel()}
	t.images = make([][]byte, desc.ArrayLayers*desc.MipLevels)
	for layer := uint32(0); layer < desc.ArrayLayers; layer++ {
		for level := uint32(0); level < desc.MipLevels; level++ {
			w, h := rhi.MipSize(desc.Width, desc.Height, level)
			t.images[t.index(layer, level)] = make([]byte, w*h*t.bpp)
		}
	}
	return t
}

func (t *texture) index(layer, level uint32) uint32 {
	return layer*t.desc.MipLevels + level
}

func (t *texture) Write(r rhi.TextureRegion, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.images == nil {
		return rhi.ErrResourceDestroyed
	}
	w, _ := rhi.MipSize(t.desc.Width, t.desc.Height, r.MipLevel)
	img := t.images[t.index(r.Layer, r.MipLevel)]
	row := r.Width * t.bpp
	for y := uint32(0); y < r.Height; y++ {
		dst := ((r.Y+y)*w + r.X) * t.bpp
		copy(img[dst:dst+row], data[y*row:(y+1)*row])
	}
	return nil
}

// fill sets every texel of mip level 0 of every layer to px.
func (t *texture) fill(pool *parallel.WorkerPool, px []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row := int(t.desc.Width) * len(px)
	for layer := uint32(0); layer < t.desc.ArrayLayers; layer++ {
		img := t.images[t.index(layer, 0)]
		pool.Bands(int(t.desc.Height), bandRows, func(lo, hi int) {
			fillPattern(img[lo*row:hi*row], px)
		})
	}
}

// fillPattern repeats px over dst.
func fillPattern(dst, px []byte) {
	if len(dst) < len(px) {
		return
	}
	n := copy(dst, px)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
}

// pixels returns a copy of one image.
func (t *texture) pixels(layer, level uint32) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.images[t.index(layer, level)]...)
}

func (t *texture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.images = nil
}

// Pixels returns a copy of one image of a software texture. It reports
// false for textures of other backends.
func Pixels(tex rhi.SampledTexture, layer, level uint32) ([]byte, bool) {
	t, ok := tex.Native().(*texture)
	if !ok || layer >= t.desc.ArrayLayers || level >= t.desc.MipLevels {
		return nil, false
	}
	return t.pixels(layer, level), true
}

type sampler struct {
	spec rhi.SamplerSpecification
}

func (s *sampler) Destroy() {}

type shaderModule struct {
	spec rhi.ShaderModuleSpecification
}

func (m *shaderModule) Destroy() {}

type pipeline struct {
	name  string
	slots int
}

func (p *pipeline) Destroy() {}

// framebuffer references attachments owned by the rhi.Framebuffer.
type framebuffer struct {
	colors []*texture
	depth  *texture
}

func (f *framebuffer) Destroy() {
	f.colors = nil
	f.depth = nil
}
