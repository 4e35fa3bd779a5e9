package opengl

import (
	"github.com/nexusgfx/rhi"
)

type buffer struct {
	ctx    Context
	name   uint32
	target Enum
}

func (b *buffer) Write(offset uint64, data []byte) error {
	b.ctx.BufferSubData(b.name, int(offset), data)
	return nil
}

func (b *buffer) Read(offset uint64, dst []byte) error {
	return b.ctx.GetBufferSubData(b.name, int(offset), dst)
}

func (b *buffer) Destroy() { b.ctx.DeleteBuffer(b.name) }

type texture struct {
	ctx    Context
	name   uint32
	target Enum
	format glFormat
}

func (t *texture) Write(r rhi.TextureRegion, data []byte) error {
	target := t.target
	if target == TEXTURE_CUBE_MAP {
		target = TEXTURE_CUBE_MAP_POSITIVE_X + Enum(r.Layer)
	}
	t.ctx.TexSubImage(t.name, target, int(r.MipLevel), int(r.X), int(r.Y), int(r.Width), int(r.Height),
		t.format.format, t.format.typ, data)
	return nil
}

func (t *texture) Destroy() { t.ctx.DeleteTexture(t.name) }

type sampler struct {
	ctx  Context
	name uint32
}

func (s *sampler) Destroy() { s.ctx.DeleteSampler(s.name) }

// shader holds GLSL source until a pipeline compiles it.
type shader struct {
	stage  rhi.ShaderStage
	name   string
	source string
}

func (s *shader) Destroy() {}

type framebuffer struct {
	ctx  Context
	name uint32
}

func (f *framebuffer) Destroy() { f.ctx.DeleteFramebuffer(f.name) }
