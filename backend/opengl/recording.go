package opengl

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Call is one GL call captured by a RecordingContext.
type Call struct {
	Op   string
	Args []any
}

// RecordingContext is a Context that records calls instead of issuing
// them. Buffer contents are kept so reads and copies behave. It serves
// headless runs and tests.
//
// Set CompileError or LinkError to make shader compilation or program
// linking fail with that info log.
type RecordingContext struct {
	GLInfo       Info
	CompileError string
	LinkError    string

	mu      sync.Mutex
	calls   []Call
	next    uint32
	buffers map[uint32][]byte
}

// NewRecordingContext returns a desktop GL 4.3 context description with
// common limits.
func NewRecordingContext() *RecordingContext {
	return &RecordingContext{
		GLInfo: Info{
			Vendor:                   "nexusgfx",
			Renderer:                 "recording context",
			Version:                  "4.3",
			MaxSamples:               8,
			MaxUniformBufferBindings: 36,
			MaxTextureImageUnits:     16,
			MaxVertexAttribs:         16,
			MaxAnisotropy:            16,
		},
	}
}

func (r *RecordingContext) record(op string, args ...any) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Op: op, Args: args})
	r.mu.Unlock()
}

func (r *RecordingContext) name(op string, args ...any) uint32 {
	r.mu.Lock()
	r.next++
	n := r.next
	r.calls = append(r.calls, Call{Op: op, Args: append(args, n)})
	r.mu.Unlock()
	return n
}

// Calls returns a copy of the recorded calls.
func (r *RecordingContext) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Find returns the recorded calls with the given op.
func (r *RecordingContext) Find(op string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of recorded calls with the given op.
func (r *RecordingContext) Count(op string) int { return len(r.Find(op)) }

// Reset drops the recorded calls. Object names and buffer contents are kept.
func (r *RecordingContext) Reset() {
	r.mu.Lock()
	r.calls = r.calls[:0]
	r.mu.Unlock()
}

// Info implements Context.
func (r *RecordingContext) Info() Info { return r.GLInfo }

// CreateBuffer implements Context.
func (r *RecordingContext) CreateBuffer(target Enum, size int, data []byte, usage Enum) (uint32, error) {
	n := r.name("CreateBuffer", target, size, usage)
	buf := make([]byte, size)
	copy(buf, data)
	r.mu.Lock()
	if r.buffers == nil {
		r.buffers = make(map[uint32][]byte)
	}
	r.buffers[n] = buf
	r.mu.Unlock()
	return n, nil
}

// BufferSubData implements Context.
func (r *RecordingContext) BufferSubData(buffer uint32, offset int, data []byte) {
	r.record("BufferSubData", buffer, offset, len(data))
	r.mu.Lock()
	copy(r.buffers[buffer][offset:], data)
	r.mu.Unlock()
}

// GetBufferSubData implements Context.
func (r *RecordingContext) GetBufferSubData(buffer uint32, offset int, dst []byte) error {
	r.record("GetBufferSubData", buffer, offset, len(dst))
	r.mu.Lock()
	defer r.mu.Unlock()
	buf, ok := r.buffers[buffer]
	if !ok || offset+len(dst) > len(buf) {
		return errors.Newf("opengl: read of %d bytes at %d from buffer %d out of range", len(dst), offset, buffer)
	}
	copy(dst, buf[offset:])
	return nil
}

// CopyBufferSubData implements Context.
func (r *RecordingContext) CopyBufferSubData(src, dst uint32, srcOffset, dstOffset, size int) {
	r.record("CopyBufferSubData", src, dst, srcOffset, dstOffset, size)
	r.mu.Lock()
	copy(r.buffers[dst][dstOffset:dstOffset+size], r.buffers[src][srcOffset:srcOffset+size])
	r.mu.Unlock()
}

// DeleteBuffer implements Context.
func (r *RecordingContext) DeleteBuffer(buffer uint32) {
	r.record("DeleteBuffer", buffer)
	r.mu.Lock()
	delete(r.buffers, buffer)
	r.mu.Unlock()
}

// CreateTexture implements Context.
func (r *RecordingContext) CreateTexture(p TextureParams) (uint32, error) {
	return r.name("CreateTexture", p), nil
}

// TexSubImage implements Context.
func (r *RecordingContext) TexSubImage(texture uint32, target Enum, level, x, y, width, height int, format, typ Enum, data []byte) {
	r.record("TexSubImage", texture, target, level, x, y, width, height, format, typ, len(data))
}

// DeleteTexture implements Context.
func (r *RecordingContext) DeleteTexture(texture uint32) { r.record("DeleteTexture", texture) }

// CreateSampler implements Context.
func (r *RecordingContext) CreateSampler(p SamplerParams) (uint32, error) {
	return r.name("CreateSampler", p), nil
}

// DeleteSampler implements Context.
func (r *RecordingContext) DeleteSampler(sampler uint32) { r.record("DeleteSampler", sampler) }

// CreateShader implements Context.
func (r *RecordingContext) CreateShader(typ Enum, source string) (uint32, error) {
	if r.CompileError != "" {
		r.record("CreateShader", typ, source)
		return 0, errors.New(r.CompileError)
	}
	return r.name("CreateShader", typ, source), nil
}

// DeleteShader implements Context.
func (r *RecordingContext) DeleteShader(shader uint32) { r.record("DeleteShader", shader) }

// CreateProgram implements Context.
func (r *RecordingContext) CreateProgram(shaders ...uint32) (uint32, error) {
	if r.LinkError != "" {
		r.record("CreateProgram", shaders)
		return 0, errors.New(r.LinkError)
	}
	return r.name("CreateProgram", shaders), nil
}

// DeleteProgram implements Context.
func (r *RecordingContext) DeleteProgram(program uint32) { r.record("DeleteProgram", program) }

// UniformBlockBinding implements Context. Every block is reported active.
func (r *RecordingContext) UniformBlockBinding(program uint32, name string, binding int) bool {
	r.record("UniformBlockBinding", program, name, binding)
	return true
}

// SamplerUniform implements Context. Every uniform is reported active.
func (r *RecordingContext) SamplerUniform(program uint32, name string, unit int) bool {
	r.record("SamplerUniform", program, name, unit)
	return true
}

// CreateVertexArray implements Context.
func (r *RecordingContext) CreateVertexArray() uint32 { return r.name("CreateVertexArray") }

// DeleteVertexArray implements Context.
func (r *RecordingContext) DeleteVertexArray(vao uint32) { r.record("DeleteVertexArray", vao) }

// CreateFramebuffer implements Context.
func (r *RecordingContext) CreateFramebuffer(colors []uint32, colorTarget Enum, depth uint32, depthAttachment Enum) (uint32, error) {
	return r.name("CreateFramebuffer", append([]uint32(nil), colors...), colorTarget, depth, depthAttachment), nil
}

// DeleteFramebuffer implements Context.
func (r *RecordingContext) DeleteFramebuffer(fb uint32) { r.record("DeleteFramebuffer", fb) }

// UseProgram implements Context.
func (r *RecordingContext) UseProgram(program uint32) { r.record("UseProgram", program) }

// BindVertexArray implements Context.
func (r *RecordingContext) BindVertexArray(vao uint32) { r.record("BindVertexArray", vao) }

// VertexAttribPointer implements Context.
func (r *RecordingContext) VertexAttribPointer(buffer uint32, index, size int, typ Enum, normalized, integer bool, stride, offset int) {
	r.record("VertexAttribPointer", buffer, index, size, typ, normalized, integer, stride, offset)
}

// VertexAttribDivisor implements Context.
func (r *RecordingContext) VertexAttribDivisor(index, divisor int) {
	r.record("VertexAttribDivisor", index, divisor)
}

// BindIndexBuffer implements Context.
func (r *RecordingContext) BindIndexBuffer(buffer uint32) { r.record("BindIndexBuffer", buffer) }

// BindBufferRange implements Context.
func (r *RecordingContext) BindBufferRange(target Enum, index int, buffer uint32, offset, size int) {
	r.record("BindBufferRange", target, index, buffer, offset, size)
}

// BindTexture implements Context.
func (r *RecordingContext) BindTexture(unit int, target Enum, texture uint32) {
	r.record("BindTexture", unit, target, texture)
}

// BindSampler implements Context.
func (r *RecordingContext) BindSampler(unit int, sampler uint32) {
	r.record("BindSampler", unit, sampler)
}

// BindFramebuffer implements Context.
func (r *RecordingContext) BindFramebuffer(target Enum, fb uint32) {
	r.record("BindFramebuffer", target, fb)
}

// ReadBuffer implements Context.
func (r *RecordingContext) ReadBuffer(attachment Enum) { r.record("ReadBuffer", attachment) }

// Enable implements Context.
func (r *RecordingContext) Enable(c Enum) { r.record("Enable", c) }

// Disable implements Context.
func (r *RecordingContext) Disable(c Enum) { r.record("Disable", c) }

// Viewport implements Context.
func (r *RecordingContext) Viewport(x, y, width, height int) {
	r.record("Viewport", x, y, width, height)
}

// DepthRange implements Context.
func (r *RecordingContext) DepthRange(near, far float64) { r.record("DepthRange", near, far) }

// Scissor implements Context.
func (r *RecordingContext) Scissor(x, y, width, height int) {
	r.record("Scissor", x, y, width, height)
}

// ColorMask implements Context.
func (r *RecordingContext) ColorMask(red, green, blue, alpha bool) {
	r.record("ColorMask", red, green, blue, alpha)
}

// DepthMask implements Context.
func (r *RecordingContext) DepthMask(write bool) { r.record("DepthMask", write) }

// DepthFunc implements Context.
func (r *RecordingContext) DepthFunc(fn Enum) { r.record("DepthFunc", fn) }

// StencilFunc implements Context.
func (r *RecordingContext) StencilFunc(fn Enum, ref int, mask uint32) {
	r.record("StencilFunc", fn, ref, mask)
}

// StencilOp implements Context.
func (r *RecordingContext) StencilOp(fail, depthFail, pass Enum) {
	r.record("StencilOp", fail, depthFail, pass)
}

// StencilMask implements Context.
func (r *RecordingContext) StencilMask(mask uint32) { r.record("StencilMask", mask) }

// BlendFuncSeparate implements Context.
func (r *RecordingContext) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum) {
	r.record("BlendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

// BlendEquationSeparate implements Context.
func (r *RecordingContext) BlendEquationSeparate(rgb, alpha Enum) {
	r.record("BlendEquationSeparate", rgb, alpha)
}

// BlendColor implements Context.
func (r *RecordingContext) BlendColor(red, green, blue, alpha float32) {
	r.record("BlendColor", red, green, blue, alpha)
}

// CullFace implements Context.
func (r *RecordingContext) CullFace(face Enum) { r.record("CullFace", face) }

// FrontFace implements Context.
func (r *RecordingContext) FrontFace(dir Enum) { r.record("FrontFace", dir) }

// PolygonMode implements Context.
func (r *RecordingContext) PolygonMode(mode Enum) { r.record("PolygonMode", mode) }

// ClearBufferfv implements Context.
func (r *RecordingContext) ClearBufferfv(buffer Enum, drawBuffer int, value [4]float32) {
	r.record("ClearBufferfv", buffer, drawBuffer, value)
}

// ClearBufferfi implements Context.
func (r *RecordingContext) ClearBufferfi(buffer Enum, drawBuffer int, depth float32, stencil int) {
	r.record("ClearBufferfi", buffer, drawBuffer, depth, stencil)
}

// DrawArrays implements Context.
func (r *RecordingContext) DrawArrays(mode Enum, first, count int) {
	r.record("DrawArrays", mode, first, count)
}

// DrawArraysInstanced implements Context.
func (r *RecordingContext) DrawArraysInstanced(mode Enum, first, count, instances, baseInstance int) {
	r.record("DrawArraysInstanced", mode, first, count, instances, baseInstance)
}

// DrawElements implements Context.
func (r *RecordingContext) DrawElements(mode Enum, count int, typ Enum, offset, baseVertex int) {
	r.record("DrawElements", mode, count, typ, offset, baseVertex)
}

// DrawElementsInstanced implements Context.
func (r *RecordingContext) DrawElementsInstanced(mode Enum, count int, typ Enum, offset, instances, baseVertex, baseInstance int) {
	r.record("DrawElementsInstanced", mode, count, typ, offset, instances, baseVertex, baseInstance)
}

// DispatchCompute implements Context.
func (r *RecordingContext) DispatchCompute(x, y, z int) { r.record("DispatchCompute", x, y, z) }

// MemoryBarrier implements Context.
func (r *RecordingContext) MemoryBarrier(barriers Enum) { r.record("MemoryBarrier", barriers) }

// BlitFramebuffer implements Context.
func (r *RecordingContext) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int, mask, filter Enum) {
	r.record("BlitFramebuffer", srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, mask, filter)
}

// PushDebugGroup implements Context.
func (r *RecordingContext) PushDebugGroup(message string) { r.record("PushDebugGroup", message) }

// PopDebugGroup implements Context.
func (r *RecordingContext) PopDebugGroup() { r.record("PopDebugGroup") }

// DebugMessageInsert implements Context.
func (r *RecordingContext) DebugMessageInsert(message string) {
	r.record("DebugMessageInsert", message)
}

// Finish implements Context.
func (r *RecordingContext) Finish() { r.record("Finish") }

var _ Context = (*RecordingContext)(nil)
