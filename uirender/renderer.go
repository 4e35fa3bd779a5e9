package uirender

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/nexusgfx/rhi"
	"github.com/nexusgfx/rhi/geometry"
	"github.com/nexusgfx/rhi/shader"
)

// ErrUnknownTexture is returned when a DrawCommand references a TextureID
// that is not bound.
var ErrUnknownTexture = errors.New("uirender: unknown texture id")

// ErrNoTarget is returned by AfterLayout without a BeforeLayout.
var ErrNoTarget = errors.New("uirender: no render target, call BeforeLayout first")

// Config selects the target formats the UI pipeline renders into.
type Config struct {
	ColorFormat rhi.PixelFormat
	DepthFormat rhi.PixelFormat
	Samples     rhi.SampleCount
}

// ConfigFor returns the Config matching target's first color attachment.
func ConfigFor(target rhi.RenderTarget) Config {
	return Config{
		ColorFormat: target.ColorFormat(0),
		DepthFormat: target.DepthFormat(),
		Samples:     target.Samples(),
	}
}

// growth is the head room given to vertex and index buffers when they are
// reallocated.
const growth = 1.5

// Renderer draws DrawData with a pipeline built from shader.UI.
type Renderer struct {
	device   *rhi.GraphicsDevice
	config   Config
	program  shader.Program
	pipeline *rhi.Pipeline
	sampler  *rhi.Sampler
	uniforms *rhi.DeviceBuffer
	white    *rhi.Texture2D
	whiteID  TextureID

	mu   sync.Mutex
	sets map[TextureID]*rhi.ResourceSet
	next TextureID

	vertices, indices     *rhi.DeviceBuffer
	vertexCap, indexCap   int
	vertexData, indexData []byte
	list                  *rhi.CommandList
	target                rhi.RenderTarget
	stats                 Stats
}

// Stats counts the work of the last frame.
type Stats struct {
	Draws int
	// Clipped is the number of commands skipped because their clip
	// rectangle was empty or off target.
	Clipped int
	// Reallocations counts vertex and index buffer growth over the
	// renderer's lifetime.
	Reallocations int
}

// New compiles the UI program and creates the pipeline, sampler and a 1x1
// white texture available as White.
func New(device *rhi.GraphicsDevice, config Config) (*Renderer, error) {
	r := &Renderer{
		device: device,
		config: config,
		sets:   make(map[TextureID]*rhi.ResourceSet),
		next:   1,
		list:   device.CreateCommandList("ui"),
	}
	if err := r.init(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init() error {
	var err error
	r.program, err = shader.CreateProgram(r.device, "ui", shader.UI, shader.UIResources)
	if err != nil {
		return errors.Wrap(err, "uirender: program")
	}
	r.pipeline, err = r.device.CreatePipeline(rhi.PipelineDescription{
		Name:           "ui",
		VertexModule:   r.program.Vertex,
		FragmentModule: r.program.Fragment,
		Layouts:        []rhi.VertexBufferLayout{shader.LayoutUI},
		Rasterizer: rhi.RasterizerStateDescription{
			CullMode:          rhi.CullModeNone,
			EnableScissorTest: true,
		},
		Blend:           rhi.AlphaBlending(),
		DepthStencil:    rhi.DepthStencilDescription{DepthComparison: rhi.ComparisonAlways},
		ColorFormats:    []rhi.PixelFormat{r.config.ColorFormat},
		DepthFormat:     r.config.DepthFormat,
		Samples:         r.config.Samples,
		ResourceSetSpec: shader.UIResources,
	})
	if err != nil {
		return err
	}
	spec := rhi.DefaultSamplerSpecification()
	spec.Name = "ui"
	if r.sampler, err = r.device.CreateSampler(spec); err != nil {
		return err
	}
	if r.uniforms, err = r.device.CreateUniformBuffer(64); err != nil {
		return err
	}
	r.white, err = r.device.CreateTexture2D(rhi.Texture2DSpecification{
		Name:   "ui.white",
		Width:  1,
		Height: 1,
		Format: rhi.PixelFormatRGBA8Unorm,
		Usage:  rhi.TextureUsageSampled,
	}, []byte{0xFF, 0xFF, 0xFF, 0xFF})
	if err != nil {
		return err
	}
	r.whiteID, err = r.BindTexture(r.white)
	return err
}

// White returns the ID of a 1x1 white texture for untextured geometry.
func (r *Renderer) White() TextureID { return r.whiteID }

// BindTexture makes texture drawable and returns its ID. IDs are never
// reused.
func (r *Renderer) BindTexture(texture *rhi.Texture2D) (TextureID, error) {
	set, err := r.device.CreateResourceSet(r.pipeline)
	if err != nil {
		return 0, err
	}
	if err := set.WriteUniformBuffer(r.uniforms, "Projection"); err != nil {
		set.Destroy()
		return 0, err
	}
	if err := set.WriteCombinedImageSampler(texture, r.sampler, "Texture"); err != nil {
		set.Destroy()
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.sets[id] = set
	return id, nil
}

// UnbindTexture releases the resource set of id. Unknown IDs are ignored.
func (r *Renderer) UnbindTexture(id TextureID) {
	r.mu.Lock()
	set, ok := r.sets[id]
	delete(r.sets, id)
	r.mu.Unlock()
	if ok {
		set.Destroy()
	}
}

// BoundTextures returns the number of bound textures, White included.
func (r *Renderer) BoundTextures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}

// BeforeLayout starts a frame that will be drawn into target.
func (r *Renderer) BeforeLayout(target rhi.RenderTarget) error {
	if !target.IsValid() {
		return errors.Wrap(ErrNoTarget, "uirender: invalid render target")
	}
	r.target = target
	r.stats.Draws, r.stats.Clipped = 0, 0
	return nil
}

// AfterLayout uploads data and draws it into the target passed to
// BeforeLayout. Nothing is submitted when data has no vertices.
func (r *Renderer) AfterLayout(data DrawData) error {
	if !r.target.IsBound() {
		return ErrNoTarget
	}
	target := r.target
	r.target = rhi.RenderTarget{}
	if data.TotalVertices() == 0 || data.TotalIndices() == 0 {
		return nil
	}
	if err := r.upload(data); err != nil {
		return err
	}
	if err := r.writeProjection(data, target); err != nil {
		return err
	}
	if err := r.record(data, target); err != nil {
		return err
	}
	rhi.Logger().Debug("uirender: frame",
		"lists", len(data.Lists), "draws", r.stats.Draws, "clipped", r.stats.Clipped)
	return r.device.SubmitCommandList(r.list)
}

// Stats returns the counters of the last frame.
func (r *Renderer) Stats() Stats { return r.stats }

// ensure returns buf if it holds size bytes, or a replacement with head room.
func (r *Renderer) ensure(buf *rhi.DeviceBuffer, capacity *int, count int, elem uint32, typ rhi.BufferType) (*rhi.DeviceBuffer, error) {
	if buf != nil && count <= *capacity {
		return buf, nil
	}
	if buf != nil {
		buf.Destroy()
	}
	n := int(math.Ceil(float64(count) * growth))
	// Keep sizes a multiple of four bytes.
	if elem == 2 && n%2 != 0 {
		n++
	}
	nb, err := r.device.CreateDeviceBuffer(rhi.BufferDescription{
		Name:          "ui." + typ.String(),
		SizeInBytes:   uint64(n) * uint64(elem),
		Type:          typ,
		StrideInBytes: elem,
		HostVisible:   true,
	}, nil)
	if err != nil {
		*capacity = 0
		return nil, err
	}
	*capacity = n
	r.stats.Reallocations++
	return nb, nil
}

func (r *Renderer) upload(data DrawData) error {
	var err error
	if r.vertices, err = r.ensure(r.vertices, &r.vertexCap, data.TotalVertices(), vertexSize, rhi.BufferTypeVertex); err != nil {
		return err
	}
	if r.indices, err = r.ensure(r.indices, &r.indexCap, data.TotalIndices(), 2, rhi.BufferTypeIndex); err != nil {
		return err
	}
	r.vertexData = packVertices(r.vertexData[:0], data)
	r.indexData = packIndices(r.indexData[:0], data)
	if len(r.indexData)%4 != 0 {
		r.indexData = append(r.indexData, 0, 0)
	}
	if err := r.vertices.SetData(r.vertexData, 0); err != nil {
		return errors.Wrap(err, "uirender: vertices")
	}
	return errors.Wrap(r.indices.SetData(r.indexData, 0), "uirender: indices")
}

func (r *Renderer) writeProjection(data DrawData, target rhi.RenderTarget) error {
	size := data.DisplaySize
	if size.X() == 0 || size.Y() == 0 {
		w, h := target.Size()
		scale := data.scale()
		size = [2]float32{float32(w) / scale.X(), float32(h) / scale.Y()}
	}
	pos := data.DisplayPos
	proj := geometry.Ortho(pos.X(), pos.X()+size.X(), pos.Y()+size.Y(), pos.Y(), -1, 1, r.device)
	buf := make([]byte, 0, 64)
	for _, v := range proj {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return r.uniforms.SetData(buf, 0)
}

// scissor converts a clip rectangle to target pixels, clamped to the
// target. ok is false when nothing is left.
func scissor(clip Rect, pos, scale [2]float32, width, height uint32) (rhi.Scissor, bool) {
	x0 := max((clip.Min[0]-pos[0])*scale[0], 0)
	y0 := max((clip.Min[1]-pos[1])*scale[1], 0)
	x1 := min((clip.Max[0]-pos[0])*scale[0], float32(width))
	y1 := min((clip.Max[1]-pos[1])*scale[1], float32(height))
	if x1 <= x0 || y1 <= y0 {
		return rhi.Scissor{}, false
	}
	sc := rhi.Scissor{X: uint32(x0), Y: uint32(y0), Width: uint32(x1 - x0), Height: uint32(y1 - y0)}
	if sc.Width == 0 || sc.Height == 0 {
		return rhi.Scissor{}, false
	}
	return sc, true
}

func (r *Renderer) record(data DrawData, target rhi.RenderTarget) error {
	if err := r.list.Begin(); err != nil {
		return err
	}
	w, h := target.Size()
	r.list.SetRenderTarget(target)
	r.list.SetPipeline(r.pipeline)
	r.list.SetVertexBuffer(r.vertices, 0)
	r.list.SetIndexBuffer(r.indices, rhi.IndexFormatUInt16)
	r.list.SetViewport(rhi.Viewport{Width: float32(w), Height: float32(h), MaxDepth: 1})

	r.mu.Lock()
	defer r.mu.Unlock()
	var vtxBase, idxBase uint32
	for _, l := range data.Lists {
		for _, cmd := range l.Commands {
			if cmd.ElemCount == 0 {
				continue
			}
			set, ok := r.sets[cmd.Texture]
			if !ok {
				_ = r.list.End()
				return errors.Wrapf(ErrUnknownTexture, "uirender: texture %d", cmd.Texture)
			}
			sc, ok := scissor(cmd.ClipRect, data.DisplayPos, data.scale(), w, h)
			if !ok {
				r.stats.Clipped++
				continue
			}
			r.list.SetScissor(sc)
			r.list.SetResourceSet(set)
			r.list.DrawIndexed(cmd.ElemCount, cmd.IdxOffset+idxBase, int32(cmd.VtxOffset+vtxBase))
			r.stats.Draws++
		}
		vtxBase += uint32(len(l.Vertices))
		idxBase += uint32(len(l.Indices))
	}
	return r.list.End()
}

// Close releases every GPU object the renderer created. Textures passed to
// BindTexture stay owned by the caller.
func (r *Renderer) Close() {
	r.mu.Lock()
	for id, set := range r.sets {
		set.Destroy()
		delete(r.sets, id)
	}
	r.mu.Unlock()
	for _, b := range []*rhi.DeviceBuffer{r.vertices, r.indices, r.uniforms} {
		if b != nil {
			b.Destroy()
		}
	}
	if r.white != nil {
		r.white.Destroy()
	}
	if r.sampler != nil {
		r.sampler.Destroy()
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
	}
	if r.program.Vertex != nil && r.program.Fragment != nil {
		r.program.Destroy()
	}
}
