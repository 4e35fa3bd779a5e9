package software_test

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/nexusgfx/rhi"
	"github.com/nexusgfx/rhi/backend/software"
)

func newDevice(t *testing.T, debug bool) *rhi.GraphicsDevice {
	t.Helper()
	d, err := rhi.NewGraphicsDevice(rhi.DeviceSpecification{
		API:        rhi.GraphicsAPISoftware,
		DebugLayer: debug,
	})
	if err != nil {
		t.Fatalf("NewGraphicsDevice() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// captureLog routes the rhi logger into a buffer for the test's duration.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	rhi.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { rhi.SetLogger(nil) })
	return &buf
}

func float32Bytes(vs ...float32) []byte {
	out := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

type scene struct {
	device   *rhi.GraphicsDevice
	pipeline *rhi.Pipeline
	set      *rhi.ResourceSet
	fb       *rhi.Framebuffer
	vertices *rhi.DeviceBuffer
	indices  *rhi.DeviceBuffer
	uniforms *rhi.DeviceBuffer
}

// newScene builds a triangle pipeline that declares one uniform buffer,
// "MVP" at set 0 binding 0, rendering into a 64x64 framebuffer.
func newScene(t *testing.T, debug bool) *scene {
	t.Helper()
	d := newDevice(t, debug)
	spirv := []uint32{rhi.SPIRVMagic, 0x00010000, 0, 1, 0}

	vs, err := d.CreateShaderModuleFromSpirvSource(spirv, "triangle.vert", rhi.ShaderStageVertex, rhi.ResourceSetSpecification{})
	if err != nil {
		t.Fatalf("CreateShaderModuleFromSpirvSource(vertex) error = %v", err)
	}
	fs, err := d.CreateShaderModuleFromSpirvSource(spirv, "triangle.frag", rhi.ShaderStageFragment, rhi.ResourceSetSpecification{})
	if err != nil {
		t.Fatalf("CreateShaderModuleFromSpirvSource(fragment) error = %v", err)
	}
	p, err := d.CreatePipeline(rhi.PipelineDescription{
		Name:           "triangle",
		VertexModule:   vs,
		FragmentModule: fs,
		Layouts:        []rhi.VertexBufferLayout{rhi.LayoutPosition},
		Topology:       rhi.TopologyTriangleList,
		ColorFormats:   []rhi.PixelFormat{rhi.PixelFormatRGBA8Unorm},
		Samples:        rhi.SampleCount1,
		ResourceSetSpec: rhi.ResourceSetSpecification{
			UniformBuffers: []rhi.ResourceBinding{{Name: "MVP", Set: 0, Binding: 0}},
		},
	})
	if err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}
	set, err := d.CreateResourceSet(p)
	if err != nil {
		t.Fatalf("CreateResourceSet() error = %v", err)
	}
	fb, err := d.CreateFramebuffer(rhi.FramebufferSpecification{
		Name:             "offscreen",
		Width:            64,
		Height:           64,
		ColorAttachments: []rhi.PixelFormat{rhi.PixelFormatRGBA8Unorm},
		Samples:          rhi.SampleCount1,
	})
	if err != nil {
		t.Fatalf("CreateFramebuffer() error = %v", err)
	}
	vb, err := d.CreateVertexBuffer(float32Bytes(0, 0, 0, 1, 0, 0, 0, 1, 0), 12)
	if err != nil {
		t.Fatalf("CreateVertexBuffer() error = %v", err)
	}
	ib, err := d.CreateIndexBuffer([]byte{0, 0, 1, 0, 2, 0}, rhi.IndexFormatUInt16)
	if err != nil {
		t.Fatalf("CreateIndexBuffer() error = %v", err)
	}
	ub, err := d.CreateUniformBuffer(64)
	if err != nil {
		t.Fatalf("CreateUniformBuffer() error = %v", err)
	}
	return &scene{device: d, pipeline: p, set: set, fb: fb, vertices: vb, indices: ib, uniforms: ub}
}

func (s *scene) record(t *testing.T) *rhi.CommandList {
	t.Helper()
	list := s.device.CreateCommandList("frame")
	if err := list.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	list.SetRenderTarget(rhi.NewFramebufferTarget(s.fb))
	list.ClearColorTarget(0, rhi.Color{A: 1})
	list.SetPipeline(s.pipeline)
	list.SetResourceSet(s.set)
	list.SetVertexBuffer(s.vertices, 0)
	list.SetIndexBuffer(s.indices, rhi.IndexFormatUInt16)
	list.DrawIndexed(3, 0, 0)
	if err := list.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	return list
}

func stats(t *testing.T, d *rhi.GraphicsDevice) software.Stats {
	t.Helper()
	s, ok := software.StatsOf(d)
	if !ok {
		t.Fatal("StatsOf() ok = false, want true")
	}
	return s
}

func TestDrawIndexedMissingUniformSlot(t *testing.T) {
	logs := captureLog(t)
	s := newScene(t, false)

	err := s.device.SubmitCommandList(s.record(t))
	if err == nil {
		t.Fatal("SubmitCommandList() error = nil, want validation error")
	}
	if !errors.Is(err, rhi.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false for %v", err)
	}
	var verr *rhi.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(*ValidationError) failed for %v", err)
	}
	if verr.Slot != "MVP" {
		t.Errorf("ValidationError.Slot = %q, want %q", verr.Slot, "MVP")
	}
	if verr.Command != rhi.CmdDrawIndexed {
		t.Errorf("ValidationError.Command = %v, want %v", verr.Command, rhi.CmdDrawIndexed)
	}
	if got := stats(t, s.device); got.Draws != 0 || got.Rejected != 1 {
		t.Errorf("Stats = %+v, want 0 draws and 1 rejected", got)
	}
	if !strings.Contains(logs.String(), "MVP") {
		t.Errorf("log output does not mention slot MVP:\n%s", logs.String())
	}

	if err := s.set.WriteUniformBuffer(s.uniforms, "MVP"); err != nil {
		t.Fatalf("WriteUniformBuffer() error = %v", err)
	}
	if err := s.device.SubmitCommandList(s.record(t)); err != nil {
		t.Fatalf("SubmitCommandList() after write error = %v", err)
	}
	got := stats(t, s.device)
	if got.Draws != 1 || got.IndexedDraws != 1 || got.Vertices != 3 {
		t.Errorf("Stats = %+v, want one indexed draw of 3 indices", got)
	}
}

func TestSubmitReturnsListToIdle(t *testing.T) {
	s := newScene(t, false)
	list := s.record(t)
	_ = s.device.SubmitCommandList(list)
	if list.State() != rhi.CommandListIdle {
		t.Errorf("State() = %v, want Idle", list.State())
	}
	if list.Len() != 0 {
		t.Errorf("Len() = %d, want 0", list.Len())
	}
	if err := s.device.SubmitCommandList(list); !errors.Is(err, rhi.ErrNotRecorded) {
		t.Errorf("second SubmitCommandList() error = %v, want ErrNotRecorded", err)
	}
}

func TestDestroyedVertexBufferIsRejected(t *testing.T) {
	s := newScene(t, false)
	if err := s.set.WriteUniformBuffer(s.uniforms, "MVP"); err != nil {
		t.Fatalf("WriteUniformBuffer() error = %v", err)
	}
	list := s.record(t)
	s.vertices.Destroy()

	err := s.device.SubmitCommandList(list)
	var serr *rhi.SubmitError
	if !errors.As(err, &serr) {
		t.Fatalf("SubmitCommandList() error = %v, want *SubmitError", err)
	}
	// The SetVertexBuffer and the draw are both rejected.
	if len(serr.Failures) != 2 {
		t.Errorf("len(Failures) = %d, want 2: %v", len(serr.Failures), serr)
	}
	if got := stats(t, s.device); got.Draws != 0 || got.Clears != 1 {
		t.Errorf("Stats = %+v, want 0 draws and 1 clear", got)
	}
}

func TestResolveDimensionMismatch(t *testing.T) {
	logs := captureLog(t)
	d := newDevice(t, false)
	fb, err := d.CreateFramebuffer(rhi.FramebufferSpecification{
		Width:            800,
		Height:           600,
		ColorAttachments: []rhi.PixelFormat{rhi.PixelFormatRGBA8Unorm},
		Samples:          rhi.SampleCount4,
	})
	if err != nil {
		t.Fatalf("CreateFramebuffer() error = %v", err)
	}
	sc := software.NewSwapchain(1024, 768, rhi.PixelFormatNone, true)

	cmd := rhi.ResolveSamplesToSwapchainCommand{Source: fb, Target: sc}
	if rhi.ValidateForResolveToSwapchain(cmd) {
		t.Fatal("ValidateForResolveToSwapchain() = true, want false")
	}
	if !strings.Contains(logs.String(), "mismatching widths") {
		t.Errorf("log output lacks the dimension mismatch:\n%s", logs.String())
	}

	err = d.ImmediateSubmit(func(list *rhi.CommandList) {
		list.ResolveSamplesToSwapchain(fb, 0, sc)
	})
	if !errors.Is(err, rhi.ErrValidation) {
		t.Errorf("ImmediateSubmit() error = %v, want ErrValidation", err)
	}
	if got := stats(t, d); got.Resolves != 0 {
		t.Errorf("Stats.Resolves = %d, want 0", got.Resolves)
	}
}

func TestClearAndResolveToSwapchain(t *testing.T) {
	d := newDevice(t, false)
	fb, err := d.CreateFramebuffer(rhi.FramebufferSpecification{
		Width:            4,
		Height:           2,
		ColorAttachments: []rhi.PixelFormat{rhi.PixelFormatBGRA8Unorm},
		DepthAttachment:  rhi.PixelFormatDepth32Float,
		Samples:          rhi.SampleCount1,
	})
	if err != nil {
		t.Fatalf("CreateFramebuffer() error = %v", err)
	}
	sc := software.NewSwapchain(4, 2, rhi.PixelFormatNone, false)

	err = d.ImmediateSubmit(func(list *rhi.CommandList) {
		list.SetRenderTarget(rhi.NewFramebufferTarget(fb))
		list.ClearColorTarget(0, rhi.Color{R: 1, A: 1})
		list.ClearDepthStencilTarget(1, 0)
		list.ResolveSamplesToSwapchain(fb, 0, sc)
	})
	if err != nil {
		t.Fatalf("ImmediateSubmit() error = %v", err)
	}
	if err := sc.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	img := sc.Image()
	want := color.RGBA{R: 255, A: 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
	depth, ok := software.Pixels(fb.DepthTexture(), 0, 0)
	if !ok {
		t.Fatal("Pixels(depth) ok = false")
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(depth)); got != 1 {
		t.Errorf("depth = %g, want 1", got)
	}
	if got := stats(t, d); got.Clears != 2 || got.Resolves != 1 {
		t.Errorf("Stats = %+v, want 2 clears and 1 resolve", got)
	}
	if sc.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", sc.Frames())
	}
}

func TestClearSwapchainTarget(t *testing.T) {
	d := newDevice(t, false)
	sc := software.NewSwapchain(2, 2, rhi.PixelFormatDepth24PlusStencil8, false)
	err := d.ImmediateSubmit(func(list *rhi.CommandList) {
		list.SetRenderTarget(rhi.NewSwapchainTarget(sc))
		list.ClearColorTarget(0, rhi.Color{G: 1, A: 1})
		list.ClearDepthStencilTarget(1, 0xff)
	})
	if err != nil {
		t.Fatalf("ImmediateSubmit() error = %v", err)
	}
	if got, want := sc.BackBuffer().RGBAAt(1, 1), (color.RGBA{G: 255, A: 255}); got != want {
		t.Errorf("back buffer pixel = %v, want %v", got, want)
	}
}

func TestLargeClearAndResolve(t *testing.T) {
	// Tall enough to be split into row bands.
	const w, h = 37, 301
	d := newDevice(t, false)
	fb, err := d.CreateFramebuffer(rhi.FramebufferSpecification{
		Width:            w,
		Height:           h,
		ColorAttachments: []rhi.PixelFormat{rhi.PixelFormatRGBA8UnormSRGB},
		Samples:          rhi.SampleCount1,
	})
	if err != nil {
		t.Fatalf("CreateFramebuffer() error = %v", err)
	}
	sc := software.NewSwapchain(w, h, rhi.PixelFormatNone, false)
	err = d.ImmediateSubmit(func(list *rhi.CommandList) {
		list.SetRenderTarget(rhi.NewFramebufferTarget(fb))
		list.ClearColorTarget(0, rhi.Color{R: 0.5, G: 1, A: 0.5})
		list.ResolveSamplesToSwapchain(fb, 0, sc)
	})
	if err != nil {
		t.Fatalf("ImmediateSubmit() error = %v", err)
	}

	px, _ := software.Pixels(fb.ColorTexture(0), 0, 0)
	want := []byte{188, 255, 0, 128}
	for i := 0; i < len(px); i += 4 {
		if !bytes.Equal(px[i:i+4], want) {
			t.Fatalf("texel %d = %v, want %v", i/4, px[i:i+4], want)
		}
	}
	img := sc.BackBuffer()
	for _, p := range [][2]int{{0, 0}, {w - 1, h - 1}, {w / 2, h / 2}} {
		if got := img.RGBAAt(p[0], p[1]); got != (color.RGBA{R: 188, G: 255, A: 128}) {
			t.Errorf("pixel %v = %v", p, got)
		}
	}
}

func TestCopyBufferToBuffer(t *testing.T) {
	d := newDevice(t, false)
	src, err := d.CreateDeviceBuffer(rhi.BufferDescription{
		SizeInBytes: 8, Type: rhi.BufferTypeUpload, HostVisible: true,
	}, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatalf("CreateDeviceBuffer(src) error = %v", err)
	}
	dst, err := d.CreateDeviceBuffer(rhi.BufferDescription{
		SizeInBytes: 8, Type: rhi.BufferTypeReadback, HostVisible: true,
	}, nil)
	if err != nil {
		t.Fatalf("CreateDeviceBuffer(dst) error = %v", err)
	}

	err = d.ImmediateSubmit(func(list *rhi.CommandList) {
		list.CopyBufferToBuffer(src, 2, dst, 4, 4)
	})
	if err != nil {
		t.Fatalf("ImmediateSubmit() error = %v", err)
	}
	got, err := dst.Map()
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if want := []byte{0, 0, 0, 0, 3, 4, 5, 6}; !bytes.Equal(got, want) {
		t.Errorf("destination = %v, want %v", got, want)
	}
	if err := dst.Unmap(); err != nil {
		t.Errorf("Unmap() error = %v", err)
	}
}

func TestTraceWithDebugLayer(t *testing.T) {
	s := newScene(t, true)
	if err := s.set.WriteUniformBuffer(s.uniforms, "MVP"); err != nil {
		t.Fatalf("WriteUniformBuffer() error = %v", err)
	}
	list := s.device.CreateCommandList("traced")
	_ = list.Begin()
	list.BeginDebugGroup("scene")
	list.SetRenderTarget(rhi.NewFramebufferTarget(s.fb))
	list.SetPipeline(s.pipeline)
	list.EndDebugGroup()
	list.InsertDebugMarker("done")
	if err := list.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if err := s.device.SubmitCommandList(list); err != nil {
		t.Fatalf("SubmitCommandList() error = %v", err)
	}

	trace := software.TraceOf(s.device)
	want := []string{
		`begin list "traced"`,
		`group "scene"`,
		`  bind Framebuffer target 64x64`,
		`  bind pipeline "triangle"`,
		`marker "done"`,
		`end list "traced"`,
	}
	if strings.Join(trace, "\n") != strings.Join(want, "\n") {
		t.Errorf("TraceOf() =\n%s\nwant\n%s", strings.Join(trace, "\n"), strings.Join(want, "\n"))
	}
}

func TestTimingQuery(t *testing.T) {
	d := newDevice(t, false)
	q := d.CreateTimingQuery("frame")
	err := d.ImmediateSubmit(func(list *rhi.CommandList) {
		list.StartTimingQuery(q)
		list.InsertDebugMarker("work")
		list.StopTimingQuery(q)
	})
	if err != nil {
		t.Fatalf("ImmediateSubmit() error = %v", err)
	}
	if !q.Resolved() {
		t.Fatal("Resolved() = false after submission")
	}
	if q.ElapsedMilliseconds() < 0 {
		t.Errorf("ElapsedMilliseconds() = %g, want >= 0", q.ElapsedMilliseconds())
	}
}

func TestSoftwareDeviceQueries(t *testing.T) {
	d := newDevice(t, false)
	if got := d.GetAPIName(); got != "software" {
		t.Errorf("GetAPIName() = %q, want software", got)
	}
	if got := d.GetDeviceName(); got != software.DeviceName {
		t.Errorf("GetDeviceName() = %q, want %q", got, software.DeviceName)
	}
	if d.GetUVCorrection() != 1 || d.IsUVOriginTopLeft() {
		t.Errorf("UV convention = (%g, %t), want (1, false)", d.GetUVCorrection(), d.IsUVOriginTopLeft())
	}
	caps := d.GetGraphicsCapabilities()
	if caps.MaxSamples != rhi.SampleCount8 || !caps.SupportsLODBias {
		t.Errorf("GetGraphicsCapabilities() = %+v", caps)
	}
}
