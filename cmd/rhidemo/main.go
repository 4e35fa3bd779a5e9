// Command rhidemo renders one frame headlessly and saves it as a PNG.
//
// The frame clears an offscreen framebuffer, draws a textured cube into it,
// resolves it to the swapchain and overlays a UI panel. The software
// backend is the only one whose swapchain can be read back, so the device
// configuration must select it.
package main

import (
	"encoding/binary"
	"flag"
	"image"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nexusgfx/rhi"
	"github.com/nexusgfx/rhi/backend/software"
	"github.com/nexusgfx/rhi/geometry"
	"github.com/nexusgfx/rhi/imaging"
	"github.com/nexusgfx/rhi/shader"
	"github.com/nexusgfx/rhi/uirender"
)

func main() {
	var (
		config  = flag.String("config", "", "TOML device configuration (default: software)")
		width   = flag.Int("width", 640, "image width")
		height  = flag.Int("height", 480, "image height")
		output  = flag.String("output", "rhidemo.png", "output file")
		verbose = flag.Bool("v", false, "log backend activity")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	rhi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	spec := rhi.DeviceSpecification{API: rhi.GraphicsAPISoftware}
	if *config != "" {
		var err error
		if spec, err = rhi.LoadDeviceSpecification(*config); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *width <= 0 || *height <= 0 {
		log.Fatalf("Invalid size %dx%d", *width, *height)
	}

	if err := run(spec, uint32(*width), uint32(*height), *output); err != nil {
		log.Fatalf("Failed to render: %+v", err)
	}
	log.Printf("Frame saved to %s (%dx%d)\n", *output, *width, *height)
}

func run(spec rhi.DeviceSpecification, width, height uint32, output string) error {
	if spec.API != rhi.GraphicsAPISoftware {
		return errors.Newf("rhidemo reads back the swapchain and needs the software backend, got %s", spec.API)
	}
	device, err := rhi.NewGraphicsDevice(spec, rhi.WithName("rhidemo"))
	if err != nil {
		return err
	}
	defer device.Close()

	swapchain := software.NewSwapchain(width, height, rhi.PixelFormatNone, spec.VSync)
	s, err := newScene(device, width, height)
	if err != nil {
		return err
	}
	defer s.destroy()

	query := device.CreateTimingQuery("scene")
	list := device.CreateCommandList("scene")
	if err := list.Begin(); err != nil {
		return err
	}
	list.StartTimingQuery(query)
	list.BeginDebugGroup("cube")
	list.SetRenderTarget(rhi.NewFramebufferTarget(s.framebuffer))
	list.ClearColorTarget(0, rhi.Color{R: 0.1, G: 0.2, B: 0.4, A: 1})
	list.ClearDepthStencilTarget(1, 0)
	list.SetPipeline(s.pipeline)
	list.SetResourceSet(s.resources)
	s.cube.Draw(list)
	list.EndDebugGroup()
	list.ResolveSamplesToSwapchain(s.framebuffer, 0, swapchain)
	list.StopTimingQuery(query)
	if err := list.End(); err != nil {
		return err
	}
	if err := swapchain.Prepare(); err != nil {
		return err
	}
	if err := device.SubmitCommandList(list); err != nil {
		return err
	}

	if err := drawUI(device, swapchain); err != nil {
		return err
	}
	if err := swapchain.Present(); err != nil {
		return err
	}

	stats, _ := software.StatsOf(device)
	rhi.Logger().Info("frame rendered",
		"submissions", stats.Submissions,
		"draws", stats.Draws,
		"rejected", stats.Rejected,
		"scene_ms", query.ElapsedMilliseconds())
	return imaging.SavePNG(output, swapchain.Image())
}

// scene is a textured cube in an offscreen framebuffer.
type scene struct {
	framebuffer *rhi.Framebuffer
	program     shader.Program
	pipeline    *rhi.Pipeline
	resources   *rhi.ResourceSet
	camera      *rhi.DeviceBuffer
	albedo      *rhi.Texture2D
	sampler     *rhi.Sampler
	cube        *geometry.GPUMesh
}

func newScene(device *rhi.GraphicsDevice, width, height uint32) (*scene, error) {
	s := &scene{}
	var err error
	if s.framebuffer, err = device.CreateFramebuffer(rhi.FramebufferSpecification{
		Name:             "scene",
		Width:            width,
		Height:           height,
		ColorAttachments: []rhi.PixelFormat{rhi.PixelFormatRGBA8Unorm},
		DepthAttachment:  rhi.PixelFormatDepth24PlusStencil8,
		Samples:          rhi.SampleCount1,
	}); err != nil {
		return nil, err
	}
	if s.program, err = shader.CreateProgram(device, "mesh", shader.Mesh, shader.MeshResources); err != nil {
		return nil, err
	}
	if s.pipeline, err = device.CreatePipeline(rhi.PipelineDescription{
		Name:           "mesh",
		VertexModule:   s.program.Vertex,
		FragmentModule: s.program.Fragment,
		Layouts:        []rhi.VertexBufferLayout{rhi.LayoutPositionTexCoordNormal},
		Rasterizer:     rhi.RasterizerStateDescription{CullMode: rhi.CullModeBack},
		DepthStencil: rhi.DepthStencilDescription{
			EnableDepthTest:  true,
			EnableDepthWrite: true,
			DepthComparison:  rhi.ComparisonLess,
		},
		ColorFormats:    []rhi.PixelFormat{rhi.PixelFormatRGBA8Unorm},
		DepthFormat:     rhi.PixelFormatDepth24PlusStencil8,
		Samples:         rhi.SampleCount1,
		ResourceSetSpec: shader.MeshResources,
	}); err != nil {
		return nil, err
	}
	if s.cube, err = geometry.Upload(device, geometry.Cube(), rhi.LayoutPositionTexCoordNormal); err != nil {
		return nil, err
	}
	if s.albedo, err = imaging.LoadTexture2D(device, checkerboard(64, 8), imaging.Options{Name: "checker", Mipmaps: true}); err != nil {
		return nil, err
	}
	if s.sampler, err = device.CreateSampler(rhi.DefaultSamplerSpecification()); err != nil {
		return nil, err
	}
	if s.camera, err = device.CreateUniformBuffer(64); err != nil {
		return nil, err
	}
	proj := geometry.Perspective(mgl32.DegToRad(60), float32(width)/float32(height), 0.1, 100, device)
	view := mgl32.LookAtV(mgl32.Vec3{1.5, 1.2, 2}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	if err := s.camera.SetData(matrixBytes(proj.Mul4(view)), 0); err != nil {
		return nil, err
	}
	if s.resources, err = device.CreateResourceSet(s.pipeline); err != nil {
		return nil, err
	}
	if err := s.resources.WriteUniformBuffer(s.camera, "Camera"); err != nil {
		return nil, err
	}
	if err := s.resources.WriteCombinedImageSampler(s.albedo, s.sampler, "Albedo"); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *scene) destroy() {
	if s.resources != nil {
		s.resources.Destroy()
	}
	if s.camera != nil {
		s.camera.Destroy()
	}
	if s.cube != nil {
		s.cube.Destroy()
	}
	if s.albedo != nil {
		s.albedo.Destroy()
	}
	if s.sampler != nil {
		s.sampler.Destroy()
	}
	if s.pipeline != nil {
		s.pipeline.Destroy()
	}
	if s.program.Vertex != nil {
		s.program.Destroy()
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
	}
}

func drawUI(device *rhi.GraphicsDevice, swapchain *software.Swapchain) error {
	target := rhi.NewSwapchainTarget(swapchain)
	ui, err := uirender.New(device, uirender.ConfigFor(target))
	if err != nil {
		return err
	}
	defer ui.Close()

	if err := ui.BeforeLayout(target); err != nil {
		return err
	}
	panel := uirender.Rect{Min: mgl32.Vec2{16, 16}, Max: mgl32.Vec2{216, 72}}
	tint := uirender.RGBA(20, 20, 20, 200)
	list := uirender.DrawList{
		Vertices: []uirender.Vertex{
			{Position: panel.Min, Color: tint},
			{Position: mgl32.Vec2{panel.Max.X(), panel.Min.Y()}, Color: tint},
			{Position: panel.Max, Color: tint},
			{Position: mgl32.Vec2{panel.Min.X(), panel.Max.Y()}, Color: tint},
		},
		Indices:  []uint16{0, 1, 2, 2, 3, 0},
		Commands: []uirender.DrawCommand{{ElemCount: 6, ClipRect: panel, Texture: ui.White()}},
	}
	return ui.AfterLayout(uirender.DrawData{Lists: []uirender.DrawList{list}})
}

func checkerboard(size, cells int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	for y := range size {
		for x := range size {
			c := color.RGBA{R: 230, G: 230, B: 230, A: 255}
			if (x/cell+y/cell)%2 == 1 {
				c = color.RGBA{R: 200, G: 60, B: 40, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func matrixBytes(m mgl32.Mat4) []byte {
	out := make([]byte, 0, 64)
	for _, v := range m {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}
