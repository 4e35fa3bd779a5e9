package imaging_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/nexusgfx/rhi"
	_ "github.com/nexusgfx/rhi/backend/software"
	"github.com/nexusgfx/rhi/imaging"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func newDevice(t *testing.T) *rhi.GraphicsDevice {
	t.Helper()
	d, err := rhi.NewGraphicsDevice(rhi.DeviceSpecification{API: rhi.GraphicsAPISoftware})
	if err != nil {
		t.Fatalf("NewGraphicsDevice() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestToRGBA(t *testing.T) {
	src := solid(3, 2, color.NRGBA{R: 255, A: 255})
	got := imaging.ToRGBA(src)
	if got.Bounds() != image.Rect(0, 0, 3, 2) || got.Stride != 12 {
		t.Fatalf("ToRGBA() bounds %v stride %d", got.Bounds(), got.Stride)
	}
	if c := got.RGBAAt(2, 1); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("ToRGBA() pixel = %v", c)
	}

	// Packed RGBA images pass through.
	if imaging.ToRGBA(got) != got {
		t.Error("ToRGBA() copied a packed image")
	}

	// Sub-images are rebased to the origin.
	sub := got.SubImage(image.Rect(1, 1, 3, 2)).(*image.RGBA)
	if r := imaging.ToRGBA(sub); r.Bounds().Min != (image.Point{}) || r.Bounds().Dx() != 2 {
		t.Errorf("ToRGBA(sub) bounds = %v", r.Bounds())
	}
}

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 1, A: 255})
	img.SetRGBA(0, 1, color.RGBA{R: 2, A: 255})
	got := imaging.FlipVertical(img)
	if got.RGBAAt(0, 0).R != 2 || got.RGBAAt(0, 1).R != 1 {
		t.Errorf("FlipVertical() rows = %v, %v", got.RGBAAt(0, 0), got.RGBAAt(0, 1))
	}
}

func TestMipChain(t *testing.T) {
	base := imaging.ToRGBA(solid(8, 4, color.NRGBA{G: 200, A: 255}))
	tests := []struct {
		levels  uint32
		want    []image.Point
		wantErr bool
	}{
		{0, []image.Point{{8, 4}, {4, 2}, {2, 1}, {1, 1}}, false},
		{2, []image.Point{{8, 4}, {4, 2}}, false},
		{1, []image.Point{{8, 4}}, false},
		{5, nil, true},
	}
	for _, tt := range tests {
		chain, err := imaging.MipChain(base, tt.levels)
		if (err != nil) != tt.wantErr {
			t.Errorf("MipChain(%d) error = %v, wantErr %v", tt.levels, err, tt.wantErr)
			continue
		}
		if len(chain) != len(tt.want) {
			t.Errorf("MipChain(%d) = %d levels, want %d", tt.levels, len(chain), len(tt.want))
			continue
		}
		for i, m := range chain {
			if m.Bounds().Size() != tt.want[i] {
				t.Errorf("MipChain(%d)[%d] = %v, want %v", tt.levels, i, m.Bounds().Size(), tt.want[i])
			}
		}
	}

	chain, _ := imaging.MipChain(base, 0)
	if c := chain[len(chain)-1].RGBAAt(0, 0); c.G < 190 || c.A != 255 {
		t.Errorf("smallest mip = %v, want the solid color kept", c)
	}
}

func TestDecodeAndSave(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(4, 4, color.NRGBA{B: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := imaging.SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	back, err := imaging.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if back.Bounds().Size() != (image.Point{4, 4}) {
		t.Errorf("Load() size = %v", back.Bounds().Size())
	}
	if _, err := imaging.Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Decode(garbage) succeeded")
	}
}

func TestLoadTexture2D(t *testing.T) {
	d := newDevice(t)
	tex, err := imaging.LoadTexture2D(d, solid(16, 8, color.White), imaging.Options{Name: "albedo", Mipmaps: true})
	if err != nil {
		t.Fatalf("LoadTexture2D() error = %v", err)
	}
	desc := tex.Description()
	if desc.MipLevels != 5 || desc.Width != 16 || desc.Height != 8 {
		t.Errorf("description = %+v, want 16x8 with 5 levels", desc)
	}
	if !desc.Usage.Has(rhi.TextureUsageSampled) {
		t.Error("texture is not sampled")
	}
}

func TestLoadCubemap(t *testing.T) {
	d := newDevice(t)
	var faces [rhi.CubemapFaceCount]image.Image
	for i := range faces {
		faces[i] = solid(4, 4, color.Gray{Y: uint8(40 * i)})
	}
	cube, err := imaging.LoadCubemap(context.Background(), d, faces, imaging.Options{Name: "sky", Mipmaps: true})
	if err != nil {
		t.Fatalf("LoadCubemap() error = %v", err)
	}
	if got := cube.Description().MipLevels; got != 3 {
		t.Errorf("MipLevels = %d, want 3", got)
	}

	faces[3] = solid(2, 2, color.Black)
	if _, err := imaging.LoadCubemap(context.Background(), d, faces, imaging.Options{}); err == nil {
		t.Error("LoadCubemap() accepted mismatched faces")
	}
	for i := range faces {
		faces[i] = solid(4, 2, color.Black)
	}
	if _, err := imaging.LoadCubemap(context.Background(), d, faces, imaging.Options{}); err == nil {
		t.Error("LoadCubemap() accepted non-square faces")
	}
}
