package imaging

import (
	"context"
	"image"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/nexusgfx/rhi"
)

// Options controls how images become textures.
type Options struct {
	Name string
	// SRGB selects PixelFormatRGBA8UnormSRGB instead of RGBA8Unorm.
	SRGB bool
	// Mipmaps builds and uploads the full mip chain.
	Mipmaps bool
	// Usage is added to TextureUsageSampled.
	Usage rhi.TextureUsage
	// FlipY reverses rows, see GraphicsDevice.IsUVOriginTopLeft.
	FlipY bool
}

func (o Options) format() rhi.PixelFormat {
	if o.SRGB {
		return rhi.PixelFormatRGBA8UnormSRGB
	}
	return rhi.PixelFormatRGBA8Unorm
}

// prepare converts img and builds its chain.
func (o Options) prepare(img image.Image) ([]*image.RGBA, error) {
	base := ToRGBA(img)
	if o.FlipY {
		base = FlipVertical(base)
	}
	levels := uint32(1)
	if o.Mipmaps {
		levels = 0
	}
	return MipChain(base, levels)
}

// LoadTexture2D uploads img, with its mip chain when requested.
func LoadTexture2D(device *rhi.GraphicsDevice, img image.Image, opts Options) (*rhi.Texture2D, error) {
	chain, err := opts.prepare(img)
	if err != nil {
		return nil, err
	}
	base := chain[0].Bounds()
	tex, err := device.CreateTexture2D(rhi.Texture2DSpecification{
		Name:      opts.Name,
		Width:     uint32(base.Dx()),
		Height:    uint32(base.Dy()),
		Format:    opts.format(),
		MipLevels: uint32(len(chain)),
		Samples:   rhi.SampleCount1,
		Usage:     rhi.TextureUsageSampled | opts.Usage,
	}, nil)
	if err != nil {
		return nil, err
	}
	for level, mip := range chain {
		b := mip.Bounds()
		if err := tex.SetData(pixels(mip), uint32(level), 0, 0, uint32(b.Dx()), uint32(b.Dy())); err != nil {
			tex.Destroy()
			return nil, errors.Wrapf(err, "imaging: upload %q level %d", opts.Name, level)
		}
	}
	rhi.Logger().Debug("imaging: texture uploaded", "name", opts.Name, "width", base.Dx(), "height", base.Dy(), "levels", len(chain))
	return tex, nil
}

// LoadCubemap uploads six square faces in CubemapFace order. Faces are
// converted and mipmapped in parallel; the first failure cancels the rest.
func LoadCubemap(ctx context.Context, device *rhi.GraphicsDevice, faces [rhi.CubemapFaceCount]image.Image, opts Options) (*rhi.Cubemap, error) {
	size := faces[0].Bounds().Size()
	if size.X != size.Y {
		return nil, errors.Newf("imaging: cubemap face is %dx%d, faces must be square", size.X, size.Y)
	}
	var chains [rhi.CubemapFaceCount][]*image.RGBA
	g, ctx := errgroup.WithContext(ctx)
	for i, face := range faces {
		if face.Bounds().Size() != size {
			return nil, errors.Newf("imaging: face %d is %v, face 0 is %v", i, face.Bounds().Size(), size)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			chain, err := opts.prepare(face)
			if err != nil {
				return errors.Wrapf(err, "face %d", i)
			}
			chains[i] = chain
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "imaging: prepare cubemap")
	}

	cube, err := device.CreateCubemap(rhi.CubemapSpecification{
		Name:      opts.Name,
		Width:     uint32(size.X),
		Height:    uint32(size.Y),
		Format:    opts.format(),
		MipLevels: uint32(len(chains[0])),
		Usage:     rhi.TextureUsageSampled | opts.Usage,
	})
	if err != nil {
		return nil, err
	}
	for face, chain := range chains {
		for level, mip := range chain {
			b := mip.Bounds()
			err := cube.SetData(pixels(mip), rhi.CubemapFace(face), uint32(level), 0, 0, uint32(b.Dx()), uint32(b.Dy()))
			if err != nil {
				cube.Destroy()
				return nil, errors.Wrapf(err, "imaging: upload %q face %d level %d", opts.Name, face, level)
			}
		}
	}
	return cube, nil
}

// pixels returns the packed bytes of a ToRGBA or MipChain image.
func pixels(m *image.RGBA) []byte {
	b := m.Bounds()
	return m.Pix[:4*b.Dx()*b.Dy()]
}
