package imaging

import (
	"image"

	"github.com/cockroachdb/errors"
	xdraw "golang.org/x/image/draw"

	"github.com/nexusgfx/rhi"
)

// MipChain returns levels images starting with base, each half the size of
// the previous one and clamped to 1. A levels of 0 builds the full chain.
func MipChain(base *image.RGBA, levels uint32) ([]*image.RGBA, error) {
	w, h := uint32(base.Bounds().Dx()), uint32(base.Bounds().Dy())
	full := rhi.MaxMipLevels(w, h)
	if full == 0 {
		return nil, errors.New("imaging: empty image")
	}
	if levels == 0 {
		levels = full
	}
	if levels > full {
		return nil, errors.Newf("imaging: %d mip levels requested, a %dx%d image has %d", levels, w, h, full)
	}
	chain := make([]*image.RGBA, levels)
	chain[0] = base
	for level := uint32(1); level < levels; level++ {
		mw, mh := rhi.MipSize(w, h, level)
		dst := image.NewRGBA(image.Rect(0, 0, int(mw), int(mh)))
		prev := chain[level-1]
		xdraw.BiLinear.Scale(dst, dst.Bounds(), prev, prev.Bounds(), xdraw.Src, nil)
		chain[level] = dst
	}
	return chain, nil
}
