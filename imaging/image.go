package imaging

import (
	"image"
	_ "image/gif"  // registers GIF decoding
	_ "image/jpeg" // registers JPEG decoding
	"image/png"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	_ "golang.org/x/image/bmp" // registers BMP decoding
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // registers TIFF decoding
	_ "golang.org/x/image/webp" // registers WebP decoding
)

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "imaging: decode")
	}
	return img, nil
}

// Load decodes the image file at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "imaging: open")
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "imaging: %s", path)
	}
	return img, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "imaging: create")
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "imaging: encode %s", path)
	}
	return errors.Wrap(f.Close(), "imaging: close")
}

// ToRGBA returns img as an *image.RGBA whose origin is (0, 0) and whose
// rows are tightly packed. Such images are returned unchanged.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(out, out.Bounds(), img, b.Min, xdraw.Src)
	return out
}

// FlipVertical returns a copy of img with its rows reversed, for backends
// whose UV origin is bottom-left.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	row := 4 * b.Dx()
	for y := range b.Dy() {
		src := img.Pix[y*img.Stride : y*img.Stride+row]
		dst := out.Pix[(b.Dy()-1-y)*out.Stride:]
		copy(dst[:row], src)
	}
	return out
}
