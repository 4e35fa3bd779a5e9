package geometry

import "github.com/go-gl/mathgl/mgl32"

// Conventions reports the texture-coordinate and clip-space conventions of
// a device. *rhi.GraphicsDevice implements it.
type Conventions interface {
	GetUVCorrection() float32
	IsUVOriginTopLeft() bool
}

// Fixed is a Conventions value for code running without a device.
type Fixed struct {
	UVCorrection float32
	TopLeft      bool
}

func (f Fixed) GetUVCorrection() float32 { return f.UVCorrection }
func (f Fixed) IsUVOriginTopLeft() bool  { return f.TopLeft }

// Common conventions.
var (
	// OpenGL has a bottom-left texture origin and a [-1, 1] depth range.
	OpenGL = Fixed{UVCorrection: 1, TopLeft: false}
	// WebGPU has a top-left texture origin and a [0, 1] depth range.
	WebGPU = Fixed{UVCorrection: 1, TopLeft: true}
)

// depthRemap maps clip depth from [-1, 1] to [0, 1].
var depthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Correct adapts a projection built with OpenGL conventions, as mgl32
// builds them, to c. Devices with a top-left origin clip depth to [0, 1];
// the UV correction scales clip-space y.
func Correct(proj mgl32.Mat4, c Conventions) mgl32.Mat4 {
	if c.IsUVOriginTopLeft() {
		proj = depthRemap.Mul4(proj)
	}
	if k := c.GetUVCorrection(); k != 1 {
		proj = mgl32.Scale3D(1, k, 1).Mul4(proj)
	}
	return proj
}

// Perspective is mgl32.Perspective corrected for c.
func Perspective(fovy, aspect, near, far float32, c Conventions) mgl32.Mat4 {
	return Correct(mgl32.Perspective(fovy, aspect, near, far), c)
}

// Ortho is mgl32.Ortho corrected for c.
func Ortho(left, right, bottom, top, near, far float32, c Conventions) mgl32.Mat4 {
	return Correct(mgl32.Ortho(left, right, bottom, top, near, far), c)
}

// PixelProjection maps pixel coordinates with a top-left origin onto a
// width by height target.
func PixelProjection(width, height float32, c Conventions) mgl32.Mat4 {
	return Ortho(0, width, height, 0, -1, 1, c)
}
