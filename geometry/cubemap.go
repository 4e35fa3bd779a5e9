package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nexusgfx/rhi"
)

// faceBasis is the look direction and up vector of each cubemap face, in
// the usual +X, -X, +Y, -Y, +Z, -Z order.
var faceBasis = [rhi.CubemapFaceCount][2]mgl32.Vec3{
	rhi.CubemapFacePositiveX: {{1, 0, 0}, {0, -1, 0}},
	rhi.CubemapFaceNegativeX: {{-1, 0, 0}, {0, -1, 0}},
	rhi.CubemapFacePositiveY: {{0, 1, 0}, {0, 0, 1}},
	rhi.CubemapFaceNegativeY: {{0, -1, 0}, {0, 0, -1}},
	rhi.CubemapFacePositiveZ: {{0, 0, 1}, {0, -1, 0}},
	rhi.CubemapFaceNegativeZ: {{0, 0, -1}, {0, -1, 0}},
}

// CubemapFaceView is the view matrix that renders face from eye.
func CubemapFaceView(face rhi.CubemapFace, eye mgl32.Vec3) mgl32.Mat4 {
	b := faceBasis[face]
	return mgl32.LookAtV(eye, eye.Add(b[0]), b[1])
}

// CubemapProjection is the 90 degree square projection for rendering
// cubemap faces, corrected for c.
func CubemapProjection(near, far float32, c Conventions) mgl32.Mat4 {
	return Perspective(mgl32.DegToRad(90), 1, near, far, c)
}

// CubemapFaceCameras returns projection times view for all six faces.
func CubemapFaceCameras(eye mgl32.Vec3, near, far float32, c Conventions) [rhi.CubemapFaceCount]mgl32.Mat4 {
	proj := CubemapProjection(near, far, c)
	var out [rhi.CubemapFaceCount]mgl32.Mat4
	for face := range out {
		out[face] = proj.Mul4(CubemapFaceView(rhi.CubemapFace(face), eye))
	}
	return out
}
