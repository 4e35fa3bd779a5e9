package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

func v(px, py, pz, u, w, nx, ny, nz float32) Vertex {
	return Vertex{Position: mgl32.Vec3{px, py, pz}, TexCoord: mgl32.Vec2{u, w}, Normal: mgl32.Vec3{nx, ny, nz}}
}

// Cube is a unit cube centred on the origin with one quad per face, so
// each face has its own normal and a full 0..1 texture square. Faces wind
// counter-clockwise seen from outside.
func Cube() Mesh {
	return Mesh{
		Name: "cube",
		Vertices: []Vertex{
			// front
			v(-0.5, -0.5, 0.5, 0, 0, 0, 0, 1),
			v(0.5, -0.5, 0.5, 1, 0, 0, 0, 1),
			v(0.5, 0.5, 0.5, 1, 1, 0, 0, 1),
			v(-0.5, 0.5, 0.5, 0, 1, 0, 0, 1),
			// back
			v(-0.5, -0.5, -0.5, 0, 0, 0, 0, -1),
			v(0.5, -0.5, -0.5, 1, 0, 0, 0, -1),
			v(0.5, 0.5, -0.5, 1, 1, 0, 0, -1),
			v(-0.5, 0.5, -0.5, 0, 1, 0, 0, -1),
			// top
			v(-0.5, 0.5, -0.5, 0, 0, 0, 1, 0),
			v(0.5, 0.5, -0.5, 1, 0, 0, 1, 0),
			v(0.5, 0.5, 0.5, 1, 1, 0, 1, 0),
			v(-0.5, 0.5, 0.5, 0, 1, 0, 1, 0),
			// bottom
			v(-0.5, -0.5, -0.5, 0, 0, 0, -1, 0),
			v(0.5, -0.5, -0.5, 1, 0, 0, -1, 0),
			v(0.5, -0.5, 0.5, 1, 1, 0, -1, 0),
			v(-0.5, -0.5, 0.5, 0, 1, 0, -1, 0),
			// left
			v(-0.5, -0.5, -0.5, 0, 0, -1, 0, 0),
			v(-0.5, -0.5, 0.5, 1, 0, -1, 0, 0),
			v(-0.5, 0.5, 0.5, 1, 1, -1, 0, 0),
			v(-0.5, 0.5, -0.5, 0, 1, -1, 0, 0),
			// right
			v(0.5, -0.5, -0.5, 0, 0, 1, 0, 0),
			v(0.5, -0.5, 0.5, 1, 0, 1, 0, 0),
			v(0.5, 0.5, 0.5, 1, 1, 1, 0, 0),
			v(0.5, 0.5, -0.5, 0, 1, 1, 0, 0),
		},
		Indices: []uint32{
			0, 1, 2, 2, 3, 0,
			6, 5, 4, 4, 7, 6,
			10, 9, 8, 8, 11, 10,
			12, 13, 14, 14, 15, 12,
			16, 17, 18, 18, 19, 16,
			22, 21, 20, 20, 23, 22,
		},
	}
}

// Sprite is a unit quad in the z = 0 plane facing +z.
func Sprite() Mesh {
	return Mesh{
		Name: "sprite",
		Vertices: []Vertex{
			v(-0.5, -0.5, 0, 0, 0, 0, 0, 1),
			v(0.5, -0.5, 0, 1, 0, 0, 0, 1),
			v(0.5, 0.5, 0, 1, 1, 0, 0, 1),
			v(-0.5, 0.5, 0, 0, 1, 0, 0, 1),
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}

// Triangle is a single triangle in the z = 0 plane.
func Triangle() Mesh {
	return Mesh{
		Name: "triangle",
		Vertices: []Vertex{
			v(-0.5, -0.5, 0, 0, 0, 0, 0, 1),
			v(0, 0.5, 0, 0.5, 1, 0, 0, 1),
			v(0.5, -0.5, 0, 1, 0, 0, 0, 1),
		},
		Indices: []uint32{0, 1, 2},
	}
}

// FullscreenQuad covers clip space. Texture coordinates put the top of the
// texture at the top of the screen on every device.
func FullscreenQuad(c Conventions) Mesh {
	top, bottom := float32(0), float32(1)
	if !c.IsUVOriginTopLeft() {
		top, bottom = 1, 0
	}
	return Mesh{
		Name: "fullscreen",
		Vertices: []Vertex{
			v(-1, 1, 0, 0, top, 0, 0, 1),
			v(1, 1, 0, 1, top, 0, 0, 1),
			v(1, -1, 0, 1, bottom, 0, 0, 1),
			v(-1, -1, 0, 0, bottom, 0, 0, 1),
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}
