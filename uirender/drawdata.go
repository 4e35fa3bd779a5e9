package uirender

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureID identifies a texture bound with BindTexture.
type TextureID uint64

// Vertex is one UI vertex. Color is packed RGBA with red in the low byte.
type Vertex struct {
	Position mgl32.Vec2
	TexCoord mgl32.Vec2
	Color    uint32
}

// vertexSize is the stride of shader.LayoutUI.
const vertexSize = 20

// RGBA packs an 8-bit color the way Vertex.Color expects.
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// Rect is a clip rectangle in display coordinates.
type Rect struct {
	Min, Max mgl32.Vec2
}

// DrawCommand draws ElemCount indices of its list starting at IdxOffset.
// VtxOffset is added to every index.
type DrawCommand struct {
	ElemCount uint32
	IdxOffset uint32
	VtxOffset uint32
	ClipRect  Rect
	Texture   TextureID
}

// DrawList is the geometry of one UI window.
type DrawList struct {
	Vertices []Vertex
	Indices  []uint16
	Commands []DrawCommand
}

// DrawData is everything laid out in one frame.
type DrawData struct {
	// DisplayPos is the top-left of the display in UI coordinates.
	DisplayPos mgl32.Vec2
	// DisplaySize of zero uses the size of the render target.
	DisplaySize mgl32.Vec2
	// FramebufferScale converts UI units to pixels. Zero means 1.
	FramebufferScale mgl32.Vec2
	Lists            []DrawList
}

// TotalVertices is the vertex count over all lists.
func (d DrawData) TotalVertices() int {
	n := 0
	for _, l := range d.Lists {
		n += len(l.Vertices)
	}
	return n
}

// TotalIndices is the index count over all lists.
func (d DrawData) TotalIndices() int {
	n := 0
	for _, l := range d.Lists {
		n += len(l.Indices)
	}
	return n
}

func (d DrawData) scale() mgl32.Vec2 {
	s := d.FramebufferScale
	if s.X() == 0 {
		s[0] = 1
	}
	if s.Y() == 0 {
		s[1] = 1
	}
	return s
}

// packVertices appends the vertices of every list in LayoutUI order.
func packVertices(out []byte, d DrawData) []byte {
	for _, l := range d.Lists {
		for _, v := range l.Vertices {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.Position.X()))
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.Position.Y()))
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.TexCoord.X()))
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.TexCoord.Y()))
			out = binary.LittleEndian.AppendUint32(out, v.Color)
		}
	}
	return out
}

func packIndices(out []byte, d DrawData) []byte {
	for _, l := range d.Lists {
		for _, i := range l.Indices {
			out = binary.LittleEndian.AppendUint16(out, i)
		}
	}
	return out
}
