package geometry

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/nexusgfx/rhi"
)

// Vertex is a position, texture coordinate and normal.
type Vertex struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
}

// Mesh is indexed triangle-list geometry in CPU memory.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// checkLayout rejects layouts with attributes a Vertex cannot fill.
func checkLayout(layout rhi.VertexBufferLayout) error {
	for _, e := range layout.Attributes() {
		switch {
		case e.Name == "Position" && e.Type == rhi.ShaderDataTypeFloat3:
		case e.Name == "TexCoord" && e.Type == rhi.ShaderDataTypeFloat2:
		case e.Name == "Normal" && e.Type == rhi.ShaderDataTypeFloat3:
		default:
			return errors.Newf("geometry: cannot pack attribute %q of type %v", e.Name, e.Type)
		}
	}
	return nil
}

// VertexData packs the vertices for layout. Position, TexCoord and Normal
// attributes are understood; padding is zero-filled.
func (m Mesh) VertexData(layout rhi.VertexBufferLayout) ([]byte, error) {
	if err := checkLayout(layout); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(m.Vertices)*int(layout.Stride()))
	put := func(vs ...float32) {
		for _, v := range vs {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	for _, v := range m.Vertices {
		for _, e := range layout.Elements() {
			switch e.Name {
			case "Position":
				put(v.Position[:]...)
			case "TexCoord":
				put(v.TexCoord[:]...)
			case "Normal":
				put(v.Normal[:]...)
			default:
				out = append(out, make([]byte, e.Size)...)
			}
		}
	}
	return out, nil
}

// IndexData packs the indices as 16-bit values when they fit.
func (m Mesh) IndexData() ([]byte, rhi.IndexFormat) {
	var top uint32
	for _, i := range m.Indices {
		top = max(top, i)
	}
	if top <= math.MaxUint16 {
		out := make([]byte, 0, 2*len(m.Indices))
		for _, i := range m.Indices {
			out = binary.LittleEndian.AppendUint16(out, uint16(i))
		}
		return out, rhi.IndexFormatUInt16
	}
	out := make([]byte, 0, 4*len(m.Indices))
	for _, i := range m.Indices {
		out = binary.LittleEndian.AppendUint32(out, i)
	}
	return out, rhi.IndexFormatUInt32
}

// Transform returns a copy of m with positions transformed by t and
// normals by its inverse transpose.
func (m Mesh) Transform(t mgl32.Mat4) Mesh {
	normal := t.Mat3().Inv().Transpose()
	out := Mesh{Name: m.Name, Vertices: make([]Vertex, len(m.Vertices)), Indices: append([]uint32(nil), m.Indices...)}
	for i, v := range m.Vertices {
		out.Vertices[i] = Vertex{
			Position: mgl32.TransformCoordinate(v.Position, t),
			TexCoord: v.TexCoord,
			Normal:   normal.Mul3x1(v.Normal).Normalize(),
		}
	}
	return out
}

// GPUMesh is a mesh uploaded to a device.
type GPUMesh struct {
	Name        string
	Vertices    *rhi.DeviceBuffer
	Indices     *rhi.DeviceBuffer
	IndexFormat rhi.IndexFormat
	IndexCount  uint32
}

// Upload creates the vertex and index buffers of m packed for layout.
func Upload(device *rhi.GraphicsDevice, m Mesh, layout rhi.VertexBufferLayout) (*GPUMesh, error) {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil, errors.Newf("geometry: mesh %q is empty", m.Name)
	}
	vdata, err := m.VertexData(layout)
	if err != nil {
		return nil, err
	}
	idata, format := m.IndexData()
	vb, err := device.CreateVertexBuffer(vdata, layout.Stride())
	if err != nil {
		return nil, errors.Wrapf(err, "geometry: mesh %q", m.Name)
	}
	ib, err := device.CreateIndexBuffer(idata, format)
	if err != nil {
		vb.Destroy()
		return nil, errors.Wrapf(err, "geometry: mesh %q", m.Name)
	}
	return &GPUMesh{
		Name:        m.Name,
		Vertices:    vb,
		Indices:     ib,
		IndexFormat: format,
		IndexCount:  uint32(len(m.Indices)),
	}, nil
}

// Draw binds the buffers to slot 0 and records an indexed draw. The
// pipeline and resource set must already be set on list.
func (g *GPUMesh) Draw(list *rhi.CommandList) {
	list.SetVertexBuffer(g.Vertices, 0)
	list.SetIndexBuffer(g.Indices, g.IndexFormat)
	list.DrawIndexed(g.IndexCount, 0, 0)
}

// DrawInstanced is Draw for count instances.
func (g *GPUMesh) DrawInstanced(list *rhi.CommandList, count uint32) {
	list.SetVertexBuffer(g.Vertices, 0)
	list.SetIndexBuffer(g.Indices, g.IndexFormat)
	list.DrawInstancedIndexed(g.IndexCount, count, 0, 0, 0)
}

// Destroy releases both buffers.
func (g *GPUMesh) Destroy() {
	g.Vertices.Destroy()
	g.Indices.Destroy()
}
