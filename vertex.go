package rhi

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// StepRate selects whether a vertex buffer advances per vertex or per instance.
type StepRate uint8

const (
	StepRateVertex StepRate = iota
	StepRateInstance
)

func (s StepRate) String() string {
	if s == StepRateInstance {
		return "Instance"
	}
	return "Vertex"
}

// VertexBufferElement is one attribute of a vertex buffer layout.
// Offset is assigned by CalculateOffsets.
type VertexBufferElement struct {
	Type ShaderDataType
	Name string
	// Size is derived from Type. For ShaderDataTypeNone it is an explicit
	// padding size.
	Size   uint32
	Offset uint32
}

// NewVertexBufferElement returns an element sized from its type.
func NewVertexBufferElement(t ShaderDataType, name string) VertexBufferElement {
	return VertexBufferElement{Type: t, Name: name, Size: t.Size()}
}

// Padding returns an unnamed element that reserves n bytes.
func Padding(n uint32) VertexBufferElement {
	return VertexBufferElement{Type: ShaderDataTypeNone, Size: n}
}

// IsPadding reports whether e only reserves space.
func (e VertexBufferElement) IsPadding() bool { return e.Type == ShaderDataTypeNone }

// VertexBufferLayout describes the attributes of one vertex buffer.
type VertexBufferLayout struct {
	elements []VertexBufferElement
	stride   uint32
	StepRate StepRate
}

// NewVertexBufferLayout builds a layout and calculates its offsets.
func NewVertexBufferLayout(step StepRate, elements ...VertexBufferElement) VertexBufferLayout {
	l := VertexBufferLayout{
		elements: append([]VertexBufferElement(nil), elements...),
		StepRate: step,
	}
	l.CalculateOffsets()
	return l
}

// CalculateOffsets assigns every element the running sum of the sizes
// before it and sets the stride to the total.
func (l *VertexBufferLayout) CalculateOffsets() {
	var offset uint32
	for i := range l.elements {
		e := &l.elements[i]
		if !e.IsPadding() {
			e.Size = e.Type.Size()
		}
		e.Offset = offset
		offset += e.Size
	}
	l.stride = offset
}

// Elements returns the elements in declaration order.
func (l VertexBufferLayout) Elements() []VertexBufferElement { return l.elements }

// Attributes returns the non-padding elements.
func (l VertexBufferLayout) Attributes() []VertexBufferElement {
	out := make([]VertexBufferElement, 0, len(l.elements))
	for _, e := range l.elements {
		if !e.IsPadding() {
			out = append(out, e)
		}
	}
	return out
}

// Stride returns the byte distance between consecutive vertices.
func (l VertexBufferLayout) Stride() uint32 { return l.stride }

// Validate checks that every element has a known type and a unique name.
func (l VertexBufferLayout) Validate() error {
	if len(l.elements) == 0 {
		return errors.New("rhi: vertex buffer layout has no elements")
	}
	seen := make(map[string]struct{}, len(l.elements))
	for i, e := range l.elements {
		if e.IsPadding() {
			if e.Size == 0 {
				return errors.Newf("rhi: vertex element %d: zero sized padding", i)
			}
			continue
		}
		if e.Type.Size() == 0 {
			return errors.Newf("rhi: vertex element %d (%q): unknown data type %d", i, e.Name, uint8(e.Type))
		}
		if _, dup := seen[e.Name]; dup {
			return errors.Newf("rhi: vertex element %d: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

func (l VertexBufferLayout) String() string {
	return fmt.Sprintf("VertexBufferLayout{%d elements, stride %d, %s}", len(l.elements), l.stride, l.StepRate)
}

// Common layouts used by geometry helpers.
var (
	// LayoutPosition is a float3 position.
	LayoutPosition = NewVertexBufferLayout(StepRateVertex,
		NewVertexBufferElement(ShaderDataTypeFloat3, "Position"))

	// LayoutPositionTexCoord is a float3 position and float2 texture coordinate.
	LayoutPositionTexCoord = NewVertexBufferLayout(StepRateVertex,
		NewVertexBufferElement(ShaderDataTypeFloat3, "Position"),
		NewVertexBufferElement(ShaderDataTypeFloat2, "TexCoord"))

	// LayoutPositionTexCoordNormal adds a float3 normal.
	LayoutPositionTexCoordNormal = NewVertexBufferLayout(StepRateVertex,
		NewVertexBufferElement(ShaderDataTypeFloat3, "Position"),
		NewVertexBufferElement(ShaderDataTypeFloat2, "TexCoord"),
		NewVertexBufferElement(ShaderDataTypeFloat3, "Normal"))
)
