package rhi

import "testing"

func TestShaderDataTypeSize(t *testing.T) {
	tests := []struct {
		typ  ShaderDataType
		want uint32
	}{
		{ShaderDataTypeFloat, 4},
		{ShaderDataTypeFloat3, 12},
		{ShaderDataTypeFloat4, 16},
		{ShaderDataTypeUInt4, 16},
		{ShaderDataTypeHalf2, 4},
		{ShaderDataTypeNormByte4, 4},
		{ShaderDataTypeNone, 0},
		{ShaderDataType(200), 0},
	}
	for _, tt := range tests {
		if got := tt.typ.Size(); got != tt.want {
			t.Errorf("%v.Size() = %d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestCalculateOffsets(t *testing.T) {
	tests := []struct {
		name   string
		types  []ShaderDataType
		stride uint32
	}{
		{"single", []ShaderDataType{ShaderDataTypeFloat3}, 12},
		{"pos-uv", []ShaderDataType{ShaderDataTypeFloat3, ShaderDataTypeFloat2}, 20},
		{"mixed", []ShaderDataType{ShaderDataTypeFloat4, ShaderDataTypeNormByte4, ShaderDataTypeUInt4, ShaderDataTypeHalf2}, 40},
		{"ints", []ShaderDataType{ShaderDataTypeInt, ShaderDataTypeInt2, ShaderDataTypeInt3}, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elems := make([]VertexBufferElement, len(tt.types))
			for i, typ := range tt.types {
				elems[i] = NewVertexBufferElement(typ, typ.String())
			}
			l := NewVertexBufferLayout(StepRateVertex, elems...)

			var sum uint32
			prev := int64(-1)
			for i, e := range l.Elements() {
				if e.Offset != sum {
					t.Errorf("element %d offset = %d, want %d", i, e.Offset, sum)
				}
				if int64(e.Offset) <= prev {
					t.Errorf("element %d offset %d not increasing", i, e.Offset)
				}
				prev = int64(e.Offset)
				sum += tt.types[i].Size()
			}
			if l.Stride() != tt.stride || l.Stride() != sum {
				t.Errorf("Stride() = %d, want %d", l.Stride(), tt.stride)
			}
		})
	}
}

func TestCalculateOffsets_Padding(t *testing.T) {
	l := NewVertexBufferLayout(StepRateInstance,
		NewVertexBufferElement(ShaderDataTypeFloat3, "Position"),
		Padding(4),
		NewVertexBufferElement(ShaderDataTypeFloat4, "Color"))

	if got := l.Elements()[2].Offset; got != 16 {
		t.Errorf("Color offset = %d, want 16", got)
	}
	if l.Stride() != 32 {
		t.Errorf("Stride() = %d, want 32", l.Stride())
	}
	if n := len(l.Attributes()); n != 2 {
		t.Errorf("len(Attributes()) = %d, want 2", n)
	}
	if l.StepRate != StepRateInstance {
		t.Errorf("StepRate = %v, want Instance", l.StepRate)
	}
}

func TestVertexBufferLayout_Validate(t *testing.T) {
	tests := []struct {
		name    string
		layout  VertexBufferLayout
		wantErr bool
	}{
		{"valid", LayoutPositionTexCoordNormal, false},
		{"empty", NewVertexBufferLayout(StepRateVertex), true},
		{"duplicate", NewVertexBufferLayout(StepRateVertex,
			NewVertexBufferElement(ShaderDataTypeFloat, "A"),
			NewVertexBufferElement(ShaderDataTypeFloat, "A")), true},
		{"zero padding", NewVertexBufferLayout(StepRateVertex, Padding(0)), true},
		{"unknown type", NewVertexBufferLayout(StepRateVertex,
			VertexBufferElement{Type: ShaderDataType(99), Name: "X"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetSampleCount(t *testing.T) {
	tests := []struct {
		in   SampleCount
		want uint32
	}{
		{SampleCount1, 1},
		{SampleCount2, 2},
		{SampleCount4, 4},
		{SampleCount8, 8},
	}
	for _, tt := range tests {
		if got := GetSampleCount(tt.in); got != tt.want {
			t.Errorf("GetSampleCount(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGetSampleCount_Unknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("GetSampleCount(99) did not panic")
		}
	}()
	n := GetSampleCount(SampleCount(99))
	t.Errorf("GetSampleCount(99) = %d, want panic", n)
}

func TestSampleCount_Count(t *testing.T) {
	if _, err := SampleCount(42).Count(); err != ErrUnknownSampleCount {
		t.Errorf("Count() error = %v, want ErrUnknownSampleCount", err)
	}
	sc, err := SampleCountFromInt(4)
	if err != nil || sc != SampleCount4 {
		t.Errorf("SampleCountFromInt(4) = %v, %v", sc, err)
	}
	if _, err := SampleCountFromInt(3); err == nil {
		t.Error("SampleCountFromInt(3) succeeded")
	}
}
