package rhi

// ShaderDataType is the type of one vertex attribute.
type ShaderDataType uint8

// Shader data types.
const (
	ShaderDataTypeNone ShaderDataType = iota
	ShaderDataTypeFloat
	ShaderDataTypeFloat2
	ShaderDataTypeFloat3
	ShaderDataTypeFloat4
	ShaderDataTypeInt
	ShaderDataTypeInt2
	ShaderDataTypeInt3
	ShaderDataTypeInt4
	ShaderDataTypeUInt
	ShaderDataTypeUInt2
	ShaderDataTypeUInt3
	ShaderDataTypeUInt4
	ShaderDataTypeHalf2
	ShaderDataTypeHalf4
	ShaderDataTypeByte2
	ShaderDataTypeByte4
	ShaderDataTypeNormByte2
	ShaderDataTypeNormByte4
	ShaderDataTypeShort2
	ShaderDataTypeShort4
	ShaderDataTypeNormShort2
	ShaderDataTypeNormShort4
)

type shaderDataTypeInfo struct {
	name       string
	size       uint32
	components uint32
}

var shaderDataTypes = [...]shaderDataTypeInfo{
	ShaderDataTypeNone:       {"None", 0, 0},
	ShaderDataTypeFloat:      {"Float", 4, 1},
	ShaderDataTypeFloat2:     {"Float2", 8, 2},
	ShaderDataTypeFloat3:     {"Float3", 12, 3},
	ShaderDataTypeFloat4:     {"Float4", 16, 4},
	ShaderDataTypeInt:        {"Int", 4, 1},
	ShaderDataTypeInt2:       {"Int2", 8, 2},
	ShaderDataTypeInt3:       {"Int3", 12, 3},
	ShaderDataTypeInt4:       {"Int4", 16, 4},
	ShaderDataTypeUInt:       {"UInt", 4, 1},
	ShaderDataTypeUInt2:      {"UInt2", 8, 2},
	ShaderDataTypeUInt3:      {"UInt3", 12, 3},
	ShaderDataTypeUInt4:      {"UInt4", 16, 4},
	ShaderDataTypeHalf2:      {"Half2", 4, 2},
	ShaderDataTypeHalf4:      {"Half4", 8, 4},
	ShaderDataTypeByte2:      {"Byte2", 2, 2},
	ShaderDataTypeByte4:      {"Byte4", 4, 4},
	ShaderDataTypeNormByte2:  {"NormByte2", 2, 2},
	ShaderDataTypeNormByte4:  {"NormByte4", 4, 4},
	ShaderDataTypeShort2:     {"Short2", 4, 2},
	ShaderDataTypeShort4:     {"Short4", 8, 4},
	ShaderDataTypeNormShort2: {"NormShort2", 4, 2},
	ShaderDataTypeNormShort4: {"NormShort4", 8, 4},
}

func (t ShaderDataType) String() string {
	if int(t) < len(shaderDataTypes) {
		return shaderDataTypes[t].name
	}
	return "Unknown"
}

// Size returns the byte size of t, or 0 for None and unknown values.
func (t ShaderDataType) Size() uint32 {
	if int(t) < len(shaderDataTypes) {
		return shaderDataTypes[t].size
	}
	return 0
}

// ComponentCount returns the number of scalar components of t.
func (t ShaderDataType) ComponentCount() uint32 {
	if int(t) < len(shaderDataTypes) {
		return shaderDataTypes[t].components
	}
	return 0
}
