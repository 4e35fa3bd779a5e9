package software

import (
	"encoding/binary"
	"math"

	"github.com/nexusgfx/rhi"
	"github.com/nexusgfx/rhi/internal/color"
)

// encoders convert a clear color into one texel. Formats without an
// encoder are not supported as color targets.
var encoders = map[rhi.PixelFormat]func(c rhi.Color) []byte{
	rhi.PixelFormatR8Unorm:        func(c rhi.Color) []byte { return []byte{unorm8(c.R)} },
	rhi.PixelFormatRG8Unorm:       func(c rhi.Color) []byte { return []byte{unorm8(c.R), unorm8(c.G)} },
	rhi.PixelFormatRGBA8Unorm:     rgba8,
	rhi.PixelFormatRGBA8UnormSRGB: srgba8,
	rhi.PixelFormatBGRA8Unorm:     bgra8,
	rhi.PixelFormatBGRA8UnormSRGB: sbgra8,
	rhi.PixelFormatR16Float:       func(c rhi.Color) []byte { return halfs(c.R) },
	rhi.PixelFormatRG16Float:      func(c rhi.Color) []byte { return halfs(c.R, c.G) },
	rhi.PixelFormatRGBA16Float:    func(c rhi.Color) []byte { return halfs(c.R, c.G, c.B, c.A) },
	rhi.PixelFormatR32Float:       func(c rhi.Color) []byte { return floats(c.R) },
	rhi.PixelFormatRG32Float:      func(c rhi.Color) []byte { return floats(c.R, c.G) },
	rhi.PixelFormatRGBA32Float:    func(c rhi.Color) []byte { return floats(c.R, c.G, c.B, c.A) },
	rhi.PixelFormatR32Uint: func(c rhi.Color) []byte {
		return binary.LittleEndian.AppendUint32(nil, uint32(max(c.R, 0)))
	},
}

var unorm8 = color.Unorm8

func rgba8(c rhi.Color) []byte {
	return []byte{unorm8(c.R), unorm8(c.G), unorm8(c.B), unorm8(c.A)}
}

func bgra8(c rhi.Color) []byte {
	return []byte{unorm8(c.B), unorm8(c.G), unorm8(c.R), unorm8(c.A)}
}

// srgba8 encodes a linear clear color for an sRGB target. Alpha stays
// linear.
func srgba8(c rhi.Color) []byte {
	return []byte{color.FromLinear(c.R), color.FromLinear(c.G), color.FromLinear(c.B), unorm8(c.A)}
}

func sbgra8(c rhi.Color) []byte {
	return []byte{color.FromLinear(c.B), color.FromLinear(c.G), color.FromLinear(c.R), unorm8(c.A)}
}

func floats(vs ...float32) []byte {
	out := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func halfs(vs ...float32) []byte {
	out := make([]byte, 0, 2*len(vs))
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint16(out, float16(v))
	}
	return out
}

// float16 converts to IEEE 754 binary16, truncating the mantissa.
func float16(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	exp := int32(bits>>23&0xff) - 127 + 15
	mant := bits & 0x7fffff
	switch {
	case bits&0x7fffffff == 0:
		return sign
	case exp >= 0x1f:
		if bits&0x7f800000 == 0x7f800000 && mant != 0 {
			return sign | 0x7e00
		}
		return sign | 0x7c00
	case exp <= 0:
		if exp < -10 {
			return sign
		}
		mant |= 0x800000
		return sign | uint16(mant>>uint32(14-exp))
	}
	return sign | uint16(exp)<<10 | uint16(mant>>13)
}

func halfToFloat(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h & 0x3ff)
	switch {
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		return float32(math.Ldexp(float64(mant), -24)) * signOf(sign)
	case exp == 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	}
	return math.Float32frombits(sign | (exp-15+127)<<23 | mant<<13)
}

func signOf(sign uint32) float32 {
	if sign != 0 {
		return -1
	}
	return 1
}

// decodeRGBA8 converts one texel of format to 8-bit RGBA.
func decodeRGBA8(format rhi.PixelFormat, px []byte) [4]uint8 {
	le := binary.LittleEndian
	f32 := func(i int) float32 { return math.Float32frombits(le.Uint32(px[4*i:])) }
	f16 := func(i int) float32 { return halfToFloat(le.Uint16(px[2*i:])) }
	switch format {
	case rhi.PixelFormatR8Unorm:
		return [4]uint8{px[0], 0, 0, 255}
	case rhi.PixelFormatRG8Unorm:
		return [4]uint8{px[0], px[1], 0, 255}
	case rhi.PixelFormatRGBA8Unorm, rhi.PixelFormatRGBA8UnormSRGB:
		return [4]uint8{px[0], px[1], px[2], px[3]}
	case rhi.PixelFormatBGRA8Unorm, rhi.PixelFormatBGRA8UnormSRGB:
		return [4]uint8{px[2], px[1], px[0], px[3]}
	case rhi.PixelFormatR16Float:
		return [4]uint8{unorm8(f16(0)), 0, 0, 255}
	case rhi.PixelFormatRG16Float:
		return [4]uint8{unorm8(f16(0)), unorm8(f16(1)), 0, 255}
	case rhi.PixelFormatRGBA16Float:
		return [4]uint8{unorm8(f16(0)), unorm8(f16(1)), unorm8(f16(2)), unorm8(f16(3))}
	case rhi.PixelFormatR32Float:
		return [4]uint8{unorm8(f32(0)), 0, 0, 255}
	case rhi.PixelFormatRG32Float:
		return [4]uint8{unorm8(f32(0)), unorm8(f32(1)), 0, 255}
	case rhi.PixelFormatRGBA32Float:
		return [4]uint8{unorm8(f32(0)), unorm8(f32(1)), unorm8(f32(2)), unorm8(f32(3))}
	case rhi.PixelFormatR32Uint:
		return [4]uint8{uint8(min(le.Uint32(px), 255)), 0, 0, 255}
	}
	return [4]uint8{}
}

// encodeDepth converts a depth and stencil clear value into one texel.
func encodeDepth(format rhi.PixelFormat, depth float32, stencil uint8) []byte {
	depth = min(max(depth, 0), 1)
	switch format {
	case rhi.PixelFormatDepth24PlusStencil8:
		d := uint32(float64(depth)*0xffffff + 0.5)
		return binary.LittleEndian.AppendUint32(nil, d|uint32(stencil)<<24)
	case rhi.PixelFormatDepth32FloatStencil8:
		px := binary.LittleEndian.AppendUint32(nil, math.Float32bits(depth))
		return append(px, stencil, 0, 0, 0)
	default:
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(depth))
	}
}
