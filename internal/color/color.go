// Package color converts between sRGB-encoded bytes and linear values.
//
// Both directions use lookup tables: 256 entries for decoding and 4096
// entries (12 bits) for encoding, which is enough for 8-bit output.
package color

import "math"

var (
	toLinear   [256]float32
	fromLinear [4096]uint8
)

func init() {
	for i := range toLinear {
		toLinear[i] = float32(decode(float64(i) / 255))
	}
	for i := range fromLinear {
		fromLinear[i] = quantize(encode(float64(i) / 4095))
	}
}

// decode is the sRGB transfer function.
func decode(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// encode is the inverse sRGB transfer function.
func encode(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1/2.4) - 0.055
}

func quantize(v float64) uint8 {
	return uint8(min(max(v*255+0.5, 0), 255))
}

// ToLinear decodes an sRGB byte to a linear value in [0, 1].
func ToLinear(s uint8) float32 { return toLinear[s] }

// FromLinear encodes a linear value to an sRGB byte. Inputs outside
// [0, 1] are clamped.
func FromLinear(l float32) uint8 {
	l = min(max(l, 0), 1)
	return fromLinear[int(l*4095+0.5)]
}

// Unorm8 quantizes a value in [0, 1] without a transfer function, as
// used for alpha and non-sRGB channels.
func Unorm8(v float32) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*255 + 0.5)
}
