package rhi

import (
	"fmt"

	"github.com/nexusgfx/rhi/internal/arena"
)

// AddressMode selects how coordinates outside [0, 1] are resolved.
type AddressMode uint8

const (
	AddressModeRepeat AddressMode = iota
	AddressModeMirrorRepeat
	AddressModeClampToEdge
	AddressModeClampToBorder
)

// FilterMode selects nearest or linear filtering.
type FilterMode uint8

const (
	FilterModeNearest FilterMode = iota
	FilterModeLinear
)

// SamplerSpecification describes a Sampler.
type SamplerSpecification struct {
	Name         string
	AddressModeU AddressMode
	AddressModeV AddressMode
	AddressModeW AddressMode
	MinFilter    FilterMode
	MagFilter    FilterMode
	MipmapFilter FilterMode
	MinLOD       float32
	MaxLOD       float32
	// LODBias requires GraphicsCapabilities.SupportsLODBias when non-zero.
	LODBias float32
	// MaximumAnisotropy of 0 or 1 disables anisotropic filtering.
	MaximumAnisotropy uint32
	// Comparison is the depth compare function used when EnableComparison is set.
	EnableComparison bool
	Comparison       ComparisonFunction
}

// DefaultSamplerSpecification returns a trilinear, edge-clamped sampler.
func DefaultSamplerSpecification() SamplerSpecification {
	return SamplerSpecification{
		AddressModeU: AddressModeClampToEdge,
		AddressModeV: AddressModeClampToEdge,
		AddressModeW: AddressModeClampToEdge,
		MinFilter:    FilterModeLinear,
		MagFilter:    FilterModeLinear,
		MipmapFilter: FilterModeLinear,
		MaxLOD:       32,
	}
}

func (s SamplerSpecification) check(caps GraphicsCapabilities) string {
	switch {
	case s.MinLOD < 0 || s.MaxLOD < s.MinLOD:
		return fmt.Sprintf("invalid LOD range [%g, %g]", s.MinLOD, s.MaxLOD)
	case s.LODBias != 0 && !caps.SupportsLODBias:
		return "backend does not support LOD bias"
	case s.MaximumAnisotropy > 16:
		return "maximum anisotropy is 16"
	}
	return ""
}

// Sampler holds texture sampling parameters.
type Sampler struct {
	device *GraphicsDevice
	handle arena.Handle
	spec   SamplerSpecification
	native NativeSampler
}

// Specification returns the creation specification.
func (s *Sampler) Specification() SamplerSpecification { return s.spec }

// Native returns the backend sampler.
func (s *Sampler) Native() NativeSampler { return s.native }

// IsValid reports whether the sampler has not been destroyed.
func (s *Sampler) IsValid() bool {
	return s != nil && s.device.samplers.Contains(s.handle)
}

// Destroy releases the sampler.
func (s *Sampler) Destroy() {
	if _, ok := s.device.samplers.Remove(s.handle); ok {
		s.native.Destroy()
	}
}
