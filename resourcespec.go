package rhi

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// DescriptorSetCount is the number of bindings reserved per descriptor set
// in the linear slot space.
const DescriptorSetCount = 64

// LinearDescriptorSlot flattens a (set, binding) pair into a linear slot.
func LinearDescriptorSlot(set, binding uint32) uint32 {
	return set*DescriptorSetCount + binding
}

// SplitDescriptorSlot is the inverse of LinearDescriptorSlot.
func SplitDescriptorSlot(slot uint32) (set, binding uint32) {
	return slot / DescriptorSetCount, slot % DescriptorSetCount
}

// ResourceBinding declares a named resource at a (set, binding) pair.
type ResourceBinding struct {
	Name    string
	Set     uint32
	Binding uint32
	// Cube marks a sampled image that takes a Cubemap.
	Cube bool
}

// ResourceSetSpecification declares the resources a pipeline consumes.
type ResourceSetSpecification struct {
	UniformBuffers []ResourceBinding
	SampledImages  []ResourceBinding
}

// IsEmpty reports whether no resources are declared.
func (s ResourceSetSpecification) IsEmpty() bool {
	return len(s.UniformBuffers) == 0 && len(s.SampledImages) == 0
}

// SlotKind is the kind of resource a slot accepts.
type SlotKind uint8

const (
	SlotUniformBuffer SlotKind = iota
	SlotCombinedImageSampler
)

func (k SlotKind) String() string {
	if k == SlotCombinedImageSampler {
		return "CombinedImageSampler"
	}
	return "UniformBuffer"
}

// SlotInfo is one entry of a pipeline's slot table.
type SlotInfo struct {
	Name    string
	Set     uint32
	Binding uint32
	// Slot is LinearDescriptorSlot(Set, Binding).
	Slot uint32
	Kind SlotKind
	Cube bool
}

// Validate checks that names and (set, binding) pairs are unique, that set
// and binding stay below DescriptorSetCount, and that every slot lies below
// maxSlots. A maxSlots of 0 means unlimited.
func (s ResourceSetSpecification) Validate(maxSlots uint32) error {
	names := make(map[string]struct{})
	pairs := make(map[[2]uint32]string)

	check := func(b ResourceBinding, kind SlotKind) error {
		if b.Name == "" {
			return errors.Newf("%s at set %d binding %d has no name", kind, b.Set, b.Binding)
		}
		if _, dup := names[b.Name]; dup {
			return errors.Newf("duplicate resource name %q", b.Name)
		}
		names[b.Name] = struct{}{}

		key := [2]uint32{b.Set, b.Binding}
		if other, dup := pairs[key]; dup {
			return errors.Newf("%q and %q share set %d binding %d", other, b.Name, b.Set, b.Binding)
		}
		pairs[key] = b.Name

		if b.Set >= DescriptorSetCount {
			return errors.Newf("%q: set %d exceeds %d descriptor sets", b.Name, b.Set, DescriptorSetCount)
		}
		if b.Binding >= DescriptorSetCount {
			return errors.Newf("%q: binding %d exceeds %d bindings per set", b.Name, b.Binding, DescriptorSetCount)
		}
		if maxSlots != 0 && LinearDescriptorSlot(b.Set, b.Binding) >= maxSlots {
			return errors.Newf("%q: set %d binding %d exceeds the backend limit of %d slots",
				b.Name, b.Set, b.Binding, maxSlots)
		}
		return nil
	}

	for _, b := range s.UniformBuffers {
		if err := check(b, SlotUniformBuffer); err != nil {
			return err
		}
	}
	for _, b := range s.SampledImages {
		if err := check(b, SlotCombinedImageSampler); err != nil {
			return err
		}
	}
	return nil
}

// Merge returns the union of s and other. Identical declarations are kept
// once; conflicting ones are left for Validate to report.
func (s ResourceSetSpecification) Merge(other ResourceSetSpecification) ResourceSetSpecification {
	merge := func(a, b []ResourceBinding) []ResourceBinding {
		out := append([]ResourceBinding(nil), a...)
	next:
		for _, rb := range b {
			for _, ra := range a {
				if ra == rb {
					continue next
				}
			}
			out = append(out, rb)
		}
		return out
	}
	return ResourceSetSpecification{
		UniformBuffers: merge(s.UniformBuffers, other.UniformBuffers),
		SampledImages:  merge(s.SampledImages, other.SampledImages),
	}
}

// slotTable flattens a validated specification into its name lookup and
// the slots sorted by linear index.
func slotTable(s ResourceSetSpecification) (map[string]SlotInfo, []SlotInfo) {
	n := len(s.UniformBuffers) + len(s.SampledImages)
	byName := make(map[string]SlotInfo, n)
	ordered := make([]SlotInfo, 0, n)
	add := func(b ResourceBinding, kind SlotKind) {
		info := SlotInfo{
			Name:    b.Name,
			Set:     b.Set,
			Binding: b.Binding,
			Slot:    LinearDescriptorSlot(b.Set, b.Binding),
			Kind:    kind,
			Cube:    b.Cube,
		}
		byName[b.Name] = info
		ordered = append(ordered, info)
	}
	for _, b := range s.UniformBuffers {
		add(b, SlotUniformBuffer)
	}
	for _, b := range s.SampledImages {
		add(b, SlotCombinedImageSampler)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Slot < ordered[j].Slot })
	return byName, ordered
}
