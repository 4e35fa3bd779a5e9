package rhi

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/nexusgfx/rhi/internal/arena"
)

// BoundUniformBuffer is a uniform buffer written into a slot.
type BoundUniformBuffer struct {
	SlotInfo
	Buffer *DeviceBuffer
}

// BoundImage is a combined image sampler written into a slot.
type BoundImage struct {
	SlotInfo
	Texture SampledTexture
	Sampler *Sampler
}

// ResourceSetBindings is a consistent copy of a resource set's contents,
// sorted by linear slot.
type ResourceSetBindings struct {
	Version        uint64
	UniformBuffers []BoundUniformBuffer
	Images         []BoundImage
}

// ResourceSet binds concrete resources to the named slots of a pipeline.
type ResourceSet struct {
	device   *GraphicsDevice
	handle   arena.Handle
	pipeline *Pipeline

	mu      sync.RWMutex
	buffers map[uint32]*DeviceBuffer
	images  map[uint32]BoundImage
	version uint64
}

// Pipeline returns the pipeline the set was created for.
func (r *ResourceSet) Pipeline() *Pipeline { return r.pipeline }

// IsValid reports whether the set and its pipeline are both alive.
func (r *ResourceSet) IsValid() bool {
	return r != nil && r.device.resourceSets.Contains(r.handle) && r.pipeline.IsValid()
}

// Version increases with every write. Backends use it to cache native
// binding objects.
func (r *ResourceSet) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *ResourceSet) lookup(name string, kind SlotKind) (SlotInfo, error) {
	if !r.IsValid() {
		return SlotInfo{}, ErrResourceDestroyed
	}
	info, ok := r.pipeline.Slot(name)
	if !ok {
		return SlotInfo{}, errors.Wrapf(ErrUnknownSlot, "rhi: pipeline %q has no slot %q", r.pipeline.Name(), name)
	}
	if info.Kind != kind {
		return SlotInfo{}, errors.Wrapf(ErrSlotKindMismatch, "rhi: slot %q is a %s", name, info.Kind)
	}
	return info, nil
}

// WriteUniformBuffer binds a uniform buffer to the slot called name.
func (r *ResourceSet) WriteUniformBuffer(buffer *DeviceBuffer, name string) error {
	info, err := r.lookup(name, SlotUniformBuffer)
	if err != nil {
		return err
	}
	if !buffer.IsValid() {
		return errors.Wrapf(ErrResourceDestroyed, "rhi: uniform buffer for slot %q", name)
	}
	if buffer.device != r.device {
		return ErrForeignResource
	}
	if buffer.Type() != BufferTypeUniform {
		return errors.Newf("rhi: slot %q needs a uniform buffer, got %s", name, buffer.Type())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.buffers[info.Slot] = buffer
	r.version++
	return nil
}

// WriteCombinedImageSampler binds a texture and sampler to the slot called name.
func (r *ResourceSet) WriteCombinedImageSampler(texture SampledTexture, sampler *Sampler, name string) error {
	info, err := r.lookup(name, SlotCombinedImageSampler)
	if err != nil {
		return err
	}
	if texture == nil || !texture.IsValid() {
		return errors.Wrapf(ErrResourceDestroyed, "rhi: texture for slot %q", name)
	}
	if !sampler.IsValid() {
		return errors.Wrapf(ErrResourceDestroyed, "rhi: sampler for slot %q", name)
	}
	if sampler.device != r.device {
		return ErrForeignResource
	}
	if !texture.Description().Usage.Has(TextureUsageSampled) {
		return errors.Newf("rhi: slot %q: texture %q was not created with sampled usage", name, texture.Description().Name)
	}
	if texture.Description().Cube != info.Cube {
		return errors.Wrapf(ErrSlotKindMismatch, "rhi: slot %q: cube slot and texture %q disagree", name, texture.Description().Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[info.Slot] = BoundImage{SlotInfo: info, Texture: texture, Sampler: sampler}
	r.version++
	return nil
}

// MissingSlot returns the first declared slot, in linear order, that has
// not been written.
func (r *ResourceSet) MissingSlot() (SlotInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, info := range r.pipeline.Slots() {
		var written bool
		switch info.Kind {
		case SlotUniformBuffer:
			_, written = r.buffers[info.Slot]
		case SlotCombinedImageSampler:
			_, written = r.images[info.Slot]
		}
		if !written {
			return info, true
		}
	}
	return SlotInfo{}, false
}

// DestroyedSlot returns the first slot whose bound resource has since
// been destroyed.
func (r *ResourceSet) DestroyedSlot() (SlotInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, info := range r.pipeline.Slots() {
		switch info.Kind {
		case SlotUniformBuffer:
			if b, ok := r.buffers[info.Slot]; ok && !b.IsValid() {
				return info, true
			}
		case SlotCombinedImageSampler:
			if img, ok := r.images[info.Slot]; ok && (!img.Texture.IsValid() || !img.Sampler.IsValid()) {
				return info, true
			}
		}
	}
	return SlotInfo{}, false
}

// Bindings returns the written resources sorted by slot.
func (r *ResourceSet) Bindings() ResourceSetBindings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := ResourceSetBindings{Version: r.version}
	for _, info := range r.pipeline.Slots() {
		switch info.Kind {
		case SlotUniformBuffer:
			if b, ok := r.buffers[info.Slot]; ok {
				out.UniformBuffers = append(out.UniformBuffers, BoundUniformBuffer{SlotInfo: info, Buffer: b})
			}
		case SlotCombinedImageSampler:
			if img, ok := r.images[info.Slot]; ok {
				out.Images = append(out.Images, img)
			}
		}
	}
	return out
}

// Destroy releases the set.
func (r *ResourceSet) Destroy() {
	r.device.resourceSets.Remove(r.handle)
}
