package rhi

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/nexusgfx/rhi/internal/arena"
)

// BufferType is the intended use of a DeviceBuffer.
type BufferType uint8

// Buffer types.
const (
	BufferTypeVertex BufferType = iota
	BufferTypeIndex
	BufferTypeUniform
	BufferTypeUpload
	BufferTypeReadback
	BufferTypeIndirect
	BufferTypeStorage
)

var bufferTypeNames = [...]string{
	BufferTypeVertex:   "Vertex",
	BufferTypeIndex:    "Index",
	BufferTypeUniform:  "Uniform",
	BufferTypeUpload:   "Upload",
	BufferTypeReadback: "Readback",
	BufferTypeIndirect: "Indirect",
	BufferTypeStorage:  "Storage",
}

func (t BufferType) String() string {
	if int(t) < len(bufferTypeNames) {
		return bufferTypeNames[t]
	}
	return "Unknown"
}

// IndexFormat is the element type of an index buffer.
type IndexFormat uint8

const (
	IndexFormatUInt16 IndexFormat = iota
	IndexFormatUInt32
)

// Size returns the byte size of one index.
func (f IndexFormat) Size() uint32 {
	if f == IndexFormatUInt32 {
		return 4
	}
	return 2
}

func (f IndexFormat) String() string {
	if f == IndexFormatUInt32 {
		return "UInt32"
	}
	return "UInt16"
}

// BufferDescription describes a DeviceBuffer.
type BufferDescription struct {
	// Name is an optional debug label.
	Name        string
	SizeInBytes uint64
	Type        BufferType
	// StrideInBytes is the element stride. Zero means unstructured.
	StrideInBytes uint32
	// HostVisible buffers can be mapped by the CPU.
	HostVisible bool
}

// check returns a reason the description is invalid, or "".
func (d BufferDescription) check() string {
	switch {
	case d.SizeInBytes == 0:
		return "size must be greater than zero"
	case int(d.Type) >= len(bufferTypeNames):
		return "unknown buffer type"
	case d.StrideInBytes != 0 && d.SizeInBytes%uint64(d.StrideInBytes) != 0:
		return "size is not a multiple of the stride"
	case (d.Type == BufferTypeUpload || d.Type == BufferTypeReadback) && !d.HostVisible:
		return d.Type.String() + " buffers must be host visible"
	}
	return ""
}

// DeviceBuffer is a block of GPU memory, optionally visible to the host.
//
// A host-visible buffer is mapped through a CPU shadow: Map reads the
// current contents into it and Unmap writes it back.
type DeviceBuffer struct {
	device *GraphicsDevice
	handle arena.Handle
	desc   BufferDescription
	native NativeBuffer

	mu     sync.Mutex
	mapped []byte
}

// Description returns the creation description.
func (b *DeviceBuffer) Description() BufferDescription { return b.desc }

// Size returns the size in bytes.
func (b *DeviceBuffer) Size() uint64 { return b.desc.SizeInBytes }

// Type returns the buffer type.
func (b *DeviceBuffer) Type() BufferType { return b.desc.Type }

// Native returns the backend buffer.
func (b *DeviceBuffer) Native() NativeBuffer { return b.native }

// IsValid reports whether the buffer has not been destroyed.
func (b *DeviceBuffer) IsValid() bool {
	return b != nil && b.device.buffers.Contains(b.handle)
}

// SetData writes data at offset.
func (b *DeviceBuffer) SetData(data []byte, offset uint64) error {
	if !b.IsValid() {
		return ErrResourceDestroyed
	}
	if offset+uint64(len(data)) > b.desc.SizeInBytes {
		return errors.Wrapf(ErrOutOfRange, "rhi: write %d bytes at %d into %d byte buffer",
			len(data), offset, b.desc.SizeInBytes)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mapped != nil {
		return ErrBufferMapped
	}
	return b.native.Write(offset, data)
}

// Map returns a CPU view of the whole buffer. Writes to the slice are
// flushed to the buffer by Unmap.
func (b *DeviceBuffer) Map() ([]byte, error) {
	if !b.IsValid() {
		return nil, ErrResourceDestroyed
	}
	if !b.desc.HostVisible {
		return nil, ErrBufferNotHostVisible
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mapped != nil {
		return nil, ErrBufferMapped
	}
	shadow := make([]byte, b.desc.SizeInBytes)
	if err := b.native.Read(0, shadow); err != nil {
		return nil, errors.Wrap(err, "rhi: map buffer")
	}
	b.mapped = shadow
	return shadow, nil
}

// Unmap flushes the mapped view back into the buffer.
func (b *DeviceBuffer) Unmap() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mapped == nil {
		return ErrBufferNotMapped
	}
	data := b.mapped
	b.mapped = nil
	if !b.device.buffers.Contains(b.handle) {
		return ErrResourceDestroyed
	}
	return b.native.Write(0, data)
}

// IsMapped reports whether Map has been called without Unmap.
func (b *DeviceBuffer) IsMapped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mapped != nil
}

// Destroy releases the buffer. Later use reports ErrResourceDestroyed.
func (b *DeviceBuffer) Destroy() {
	if _, ok := b.device.buffers.Remove(b.handle); ok {
		b.native.Destroy()
	}
}
