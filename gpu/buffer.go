package gpu

import (
	"fmt"
	"unsafe"
)

// Buffer owns one device allocation sized for elementCount elements of
// elementSize bytes. It is not meant to be copied; pass *Buffer and call
// Release exactly once from the owner.
type Buffer struct {
	alloc        Allocation
	elementSize  uint64
	elementCount uint64
	usage        BufferUsage
	props        MemoryProperty
	mapped       []byte
}

func NewBuffer(dev Device, elementSize, elementCount uint64, usage BufferUsage, props MemoryProperty) (*Buffer, error) {
	size := elementSize * elementCount
	alloc, err := dev.CreateBuffer(&BufferDescriptor{
		Size:             size,
		Usage:            usage,
		MemoryProperties: props,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: allocate %d byte buffer: %w", size, err)
	}
	Logger().Debug("buffer allocated", "size", size, "usage", usage, "memory", props)

	return &Buffer{
		alloc:        alloc,
		elementSize:  elementSize,
		elementCount: elementCount,
		usage:        usage,
		props:        props,
	}, nil
}

// Map maps the whole buffer into host memory. It panics if the buffer was
// not allocated host visible. Mapping an already mapped buffer is a no-op.
func (b *Buffer) Map() error {
	if !b.props.Has(MemoryHostVisible) {
		panic("gpu: Map called on a buffer without MemoryHostVisible")
	}
	if b.mapped != nil {
		return nil
	}
	m, err := b.alloc.Map()
	if err != nil {
		return fmt.Errorf("gpu: map buffer: %w", err)
	}
	b.mapped = m[:b.BufferSize()]
	return nil
}

func (b *Buffer) Unmap() {
	if b.mapped == nil {
		return
	}
	b.alloc.Unmap()
	b.mapped = nil
}

// WriteToBuffer copies BufferSize bytes from src into the mapped region.
// The buffer must be mapped and src must be at least BufferSize bytes long.
func (b *Buffer) WriteToBuffer(src []byte) {
	if b.mapped == nil {
		panic("gpu: WriteToBuffer called on an unmapped buffer")
	}
	copy(b.mapped, src[:b.BufferSize()])
}

// Release unmaps and frees the allocation. It is safe to call more than
// once.
func (b *Buffer) Release() {
	if b == nil || b.alloc == nil {
		return
	}
	b.Unmap()
	b.alloc.Release()
	b.alloc = nil
}

func (b *Buffer) Allocation() Allocation           { return b.alloc }
func (b *Buffer) BufferSize() uint64               { return b.elementSize * b.elementCount }
func (b *Buffer) ElementSize() uint64              { return b.elementSize }
func (b *Buffer) ElementCount() uint64             { return b.elementCount }
func (b *Buffer) Usage() BufferUsage               { return b.usage }
func (b *Buffer) MemoryProperties() MemoryProperty { return b.props }

// ToBytes reinterprets s as its backing bytes without copying.
func ToBytes[E any](s []E) []byte {
	if len(s) == 0 {
		return nil
	}
	var e E
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(e)))
}

// StageUpload creates a device-local buffer with the given usage and fills
// it with data through a transient host-visible staging buffer. The staging
// buffer is released once the device copy has returned.
func StageUpload(dev Device, elementSize, elementCount uint64, data []byte, usage BufferUsage) (*Buffer, error) {
	staging, err := NewBuffer(dev, elementSize, elementCount,
		BufferUsageTransferSrc,
		MemoryHostVisible|MemoryHostCoherent,
	)
	if err != nil {
		return nil, err
	}
	defer staging.Release()

	if err := staging.Map(); err != nil {
		return nil, err
	}
	staging.WriteToBuffer(data)

	dst, err := NewBuffer(dev, elementSize, elementCount,
		usage|BufferUsageTransferDst,
		MemoryDeviceLocal,
	)
	if err != nil {
		return nil, err
	}

	staging.Unmap()
	if err := dev.CopyBuffer(staging.Allocation(), dst.Allocation(), staging.BufferSize()); err != nil {
		dst.Release()
		return nil, fmt.Errorf("gpu: staging copy: %w", err)
	}
	Logger().Debug("staged upload", "size", staging.BufferSize(), "usage", usage)
	return dst, nil
}
