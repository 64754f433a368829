// Package gpu defines the device contract the renderer core is written
// against, and the buffer type that owns device allocations.
//
// The core never talks to a graphics API directly. Memory allocation,
// buffer copies, shader module and pipeline creation all go through a
// [Device]; recorded work goes through a [CommandBuffer]. See package
// wgpudev for the WebGPU implementation and gputest for a host-only one.
//
// Nothing in this package is safe for concurrent use. Devices are assumed
// to be driven from a single goroutine.
package gpu

type BufferUsage uint32

const (
	BufferUsageTransferSrc BufferUsage = 1 << iota
	BufferUsageTransferDst
	BufferUsageUniform
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageSampled
)

func (u BufferUsage) Has(f BufferUsage) bool { return u&f == f }

type MemoryProperty uint32

const (
	MemoryDeviceLocal MemoryProperty = 1 << iota
	MemoryHostVisible
	MemoryHostCoherent
)

func (p MemoryProperty) Has(f MemoryProperty) bool { return p&f == f }

type IndexType uint32

const (
	IndexTypeUint16 IndexType = iota
	IndexTypeUint32
)

type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
)

type BufferDescriptor struct {
	Label            string
	Size             uint64
	Usage            BufferUsage
	MemoryProperties MemoryProperty
}

type ImageDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format Format
}

// Allocation is a device buffer together with the memory backing it.
type Allocation interface {
	Size() uint64
	// Map returns a host view of the whole allocation. Only valid for
	// host-visible allocations.
	Map() ([]byte, error)
	Unmap()
	Release()
}

type Image interface {
	Width() uint32
	Height() uint32
	Release()
}

type ShaderModule interface {
	Release()
}

type PipelineHandle interface {
	Release()
}

// PipelineLayout and RenderPass are owned outside the core; pipelines only
// reference them.
type PipelineLayout interface{}

type RenderPass interface{}

type Device interface {
	CreateBuffer(desc *BufferDescriptor) (Allocation, error)
	// CopyBuffer copies size bytes from the start of src to the start of
	// dst and returns once the copy has completed on the device.
	CopyBuffer(src, dst Allocation, size uint64) error
	CreateImage(desc *ImageDescriptor) (Image, error)
	// CopyBufferToImage copies tightly packed texels from src into dst and
	// returns once the copy has completed.
	CopyBufferToImage(src Allocation, dst Image, width, height uint32) error
	CreateShaderModule(code []byte) (ShaderModule, error)
	CreateGraphicsPipeline(desc *GraphicsPipelineDescriptor) (PipelineHandle, error)
}

// CommandBuffer records draw work for one render pass.
type CommandBuffer interface {
	BindPipeline(p PipelineHandle)
	BindVertexBuffers(firstBinding uint32, buffers []Allocation, offsets []uint64)
	BindIndexBuffer(buf Allocation, offset uint64, typ IndexType)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)
	PushConstants(stages ShaderStage, offset uint32, data []byte)
}
