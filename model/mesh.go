// Package model loads mesh geometry and owns the device buffers it is drawn
// from.
package model

import (
	"fmt"
	"unsafe"

	"github.com/dskgfx/dsk/gpu"
)

// Mesh owns a device-local vertex buffer and, when built with indices, a
// device-local index buffer. It is immutable once built.
//
// A Mesh is reference counted: it starts with one reference, Share adds
// one, and the buffers are released when Release drops the last one. A Mesh
// must be released before the Device it was built with is torn down.
type Mesh struct {
	vertexBuffer *gpu.Buffer
	vertexCount  uint32

	hasIndexBuffer bool
	indexBuffer    *gpu.Buffer
	indexCount     uint32

	refs int
}

// NewMesh uploads data to device-local memory. It panics if data has fewer
// than three vertices. Loads against the same device must not run
// concurrently.
func NewMesh(dev gpu.Device, data *Data) (m *Mesh, err error) {
	m = &Mesh{refs: 1}
	defer func() {
		if err != nil {
			m.destroy()
			m = nil
		}
	}()

	if err = m.createVertexBuffers(dev, data.Vertices); err != nil {
		return m, err
	}
	if err = m.createIndexBuffer(dev, data.Indices); err != nil {
		return m, err
	}
	return m, nil
}

// NewMeshFromFile loads the model file at path and uploads it.
func NewMeshFromFile(dev gpu.Device, path string) (*Mesh, error) {
	var data Data
	if err := data.LoadModel(path); err != nil {
		return nil, err
	}

	m, err := NewMesh(dev, &data)
	if err != nil {
		return nil, fmt.Errorf("model: upload %s: %w", path, err)
	}
	gpu.Logger().Info("mesh loaded", "path", path, "vertices", m.vertexCount, "indices", m.indexCount)
	return m, nil
}

func (m *Mesh) createVertexBuffers(dev gpu.Device, vertices []Vertex) error {
	m.vertexCount = uint32(len(vertices))
	if m.vertexCount < 3 {
		panic("model: vertex count must be at least 3")
	}

	vertexSize := uint64(unsafe.Sizeof(vertices[0]))
	buf, err := gpu.StageUpload(dev, vertexSize, uint64(m.vertexCount), gpu.ToBytes(vertices), gpu.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("model: vertex buffer: %w", err)
	}
	m.vertexBuffer = buf
	return nil
}

func (m *Mesh) createIndexBuffer(dev gpu.Device, indices []uint32) error {
	m.indexCount = uint32(len(indices))
	m.hasIndexBuffer = m.indexCount > 0
	if !m.hasIndexBuffer {
		return nil
	}

	indexSize := uint64(unsafe.Sizeof(indices[0]))
	buf, err := gpu.StageUpload(dev, indexSize, uint64(m.indexCount), gpu.ToBytes(indices), gpu.BufferUsageIndex)
	if err != nil {
		m.hasIndexBuffer = false
		return fmt.Errorf("model: index buffer: %w", err)
	}
	m.indexBuffer = buf
	return nil
}

// Bind binds the vertex buffer at binding 0 and, if present, the 32-bit
// index buffer.
func (m *Mesh) Bind(cmd gpu.CommandBuffer) {
	cmd.BindVertexBuffers(0, []gpu.Allocation{m.vertexBuffer.Allocation()}, []uint64{0})

	if m.hasIndexBuffer {
		cmd.BindIndexBuffer(m.indexBuffer.Allocation(), 0, gpu.IndexTypeUint32)
	}
}

// Draw issues one instance, indexed when the mesh has an index buffer.
func (m *Mesh) Draw(cmd gpu.CommandBuffer) {
	if m.hasIndexBuffer {
		cmd.DrawIndexed(m.indexCount, 1, 0, 0, 0)
	} else {
		cmd.Draw(m.vertexCount, 1, 0, 0)
	}
}

func (m *Mesh) VertexCount() uint32  { return m.vertexCount }
func (m *Mesh) IndexCount() uint32   { return m.indexCount }
func (m *Mesh) HasIndexBuffer() bool { return m.hasIndexBuffer }

// Share adds a reference and returns m.
func (m *Mesh) Share() *Mesh {
	if m.refs <= 0 {
		panic("model: Share on a released mesh")
	}
	m.refs++
	return m
}

// Release drops a reference, freeing the device buffers with the last one.
func (m *Mesh) Release() {
	if m == nil || m.refs <= 0 {
		return
	}
	m.refs--
	if m.refs == 0 {
		m.destroy()
	}
}

func (m *Mesh) destroy() {
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	m.refs = 0
}
