package wgpudev

import (
	"github.com/dskgfx/dsk/gpu"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// Pass records into a render pass encoder. It implements
// gpu.CommandBuffer for resources created by a Device.
type Pass struct {
	enc *wgpu.RenderPassEncoder
}

func NewPass(enc *wgpu.RenderPassEncoder) *Pass {
	return &Pass{enc: enc}
}

// SetViewport sets the dynamic viewport.
func (p *Pass) SetViewport(v gpu.Viewport) {
	p.enc.SetViewport(v.X, v.Y, v.Width, v.Height, v.MinDepth, v.MaxDepth)
}

func (p *Pass) SetScissor(r gpu.Rect2D) {
	p.enc.SetScissorRect(uint32(r.X), uint32(r.Y), r.Width, r.Height)
}

func (p *Pass) BindPipeline(h gpu.PipelineHandle) {
	p.enc.SetPipeline(h.(*pipelineHandle).p)
}

func (p *Pass) BindVertexBuffers(firstBinding uint32, buffers []gpu.Allocation, offsets []uint64) {
	for i, b := range buffers {
		p.enc.SetVertexBuffer(firstBinding+uint32(i), b.(*buffer).buf, offsets[i], wgpu.WholeSize)
	}
}

func (p *Pass) BindIndexBuffer(buf gpu.Allocation, offset uint64, typ gpu.IndexType) {
	format := wgpu.IndexFormat_Uint32
	if typ == gpu.IndexTypeUint16 {
		format = wgpu.IndexFormat_Uint16
	}
	p.enc.SetIndexBuffer(buf.(*buffer).buf, format, offset, wgpu.WholeSize)
}

func (p *Pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.enc.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	p.enc.DrawIndexed(indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

func (p *Pass) PushConstants(stages gpu.ShaderStage, offset uint32, data []byte) {
	var s wgpu.ShaderStage
	if stages&gpu.ShaderStageVertex != 0 {
		s |= wgpu.ShaderStage_Vertex
	}
	if stages&gpu.ShaderStageFragment != 0 {
		s |= wgpu.ShaderStage_Fragment
	}
	p.enc.SetPushConstants(s, offset, data)
}
