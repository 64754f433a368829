package gputest

import "github.com/dskgfx/dsk/gpu"

type CommandKind int

const (
	CmdBindPipeline CommandKind = iota
	CmdBindVertexBuffers
	CmdBindIndexBuffer
	CmdDraw
	CmdDrawIndexed
	CmdPushConstants
)

// Command is one recorded call. Only the fields relevant to Kind are set.
type Command struct {
	Kind      CommandKind
	Pipeline  gpu.PipelineHandle
	Buffers   []gpu.Allocation
	Offsets   []uint64
	First     uint32
	IndexType gpu.IndexType
	Count     uint32
	Instances uint32
	Stages    gpu.ShaderStage
	Data      []byte
}

type CommandBuffer struct {
	Commands []Command
}

func (c *CommandBuffer) BindPipeline(p gpu.PipelineHandle) {
	c.Commands = append(c.Commands, Command{Kind: CmdBindPipeline, Pipeline: p})
}

func (c *CommandBuffer) BindVertexBuffers(firstBinding uint32, buffers []gpu.Allocation, offsets []uint64) {
	c.Commands = append(c.Commands, Command{Kind: CmdBindVertexBuffers, First: firstBinding, Buffers: buffers, Offsets: offsets})
}

func (c *CommandBuffer) BindIndexBuffer(buf gpu.Allocation, offset uint64, typ gpu.IndexType) {
	c.Commands = append(c.Commands, Command{Kind: CmdBindIndexBuffer, Buffers: []gpu.Allocation{buf}, Offsets: []uint64{offset}, IndexType: typ})
}

func (c *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	c.Commands = append(c.Commands, Command{Kind: CmdDraw, Count: vertexCount, Instances: instanceCount, First: firstVertex})
}

func (c *CommandBuffer) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	c.Commands = append(c.Commands, Command{Kind: CmdDrawIndexed, Count: indexCount, Instances: instanceCount, First: firstIndex})
}

func (c *CommandBuffer) PushConstants(stages gpu.ShaderStage, offset uint32, data []byte) {
	c.Commands = append(c.Commands, Command{Kind: CmdPushConstants, Stages: stages, First: offset, Data: append([]byte(nil), data...)})
}

// Kinds returns the kinds of the recorded commands in order.
func (c *CommandBuffer) Kinds() []CommandKind {
	kinds := make([]CommandKind, len(c.Commands))
	for i, cmd := range c.Commands {
		kinds[i] = cmd.Kind
	}
	return kinds
}
