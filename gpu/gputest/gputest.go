// Package gputest provides a host-memory gpu.Device that records every
// allocation, copy and command so tests can inspect them.
package gputest

import (
	"errors"
	"fmt"

	"github.com/dskgfx/dsk/gpu"
)

var ErrInjected = errors.New("gputest: injected failure")

type Buffer struct {
	Desc     gpu.BufferDescriptor
	Data     []byte
	Mapped   bool
	Released bool
}

func (b *Buffer) Size() uint64 { return b.Desc.Size }

func (b *Buffer) Map() ([]byte, error) {
	if !b.Desc.MemoryProperties.Has(gpu.MemoryHostVisible) {
		return nil, fmt.Errorf("gputest: buffer is not host visible")
	}
	b.Mapped = true
	return b.Data, nil
}

func (b *Buffer) Unmap()   { b.Mapped = false }
func (b *Buffer) Release() { b.Released = true }

type Image struct {
	Desc     gpu.ImageDescriptor
	Data     []byte
	Released bool
}

func (i *Image) Width() uint32  { return i.Desc.Width }
func (i *Image) Height() uint32 { return i.Desc.Height }
func (i *Image) Release()       { i.Released = true }

type ShaderModule struct {
	Code     []byte
	Released bool
}

func (s *ShaderModule) Release() { s.Released = true }

type Pipeline struct {
	Desc     gpu.GraphicsPipelineDescriptor
	Released bool
}

func (p *Pipeline) Release() { p.Released = true }

type Copy struct {
	Src, Dst *Buffer
	Size     uint64
}

// Device records resources in creation order. Set the Fail* fields to make
// the Nth call (1-based) of that kind return ErrInjected.
type Device struct {
	Buffers   []*Buffer
	Images    []*Image
	Shaders   []*ShaderModule
	Pipelines []*Pipeline
	Copies    []Copy

	FailCreateBuffer   int
	FailCopyBuffer     int
	FailCreatePipeline int

	createBufferCalls int
	copyBufferCalls   int
}

func NewDevice() *Device {
	return &Device{}
}

func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Allocation, error) {
	d.createBufferCalls++
	if d.createBufferCalls == d.FailCreateBuffer {
		return nil, ErrInjected
	}
	b := &Buffer{Desc: *desc, Data: make([]byte, desc.Size)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CopyBuffer(src, dst gpu.Allocation, size uint64) error {
	d.copyBufferCalls++
	if d.copyBufferCalls == d.FailCopyBuffer {
		return ErrInjected
	}
	s, dd := src.(*Buffer), dst.(*Buffer)
	if s.Mapped {
		return fmt.Errorf("gputest: copy source is still mapped")
	}
	copy(dd.Data[:size], s.Data[:size])
	d.Copies = append(d.Copies, Copy{Src: s, Dst: dd, Size: size})
	return nil
}

func (d *Device) CreateImage(desc *gpu.ImageDescriptor) (gpu.Image, error) {
	img := &Image{Desc: *desc, Data: make([]byte, int(desc.Width*desc.Height*desc.Format.Size()))}
	d.Images = append(d.Images, img)
	return img, nil
}

func (d *Device) CopyBufferToImage(src gpu.Allocation, dst gpu.Image, width, height uint32) error {
	img := dst.(*Image)
	copy(img.Data, src.(*Buffer).Data)
	return nil
}

func (d *Device) CreateShaderModule(code []byte) (gpu.ShaderModule, error) {
	s := &ShaderModule{Code: append([]byte(nil), code...)}
	d.Shaders = append(d.Shaders, s)
	return s, nil
}

func (d *Device) CreateGraphicsPipeline(desc *gpu.GraphicsPipelineDescriptor) (gpu.PipelineHandle, error) {
	if len(d.Pipelines)+1 == d.FailCreatePipeline {
		return nil, ErrInjected
	}
	p := &Pipeline{Desc: *desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

// Live returns the buffers that have not been released.
func (d *Device) Live() []*Buffer {
	var live []*Buffer
	for _, b := range d.Buffers {
		if !b.Released {
			live = append(live, b)
		}
	}
	return live
}
