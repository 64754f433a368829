// Package wgpudev implements gpu.Device on top of WebGPU.
//
// Host-visible allocations keep a host copy of their contents; Unmap
// writes it through the queue. Device-local allocations only ever receive
// data through CopyBuffer.
package wgpudev

import (
	"errors"
	"fmt"

	"github.com/dskgfx/dsk/gpu"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

var errForeign = errors.New("wgpudev: resource was not created by this device")

type Device struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

// RequiredFeatures lists the native features the renderer depends on.
var RequiredFeatures = []wgpu.FeatureName{
	wgpu.FeatureName(wgpu.NativeFeature_PushConstants),
}

// RequestDevice opens a device on adapter with push constants of at least
// pushConstantSize bytes.
func RequestDevice(adapter *wgpu.Adapter, pushConstantSize uint32) (*Device, error) {
	limits := adapter.GetLimits()
	limits.Limits.MaxPushConstantSize = pushConstantSize
	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "dsk",
		RequiredFeatures: RequiredFeatures,
		RequiredLimits:   &wgpu.RequiredLimits{Limits: limits.Limits},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpudev: request device: %w", err)
	}
	return New(dev), nil
}

// New wraps an existing device. The Device takes ownership of it.
func New(device *wgpu.Device) *Device {
	return &Device{device: device, queue: device.GetQueue()}
}

// Raw returns the underlying device for the surface and swap chain setup
// the core does not cover.
func (d *Device) Raw() *wgpu.Device { return d.device }

func (d *Device) Queue() *wgpu.Queue { return d.queue }

func (d *Device) Release() {
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
}

type buffer struct {
	dev    *Device
	buf    *wgpu.Buffer
	size   uint64
	host   []byte
	mapped bool
	// writeErr is the failure of the last Unmap's queue write, reported
	// by the next copy from this buffer.
	writeErr error
}

func (b *buffer) Size() uint64 { return b.size }

func (b *buffer) Map() ([]byte, error) {
	if b.host == nil {
		return nil, fmt.Errorf("wgpudev: buffer of %d bytes is not host visible", b.size)
	}
	b.mapped = true
	return b.host, nil
}

func (b *buffer) Unmap() {
	if !b.mapped {
		return
	}
	b.mapped = false
	b.writeErr = b.dev.queue.WriteBuffer(b.buf, 0, b.host)
}

func (b *buffer) Release() {
	if b.buf == nil {
		return
	}
	b.buf.Release()
	b.buf = nil
	b.host = nil
}

// Buffer sizes and copy sizes must be multiples of copyAlignment.
const copyAlignment = 4

func alignedSize(size uint64) uint64 {
	return (size + copyAlignment - 1) &^ (copyAlignment - 1)
}

func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Allocation, error) {
	usage := bufferUsage(desc.Usage)
	hostVisible := desc.MemoryProperties.Has(gpu.MemoryHostVisible)
	if hostVisible {
		usage |= wgpu.BufferUsage_CopyDst
	}

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Usage: usage,
		Size:  alignedSize(desc.Size),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpudev: create buffer: %w", err)
	}

	b := &buffer{dev: d, buf: buf, size: desc.Size}
	if hostVisible {
		b.host = make([]byte, alignedSize(desc.Size))
	}
	return b, nil
}

func (d *Device) CopyBuffer(src, dst gpu.Allocation, size uint64) error {
	s, ok := src.(*buffer)
	if !ok {
		return errForeign
	}
	t, ok := dst.(*buffer)
	if !ok {
		return errForeign
	}
	if s.mapped {
		return errors.New("wgpudev: copy from a mapped buffer")
	}
	if s.writeErr != nil {
		return fmt.Errorf("wgpudev: fill source buffer: %w", s.writeErr)
	}

	encoder, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "copy buffer"})
	if err != nil {
		return fmt.Errorf("wgpudev: %w", err)
	}
	defer encoder.Release()

	encoder.CopyBufferToBuffer(s.buf, 0, t.buf, 0, alignedSize(size))
	return d.submitAndWait(encoder)
}

func (d *Device) submitAndWait(encoder *wgpu.CommandEncoder) error {
	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("wgpudev: %w", err)
	}
	defer cmdBuffer.Release()

	d.queue.Submit(cmdBuffer)
	d.device.Poll(true, nil)
	return nil
}

type image struct {
	tex           *wgpu.Texture
	view          *wgpu.TextureView
	width, height uint32
}

func (i *image) Width() uint32  { return i.width }
func (i *image) Height() uint32 { return i.height }

// View returns the texture view used to bind the image.
func (i *image) View() *wgpu.TextureView { return i.view }

func (i *image) Release() {
	if i.view != nil {
		i.view.Release()
		i.view = nil
	}
	if i.tex != nil {
		i.tex.Release()
		i.tex = nil
	}
}

func (d *Device) CreateImage(desc *gpu.ImageDescriptor) (img gpu.Image, err error) {
	format, err := textureFormat(desc.Format)
	if err != nil {
		return nil, err
	}

	i := &image{width: desc.Width, height: desc.Height}
	defer func() {
		if err != nil {
			i.Release()
			img = nil
		}
	}()

	i.tex, err = d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        format,
		Usage:         wgpu.TextureUsage_TextureBinding | wgpu.TextureUsage_CopyDst,
	})
	if err != nil {
		return i, fmt.Errorf("wgpudev: create texture: %w", err)
	}
	i.view, err = i.tex.CreateView(nil)
	if err != nil {
		return i, fmt.Errorf("wgpudev: create texture view: %w", err)
	}
	return i, nil
}

// CopyBufferToImage writes the host copy of src, which must be host
// visible, into dst.
func (d *Device) CopyBufferToImage(src gpu.Allocation, dst gpu.Image, width, height uint32) error {
	s, ok := src.(*buffer)
	if !ok {
		return errForeign
	}
	t, ok := dst.(*image)
	if !ok {
		return errForeign
	}
	if s.host == nil {
		return errors.New("wgpudev: image upload source is not host visible")
	}
	if s.writeErr != nil {
		return fmt.Errorf("wgpudev: fill source buffer: %w", s.writeErr)
	}
	if need := uint64(width) * uint64(height) * 4; need > s.size {
		return fmt.Errorf("wgpudev: image upload needs %d bytes, source has %d", need, s.size)
	}

	err := d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspect_All,
		},
		s.host,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * width,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpudev: write texture: %w", err)
	}
	d.device.Poll(true, nil)
	return nil
}

func (d *Device) CreateShaderModule(code []byte) (gpu.ShaderModule, error) {
	m, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		SPIRVDescriptor: &wgpu.ShaderModuleSPIRVDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpudev: create shader module: %w", err)
	}
	return &shaderModule{m: m}, nil
}

type shaderModule struct {
	m *wgpu.ShaderModule
}

func (s *shaderModule) Release() {
	if s.m != nil {
		s.m.Release()
		s.m = nil
	}
}
