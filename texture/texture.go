// Package texture decodes image files and uploads them as sampled device
// images.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/dskgfx/dsk/gpu"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("texture: not an image file")

// Texture owns one RGBA8 sRGB device image.
type Texture struct {
	image gpu.Image
}

// Load decodes the png, jpeg, gif, bmp, tiff or webp file at path and
// uploads it.
func Load(dev gpu.Device, path string) (*Texture, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	if !filetype.IsImage(buf) {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, path)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	t, err := FromImage(dev, img, path)
	if err != nil {
		return nil, err
	}
	gpu.Logger().Info("texture loaded", "path", path, "width", t.Width(), "height", t.Height())
	return t, nil
}

// FromImage uploads img through a host-visible staging buffer.
func FromImage(dev gpu.Device, img image.Image, label string) (*Texture, error) {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	width, height := uint32(b.Dx()), uint32(b.Dy())
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("texture: %s is empty", label)
	}

	staging, err := gpu.NewBuffer(dev, 4, uint64(width)*uint64(height),
		gpu.BufferUsageTransferSrc,
		gpu.MemoryHostVisible|gpu.MemoryHostCoherent,
	)
	if err != nil {
		return nil, err
	}
	defer staging.Release()

	if err := staging.Map(); err != nil {
		return nil, err
	}
	staging.WriteToBuffer(rgba.Pix)
	staging.Unmap()

	dst, err := dev.CreateImage(&gpu.ImageDescriptor{
		Label:  label,
		Width:  width,
		Height: height,
		Format: gpu.FormatR8G8B8A8Srgb,
	})
	if err != nil {
		return nil, fmt.Errorf("texture: create image: %w", err)
	}
	if err := dev.CopyBufferToImage(staging.Allocation(), dst, width, height); err != nil {
		dst.Release()
		return nil, fmt.Errorf("texture: upload %s: %w", label, err)
	}
	return &Texture{image: dst}, nil
}

func (t *Texture) Image() gpu.Image { return t.image }
func (t *Texture) Width() uint32    { return t.image.Width() }
func (t *Texture) Height() uint32   { return t.image.Height() }

func (t *Texture) Release() {
	if t == nil || t.image == nil {
		return
	}
	t.image.Release()
	t.image = nil
}

// Array is a fixed number of texture slots, addressed by scene object ID.
// It owns the textures placed in it.
type Array struct {
	slots []*Texture
}

func NewArray(n int) *Array {
	return &Array{slots: make([]*Texture, n)}
}

// Set stores t in slot i, releasing the previous occupant.
func (a *Array) Set(i int, t *Texture) error {
	if i < 0 || i >= len(a.slots) {
		return fmt.Errorf("texture: slot %d out of range [0, %d)", i, len(a.slots))
	}
	if old := a.slots[i]; old != nil && old != t {
		old.Release()
	}
	a.slots[i] = t
	return nil
}

// Get returns the texture in slot i, or nil.
func (a *Array) Get(i int) *Texture {
	if i < 0 || i >= len(a.slots) {
		return nil
	}
	return a.slots[i]
}

func (a *Array) Len() int { return len(a.slots) }

func (a *Array) Release() {
	for i, t := range a.slots {
		t.Release()
		a.slots[i] = nil
	}
}
