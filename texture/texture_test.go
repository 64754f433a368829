package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 9, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "checker.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoad(t *testing.T) {
	dev := gputest.NewDevice()

	tex, err := Load(dev, writePNG(t, 3, 2))
	require.NoError(t, err)
	defer tex.Release()

	assert.Equal(t, uint32(3), tex.Width())
	assert.Equal(t, uint32(2), tex.Height())

	require.Len(t, dev.Images, 1)
	img := dev.Images[0]
	assert.Equal(t, gpu.FormatR8G8B8A8Srgb, img.Desc.Format)
	// pixel (2,1)
	off := (1*3 + 2) * 4
	assert.Equal(t, []byte{2, 1, 9, 255}, img.Data[off:off+4])

	require.Len(t, dev.Buffers, 1)
	assert.True(t, dev.Buffers[0].Released)
}

func TestLoadRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not pixels"), 0o644))

	_, err := Load(gputest.NewDevice(), path)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(gputest.NewDevice(), filepath.Join(t.TempDir(), "none.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestArray(t *testing.T) {
	dev := gputest.NewDevice()
	a := NewArray(2)

	first, err := Load(dev, writePNG(t, 1, 1))
	require.NoError(t, err)
	second, err := Load(dev, writePNG(t, 1, 1))
	require.NoError(t, err)

	require.NoError(t, a.Set(1, first))
	assert.Same(t, first, a.Get(1))
	assert.Nil(t, a.Get(0))
	assert.Nil(t, a.Get(5))

	require.NoError(t, a.Set(1, second))
	assert.True(t, dev.Images[0].Released)
	assert.False(t, dev.Images[1].Released)

	assert.Error(t, a.Set(2, second))

	a.Release()
	assert.True(t, dev.Images[1].Released)
	assert.Nil(t, a.Get(1))
}
