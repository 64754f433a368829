package wgpudev

import (
	"errors"
	"testing"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/gpu/gputest"
	"github.com/stretchr/testify/assert"
)

func TestCopyReportsFailedSourceWrite(t *testing.T) {
	errQueue := errors.New("queue write rejected")
	d := &Device{}
	src := &buffer{dev: d, size: 16, host: make([]byte, 16), writeErr: errQueue}

	err := d.CopyBuffer(src, &buffer{dev: d, size: 16}, 16)
	assert.ErrorIs(t, err, errQueue)

	err = d.CopyBufferToImage(src, &image{width: 2, height: 2}, 2, 2)
	assert.ErrorIs(t, err, errQueue)
}

func TestCopyRejectsForeignResources(t *testing.T) {
	d := &Device{}
	fake := gputest.NewDevice()
	alloc, err := fake.CreateBuffer(&gpu.BufferDescriptor{Size: 4})
	assert.NoError(t, err)

	assert.ErrorIs(t, d.CopyBuffer(alloc, &buffer{}, 4), errForeign)
	assert.ErrorIs(t, d.CopyBuffer(&buffer{}, alloc, 4), errForeign)
}
