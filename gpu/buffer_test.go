package gpu_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferAllocatesElementSizeTimesCount(t *testing.T) {
	dev := gputest.NewDevice()

	b, err := gpu.NewBuffer(dev, 12, 5, gpu.BufferUsageVertex, gpu.MemoryDeviceLocal)
	require.NoError(t, err)
	defer b.Release()

	require.Len(t, dev.Buffers, 1)
	assert.Equal(t, uint64(60), dev.Buffers[0].Desc.Size)
	assert.Equal(t, uint64(60), b.BufferSize())
	assert.Equal(t, gpu.BufferUsageVertex, dev.Buffers[0].Desc.Usage)
	assert.Equal(t, gpu.MemoryDeviceLocal, b.MemoryProperties())
}

func TestMapAndWrite(t *testing.T) {
	dev := gputest.NewDevice()

	b, err := gpu.NewBuffer(dev, 4, 2, gpu.BufferUsageTransferSrc, gpu.MemoryHostVisible|gpu.MemoryHostCoherent)
	require.NoError(t, err)

	require.NoError(t, b.Map())
	b.WriteToBuffer([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, dev.Buffers[0].Data)

	b.Release()
	b.Release()
	assert.True(t, dev.Buffers[0].Released)
	assert.False(t, dev.Buffers[0].Mapped)
}

func TestMapDeviceLocalPanics(t *testing.T) {
	dev := gputest.NewDevice()

	b, err := gpu.NewBuffer(dev, 4, 1, gpu.BufferUsageVertex, gpu.MemoryDeviceLocal)
	require.NoError(t, err)
	defer b.Release()

	assert.Panics(t, func() { _ = b.Map() })
}

func TestWriteUnmappedPanics(t *testing.T) {
	dev := gputest.NewDevice()

	b, err := gpu.NewBuffer(dev, 4, 1, gpu.BufferUsageTransferSrc, gpu.MemoryHostVisible)
	require.NoError(t, err)
	defer b.Release()

	assert.Panics(t, func() { b.WriteToBuffer(make([]byte, 4)) })
}

func TestNewBufferAllocationFailure(t *testing.T) {
	dev := gputest.NewDevice()
	dev.FailCreateBuffer = 1

	_, err := gpu.NewBuffer(dev, 4, 1, gpu.BufferUsageVertex, gpu.MemoryDeviceLocal)
	assert.ErrorIs(t, err, gputest.ErrInjected)
}

func TestStageUpload(t *testing.T) {
	dev := gputest.NewDevice()
	data := gpu.ToBytes([]uint32{7, 8, 9})

	b, err := gpu.StageUpload(dev, 4, 3, data, gpu.BufferUsageIndex)
	require.NoError(t, err)
	defer b.Release()

	require.Len(t, dev.Buffers, 2)
	staging, final := dev.Buffers[0], dev.Buffers[1]

	assert.Equal(t, gpu.BufferUsageTransferSrc, staging.Desc.Usage)
	assert.Equal(t, gpu.MemoryHostVisible|gpu.MemoryHostCoherent, staging.Desc.MemoryProperties)
	assert.True(t, staging.Released)

	assert.Equal(t, gpu.BufferUsageIndex|gpu.BufferUsageTransferDst, final.Desc.Usage)
	assert.Equal(t, gpu.MemoryDeviceLocal, final.Desc.MemoryProperties)
	assert.False(t, final.Released)
	assert.Equal(t, data, final.Data)

	require.Len(t, dev.Copies, 1)
	assert.Equal(t, uint64(12), dev.Copies[0].Size)
}

func TestStageUploadCopyFailureReleasesEverything(t *testing.T) {
	dev := gputest.NewDevice()
	dev.FailCopyBuffer = 1

	_, err := gpu.StageUpload(dev, 4, 1, []byte{1, 2, 3, 4}, gpu.BufferUsageVertex)
	require.ErrorIs(t, err, gputest.ErrInjected)
	assert.Empty(t, dev.Live())
}

func TestToBytes(t *testing.T) {
	assert.Nil(t, gpu.ToBytes([]float32{}))
	assert.Len(t, gpu.ToBytes([]float32{1, 2, 3}), 12)
}

func TestSetLogger(t *testing.T) {
	orig := gpu.Logger()
	t.Cleanup(func() { gpu.SetLogger(orig) })

	assert.False(t, gpu.Logger().Enabled(context.Background(), slog.LevelError))

	var buf bytes.Buffer
	gpu.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	dev := gputest.NewDevice()
	b, err := gpu.NewBuffer(dev, 4, 1, gpu.BufferUsageVertex, gpu.MemoryDeviceLocal)
	require.NoError(t, err)
	b.Release()
	assert.Contains(t, buf.String(), "buffer allocated")

	gpu.SetLogger(nil)
	assert.False(t, gpu.Logger().Enabled(context.Background(), slog.LevelError))
}
