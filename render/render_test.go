package render

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/gpu/gputest"
	"github.com/dskgfx/dsk/internal/glm"
	"github.com/dskgfx/dsk/model"
	"github.com/dskgfx/dsk/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLayout struct{}
type fakeRenderPass struct{}

func newSystem(t *testing.T, dev gpu.Device) *System {
	t.Helper()
	dir := t.TempDir()
	vert := filepath.Join(dir, "simple.vert.spv")
	frag := filepath.Join(dir, "simple.frag.spv")
	require.NoError(t, os.WriteFile(vert, []byte{0x03, 0x02, 0x23, 0x07}, 0o644))
	require.NoError(t, os.WriteFile(frag, []byte{0x03, 0x02, 0x23, 0x07}, 0o644))

	s, err := NewSystem(dev, vert, frag, fakeLayout{}, fakeRenderPass{})
	require.NoError(t, err)
	return s
}

func decodePush(t *testing.T, data []byte) PushConstantData {
	t.Helper()
	var push PushConstantData
	require.NoError(t, binary.Read(bytes.NewReader(data), binary.LittleEndian, &push))
	return push
}

func TestPushConstantSize(t *testing.T) {
	assert.Equal(t, uintptr(PushConstantSize), unsafe.Sizeof(PushConstantData{}))
}

func TestRenderObjects(t *testing.T) {
	dev := gputest.NewDevice()
	sys := newSystem(t, dev)
	defer sys.Release()

	mesh, err := model.NewMesh(dev, &model.Data{Vertices: []model.Vertex{
		{Position: glm.Vec3[float32]{0, 0, 0}},
		{Position: glm.Vec3[float32]{1, 0, 0}},
		{Position: glm.Vec3[float32]{0, 1, 0}},
	}})
	require.NoError(t, err)
	defer mesh.Release()

	var list scene.List
	defer list.Release()
	_, err = list.NewBuilder().SetMesh(mesh).SetTranslation(glm.Vec3[float32]{5, 0, 0}).Finish()
	require.NoError(t, err)
	_, err = list.NewBuilder().SetTag("empty").Finish()
	require.NoError(t, err)
	_, err = list.NewBuilder().SetMesh(mesh).SetScale(glm.Vec3[float32]{2, 1, 1}).Finish()
	require.NoError(t, err)

	projView := glm.Mat4FromTranslation(glm.Vec3[float32]{0, 0, -10})
	var cmd gputest.CommandBuffer
	sys.RenderObjects(&cmd, &list, projView)

	assert.Equal(t, []gputest.CommandKind{
		gputest.CmdBindPipeline,
		gputest.CmdPushConstants, gputest.CmdBindVertexBuffers, gputest.CmdDraw,
		gputest.CmdPushConstants, gputest.CmdBindVertexBuffers, gputest.CmdDraw,
	}, cmd.Kinds())
	assert.Same(t, dev.Pipelines[0], cmd.Commands[0].Pipeline)

	first := cmd.Commands[1]
	assert.Equal(t, gpu.ShaderStageVertex|gpu.ShaderStageFragment, first.Stages)
	assert.Zero(t, first.First)
	require.Len(t, first.Data, PushConstantSize)
	push := decodePush(t, first.Data)
	assert.Equal(t, glm.Vec4[float32]{5, 0, -10, 1}, push.Transform.Col(3))
	assert.Equal(t, glm.Mat4Identity[float32](), push.Normal)

	push = decodePush(t, cmd.Commands[4].Data)
	assert.Equal(t, glm.Vec4[float32]{0.5, 0, 0, 0}, push.Normal.Col(0))
	assert.Equal(t, glm.Vec4[float32]{0, 0, 0, 1}, push.Normal.Col(3))
	assert.Equal(t, uint32(3), cmd.Commands[6].Count)
}

func TestRenderObjectsEmptyList(t *testing.T) {
	dev := gputest.NewDevice()
	sys := newSystem(t, dev)
	defer sys.Release()

	var cmd gputest.CommandBuffer
	sys.RenderObjects(&cmd, &scene.List{}, glm.Mat4Identity[float32]())
	assert.Equal(t, []gputest.CommandKind{gputest.CmdBindPipeline}, cmd.Kinds())
}

func TestSystemRelease(t *testing.T) {
	dev := gputest.NewDevice()
	sys := newSystem(t, dev)
	sys.Release()
	sys.Release()

	require.Len(t, dev.Pipelines, 1)
	assert.True(t, dev.Pipelines[0].Released)
	for _, s := range dev.Shaders {
		assert.True(t, s.Released)
	}
}
