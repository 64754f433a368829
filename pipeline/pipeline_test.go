package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLayout struct{}
type fakeRenderPass struct{}

func shaders(t *testing.T) (vert, frag string) {
	t.Helper()
	dir := t.TempDir()
	vert = filepath.Join(dir, "simple.vert.spv")
	frag = filepath.Join(dir, "simple.frag.spv")
	require.NoError(t, os.WriteFile(vert, []byte{0x03, 0x02, 0x23, 0x07, 1}, 0o644))
	require.NoError(t, os.WriteFile(frag, []byte{0x03, 0x02, 0x23, 0x07, 2}, 0o644))
	return vert, frag
}

func validConfig() *Config {
	cfg := &Config{}
	DefaultConfig(cfg)
	cfg.Layout = fakeLayout{}
	cfg.RenderPass = fakeRenderPass{}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, gpu.TopologyTriangleList, cfg.InputAssemblyInfo.Topology)
	assert.False(t, cfg.InputAssemblyInfo.PrimitiveRestartEnable)

	assert.Equal(t, uint32(1), cfg.ViewportInfo.ViewportCount)
	assert.Equal(t, uint32(1), cfg.ViewportInfo.ScissorCount)
	assert.Empty(t, cfg.ViewportInfo.Viewports)
	assert.Equal(t, []gpu.DynamicState{gpu.DynamicStateViewport, gpu.DynamicStateScissor}, cfg.DynamicStateEnables)

	assert.Equal(t, uint32(1), cfg.MultisampleInfo.RasterizationSamples)
	assert.False(t, cfg.MultisampleInfo.SampleShadingEnable)

	assert.False(t, cfg.ColorBlendAttachment.BlendEnable)
	assert.Equal(t, gpu.ColorComponentAll, cfg.ColorBlendAttachment.ColorWriteMask)
	assert.Equal(t, gpu.BlendFactorOne, cfg.ColorBlendAttachment.SrcColorBlendFactor)
	assert.Equal(t, gpu.BlendFactorZero, cfg.ColorBlendAttachment.DstColorBlendFactor)
	assert.False(t, cfg.ColorBlendInfo.LogicOpEnable)

	assert.True(t, cfg.DepthStencilInfo.DepthTestEnable)
	assert.True(t, cfg.DepthStencilInfo.DepthWriteEnable)
	assert.Equal(t, gpu.CompareOpLess, cfg.DepthStencilInfo.DepthCompareOp)
	assert.False(t, cfg.DepthStencilInfo.DepthBoundsTestEnable)
	assert.False(t, cfg.DepthStencilInfo.StencilTestEnable)

	assert.Equal(t, float32(1), cfg.RasterizationInfo.LineWidth)
	assert.Equal(t, gpu.PolygonModeFill, cfg.RasterizationInfo.PolygonMode)
}

func TestDefaultConfigKeepsHandles(t *testing.T) {
	cfg := &Config{Layout: fakeLayout{}, RenderPass: fakeRenderPass{}, Subpass: 2}
	DefaultConfig(cfg)
	assert.NotNil(t, cfg.Layout)
	assert.NotNil(t, cfg.RenderPass)
	assert.Equal(t, uint32(2), cfg.Subpass)
}

func TestEnableAlphaBlending(t *testing.T) {
	cfg := validConfig()
	EnableAlphaBlending(cfg)

	assert.True(t, cfg.ColorBlendAttachment.BlendEnable)
	assert.Equal(t, gpu.BlendFactorSrcAlpha, cfg.ColorBlendAttachment.SrcColorBlendFactor)
	assert.Equal(t, gpu.BlendFactorOneMinusSrcAlpha, cfg.ColorBlendAttachment.DstColorBlendFactor)
	// untouched by the override
	assert.True(t, cfg.DepthStencilInfo.DepthTestEnable)
}

func TestNew(t *testing.T) {
	dev := gputest.NewDevice()
	vert, frag := shaders(t)

	p, err := New(dev, vert, frag, validConfig())
	require.NoError(t, err)

	require.Len(t, dev.Shaders, 2)
	assert.Equal(t, byte(1), dev.Shaders[0].Code[4])
	assert.Equal(t, byte(2), dev.Shaders[1].Code[4])

	require.Len(t, dev.Pipelines, 1)
	desc := dev.Pipelines[0].Desc
	require.Len(t, desc.Stages, 2)
	assert.Equal(t, gpu.ShaderStageVertex, desc.Stages[0].Stage)
	assert.Equal(t, gpu.ShaderStageFragment, desc.Stages[1].Stage)
	assert.Len(t, desc.VertexBindings, 1)
	assert.Len(t, desc.VertexAttributes, 4)
	require.Len(t, desc.ColorBlend.Attachments, 1)
	assert.False(t, desc.ColorBlend.Attachments[0].BlendEnable)
	assert.Equal(t, fakeRenderPass{}, desc.RenderPass)

	var cmd gputest.CommandBuffer
	p.Bind(&cmd)
	require.Len(t, cmd.Commands, 1)
	assert.Equal(t, gputest.CmdBindPipeline, cmd.Commands[0].Kind)
	assert.Same(t, dev.Pipelines[0], cmd.Commands[0].Pipeline)

	p.Release()
	assert.True(t, dev.Pipelines[0].Released)
	assert.True(t, dev.Shaders[0].Released)
	assert.True(t, dev.Shaders[1].Released)
}

func TestNewMissingShader(t *testing.T) {
	dev := gputest.NewDevice()
	vert, _ := shaders(t)
	missing := filepath.Join(t.TempDir(), "missing.frag.spv")

	_, err := New(dev, vert, missing, validConfig())
	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, missing, fileErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, dev.Shaders)
}

func TestNewPipelineFailureReleasesModules(t *testing.T) {
	dev := gputest.NewDevice()
	dev.FailCreatePipeline = 1
	vert, frag := shaders(t)

	p, err := New(dev, vert, frag, validConfig())
	require.ErrorIs(t, err, gputest.ErrInjected)
	assert.Nil(t, p)
	assert.True(t, dev.Shaders[0].Released)
	assert.True(t, dev.Shaders[1].Released)
}

func TestNewRequiresLayoutAndRenderPass(t *testing.T) {
	dev := gputest.NewDevice()
	vert, frag := shaders(t)

	cfg := &Config{}
	DefaultConfig(cfg)
	assert.Panics(t, func() { _, _ = New(dev, vert, frag, cfg) })

	cfg.Layout = fakeLayout{}
	assert.Panics(t, func() { _, _ = New(dev, vert, frag, cfg) })
}
