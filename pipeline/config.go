package pipeline

import "github.com/dskgfx/dsk/gpu"

// noCopy makes go vet's copylocks check flag copies of a Config.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Config collects the fixed-function state of a graphics pipeline. It
// references a layout and render pass owned elsewhere and is bound to that
// render pass, so it must not be copied. Populate it with DefaultConfig
// first, then override individual fields.
//
// Layout and RenderPass must be set before the Config is passed to New.
type Config struct {
	_ noCopy

	ViewportInfo         gpu.ViewportState
	InputAssemblyInfo    gpu.InputAssemblyState
	RasterizationInfo    gpu.RasterizationState
	MultisampleInfo      gpu.MultisampleState
	ColorBlendAttachment gpu.ColorBlendAttachment
	ColorBlendInfo       gpu.ColorBlendState
	DepthStencilInfo     gpu.DepthStencilState
	DynamicStateEnables  []gpu.DynamicState

	Layout     gpu.PipelineLayout
	RenderPass gpu.RenderPass
	Subpass    uint32
}

// DefaultConfig fills cfg with a complete, renderable baseline: triangle
// lists, viewport and scissor supplied at draw time, single sampling, no
// blending, and a less-than depth test with depth writes. Layout,
// RenderPass and Subpass are left untouched.
func DefaultConfig(cfg *Config) {
	cfg.InputAssemblyInfo = gpu.InputAssemblyState{
		Topology:               gpu.TopologyTriangleList,
		PrimitiveRestartEnable: false,
	}

	// Rectangles come from the dynamic state at draw time.
	cfg.ViewportInfo = gpu.ViewportState{
		ViewportCount: 1,
		ScissorCount:  1,
	}

	cfg.RasterizationInfo = gpu.RasterizationState{
		DepthClampEnable:        false,
		RasterizerDiscardEnable: false,
		PolygonMode:             gpu.PolygonModeFill,
		LineWidth:               1,
		CullMode:                gpu.CullModeNone,
		FrontFace:               gpu.FrontFaceClockwise,
		DepthBiasEnable:         false,
	}

	cfg.MultisampleInfo = gpu.MultisampleState{
		RasterizationSamples:  1,
		SampleShadingEnable:   false,
		MinSampleShading:      1,
		SampleMask:            0xFFFFFFFF,
		AlphaToCoverageEnable: false,
		AlphaToOneEnable:      false,
	}

	// Factors are unused while blending is off.
	cfg.ColorBlendAttachment = gpu.ColorBlendAttachment{
		ColorWriteMask:      gpu.ColorComponentAll,
		BlendEnable:         false,
		SrcColorBlendFactor: gpu.BlendFactorOne,
		DstColorBlendFactor: gpu.BlendFactorZero,
		ColorBlendOp:        gpu.BlendOpAdd,
		SrcAlphaBlendFactor: gpu.BlendFactorOne,
		DstAlphaBlendFactor: gpu.BlendFactorZero,
		AlphaBlendOp:        gpu.BlendOpAdd,
	}

	cfg.ColorBlendInfo = gpu.ColorBlendState{
		LogicOpEnable:  false,
		LogicOp:        gpu.LogicOpCopy,
		BlendConstants: [4]float32{0, 0, 0, 0},
	}

	cfg.DepthStencilInfo = gpu.DepthStencilState{
		DepthTestEnable:       true,
		DepthWriteEnable:      true,
		DepthCompareOp:        gpu.CompareOpLess,
		DepthBoundsTestEnable: false,
		MinDepthBounds:        0,
		MaxDepthBounds:        1,
		StencilTestEnable:     false,
	}

	cfg.DynamicStateEnables = []gpu.DynamicState{gpu.DynamicStateViewport, gpu.DynamicStateScissor}
}

// EnableAlphaBlending switches the color attachment to straight alpha
// blending. Call it after DefaultConfig.
func EnableAlphaBlending(cfg *Config) {
	cfg.ColorBlendAttachment.BlendEnable = true
	cfg.ColorBlendAttachment.ColorWriteMask = gpu.ColorComponentAll
	cfg.ColorBlendAttachment.SrcColorBlendFactor = gpu.BlendFactorSrcAlpha
	cfg.ColorBlendAttachment.DstColorBlendFactor = gpu.BlendFactorOneMinusSrcAlpha
	cfg.ColorBlendAttachment.ColorBlendOp = gpu.BlendOpAdd
	cfg.ColorBlendAttachment.SrcAlphaBlendFactor = gpu.BlendFactorOne
	cfg.ColorBlendAttachment.DstAlphaBlendFactor = gpu.BlendFactorZero
	cfg.ColorBlendAttachment.AlphaBlendOp = gpu.BlendOpAdd
}
