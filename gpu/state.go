package gpu

// Fixed-function pipeline state. The field set follows the Vulkan create
// info structures; backends translate what they support and ignore what
// their API fixes implicitly.

type Format uint32

const (
	FormatUndefined Format = iota
	FormatR32G32Sfloat
	FormatR32G32B32Sfloat
	FormatR32G32B32A32Sfloat
	FormatR8G8B8A8Srgb
)

// Size returns the size in bytes of one element of the format.
func (f Format) Size() uint32 {
	switch f {
	case FormatR32G32Sfloat:
		return 8
	case FormatR32G32B32Sfloat:
		return 12
	case FormatR32G32B32A32Sfloat:
		return 16
	case FormatR8G8B8A8Srgb:
		return 4
	}
	return 0
}

type PrimitiveTopology uint32

const (
	TopologyPointList PrimitiveTopology = iota
	TopologyLineList
	TopologyLineStrip
	TopologyTriangleList
	TopologyTriangleStrip
)

type PolygonMode uint32

const (
	PolygonModeFill PolygonMode = iota
	PolygonModeLine
	PolygonModePoint
)

type CullMode uint32

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

type FrontFace uint32

const (
	FrontFaceCounterClockwise FrontFace = iota
	FrontFaceClockwise
)

type CompareOp uint32

const (
	CompareOpNever CompareOp = iota
	CompareOpLess
	CompareOpEqual
	CompareOpLessOrEqual
	CompareOpGreater
	CompareOpNotEqual
	CompareOpGreaterOrEqual
	CompareOpAlways
)

type BlendFactor uint32

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
)

type BlendOp uint32

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpMin
	BlendOpMax
)

type LogicOp uint32

const (
	LogicOpClear LogicOp = iota
	LogicOpCopy
)

type ColorComponent uint32

const (
	ColorComponentR ColorComponent = 1 << iota
	ColorComponentG
	ColorComponentB
	ColorComponentA

	ColorComponentAll = ColorComponentR | ColorComponentG | ColorComponentB | ColorComponentA
)

type StencilOp uint32

const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
)

type DynamicState uint32

const (
	DynamicStateViewport DynamicState = iota
	DynamicStateScissor
)

type VertexInputRate uint32

const (
	VertexInputRateVertex VertexInputRate = iota
	VertexInputRateInstance
)

type Viewport struct {
	X, Y, Width, Height, MinDepth, MaxDepth float32
}

type Rect2D struct {
	X, Y          int32
	Width, Height uint32
}

type ViewportState struct {
	ViewportCount uint32
	Viewports     []Viewport
	ScissorCount  uint32
	Scissors      []Rect2D
}

type InputAssemblyState struct {
	Topology               PrimitiveTopology
	PrimitiveRestartEnable bool
}

type RasterizationState struct {
	DepthClampEnable        bool
	RasterizerDiscardEnable bool
	PolygonMode             PolygonMode
	LineWidth               float32
	CullMode                CullMode
	FrontFace               FrontFace
	DepthBiasEnable         bool
	DepthBiasConstantFactor float32
	DepthBiasClamp          float32
	DepthBiasSlopeFactor    float32
}

type MultisampleState struct {
	RasterizationSamples  uint32
	SampleShadingEnable   bool
	MinSampleShading      float32
	SampleMask            uint32
	AlphaToCoverageEnable bool
	AlphaToOneEnable      bool
}

type ColorBlendAttachment struct {
	BlendEnable         bool
	SrcColorBlendFactor BlendFactor
	DstColorBlendFactor BlendFactor
	ColorBlendOp        BlendOp
	SrcAlphaBlendFactor BlendFactor
	DstAlphaBlendFactor BlendFactor
	AlphaBlendOp        BlendOp
	ColorWriteMask      ColorComponent
}

type ColorBlendState struct {
	LogicOpEnable  bool
	LogicOp        LogicOp
	Attachments    []ColorBlendAttachment
	BlendConstants [4]float32
}

type StencilOpState struct {
	FailOp      StencilOp
	PassOp      StencilOp
	DepthFailOp StencilOp
	CompareOp   CompareOp
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

type DepthStencilState struct {
	DepthTestEnable       bool
	DepthWriteEnable      bool
	DepthCompareOp        CompareOp
	DepthBoundsTestEnable bool
	MinDepthBounds        float32
	MaxDepthBounds        float32
	StencilTestEnable     bool
	Front                 StencilOpState
	Back                  StencilOpState
}

type VertexInputBinding struct {
	Binding   uint32
	Stride    uint32
	InputRate VertexInputRate
}

type VertexInputAttribute struct {
	Location uint32
	Binding  uint32
	Format   Format
	Offset   uint32
}

type ShaderStageInfo struct {
	Stage      ShaderStage
	Module     ShaderModule
	EntryPoint string
}

// GraphicsPipelineDescriptor is everything a device needs to compile a
// graphics pipeline.
type GraphicsPipelineDescriptor struct {
	Stages            []ShaderStageInfo
	VertexBindings    []VertexInputBinding
	VertexAttributes  []VertexInputAttribute
	InputAssembly     InputAssemblyState
	Viewport          ViewportState
	Rasterization     RasterizationState
	Multisample       MultisampleState
	ColorBlend        ColorBlendState
	DepthStencil      DepthStencilState
	DynamicStates     []DynamicState
	Layout            PipelineLayout
	RenderPass        RenderPass
	Subpass           uint32
	BasePipelineIndex int32
}
