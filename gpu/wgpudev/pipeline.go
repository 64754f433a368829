package wgpudev

import (
	"errors"
	"fmt"

	"github.com/dskgfx/dsk/gpu"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// PipelineLayout is the gpu.PipelineLayout handed to pipeline configs.
type PipelineLayout struct {
	layout *wgpu.PipelineLayout
}

// NewPipelineLayout creates a layout with no bind groups and one push
// constant range of pushConstantSize bytes visible to both stages.
func (d *Device) NewPipelineLayout(pushConstantSize uint32) (*PipelineLayout, error) {
	l, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "Render Pipeline Layout",
		PushConstantRanges: []wgpu.PushConstantRange{{
			Stages: wgpu.ShaderStage_Vertex | wgpu.ShaderStage_Fragment,
			Start:  0,
			End:    pushConstantSize,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpudev: create pipeline layout: %w", err)
	}
	return &PipelineLayout{layout: l}, nil
}

func (l *PipelineLayout) Release() {
	if l.layout != nil {
		l.layout.Release()
		l.layout = nil
	}
}

// RenderPass describes the attachments a pipeline renders into. WebGPU
// has no render pass object, so this is only the formats.
type RenderPass struct {
	ColorFormat wgpu.TextureFormat
	// DepthFormat is TextureFormat_Undefined when there is no depth
	// attachment.
	DepthFormat wgpu.TextureFormat
}

type pipelineHandle struct {
	p *wgpu.RenderPipeline
}

func (h *pipelineHandle) Release() {
	if h.p != nil {
		h.p.Release()
		h.p = nil
	}
}

func (d *Device) CreateGraphicsPipeline(desc *gpu.GraphicsPipelineDescriptor) (gpu.PipelineHandle, error) {
	rpd, err := renderPipelineDescriptor(desc)
	if err != nil {
		return nil, err
	}
	p, err := d.device.CreateRenderPipeline(rpd)
	if err != nil {
		return nil, fmt.Errorf("wgpudev: create render pipeline: %w", err)
	}
	return &pipelineHandle{p: p}, nil
}

func renderPipelineDescriptor(desc *gpu.GraphicsPipelineDescriptor) (*wgpu.RenderPipelineDescriptor, error) {
	layout, ok := desc.Layout.(*PipelineLayout)
	if !ok {
		return nil, fmt.Errorf("wgpudev: pipeline layout %T: %w", desc.Layout, errForeign)
	}
	pass, ok := desc.RenderPass.(*RenderPass)
	if !ok {
		return nil, fmt.Errorf("wgpudev: render pass %T: %w", desc.RenderPass, errForeign)
	}

	var vert, frag *gpu.ShaderStageInfo
	for i := range desc.Stages {
		switch desc.Stages[i].Stage {
		case gpu.ShaderStageVertex:
			vert = &desc.Stages[i]
		case gpu.ShaderStageFragment:
			frag = &desc.Stages[i]
		}
	}
	if vert == nil || frag == nil {
		return nil, errors.New("wgpudev: pipeline needs a vertex and a fragment stage")
	}
	vertModule, ok := vert.Module.(*shaderModule)
	if !ok {
		return nil, errForeign
	}
	fragModule, ok := frag.Module.(*shaderModule)
	if !ok {
		return nil, errForeign
	}

	buffers, err := vertexBufferLayouts(desc.VertexBindings, desc.VertexAttributes)
	if err != nil {
		return nil, err
	}

	if desc.Rasterization.PolygonMode != gpu.PolygonModeFill {
		gpu.Logger().Warn("wgpudev: only fill polygon mode is supported", "mode", desc.Rasterization.PolygonMode)
	}

	target := wgpu.ColorTargetState{
		Format:    pass.ColorFormat,
		WriteMask: colorWriteMask(gpu.ColorComponentAll),
	}
	if len(desc.ColorBlend.Attachments) > 0 {
		att := desc.ColorBlend.Attachments[0]
		target.WriteMask = colorWriteMask(att.ColorWriteMask)
		if att.BlendEnable {
			target.Blend = &wgpu.BlendState{
				Color: wgpu.BlendComponent{
					SrcFactor: blendFactor(att.SrcColorBlendFactor),
					DstFactor: blendFactor(att.DstColorBlendFactor),
					Operation: blendOp(att.ColorBlendOp),
				},
				Alpha: wgpu.BlendComponent{
					SrcFactor: blendFactor(att.SrcAlphaBlendFactor),
					DstFactor: blendFactor(att.DstAlphaBlendFactor),
					Operation: blendOp(att.AlphaBlendOp),
				},
			}
		}
	}

	rpd := &wgpu.RenderPipelineDescriptor{
		Label:  "Render Pipeline",
		Layout: layout.layout,
		Vertex: wgpu.VertexState{
			Module:     vertModule.m,
			EntryPoint: vert.EntryPoint,
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragModule.m,
			EntryPoint: frag.EntryPoint,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  primitiveTopology(desc.InputAssembly.Topology),
			FrontFace: frontFace(desc.Rasterization.FrontFace),
			CullMode:  cullMode(desc.Rasterization.CullMode),
		},
		Multisample: wgpu.MultisampleState{
			Count:                  max(desc.Multisample.RasterizationSamples, 1),
			Mask:                   desc.Multisample.SampleMask,
			AlphaToCoverageEnabled: desc.Multisample.AlphaToCoverageEnable,
		},
	}

	if pass.DepthFormat != wgpu.TextureFormat_Undefined {
		ds := desc.DepthStencil
		compare := wgpu.CompareFunction_Always
		if ds.DepthTestEnable {
			compare = compareFunction(ds.DepthCompareOp)
		}
		rpd.DepthStencil = &wgpu.DepthStencilState{
			Format:            pass.DepthFormat,
			DepthWriteEnabled: ds.DepthTestEnable && ds.DepthWriteEnable,
			DepthCompare:      compare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunction_Always},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunction_Always},
		}
	}
	return rpd, nil
}

func vertexBufferLayouts(bindings []gpu.VertexInputBinding, attrs []gpu.VertexInputAttribute) ([]wgpu.VertexBufferLayout, error) {
	layouts := make([]wgpu.VertexBufferLayout, len(bindings))
	slot := make(map[uint32]int, len(bindings))
	for i, b := range bindings {
		if int(b.Binding) != i {
			return nil, fmt.Errorf("wgpudev: vertex bindings must be dense, got binding %d at %d", b.Binding, i)
		}
		slot[b.Binding] = i
		layouts[i] = wgpu.VertexBufferLayout{
			ArrayStride: uint64(b.Stride),
			StepMode:    wgpu.VertexStepMode_Vertex,
		}
		if b.InputRate == gpu.VertexInputRateInstance {
			layouts[i].StepMode = wgpu.VertexStepMode_Instance
		}
	}
	for _, a := range attrs {
		i, ok := slot[a.Binding]
		if !ok {
			return nil, fmt.Errorf("wgpudev: attribute %d uses undeclared binding %d", a.Location, a.Binding)
		}
		format, err := vertexFormat(a.Format)
		if err != nil {
			return nil, err
		}
		layouts[i].Attributes = append(layouts[i].Attributes, wgpu.VertexAttribute{
			Offset:         uint64(a.Offset),
			ShaderLocation: a.Location,
			Format:         format,
		})
	}
	return layouts, nil
}

func bufferUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u.Has(gpu.BufferUsageTransferSrc) {
		out |= wgpu.BufferUsage_CopySrc
	}
	if u.Has(gpu.BufferUsageTransferDst) {
		out |= wgpu.BufferUsage_CopyDst
	}
	if u.Has(gpu.BufferUsageUniform) {
		out |= wgpu.BufferUsage_Uniform
	}
	if u.Has(gpu.BufferUsageIndex) {
		out |= wgpu.BufferUsage_Index
	}
	if u.Has(gpu.BufferUsageVertex) {
		out |= wgpu.BufferUsage_Vertex
	}
	return out
}

func vertexFormat(f gpu.Format) (wgpu.VertexFormat, error) {
	switch f {
	case gpu.FormatR32G32Sfloat:
		return wgpu.VertexFormat_Float32x2, nil
	case gpu.FormatR32G32B32Sfloat:
		return wgpu.VertexFormat_Float32x3, nil
	case gpu.FormatR32G32B32A32Sfloat:
		return wgpu.VertexFormat_Float32x4, nil
	}
	return wgpu.VertexFormat_Undefined, fmt.Errorf("wgpudev: unsupported vertex format %d", f)
}

func textureFormat(f gpu.Format) (wgpu.TextureFormat, error) {
	switch f {
	case gpu.FormatR8G8B8A8Srgb:
		return wgpu.TextureFormat_RGBA8UnormSrgb, nil
	case gpu.FormatR32G32B32A32Sfloat:
		return wgpu.TextureFormat_RGBA32Float, nil
	}
	return wgpu.TextureFormat_Undefined, fmt.Errorf("wgpudev: unsupported texture format %d", f)
}

func primitiveTopology(t gpu.PrimitiveTopology) wgpu.PrimitiveTopology {
	switch t {
	case gpu.TopologyPointList:
		return wgpu.PrimitiveTopology_PointList
	case gpu.TopologyLineList:
		return wgpu.PrimitiveTopology_LineList
	case gpu.TopologyLineStrip:
		return wgpu.PrimitiveTopology_LineStrip
	case gpu.TopologyTriangleStrip:
		return wgpu.PrimitiveTopology_TriangleStrip
	}
	return wgpu.PrimitiveTopology_TriangleList
}

func frontFace(f gpu.FrontFace) wgpu.FrontFace {
	if f == gpu.FrontFaceClockwise {
		return wgpu.FrontFace_CW
	}
	return wgpu.FrontFace_CCW
}

func cullMode(c gpu.CullMode) wgpu.CullMode {
	switch c {
	case gpu.CullModeFront:
		return wgpu.CullMode_Front
	case gpu.CullModeBack:
		return wgpu.CullMode_Back
	}
	return wgpu.CullMode_None
}

func compareFunction(op gpu.CompareOp) wgpu.CompareFunction {
	switch op {
	case gpu.CompareOpNever:
		return wgpu.CompareFunction_Never
	case gpu.CompareOpLess:
		return wgpu.CompareFunction_Less
	case gpu.CompareOpEqual:
		return wgpu.CompareFunction_Equal
	case gpu.CompareOpLessOrEqual:
		return wgpu.CompareFunction_LessEqual
	case gpu.CompareOpGreater:
		return wgpu.CompareFunction_Greater
	case gpu.CompareOpNotEqual:
		return wgpu.CompareFunction_NotEqual
	case gpu.CompareOpGreaterOrEqual:
		return wgpu.CompareFunction_GreaterEqual
	}
	return wgpu.CompareFunction_Always
}

func blendFactor(f gpu.BlendFactor) wgpu.BlendFactor {
	switch f {
	case gpu.BlendFactorZero:
		return wgpu.BlendFactor_Zero
	case gpu.BlendFactorSrcAlpha:
		return wgpu.BlendFactor_SrcAlpha
	case gpu.BlendFactorOneMinusSrcAlpha:
		return wgpu.BlendFactor_OneMinusSrcAlpha
	}
	return wgpu.BlendFactor_One
}

func blendOp(op gpu.BlendOp) wgpu.BlendOperation {
	switch op {
	case gpu.BlendOpSubtract:
		return wgpu.BlendOperation_Subtract
	case gpu.BlendOpMin:
		return wgpu.BlendOperation_Min
	case gpu.BlendOpMax:
		return wgpu.BlendOperation_Max
	}
	return wgpu.BlendOperation_Add
}

func colorWriteMask(c gpu.ColorComponent) wgpu.ColorWriteMask {
	var m wgpu.ColorWriteMask
	if c&gpu.ColorComponentR != 0 {
		m |= wgpu.ColorWriteMask_Red
	}
	if c&gpu.ColorComponentG != 0 {
		m |= wgpu.ColorWriteMask_Green
	}
	if c&gpu.ColorComponentB != 0 {
		m |= wgpu.ColorWriteMask_Blue
	}
	if c&gpu.ColorComponentA != 0 {
		m |= wgpu.ColorWriteMask_Alpha
	}
	return m
}
