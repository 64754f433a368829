// Package pipeline builds graphics pipelines from pre-compiled shader
// binaries and a Config.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/model"
)

// FileError reports a shader binary that could not be read in full.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("pipeline: read shader %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Pipeline owns the vertex and fragment shader modules and the compiled
// pipeline built from them.
type Pipeline struct {
	vertShaderModule gpu.ShaderModule
	fragShaderModule gpu.ShaderModule
	graphicsPipeline gpu.PipelineHandle
}

// New reads the SPIR-V binaries at vertPath and fragPath and compiles a
// two-stage pipeline taking model.Vertex input. cfg.Layout and
// cfg.RenderPass must be set; New panics otherwise.
func New(dev gpu.Device, vertPath, fragPath string, cfg *Config) (p *Pipeline, err error) {
	if cfg.Layout == nil {
		panic("pipeline: cannot create graphics pipeline: no Layout provided in config")
	}
	if cfg.RenderPass == nil {
		panic("pipeline: cannot create graphics pipeline: no RenderPass provided in config")
	}

	vertCode, err := ReadFile(vertPath)
	if err != nil {
		return nil, err
	}
	fragCode, err := ReadFile(fragPath)
	if err != nil {
		return nil, err
	}

	p = &Pipeline{}
	defer func() {
		if err != nil {
			p.Release()
			p = nil
		}
	}()

	p.vertShaderModule, err = dev.CreateShaderModule(vertCode)
	if err != nil {
		return p, fmt.Errorf("pipeline: shader module %s: %w", vertPath, err)
	}
	p.fragShaderModule, err = dev.CreateShaderModule(fragCode)
	if err != nil {
		return p, fmt.Errorf("pipeline: shader module %s: %w", fragPath, err)
	}

	colorBlend := cfg.ColorBlendInfo
	colorBlend.Attachments = []gpu.ColorBlendAttachment{cfg.ColorBlendAttachment}

	p.graphicsPipeline, err = dev.CreateGraphicsPipeline(&gpu.GraphicsPipelineDescriptor{
		Stages: []gpu.ShaderStageInfo{
			{Stage: gpu.ShaderStageVertex, Module: p.vertShaderModule, EntryPoint: "main"},
			{Stage: gpu.ShaderStageFragment, Module: p.fragShaderModule, EntryPoint: "main"},
		},
		VertexBindings:    model.Vertex{}.BindingDescriptions(),
		VertexAttributes:  model.Vertex{}.AttributeDescriptions(),
		InputAssembly:     cfg.InputAssemblyInfo,
		Viewport:          cfg.ViewportInfo,
		Rasterization:     cfg.RasterizationInfo,
		Multisample:       cfg.MultisampleInfo,
		ColorBlend:        colorBlend,
		DepthStencil:      cfg.DepthStencilInfo,
		DynamicStates:     cfg.DynamicStateEnables,
		Layout:            cfg.Layout,
		RenderPass:        cfg.RenderPass,
		Subpass:           cfg.Subpass,
		BasePipelineIndex: -1,
	})
	if err != nil {
		return p, fmt.Errorf("pipeline: create graphics pipeline: %w", err)
	}

	gpu.Logger().Info("pipeline created", "vert", vertPath, "frag", fragPath)
	return p, nil
}

// ReadFile reads a shader binary in full.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()

	code, err := io.ReadAll(f)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return code, nil
}

// Bind makes p the active graphics pipeline for subsequent draws.
func (p *Pipeline) Bind(cmd gpu.CommandBuffer) {
	cmd.BindPipeline(p.graphicsPipeline)
}

// Handle returns the compiled pipeline.
func (p *Pipeline) Handle() gpu.PipelineHandle {
	return p.graphicsPipeline
}

func (p *Pipeline) Release() {
	if p.graphicsPipeline != nil {
		p.graphicsPipeline.Release()
		p.graphicsPipeline = nil
	}
	if p.fragShaderModule != nil {
		p.fragShaderModule.Release()
		p.fragShaderModule = nil
	}
	if p.vertShaderModule != nil {
		p.vertShaderModule.Release()
		p.vertShaderModule = nil
	}
}
