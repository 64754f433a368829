// Package render records draw commands for a scene.
package render

import (
	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/internal/glm"
	"github.com/dskgfx/dsk/pipeline"
	"github.com/dskgfx/dsk/scene"
)

// PushConstantData is pushed once per object. Normal is the object's
// normal matrix padded to 4x4.
type PushConstantData struct {
	Transform glm.Mat4[float32]
	Normal    glm.Mat4[float32]
}

// PushConstantSize is the push constant range a pipeline layout must
// declare for System.
const PushConstantSize = 128

const pushConstantStages = gpu.ShaderStageVertex | gpu.ShaderStageFragment

// System draws every object of a scene.List with one pipeline.
type System struct {
	pipeline *pipeline.Pipeline
}

// NewSystem builds a pipeline from the shader binaries with the default
// fixed-function state.
func NewSystem(dev gpu.Device, vertPath, fragPath string, layout gpu.PipelineLayout, pass gpu.RenderPass) (*System, error) {
	var cfg pipeline.Config
	pipeline.DefaultConfig(&cfg)
	cfg.Layout = layout
	cfg.RenderPass = pass

	p, err := pipeline.New(dev, vertPath, fragPath, &cfg)
	if err != nil {
		return nil, err
	}
	return &System{pipeline: p}, nil
}

// RenderObjects binds the pipeline and draws each object that has a model.
func (s *System) RenderObjects(cmd gpu.CommandBuffer, list *scene.List, projView glm.Mat4[float32]) {
	s.pipeline.Bind(cmd)

	push := make([]PushConstantData, 1)
	list.Each(func(obj *scene.Object) {
		if obj.Model == nil {
			return
		}
		push[0] = PushConstantData{
			Transform: projView.Mul4(obj.Transform.Mat4()),
			Normal:    obj.Transform.NormalMatrix().Mat4(),
		}
		cmd.PushConstants(pushConstantStages, 0, gpu.ToBytes(push))
		obj.Model.Bind(cmd)
		obj.Model.Draw(cmd)
	})
}

func (s *System) Release() {
	if s.pipeline != nil {
		s.pipeline.Release()
		s.pipeline = nil
	}
}
