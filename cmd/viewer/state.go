package main

import (
	"fmt"
	"path/filepath"

	"github.com/dskgfx/dsk/config"
	"github.com/dskgfx/dsk/gpu"
	"github.com/dskgfx/dsk/gpu/wgpudev"
	"github.com/dskgfx/dsk/internal/glm"
	"github.com/dskgfx/dsk/render"
	"github.com/dskgfx/dsk/resources"
	"github.com/dskgfx/dsk/scene"
	"github.com/dskgfx/dsk/texture"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	wgpuext_glfw "github.com/rajveermalviya/go-webgpu/wgpuext/glfw"
	"github.com/schollz/progressbar/v3"
)

const DepthTextureFormat = wgpu.TextureFormat_Depth32Float

type State struct {
	cfg          config.Config
	surface      *wgpu.Surface
	swapChain    *wgpu.SwapChain
	dev          *wgpudev.Device
	config       *wgpu.SwapChainDescriptor
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	layout       *wgpudev.PipelineLayout
	system       *render.System
	textures     *texture.Array
	objects      scene.List
}

func InitState(window *glfw.Window, cfg config.Config) (s *State, err error) {
	defer func() {
		if err != nil {
			s.Destroy()
			s = nil
		}
	}()
	s = &State{cfg: cfg}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	s.surface = instance.CreateSurface(wgpuext_glfw.GetSurfaceDescriptor(window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: s.surface,
	})
	if err != nil {
		return s, err
	}
	defer adapter.Release()

	s.dev, err = wgpudev.RequestDevice(adapter, render.PushConstantSize)
	if err != nil {
		return s, err
	}

	width, height := window.GetFramebufferSize()
	s.config = &wgpu.SwapChainDescriptor{
		Usage:       wgpu.TextureUsage_RenderAttachment,
		Format:      s.surface.GetPreferredFormat(adapter),
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentMode_Fifo,
	}
	s.swapChain, err = s.dev.Raw().CreateSwapChain(s.surface, s.config)
	if err != nil {
		return s, err
	}
	if err = s.createDepthTexture(); err != nil {
		return s, err
	}

	s.layout, err = s.dev.NewPipelineLayout(render.PushConstantSize)
	if err != nil {
		return s, err
	}

	res := resources.Layout{Root: cfg.ResourcesRoot}
	s.system, err = render.NewSystem(s.dev,
		res.ShaderPath(cfg.Shaders.Vertex),
		res.ShaderPath(cfg.Shaders.Fragment),
		s.layout,
		&wgpudev.RenderPass{ColorFormat: s.config.Format, DepthFormat: DepthTextureFormat},
	)
	if err != nil {
		return s, err
	}

	if err = s.loadScene(res); err != nil {
		return s, err
	}
	return s, nil
}

func (s *State) loadScene(res resources.Layout) error {
	path := s.cfg.Scene
	if !filepath.IsAbs(path) {
		path = filepath.Join(res.Root, path)
	}
	desc, err := scene.LoadDescription(path)
	if err != nil {
		return err
	}

	s.textures = texture.NewArray(len(desc.Objects))
	bar := progressbar.Default(int64(len(desc.Objects)), "loading scene")
	defer bar.Close()

	for i := range desc.Objects {
		od := &desc.Objects[i]
		bar.Describe(od.Model)
		if _, err := od.Build(&s.objects, s.dev, res, s.textures); err != nil {
			return err
		}
		bar.Add(1)
	}
	gpu.Logger().Info("scene loaded", "path", path, "objects", s.objects.Len())
	return nil
}

func (s *State) createDepthTexture() (err error) {
	s.depthTexture, err = s.dev.Raw().CreateTexture(&wgpu.TextureDescriptor{
		Label: "DepthTexture",
		Size: wgpu.Extent3D{
			Width:              s.config.Width,
			Height:             s.config.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        DepthTextureFormat,
		Usage:         wgpu.TextureUsage_RenderAttachment,
	})
	if err != nil {
		return err
	}
	s.depthView, err = s.depthTexture.CreateView(nil)
	return err
}

func (s *State) releaseDepthTexture() {
	if s.depthView != nil {
		s.depthView.Release()
		s.depthView = nil
	}
	if s.depthTexture != nil {
		s.depthTexture.Release()
		s.depthTexture = nil
	}
}

func (s *State) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.config.Width = uint32(width)
	s.config.Height = uint32(height)

	if s.swapChain != nil {
		s.swapChain.Release()
	}
	var err error
	s.swapChain, err = s.dev.Raw().CreateSwapChain(s.surface, s.config)
	if err != nil {
		panic(err)
	}

	s.releaseDepthTexture()
	if err := s.createDepthTexture(); err != nil {
		panic(err)
	}
}

func (s *State) projectionView() glm.Mat4[float32] {
	aspect := float32(s.config.Width) / float32(s.config.Height)
	view := glm.LookAtRH(
		glm.Vec3[float32]{0, 2, -5},
		glm.Vec3[float32]{0, 0, 0},
		glm.Vec3[float32]{0, 1, 0},
	)
	proj := glm.Perspective(glm.DegToRad[float32](50), aspect, 0.1, 100)
	return proj.Mul4(view)
}

func (s *State) Render() error {
	view, err := s.swapChain.GetCurrentTextureView()
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := s.dev.Raw().CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	c := s.cfg.ClearColor
	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOp_Clear,
			ClearValue: wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]},
			StoreOp:    wgpu.StoreOp_Store,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            s.depthView,
			DepthClearValue: 1,
			DepthLoadOp:     wgpu.LoadOp_Clear,
			DepthStoreOp:    wgpu.StoreOp_Store,
			StencilLoadOp:   wgpu.LoadOp_Load,
			StencilStoreOp:  wgpu.StoreOp_Store,
			StencilReadOnly: true,
		},
	})
	defer renderPass.Release()

	pass := wgpudev.NewPass(renderPass)
	pass.SetViewport(gpu.Viewport{
		Width:    float32(s.config.Width),
		Height:   float32(s.config.Height),
		MaxDepth: 1,
	})
	pass.SetScissor(gpu.Rect2D{Width: s.config.Width, Height: s.config.Height})
	s.system.RenderObjects(pass, &s.objects, s.projectionView())
	if err := renderPass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish frame: %w", err)
	}
	defer cmdBuffer.Release()

	s.dev.Queue().Submit(cmdBuffer)
	s.swapChain.Present()

	return nil
}

func (s *State) Destroy() {
	s.objects.Release()
	if s.textures != nil {
		s.textures.Release()
		s.textures = nil
	}
	if s.system != nil {
		s.system.Release()
		s.system = nil
	}
	if s.layout != nil {
		s.layout.Release()
		s.layout = nil
	}
	s.releaseDepthTexture()
	if s.swapChain != nil {
		s.swapChain.Release()
		s.swapChain = nil
	}
	if s.config != nil {
		s.config = nil
	}
	if s.dev != nil {
		s.dev.Release()
		s.dev = nil
	}
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
}
