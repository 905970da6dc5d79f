// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"github.com/fyuuforge/rhi"
)

type surface struct {
	window *glfw.Window
	vk     vk.Surface
}

// CreateSurface opens a GLFW window (Vulkan client API disabled — this
// package drives the device itself) and wraps it in a VkSurfaceKHR.
func (d *Driver) CreateSurface(physicalDevice any, width, height uint32, flags rhi.SurfaceFlag) (any, error) {
	instance, err := d.instanceHandle()
	if err != nil {
		return nil, err
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("vulkan: glfw.Init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(int(width), int(height), "", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vulkan: glfw.CreateWindow: %w", err)
	}
	surfacePtr, err := win.CreateWindowSurface(instance, nil)
	if err != nil {
		return nil, fmt.Errorf("vulkan: CreateWindowSurface: %w", err)
	}
	return &surface{window: win, vk: vk.SurfaceFromPointer(surfacePtr)}, nil
}

func (d *Driver) SetSurfaceTitle(surfaceHandle any, title string) error {
	s, ok := surfaceHandle.(*surface)
	if !ok {
		return fmt.Errorf("vulkan: SetSurfaceTitle: unexpected handle %T", surfaceHandle)
	}
	s.window.SetTitle(title)
	return nil
}

func (d *Driver) NativeWindow(surfaceHandle any) (*glfw.Window, error) {
	s, ok := surfaceHandle.(*surface)
	if !ok {
		return nil, fmt.Errorf("vulkan: NativeWindow: unexpected handle %T", surfaceHandle)
	}
	return s.window, nil
}
