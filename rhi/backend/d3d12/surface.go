// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package d3d12

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/glfw/v3.3/glfw/native"

	"github.com/fyuuforge/rhi"
)

type surface struct {
	window *glfw.Window
	hwnd   uintptr
}

// CreateSurface opens a GLFW window with its client API disabled (D3D12
// drives the device directly, the same reason rhi/backend/vulkan passes
// glfw.NoAPI) and recovers its native HWND through glfw's own
// platform-native accessor rather than a raw FindWindow lookup.
func (d *Driver) CreateSurface(physicalDevice any, width, height uint32, flags rhi.SurfaceFlag) (any, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("d3d12: glfw.Init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(int(width), int(height), "", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("d3d12: glfw.CreateWindow: %w", err)
	}
	hwnd := native.GetWin32Window(win)
	return &surface{window: win, hwnd: uintptr(hwnd)}, nil
}

func (d *Driver) SetSurfaceTitle(surfaceHandle any, title string) error {
	s, ok := surfaceHandle.(*surface)
	if !ok {
		return fmt.Errorf("d3d12: SetSurfaceTitle: unexpected handle %T", surfaceHandle)
	}
	s.window.SetTitle(title)
	return nil
}

func (d *Driver) NativeWindow(surfaceHandle any) (*glfw.Window, error) {
	s, ok := surfaceHandle.(*surface)
	if !ok {
		return nil, fmt.Errorf("d3d12: NativeWindow: unexpected handle %T", surfaceHandle)
	}
	return s.window, nil
}
