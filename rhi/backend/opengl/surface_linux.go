// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build linux

package opengl

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/glfw/v3.3/glfw/native"

	"github.com/fyuuforge/rhi"
)

type surface struct {
	window    *glfw.Window
	nativeWin uintptr
}

// CreateSurface opens a GLFW window with its client API disabled (the
// GL context this backend drives comes from EGL, not GLX, the same
// reason rhi/backend/d3d12's surface.go passes glfw.NoAPI) and recovers
// its X11 window ID through glfw's own platform-native accessor, cast
// straight to EGLNativeWindowType's uintptr representation.
func (d *Driver) CreateSurface(physicalDevice any, width, height uint32, flags rhi.SurfaceFlag) (any, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("opengl: glfw.Init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(int(width), int(height), "", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("opengl: glfw.CreateWindow: %w", err)
	}
	xWin := native.GetX11Window(win)
	return &surface{window: win, nativeWin: uintptr(xWin)}, nil
}

func (d *Driver) SetSurfaceTitle(surfaceHandle any, title string) error {
	s, ok := surfaceHandle.(*surface)
	if !ok {
		return fmt.Errorf("opengl: SetSurfaceTitle: unexpected handle %T", surfaceHandle)
	}
	s.window.SetTitle(title)
	return nil
}

func (d *Driver) NativeWindow(surfaceHandle any) (*glfw.Window, error) {
	s, ok := surfaceHandle.(*surface)
	if !ok {
		return nil, fmt.Errorf("opengl: NativeWindow: unexpected handle %T", surfaceHandle)
	}
	return s.window, nil
}
