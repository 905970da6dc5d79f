// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/fyuuforge/rhi/internal/backend"
)

// Surface wraps a platform window handle in the backend's window-system
// interface (VK_KHR_*_surface, an HWND for D3D12/OpenGL). It owns no
// buffers; SwapChain owns the back-buffer ring built atop it.
type Surface struct {
	tag    backend.Tag
	handle any
	width  uint32
	height uint32
}

func (s *Surface) BackendTag() backend.Tag { return s.tag }

// surfaceDriver is implemented by a driver's Surface support. Kept
// separate from backend.Driver so drivers that never create a Surface
// directly (none currently) aren't forced to implement it.
type surfaceDriver interface {
	CreateSurface(physicalDevice any, width, height uint32, flags SurfaceFlag) (any, error)
	SetSurfaceTitle(surface any, title string) error
}

// CreateSurface creates a Surface of the given size on physicalDevice.
func CreateSurface(physicalDevice *PhysicalDevice, width, height uint32, flags SurfaceFlag) (*Surface, ErrorCode) {
	if physicalDevice == nil {
		return reportError[*Surface](fmt.Errorf("rhi: CreateSurface: %w", errNilHandle))
	}
	if width == 0 || height == 0 {
		return reportError[*Surface](fmt.Errorf("rhi: CreateSurface: %w", backend.ErrZeroArea))
	}
	drv, err := backend.Require(physicalDevice)
	if err != nil {
		return reportError[*Surface](err)
	}
	sd, ok := drv.(surfaceDriver)
	if !ok {
		return reportError[*Surface](fmt.Errorf("rhi: %s: surface creation: %w", physicalDevice.tag, backend.ErrNotRegistered))
	}
	handle, err := sd.CreateSurface(physicalDevice.info.Handle, width, height, flags)
	if err != nil {
		return reportError[*Surface](err)
	}
	s := &Surface{tag: physicalDevice.tag, handle: handle, width: width, height: height}
	setLastError(Success, nil)
	return s, Success
}

// SetSurfaceTitle sets the platform window's title.
func SetSurfaceTitle(s *Surface, title string) ErrorCode {
	if s == nil {
		return fail(fmt.Errorf("rhi: SetSurfaceTitle: %w", errNilHandle))
	}
	drv, err := backend.Require(s)
	if err != nil {
		return fail(err)
	}
	if err := drv.(surfaceDriver).SetSurfaceTitle(s.handle, title); err != nil {
		return fail(err)
	}
	setLastError(Success, nil)
	return Success
}

// windowDriver is implemented by a driver's Surface support that backs it
// with a glfw window (all three backends currently do). Kept separate
// from surfaceDriver so NativeWindow failing with ErrNotRegistered on a
// hypothetical backend that sources its surface some other way doesn't
// also have to stub out CreateSurface/SetSurfaceTitle.
type windowDriver interface {
	NativeWindow(surface any) (*glfw.Window, error)
}

// NativeWindow returns s's underlying glfw.Window. rhiapp uses this to
// poll input and hook window events on the same window the backend
// created the surface against, rather than opening a second one of its
// own.
func (s *Surface) NativeWindow() (*glfw.Window, ErrorCode) {
	if s == nil {
		return nil, fail(fmt.Errorf("rhi: Surface.NativeWindow: %w", errNilHandle))
	}
	drv, err := backend.Require(s)
	if err != nil {
		return nil, fail(err)
	}
	wd, ok := drv.(windowDriver)
	if !ok {
		return nil, fail(fmt.Errorf("rhi: %s: NativeWindow: %w", s.tag, backend.ErrNotRegistered))
	}
	win, err := wd.NativeWindow(s.handle)
	if err != nil {
		return nil, fail(err)
	}
	setLastError(Success, nil)
	return win, Success
}

// DestroySurface releases s.
func DestroySurface(s *Surface) ErrorCode {
	if s == nil {
		return fail(fmt.Errorf("rhi: DestroySurface: %w", errNilHandle))
	}
	setLastError(Success, nil)
	return Success
}
