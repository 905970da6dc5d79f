// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package opengl

import (
	"fmt"

	"github.com/fyuuforge/rhi/hal/gles/gl"
	"github.com/fyuuforge/rhi/hal/gles/wgl"
	"github.com/fyuuforge/rhi/internal/thread"
)

// logicalDevice owns the one GL context this backend ever opens, plus the
// dedicated OS thread it is current on. Unlike the Linux/EGL path, wglCtx
// is nil until CreateSwapChain runs: wglCreateContext needs a real HWND's
// HDC, and CreateLogicalDevice runs before any surface exists.
type logicalDevice struct {
	thread *thread.Thread
	wglCtx *wgl.Context
	hwnd   wgl.HWND
	gl     *gl.Context
}

// onThread runs fn on d's dedicated render thread and returns its error,
// the shape every GL-touching Driver method in this package uses so
// gl.Context is only ever touched from the one OS thread it was loaded
// on (WGL contexts are thread-affine).
func (d *logicalDevice) onThread(fn func() error) error {
	result := d.thread.Call(func() any { return fn() })
	if result == nil {
		return nil
	}
	return result.(error)
}

// CreateLogicalDevice only spins up the dedicated render thread here: the
// real WGL context and GL function pointers are created once a surface's
// HWND exists, in CreateSwapChain.
func (d *Driver) CreateLogicalDevice(physicalDevice any) (any, error) {
	return &logicalDevice{thread: thread.New()}, nil
}

func (d *Driver) DestroyLogicalDevice(logicalDeviceAny any) error {
	ld, ok := logicalDeviceAny.(*logicalDevice)
	if !ok {
		return fmt.Errorf("opengl: DestroyLogicalDevice: unexpected handle %T", logicalDeviceAny)
	}
	ld.onThread(func() error {
		if ld.wglCtx != nil {
			ld.wglCtx.Destroy(ld.hwnd)
		}
		return nil
	})
	ld.thread.Stop()
	return nil
}
