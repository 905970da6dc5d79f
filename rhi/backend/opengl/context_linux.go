// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build linux

package opengl

import (
	"fmt"

	"github.com/fyuuforge/rhi/hal/gles/egl"
	"github.com/fyuuforge/rhi/hal/gles/gl"
	"github.com/fyuuforge/rhi/internal/thread"
)

// logicalDevice owns the one GL context this backend ever opens, plus
// the dedicated OS thread it is current on. eglCtx is created against
// its own internal 1x1 pbuffer surface (egl.Context.MakeCurrent's own
// default) purely to load GL function pointers and query the
// vendor/renderer strings; CreateSwapChain later rebinds the same
// context onto a real on-screen EGL window surface via the package-level
// egl.CreateWindowSurface/egl.MakeCurrent functions, so only one GL
// context ever exists per device.
type logicalDevice struct {
	thread *thread.Thread
	eglCtx *egl.Context
	gl     *gl.Context
}

// onThread runs fn on d's dedicated render thread and returns its error,
// the shape every GL-touching Driver method in this package uses so
// gl.Context is only ever touched from the one OS thread it was loaded
// on (EGL/GLX contexts are thread-affine).
func (d *logicalDevice) onThread(fn func() error) error {
	result := d.thread.Call(func() any { return fn() })
	if result == nil {
		return nil
	}
	return result.(error)
}

// CreateLogicalDevice spins up a dedicated OS thread (mirroring
// internal/thread's Main-thread/Render-thread split), opens an EGL
// context against its own pbuffer on that thread, loads every GL
// function pointer through it, and queries GL_VERSION/GL_RENDERER for
// diagnostics. physicalDevice is accepted but unused: EnumeratePhysicalDevices
// never had a context to introspect, so there is nothing in it for this
// step to read back out.
func (d *Driver) CreateLogicalDevice(physicalDevice any) (any, error) {
	t := thread.New()
	ld := &logicalDevice{thread: t}
	err := ld.onThread(func() error {
		config := egl.DefaultContextConfig()
		config.GLES = false
		attribs := pixelFormatAttribs()
		config.PixelFormatAttribs = make([]egl.EGLInt, len(attribs))
		for i, v := range attribs {
			config.PixelFormatAttribs[i] = egl.EGLInt(v)
		}
		ctx, err := egl.NewContext(config)
		if err != nil {
			return fmt.Errorf("opengl: egl.NewContext failed: %w", err)
		}
		if err := ctx.MakeCurrent(); err != nil {
			ctx.Destroy()
			return fmt.Errorf("opengl: eglMakeCurrent failed: %w", err)
		}
		glCtx := &gl.Context{}
		if err := glCtx.Load(egl.GetGLProcAddress); err != nil {
			ctx.Destroy()
			return fmt.Errorf("opengl: failed to load GL functions: %w", err)
		}
		ld.eglCtx = ctx
		ld.gl = glCtx
		return nil
	})
	if err != nil {
		t.Stop()
		return nil, err
	}
	return ld, nil
}

func (d *Driver) DestroyLogicalDevice(logicalDeviceAny any) error {
	ld, ok := logicalDeviceAny.(*logicalDevice)
	if !ok {
		return fmt.Errorf("opengl: DestroyLogicalDevice: unexpected handle %T", logicalDeviceAny)
	}
	ld.onThread(func() error {
		ld.eglCtx.Destroy()
		return nil
	})
	ld.thread.Stop()
	return nil
}
