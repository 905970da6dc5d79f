// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package opengl

import (
	"fmt"

	"github.com/fyuuforge/rhi/hal/gles/gl"
	"github.com/fyuuforge/rhi/hal/gles/wgl"
)

// swapChain is OpenGL's stand-in for a real swap chain: a single
// double-buffered default framebuffer behind one WGL-bound HDC.
// bufferCount is accepted by CreateSwapChain for interface symmetry but
// WGL's own implicit front/back swap means there is exactly one "output"
// handle, returned unchanged by CurrentOutput every frame.
type swapChain struct {
	device  *logicalDevice
	surface *surface
}

// renderTarget is the output handle command.Driver keys its clear/
// viewport calls off. OpenGL's default framebuffer has no native
// resource object of its own (framebuffer 0), so this is just a marker
// carrying the swap chain it belongs to.
type renderTarget struct {
	swapChain *swapChain
}

// CreateSwapChain creates the real WGL context against surf's HWND:
// wglCreateContext needs an HDC derived from a real window, which only
// exists once CreateSurface has run, so the device's GL context and
// function pointers are created here rather than in CreateLogicalDevice
// (contrast context_linux.go's pbuffer-first approach). The pixel format
// comes from wgl.DefaultPixelFormat's PIXELFORMATDESCRIPTOR, since WGL's
// plain wglChoosePixelFormat has no EGL-style attribute list to override
// with OpenGLOptions.PixelFormatAttribs (see options.go).
func (d *Driver) CreateSwapChain(physicalDevice, logicalDeviceAny, queueAny, surfaceAny any, bufferCount uint32) (any, error) {
	ld, ok := logicalDeviceAny.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("opengl: CreateSwapChain: unexpected device %T", logicalDeviceAny)
	}
	surf, ok := surfaceAny.(*surface)
	if !ok {
		return nil, fmt.Errorf("opengl: CreateSwapChain: unexpected surface %T", surfaceAny)
	}
	sc := &swapChain{device: ld, surface: surf}
	err := ld.onThread(func() error {
		hwnd := wgl.HWND(surf.hwnd)
		ctx, err := wgl.NewContext(hwnd)
		if err != nil {
			return fmt.Errorf("opengl: wgl.NewContext failed: %w", err)
		}
		if err := ctx.MakeCurrent(); err != nil {
			ctx.Destroy(hwnd)
			return fmt.Errorf("opengl: wglMakeCurrent failed: %w", err)
		}
		glCtx := &gl.Context{}
		if err := glCtx.Load(wgl.GetGLProcAddress); err != nil {
			ctx.Destroy(hwnd)
			return fmt.Errorf("opengl: failed to load GL functions: %w", err)
		}
		ld.wglCtx = ctx
		ld.hwnd = hwnd
		ld.gl = glCtx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// ResizeSwapChain is a no-op: WGL's HDC tracks its window's size
// automatically, there is no buffer-count/format object here to recreate
// the way DXGI's ResizeBuffers or a VkSwapchainKHR recreation requires.
func (d *Driver) ResizeSwapChain(swapChainAny any, width, height uint32) error {
	return nil
}

func (d *Driver) DestroySwapChain(swapChainAny any) error {
	_, ok := swapChainAny.(*swapChain)
	if !ok {
		return fmt.Errorf("opengl: DestroySwapChain: unexpected handle %T", swapChainAny)
	}
	// The WGL context itself is torn down by DestroyLogicalDevice, since
	// it belongs to the device rather than the swap chain on this
	// platform (it was created once, against the one window this backend
	// ever targets).
	return nil
}

func (d *Driver) CurrentOutput(swapChainAny any) (any, error) {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return nil, fmt.Errorf("opengl: CurrentOutput: unexpected handle %T", swapChainAny)
	}
	return &renderTarget{swapChain: sc}, nil
}

// CurrentBackBufferIndex is always 0: WGL's front/back swap is implicit
// and never exposes a selectable buffer index the way DXGI does.
func (d *Driver) CurrentBackBufferIndex(swapChainAny any) int {
	return 0
}

// Present calls wglSwapBuffers on the render thread. occluded is always
// false; see TestPresentOccluded's doc comment in frame.go.
func (d *Driver) Present(swapChainAny any, vsync int) (bool, error) {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return false, fmt.Errorf("opengl: Present: unexpected handle %T", swapChainAny)
	}
	err := sc.device.onThread(func() error {
		return sc.device.wglCtx.SwapBuffers()
	})
	if err != nil {
		return false, err
	}
	return false, nil
}
