// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build linux

package opengl

import (
	"fmt"

	"github.com/fyuuforge/rhi/hal/gles/egl"
)

// swapChain is OpenGL's stand-in for a real swap chain: a single
// double-buffered default framebuffer behind one EGL window surface.
// bufferCount is accepted by CreateSwapChain for interface symmetry but
// EGL's own implicit front/back swap means there is exactly one "output"
// handle, returned unchanged by CurrentOutput every frame.
type swapChain struct {
	device  *logicalDevice
	surface *surface
	winSurf egl.EGLSurface
}

// renderTarget is the output handle command.Driver keys its clear/
// viewport calls off. OpenGL's default framebuffer has no native
// resource object of its own (framebuffer 0), so this is just a marker
// carrying the swap chain it belongs to.
type renderTarget struct {
	swapChain *swapChain
}

// CreateSwapChain creates the real on-screen EGL window surface for
// surf's native window and rebinds the device's single GL context onto
// it via the package-level egl.MakeCurrent, replacing the internal
// pbuffer surface CreateLogicalDevice bound for its own GL-function-
// loading/info-query purposes. This avoids ever needing a second GL
// context or a share-context dance: the same context that loaded GL
// functions now drives on-screen rendering.
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
		winSurf := egl.CreateWindowSurface(ld.eglCtx.Display(), ld.eglCtx.Config(), egl.EGLNativeWindowType(surf.nativeWin), nil)
		if winSurf == egl.NoSurface {
			return fmt.Errorf("opengl: eglCreateWindowSurface failed: error 0x%x", egl.GetError())
		}
		if egl.MakeCurrent(ld.eglCtx.Display(), winSurf, winSurf, ld.eglCtx.EGLContext()) == egl.False {
			egl.DestroySurface(ld.eglCtx.Display(), winSurf)
			return fmt.Errorf("opengl: eglMakeCurrent (window surface) failed: error 0x%x", egl.GetError())
		}
		egl.SwapInterval(ld.eglCtx.Display(), 1)
		sc.winSurf = winSurf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// ResizeSwapChain is a no-op: the EGL window surface tracks its native
// window's size automatically, there is no buffer-count/format object
// here to recreate the way DXGI's ResizeBuffers or a VkSwapchainKHR
// recreation requires.
func (d *Driver) ResizeSwapChain(swapChainAny any, width, height uint32) error {
	return nil
}

func (d *Driver) DestroySwapChain(swapChainAny any) error {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return fmt.Errorf("opengl: DestroySwapChain: unexpected handle %T", swapChainAny)
	}
	return sc.device.onThread(func() error {
		egl.DestroySurface(sc.device.eglCtx.Display(), sc.winSurf)
		return nil
	})
}

func (d *Driver) CurrentOutput(swapChainAny any) (any, error) {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return nil, fmt.Errorf("opengl: CurrentOutput: unexpected handle %T", swapChainAny)
	}
	return &renderTarget{swapChain: sc}, nil
}

// CurrentBackBufferIndex is always 0: EGL's front/back swap is implicit
// and never exposes a selectable buffer index the way DXGI does.
func (d *Driver) CurrentBackBufferIndex(swapChainAny any) int {
	return 0
}

// Present calls eglSwapBuffers on the render thread. occluded is always
// false; see TestPresentOccluded's doc comment.
func (d *Driver) Present(swapChainAny any, vsync int) (bool, error) {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return false, fmt.Errorf("opengl: Present: unexpected handle %T", swapChainAny)
	}
	err := sc.device.onThread(func() error {
		if egl.SwapBuffers(sc.device.eglCtx.Display(), sc.winSurf) == egl.False {
			return fmt.Errorf("opengl: eglSwapBuffers failed: error 0x%x", egl.GetError())
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return false, nil
}
