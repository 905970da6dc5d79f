// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"

	"github.com/fyuuforge/rhi/internal/backend"
)

// SwapChain is an ordered ring of bufferCount back-buffers, reconstructed
// on resize by the owning rhi/frame.Renderer (see OnResize there).
type SwapChain struct {
	tag         backend.Tag
	handle      any
	bufferCount uint32
}

func (s *SwapChain) BackendTag() backend.Tag { return s.tag }

type swapChainDriver interface {
	CreateSwapChain(physicalDevice, logicalDevice, queue, surface any, bufferCount uint32) (any, error)
	ResizeSwapChain(swapChain any, width, height uint32) error
	DestroySwapChain(swapChain any) error
}

// outputDriver is satisfied by backends that can resolve a swap chain's
// currently acquired back buffer into a render-target handle for
// CommandObject's BeginRenderPass/Clear. Not every backend package needs
// to implement it eagerly — CurrentOutput fails with ErrNotRegistered on
// one that doesn't yet.
type outputDriver interface {
	CurrentOutput(swapChain any) (any, error)
}

// CurrentOutput resolves s's currently acquired back buffer (the one
// rhi/frame.Renderer.BeginFrame's WaitFrameLatencyWaitable call just set)
// into the backend-native render-target handle CommandObject.BeginRenderPass
// and CommandObject.Clear expect as their output argument.
func (s *SwapChain) CurrentOutput() (any, ErrorCode) {
	if s == nil {
		return nil, fail(fmt.Errorf("rhi: SwapChain.CurrentOutput: %w", errNilHandle))
	}
	drv, err := backend.Require(s)
	if err != nil {
		return nil, fail(err)
	}
	od, ok := drv.(outputDriver)
	if !ok {
		return nil, fail(fmt.Errorf("rhi: %s: CurrentOutput: %w", s.tag, backend.ErrNotRegistered))
	}
	out, err := od.CurrentOutput(s.handle)
	if err != nil {
		return nil, fail(err)
	}
	setLastError(Success, nil)
	return out, Success
}

// CreateSwapChain creates a swap chain of bufferCount back-buffers
// (default 3) on surface.
func CreateSwapChain(physicalDevice *PhysicalDevice, device *LogicalDevice, queue *CommandQueue, surface *Surface, bufferCount uint32) (*SwapChain, ErrorCode) {
	if physicalDevice == nil || device == nil || queue == nil || surface == nil {
		return reportError[*SwapChain](fmt.Errorf("rhi: CreateSwapChain: %w", errNilHandle))
	}
	if bufferCount == 0 {
		bufferCount = 3
	}
	drv, err := backend.Require(physicalDevice, device, queue, surface)
	if err != nil {
		return reportError[*SwapChain](err)
	}
	sd, ok := drv.(swapChainDriver)
	if !ok {
		return reportError[*SwapChain](fmt.Errorf("rhi: %s: swap chain creation: %w", physicalDevice.tag, backend.ErrNotRegistered))
	}
	handle, err := sd.CreateSwapChain(physicalDevice.info.Handle, device.handle, queue.ops, surface.handle, bufferCount)
	if err != nil {
		return reportError[*SwapChain](err)
	}
	s := &SwapChain{tag: physicalDevice.tag, handle: handle, bufferCount: bufferCount}
	setLastError(Success, nil)
	return s, Success
}

// Resize reconstructs the swap chain's back-buffers for the new surface
// size. rhi/frame.Renderer.OnResize does not go through this method:
// once its debounce window elapses it calls the backend driver's
// ResizeSwapChain directly.
func (s *SwapChain) Resize(width, height uint32) ErrorCode {
	if s == nil {
		return fail(fmt.Errorf("rhi: SwapChain.Resize: %w", errNilHandle))
	}
	if width == 0 || height == 0 {
		return fail(fmt.Errorf("rhi: SwapChain.Resize: %w", backend.ErrZeroArea))
	}
	drv, err := backend.Require(s)
	if err != nil {
		return fail(err)
	}
	if err := drv.(swapChainDriver).ResizeSwapChain(s.handle, width, height); err != nil {
		return fail(err)
	}
	setLastError(Success, nil)
	return Success
}

// DestroySwapChain releases s.
func DestroySwapChain(s *SwapChain) ErrorCode {
	if s == nil {
		return fail(fmt.Errorf("rhi: DestroySwapChain: %w", errNilHandle))
	}
	drv, err := backend.Require(s)
	if err == nil {
		if derr := drv.(swapChainDriver).DestroySwapChain(s.handle); derr != nil {
			return fail(derr)
		}
	}
	setLastError(Success, nil)
	return Success
}
