// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"
	"time"

	"github.com/fyuuforge/rhi/internal/backend"
	"github.com/fyuuforge/rhi/rhi/command"
	"github.com/fyuuforge/rhi/rhi/frame"
)

// Renderer drives the frame lifecycle and submission pipeline: opening
// a per-frame submission window workers publish finished command lists
// into, and batching them into one ExecuteCommandLists + Present per
// frame.
type Renderer struct {
	tag   backend.Tag
	inner *frame.Renderer
}

func (r *Renderer) BackendTag() backend.Tag { return r.tag }

// CreateRenderer builds a Renderer over device/queue/swapChain, with
// frameCount frame slots (rhi/frame.DefaultFrameCount if 0).
func CreateRenderer(device *LogicalDevice, queue *CommandQueue, swapChain *SwapChain, frameCount uint32) (*Renderer, ErrorCode) {
	if device == nil || queue == nil || swapChain == nil {
		return reportError[*Renderer](fmt.Errorf("rhi: CreateRenderer: %w", errNilHandle))
	}
	drv, err := backend.Require(device, queue, swapChain)
	if err != nil {
		return reportError[*Renderer](err)
	}
	fd, ok := drv.(frame.Driver)
	if !ok {
		return reportError[*Renderer](fmt.Errorf("rhi: %s: renderer creation: %w", device.tag, backend.ErrNotRegistered))
	}
	cd, ok := drv.(command.Driver)
	if !ok {
		return reportError[*Renderer](fmt.Errorf("rhi: %s: renderer creation: %w", device.tag, backend.ErrNotRegistered))
	}
	fence, err := fd.CreateFence(device.handle)
	if err != nil {
		return reportError[*Renderer](err)
	}
	inner := frame.New(device.tag, fd, cd, device.handle, queue.ops, swapChain.handle, fence, int(frameCount))
	r := &Renderer{tag: device.tag, inner: inner}
	setLastError(Success, nil)
	return r, Success
}

// BeginFrame opens r's submission window for this frame, or returns false
// without opening it if the frame should be skipped (iconified or
// occluded present).
func BeginFrame(r *Renderer, frameLatencyTimeout time.Duration) (bool, ErrorCode) {
	if r == nil {
		return false, fail(fmt.Errorf("rhi: BeginFrame: %w", errNilHandle))
	}
	ok, err := r.inner.BeginFrame(frameLatencyTimeout)
	if err != nil {
		return false, fail(err)
	}
	setLastError(Success, nil)
	return ok, Success
}

// EndFrame closes r's submission window, submits the accumulated command
// lists, presents, and advances the frame index.
func EndFrame(r *Renderer) ErrorCode {
	if r == nil {
		return fail(fmt.Errorf("rhi: EndFrame: %w", errNilHandle))
	}
	if err := r.inner.EndFrame(); err != nil {
		return fail(err)
	}
	setLastError(Success, nil)
	return Success
}

// OnResize notifies r that its window's client area changed to
// width/height. The swap chain is not recreated immediately: r debounces
// bursts of resize events (see rhi/frame.ResizeDebounce) and only calls
// the backend's ResizeSwapChain once they stop arriving for a short
// interval, so an interactive window drag doesn't stall the GPU on every
// intermediate size.
func (r *Renderer) OnResize(width, height uint32) {
	if r == nil {
		return
	}
	r.inner.OnResize(width, height)
}

// SetIconified tells r whether its window is currently minimized, so
// BeginFrame can skip frames cheaply rather than driving a present against
// a zero-size target.
func (r *Renderer) SetIconified(v bool) {
	if r == nil {
		return
	}
	r.inner.SetIconified(v)
}

// Occluded reports whether the last EndFrame's Present call returned an
// occluded swap chain.
func (r *Renderer) Occluded() bool {
	if r == nil {
		return false
	}
	return r.inner.Occluded()
}

// DestroyRenderer waits on the last submitted frame's fence, then
// releases r's frame contexts and worker rows.
func DestroyRenderer(r *Renderer) ErrorCode {
	if r == nil {
		return fail(fmt.Errorf("rhi: DestroyRenderer: %w", errNilHandle))
	}
	if err := r.inner.Destroy(); err != nil {
		return fail(err)
	}
	setLastError(Success, nil)
	return Success
}
