// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package opengl

import (
	"fmt"
	"time"
)

// renderFence is a CPU-side counter plus glFinish, standing in for a
// real GPU fence: OpenGL (outside of ARB_sync, which gl.Context does not
// bind) gives no way to wait for a specific submission to complete short
// of blocking for everything queued so far, so WaitFence always does a
// full device-wide glFinish rather than waiting on value specifically.
type renderFence struct {
	device    *logicalDevice
	completed uint64
}

// CreateFence implements rhi/frame.Driver.
func (d *Driver) CreateFence(deviceAny any) (any, error) {
	ld, ok := deviceAny.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("opengl: CreateFence: unexpected device %T", deviceAny)
	}
	return &renderFence{device: ld}, nil
}

// TestPresentOccluded always reports false: GL has no DXGI-style
// occlusion signal, and a minimized/covered window still accepts
// SwapBuffers without error on every driver this backend targets.
func (d *Driver) TestPresentOccluded(swapChainAny any) (bool, error) {
	return false, nil
}

// WaitFrameLatencyWaitable is a no-op: neither EGL nor WGL expose a
// frame-latency waitable object the way DXGI's swap chain does, so this
// backend relies on SwapInterval(1) (set once in CreateSwapChain) to
// pace presentation instead.
func (d *Driver) WaitFrameLatencyWaitable(swapChainAny any, timeout time.Duration) error {
	return nil
}

func (d *Driver) WaitFence(fenceAny any, value uint64) error {
	f, ok := fenceAny.(*renderFence)
	if !ok {
		return fmt.Errorf("opengl: WaitFence: unexpected handle %T", fenceAny)
	}
	if value <= f.completed {
		return nil
	}
	if err := f.device.onThread(func() error {
		f.device.gl.Finish()
		return nil
	}); err != nil {
		return err
	}
	f.completed = value
	return nil
}

func (d *Driver) SignalFence(queueAny, fenceAny any, value uint64) (uint64, error) {
	f, ok := fenceAny.(*renderFence)
	if !ok {
		return 0, fmt.Errorf("opengl: SignalFence: unexpected fence %T", fenceAny)
	}
	f.completed = value
	return value, nil
}

// ExecuteCommandLists is rhi/frame's batched per-frame submit. Like
// queue.ExecuteCommandLists, this is a no-op: every GL call in lists
// already executed synchronously when recorded.
func (d *Driver) ExecuteCommandLists(queueAny any, lists []any) error {
	return nil
}

// NewCommandObject returns a fresh commandObject bound to deviceAny.
// Unlike Vulkan/D3D12, there is no backing command-pool allocation here:
// BeginRecording is a no-op, Reset only clears remembered draw state, and
// every drawing call a commandObject
// records executes immediately on the device's render thread.
func (d *Driver) NewCommandObject(deviceAny any) (any, error) {
	ld, ok := deviceAny.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("opengl: NewCommandObject: unexpected device %T", deviceAny)
	}
	return &commandObject{device: ld}, nil
}
