// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package d3d12

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/windows"

	"github.com/fyuuforge/rhi"
	"github.com/fyuuforge/rhi/hal/dx12/d3d12"
)

// dxgiStatusOccluded is DXGI_STATUS_OCCLUDED, the success-severity HRESULT
// Present returns when the window is fully occluded (minimized, covered
// by another fullscreen app). It is not an error, but every wrapped
// HRESULT in hal/dx12/dxgi treats any nonzero return as one, so Present
// below has to unwrap and special-case it.
const dxgiStatusOccluded = 0x087A0006

// dxgiErrorDeviceRemoved is DXGI_ERROR_DEVICE_REMOVED.
const dxgiErrorDeviceRemoved = 0x887A0005

type renderFence struct {
	device *logicalDevice
	fence  *d3d12.ID3D12Fence
	event  windows.Handle
}

// CreateFence implements rhi/frame.Driver: one ID3D12Fence initial value
// 0 plus its own wait event, one per Renderer — distinct from the fence
// each queue keeps for its own Wait/Flush calls.
func (d *Driver) CreateFence(deviceAny any) (any, error) {
	ld, ok := deviceAny.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("d3d12: CreateFence: unexpected device %T", deviceAny)
	}
	fence, err := ld.dev.CreateFence(0, d3d12.D3D12_FENCE_FLAG_NONE)
	if err != nil {
		return nil, fmt.Errorf("d3d12: CreateFence failed: %w", err)
	}
	event, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		fence.Release()
		return nil, fmt.Errorf("d3d12: CreateEvent failed: %w", err)
	}
	return &renderFence{device: ld, fence: fence, event: event}, nil
}

// TestPresentOccluded asks DXGI directly via a zero-flag Present-less
// query is not exposed on IDXGISwapChain; this backend instead reports
// occlusion through Present's own DXGI_STATUS_OCCLUDED return, so this
// always reports false and leaves the real signal to Present.
func (d *Driver) TestPresentOccluded(swapChainAny any) (bool, error) {
	return false, nil
}

// WaitFrameLatencyWaitable waits on the swap chain's frame-latency
// waitable handle, DXGI's analogue of Vulkan's vkAcquireNextImageKHR:
// both block the CPU until the compositor is ready to accept another
// frame, but DXGI's handle is signaled ahead of Present rather than
// returning a specific image index to acquire.
func (d *Driver) WaitFrameLatencyWaitable(swapChainAny any, timeout time.Duration) error {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return fmt.Errorf("d3d12: WaitFrameLatencyWaitable: unexpected handle %T", swapChainAny)
	}
	timeoutMs := windows.INFINITE
	if timeout > 0 {
		timeoutMs = uint32(timeout.Milliseconds())
	}
	handle := windows.Handle(sc.sc.GetFrameLatencyWaitableObject())
	result, err := windows.WaitForSingleObject(handle, timeoutMs)
	if err != nil {
		return fmt.Errorf("d3d12: WaitForSingleObject (frame latency) failed: %w", err)
	}
	if result == uint32(windows.WAIT_TIMEOUT) {
		return fmt.Errorf("d3d12: WaitFrameLatencyWaitable: timed out after %s", timeout)
	}
	return nil
}

func (d *Driver) WaitFence(fenceAny any, value uint64) error {
	f, ok := fenceAny.(*renderFence)
	if !ok {
		return fmt.Errorf("d3d12: WaitFence: unexpected handle %T", fenceAny)
	}
	if value == 0 || f.fence.GetCompletedValue() >= value {
		return nil
	}
	if err := f.fence.SetEventOnCompletion(value, uintptr(f.event)); err != nil {
		if removed := d.reportDeviceRemoved(f.device, err); removed != nil {
			return removed
		}
		return fmt.Errorf("d3d12: SetEventOnCompletion failed: %w", err)
	}
	if _, err := windows.WaitForSingleObject(f.event, windows.INFINITE); err != nil {
		return fmt.Errorf("d3d12: WaitForSingleObject (fence) failed: %w", err)
	}
	return nil
}

func (d *Driver) SignalFence(queueAny, fenceAny any, value uint64) (uint64, error) {
	q, ok := queueAny.(*queue)
	if !ok {
		return 0, fmt.Errorf("d3d12: SignalFence: unexpected queue %T", queueAny)
	}
	f, ok := fenceAny.(*renderFence)
	if !ok {
		return 0, fmt.Errorf("d3d12: SignalFence: unexpected fence %T", fenceAny)
	}
	q.mu.Lock()
	err := q.queue.Signal(f.fence, value)
	q.mu.Unlock()
	if err != nil {
		if removed := d.reportDeviceRemoved(f.device, err); removed != nil {
			return 0, removed
		}
		return 0, fmt.Errorf("d3d12: Signal failed: %w", err)
	}
	return value, nil
}

// ExecuteCommandLists is rhi/frame's batched per-frame submit, distinct
// from queue.ExecuteCommandLists which serves direct
// rhi.CommandQueue.ExecuteCommandLists calls.
func (d *Driver) ExecuteCommandLists(queueAny any, lists []any) error {
	q, ok := queueAny.(*queue)
	if !ok {
		return fmt.Errorf("d3d12: ExecuteCommandLists: unexpected queue %T", queueAny)
	}
	return q.ExecuteCommandLists(lists)
}

func (d *Driver) Present(swapChainAny any, vsync int) (bool, error) {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return false, fmt.Errorf("d3d12: Present: unexpected handle %T", swapChainAny)
	}
	sync := uint32(0)
	if vsync > 0 {
		sync = uint32(vsync)
	}
	err := sc.sc.Present(sync, 0)
	if err == nil {
		return false, nil
	}
	if hr, ok := err.(d3d12.HRESULTError); ok {
		switch uint32(hr) {
		case dxgiStatusOccluded:
			return true, nil
		case dxgiErrorDeviceRemoved:
			return false, d.reportDeviceRemoved(sc.device, err)
		}
	}
	return false, fmt.Errorf("d3d12: Present failed: %w", err)
}

func (d *Driver) CurrentBackBufferIndex(swapChainAny any) int {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return 0
	}
	return int(sc.sc.GetCurrentBackBufferIndex())
}

// NewCommandObject allocates one command allocator plus one closed
// ID3D12GraphicsCommandList from it, for rhi/frame.Renderer.
// GetCommandObject's lazy per-(worker, frame-slot) construction. The
// list comes back Close()d immediately since command.Driver.Reset opens
// recording against a specific allocator right before use, mirroring
// rhi/backend/vulkan's VkCommandBuffer lifecycle.
func (d *Driver) NewCommandObject(deviceAny any) (any, error) {
	ld, ok := deviceAny.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("d3d12: NewCommandObject: unexpected device %T", deviceAny)
	}
	alloc, err := ld.dev.CreateCommandAllocator(d3d12.D3D12_COMMAND_LIST_TYPE_DIRECT)
	if err != nil {
		return nil, fmt.Errorf("d3d12: CreateCommandAllocator failed: %w", err)
	}
	list, err := ld.dev.CreateCommandList(0, d3d12.D3D12_COMMAND_LIST_TYPE_DIRECT, alloc, nil)
	if err != nil {
		alloc.Release()
		return nil, fmt.Errorf("d3d12: CreateCommandList failed: %w", err)
	}
	if err := list.Close(); err != nil {
		list.Release()
		alloc.Release()
		return nil, fmt.Errorf("d3d12: Close (new command object) failed: %w", err)
	}
	return &commandObject{allocator: alloc, list: list}, nil
}

// reportDeviceRemoved walks DRED's breadcrumb and page-fault output and
// logs it at rhi.LevelFatal, then returns the GetDeviceRemovedReason
// error for the caller to propagate. Returns nil (meaning "not actually
// a removal") if the device reports no removal, so a caller can treat
// the return value as the authoritative error to surface.
func (d *Driver) reportDeviceRemoved(ld *logicalDevice, cause error) error {
	reason := ld.dev.GetDeviceRemovedReason()
	if reason == nil {
		return cause
	}
	logger := rhi.Logger()
	dred, err := d3d12.QueryDeviceRemovedExtendedData1(ld.dev)
	if err != nil {
		logger.Log(context.Background(), rhi.LevelFatal, "d3d12 device removed; DRED unavailable", "reason", reason, "dred_query_error", err)
		return reason
	}
	defer dred.Release()

	breadcrumbs, err := dred.GetAutoBreadcrumbsOutput1()
	if err == nil {
		node := breadcrumbs.PHeadAutoBreadcrumbNode
		for node != nil {
			logger.Log(context.Background(), rhi.LevelFatal, "d3d12 device removed: breadcrumb node",
				"breadcrumb_count", node.BreadcrumbCount)
			node = node.PNext
		}
	}
	fault, err := dred.GetPageFaultAllocationOutput1()
	if err == nil && fault.PageFaultVA != 0 {
		logger.Log(context.Background(), rhi.LevelFatal, "d3d12 device removed: page fault",
			"fault_va", fmt.Sprintf("0x%016X", fault.PageFaultVA))
	}
	return reason
}
