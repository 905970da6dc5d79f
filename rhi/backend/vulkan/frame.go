// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"time"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// timelineFence wraps a VK_SEMAPHORE_TYPE_TIMELINE semaphore. This
// package always assumes Vulkan 1.2+ timeline-semaphore support and
// skips a binary-VkFence fallback pool for brevity.
type timelineFence struct {
	device *logicalDevice
	sem    vk.Semaphore
}

// CreateFence implements rhi/frame.Driver: a timeline semaphore initial
// value 0, one per Renderer.
func (d *Driver) CreateFence(deviceAny any) (any, error) {
	ld, ok := deviceAny.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("vulkan: CreateFence: unexpected device %T", deviceAny)
	}
	typeInfo := vk.SemaphoreTypeCreateInfo{
		SType:         vk.StructureTypeSemaphoreTypeCreateInfo,
		SemaphoreType: vk.SemaphoreTypeTimeline,
		InitialValue:  0,
	}
	info := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		PNext: unsafe.Pointer(&typeInfo),
	}
	var sem vk.Semaphore
	if res := vk.CreateSemaphore(ld.vk, &info, nil, &sem); res != vk.Success {
		return nil, fmt.Errorf("vulkan: vkCreateSemaphore (timeline) failed: %d", res)
	}
	return &timelineFence{device: ld, sem: sem}, nil
}

// TestPresentOccluded has no direct Vulkan equivalent (VK_EXT_full_screen_exclusive
// aside); this backend never reports a swap chain occluded and relies on
// VK_ERROR_OUT_OF_DATE_KHR from Present to signal a chain that needs
// recreation instead.
func (d *Driver) TestPresentOccluded(swapChainAny any) (bool, error) {
	return false, nil
}

// WaitFrameLatencyWaitable acquires the next swap-chain image, blocking
// up to timeout. Vulkan has no separate frame-latency waitable object
// the way DXGI does; vkAcquireNextImageKHR plays that role here.
func (d *Driver) WaitFrameLatencyWaitable(swapChainAny any, timeout time.Duration) error {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return fmt.Errorf("vulkan: WaitFrameLatencyWaitable: unexpected handle %T", swapChainAny)
	}
	timeoutNs := uint64(timeout.Nanoseconds())
	if timeoutNs == 0 {
		timeoutNs = ^uint64(0)
	}
	var idx uint32
	res := vk.AcquireNextImage(sc.device.vk, sc.vk, timeoutNs, sc.sem, vk.NullFence, &idx)
	switch res {
	case vk.Success, vk.Suboptimal:
		sc.acquired = idx
		return nil
	default:
		return fmt.Errorf("vulkan: vkAcquireNextImageKHR failed: %d", res)
	}
}

func (d *Driver) WaitFence(fenceAny any, value uint64) error {
	f, ok := fenceAny.(*timelineFence)
	if !ok {
		return fmt.Errorf("vulkan: WaitFence: unexpected handle %T", fenceAny)
	}
	if value == 0 {
		return nil
	}
	waitInfo := vk.SemaphoreWaitInfo{
		SType:          vk.StructureTypeSemaphoreWaitInfo,
		SemaphoreCount: 1,
		PSemaphores:    []vk.Semaphore{f.sem},
		PValues:        []uint64{value},
	}
	if res := vk.WaitSemaphores(f.device.vk, &waitInfo, ^uint64(0)); res != vk.Success {
		return fmt.Errorf("vulkan: vkWaitSemaphores failed: %d", res)
	}
	return nil
}

func (d *Driver) SignalFence(queueAny, fenceAny any, value uint64) (uint64, error) {
	q, ok := queueAny.(*queue)
	if !ok {
		return 0, fmt.Errorf("vulkan: SignalFence: unexpected queue %T", queueAny)
	}
	f, ok := fenceAny.(*timelineFence)
	if !ok {
		return 0, fmt.Errorf("vulkan: SignalFence: unexpected fence %T", fenceAny)
	}
	timelineSubmit := vk.TimelineSemaphoreSubmitInfo{
		SType:                     vk.StructureTypeTimelineSemaphoreSubmitInfo,
		SignalSemaphoreValueCount: 1,
		PSignalSemaphoreValues:    []uint64{value},
	}
	submit := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		PNext:                unsafe.Pointer(&timelineSubmit),
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{f.sem},
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if res := vk.QueueSubmit(q.device.gfxQueue, 1, []vk.SubmitInfo{submit}, vk.NullFence); res != vk.Success {
		return 0, fmt.Errorf("vulkan: vkQueueSubmit (signal) failed: %d", res)
	}
	return value, nil
}

// ExecuteCommandLists is rhi/frame's batched per-frame submit, distinct
// from queue.ExecuteCommandLists which serves direct
// rhi.CommandQueue.ExecuteCommandLists calls.
func (d *Driver) ExecuteCommandLists(queueAny any, lists []any) error {
	q, ok := queueAny.(*queue)
	if !ok {
		return fmt.Errorf("vulkan: ExecuteCommandLists: unexpected queue %T", queueAny)
	}
	return q.ExecuteCommandLists(lists)
}

func (d *Driver) Present(swapChainAny any, vsync int) (bool, error) {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return false, fmt.Errorf("vulkan: Present: unexpected handle %T", swapChainAny)
	}
	presentInfo := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{sc.vk},
		PImageIndices:  []uint32{sc.acquired},
	}
	res := vk.QueuePresent(sc.device.gfxQueue, &presentInfo)
	switch res {
	case vk.Success, vk.Suboptimal:
		return false, nil
	case vk.ErrorOutOfDate:
		return true, nil
	default:
		return false, fmt.Errorf("vulkan: vkQueuePresentKHR failed: %d", res)
	}
}

func (d *Driver) CurrentBackBufferIndex(swapChainAny any) int {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return 0
	}
	return int(sc.acquired)
}

// NewCommandObject allocates one primary VkCommandBuffer from device's
// command pool, for rhi/frame.Renderer.GetCommandObject's lazy per-
// (worker, frame-slot) construction.
func (d *Driver) NewCommandObject(deviceAny any) (any, error) {
	ld, ok := deviceAny.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("vulkan: NewCommandObject: unexpected device %T", deviceAny)
	}
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        ld.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	buffers := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(ld.vk, &allocInfo, buffers); res != vk.Success {
		return nil, fmt.Errorf("vulkan: vkAllocateCommandBuffers failed: %d", res)
	}
	return buffers[0], nil
}
