// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"sync"

	vk "github.com/vulkan-go/vulkan"
)

// queue implements backend.QueueOps: the surface rhi.CommandQueue calls
// directly for Wait/Flush/ExecuteCommandLists, independent of the
// batched per-frame submission rhi/frame drives through Driver.
type queue struct {
	device *logicalDevice

	mu        sync.Mutex
	fence     vk.Fence
	hasFence  bool
	lastValue uint64
}

func (q *queue) ensureFence() error {
	if q.hasFence {
		return nil
	}
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	var fence vk.Fence
	if res := vk.CreateFence(q.device.vk, &info, nil, &fence); res != vk.Success {
		return fmt.Errorf("vulkan: vkCreateFence failed: %d", res)
	}
	q.fence = fence
	q.hasFence = true
	return nil
}

func (q *queue) ExecuteCommandLists(lists []any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(lists) == 0 {
		return nil
	}
	buffers := make([]vk.CommandBuffer, 0, len(lists))
	for _, l := range lists {
		cb, ok := l.(vk.CommandBuffer)
		if !ok {
			return fmt.Errorf("vulkan: ExecuteCommandLists: unexpected list %T", l)
		}
		buffers = append(buffers, cb)
	}
	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(buffers)),
		PCommandBuffers:    buffers,
	}
	if res := vk.QueueSubmit(q.device.gfxQueue, 1, []vk.SubmitInfo{submit}, vk.NullFence); res != vk.Success {
		return fmt.Errorf("vulkan: vkQueueSubmit failed: %d", res)
	}
	return nil
}

// Wait blocks until value has been reached. Since q has no timeline
// semaphore of its own (rhi/frame owns the per-renderer fence), Wait is
// implemented as a full vkQueueWaitIdle: a coarser but correct wait-for-
// value for the direct CommandQueue.Wait entry point.
func (q *queue) Wait(value uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if value <= q.lastValue {
		return nil
	}
	if res := vk.QueueWaitIdle(q.device.gfxQueue); res != vk.Success {
		return fmt.Errorf("vulkan: vkQueueWaitIdle failed: %d", res)
	}
	q.lastValue = value
	return nil
}

func (q *queue) Flush() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if res := vk.QueueWaitIdle(q.device.gfxQueue); res != vk.Success {
		return fmt.Errorf("vulkan: vkQueueWaitIdle failed: %d", res)
	}
	return nil
}
