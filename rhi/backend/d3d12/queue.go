// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package d3d12

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"

	"github.com/fyuuforge/rhi/hal/dx12/d3d12"
)

// queue implements backend.QueueOps: the surface rhi.CommandQueue calls
// directly for Wait/Flush/ExecuteCommandLists, independent of the
// batched per-frame submission rhi/frame drives through Driver. Each
// queue owns its own ID3D12Fence/event pair — unlike rhi/backend/vulkan's
// coarse vkQueueWaitIdle, D3D12's fence gives this backend a real
// wait-for-value instead of a full idle flush.
type queue struct {
	device *logicalDevice
	queue  *d3d12.ID3D12CommandQueue

	mu         sync.Mutex
	fence      *d3d12.ID3D12Fence
	event      windows.Handle
	lastValue  uint64
}

func (q *queue) ensureEvent() error {
	if q.event != 0 {
		return nil
	}
	event, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		return fmt.Errorf("d3d12: CreateEvent failed: %w", err)
	}
	q.event = event
	return nil
}

// flushFence signals one new fence value from the queue and blocks until
// the GPU reaches it; used by one-shot submissions like
// CopyBufferToBuffer that need a synchronous wait after ExecuteCommandLists.
func (q *queue) flushFence() error {
	q.mu.Lock()
	q.lastValue++
	target := q.lastValue
	err := q.queue.Signal(q.fence, target)
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("d3d12: Signal failed: %w", err)
	}
	return q.waitValue(target)
}

func (q *queue) waitValue(value uint64) error {
	if q.fence.GetCompletedValue() >= value {
		return nil
	}
	q.mu.Lock()
	if err := q.ensureEvent(); err != nil {
		q.mu.Unlock()
		return err
	}
	if err := q.fence.SetEventOnCompletion(value, uintptr(q.event)); err != nil {
		q.mu.Unlock()
		return fmt.Errorf("d3d12: SetEventOnCompletion failed: %w", err)
	}
	event := q.event
	q.mu.Unlock()
	if _, err := windows.WaitForSingleObject(event, windows.INFINITE); err != nil {
		return fmt.Errorf("d3d12: WaitForSingleObject failed: %w", err)
	}
	return nil
}

func (q *queue) ExecuteCommandLists(lists []any) error {
	if len(lists) == 0 {
		return nil
	}
	cmdLists := make([]*d3d12.ID3D12GraphicsCommandList, 0, len(lists))
	for _, l := range lists {
		cl, ok := l.(*d3d12.ID3D12GraphicsCommandList)
		if !ok {
			return fmt.Errorf("d3d12: ExecuteCommandLists: unexpected list %T", l)
		}
		cmdLists = append(cmdLists, cl)
	}
	q.mu.Lock()
	q.queue.ExecuteCommandLists(uint32(len(cmdLists)), &cmdLists[0])
	q.mu.Unlock()
	return nil
}

// Wait blocks until value has been signaled through this queue's own
// fence by a prior flushFence call (Flush or CopyBufferToBuffer).
func (q *queue) Wait(value uint64) error {
	return q.waitValue(value)
}

func (q *queue) Flush() error {
	return q.flushFence()
}
