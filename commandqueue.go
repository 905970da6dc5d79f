// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"

	"github.com/fyuuforge/rhi/internal/backend"
)

// CommandQueue is a typed, prioritized GPU command queue. Concrete
// Wait/Flush/ExecuteCommandLists behaviour is delegated to the driver's
// backend.QueueOps implementation this queue's Tag resolves to; Signal
// only records a value on the queue itself.
type CommandQueue struct {
	tag      backend.Tag
	device   *LogicalDevice
	kind     CommandObjectType
	priority QueuePriority
	ops      backend.QueueOps

	fenceValue uint64
}

func (q *CommandQueue) BackendTag() backend.Tag { return q.tag }

// CreateCommandQueue creates a queue of kind at priority on device.
func CreateCommandQueue(device *LogicalDevice, kind CommandObjectType, priority QueuePriority) (*CommandQueue, ErrorCode) {
	if device == nil {
		return reportError[*CommandQueue](fmt.Errorf("rhi: CreateCommandQueue: %w", errNilHandle))
	}
	drv, err := backend.Require(device)
	if err != nil {
		return reportError[*CommandQueue](err)
	}
	ops, err := drv.CreateQueue(device.handle, int(kind), int(priority))
	if err != nil {
		return reportError[*CommandQueue](err)
	}
	q := &CommandQueue{tag: device.tag, device: device, kind: kind, priority: priority, ops: ops}
	setLastError(Success, nil)
	return q, Success
}

// Signal records value as this queue's fence value, which FenceValue
// returns. It issues no signal command to the backend queue:
// backend.QueueOps has no signal entry point.
func (q *CommandQueue) Signal(value uint64) ErrorCode {
	if q == nil {
		return fail(fmt.Errorf("rhi: CommandQueue.Signal: %w", errNilHandle))
	}
	q.fenceValue = value
	setLastError(Success, nil)
	return Success
}

// Wait blocks until the queue's fence reaches value.
func (q *CommandQueue) Wait(value uint64) ErrorCode {
	if q == nil {
		return fail(fmt.Errorf("rhi: CommandQueue.Wait: %w", errNilHandle))
	}
	if err := q.ops.Wait(value); err != nil {
		return fail(err)
	}
	setLastError(Success, nil)
	return Success
}

// Flush blocks until every command list currently enqueued on q completes.
func (q *CommandQueue) Flush() ErrorCode {
	if q == nil {
		return fail(fmt.Errorf("rhi: CommandQueue.Flush: %w", errNilHandle))
	}
	if err := q.ops.Flush(); err != nil {
		return fail(err)
	}
	setLastError(Success, nil)
	return Success
}

// ExecuteCommandLists submits lists in one backend submit call. rhi/frame
// calls this exactly once per EndFrame, with the frame's drained ready
// queue.
func (q *CommandQueue) ExecuteCommandLists(lists []any) ErrorCode {
	if q == nil {
		return fail(fmt.Errorf("rhi: CommandQueue.ExecuteCommandLists: %w", errNilHandle))
	}
	if err := q.ops.ExecuteCommandLists(lists); err != nil {
		return fail(err)
	}
	setLastError(Success, nil)
	return Success
}

// FenceValue returns the last value passed to Signal.
func (q *CommandQueue) FenceValue() uint64 { return q.fenceValue }

// DestroyCommandQueue releases q.
func DestroyCommandQueue(q *CommandQueue) ErrorCode {
	if q == nil {
		return fail(fmt.Errorf("rhi: DestroyCommandQueue: %w", errNilHandle))
	}
	setLastError(Success, nil)
	return Success
}
