// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/fyuuforge/rhi/internal/backend"
	"github.com/fyuuforge/rhi/rhi/memory"
)

// VideoMemory is a lease on bytes from a LogicalDevice's heap pools,
// typed by Usage and Type. At most one live Resource may be bound to a
// VideoMemory at a time.
type VideoMemory struct {
	tag      backend.Tag
	device   *LogicalDevice
	category memory.Category
	chunk    *memory.Chunk
	usage    VideoMemoryUsage
	kind     VideoMemoryType

	boundResources atomic.Int32
}

func (v *VideoMemory) BackendTag() backend.Tag { return v.tag }

func categoryFor(usage VideoMemoryUsage, size uint64) memory.Category {
	switch usage {
	case UsageVertexBuffer, UsageIndexBuffer, UsageConstantBuffer:
		return memory.BufferCategory(size)
	case UsageTexture1D, UsageTexture2D, UsageTexture3D:
		return memory.TextureCategory(size)
	default:
		return memory.Custom
	}
}

// AllocateVideoMemory leases size bytes of kind usage/memType from device.
func AllocateVideoMemory(device *LogicalDevice, size uint64, usage VideoMemoryUsage, memType VideoMemoryType) (*VideoMemory, ErrorCode) {
	if device == nil {
		return reportError[*VideoMemory](fmt.Errorf("rhi: AllocateVideoMemory: %w", errNilHandle))
	}
	// HostVisible/DeviceReadback leases draw from the Upload/ReadBack
	// pools regardless of logical usage; DeviceLocal leases are
	// categorized by usage.
	var cat memory.Category
	switch memType {
	case HostVisible:
		cat = memory.Upload
	case DeviceReadback:
		cat = memory.ReadBack
	default:
		cat = categoryFor(usage, size)
	}

	chunk, err := device.allocator.Alloc(cat, size, 0)
	if err != nil {
		if errors.Is(err, memory.ErrZeroSize) {
			return reportError[*VideoMemory](fmt.Errorf("rhi: AllocateVideoMemory: %w", err))
		}
		return reportError[*VideoMemory](fmt.Errorf("rhi: AllocateVideoMemory: %w", backend.ErrOutOfMemory))
	}

	v := &VideoMemory{tag: device.tag, device: device, category: cat, chunk: chunk, usage: usage, kind: memType}
	setLastError(Success, nil)
	return v, Success
}

// DestroyVideoMemory releases v, spin-waiting while a Resource is still
// bound to v: a short busy-yield loop, then parking until the bound flag
// clears, rather than failing or silently releasing memory still in use.
func DestroyVideoMemory(v *VideoMemory) ErrorCode {
	if v == nil {
		return fail(fmt.Errorf("rhi: DestroyVideoMemory: %w", errNilHandle))
	}
	const spinThreshold = 100
	for i := 0; v.boundResources.Load() != 0; i++ {
		if i >= spinThreshold {
			runtime.Gosched()
		}
	}
	if err := v.device.allocator.Free(v.category, v.chunk); err != nil {
		return fail(err)
	}
	setLastError(Success, nil)
	return Success
}
