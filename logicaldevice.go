// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"

	"github.com/fyuuforge/rhi/internal/backend"
	"github.com/fyuuforge/rhi/rhi/memory"
)

// LogicalDevice is the virtual device plus its command queues, heap pools
// and (Vulkan) dynamic dispatcher. One per application. Device-removed
// reporting (currently D3D12 only, via DRED) happens inline at the
// fence-wait/signal/present call that observed the failure rather than
// through a separate background watcher — see rhi/backend/d3d12's
// reportDeviceRemoved, which has the DRED breadcrumb/page-fault context
// a generic poller here would not.
type LogicalDevice struct {
	tag       backend.Tag
	driver    backend.Driver
	handle    any
	allocator *memory.Allocator
}

// heapDriverAdapter satisfies memory.Driver by delegating to the
// backend.Driver that created this device, keeping internal/backend free
// of a dependency on rhi/memory's Category type.
type heapDriverAdapter struct {
	driver backend.Driver
	handle any
}

func (a heapDriverAdapter) CreateHeap(size uint64, category memory.Category) (any, uintptr, error) {
	return a.driver.CreateHeap(a.handle, size, int(category))
}

func (a heapDriverAdapter) DestroyHeap(backing any) error {
	return a.driver.DestroyHeap(a.handle, backing)
}

func (d *LogicalDevice) BackendTag() backend.Tag { return d.tag }

// CreateLogicalDevice opens a logical device against physicalDevice.
func CreateLogicalDevice(physicalDevice *PhysicalDevice) (*LogicalDevice, ErrorCode) {
	if physicalDevice == nil {
		return reportError[*LogicalDevice](fmt.Errorf("rhi: CreateLogicalDevice: %w", errNilHandle))
	}
	drv, err := backend.Require(physicalDevice)
	if err != nil {
		return reportError[*LogicalDevice](err)
	}
	handle, err := drv.CreateLogicalDevice(physicalDevice.info.Handle)
	if err != nil {
		return reportError[*LogicalDevice](err)
	}
	d := &LogicalDevice{
		tag:    physicalDevice.tag,
		driver: drv,
		handle: handle,
	}
	d.allocator = memory.NewAllocator(heapDriverAdapter{driver: drv, handle: handle}, memory.DefaultConfig())
	setLastError(Success, nil)
	return d, Success
}

// DestroyLogicalDevice releases d. d must not be used afterward.
func DestroyLogicalDevice(d *LogicalDevice) ErrorCode {
	if d == nil {
		return fail(fmt.Errorf("rhi: DestroyLogicalDevice: %w", errNilHandle))
	}
	if err := d.allocator.Destroy(); err != nil {
		return fail(err)
	}
	if err := d.driver.DestroyLogicalDevice(d.handle); err != nil {
		return fail(err)
	}
	setLastError(Success, nil)
	return Success
}
