// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package opengl implements internal/backend.Driver, rhi/frame.Driver and
// rhi/command.Driver atop hal/gles's already-built cross-platform
// OpenGL/GLES binding layer (hal/gles/gl.Context, plus hal/gles/egl on
// Linux and hal/gles/wgl on Windows). It registers itself on import, so
// a blank import of this package is enough to make the "opengl" backend
// tag available to the registry.
//
// Unlike Vulkan and D3D12, OpenGL has no native command-buffer object:
// every gl.Context call executes immediately against whatever context is
// current on the calling OS thread. This backend owns one
// internal/thread.Thread per logical device (mirroring the Main-thread/
// Render-thread split internal/thread already documents) and routes
// every GL call through it via CallVoid/Call, so command recording from
// any goroutine still lands correctly on the one thread the context is
// current on.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/fyuuforge/rhi/internal/backend"
	"github.com/fyuuforge/rhi/rhi/memory"
)

func init() {
	backend.Register(&Driver{})
}

// Driver is the OpenGL backend.Driver.
type Driver struct{}

func (d *Driver) Tag() backend.Tag { return backend.OpenGL }

// EnumeratePhysicalDevices returns a single synthetic adapter: OpenGL has
// no adapter-enumeration API of its own prior to a context existing, the
// same placeholder-adapter gap hal/gles/api.go's and api_linux.go's
// EnumerateAdapters document with their "OpenGL Adapter" fallback. The
// real vendor/renderer string is only known once CreateLogicalDevice has
// opened a context, and is logged there instead of surfaced here.
func (d *Driver) EnumeratePhysicalDevices() ([]backend.PhysicalDeviceInfo, error) {
	return []backend.PhysicalDeviceInfo{{
		Handle:       struct{}{},
		Name:         "OpenGL Adapter",
		DeviceType:   backend.DeviceTypeOther,
		VRAMBytes:    0,
		DriverVendor: "OpenGL 3.3+",
	}}, nil
}

// heapBacking is a CPU-side shadow allocation standing in for a mapped
// device-memory block: gl.Context exposes MapBuffer (whole-buffer) but
// neither MapBufferRange nor CopyBufferSubData, so there is no GL
// primitive for "map a big block once, write at an arbitrary offset"
// the way vkMapMemory/ID3D12Resource::Map give Vulkan and D3D12. Instead
// every category is backed by a plain Go byte slice that MapAndWrite
// writes into directly (identical unsafe-pointer-plus-offset code to the
// other two backends); CreateResource re-uploads the relevant range into
// a real GL buffer object via BufferSubData at bind time (see
// command.go's BindVertexBuffer) and CopyBufferToBuffer copies between
// two shadows directly on the CPU before re-uploading the destination.
type heapBacking struct {
	device *logicalDevice
	shadow []byte
}

// CreateHeap allocates a CPU shadow block of size bytes. mappedBase is
// always non-zero: see heapBacking's doc comment for why this backend
// cannot honor a true host-mapped/device-local split the way Vulkan and
// D3D12 do.
func (d *Driver) CreateHeap(logicalDevice any, size uint64, category int) (any, uintptr, error) {
	ld, ok := logicalDevice.(*logicalDevice)
	if !ok {
		return nil, 0, fmt.Errorf("opengl: CreateHeap: unexpected device handle %T", logicalDevice)
	}
	_ = memory.Category(category)
	shadow := make([]byte, size)
	base := uintptr(0)
	if size > 0 {
		base = uintptr(unsafe.Pointer(&shadow[0]))
	}
	return &heapBacking{device: ld, shadow: shadow}, base, nil
}

// DestroyHeap releases the shadow allocation. There is no native GL
// object to free at the heap level since real GL buffer objects are
// created per-resource in resource.go, not per-heap.
func (d *Driver) DestroyHeap(logicalDevice any, backing any) error {
	hb, ok := backing.(*heapBacking)
	if !ok {
		return fmt.Errorf("opengl: DestroyHeap: unexpected backing %T", backing)
	}
	hb.shadow = nil
	return nil
}

// queue stores none of rhi's CommandQueue kind values (graphics=0,
// compute=1, copy=2); OpenGL has one context and no hardware queues of
// its own, so every kind maps onto the same serialized render thread.
type queue struct {
	device *logicalDevice
}

// CreateQueue returns a queue bound to logicalDevice's single render
// thread. kind/priority are accepted for interface symmetry with Vulkan
// and D3D12 but do not create distinct GL execution contexts: a
// compute-kind queue and a graphics-kind queue both serialize onto the
// same thread.Thread, the same way OpenGL itself has no independent
// hardware queues to expose.
func (d *Driver) CreateQueue(logicalDevice any, kind int, priority int) (backend.QueueOps, error) {
	ld, ok := logicalDevice.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("opengl: CreateQueue: unexpected device handle %T", logicalDevice)
	}
	return &queue{device: ld}, nil
}

// ExecuteCommandLists is a no-op: every GL call a commandObject records
// already executed synchronously (on the render thread) at record time,
// since gl.Context has no deferred command-buffer object to submit
// later. lists is accepted only to satisfy backend.QueueOps.
func (q *queue) ExecuteCommandLists(lists []any) error {
	return nil
}

// Wait blocks until every previously issued GL call has completed on the
// GPU, via glFinish on the render thread.
func (q *queue) Wait(value uint64) error {
	return q.device.onThread(func() error {
		q.device.gl.Finish()
		return nil
	})
}

// Flush is identical to Wait: OpenGL has no timeline value to wait up
// to, only "has everything issued so far completed".
func (q *queue) Flush() error {
	return q.Wait(0)
}
