// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"

	"github.com/fyuuforge/rhi/internal/backend"
)

// Resource is a buffer or image backed by a VideoMemory region. Exactly
// one of bufferHandle/textureHandle is set, matching ResourceType.
type Resource struct {
	tag    backend.Tag
	memory *VideoMemory
	width  uint32
	height uint32
	depth  uint32
	kind   ResourceType

	bufferHandle  any
	textureHandle any
}

func (r *Resource) BackendTag() backend.Tag { return r.tag }

type resourceDriver interface {
	CreateResource(memory any, w, h, d uint32, kind ResourceType) (bufferHandle, textureHandle any, err error)
	CopyBufferToBuffer(queue any, dst, src any, size uint64) error
	MapAndWrite(chunk *MapTarget, data []byte, offset uint64) error
}

// MapTarget is the subset of a VideoMemory's chunk a driver needs to
// perform a HostVisible map/memcpy: a mapped base pointer and the chunk's
// byte length, used to bounds-check offset+len(data).
type MapTarget struct {
	Pointer uintptr
	Size    uint64
}

// CreateResource builds a Resource of the given dimensions and kind atop
// mem.
func CreateResource(mem *VideoMemory, width, height, depth uint32, kind ResourceType) (*Resource, ErrorCode) {
	if mem == nil {
		return reportError[*Resource](fmt.Errorf("rhi: CreateResource: %w", errNilHandle))
	}
	if kind != ResourceEmpty && (width == 0 || height == 0 || depth == 0) {
		return reportError[*Resource](fmt.Errorf("rhi: CreateResource: %w", backend.ErrZeroArea))
	}
	if mem.boundResources.Load() != 0 {
		return reportError[*Resource](fmt.Errorf("rhi: CreateResource: VideoMemory already has a live Resource"))
	}
	drv, err := backend.Require(mem)
	if err != nil {
		return reportError[*Resource](err)
	}
	rd, ok := drv.(resourceDriver)
	if !ok {
		return reportError[*Resource](fmt.Errorf("rhi: %s: resource creation: %w", mem.tag, backend.ErrNotRegistered))
	}
	bufferHandle, textureHandle, err := rd.CreateResource(mem.chunk, width, height, depth, kind)
	if err != nil {
		return reportError[*Resource](err)
	}
	mem.boundResources.Add(1)
	r := &Resource{
		tag: mem.tag, memory: mem, width: width, height: height, depth: depth, kind: kind,
		bufferHandle: bufferHandle, textureHandle: textureHandle,
	}
	setLastError(Success, nil)
	return r, Success
}

// SetBufferData writes data into r at offset, dispatching by r's
// VideoMemory type: HostVisible maps and memcpy's directly; DeviceLocal
// allocates a staging HostVisible resource, records a copy on copyQueue,
// and waits for it to complete.
func SetBufferData(r *Resource, device *LogicalDevice, copyQueue *CommandQueue, data []byte, offset uint64) ErrorCode {
	if r == nil || device == nil || copyQueue == nil {
		return fail(fmt.Errorf("rhi: SetBufferData: %w", errNilHandle))
	}
	if len(data) == 0 {
		// A zero-byte HostVisible write is a no-op success; DeviceLocal
		// has nothing to stage either way.
		setLastError(Success, nil)
		return Success
	}
	drv, err := backend.Require(r, device, copyQueue)
	if err != nil {
		return fail(err)
	}
	rd, ok := drv.(resourceDriver)
	if !ok {
		return fail(fmt.Errorf("rhi: %s: SetBufferData: %w", r.tag, backend.ErrNotRegistered))
	}

	switch r.memory.kind {
	case HostVisible:
		target := &MapTarget{Pointer: r.memory.chunk.MappedPointer(), Size: r.memory.chunk.Size}
		if err := rd.MapAndWrite(target, data, offset); err != nil {
			return fail(err)
		}
	default:
		staging, code := AllocateVideoMemory(device, uint64(len(data)), r.memory.usage, HostVisible)
		if code != Success {
			return code
		}
		defer DestroyVideoMemory(staging)
		stagingRes, code := CreateResource(staging, uint32(len(data)), 1, 1, ResourceBuffer)
		if code != Success {
			return code
		}
		defer DestroyResource(stagingRes)

		target := &MapTarget{Pointer: staging.chunk.MappedPointer(), Size: staging.chunk.Size}
		if err := rd.MapAndWrite(target, data, 0); err != nil {
			return fail(err)
		}
		if err := rd.CopyBufferToBuffer(copyQueue.ops, r.bufferHandle, stagingRes.bufferHandle, uint64(len(data))); err != nil {
			return fail(err)
		}
		if code := copyQueue.Flush(); code != Success {
			return code
		}
	}
	setLastError(Success, nil)
	return Success
}

// DestroyResource releases r and clears its VideoMemory's bound flag.
func DestroyResource(r *Resource) ErrorCode {
	if r == nil {
		return fail(fmt.Errorf("rhi: DestroyResource: %w", errNilHandle))
	}
	r.memory.boundResources.Add(-1)
	setLastError(Success, nil)
	return Success
}
