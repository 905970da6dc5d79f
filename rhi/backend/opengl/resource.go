// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package opengl

import (
	"fmt"
	"unsafe"

	"github.com/fyuuforge/rhi"
	"github.com/fyuuforge/rhi/hal/gles/gl"
	"github.com/fyuuforge/rhi/rhi/memory"
)

// bufferResource is a real GL buffer object sized to one chunk of a
// heap's shadow allocation, plus a reference back to that shadow so
// command.go's bind path can re-upload it. glBuffer is created eagerly
// from whatever bytes are in the shadow at CreateResource time (usually
// zero); MapAndWrite's writes into the shadow are only pushed to the GPU
// the next time this resource is bound (see command.go's
// BindVertexBuffer) or copied into (see CopyBufferToBuffer below).
type bufferResource struct {
	device   *logicalDevice
	glBuffer uint32
	shadow   []byte
	offset   uint64
	size     uint64
}

// CreateResource builds a GL buffer object atop the caller's VideoMemory
// chunk. Texture resources are out of this backend's scope for now,
// matching rhi/backend/vulkan's own current restriction.
func (d *Driver) CreateResource(heapChunk any, w, h, depth uint32, kind rhi.ResourceType) (any, any, error) {
	if kind != rhi.ResourceBuffer {
		return nil, nil, fmt.Errorf("opengl: CreateResource: texture resources are not yet implemented by this backend")
	}
	chunk, ok := heapChunk.(*memory.Chunk)
	if !ok {
		return nil, nil, fmt.Errorf("opengl: CreateResource: unexpected memory handle %T", heapChunk)
	}
	hb, ok := chunk.Backing().(*heapBacking)
	if !ok {
		return nil, nil, fmt.Errorf("opengl: CreateResource: unexpected heap backing %T", chunk.Backing())
	}
	size := uint64(w)
	res := &bufferResource{device: hb.device, shadow: hb.shadow, offset: chunk.Offset, size: size}
	err := hb.device.onThread(func() error {
		res.glBuffer = hb.device.gl.GenBuffers(1)
		hb.device.gl.BindBuffer(gl.ARRAY_BUFFER, res.glBuffer)
		var ptr unsafe.Pointer
		if size > 0 {
			ptr = unsafe.Pointer(&hb.shadow[chunk.Offset])
		}
		hb.device.gl.BufferData(gl.ARRAY_BUFFER, int(size), ptr, gl.DYNAMIC_DRAW)
		hb.device.gl.BindBuffer(gl.ARRAY_BUFFER, 0)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opengl: CreateResource: %w", err)
	}
	return res, nil, nil
}

// upload re-pushes res's current shadow range into its GL buffer via
// BufferSubData. Called from the render thread only.
func (res *bufferResource) upload() {
	ctx := res.device.gl
	ctx.BindBuffer(gl.ARRAY_BUFFER, res.glBuffer)
	var ptr unsafe.Pointer
	if res.size > 0 {
		ptr = unsafe.Pointer(&res.shadow[res.offset])
	}
	ctx.BufferSubData(gl.ARRAY_BUFFER, 0, int(res.size), ptr)
	ctx.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// CopyBufferToBuffer copies src's current shadow bytes into dst's shadow
// range on the CPU, then re-uploads dst's GL buffer — there is no
// glCopyBufferSubData bound on gl.Context to do this GPU-side, so the
// copy happens the same place MapAndWrite's writes live.
func (d *Driver) CopyBufferToBuffer(queueAny, dstAny, srcAny any, size uint64) error {
	dst, ok := dstAny.(*bufferResource)
	if !ok {
		return fmt.Errorf("opengl: CopyBufferToBuffer: unexpected dst %T", dstAny)
	}
	src, ok := srcAny.(*bufferResource)
	if !ok {
		return fmt.Errorf("opengl: CopyBufferToBuffer: unexpected src %T", srcAny)
	}
	if size > dst.size {
		size = dst.size
	}
	if size > src.size {
		size = src.size
	}
	return dst.device.onThread(func() error {
		copy(dst.shadow[dst.offset:dst.offset+size], src.shadow[src.offset:src.offset+size])
		dst.upload()
		return nil
	})
}

// MapAndWrite memcpy's data into target's shadow allocation at offset.
// This does not touch the GPU directly; the write reaches the real GL
// buffer the next time that resource is bound or copied into.
func (d *Driver) MapAndWrite(target *rhi.MapTarget, data []byte, offset uint64) error {
	if offset+uint64(len(data)) > target.Size {
		return fmt.Errorf("opengl: MapAndWrite: write [%d,%d) exceeds mapped region of size %d", offset, offset+uint64(len(data)), target.Size)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(target.Pointer+uintptr(offset))), len(data))
	copy(dst, data)
	return nil
}
