// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package d3d12

import (
	"fmt"
	"unsafe"

	"github.com/fyuuforge/rhi"
	"github.com/fyuuforge/rhi/hal/dx12/d3d12"
	"github.com/fyuuforge/rhi/hal/dx12/dxgi"
	"github.com/fyuuforge/rhi/rhi/memory"
)

type bufferResource struct {
	device *logicalDevice
	res    *d3d12.ID3D12Resource
	size   uint64
}

// CreateResource builds an ID3D12Resource atop the caller's VideoMemory
// chunk (passed as heapChunk, a *memory.Chunk from rhi/memory — this
// backend treats it opaquely and only needs its owning ID3D12Heap and
// offset). Texture resources are out of this backend's scope for now,
// matching rhi/backend/vulkan; ResourceBuffer is the only kind this
// driver constructs.
func (d *Driver) CreateResource(heapChunk any, w, h, depth uint32, kind rhi.ResourceType) (any, any, error) {
	if kind != rhi.ResourceBuffer {
		return nil, nil, fmt.Errorf("d3d12: CreateResource: texture resources are not yet implemented by this backend")
	}
	chunk, ok := heapChunk.(*memory.Chunk)
	if !ok {
		return nil, nil, fmt.Errorf("d3d12: CreateResource: unexpected memory handle %T", heapChunk)
	}
	hb, ok := chunk.Backing().(*heapBacking)
	if !ok {
		return nil, nil, fmt.Errorf("d3d12: CreateResource: unexpected heap backing %T", chunk.Backing())
	}
	size := uint64(w)
	desc := &d3d12.D3D12_RESOURCE_DESC{
		Dimension:        d3d12.D3D12_RESOURCE_DIMENSION_BUFFER,
		Width:            size,
		Height:           1,
		DepthOrArraySize: 1,
		MipLevels:        1,
		Format:           dxgi.DXGI_FORMAT_UNKNOWN,
		SampleDesc:       dxgi.DXGI_SAMPLE_DESC{Count: 1},
		Layout:           d3d12.D3D12_TEXTURE_LAYOUT_ROW_MAJOR,
	}
	res, err := hb.device.dev.CreatePlacedResource(hb.heap, chunk.Offset, desc, d3d12.D3D12_RESOURCE_STATE_COMMON, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("d3d12: CreatePlacedResource failed: %w", err)
	}
	return &bufferResource{device: hb.device, res: res, size: size}, nil, nil
}

// CopyBufferToBuffer issues a one-shot command list copying size bytes
// from src into dst and blocks until the GPU fence it signals completes
// — the same one-shot-submit-and-wait shape rhi/backend/vulkan uses for
// this call, just built from an allocator+list+fence triple instead of a
// pooled command buffer.
func (d *Driver) CopyBufferToBuffer(queueAny, dstAny, srcAny any, size uint64) error {
	q, ok := queueAny.(*queue)
	if !ok {
		return fmt.Errorf("d3d12: CopyBufferToBuffer: unexpected queue %T", queueAny)
	}
	dst, ok := dstAny.(*bufferResource)
	if !ok {
		return fmt.Errorf("d3d12: CopyBufferToBuffer: unexpected dst %T", dstAny)
	}
	src, ok := srcAny.(*bufferResource)
	if !ok {
		return fmt.Errorf("d3d12: CopyBufferToBuffer: unexpected src %T", srcAny)
	}

	alloc, err := q.device.dev.CreateCommandAllocator(d3d12.D3D12_COMMAND_LIST_TYPE_DIRECT)
	if err != nil {
		return fmt.Errorf("d3d12: CreateCommandAllocator (copy) failed: %w", err)
	}
	defer alloc.Release()
	list, err := q.device.dev.CreateCommandList(0, d3d12.D3D12_COMMAND_LIST_TYPE_DIRECT, alloc, nil)
	if err != nil {
		return fmt.Errorf("d3d12: CreateCommandList (copy) failed: %w", err)
	}
	defer list.Release()

	list.CopyBufferRegion(dst.res, 0, src.res, 0, size)
	if err := list.Close(); err != nil {
		return fmt.Errorf("d3d12: Close (copy) failed: %w", err)
	}

	lists := []*d3d12.ID3D12GraphicsCommandList{list}
	q.mu.Lock()
	q.queue.ExecuteCommandLists(1, &lists[0])
	q.mu.Unlock()
	return q.flushFence()
}

// MapAndWrite memcpy's data into target's persistently mapped pointer at
// offset. The whole heap block is mapped once at heap-creation time via
// the committed buffer CreateHeap places across it; per-allocation
// writes just address mappedBase+chunkOffset, the same scheme
// rhi/backend/vulkan uses for its host-visible heaps.
func (d *Driver) MapAndWrite(target *rhi.MapTarget, data []byte, offset uint64) error {
	if offset+uint64(len(data)) > target.Size {
		return fmt.Errorf("d3d12: MapAndWrite: write [%d,%d) exceeds mapped region of size %d", offset, offset+uint64(len(data)), target.Size)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(target.Pointer+uintptr(offset))), len(data))
	copy(dst, data)
	return nil
}
