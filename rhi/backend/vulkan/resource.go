// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/fyuuforge/rhi"
	"github.com/fyuuforge/rhi/rhi/memory"
)

type bufferResource struct {
	device *logicalDevice
	vk     vk.Buffer
	memory vk.DeviceMemory
	size   uint64
}

// CreateResource builds a VkBuffer atop the caller's VideoMemory chunk
// (passed as heapChunk, a *memory.Chunk from rhi/memory — this backend
// treats it opaquely and only needs its owning VkDeviceMemory and
// offset). Texture resources are out of this backend's scope for now;
// ResourceBuffer is the only kind this driver constructs.
func (d *Driver) CreateResource(heapChunk any, w, h, depth uint32, kind rhi.ResourceType) (any, any, error) {
	if kind != rhi.ResourceBuffer {
		return nil, nil, fmt.Errorf("vulkan: CreateResource: texture resources are not yet implemented by this backend")
	}
	chunk, ok := heapChunk.(*memory.Chunk)
	if !ok {
		return nil, nil, fmt.Errorf("vulkan: CreateResource: unexpected memory handle %T", heapChunk)
	}
	hb, ok := chunk.Backing().(*heapBacking)
	if !ok {
		return nil, nil, fmt.Errorf("vulkan: CreateResource: unexpected heap backing %T", chunk.Backing())
	}
	size := uint64(w)
	info := vk.BufferCreateInfo{
		SType: vk.StructureTypeBufferCreateInfo,
		Size:  vk.DeviceSize(size),
		Usage: vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit | vk.BufferUsageIndexBufferBit |
			vk.BufferUsageUniformBufferBit | vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit),
		SharingMode: vk.SharingModeExclusive,
	}
	var buf vk.Buffer
	if res := vk.CreateBuffer(hb.device.vk, &info, nil, &buf); res != vk.Success {
		return nil, nil, fmt.Errorf("vulkan: vkCreateBuffer failed: %d", res)
	}
	if res := vk.BindBufferMemory(hb.device.vk, buf, hb.mem, vk.DeviceSize(chunk.Offset)); res != vk.Success {
		return nil, nil, fmt.Errorf("vulkan: vkBindBufferMemory failed: %d", res)
	}
	return &bufferResource{device: hb.device, vk: buf, memory: hb.mem, size: size}, nil, nil
}

func (d *Driver) CopyBufferToBuffer(queueAny, dstAny, srcAny any, size uint64) error {
	q, ok := queueAny.(*queue)
	if !ok {
		return fmt.Errorf("vulkan: CopyBufferToBuffer: unexpected queue %T", queueAny)
	}
	dst, ok := dstAny.(*bufferResource)
	if !ok {
		return fmt.Errorf("vulkan: CopyBufferToBuffer: unexpected dst %T", dstAny)
	}
	src, ok := srcAny.(*bufferResource)
	if !ok {
		return fmt.Errorf("vulkan: CopyBufferToBuffer: unexpected src %T", srcAny)
	}

	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        q.device.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	buffers := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(q.device.vk, &allocInfo, buffers); res != vk.Success {
		return fmt.Errorf("vulkan: vkAllocateCommandBuffers (copy) failed: %d", res)
	}
	cb := buffers[0]
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	vk.BeginCommandBuffer(cb, &beginInfo)
	region := vk.BufferCopy{Size: vk.DeviceSize(size)}
	vk.CmdCopyBuffer(cb, src.vk, dst.vk, 1, []vk.BufferCopy{region})
	vk.EndCommandBuffer(cb)

	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    buffers,
	}
	q.mu.Lock()
	res := vk.QueueSubmit(q.device.gfxQueue, 1, []vk.SubmitInfo{submit}, vk.NullFence)
	q.mu.Unlock()
	if res != vk.Success {
		return fmt.Errorf("vulkan: vkQueueSubmit (copy) failed: %d", res)
	}
	vk.QueueWaitIdle(q.device.gfxQueue)
	vk.FreeCommandBuffers(q.device.vk, q.device.pool, 1, buffers)
	return nil
}

// MapAndWrite memcpy's data into target's persistently mapped pointer at
// offset. The whole heap block is mapped once at heap-creation time;
// per-allocation writes just address mappedBase+chunkOffset.
func (d *Driver) MapAndWrite(target *rhi.MapTarget, data []byte, offset uint64) error {
	if offset+uint64(len(data)) > target.Size {
		return fmt.Errorf("vulkan: MapAndWrite: write [%d,%d) exceeds mapped region of size %d", offset, offset+uint64(len(data)), target.Size)
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(target.Pointer+uintptr(offset))), len(data))
	copy(dst, data)
	return nil
}
