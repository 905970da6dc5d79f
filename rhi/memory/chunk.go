// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package memory

// Chunk is a (heap, offset, size) triple. A live Chunk returned by
// Pool.Allocate is owned by the caller's Resource until passed back to
// Pool.Free; it carries the HeapEntry it was cut from so Free can locate
// the right free-chunk list without a pool-wide search.
type Chunk struct {
	entry  *HeapEntry
	Offset uint64
	Size   uint64
}

// MappedPointer returns the host-visible address backing this chunk, or 0
// if the owning pool's category isn't persistently mapped (Category.Mapped).
func (c *Chunk) MappedPointer() uintptr {
	if c.entry.mappedBase == 0 {
		return 0
	}
	return c.entry.mappedBase + uintptr(c.Offset)
}

// Backing returns the driver-specific handle (VkDeviceMemory, ID3D12Heap,
// a GL buffer name) of the HeapEntry this chunk was cut from, so a
// backend package creating a resource atop this chunk can bind it
// without the memory package needing to know any backend's handle type.
func (c *Chunk) Backing() any {
	return c.entry.Backing
}
