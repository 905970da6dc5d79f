// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package memory

import "sort"

// freeRange is one entry in a HeapEntry's free list: a span of bytes not
// currently covered by any live Chunk.
type freeRange struct {
	offset uint64
	size   uint64
}

// HeapEntry is one backend-allocated block of device/host memory, carved
// up by Pool.Allocate/Free. Backing is the driver-specific handle
// (VkDeviceMemory, ID3D12Heap, a GL buffer name) the Pool never inspects.
type HeapEntry struct {
	Backing    any
	Size       uint64
	mappedBase uintptr // 0 unless this category is persistently mapped

	free []freeRange
}

func newHeapEntry(backing any, size uint64, mappedBase uintptr) *HeapEntry {
	return &HeapEntry{
		Backing:    backing,
		Size:       size,
		mappedBase: mappedBase,
		free:       []freeRange{{offset: 0, size: size}},
	}
}

// bestFit finds the free range in this entry with the smallest leftover
// waste that can satisfy size bytes aligned to alignment, returning its
// index and the aligned offset within it. ok is false if no range fits.
func (h *HeapEntry) bestFit(size, alignment uint64) (idx int, alignedOffset uint64, ok bool) {
	bestWaste := ^uint64(0)
	bestIdx := -1
	var bestOffset uint64
	for i, r := range h.free {
		aligned := alignUp(r.offset, alignment)
		padding := aligned - r.offset
		required := padding + size
		if required > r.size {
			continue
		}
		waste := r.size - required
		if waste < bestWaste {
			bestWaste = waste
			bestIdx = i
			bestOffset = aligned
		}
	}
	if bestIdx < 0 {
		return 0, 0, false
	}
	return bestIdx, bestOffset, true
}

// split removes free range idx and re-adds whatever front padding and back
// remainder it doesn't consume, returning the allocated Chunk.
func (h *HeapEntry) split(idx int, alignedOffset, size uint64) *Chunk {
	r := h.free[idx]
	h.free = append(h.free[:idx], h.free[idx+1:]...)

	if front := alignedOffset - r.offset; front > 0 {
		h.free = append(h.free, freeRange{offset: r.offset, size: front})
	}
	allocEnd := alignedOffset + size
	rangeEnd := r.offset + r.size
	if back := rangeEnd - allocEnd; back > 0 {
		h.free = append(h.free, freeRange{offset: allocEnd, size: back})
	}

	return &Chunk{entry: h, Offset: alignedOffset, Size: size}
}

// release adds a freed chunk's bytes back to the free list and coalesces
// adjacent ranges: append, sort by offset, walk once merging touching
// pairs, repeat until a pass makes no merges.
func (h *HeapEntry) release(offset, size uint64) {
	h.free = append(h.free, freeRange{offset: offset, size: size})
	for {
		sort.Slice(h.free, func(i, j int) bool { return h.free[i].offset < h.free[j].offset })
		merged := false
		out := h.free[:0:0]
		for i := 0; i < len(h.free); i++ {
			cur := h.free[i]
			for i+1 < len(h.free) && cur.offset+cur.size == h.free[i+1].offset {
				cur.size += h.free[i+1].size
				i++
				merged = true
			}
			out = append(out, cur)
		}
		h.free = out
		if !merged {
			return
		}
	}
}

// freeBytes sums every free range in this entry.
func (h *HeapEntry) freeBytes() uint64 {
	var total uint64
	for _, r := range h.free {
		total += r.size
	}
	return total
}

func alignUp(v, alignment uint64) uint64 {
	if alignment <= 1 {
		return v
	}
	return (v + alignment - 1) / alignment * alignment
}
