// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package memory

import (
	"errors"
	"fmt"
	"sync"
)

// ErrExhausted is returned by Allocate when growing a new heap still
// cannot satisfy the request (practically unreachable, since a new heap
// is always sized to at least the request, but kept as a defensive
// sentinel for driver-level heap-creation limits).
var ErrExhausted = errors.New("memory: pool exhausted")

// ErrZeroSize is returned by Allocate(0, ...); the rhi root package
// classifies it as InvalidParameter.
var ErrZeroSize = errors.New("memory: allocation size must be non-zero")

// Driver creates and destroys the backend-specific memory blocks a Pool
// carves into Chunks. Vulkan backs this with vkAllocateMemory (optionally
// vkMapMemory for Upload/ReadBack categories), D3D12 with
// ID3D12Device.CreateHeap, OpenGL with a persistently-mapped buffer object.
type Driver interface {
	CreateHeap(size uint64, category Category) (backing any, mappedBase uintptr, err error)
	DestroyHeap(backing any) error
}

// Stats reports a Pool's current utilization.
type Stats struct {
	Category        Category
	BlockCount      int
	TotalBytes      uint64
	FreeBytes       uint64
	AllocationCount int
}

// Pool is a best-fit, coalescing suballocator over one or more HeapEntry
// blocks, all belonging to one Category. Guarded by one mutex per pool.
type Pool struct {
	mu   sync.Mutex
	drv  Driver
	cat  Category

	blockSize     uint64
	minAllocation uint64

	entries []*HeapEntry
	liveAllocations int
}

// NewPool creates an empty pool for category, backed by drv. blockSize and
// minAllocation default to category.DefaultBlockSize() and 1 respectively
// when zero.
func NewPool(drv Driver, category Category, blockSize, minAllocation uint64) *Pool {
	if blockSize == 0 {
		blockSize = category.DefaultBlockSize()
	}
	if minAllocation == 0 {
		minAllocation = 1
	}
	return &Pool{drv: drv, cat: category, blockSize: blockSize, minAllocation: minAllocation}
}

// Allocate reserves size bytes aligned to alignment: compute the
// aligned size, best-fit across every entry's free ranges, split the
// winner, or grow a new heap sized max(blockSize, size*2) and retry
// once against it.
func (p *Pool) Allocate(size, alignment uint64) (*Chunk, error) {
	if size == 0 {
		return nil, fmt.Errorf("memory: %s: %w", p.cat, ErrZeroSize)
	}
	aligned := alignUp(size, p.minAllocation)
	if alignment < p.minAllocation {
		alignment = p.minAllocation
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.tryAllocateLocked(aligned, alignment); ok {
		p.liveAllocations++
		return c, nil
	}

	grow := p.blockSize
	if want := aligned * 2; want > grow {
		grow = want
	}
	entry, err := p.growLocked(grow)
	if err != nil {
		return nil, fmt.Errorf("memory: %s: %w", p.cat, err)
	}
	idx, offset, ok := entry.bestFit(aligned, alignment)
	if !ok {
		return nil, fmt.Errorf("memory: %s: %w", p.cat, ErrExhausted)
	}
	p.liveAllocations++
	return entry.split(idx, offset, aligned), nil
}

func (p *Pool) tryAllocateLocked(size, alignment uint64) (*Chunk, bool) {
	var bestEntry *HeapEntry
	bestIdx := -1
	var bestOffset uint64
	bestWaste := ^uint64(0)

	for _, e := range p.entries {
		idx, offset, ok := e.bestFit(size, alignment)
		if !ok {
			continue
		}
		r := e.free[idx]
		waste := r.size - (offset - r.offset) - size
		if waste < bestWaste {
			bestWaste = waste
			bestEntry = e
			bestIdx = idx
			bestOffset = offset
		}
	}
	if bestEntry == nil {
		return nil, false
	}
	return bestEntry.split(bestIdx, bestOffset, size), true
}

func (p *Pool) growLocked(size uint64) (*HeapEntry, error) {
	backing, mapped, err := p.drv.CreateHeap(size, p.cat)
	if err != nil {
		return nil, err
	}
	entry := newHeapEntry(backing, size, mapped)
	p.entries = append(p.entries, entry)
	return entry, nil
}

// Free returns chunk's bytes to its owning entry's free list, coalescing
// adjacent free ranges.
func (p *Pool) Free(chunk *Chunk) error {
	if chunk == nil || chunk.entry == nil {
		return fmt.Errorf("memory: Free: %w", errNilChunk)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	chunk.entry.release(chunk.Offset, chunk.Size)
	p.liveAllocations--
	return nil
}

// Stats returns a snapshot of the pool's current utilization.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Stats{Category: p.cat, BlockCount: len(p.entries), AllocationCount: p.liveAllocations}
	for _, e := range p.entries {
		s.TotalBytes += e.Size
		s.FreeBytes += e.freeBytes()
	}
	return s
}

// Destroy releases every heap this pool owns. It is undefined to call
// Destroy while any Chunk it handed out is still live; callers are
// expected to have freed everything first.
func (p *Pool) Destroy() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for _, e := range p.entries {
		if err := p.drv.DestroyHeap(e.Backing); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.entries = nil
	return firstErr
}

var errNilChunk = errors.New("nil chunk or chunk not owned by this pool")
