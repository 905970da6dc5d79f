// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package memory

import "sync"

// AllocatorConfig overrides per-category block sizes and minimum
// allocation alignment. The fields here are keyed by Category rather
// than a single blanket BlockSize, since each category has its own
// default.
type AllocatorConfig struct {
	BlockSizes    map[Category]uint64
	MinAllocation uint64
}

// DefaultConfig returns an AllocatorConfig using each Category's
// DefaultBlockSize and a 256 KiB minimum allocation.
func DefaultConfig() AllocatorConfig {
	return AllocatorConfig{MinAllocation: 256 << 10}
}

func (c AllocatorConfig) blockSize(cat Category) uint64 {
	if c.BlockSizes != nil {
		if v, ok := c.BlockSizes[cat]; ok {
			return v
		}
	}
	return cat.DefaultBlockSize()
}

// Allocator owns one Pool per Category, created lazily on first use.
// Grounded on hal/vulkan/memory/allocator.go's GpuAllocator (same pools/
// mutex/config shape; the pool's own suballocation strategy is best-fit,
// not buddy — see pool.go).
type Allocator struct {
	mu     sync.Mutex
	drv    Driver
	config AllocatorConfig
	pools  map[Category]*Pool
}

// NewAllocator creates an Allocator backed by drv.
func NewAllocator(drv Driver, config AllocatorConfig) *Allocator {
	return &Allocator{drv: drv, config: config, pools: make(map[Category]*Pool)}
}

func (a *Allocator) poolFor(cat Category) *Pool {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pools[cat]
	if !ok {
		p = NewPool(a.drv, cat, a.config.blockSize(cat), a.config.MinAllocation)
		a.pools[cat] = p
	}
	return p
}

// Alloc reserves size bytes aligned to alignment from category's pool.
func (a *Allocator) Alloc(category Category, size, alignment uint64) (*Chunk, error) {
	return a.poolFor(category).Allocate(size, alignment)
}

// Free returns chunk to the pool for category.
func (a *Allocator) Free(category Category, chunk *Chunk) error {
	return a.poolFor(category).Free(chunk)
}

// Stats returns a snapshot of every category pool that has been used so
// far.
func (a *Allocator) Stats() map[Category]Stats {
	a.mu.Lock()
	pools := make([]*Pool, 0, len(a.pools))
	cats := make([]Category, 0, len(a.pools))
	for cat, p := range a.pools {
		pools = append(pools, p)
		cats = append(cats, cat)
	}
	a.mu.Unlock()

	out := make(map[Category]Stats, len(pools))
	for i, p := range pools {
		out[cats[i]] = p.Stats()
	}
	return out
}

// PoolStats returns the stats for one category's pool, or the zero Stats
// if that category has never been allocated from.
func (a *Allocator) PoolStats(category Category) Stats {
	a.mu.Lock()
	p, ok := a.pools[category]
	a.mu.Unlock()
	if !ok {
		return Stats{Category: category}
	}
	return p.Stats()
}

// Destroy releases every pool this allocator owns.
func (a *Allocator) Destroy() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var firstErr error
	for _, p := range a.pools {
		if err := p.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.pools = nil
	return firstErr
}
