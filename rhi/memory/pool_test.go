// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package memory

import "testing"

type fakeDriver struct{ created []uint64 }

func (d *fakeDriver) CreateHeap(size uint64, category Category) (any, uintptr, error) {
	d.created = append(d.created, size)
	return len(d.created), 0, nil
}

func (d *fakeDriver) DestroyHeap(any) error { return nil }

func TestPoolCoalescesAfterFreeingAllChunks(t *testing.T) {
	drv := &fakeDriver{}
	p := NewPool(drv, MediumBuffer, 16<<20, 256<<10)

	a, err := p.Allocate(1<<20, 1)
	if err != nil {
		t.Fatalf("Allocate(A) = %v", err)
	}
	b, err := p.Allocate(1<<20, 1)
	if err != nil {
		t.Fatalf("Allocate(B) = %v", err)
	}
	c, err := p.Allocate(1<<20, 1)
	if err != nil {
		t.Fatalf("Allocate(C) = %v", err)
	}

	if err := p.Free(a); err != nil {
		t.Fatalf("Free(A) = %v", err)
	}
	if err := p.Free(c); err != nil {
		t.Fatalf("Free(C) = %v", err)
	}
	if err := p.Free(b); err != nil {
		t.Fatalf("Free(B) = %v", err)
	}

	if len(p.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(p.entries))
	}
	entry := p.entries[0]
	if len(entry.free) != 1 {
		t.Fatalf("free ranges = %d, want 1 (got %+v)", len(entry.free), entry.free)
	}
	if entry.free[0].offset != 0 || entry.free[0].size != 16<<20 {
		t.Fatalf("free range = %+v, want {0, 16MiB}", entry.free[0])
	}

	stats := p.Stats()
	if stats.TotalBytes != stats.FreeBytes {
		t.Fatalf("TotalBytes=%d FreeBytes=%d, want equal with nothing live", stats.TotalBytes, stats.FreeBytes)
	}
	if stats.AllocationCount != 0 {
		t.Fatalf("AllocationCount = %d, want 0", stats.AllocationCount)
	}
}

func TestAllocateZeroSizeRejected(t *testing.T) {
	drv := &fakeDriver{}
	p := NewPool(drv, SmallBuffer, 4<<20, 1)
	if _, err := p.Allocate(0, 1); err == nil {
		t.Fatal("Allocate(0) = nil error, want ErrZeroSize")
	}
}

func TestAllocateOneByteAlignsToMinAllocation(t *testing.T) {
	drv := &fakeDriver{}
	p := NewPool(drv, Upload, 4<<20, 256<<10)
	chunk, err := p.Allocate(1, 1)
	if err != nil {
		t.Fatalf("Allocate(1) = %v", err)
	}
	if chunk.Size != 256<<10 {
		t.Fatalf("Size = %d, want min_allocation %d", chunk.Size, 256<<10)
	}
}

func TestAllocateLargerThanBlockGrowsFreshBlock(t *testing.T) {
	drv := &fakeDriver{}
	p := NewPool(drv, SmallBuffer, 4<<20, 1)
	chunk, err := p.Allocate(10<<20, 1)
	if err != nil {
		t.Fatalf("Allocate(10MiB) = %v", err)
	}
	if chunk.Size != 10<<20 {
		t.Fatalf("Size = %d, want 10MiB", chunk.Size)
	}
	if len(drv.created) != 1 || drv.created[0] != 20<<20 {
		t.Fatalf("created blocks = %v, want [20MiB] (max(block_size, size*2))", drv.created)
	}
}

func freeRanges(p *Pool) []freeRange {
	var out []freeRange
	for _, e := range p.entries {
		out = append(out, e.free...)
	}
	return out
}

func TestRoundTripAllocateFreeReturnsSameFreeSet(t *testing.T) {
	drv := &fakeDriver{}
	p := NewPool(drv, MediumBuffer, 16<<20, 1)
	// force the pool's one block into existence before taking the
	// baseline snapshot, so before/after compare the same entry set.
	seed, err := p.Allocate(1, 1)
	if err != nil {
		t.Fatalf("seed Allocate = %v", err)
	}
	if err := p.Free(seed); err != nil {
		t.Fatalf("seed Free = %v", err)
	}
	before := freeRanges(p)

	chunk, err := p.Allocate(2<<20, 1)
	if err != nil {
		t.Fatalf("Allocate = %v", err)
	}
	if err := p.Free(chunk); err != nil {
		t.Fatalf("Free = %v", err)
	}
	after := freeRanges(p)

	if len(before) != 1 || len(after) != 1 || before[0] != after[0] {
		t.Fatalf("free state after round trip = %+v, want %+v", after, before)
	}
}
