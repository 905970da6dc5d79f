// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package memory implements the best-fit, coalescing heap pools backing
// rhi.VideoMemory. It is grounded on the structure of
// hal/vulkan/memory/allocator.go (pools, per-pool stats, growth-on-demand)
// but replaces that file's buddy-allocator suballocation strategy with
// best-fit plus coalescing, per the spec this module implements.
package memory

import "fmt"

// Category selects which HeapPool a lease is drawn from. Each category has
// its own default block size and its own pool instance per LogicalDevice.
type Category int

const (
	SmallBuffer Category = iota
	MediumBuffer
	LargeBuffer
	SmallTexture
	MediumTexture
	LargeTexture
	RenderTarget
	DepthStencil
	Upload
	ReadBack
	Custom
)

func (c Category) String() string {
	switch c {
	case SmallBuffer:
		return "SmallBuffer"
	case MediumBuffer:
		return "MediumBuffer"
	case LargeBuffer:
		return "LargeBuffer"
	case SmallTexture:
		return "SmallTexture"
	case MediumTexture:
		return "MediumTexture"
	case LargeTexture:
		return "LargeTexture"
	case RenderTarget:
		return "RenderTarget"
	case DepthStencil:
		return "DepthStencil"
	case Upload:
		return "Upload"
	case ReadBack:
		return "ReadBack"
	case Custom:
		return "Custom"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// DefaultBlockSize returns each category's default per-heap block size.
// Buffer categories are named after it (Small=4MiB, Medium=16MiB,
// Large=64MiB); texture categories mirror the same thresholds.
func (c Category) DefaultBlockSize() uint64 {
	const mib = 1 << 20
	switch c {
	case SmallBuffer, SmallTexture:
		return 4 * mib
	case MediumBuffer, MediumTexture:
		return 16 * mib
	case LargeBuffer, LargeTexture, RenderTarget, DepthStencil:
		return 64 * mib
	case Upload, ReadBack:
		return 16 * mib
	default:
		return 16 * mib
	}
}

// Mapped reports whether this category's pools keep their blocks
// persistently host-mapped (Vulkan/OpenGL: map-on-create; D3D12:
// UPLOAD/READBACK heaps behave the same way).
func (c Category) Mapped() bool {
	return c == Upload || c == ReadBack
}

// BufferCategory selects the smallest buffer category whose default
// block size is at least size: for Vertex/Index/Constant usage, pick the
// smallest category whose block size ≥ size. Requests larger than
// LargeBuffer's block size still go to LargeBuffer; the pool grows an
// oversized block for them (see Pool.Allocate).
func BufferCategory(size uint64) Category {
	for _, c := range []Category{SmallBuffer, MediumBuffer, LargeBuffer} {
		if size <= c.DefaultBlockSize() {
			return c
		}
	}
	return LargeBuffer
}

// TextureCategory mirrors BufferCategory for texture resources.
func TextureCategory(size uint64) Category {
	for _, c := range []Category{SmallTexture, MediumTexture, LargeTexture} {
		if size <= c.DefaultBlockSize() {
			return c
		}
	}
	return LargeTexture
}
