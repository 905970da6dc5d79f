// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package backend is the dispatch seam between the rhi root package and
// the concrete Vulkan/D3D12/OpenGL drivers. Every handle the rhi package
// hands out carries a Tag; Require checks that a set of handles share one
// before a cross-object call touches driver state.
package backend

import "fmt"

// Tag identifies which concrete driver a handle was created under.
type Tag int

const (
	// Untagged marks a zero-value handle. Require rejects it: mixed with
	// tagged handles it is a mismatch, and on its own no driver is
	// registered under it.
	Untagged Tag = iota
	Vulkan
	D3D12
	OpenGL
)

func (t Tag) String() string {
	switch t {
	case Vulkan:
		return "Vulkan"
	case D3D12:
		return "D3D12"
	case OpenGL:
		return "OpenGL"
	default:
		return fmt.Sprintf("Untagged(%d)", int(t))
	}
}
