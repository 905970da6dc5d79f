// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package rhi is a backend-dispatch rendering hardware interface over
// Vulkan, D3D12 and OpenGL 4.5.
//
// Every resource the package hands out — PhysicalDevice, LogicalDevice,
// CommandQueue, Surface, SwapChain, VideoMemory, Resource, ShaderLibrary,
// CommandObject — carries the backend Tag it was created under. Calls that
// mix handles from two different backends fail fast with Unsupported
// instead of corrupting driver state; see internal/backend.Require.
//
// The package exposes its external interface as exported Go functions
// returning (handle, ErrorCode) rather than as a cgo-callable C ABI: this
// is a Go RHI, not a C-linkable one. Callers that need a literal C ABI are
// expected to wrap these functions at the edge; besides the per-call
// ErrorCode, GetLastError offers a fallback for that wrapping: one
// package-wide record of the most recent call's result, shared by all
// goroutines.
//
// Resource lifetime is explicit: every Create* call is paired with a
// Destroy* call. There is no finalizer-based cleanup and no reference
// counting — callers own what they create.
//
// Sub-packages:
//
//   - rhi/memory implements the best-fit, coalescing heap pools backing
//     VideoMemory.
//   - rhi/frame implements the frame ring, submission window and
//     per-worker command-object bookkeeping.
//   - rhi/command implements the CommandObject recording state machine.
//   - rhi/shader implements the GLSL → SPIR-V → HLSL → DXIL pipeline and
//     shader reflection.
//   - rhi/backend/vulkan, rhi/backend/d3d12 and rhi/backend/opengl
//     implement internal/backend.Driver for each of the three backends.
//   - rhiapp is an optional application shim (window, input, config)
//     built on top of the core package.
package rhi
