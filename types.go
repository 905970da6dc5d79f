// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import "github.com/fyuuforge/rhi/internal/backend"

// Tag re-exports internal/backend.Tag so callers that inspect a handle's
// backend (e.g. to log it) don't need to import the internal package.
type Tag = backend.Tag

const (
	Vulkan   = backend.Vulkan
	D3D12    = backend.D3D12
	OpenGL   = backend.OpenGL
)

// API selects which backend CreatePhysicalDevice opens. PlatformDefault
// resolves per-OS: DirectX12 on Windows, Vulkan on Linux/Android, Metal on
// Apple. This module implements Vulkan, DirectX12 and OpenGL; Metal is a
// valid enum value (so PlatformDefault round-trips on Apple hosts) but has
// no registered driver here.
type API int

const (
	PlatformDefault API = iota
	APIVulkan
	APIDirectX12
	APIMetal
	APIOpenGL
)

func (a API) String() string {
	switch a {
	case PlatformDefault:
		return "PlatformDefault"
	case APIVulkan:
		return "Vulkan"
	case APIDirectX12:
		return "DirectX12"
	case APIMetal:
		return "Metal"
	case APIOpenGL:
		return "OpenGL"
	default:
		return "API(unknown)"
	}
}

// CommandObjectType selects which queue kind a CommandObject/CommandQueue
// targets.
type CommandObjectType int

const (
	AllCommands CommandObjectType = iota
	Compute
	Copy
)

// QueuePriority is the scheduling priority passed to CreateCommandQueue.
// The backends accept it without acting on it: queues are not ordered by
// priority, and contention between queues has no FIFO guarantee; see
// CreateQueue in rhi/backend/vulkan/driver.go.
type QueuePriority int

const (
	PriorityNormal QueuePriority = iota
	PriorityHigh
	PriorityGlobalRealtime
)

// VideoMemoryType selects which heap category AllocateVideoMemory draws
// from.
type VideoMemoryType int

const (
	DeviceLocal VideoMemoryType = iota
	HostVisible
	DeviceReadback
)

// VideoMemoryUsage narrows a VideoMemory lease to the kind of resource it
// will back, which in turn selects a HeapPool category (rhi/memory).
type VideoMemoryUsage int

const (
	UsageVertexBuffer VideoMemoryUsage = iota
	UsageIndexBuffer
	UsageConstantBuffer
	UsageTexture1D
	UsageTexture2D
	UsageTexture3D
)

// ResourceType classifies what CreateResource builds atop a VideoMemory
// region.
type ResourceType int

const (
	ResourceEmpty ResourceType = iota
	ResourceBuffer
	ResourceTexture
)

// ShaderLanguage identifies the source language CreateShaderLibrary
// receives.
type ShaderLanguage int

const (
	LanguageGLSL ShaderLanguage = iota
	LanguageHLSL
	LanguageSPIRV
	LanguageDXIL
)

// ShaderStage identifies a shader's pipeline stage, used both for
// CreateShaderLibrary and to pick an HLSL target profile
// (rhi/shader/pipeline.go).
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StagePixel
	StageCompute
	StageGeometry
	StageMesh
	StageAmplification
	StageRayGeneration
	StageRayMiss
	StageRayClosestHit
	StageRayAnyHit
	StageRayIntersection
	StageRayCallable
)

// SurfaceFlag is a bitflag passed to CreateSurface.
type SurfaceFlag uint32

const (
	SurfaceWayland SurfaceFlag = 1 << 0
)

// ResourceBindingType classifies one reflected shader resource binding
// (rhi/shader/reflection.go).
type ResourceBindingType int

const (
	BindingCBV ResourceBindingType = iota
	BindingSRV
	BindingUAV
	BindingSampler
	BindingStructuredBuffer
	BindingByteAddressBuffer
	BindingTexture
)
