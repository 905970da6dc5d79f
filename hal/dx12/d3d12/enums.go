// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package d3d12

// D3D_FEATURE_LEVEL identifies a Direct3D feature level.
type D3D_FEATURE_LEVEL uint32

const (
	D3D_FEATURE_LEVEL_11_0 D3D_FEATURE_LEVEL = 0xb000
	D3D_FEATURE_LEVEL_11_1 D3D_FEATURE_LEVEL = 0xb100
	D3D_FEATURE_LEVEL_12_0 D3D_FEATURE_LEVEL = 0xc000
	D3D_FEATURE_LEVEL_12_1 D3D_FEATURE_LEVEL = 0xc100
	D3D_FEATURE_LEVEL_12_2 D3D_FEATURE_LEVEL = 0xc200
)

// D3D_SHADER_MODEL identifies the highest supported HLSL shader model.
type D3D_SHADER_MODEL uint32

const (
	D3D_SHADER_MODEL_6_0 D3D_SHADER_MODEL = 0x60
	D3D_SHADER_MODEL_6_6 D3D_SHADER_MODEL = 0x66
)

// D3D_PRIMITIVE_TOPOLOGY selects the input-assembler primitive topology.
type D3D_PRIMITIVE_TOPOLOGY uint32

const (
	D3D_PRIMITIVE_TOPOLOGY_UNDEFINED     D3D_PRIMITIVE_TOPOLOGY = 0
	D3D_PRIMITIVE_TOPOLOGY_POINTLIST     D3D_PRIMITIVE_TOPOLOGY = 1
	D3D_PRIMITIVE_TOPOLOGY_LINELIST      D3D_PRIMITIVE_TOPOLOGY = 2
	D3D_PRIMITIVE_TOPOLOGY_LINESTRIP     D3D_PRIMITIVE_TOPOLOGY = 3
	D3D_PRIMITIVE_TOPOLOGY_TRIANGLELIST  D3D_PRIMITIVE_TOPOLOGY = 4
	D3D_PRIMITIVE_TOPOLOGY_TRIANGLESTRIP D3D_PRIMITIVE_TOPOLOGY = 5
)

// D3D12_COMMAND_LIST_TYPE identifies a command list/queue/allocator's type.
type D3D12_COMMAND_LIST_TYPE uint32

const (
	D3D12_COMMAND_LIST_TYPE_DIRECT  D3D12_COMMAND_LIST_TYPE = 0
	D3D12_COMMAND_LIST_TYPE_BUNDLE  D3D12_COMMAND_LIST_TYPE = 1
	D3D12_COMMAND_LIST_TYPE_COMPUTE D3D12_COMMAND_LIST_TYPE = 2
	D3D12_COMMAND_LIST_TYPE_COPY    D3D12_COMMAND_LIST_TYPE = 3
)

// D3D12_COMMAND_QUEUE_FLAGS modifies ID3D12CommandQueue creation.
type D3D12_COMMAND_QUEUE_FLAGS uint32

const D3D12_COMMAND_QUEUE_FLAG_NONE D3D12_COMMAND_QUEUE_FLAGS = 0

// D3D12_HEAP_TYPE identifies a heap's CPU/GPU access pattern.
type D3D12_HEAP_TYPE uint32

const (
	D3D12_HEAP_TYPE_DEFAULT  D3D12_HEAP_TYPE = 1
	D3D12_HEAP_TYPE_UPLOAD   D3D12_HEAP_TYPE = 2
	D3D12_HEAP_TYPE_READBACK D3D12_HEAP_TYPE = 3
	D3D12_HEAP_TYPE_CUSTOM   D3D12_HEAP_TYPE = 4
)

// D3D12_CPU_PAGE_PROPERTY further qualifies a custom heap's CPU access.
type D3D12_CPU_PAGE_PROPERTY uint32

const D3D12_CPU_PAGE_PROPERTY_UNKNOWN D3D12_CPU_PAGE_PROPERTY = 0

// D3D12_MEMORY_POOL identifies a custom heap's physical memory pool.
type D3D12_MEMORY_POOL uint32

const D3D12_MEMORY_POOL_UNKNOWN D3D12_MEMORY_POOL = 0

// D3D12_HEAP_FLAGS modifies ID3D12Device.CreateHeap/CreateCommittedResource.
type D3D12_HEAP_FLAGS uint32

const (
	D3D12_HEAP_FLAG_NONE                      D3D12_HEAP_FLAGS = 0
	D3D12_HEAP_FLAG_DENY_BUFFERS               D3D12_HEAP_FLAGS = 0x4
	D3D12_HEAP_FLAG_DENY_RT_DS_TEXTURES        D3D12_HEAP_FLAGS = 0x40
	D3D12_HEAP_FLAG_DENY_NON_RT_DS_TEXTURES    D3D12_HEAP_FLAGS = 0x80
)

// D3D12_RESOURCE_DIMENSION identifies a resource's basic shape.
type D3D12_RESOURCE_DIMENSION uint32

const (
	D3D12_RESOURCE_DIMENSION_UNKNOWN   D3D12_RESOURCE_DIMENSION = 0
	D3D12_RESOURCE_DIMENSION_BUFFER    D3D12_RESOURCE_DIMENSION = 1
	D3D12_RESOURCE_DIMENSION_TEXTURE1D D3D12_RESOURCE_DIMENSION = 2
	D3D12_RESOURCE_DIMENSION_TEXTURE2D D3D12_RESOURCE_DIMENSION = 3
	D3D12_RESOURCE_DIMENSION_TEXTURE3D D3D12_RESOURCE_DIMENSION = 4
)

// D3D12_TEXTURE_LAYOUT identifies a resource's memory layout.
type D3D12_TEXTURE_LAYOUT uint32

const (
	D3D12_TEXTURE_LAYOUT_UNKNOWN   D3D12_TEXTURE_LAYOUT = 0
	D3D12_TEXTURE_LAYOUT_ROW_MAJOR D3D12_TEXTURE_LAYOUT = 1
)

// D3D12_RESOURCE_FLAGS modifies how a resource may be bound and accessed.
type D3D12_RESOURCE_FLAGS uint32

const (
	D3D12_RESOURCE_FLAG_NONE                    D3D12_RESOURCE_FLAGS = 0
	D3D12_RESOURCE_FLAG_ALLOW_RENDER_TARGET     D3D12_RESOURCE_FLAGS = 0x1
	D3D12_RESOURCE_FLAG_ALLOW_DEPTH_STENCIL     D3D12_RESOURCE_FLAGS = 0x2
	D3D12_RESOURCE_FLAG_ALLOW_UNORDERED_ACCESS  D3D12_RESOURCE_FLAGS = 0x4
)

// D3D12_RESOURCE_STATES is the bitmask vocabulary ResourceBarrier
// transitions a resource between.
type D3D12_RESOURCE_STATES uint32

const (
	D3D12_RESOURCE_STATE_COMMON                     D3D12_RESOURCE_STATES = 0
	D3D12_RESOURCE_STATE_VERTEX_AND_CONSTANT_BUFFER D3D12_RESOURCE_STATES = 0x1
	D3D12_RESOURCE_STATE_INDEX_BUFFER               D3D12_RESOURCE_STATES = 0x2
	D3D12_RESOURCE_STATE_RENDER_TARGET               D3D12_RESOURCE_STATES = 0x4
	D3D12_RESOURCE_STATE_UNORDERED_ACCESS            D3D12_RESOURCE_STATES = 0x8
	D3D12_RESOURCE_STATE_DEPTH_WRITE                 D3D12_RESOURCE_STATES = 0x10
	D3D12_RESOURCE_STATE_DEPTH_READ                  D3D12_RESOURCE_STATES = 0x20
	D3D12_RESOURCE_STATE_NON_PIXEL_SHADER_RESOURCE   D3D12_RESOURCE_STATES = 0x40
	D3D12_RESOURCE_STATE_PIXEL_SHADER_RESOURCE       D3D12_RESOURCE_STATES = 0x80
	D3D12_RESOURCE_STATE_INDIRECT_ARGUMENT           D3D12_RESOURCE_STATES = 0x200
	D3D12_RESOURCE_STATE_COPY_DEST                   D3D12_RESOURCE_STATES = 0x400
	D3D12_RESOURCE_STATE_COPY_SOURCE                 D3D12_RESOURCE_STATES = 0x800
	D3D12_RESOURCE_STATE_RESOLVE_DEST                D3D12_RESOURCE_STATES = 0x1000
	D3D12_RESOURCE_STATE_RESOLVE_SOURCE              D3D12_RESOURCE_STATES = 0x2000
	D3D12_RESOURCE_STATE_PRESENT                     D3D12_RESOURCE_STATES = 0
	D3D12_RESOURCE_STATE_GENERIC_READ                D3D12_RESOURCE_STATES = 0x1 | 0x2 | 0x40 | 0x80 | 0x200 | 0x800
)

// D3D12_RESOURCE_BARRIER_TYPE identifies which union member of a
// D3D12_RESOURCE_BARRIER is populated.
type D3D12_RESOURCE_BARRIER_TYPE uint32

const (
	D3D12_RESOURCE_BARRIER_TYPE_TRANSITION D3D12_RESOURCE_BARRIER_TYPE = 0
	D3D12_RESOURCE_BARRIER_TYPE_ALIASING   D3D12_RESOURCE_BARRIER_TYPE = 1
	D3D12_RESOURCE_BARRIER_TYPE_UAV        D3D12_RESOURCE_BARRIER_TYPE = 2
)

// D3D12_RESOURCE_BARRIER_FLAGS splits a barrier into separate begin/end halves.
type D3D12_RESOURCE_BARRIER_FLAGS uint32

const D3D12_RESOURCE_BARRIER_FLAG_NONE D3D12_RESOURCE_BARRIER_FLAGS = 0

// D3D12_DESCRIPTOR_HEAP_TYPE identifies a descriptor heap's contents.
type D3D12_DESCRIPTOR_HEAP_TYPE uint32

const (
	D3D12_DESCRIPTOR_HEAP_TYPE_CBV_SRV_UAV D3D12_DESCRIPTOR_HEAP_TYPE = 0
	D3D12_DESCRIPTOR_HEAP_TYPE_SAMPLER     D3D12_DESCRIPTOR_HEAP_TYPE = 1
	D3D12_DESCRIPTOR_HEAP_TYPE_RTV         D3D12_DESCRIPTOR_HEAP_TYPE = 2
	D3D12_DESCRIPTOR_HEAP_TYPE_DSV         D3D12_DESCRIPTOR_HEAP_TYPE = 3
)

// D3D12_DESCRIPTOR_HEAP_FLAGS modifies descriptor-heap creation.
type D3D12_DESCRIPTOR_HEAP_FLAGS uint32

const (
	D3D12_DESCRIPTOR_HEAP_FLAG_NONE           D3D12_DESCRIPTOR_HEAP_FLAGS = 0
	D3D12_DESCRIPTOR_HEAP_FLAG_SHADER_VISIBLE D3D12_DESCRIPTOR_HEAP_FLAGS = 0x1
)

// D3D12_INPUT_CLASSIFICATION identifies a vertex-buffer slot's step rate.
type D3D12_INPUT_CLASSIFICATION uint32

const (
	D3D12_INPUT_CLASSIFICATION_PER_VERTEX_DATA   D3D12_INPUT_CLASSIFICATION = 0
	D3D12_INPUT_CLASSIFICATION_PER_INSTANCE_DATA D3D12_INPUT_CLASSIFICATION = 1
)

// D3D12_CLEAR_FLAGS selects which depth-stencil planes ClearDepthStencilView clears.
type D3D12_CLEAR_FLAGS uint32

const (
	D3D12_CLEAR_FLAG_DEPTH   D3D12_CLEAR_FLAGS = 0x1
	D3D12_CLEAR_FLAG_STENCIL D3D12_CLEAR_FLAGS = 0x2
)

// D3D12_SRV_DIMENSION identifies a shader-resource view's resource shape.
type D3D12_SRV_DIMENSION uint32

const (
	D3D12_SRV_DIMENSION_UNKNOWN          D3D12_SRV_DIMENSION = 0
	D3D12_SRV_DIMENSION_TEXTURE1D        D3D12_SRV_DIMENSION = 2
	D3D12_SRV_DIMENSION_TEXTURE2D        D3D12_SRV_DIMENSION = 4
	D3D12_SRV_DIMENSION_TEXTURE2DARRAY   D3D12_SRV_DIMENSION = 5
	D3D12_SRV_DIMENSION_TEXTURE3D        D3D12_SRV_DIMENSION = 8
	D3D12_SRV_DIMENSION_TEXTURECUBE      D3D12_SRV_DIMENSION = 9
	D3D12_SRV_DIMENSION_TEXTURECUBEARRAY D3D12_SRV_DIMENSION = 10
)

// D3D12_RTV_DIMENSION identifies a render-target view's resource shape.
type D3D12_RTV_DIMENSION uint32

const (
	D3D12_RTV_DIMENSION_UNKNOWN        D3D12_RTV_DIMENSION = 0
	D3D12_RTV_DIMENSION_TEXTURE1D      D3D12_RTV_DIMENSION = 2
	D3D12_RTV_DIMENSION_TEXTURE2D      D3D12_RTV_DIMENSION = 4
	D3D12_RTV_DIMENSION_TEXTURE2DARRAY D3D12_RTV_DIMENSION = 5
	D3D12_RTV_DIMENSION_TEXTURE3D      D3D12_RTV_DIMENSION = 8
)

// D3D12_DSV_DIMENSION identifies a depth-stencil view's resource shape.
type D3D12_DSV_DIMENSION uint32

const (
	D3D12_DSV_DIMENSION_UNKNOWN        D3D12_DSV_DIMENSION = 0
	D3D12_DSV_DIMENSION_TEXTURE1D      D3D12_DSV_DIMENSION = 1
	D3D12_DSV_DIMENSION_TEXTURE2D      D3D12_DSV_DIMENSION = 3
	D3D12_DSV_DIMENSION_TEXTURE2DARRAY D3D12_DSV_DIMENSION = 4
)

// D3D12_FENCE_FLAGS modifies ID3D12Device.CreateFence.
type D3D12_FENCE_FLAGS uint32

const D3D12_FENCE_FLAG_NONE D3D12_FENCE_FLAGS = 0

// D3D12_FEATURE selects which feature CheckFeatureSupport queries.
type D3D12_FEATURE uint32

const (
	D3D12_FEATURE_D3D12_OPTIONS      D3D12_FEATURE = 0
	D3D12_FEATURE_SHADER_MODEL       D3D12_FEATURE = 7
	D3D12_FEATURE_D3D12_OPTIONS5     D3D12_FEATURE = 27
)

// D3D12_QUERY_HEAP_TYPE identifies a query heap's query kind.
type D3D12_QUERY_HEAP_TYPE uint32

const D3D12_QUERY_HEAP_TYPE_TIMESTAMP D3D12_QUERY_HEAP_TYPE = 1
