// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shader implements the GLSL → SPIR-V → HLSL → DXIL compilation
// pipeline and shader reflection. The IR plumbing is built on the
// naga.Parse → naga.Lower → {glsl,hlsl}.Compile chain, generalized from a
// single WGSL front-end to GLSL/SPIR-V front-ends and HLSL/DXIL back-ends.
package shader

// Stage mirrors rhi.ShaderStage without importing the root package (which
// imports this one).
type Stage int

const (
	StageVertex Stage = iota
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

// BindingType mirrors rhi.ResourceBindingType without importing the root
// package (which imports this one).
type BindingType int

const (
	BindingCBV BindingType = iota
	BindingSRV
	BindingUAV
	BindingSampler
	BindingStructuredBuffer
	BindingByteAddressBuffer
	BindingTexture
)

// Visibility is a bitmask of shader stages a binding is visible to.
type Visibility uint32

const (
	VisibilityVertex Visibility = 1 << iota
	VisibilityPixel
	VisibilityCompute
	VisibilityGeometry
	VisibilityAll = VisibilityVertex | VisibilityPixel | VisibilityCompute | VisibilityGeometry
)

// ResourceBinding is one reflected shader resource: name, bind_point,
// bind_count, type, is_writable, and visibility.
type ResourceBinding struct {
	Name       string
	BindPoint  uint32
	Space      uint32
	BindCount  uint32
	Type       BindingType
	Writable   bool
	Visibility Visibility
}

// VertexInput is one entry of the vertex-shader input layout, derived by
// walking a SPIR-V module's stage_inputs.
type VertexInput struct {
	SemanticName  string
	SemanticIndex uint32
	Location      uint32
	Format        VertexFormat
	AlignedOffset uint32
}

// VertexFormat is the DXGI-style scalar/vector element format derived from
// a SPIR-V base type and component count.
type VertexFormat int

const (
	FormatUnknown VertexFormat = iota
	FormatR32Float
	FormatR32G32Float
	FormatR32G32B32Float
	FormatR32G32B32A32Float
	FormatR32Uint
	FormatR32G32Uint
	FormatR32G32B32Uint
	FormatR32G32B32A32Uint
)

// Reflection is the full metadata product of compiling one shader module:
// entry point, stage, resource bindings, and (vertex stage only) the
// derived input layout.
type Reflection struct {
	EntryPoint    string
	Stage         Stage
	Resources     []ResourceBinding
	VertexInputs  []VertexInput
	bindingBySlot map[string]uint32
}

// BindingSlot returns the bind point reflection assigned to a named
// resource, and whether that name was found.
func (r *Reflection) BindingSlot(name string) (uint32, bool) {
	slot, ok := r.bindingBySlot[name]
	return slot, ok
}

func (r *Reflection) index() {
	r.bindingBySlot = make(map[string]uint32, len(r.Resources))
	for _, res := range r.Resources {
		r.bindingBySlot[res.Name] = res.BindPoint
	}
}
