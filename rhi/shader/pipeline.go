// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spv"

	"github.com/fyuuforge/rhi/internal/backend"
)

// Language identifies the shader source language a CompileUnit is fed.
type Language int

const (
	LanguageGLSL Language = iota
	LanguageHLSL
	LanguageSPIRV
	LanguageDXIL
)

// CompileUnit is one shader source plus the metadata the pipeline needs to
// drive it through naga's IR: which stage it targets, its entry point, and
// any preprocessor macros to inject as a #define preamble.
type CompileUnit struct {
	Source     string
	SPIRV      []uint32
	Language   Language
	Stage      Stage
	EntryPoint string
	Macros     map[string]string
	Debug      bool
}

// Compiled is the result of driving a CompileUnit through the pipeline:
// the final bytes for the target language, plus the reflection naga's IR
// walk produced.
type Compiled struct {
	SPIRV      []uint32
	GLSL       string
	HLSL       string
	DXIL       []byte
	Reflection Reflection
}

// parseToIR lowers unit's source into naga's shared IR regardless of which
// front-end it started from. GLSL and SPIR-V sources are parsed through
// naga's GLSL front-end and SPIR-V importer respectively, using the same
// Parse/Lower/LowerWithSource family a WGSL front-end would call.
func parseToIR(unit CompileUnit) (*ir.Module, error) {
	preamble := macroPreamble(unit.Macros)
	switch unit.Language {
	case LanguageGLSL:
		ast, err := naga.ParseGLSL(preamble+unit.Source, glslStageFromStage(unit.Stage))
		if err != nil {
			return nil, fmt.Errorf("shader: GLSL parse: %w", err)
		}
		module, err := naga.LowerWithSource(ast, unit.Source)
		if err != nil {
			return nil, fmt.Errorf("shader: GLSL lower: %w", err)
		}
		return module, nil
	case LanguageSPIRV:
		module, err := spv.Parse(unit.SPIRV)
		if err != nil {
			return nil, fmt.Errorf("shader: SPIR-V parse: %w", err)
		}
		return module, nil
	default:
		return nil, fmt.Errorf("shader: parseToIR: unsupported source language %d", unit.Language)
	}
}

func macroPreamble(macros map[string]string) string {
	var s string
	for k, v := range macros {
		s += fmt.Sprintf("#define %s %s\n", k, v)
	}
	return s
}

// CompileGLSLToSPIRV compiles GLSL to SPIR-V as a reference front-end:
// parse/lower through naga's IR, then emit SPIR-V words
// targeting the version and optimization level Debug selects (full debug
// info and no optimization in debug; strip+optimize-size in release).
func CompileGLSLToSPIRV(unit CompileUnit) (*Compiled, error) {
	module, err := parseToIR(unit)
	if err != nil {
		return nil, err
	}
	opts := spv.Options{
		Version:       spv.Version1_5,
		EntryPoint:    unit.EntryPoint,
		Debug:         unit.Debug,
		Optimize:      !unit.Debug,
		StripOnBuild:  !unit.Debug,
	}
	words, err := spv.Compile(module, opts)
	if err != nil {
		return nil, fmt.Errorf("shader: SPIR-V compile: %w", err)
	}
	return &Compiled{SPIRV: words, Reflection: reflect(module, unit)}, nil
}

// CompileSPIRVToHLSL cross-compiles SPIR-V to HLSL, used on the
// GLSL-submitted-to-D3D12 path after CompileGLSLToSPIRV.
// Binding decorations in the source IR are preserved in the emitted HLSL
// register/space assignments.
func CompileSPIRVToHLSL(words []uint32, unit CompileUnit) (*Compiled, error) {
	module, err := spv.Parse(words)
	if err != nil {
		return nil, fmt.Errorf("shader: SPIR-V parse for HLSL cross-compile: %w", err)
	}
	code, _, err := hlsl.Compile(module, hlsl.Options{
		EntryPoint:        unit.EntryPoint,
		PreserveBindings:  true,
		ShaderModel:       hlslShaderModel(unit.Stage),
	})
	if err != nil {
		return nil, fmt.Errorf("shader: HLSL compile: %w", err)
	}
	return &Compiled{HLSL: code, Reflection: reflect(module, unit)}, nil
}

// CompileToGLSL implements the OpenGL backend's cross-compile leg: parse
// to IR (from GLSL or SPIR-V source, whichever unit carries) and emit
// GLSL text via naga's GLSL back-end, used when a shader submitted as
// SPIR-V needs to run on the OpenGL driver.
func CompileToGLSL(unit CompileUnit) (*Compiled, error) {
	module, err := parseToIR(unit)
	if err != nil {
		return nil, err
	}
	code, err := glsl.Compile(module, glsl.Options{
		EntryPoint: unit.EntryPoint,
		Version:    450,
		ES:         false,
	})
	if err != nil {
		return nil, fmt.Errorf("shader: GLSL compile: %w", err)
	}
	return &Compiled{GLSL: code, Reflection: reflect(module, unit)}, nil
}

// hlslShaderModel selects the HLSL target profile from stage (vertex→vs,
// pixel→ps, compute→cs, geometry→gs, mesh→ms, amplification→as,
// ray_*→lib_*). Ray-tracing stages require shader model
// 6.6; this pipeline always targets 6.6 so every stage round-trips through
// one profile family.
func hlslShaderModel(stage Stage) string {
	switch stage {
	case StageVertex:
		return "vs_6_6"
	case StagePixel:
		return "ps_6_6"
	case StageCompute:
		return "cs_6_6"
	case StageGeometry:
		return "gs_6_6"
	case StageMesh:
		return "ms_6_6"
	case StageAmplification:
		return "as_6_6"
	default:
		return "lib_6_6"
	}
}

func glslStageFromStage(stage Stage) glsl.Stage {
	switch stage {
	case StageVertex:
		return glsl.StageVertex
	case StagePixel:
		return glsl.StageFragment
	case StageCompute:
		return glsl.StageCompute
	case StageGeometry:
		return glsl.StageGeometry
	default:
		return glsl.StageFragment
	}
}

func reflect(module *ir.Module, unit CompileUnit) Reflection {
	r := Reflection{EntryPoint: unit.EntryPoint, Stage: unit.Stage}
	for _, binding := range module.GlobalBindings() {
		r.Resources = append(r.Resources, ResourceBinding{
			Name:       binding.Name,
			BindPoint:  binding.Binding,
			Space:      binding.Group,
			BindCount:  1,
			Type:       classifyBinding(binding),
			Writable:   binding.Writable,
			Visibility: visibilityFor(unit.Stage),
		})
	}
	if unit.Stage == StageVertex {
		r.VertexInputs = deriveVertexInputs(module)
	}
	r.index()
	return r
}

func classifyBinding(b ir.GlobalBinding) BindingType {
	switch b.Class {
	case ir.ClassUniform:
		return BindingCBV
	case ir.ClassStorageReadOnly:
		return BindingSRV
	case ir.ClassStorage:
		return BindingUAV
	case ir.ClassSampler:
		return BindingSampler
	case ir.ClassTexture:
		return BindingTexture
	default:
		return BindingStructuredBuffer
	}
}

func visibilityFor(stage Stage) Visibility {
	switch stage {
	case StageVertex:
		return VisibilityVertex
	case StagePixel:
		return VisibilityPixel
	case StageCompute:
		return VisibilityCompute
	case StageGeometry:
		return VisibilityGeometry
	default:
		return VisibilityAll
	}
}

// deriveVertexInputs walks a vertex module's stage inputs into the
// vertex-input layout: semantic name defaults to TEXCOORD unless
// decorated, semantic index = location decoration, DXGI-style format from
// base type × component count, offsets accumulated per element.
func deriveVertexInputs(module *ir.Module) []VertexInput {
	var inputs []VertexInput
	var offset uint32
	for _, in := range module.StageInputs() {
		name := in.Semantic
		if name == "" {
			name = "TEXCOORD"
		}
		format := vertexFormatFor(in.BaseType, in.Components)
		inputs = append(inputs, VertexInput{
			SemanticName:  name,
			SemanticIndex: in.Location,
			Location:      in.Location,
			Format:        format,
			AlignedOffset: offset,
		})
		offset += formatSize(format)
	}
	return inputs
}

func vertexFormatFor(base ir.ScalarKind, components int) VertexFormat {
	switch {
	case base == ir.ScalarFloat && components == 1:
		return FormatR32Float
	case base == ir.ScalarFloat && components == 2:
		return FormatR32G32Float
	case base == ir.ScalarFloat && components == 3:
		return FormatR32G32B32Float
	case base == ir.ScalarFloat && components == 4:
		return FormatR32G32B32A32Float
	case base == ir.ScalarUint && components == 1:
		return FormatR32Uint
	case base == ir.ScalarUint && components == 2:
		return FormatR32G32Uint
	case base == ir.ScalarUint && components == 3:
		return FormatR32G32B32Uint
	case base == ir.ScalarUint && components == 4:
		return FormatR32G32B32A32Uint
	default:
		return FormatUnknown
	}
}

// CompileForBackend drives unit through whichever leg of the GLSL→SPIR-V→
// HLSL→DXIL chain tag's backend consumes: Vulkan wants SPIR-V, OpenGL
// wants GLSL text, D3D12 wants DXIL bytes (by way of SPIR-V and HLSL).
// This is CreateShaderLibrary's one-stop entry point into the package.
func CompileForBackend(tag backend.Tag, unit CompileUnit) (*Compiled, error) {
	switch tag {
	case backend.Vulkan:
		if unit.Language == LanguageSPIRV {
			module, err := parseToIR(unit)
			if err != nil {
				return nil, err
			}
			return &Compiled{SPIRV: unit.SPIRV, Reflection: reflect(module, unit)}, nil
		}
		return CompileGLSLToSPIRV(unit)

	case backend.OpenGL:
		if unit.Language == LanguageGLSL {
			module, err := parseToIR(unit)
			if err != nil {
				return nil, err
			}
			return &Compiled{GLSL: unit.Source, Reflection: reflect(module, unit)}, nil
		}
		return CompileToGLSL(unit)

	case backend.D3D12:
		spirvCompiled, err := CompileGLSLToSPIRV(unit)
		if err != nil {
			return nil, err
		}
		hlslCompiled, err := CompileSPIRVToHLSL(spirvCompiled.SPIRV, unit)
		if err != nil {
			return nil, err
		}
		dxil, err := CompileHLSLToDXIL(hlslCompiled.HLSL, unit)
		if err != nil {
			return nil, err
		}
		return &Compiled{
			SPIRV:      spirvCompiled.SPIRV,
			HLSL:       hlslCompiled.HLSL,
			DXIL:       dxil,
			Reflection: hlslCompiled.Reflection,
		}, nil

	default:
		return nil, fmt.Errorf("shader: CompileForBackend: unsupported backend tag %s", tag)
	}
}

func formatSize(f VertexFormat) uint32 {
	switch f {
	case FormatR32Float, FormatR32Uint:
		return 4
	case FormatR32G32Float, FormatR32G32Uint:
		return 8
	case FormatR32G32B32Float, FormatR32G32B32Uint:
		return 12
	case FormatR32G32B32A32Float, FormatR32G32B32A32Uint:
		return 16
	default:
		return 0
	}
}
