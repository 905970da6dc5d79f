// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"

	"github.com/fyuuforge/rhi/internal/backend"
	"github.com/fyuuforge/rhi/rhi/shader"
)

// ShaderLibrary is a compiled shader ready to bind into a PSO. It carries
// whatever byte form device's backend consumes plus the reflection data
// PSO synthesis needs.
type ShaderLibrary struct {
	tag        backend.Tag
	stage      ShaderStage
	reflection shader.Reflection
	compiled   *shader.Compiled
}

func (s *ShaderLibrary) BackendTag() backend.Tag { return s.tag }

// Reflection exposes the bindings and (for vertex shaders) input layout
// CreateShaderLibrary's compile pass reflected out of source.
func (s *ShaderLibrary) Reflection() shader.Reflection { return s.reflection }

func languageToShaderLanguage(l ShaderLanguage) shader.Language {
	switch l {
	case LanguageGLSL:
		return shader.LanguageGLSL
	case LanguageHLSL:
		return shader.LanguageHLSL
	case LanguageSPIRV:
		return shader.LanguageSPIRV
	default:
		return shader.LanguageDXIL
	}
}

func stageToShaderStage(s ShaderStage) shader.Stage {
	switch s {
	case StageVertex:
		return shader.StageVertex
	case StagePixel:
		return shader.StagePixel
	case StageCompute:
		return shader.StageCompute
	case StageGeometry:
		return shader.StageGeometry
	case StageMesh:
		return shader.StageMesh
	case StageAmplification:
		return shader.StageAmplification
	case StageRayGeneration:
		return shader.StageRayGeneration
	case StageRayMiss:
		return shader.StageRayMiss
	case StageRayClosestHit:
		return shader.StageRayClosestHit
	case StageRayAnyHit:
		return shader.StageRayAnyHit
	case StageRayIntersection:
		return shader.StageRayIntersection
	default:
		return shader.StageRayCallable
	}
}

// CreateShaderLibrary compiles source (in language, for stage, with
// entryPoint) into whichever byte form device's backend consumes, via a
// GLSL→SPIR-V→HLSL→DXIL chain: Vulkan keeps SPIR-V, OpenGL keeps GLSL
// text, DirectX12 walks the full chain down to DXIL.
func CreateShaderLibrary(device *LogicalDevice, source string, language ShaderLanguage, stage ShaderStage, entryPoint string, macros map[string]string) (*ShaderLibrary, ErrorCode) {
	if device == nil {
		return reportError[*ShaderLibrary](fmt.Errorf("rhi: CreateShaderLibrary: %w", errNilHandle))
	}
	unit := shader.CompileUnit{
		Source:     source,
		Language:   languageToShaderLanguage(language),
		Stage:      stageToShaderStage(stage),
		EntryPoint: entryPoint,
		Macros:     macros,
	}
	compiled, err := shader.CompileForBackend(device.tag, unit)
	if err != nil {
		return reportError[*ShaderLibrary](fmt.Errorf("rhi: CreateShaderLibrary: %w", err))
	}
	lib := &ShaderLibrary{
		tag:        device.tag,
		stage:      stage,
		reflection: compiled.Reflection,
		compiled:   compiled,
	}
	setLastError(Success, nil)
	return lib, Success
}

// DestroyShaderLibrary releases lib. Compiled shader bytes are plain Go
// values with no driver-side resource to free, so this only clears the
// handle's fields defensively against reuse.
func DestroyShaderLibrary(lib *ShaderLibrary) ErrorCode {
	if lib == nil {
		return fail(fmt.Errorf("rhi: DestroyShaderLibrary: %w", errNilHandle))
	}
	lib.compiled = nil
	setLastError(Success, nil)
	return Success
}
