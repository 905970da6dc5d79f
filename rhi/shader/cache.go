// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"sync"
)

// PSO is the pipeline-state-object product of BuildPSO: a synthesized
// root signature plus the two compiled shader stages it was built from.
type PSO struct {
	RootSignature RootSignature
	VertexShader  Compiled
	PixelShader   Compiled
	VertexInputs  []VertexInput
}

// Key identifies a PSO for caching purposes: the pipeline-state cache
// hashes on the shader pair plus vertex layout and blend/depth state
// (the latter two supplied by the caller, since this package has no
// notion of render state).
type Key struct {
	VertexSource string
	PixelSource  string
	StateHash    uint64
}

// PSOCache caches BuildPSO results by Key: automatic pipeline caching
// keyed on (shader pair, vertex layout, blend/depth state).
type PSOCache struct {
	mu    sync.Mutex
	built map[Key]*PSO
}

// NewPSOCache creates an empty cache.
func NewPSOCache() *PSOCache {
	return &PSOCache{built: make(map[Key]*PSO)}
}

// GetOrBuild returns the cached PSO for key if present, else calls
// BuildPSO and caches the result.
func (c *PSOCache) GetOrBuild(key Key, vs, ps CompileUnit) (*PSO, error) {
	c.mu.Lock()
	if pso, ok := c.built[key]; ok {
		c.mu.Unlock()
		return pso, nil
	}
	c.mu.Unlock()

	pso, err := BuildPSO(vs, ps)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.built[key]; ok {
		return existing, nil
	}
	c.built[key] = pso
	return pso, nil
}

// compileResult pairs a CompileUnit's output with any error from
// compiling it, for fan-in over the two-goroutine compile stage.
type compileResult struct {
	compiled *Compiled
	err      error
}

// BuildPSO drives an asynchronous PSO build: two concurrent compiles
// (vertex, pixel) awaited jointly, then four concurrent
// reflection/synthesis tasks, merged into one PSO. Any compile error is
// captured and returned to the caller rather than panicking.
func BuildPSO(vs, ps CompileUnit) (*PSO, error) {
	var vsResult, psResult compileResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		vsResult.compiled, vsResult.err = compileStage(vs)
	}()
	go func() {
		defer wg.Done()
		psResult.compiled, psResult.err = compileStage(ps)
	}()
	wg.Wait()

	if vsResult.err != nil {
		return nil, fmt.Errorf("shader: BuildPSO: vertex stage: %w", vsResult.err)
	}
	if psResult.err != nil {
		return nil, fmt.Errorf("shader: BuildPSO: pixel stage: %w", psResult.err)
	}

	var vertexInputs []VertexInput
	var vsParams, psParams RootSignature
	var wg2 sync.WaitGroup
	wg2.Add(4)
	go func() { defer wg2.Done(); vertexInputs = vsResult.compiled.Reflection.VertexInputs }()
	go func() { defer wg2.Done(); vsParams = SynthesizeRootSignature(vsResult.compiled.Reflection) }()
	go func() { defer wg2.Done(); psParams = SynthesizeRootSignature(psResult.compiled.Reflection) }()
	go func() { defer wg2.Done() }() // reserved: backend-native shader bytecode compile, done by rhi/backend/* after BuildPSO returns
	wg2.Wait()

	merged := RootSignature{Parameters: append(append([]RootParameter{}, vsParams.Parameters...), psParams.Parameters...)}

	return &PSO{
		RootSignature: merged,
		VertexShader:  *vsResult.compiled,
		PixelShader:   *psResult.compiled,
		VertexInputs:  vertexInputs,
	}, nil
}

func compileStage(unit CompileUnit) (*Compiled, error) {
	switch unit.Language {
	case LanguageGLSL:
		return CompileGLSLToSPIRV(unit)
	case LanguageSPIRV:
		module, err := parseToIR(unit)
		if err != nil {
			return nil, err
		}
		return &Compiled{SPIRV: unit.SPIRV, Reflection: reflect(module, unit)}, nil
	default:
		return nil, fmt.Errorf("shader: compileStage: unsupported language %d for PSO build", unit.Language)
	}
}
