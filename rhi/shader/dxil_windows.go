// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package shader

import "github.com/fyuuforge/rhi/rhi/shader/dxc"

// CompileHLSLToDXIL compiles HLSL to DXIL via the DXC shared library,
// loaded dynamically by rhi/shader/dxc.
func CompileHLSLToDXIL(hlslSource string, unit CompileUnit) ([]byte, error) {
	return dxc.CompileHLSL(hlslSource, dxc.Options{
		EntryPoint:    unit.EntryPoint,
		TargetProfile: hlslShaderModel(unit.Stage),
		Defines:       unit.Macros,
		Debug:         unit.Debug,
		Optimize:      !unit.Debug,
	})
}
