// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build !windows

package shader

import "fmt"

// CompileHLSLToDXIL is only available where the DXC shared library can be
// loaded (Windows). The D3D12 backend itself is also Windows-only, so this
// path is never reached in practice; it exists so the shader package
// builds on every platform.
func CompileHLSLToDXIL(hlslSource string, unit CompileUnit) ([]byte, error) {
	return nil, fmt.Errorf("shader: HLSL→DXIL compilation requires the DXC shared library (Windows only)")
}
