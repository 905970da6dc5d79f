// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package dxc loads the DXC (DirectX Shader Compiler) shared library at
// runtime and drives it to turn HLSL text into DXIL bytes — the last leg
// of the GLSL→SPIR-V→HLSL→DXIL compilation chain. It is loaded
// dynamically via goffi rather than linked, using the same
// dlopen-plus-goffi.ffi-calling-convention pattern the Vulkan loader
// uses (see DESIGN.md).
//go:build windows

package dxc

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

var (
	lib      unsafe.Pointer
	createFn unsafe.Pointer
	cif      types.CallInterface

	initOnce sync.Once
	initErr  error
)

func libraryName() string {
	switch runtime.GOOS {
	case "windows":
		return "dxcompiler.dll"
	case "darwin":
		return "libdxcompiler.dylib"
	default:
		return "libdxcompiler.so"
	}
}

// Init loads the DXC shared library exactly once per process: a global
// compiler singleton lazily initialized under a call-once guard.
func Init() error {
	initOnce.Do(func() {
		initErr = doInit()
	})
	return initErr
}

func doInit() error {
	h, err := ffi.LoadLibrary(libraryName())
	if err != nil {
		return fmt.Errorf("dxc: load %s: %w", libraryName(), err)
	}
	lib = h
	fn, err := ffi.GetProcAddress(h, "DxcCreateInstance")
	if err != nil {
		return fmt.Errorf("dxc: resolve DxcCreateInstance: %w", err)
	}
	createFn = fn
	c, err := types.PrepareCall(fn, types.ABIDefault, types.TypePointer,
		[]types.Type{types.TypePointer, types.TypePointer, types.TypePointer})
	if err != nil {
		return fmt.Errorf("dxc: prepare call interface: %w", err)
	}
	cif = c
	return nil
}

// Options configures one HLSL→DXIL compile.
type Options struct {
	EntryPoint   string
	TargetProfile string // e.g. "vs_6_6", "lib_6_6"
	Defines      map[string]string
	Debug        bool
	Optimize     bool
}

// CompileHLSL compiles hlslSource to DXIL bytes. The profile/entry point
// come from Options; shader model ≥ 6.6 is assumed for ray-tracing
// profiles and ≥ 6.2 for 16-bit-type-using profiles.
func CompileHLSL(hlslSource string, opts Options) ([]byte, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	if opts.TargetProfile == "" {
		return nil, fmt.Errorf("dxc: CompileHLSL: TargetProfile is required")
	}

	args := buildArgs(opts)
	source := []byte(hlslSource)
	srcPtr := unsafe.Pointer(&source[0])
	srcLen := uint32(len(source))

	outPtr := unsafe.Pointer(&srcPtr)
	outLen := unsafe.Pointer(&srcLen)
	argsPtr := unsafe.Pointer(&args)

	callArgs := []unsafe.Pointer{outPtr, outLen, argsPtr}
	var result unsafe.Pointer
	if err := ffi.Call(cif, createFn, unsafe.Pointer(&result), callArgs); err != nil {
		return nil, fmt.Errorf("dxc: DxcCreateInstance call failed: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("dxc: compile produced no output blob")
	}
	return blobBytes(result), nil
}

func buildArgs(opts Options) []string {
	args := []string{"-E", opts.EntryPoint, "-T", opts.TargetProfile}
	if opts.Debug {
		args = append(args, "-Zi", "-Od")
	} else if opts.Optimize {
		args = append(args, "-O3", "-Qstrip_debug", "-Qstrip_reflect")
	}
	for k, v := range opts.Defines {
		args = append(args, "-D", fmt.Sprintf("%s=%s", k, v))
	}
	return args
}

// IDxcBlob's vtable layout (after IUnknown's 3 slots): GetBufferPointer at
// index 3, GetBufferSize at index 4. Walked the same way
// hal/dx12/d3d12/device.go walks ID3D12Device's vtable via syscall.
const (
	vtblGetBufferPointer = 3
	vtblGetBufferSize    = 4
)

// blobBytes reads an IDxcBlob's GetBufferPointer()/GetBufferSize() vtable
// slots, the same COM-vtable-via-syscall shape hal/dx12/d3d12/device.go
// uses for its device bindings.
func blobBytes(blob unsafe.Pointer) []byte {
	vtbl := *(*uintptr)(blob)
	ptrFn := *(*uintptr)(unsafe.Pointer(vtbl + vtblGetBufferPointer*unsafe.Sizeof(uintptr(0))))
	sizeFn := *(*uintptr)(unsafe.Pointer(vtbl + vtblGetBufferSize*unsafe.Sizeof(uintptr(0))))

	dataPtr, _, _ := syscall.SyscallN(ptrFn, uintptr(blob))
	size, _, _ := syscall.SyscallN(sizeFn, uintptr(blob))

	return unsafe.Slice((*byte)(unsafe.Pointer(dataPtr)), int(size))
}
