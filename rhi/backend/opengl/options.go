// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package opengl

// DefaultPixelFormatAttribs mirrors hal/gles/egl's own internal
// chooseEGLConfig attribute list: surface type, renderable type, the four
// color channel sizes, depth, and stencil, each as an (token, value) pair,
// None-terminated (0x3038). Kept here as plain EGL token values rather than
// importing hal/gles/egl so this file builds on every platform; only the
// Linux/EGL path consumes it today, see context_linux.go.
var DefaultPixelFormatAttribs = []int32{
	0x3033, 0x0001, // SurfaceType, PbufferBit
	0x3040, 0x0008, // RenderableType, OpenGLBit
	0x3024, 8, // RedSize
	0x3023, 8, // GreenSize
	0x3022, 8, // BlueSize
	0x3021, 8, // AlphaSize
	0x3025, 24, // DepthSize
	0x3026, 8, // StencilSize
	0x3038, // None
}

// OpenGLOptions customizes this backend's pixel format selection. Unlike
// Vulkan/D3D12, physical-device/logical-device creation here takes no
// options parameter of its own (internal/backend.Driver's signature is
// shared across all three backends), so options are installed once via
// SetOptions before CreateLogicalDevice runs.
type OpenGLOptions struct {
	// PixelFormatAttribs overrides DefaultPixelFormatAttribs for EGL
	// config selection on Linux. Ignored on Windows, where pixel format
	// selection goes through wgl.DefaultPixelFormat's
	// PIXELFORMATDESCRIPTOR instead of an EGL-style attribute list.
	PixelFormatAttribs []int32
}

var options OpenGLOptions

// SetOptions installs options for every logical device this backend
// creates afterward.
func SetOptions(opts OpenGLOptions) {
	options = opts
}

func pixelFormatAttribs() []int32 {
	if len(options.PixelFormatAttribs) > 0 {
		return options.PixelFormatAttribs
	}
	return DefaultPixelFormatAttribs
}
