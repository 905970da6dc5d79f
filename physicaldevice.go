// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rhi

import (
	"fmt"
	"runtime"

	"github.com/fyuuforge/rhi/internal/backend"
)

// InitOptions configures CreatePhysicalDevice.
type InitOptions struct {
	// AppName is surfaced to the backend's instance/debug-layer creation
	// (VkApplicationInfo.pApplicationName, D3D12 debug-layer object name).
	AppName string
	// EnableDebugLayer turns on the backend's validation/debug layer
	// (Vulkan validation layers, D3D12 debug interface, GL_KHR_debug).
	EnableDebugLayer bool
}

// PhysicalDevice is the GPU adapter CreatePhysicalDevice selects. It is
// immutable after creation and owns nothing beyond the driver's
// instance/factory and debug messenger.
type PhysicalDevice struct {
	tag  backend.Tag
	info backend.PhysicalDeviceInfo
}

func (p *PhysicalDevice) BackendTag() backend.Tag { return p.tag }

// Name returns the adapter's driver-reported name.
func (p *PhysicalDevice) Name() string { return p.info.Name }

func resolvePlatformDefault() backend.Tag {
	switch runtime.GOOS {
	case "windows":
		return backend.D3D12
	case "darwin":
		// Metal has no registered driver in this module; OpenGL is the
		// closest available fallback on Apple hosts.
		return backend.OpenGL
	default:
		return backend.Vulkan
	}
}

func apiToTag(api API) (backend.Tag, error) {
	switch api {
	case PlatformDefault:
		return resolvePlatformDefault(), nil
	case APIVulkan:
		return backend.Vulkan, nil
	case APIDirectX12:
		return backend.D3D12, nil
	case APIOpenGL:
		return backend.OpenGL, nil
	case APIMetal:
		return backend.Untagged, fmt.Errorf("rhi: Metal has no registered driver")
	default:
		return backend.Untagged, fmt.Errorf("rhi: unknown API value %d", int(api))
	}
}

// rank orders candidate physical devices: discrete > integrated >
// virtual > CPU, tie-broken toward the *smaller*
// total VRAM so a weaker discrete GPU is preferred for development
// machines with both an iGPU-class and a high-end discrete adapter.
func rankPhysicalDevices(candidates []backend.PhysicalDeviceInfo) []backend.PhysicalDeviceInfo {
	ranked := make([]backend.PhysicalDeviceInfo, len(candidates))
	copy(ranked, candidates)
	for i := 1; i < len(ranked); i++ {
		j := i
		for j > 0 && less(ranked[j], ranked[j-1]) {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
			j--
		}
	}
	return ranked
}

func less(a, b backend.PhysicalDeviceInfo) bool {
	if a.DeviceType != b.DeviceType {
		return a.DeviceType > b.DeviceType
	}
	return a.VRAMBytes < b.VRAMBytes
}

// CreatePhysicalDevice enumerates the adapters the backend named by api can
// see and returns the highest-ranked one. opts configures instance/debug
// layer creation.
func CreatePhysicalDevice(opts InitOptions, api API) (*PhysicalDevice, ErrorCode) {
	tag, err := apiToTag(api)
	if err != nil {
		return reportError[*PhysicalDevice](err)
	}
	drv, ok := backend.Get(tag)
	if !ok {
		return reportError[*PhysicalDevice](fmt.Errorf("rhi: %s: %w", tag, backend.ErrNotRegistered))
	}
	candidates, err := drv.EnumeratePhysicalDevices()
	if err != nil {
		return reportError[*PhysicalDevice](err)
	}
	if len(candidates) == 0 {
		return reportError[*PhysicalDevice](fmt.Errorf("rhi: %s: %w", tag, backend.ErrDeviceLost))
	}
	best := rankPhysicalDevices(candidates)[0]
	Logger().Info("physical device selected", "backend", tag.String(), "name", best.Name, "type", best.DeviceType)
	setLastError(Success, nil)
	return &PhysicalDevice{tag: tag, info: best}, Success
}

// DestroyPhysicalDevice releases p. p must not be used afterward.
func DestroyPhysicalDevice(p *PhysicalDevice) ErrorCode {
	if p == nil {
		return fail(fmt.Errorf("rhi: DestroyPhysicalDevice: %w", errNilHandle))
	}
	setLastError(Success, nil)
	return Success
}
