// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package d3d12

import "fmt"

// HRESULTError wraps a non-zero HRESULT returned by a COM method. Every
// wrapped call in this package returns one instead of a bare error code
// so callers can recover the numeric HRESULT with a type assertion, per
// the package doc's error-handling section.
type HRESULTError uint32

func (e HRESULTError) Error() string {
	if msg, ok := knownHRESULTs[uint32(e)]; ok {
		return fmt.Sprintf("d3d12: %s (0x%08X)", msg, uint32(e))
	}
	return fmt.Sprintf("d3d12: HRESULT 0x%08X", uint32(e))
}

// knownHRESULTs names the HRESULT codes this package's callers hit most:
// the DXGI device-removed/hung/reset and driver-internal-error codes, the
// generic E_INVALIDARG/E_OUTOFMEMORY/E_NOINTERFACE codes, and the two
// adapter/driver-mismatch codes a failed CreateDevice call commonly returns.
var knownHRESULTs = map[uint32]string{
	0x887A0005: "DXGI_ERROR_DEVICE_REMOVED",
	0x887A0006: "DXGI_ERROR_DEVICE_HUNG",
	0x887A0007: "DXGI_ERROR_DEVICE_RESET",
	0x887A0020: "DXGI_ERROR_DRIVER_INTERNAL_ERROR",
	0x80070057: "E_INVALIDARG",
	0x8007000E: "E_OUTOFMEMORY",
	0x80004002: "E_NOINTERFACE",
	0x887E0001: "D3D12_ERROR_ADAPTER_NOT_FOUND",
	0x887E0002: "D3D12_ERROR_DRIVER_VERSION_MISMATCH",
}
