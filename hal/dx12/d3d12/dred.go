// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package d3d12

import (
	"syscall"
	"unsafe"
)

// D3D12_DRED_ENABLEMENT selects whether Device Removed Extended Data
// collection is off, forced on, or left to the OS default.
type D3D12_DRED_ENABLEMENT uint32

const (
	D3D12_DRED_ENABLEMENT_SYSTEM_CONTROLLED D3D12_DRED_ENABLEMENT = 0
	D3D12_DRED_ENABLEMENT_FORCED_OFF        D3D12_DRED_ENABLEMENT = 1
	D3D12_DRED_ENABLEMENT_FORCED_ON         D3D12_DRED_ENABLEMENT = 2
)

// D3D12_AUTO_BREADCRUMB_OP is one GPU timeline marker DRED can attribute a
// hang or removal to.
type D3D12_AUTO_BREADCRUMB_OP uint32

const (
	D3D12_AUTO_BREADCRUMB_OP_SETMARKER             D3D12_AUTO_BREADCRUMB_OP = 0
	D3D12_AUTO_BREADCRUMB_OP_BEGINEVENT            D3D12_AUTO_BREADCRUMB_OP = 1
	D3D12_AUTO_BREADCRUMB_OP_ENDEVENT              D3D12_AUTO_BREADCRUMB_OP = 2
	D3D12_AUTO_BREADCRUMB_OP_DRAWINSTANCED         D3D12_AUTO_BREADCRUMB_OP = 3
	D3D12_AUTO_BREADCRUMB_OP_DRAWINDEXEDINSTANCED  D3D12_AUTO_BREADCRUMB_OP = 4
	D3D12_AUTO_BREADCRUMB_OP_EXECUTEINDIRECT       D3D12_AUTO_BREADCRUMB_OP = 5
	D3D12_AUTO_BREADCRUMB_OP_DISPATCH              D3D12_AUTO_BREADCRUMB_OP = 6
	D3D12_AUTO_BREADCRUMB_OP_COPYBUFFERREGION      D3D12_AUTO_BREADCRUMB_OP = 7
	D3D12_AUTO_BREADCRUMB_OP_COPYTEXTUREREGION     D3D12_AUTO_BREADCRUMB_OP = 8
	D3D12_AUTO_BREADCRUMB_OP_COPYRESOURCE          D3D12_AUTO_BREADCRUMB_OP = 9
	D3D12_AUTO_BREADCRUMB_OP_RESOURCEBARRIER       D3D12_AUTO_BREADCRUMB_OP = 16
	D3D12_AUTO_BREADCRUMB_OP_EXECUTECOMMANDLISTS   D3D12_AUTO_BREADCRUMB_OP = 17
	D3D12_AUTO_BREADCRUMB_OP_PRESENT               D3D12_AUTO_BREADCRUMB_OP = 22
)

// D3D12_AUTO_BREADCRUMB_NODE is one command list's breadcrumb history:
// every op it recorded and how many of them the GPU had completed when the
// device was removed.
type D3D12_AUTO_BREADCRUMB_NODE struct {
	CommandListDebugNameA  *byte
	CommandListDebugNameW  *uint16
	CommandQueueDebugNameA *byte
	CommandQueueDebugNameW *uint16
	PCommandList           *ID3D12GraphicsCommandList
	PCommandQueue          *ID3D12CommandQueue
	BreadcrumbCount        uint32
	PLastBreadcrumbValue   *uint32
	PCommandHistory        *D3D12_AUTO_BREADCRUMB_OP
	PNext                  *D3D12_AUTO_BREADCRUMB_NODE
}

// D3D12_DRED_AUTO_BREADCRUMBS_OUTPUT is the head of the breadcrumb linked
// list GetAutoBreadcrumbsOutput1 returns.
type D3D12_DRED_AUTO_BREADCRUMBS_OUTPUT struct {
	PHeadAutoBreadcrumbNode *D3D12_AUTO_BREADCRUMB_NODE
}

// D3D12_DRED_ALLOCATION_TYPE identifies what kind of object a DRED
// allocation node describes.
type D3D12_DRED_ALLOCATION_TYPE uint32

// D3D12_DRED_ALLOCATION_NODE is one still-live or recently-freed
// allocation DRED walks when explaining a page fault.
type D3D12_DRED_ALLOCATION_NODE struct {
	ObjectNameA    *byte
	ObjectNameW    *uint16
	AllocationType D3D12_DRED_ALLOCATION_TYPE
	Next           *D3D12_DRED_ALLOCATION_NODE
}

// D3D12_DRED_PAGE_FAULT_OUTPUT is the page-fault diagnostic
// GetPageFaultAllocationOutput1 returns: the faulting virtual address plus
// the allocations DRED still knows about around it.
type D3D12_DRED_PAGE_FAULT_OUTPUT struct {
	PageFaultVA                    uint64
	PHeadExistingAllocationNode    *D3D12_DRED_ALLOCATION_NODE
	PHeadRecentFreedAllocationNode *D3D12_DRED_ALLOCATION_NODE
}

// ID3D12DeviceRemovedExtendedDataSettings1 turns on breadcrumb and
// page-fault capture before device creation. Queried from the debug
// interface, never from the device itself.
type ID3D12DeviceRemovedExtendedDataSettings1 struct {
	vtbl *id3d12DREDSettings1Vtbl
}

type id3d12DREDSettings1Vtbl struct {
	QueryInterface                   uintptr
	AddRef                            uintptr
	Release                           uintptr
	SetAutoBreadcrumbsEnablement      uintptr
	SetPageFaultEnablement            uintptr
	SetWatsonDumpEnablement           uintptr
	SetBreadcrumbContextEnablement    uintptr
}

func (s *ID3D12DeviceRemovedExtendedDataSettings1) Release() uint32 {
	ret, _, _ := syscall.Syscall(s.vtbl.Release, 1, uintptr(unsafe.Pointer(s)), 0, 0)
	return uint32(ret)
}

// SetAutoBreadcrumbsEnablement turns breadcrumb recording on or off.
func (s *ID3D12DeviceRemovedExtendedDataSettings1) SetAutoBreadcrumbsEnablement(e D3D12_DRED_ENABLEMENT) {
	syscall.Syscall(s.vtbl.SetAutoBreadcrumbsEnablement, 2, uintptr(unsafe.Pointer(s)), uintptr(e), 0)
}

// SetPageFaultEnablement turns page-fault allocation tracking on or off.
func (s *ID3D12DeviceRemovedExtendedDataSettings1) SetPageFaultEnablement(e D3D12_DRED_ENABLEMENT) {
	syscall.Syscall(s.vtbl.SetPageFaultEnablement, 2, uintptr(unsafe.Pointer(s)), uintptr(e), 0)
}

// ID3D12DeviceRemovedExtendedData1 is queried from a removed device to
// read back its breadcrumb trail and page-fault context.
type ID3D12DeviceRemovedExtendedData1 struct {
	vtbl *id3d12DRED1Vtbl
}

type id3d12DRED1Vtbl struct {
	QueryInterface                uintptr
	AddRef                         uintptr
	Release                        uintptr
	GetDeviceRemovedReason         uintptr
	GetPageFaultAllocationOutput   uintptr
	GetAutoBreadcrumbsOutput       uintptr
	GetPageFaultAllocationOutput1  uintptr
	GetAutoBreadcrumbsOutput1      uintptr
}

func (d *ID3D12DeviceRemovedExtendedData1) Release() uint32 {
	ret, _, _ := syscall.Syscall(d.vtbl.Release, 1, uintptr(unsafe.Pointer(d)), 0, 0)
	return uint32(ret)
}

// GetAutoBreadcrumbsOutput1 returns the head of the breadcrumb node list
// for the command lists in flight when the device was removed.
func (d *ID3D12DeviceRemovedExtendedData1) GetAutoBreadcrumbsOutput1() (D3D12_DRED_AUTO_BREADCRUMBS_OUTPUT, error) {
	var out D3D12_DRED_AUTO_BREADCRUMBS_OUTPUT
	ret, _, _ := syscall.Syscall(
		d.vtbl.GetAutoBreadcrumbsOutput1,
		2,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&out)),
		0,
	)
	if ret != 0 {
		return out, HRESULTError(ret)
	}
	return out, nil
}

// GetPageFaultAllocationOutput1 returns the faulting address and nearby
// allocation bookkeeping DRED captured.
func (d *ID3D12DeviceRemovedExtendedData1) GetPageFaultAllocationOutput1() (D3D12_DRED_PAGE_FAULT_OUTPUT, error) {
	var out D3D12_DRED_PAGE_FAULT_OUTPUT
	ret, _, _ := syscall.Syscall(
		d.vtbl.GetPageFaultAllocationOutput1,
		2,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&out)),
		0,
	)
	if ret != 0 {
		return out, HRESULTError(ret)
	}
	return out, nil
}

// IID_ID3D12DeviceRemovedExtendedDataSettings1 is the interface ID for
// ID3D12DeviceRemovedExtendedDataSettings1.
// {1B8A6A67-3C82-4A07-9273-DD6FF3A3915D}
var IID_ID3D12DeviceRemovedExtendedDataSettings1 = GUID{
	Data1: 0x1B8A6A67,
	Data2: 0x3C82,
	Data3: 0x4A07,
	Data4: [8]byte{0x92, 0x73, 0xDD, 0x6F, 0xF3, 0xA3, 0x91, 0x5D},
}

// IID_ID3D12DeviceRemovedExtendedData1 is the interface ID for
// ID3D12DeviceRemovedExtendedData1.
// {9727A022-CF1D-4DDA-AA10-99718FC64FC8}
var IID_ID3D12DeviceRemovedExtendedData1 = GUID{
	Data1: 0x9727A022,
	Data2: 0xCF1D,
	Data3: 0x4DDA,
	Data4: [8]byte{0xAA, 0x10, 0x99, 0x71, 0x8F, 0xC6, 0x4F, 0xC8},
}

// GetDebugInterfaceDREDSettings1 retrieves the DRED settings interface used
// to opt into breadcrumb and page-fault capture before a device is
// created. D3D12GetDebugInterface serves this the same way it serves
// ID3D12Debug — only the requested IID differs.
func GetDebugInterfaceDREDSettings1(lib *D3D12Lib) (*ID3D12DeviceRemovedExtendedDataSettings1, error) {
	var settings *ID3D12DeviceRemovedExtendedDataSettings1
	ret, _, _ := lib.d3d12GetDebugInterface.Call(
		uintptr(unsafe.Pointer(&IID_ID3D12DeviceRemovedExtendedDataSettings1)),
		uintptr(unsafe.Pointer(&settings)),
	)
	if ret != 0 {
		return nil, HRESULTError(ret)
	}
	return settings, nil
}

// QueryDeviceRemovedExtendedData1 queries d for the DRED diagnostic
// interface after GetDeviceRemovedReason has reported the device gone.
// ID3D12Device exposes no typed helper for this itself since DRED is an
// opt-in diagnostics extension, not part of the core device surface.
func QueryDeviceRemovedExtendedData1(d *ID3D12Device) (*ID3D12DeviceRemovedExtendedData1, error) {
	var dred *ID3D12DeviceRemovedExtendedData1
	ret, _, _ := syscall.Syscall(
		d.vtbl.QueryInterface,
		3,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&IID_ID3D12DeviceRemovedExtendedData1)),
		uintptr(unsafe.Pointer(&dred)),
	)
	if ret != 0 {
		return nil, HRESULTError(ret)
	}
	return dred, nil
}
