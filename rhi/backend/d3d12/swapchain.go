// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package d3d12

import (
	"fmt"
	"unsafe"

	"github.com/fyuuforge/rhi/hal/dx12/d3d12"
	"github.com/fyuuforge/rhi/hal/dx12/dxgi"
)

const swapChainFormat = dxgi.DXGI_FORMAT_B8G8R8A8_UNORM

type swapChain struct {
	device      *logicalDevice
	surface     *surface
	sc          *dxgi.IDXGISwapChain4
	rtvHeap     *d3d12.ID3D12DescriptorHeap
	rtvStride   uint32
	buffers     []*d3d12.ID3D12Resource
	bufferCount uint32
	width       uint32
	height      uint32
}

// renderTarget is the output handle command.Driver keys its barrier,
// render-target-set, and clear calls off: one back buffer's native
// resource plus its RTV descriptor handle.
type renderTarget struct {
	resource *d3d12.ID3D12Resource
	rtv      d3d12.D3D12_CPU_DESCRIPTOR_HANDLE
}

func buildRTVs(dev *d3d12.ID3D12Device, sc *dxgi.IDXGISwapChain4, bufferCount uint32) (*d3d12.ID3D12DescriptorHeap, uint32, []*d3d12.ID3D12Resource, error) {
	heap, err := dev.CreateDescriptorHeap(&d3d12.D3D12_DESCRIPTOR_HEAP_DESC{
		Type:           d3d12.D3D12_DESCRIPTOR_HEAP_TYPE_RTV,
		NumDescriptors: bufferCount,
	})
	if err != nil {
		return nil, 0, nil, fmt.Errorf("d3d12: CreateDescriptorHeap (RTV) failed: %w", err)
	}
	stride := dev.GetDescriptorHandleIncrementSize(d3d12.D3D12_DESCRIPTOR_HEAP_TYPE_RTV)
	start := heap.GetCPUDescriptorHandleForHeapStart()

	buffers := make([]*d3d12.ID3D12Resource, bufferCount)
	for i := uint32(0); i < bufferCount; i++ {
		ptr, err := sc.GetBuffer(i, &d3d12.IID_ID3D12Resource)
		if err != nil {
			heap.Release()
			return nil, 0, nil, fmt.Errorf("d3d12: GetBuffer(%d) failed: %w", i, err)
		}
		res := (*d3d12.ID3D12Resource)(ptr)
		handle := start.Offset(int(i), stride)
		dev.CreateRenderTargetView(res, nil, handle)
		buffers[i] = res
	}
	return heap, stride, buffers, nil
}

// CreateSwapChain builds an IDXGISwapChain4 with FLIP_DISCARD swap
// effect and a frame-latency waitable object, through the graphics
// queue passed as device for CreateSwapChainForHwnd — DXGI associates a
// D3D12 swap chain with the ID3D12CommandQueue that will present it,
// not with the ID3D12Device itself.
func (d *Driver) CreateSwapChain(physicalDevice, logicalDevice, queueAny, surfaceAny any, bufferCount uint32) (any, error) {
	ld, ok := logicalDevice.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("d3d12: CreateSwapChain: unexpected device %T", logicalDevice)
	}
	q, ok := queueAny.(*queue)
	if !ok {
		return nil, fmt.Errorf("d3d12: CreateSwapChain: unexpected queue %T", queueAny)
	}
	surf, ok := surfaceAny.(*surface)
	if !ok {
		return nil, fmt.Errorf("d3d12: CreateSwapChain: unexpected surface %T", surfaceAny)
	}
	_, _, factory, err := d.libs()
	if err != nil {
		return nil, err
	}

	w, h := surf.window.GetSize()
	desc := &dxgi.DXGI_SWAP_CHAIN_DESC1{
		Width:       uint32(w),
		Height:      uint32(h),
		Format:      swapChainFormat,
		SampleDesc:  dxgi.DXGI_SAMPLE_DESC{Count: 1},
		BufferUsage: dxgi.DXGI_USAGE_RENDER_TARGET_OUTPUT,
		BufferCount: bufferCount,
		Scaling:     dxgi.DXGI_SCALING_STRETCH,
		SwapEffect:  dxgi.DXGI_SWAP_EFFECT_FLIP_DISCARD,
		AlphaMode:   dxgi.DXGI_ALPHA_MODE_UNSPECIFIED,
		Flags:       dxgi.DXGI_SWAP_CHAIN_FLAG_FRAME_LATENCY_WAITABLE_OBJECT,
	}
	sc1, err := factory.CreateSwapChainForHwnd(unsafe.Pointer(q.queue), surf.hwnd, desc, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("d3d12: CreateSwapChainForHwnd failed: %w", err)
	}
	if err := factory.MakeWindowAssociation(surf.hwnd, dxgi.DXGI_MWA_NO_ALT_ENTER); err != nil {
		sc1.Release()
		return nil, fmt.Errorf("d3d12: MakeWindowAssociation failed: %w", err)
	}
	sc4, err := sc1.QueryInterface()
	if err != nil {
		sc1.Release()
		return nil, fmt.Errorf("d3d12: IDXGISwapChain1.QueryInterface failed: %w", err)
	}
	if err := sc4.SetMaximumFrameLatency(1); err != nil {
		sc4.Release()
		return nil, fmt.Errorf("d3d12: SetMaximumFrameLatency failed: %w", err)
	}

	heap, stride, buffers, err := buildRTVs(ld.dev, sc4, bufferCount)
	if err != nil {
		sc4.Release()
		return nil, err
	}

	return &swapChain{
		device: ld, surface: surf, sc: sc4,
		rtvHeap: heap, rtvStride: stride, buffers: buffers,
		bufferCount: bufferCount, width: uint32(w), height: uint32(h),
	}, nil
}

// ResizeSwapChain releases every back-buffer reference, calls
// ResizeBuffers, and rebuilds the RTV heap against the new buffers —
// the same release-resize-rebuild sequence D3D12 requires since
// ResizeBuffers fails while any ID3D12Resource referencing a back
// buffer is still alive.
func (d *Driver) ResizeSwapChain(swapChainAny any, width, height uint32) error {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return fmt.Errorf("d3d12: ResizeSwapChain: unexpected handle %T", swapChainAny)
	}
	for _, buf := range sc.buffers {
		buf.Release()
	}
	sc.buffers = nil
	sc.rtvHeap.Release()
	sc.rtvHeap = nil

	if err := sc.sc.ResizeBuffers(sc.bufferCount, width, height, swapChainFormat, dxgi.DXGI_SWAP_CHAIN_FLAG_FRAME_LATENCY_WAITABLE_OBJECT); err != nil {
		return fmt.Errorf("d3d12: ResizeBuffers failed: %w", err)
	}

	heap, stride, buffers, err := buildRTVs(sc.device.dev, sc.sc, sc.bufferCount)
	if err != nil {
		return err
	}
	sc.rtvHeap, sc.rtvStride, sc.buffers = heap, stride, buffers
	sc.width, sc.height = width, height
	return nil
}

func (d *Driver) DestroySwapChain(swapChainAny any) error {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return fmt.Errorf("d3d12: DestroySwapChain: unexpected handle %T", swapChainAny)
	}
	for _, buf := range sc.buffers {
		buf.Release()
	}
	if sc.rtvHeap != nil {
		sc.rtvHeap.Release()
	}
	sc.sc.Release()
	return nil
}

// CurrentOutput returns the render-target handle for the swap chain's
// currently writable back buffer, for BeginRenderPass/Clear/Barrier.
func (d *Driver) CurrentOutput(swapChainAny any) (any, error) {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return nil, fmt.Errorf("d3d12: CurrentOutput: unexpected handle %T", swapChainAny)
	}
	idx := sc.sc.GetCurrentBackBufferIndex()
	start := sc.rtvHeap.GetCPUDescriptorHandleForHeapStart()
	return &renderTarget{
		resource: sc.buffers[idx],
		rtv:      start.Offset(int(idx), sc.rtvStride),
	}, nil
}
