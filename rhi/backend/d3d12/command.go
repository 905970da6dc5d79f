// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

//go:build windows

package d3d12

import (
	"fmt"

	"github.com/fyuuforge/rhi/hal/dx12/d3d12"
	"github.com/fyuuforge/rhi/rhi/command"
)

// commandObject is the handle rhi/command.Object threads through
// Driver: an allocator plus the one list built from it. Reset rewinds
// the allocator and re-opens the list against it rather than allocating
// a fresh list per frame, mirroring how rhi/backend/vulkan reuses one
// VkCommandBuffer from a VkCommandPool.
type commandObject struct {
	allocator *d3d12.ID3D12CommandAllocator
	list      *d3d12.ID3D12GraphicsCommandList
}

// stateTable maps command.ResourceState onto the D3D12_RESOURCE_STATES
// a transition barrier needs; D3D12 states are already a closer analogue
// of the abstract ResourceState than Vulkan's (access, stage, layout)
// triple, so this is a single direct lookup rather than barrierMasks'
// three-way split.
var stateTable = map[command.ResourceState]d3d12.D3D12_RESOURCE_STATES{
	command.StateCommon:       d3d12.D3D12_RESOURCE_STATE_COMMON,
	command.StateVertexBuffer: d3d12.D3D12_RESOURCE_STATE_VERTEX_AND_CONSTANT_BUFFER,
	command.StateIndexBuffer:  d3d12.D3D12_RESOURCE_STATE_INDEX_BUFFER,
	command.StatePresent:      d3d12.D3D12_RESOURCE_STATE_PRESENT,
	command.StateOutputTarget: d3d12.D3D12_RESOURCE_STATE_RENDER_TARGET,
	command.StateCopySrc:      d3d12.D3D12_RESOURCE_STATE_COPY_SOURCE,
	command.StateCopyDest:     d3d12.D3D12_RESOURCE_STATE_COPY_DEST,
}

func cmdObject(handle any) (*commandObject, error) {
	co, ok := handle.(*commandObject)
	if !ok {
		return nil, fmt.Errorf("d3d12: unexpected command handle %T", handle)
	}
	return co, nil
}

func (d *Driver) BeginRecording(handle any) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	if err := co.allocator.Reset(); err != nil {
		return fmt.Errorf("d3d12: CommandAllocator.Reset failed: %w", err)
	}
	if err := co.list.Reset(co.allocator, nil); err != nil {
		return fmt.Errorf("d3d12: CommandList.Reset failed: %w", err)
	}
	return nil
}

// EndRecording closes the list and returns it unchanged as the published
// commandList; ExecuteCommandLists (rhi/frame.Driver and queue.go) both
// take *d3d12.ID3D12GraphicsCommandList directly.
func (d *Driver) EndRecording(handle any) (any, error) {
	co, err := cmdObject(handle)
	if err != nil {
		return nil, err
	}
	if err := co.list.Close(); err != nil {
		return nil, fmt.Errorf("d3d12: CommandList.Close failed: %w", err)
	}
	return co.list, nil
}

// Reset discards whatever was last recorded without publishing it,
// identical to the allocator/list rewind BeginRecording performs.
func (d *Driver) Reset(handle any) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	if err := co.allocator.Reset(); err != nil {
		return fmt.Errorf("d3d12: CommandAllocator.Reset failed: %w", err)
	}
	return co.list.Reset(co.allocator, nil)
}

func (d *Driver) SetViewport(handle any, vp command.Viewport) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	dv := d3d12.D3D12_VIEWPORT{
		TopLeftX: vp.X, TopLeftY: vp.Y, Width: vp.Width, Height: vp.Height,
		MinDepth: vp.MinDepth, MaxDepth: vp.MaxDepth,
	}
	co.list.RSSetViewports(1, &dv)
	return nil
}

func (d *Driver) SetScissorRect(handle any, r command.Rect) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	dr := d3d12.D3D12_RECT{
		Left: r.X, Top: r.Y, Right: r.X + r.Width, Bottom: r.Y + r.Height,
	}
	co.list.RSSetScissorRects(1, &dr)
	return nil
}

// Barrier issues a single transition barrier built by
// d3d12.NewTransitionBarrier. resource is either a *renderTarget (the
// swap chain's backing ID3D12Resource for the current back buffer) or a
// *bufferResource; both carry a native *d3d12.ID3D12Resource to
// transition.
func (d *Driver) Barrier(handle any, resource any, before, after command.ResourceState) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	stateBefore, ok := stateTable[before]
	if !ok {
		return fmt.Errorf("d3d12: Barrier: unknown before-state %d", before)
	}
	stateAfter, ok := stateTable[after]
	if !ok {
		return fmt.Errorf("d3d12: Barrier: unknown after-state %d", after)
	}

	var native *d3d12.ID3D12Resource
	switch res := resource.(type) {
	case *renderTarget:
		native = res.resource
	case *bufferResource:
		native = res.res
	default:
		return fmt.Errorf("d3d12: Barrier: unexpected resource %T", resource)
	}

	const allSubresources = 0xffffffff
	barrier := d3d12.NewTransitionBarrier(native, stateBefore, stateAfter, allSubresources)
	co.list.ResourceBarrier(1, &barrier)
	return nil
}

func (d *Driver) BeginRenderPass(handle any, output any, clearRGBA [4]float32) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	rt, ok := output.(*renderTarget)
	if !ok {
		return fmt.Errorf("d3d12: BeginRenderPass: unexpected output %T", output)
	}
	co.list.OMSetRenderTargets(1, &rt.rtv, 0, nil)
	co.list.ClearRenderTargetView(rt.rtv, &clearRGBA, 0, nil)
	return nil
}

// EndRenderPass is a no-op: D3D12 has no render-pass object to close the
// way Vulkan's vkCmdEndRenderPass does, only the OMSetRenderTargets call
// BeginRenderPass already issued.
func (d *Driver) EndRenderPass(handle any, output any) error {
	if _, err := cmdObject(handle); err != nil {
		return err
	}
	return nil
}

func (d *Driver) BindVertexBuffer(handle any, bufferAny any, desc command.VertexDesc) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	buf, ok := bufferAny.(*bufferResource)
	if !ok {
		return fmt.Errorf("d3d12: BindVertexBuffer: unexpected buffer %T", bufferAny)
	}
	view := d3d12.D3D12_VERTEX_BUFFER_VIEW{
		BufferLocation: buf.res.GetGPUVirtualAddress(),
		SizeInBytes:    uint32(desc.Size),
		StrideInBytes:  desc.Stride,
	}
	co.list.IASetVertexBuffers(desc.Slot, 1, &view)
	return nil
}

var topologyTable = map[command.PrimitiveTopology]d3d12.D3D_PRIMITIVE_TOPOLOGY{
	command.PointList:     d3d12.D3D_PRIMITIVE_TOPOLOGY_POINTLIST,
	command.LineList:      d3d12.D3D_PRIMITIVE_TOPOLOGY_LINELIST,
	command.LineStrip:     d3d12.D3D_PRIMITIVE_TOPOLOGY_LINESTRIP,
	command.TriangleList:  d3d12.D3D_PRIMITIVE_TOPOLOGY_TRIANGLELIST,
	command.TriangleStrip: d3d12.D3D_PRIMITIVE_TOPOLOGY_TRIANGLESTRIP,
}

// SetPrimitiveTopology is a real per-draw state change on this backend,
// unlike rhi/backend/vulkan's no-op: D3D12 never bakes primitive
// topology into the PSO, only the broader topology *type*
// (D3D12_PRIMITIVE_TOPOLOGY_TYPE) the rasterizer state carries, so
// IASetPrimitiveTopology has to run before every draw that changes it.
func (d *Driver) SetPrimitiveTopology(handle any, t command.PrimitiveTopology) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	topo, ok := topologyTable[t]
	if !ok {
		return fmt.Errorf("d3d12: SetPrimitiveTopology: unknown topology %d", t)
	}
	co.list.IASetPrimitiveTopology(topo)
	return nil
}

func (d *Driver) Draw(handle any, indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	if instanceCount == 0 {
		instanceCount = 1
	}
	co.list.DrawIndexedInstanced(indexCount, instanceCount, startIndex, baseVertex, startInstance)
	return nil
}

// Clear issues ClearRenderTargetView directly; rect is honored only when
// non-zero, D3D12's own ClearRenderTargetView convention for "clear the
// whole view" (a nil rects pointer).
func (d *Driver) Clear(handle any, output any, rgba [4]float32, rect command.Rect) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	rt, ok := output.(*renderTarget)
	if !ok {
		return fmt.Errorf("d3d12: Clear: unexpected output %T", output)
	}
	if rect.Width == 0 && rect.Height == 0 {
		co.list.ClearRenderTargetView(rt.rtv, &rgba, 0, nil)
		return nil
	}
	dr := d3d12.D3D12_RECT{Left: rect.X, Top: rect.Y, Right: rect.X + rect.Width, Bottom: rect.Y + rect.Height}
	co.list.ClearRenderTargetView(rt.rtv, &rgba, 1, &dr)
	return nil
}

func (d *Driver) Copy(handle any, src, dst any) error {
	co, err := cmdObject(handle)
	if err != nil {
		return err
	}
	srcBuf, ok := src.(*bufferResource)
	if !ok {
		return fmt.Errorf("d3d12: Copy: unexpected src %T", src)
	}
	dstBuf, ok := dst.(*bufferResource)
	if !ok {
		return fmt.Errorf("d3d12: Copy: unexpected dst %T", dst)
	}
	size := srcBuf.size
	if dstBuf.size < size {
		size = dstBuf.size
	}
	if size == dstBuf.size && size == srcBuf.size {
		co.list.CopyResource(dstBuf.res, srcBuf.res)
		return nil
	}
	co.list.CopyBufferRegion(dstBuf.res, 0, srcBuf.res, 0, size)
	return nil
}
