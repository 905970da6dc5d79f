// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/fyuuforge/rhi/rhi/command"
)

var topologyTable = map[command.PrimitiveTopology]vk.PrimitiveTopology{
	command.PointList:     vk.PrimitiveTopologyPointList,
	command.LineList:      vk.PrimitiveTopologyLineList,
	command.LineStrip:     vk.PrimitiveTopologyLineStrip,
	command.TriangleList:  vk.PrimitiveTopologyTriangleList,
	command.TriangleStrip: vk.PrimitiveTopologyTriangleStrip,
}

func cmdBuffer(handle any) (vk.CommandBuffer, error) {
	cb, ok := handle.(vk.CommandBuffer)
	if !ok {
		return nil, fmt.Errorf("vulkan: unexpected command handle %T", handle)
	}
	return cb, nil
}

func (d *Driver) BeginRecording(handle any) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	info := vk.CommandBufferBeginInfo{SType: vk.StructureTypeCommandBufferBeginInfo}
	if res := vk.BeginCommandBuffer(cb, &info); res != vk.Success {
		return fmt.Errorf("vulkan: vkBeginCommandBuffer failed: %d", res)
	}
	return nil
}

// EndRecording ends the buffer and returns it unchanged as the published
// commandList — this backend submits directly from the VkCommandBuffer
// handle, with no separate bundle/list wrapper to build.
func (d *Driver) EndRecording(handle any) (any, error) {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return nil, err
	}
	if res := vk.EndCommandBuffer(cb); res != vk.Success {
		return nil, fmt.Errorf("vulkan: vkEndCommandBuffer failed: %d", res)
	}
	return cb, nil
}

func (d *Driver) Reset(handle any) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	if res := vk.ResetCommandBuffer(cb, vk.CommandBufferResetFlags(0)); res != vk.Success {
		return fmt.Errorf("vulkan: vkResetCommandBuffer failed: %d", res)
	}
	return nil
}

func (d *Driver) SetViewport(handle any, vp command.Viewport) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	vk.CmdSetViewport(cb, 0, 1, []vk.Viewport{{
		X: vp.X, Y: vp.Y, Width: vp.Width, Height: vp.Height,
		MinDepth: vp.MinDepth, MaxDepth: vp.MaxDepth,
	}})
	return nil
}

func (d *Driver) SetScissorRect(handle any, r command.Rect) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	vk.CmdSetScissor(cb, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: r.X, Y: r.Y},
		Extent: vk.Extent2D{Width: uint32(r.Width), Height: uint32(r.Height)},
	}})
	return nil
}

// barrierMasks maps command.ResourceState onto the VkAccessFlags/
// VkPipelineStageFlags/VkImageLayout triple a VkImageMemoryBarrier or
// VkBufferMemoryBarrier needs.
func barrierMasks(s command.ResourceState) (access vk.AccessFlags, stage vk.PipelineStageFlags, layout vk.ImageLayout) {
	switch s {
	case command.StateVertexBuffer:
		return vk.AccessFlags(vk.AccessVertexAttributeReadBit), vk.PipelineStageFlags(vk.PipelineStageVertexInputBit), vk.ImageLayoutUndefined
	case command.StateIndexBuffer:
		return vk.AccessFlags(vk.AccessIndexReadBit), vk.PipelineStageFlags(vk.PipelineStageVertexInputBit), vk.ImageLayoutUndefined
	case command.StatePresent:
		return 0, vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit), vk.ImageLayoutPresentSrc
	case command.StateOutputTarget:
		return vk.AccessFlags(vk.AccessColorAttachmentWriteBit), vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit), vk.ImageLayoutColorAttachmentOptimal
	case command.StateCopySrc:
		return vk.AccessFlags(vk.AccessTransferReadBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.ImageLayoutTransferSrcOptimal
	case command.StateCopyDest:
		return vk.AccessFlags(vk.AccessTransferWriteBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.ImageLayoutTransferDstOptimal
	default:
		return vk.AccessFlags(vk.AccessMemoryReadBit | vk.AccessMemoryWriteBit), vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit), vk.ImageLayoutGeneral
	}
}

// Barrier issues an image-memory barrier when resource is a renderTarget,
// or a buffer-memory barrier for a *bufferResource; buffers don't carry a
// layout so the image-only fields are simply left at their zero value.
func (d *Driver) Barrier(handle any, resource any, before, after command.ResourceState) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	srcAccess, srcStage, _ := barrierMasks(before)
	dstAccess, dstStage, newLayout := barrierMasks(after)

	switch res := resource.(type) {
	case *renderTarget:
		_, _, oldLayout := barrierMasks(before)
		barrier := vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:       srcAccess,
			DstAccessMask:       dstAccess,
			OldLayout:           oldLayout,
			NewLayout:           newLayout,
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Image:               res.image,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		vk.CmdPipelineBarrier(cb, srcStage, dstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
	case *bufferResource:
		barrier := vk.BufferMemoryBarrier{
			SType:               vk.StructureTypeBufferMemoryBarrier,
			SrcAccessMask:       srcAccess,
			DstAccessMask:       dstAccess,
			SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
			DstQueueFamilyIndex: vk.QueueFamilyIgnored,
			Buffer:              res.vk,
			Size:                vk.DeviceSize(res.size),
		}
		vk.CmdPipelineBarrier(cb, srcStage, dstStage, 0, 0, nil, 1, []vk.BufferMemoryBarrier{barrier}, 0, nil)
	default:
		return fmt.Errorf("vulkan: Barrier: unexpected resource %T", resource)
	}
	return nil
}

func (d *Driver) BeginRenderPass(handle any, output any, clearRGBA [4]float32) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	rt, ok := output.(*renderTarget)
	if !ok {
		return fmt.Errorf("vulkan: BeginRenderPass: unexpected output %T", output)
	}
	clearValue := vk.NewClearValue([]float32{clearRGBA[0], clearRGBA[1], clearRGBA[2], clearRGBA[3]})
	beginInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      rt.renderPass,
		Framebuffer:     rt.framebuffer,
		RenderArea:      vk.Rect2D{Extent: rt.extent},
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{clearValue},
	}
	vk.CmdBeginRenderPass(cb, &beginInfo, vk.SubpassContentsInline)
	return nil
}

func (d *Driver) EndRenderPass(handle any, output any) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	vk.CmdEndRenderPass(cb)
	return nil
}

func (d *Driver) BindVertexBuffer(handle any, bufferAny any, desc command.VertexDesc) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	buf, ok := bufferAny.(*bufferResource)
	if !ok {
		return fmt.Errorf("vulkan: BindVertexBuffer: unexpected buffer %T", bufferAny)
	}
	vk.CmdBindVertexBuffers(cb, desc.Slot, 1, []vk.Buffer{buf.vk}, []vk.DeviceSize{0})
	return nil
}

// SetPrimitiveTopology is a no-op on this backend: classic (non-extended-
// dynamic-state) Vulkan bakes VkPipelineInputAssemblyStateCreateInfo's
// topology into the pipeline at creation time, so the PSO built for the
// draw already carries the topology this call would otherwise set. The
// lookup table stays for the shape of a future VK_EXT_extended_dynamic_state
// path and to validate the caller passed a known topology.
func (d *Driver) SetPrimitiveTopology(handle any, t command.PrimitiveTopology) error {
	if _, ok := topologyTable[t]; !ok {
		return fmt.Errorf("vulkan: SetPrimitiveTopology: unknown topology %d", t)
	}
	return nil
}

func (d *Driver) Draw(handle any, indexCount, instanceCount, startIndex uint32, baseVertex int32, startInstance uint32) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	if instanceCount == 0 {
		instanceCount = 1
	}
	vk.CmdDrawIndexed(cb, indexCount, instanceCount, startIndex, baseVertex, startInstance)
	return nil
}

// Clear clears output to rgba by running it through the shared render
// pass with a clear load op, rather than vkCmdClearColorImage directly
// on the image: the image is left in VkImageLayoutColorAttachmentOptimal
// either way (matching the layout Barrier puts it in for rendering), and
// reusing the render pass avoids a second barrier dance around a raw
// image-clear call. rect is accepted for interface symmetry with the
// other backends; this backend always clears the full attachment.
func (d *Driver) Clear(handle any, output any, rgba [4]float32, rect command.Rect) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	rt, ok := output.(*renderTarget)
	if !ok {
		return fmt.Errorf("vulkan: Clear: unexpected output %T", output)
	}
	clearValue := vk.NewClearValue([]float32{rgba[0], rgba[1], rgba[2], rgba[3]})
	beginInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      rt.renderPass,
		Framebuffer:     rt.framebuffer,
		RenderArea:      vk.Rect2D{Extent: rt.extent},
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{clearValue},
	}
	vk.CmdBeginRenderPass(cb, &beginInfo, vk.SubpassContentsInline)
	vk.CmdEndRenderPass(cb)
	return nil
}

func (d *Driver) Copy(handle any, src, dst any) error {
	cb, err := cmdBuffer(handle)
	if err != nil {
		return err
	}
	srcBuf, ok := src.(*bufferResource)
	if !ok {
		return fmt.Errorf("vulkan: Copy: unexpected src %T", src)
	}
	dstBuf, ok := dst.(*bufferResource)
	if !ok {
		return fmt.Errorf("vulkan: Copy: unexpected dst %T", dst)
	}
	size := srcBuf.size
	if dstBuf.size < size {
		size = dstBuf.size
	}
	vk.CmdCopyBuffer(cb, srcBuf.vk, dstBuf.vk, 1, []vk.BufferCopy{{Size: vk.DeviceSize(size)}})
	return nil
}
