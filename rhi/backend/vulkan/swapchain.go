// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type swapChain struct {
	device       *logicalDevice
	surface      *surface
	vk           vk.Swapchain
	format       vk.Format
	extent       vk.Extent2D
	images       []vk.Image
	imageViews   []vk.ImageView
	framebuffers []vk.Framebuffer
	renderPass   vk.RenderPass
	bufferCount  uint32
	acquired     uint32
	sem          vk.Semaphore
}

// renderTarget is the output handle command.Driver's render-pass and
// clear operations key off: one swap-chain image, its view, the single
// render pass every back buffer shares, and the per-image framebuffer
// built from that view.
type renderTarget struct {
	image       vk.Image
	view        vk.ImageView
	extent      vk.Extent2D
	renderPass  vk.RenderPass
	framebuffer vk.Framebuffer
}

// createRenderPass builds the single-color-attachment VkRenderPass every
// back buffer's framebuffer is compatible with. Its attachment uses
// AttachmentLoadOpClear, so every vkCmdBeginRenderPass on it (from
// BeginRenderPass or Clear) clears the image to the clear value passed
// with that call.
func createRenderPass(device vk.Device, format vk.Format) (vk.RenderPass, error) {
	attachment := vk.AttachmentDescription{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutColorAttachmentOptimal,
	}
	colorRef := vk.AttachmentReference{Attachment: 0, Layout: vk.ImageLayoutColorAttachmentOptimal}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    []vk.AttachmentReference{colorRef},
	}
	info := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{attachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
	}
	var rp vk.RenderPass
	if res := vk.CreateRenderPass(device, &info, nil, &rp); res != vk.Success {
		return nil, fmt.Errorf("vulkan: vkCreateRenderPass failed: %d", res)
	}
	return rp, nil
}

func createFramebuffers(device vk.Device, renderPass vk.RenderPass, views []vk.ImageView, extent vk.Extent2D) ([]vk.Framebuffer, error) {
	fbs := make([]vk.Framebuffer, 0, len(views))
	for _, v := range views {
		info := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{v},
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}
		var fb vk.Framebuffer
		if res := vk.CreateFramebuffer(device, &info, nil, &fb); res != vk.Success {
			return nil, fmt.Errorf("vulkan: vkCreateFramebuffer failed: %d", res)
		}
		fbs = append(fbs, fb)
	}
	return fbs, nil
}

// CreateSwapChain builds a VkSwapchainKHR of bufferCount images sized to
// surface's current extent, always using the B8G8R8A8_SRGB format
// (without querying the surface's supported formats) and FIFO (vsync)
// present mode — EndFrame always presents with vsync on.
func (d *Driver) CreateSwapChain(physicalDevice, logicalDevice, queueAny, surfaceAny any, bufferCount uint32) (any, error) {
	phys, ok := physicalDevice.(physicalDeviceHandle)
	if !ok {
		return nil, fmt.Errorf("vulkan: CreateSwapChain: unexpected physical device %T", physicalDevice)
	}
	ld, ok := logicalDevice.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("vulkan: CreateSwapChain: unexpected device %T", logicalDevice)
	}
	surf, ok := surfaceAny.(*surface)
	if !ok {
		return nil, fmt.Errorf("vulkan: CreateSwapChain: unexpected surface %T", surfaceAny)
	}

	var caps vk.SurfaceCapabilities
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(phys.vk, surf.vk, &caps); res != vk.Success {
		return nil, fmt.Errorf("vulkan: vkGetPhysicalDeviceSurfaceCapabilitiesKHR failed: %d", res)
	}
	extent := caps.CurrentExtent

	format := vk.FormatB8g8r8a8Srgb
	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surf.vk,
		MinImageCount:    bufferCount,
		ImageFormat:      format,
		ImageColorSpace:  vk.ColorSpaceSrgbNonlinear,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
	}
	var sc vk.Swapchain
	if res := vk.CreateSwapchain(ld.vk, &createInfo, nil, &sc); res != vk.Success {
		return nil, fmt.Errorf("vulkan: vkCreateSwapchainKHR failed: %d", res)
	}

	var count uint32
	vk.GetSwapchainImages(ld.vk, sc, &count, nil)
	images := make([]vk.Image, count)
	vk.GetSwapchainImages(ld.vk, sc, &count, images)

	views := make([]vk.ImageView, 0, len(images))
	for _, img := range images {
		viewInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    img,
			ViewType: vk.ImageViewType2d,
			Format:   format,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		var view vk.ImageView
		if res := vk.CreateImageView(ld.vk, &viewInfo, nil, &view); res != vk.Success {
			return nil, fmt.Errorf("vulkan: vkCreateImageView failed: %d", res)
		}
		views = append(views, view)
	}

	semInfo := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var sem vk.Semaphore
	if res := vk.CreateSemaphore(ld.vk, &semInfo, nil, &sem); res != vk.Success {
		return nil, fmt.Errorf("vulkan: vkCreateSemaphore failed: %d", res)
	}

	renderPass, err := createRenderPass(ld.vk, format)
	if err != nil {
		return nil, err
	}
	framebuffers, err := createFramebuffers(ld.vk, renderPass, views, extent)
	if err != nil {
		return nil, err
	}

	return &swapChain{
		device: ld, surface: surf, vk: sc, format: format, extent: extent,
		images: images, imageViews: views, framebuffers: framebuffers, renderPass: renderPass,
		bufferCount: bufferCount, sem: sem,
	}, nil
}

// ResizeSwapChain waits for the device to go idle, destroys the
// framebuffers and image views, recreates the VkSwapchainKHR (handing the
// old one over as OldSwapchain), and rebuilds views and framebuffers
// against the existing render pass. The caller's width/height become the
// new extent as passed; the surface's capabilities are not re-queried.
func (d *Driver) ResizeSwapChain(swapChainAny any, width, height uint32) error {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return fmt.Errorf("vulkan: ResizeSwapChain: unexpected handle %T", swapChainAny)
	}
	vk.DeviceWaitIdle(sc.device.vk)
	for _, fb := range sc.framebuffers {
		vk.DestroyFramebuffer(sc.device.vk, fb, nil)
	}
	for _, v := range sc.imageViews {
		vk.DestroyImageView(sc.device.vk, v, nil)
	}
	old := sc.vk
	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          sc.surface.vk,
		MinImageCount:    sc.bufferCount,
		ImageFormat:      sc.format,
		ImageColorSpace:  vk.ColorSpaceSrgbNonlinear,
		ImageExtent:      vk.Extent2D{Width: width, Height: height},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		OldSwapchain:     old,
	}
	var newSc vk.Swapchain
	if res := vk.CreateSwapchain(sc.device.vk, &createInfo, nil, &newSc); res != vk.Success {
		return fmt.Errorf("vulkan: vkCreateSwapchainKHR (resize) failed: %d", res)
	}
	vk.DestroySwapchain(sc.device.vk, old, nil)
	sc.vk = newSc
	sc.extent = vk.Extent2D{Width: width, Height: height}

	var count uint32
	vk.GetSwapchainImages(sc.device.vk, sc.vk, &count, nil)
	images := make([]vk.Image, count)
	vk.GetSwapchainImages(sc.device.vk, sc.vk, &count, images)
	sc.images = images

	views := make([]vk.ImageView, 0, len(images))
	for _, img := range images {
		viewInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    img,
			ViewType: vk.ImageViewType2d,
			Format:   sc.format,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		var view vk.ImageView
		if res := vk.CreateImageView(sc.device.vk, &viewInfo, nil, &view); res != vk.Success {
			return fmt.Errorf("vulkan: vkCreateImageView (resize) failed: %d", res)
		}
		views = append(views, view)
	}
	sc.imageViews = views

	framebuffers, err := createFramebuffers(sc.device.vk, sc.renderPass, views, sc.extent)
	if err != nil {
		return err
	}
	sc.framebuffers = framebuffers
	return nil
}

func (d *Driver) DestroySwapChain(swapChainAny any) error {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return fmt.Errorf("vulkan: DestroySwapChain: unexpected handle %T", swapChainAny)
	}
	vk.DeviceWaitIdle(sc.device.vk)
	for _, fb := range sc.framebuffers {
		vk.DestroyFramebuffer(sc.device.vk, fb, nil)
	}
	for _, v := range sc.imageViews {
		vk.DestroyImageView(sc.device.vk, v, nil)
	}
	vk.DestroyRenderPass(sc.device.vk, sc.renderPass, nil)
	vk.DestroySemaphore(sc.device.vk, sc.sem, nil)
	vk.DestroySwapchain(sc.device.vk, sc.vk, nil)
	return nil
}

// CurrentOutput returns the render-target handle for the swap chain's
// currently acquired image (the one WaitFrameLatencyWaitable just set),
// for a caller to pass into CommandObject.BeginRenderPass/Clear.
func (d *Driver) CurrentOutput(swapChainAny any) (any, error) {
	sc, ok := swapChainAny.(*swapChain)
	if !ok {
		return nil, fmt.Errorf("vulkan: CurrentOutput: unexpected handle %T", swapChainAny)
	}
	idx := sc.acquired
	return &renderTarget{
		image:       sc.images[idx],
		view:        sc.imageViews[idx],
		extent:      sc.extent,
		renderPass:  sc.renderPass,
		framebuffer: sc.framebuffers[idx],
	}, nil
}
