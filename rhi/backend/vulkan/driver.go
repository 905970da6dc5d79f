// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package vulkan implements internal/backend.Driver, rhi/frame.Driver and
// rhi/command.Driver atop github.com/vulkan-go/vulkan. It registers
// itself on import, so a blank import of this package is enough to make
// the "vulkan" backend tag available to the registry.
package vulkan

import (
	"fmt"
	"sync"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/fyuuforge/rhi/internal/backend"
	"github.com/fyuuforge/rhi/rhi/memory"
)

func init() {
	backend.Register(&Driver{})
}

// Driver is the Vulkan backend.Driver. Every opaque handle it hands back
// to rhi is a pointer to one of this package's own concrete types
// (*logicalDevice, *queue, *surface, *swapChain, *bufferResource); rhi never
// inspects them, only threads them back through the same Driver's
// methods.
type Driver struct {
	mu       sync.Mutex
	instance vk.Instance
}

func (d *Driver) Tag() backend.Tag { return backend.Vulkan }

func (d *Driver) instanceHandle() (vk.Instance, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.instance != vk.NullInstance {
		return d.instance, nil
	}
	if err := vk.Init(); err != nil {
		return vk.NullInstance, fmt.Errorf("vulkan: loader init: %w", err)
	}
	appInfo := &vk.ApplicationInfo{
		SType:         vk.StructureTypeApplicationInfo,
		ApiVersion:    vk.MakeVersion(1, 3, 0),
		PApplicationName: "gogpu-rhi\x00",
	}
	createInfo := &vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}
	var instance vk.Instance
	if res := vk.CreateInstance(createInfo, nil, &instance); res != vk.Success {
		return vk.NullInstance, fmt.Errorf("vulkan: vkCreateInstance failed: %d", res)
	}
	vk.InitInstance(instance)
	d.instance = instance
	return instance, nil
}

type physicalDeviceHandle struct {
	vk vk.PhysicalDevice
}

// EnumeratePhysicalDevices ranks every Vulkan-capable adapter the loader
// can see, mapping VkPhysicalDeviceType onto backend.DeviceType so
// rhi.CreatePhysicalDevice's ranking rule applies uniformly across
// backends.
func (d *Driver) EnumeratePhysicalDevices() ([]backend.PhysicalDeviceInfo, error) {
	instance, err := d.instanceHandle()
	if err != nil {
		return nil, err
	}
	var count uint32
	if res := vk.EnumeratePhysicalDevices(instance, &count, nil); res != vk.Success {
		return nil, fmt.Errorf("vulkan: vkEnumeratePhysicalDevices (count): %d", res)
	}
	devices := make([]vk.PhysicalDevice, count)
	if count > 0 {
		if res := vk.EnumeratePhysicalDevices(instance, &count, devices); res != vk.Success {
			return nil, fmt.Errorf("vulkan: vkEnumeratePhysicalDevices: %d", res)
		}
	}
	infos := make([]backend.PhysicalDeviceInfo, 0, count)
	for _, pd := range devices {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &props)
		var memProps vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(pd, &memProps)
		infos = append(infos, backend.PhysicalDeviceInfo{
			Handle:       physicalDeviceHandle{vk: pd},
			Name:         vk.ToString(props.DeviceName[:]),
			DeviceType:   deviceTypeFromVk(props.DeviceType),
			VRAMBytes:    deviceLocalHeapSize(memProps),
			DriverVendor: fmt.Sprintf("0x%x", props.VendorID),
		})
	}
	return infos, nil
}

func deviceTypeFromVk(t vk.PhysicalDeviceType) backend.DeviceType {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return backend.DeviceTypeDiscrete
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return backend.DeviceTypeIntegrated
	case vk.PhysicalDeviceTypeVirtualGpu:
		return backend.DeviceTypeVirtual
	case vk.PhysicalDeviceTypeCpu:
		return backend.DeviceTypeCPU
	default:
		return backend.DeviceTypeOther
	}
}

func deviceLocalHeapSize(memProps vk.PhysicalDeviceMemoryProperties) uint64 {
	var total uint64
	for i := uint32(0); i < memProps.MemoryHeapCount; i++ {
		heap := memProps.MemoryHeaps[i]
		if heap.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0 {
			total += heap.Size
		}
	}
	return total
}

type logicalDevice struct {
	physical vk.PhysicalDevice
	vk       vk.Device
	gfxQueue vk.Queue
	gfxFamily uint32
	pool     vk.CommandPool
}

// CreateLogicalDevice opens a VkDevice against physicalDevice with one
// queue from the first queue family that reports graphics support.
func (d *Driver) CreateLogicalDevice(physicalDevice any) (any, error) {
	phys, ok := physicalDevice.(physicalDeviceHandle)
	if !ok {
		return nil, fmt.Errorf("vulkan: CreateLogicalDevice: unexpected physical device handle %T", physicalDevice)
	}
	family, err := graphicsQueueFamily(phys.vk)
	if err != nil {
		return nil, err
	}
	priority := float32(1.0)
	queueInfo := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: family,
		QueueCount:       1,
		PQueuePriorities: []float32{priority},
	}
	deviceInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    []vk.DeviceQueueCreateInfo{queueInfo},
		PpEnabledExtensionNames: []string{"VK_KHR_swapchain\x00"},
	}
	var dev vk.Device
	if res := vk.CreateDevice(phys.vk, &deviceInfo, nil, &dev); res != vk.Success {
		return nil, fmt.Errorf("vulkan: vkCreateDevice failed: %d", res)
	}
	var gfxQueue vk.Queue
	vk.GetDeviceQueue(dev, family, 0, &gfxQueue)

	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: family,
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(dev, &poolInfo, nil, &pool); res != vk.Success {
		vk.DestroyDevice(dev, nil)
		return nil, fmt.Errorf("vulkan: vkCreateCommandPool failed: %d", res)
	}

	return &logicalDevice{physical: phys.vk, vk: dev, gfxQueue: gfxQueue, gfxFamily: family, pool: pool}, nil
}

func graphicsQueueFamily(phys vk.PhysicalDevice) (uint32, error) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(phys, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(phys, &count, props)
	for i, p := range props {
		if p.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			return uint32(i), nil
		}
	}
	return 0, fmt.Errorf("vulkan: no graphics-capable queue family")
}

func (d *Driver) DestroyLogicalDevice(logicalDevice any) error {
	ld, ok := logicalDevice.(*logicalDevice)
	if !ok {
		return fmt.Errorf("vulkan: DestroyLogicalDevice: unexpected handle %T", logicalDevice)
	}
	vk.DeviceWaitIdle(ld.vk)
	vk.DestroyCommandPool(ld.vk, ld.pool, nil)
	vk.DestroyDevice(ld.vk, nil)
	return nil
}

// heapBacking is the backing handle CreateHeap returns: the allocated
// VkDeviceMemory plus the logicalDevice it was allocated from, since
// rhi/memory.Chunk.Backing() is CreateResource's only path to a heap's
// native handle and CreateResource isn't itself passed a device.
type heapBacking struct {
	device *logicalDevice
	mem    vk.DeviceMemory
}

// CreateHeap allocates one VkDeviceMemory block of size bytes, picking a
// memory type by rhi/memory.Category: Upload/ReadBack map onto
// host-visible+coherent memory and are persistently mapped; everything
// else maps onto device-local memory.
func (d *Driver) CreateHeap(logicalDevice any, size uint64, category int) (any, uintptr, error) {
	ld, ok := logicalDevice.(*logicalDevice)
	if !ok {
		return nil, 0, fmt.Errorf("vulkan: CreateHeap: unexpected device handle %T", logicalDevice)
	}
	wantHostVisible := memory.Category(category) == memory.Upload || memory.Category(category) == memory.ReadBack

	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(ld.physical, &memProps)
	typeIndex, err := selectMemoryType(memProps, wantHostVisible)
	if err != nil {
		return nil, 0, err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(size),
		MemoryTypeIndex: typeIndex,
	}
	var mem vk.DeviceMemory
	if res := vk.AllocateMemory(ld.vk, &allocInfo, nil, &mem); res != vk.Success {
		return nil, 0, fmt.Errorf("vulkan: vkAllocateMemory failed: %d", res)
	}

	var mapped uintptr
	if wantHostVisible {
		var data unsafe.Pointer
		if res := vk.MapMemory(ld.vk, mem, 0, vk.DeviceSize(size), 0, &data); res != vk.Success {
			vk.FreeMemory(ld.vk, mem, nil)
			return nil, 0, fmt.Errorf("vulkan: vkMapMemory failed: %d", res)
		}
		mapped = uintptr(data)
	}
	return &heapBacking{device: ld, mem: mem}, mapped, nil
}

func selectMemoryType(props vk.PhysicalDeviceMemoryProperties, hostVisible bool) (uint32, error) {
	want := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	if hostVisible {
		want = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	}
	for i := uint32(0); i < props.MemoryTypeCount; i++ {
		if props.MemoryTypes[i].PropertyFlags&want == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("vulkan: no memory type satisfies requested properties")
}

func (d *Driver) DestroyHeap(logicalDevice any, backing any) error {
	ld, ok := logicalDevice.(*logicalDevice)
	if !ok {
		return fmt.Errorf("vulkan: DestroyHeap: unexpected device handle %T", logicalDevice)
	}
	hb, ok := backing.(*heapBacking)
	if !ok {
		return fmt.Errorf("vulkan: DestroyHeap: unexpected backing %T", backing)
	}
	vk.FreeMemory(ld.vk, hb.mem, nil)
	return nil
}

// CreateQueue wraps the single graphics queue opened in
// CreateLogicalDevice; kind/priority are ignored and not recorded, since
// Vulkan itself has no native per-submit priority knob on a queue already
// created, so a distinct kind/priority combination never creates a second
// VkQueue here.
func (d *Driver) CreateQueue(logicalDevice any, kind int, priority int) (backend.QueueOps, error) {
	ld, ok := logicalDevice.(*logicalDevice)
	if !ok {
		return nil, fmt.Errorf("vulkan: CreateQueue: unexpected device handle %T", logicalDevice)
	}
	return &queue{device: ld}, nil
}
