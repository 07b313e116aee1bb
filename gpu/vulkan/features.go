// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"runtime"
	"unsafe"

	"github.com/devblok/ember/gpu"
	vk "github.com/vulkan-go/vulkan"
)

// Device extensions providing the features before they became core
const (
	dynamicRenderingExtension    = "VK_KHR_dynamic_rendering"
	synchronization2Extension    = "VK_KHR_synchronization2"
	bufferDeviceAddressExtension = "VK_KHR_buffer_device_address"
	descriptorIndexingExtension  = "VK_EXT_descriptor_indexing"
)

// Structure types of the feature structs below
const (
	structureTypeVulkan12Features         vk.StructureType = 51
	structureTypeVulkan13Features         vk.StructureType = 53
	structureTypeDynamicRenderingFeatures vk.StructureType = 1000044003
	structureTypeSynchronization2Features vk.StructureType = 1000314007
)

var (
	version12 = gpu.MakeVersion(1, 2, 0)
	version13 = gpu.MakeVersion(1, 3, 0)
)

// probeFeatures derives the feature set from the device API version and
// its extensions. 1.3 mandates all but descriptor indexing, which stays
// optional and is only known from its extension. Earlier devices need the
// extension, and the 1.2 ones a 1.2 device to enable them with.
func probeFeatures(api gpu.Version, extensions []string) gpu.Features {
	has := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		has[ext] = true
	}
	core13 := api.AtLeast(version13)
	core12 := api.AtLeast(version12)
	return gpu.Features{
		DynamicRendering:    core13 || has[dynamicRenderingExtension],
		Synchronization2:    core13 || has[synchronization2Extension],
		BufferDeviceAddress: core13 || (core12 && has[bufferDeviceAddressExtension]),
		DescriptorIndexing:  core12 && has[descriptorIndexingExtension],
	}
}

// featureExtensions lists the extensions to enable for f
// on a device that predates 1.3
func featureExtensions(api gpu.Version, f gpu.Features) []string {
	if api.AtLeast(version13) {
		return nil
	}
	var exts []string
	if f.DynamicRendering {
		exts = append(exts, dynamicRenderingExtension)
	}
	if f.Synchronization2 {
		exts = append(exts, synchronization2Extension)
	}
	return exts
}

// Mirrors of VkPhysicalDeviceVulkan12Features and ...13Features,
// only the members the engine enables are named.
type vulkan12Features struct {
	sType               vk.StructureType
	pNext               unsafe.Pointer
	_                   [9]vk.Bool32
	descriptorIndexing  vk.Bool32
	_                   [28]vk.Bool32
	bufferDeviceAddress vk.Bool32
	_                   [8]vk.Bool32
}

type vulkan13Features struct {
	sType            vk.StructureType
	pNext            unsafe.Pointer
	_                [9]vk.Bool32
	synchronization2 vk.Bool32
	_                [2]vk.Bool32
	dynamicRendering vk.Bool32
	_                [2]vk.Bool32
}

// toggleFeature mirrors the single member feature structs of
// VK_KHR_dynamic_rendering and VK_KHR_synchronization2
type toggleFeature struct {
	sType   vk.StructureType
	pNext   unsafe.Pointer
	enabled vk.Bool32
}

// featureChain is the pNext chain enabling a feature set at device
// creation. It lives in Go memory and has to be pinned while the
// driver reads it.
type featureChain struct {
	v12              vulkan12Features
	v13              vulkan13Features
	dynamicRendering toggleFeature
	synchronization2 toggleFeature

	head   unsafe.Pointer
	pinner runtime.Pinner
}

func bool32(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

// newFeatureChain links the structs needed for f on a device of api version
func newFeatureChain(api gpu.Version, f gpu.Features) *featureChain {
	c := &featureChain{}
	link := func(sType *vk.StructureType, next *unsafe.Pointer) {
		*next = c.head
		c.head = unsafe.Pointer(sType)
	}

	if api.AtLeast(version12) && (f.BufferDeviceAddress || f.DescriptorIndexing) {
		c.v12.sType = structureTypeVulkan12Features
		c.v12.bufferDeviceAddress = bool32(f.BufferDeviceAddress)
		c.v12.descriptorIndexing = bool32(f.DescriptorIndexing)
		link(&c.v12.sType, &c.v12.pNext)
	}

	if api.AtLeast(version13) {
		if f.DynamicRendering || f.Synchronization2 {
			c.v13.sType = structureTypeVulkan13Features
			c.v13.dynamicRendering = bool32(f.DynamicRendering)
			c.v13.synchronization2 = bool32(f.Synchronization2)
			link(&c.v13.sType, &c.v13.pNext)
		}
	} else {
		if f.DynamicRendering {
			c.dynamicRendering = toggleFeature{sType: structureTypeDynamicRenderingFeatures, enabled: vk.True}
			link(&c.dynamicRendering.sType, &c.dynamicRendering.pNext)
		}
		if f.Synchronization2 {
			c.synchronization2 = toggleFeature{sType: structureTypeSynchronization2Features, enabled: vk.True}
			link(&c.synchronization2.sType, &c.synchronization2.pNext)
		}
	}

	if c.head != nil {
		c.pinner.Pin(c)
	}
	return c
}

// release unpins the chain once the driver is done with it
func (c *featureChain) release() {
	c.pinner.Unpin()
}
