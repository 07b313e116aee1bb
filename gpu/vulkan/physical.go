// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"github.com/devblok/ember/gpu"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var errNoQueueFamily = errors.New("no queue family with graphics and present capabilities")

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vulkan physical device enumeration failed")
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, errors.Wrap(err, "vulkan physical device enumeration failed")
	}
	return availableDevices[:deviceCount], nil
}

// describe reads what the engine needs to know about a physical device
func describe(index int, pd vk.PhysicalDevice) gpu.PhysicalDevice {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &properties)
	properties.Deref()

	api := gpu.Version(properties.ApiVersion)
	return gpu.PhysicalDevice{
		Index:      index,
		Name:       vk.ToString(properties.DeviceName[:]),
		Type:       deviceType(properties.DeviceType),
		APIVersion: api,
		Features:   probeFeatures(api, deviceExtensions(pd)),
		Handle:     pd,
	}
}

// deviceExtensions lists the extension names, an error reads as none
func deviceExtensions(pd vk.PhysicalDevice) []string {
	var numDeviceExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, nil)); err != nil {
		return nil
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, deviceExt)); err != nil {
		return nil
	}

	names := make([]string, 0, numDeviceExtensions)
	for _, ext := range deviceExt[:numDeviceExtensions] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names
}

// findQueueFamily returns the first family that can both draw
// and present to surface
func findQueueFamily(pd vk.PhysicalDevice, surface vk.Surface) (uint32, error) {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, queueFamilies)

	for i := uint32(0); i < queueFamilyCount; i++ {
		queueFamilies[i].Deref()
		if queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == 0 {
			continue
		}

		var supportsPresent vk.Bool32
		if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(pd, i, surface, &supportsPresent)); err != nil {
			return 0, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceSupport()")
		}
		if supportsPresent.B() {
			return i, nil
		}
	}
	return 0, errNoQueueFamily
}
