// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"github.com/devblok/ember/gpu"
	vk "github.com/vulkan-go/vulkan"
)

func deviceType(t vk.PhysicalDeviceType) gpu.DeviceType {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return gpu.DeviceTypeDiscreteGPU
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return gpu.DeviceTypeIntegratedGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return gpu.DeviceTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return gpu.DeviceTypeCPU
	}
	return gpu.DeviceTypeOther
}

func format(f gpu.Format) vk.Format {
	switch f {
	case gpu.FormatB8G8R8A8Unorm:
		return vk.FormatB8g8r8a8Unorm
	case gpu.FormatB8G8R8A8SRGB:
		return vk.FormatB8g8r8a8Srgb
	case gpu.FormatR8G8B8A8Unorm:
		return vk.FormatR8g8b8a8Unorm
	}
	return vk.FormatUndefined
}

func colorSpace(gpu.ColorSpace) vk.ColorSpace {
	return vk.ColorSpaceSrgbNonlinear
}

func presentMode(m gpu.PresentMode) vk.PresentMode {
	switch m {
	case gpu.PresentModeFIFORelaxed:
		return vk.PresentModeFifoRelaxed
	case gpu.PresentModeMailbox:
		return vk.PresentModeMailbox
	case gpu.PresentModeImmediate:
		return vk.PresentModeImmediate
	}
	return vk.PresentModeFifo
}

func imageUsage(u gpu.ImageUsage) vk.ImageUsageFlags {
	var flags vk.ImageUsageFlagBits
	if u.Has(gpu.ImageUsageColorAttachment) {
		flags |= vk.ImageUsageColorAttachmentBit
	}
	if u.Has(gpu.ImageUsageTransferDst) {
		flags |= vk.ImageUsageTransferDstBit
	}
	if u.Has(gpu.ImageUsageTransferSrc) {
		flags |= vk.ImageUsageTransferSrcBit
	}
	if u.Has(gpu.ImageUsageStorage) {
		flags |= vk.ImageUsageStorageBit
	}
	return vk.ImageUsageFlags(flags)
}

func severity(flags vk.DebugReportFlags) gpu.DebugSeverity {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return gpu.DebugError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return gpu.DebugWarning
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return gpu.DebugInfo
	}
	return gpu.DebugVerbose
}
