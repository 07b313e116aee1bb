// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"math"

	"github.com/devblok/ember/gpu"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const swapchainExtension = "VK_KHR_swapchain"

// CreateDevice implements gpu.Instance
func (v *Instance) CreateDevice(pd gpu.PhysicalDevice, s gpu.Surface, f gpu.Features) (gpu.Device, error) {
	physical, ok := pd.Handle.(vk.PhysicalDevice)
	if !ok {
		return nil, errors.Errorf("%s: not a vulkan physical device", pd.Name)
	}
	surface, ok := s.(vk.Surface)
	if !ok {
		return nil, errors.New("not a vulkan surface")
	}

	family, err := findQueueFamily(physical, surface)
	if err != nil {
		return nil, err
	}

	extensions := safeStrings(append([]string{swapchainExtension}, featureExtensions(pd.APIVersion, f)...))
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: family,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	chain := newFeatureChain(pd.APIVersion, f)
	defer chain.release()

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   chain.head,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(physical, &dci, nil, &device)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateDevice()")
	}

	var queue vk.Queue
	vk.GetDeviceQueue(device, family, 0, &queue)

	return &Device{
		physical:    pd,
		handle:      physical,
		device:      device,
		queue:       queue,
		queueFamily: family,
	}, nil
}

// Device is a Vulkan logical device with its single graphics and present queue
type Device struct {
	physical gpu.PhysicalDevice
	handle   vk.PhysicalDevice

	device      vk.Device
	queue       vk.Queue
	queueFamily uint32
}

// Physical implements gpu.Device
func (d *Device) Physical() gpu.PhysicalDevice {
	return d.physical
}

// CreateSwapchain implements gpu.Device
func (d *Device) CreateSwapchain(s gpu.Surface, cfg gpu.SwapchainConfiguration) (gpu.Swapchain, gpu.Extent, error) {
	surface, ok := s.(vk.Surface)
	if !ok {
		return nil, gpu.Extent{}, errors.New("not a vulkan surface")
	}

	var surfaceCapabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(d.handle, surface, &surfaceCapabilities)); err != nil {
		return nil, gpu.Extent{}, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	surfaceCapabilities.Deref()
	surfaceCapabilities.CurrentExtent.Deref()
	surfaceCapabilities.MinImageExtent.Deref()
	surfaceCapabilities.MaxImageExtent.Deref()

	extent := chooseExtent(
		surfaceCapabilities.CurrentExtent,
		surfaceCapabilities.MinImageExtent,
		surfaceCapabilities.MaxImageExtent,
		cfg.Extent,
	)
	if extent.Width == 0 || extent.Height == 0 {
		return nil, gpu.Extent{}, errors.New("surface has a zero extent")
	}

	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         surface,
		MinImageCount:   imageCount(surfaceCapabilities.MinImageCount, surfaceCapabilities.MaxImageCount, cfg.MinImageCount),
		ImageFormat:     format(cfg.Format),
		ImageColorSpace: colorSpace(cfg.ColorSpace),
		ImageExtent: vk.Extent2D{
			Width:  extent.Width,
			Height: extent.Height,
		},
		ImageUsage:       imageUsage(cfg.Usage),
		PreTransform:     vk.SurfaceTransformIdentityBit,
		CompositeAlpha:   compositeAlpha(surfaceCapabilities.SupportedCompositeAlpha),
		PresentMode:      presentMode(cfg.PresentMode),
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(d.device, &scci, nil, &swapchain)); err != nil {
		return nil, gpu.Extent{}, errors.Wrap(err, "vk.CreateSwapchain()")
	}
	return swapchain, extent, nil
}

// SwapchainImages implements gpu.Device
func (d *Device) SwapchainImages(s gpu.Swapchain) ([]gpu.Image, error) {
	swapchain, ok := s.(vk.Swapchain)
	if !ok {
		return nil, errors.New("not a vulkan swapchain")
	}

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(d.device, swapchain, &numImages, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetSwapchainImages(num)")
	}
	swapchainImages := make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(d.device, swapchain, &numImages, swapchainImages)); err != nil {
		return nil, errors.Wrap(err, "vk.GetSwapchainImages(images)")
	}

	images := make([]gpu.Image, 0, numImages)
	for _, img := range swapchainImages[:numImages] {
		images = append(images, img)
	}
	return images, nil
}

// CreateImageView implements gpu.Device
func (d *Device) CreateImageView(i gpu.Image, f gpu.Format) (gpu.ImageView, error) {
	image, ok := i.(vk.Image)
	if !ok {
		return nil, errors.New("not a vulkan image")
	}

	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format(f),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(d.device, &ivci, nil, &view)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateImageView()")
	}
	return view, nil
}

// DestroyImageView implements gpu.Device
func (d *Device) DestroyImageView(iv gpu.ImageView) {
	if view, ok := iv.(vk.ImageView); ok {
		vk.DestroyImageView(d.device, view, nil)
	}
}

// DestroySwapchain implements gpu.Device
func (d *Device) DestroySwapchain(s gpu.Swapchain) {
	if swapchain, ok := s.(vk.Swapchain); ok {
		vk.DestroySwapchain(d.device, swapchain, nil)
	}
}

// WaitIdle implements gpu.Device
func (d *Device) WaitIdle() {
	if d.device != nil {
		vk.DeviceWaitIdle(d.device)
	}
}

// Destroy implements gpu.Device
func (d *Device) Destroy() {
	if d.device == nil {
		return
	}
	vk.DestroyDevice(d.device, nil)
	d.device = nil
}

// chooseExtent takes the surface extent when the surface dictates one,
// else the wanted one clamped to what the surface allows
func chooseExtent(current, least, most vk.Extent2D, want gpu.Extent) gpu.Extent {
	if current.Width != math.MaxUint32 {
		return gpu.Extent{Width: current.Width, Height: current.Height}
	}
	return gpu.Extent{
		Width:  clamp(want.Width, least.Width, most.Width),
		Height: clamp(want.Height, least.Height, most.Height),
	}
}

func clamp(v, least, most uint32) uint32 {
	if v < least {
		return least
	}
	if v > most {
		return most
	}
	return v
}

// imageCount is one above the surface minimum unless asked for a count,
// capped by most where 0 means no limit
func imageCount(least, most, want uint32) uint32 {
	count := want
	if count == 0 {
		count = least + 1
	}
	if count < least {
		count = least
	}
	if most > 0 && count > most {
		count = most
	}
	return count
}

// compositeAlpha takes the first supported mode, opaque preferred
func compositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	compositeAlphaFlags := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}
	for _, flag := range compositeAlphaFlags {
		if supported&vk.CompositeAlphaFlags(flag) != 0 {
			return flag
		}
	}
	return vk.CompositeAlphaOpaqueBit
}
