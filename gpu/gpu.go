// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gpu describes the contract the engine expects from a GPU driver
// stack. Concrete drivers live in sub-packages.
package gpu

// Handles issued by a driver. They are opaque to everything but
// the driver that created them.
type (
	Surface   interface{}
	Swapchain interface{}
	Image     interface{}
	ImageView interface{}
)

// Driver is the entry point into a GPU driver stack.
type Driver interface {
	// CreateInstance connects to the driver stack. An error here
	// means no usable driver is present.
	CreateInstance(InstanceConfiguration) (Instance, error)
}

// Instance describes a connection to the driver stack and supporting methods.
// Once created it is ready to use.
type Instance interface {
	// PhysicalDevices enumerates the GPUs visible to the instance,
	// in the order the driver reports them
	PhysicalDevices() ([]PhysicalDevice, error)

	// SupportsPresentation reports if the device can present
	// images to the given surface
	SupportsPresentation(PhysicalDevice, Surface) (bool, error)

	// CreateDevice builds a logical device on the given physical device
	// with the feature set enabled and a queue able to present to surface
	CreateDevice(PhysicalDevice, Surface, Features) (Device, error)

	// CreateDebugMessenger registers the callback with the validation layers
	CreateDebugMessenger(DebugCallback) error

	// DestroyDebugMessenger unregisters the debug callback, if any
	DestroyDebugMessenger()

	// DestroySurface releases a surface created against this instance
	DestroySurface(Surface)

	// Inner returns the inner handle of the underlying API
	Inner() interface{}

	// Destroy destroys internal members
	Destroy()
}

// Device is a logical device bound to one physical device.
// It owns every resource created through it.
type Device interface {
	// Physical returns the physical device this device was built on
	Physical() PhysicalDevice

	// CreateSwapchain creates a presentation chain on the surface.
	// The returned extent is the one the driver actually used.
	CreateSwapchain(Surface, SwapchainConfiguration) (Swapchain, Extent, error)

	// SwapchainImages returns the presentable images in chain order
	SwapchainImages(Swapchain) ([]Image, error)

	// CreateImageView creates a color view over a presentable image
	CreateImageView(Image, Format) (ImageView, error)

	DestroyImageView(ImageView)
	DestroySwapchain(Swapchain)

	// WaitIdle blocks until the device finished all submitted work
	WaitIdle()

	// Destroy destroys internal members
	Destroy()
}

// InstanceConfiguration is used to configure instance creation
type InstanceConfiguration struct {
	ApplicationName string
	APIVersion      Version

	// Validation loads the validation layers and the debug
	// report extension
	Validation bool

	// Extensions and Layers are requested in addition to the
	// ones validation implies. Windowing systems usually
	// require some instance extensions for surface creation.
	Extensions []string
	Layers     []string
}

// SwapchainConfiguration describes the presentation chain to create
type SwapchainConfiguration struct {
	Format      Format
	ColorSpace  ColorSpace
	PresentMode PresentMode
	Usage       ImageUsage
	Extent      Extent

	// MinImageCount of 0 lets the driver pick one above its minimum
	MinImageCount uint32
}

// Extent is a two dimensional size in pixels
type Extent struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// DebugSeverity grades a message from the validation layers
type DebugSeverity int

// Severities reported to a DebugCallback
const (
	DebugVerbose DebugSeverity = iota
	DebugInfo
	DebugWarning
	DebugError
)

// DebugCallback receives validation layer output
type DebugCallback func(severity DebugSeverity, layer, message string)
