// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vulkan implements the gpu contract on top of vulkan-go.
package vulkan

import (
	"unsafe"

	"github.com/devblok/ember/gpu"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const (
	engineName = "ember\x00"

	validationLayer      = "VK_LAYER_KHRONOS_validation"
	debugReportExtension = "VK_EXT_debug_report"
)

var (
	_ gpu.Driver   = (*Driver)(nil)
	_ gpu.Instance = (*Instance)(nil)
	_ gpu.Device   = (*Device)(nil)
)

// Driver loads Vulkan through a vkGetInstanceProcAddr, usually the one
// the window system hands out
type Driver struct {
	procAddr unsafe.Pointer
}

// NewDriver creates a driver resolving entry points through procAddr.
// A nil procAddr uses the default system loader.
func NewDriver(procAddr unsafe.Pointer) *Driver {
	return &Driver{procAddr: procAddr}
}

// CreateInstance implements gpu.Driver
func (d *Driver) CreateInstance(cfg gpu.InstanceConfiguration) (gpu.Instance, error) {
	if d.procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(d.procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}

	extensions := cfg.Extensions
	layers := cfg.Layers
	if cfg.Validation {
		layers = appendUnique(layers, validationLayer)
		extensions = appendUnique(extensions, debugReportExtension)
	}
	extensions = safeStrings(extensions)
	layers = safeStrings(layers)

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(cfg.APIVersion),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		PApplicationName:   safeString(cfg.ApplicationName),
		PEngineName:        engineName,
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateInstance()")
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "vk.InitInstance()")
	}

	return &Instance{
		configuration: cfg,
		instance:      instance,
	}, nil
}

// Instance is a Vulkan API instance
type Instance struct {
	configuration gpu.InstanceConfiguration

	instance  vk.Instance
	devices   []gpu.PhysicalDevice
	debug     vk.DebugReportCallback
	debugging bool

	// callback stays referenced for as long as the driver may call it
	callback gpu.DebugCallback
}

// PhysicalDevices implements gpu.Instance
func (v *Instance) PhysicalDevices() ([]gpu.PhysicalDevice, error) {
	if v.devices != nil {
		return v.devices, nil
	}
	handles, err := enumerateDevices(v.instance)
	if err != nil {
		return nil, err
	}
	devices := make([]gpu.PhysicalDevice, 0, len(handles))
	for idx, handle := range handles {
		devices = append(devices, describe(idx, handle))
	}
	v.devices = devices
	return devices, nil
}

// SupportsPresentation implements gpu.Instance
func (v *Instance) SupportsPresentation(pd gpu.PhysicalDevice, s gpu.Surface) (bool, error) {
	handle, ok := pd.Handle.(vk.PhysicalDevice)
	if !ok {
		return false, errors.Errorf("%s: not a vulkan physical device", pd.Name)
	}
	surface, ok := s.(vk.Surface)
	if !ok {
		return false, errors.New("not a vulkan surface")
	}
	_, err := findQueueFamily(handle, surface)
	if err == errNoQueueFamily {
		return false, nil
	}
	return err == nil, err
}

// CreateDebugMessenger implements gpu.Instance
func (v *Instance) CreateDebugMessenger(cb gpu.DebugCallback) error {
	if v.debugging {
		return errors.New("debug messenger already exists")
	}
	v.callback = cb

	createInfo := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(
			vk.DebugReportErrorBit |
				vk.DebugReportWarningBit |
				vk.DebugReportPerformanceWarningBit |
				vk.DebugReportInformationBit),
		PfnCallback: func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint, messageCode int32, layerPrefix string, message string, userData unsafe.Pointer) vk.Bool32 {
			if v.callback != nil {
				v.callback(severity(flags), layerPrefix, message)
			}
			return vk.False
		},
	}

	var debug vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(v.instance, &createInfo, nil, &debug)); err != nil {
		return errors.Wrap(err, "vk.CreateDebugReportCallback()")
	}
	v.debug = debug
	v.debugging = true
	return nil
}

// DestroyDebugMessenger implements gpu.Instance
func (v *Instance) DestroyDebugMessenger() {
	if !v.debugging {
		return
	}
	vk.DestroyDebugReportCallback(v.instance, v.debug, nil)
	v.debugging = false
	v.callback = nil
}

// DestroySurface implements gpu.Instance
func (v *Instance) DestroySurface(s gpu.Surface) {
	surface, ok := s.(vk.Surface)
	if !ok || surface == vk.NullSurface {
		return
	}
	vk.DestroySurface(v.instance, surface, nil)
}

// Inner returns the vk.Instance
func (v *Instance) Inner() interface{} {
	return v.instance
}

// Destroy implements gpu.Instance
func (v *Instance) Destroy() {
	if v.instance == nil {
		return
	}
	v.DestroyDebugMessenger()
	v.devices = nil
	vk.DestroyInstance(v.instance, nil)
	v.instance = nil
}

// SurfaceFromPointer wraps a surface created by the window system
func SurfaceFromPointer(p unsafe.Pointer) gpu.Surface {
	return vk.SurfaceFromPointer(uintptr(p))
}
