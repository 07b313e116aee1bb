// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gputest provides a recording stub driver and a scripted window
// for testing code built on the gpu and platform contracts.
package gputest

import (
	"fmt"

	"github.com/devblok/ember/gpu"
	"github.com/pkg/errors"
)

// Recorder logs driver and window calls in the order they happen.
// One recorder is usually shared by a Driver and a WindowSystem.
type Recorder struct {
	calls []string
}

func (r *Recorder) record(format string, args ...interface{}) {
	if r == nil {
		return
	}
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the recorded calls
func (r *Recorder) Calls() []string {
	return append([]string(nil), r.calls...)
}

// Reset forgets all recorded calls
func (r *Recorder) Reset() {
	r.calls = nil
}

// DeviceSpec describes a synthetic physical device
type DeviceSpec struct {
	Name        string
	Type        gpu.DeviceType
	APIVersion  gpu.Version
	Features    gpu.Features
	Presentable bool
}

// AllFeatures is every feature the engine knows about
var AllFeatures = gpu.Features{
	DynamicRendering:    true,
	Synchronization2:    true,
	BufferDeviceAddress: true,
	DescriptorIndexing:  true,
}

// Driver is a gpu.Driver backed by synthetic devices.
// Fields ending in Err make the matching call fail.
type Driver struct {
	Recorder *Recorder
	Devices  []DeviceSpec

	// ImageCount is the number of images each swapchain gets, 3 if zero
	ImageCount int

	InstanceErr     error
	DebugErr        error
	EnumerateErr    error
	DeviceErr       error
	SwapchainErr    error
	ImagesErr       error
	ImageViewErr    error
	ImageViewFailAt int // 1-based index of the view to fail, 0 fails none

	instance *Instance
}

// CreateInstance implements gpu.Driver
func (d *Driver) CreateInstance(cfg gpu.InstanceConfiguration) (gpu.Instance, error) {
	if d.InstanceErr != nil {
		return nil, d.InstanceErr
	}
	d.Recorder.record("instance.create")
	d.instance = &Instance{
		driver:        d,
		Configuration: cfg,
		live:          true,
		surfaces:      map[gpu.Surface]bool{},
	}
	return d.instance, nil
}

// Instance returns the most recently created instance
func (d *Driver) Instance() *Instance {
	return d.instance
}

// Instance is a recording gpu.Instance
type Instance struct {
	driver *Driver

	// Configuration the instance was created with
	Configuration gpu.InstanceConfiguration

	// DebugCallback is the registered callback, nil until one is created
	DebugCallback gpu.DebugCallback

	// Device is the most recently created logical device
	Device *Device

	live        bool
	surfaces    map[gpu.Surface]bool
	surfaceSeq  int
	debugActive bool
}

// NewSurface creates a surface the way a window would
func (i *Instance) NewSurface() gpu.Surface {
	i.surfaceSeq++
	s := fmt.Sprintf("surface#%d", i.surfaceSeq)
	i.surfaces[s] = true
	i.driver.Recorder.record("surface.create")
	return s
}

// PhysicalDevices implements gpu.Instance
func (i *Instance) PhysicalDevices() ([]gpu.PhysicalDevice, error) {
	if i.driver.EnumerateErr != nil {
		return nil, i.driver.EnumerateErr
	}
	devices := make([]gpu.PhysicalDevice, len(i.driver.Devices))
	for idx, spec := range i.driver.Devices {
		devices[idx] = gpu.PhysicalDevice{
			Index:      idx,
			Name:       spec.Name,
			Type:       spec.Type,
			APIVersion: spec.APIVersion,
			Features:   spec.Features,
			Handle:     idx,
		}
	}
	return devices, nil
}

// SupportsPresentation implements gpu.Instance
func (i *Instance) SupportsPresentation(pd gpu.PhysicalDevice, s gpu.Surface) (bool, error) {
	if !i.surfaces[s] {
		return false, errors.Errorf("gputest: unknown surface %v", s)
	}
	idx, ok := pd.Handle.(int)
	if !ok || idx < 0 || idx >= len(i.driver.Devices) {
		return false, errors.Errorf("gputest: unknown physical device %v", pd.Handle)
	}
	return i.driver.Devices[idx].Presentable, nil
}

// CreateDevice implements gpu.Instance
func (i *Instance) CreateDevice(pd gpu.PhysicalDevice, s gpu.Surface, features gpu.Features) (gpu.Device, error) {
	if i.driver.DeviceErr != nil {
		return nil, i.driver.DeviceErr
	}
	i.driver.Recorder.record("device.create %s", pd.Name)
	i.Device = &Device{
		driver:   i.driver,
		physical: pd,
		Features: features,
		live:     true,
		views:    map[gpu.ImageView]bool{},
		chains:   map[gpu.Swapchain]bool{},
	}
	return i.Device, nil
}

// CreateDebugMessenger implements gpu.Instance
func (i *Instance) CreateDebugMessenger(cb gpu.DebugCallback) error {
	if i.driver.DebugErr != nil {
		return i.driver.DebugErr
	}
	i.driver.Recorder.record("debug.create")
	i.DebugCallback = cb
	i.debugActive = true
	return nil
}

// DestroyDebugMessenger implements gpu.Instance
func (i *Instance) DestroyDebugMessenger() {
	if !i.debugActive {
		return
	}
	i.debugActive = false
	i.driver.Recorder.record("debug.destroy")
}

// DestroySurface implements gpu.Instance
func (i *Instance) DestroySurface(s gpu.Surface) {
	if !i.surfaces[s] {
		return
	}
	delete(i.surfaces, s)
	i.driver.Recorder.record("surface.destroy")
}

// Inner implements gpu.Instance
func (i *Instance) Inner() interface{} {
	return i
}

// Destroy implements gpu.Instance
func (i *Instance) Destroy() {
	if !i.live {
		return
	}
	i.live = false
	i.driver.Recorder.record("instance.destroy")
}

// Device is a recording gpu.Device
type Device struct {
	driver   *Driver
	physical gpu.PhysicalDevice

	// Features the device was created with
	Features gpu.Features

	// LastSwapchain is the configuration of the latest swapchain
	LastSwapchain gpu.SwapchainConfiguration

	live       bool
	chainSeq   int
	viewSeq    int
	viewsTried int
	chains     map[gpu.Swapchain]bool
	views      map[gpu.ImageView]bool
}

type swapchain struct {
	id     int
	images int
}

type image struct {
	chain int
	index int
}

type view struct {
	id    int
	image image
}

// Physical implements gpu.Device
func (d *Device) Physical() gpu.PhysicalDevice {
	return d.physical
}

// CreateSwapchain implements gpu.Device
func (d *Device) CreateSwapchain(s gpu.Surface, cfg gpu.SwapchainConfiguration) (gpu.Swapchain, gpu.Extent, error) {
	if d.driver.SwapchainErr != nil {
		return nil, gpu.Extent{}, d.driver.SwapchainErr
	}
	count := d.driver.ImageCount
	if count == 0 {
		count = 3
	}
	d.chainSeq++
	sc := swapchain{id: d.chainSeq, images: count}
	d.chains[sc] = true
	d.LastSwapchain = cfg
	d.driver.Recorder.record("swapchain.create %dx%d", cfg.Extent.Width, cfg.Extent.Height)
	return sc, cfg.Extent, nil
}

// SwapchainImages implements gpu.Device
func (d *Device) SwapchainImages(s gpu.Swapchain) ([]gpu.Image, error) {
	if d.driver.ImagesErr != nil {
		return nil, d.driver.ImagesErr
	}
	sc, ok := s.(swapchain)
	if !ok || !d.chains[sc] {
		return nil, errors.Errorf("gputest: unknown swapchain %v", s)
	}
	images := make([]gpu.Image, sc.images)
	for idx := range images {
		images[idx] = image{chain: sc.id, index: idx}
	}
	return images, nil
}

// CreateImageView implements gpu.Device
func (d *Device) CreateImageView(img gpu.Image, format gpu.Format) (gpu.ImageView, error) {
	d.viewsTried++
	if d.driver.ImageViewErr != nil && (d.driver.ImageViewFailAt == 0 || d.driver.ImageViewFailAt == d.viewsTried) {
		return nil, d.driver.ImageViewErr
	}
	i, ok := img.(image)
	if !ok {
		return nil, errors.Errorf("gputest: unknown image %v", img)
	}
	d.viewSeq++
	v := view{id: d.viewSeq, image: i}
	d.views[v] = true
	d.driver.Recorder.record("view.create %d", i.index)
	return v, nil
}

// ViewImage returns the image index a view was created for
func ViewImage(v gpu.ImageView) (int, bool) {
	vv, ok := v.(view)
	return vv.image.index, ok
}

// DestroyImageView implements gpu.Device
func (d *Device) DestroyImageView(v gpu.ImageView) {
	vv, ok := v.(view)
	if !ok || !d.views[vv] {
		return
	}
	delete(d.views, vv)
	d.driver.Recorder.record("view.destroy %d", vv.image.index)
}

// DestroySwapchain implements gpu.Device
func (d *Device) DestroySwapchain(s gpu.Swapchain) {
	sc, ok := s.(swapchain)
	if !ok || !d.chains[sc] {
		return
	}
	delete(d.chains, sc)
	d.driver.Recorder.record("swapchain.destroy")
}

// WaitIdle implements gpu.Device
func (d *Device) WaitIdle() {
	if d.live {
		d.driver.Recorder.record("device.wait")
	}
}

// Destroy implements gpu.Device
func (d *Device) Destroy() {
	if !d.live {
		return
	}
	d.live = false
	d.driver.Recorder.record("device.destroy")
}

// LiveViews is the number of image views not yet destroyed
func (d *Device) LiveViews() int {
	return len(d.views)
}

// LiveSwapchains is the number of swapchains not yet destroyed
func (d *Device) LiveSwapchains() int {
	return len(d.chains)
}
