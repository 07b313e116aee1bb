// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"

	"github.com/devblok/ember/device"
	"github.com/devblok/ember/gpu"
	"github.com/devblok/ember/platform"
	"github.com/devblok/ember/swapchain"
)

// Default window size in pixels
const (
	DefaultWidth  = 1700
	DefaultHeight = 900
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Window       platform.WindowConfiguration
	Instance     InstanceConfiguration
	Device       device.Requirements
	Presentation swapchain.Configuration
	Time         TimeConfiguration
	Frame        FrameConfiguration
}

// InstanceConfiguration is used to configure the driver instance
type InstanceConfiguration struct {
	ApplicationName string
	APIVersion      gpu.Version

	// Validation loads the validation layers and routes their
	// output to the log. Defaults to on only in debug builds.
	Validation bool
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// MinimizedDelay is how long the loop sleeps per
	// iteration while the window is minimized
	MinimizedDelay time.Duration
}

// FrameConfiguration is used to build the per frame projection
type FrameConfiguration struct {
	// FieldOfView is the vertical field of view in degrees
	FieldOfView float32
	Near        float32
	Far         float32
}

// DefaultConfiguration returns the configuration the engine ships with
func DefaultConfiguration() Configuration {
	return Configuration{
		Window: platform.WindowConfiguration{
			Title:  "Vulkan Engine",
			X:      platform.WindowPosUndefined,
			Y:      platform.WindowPosUndefined,
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Flags:  platform.WindowVulkan | platform.WindowResizable,
		},
		Instance: InstanceConfiguration{
			ApplicationName: "Example Vulkan Application",
			APIVersion:      gpu.MakeVersion(1, 3, 0),
			Validation:      validationEnabled,
		},
		Device:       device.DefaultRequirements,
		Presentation: swapchain.DefaultConfiguration,
		Time: TimeConfiguration{
			MinimizedDelay: 100 * time.Millisecond,
		},
		Frame: FrameConfiguration{
			FieldOfView: 70,
			Near:        0.1,
			Far:         10000,
		},
	}
}
