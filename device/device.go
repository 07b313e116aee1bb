// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device negotiates a GPU able to run the engine: it creates the
// driver instance, picks a physical device meeting the version and feature
// floor, and builds the logical device on it.
package device

import (
	"fmt"
	"strings"

	"github.com/devblok/ember/gpu"
)

// Requirements is the floor a physical device has to meet
type Requirements struct {
	MinimumVersion gpu.Version
	Features       gpu.Features
}

// DefaultRequirements asks for Vulkan 1.3 with dynamic rendering,
// synchronization2, buffer device address and descriptor indexing
var DefaultRequirements = Requirements{
	MinimumVersion: gpu.MakeVersion(1, 3, 0),
	Features: gpu.Features{
		DynamicRendering:    true,
		Synchronization2:    true,
		BufferDeviceAddress: true,
		DescriptorIndexing:  true,
	},
}

// Candidate is a physical device together with its ability to present
// to the surface the engine renders to
type Candidate struct {
	Device      gpu.PhysicalDevice `json:"device"`
	Presentable bool               `json:"presentable"`
}

// Selection records the chosen device and what it was chosen for
type Selection struct {
	Device         gpu.PhysicalDevice
	MinimumVersion gpu.Version
	Features       gpu.Features
}

// Reason tells why a device was rejected
type Reason int

// Rejection reasons, in the order the gates are checked
const (
	RejectVersion Reason = iota + 1
	RejectFeatures
	RejectPresentation
)

func (r Reason) String() string {
	switch r {
	case RejectVersion:
		return "version"
	case RejectFeatures:
		return "features"
	case RejectPresentation:
		return "presentation"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Rejection describes why one device did not qualify
type Rejection struct {
	Device  string   `json:"device"`
	Reason  Reason   `json:"reason"`
	Missing []string `json:"missing,omitempty"`
	Detail  string   `json:"detail"`
}

func (r Rejection) String() string {
	return r.Device + ": " + r.Detail
}

// NoSuitableDeviceError is returned when no device passes every gate.
// It matches ErrNoSuitableDevice with errors.Is.
type NoSuitableDeviceError struct {
	Rejections []Rejection
}

func (e *NoSuitableDeviceError) Error() string {
	if len(e.Rejections) == 0 {
		return ErrNoSuitableDevice.Error() + ": no physical devices enumerated"
	}
	details := make([]string, len(e.Rejections))
	for idx, r := range e.Rejections {
		details[idx] = r.String()
	}
	return ErrNoSuitableDevice.Error() + ": " + strings.Join(details, "; ")
}

// Is makes the error match ErrNoSuitableDevice
func (e *NoSuitableDeviceError) Is(target error) bool {
	return target == ErrNoSuitableDevice
}

// Has reports if any device was rejected for reason r
func (e *NoSuitableDeviceError) Has(r Reason) bool {
	for _, rejection := range e.Rejections {
		if rejection.Reason == r {
			return true
		}
	}
	return false
}
