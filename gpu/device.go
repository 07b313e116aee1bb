// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gpu

import (
	"fmt"
	"strings"
)

// Version is an API version packed the way Vulkan packs it
type Version uint32

// MakeVersion packs major, minor and patch into a Version
func MakeVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | minor<<12 | patch)
}

// Major version number
func (v Version) Major() uint32 {
	return uint32(v) >> 22 & 0x7f
}

// Minor version number
func (v Version) Minor() uint32 {
	return uint32(v) >> 12 & 0x3ff
}

// Patch version number
func (v Version) Patch() uint32 {
	return uint32(v) & 0xfff
}

// AtLeast reports if v is equal to or newer than floor.
// Patch level is ignored.
func (v Version) AtLeast(floor Version) bool {
	if v.Major() != floor.Major() {
		return v.Major() > floor.Major()
	}
	return v.Minor() >= floor.Minor()
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// MarshalText implements encoding.TextMarshaler
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// DeviceType is the kind of a physical device
type DeviceType int

// Known device types, in no particular order
const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

var deviceTypeNames = map[DeviceType]string{
	DeviceTypeOther:         "other",
	DeviceTypeIntegratedGPU: "integrated",
	DeviceTypeDiscreteGPU:   "discrete",
	DeviceTypeVirtualGPU:    "virtual",
	DeviceTypeCPU:           "cpu",
}

func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler
func (t DeviceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Features is the set of optional device capabilities the engine cares about.
// DynamicRendering and Synchronization2 come with Vulkan 1.3,
// BufferDeviceAddress and DescriptorIndexing with Vulkan 1.2.
type Features struct {
	DynamicRendering    bool `json:"dynamicRendering"`
	Synchronization2    bool `json:"synchronization2"`
	BufferDeviceAddress bool `json:"bufferDeviceAddress"`
	DescriptorIndexing  bool `json:"descriptorIndexing"`
}

// Missing lists the names of features required but not present in f
func (f Features) Missing(required Features) []string {
	var missing []string
	if required.DynamicRendering && !f.DynamicRendering {
		missing = append(missing, "dynamicRendering")
	}
	if required.Synchronization2 && !f.Synchronization2 {
		missing = append(missing, "synchronization2")
	}
	if required.BufferDeviceAddress && !f.BufferDeviceAddress {
		missing = append(missing, "bufferDeviceAddress")
	}
	if required.DescriptorIndexing && !f.DescriptorIndexing {
		missing = append(missing, "descriptorIndexing")
	}
	return missing
}

// Contains reports if every feature in required is present in f
func (f Features) Contains(required Features) bool {
	return len(f.Missing(required)) == 0
}

func (f Features) String() string {
	// everything f has is what an empty set is missing
	present := Features{}.Missing(f)
	return "[" + strings.Join(present, " ") + "]"
}

// PhysicalDevice describes a GPU enumerated by the driver
type PhysicalDevice struct {
	// Index is the position in the driver's enumeration order
	Index      int        `json:"index"`
	Name       string     `json:"name"`
	Type       DeviceType `json:"type"`
	APIVersion Version    `json:"apiVersion"`
	Features   Features   `json:"features"`

	// Handle is the driver's own handle for the device
	Handle interface{} `json:"-"`
}
