// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gpu

import "fmt"

// Format is a pixel format of a presentable image
type Format int

// Supported formats
const (
	FormatUndefined Format = iota
	FormatB8G8R8A8Unorm
	FormatB8G8R8A8SRGB
	FormatR8G8B8A8Unorm
)

func (f Format) String() string {
	switch f {
	case FormatB8G8R8A8Unorm:
		return "B8G8R8A8_UNORM"
	case FormatB8G8R8A8SRGB:
		return "B8G8R8A8_SRGB"
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8_UNORM"
	case FormatUndefined:
		return "UNDEFINED"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ColorSpace of a presentable image
type ColorSpace int

// Supported color spaces
const (
	ColorSpaceSRGBNonlinear ColorSpace = iota
)

func (c ColorSpace) String() string {
	if c == ColorSpaceSRGBNonlinear {
		return "SRGB_NONLINEAR"
	}
	return fmt.Sprintf("ColorSpace(%d)", int(c))
}

// PresentMode decides how finished images are queued for the display
type PresentMode int

// Present modes
const (
	// PresentModeFIFO waits for vertical blank, never tears
	PresentModeFIFO PresentMode = iota
	PresentModeFIFORelaxed
	PresentModeMailbox
	PresentModeImmediate
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeFIFO:
		return "FIFO"
	case PresentModeFIFORelaxed:
		return "FIFO_RELAXED"
	case PresentModeMailbox:
		return "MAILBOX"
	case PresentModeImmediate:
		return "IMMEDIATE"
	}
	return fmt.Sprintf("PresentMode(%d)", int(m))
}

// ImageUsage flags what a presentable image can be used for
type ImageUsage uint32

// Usage flags, combine with |
const (
	ImageUsageColorAttachment ImageUsage = 1 << iota
	ImageUsageTransferDst
	ImageUsageTransferSrc
	ImageUsageStorage
)

// Has reports if all bits of flag are set
func (u ImageUsage) Has(flag ImageUsage) bool {
	return u&flag == flag
}
