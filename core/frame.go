// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"

	"github.com/devblok/ember/gpu"
	glm "github.com/go-gl/mathgl/mgl32"
)

// FrameContext is what a FrameRenderer gets to know about the frame.
// It is a copy, changing it has no effect on the engine.
type FrameContext struct {
	// Number counts the frames rendered so far, starting at 0
	Number uint64

	// Delta is the time since the previous frame was started
	Delta time.Duration

	// Extent of the presentation chain
	Extent gpu.Extent

	// Images is the number of images in the presentation chain
	Images int

	// Projection is a perspective projection matching the
	// extent, with Y pointing down as Vulkan clip space has it
	Projection glm.Mat4
}

// projection builds a perspective matrix for the extent
func projection(cfg FrameConfiguration, extent gpu.Extent) glm.Mat4 {
	if extent.Height == 0 {
		return glm.Ident4()
	}
	aspect := float32(extent.Width) / float32(extent.Height)
	p := glm.Perspective(glm.DegToRad(cfg.FieldOfView), aspect, cfg.Near, cfg.Far)
	p[5] *= -1
	return p
}
