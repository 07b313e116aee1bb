// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core owns the engine lifecycle: it brings up the window, the GPU
// device and the presentation chain in order, runs the render loop and tears
// everything down again in reverse.
package core

import "fmt"

// FrameRenderer does the per frame rendering work.
// Render must not block for longer than a frame.
type FrameRenderer interface {
	Render(FrameContext)
}

// FrameRendererFunc adapts a function to FrameRenderer
type FrameRendererFunc func(FrameContext)

// Render implements FrameRenderer
func (f FrameRendererFunc) Render(ctx FrameContext) {
	f(ctx)
}

// noopRenderer draws nothing yet
type noopRenderer struct{}

func (noopRenderer) Render(FrameContext) {}

// State is a stage of the engine lifecycle
type State int

// Lifecycle states in the order an engine moves through them
const (
	Uninitialized State = iota
	Initialized
	Running
	ShuttingDown
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
