// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package platform describes the windowing service the engine runs on.
package platform

import "github.com/devblok/ember/gpu"

// WindowPosUndefined lets the window system place the window
const WindowPosUndefined int32 = 0x1FFF0000

// WindowFlags control how a window is created
type WindowFlags uint32

// Window flags, combine with |
const (
	WindowVulkan WindowFlags = 1 << iota
	WindowResizable
	WindowHidden
)

// WindowConfiguration is used to configure the window
type WindowConfiguration struct {
	Title  string
	X, Y   int32
	Width  uint32
	Height uint32
	Flags  WindowFlags
}

// EventType identifies what happened to the window
type EventType int

// Event types the engine reacts to. Everything else is EventOther.
const (
	EventOther EventType = iota
	EventQuit
	EventMinimized
	EventRestored
	EventResized
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventMinimized:
		return "minimized"
	case EventRestored:
		return "restored"
	case EventResized:
		return "resized"
	}
	return "other"
}

// Event is a single input or lifecycle event.
// Width and Height are only set for EventResized, in window coordinates.
type Event struct {
	Type   EventType
	Width  int32
	Height int32
}

// WindowSystem creates windows
type WindowSystem interface {
	CreateWindow(WindowConfiguration) (Window, error)
}

// Window is a native window with its event queue
type Window interface {
	// PollEvent returns the next pending event, false if the queue is empty
	PollEvent() (Event, bool)

	// Size returns the current client area size in pixels
	Size() (width, height uint32)

	// InstanceExtensions lists the instance extensions the window
	// needs to create a surface
	InstanceExtensions() []string

	// CreateSurface binds the window to the instance for presentation
	CreateSurface(gpu.Instance) (gpu.Surface, error)

	// Destroy destroys the native window
	Destroy()
}
