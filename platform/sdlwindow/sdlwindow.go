// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package sdlwindow is the SDL2 window system. SDL must be driven from the
// main OS thread, callers lock it with runtime.LockOSThread.
package sdlwindow

import (
	"unsafe"

	"github.com/devblok/ember/gpu"
	"github.com/devblok/ember/gpu/vulkan"
	"github.com/devblok/ember/platform"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	_ platform.WindowSystem = (*System)(nil)
	_ platform.Window       = (*Window)(nil)
)

// System is an initialized SDL video subsystem with the Vulkan library loaded
type System struct{}

// Open initializes SDL and loads the Vulkan library through it
func Open() (*System, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "sdl.Init()")
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl.VulkanLoadLibrary()")
	}
	return &System{}, nil
}

// InstanceProcAddr is the vkGetInstanceProcAddr SDL loaded
func (s *System) InstanceProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// Close unloads Vulkan and shuts SDL down
func (s *System) Close() {
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}

// CreateWindow implements platform.WindowSystem
func (s *System) CreateWindow(cfg platform.WindowConfiguration) (platform.Window, error) {
	window, err := sdl.CreateWindow(cfg.Title,
		cfg.X,
		cfg.Y,
		int32(cfg.Width),
		int32(cfg.Height),
		windowFlags(cfg.Flags))
	if err != nil {
		return nil, errors.Wrap(err, "sdl.CreateWindow()")
	}
	return &Window{window: window}, nil
}

func windowFlags(flags platform.WindowFlags) uint32 {
	var f uint32
	if flags&platform.WindowVulkan != 0 {
		f |= sdl.WINDOW_VULKAN
	}
	if flags&platform.WindowResizable != 0 {
		f |= sdl.WINDOW_RESIZABLE
	}
	if flags&platform.WindowHidden != 0 {
		f |= sdl.WINDOW_HIDDEN
	}
	return f
}

// Window is an SDL window. Its event queue is the process wide SDL queue.
type Window struct {
	window *sdl.Window
}

// PollEvent implements platform.Window
func (w *Window) PollEvent() (platform.Event, bool) {
	event := sdl.PollEvent()
	if event == nil {
		return platform.Event{}, false
	}
	return translate(event), true
}

func translate(event sdl.Event) platform.Event {
	switch et := event.(type) {
	case *sdl.QuitEvent:
		return platform.Event{Type: platform.EventQuit}
	case *sdl.KeyboardEvent:
		if et.Type == sdl.KEYDOWN && et.Keysym.Sym == sdl.K_ESCAPE {
			return platform.Event{Type: platform.EventQuit}
		}
	case *sdl.WindowEvent:
		switch et.Event {
		case sdl.WINDOWEVENT_MINIMIZED:
			return platform.Event{Type: platform.EventMinimized}
		case sdl.WINDOWEVENT_RESTORED:
			return platform.Event{Type: platform.EventRestored}
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return platform.Event{Type: platform.EventResized, Width: et.Data1, Height: et.Data2}
		}
	}
	return platform.Event{Type: platform.EventOther}
}

// Size implements platform.Window, in drawable pixels
func (w *Window) Size() (uint32, uint32) {
	width, height := w.window.VulkanGetDrawableSize()
	if width < 0 || height < 0 {
		return 0, 0
	}
	return uint32(width), uint32(height)
}

// InstanceExtensions implements platform.Window
func (w *Window) InstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// CreateSurface implements platform.Window
func (w *Window) CreateSurface(instance gpu.Instance) (gpu.Surface, error) {
	surface, err := w.window.VulkanCreateSurface(instance.Inner())
	if err != nil {
		return nil, errors.Wrap(err, "sdl.VulkanCreateSurface()")
	}
	return vulkan.SurfaceFromPointer(surface), nil
}

// Destroy implements platform.Window
func (w *Window) Destroy() {
	if w.window == nil {
		return
	}
	w.window.Destroy()
	w.window = nil
}
