// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gputest

import (
	"github.com/devblok/ember/gpu"
	"github.com/devblok/ember/platform"
	"github.com/pkg/errors"
)

// WindowSystem is a platform.WindowSystem creating scripted windows
type WindowSystem struct {
	Recorder *Recorder

	// Events is handed to every created window, see Window
	Events [][]platform.Event

	// Scale is the number of drawable pixels per window coordinate,
	// 0 counts as 1
	Scale uint32

	CreateErr  error
	SurfaceErr error

	window *Window
}

// CreateWindow implements platform.WindowSystem
func (ws *WindowSystem) CreateWindow(cfg platform.WindowConfiguration) (platform.Window, error) {
	if ws.CreateErr != nil {
		return nil, ws.CreateErr
	}
	ws.Recorder.record("window.create")
	ws.window = &Window{
		system:        ws,
		Configuration: cfg,
		Events:        ws.Events,
		width:         cfg.Width,
		height:        cfg.Height,
		live:          true,
	}
	return ws.window, nil
}

// Window returns the most recently created window
func (ws *WindowSystem) Window() *Window {
	return ws.window
}

// Window is a scripted platform.Window. Each element of Events is one
// batch: PollEvent drains the batch, then reports an empty queue once and
// moves on to the next batch. After the last batch the window reports quit,
// so a loop driven by it always terminates.
type Window struct {
	system *WindowSystem

	// Configuration the window was created with
	Configuration platform.WindowConfiguration

	Events [][]platform.Event

	// Drains counts how many times the queue was reported empty
	Drains int

	batch  int
	next   int
	width  uint32
	height uint32
	live   bool
}

// PollEvent implements platform.Window
func (w *Window) PollEvent() (platform.Event, bool) {
	if w.batch >= len(w.Events) {
		if w.next == 0 {
			w.next++
			return platform.Event{Type: platform.EventQuit}, true
		}
		w.next = 0
		w.Drains++
		return platform.Event{}, false
	}

	current := w.Events[w.batch]
	if w.next < len(current) {
		ev := current[w.next]
		w.next++
		if ev.Type == platform.EventResized && ev.Width > 0 && ev.Height > 0 {
			w.width, w.height = uint32(ev.Width), uint32(ev.Height)
		}
		return ev, true
	}
	w.batch++
	w.next = 0
	w.Drains++
	return platform.Event{}, false
}

// Size implements platform.Window, in window coordinates times Scale
func (w *Window) Size() (uint32, uint32) {
	scale := w.system.Scale
	if scale == 0 {
		scale = 1
	}
	return w.width * scale, w.height * scale
}

// InstanceExtensions implements platform.Window
func (w *Window) InstanceExtensions() []string {
	return []string{"VK_KHR_surface", "VK_KHR_test_surface"}
}

// CreateSurface implements platform.Window
func (w *Window) CreateSurface(inst gpu.Instance) (gpu.Surface, error) {
	if w.system.SurfaceErr != nil {
		return nil, w.system.SurfaceErr
	}
	i, ok := inst.(*Instance)
	if !ok {
		return nil, errors.New("gputest: window can only bind to a gputest instance")
	}
	return i.NewSurface(), nil
}

// Destroy implements platform.Window
func (w *Window) Destroy() {
	if !w.live {
		return
	}
	w.live = false
	w.system.Recorder.record("window.destroy")
}
