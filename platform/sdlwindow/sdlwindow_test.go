// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package sdlwindow

import (
	"testing"

	"github.com/devblok/ember/platform"
	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name  string
		event sdl.Event
		want  platform.Event
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, platform.Event{Type: platform.EventQuit}},
		{"escape", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, platform.Event{Type: platform.EventQuit}},
		{"escape released", &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}}, platform.Event{Type: platform.EventOther}},
		{"other key", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_a}}, platform.Event{Type: platform.EventOther}},
		{"minimized", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_MINIMIZED}, platform.Event{Type: platform.EventMinimized}},
		{"restored", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESTORED}, platform.Event{Type: platform.EventRestored}},
		{"resized", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 800, Data2: 600},
			platform.Event{Type: platform.EventResized, Width: 800, Height: 600}},
		{"focus", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_GAINED}, platform.Event{Type: platform.EventOther}},
		{"mouse", &sdl.MouseMotionEvent{}, platform.Event{Type: platform.EventOther}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, translate(c.event))
		})
	}
}

func TestWindowFlags(t *testing.T) {
	assert.Equal(t, uint32(sdl.WINDOW_VULKAN), windowFlags(platform.WindowVulkan))
	assert.Equal(t, uint32(sdl.WINDOW_VULKAN|sdl.WINDOW_HIDDEN), windowFlags(platform.WindowVulkan|platform.WindowHidden))
	assert.Equal(t, uint32(sdl.WINDOW_RESIZABLE), windowFlags(platform.WindowResizable))
	assert.Zero(t, windowFlags(0))
}
