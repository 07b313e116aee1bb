// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"context"
	"time"

	"github.com/devblok/ember/gpu"
	"github.com/devblok/ember/platform"
	"github.com/pkg/errors"
)

// Run enters the render loop and returns once a quit event arrives or
// ctx is done. Every iteration drains all pending window events first.
// While the window is minimized the loop sleeps instead of rendering.
func (e *Engine) Run(ctx context.Context) error {
	if e.state != Initialized {
		return ErrNotInitialized
	}
	e.state = Running
	defer func() {
		e.state = ShuttingDown
	}()

	last := e.time.Now()
	for {
		if quit := e.drainEvents(); quit {
			e.log.Info("quit requested")
			return nil
		}
		if ctx.Err() != nil {
			e.log.WithError(ctx.Err()).Info("render loop cancelled")
			return nil
		}

		if !e.visible {
			// throttle the speed to avoid the endless spinning
			e.time.Sleep(e.configuration.Time.MinimizedDelay)
			last = e.time.Now()
			continue
		}

		if e.resizePending {
			e.resizePending = false
			// events carry window coordinates, the chain wants drawable pixels
			if width, height := e.window.Size(); width > 0 && height > 0 {
				if err := e.recreateChain(gpu.Extent{Width: width, Height: height}); err != nil {
					return errors.Wrap(err, "resize")
				}
			}
		}

		now := e.time.Now()
		e.draw(now.Sub(last))
		last = now
	}
}

// drainEvents handles every pending event, reporting if quit was requested
func (e *Engine) drainEvents() bool {
	var quit bool
	for {
		ev, ok := e.window.PollEvent()
		if !ok {
			return quit
		}

		switch ev.Type {
		case platform.EventQuit:
			quit = true
		case platform.EventMinimized:
			e.visible = false
			e.log.Debug("window minimized, rendering paused")
		case platform.EventRestored:
			e.visible = true
			e.log.Debug("window restored, rendering resumed")
		case platform.EventResized:
			if ev.Width > 0 && ev.Height > 0 {
				e.resizePending = true
			}
		}
	}
}

func (e *Engine) draw(delta time.Duration) {
	ctx := FrameContext{
		Number:     e.frameNumber,
		Delta:      delta,
		Extent:     e.chain.Extent,
		Images:     e.chain.Len(),
		Projection: projection(e.configuration.Frame, e.chain.Extent),
	}
	e.renderer.Render(ctx)
	e.frameNumber++
}
