// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"sync/atomic"

	"github.com/devblok/ember/device"
	"github.com/devblok/ember/gpu"
	"github.com/devblok/ember/platform"
	"github.com/devblok/ember/swapchain"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// live is 1 while some engine in the process is initialized
var live int32

// Dependencies are the collaborators an Engine is built on.
// Renderer, Time and Logger are optional.
type Dependencies struct {
	Windows  platform.WindowSystem
	Driver   gpu.Driver
	Renderer FrameRenderer
	Time     Time
	Logger   log.FieldLogger
}

// Engine owns the window, the GPU objects and the render loop.
// Only one engine may be initialized in a process at a time.
type Engine struct {
	configuration Configuration

	windows  platform.WindowSystem
	driver   gpu.Driver
	renderer FrameRenderer
	time     Time
	log      log.FieldLogger

	state   State
	claimed bool

	window    platform.Window
	instance  gpu.Instance
	surface   gpu.Surface
	selection device.Selection
	device    gpu.Device
	chain     *swapchain.Chain

	// releases are run last to first on teardown
	releases []release

	frameNumber   uint64
	visible       bool
	resizePending bool
}

type release struct {
	name string
	fn   func()
}

type stage struct {
	name string
	fn   func() error
}

// NewEngine creates an engine that is not yet initialised
func NewEngine(cfg Configuration, deps Dependencies) *Engine {
	e := &Engine{
		configuration: cfg,
		windows:       deps.Windows,
		driver:        deps.Driver,
		renderer:      deps.Renderer,
		time:          deps.Time,
		log:           deps.Logger,
		visible:       true,
	}
	if e.renderer == nil {
		e.renderer = noopRenderer{}
	}
	if e.time == nil {
		e.time = NewTime()
	}
	if e.log == nil {
		e.log = log.StandardLogger()
	}
	return e
}

// State returns the lifecycle state
func (e *Engine) State() State {
	return e.state
}

// Selection returns the physical device chosen during Init
func (e *Engine) Selection() device.Selection {
	return e.selection
}

// Chain returns the current presentation chain, nil before Init
func (e *Engine) Chain() *swapchain.Chain {
	return e.chain
}

// Init brings the engine up: window, instance, surface, device,
// presentation chain, then command and synchronization resources.
// If any stage fails, whatever was created is released again in reverse
// order and the engine stays uninitialized.
func (e *Engine) Init() error {
	if e.state != Uninitialized && e.state != Terminated {
		return ErrDoubleInitialization
	}
	if !atomic.CompareAndSwapInt32(&live, 0, 1) {
		return ErrDoubleInitialization
	}
	e.claimed = true

	for _, s := range e.stages() {
		if err := s.fn(); err != nil {
			e.log.WithError(err).WithField("stage", s.name).Error("initialization failed")
			e.unwind()
			e.unclaim()
			e.state = Uninitialized
			return errors.Wrapf(err, "%s stage", s.name)
		}
		e.log.WithField("stage", s.name).Debug("stage complete")
	}

	e.frameNumber = 0
	e.visible = true
	e.resizePending = false
	e.state = Initialized
	e.log.Info("engine initialized")
	return nil
}

// Cleanup releases everything Init created in reverse creation order.
// It does nothing unless Init succeeded and Cleanup has not run since.
func (e *Engine) Cleanup() {
	if e.state == Uninitialized || e.state == Terminated {
		return
	}
	e.state = ShuttingDown

	if e.device != nil {
		e.device.WaitIdle()
	}
	e.unwind()
	e.unclaim()

	e.state = Terminated
	e.log.Info("engine terminated")
}

func (e *Engine) stages() []stage {
	return []stage{
		{"window", e.initWindow},
		{"instance", e.initInstance},
		{"surface", e.initSurface},
		{"device", e.initDevice},
		{"swapchain", e.initSwapchain},
		{"commands", e.initCommands},
		{"sync", e.initSyncStructures},
	}
}

func (e *Engine) onRelease(name string, fn func()) {
	e.releases = append(e.releases, release{name: name, fn: fn})
}

func (e *Engine) unwind() {
	for idx := len(e.releases) - 1; idx >= 0; idx-- {
		r := e.releases[idx]
		e.log.WithField("resource", r.name).Debug("releasing")
		r.fn()
	}
	e.releases = nil
}

func (e *Engine) unclaim() {
	if e.claimed {
		atomic.StoreInt32(&live, 0)
		e.claimed = false
	}
}

func (e *Engine) initWindow() error {
	window, err := e.windows.CreateWindow(e.configuration.Window)
	if err != nil {
		return err
	}
	e.window = window
	e.onRelease("window", func() {
		e.window.Destroy()
		e.window = nil
	})
	return nil
}

func (e *Engine) initInstance() error {
	cfg := gpu.InstanceConfiguration{
		ApplicationName: e.configuration.Instance.ApplicationName,
		APIVersion:      e.configuration.Instance.APIVersion,
		Validation:      e.configuration.Instance.Validation,
		Extensions:      e.window.InstanceExtensions(),
	}

	instance, err := device.NewInstance(e.driver, cfg, debugMessenger(e.log.WithField("source", "validation")), e.log.WithField("stage", "instance"))
	if err != nil {
		return err
	}
	e.instance = instance
	e.onRelease("instance", func() {
		e.instance.Destroy()
		e.instance = nil
	})
	if cfg.Validation {
		e.onRelease("debug messenger", func() {
			e.instance.DestroyDebugMessenger()
		})
	}
	return nil
}

func (e *Engine) initSurface() error {
	surface, err := swapchain.CreateSurface(e.instance, e.window)
	if err != nil {
		return err
	}
	e.surface = surface
	e.onRelease("surface", func() {
		e.instance.DestroySurface(e.surface)
		e.surface = nil
	})
	return nil
}

func (e *Engine) initDevice() error {
	selection, dev, err := device.Negotiate(e.instance, e.configuration.Device, e.surface, e.log.WithField("stage", "device"))
	if err != nil {
		return err
	}
	e.selection = selection
	e.device = dev
	e.onRelease("device", func() {
		e.device.Destroy()
		e.device = nil
	})
	return nil
}

func (e *Engine) initSwapchain() error {
	width, height := e.window.Size()
	chain, err := swapchain.New(e.device, e.surface, width, height, e.configuration.Presentation, e.log.WithField("stage", "swapchain"))
	if err != nil {
		return err
	}
	e.chain = chain
	e.onRelease("swapchain", func() {
		e.chain.Destroy()
		e.chain = nil
	})
	return nil
}

// initCommands will create the command pools and buffers
func (e *Engine) initCommands() error {
	return nil
}

// initSyncStructures will create the per frame fences and semaphores
func (e *Engine) initSyncStructures() error {
	return nil
}

// recreateChain replaces the presentation chain with one of the given extent
func (e *Engine) recreateChain(extent gpu.Extent) error {
	e.device.WaitIdle()
	e.chain.Destroy()
	e.chain = nil

	chain, err := swapchain.New(e.device, e.surface, extent.Width, extent.Height, e.configuration.Presentation, e.log.WithField("stage", "resize"))
	if err != nil {
		return err
	}
	e.chain = chain
	e.log.WithFields(log.Fields{
		"width":  chain.Extent.Width,
		"height": chain.Extent.Height,
	}).Debug("presentation chain recreated")
	return nil
}
