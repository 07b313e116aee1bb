// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"

	"github.com/devblok/ember/core"
	"github.com/devblok/ember/gpu/vulkan"
	"github.com/devblok/ember/platform/sdlwindow"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	configuration := core.DefaultConfiguration()
	if configuration.Instance.Validation {
		log.SetLevel(log.DebugLevel)
	}

	windows, err := sdlwindow.Open()
	if err != nil {
		log.WithError(err).Error("window system unavailable")
		return 1
	}
	defer windows.Close()

	engine := core.NewEngine(configuration, core.Dependencies{
		Windows: windows,
		Driver:  vulkan.NewDriver(windows.InstanceProcAddr()),
		Logger:  log.StandardLogger(),
	})

	if err := engine.Init(); err != nil {
		log.WithError(err).Error("engine initialization failed")
		return 1
	}
	defer engine.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := engine.Run(ctx); err != nil {
		log.WithError(err).Error("render loop failed")
		return 1
	}
	return 0
}
